package perm

import (
	"fmt"
	"strings"
)

// Swap exchanges the contents of physical qubits U and V.
type Swap struct {
	U int `json:"u"`
	V int `json:"v"`
}

func (s Swap) String() string {
	return fmt.Sprintf("(%d,%d)", s.U, s.V)
}

// SwapSeq is an ordered list of swaps.
type SwapSeq []Swap

// Apply replays the swaps on a in place.
func (seq SwapSeq) Apply(a Assignment) {
	for _, s := range seq {
		a[s.U], a[s.V] = a[s.V], a[s.U]
	}
}

func (seq SwapSeq) String() string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
