package tokenswap

import (
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

// MaxExactQubits bounds the device size Exact accepts.
const MaxExactQubits = 8

// Exact finds minimum swap sequences by breadth-first search over placements.
type Exact struct {
	g     *coupling.Graph
	pairs []perm.Swap
}

// NewExact returns an exact finder over g. It fails for devices larger than
// MaxExactQubits, whose placement space exceeds MaxExactQubits! states.
func NewExact(g *coupling.Graph) (*Exact, error) {
	if g.Size() > MaxExactQubits {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"exact token swapping supports at most %d qubits (%d states), device has %d",
			MaxExactQubits, perm.Factorial(MaxExactQubits), g.Size())
	}
	e := &Exact{g: g}
	for u := range g.Size() {
		for _, v := range g.Adj(u) {
			if u < v {
				e.pairs = append(e.pairs, perm.Swap{U: u, V: v})
			}
		}
	}
	return e, nil
}

// Find implements Finder.
func (e *Exact) Find(from, to perm.Assignment) (perm.SwapSeq, error) {
	// Validation and reachability are shared with Approx.
	if _, err := newProblem(e.g, from, to); err != nil {
		return nil, err
	}

	n := e.g.Size()
	done := func(state []byte) bool {
		for q, tok := range to {
			if tok != perm.Undef && int(state[q]) != tok+1 {
				return false
			}
		}
		return true
	}

	// Tokens are shifted by one so holes encode as 0.
	start := make([]byte, n)
	for p, tok := range from {
		if tok >= 255 {
			return nil, errors.New(errors.ErrCodeUnsupported, "token %d too large for exact search", tok)
		}
		start[p] = byte(tok + 1)
	}
	if done(start) {
		return perm.SwapSeq{}, nil
	}

	nodes := []searchNode{{parent: -1}}
	states := [][]byte{start}
	seen := map[string]bool{string(start): true}

	for head := 0; head < len(states); head++ {
		cur := states[head]
		for _, s := range e.pairs {
			if cur[s.U] == 0 && cur[s.V] == 0 {
				continue
			}
			next := append([]byte(nil), cur...)
			next[s.U], next[s.V] = next[s.V], next[s.U]
			key := string(next)
			if seen[key] {
				continue
			}
			seen[key] = true
			nodes = append(nodes, searchNode{parent: head, swap: s})
			states = append(states, next)
			if done(next) {
				return e.trace(nodes, len(nodes)-1), nil
			}
		}
	}
	return nil, errors.New(errors.ErrCodeUnreachableMapping, "target placement is unreachable")
}

type searchNode struct {
	parent int
	swap   perm.Swap
}

func (e *Exact) trace(nodes []searchNode, i int) perm.SwapSeq {
	var seq perm.SwapSeq
	for ; nodes[i].parent >= 0; i = nodes[i].parent {
		seq = append(seq, nodes[i].swap)
	}
	for l, r := 0, len(seq)-1; l < r; l, r = l+1, r-1 {
		seq[l], seq[r] = seq[r], seq[l]
	}
	return seq
}
