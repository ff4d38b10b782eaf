package bmt

import (
	"fmt"
	"strings"

	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

// OpKind identifies an emitted operation.
type OpKind string

const (
	// OpSwap exchanges two qubits. U sits on the control side of a native edge.
	OpSwap OpKind = "swap"
	// OpCNOT is a CNOT executed in its native direction.
	OpCNOT OpKind = "cx"
	// OpReversedCNOT is a CNOT executed against the native direction.
	OpReversedCNOT OpKind = "rcx"
)

// Op is one operation over virtual qubits.
type Op struct {
	Kind OpKind `json:"kind" bson:"kind"`
	U    int    `json:"u" bson:"u"`
	V    int    `json:"v" bson:"v"`
}

func (o Op) String() string {
	return fmt.Sprintf("%s %d,%d", o.Kind, o.U, o.V)
}

// Step holds the operations replacing one two-qubit instruction.
type Step struct {
	Handle int  `json:"handle" bson:"handle"`
	Ops    []Op `json:"ops" bson:"ops"`
}

// Solution is the result of an allocation.
type Solution struct {
	// Initial places every virtual qubit, ancillas included, on a physical
	// qubit. It is a full permutation of the device.
	Initial perm.Mapping `json:"initial" bson:"initial"`

	// Steps lists the operations of every two-qubit instruction in order.
	Steps []Step `json:"steps" bson:"steps"`

	Cost      int `json:"cost" bson:"cost"`
	Swaps     int `json:"swaps" bson:"swaps"`
	Reversals int `json:"reversals" bson:"reversals"`
	Layers    int `json:"layers" bson:"layers"`
}

// PhysicalOp is an operation over physical qubits.
type PhysicalOp struct {
	Handle int    `json:"handle"`
	Kind   OpKind `json:"kind"`
	U      int    `json:"u"`
	V      int    `json:"v"`
}

// Replay simulates the solution on g and returns its operations over
// physical qubits. It fails on the first illegal operation.
func (s *Solution) Replay(g *coupling.Graph) ([]PhysicalOp, error) {
	if len(s.Initial) != g.Size() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"initial mapping covers %d qubits, device has %d", len(s.Initial), g.Size())
	}
	if err := s.Initial.Validate(g.Size()); err != nil {
		return nil, err
	}

	pos := s.Initial.Clone()
	var out []PhysicalOp
	for _, st := range s.Steps {
		for _, op := range st.Ops {
			if op.U < 0 || op.U >= len(pos) || op.V < 0 || op.V >= len(pos) {
				return nil, errors.New(errors.ErrCodeInvalidInput, "operation %s out of range", op).
					With("instruction", st.Handle)
			}
			u, v := pos[op.U], pos[op.V]
			legal := false
			switch op.Kind {
			case OpSwap, OpCNOT:
				legal = g.HasEdge(u, v)
			case OpReversedCNOT:
				legal = g.HasEdge(v, u)
			}
			if !legal {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"%s on physical (%d,%d) is not executable", op.Kind, u, v).
					With("instruction", st.Handle)
			}
			out = append(out, PhysicalOp{Handle: st.Handle, Kind: op.Kind, U: u, V: v})
			if op.Kind == OpSwap {
				pos[op.U], pos[op.V] = v, u
			}
		}
	}
	return out, nil
}

// Verify reports whether every operation is executable on g.
func (s *Solution) Verify(g *coupling.Graph) error {
	_, err := s.Replay(g)
	return err
}

// Final returns the placement after every SWAP has executed.
func (s *Solution) Final() perm.Mapping {
	pos := s.Initial.Clone()
	for _, st := range s.Steps {
		for _, op := range st.Ops {
			if op.Kind == OpSwap {
				pos[op.U], pos[op.V] = pos[op.V], pos[op.U]
			}
		}
	}
	return pos
}

func (s *Solution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "initial %s\n", s.Initial)
	for _, st := range s.Steps {
		ops := make([]string, len(st.Ops))
		for i, op := range st.Ops {
			ops[i] = op.String()
		}
		fmt.Fprintf(&b, "%d: %s\n", st.Handle, strings.Join(ops, "; "))
	}
	fmt.Fprintf(&b, "cost %d (swaps %d, reversals %d)", s.Cost, s.Swaps, s.Reversals)
	return b.String()
}
