package bmt

import (
	"strings"

	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
)

// symmetric gates act identically with their operands exchanged.
var symmetric = map[string]bool{
	"cz": true, "cp": true, "cu1": true, "swap": true, "iswap": true,
	"rxx": true, "ryy": true, "rzz": true,
}

// Rewrite returns c as executed on g: gates act on physical qubits, SWAPs
// are inserted as "swap" gates, reversed CNOTs are conjugated with Hadamards
// and reversed symmetric gates have their operands exchanged. Any other
// reversed gate fails with ErrCodeUnsupported. The result has one qubit per
// physical qubit.
func (s *Solution) Rewrite(c *circuit.Circuit, g *coupling.Graph) (*circuit.Circuit, error) {
	if err := s.Verify(g); err != nil {
		return nil, err
	}
	steps := make(map[int]Step, len(s.Steps))
	for _, st := range s.Steps {
		steps[st.Handle] = st
	}

	pos := s.Initial.Clone()
	out := &circuit.Circuit{NumQubits: g.Size()}
	emit := func(name string, qubits ...int) {
		out.Gates = append(out.Gates, circuit.Gate{Name: name, Qubits: qubits})
	}
	place := func(gate circuit.Gate) circuit.Gate {
		qs := make([]int, len(gate.Qubits))
		for i, q := range gate.Qubits {
			qs[i] = pos[q]
		}
		return circuit.Gate{Name: gate.Name, Qubits: qs, Params: gate.Params}
	}

	for i, gate := range c.Gates {
		st, ok := steps[i]
		if !ok {
			if len(gate.Dependencies()) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "no operations for gate %d (%s)", i, gate.Name)
			}
			out.Gates = append(out.Gates, place(gate))
			continue
		}
		for _, op := range st.Ops {
			switch op.Kind {
			case OpSwap:
				emit("swap", pos[op.U], pos[op.V])
				pos[op.U], pos[op.V] = pos[op.V], pos[op.U]
			case OpCNOT:
				out.Gates = append(out.Gates, place(gate))
			case OpReversedCNOT:
				name := strings.ToLower(gate.Name)
				u, v := pos[op.U], pos[op.V]
				if symmetric[name] && len(gate.Qubits) == 2 {
					out.Gates = append(out.Gates, circuit.Gate{Name: gate.Name, Qubits: []int{v, u}, Params: gate.Params})
					continue
				}
				if name != "cx" && name != "cnot" {
					return nil, errors.New(errors.ErrCodeUnsupported,
						"gate %d (%s) needs reversing and has no known conjugation", i, gate.Name).
						With("instruction", i)
				}
				emit("h", u)
				emit("h", v)
				emit(gate.Name, v, u)
				emit("h", u)
				emit("h", v)
			}
		}
	}
	return out, nil
}
