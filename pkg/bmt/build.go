package bmt

import (
	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

// frame tracks where placeholder ("dummy") qubits live while swaps execute.
// Dummies start on the physical qubit of the same index and are bound to
// virtual qubits as those become placed.
type frame struct {
	realToDummy perm.Mapping
	dummyToPhys []int
}

func newFrame(initial perm.Mapping, size int) *frame {
	f := &frame{realToDummy: perm.NewMapping(size), dummyToPhys: perm.Seq(size)}
	copy(f.realToDummy, initial)
	return f
}

// build replays the stream against the chosen mapping sequence.
func (a *Allocator) build(s circuit.Stream, path *Path) (*Solution, error) {
	g := a.g
	size := g.Size()
	costs := a.opts.Costs

	idx := 0
	mapping := path.Mappings[0]
	fr := newFrame(mapping, size)

	sol := &Solution{}
	for _, in := range s.Instructions {
		if len(in.Deps) == 0 {
			continue
		}
		dep := in.Deps[0]
		step := Step{Handle: in.Handle}

		u, v := mapping[dep.From], mapping[dep.To]
		for u == perm.Undef || v == perm.Undef || !g.Coupled(u, v) {
			idx++
			if idx >= len(path.Mappings) {
				return nil, errors.New(errors.ErrCodeInsufficientMappings,
					"mapping sequence exhausted at dependency %s", dep).
					With("instruction", in.Handle).
					With("mappings", len(path.Mappings))
			}

			physToDummy := perm.Mapping(fr.dummyToPhys).Inverse(size)
			for _, sw := range path.Swaps[idx-1] {
				x, y := physToDummy[sw.U], physToDummy[sw.V]
				if !g.HasEdge(sw.U, sw.V) {
					x, y = y, x
				}
				physToDummy[sw.U], physToDummy[sw.V] = physToDummy[sw.V], physToDummy[sw.U]
				fr.dummyToPhys[x], fr.dummyToPhys[y] = fr.dummyToPhys[y], fr.dummyToPhys[x]
				step.Ops = append(step.Ops, Op{Kind: OpSwap, U: x, V: y})
				sol.Swaps++
			}

			prev := mapping
			mapping = path.Mappings[idx]
			for q, p := range mapping {
				if prev[q] == perm.Undef && p != perm.Undef {
					fr.realToDummy[q] = physToDummy[p]
				}
			}
			u, v = mapping[dep.From], mapping[dep.To]
		}

		if g.HasEdge(u, v) {
			step.Ops = append(step.Ops, Op{Kind: OpCNOT, U: dep.From, V: dep.To})
		} else {
			step.Ops = append(step.Ops, Op{Kind: OpReversedCNOT, U: dep.From, V: dep.To})
			sol.Reversals++
		}
		sol.Steps = append(sol.Steps, step)
	}

	initial, err := fr.realToDummy.Fill(size)
	if err != nil {
		return nil, err
	}
	dummyToReal := initial.Inverse(size)
	for i := range sol.Steps {
		for k, op := range sol.Steps[i].Ops {
			if op.Kind == OpSwap {
				sol.Steps[i].Ops[k].U = dummyToReal[op.U]
				sol.Steps[i].Ops[k].V = dummyToReal[op.V]
			}
		}
	}

	sol.Initial = initial
	sol.Layers = len(path.Mappings)
	sol.Cost = costs.Total(sol.Swaps, sol.Reversals)
	return sol, nil
}
