package bmt

import (
	"context"

	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

// search partitions the stream into layers of candidate mappings over width
// virtual qubits.
func (a *Allocator) search(ctx context.Context, s circuit.Stream, width int) ([]Layer, error) {
	fresh := func() []Candidate {
		return []Candidate{{Mapping: perm.NewMapping(width)}}
	}

	var layers []Layer
	cands := fresh()
	mapped := make([]bool, width)
	var handles []int
	first := true

	closeLayer := func() {
		layers = append(layers, Layer{Candidates: cands, Instructions: handles})
		a.opts.Hooks.OnLayerClosed(ctx, len(layers)-1, len(cands), len(handles))
		a.opts.Logger.Debug("layer closed", "layer", len(layers)-1, "candidates", len(cands), "instructions", len(handles))
	}

	for _, in := range s.Instructions {
		switch len(in.Deps) {
		case 0:
			continue
		case 1:
		default:
			return nil, errors.New(errors.ErrCodeUnsupportedMultiDependency,
				"instruction has %d two-qubit dependencies", len(in.Deps)).
				With("instruction", in.Handle)
		}
		dep := in.Deps[0]

		next := a.extend(dep, mapped, cands, first)
		if len(next) == 0 {
			closeLayer()
			cands = fresh()
			mapped = make([]bool, width)
			handles = nil
			next = a.extend(dep, mapped, cands, true)
			if len(next) == 0 {
				return nil, errors.New(errors.ErrCodeUnreachableMapping,
					"no candidate satisfies dependency %s", dep).
					With("layer", len(layers)).
					With("instruction", in.Handle)
			}
		}
		first = false

		cands = next
		mapped[dep.From] = true
		mapped[dep.To] = true
		handles = append(handles, in.Handle)
	}
	closeLayer()
	return layers, nil
}

// extend returns the candidates satisfying dep that derive from cands.
// mapped is shared by every candidate of the current layer.
func (a *Allocator) extend(dep circuit.Dependency, mapped []bool, cands []Candidate, unboundedChildren bool) []Candidate {
	g := a.g
	size := g.Size()
	from, to := dep.From, dep.To

	childLimit := a.opts.MaxChildren
	if unboundedChildren {
		childLimit = 0
	}

	var out []Candidate
	for _, c := range cands {
		assigned := c.Mapping.Inverse(size)

		var pairs [][2]int
		switch {
		case mapped[from] && mapped[to]:
			u, v := c.Mapping[from], c.Mapping[to]
			if g.Coupled(u, v) {
				pairs = append(pairs, [2]int{u, v})
			}
		case !mapped[from] && !mapped[to]:
			for u := range size {
				if assigned[u] != perm.Undef {
					continue
				}
				for _, v := range g.Adj(u) {
					if assigned[v] == perm.Undef {
						pairs = append(pairs, [2]int{u, v})
					}
				}
			}
		default:
			fixed := from
			if !mapped[from] {
				fixed = to
			}
			u := c.Mapping[fixed]
			for _, v := range g.Adj(u) {
				if assigned[v] != perm.Undef {
					continue
				}
				if fixed == from {
					pairs = append(pairs, [2]int{u, v})
				} else {
					pairs = append(pairs, [2]int{v, u})
				}
			}
		}

		children := make([]Candidate, 0, len(pairs))
		for _, p := range pairs {
			m := c.Mapping.Clone()
			m[from], m[to] = p[0], p[1]
			cost := c.Cost
			if !g.HasEdge(p[0], p[1]) {
				cost++
			}
			children = append(children, Candidate{Mapping: m, Cost: cost})
		}
		out = append(out, a.opts.ChildrenSelector.Select(childLimit, children)...)
	}
	return a.opts.PartialSelector.Select(a.opts.MaxPartial, out)
}
