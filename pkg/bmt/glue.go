package bmt

import (
	"math"

	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

// glue runs the dynamic program over layers and bridges the chosen mapping
// sequence with swaps.
func (a *Allocator) glue(layers []Layer) (*Path, error) {
	costs := a.opts.Costs
	table := make([][]TracebackInfo, len(layers))

	table[0] = make([]TracebackInfo, len(layers[0].Candidates))
	for j, c := range layers[0].Candidates {
		table[0][j] = TracebackInfo{Mapping: c.Mapping, Parent: -1, MappingCost: c.Cost}
	}

	for i := 1; i < len(layers); i++ {
		prev := table[i-1]
		table[i] = make([]TracebackInfo, len(layers[i].Candidates))
		for j, c := range layers[i].Candidates {
			best := TracebackInfo{Parent: -1}
			bestScore := math.MaxInt
			for k, p := range prev {
				m := a.opts.Propagator.Propagate(p.Mapping, c.Mapping)
				mappingCost := p.MappingCost + c.Cost
				estimate := a.opts.Estimator.Estimate(p.Mapping, m) + p.SwapEstimate
				if score := costs.Objective(mappingCost, estimate); score < bestScore {
					bestScore = score
					best = TracebackInfo{Mapping: m, Parent: k, MappingCost: mappingCost, SwapEstimate: estimate}
				}
			}
			table[i][j] = best
		}
	}

	terminals := a.opts.SequenceSelector.Select(table, costs)
	if len(terminals) == 0 {
		return nil, errors.New(errors.ErrCodeUnreachableMapping, "no terminal candidate selected").
			With("layer", len(layers)-1)
	}

	var best *Path
	for _, t := range terminals {
		if t < 0 || t >= len(table[len(table)-1]) {
			return nil, errors.New(errors.ErrCodeInternal, "sequence selector returned index %d out of range", t)
		}
		path, err := a.bridge(table, t)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.Wrap(code, err, "bridging mapping sequence").With("terminal", t)
		}
		if best == nil || path.Cost < best.Cost {
			best = path
		}
	}
	return best, nil
}

// bridge traces terminal t back to the first layer and computes the swaps
// between consecutive mappings.
func (a *Allocator) bridge(table [][]TracebackInfo, t int) (*Path, error) {
	n := len(table)
	mappings := make([]perm.Mapping, n)
	for i, j := n-1, t; i >= 0; i-- {
		info := table[i][j]
		if info.Mapping == nil {
			return nil, errors.New(errors.ErrCodeUnreachableMapping, "no viable predecessor").With("layer", i)
		}
		mappings[i] = info.Mapping
		j = info.Parent
	}

	path := &Path{Mappings: mappings, Swaps: make([]perm.SwapSeq, n-1)}
	for i := 0; i+1 < n; i++ {
		seq, err := a.TransformingSwaps(mappings[i], mappings[i+1])
		if err != nil {
			return nil, err
		}
		path.Swaps[i] = seq
		path.SwapCount += len(seq)
	}
	path.Reversals = table[n-1][t].MappingCost
	path.Cost = a.opts.Costs.Total(path.SwapCount, path.Reversals)
	return path, nil
}

// TransformingSwaps returns the swaps that move every qubit placed by from
// to its position in to. Qubits placed only by to are ignored; a qubit placed
// by from but not by to is a NonMonotonicMapping error.
func (a *Allocator) TransformingSwaps(from, to perm.Mapping) (perm.SwapSeq, error) {
	if len(from) != len(to) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mapping widths %d and %d differ", len(from), len(to))
	}
	target := to.Clone()
	for v := range from {
		switch {
		case from[v] != perm.Undef && to[v] == perm.Undef:
			return nil, errors.New(errors.ErrCodeNonMonotonicMapping,
				"qubit %d is placed before the transition but not after", v)
		case from[v] == perm.Undef:
			target[v] = perm.Undef
		}
	}
	size := a.g.Size()
	return a.opts.Finder.Find(from.Inverse(size), target.Inverse(size))
}
