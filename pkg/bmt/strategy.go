package bmt

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/perm"
)

// =============================================================================
// Candidate Selection
// =============================================================================

// CandidateSelector keeps at most limit candidates. A limit <= 0 keeps all.
// Implementations must not modify the input slice.
type CandidateSelector interface {
	Select(limit int, cands []Candidate) []Candidate
}

// FirstSelector keeps the first candidates in generation order.
type FirstSelector struct{}

// Select implements CandidateSelector.
func (FirstSelector) Select(limit int, cands []Candidate) []Candidate {
	if limit <= 0 || len(cands) <= limit {
		return cands
	}
	return cands[:limit:limit]
}

// CheapestSelector keeps the lowest-cost candidates, ties in generation order.
type CheapestSelector struct{}

// Select implements CandidateSelector.
func (CheapestSelector) Select(limit int, cands []Candidate) []Candidate {
	if limit <= 0 || len(cands) <= limit {
		return cands
	}
	sorted := slices.Clone(cands)
	slices.SortStableFunc(sorted, func(a, b Candidate) int { return cmp.Compare(a.Cost, b.Cost) })
	return sorted[:limit:limit]
}

// RandomSelector samples candidates without replacement, weighting each by
// 1/(1+cost). Selected candidates keep their generation order. The random
// stream restarts from Seed on every allocation.
type RandomSelector struct {
	Seed uint64
	rng  *rand.Rand
}

// NewRandomSelector returns a selector seeded with seed.
func NewRandomSelector(seed uint64) *RandomSelector {
	s := &RandomSelector{Seed: seed}
	s.Reset()
	return s
}

// Reset restarts the random stream.
func (s *RandomSelector) Reset() {
	s.rng = rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
}

// Select implements CandidateSelector.
func (s *RandomSelector) Select(limit int, cands []Candidate) []Candidate {
	if limit <= 0 || len(cands) <= limit {
		return cands
	}
	if s.rng == nil {
		s.Reset()
	}
	weights := make([]float64, len(cands))
	total := 0.0
	for i, c := range cands {
		weights[i] = 1 / float64(1+c.Cost)
		total += weights[i]
	}
	picked := make([]int, 0, limit)
	for range limit {
		r := s.rng.Float64() * total
		i := 0
		for ; i < len(weights)-1; i++ {
			if weights[i] == 0 {
				continue
			}
			if r < weights[i] {
				break
			}
			r -= weights[i]
		}
		// Rounding can land on an exhausted tail entry.
		for weights[i] == 0 {
			i--
		}
		total -= weights[i]
		weights[i] = 0
		picked = append(picked, i)
	}
	slices.Sort(picked)
	out := make([]Candidate, len(picked))
	for k, i := range picked {
		out[k] = cands[i]
	}
	return out
}

// =============================================================================
// Cost Estimation
// =============================================================================

// CostEstimator estimates the swaps needed to go from one mapping to another.
type CostEstimator interface {
	Estimate(from, to perm.Mapping) int
}

// GeoDistance sums, over qubits placed by both mappings, the hop distance
// between their positions.
type GeoDistance struct {
	dist    [][]int
	penalty int
}

// NewGeoDistance returns a geodesic estimator for g. Positions in different
// components cost one more than the device size.
func NewGeoDistance(g *coupling.Graph) *GeoDistance {
	return &GeoDistance{dist: g.Distances(), penalty: g.Size() + 1}
}

// Estimate implements CostEstimator.
func (e *GeoDistance) Estimate(from, to perm.Mapping) int {
	total := 0
	for v, p := range from {
		if p == perm.Undef || to[v] == perm.Undef {
			continue
		}
		d := e.dist[p][to[v]]
		if d == coupling.Unreachable {
			d = e.penalty
		}
		total += d
	}
	return total
}

// =============================================================================
// Live Qubit Propagation
// =============================================================================

// LiveQubitPropagator returns a copy of to in which every qubit placed by
// from is placed as well. It must not modify its arguments.
type LiveQubitPropagator interface {
	Propagate(from, to perm.Mapping) perm.Mapping
}

// GeoNearest keeps a live qubit where it is if that position is free in the
// next mapping, and otherwise moves it to the nearest free position.
type GeoNearest struct {
	g *coupling.Graph
}

// NewGeoNearest returns a nearest-free-position propagator for g.
func NewGeoNearest(g *coupling.Graph) *GeoNearest {
	return &GeoNearest{g: g}
}

// Propagate implements LiveQubitPropagator.
func (p *GeoNearest) Propagate(from, to perm.Mapping) perm.Mapping {
	out := to.Clone()
	taken := make([]bool, p.g.Size())
	for _, q := range out {
		if q != perm.Undef {
			taken[q] = true
		}
	}
	free := func(q int) bool { return !taken[q] }
	for v, q := range from {
		if q == perm.Undef || out[v] != perm.Undef {
			continue
		}
		if taken[q] {
			q = p.g.Nearest(q, free)
			if q < 0 {
				q = slices.Index(taken, false)
			}
		}
		out[v] = q
		taken[q] = true
	}
	return out
}

// =============================================================================
// Terminal Selection
// =============================================================================

// SequenceSelector chooses which candidates of the last layer to trace back.
// It returns indices into table[len(table)-1].
type SequenceSelector interface {
	Select(table [][]TracebackInfo, costs CostModel) []int
}

// BestSelector picks the single terminal with the lowest objective. The
// first minimum wins.
type BestSelector struct{}

// Select implements SequenceSelector.
func (BestSelector) Select(table [][]TracebackInfo, costs CostModel) []int {
	return TopKSelector{K: 1}.Select(table, costs)
}

// TopKSelector picks the K terminals with the lowest objective, ties in
// index order. Each is bridged with real swaps and the cheapest wins.
type TopKSelector struct {
	K int
}

// Select implements SequenceSelector.
func (s TopKSelector) Select(table [][]TracebackInfo, costs CostModel) []int {
	if len(table) == 0 {
		return nil
	}
	last := table[len(table)-1]
	idx := make([]int, 0, len(last))
	for i, info := range last {
		if info.Mapping != nil {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(
			costs.Objective(last[a].MappingCost, last[a].SwapEstimate),
			costs.Objective(last[b].MappingCost, last[b].SwapEstimate))
	})
	k := max(s.K, 1)
	if len(idx) > k {
		idx = idx[:k]
	}
	return idx
}

// resetter is implemented by stateful strategies that must restart on every
// allocation to keep runs reproducible.
type resetter interface {
	Reset()
}
