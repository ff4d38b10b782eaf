package bmt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

func newAllocator(t *testing.T, opts Options) *Allocator {
	t.Helper()
	a, err := New(ibmqx2(t), opts)
	require.NoError(t, err)
	return a
}

func TestSearchLayersCoverStream(t *testing.T) {
	a := newAllocator(t, Options{MaxPartial: 8})
	s := randomStream(9, 5, 30)

	layers, err := a.search(context.Background(), s, 5)
	require.NoError(t, err)

	var handles []int
	for _, l := range layers {
		require.NotEmpty(t, l.Candidates)
		assert.LessOrEqual(t, len(l.Candidates), 8)
		handles = append(handles, l.Instructions...)

		// Every candidate satisfies every dependency of its layer.
		for _, c := range l.Candidates {
			require.NoError(t, c.Mapping.Validate(5))
			for _, h := range l.Instructions {
				d := s.Instructions[h].Deps[0]
				u, v := c.Mapping[d.From], c.Mapping[d.To]
				require.NotEqual(t, perm.Undef, u)
				require.NotEqual(t, perm.Undef, v)
				assert.True(t, a.g.Coupled(u, v))
			}
		}
	}
	assert.Equal(t, perm.Seq(s.Len()), handles, "layers must cover the stream in order")
}

func TestSearchCandidateCostCountsReversals(t *testing.T) {
	a := newAllocator(t, Options{})
	s := circuit.FromPairs(2, circuit.Dependency{From: 0, To: 1})

	layers, err := a.search(context.Background(), s, 2)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	for _, c := range layers[0].Candidates {
		want := 0
		if !a.g.HasEdge(c.Mapping[0], c.Mapping[1]) {
			want = 1
		}
		assert.Equal(t, want, c.Cost, "candidate %s", c.Mapping)
	}
	// Every directed pair on an edge, both orientations.
	assert.Len(t, layers[0].Candidates, 2*a.g.EdgeCount())
}

func TestGlueMappingsGrowMonotonically(t *testing.T) {
	a := newAllocator(t, Options{MaxPartial: 6})
	s := randomStream(4, 5, 30)

	layers, err := a.search(context.Background(), s, 5)
	require.NoError(t, err)
	path, err := a.glue(layers)
	require.NoError(t, err)

	require.Len(t, path.Mappings, len(layers))
	require.Len(t, path.Swaps, len(layers)-1)
	for i := 1; i < len(path.Mappings); i++ {
		assert.True(t, path.Mappings[i].Extends(path.Mappings[i-1]), "layer %d", i)
	}

	// Swaps realize each transition on the qubits placed before it.
	for i, seq := range path.Swaps {
		from, to := path.Mappings[i], path.Mappings[i+1]
		a2 := from.Inverse(5)
		seq.Apply(a2)
		for v, p := range from {
			if p != perm.Undef {
				assert.Equal(t, v, a2[to[v]], "transition %d qubit %d", i, v)
			}
		}
	}
	assert.Equal(t, a.opts.Costs.Total(path.SwapCount, path.Reversals), path.Cost)
}

func TestTransformingSwapsNonMonotonic(t *testing.T) {
	a := newAllocator(t, Options{})
	_, err := a.TransformingSwaps(perm.Mapping{0, 1}, perm.Mapping{0, perm.Undef})
	assert.True(t, errors.Is(err, errors.ErrCodeNonMonotonicMapping), "err = %v", err)

	_, err = a.TransformingSwaps(perm.Mapping{0}, perm.Mapping{0, 1})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "err = %v", err)
}

func TestTransformingSwapsIgnoresNewQubits(t *testing.T) {
	a := newAllocator(t, Options{})
	// Qubit 1 is new in the target; only qubit 0 has to move.
	seq, err := a.TransformingSwaps(perm.Mapping{0, perm.Undef}, perm.Mapping{1, 0})
	require.NoError(t, err)
	assert.Equal(t, perm.SwapSeq{{U: 0, V: 1}}, seq)
}

func TestBuildInsufficientMappings(t *testing.T) {
	a := newAllocator(t, Options{})
	s := circuit.FromPairs(5, circuit.Dependency{From: 0, To: 1}, circuit.Dependency{From: 0, To: 4})
	// 0 and 1 are coupled; 0 and 4 are not, and there is no next mapping.
	path := &Path{Mappings: []perm.Mapping{{0, 1, perm.Undef, perm.Undef, 3}}}

	_, err := a.build(s, path)
	require.True(t, errors.Is(err, errors.ErrCodeInsufficientMappings), "err = %v", err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	handle, _ := e.Field("instruction")
	assert.Equal(t, 1, handle)
}

func TestBuildFillsIdleQubits(t *testing.T) {
	a := newAllocator(t, Options{})
	s := circuit.FromPairs(3, circuit.Dependency{From: 0, To: 2})
	path := &Path{Mappings: []perm.Mapping{{3, perm.Undef, 4}}}

	sol, err := a.build(s, path)
	require.NoError(t, err)
	assert.Equal(t, perm.Mapping{3, 0, 4, 1, 2}, sol.Initial)
	assert.Equal(t, []Op{{Kind: OpCNOT, U: 0, V: 2}}, sol.Steps[0].Ops)
	require.NoError(t, sol.Verify(a.g))
}

func TestBuildSwapsReproduceLayerMappings(t *testing.T) {
	graphs := map[string]func(*testing.T) *coupling.Graph{
		"line5":   func(t *testing.T) *coupling.Graph { return lineGraph(t, 5) },
		"ibmqx2":  ibmqx2,
		"grid3x3": func(t *testing.T) *coupling.Graph { return gridGraph(t, 3, 3) },
	}
	for name, mk := range graphs {
		t.Run(name, func(t *testing.T) {
			g := mk(t)
			a, err := New(g, Options{MaxPartial: 6})
			require.NoError(t, err)

			for seed := uint64(1); seed <= 20; seed++ {
				s := randomStream(seed, 5, 25)
				layers, err := a.search(context.Background(), s, 5)
				require.NoError(t, err)
				path, err := a.glue(layers)
				require.NoError(t, err)
				sol, err := a.build(s, path)
				require.NoError(t, err)

				layerOf := make(map[int]int)
				for i, l := range layers {
					for _, h := range l.Instructions {
						layerOf[h] = i
					}
				}
				matches := func(pos perm.Mapping, m perm.Mapping) bool {
					for q, p := range m {
						if p != perm.Undef && pos[q] != p {
							return false
						}
					}
					return true
				}

				// Mappings are entered lazily, so after each step the swaps
				// replayed so far land on some mapping no later than the
				// instruction's own layer.
				pos := sol.Initial.Clone()
				cur := 0
				for _, st := range sol.Steps {
					for _, op := range st.Ops {
						if op.Kind == OpSwap {
							pos[op.U], pos[op.V] = pos[op.V], pos[op.U]
						}
					}
					j := cur
					for j <= layerOf[st.Handle] && !matches(pos, path.Mappings[j]) {
						j++
					}
					require.LessOrEqual(t, j, layerOf[st.Handle],
						"seed %d: placement %s after instruction %d matches no mapping", seed, pos, st.Handle)
					cur = j
				}
			}
		})
	}
}
