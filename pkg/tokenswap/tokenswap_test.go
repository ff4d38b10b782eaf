package tokenswap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

func mustGraph(t *testing.T, n int, edges ...coupling.Edge) *coupling.Graph {
	t.Helper()
	g, err := coupling.New(n, edges)
	require.NoError(t, err)
	return g
}

func line(t *testing.T, n int) *coupling.Graph {
	t.Helper()
	var edges []coupling.Edge
	for i := 0; i+1 < n; i++ {
		edges = append(edges, coupling.Edge{From: i, To: i + 1})
	}
	return mustGraph(t, n, edges...)
}

// ibmqx2 has a triangle-rich 5-qubit layout with directed couplers.
func ibmqx2(t *testing.T) *coupling.Graph {
	t.Helper()
	return mustGraph(t, 5,
		coupling.Edge{From: 0, To: 1}, coupling.Edge{From: 0, To: 2}, coupling.Edge{From: 1, To: 2},
		coupling.Edge{From: 3, To: 2}, coupling.Edge{From: 3, To: 4}, coupling.Edge{From: 4, To: 2})
}

// checkSeq replays seq and verifies every swap is on a coupled pair and
// every position defined in to ends up with its token.
func checkSeq(t *testing.T, g *coupling.Graph, from, to perm.Assignment, seq perm.SwapSeq) {
	t.Helper()
	for _, s := range seq {
		require.True(t, g.Coupled(s.U, s.V), "swap %s is not on an edge", s)
	}
	got := from.Clone()
	seq.Apply(got)
	for q, tok := range to {
		if tok != perm.Undef {
			require.Equal(t, tok, got[q], "position %d after %v", q, seq)
		}
	}
}

func TestApproxAllPermutations(t *testing.T) {
	for _, g := range []*coupling.Graph{line(t, 4), ibmqx2(t)} {
		finder := NewApprox(g)
		exact, err := NewExact(g)
		require.NoError(t, err)

		from := perm.Assignment(perm.Seq(g.Size()))
		for _, p := range perm.Generate(g.Size(), 0) {
			to := perm.Assignment(p)
			seq, err := finder.Find(from, to)
			require.NoError(t, err)
			checkSeq(t, g, from, to, seq)

			best, err := exact.Find(from, to)
			require.NoError(t, err)
			checkSeq(t, g, from, to, best)
			assert.LessOrEqual(t, len(best), len(seq), "exact must not lose to approx for %v", p)
			assert.LessOrEqual(t, len(seq), 4*len(best), "approx bound violated for %v", p)
		}
	}
}

func TestIdentityNeedsNoSwaps(t *testing.T) {
	g := ibmqx2(t)
	a := perm.Assignment{0, 1, 2, 3, 4}
	seq, err := NewApprox(g).Find(a, a)
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestLineReversal(t *testing.T) {
	g := line(t, 3)
	seq, err := NewApprox(g).Find(perm.Assignment{0, 1, 2}, perm.Assignment{2, 1, 0})
	require.NoError(t, err)
	checkSeq(t, g, perm.Assignment{0, 1, 2}, perm.Assignment{2, 1, 0}, seq)
	assert.Len(t, seq, 3)
}

func TestPartialTargets(t *testing.T) {
	g := line(t, 4)
	u := perm.Undef
	tests := []struct {
		name string
		from      perm.Assignment
		to        perm.Assignment
		exact     int
		approxMax int
	}{
		{"free token may stay", perm.Assignment{0, 1, u, u}, perm.Assignment{0, u, u, u}, 0, 0},
		{"single hop", perm.Assignment{0, u, u, u}, perm.Assignment{u, 0, u, u}, 1, 1},
		{"past a free token", perm.Assignment{0, u, 1, u}, perm.Assignment{u, u, u, 0}, 3, 5},
		{"swap pair", perm.Assignment{1, 0, u, u}, perm.Assignment{0, 1, u, u}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := NewApprox(g).Find(tt.from, tt.to)
			require.NoError(t, err)
			checkSeq(t, g, tt.from, tt.to, seq)
			assert.LessOrEqual(t, len(seq), tt.approxMax)

			best, err := mustExact(t, g).Find(tt.from, tt.to)
			require.NoError(t, err)
			checkSeq(t, g, tt.from, tt.to, best)
			assert.Len(t, best, tt.exact)
		})
	}
}

func mustExact(t *testing.T, g *coupling.Graph) *Exact {
	t.Helper()
	e, err := NewExact(g)
	require.NoError(t, err)
	return e
}

func TestHoleSwapsArePruned(t *testing.T) {
	g := line(t, 4)
	u := perm.Undef
	from := perm.Assignment{u, u, u, 0}
	to := perm.Assignment{0, u, u, u}
	seq, err := NewApprox(g).Find(from, to)
	require.NoError(t, err)
	checkSeq(t, g, from, to, seq)

	items := from.Clone()
	for _, s := range seq {
		assert.False(t, items[s.U] == u && items[s.V] == u, "swap %s moves only holes", s)
		items[s.U], items[s.V] = items[s.V], items[s.U]
	}
	assert.Len(t, seq, 3)
}

func TestNonMonotonic(t *testing.T) {
	g := line(t, 3)
	u := perm.Undef
	_, err := NewApprox(g).Find(perm.Assignment{0, u, u}, perm.Assignment{0, 1, u})
	assert.True(t, errors.Is(err, errors.ErrCodeNonMonotonicMapping), "err = %v", err)
}

func TestSizeMismatch(t *testing.T) {
	g := line(t, 3)
	_, err := NewApprox(g).Find(perm.Assignment{0, 1}, perm.Assignment{0, 1, 2})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "err = %v", err)
}

func TestDisconnectedUnreachable(t *testing.T) {
	g := mustGraph(t, 4, coupling.Edge{From: 0, To: 1}, coupling.Edge{From: 2, To: 3})
	_, err := NewApprox(g).Find(perm.Assignment{0, 1, 2, 3}, perm.Assignment{2, 1, 0, 3})
	assert.True(t, errors.Is(err, errors.ErrCodeUnreachableMapping), "err = %v", err)
}

func TestExactRejectsLargeDevices(t *testing.T) {
	_, err := NewExact(line(t, MaxExactQubits+1))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "err = %v", err)
}

func TestTreeRouteFallback(t *testing.T) {
	g := ibmqx2(t)
	a := NewApprox(g)
	from := perm.Assignment(perm.Seq(5))
	for _, p := range perm.Generate(5, 0) {
		pr, err := newProblem(g, from, perm.Assignment(p))
		require.NoError(t, err)
		seq := a.treeRoute(pr)
		checkSeq(t, g, from, perm.Assignment(p), seq)
	}
}

func TestDeterministic(t *testing.T) {
	g := ibmqx2(t)
	from := perm.Assignment{4, 3, 2, 1, 0}
	to := perm.Assignment{0, 1, 2, 3, 4}
	first, err := NewApprox(g).Find(from, to)
	require.NoError(t, err)
	for range 5 {
		again, err := NewApprox(g).Find(from, to)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
