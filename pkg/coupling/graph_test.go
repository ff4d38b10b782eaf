package coupling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/qmap/pkg/errors"
)

func line3(t *testing.T) *Graph {
	t.Helper()
	g, err := New(3, []Edge{{0, 1}, {1, 2}})
	require.NoError(t, err)
	return g
}

func TestNewRejectsBadEdges(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []Edge
	}{
		{"out of range to", 2, []Edge{{0, 2}}},
		{"negative from", 2, []Edge{{-1, 0}}},
		{"self loop", 2, []Edge{{1, 1}}},
		{"negative size", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.n, tt.edges)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidArch), "err = %v", err)
		})
	}
}

func TestHasEdgeIsDirected(t *testing.T) {
	g := line3(t)
	assert.True(t, g.HasEdge(0, 1))
	assert.False(t, g.HasEdge(1, 0))
	assert.True(t, g.Coupled(1, 0))
	assert.False(t, g.Coupled(0, 2))
}

func TestAdjUnionSorted(t *testing.T) {
	g, err := New(4, []Edge{{2, 1}, {1, 3}, {0, 1}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, g.Adj(1))
	assert.Equal(t, []int{3}, g.Succ(1))
	assert.Equal(t, []int{0, 2}, g.Pred(1))
	assert.Equal(t, 3, g.EdgeCount(), "duplicates collapse")
	assert.Equal(t, []Edge{{0, 1}, {1, 3}, {2, 1}}, g.Edges())
}

func TestReverseClosure(t *testing.T) {
	g := line3(t)
	r := g.ReverseClosure()

	assert.False(t, g.HasEdge(1, 0), "original must be untouched")
	assert.False(t, r.HasEdge(1, 0), "synthetic edges are not native")
	assert.True(t, r.HasEdge(0, 1))
	assert.True(t, r.IsReverseEdge(1, 0))
	assert.True(t, r.IsReverseEdge(2, 1))
	assert.True(t, r.Coupled(1, 0))
	assert.Equal(t, []int{0, 2}, r.Succ(1))
	assert.False(t, r.IsReverseEdge(0, 1))
	assert.Equal(t, 4, r.EdgeCount())
	assert.Equal(t, g.Adj(1), r.Adj(1))
}

func TestDistances(t *testing.T) {
	g, err := New(5, []Edge{{0, 1}, {2, 1}, {2, 3}})
	require.NoError(t, err)

	d := g.Distances()
	assert.Equal(t, 0, d[0][0])
	assert.Equal(t, 2, d[0][2])
	assert.Equal(t, 3, d[3][0])
	assert.Equal(t, Unreachable, d[0][4])
	assert.False(t, g.Connected())

	assert.Equal(t, []int{0, 1, 2, 3}, g.Path(0, 3))
	assert.Nil(t, g.Path(0, 4))
	assert.Equal(t, []int{2}, g.Path(2, 2))
}

func TestNearest(t *testing.T) {
	g := line3(t)
	taken := map[int]bool{1: true}
	assert.Equal(t, 0, g.Nearest(0, func(p int) bool { return !taken[p] }))
	assert.Equal(t, 0, g.Nearest(1, func(p int) bool { return !taken[p] }))
	assert.Equal(t, -1, g.Nearest(1, func(int) bool { return false }))
}

func TestNames(t *testing.T) {
	g, err := NewNamed([]string{"a", "b"}, []Edge{{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, "b", g.Name(1))
	assert.Equal(t, "q[2]", line3(t).Name(2))
}

func TestConnectedSmall(t *testing.T) {
	g, err := New(1, nil)
	require.NoError(t, err)
	assert.True(t, g.Connected())
	assert.True(t, line3(t).Connected())
}

func TestNearestBreaksTiesByQubitIndex(t *testing.T) {
	// 10 and 2 are both one hop from 0; numeric order picks 2.
	g, err := New(11, []Edge{{0, 10}, {0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Nearest(0, func(p int) bool { return p != 0 }))
	assert.Equal(t, []int{10, 0, 2}, g.Path(10, 2))
}
