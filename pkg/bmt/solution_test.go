package bmt

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

func TestReplayRejectsIllegalOps(t *testing.T) {
	g := lineGraph(t, 3)
	tests := []struct {
		name string
		sol  Solution
	}{
		{"cnot without edge", Solution{Initial: perm.Identity(3), Steps: []Step{{Ops: []Op{{Kind: OpCNOT, U: 0, V: 2}}}}}},
		{"cnot against direction", Solution{Initial: perm.Identity(3), Steps: []Step{{Ops: []Op{{Kind: OpCNOT, U: 1, V: 0}}}}}},
		{"reversed on native edge", Solution{Initial: perm.Identity(3), Steps: []Step{{Ops: []Op{{Kind: OpReversedCNOT, U: 0, V: 1}}}}}},
		{"swap against direction", Solution{Initial: perm.Identity(3), Steps: []Step{{Ops: []Op{{Kind: OpSwap, U: 2, V: 1}}}}}},
		{"operand out of range", Solution{Initial: perm.Identity(3), Steps: []Step{{Ops: []Op{{Kind: OpCNOT, U: 0, V: 5}}}}}},
		{"short initial", Solution{Initial: perm.Identity(2)}},
		{"duplicate initial", Solution{Initial: perm.Mapping{0, 0, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sol.Verify(g)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "err = %v", err)
		})
	}
}

func TestReplayTracksSwaps(t *testing.T) {
	g := lineGraph(t, 3)
	sol := &Solution{
		Initial: perm.Identity(3),
		Steps: []Step{{Handle: 4, Ops: []Op{
			{Kind: OpSwap, U: 1, V: 2},
			{Kind: OpCNOT, U: 0, V: 2},
			{Kind: OpReversedCNOT, U: 1, V: 2},
		}}},
	}
	ops, err := sol.Replay(g)
	require.NoError(t, err)
	assert.Equal(t, []PhysicalOp{
		{Handle: 4, Kind: OpSwap, U: 1, V: 2},
		{Handle: 4, Kind: OpCNOT, U: 0, V: 1},
		{Handle: 4, Kind: OpReversedCNOT, U: 2, V: 1},
	}, ops)
	assert.Equal(t, perm.Mapping{0, 2, 1}, sol.Final())
}

func TestSolutionString(t *testing.T) {
	sol := &Solution{
		Initial: perm.Mapping{1, 0},
		Steps:   []Step{{Handle: 2, Ops: []Op{{Kind: OpSwap, U: 0, V: 1}, {Kind: OpCNOT, U: 0, V: 1}}}},
		Cost:    7, Swaps: 1,
	}
	got := sol.String()
	assert.True(t, strings.HasPrefix(got, "initial [0 => 1; 1 => 0]\n"), got)
	assert.Contains(t, got, "2: swap 0,1; cx 0,1")
	assert.Contains(t, got, "cost 7 (swaps 1, reversals 0)")
}

func TestRewrite(t *testing.T) {
	g := lineGraph(t, 3)
	c := &circuit.Circuit{NumQubits: 3, Gates: []circuit.Gate{
		{Name: "h", Qubits: []int{0}},
		{Name: "cx", Qubits: []int{0, 1}},
		{Name: "cx", Qubits: []int{1, 2}},
		{Name: "cx", Qubits: []int{0, 2}},
		{Name: "cx", Qubits: []int{2, 0}},
		{Name: "measure", Qubits: []int{2}},
	}}
	s, err := circuit.Extract(c)
	require.NoError(t, err)

	a, err := New(g, Options{})
	require.NoError(t, err)
	sol, err := a.Allocate(context.Background(), s)
	require.NoError(t, err)

	out, err := sol.Rewrite(c, g)
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumQubits)

	// Every two-qubit gate in the output is native.
	swaps := 0
	for _, gate := range out.Gates {
		if len(gate.Qubits) != 2 {
			continue
		}
		u, v := gate.Qubits[0], gate.Qubits[1]
		if gate.Name == "swap" {
			swaps++
			assert.True(t, g.Coupled(u, v), "swap %v", gate.Qubits)
			continue
		}
		assert.True(t, g.HasEdge(u, v), "%s %v", gate.Name, gate.Qubits)
	}
	assert.Equal(t, sol.Swaps, swaps)
	assert.Equal(t, len(c.Gates)+sol.Swaps+4*sol.Reversals, len(out.Gates))
}

func TestRewriteReversedGates(t *testing.T) {
	g := lineGraph(t, 2)
	rewrite := func(t *testing.T, name string) (*circuit.Circuit, error) {
		t.Helper()
		// Two forward CNOTs pin the placement, leaving the last gate reversed.
		c := &circuit.Circuit{NumQubits: 2, Gates: []circuit.Gate{
			{Name: "cx", Qubits: []int{0, 1}},
			{Name: "cx", Qubits: []int{0, 1}},
			{Name: name, Qubits: []int{1, 0}, Params: []float64{0.5}},
		}}
		s, err := circuit.Extract(c)
		require.NoError(t, err)
		a, err := New(g, Options{})
		require.NoError(t, err)
		sol, err := a.Allocate(context.Background(), s)
		require.NoError(t, err)
		require.Equal(t, 1, sol.Reversals)
		return sol.Rewrite(c, g)
	}

	t.Run("symmetric gate swaps operands", func(t *testing.T) {
		out, err := rewrite(t, "cz")
		require.NoError(t, err)
		last := out.Gates[len(out.Gates)-1]
		assert.Equal(t, "cz", last.Name)
		assert.True(t, g.HasEdge(last.Qubits[0], last.Qubits[1]), "cz %v", last.Qubits)
		assert.Len(t, out.Gates, 3)
	})

	t.Run("gate without conjugation is rejected", func(t *testing.T) {
		for _, name := range []string{"cy", "crz", "ch"} {
			_, err := rewrite(t, name)
			assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "%s: err = %v", name, err)
		}
	})
}
