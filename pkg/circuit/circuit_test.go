package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/qmap/pkg/errors"
)

func TestExtract(t *testing.T) {
	c := &Circuit{
		NumQubits: 3,
		Gates: []Gate{
			{Name: "h", Qubits: []int{0}},
			{Name: "cx", Qubits: []int{0, 2}},
			{Name: "barrier", Qubits: []int{0, 1, 2}},
			{Name: "ccx", Qubits: []int{0, 1, 2}},
			{Name: "measure", Qubits: []int{1}},
		},
	}

	s, err := Extract(c)
	require.NoError(t, err)
	require.Equal(t, 5, s.Len())

	assert.Empty(t, s.Instructions[0].Deps)
	assert.Equal(t, []Dependency{{0, 2}}, s.Instructions[1].Deps)
	assert.Empty(t, s.Instructions[2].Deps)
	assert.Equal(t, []Dependency{{0, 2}, {1, 2}}, s.Instructions[3].Deps)
	assert.Equal(t, 3, s.Instructions[3].Handle)
	assert.Equal(t, 2, c.TwoQubitGates())
	assert.Len(t, s.Dependencies(), 3)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		c    Circuit
	}{
		{"qubit out of range", Circuit{NumQubits: 2, Gates: []Gate{{Name: "cx", Qubits: []int{0, 2}}}}},
		{"repeated qubit", Circuit{NumQubits: 2, Gates: []Gate{{Name: "cx", Qubits: []int{1, 1}}}}},
		{"unnamed gate", Circuit{NumQubits: 2, Gates: []Gate{{Qubits: []int{1}}}}},
		{"no qubits", Circuit{NumQubits: 2, Gates: []Gate{{Name: "x"}}}},
		{"negative width", Circuit{NumQubits: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(&tt.c)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidCircuit), "err = %v", err)
		})
	}
}

func TestFromPairsWidth(t *testing.T) {
	s := FromPairs(2, Dependency{0, 1}, Dependency{3, 1})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Instructions[1].Handle)
	assert.Equal(t, 4, s.Width())
}
