package allocators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/qmap/pkg/arch"
	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
)

func triangle() circuit.Stream {
	return circuit.FromPairs(3,
		circuit.Dependency{From: 0, To: 1},
		circuit.Dependency{From: 1, To: 2},
		circuit.Dependency{From: 0, To: 2},
	)
}

func TestDefaultRegistryNames(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{"bmt", "bmt-exact", "bmt-random", "bmt-topk"}, r.Names())
	assert.Len(t, r.Entries(), 4)
}

func TestLookup(t *testing.T) {
	r := NewDefaultRegistry()
	tests := []struct {
		name string
		want string
	}{
		{"bmt", "bmt"},
		{"default", "bmt"},
		{" BMT-Random ", "bmt-random"},
		{"topk", "bmt-topk"},
		{"exact", "bmt-exact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Name)
		})
	}

	_, err := r.Lookup("sabre")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestEveryVariantAllocates(t *testing.T) {
	r := NewDefaultRegistry()
	g, err := arch.Line(3)
	require.NoError(t, err)

	for _, name := range r.Names() {
		t.Run(name, func(t *testing.T) {
			a, err := r.New(name, g, Settings{})
			require.NoError(t, err)
			assert.Same(t, g, a.Graph())

			sol, err := a.Allocate(context.Background(), triangle())
			require.NoError(t, err)
			require.NoError(t, sol.Verify(g))
			assert.Equal(t, 1, sol.Swaps)
			assert.Equal(t, 7, sol.Cost)
		})
	}
}

func TestExactRejectsLargeDevices(t *testing.T) {
	g, err := arch.NewCatalog().Graph("ibmqx5")
	require.NoError(t, err)

	_, err = NewDefaultRegistry().New("bmt-exact", g, Settings{})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "err = %v", err)

	_, err = NewDefaultRegistry().New("bmt-exact", nil, Settings{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArch), "err = %v", err)
}

func TestRandomIsReproducible(t *testing.T) {
	g, err := arch.Grid(3, 3)
	require.NoError(t, err)
	s := circuit.FromPairs(9,
		circuit.Dependency{From: 0, To: 8},
		circuit.Dependency{From: 2, To: 6},
		circuit.Dependency{From: 1, To: 7},
		circuit.Dependency{From: 3, To: 5},
		circuit.Dependency{From: 8, To: 0},
	)
	settings := Settings{MaxChildren: 3, MaxPartial: 4, Seed: 7}

	r := NewDefaultRegistry()
	a, err := r.New("bmt-random", g, settings)
	require.NoError(t, err)
	first, err := a.Allocate(context.Background(), s)
	require.NoError(t, err)
	again, err := a.Allocate(context.Background(), s)
	require.NoError(t, err)

	b, err := r.New("bmt-random", g, settings)
	require.NoError(t, err)
	other, err := b.Allocate(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, first, other)
	require.NoError(t, first.Verify(g))
}

func TestInvalidSettings(t *testing.T) {
	g, err := arch.Line(2)
	require.NoError(t, err)
	r := NewDefaultRegistry()

	for _, s := range []Settings{
		{MaxChildren: -1},
		{MaxPartial: -2},
		{TopK: -1},
	} {
		_, err := r.New("bmt", g, s)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "settings %+v: %v", s, err)
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	ctor := func(g *coupling.Graph, s Settings) (Allocator, error) {
		return NewDefaultRegistry().New("bmt", g, s)
	}

	require.NoError(t, r.Register(Entry{Name: "mine", Aliases: []string{"m"}, New: ctor}))
	assert.Error(t, r.Register(Entry{Name: "mine", New: ctor}))
	assert.Error(t, r.Register(Entry{Name: "other", Aliases: []string{"m"}, New: ctor}))
	assert.Error(t, r.Register(Entry{Name: "nil"}))
	assert.Error(t, r.Register(Entry{Name: "has space", New: ctor}))

	e, err := r.Lookup("m")
	require.NoError(t, err)
	assert.Equal(t, "mine", e.Name)
}
