package bmt

import (
	"context"
	"time"

	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
	"github.com/matzehuels/qmap/pkg/tokenswap"
)

// Phase names reported to hooks.
const (
	PhaseSearch = "search"
	PhaseGlue   = "glue"
	PhaseBuild  = "build"
)

// Allocator maps dependency streams onto one device. It holds no per-run
// state beyond stateful strategies, which are reset on every call; it must
// not be used by several goroutines at once when such strategies are set.
type Allocator struct {
	g    *coupling.Graph
	opts Options
}

// New returns an allocator for g. Strategies left nil in opts get their
// defaults.
func New(g *coupling.Graph, opts Options) (*Allocator, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidArch, "coupling graph is nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()
	if opts.Estimator == nil {
		opts.Estimator = NewGeoDistance(g)
	}
	if opts.Propagator == nil {
		opts.Propagator = NewGeoNearest(g)
	}
	if opts.Finder == nil {
		opts.Finder = tokenswap.NewApprox(g)
	}
	return &Allocator{g: g, opts: opts}, nil
}

// Graph returns the device the allocator maps onto.
func (a *Allocator) Graph() *coupling.Graph {
	return a.g
}

// Costs returns the effective cost weights.
func (a *Allocator) Costs() CostModel {
	return a.opts.Costs
}

// Allocate maps s onto the device. The context carries hooks and tracing;
// the computation itself runs to completion.
func (a *Allocator) Allocate(ctx context.Context, s circuit.Stream) (*Solution, error) {
	size := a.g.Size()
	width := s.Width()
	if width > size {
		return nil, errors.New(errors.ErrCodeInvalidCircuit,
			"circuit uses %d qubits, device has %d", width, size)
	}
	deps := 0
	for _, in := range s.Instructions {
		for _, d := range in.Deps {
			if d.From < 0 || d.To < 0 || d.From == d.To {
				return nil, errors.New(errors.ErrCodeInvalidCircuit, "invalid dependency %s", d).
					With("instruction", in.Handle)
			}
			deps++
		}
	}
	if deps == 0 {
		return &Solution{Initial: perm.Identity(size)}, nil
	}

	for _, st := range []any{a.opts.ChildrenSelector, a.opts.PartialSelector, a.opts.Estimator,
		a.opts.Propagator, a.opts.SequenceSelector, a.opts.Finder} {
		if r, ok := st.(resetter); ok {
			r.Reset()
		}
	}

	var layers []Layer
	err := a.phase(ctx, PhaseSearch, func(ctx context.Context) (err error) {
		layers, err = a.search(ctx, s, width)
		return err
	})
	if err != nil {
		return nil, err
	}

	var path *Path
	err = a.phase(ctx, PhaseGlue, func(context.Context) (err error) {
		path, err = a.glue(layers)
		return err
	})
	if err != nil {
		return nil, err
	}

	var sol *Solution
	err = a.phase(ctx, PhaseBuild, func(context.Context) (err error) {
		sol, err = a.build(s, path)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.opts.Logger.Debug("allocation complete",
		"layers", sol.Layers, "swaps", sol.Swaps, "reversals", sol.Reversals, "cost", sol.Cost)
	return sol, nil
}

func (a *Allocator) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx = a.opts.Hooks.OnPhaseStart(ctx, name)
	err := fn(ctx)
	elapsed := time.Since(start)
	a.opts.Hooks.OnPhaseComplete(ctx, name, elapsed, err)
	a.opts.Logger.Debug("phase complete", "phase", name, "elapsed", elapsed, "error", err)
	return err
}
