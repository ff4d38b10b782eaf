package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/qmap/pkg/allocators"
	"github.com/matzehuels/qmap/pkg/arch"
	"github.com/matzehuels/qmap/pkg/bmt"
	"github.com/matzehuels/qmap/pkg/cache"
	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	pkgio "github.com/matzehuels/qmap/pkg/io"
	"github.com/matzehuels/qmap/pkg/observability"
	"github.com/matzehuels/qmap/pkg/render"
)

// CustomArch names devices passed as an explicit graph.
const CustomArch = "custom"

// keySolution is the key type reported to cache hooks.
const keySolution = "solution"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Catalog  *arch.Catalog
	Registry *allocators.Registry
	Hooks    observability.Set
	Logger   *log.Logger

	// TTL bounds the lifetime of cached solutions.
	TTL time.Duration
}

// NewRunner creates a runner with the built-in catalog and allocators.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Catalog:  arch.NewCatalog(),
		Registry: allocators.NewDefaultRegistry(),
		Hooks:    observability.Noop(),
		Logger:   logger,
		TTL:      cache.TTLSolution,
	}
}

// Execute resolves, allocates and renders one run.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := r.Hooks.WithDefaults()

	entry, err := r.Registry.Lookup(opts.Allocator)
	if err != nil {
		return nil, err
	}
	g, archName, err := r.ResolveGraph(opts)
	if err != nil {
		return nil, err
	}
	stream, err := circuit.Extract(opts.Circuit)
	if err != nil {
		return nil, err
	}

	result = &Result{
		RunID:     uuid.NewString(),
		Arch:      archName,
		Allocator: entry.Name,
		Graph:     g,
		Stream:    stream,
	}
	logger := r.Logger.With("run", result.RunID)

	ctx = hooks.Pipeline.OnAllocateStart(ctx, entry.Name, archName)
	start := time.Now()
	defer func() {
		var stats observability.AllocationStats
		if result != nil {
			stats = observability.AllocationStats{
				Qubits:       result.Stats.Qubits,
				Instructions: result.Stats.Instructions,
				Layers:       result.Stats.Layers,
				Swaps:        result.Stats.Swaps,
				Reversals:    result.Stats.Reversals,
				Cost:         result.Stats.Cost,
			}
		}
		hooks.Pipeline.OnAllocateComplete(ctx, entry.Name, archName, stats, time.Since(start), err)
	}()

	sol, hit, key, err := r.allocate(ctx, g, stream, entry, opts, hooks)
	if err != nil {
		logger.Error("allocation failed", "arch", archName, "allocator", entry.Name, "err", err)
		return nil, err
	}
	result.Solution = sol
	result.CacheInfo = CacheInfo{Key: key, Hit: hit}
	result.Stats = Stats{
		Qubits:       g.Size(),
		Instructions: stream.Len(),
		Layers:       sol.Layers,
		Swaps:        sol.Swaps,
		Reversals:    sol.Reversals,
		Cost:         sol.Cost,
		AllocateTime: time.Since(start),
	}
	logger.Info("allocated circuit",
		"arch", archName,
		"allocator", entry.Name,
		"swaps", sol.Swaps,
		"reversals", sol.Reversals,
		"cost", sol.Cost,
		"cached", hit,
		"duration", result.Stats.AllocateTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result, opts.Formats)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveGraph returns the device of opts and its display name.
func (r *Runner) ResolveGraph(opts Options) (*coupling.Graph, string, error) {
	if opts.Graph != nil {
		name := opts.Arch
		if name == "" {
			name = CustomArch
		}
		return opts.Graph, name, nil
	}
	d, err := r.Catalog.Lookup(opts.Arch)
	if err != nil {
		return nil, "", err
	}
	g, err := d.Graph()
	if err != nil {
		return nil, "", err
	}
	return g, d.Name, nil
}

// allocate returns the cached solution for the inputs or computes and
// caches a new one. A cached solution that no longer replays on g is
// recomputed.
func (r *Runner) allocate(ctx context.Context, g *coupling.Graph, s circuit.Stream, entry allocators.Entry, opts Options, hooks observability.Set) (*bmt.Solution, bool, string, error) {
	archHash, err := GraphHash(g)
	if err != nil {
		return nil, false, "", err
	}
	streamHash, err := cache.HashJSON(s)
	if err != nil {
		return nil, false, "", err
	}
	key := r.Keyer.SolutionKey(archHash, streamHash, opts.SolutionKeyOpts(entry.Name))

	if !opts.Refresh {
		if sol, ok := r.cached(ctx, g, key); ok {
			hooks.Cache.OnCacheHit(ctx, keySolution)
			return sol, true, key, nil
		}
		hooks.Cache.OnCacheMiss(ctx, keySolution)
	}

	settings := opts.Settings()
	settings.Hooks = hooks.Allocator
	alloc, err := r.Registry.New(entry.Name, g, settings)
	if err != nil {
		return nil, false, "", err
	}
	sol, err := alloc.Allocate(ctx, s)
	if err != nil {
		return nil, false, "", err
	}

	if data, err := json.Marshal(sol); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			hooks.Cache.OnCacheSet(ctx, keySolution, len(data))
		}
	}
	return sol, false, key, nil
}

func (r *Runner) cached(ctx context.Context, g *coupling.Graph, key string) (*bmt.Solution, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var sol bmt.Solution
	if err := json.Unmarshal(data, &sol); err != nil {
		return nil, false
	}
	if err := sol.Verify(g); err != nil {
		r.Logger.Warn("discarding stale cached solution", "key", key, "err", err)
		return nil, false
	}
	return &sol, true
}

// Render produces one artifact per format for a finished run.
func (r *Runner) Render(ctx context.Context, res *Result, formats []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	var dot string
	for _, f := range formats {
		if f == FormatJSON {
			doc, err := pkgio.NewSolutionDoc(res.Allocator, res.Arch, res.Solution, res.Graph)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := pkgio.WriteSolution(&buf, doc); err != nil {
				return nil, err
			}
			out[f] = buf.Bytes()
			continue
		}
		if dot == "" {
			ops, err := res.Solution.Replay(res.Graph)
			if err != nil {
				return nil, err
			}
			dot = render.ToDOT(res.Graph, render.Options{
				Title:   fmt.Sprintf("%s (%s)", res.Arch, res.Allocator),
				Mapping: res.Solution.Initial,
				Usage:   render.Usage(res.Graph, ops),
			})
		}
		data, err := render.Render(ctx, dot, f)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

// graphKey is the hashed identity of a device.
type graphKey struct {
	Qubits    int             `json:"qubits"`
	Native    []coupling.Edge `json:"native"`
	Synthetic []coupling.Edge `json:"synthetic,omitempty"`
}

// GraphHash returns the content hash of g. Vertex names do not contribute.
func GraphHash(g *coupling.Graph) (string, error) {
	k := graphKey{Qubits: g.Size(), Native: []coupling.Edge{}}
	for _, e := range g.Edges() {
		if g.IsReverseEdge(e.From, e.To) {
			k.Synthetic = append(k.Synthetic, e)
		} else {
			k.Native = append(k.Native, e)
		}
	}
	h, err := cache.HashJSON(k)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash architecture")
	}
	return h, nil
}
