package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qmap/pkg/arch"
	"github.com/matzehuels/qmap/pkg/cache"
	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/errors"
	pkgio "github.com/matzehuels/qmap/pkg/io"
	"github.com/matzehuels/qmap/pkg/observability"
)

func triangle() *circuit.Circuit {
	return &circuit.Circuit{
		NumQubits: 3,
		Gates: []circuit.Gate{
			{Name: "cx", Qubits: []int{0, 1}},
			{Name: "cx", Qubits: []int{1, 2}},
			{Name: "cx", Qubits: []int{0, 2}},
		},
	}
}

func quietRunner(c cache.Cache) *Runner {
	var buf bytes.Buffer
	return NewRunner(c, nil, log.New(&buf))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Arch: "ibmqx2", Circuit: triangle()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Allocator != DefaultAllocator {
		t.Errorf("Allocator = %q, want %q", opts.Allocator, DefaultAllocator)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.MaxChildren != DefaultMaxChildren || opts.MaxPartial != DefaultMaxPartial {
		t.Errorf("limits = %d/%d, want %d/%d", opts.MaxChildren, opts.MaxPartial, DefaultMaxChildren, DefaultMaxPartial)
	}
	if opts.Costs.SwapWeight != DefaultSwapWeight || opts.Costs.ReversalWeight != DefaultReversalWeight ||
		opts.Costs.EstimateWeight != DefaultEstimateWeight {
		t.Errorf("Costs = %+v, want defaults", opts.Costs)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no arch", Options{Circuit: triangle()}, errors.ErrCodeInvalidInput},
		{"no circuit", Options{Arch: "ibmqx2"}, errors.ErrCodeInvalidInput},
		{"bad allocator", Options{Arch: "ibmqx2", Circuit: triangle(), Allocator: "b m t"}, errors.ErrCodeInvalidName},
		{"bad format", Options{Arch: "ibmqx2", Circuit: triangle(), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad limit", Options{Arch: "ibmqx2", Circuit: triangle(), MaxChildren: -1}, errors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Arch:    "line:3",
		Circuit: triangle(),
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if res.Arch != "line:3" || res.Allocator != "bmt" {
		t.Errorf("Arch, Allocator = %q, %q", res.Arch, res.Allocator)
	}
	if res.Stats.Swaps != 1 || res.Stats.Cost != 7 {
		t.Errorf("Stats = %+v, want 1 swap at cost 7", res.Stats)
	}
	if res.Stats.Qubits != 3 || res.Stats.Instructions != 3 {
		t.Errorf("Stats = %+v, want 3 qubits and 3 instructions", res.Stats)
	}
	if res.CacheInfo.Hit {
		t.Error("null cache reported a hit")
	}
	if err := res.Solution.Verify(res.Graph); err != nil {
		t.Errorf("Verify: %v", err)
	}

	doc, err := pkgio.ReadSolution(bytes.NewReader(res.Artifacts[FormatJSON]))
	if err != nil {
		t.Fatalf("ReadSolution: %v", err)
	}
	if doc.Allocator != "bmt" || doc.Arch != "line:3" || doc.Solution.Cost != 7 {
		t.Errorf("doc = %+v", doc)
	}
	if dot := string(res.Artifacts[FormatDOT]); !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("dot artifact = %q", dot)
	}
}

func TestExecuteAlias(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{Arch: "line:3", Circuit: triangle(), Allocator: "Random"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Allocator != "bmt-random" {
		t.Errorf("Allocator = %q, want bmt-random", res.Allocator)
	}
}

func TestExecuteExplicitGraph(t *testing.T) {
	g, err := arch.Ring(4)
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{Graph: g, Circuit: triangle()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Arch != CustomArch {
		t.Errorf("Arch = %q, want %q", res.Arch, CustomArch)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Arch: "nowhere", Circuit: triangle()})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown arch: error = %v, want NOT_FOUND", err)
	}

	_, err = r.Execute(ctx, Options{Arch: "ibmqx2", Circuit: triangle(), Allocator: "annealer"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown allocator: error = %v, want NOT_FOUND", err)
	}

	wide := &circuit.Circuit{NumQubits: 6, Gates: []circuit.Gate{{Name: "cx", Qubits: []int{0, 5}}}}
	_, err = r.Execute(ctx, Options{Arch: "ibmqx2", Circuit: wide})
	if !errors.Is(err, errors.ErrCodeInvalidCircuit) {
		t.Errorf("wide circuit: error = %v, want INVALID_CIRCUIT", err)
	}

	multi := &circuit.Circuit{NumQubits: 3, Gates: []circuit.Gate{{Name: "ccx", Qubits: []int{0, 1, 2}}}}
	_, err = r.Execute(ctx, Options{Arch: "ibmqx2", Circuit: multi})
	if !errors.Is(err, errors.ErrCodeUnsupportedMultiDependency) {
		t.Errorf("toffoli: error = %v, want UNSUPPORTED_MULTI_DEPENDENCY", err)
	}
}

func TestExecuteCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(c)
	rec := &recordingHooks{}
	r.Hooks = observability.Set{Pipeline: rec, Cache: rec}
	ctx := context.Background()
	opts := Options{Arch: "ibmqx2", Circuit: triangle()}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.Hit {
		t.Error("first run hit the cache")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second run missed the cache")
	}
	if second.CacheInfo.Key != first.CacheInfo.Key {
		t.Errorf("keys differ: %s vs %s", first.CacheInfo.Key, second.CacheInfo.Key)
	}
	if second.Solution.String() != first.Solution.String() {
		t.Errorf("cached solution differs:\n%s\nvs\n%s", first.Solution, second.Solution)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.Hit {
		t.Error("refresh run hit the cache")
	}

	other := opts
	other.Refresh = false
	other.Costs.SwapWeight = 9
	fourth, err := r.Execute(ctx, other)
	if err != nil {
		t.Fatalf("other costs Execute: %v", err)
	}
	if fourth.CacheInfo.Key == first.CacheInfo.Key {
		t.Error("cost weights do not change the cache key")
	}

	if rec.starts != 4 || rec.completes != 4 {
		t.Errorf("pipeline hooks = %d starts, %d completes, want 4 each", rec.starts, rec.completes)
	}
	if rec.hits != 1 || rec.misses != 2 || rec.sets != 3 {
		t.Errorf("cache hooks = %d hits, %d misses, %d sets, want 1, 2, 3", rec.hits, rec.misses, rec.sets)
	}
}

func TestExecuteStaleCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(c)
	ctx := context.Background()
	opts := Options{Arch: "line:3", Circuit: triangle()}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	// A solution whose initial mapping is not a permutation of the device.
	if err := c.Set(ctx, first.CacheInfo.Key, []byte(`{"initial":[0,0,0],"steps":[]}`), time.Hour); err != nil {
		t.Fatal(err)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if second.CacheInfo.Hit {
		t.Error("stale cached solution was used")
	}
	if second.Stats.Cost != 7 {
		t.Errorf("Cost = %d, want 7", second.Stats.Cost)
	}
}

func TestGraphHash(t *testing.T) {
	line, _ := arch.Line(3)
	full, _ := arch.Full(3)

	h1, err := GraphHash(line)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := GraphHash(line.ReverseClosure())
	h3, _ := GraphHash(full)
	again, _ := GraphHash(line)

	if h1 != again {
		t.Error("hash is not stable")
	}
	if h1 == h2 || h2 == h3 {
		t.Errorf("distinct devices share a hash: %s %s %s", h1, h2, h3)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	starts, completes  int
	hits, misses, sets int
}

func (h *recordingHooks) OnAllocateStart(ctx context.Context, _, _ string) context.Context {
	h.starts++
	return ctx
}

func (h *recordingHooks) OnAllocateComplete(context.Context, string, string, observability.AllocationStats, time.Duration, error) {
	h.completes++
}

func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }
