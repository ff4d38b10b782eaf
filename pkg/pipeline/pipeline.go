// Package pipeline runs an allocation end to end for the CLI and the API.
//
// A run resolves the device, extracts the dependency stream of the circuit,
// allocates it with a registered allocator and renders the requested
// artifacts. Solutions are cached by the content hash of the device, the
// stream and every setting that can change the result, so repeated runs
// skip the search entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Arch:    "ibmqx2",
//	    Circuit: circ,
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Artifacts["json"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qmap/pkg/allocators"
	"github.com/matzehuels/qmap/pkg/bmt"
	"github.com/matzehuels/qmap/pkg/cache"
	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAllocator is the registry name used when none is given.
	DefaultAllocator = allocators.DefaultAllocator

	// DefaultSeed seeds the randomized allocator variants.
	DefaultSeed = uint64(allocators.DefaultSeed)

	// DefaultSwapWeight, DefaultReversalWeight and DefaultEstimateWeight
	// mirror the allocator's cost model.
	DefaultSwapWeight     = bmt.DefaultSwapWeight
	DefaultReversalWeight = bmt.DefaultReversalWeight
	DefaultEstimateWeight = bmt.DefaultEstimateWeight

	// DefaultMaxChildren and DefaultMaxPartial replace a zero limit. The
	// candidate set grows exponentially in the number of disjoint gates of
	// a layer, so runs are always bounded.
	DefaultMaxChildren = allocators.DefaultMaxChildren
	DefaultMaxPartial  = allocators.DefaultMaxPartial
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = render.FormatDOT
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Device: a catalog name or generator spec, or an explicit graph.
	Arch  string          `json:"arch,omitempty"`
	Graph *coupling.Graph `json:"-"`

	Circuit *circuit.Circuit `json:"circuit"`

	// Allocator options
	Allocator   string        `json:"allocator,omitempty"`
	MaxChildren int           `json:"max_children,omitempty"`
	MaxPartial  int           `json:"max_partial,omitempty"`
	Costs       bmt.CostModel `json:"costs,omitempty"`
	Seed        uint64        `json:"seed,omitempty"`
	TopK        int           `json:"top_k,omitempty"`

	// Refresh skips the cache lookup but still stores the new solution.
	Refresh bool `json:"refresh,omitempty"`

	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies this run in logs and stored records.
	RunID string

	// Arch is the device name, or "custom" for an explicit graph.
	Arch string

	// Allocator is the canonical registry name that produced Solution.
	Allocator string

	Graph    *coupling.Graph
	Stream   circuit.Stream
	Solution *bmt.Solution

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the solution came from the cache.
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Qubits       int
	Instructions int
	Layers       int
	Swaps        int
	Reversals    int
	Cost         int
	AllocateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo reports cache usage for the solution.
type CacheInfo struct {
	Key string
	Hit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Graph == nil && o.Arch == "" {
		return errors.New(errors.ErrCodeInvalidInput, "arch is required")
	}
	if o.Circuit == nil {
		return errors.New(errors.ErrCodeInvalidInput, "circuit is required")
	}
	if o.Allocator == "" {
		o.Allocator = DefaultAllocator
	}
	if err := errors.ValidateName(o.Allocator); err != nil {
		return err
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MaxChildren == 0 {
		o.MaxChildren = DefaultMaxChildren
	}
	if o.MaxPartial == 0 {
		o.MaxPartial = DefaultMaxPartial
	}
	o.Costs.SetDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := o.Settings()
	if err := s.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Settings returns the allocator settings carried by o.
func (o *Options) Settings() allocators.Settings {
	return allocators.Settings{
		MaxChildren: o.MaxChildren,
		MaxPartial:  o.MaxPartial,
		Costs:       o.Costs,
		Seed:        o.Seed,
		TopK:        o.TopK,
		Logger:      o.Logger,
	}
}

// SolutionKeyOpts returns cache key options for the solution of allocator.
func (o *Options) SolutionKeyOpts(allocator string) cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{
		Allocator:   allocator,
		MaxChildren: o.MaxChildren,
		MaxPartial:  o.MaxPartial,
		Swap:        o.Costs.SwapWeight,
		Reversal:    o.Costs.ReversalWeight,
		Estimate:    o.Costs.EstimateWeight,
		Seed:        o.Seed,
		TopK:        o.TopK,
	}
}
