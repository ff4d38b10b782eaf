package allocators

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qmap/pkg/bmt"
	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/observability"
	"github.com/matzehuels/qmap/pkg/tokenswap"
)

// Default settings.
const (
	DefaultAllocator = "bmt"
	DefaultSeed      = 42
	DefaultTopK      = 4

	// Bounds applied by callers that take limits from users. The
	// allocators themselves treat zero as unbounded.
	DefaultMaxChildren = 16
	DefaultMaxPartial  = 512
)

// Allocator maps a dependency stream onto a device.
type Allocator interface {
	Allocate(ctx context.Context, s circuit.Stream) (*bmt.Solution, error)
	Graph() *coupling.Graph
}

// Settings configure every allocator a registry builds. Variants read the
// fields that apply to them.
type Settings struct {
	MaxChildren int           `json:"max_children"`
	MaxPartial  int           `json:"max_partial"`
	Costs       bmt.CostModel `json:"costs"`
	Seed        uint64        `json:"seed"`
	TopK        int           `json:"top_k"`

	Logger *log.Logger                  `json:"-"`
	Hooks  observability.AllocatorHooks `json:"-"`
}

// Validate checks numeric settings.
func (s *Settings) Validate() error {
	if err := errors.ValidateLimit("max_children", s.MaxChildren); err != nil {
		return err
	}
	if err := errors.ValidateLimit("max_partial", s.MaxPartial); err != nil {
		return err
	}
	if err := errors.ValidateLimit("top_k", s.TopK); err != nil {
		return err
	}
	return s.Costs.Validate()
}

func (s Settings) options() bmt.Options {
	return bmt.Options{
		MaxChildren: s.MaxChildren,
		MaxPartial:  s.MaxPartial,
		Costs:       s.Costs,
		Logger:      s.Logger,
		Hooks:       s.Hooks,
	}
}

// Entry describes one registered allocator.
type Entry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Aliases     []string `json:"aliases,omitempty"`

	New func(g *coupling.Graph, s Settings) (Allocator, error) `json:"-"`
}

// Registry resolves allocator names.
type Registry struct {
	entries map[string]Entry
	aliases map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		aliases: make(map[string]string),
	}
}

// NewDefaultRegistry returns a registry holding the bmt variants.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range defaults() {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds e. Names and aliases must be unique.
func (r *Registry) Register(e Entry) error {
	if err := errors.ValidateName(e.Name); err != nil {
		return err
	}
	if e.New == nil {
		return errors.New(errors.ErrCodeInvalidOption, "allocator %q has no constructor", e.Name)
	}
	names := append([]string{e.Name}, e.Aliases...)
	for _, n := range names {
		if r.known(n) {
			return errors.New(errors.ErrCodeInvalidOption, "allocator name %q already registered", n)
		}
	}
	r.entries[e.Name] = e
	for _, a := range e.Aliases {
		r.aliases[a] = e.Name
	}
	return nil
}

func (r *Registry) known(name string) bool {
	_, ok := r.entries[name]
	_, alias := r.aliases[name]
	return ok || alias
}

// Lookup returns the entry registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (Entry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if v, ok := r.aliases[name]; ok {
		name = v
	}
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodeNotFound,
			"unknown allocator %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return e, nil
}

// Names returns registered names, sorted. Aliases are not included.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Entries returns registered entries sorted by name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, n := range r.Names() {
		out = append(out, r.entries[n])
	}
	return out
}

// New builds the allocator registered under name for g.
func (r *Registry) New(name string, g *coupling.Graph, s Settings) (Allocator, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return e.New(g, s)
}

func defaults() []Entry {
	return []Entry{
		{
			Name:        "bmt",
			Description: "bounded mapping tree with deterministic selectors",
			Aliases:     []string{"default"},
			New: func(g *coupling.Graph, s Settings) (Allocator, error) {
				return newBMT(g, s.options())
			},
		},
		{
			Name:        "bmt-random",
			Description: "bounded mapping tree with seeded weighted-random selection",
			Aliases:     []string{"random"},
			New: func(g *coupling.Graph, s Settings) (Allocator, error) {
				opts := s.options()
				seed := s.Seed
				if seed == 0 {
					seed = DefaultSeed
				}
				opts.ChildrenSelector = bmt.NewRandomSelector(seed)
				opts.PartialSelector = bmt.NewRandomSelector(seed + 1)
				return newBMT(g, opts)
			},
		},
		{
			Name:        "bmt-topk",
			Description: "bounded mapping tree exploring the K cheapest terminals",
			Aliases:     []string{"topk"},
			New: func(g *coupling.Graph, s Settings) (Allocator, error) {
				opts := s.options()
				k := s.TopK
				if k == 0 {
					k = DefaultTopK
				}
				opts.SequenceSelector = bmt.TopKSelector{K: k}
				return newBMT(g, opts)
			},
		},
		{
			Name:        "bmt-exact",
			Description: "bounded mapping tree with exact token swapping (at most 8 qubits)",
			Aliases:     []string{"exact"},
			New: func(g *coupling.Graph, s Settings) (Allocator, error) {
				if g == nil {
					return nil, errors.New(errors.ErrCodeInvalidArch, "coupling graph is nil")
				}
				finder, err := tokenswap.NewExact(g)
				if err != nil {
					return nil, err
				}
				opts := s.options()
				opts.Finder = finder
				return newBMT(g, opts)
			},
		},
	}
}

func newBMT(g *coupling.Graph, opts bmt.Options) (Allocator, error) {
	a, err := bmt.New(g, opts)
	if err != nil {
		return nil, err
	}
	return a, nil
}
