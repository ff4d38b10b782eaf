package bmt

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/observability"
	"github.com/matzehuels/qmap/pkg/tokenswap"
)

// Default cost weights.
const (
	DefaultSwapWeight     = 7
	DefaultReversalWeight = 4
	DefaultEstimateWeight = 1
)

// CostModel weighs the operations a solution adds to the circuit.
type CostModel struct {
	// SwapWeight is the cost of one SWAP.
	SwapWeight int `json:"swap" toml:"swap" yaml:"swap"`

	// ReversalWeight is the cost of executing a CNOT against the native
	// direction.
	ReversalWeight int `json:"reversal" toml:"reversal" yaml:"reversal"`

	// EstimateWeight scales the swap estimate when ranking layer
	// transitions. It only affects which mappings are chosen, never the
	// reported cost.
	EstimateWeight int `json:"estimate" toml:"estimate" yaml:"estimate"`
}

// DefaultCostModel returns the default weights.
func DefaultCostModel() CostModel {
	return CostModel{
		SwapWeight:     DefaultSwapWeight,
		ReversalWeight: DefaultReversalWeight,
		EstimateWeight: DefaultEstimateWeight,
	}
}

// SetDefaults fills zero weights with their defaults.
func (c *CostModel) SetDefaults() {
	if c.SwapWeight == 0 {
		c.SwapWeight = DefaultSwapWeight
	}
	if c.ReversalWeight == 0 {
		c.ReversalWeight = DefaultReversalWeight
	}
	if c.EstimateWeight == 0 {
		c.EstimateWeight = DefaultEstimateWeight
	}
}

// Validate checks every weight.
func (c CostModel) Validate() error {
	if err := errors.ValidateWeight("swap weight", c.SwapWeight); err != nil {
		return err
	}
	if err := errors.ValidateWeight("reversal weight", c.ReversalWeight); err != nil {
		return err
	}
	return errors.ValidateWeight("estimate weight", c.EstimateWeight)
}

// Objective is the dynamic-programming score of a transition.
func (c CostModel) Objective(reversals, estimate int) int {
	return c.ReversalWeight*reversals + c.EstimateWeight*estimate
}

// Total is the reported cost of a solution.
func (c CostModel) Total(swaps, reversals int) int {
	return c.SwapWeight*swaps + c.ReversalWeight*reversals
}

// Options configures an Allocator. The zero value selects every default.
type Options struct {
	// MaxChildren bounds the children kept per candidate. Zero is unbounded.
	MaxChildren int `json:"max_children"`

	// MaxPartial bounds the candidates kept per dependency. Zero is unbounded.
	MaxPartial int `json:"max_partial"`

	// Costs are the cost weights.
	Costs CostModel `json:"costs"`

	// ChildrenSelector trims the children of one candidate.
	// Default: FirstSelector.
	ChildrenSelector CandidateSelector `json:"-"`

	// PartialSelector trims the candidate set after each dependency.
	// Default: FirstSelector.
	PartialSelector CandidateSelector `json:"-"`

	// Estimator ranks layer transitions. Default: GeoDistance.
	Estimator CostEstimator `json:"-"`

	// Propagator carries live qubits across layers. Default: GeoNearest.
	Propagator LiveQubitPropagator `json:"-"`

	// SequenceSelector picks terminal candidates. Default: BestSelector.
	SequenceSelector SequenceSelector `json:"-"`

	// Finder materializes layer transitions. Default: tokenswap.Approx.
	Finder tokenswap.Finder `json:"-"`

	// Logger receives debug progress. Default: discard.
	Logger *log.Logger `json:"-"`

	// Hooks receives phase events. Default: no-op.
	Hooks observability.AllocatorHooks `json:"-"`
}

// Validate checks the numeric options.
func (o *Options) Validate() error {
	if err := errors.ValidateLimit("max_children", o.MaxChildren); err != nil {
		return err
	}
	if err := errors.ValidateLimit("max_partial", o.MaxPartial); err != nil {
		return err
	}
	return o.Costs.Validate()
}

func (o *Options) setDefaults() {
	o.Costs.SetDefaults()
	if o.ChildrenSelector == nil {
		o.ChildrenSelector = FirstSelector{}
	}
	if o.PartialSelector == nil {
		o.PartialSelector = FirstSelector{}
	}
	if o.SequenceSelector == nil {
		o.SequenceSelector = BestSelector{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopAllocatorHooks{}
	}
}
