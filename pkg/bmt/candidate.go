package bmt

import "github.com/matzehuels/qmap/pkg/perm"

// Candidate is a partial mapping together with the number of reversed
// dependencies it incurs.
type Candidate struct {
	Mapping perm.Mapping `json:"mapping"`
	Cost    int          `json:"cost"`
}

// Layer is a maximal run of dependencies satisfiable by a shared mapping,
// with the candidates that satisfy all of them.
type Layer struct {
	Candidates   []Candidate `json:"candidates"`
	Instructions []int       `json:"instructions"`
}

// TracebackInfo is one cell of the dynamic-programming table.
type TracebackInfo struct {
	// Mapping is the candidate mapping after live-qubit propagation.
	Mapping perm.Mapping
	// Parent indexes the chosen candidate of the previous layer, or -1.
	Parent int
	// MappingCost accumulates reversals along the path.
	MappingCost int
	// SwapEstimate accumulates estimated swaps along the path.
	SwapEstimate int
}

// Path is the mapping sequence chosen by the glue phase.
type Path struct {
	Mappings  []perm.Mapping
	Swaps     []perm.SwapSeq // Swaps[i] bridges Mappings[i] to Mappings[i+1]
	SwapCount int
	Reversals int
	Cost      int
}
