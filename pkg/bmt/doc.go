// Package bmt implements the bounded mapping tree qubit allocator.
//
// Given a directed coupling graph and the two-qubit dependency stream of a
// circuit, the allocator picks an initial placement of virtual qubits on
// physical qubits and the SWAP and reversal operations that make every
// two-qubit gate executable on the device.
//
// # Phases
//
// Allocation runs in three phases:
//
//  1. Search. Dependencies are consumed in program order while a bounded set
//     of candidate partial mappings is extended to satisfy each one. When no
//     candidate can satisfy the next dependency the current layer is closed
//     and a fresh one starts from the empty mapping. Each layer is therefore
//     a maximal run of dependencies satisfiable by one shared mapping.
//  2. Glue. A dynamic program over the layers chooses one candidate per
//     layer, propagating still-live qubits from one layer's mapping into the
//     next and ranking transitions with a swap estimate. The chosen mapping
//     sequence is then bridged with concrete swap sequences.
//  3. Build. The dependency stream is replayed against the mapping sequence,
//     emitting a CNOT, a reversed CNOT, or SWAPs followed by a CNOT for every
//     instruction.
//
// # Strategies
//
// Every decision point is an interface set through [Options]:
// [CandidateSelector] bounds the children of one candidate and the whole
// partial-solution set, [CostEstimator] ranks layer transitions,
// [LiveQubitPropagator] carries qubits a layer does not touch,
// [SequenceSelector] picks terminal candidates, and [tokenswap.Finder]
// materializes transitions. The defaults reproduce the classic allocator:
// keep the first K candidates, geodesic distance estimate, nearest free
// position propagation, and the single best terminal.
//
// # Costs
//
// A candidate's cost counts the reversed dependencies it incurs. The dynamic
// program ranks transitions by
//
//	ReversalWeight*reversals + EstimateWeight*swapEstimate
//
// and the final result by
//
//	SwapWeight*swaps + ReversalWeight*reversals
//
// with defaults 7, 4 and 1 (see [CostModel]).
//
// # Output
//
// The [Solution] holds the initial placement and one [Step] per two-qubit
// instruction. Operations name virtual qubits; the placement covers every
// physical qubit, so indices at and beyond the circuit width denote ancillas
// that SWAPs may move. [Solution.Verify] replays a solution on the device and
// checks that every operation is legal.
package bmt
