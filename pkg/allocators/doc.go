// Package allocators names the available qubit allocators.
//
// A [Registry] maps names such as "bmt" or "bmt-random" to constructors that
// build a configured allocator for a coupling graph. [NewDefaultRegistry]
// returns the standard set:
//
//	bmt         bounded mapping tree with deterministic selectors
//	bmt-random  seeded weighted-random children and partial selection
//	bmt-topk    explores the K cheapest terminal candidates
//	bmt-exact   exact token swapping, devices of at most 8 qubits
//
// Registries are plain values; applications build one at startup and pass
// it to the pipeline and API.
package allocators
