// Package perm provides the mapping and permutation primitives used by the
// qubit allocator.
//
// # Mappings
//
// A [Mapping] sends virtual qubits to physical qubits. It is a dense slice
// indexed by virtual qubit; entries are a physical qubit index or [Undef].
// Defined entries are pairwise distinct, so every mapping is a partial
// injection. Its inverse view is an [Assignment], indexed by physical qubit:
//
//	m := perm.Mapping{2, perm.Undef, 0}
//	a := m.Inverse(3)           // [2 _ 0]
//	m.String()                  // "[0 => 2; 1 => _; 2 => 0]"
//
// [Mapping.Fill] completes a partial mapping with the unused physical qubits
// in ascending order, which is how the initial placement of idle qubits is
// decided.
//
// # Swaps
//
// A [Swap] exchanges the contents of two physical qubits. A [SwapSeq] is an
// ordered list of swaps and [SwapSeq.Apply] replays it on an assignment.
//
// # Permutation Generation
//
// [Generate] enumerates permutations with Heap's algorithm and [Factorial]
// sizes the full permutation space. They are used to check routing
// procedures against every placement of a small device.
package perm
