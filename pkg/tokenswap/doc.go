// Package tokenswap finds swap sequences that move qubits between two
// placements on a coupling graph.
//
// # Problem
//
// Every physical qubit holds a token (a virtual qubit) or nothing. Given the
// current [perm.Assignment] and a target one, find a short sequence of swaps
// along coupled qubit pairs that puts every token defined in the target at
// its target position. Tokens the target leaves undefined may end anywhere,
// and empty positions are free to move.
//
// # Finders
//
//   - [Approx]: the happy-swap-chain approximation. Each token points at the
//     neighbors that bring it closer to its destination; a directed cycle of
//     such arcs is resolved with one swap fewer than its length, otherwise a
//     single "unhappy" swap displaces a settled token. It yields at most four
//     times the optimal number of swaps and falls back to spanning-tree
//     routing if it ever stops making progress.
//   - [Exact]: breadth-first search over placements. It returns a minimum
//     sequence and is limited to small devices.
//
// Both finders are deterministic and safe for concurrent use.
package tokenswap
