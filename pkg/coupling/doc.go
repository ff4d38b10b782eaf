// Package coupling models the directed coupling graph of a quantum device.
//
// # Overview
//
// Vertices are physical qubits, indexed densely from 0 to [Graph.Size]-1. A
// directed edge u→v means a two-qubit gate with control u and target v is
// native on the device. When only v→u exists the gate is still executable by
// reversing its direction, which costs extra gates; when neither exists the
// qubits must first be brought together by swaps.
//
//	g, err := coupling.New(3, []coupling.Edge{{0, 1}, {1, 2}})
//	g.HasEdge(0, 1) // true: native
//	g.HasEdge(1, 0) // false: reversible
//	g.Adj(1)        // [0 2]: neighbors in either direction
//
// # Reverse Closure
//
// [Graph.ReverseClosure] returns a new graph with every missing reverse edge
// added and marked synthetic ([Graph.IsReverseEdge]). It is useful for
// devices that describe bidirectional couplers by listing one direction.
// Synthetic edges appear in [Graph.Succ], [Graph.Pred] and [Graph.Edges], but
// [Graph.HasEdge] stays native-only so that gates on them are still charged
// as reversals.
//
// # Distances
//
// [Graph.Distances] returns all-pairs hop counts over the undirected
// adjacency, computed once per graph. Swaps are symmetric, so direction is
// irrelevant for routing distances.
//
// Graphs are immutable after construction and safe for concurrent use.
package coupling
