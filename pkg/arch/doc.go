// Package arch provides a catalog of quantum device coupling graphs.
//
// A [Catalog] maps names to device builders. [NewCatalog] registers the
// built-in IBM devices and understands generator names for regular
// topologies:
//
//	line:N   N qubits, i → i+1
//	ring:N   line plus N-1 → 0
//	grid:RxC R rows of C qubits, edges rightwards and downwards
//	full:N   every pair coupled in both directions
//
// Catalogs are plain values; the application builds one and passes it where
// it is needed.
package arch
