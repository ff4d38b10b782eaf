package arch

import "github.com/matzehuels/qmap/pkg/coupling"

// Line returns n qubits coupled i → i+1.
func Line(n int) (*coupling.Graph, error) {
	edges := make([]coupling.Edge, 0, max(n-1, 0))
	for i := 0; i+1 < n; i++ {
		edges = append(edges, coupling.Edge{From: i, To: i + 1})
	}
	return coupling.New(n, edges)
}

// Ring returns a line of n qubits closed by n-1 → 0.
func Ring(n int) (*coupling.Graph, error) {
	edges := make([]coupling.Edge, 0, n)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, coupling.Edge{From: i, To: i + 1})
	}
	if n > 2 {
		edges = append(edges, coupling.Edge{From: n - 1, To: 0})
	}
	return coupling.New(n, edges)
}

// Grid returns rows*cols qubits in row-major order, coupled rightwards and
// downwards.
func Grid(rows, cols int) (*coupling.Graph, error) {
	var edges []coupling.Edge
	for r := range rows {
		for c := range cols {
			q := r*cols + c
			if c+1 < cols {
				edges = append(edges, coupling.Edge{From: q, To: q + 1})
			}
			if r+1 < rows {
				edges = append(edges, coupling.Edge{From: q, To: q + cols})
			}
		}
	}
	return coupling.New(rows*cols, edges)
}

// Full returns n qubits with every ordered pair coupled.
func Full(n int) (*coupling.Graph, error) {
	var edges []coupling.Edge
	for u := range n {
		for v := range n {
			if u != v {
				edges = append(edges, coupling.Edge{From: u, To: v})
			}
		}
	}
	return coupling.New(n, edges)
}
