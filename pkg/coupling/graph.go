package coupling

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/qmap/pkg/errors"
)

// Edge is a directed coupling: control From, target To.
type Edge struct {
	From int `json:"from" yaml:"from" toml:"from"`
	To   int `json:"to" yaml:"to" toml:"to"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%d->%d", e.From, e.To)
}

// Graph is an immutable directed coupling graph over physical qubits.
type Graph struct {
	n       int
	native  []bool // n*n, row-major
	reverse []bool // n*n, synthetic edges added by ReverseClosure
	succ    [][]int
	pred    [][]int
	adj     [][]int
	edges   []Edge
	names   []string

	distOnce sync.Once
	dist     [][]int
}

// New builds a graph of n physical qubits. Duplicate edges collapse; self
// loops and out-of-range endpoints are rejected.
func New(n int, edges []Edge) (*Graph, error) {
	if err := errors.ValidateQubitCount("qubits", n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArch, err, "invalid coupling graph")
	}
	g := &Graph{
		n:      n,
		native: make([]bool, n*n),
		succ:   make([][]int, n),
		pred:   make([][]int, n),
		adj:    make([][]int, n),
	}
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, errors.New(errors.ErrCodeInvalidArch, "edge %s out of range [0,%d)", e, n)
		}
		if e.From == e.To {
			return nil, errors.New(errors.ErrCodeInvalidArch, "self loop on qubit %d", e.From)
		}
		if g.native[e.From*n+e.To] {
			continue
		}
		g.native[e.From*n+e.To] = true
		g.edges = append(g.edges, e)
	}
	g.index()
	return g, nil
}

// NewNamed builds a graph whose vertices carry display names, such as "q[3]".
func NewNamed(names []string, edges []Edge) (*Graph, error) {
	g, err := New(len(names), edges)
	if err != nil {
		return nil, err
	}
	g.names = slices.Clone(names)
	return g, nil
}

func (g *Graph) index() {
	n := g.n
	for u := range n {
		g.succ[u] = g.succ[u][:0]
		g.pred[u] = g.pred[u][:0]
		g.adj[u] = g.adj[u][:0]
	}
	for u := range n {
		for v := range n {
			fwd, bwd := g.arc(u, v), g.arc(v, u)
			if fwd {
				g.succ[u] = append(g.succ[u], v)
			}
			if bwd {
				g.pred[u] = append(g.pred[u], v)
			}
			if fwd || bwd {
				g.adj[u] = append(g.adj[u], v)
			}
		}
	}
	slices.SortFunc(g.edges, func(a, b Edge) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
}

// Size returns the number of physical qubits.
func (g *Graph) Size() int {
	return g.n
}

// HasEdge reports whether u→v is native. Synthetic edges added by
// ReverseClosure do not count: a gate placed on one still pays a reversal.
func (g *Graph) HasEdge(u, v int) bool {
	return g.native[u*g.n+v]
}

// arc reports whether u→v is native or synthetic.
func (g *Graph) arc(u, v int) bool {
	i := u*g.n + v
	return g.native[i] || (g.reverse != nil && g.reverse[i])
}

// IsReverseEdge reports whether u→v was added by ReverseClosure.
func (g *Graph) IsReverseEdge(u, v int) bool {
	return g.reverse != nil && g.reverse[u*g.n+v]
}

// Coupled reports whether u and v share an edge in either direction.
func (g *Graph) Coupled(u, v int) bool {
	return g.arc(u, v) || g.arc(v, u)
}

// Adj returns the neighbors of u in either direction, ascending.
// The returned slice must not be modified.
func (g *Graph) Adj(u int) []int {
	return g.adj[u]
}

// Succ returns the targets v of edges u→v, ascending.
func (g *Graph) Succ(u int) []int {
	return g.succ[u]
}

// Pred returns the controls v of edges v→u, ascending.
func (g *Graph) Pred(u int) []int {
	return g.pred[u]
}

// Edges returns every edge sorted by (From, To), synthetic edges included.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Name returns the display name of u, or "q[u]" if the graph is unnamed.
func (g *Graph) Name(u int) string {
	if g.names != nil {
		return g.names[u]
	}
	return fmt.Sprintf("q[%d]", u)
}

// ReverseClosure returns a copy of g in which every edge u→v has a matching
// v→u. Added edges are marked synthetic.
func (g *Graph) ReverseClosure() *Graph {
	n := g.n
	out := &Graph{
		n:       n,
		native:  slices.Clone(g.native),
		reverse: make([]bool, n*n),
		succ:    make([][]int, n),
		pred:    make([][]int, n),
		adj:     make([][]int, n),
		edges:   slices.Clone(g.edges),
		names:   g.names,
	}
	if g.reverse != nil {
		copy(out.reverse, g.reverse)
	}
	for _, e := range g.edges {
		if !out.arc(e.To, e.From) {
			out.reverse[e.To*n+e.From] = true
			out.edges = append(out.edges, Edge{From: e.To, To: e.From})
		}
	}
	out.index()
	return out
}

// Connected reports whether every qubit is reachable from every other over
// the undirected adjacency. Graphs with fewer than two qubits are connected.
func (g *Graph) Connected() bool {
	if g.n < 2 {
		return true
	}
	for _, d := range g.Distances()[0] {
		if d == Unreachable {
			return false
		}
	}
	return true
}
