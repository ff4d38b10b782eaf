package tokenswap

import (
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/perm"
)

// Approx is the default approximate token swapper.
type Approx struct {
	g *coupling.Graph
}

// NewApprox returns an approximate finder over g.
func NewApprox(g *coupling.Graph) *Approx {
	return &Approx{g: g}
}

// Find implements Finder.
func (a *Approx) Find(from, to perm.Assignment) (perm.SwapSeq, error) {
	pr, err := newProblem(a.g, from, to)
	if err != nil {
		return nil, err
	}

	seq, ok := a.chains(pr)
	if !ok {
		seq = a.treeRoute(pr)
	}
	return pr.prune(seq), nil
}

// chains runs the happy-swap-chain procedure. It reports false when the
// iteration budget is exhausted.
func (a *Approx) chains(pr *problem) (perm.SwapSeq, bool) {
	n := a.g.Size()
	dist := a.g.Distances()
	at := perm.Seq(n) // at[p] = item at position p

	total := 0
	for i, q := range pr.target {
		total += dist[i][q]
	}
	budget := 4*total + n*n + 1

	happy := func(p int) bool { return pr.target[at[p]] == p }
	closer := func(p, w int) bool {
		t := pr.target[at[p]]
		return dist[w][t] < dist[p][t]
	}

	var seq perm.SwapSeq
	swap := func(u, v int) {
		seq = append(seq, perm.Swap{U: u, V: v})
		at[u], at[v] = at[v], at[u]
	}

	for len(seq) <= budget {
		if cycle := a.findCycle(happy, closer); cycle != nil {
			for i := len(cycle) - 1; i > 0; i-- {
				swap(cycle[i-1], cycle[i])
			}
			continue
		}
		u, v, found := a.unhappyArc(happy, closer)
		if !found {
			return seq, true
		}
		swap(u, v)
	}
	return nil, false
}

// findCycle returns a directed cycle v1→...→vk of unhappy positions where
// every arc moves the token at its tail closer to its destination.
func (a *Approx) findCycle(happy func(int) bool, closer func(int, int) bool) []int {
	n := a.g.Size()
	const (
		white = iota
		grey
		black
	)
	color := make([]int, n)
	var stack []int
	var found []int

	var visit func(p int) bool
	visit = func(p int) bool {
		color[p] = grey
		stack = append(stack, p)
		for _, w := range a.g.Adj(p) {
			if happy(w) || !closer(p, w) {
				continue
			}
			switch color[w] {
			case grey:
				for i, s := range stack {
					if s == w {
						found = append([]int(nil), stack[i:]...)
						return true
					}
				}
			case white:
				if visit(w) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[p] = black
		return false
	}

	for p := range n {
		if color[p] == white && !happy(p) && visit(p) {
			return found
		}
	}
	return nil
}

// unhappyArc returns the first arc from an unhappy position into a happy one.
func (a *Approx) unhappyArc(happy func(int) bool, closer func(int, int) bool) (int, int, bool) {
	for p := range a.g.Size() {
		if happy(p) {
			continue
		}
		for _, w := range a.g.Adj(p) {
			if happy(w) && closer(p, w) {
				return p, w, true
			}
		}
	}
	return 0, 0, false
}

// treeRoute settles positions leaf by leaf on a BFS spanning tree: the item
// destined for a leaf is walked there along the tree, then the leaf is
// removed.
func (a *Approx) treeRoute(pr *problem) perm.SwapSeq {
	n := a.g.Size()
	at := perm.Seq(n)
	where := perm.Seq(n) // where[item] = position

	parent := make([]int, n)
	order := make([]int, 0, n)
	seen := make([]bool, n)
	for root := range n {
		if seen[root] {
			continue
		}
		parent[root] = -1
		seen[root] = true
		queue := []int{root}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			order = append(order, u)
			for _, v := range a.g.Adj(u) {
				if !seen[v] {
					seen[v] = true
					parent[v] = u
					queue = append(queue, v)
				}
			}
		}
	}

	treePath := func(src, dst int) []int {
		// Walk both endpoints to their common ancestor.
		depth := func(x int) int {
			d := 0
			for ; parent[x] >= 0; x = parent[x] {
				d++
			}
			return d
		}
		var up, down []int
		x, y := src, dst
		dx, dy := depth(x), depth(y)
		for dx > dy {
			up = append(up, x)
			x = parent[x]
			dx--
		}
		for dy > dx {
			down = append(down, y)
			y = parent[y]
			dy--
		}
		for x != y {
			up = append(up, x)
			down = append(down, y)
			x, y = parent[x], parent[y]
		}
		up = append(up, x)
		for i := len(down) - 1; i >= 0; i-- {
			up = append(up, down[i])
		}
		return up
	}

	var seq perm.SwapSeq
	// Reverse BFS order visits every vertex after all of its descendants,
	// so each removed vertex is a leaf of the remaining tree.
	for i := len(order) - 1; i >= 0; i-- {
		leaf := order[i]
		item := -1
		for it, q := range pr.target {
			if q == leaf {
				item = it
				break
			}
		}
		path := treePath(where[item], leaf)
		for k := 0; k+1 < len(path); k++ {
			u, v := path[k], path[k+1]
			seq = append(seq, perm.Swap{U: u, V: v})
			at[u], at[v] = at[v], at[u]
			where[at[u]], where[at[v]] = u, v
		}
	}
	return seq
}
