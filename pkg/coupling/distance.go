package coupling

// Unreachable is the distance between qubits in different components.
const Unreachable = -1

// Distances returns all-pairs undirected hop counts. The table is computed
// on first use and shared; callers must not modify it.
func (g *Graph) Distances() [][]int {
	g.distOnce.Do(func() {
		g.dist = make([][]int, g.n)
		for s := range g.n {
			g.dist[s] = g.bfs(s)
		}
	})
	return g.dist
}

// Distance returns the undirected hop count between u and v.
func (g *Graph) Distance(u, v int) int {
	return g.Distances()[u][v]
}

func (g *Graph) bfs(src int) []int {
	dist := make([]int, g.n)
	for i := range dist {
		dist[i] = Unreachable
	}
	dist[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.adj[u] {
			if dist[v] == Unreachable {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}

// Nearest returns the qubit closest to src (src included) for which accept
// returns true, breaking ties by BFS order over ascending neighbors. It
// returns -1 when no reachable qubit is accepted.
func (g *Graph) Nearest(src int, accept func(int) bool) int {
	seen := make([]bool, g.n)
	seen[src] = true
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if accept(u) {
			return u
		}
		for _, v := range g.adj[u] {
			if !seen[v] {
				seen[v] = true
				queue = append(queue, v)
			}
		}
	}
	return -1
}

// Path returns a shortest undirected path from u to v, endpoints included,
// or nil if v is unreachable.
func (g *Graph) Path(u, v int) []int {
	if u == v {
		return []int{u}
	}
	dist := g.Distances()
	if dist[u][v] == Unreachable {
		return nil
	}
	path := []int{u}
	for cur := u; cur != v; {
		for _, w := range g.adj[cur] {
			if dist[w][v] == dist[cur][v]-1 {
				cur = w
				break
			}
		}
		path = append(path, cur)
	}
	return path
}
