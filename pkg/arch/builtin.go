package arch

import (
	"fmt"

	"github.com/matzehuels/qmap/pkg/coupling"
)

// adjacency lists a device as control -> targets.
type adjacency map[int][]int

func (a adjacency) edges(bidirectional bool) []coupling.Edge {
	var out []coupling.Edge
	for u, vs := range a {
		for _, v := range vs {
			out = append(out, coupling.Edge{From: u, To: v})
			if bidirectional {
				out = append(out, coupling.Edge{From: v, To: u})
			}
		}
	}
	return out
}

// fromAdjacency builds named "q[i]" graphs. Bidirectional devices get both
// directions as native edges.
func fromAdjacency(n int, a adjacency, bidirectional bool) func() (*coupling.Graph, error) {
	return func() (*coupling.Graph, error) {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("q[%d]", i)
		}
		return coupling.NewNamed(names, a.edges(bidirectional))
	}
}

func builtins() []Device {
	return []Device{
		{
			Name:        "ibmqx2",
			Description: "IBM QX2 (Yorktown), 5 qubits",
			Qubits:      5,
			build: fromAdjacency(5, adjacency{
				0: {1, 2},
				1: {2},
				3: {2, 4},
				4: {2},
			}, false),
		},
		{
			Name:        "ibmqx3",
			Description: "IBM QX3, 16 qubits",
			Qubits:      16,
			build: fromAdjacency(16, adjacency{
				0:  {1},
				1:  {2},
				2:  {3},
				3:  {14},
				4:  {3, 5},
				6:  {7, 11},
				7:  {10},
				8:  {7},
				9:  {8, 10},
				11: {10},
				12: {5, 11, 13},
				13: {4, 14},
				15: {0, 14},
			}, false),
		},
		{
			Name:        "ibmqx5",
			Description: "IBM QX5 (Rueschlikon), 16 qubits",
			Qubits:      16,
			build: fromAdjacency(16, adjacency{
				1:  {0, 2},
				2:  {3},
				3:  {4, 14},
				5:  {4},
				6:  {5, 7, 11},
				7:  {10},
				8:  {7},
				9:  {8, 10},
				11: {10},
				12: {5, 11, 13},
				13: {4, 14},
				15: {0, 2, 14},
			}, false),
		},
		{
			Name:        "ibmq_tokyo",
			Description: "IBM Q20 Tokyo, 20 qubits, bidirectional",
			Qubits:      20,
			build: fromAdjacency(20, adjacency{
				0:  {1, 5},
				1:  {2, 6, 7},
				2:  {3, 6, 7},
				3:  {4, 8, 9},
				4:  {8, 9},
				5:  {6, 10, 11},
				6:  {7, 10, 11},
				7:  {8, 12, 13},
				8:  {9, 12, 13},
				9:  {14},
				10: {11, 15},
				11: {12, 16, 17},
				12: {13, 16, 17},
				13: {14, 18, 19},
				14: {18, 19},
				15: {16},
				16: {17},
				17: {18},
				18: {19},
			}, true),
		},
	}
}
