// Package testgraph generates random weighted graphs and an independent
// Dijkstra oracle to check the solver's output against, grounded on the
// teacher's cmd/lp-sssp/rand-graph.go, which builds its cross-check graphs
// the same way: gonum's graph/simple for the topology, graph/path's
// DijkstraFrom as the independent oracle.
package testgraph

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/ssallinen-style/parasssp/graph"
)

// Random builds a random directed graph with n nodes and roughly
// avgDegree*n edges, weights drawn uniformly from [1, maxWeight]. Returns
// both the solver's CSR graph.Graph and the equivalent gonum graph for
// oracle comparison, built from the same edge list so the two can never
// silently diverge.
func Random(rng *rand.Rand, n uint32, avgDegree int, maxWeight graph.Distance) (*graph.Graph, *simple.WeightedDirectedGraph) {
	gonumG := simple.NewWeightedDirectedGraph(0, 0)
	for v := uint32(0); v < n; v++ {
		gonumG.AddNode(simple.Node(int64(v)))
	}

	raw := make([]graph.RawEdge, 0, int(n)*avgDegree)
	for v := uint32(0); v < n; v++ {
		for k := 0; k < avgDegree; k++ {
			dst := uint32(rng.Intn(int(n)))
			if dst == v || gonumG.HasEdgeFromTo(int64(v), int64(dst)) {
				continue
			}
			w := graph.Distance(rng.Int63n(int64(maxWeight))) + 1
			raw = append(raw, graph.RawEdge{Src: v, Dst: dst, Weight: w})
			gonumG.SetWeightedEdge(gonumG.NewWeightedEdge(simple.Node(int64(v)), simple.Node(int64(dst)), float64(w)))
		}
	}

	return graph.Build(n, raw), gonumG
}

// Dijkstra runs gonum's reference Dijkstra from source, returning the exact
// distance to every node as a plain slice, graph.INFINITY where unreached
// -- the independent oracle sssp's driver_test.go compares the solver's
// output against.
func Dijkstra(g *simple.WeightedDirectedGraph, source uint32, n uint32) []graph.Distance {
	tree := path.DijkstraFrom(simple.Node(int64(source)), g)
	out := make([]graph.Distance, n)
	for v := uint32(0); v < n; v++ {
		_, weight := tree.To(int64(v))
		if math.IsInf(weight, 1) {
			out[v] = graph.INFINITY
			continue
		}
		out[v] = graph.Distance(weight)
	}
	return out
}
