// Package graph implements the immutable, compressed adjacency
// representation the solver operates over (spec §3, §4.1): nodes are dense
// indices [0, N), out-edges for a node are a contiguous slice for
// cache-friendly iteration, and per-node state is a separate, mutable,
// atomically-updated array.
//
// Construction is adapted from the teacher's graph/io.go edge-dequeue
// pattern (build an adjacency count per source, prefix-sum into offsets,
// then scatter edges into place) generalized from the teacher's streamed
// event log to an in-memory edge list, since topology is static for a solve
// (spec §1 Non-goals: no dynamic graph mutation).
package graph

import (
	"math"

	"github.com/ssallinen-style/parasssp/enforce"
)

// Distance is the unit the solver computes in. 64-bit so that real path
// lengths (sums of weights of at most MaxEdgeWeight) stay far below
// INFINITY; sums involving INFINITY itself go through ClampedAdd so they
// cannot wrap into a small, valid-looking value (spec §8 "Maximum-valued
// distance...").
type Distance = uint64

// INFINITY is the sentinel for "unreached". Edge weights are bounded well
// below this so that INFINITY + weight cannot overflow back into a small
// number; see ClampedAdd.
const INFINITY Distance = math.MaxUint64

// MaxEdgeWeight bounds a single edge's weight. Any tentative distance is a
// sum of at most N-1 such weights before we'd have found a cheaper path, so
// this bound keeps additions comfortably clear of wraparound for any graph
// that fits in memory.
const MaxEdgeWeight Distance = math.MaxUint32

// ClampedAdd computes a+b saturating at INFINITY, so relaxing an edge out of
// an unreached node (a == INFINITY) can never produce a wrapped, falsely
// "improving" distance.
func ClampedAdd(a, b Distance) Distance {
	if a >= INFINITY-b {
		return INFINITY
	}
	return a + b
}

// Edge is one out-edge: destination node id and a non-negative weight.
// Edges for a single source are stored contiguously in Graph.edges.
type Edge struct {
	Dst    uint32
	Weight Distance
}

// Graph is the immutable CSR-shaped topology: N nodes, out-edges listed
// contiguously per node via offsets. Safe for unsynchronized concurrent
// reads -- nothing here is written once Build returns.
type Graph struct {
	offsets []uint32 // len N+1; node v's edges are edges[offsets[v]:offsets[v+1]]
	edges   []Edge
}

// N returns the number of nodes.
func (g *Graph) N() uint32 { return uint32(len(g.offsets) - 1) }

// OutEdges returns node v's out-edges as a slice; iteration over it is O(1)
// amortized per edge and touches only contiguous memory.
func (g *Graph) OutEdges(v uint32) []Edge {
	return g.edges[g.offsets[v]:g.offsets[v+1]]
}

// OutDegree returns the number of out-edges of v.
func (g *Graph) OutDegree(v uint32) int {
	return int(g.offsets[v+1] - g.offsets[v])
}

// EdgeCount returns the total number of directed edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// RawEdge is one (src, dst, weight) triple, the builder's input shape.
type RawEdge struct {
	Src, Dst uint32
	Weight   Distance
}

// Build compresses a raw edge list into CSR form. n must be at least
// 1+max(src, dst) across edges; the builder does not infer node count from
// the edges alone, since isolated high-numbered nodes would otherwise be
// silently dropped.
func Build(n uint32, rawEdges []RawEdge) *Graph {
	enforce.ENFORCE(n > 0, "graph must have at least one node")
	for _, e := range rawEdges {
		enforce.ENFORCE(e.Src < n && e.Dst < n, "edge references node outside [0, n)")
		enforce.ENFORCE(e.Weight <= MaxEdgeWeight, "edge weight exceeds MaxEdgeWeight")
	}

	degree := make([]uint32, n+1)
	for _, e := range rawEdges {
		degree[e.Src+1]++
	}
	offsets := degree // reuse: prefix-sum in place
	for v := uint32(0); v < n; v++ {
		offsets[v+1] += offsets[v]
	}

	edges := make([]Edge, len(rawEdges))
	cursor := make([]uint32, n)
	copy(cursor, offsets[:n])
	for _, e := range rawEdges {
		pos := cursor[e.Src]
		edges[pos] = Edge{Dst: e.Dst, Weight: e.Weight}
		cursor[e.Src]++
	}

	return &Graph{offsets: offsets, edges: edges}
}
