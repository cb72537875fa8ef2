// Package relax implements the relaxation kernel (spec §4.2) and the
// cooperative BadWork/EmptyWork statistics (spec §5, §9) built on top of the
// atomic monotonic-minimum protocol in graph.NodeState.TryImprove.
//
// Grounded on the teacher's OnVisitVertex/OnEdgeAdd pair in
// cmd/lp-sssp/sssp.go: "only act on an improvement... then message all
// neighbours" is exactly relax_node's control flow, generalized here from a
// single mutex-guarded float64 Property.Value to the spec's lock-free CAS
// protocol, and from "send to all neighbours unconditionally" to the
// abandon-if-superseded check spec §4.2 requires.
package relax

import (
	"github.com/ssallinen-style/parasssp/graph"
)

// Pusher is anything the relaxation kernel can hand a newly-improved node
// to. The worklist package's push-chunk implements this; tests can supply a
// trivial slice-collecting stub.
type Pusher interface {
	Push(node uint32, dist graph.Distance)
}

// Stats accumulates the cooperative, thread-local BadWork/EmptyWork counters
// described in spec §5 and §9: never touched with atomics on the hot path,
// flushed into a process-wide total only at solve end.
type Stats struct {
	BadWork   uint64 // a relaxation lowered an already-finite distance
	EmptyWork uint64 // a popped request's distance no longer matches the node's current distance
}

// RelaxEdge is relax_edge from spec §4.2: given the source's current
// tentative distance sdist and an edge out of it, attempt to improve the
// edge's destination. At most one successful CAS store per call, and at
// most one push per successful store.
func RelaxEdge(st *graph.NodeState, sdist graph.Distance, e graph.Edge, pusher Pusher, stats *Stats) {
	nd := graph.ClampedAdd(sdist, e.Weight)
	if nd >= graph.INFINITY {
		return // overflowed/unreachable contribution; never an improvement.
	}
	oldDist, installed := st.TryImprove(e.Dst, nd)
	if !installed {
		return
	}
	if oldDist != graph.INFINITY {
		stats.BadWork++
	}
	pusher.Push(e.Dst, nd)
}

// RelaxNode is relax_node from spec §4.2 for the request-bearing ("with
// stale-drop") variants: req is the popped (node, tentative distance) pair.
// If the request is stale (the node's current distance no longer matches
// what was popped), it is dropped as EmptyWork without touching any edges.
// Otherwise each out-edge is relaxed in turn, re-checking between edges
// whether a concurrent worker has already improved on w -- if so, the
// remaining edges are abandoned, since finishing them would relax against a
// distance this thread no longer believes is current.
func RelaxNode(g *graph.Graph, st *graph.NodeState, node uint32, w graph.Distance, pusher Pusher, stats *Stats) {
	if st.Load(node) != w {
		stats.EmptyWork++
		return
	}
	for _, e := range g.OutEdges(node) {
		if st.Load(node) != w {
			return // superseded mid-relaxation; finishing would be wasted work.
		}
		RelaxEdge(st, w, e, pusher, stats)
	}
}

// RelaxNodeBlind is relax_node for the bare-node-id ("blind") variants: no
// request payload, so there is no stale-drop check up front -- duplicate
// suppression is the scheduler's job (an in-set marker, or a membership
// set). The kernel still re-checks sdist between edges for the same reason
// as RelaxNode.
func RelaxNodeBlind(g *graph.Graph, st *graph.NodeState, node uint32, pusher Pusher, stats *Stats) {
	w := st.Load(node)
	for _, e := range g.OutEdges(node) {
		if st.Load(node) != w {
			return
		}
		RelaxEdge(st, w, e, pusher, stats)
	}
}
