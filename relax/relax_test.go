package relax

import (
	"testing"

	"github.com/ssallinen-style/parasssp/graph"
)

// collector is a trivial Pusher stub for tests: it just records everything
// pushed to it, in order.
type collector struct {
	pushed []struct {
		node uint32
		dist graph.Distance
	}
}

func (c *collector) Push(node uint32, dist graph.Distance) {
	c.pushed = append(c.pushed, struct {
		node uint32
		dist graph.Distance
	}{node, dist})
}

func TestRelaxEdgeImproves(t *testing.T) {
	st := graph.NewNodeState(4, 1, false)
	st.TryImprove(0, 0)

	c := &collector{}
	var stats Stats
	RelaxEdge(st, 0, graph.Edge{Dst: 1, Weight: 5}, c, &stats)

	if got := st.Load(1); got != 5 {
		t.Fatalf("dist[1] = %d, want 5", got)
	}
	if len(c.pushed) != 1 || c.pushed[0].node != 1 || c.pushed[0].dist != 5 {
		t.Fatalf("pushed = %v, want one push of (1, 5)", c.pushed)
	}
	if stats.BadWork != 0 {
		t.Fatalf("BadWork = %d on a first-ever improvement, want 0", stats.BadWork)
	}
}

func TestRelaxEdgeNoImprovementDoesNotPush(t *testing.T) {
	st := graph.NewNodeState(4, 1, false)
	st.TryImprove(1, 2)

	c := &collector{}
	var stats Stats
	RelaxEdge(st, 0, graph.Edge{Dst: 1, Weight: 10}, c, &stats)

	if got := st.Load(1); got != 2 {
		t.Fatalf("dist[1] = %d, want unchanged 2", got)
	}
	if len(c.pushed) != 0 {
		t.Fatalf("pushed = %v, want nothing pushed on a non-improving relax", c.pushed)
	}
}

func TestRelaxEdgeBadWorkCountsOnlyFiniteSupersede(t *testing.T) {
	st := graph.NewNodeState(4, 1, false)

	c := &collector{}
	var stats Stats
	// First improvement: old was INFINITY, not BadWork.
	RelaxEdge(st, 0, graph.Edge{Dst: 1, Weight: 10}, c, &stats)
	if stats.BadWork != 0 {
		t.Fatalf("BadWork after first improvement = %d, want 0", stats.BadWork)
	}
	// Second, better improvement: old was finite (10), this is BadWork.
	RelaxEdge(st, 0, graph.Edge{Dst: 1, Weight: 3}, c, &stats)
	if stats.BadWork != 1 {
		t.Fatalf("BadWork after superseding improvement = %d, want 1", stats.BadWork)
	}
}

func TestRelaxEdgeOverflowNeverImproves(t *testing.T) {
	st := graph.NewNodeState(4, 1, false)
	c := &collector{}
	var stats Stats
	RelaxEdge(st, graph.INFINITY-1, graph.Edge{Dst: 1, Weight: graph.MaxEdgeWeight}, c, &stats)

	if got := st.Load(1); got != graph.INFINITY {
		t.Fatalf("dist[1] = %d, want INFINITY (never improved by a saturating sum)", got)
	}
	if len(c.pushed) != 0 {
		t.Fatalf("pushed = %v, want nothing pushed for a saturating relax", c.pushed)
	}
}

func TestRelaxNodeDropsStaleRequest(t *testing.T) {
	g := graph.Build(3, []graph.RawEdge{{Src: 0, Dst: 1, Weight: 1}})
	st := graph.NewNodeState(3, 1, false)
	st.TryImprove(0, 5) // current distance is 5

	c := &collector{}
	var stats Stats
	// Popped request claims distance 9, which is no longer current -- the
	// node was improved to 5 by someone else after this request was queued.
	RelaxNode(g, st, 0, 9, c, &stats)

	if stats.EmptyWork != 1 {
		t.Fatalf("EmptyWork = %d, want 1 for a stale request", stats.EmptyWork)
	}
	if len(c.pushed) != 0 {
		t.Fatalf("pushed = %v, want nothing pushed for a dropped stale request", c.pushed)
	}
}

func TestRelaxNodeRelaxesLiveRequest(t *testing.T) {
	g := graph.Build(3, []graph.RawEdge{
		{Src: 0, Dst: 1, Weight: 4},
		{Src: 0, Dst: 2, Weight: 7},
	})
	st := graph.NewNodeState(3, 1, false)
	st.TryImprove(0, 2)

	c := &collector{}
	var stats Stats
	RelaxNode(g, st, 0, 2, c, &stats)

	if got := st.Load(1); got != 6 {
		t.Fatalf("dist[1] = %d, want 6", got)
	}
	if got := st.Load(2); got != 9 {
		t.Fatalf("dist[2] = %d, want 9", got)
	}
	if len(c.pushed) != 2 {
		t.Fatalf("pushed %d items, want 2", len(c.pushed))
	}
}

func TestRelaxNodeBlindRelaxesEveryEdge(t *testing.T) {
	g := graph.Build(3, []graph.RawEdge{
		{Src: 0, Dst: 1, Weight: 4},
		{Src: 0, Dst: 2, Weight: 7},
	})
	st := graph.NewNodeState(3, 1, false)
	st.TryImprove(0, 1)

	c := &collector{}
	var stats Stats
	RelaxNodeBlind(g, st, 0, c, &stats)

	if got := st.Load(1); got != 5 {
		t.Fatalf("dist[1] = %d, want 5", got)
	}
	if got := st.Load(2); got != 8 {
		t.Fatalf("dist[2] = %d, want 8", got)
	}
}
