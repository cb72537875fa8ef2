package graph

import "testing"

func TestBuildCSR(t *testing.T) {
	raw := []RawEdge{
		{Src: 0, Dst: 1, Weight: 5},
		{Src: 0, Dst: 2, Weight: 3},
		{Src: 1, Dst: 2, Weight: 1},
	}
	g := Build(4, raw)

	if g.N() != 4 {
		t.Fatalf("N() = %d, want 4", g.N())
	}
	if g.EdgeCount() != 3 {
		t.Fatalf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	if d := g.OutDegree(3); d != 0 {
		t.Errorf("isolated node 3 has out-degree %d, want 0", d)
	}
	if d := g.OutDegree(0); d != 2 {
		t.Errorf("node 0 has out-degree %d, want 2", d)
	}

	seen := map[uint32]Distance{}
	for _, e := range g.OutEdges(0) {
		seen[e.Dst] = e.Weight
	}
	if seen[1] != 5 || seen[2] != 3 {
		t.Errorf("node 0's out-edges = %v, want {1:5, 2:3}", seen)
	}
}

func TestClampedAdd(t *testing.T) {
	if got := ClampedAdd(3, 4); got != 7 {
		t.Errorf("ClampedAdd(3, 4) = %d, want 7", got)
	}
	if got := ClampedAdd(INFINITY, 5); got != INFINITY {
		t.Errorf("ClampedAdd(INFINITY, 5) = %d, want INFINITY", got)
	}
	if got := ClampedAdd(INFINITY-2, MaxEdgeWeight); got != INFINITY {
		t.Errorf("ClampedAdd near the ceiling overflowed instead of clamping: got %d", got)
	}
}
