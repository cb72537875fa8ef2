package worklist

import (
	"sort"
	"testing"

	"github.com/ssallinen-style/parasssp/graph"
)

func drainAll(t *testing.T, wl *Worklist, l *WorkerLocal) []uint32 {
	t.Helper()
	wl.Flush(l)
	var got []uint32
	for {
		node, _, ok := wl.Pop(l)
		if !ok {
			break
		}
		got = append(got, node)
	}
	return got
}

func TestFIFOPushPopSingleWorker(t *testing.T) {
	wl := New(Options{NumNodes: 32, NumWorkers: 1, Order: OrderFIFO, Dedup: DedupNone})
	l := wl.NewWorkerLocal(0)

	for v := uint32(0); v < 10; v++ {
		wl.Push(l, v, graph.Distance(v))
	}

	got := drainAll(t, wl, l)
	if len(got) != 10 {
		t.Fatalf("drained %d items, want 10", len(got))
	}
	seen := map[uint32]bool{}
	for _, v := range got {
		seen[v] = true
	}
	for v := uint32(0); v < 10; v++ {
		if !seen[v] {
			t.Errorf("node %d never came back out of the FIFO worklist", v)
		}
	}
}

func TestFIFOAcrossWorkers(t *testing.T) {
	wl := New(Options{NumNodes: chunkCap * 4, NumWorkers: 2, Order: OrderFIFO, Dedup: DedupNone})
	a := wl.NewWorkerLocal(0)
	b := wl.NewWorkerLocal(1)

	const total = chunkCap * 3
	for v := uint32(0); v < total; v++ {
		wl.Push(a, v, 0)
	}
	wl.Flush(a)

	got := map[uint32]bool{}
	for {
		nodeA, _, okA := wl.Pop(a)
		if okA {
			got[nodeA] = true
		}
		nodeB, _, okB := wl.Pop(b)
		if okB {
			got[nodeB] = true
		}
		if !okA && !okB {
			break
		}
	}

	if len(got) != total {
		t.Fatalf("two workers together drained %d distinct nodes, want %d", len(got), total)
	}
}

func TestOBIMOrdersByPriority(t *testing.T) {
	wl := New(Options{NumNodes: 32, NumWorkers: 1, Order: OrderOBIM, Dedup: DedupNone, DeltaShift: 2})
	l := wl.NewWorkerLocal(0)

	// Push high priority (large dist) first, then low: the scheduler must
	// still drain low-priority buckets before high ones.
	wl.Push(l, 1, 100)
	wl.Push(l, 2, 4)
	wl.Push(l, 3, 0)
	wl.Flush(l)

	var order []uint32
	for {
		node, _, ok := wl.Pop(l)
		if !ok {
			break
		}
		order = append(order, node)
	}

	if len(order) != 3 {
		t.Fatalf("drained %v, want 3 items", order)
	}
	if order[0] != 3 {
		t.Errorf("first popped = %d, want node 3 (priority 0)", order[0])
	}
	if order[len(order)-1] != 1 {
		t.Errorf("last popped = %d, want node 1 (priority 25)", order[len(order)-1])
	}
}

func TestOBIMCursorRewindsOnLowerPush(t *testing.T) {
	wl := New(Options{NumNodes: 32, NumWorkers: 1, Order: OrderOBIM, Dedup: DedupNone, DeltaShift: 0})
	l := wl.NewWorkerLocal(0)

	wl.Push(l, 1, 10) // cursor advances to priority 10
	wl.Flush(l)
	if node, _, ok := wl.Pop(l); !ok || node != 1 {
		t.Fatalf("expected to pop node 1 first, got node=%d ok=%v", node, ok)
	}

	// Now push a much lower priority item; the cursor must rewind to see it
	// rather than staying stuck at the old high-water mark.
	wl.Push(l, 2, 1)
	wl.Flush(l)
	if node, _, ok := wl.Pop(l); !ok || node != 2 {
		t.Fatalf("expected the rewound cursor to surface node 2, got node=%d ok=%v", node, ok)
	}
}

func TestMarkingSetDedupSuppressesDuplicatePush(t *testing.T) {
	st := graph.NewNodeState(8, 1, true)
	wl := New(Options{NumNodes: 8, NumWorkers: 1, Order: OrderOBIM, Dedup: DedupMarkingSet, State: st})
	l := wl.NewWorkerLocal(0)

	wl.Push(l, 3, 5)
	wl.Push(l, 3, 5) // should be suppressed: already in-set
	wl.Flush(l)

	count := 0
	for {
		_, _, ok := wl.Pop(l)
		if !ok {
			break
		}
		count++
	}
	if count != 1 {
		t.Fatalf("popped node 3 %d times, want exactly 1 (marking-set dedup)", count)
	}
}

func TestMarkingSetAllowsRepushAfterPop(t *testing.T) {
	st := graph.NewNodeState(8, 1, true)
	wl := New(Options{NumNodes: 8, NumWorkers: 1, Order: OrderOBIM, Dedup: DedupMarkingSet, State: st})
	l := wl.NewWorkerLocal(0)

	wl.Push(l, 3, 5)
	wl.Flush(l)
	node, _, ok := wl.Pop(l)
	if !ok || node != 3 {
		t.Fatalf("first pop: node=%d ok=%v, want 3/true", node, ok)
	}

	// Marker cleared on pop, so a fresh relaxation may re-enqueue node 3.
	wl.Push(l, 3, 2)
	wl.Flush(l)
	node, _, ok = wl.Pop(l)
	if !ok || node != 3 {
		t.Fatalf("re-push after pop: node=%d ok=%v, want 3/true", node, ok)
	}
}

func TestTwoLevelHashSetDropsDuplicates(t *testing.T) {
	wl := New(Options{NumNodes: 64, NumWorkers: 1, Dedup: DedupHashSet})
	l := wl.NewWorkerLocal(0)

	for i := 0; i < 5; i++ {
		wl.Push(l, 7, 0)
	}
	wl.Push(l, 8, 0)

	got := map[uint32]int{}
	for {
		node, _, ok := wl.Pop(l)
		if !ok {
			break
		}
		got[node]++
	}
	if got[7] != 1 {
		t.Errorf("node 7 popped %d times, want 1", got[7])
	}
	if got[8] != 1 {
		t.Errorf("node 8 popped %d times, want 1", got[8])
	}
}

func TestTwoLevelOrderedSetDropsDuplicatesAndOrdersWithinShard(t *testing.T) {
	wl := New(Options{NumNodes: 64, NumWorkers: 1, Dedup: DedupOrderedSet})
	l := wl.NewWorkerLocal(0)

	// All of these land in the same shard (numDedupShards divides evenly
	// into 64, and these ids share low bits mod numDedupShards).
	ids := []uint32{numDedupShards*3 + 1, numDedupShards*1 + 1, numDedupShards*2 + 1}
	for _, id := range ids {
		wl.Push(l, id, 0)
	}
	wl.Push(l, ids[0], 0) // duplicate, must be dropped

	var got []uint32
	for {
		node, _, ok := wl.Pop(l)
		if !ok {
			break
		}
		got = append(got, node)
	}
	if len(got) != len(ids) {
		t.Fatalf("popped %v, want %d distinct ids", got, len(ids))
	}
	sortedIDs := append([]uint32{}, ids...)
	sort.Slice(sortedIDs, func(i, j int) bool { return sortedIDs[i] < sortedIDs[j] })
	for i := range sortedIDs {
		if got[i] != sortedIDs[i] {
			t.Errorf("shard did not pop in ascending order: got %v, want %v", got, sortedIDs)
		}
	}
}

func TestQuiescenceRequiresAllWorkersIdleTwice(t *testing.T) {
	q := newQuiescence(2)

	if q.noteIdle(0) {
		t.Fatal("worker 0 declared idle-ready on its first idle pass")
	}
	if q.noteIdle(0) != true {
		t.Fatal("worker 0 should be idle-ready on its second consecutive idle pass")
	}
	if q.allQuiescent() {
		t.Fatal("allQuiescent true before worker 1 has ever reported idle")
	}

	q.noteIdle(1)
	q.noteIdle(1)
	if !q.allQuiescent() {
		t.Fatal("allQuiescent false after both workers idled twice with no pushes between")
	}

	q.notePush()
	if q.allQuiescent() {
		t.Fatal("allQuiescent true immediately after a push moved the generation forward")
	}
}
