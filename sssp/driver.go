package sssp

import (
	"runtime"
	"sync"
	"time"

	"github.com/ssallinen-style/parasssp/enforce"
	"github.com/ssallinen-style/parasssp/graph"
	"github.com/ssallinen-style/parasssp/mathutils"
	"github.com/ssallinen-style/parasssp/relax"
	"github.com/ssallinen-style/parasssp/worklist"
)

// Options configures one solve.
type Options struct {
	Variant    Variant
	NumWorkers int  // <1 means runtime.GOMAXPROCS(0); forced to 1 for Serial
	DeltaShift uint // OBIM bucket width; only meaningful for OBIM-ordered variants
}

// Result is everything a solve produces: the final distance array plus the
// cooperative BadWork/EmptyWork statistics spec §5 and §9 call for.
type Result struct {
	State      *graph.NodeState
	Variant    Variant
	NumWorkers int
	BadWork    uint64
	EmptyWork  uint64
	// BadWorkMedian/EmptyWorkMedian report the per-worker median of the same
	// counters, so a caller can see whether BadWork/EmptyWork is spread
	// evenly across workers or concentrated on a few.
	BadWorkMedian   int
	EmptyWorkMedian int
	Elapsed         time.Duration
}

// Solve runs single-source shortest paths from source over g, using the
// scheduling discipline and duplicate-suppression policy opts.Variant
// selects. Serial reuses exactly the same scheduler and relaxation kernel as
// Async, just pinned to one worker -- so cross-variant determinism and
// Δ-invariance checks compare the real algorithm against itself at the
// thread-count extreme, not against a hand-rolled second implementation.
func Solve(g *graph.Graph, source uint32, opts Options) Result {
	enforce.ENFORCE(source < g.N(), "source node out of range")

	variant := opts.Variant
	numWorkers := opts.NumWorkers
	switch {
	case variant == Serial:
		variant = Async
		numWorkers = 1
	case numWorkers < 1:
		numWorkers = runtime.GOMAXPROCS(0)
	}

	watch := mathutils.Watch{}
	watch.Start()

	needsMarker := variant == AsyncBlindObimMSet || variant == AsyncBlindFifoMSet
	st := graph.NewNodeState(g.N(), numWorkers, needsMarker)

	wlOpts := variant.worklistOptions(int(g.N()), numWorkers, opts.DeltaShift)
	wlOpts.State = st
	wl := worklist.New(wlOpts)

	locals := make([]*worklist.WorkerLocal, numWorkers)
	for i := range locals {
		locals[i] = wl.NewWorkerLocal(i)
	}

	st.TryImprove(source, 0)
	wl.Push(locals[0], source, 0)

	blind := variant.blind()
	stats := make([]relax.Stats, numWorkers)

	var wg sync.WaitGroup
	for id := 0; id < numWorkers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(g, st, wl, locals[id], id, blind, &stats[id])
		}(id)
	}
	wg.Wait()
	watch.Pause()

	result := Result{State: st, Variant: opts.Variant, NumWorkers: numWorkers, Elapsed: watch.AbsoluteElapsed()}
	badWork := make([]int, numWorkers)
	emptyWork := make([]int, numWorkers)
	for i := range stats {
		result.BadWork += stats[i].BadWork
		result.EmptyWork += stats[i].EmptyWork
		badWork[i] = int(stats[i].BadWork)
		emptyWork[i] = int(stats[i].EmptyWork)
	}
	result.BadWorkMedian = mathutils.Median(badWork)
	result.EmptyWorkMedian = mathutils.Median(emptyWork)
	return result
}
