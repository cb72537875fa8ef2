package sssp

import (
	"github.com/ssallinen-style/parasssp/graph"
	"github.com/ssallinen-style/parasssp/internal/utils"
	"github.com/ssallinen-style/parasssp/relax"
	"github.com/ssallinen-style/parasssp/worklist"
)

// runWorker is the per-thread loop spec §4.5 describes: pop, relax, repeat.
// When a worker finds nothing to pop it publishes any work it is still
// privately holding (so a sibling's quiescence check can never miss it),
// tries once more, and only then votes idle. It keeps retrying, backing off
// a little more each pass so idle workers don't spin a core at full tilt,
// until every worker agrees the solve has reached quiescence.
func runWorker(g *graph.Graph, st *graph.NodeState, wl *worklist.Worklist, l *worklist.WorkerLocal, id int, blind bool, stats *relax.Stats) {
	pusher := wl.Pusher(l)
	relaxOne := func(node uint32, dist graph.Distance) {
		if blind {
			relax.RelaxNodeBlind(g, st, node, pusher, stats)
		} else {
			relax.RelaxNode(g, st, node, dist, pusher, stats)
		}
	}

	backoff := 0
	for {
		if node, dist, ok := wl.Pop(l); ok {
			wl.NoteBusy(id)
			backoff = 0
			relaxOne(node, dist)
			continue
		}

		wl.Flush(l)
		if node, dist, ok := wl.Pop(l); ok {
			wl.NoteBusy(id)
			backoff = 0
			relaxOne(node, dist)
			continue
		}

		if wl.NoteIdle(id) && wl.AllQuiescent() {
			return
		}
		backoff++
		utils.BackOff(backoff)
	}
}
