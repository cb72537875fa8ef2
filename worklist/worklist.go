// Package worklist implements the bag-of-chunks scheduler described in spec
// §4.4: the priority-bucketed (OBIM) and plain chunked-FIFO orderings, the
// three duplicate-suppression variants, and the quiescence detector, all
// unified behind the Worklist type the sssp driver pushes/pops through.
package worklist

import "github.com/ssallinen-style/parasssp/graph"

// Dedup selects which duplicate-suppression policy guards entry into the
// worklist -- spec §4.4's three variants, plus none for the request-bearing
// stale-drop variants that don't need one.
type Dedup int

const (
	DedupNone Dedup = iota
	DedupMarkingSet
	DedupHashSet
	DedupOrderedSet
)

// Order selects the scheduling discipline: priority-bucketed (Δ-stepping)
// or a single plain ordering with no priority structure. For the chunked
// variants (Dedup == DedupNone or DedupMarkingSet) this picks obim.go vs.
// fifo.go as the chunk scheduler. For the two standalone two-level sets
// (DedupHashSet, DedupOrderedSet) it picks between one set per OBIM
// priority bucket and a single flat, unordered set.
type Order int

const (
	OrderOBIM Order = iota
	OrderFIFO
)

// Options configures a Worklist for one solve.
type Options struct {
	NumNodes   int
	NumWorkers int
	DeltaShift uint // OBIM bucket width, also for the OBIM-ordered two-level sets; ignored for OrderFIFO
	Order      Order
	Dedup      Dedup
	State      *graph.NodeState // required when Dedup == DedupMarkingSet
}

// WorkerLocal is one worker's private, unsynchronized view into a Worklist:
// whichever chunk pair or set cursor the active variant needs. Fields for
// an inactive discipline go unused -- the cost of dispatching through an
// interface per item isn't worth paying for a choice that is fixed for the
// entire solve, so Worklist resolves push/pop/flush to concrete closures
// once, in New, rather than re-deciding per call.
type WorkerLocal struct {
	id int

	fifo *fifoLocal
	obim *obimLocal

	orderedSet *orderedSetLocal
	hashSet    *hashSetLocal

	bucketedOrderedSet *bucketedOrderedSetLocal
	bucketedHashSet    *bucketedHashSetLocal
}

// Worklist is the unified entry point the sssp driver pushes/pops through.
type Worklist struct {
	push    func(l *WorkerLocal, node uint32, dist graph.Distance)
	pop     func(l *WorkerLocal) (uint32, graph.Distance, bool)
	flush   func(l *WorkerLocal)
	newLoc  func(id int) *WorkerLocal
	quiesce *quiescence
}

// New builds a Worklist for the given Options.
func New(opts Options) *Worklist {
	numWorkers := opts.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	w := &Worklist{quiesce: newQuiescence(numWorkers)}

	if opts.Dedup == DedupHashSet || opts.Dedup == DedupOrderedSet {
		w.wireTwoLevelSet(opts)
		return w
	}
	w.wireChunked(opts, numWorkers)
	return w
}

// wireChunked wires the chunk/pool/bucket scheduler (fifo.go or obim.go) as
// the backing store, optionally guarded by the marking-set dedup filter.
func (w *Worklist) wireChunked(opts Options, numWorkers int) {
	var schedPush func(l *WorkerLocal, it item)
	var schedPop func(l *WorkerLocal) (item, bool)
	var schedFlush func(l *WorkerLocal)
	var newSchedLocal func(l *WorkerLocal)

	if opts.Order == OrderFIFO {
		b := newFifoBucket(opts.NumNodes, numWorkers)
		schedPush = func(l *WorkerLocal, it item) { b.push_(l.fifo, it) }
		schedPop = func(l *WorkerLocal) (item, bool) { return b.pop_(l.fifo) }
		schedFlush = func(l *WorkerLocal) { b.flush(l.fifo) }
		newSchedLocal = func(l *WorkerLocal) { l.fifo = b.newLocal() }
	} else {
		o := newOBIM(opts.DeltaShift, opts.NumNodes, numWorkers)
		schedPush = func(l *WorkerLocal, it item) { o.push_(l.obim, it) }
		schedPop = func(l *WorkerLocal) (item, bool) { return o.pop_(l.obim) }
		schedFlush = func(l *WorkerLocal) { o.flush(l.obim) }
		newSchedLocal = func(l *WorkerLocal) { l.obim = o.newLocal() }
	}

	if opts.Dedup == DedupMarkingSet {
		st := opts.State
		w.push = func(l *WorkerLocal, node uint32, dist graph.Distance) {
			if !st.TestAndSetInSet(node) {
				return
			}
			schedPush(l, item{node: node, dist: dist})
			w.quiesce.notePush()
		}
		w.pop = func(l *WorkerLocal) (uint32, graph.Distance, bool) {
			it, ok := schedPop(l)
			if !ok {
				return 0, 0, false
			}
			st.ClearInSet(it.node)
			return it.node, it.dist, true
		}
	} else {
		w.push = func(l *WorkerLocal, node uint32, dist graph.Distance) {
			schedPush(l, item{node: node, dist: dist})
			w.quiesce.notePush()
		}
		w.pop = func(l *WorkerLocal) (uint32, graph.Distance, bool) {
			it, ok := schedPop(l)
			return it.node, it.dist, ok
		}
	}
	w.flush = schedFlush
	w.newLoc = func(id int) *WorkerLocal {
		l := &WorkerLocal{id: id}
		newSchedLocal(l)
		return l
	}
}

// wireTwoLevelSet wires one of the standalone two-level sets as the entire
// worklist; the chunk/OBIM scheduler above goes unused for these variants.
// Order picks which of the two-level set's shapes to use: OrderFIFO is a
// single flat set (no priority ordering, the "Fifo" naming in spec §6),
// OrderOBIM is one full two-level set per priority bucket, popped in
// ascending-priority order (the "Obim" naming) -- mirroring the plain vs.
// priority-bucketed split the chunk scheduler above already has between
// fifo.go and obim.go.
func (w *Worklist) wireTwoLevelSet(opts Options) {
	if opts.Order == OrderOBIM {
		w.wireBucketedSet(opts)
		return
	}

	if opts.Dedup == DedupHashSet {
		set := newTwoLevelHashSet(opts.NumNodes)
		w.push = func(_ *WorkerLocal, node uint32, _ graph.Distance) {
			if set.push(node) {
				w.quiesce.notePush()
			}
		}
		w.pop = func(l *WorkerLocal) (uint32, graph.Distance, bool) {
			v, ok := set.pop(l.hashSet)
			return v, 0, ok
		}
	} else {
		set := newTwoLevelOrderedSet()
		w.push = func(_ *WorkerLocal, node uint32, _ graph.Distance) {
			if set.push(node) {
				w.quiesce.notePush()
			}
		}
		w.pop = func(l *WorkerLocal) (uint32, graph.Distance, bool) {
			v, ok := set.pop(l.orderedSet)
			return v, 0, ok
		}
	}
	w.flush = func(l *WorkerLocal) {} // nothing privately buffered to publish
	w.newLoc = func(id int) *WorkerLocal {
		return &WorkerLocal{id: id, orderedSet: &orderedSetLocal{}, hashSet: &hashSetLocal{}}
	}
}

// wireBucketedSet is wireTwoLevelSet's OrderOBIM branch: dist actually
// matters here (unlike the flat sets above), since it selects which
// priority bucket's set a push lands in.
func (w *Worklist) wireBucketedSet(opts Options) {
	if opts.Dedup == DedupHashSet {
		set := newBucketedHashSet(opts.DeltaShift, opts.NumNodes)
		w.push = func(l *WorkerLocal, node uint32, dist graph.Distance) {
			if set.push(node, uint64(dist)) {
				w.quiesce.notePush()
			}
		}
		w.pop = func(l *WorkerLocal) (uint32, graph.Distance, bool) {
			v, ok := set.pop(l.bucketedHashSet)
			return v, 0, ok
		}
		w.flush = func(l *WorkerLocal) {}
		w.newLoc = func(id int) *WorkerLocal {
			return &WorkerLocal{id: id, bucketedHashSet: &bucketedHashSetLocal{}}
		}
		return
	}

	set := newBucketedOrderedSet(opts.DeltaShift)
	w.push = func(l *WorkerLocal, node uint32, dist graph.Distance) {
		if set.push(node, uint64(dist)) {
			w.quiesce.notePush()
		}
	}
	w.pop = func(l *WorkerLocal) (uint32, graph.Distance, bool) {
		v, ok := set.pop(l.bucketedOrderedSet)
		return v, 0, ok
	}
	w.flush = func(l *WorkerLocal) {}
	w.newLoc = func(id int) *WorkerLocal {
		return &WorkerLocal{id: id, bucketedOrderedSet: &bucketedOrderedSetLocal{}}
	}
}

// NewWorkerLocal allocates the per-worker state a call to Push/Pop/Flush
// needs. id should be the worker's index in [0, NumWorkers).
func (w *Worklist) NewWorkerLocal(id int) *WorkerLocal { return w.newLoc(id) }

// Push enqueues node at the given tentative distance (ignored by the
// bare-node-id "blind" variants).
func (w *Worklist) Push(l *WorkerLocal, node uint32, dist graph.Distance) {
	w.push(l, node, dist)
}

// Pop removes and returns the next (node, dist) pair this worker should
// relax, or ok=false if this worker currently sees nothing available.
func (w *Worklist) Pop(l *WorkerLocal) (node uint32, dist graph.Distance, ok bool) {
	return w.pop(l)
}

// Flush publishes any work this worker is privately holding but has not
// yet made visible to others -- required before a worker's idle vote can be
// trusted (spec §4.6).
func (w *Worklist) Flush(l *WorkerLocal) { w.flush(l) }

// NoteIdle records that workerID found nothing to pop; returns true once
// that worker's own idle streak is long enough to trust.
func (w *Worklist) NoteIdle(workerID int) bool { return w.quiesce.noteIdle(workerID) }

// NoteBusy resets workerID's idle streak after it pops successfully again.
func (w *Worklist) NoteBusy(workerID int) { w.quiesce.noteBusy(workerID) }

// AllQuiescent is the driver's final, global check: true only once every
// worker has independently reported NoteIdle true and nothing has moved
// since.
func (w *Worklist) AllQuiescent() bool { return w.quiesce.allQuiescent() }

// pusher adapts a Worklist bound to one worker's local state into the shape
// relax.Pusher expects (Push(node, dist)) -- a structural match, so this
// package need not import relax to implement its interface.
type pusher struct {
	w *Worklist
	l *WorkerLocal
}

func (p *pusher) Push(node uint32, dist graph.Distance) { p.w.Push(p.l, node, dist) }

// Pusher returns a relax.Pusher bound to l, for the sssp driver to hand to
// the relaxation kernel.
func (w *Worklist) Pusher(l *WorkerLocal) *pusher { return &pusher{w: w, l: l} }
