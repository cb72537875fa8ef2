package worklist

import "sync"

// priorityOf derives the OBIM bucket index for a tentative distance, per
// spec §4.4: the bucket a distance falls in is dist shifted right by the
// configured Δ (a power-of-two bucket width rather than an arbitrary
// divisor, the same "shift, don't divide" trick the teacher uses wherever a
// hot path would otherwise need integer division). Clamped to fit a uint32
// bucket index so an unreasonable Δ/distance combination can never index
// out of range.
func priorityOf(dist uint64, deltaShift uint) uint32 {
	p := dist >> deltaShift
	if p > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(p)
}

type obimBucket struct {
	ready treiberStack
}

// obim is the priority-bucketed (Δ-stepping) scheduler described in spec
// §4.4. Buckets are created lazily as distances demand them and kept in a
// sorted index; the registry is guarded by an RWMutex the same way the
// teacher's ConcurrentMap guards its backing map -- reads (a worker checking
// whether its current priority has work) take the read lock, and only
// registering a never-before-seen priority takes the write lock.
type obim struct {
	deltaShift uint
	pool       *chunkPool

	mu      sync.RWMutex
	buckets map[uint32]*obimBucket
	order   []uint32 // ascending, kept sorted under mu
}

func newOBIM(deltaShift uint, numNodes, numWorkers int) *obim {
	return &obim{
		deltaShift: deltaShift,
		pool:       newChunkPool(chunkPoolCapacity(numNodes, numWorkers)),
		buckets:    make(map[uint32]*obimBucket),
	}
}

func (o *obim) bucketFor(pr uint32) *obimBucket {
	o.mu.RLock()
	b, ok := o.buckets[pr]
	o.mu.RUnlock()
	if ok {
		return b
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if b, ok = o.buckets[pr]; ok {
		return b
	}
	b = &obimBucket{}
	o.buckets[pr] = b
	pos := 0
	for pos < len(o.order) && o.order[pos] < pr {
		pos++
	}
	o.order = append(o.order, 0)
	copy(o.order[pos+1:], o.order[pos:])
	o.order[pos] = pr
	return b
}

func (o *obim) bucketIfExists(pr uint32) (*obimBucket, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	b, ok := o.buckets[pr]
	return b, ok
}

// nextPriorityAtOrAfter returns the lowest registered priority >= from, if
// any. Used when a worker's current bucket has run dry and it must advance
// its cursor to the next non-empty-looking one.
func (o *obim) nextPriorityAtOrAfter(from uint32) (uint32, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, pr := range o.order {
		if pr >= from {
			return pr, true
		}
	}
	return 0, false
}

func (o *obim) drained() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, pr := range o.order {
		if !o.buckets[pr].ready.empty() {
			return false
		}
	}
	return true
}

// obimLocal is one worker's private state: its current priority cursor, the
// chunk it is filling per priority it has pushed to since its last flush,
// and the chunk it is currently draining at its cursor.
type obimLocal struct {
	cursor    uint32
	hasCursor bool
	push      map[uint32]*chunk
	pop       *chunk
}

func (o *obim) newLocal() *obimLocal {
	return &obimLocal{push: make(map[uint32]*chunk)}
}

func (o *obim) push_(l *obimLocal, it item) {
	pr := priorityOf(it.dist, o.deltaShift)
	// "A push below the worker's current cursor rewinds the cursor" (spec
	// §4.4) -- a node relaxed to a much smaller distance must not be
	// starved behind this worker's current, higher, position.
	if !l.hasCursor || pr < l.cursor {
		l.cursor = pr
		l.hasCursor = true
	}
	c := l.push[pr]
	if c == nil {
		c = o.pool.get()
		l.push[pr] = c
	}
	c.push(it)
	if c.full() {
		o.bucketFor(pr).ready.push(c)
		delete(l.push, pr)
	}
}

func (o *obim) pop_(l *obimLocal) (item, bool) {
	if !l.hasCursor {
		l.cursor = 0
		l.hasCursor = true
	}
	rescanned := false
	for {
		if l.pop != nil {
			if it, ok := l.pop.pop(); ok {
				return it, true
			}
			o.pool.put(l.pop)
			l.pop = nil
		}

		// This worker's own still-filling chunk at the current priority is
		// already private, so draining it needs no CAS against the shared
		// bucket.
		if c, ok := l.push[l.cursor]; ok && !c.empty() {
			delete(l.push, l.cursor)
			l.pop = c
			continue
		}

		if b, ok := o.bucketIfExists(l.cursor); ok {
			if c := b.ready.pop(); c != nil {
				l.pop = c
				continue
			}
		}

		next, found := o.nextPriorityAtOrAfter(l.cursor + 1)
		if !found {
			// Nothing registered above the cursor: sweep once more from the
			// lowest registered priority, since work may have been published
			// below the cursor after this worker moved past it.
			if rescanned {
				return item{}, false
			}
			rescanned = true
			if next, found = o.nextPriorityAtOrAfter(0); !found {
				return item{}, false
			}
		}
		l.cursor = next
	}
}

// flush publishes every chunk this worker is still privately filling, even
// if not yet full, so other workers (and the quiescence check) can see it.
func (o *obim) flush(l *obimLocal) {
	for pr, c := range l.push {
		if !c.empty() {
			o.bucketFor(pr).ready.push(c)
		} else {
			o.pool.put(c)
		}
		delete(l.push, pr)
	}
}
