package worklist

// fifoBucket is the single global chunk queue used by the plain
// chunked-FIFO ordering (spec §4.4's "no priority" option): there is
// exactly one bucket, so every worker's published chunks land on, and are
// stolen from, the same treiberStack.
type fifoBucket struct {
	pool  *chunkPool
	ready treiberStack
}

func newFifoBucket(numNodes, numWorkers int) *fifoBucket {
	return &fifoBucket{pool: newChunkPool(chunkPoolCapacity(numNodes, numWorkers))}
}

// chunkPoolCapacity sizes a pool with one chunk per node plus slack per
// worker, so every node can be pending in its own partly-filled chunk (as
// happens when OBIM spreads items over many priorities, or workers flush
// partial chunks) while each worker also holds chunks mid-fill and
// mid-drain. Exhaustion is fatal (spec §7); a solve that has more chunks in
// use than this at once, which is possible when the same node is queued
// several times without a dedup policy, still runs the pool dry.
func chunkPoolCapacity(numNodes, numWorkers int) int {
	n := numNodes + 4*numWorkers + 16
	if floor := 4*numWorkers + 16; n < floor {
		n = floor
	}
	return n
}

// fifoLocal is one worker's private state against a fifoBucket: the chunk
// it is currently filling and the chunk it is currently draining. Owned
// exclusively by one worker at a time, so no synchronization needed here.
type fifoLocal struct {
	push *chunk
	pop  *chunk
}

func (b *fifoBucket) newLocal() *fifoLocal { return &fifoLocal{} }

func (b *fifoBucket) push_(l *fifoLocal, it item) {
	if l.push == nil {
		l.push = b.pool.get()
	}
	l.push.push(it)
	if l.push.full() {
		b.ready.push(l.push)
		l.push = nil
	}
}

func (b *fifoBucket) pop_(l *fifoLocal) (item, bool) {
	for {
		if l.pop != nil {
			if it, ok := l.pop.pop(); ok {
				return it, true
			}
			b.pool.put(l.pop)
			l.pop = nil
		}
		c := b.ready.pop()
		if c == nil {
			return item{}, false
		}
		l.pop = c
	}
}

// flush publishes a worker's partially-filled push chunk, so its contents
// are visible to other workers before the engine checks for quiescence
// (spec §4.6: no worker may be sitting on unpublished work at that point).
func (b *fifoBucket) flush(l *fifoLocal) {
	if l.push != nil && !l.push.empty() {
		b.ready.push(l.push)
		l.push = nil
	}
}

func (b *fifoBucket) drained() bool { return b.ready.empty() }
