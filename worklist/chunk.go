// The chunk/pool/bucket primitives here are a fresh design for this engine
// (the spec's "transfer unit is a chunk, not an item" scheduler has no
// direct analogue in the teacher, which schedules at the single-notification
// granularity via per-thread channels -- see graph/run-async.go's
// NotificationQueue). What is grounded on the teacher is the *style* of the
// lock-free retry loop: the same CAS-and-retry shape as
// utils.AtomicMinUint32, and the same "pre-sized pool, exhaustion is fatal"
// discipline spec §7 calls for, carried over from the teacher's fixed-size
// RingBuffMPSC (utils/ring-buffer.go), which never allocates past Init.
package worklist

import (
	"sync/atomic"

	"github.com/ssallinen-style/parasssp/enforce"
	"github.com/ssallinen-style/parasssp/graph"
)

// chunkCap is the fixed chunk capacity spec §4.4 calls "typical size 64".
const chunkCap = 64

// item is the worklist's payload: a node id and, for request-bearing
// variants, its tentative distance at push time (spec §3 "Update request").
// Blind variants simply leave dist unused.
type item struct {
	node uint32
	dist graph.Distance
}

// chunk is a fixed-capacity buffer of items plus an intrusive link, so
// chunks can be threaded onto a lock-free stack without a separate
// allocation. Only ever owned by one thread at a time (filling, draining, or
// sitting in a pool/bucket waiting to be claimed) -- never mutated by two
// threads concurrently.
type chunk struct {
	items [chunkCap]item
	count int
	next  *chunk
}

func (c *chunk) reset() { c.count = 0 }

func (c *chunk) full() bool  { return c.count == chunkCap }
func (c *chunk) empty() bool { return c.count == 0 }

func (c *chunk) push(it item) {
	c.items[c.count] = it
	c.count++
}

// pop removes and returns the chunk's most recently pushed item. Order
// within a chunk is not required to be FIFO -- spec §4.4 only requires
// chunk-granularity transfer and explicitly allows heuristic ordering -- so
// popping from the tail avoids shifting the buffer.
func (c *chunk) pop() (it item, ok bool) {
	if c.count == 0 {
		return item{}, false
	}
	c.count--
	return c.items[c.count], true
}

// treiberStack is a lock-free MPMC LIFO stack of chunks, used both as the
// chunk-recycling pool and as each priority bucket's global queue of
// published chunks available for stealing. A CAS-retry loop on the head
// pointer, the same shape as the monotonic-minimum protocol elsewhere in
// this engine.
type treiberStack struct {
	head atomic.Pointer[chunk]
}

func (s *treiberStack) push(c *chunk) {
	for {
		old := s.head.Load()
		c.next = old
		if s.head.CompareAndSwap(old, c) {
			return
		}
	}
}

func (s *treiberStack) pop() *chunk {
	for {
		old := s.head.Load()
		if old == nil {
			return nil
		}
		if s.head.CompareAndSwap(old, old.next) {
			old.next = nil
			return old
		}
	}
}

func (s *treiberStack) empty() bool {
	return s.head.Load() == nil
}

// chunkPool is the pre-sized allocator spec §7 requires: "chunk allocation
// is via a pre-sized pool and exhaustion should be treated as fatal." No
// allocation happens on the hot path; get only ever hands back a chunk this
// pool was primed with at construction.
type chunkPool struct {
	free treiberStack
}

func newChunkPool(capacityHint int) *chunkPool {
	p := &chunkPool{}
	for i := 0; i < capacityHint; i++ {
		p.free.push(&chunk{})
	}
	return p
}

// get returns a clean chunk from the pool, or fails fatally if the pool is
// exhausted (spec §7: pool exhaustion is a fatal, not recoverable, error).
func (p *chunkPool) get() *chunk {
	c := p.free.pop()
	enforce.ENFORCE(c != nil, "chunk pool exhausted; increase pool capacity")
	c.reset()
	return c
}

func (p *chunkPool) put(c *chunk) {
	c.reset()
	p.free.push(c)
}
