package graph

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ssallinen-style/parasssp/internal/utils"
)

// bucketShift/bucketSize chop the node-state array into fixed-size shards,
// the same idxToBucket trick the teacher's graph-vertex.go uses to place
// per-vertex property buckets: NewNodeState allocates every shard in one
// make() and then has worker goroutines first-touch disjoint ranges of dist
// shards (filling them with INFINITY), so on a NUMA machine those pages can
// land on the node whose thread wrote them first. The inSet shards are not
// touched this way; they stay as make() zeroed them.
const (
	bucketShift = 12
	bucketSize  = 1 << bucketShift
	bucketMask  = bucketSize - 1
)

func idxToBucket(idx uint32) (bucket, pos uint32) {
	return idx >> bucketShift, idx & bucketMask
}

// NodeState holds the mutable, concurrently-updated half of the solve: each
// node's tentative distance (64-bit; the engine assumes a 64-bit machine the
// same way the teacher's enforce.checkCompiler does, so distance words are
// updated with native, non-tearing atomic ops), and an optional in-set
// membership marker for duplicate-suppression variants that need one.
type NodeState struct {
	n       uint32
	dist    [][bucketSize]uint64
	inSet   [][bucketSize]uint32 // 0/1 marker, only allocated if requested
	hasMark bool
}

// NewNodeState allocates state for n nodes, parallelizing the first-touch
// across numWorkers goroutines (spec §4.1 "NUMA-aware allocation hint...
// first-touch"). withMarker allocates the in-set array used by the
// marking-set worklist variant.
func NewNodeState(n uint32, numWorkers int, withMarker bool) *NodeState {
	if numWorkers < 1 {
		numWorkers = 1
	}
	numBuckets := (int(n) + bucketSize - 1) / bucketSize
	s := &NodeState{n: n, hasMark: withMarker}
	s.dist = make([][bucketSize]uint64, numBuckets)
	if withMarker {
		s.inSet = make([][bucketSize]uint32, numBuckets)
	}

	var wg sync.WaitGroup
	chunk := (numBuckets + numWorkers - 1) / numWorkers
	if chunk == 0 {
		chunk = 1
	}
	for start := 0; start < numBuckets; start += chunk {
		end := utils.Min(start+chunk, numBuckets)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			for b := start; b < end; b++ {
				for i := range s.dist[b] {
					s.dist[b][i] = INFINITY
				}
			}
		}(start, end)
	}
	wg.Wait()
	return s
}

// N returns the number of nodes this state covers.
func (s *NodeState) N() uint32 { return s.n }

// Load reads a node's current distance.
func (s *NodeState) Load(v uint32) Distance {
	b, p := idxToBucket(v)
	return atomic.LoadUint64(&s.dist[b][p])
}

// TryImprove is the monotonic-minimum CAS protocol described in spec §4.3:
// install newDist only if newDist < the node's current distance, retrying
// across CAS failures as long as the improvement still holds. Returns the
// value observed immediately before a successful install (oldDist) and
// whether this call was the winner -- the relaxation kernel uses oldDist to
// decide whether this was BadWork (oldDist was already finite).
func (s *NodeState) TryImprove(v uint32, newDist Distance) (oldDist Distance, installed bool) {
	b, p := idxToBucket(v)
	old, ok := utils.AtomicMinUint64(&s.dist[b][p], newDist)
	return old, ok
}

// TestAndSetInSet atomically marks v as enqueued, returning true iff this
// call was the first to do so since the last clear (the marking-set
// duplicate-suppression variant's "first inserter wins" rule).
func (s *NodeState) TestAndSetInSet(v uint32) bool {
	b, p := idxToBucket(v)
	return utils.AtomicTestAndSetByte(&s.inSet[b][p])
}

// ClearInSet clears v's in-set marker; called on pop, before relaxation, so
// a concurrent improvement can re-enqueue it.
func (s *NodeState) ClearInSet(v uint32) {
	b, p := idxToBucket(v)
	utils.AtomicClearByte(&s.inSet[b][p])
}
