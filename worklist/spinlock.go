package worklist

import (
	"runtime"
	"sync/atomic"
)

// spinLock is a minimal test-and-test-and-set spinlock, the same CAS-retry
// shape as internal/utils.AtomicTestAndSetByte, used to guard the small
// per-shard structures in the two-level duplicate-suppression sets (spec
// §4.4's "sharded... protected by a lock" variants). A real mutex would work
// just as well here; a spinlock is what the teacher reaches for to guard
// similarly tiny, briefly-held critical sections (utils.Bitmap's callers
// favour short atomic sections over blocking locks), so that idiom is kept.
type spinLock struct {
	state uint32
}

func (l *spinLock) Lock() {
	for !atomic.CompareAndSwapUint32(&l.state, 0, 1) {
		for atomic.LoadUint32(&l.state) != 0 {
			runtime.Gosched()
		}
	}
}

func (l *spinLock) Unlock() {
	atomic.StoreUint32(&l.state, 0)
}
