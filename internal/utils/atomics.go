// Package utils carries the small, hot-path concurrency helpers the rest of
// the engine is built on: the monotonic-minimum CAS protocol, the in-set
// marker primitive, backoff, and generic ordered min/max.
package utils

import (
	"sync/atomic"

	"golang.org/x/exp/constraints"
)

// AtomicMinUint32 installs new into *targetVal if new < the current value,
// retrying on CAS contention. Returns the value observed immediately before
// the (possible) install -- the caller uses this to detect whether their
// improvement was actually the one installed, and whether the prior value
// was already finite (for BadWork accounting).
//
//go:nosplit
func AtomicMinUint32(targetVal *uint32, new uint32) (old uint32, installed bool) {
	for {
		old = atomic.LoadUint32(targetVal)
		if new >= old {
			return old, false
		}
		if atomic.CompareAndSwapUint32(targetVal, old, new) {
			return old, true
		}
		// else: someone else moved it; retry against the fresh value.
	}
}

// AtomicMinUint64 is the 64-bit distance counterpart of AtomicMinUint32.
//
//go:nosplit
func AtomicMinUint64(targetVal *uint64, new uint64) (old uint64, installed bool) {
	for {
		old = atomic.LoadUint64(targetVal)
		if new >= old {
			return old, false
		}
		if atomic.CompareAndSwapUint64(targetVal, old, new) {
			return old, true
		}
	}
}

// AtomicTestAndSetByte sets *b to 1 if it is currently 0, atomically.
// Returns true if this call was the one that set it (the "first inserter").
//
//go:nosplit
func AtomicTestAndSetByte(b *uint32) bool {
	return atomic.CompareAndSwapUint32(b, 0, 1)
}

// AtomicClearByte atomically clears a marker set by AtomicTestAndSetByte.
//
//go:nosplit
func AtomicClearByte(b *uint32) {
	atomic.StoreUint32(b, 0)
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
