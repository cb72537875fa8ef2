// Package sssp is the solver's top-level driver: it owns the worker pool,
// resolves the chosen algorithm variant into a fixed set of closures once
// per solve (spec §4.7), and runs workers to quiescence.
package sssp

import (
	"fmt"

	"github.com/ssallinen-style/parasssp/worklist"
)

// Variant selects the full combination of scheduling discipline and
// duplicate-suppression policy spec §4/§6 lists. Serial is the single-thread
// reference implementation used by tests and correctness comparisons; the
// rest are the parallel engine's variants. async/asyncWithCas collapse to
// one selector here (Async) since the engine's only relaxation kernel is
// already CAS-based -- there is no non-CAS code path to distinguish them.
type Variant int

const (
	Serial             Variant = iota
	Async                      // request-bearing, OBIM-ordered, no dedup (stale-drop is the filter)
	AsyncFifo                  // request-bearing, plain FIFO, no dedup
	AsyncBlindObim              // bare node id, OBIM-ordered, no dedup
	AsyncBlindFifo              // bare node id, plain FIFO, no dedup
	AsyncBlindObimHSet          // bare node id, OBIM-ordered, two-level hash-set dedup
	AsyncBlindObimMSet          // bare node id, OBIM-ordered, marking-set dedup
	AsyncBlindObimOSet          // bare node id, OBIM-ordered, two-level ordered-set dedup
	AsyncBlindFifoHSet          // bare node id, plain FIFO, two-level hash-set dedup
	AsyncBlindFifoMSet          // bare node id, plain FIFO, marking-set dedup
	AsyncBlindFifoOSet          // bare node id, plain FIFO, two-level ordered-set dedup
	AsyncPP                     // push-pull hybrid; spec leaves the split heuristic unspecified
	// (Open Question, SPEC_FULL.md) -- implemented as an alias of Async
	// rather than a guessed-at design.
)

func (v Variant) String() string {
	switch v {
	case Serial:
		return "serial"
	case Async:
		return "async"
	case AsyncFifo:
		return "asyncFifo"
	case AsyncBlindObim:
		return "asyncBlindObim"
	case AsyncBlindFifo:
		return "asyncBlindFifo"
	case AsyncBlindObimHSet:
		return "asyncBlindObimHSet"
	case AsyncBlindObimMSet:
		return "asyncBlindObimMSet"
	case AsyncBlindObimOSet:
		return "asyncBlindObimOSet"
	case AsyncBlindFifoHSet:
		return "asyncBlindFifoHSet"
	case AsyncBlindFifoMSet:
		return "asyncBlindFifoMSet"
	case AsyncBlindFifoOSet:
		return "asyncBlindFifoOSet"
	case AsyncPP:
		return "asyncPP"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant maps the CLI's --algo string onto a Variant. asyncWithCas*
// aliases accept the original naming for the always-CAS selectors they
// collapse onto.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "serial":
		return Serial, nil
	case "async", "asyncWithCas":
		return Async, nil
	case "asyncFifo", "asyncWithCasFifo":
		return AsyncFifo, nil
	case "asyncBlindObim", "asyncWithCasBlindObim":
		return AsyncBlindObim, nil
	case "asyncBlindFifo", "asyncWithCasBlindFifo":
		return AsyncBlindFifo, nil
	case "asyncBlindObimHSet", "asyncWithCasBlindObimHSet":
		return AsyncBlindObimHSet, nil
	case "asyncBlindObimMSet", "asyncWithCasBlindObimMSet":
		return AsyncBlindObimMSet, nil
	case "asyncBlindObimOSet", "asyncWithCasBlindObimOSet":
		return AsyncBlindObimOSet, nil
	case "asyncBlindFifoHSet", "asyncWithCasBlindFifoHSet":
		return AsyncBlindFifoHSet, nil
	case "asyncBlindFifoMSet", "asyncWithCasBlindFifoMSet":
		return AsyncBlindFifoMSet, nil
	case "asyncBlindFifoOSet", "asyncWithCasBlindFifoOSet":
		return AsyncBlindFifoOSet, nil
	case "asyncPP":
		return AsyncPP, nil
	default:
		return 0, fmt.Errorf("unknown algorithm variant %q", s)
	}
}

// blind reports whether v pushes bare node ids (true) or request-bearing
// (node, dist) pairs (false) -- spec §4.4's two relaxation kernels.
func (v Variant) blind() bool {
	switch v {
	case AsyncBlindObim, AsyncBlindFifo,
		AsyncBlindObimHSet, AsyncBlindObimMSet, AsyncBlindObimOSet,
		AsyncBlindFifoHSet, AsyncBlindFifoMSet, AsyncBlindFifoOSet:
		return true
	default:
		return false
	}
}

// worklistOptions resolves v into the worklist.Options that implement it.
// Serial never reaches this as Serial -- Solve maps it onto Async pinned to
// one worker first, so it runs on the same OBIM worklist as Async.
func (v Variant) worklistOptions(numNodes, numWorkers int, deltaShift uint) worklist.Options {
	opts := worklist.Options{NumNodes: numNodes, NumWorkers: numWorkers, DeltaShift: deltaShift}
	switch v {
	case AsyncFifo, AsyncBlindFifo:
		opts.Order = worklist.OrderFIFO
		opts.Dedup = worklist.DedupNone
	case AsyncBlindObimHSet:
		opts.Order = worklist.OrderOBIM
		opts.Dedup = worklist.DedupHashSet
	case AsyncBlindObimMSet:
		opts.Order = worklist.OrderOBIM
		opts.Dedup = worklist.DedupMarkingSet
	case AsyncBlindObimOSet:
		opts.Order = worklist.OrderOBIM
		opts.Dedup = worklist.DedupOrderedSet
	case AsyncBlindFifoHSet:
		opts.Order = worklist.OrderFIFO
		opts.Dedup = worklist.DedupHashSet
	case AsyncBlindFifoMSet:
		opts.Order = worklist.OrderFIFO
		opts.Dedup = worklist.DedupMarkingSet
	case AsyncBlindFifoOSet:
		opts.Order = worklist.OrderFIFO
		opts.Dedup = worklist.DedupOrderedSet
	default: // Async, AsyncBlindObim, AsyncPP
		opts.Order = worklist.OrderOBIM
		opts.Dedup = worklist.DedupNone
	}
	return opts
}
