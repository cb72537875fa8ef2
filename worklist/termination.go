package worklist

import "sync/atomic"

// quiescence detects when no worker can produce further work, via a global
// generation counter incremented on every successful push (spec §4.6's
// counter-based alternative to a full voting round). A worker that finds
// nothing to pop records the generation it observed; once it has observed
// the same, unmoved, generation on two consecutive idle passes, it may
// declare itself quiescent. Two passes rather than one rules out the race
// where a push lands between a worker's pop attempt and its read of the
// counter.
//
// This plays the same role as the teacher's per-superstep termination vote
// (graph/termination.go: every thread ballots "I produced no messages this
// round"), simplified here because this engine has no superstep boundary to
// pin a ballot to -- workers declare idle asynchronously, so a monotonic
// counter comparison replaces the vote.
type quiescence struct {
	generation atomic.Uint64
	idle       []atomic.Uint32
	lastSeen   []atomic.Uint64
}

func newQuiescence(numWorkers int) *quiescence {
	return &quiescence{
		idle:     make([]atomic.Uint32, numWorkers),
		lastSeen: make([]atomic.Uint64, numWorkers),
	}
}

// notePush must run after every successful push, so a quiescence check can
// never miss work that landed concurrently with it.
func (q *quiescence) notePush() {
	q.generation.Add(1)
}

// noteIdle is called by worker workerID when it finds nothing to pop.
// Returns true once this worker's own idle streak has reached the
// threshold against a generation that has not moved underneath it.
func (q *quiescence) noteIdle(workerID int) bool {
	gen := q.generation.Load()
	if q.lastSeen[workerID].Load() == gen {
		return q.idle[workerID].Add(1) >= 2
	}
	q.lastSeen[workerID].Store(gen)
	q.idle[workerID].Store(1)
	return false
}

// noteBusy resets a worker's idle streak after it successfully pops again.
func (q *quiescence) noteBusy(workerID int) {
	q.idle[workerID].Store(0)
}

// allQuiescent is the final, global check the driver makes once every
// worker has independently reported idle twice: true only if every worker's
// idle streak is at the threshold against the same, current, generation.
func (q *quiescence) allQuiescent() bool {
	gen := q.generation.Load()
	for i := range q.idle {
		if q.idle[i].Load() < 2 || q.lastSeen[i].Load() != gen {
			return false
		}
	}
	return true
}
