package domain

import (
	m "github.com/mouse-blink/suspect/internal/model"
)

// Counts are the finalized spectrum statistics of an analysis object.
// After finalize Passed = PassedObserved + PassedNotObserved and
// Failed = FailedObserved + FailedNotObserved.
type Counts struct {
	Passed            int
	PassedObserved    int
	PassedNotObserved int
	Failed            int
	FailedObserved    int
	FailedNotObserved int
}

// Metric evaluates a spectrum metric on the counts. Predicate-only metrics yield 0.
func (c Counts) Metric(metric Metric) float64 {
	return Compute(metric, c.PassedObserved, c.PassedNotObserved, c.FailedObserved, c.FailedNotObserved)
}

// finalizeCounts classifies every run as observed or not.
func finalizeCounts(observed func(m.RunID) bool, passed, failed []m.RunID) Counts {
	var c Counts

	for _, run := range failed {
		if observed(run) {
			c.FailedObserved++
		}
	}

	for _, run := range passed {
		if observed(run) {
			c.PassedObserved++
		}
	}

	c.Passed = len(passed)
	c.PassedNotObserved = c.Passed - c.PassedObserved
	c.Failed = len(failed)
	c.FailedNotObserved = c.Failed - c.FailedObserved

	return c
}

// LoopBucket partitions loop executions by their iteration count.
type LoopBucket int

const (
	// LoopZero matches loops that did not iterate.
	LoopZero LoopBucket = iota
	// LoopOnce matches loops that iterated exactly once.
	LoopOnce
	// LoopMany matches loops that iterated more than once.
	LoopMany
)

func (b LoopBucket) matches(iterations int) bool {
	switch b {
	case LoopZero:
		return iterations == 0
	case LoopOnce:
		return iterations == 1
	default:
		return iterations > 1
	}
}

func (b LoopBucket) String() string {
	switch b {
	case LoopZero:
		return "0"
	case LoopOnce:
		return "1"
	default:
		return ">1"
	}
}

// loopTracker holds the iteration counters of the loop executions that are
// currently open. The three buckets of one loop share a tracker.
type loopTracker struct {
	stack []int
	last  int
}

func (t *loopTracker) begin() {
	t.stack = append(t.stack, 0)
}

func (t *loopTracker) iterate() {
	if len(t.stack) > 0 {
		t.stack[len(t.stack)-1]++
	}
}

// end closes the innermost loop execution. ok is false on an unbalanced end.
func (t *loopTracker) end() (ok bool) {
	if len(t.stack) == 0 {
		return false
	}

	t.last = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]

	return true
}

func (t *loopTracker) reset() {
	t.stack = t.stack[:0]
	t.last = 0
}
