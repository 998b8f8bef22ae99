package search

import "time"

// clock tracks when a search must abort. Deadline/stop are checked only
// every nodeCheckInterval visited nodes, per §5's suspension-point model:
// the search is otherwise single-threaded and cooperative, with no
// preemption between checks.
type clock struct {
	deadline  time.Time // zero: no deadline
	stop      func() bool
	nodeLimit uint64 // zero: no limit
	nodes     uint64
	checked   uint64
}

// newClock builds a clock bounded by limit (zero: unbounded) and polling
// stop (an atomic flag load, typically) for an externally requested halt.
func newClock(limit time.Duration, nodeLimit uint64, stop func() bool) *clock {
	c := &clock{stop: stop, nodeLimit: nodeLimit}
	if limit > 0 {
		c.deadline = time.Now().Add(limit)
	}
	return c
}

// poll counts one visited node and, once per nodeCheckInterval of them,
// reports whether the search should abort; between checks it returns
// false.
func (c *clock) poll() bool {
	c.nodes++
	if c.nodes-c.checked < nodeCheckInterval {
		return false
	}
	c.checked = c.nodes
	return c.expired()
}

func (c *clock) expired() bool {
	if c.stop != nil && c.stop() {
		return true
	}
	if c.nodeLimit > 0 && c.nodes >= c.nodeLimit {
		return true
	}
	if !c.deadline.IsZero() && time.Now().After(c.deadline) {
		return true
	}
	return false
}
