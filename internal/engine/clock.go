package engine

import "sync/atomic"

// Clock is a monotonic logical clock stamping each recorded filter pass.
//
// Run records are ordered by seq, never by wall-clock time, so a run log
// reads back in the order the passes happened.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming after start, typically the highest
// seq already in the run log.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// current returns the last value handed out.
func (c *Clock) current() int64 {
	return c.seq.Load()
}
