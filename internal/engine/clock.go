package engine

import "sync/atomic"

// Clock is a monotonic logical clock used to stamp act events.
//
// Every run creates its own clock starting at 0, so act sequence numbers
// are 1..N in the order the engine applied them. Sequence numbers never come
// from wall-clock time; a replay with the same seed yields identical stamps.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though a run only ever ticks it from one goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
