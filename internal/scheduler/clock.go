package scheduler

import (
	"context"
	"time"
)

// FrameID identifies a requested frame callback
type FrameID uint64

// FrameClock is the host's display-refresh primitive
type FrameClock interface {
	// RequestFrame queues fn to run on the next frame
	RequestFrame(fn func()) FrameID
	// Cancel drops a queued callback; unknown ids are ignored
	Cancel(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn func()
}

// frameQueue keeps callbacks in request order
type frameQueue struct {
	next    FrameID
	pending []pendingFrame
}

func (q *frameQueue) request(fn func()) FrameID {
	q.next++
	q.pending = append(q.pending, pendingFrame{id: q.next, fn: fn})
	return q.next
}

func (q *frameQueue) cancel(id FrameID) {
	for i, f := range q.pending {
		if f.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// flush runs the callbacks queued before the call; callbacks requested
// while flushing wait for the next flush
func (q *frameQueue) flush() int {
	batch := q.pending
	q.pending = nil
	for _, f := range batch {
		f.fn()
	}
	return len(batch)
}

// ManualClock advances only when Step is called
type ManualClock struct {
	queue  frameQueue
	frames int
}

// NewManualClock creates a clock with nothing queued
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) RequestFrame(fn func()) FrameID { return c.queue.request(fn) }

func (c *ManualClock) Cancel(id FrameID) { c.queue.cancel(id) }

// Step runs one frame and reports how many callbacks it executed
func (c *ManualClock) Step() int {
	n := c.queue.flush()
	if n > 0 {
		c.frames++
	}
	return n
}

// Pending reports how many callbacks wait for the next frame
func (c *ManualClock) Pending() int { return len(c.queue.pending) }

// Frames returns the number of steps that executed at least one callback
func (c *ManualClock) Frames() int { return c.frames }

// TickerClock drives frames from a wall-clock ticker. Frame callbacks and
// posted host events all run on the goroutine that calls Run, so the
// scheduler never needs a lock. RequestFrame and Cancel must only be
// called from that goroutine; Post is safe from anywhere.
type TickerClock struct {
	interval   time.Duration
	queue      frameQueue
	events     chan func()
	AfterFrame func()
}

// NewTickerClock creates a clock ticking fps times per second
func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = 60
	}
	return &TickerClock{
		interval: time.Second / time.Duration(fps),
		events:   make(chan func(), 64),
	}
}

func (c *TickerClock) RequestFrame(fn func()) FrameID { return c.queue.request(fn) }

func (c *TickerClock) Cancel(id FrameID) { c.queue.cancel(id) }

// Post hands fn to the loop goroutine
func (c *TickerClock) Post(ctx context.Context, fn func()) error {
	select {
	case c.events <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run serves events and frames until ctx is done
func (c *TickerClock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.events:
			fn()
		case <-ticker.C:
			if c.queue.flush() > 0 && c.AfterFrame != nil {
				c.AfterFrame()
			}
		}
	}
}
