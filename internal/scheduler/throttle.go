package scheduler

import "time"

// Throttle limits how often a host event is forwarded. The first call
// passes immediately; calls inside the limit are collapsed into a single
// trailing call that becomes due once the limit has elapsed.
type Throttle struct {
	Limit   time.Duration
	last    time.Time
	ran     bool
	pending bool
}

// NewThrottle creates a throttle with the given minimum interval
func NewThrottle(limit time.Duration) *Throttle {
	return &Throttle{Limit: limit}
}

// Offer reports whether an event arriving at now may run immediately
func (t *Throttle) Offer(now time.Time) bool {
	if !t.ran || now.Sub(t.last) >= t.Limit {
		t.ran = true
		t.last = now
		t.pending = false
		return true
	}
	t.pending = true
	return false
}

// Due reports whether a collapsed trailing call should run at now
func (t *Throttle) Due(now time.Time) bool {
	if !t.pending || now.Sub(t.last) < t.Limit {
		return false
	}
	t.pending = false
	t.last = now
	return true
}

// Pending reports whether a trailing call is waiting
func (t *Throttle) Pending() bool { return t.pending }
