package core

import "time"

// Clock supplies the monotonic readings the executor uses for budget and
// window accounting. The executor reads the clock after each task (or group
// of tasks, depending on the phase) and never assumes resolution finer than
// tens of microseconds. A retrograde reading is treated as a zero delta.
type Clock interface {
	// Now returns the elapsed monotonic time since a fixed arbitrary origin.
	Now() time.Duration
}

type monotonicClock struct {
	origin time.Time
}

// NewMonotonicClock returns a Clock backed by the runtime's monotonic clock.
func NewMonotonicClock() Clock {
	return &monotonicClock{origin: time.Now()}
}

func (c *monotonicClock) Now() time.Duration {
	return time.Since(c.origin)
}
