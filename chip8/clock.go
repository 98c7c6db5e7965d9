package chip8

import (
	"time"
)

// Clock converts elapsed wall time into a whole number of fixed rate
// ticks. Time that doesn't add up to a full tick is carried over to the
// next call, so the tick rate doesn't drift with imprecise sleeps.
type Clock struct {
	// period is the duration of a single tick.
	period time.Duration

	// acc is the elapsed time not yet consumed by a tick.
	acc time.Duration
}

// NewClock creates a Clock that ticks hz times per second.
func NewClock(hz int) *Clock {
	c := &Clock{}
	c.SetRate(hz)

	return c
}

// SetRate changes the tick rate. Accumulated time is kept.
func (c *Clock) SetRate(hz int) {
	if hz < 1 {
		hz = 1
	}

	c.period = time.Second / time.Duration(hz)
}

// Period returns the duration of a single tick.
func (c *Clock) Period() time.Duration {
	return c.period
}

// Advance adds elapsed time and returns how many ticks are due.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		c.acc += elapsed
	}

	n := c.acc / c.period

	// keep the fraction for next time
	c.acc -= n * c.period

	return int(n)
}

// Until returns the time left before the next tick is due.
func (c *Clock) Until() time.Duration {
	return c.period - c.acc
}
