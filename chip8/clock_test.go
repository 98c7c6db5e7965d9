package chip8

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestClockAdvance(t *testing.T) {
	t.Parallel()

	c := NewClock(500)
	assert.Equal(t, 2*time.Millisecond, c.Period())

	assert.Equal(t, 0, c.Advance(time.Millisecond))
	assert.Equal(t, time.Millisecond, c.Until())
	assert.Equal(t, 1, c.Advance(time.Millisecond))
	assert.Equal(t, 500, c.Advance(time.Second))
	assert.Equal(t, 0, c.Advance(-time.Second))
	assert.Equal(t, 2*time.Millisecond, c.Until())
}

func TestClockKeepsRemainder(t *testing.T) {
	t.Parallel()

	c := NewClock(500)

	// 5 x 3ms is 15ms, 7 ticks with 1ms left over
	n := 0
	for i := 0; i < 5; i++ {
		n += c.Advance(3 * time.Millisecond)
	}
	assert.Equal(t, 7, n)
	assert.Equal(t, time.Millisecond, c.Until())
}

func TestClockNoDrift(t *testing.T) {
	t.Parallel()

	c := NewClock(TimerRate)

	// jittery frames that add up to exactly 10 seconds
	frames := []time.Duration{
		7 * time.Millisecond,
		13 * time.Millisecond,
		21 * time.Millisecond,
		9 * time.Millisecond,
	}

	n := 0
	for i := 0; i < 200; i++ {
		for _, d := range frames {
			n += c.Advance(d)
		}
	}
	assert.Equal(t, 600, n)
}

func TestClockSetRate(t *testing.T) {
	t.Parallel()

	c := NewClock(0)
	assert.Equal(t, time.Second, c.Period())

	c.SetRate(1000)
	assert.Equal(t, 3, c.Advance(3*time.Millisecond))
}
