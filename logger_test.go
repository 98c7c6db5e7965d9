package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func newTestLogView(n int) *LogView {
	l := NewLogView()
	for i := 0; i < n; i++ {
		l.Log(fmt.Sprint(i))
	}
	return l
}

func TestLogViewFollowsEnd(t *testing.T) {
	t.Parallel()

	l := newTestLogView(10)
	assert.Equal(t, []string{"7", "8", "9"}, l.Window(3))

	l.Log("10")
	assert.Equal(t, []string{"8", "9", "10"}, l.Window(3))
}

func TestLogViewShortLog(t *testing.T) {
	t.Parallel()

	l := newTestLogView(2)
	assert.Equal(t, []string{"0", "1"}, l.Window(5))

	l = NewLogView()
	assert.Len(t, l.Window(5), 0)
}

func TestLogViewScroll(t *testing.T) {
	t.Parallel()

	l := newTestLogView(10)

	l.ScrollUp(2)
	assert.Equal(t, []string{"5", "6", "7"}, l.Window(3))

	// new lines don't move a scrolled log
	l.Log("10")
	assert.Equal(t, []string{"5", "6", "7"}, l.Window(3))

	l.ScrollUp(100)
	assert.Equal(t, []string{"0", "1", "2"}, l.Window(3))

	// never less than a full window
	l.ScrollDown(1, 3)
	assert.Equal(t, []string{"0", "1", "2"}, l.Window(3))

	l.ScrollDown(2, 3)
	assert.Equal(t, []string{"2", "3", "4"}, l.Window(3))

	l.ScrollDown(100, 3)
	assert.Equal(t, []string{"8", "9", "10"}, l.Window(3))
}

func TestLogViewHomeEnd(t *testing.T) {
	t.Parallel()

	l := newTestLogView(10)

	l.Home()
	assert.Equal(t, []string{"0", "1", "2"}, l.Window(3))

	l.End()
	assert.Equal(t, []string{"7", "8", "9"}, l.Window(3))
}

func TestLogViewDrain(t *testing.T) {
	t.Parallel()

	l := NewLogView()
	assert.False(t, l.Drain())

	l.Follow(strings.NewReader("first\nsecond\n"))

	deadline := time.Now().Add(time.Second)
	for l.Len() < 2 && time.Now().Before(deadline) {
		l.Drain()
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, []string{"first", "second"}, l.Window(10))
}
