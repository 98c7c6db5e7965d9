/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"bufio"
	"io"
	"strings"
)

// LogView holds captured output lines that can be viewed and scrolled.
type LogView struct {
	// buf contains each line of logged text.
	buf []string

	// pos is the current user read position within the log.
	pos int

	// in receives lines from a reader until it is closed.
	in chan string
}

// NewLogView creates an empty LogView.
func NewLogView() *LogView {
	return &LogView{
		buf: make([]string, 0, 100),
		in:  make(chan string, 256),
	}
}

// Follow reads lines from r in the background. They are added to the
// log by Drain.
func (l *LogView) Follow(r io.Reader) {
	go func() {
		scanner := bufio.NewScanner(r)

		for scanner.Scan() {
			l.in <- scanner.Text()
		}
	}()
}

// Drain adds every line read so far without blocking. It returns true
// if anything was added.
func (l *LogView) Drain() bool {
	added := false

	for {
		select {
		case s := <-l.in:
			l.Log(s)
			added = true
		default:
			return added
		}
	}
}

// Log outputs a new line to the log.
func (l *LogView) Log(s ...string) {
	scroll := l.pos == len(l.buf)

	// add the new line
	l.buf = append(l.buf, strings.Join(s, " "))

	if scroll {
		l.pos = len(l.buf)
	}
}

// Len is the number of lines logged.
func (l *LogView) Len() int {
	return len(l.buf)
}

// Window returns up to n lines ending at the read position.
func (l *LogView) Window(n int) []string {
	start := l.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	if start+n >= len(l.buf) {
		return l.buf[start:]
	}

	return l.buf[start : start+n]
}

// Home scrolls the log to the beginning.
func (l *LogView) Home() {
	l.pos = 0
}

// End scrolls the log to the end.
func (l *LogView) End() {
	l.pos = len(l.buf)
}

// ScrollUp scrolls the log back n lines.
func (l *LogView) ScrollUp(n int) {
	l.pos -= n

	// clamp to home
	if l.pos < 0 {
		l.Home()
	}
}

// ScrollDown scrolls the log forward n lines, never leaving less than
// a full window above the read position.
func (l *LogView) ScrollDown(n, windowSize int) {
	l.pos += n

	if l.pos < windowSize {
		l.pos = windowSize
	}

	// clamp to end
	if l.pos >= len(l.buf) {
		l.End()
	}
}
