package main

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode"

	"github.com/gdamore/tcell"
	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// terminals only report key presses, a key is released once it stops
// repeating for this long
const keyHold = 250 * time.Millisecond

var (
	// TermKeyMap maps typed characters to CHIP-8 keys.
	TermKeyMap = map[rune]uint{
		'x': 0x0,
		'1': 0x1,
		'2': 0x2,
		'3': 0x3,
		'q': 0x4,
		'w': 0x5,
		'e': 0x6,
		'a': 0x7,
		's': 0x8,
		'd': 0x9,
		'z': 0xA,
		'c': 0xB,
		'4': 0xC,
		'r': 0xD,
		'f': 0xE,
		'v': 0xF,
	}

	errNotTerminal = errors.New("standard output is not a terminal")
)

// CheckTerminal fails when there is no terminal to draw in.
func CheckTerminal() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}
	return nil
}

// TermHost runs the virtual machine in a terminal. Two CHIP-8 rows share
// each character cell and captured output is shown below the display.
type TermHost struct {
	*Session

	screen tcell.Screen
	events chan tcell.Event
	beeper *OtoBeeper
	log    *LogView

	// when each CHIP-8 key was last typed
	pressed [chip8.KeyCount]time.Time

	now func() time.Time
}

// NewTermHost takes over the terminal.
func NewTermHost(session *Session, logView *LogView) (*TermHost, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err = screen.Init(); err != nil {
		return nil, err
	}

	screen.HideCursor()
	screen.Clear()

	h := &TermHost{
		Session: session,
		screen:  screen,
		events:  make(chan tcell.Event, 64),
		log:     logView,
		now:     time.Now,
	}

	// run silent rather than not at all
	if h.beeper, err = NewOtoBeeper(); err != nil {
		session.logger.Warn("Audio unavailable, running without sound", log.Err(err))
	}

	// PollEvent blocks, so feed events to ProcessEvents through a channel
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(h.events)
				return
			}
			h.events <- ev
		}
	}()

	return h, nil
}

// Audio returns the oto beeper.
func (h *TermHost) Audio() chip8.Audio {
	return h.beeper
}

// ProcessEvents handles typed keys and releases keys no longer repeating.
func (h *TermHost) ProcessEvents() bool {
	for {
		select {
		case ev, ok := <-h.events:
			if !ok || !h.handle(ev) {
				return false
			}
		default:
			h.releaseStale()
			return true
		}
	}
}

func (h *TermHost) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		_, windowSize := h.logArea()

		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			h.Reboot()
		case tcell.KeyF5:
			h.TogglePause()
		case tcell.KeyPgUp:
			h.log.ScrollUp(windowSize)
		case tcell.KeyPgDn:
			h.log.ScrollDown(windowSize, windowSize)
		case tcell.KeyUp:
			h.log.ScrollUp(1)
		case tcell.KeyDown:
			h.log.ScrollDown(1, windowSize)
		case tcell.KeyHome:
			h.log.Home()
		case tcell.KeyEnd:
			h.log.End()
		case tcell.KeyRune:
			h.typed(e.Rune())
		}
	}

	return true
}

func (h *TermHost) typed(r rune) {
	if key, ok := TermKeyMap[unicode.ToLower(r)]; ok {
		h.Keypad.Press(key)
		h.pressed[key] = h.now()
		return
	}

	switch r {
	case ' ':
		h.TogglePause()
	case '[':
		h.Runner.DecSpeed()
	case ']':
		h.Runner.IncSpeed()
	}
}

func (h *TermHost) releaseStale() {
	now := h.now()

	for key, t := range h.pressed {
		if !t.IsZero() && now.Sub(t) >= keyHold {
			h.Keypad.Release(uint(key))
			h.pressed[key] = time.Time{}
		}
	}
}

// HalfBlock is the character drawing a top and bottom pixel in one cell.
func HalfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

// logArea is the first row and height of the log box.
func (h *TermHost) logArea() (int, int) {
	_, height := h.screen.Size()

	y := chip8.Height/2 + 3
	n := height - y - 2
	if n < 0 {
		n = 0
	}
	return y, n
}

// Refresh redraws the display, status line and log.
func (h *TermHost) Refresh() {
	h.log.Drain()

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	Box(h.screen, 0, 0, chip8.Width+1, chip8.Height/2+1)
	DrawString(h.screen, 2, 0, style.Bold(true), " CHIP-8 ")

	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			c := HalfBlock(h.VM.Pixel(x, y), h.VM.Pixel(x, y+1))
			h.screen.SetContent(x+1, y/2+1, c, nil, style)
		}
	}

	h.status(chip8.Height/2 + 2)
	h.logBox()
	h.screen.Show()
}

func (h *TermHost) status(y int) {
	state := "running"
	if h.Runner.Paused {
		state = "paused"
	} else if h.VM.Waiting() {
		state = "waiting for key"
	}

	text := fmt.Sprintf(" %d Hz  PC=%03X  I=%03X  DT=%02X  ST=%02X  %-16s",
		h.Runner.Speed(), h.VM.PC, h.VM.I, h.VM.DT, h.VM.ST, state)

	DrawString(h.screen, 0, y, tcell.StyleDefault.Foreground(tcell.ColorGray), text)
}

func (h *TermHost) logBox() {
	y, n := h.logArea()
	if n == 0 {
		return
	}

	Box(h.screen, 0, y, chip8.Width+1, n+1)
	Clear(h.screen, 1, y+1, chip8.Width-1, n-1)
	DrawString(h.screen, 2, y, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true), " Log ")

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, s := range h.log.Window(n) {
		if r := []rune(s); len(r) > chip8.Width-2 {
			s = string(r[:chip8.Width-5]) + "..."
		}
		DrawString(h.screen, 2, y+1+i, style, s)
	}
}

// Close gives the terminal back.
func (h *TermHost) Close() {
	h.beeper.Close()
	h.screen.Fini()
}

// DrawString writes str from column x on row y.
func DrawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, c := range str {
		s.SetContent(x, y, c, nil, style)
		x++
	}
}

// Box outlines a w by h rectangle with its top left corner at x, y.
func Box(s tcell.Screen, x, y, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)

	// corners
	s.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y, tcell.RuneURCorner, nil, style)
	s.SetContent(x, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)

	// top/bottom
	for col := x + 1; col < x+w; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.SetContent(col, y+h, tcell.RuneHLine, nil, style)
	}

	// left/right
	for row := y + 1; row < y+h; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, row, tcell.RuneVLine, nil, style)
	}
}

// Clear blanks the cells from x, y to x+w, y+h inclusive.
func Clear(s tcell.Screen, x, y, w, h int) {
	for col := x; col <= x+w; col++ {
		for row := y; row <= y+h; row++ {
			s.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
}
