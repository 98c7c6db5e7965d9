package chip8

import (
	"sync"
)

// Keypad is an Input fed by a frontend's key events. It may be updated
// from a different goroutine than the one stepping the machine.
type Keypad struct {
	mu sync.Mutex

	// held is the state of every key.
	held [KeyCount]bool

	// pressed queues key down events for Fx0A, oldest first.
	pressed []byte
}

// NewKeypad creates a Keypad with no keys held.
func NewKeypad() *Keypad {
	return &Keypad{
		pressed: make([]byte, 0, KeyCount),
	}
}

// Press marks a key as held and queues a key press event. A key that is
// already held (auto-repeat) doesn't queue another event.
func (k *Keypad) Press(key uint) {
	if key >= KeyCount {
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.held[key] {
		return
	}
	k.held[key] = true

	// drop the oldest event when full
	if len(k.pressed) == KeyCount {
		k.pressed = k.pressed[1:]
	}
	k.pressed = append(k.pressed, byte(key))
}

// Release marks a key as no longer held.
func (k *Keypad) Release(key uint) {
	if key >= KeyCount {
		return
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.held[key] = false
}

// ReleaseAll releases every key and forgets queued presses.
func (k *Keypad) ReleaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.held = [KeyCount]bool{}
	k.pressed = k.pressed[:0]
}

// Keys returns a snapshot of the held keys.
func (k *Keypad) Keys() [KeyCount]bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.held
}

// NextKey pops the oldest queued key press.
func (k *Keypad) NextKey() (byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.pressed) == 0 {
		return 0, false
	}

	key := k.pressed[0]
	k.pressed = k.pressed[1:]

	return key, true
}
