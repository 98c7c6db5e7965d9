package chip8

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	// DefaultSpeed is the instruction rate (Hz). The RCA 1802 could
	// interpret roughly 500 CHIP-8 instructions per second.
	DefaultSpeed = 500

	// MinSpeed and MaxSpeed bound the instruction rate.
	MinSpeed = 60
	MaxSpeed = 2000

	// SpeedStep is how much IncSpeed and DecSpeed change the rate.
	SpeedStep = 60

	// TimerRate is the delay and sound timer rate (Hz).
	TimerRate = 60

	// maxElapsed caps the catch up after the host stalls (a window
	// being dragged, a suspended process).
	maxElapsed = 250 * time.Millisecond
)

// Host is the frontend the Runner multiplexes with the virtual machine.
type Host interface {
	// ProcessEvents handles pending window and keyboard events. It
	// returns false when the user asked to quit.
	ProcessEvents() bool

	// Refresh redraws the display from the machine's video memory.
	Refresh()
}

// Runner drives a virtual machine at a fixed instruction rate and ticks
// its timers at 60 Hz, both independent of how precisely the host
// sleeps.
type Runner struct {
	// Paused stops instructions and timers, events and refreshes
	// are still processed.
	Paused bool

	vm     *CHIP_8
	host   Host
	logger *log.Logger

	speed  int
	cpu    *Clock
	timers *Clock

	stopped atomic.Bool

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRunner creates a Runner executing speed instructions per second.
func NewRunner(vm *CHIP_8, host Host, speed int) *Runner {
	r := &Runner{
		vm:     vm,
		host:   host,
		logger: vm.logger,
		cpu:    NewClock(DefaultSpeed),
		timers: NewClock(TimerRate),
		now:    time.Now,
		sleep:  time.Sleep,
	}

	r.SetSpeed(speed)

	return r
}

// Speed returns the instruction rate.
func (r *Runner) Speed() int {
	return r.speed
}

// SetSpeed changes the instruction rate, clamped to MinSpeed..MaxSpeed.
func (r *Runner) SetSpeed(hz int) {
	switch {
	case hz < MinSpeed:
		hz = MinSpeed
	case hz > MaxSpeed:
		hz = MaxSpeed
	}

	r.speed = hz
	r.cpu.SetRate(hz)
}

// IncSpeed raises the instruction rate one step.
func (r *Runner) IncSpeed() {
	r.SetSpeed(r.speed + SpeedStep)
	r.logger.Info("Speed changed", log.Int("hz", r.speed))
}

// DecSpeed lowers the instruction rate one step.
func (r *Runner) DecSpeed() {
	r.SetSpeed(r.speed - SpeedStep)
	r.logger.Info("Speed changed", log.Int("hz", r.speed))
}

// Stop makes Run return at its next iteration. It is safe to call from
// any goroutine.
func (r *Runner) Stop() {
	r.stopped.Store(true)
}

// Run executes the machine until stopped, the host quits or ctx is
// cancelled, all of which return nil. Errors are fatal machine errors.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting emulation", log.Int("hz", r.speed))

	last := r.now()

	for !r.stopped.Load() && ctx.Err() == nil {
		if !r.host.ProcessEvents() {
			break
		}

		now := r.now()
		elapsed := now.Sub(last)
		last = now

		if elapsed > maxElapsed {
			elapsed = maxElapsed
		}

		if err := r.advance(elapsed); err != nil {
			r.logger.Error("Emulation halted", log.Err(err))
			return err
		}

		r.sleep(r.idle())
	}

	r.logger.Info("Stopped emulation", log.Int("cycles", int(r.vm.Cycles)))

	return nil
}

// advance runs all instruction and timer ticks due after elapsed.
func (r *Runner) advance(elapsed time.Duration) error {
	steps := r.cpu.Advance(elapsed)
	ticks := r.timers.Advance(elapsed)

	if !r.Paused {
		for i := 0; i < steps; i++ {
			if err := r.vm.Step(); err != nil {
				return err
			}
		}

		for i := 0; i < ticks; i++ {
			r.vm.TickTimers()
		}
	}

	if steps > 0 {
		r.host.Refresh()
	}

	return nil
}

// idle returns how long to sleep until the next tick of either clock.
func (r *Runner) idle() time.Duration {
	d := r.cpu.Until()

	if t := r.timers.Until(); t < d {
		d = t
	}

	return d
}
