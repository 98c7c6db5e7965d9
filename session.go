package main

import (
	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

/// Frontend is a window or terminal the virtual machine runs in.
///
type Frontend interface {
	chip8.Host

	/// Audio returns where the sound cue is played.
	///
	Audio() chip8.Audio

	/// Close releases the window, terminal and audio device.
	///
	Close()
}

/// Session is the running machine shared by a frontend's controls.
///
type Session struct {
	VM     *chip8.CHIP_8
	Runner *chip8.Runner
	Keypad *chip8.Keypad

	logger *log.Logger
}

/// NewSession creates a Session with an empty keypad. The machine and
/// runner are attached once the frontend exists.
///
func NewSession(logger *log.Logger) *Session {
	return &Session{
		Keypad: chip8.NewKeypad(),
		logger: logger,
	}
}

/// Attach connects the machine to the keypad and the frontend's audio
/// and creates the runner.
///
func (s *Session) Attach(vm *chip8.CHIP_8, frontend Frontend, speed int) {
	vm.Connect(s.Keypad, frontend.Audio())

	s.VM = vm
	s.Runner = chip8.NewRunner(vm, frontend, speed)
}

/// Reboot resets the machine back to the loaded program.
///
func (s *Session) Reboot() {
	s.logger.Info("Rebooting")

	s.Keypad.ReleaseAll()
	s.VM.Reset()
}

/// TogglePause pauses or resumes emulation.
///
func (s *Session) TogglePause() {
	s.Runner.Paused = !s.Runner.Paused

	if s.Runner.Paused {
		s.logger.Info("Paused")
	} else {
		s.logger.Info("Resumed")
	}
}
