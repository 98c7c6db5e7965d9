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

package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// AddressMask limits any computed address to 12 bits.
	///
	AddressMask = 0xFFF

	/// ProgramStart is where programs are loaded and execution begins.
	///
	ProgramStart = 0x200

	/// FontSize is the number of bytes the built-in font occupies at
	/// address 0. Programs are not allowed to write there.
	///
	FontSize = 0x50

	/// StackSize is the maximum subroutine nesting depth.
	///
	StackSize = 16

	/// KeyCount is the number of keys on the hex keypad.
	///
	KeyCount = 16
)

var (
	ErrEmptyProgram   = errors.New("empty program")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrPCOutOfBounds  = errors.New("program counter out of bounds")
)

/// Input is the source of keypad state for the virtual machine.
///
type Input interface {
	/// Keys returns which of the 16 keys are currently held.
	///
	Keys() [KeyCount]bool

	/// NextKey returns the next key pressed since the last call, if any.
	/// It must never block.
	///
	NextKey() (byte, bool)
}

/// Audio plays the sound cue when the sound timer runs out.
///
type Audio interface {
	Cue()
}

/// CHIP_8 virtual machine emulator.
///
type CHIP_8 struct {
	/// ROM is the pristine memory image (font and program) as it was
	/// loaded. Reset copies it back into Memory.
	///
	ROM [MemorySize]byte

	/// Memory addressable by CHIP-8. The first 0x50 bytes hold the font
	/// sprites, programs begin at 0x200.
	///
	Memory [MemorySize]byte

	/// Video memory for CHIP-8 (64x32 bits). Each bit represents a
	/// single pixel. It is stored MSB first. For example, pixel <0,0>
	/// is bit 0x80 of byte 0.
	///
	Video [VideoSize]byte

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// SP is the number of return addresses on the Stack.
	///
	SP uint

	/// Stack of return addresses. It isn't allowed to be more than 16
	/// cells deep.
	///
	Stack [StackSize]uint16

	/// I is the address register.
	///
	I uint16

	/// V are the 16 virtual registers.
	///
	V [16]byte

	/// DT is the delay timer register, counting down at 60 Hz.
	///
	DT byte

	/// ST is the sound timer register, counting down at 60 Hz. The audio
	/// cue is played when it reaches zero.
	///
	ST byte

	/// Cycles is how many instructions have been executed.
	///
	Cycles int64

	/// W is the wait key (V-register) pointer. When waiting for a key
	/// to be pressed, it will be set to &V[0..F].
	///
	W *byte

	/// Keys hold the current state for the 16-key pad keys. They are
	/// refreshed from the input at the start of every step.
	///
	Keys [KeyCount]bool

	input  Input
	audio  Audio
	logger *log.Logger
	random func() byte
}

/// Option configures a virtual machine when it is created.
///
type Option func(*CHIP_8)

/// WithLogger sets the logger used for warnings and diagnostics.
///
func WithLogger(logger *log.Logger) Option {
	return func(vm *CHIP_8) {
		vm.logger = logger
	}
}

/// WithInput sets the keypad input source.
///
func WithInput(input Input) Option {
	return func(vm *CHIP_8) {
		vm.input = input
	}
}

/// WithAudio sets the sound cue output.
///
func WithAudio(audio Audio) Option {
	return func(vm *CHIP_8) {
		vm.audio = audio
	}
}

/// WithRandom replaces the random byte source used by RND.
///
func WithRandom(random func() byte) Option {
	return func(vm *CHIP_8) {
		vm.random = random
	}
}

/// New returns a virtual machine with only the font loaded.
///
func New(options ...Option) *CHIP_8 {
	vm := &CHIP_8{
		random: func() byte {
			return byte(rand.Intn(0x100))
		},
	}

	for _, option := range options {
		option(vm)
	}

	if vm.logger == nil {
		vm.logger = log.NewWithConfig(log.DefaultConfig())
	}

	// copy the font into the pristine image
	copy(vm.ROM[:], Font[:])

	vm.Reset()

	return vm
}

/// LoadROM copies a program into a new CHIP-8 virtual machine. Programs
/// larger than the available memory are truncated.
///
func LoadROM(program []byte, options ...Option) (*CHIP_8, error) {
	if len(program) == 0 {
		return nil, ErrEmptyProgram
	}

	vm := New(options...)

	if n := copy(vm.ROM[ProgramStart:], program); n < len(program) {
		vm.logger.Warn("Program truncated to fit in memory",
			log.Int("size", len(program)),
			log.Int("loaded", n))
	}

	vm.Reset()

	return vm, nil
}

/// LoadFile loads a ROM file and returns a new CHIP-8 virtual machine.
///
func LoadFile(file string, options ...Option) (*CHIP_8, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading program '%s': %w", file, err)
	}

	vm, err := LoadROM(program, options...)
	if err != nil {
		return nil, fmt.Errorf("loading program '%s': %w", file, err)
	}

	vm.logger.Info("Loaded program",
		log.String("file", file),
		log.Int("size", len(program)))

	return vm, nil
}

/// Connect attaches the keypad input and audio output after creation.
///
func (vm *CHIP_8) Connect(input Input, audio Audio) {
	vm.input = input
	vm.audio = audio
}

/// Reset the CHIP-8 virtual machine to its freshly loaded state.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = vm.ROM

	// reset video memory and keys
	vm.Video = [VideoSize]byte{}
	vm.Keys = [KeyCount]bool{}

	// reset program counter and stack
	vm.PC = ProgramStart
	vm.SP = 0
	vm.Stack = [StackSize]uint16{}

	// reset address and virtual registers
	vm.I = 0
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	vm.Cycles = 0

	// not waiting for a key
	vm.W = nil
}

/// Waiting returns true while the machine is suspended on Fx0A.
///
func (vm *CHIP_8) Waiting() bool {
	return vm.W != nil
}

/// Step the CHIP-8 virtual machine a single instruction. While waiting
/// for a key, a step only polls the input.
///
func (vm *CHIP_8) Step() error {
	if vm.input != nil {
		vm.Keys = vm.input.Keys()
	}

	if vm.W != nil {
		vm.waitKey()
		return nil
	}

	pc := vm.PC

	inst, err := vm.fetch()
	if err != nil {
		return err
	}

	if err := vm.execute(inst); err != nil {
		return fmt.Errorf("executing %04X at %03X: %w", inst, pc, err)
	}

	// increment the cycle count
	vm.Cycles++

	return nil
}

/// TickTimers counts the delay and sound timers down once. It is called
/// at 60 Hz, independent of the instruction rate.
///
func (vm *CHIP_8) TickTimers() {
	if vm.DT > 0 {
		vm.DT--
	}

	if vm.ST > 0 {
		vm.ST--

		if vm.ST == 0 {
			vm.logger.Debug("Sound timer expired")

			if vm.audio != nil {
				vm.audio.Cue()
			}
		}
	}
}

/// Fetch the next 16-bit instruction to execute.
///
func (vm *CHIP_8) fetch() (uint16, error) {
	i := vm.PC

	if i >= MemorySize-1 {
		return 0, fmt.Errorf("fetching at %04X: %w", i, ErrPCOutOfBounds)
	}

	// advance the program counter
	vm.PC += 2

	// return the 16-bit instruction
	return uint16(vm.Memory[i])<<8 | uint16(vm.Memory[i+1]), nil
}

/// Decode and execute a single instruction.
///
func (vm *CHIP_8) execute(inst uint16) error {
	// 12-bit address operand
	a := inst & 0xFFF

	// byte and nibble operands
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// x and y register operands
	x := uint(inst >> 8 & 0xF)
	y := uint(inst >> 4 & 0xF)

	switch {
	case inst == 0x00E0:
		vm.cls()
	case inst == 0x00EE:
		return vm.ret()
	case inst&0xF000 == 0x1000:
		vm.jump(a)
	case inst&0xF000 == 0x2000:
		return vm.call(a)
	case inst&0xF000 == 0x3000:
		vm.skipIf(x, b)
	case inst&0xF000 == 0x4000:
		vm.skipIfNot(x, b)
	case inst&0xF00F == 0x5000:
		vm.skipIfXY(x, y)
	case inst&0xF000 == 0x6000:
		vm.loadX(x, b)
	case inst&0xF000 == 0x7000:
		vm.addX(x, b)
	case inst&0xF00F == 0x8000:
		vm.loadXY(x, y)
	case inst&0xF00F == 0x8001:
		vm.or(x, y)
	case inst&0xF00F == 0x8002:
		vm.and(x, y)
	case inst&0xF00F == 0x8003:
		vm.xor(x, y)
	case inst&0xF00F == 0x8004:
		vm.addXY(x, y)
	case inst&0xF00F == 0x8005:
		vm.subXY(x, y)
	case inst&0xF00F == 0x8006:
		vm.shr(x)
	case inst&0xF00F == 0x8007:
		vm.subYX(x, y)
	case inst&0xF00F == 0x800E:
		vm.shl(x)
	case inst&0xF00F == 0x9000:
		vm.skipIfNotXY(x, y)
	case inst&0xF000 == 0xA000:
		vm.loadI(a)
	case inst&0xF000 == 0xB000:
		vm.jumpV0(a)
	case inst&0xF000 == 0xC000:
		vm.rnd(x, b)
	case inst&0xF000 == 0xD000:
		vm.drw(x, y, n)
	case inst&0xF0FF == 0xE09E:
		vm.skipIfPressed(x)
	case inst&0xF0FF == 0xE0A1:
		vm.skipIfNotPressed(x)
	case inst&0xF0FF == 0xF007:
		vm.loadXDT(x)
	case inst&0xF0FF == 0xF00A:
		vm.loadXK(x)
	case inst&0xF0FF == 0xF015:
		vm.loadDTX(x)
	case inst&0xF0FF == 0xF018:
		vm.loadSTX(x)
	case inst&0xF0FF == 0xF01E:
		vm.addIX(x)
	case inst&0xF0FF == 0xF029:
		vm.loadF(x)
	case inst&0xF0FF == 0xF033:
		vm.loadB(x)
	case inst&0xF0FF == 0xF055:
		vm.saveRegs(x)
	case inst&0xF0FF == 0xF065:
		vm.loadRegs(x)
	default:
		vm.logger.Warn("Unknown opcode",
			log.Hex("opcode", inst),
			log.Hex("address", vm.PC-2))
	}

	return nil
}

/// Read a byte of memory. The address wraps to 12 bits.
///
func (vm *CHIP_8) read(address uint16) byte {
	return vm.Memory[address&AddressMask]
}

/// Write a byte of memory. The address wraps to 12 bits and writes
/// into the font are dropped.
///
func (vm *CHIP_8) write(address uint16, b byte) {
	address &= AddressMask

	if address < FontSize {
		vm.logger.Debug("Dropped write to font memory", log.Hex("address", address))
		return
	}

	vm.Memory[address] = b
}
