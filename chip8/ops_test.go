package chip8

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestArithmeticFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		op     uint16
		x, y   byte // initial V0, V1
		vf     byte // initial VF
		result byte // V0 afterwards
		flag   byte // VF afterwards
	}{
		{"or", 0x8011, 0x0C, 0x03, 0x55, 0x0F, 0x55},
		{"and", 0x8012, 0x0C, 0x06, 0x55, 0x04, 0x55},
		{"xor", 0x8013, 0x0C, 0x06, 0x55, 0x0A, 0x55},
		{"add carry", 0x8014, 0xFF, 0x01, 0, 0x00, 1},
		{"add no carry", 0x8014, 0x10, 0x20, 1, 0x30, 0},
		{"sub no borrow", 0x8015, 0x20, 0x10, 0, 0x10, 1},
		{"sub equal", 0x8015, 0x20, 0x20, 0, 0x00, 1},
		{"sub borrow", 0x8015, 0x10, 0x20, 1, 0xF0, 0},
		{"shr odd", 0x8016, 0x05, 0x00, 0, 0x02, 1},
		{"shr even", 0x8016, 0x04, 0x00, 1, 0x02, 0},
		{"subn no borrow", 0x8017, 0x10, 0x20, 0, 0x10, 1},
		{"subn equal", 0x8017, 0x20, 0x20, 0, 0x00, 1},
		{"subn borrow", 0x8017, 0x20, 0x10, 1, 0xF0, 0},
		{"shl high", 0x801E, 0x81, 0x00, 0, 0x02, 1},
		{"shl low", 0x801E, 0x41, 0x00, 1, 0x82, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vm := newTestVM(t, nil)
			vm.V[0] = tt.x
			vm.V[1] = tt.y
			vm.V[0xF] = tt.vf

			exec(t, vm, tt.op)
			assert.Equal(t, tt.result, vm.V[0])
			assert.Equal(t, tt.flag, vm.V[0xF])
			assert.Equal(t, tt.y, vm.V[1])
		})
	}
}

func TestArithmeticFlagRegisterOperand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		op     uint16
		vf, v0 byte
		flag   byte // VF afterwards
		result byte // V0 afterwards
	}{
		{"add vf,v0 carry", 0x8F04, 0xFF, 0x01, 1, 0x01},
		{"add vf,v0 no carry", 0x8F04, 0x01, 0x01, 0, 0x01},
		{"add v0,vf", 0x80F4, 0x01, 0xFF, 1, 0x00},
		{"sub vf,v0", 0x8F05, 0x05, 0x03, 1, 0x03},
		{"sub vf,v0 borrow", 0x8F05, 0x03, 0x05, 0, 0x05},
		{"sub v0,vf", 0x80F5, 0x05, 0x03, 0, 0xFE},
		{"shr vf", 0x8F06, 0x03, 0x00, 1, 0x00},
		{"subn vf,v0", 0x8F07, 0x03, 0x05, 1, 0x05},
		{"subn v0,vf", 0x80F7, 0x03, 0x05, 0, 0xFE},
		{"shl vf", 0x8F0E, 0x80, 0x00, 1, 0x00},
		{"shl vf clear", 0x8F0E, 0x7F, 0x00, 0, 0x00},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vm := newTestVM(t, nil)
			vm.V[0] = tt.v0
			vm.V[0xF] = tt.vf

			exec(t, vm, tt.op)
			assert.Equal(t, tt.flag, vm.V[0xF])
			assert.Equal(t, tt.result, vm.V[0])
		})
	}
}

func TestSkips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   uint16
		skip bool
	}{
		{0x3012, true},
		{0x3013, false},
		{0x4012, false},
		{0x4013, true},
		{0x5010, false},
		{0x5020, true},
		{0x9010, true},
		{0x9020, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%04X", tt.op), func(t *testing.T) {
			t.Parallel()

			vm := newTestVM(t, nil)
			vm.V[0] = 0x12
			vm.V[1] = 0x34
			vm.V[2] = 0x12

			exec(t, vm, tt.op)
			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC)
			} else {
				assert.Equal(t, uint16(0x202), vm.PC)
			}
		})
	}
}

func TestJumps(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, nil)

	exec(t, vm, 0x1345)
	assert.Equal(t, uint16(0x345), vm.PC)

	vm.V[0] = 4
	exec(t, vm, 0xB300)
	assert.Equal(t, uint16(0x304), vm.PC)
}

func TestCallReturnNesting(t *testing.T) {
	t.Parallel()

	for depth := 1; depth <= StackSize; depth++ {
		vm := newTestVM(t, []byte{0x23, 0x00})

		// each level calls the next, the deepest returns at once
		for k := 0; k < depth; k++ {
			a := 0x300 + k*4
			if k < depth-1 {
				next := uint16(0x2000 | (a + 4))
				vm.Memory[a] = byte(next >> 8)
				vm.Memory[a+1] = byte(next)
			} else {
				vm.Memory[a] = 0x00
				vm.Memory[a+1] = 0xEE
			}
			vm.Memory[a+2] = 0x00
			vm.Memory[a+3] = 0xEE
		}

		for i := 0; i < depth; i++ {
			assert.NoError(t, vm.Step())
		}
		assert.Equal(t, uint(depth), vm.SP)

		for i := 0; i < depth; i++ {
			assert.NoError(t, vm.Step())
		}
		assert.Equal(t, uint(0), vm.SP)
		assert.Equal(t, uint16(0x202), vm.PC)
	}
}

func TestStackOverflow(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, []byte{0x22, 0x00})

	for i := 0; i < StackSize; i++ {
		assert.NoError(t, vm.Step())
	}

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint(StackSize), vm.SP)
}

func TestStackUnderflow(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, []byte{0x00, 0xEE})

	err := vm.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.ErrorContains(t, err, "00EE")
}

func TestRandom(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, nil, WithRandom(func() byte {
		return 0xAB
	}))

	exec(t, vm, 0xC00F, 0xC1F0, 0xC200)
	assert.Equal(t, byte(0x0B), vm.V[0])
	assert.Equal(t, byte(0xA0), vm.V[1])
	assert.Equal(t, byte(0x00), vm.V[2])
}

func TestAddressRegister(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, nil)
	vm.V[0] = 2
	vm.V[1] = 0x1A

	exec(t, vm, 0xAFFF, 0xF01E)
	assert.Equal(t, uint16(0x1001), vm.I)

	vm.I = 0xFFFF
	exec(t, vm, 0xF01E)
	assert.Equal(t, uint16(0x0001), vm.I)
	assert.Equal(t, byte(0), vm.V[0xF])

	// only the low nibble selects a digit
	exec(t, vm, 0xF129)
	assert.Equal(t, uint16(50), vm.I)
}

func TestBCD(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value  byte
		digits []byte
	}{
		{0, []byte{0, 0, 0}},
		{7, []byte{0, 0, 7}},
		{42, []byte{0, 4, 2}},
		{254, []byte{2, 5, 4}},
		{255, []byte{2, 5, 5}},
	}

	for _, tt := range tests {
		vm := newTestVM(t, nil)
		vm.V[5] = tt.value

		exec(t, vm, 0xA300, 0xF533)
		assert.Equal(t, tt.digits, vm.Memory[0x300:0x303])
		assert.Equal(t, uint16(0x300), vm.I)
	}
}

func TestFontIsWriteProtected(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, nil)
	vm.V[0] = 199

	exec(t, vm, 0xA000, 0xF033, 0xF355)
	assert.Equal(t, Font[:], vm.Memory[:FontSize])
}

func TestRegisterDumpLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for x := 0; x < 16; x++ {
		vm := newTestVM(t, nil)
		for i := range vm.V {
			vm.V[i] = byte(i*17 + 3)
		}
		before := vm.V

		dump := uint16(0xF055 | x<<8)
		load := uint16(0xF065 | x<<8)

		exec(t, vm, 0xA400, dump)
		assert.Equal(t, uint16(0x400), vm.I)

		for i := 0; i <= x; i++ {
			vm.V[i] = 0
		}

		exec(t, vm, load)
		assert.Equal(t, before, vm.V)
		assert.Equal(t, uint16(0x400), vm.I)
	}
}

func TestRegisterDumpWrapsAddress(t *testing.T) {
	t.Parallel()

	vm := newTestVM(t, nil)
	vm.V[0] = 0x11
	vm.V[1] = 0x22
	vm.V[2] = 0x33
	vm.I = 0xFFE

	exec(t, vm, 0xF255)
	assert.Equal(t, byte(0x11), vm.Memory[0xFFE])
	assert.Equal(t, byte(0x22), vm.Memory[0xFFF])
	assert.Equal(t, Font[0], vm.Memory[0x000])

	vm.V = [16]byte{}
	vm.I = 0x1FFE
	exec(t, vm, 0xF165)
	assert.Equal(t, byte(0x11), vm.V[0])
	assert.Equal(t, byte(0x22), vm.V[1])
}
