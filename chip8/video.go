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

const (
	/// Width of the display in pixels.
	///
	Width = 64

	/// Height of the display in pixels.
	///
	Height = 32

	/// VideoSize is the number of bytes of packed video memory.
	///
	VideoSize = Width * Height / 8

	// bytes per scan line
	pitch = Width / 8
)

/// GetResolution returns the width and height of the CHIP-8.
///
func (vm *CHIP_8) GetResolution() (uint, uint) {
	return Width, Height
}

/// Pixel returns true if the pixel at <x,y> is set. Pixels outside of
/// the display are never set.
///
func (vm *CHIP_8) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}

	p := uint(y*Width + x)

	return vm.Video[p>>3]&(0x80>>(p&7)) != 0
}

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	vm.Video = [VideoSize]byte{}
}

/// draw a sprite at I to video memory at vx, vy. Sprites wrap around
/// both edges of the display.
///
func (vm *CHIP_8) drw(x, y uint, n byte) {
	c := byte(0)

	// wrap the origin onto the display
	px := uint(vm.V[x]) % Width
	py := uint(vm.V[y]) % Height

	// video memory byte and bit offset
	b := px >> 3
	i := px & 7

	// draw each row of the sprite
	for row := uint(0); row < uint(n); row++ {
		s := vm.read(vm.I + uint16(row))

		// which scan line will it render on
		line := (py + row) % Height * pitch

		// the sprite straddles two bytes, the second wraps to the left edge
		n0 := line + b
		n1 := line + (b+1)%pitch

		// origin pixel values
		b0 := vm.Video[n0]
		b1 := vm.Video[n1]

		// xor pixels
		vm.Video[n0] ^= s >> i

		// are there pixels overlapping next byte?
		if i > 0 {
			vm.Video[n1] ^= s << (8 - i)
		}

		// were any pixels turned off?
		c |= b0 &^ vm.Video[n0]
		c |= b1 &^ vm.Video[n1]
	}

	// set carry flag if any collision occurred
	vm.V[0xF] = carry(c != 0)
}
