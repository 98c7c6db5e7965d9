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
	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

/// SDLHost runs the virtual machine in an SDL window.
///
type SDLHost struct {
	*Session

	Window   *sdl.Window
	Renderer *sdl.Renderer

	// beeper is nil when no audio device could be opened
	beeper *SDLBeeper

	// points is reused between frames
	points []sdl.Point
}

/// NewSDLHost initializes SDL and creates the window and renderer.
///
func NewSDLHost(session *Session, scale int) (*SDLHost, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	h := &SDLHost{
		Session: session,
		points:  make([]sdl.Point, 0, chip8.Width*chip8.Height),
	}

	// create the main window and renderer
	w, ht := int32(chip8.Width*scale), int32(chip8.Height*scale)

	var err error
	if h.Window, h.Renderer, err = sdl.CreateWindowAndRenderer(w, ht, uint32(sdl.WINDOW_SHOWN)); err != nil {
		sdl.Quit()
		return nil, err
	}

	// set the title
	h.Window.SetTitle("CHIP-8")

	// draw in CHIP-8 pixels, SDL stretches them to the window
	if err = h.Renderer.SetLogicalSize(chip8.Width, chip8.Height); err != nil {
		h.Close()
		return nil, err
	}

	// run silent rather than not at all
	if h.beeper, err = NewSDLBeeper(); err != nil {
		session.logger.Warn("Audio unavailable, running without sound", log.Err(err))
	}

	return h, nil
}

/// Audio returns the SDL beeper.
///
func (h *SDLHost) Audio() chip8.Audio {
	return h.beeper
}

/// Refresh the window with the CHIP-8 video memory.
///
func (h *SDLHost) Refresh() {
	// the background color for the screen
	_ = h.Renderer.SetDrawColor(143, 145, 133, 255)
	_ = h.Renderer.Clear()

	h.points = h.points[:0]

	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			if h.VM.Pixel(x, y) {
				h.points = append(h.points, sdl.Point{X: int32(x), Y: int32(y)})
			}
		}
	}

	// set the pixel color
	if len(h.points) > 0 {
		_ = h.Renderer.SetDrawColor(17, 29, 43, 255)
		_ = h.Renderer.DrawPoints(h.points)
	}

	h.Renderer.Present()
}

/// Close destroys the window and shuts SDL down.
///
func (h *SDLHost) Close() {
	h.beeper.Close()

	if h.Renderer != nil {
		_ = h.Renderer.Destroy()
	}
	if h.Window != nil {
		_ = h.Window.Destroy()
	}

	sdl.Quit()
}
