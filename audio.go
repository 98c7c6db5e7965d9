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
	"github.com/veandco/go-sdl2/sdl"
)

/// SDLBeeper plays the sound cue on an SDL audio device.
///
type SDLBeeper struct {
	device sdl.AudioDeviceID
	tone   []byte
}

/// NewSDLBeeper opens the default audio device for the CHIP-8 beep.
///
func NewSDLBeeper() (*SDLBeeper, error) {
	spec := &sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	// open the device and start playing it
	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, err
	}

	sdl.PauseAudioDevice(device, false)

	return &SDLBeeper{
		device: device,
		tone:   Tone(),
	}, nil
}

/// Cue queues the beep, cutting off one that is still playing.
///
func (b *SDLBeeper) Cue() {
	if b == nil {
		return
	}

	sdl.ClearQueuedAudio(b.device)
	_ = sdl.QueueAudio(b.device, b.tone)
}

/// Close the audio device.
///
func (b *SDLBeeper) Close() {
	if b == nil {
		return
	}

	sdl.CloseAudioDevice(b.device)
}
