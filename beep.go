package main

import (
	"bytes"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	// SampleRate of the generated beep, unsigned 8-bit mono.
	SampleRate = 22050

	// ToneFrequency is the pitch of the beep (Hz).
	ToneFrequency = 440

	// ToneDuration is how long a single cue sounds.
	ToneDuration = 120 * time.Millisecond
)

// Tone returns a square wave beep as unsigned 8-bit samples.
func Tone() []byte {
	n := int(ToneDuration * SampleRate / time.Second)
	half := SampleRate / ToneFrequency / 2

	samples := make([]byte, n)
	for i := range samples {
		if i/half%2 == 0 {
			samples[i] = 0xA0
		} else {
			samples[i] = 0x60
		}
	}
	return samples
}

// OtoBeeper plays the sound cue through oto, for frontends without
// their own audio.
type OtoBeeper struct {
	ctx    *oto.Context
	player *oto.Player
	tone   []byte
}

// NewOtoBeeper creates the oto context and waits until it is ready.
func NewOtoBeeper() (*OtoBeeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatUnsignedInt8,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoBeeper{
		ctx:  ctx,
		tone: Tone(),
	}, nil
}

// Cue plays the beep, cutting off one that is still playing.
func (b *OtoBeeper) Cue() {
	if b == nil {
		return
	}

	if b.player != nil {
		b.player.Close()
	}

	b.player = b.ctx.NewPlayer(bytes.NewReader(b.tone))
	b.player.Play()
}

// Close stops any playing beep.
func (b *OtoBeeper) Close() {
	if b == nil || b.player == nil {
		return
	}

	b.player.Close()
	b.player = nil
}
