// Package oto plays rendered compositions on the default sound device.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/redact"
)

type (
	OtoContext struct {
		context *oto.Context
	}

	// OtoOutput streams audio to one oto player through a pipe, so
	// WriteAudio blocks until the device has taken the previous buffer.
	OtoOutput struct {
		player    *oto.Player
		writer    *io.PipeWriter
		tmpBuffer []byte
	}
)

const otoBufferSize = 100 * time.Millisecond

// NewContext opens the default audio device for stereo 16-bit playback at
// redact.SampleRate.
func NewContext() (*OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   redact.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   otoBufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context}, nil
}

func (c *OtoContext) Output() redact.AudioSink {
	r, w := io.Pipe()
	player := c.context.NewPlayer(r)
	player.Play()
	return &OtoOutput{player: player, writer: w}
}

// Close suspends the device. An oto context cannot be reopened, so it lives
// until the process exits.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *OtoOutput) WriteAudio(floatBuffer []float32) error {
	// we reuse the old capacity tmpBuffer by setting its length to zero
	o.tmpBuffer = FloatBufferTo16BitLE(floatBuffer, o.tmpBuffer[:0])
	if _, err := o.writer.Write(o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

// Close waits for the buffered audio to finish playing and disposes of the
// player.
func (o *OtoOutput) Close() error {
	o.writer.Close()
	for o.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
