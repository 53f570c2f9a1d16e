package redact

import (
	"context"
	"fmt"
)

// AudioSink receives interleaved stereo float32 audio, e.g. a sound card
// output.
type AudioSink interface {
	WriteAudio(buffer []float32) error
	Close() error
}

// AudioContext opens outputs on an audio device.
type AudioContext interface {
	Output() AudioSink
	Close() error
}

// playChunk is the number of stereo frames written to a sink at a time.
const playChunk = 4096

// Play writes the buffer to a new output of the audio context, in chunks so
// that cancelling ctx stops the playback within a chunk. The output is closed
// before returning.
func Play(ctx context.Context, ac AudioContext, buffer []float32) (err error) {
	out := ac.Output()
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	for len(buffer) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(len(buffer), 2*playChunk)
		if err := out.WriteAudio(buffer[:n]); err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
		buffer = buffer[n:]
	}
	return nil
}
