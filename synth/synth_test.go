package synth_test

import (
	"bytes"
	"math"
	"reflect"
	"testing"

	"github.com/vsariola/redact"
	"github.com/vsariola/redact/midi"
	"github.com/vsariola/redact/synth"
)

type (
	Tune   struct{ Drums bool }
	Melody struct{}
	Beat   struct{}
)

func (Tune) Kind() redact.Kind   { return "Tune" }
func (Melody) Kind() redact.Kind { return "Melody" }
func (Beat) Kind() redact.Kind   { return "Beat" }

func init() {
	redact.RegisterElement[Tune]()
	redact.RegisterElement[Melody]()
	redact.RegisterElement[Beat]()
}

const rate = 4000

// composeTune is two beats at 60 BPM, so two seconds long.
func composeTune(t *testing.T, tune Tune) *redact.Composition {
	engine := redact.MustRenderEngine(
		redact.HandleFunc(func(s redact.SegmentRef[Tune], _ *redact.CompositionContext) ([]redact.Segment, error) {
			ret := []redact.Segment{
				redact.NewSegment(redact.Tempo{BPM: 60}, s.Timing),
				redact.NewSegment(redact.InstrumentPart(Melody{}), s.Timing),
			}
			if s.Element.Drums {
				ret = append(ret, redact.NewSegment(redact.PercussionPart(Beat{}), s.Timing))
			}
			return ret, nil
		}),
		redact.HandleFunc(func(s redact.SegmentRef[Melody], _ *redact.CompositionContext) ([]redact.Segment, error) {
			return []redact.Segment{
				redact.Over(midi.Program{Number: uint8(midi.DrawbarOrgan)}, 0, 0),
				redact.Over(redact.PlayNote{Note: 69, Velocity: 100}, 0, 4),
				redact.Over(redact.PlayNote{Note: 72, Velocity: 100}, 4, 8),
			}, nil
		}),
		redact.HandleFunc(func(s redact.SegmentRef[Beat], _ *redact.CompositionContext) ([]redact.Segment, error) {
			return []redact.Segment{
				redact.Over(redact.PlayNote{Note: 38, Velocity: 127}, 0, 1),
				redact.Over(redact.PlayNote{Note: 38, Velocity: 127}, 4, 5),
			}, nil
		}),
	)
	composer := redact.NewComposer(engine, redact.WithOptions(redact.Options{TicksPerBeat: 4}))
	comp, err := composer.Compose(redact.Over(tune, 0, 8), 7)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	return comp
}

func peak(buf []float32) float32 {
	var p float32
	for _, v := range buf {
		p = max(p, float32(math.Abs(float64(v))))
	}
	return p
}

func TestRender(t *testing.T) {
	buf, err := synth.New(synth.WithSampleRate(rate)).Render(composeTune(t, Tune{}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// two seconds plus the organ release
	if frames := len(buf) / 2; frames < 8200 || frames > 8201 || len(buf)%2 != 0 {
		t.Fatalf("got %d samples, expected about 8200 stereo frames", len(buf))
	}
	if p := peak(buf); math.Abs(float64(p-synth.DefaultPeak)) > 1e-5 {
		t.Fatalf("got peak %v, expected %v", p, synth.DefaultPeak)
	}
	// a single part sits in the middle of the stereo field
	for i := 0; i < len(buf); i += 2 {
		if math.Abs(float64(buf[i]-buf[i+1])) > 1e-5 {
			t.Fatalf("frame %d: left %v and right %v differ", i/2, buf[i], buf[i+1])
		}
	}
	// the second note starts at one second, the first is held until then
	if p := peak(buf[2*3960 : 2*4000]); p < 0.1 {
		t.Fatalf("got peak %v just before the second note, expected the organ to be sustained", p)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	s := synth.New(synth.WithSampleRate(rate))
	a, err := s.Render(composeTune(t, Tune{Drums: true}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, err := s.Render(composeTune(t, Tune{Drums: true}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two renders of the same composition differ")
	}
	// the drums are panned to the right of the melody
	var left, right float64
	for i := 0; i < 2*400; i += 2 {
		left += math.Abs(float64(a[i]))
		right += math.Abs(float64(a[i+1]))
	}
	if left == right {
		t.Fatalf("expected the two parts to be panned apart")
	}
}

func TestSilence(t *testing.T) {
	engine := redact.MustRenderEngine()
	comp, err := redact.NewComposer(engine, redact.WithOptions(redact.Options{TicksPerBeat: 4})).Compose(redact.Over(Tune{}, 0, 8), 0)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	buf, err := synth.New(synth.WithSampleRate(rate)).Render(comp)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// 120 BPM by default, so two beats last a second
	if len(buf) != 2*rate {
		t.Fatalf("got %d samples, expected %d", len(buf), 2*rate)
	}
	if p := peak(buf); p != 0 {
		t.Fatalf("got peak %v, expected silence", p)
	}
}

func TestInvalidSampleRate(t *testing.T) {
	if _, err := synth.New(synth.WithSampleRate(0)).Render(composeTune(t, Tune{})); err == nil {
		t.Fatalf("expected an error for a zero sample rate")
	}
}

func TestWriteWav(t *testing.T) {
	var buf bytes.Buffer
	if err := synth.WriteWav(&buf, composeTune(t, Tune{}), true); err != nil {
		t.Fatalf("WriteWav failed: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 44 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Fatalf("output does not look like a wav file")
	}
}
