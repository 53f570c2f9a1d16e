// Package synth renders compositions offline into stereo audio with a small
// additive synthesizer. Instrument parts play harmonic voices whose sound is
// picked from the General MIDI family of the part's program; percussion parts
// play decaying noise bursts.
package synth

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/redact"
	"github.com/vsariola/redact/midi"
)

type (
	// Synth renders compositions. The zero value is not usable; create one
	// with New.
	Synth struct {
		sampleRate int
		peak       float32
		logger     *slog.Logger
	}

	Option func(*Synth)

	voice struct {
		node   *redact.Node
		note   redact.PlayNote
		timbre timbre
		pan    float32 // -1 is left, 1 is right
		start  float64 // seconds
		length float64 // seconds
	}
)

var ErrSampleRate = errors.New("sample rate must be positive")

// DefaultPeak is the absolute peak level the rendered audio is normalized to.
const DefaultPeak = 0.8

// WithSampleRate sets the output sample rate. The default is redact.SampleRate.
func WithSampleRate(rate int) Option {
	return func(s *Synth) { s.sampleRate = rate }
}

// WithPeak sets the level the output is normalized to. A peak of 0 disables
// normalization.
func WithPeak(peak float32) Option {
	return func(s *Synth) { s.peak = peak }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Synth) { s.logger = l }
}

func New(opts ...Option) *Synth {
	s := &Synth{sampleRate: redact.SampleRate, peak: DefaultPeak}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Render renders the composition with the default synth.
func Render(comp *redact.Composition) ([]float32, error) {
	return New().Render(comp)
}

// WriteWav renders the composition with the default synth and writes it to w
// as a WAV file, either 16-bit integer or 32-bit float.
func WriteWav(w io.Writer, comp *redact.Composition, pcm16 bool) error {
	buf, err := Render(comp)
	if err != nil {
		return err
	}
	b, err := redact.Wav(buf, pcm16)
	if err != nil {
		return fmt.Errorf("encoding wav failed: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing wav failed: %w", err)
	}
	return nil
}

// Render returns the composition as interleaved stereo samples. Its length is
// the duration of the root segment plus the longest release tail.
func (s *Synth) Render(comp *redact.Composition) ([]float32, error) {
	if s.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrSampleRate, s.sampleRate)
	}
	tempo := comp.TempoMap()
	tpb := comp.Options.TicksPerBeat
	voices := s.voices(comp, tempo, tpb)
	duration := tempo.Seconds(max(comp.Timing().End, 0), tpb)
	for _, v := range voices {
		duration = max(duration, v.start+v.length+v.timbre.release)
	}
	frames := int(math.Ceil(duration * float64(s.sampleRate)))
	left := make([]float32, frames)
	right := make([]float32, frames)
	var mono, tmp []float32
	for _, v := range voices {
		first := int(v.start * float64(s.sampleRate))
		n := min(int(math.Ceil((v.length+v.timbre.release)*float64(s.sampleRate))), frames-first)
		if first < 0 || n <= 0 {
			continue
		}
		if cap(mono) < n {
			mono = make([]float32, n)
			tmp = make([]float32, n)
		}
		mono, tmp = mono[:n], tmp[:n]
		s.renderVoice(v, mono)
		// constant power pan
		angle := float64(v.pan+1) * math.Pi / 4
		vek32.MulNumber_Into(tmp, mono, float32(math.Cos(angle)))
		vek32.Add_Inplace(left[first:first+n], tmp)
		vek32.MulNumber_Into(tmp, mono, float32(math.Sin(angle)))
		vek32.Add_Inplace(right[first:first+n], tmp)
	}
	s.normalize(left, right)
	ret := make([]float32, 2*frames)
	for i := range frames {
		ret[2*i] = left[i]
		ret[2*i+1] = right[i]
	}
	s.logger.Debug("synthesized composition", "voices", len(voices), "seconds", duration)
	return ret, nil
}

// voices collects a voice for every non-empty PlayNote in the composition.
// Parts are panned evenly across the stereo field in pre-order.
func (s *Synth) voices(comp *redact.Composition, tempo redact.TempoMap, tpb int) []voice {
	parts := comp.OfKind(redact.PartKind)
	pans := make(map[redact.SegmentID]float32, len(parts))
	for i, p := range parts {
		if len(parts) > 1 {
			pans[p.ID] = -0.6 + 1.2*float32(i)/float32(len(parts)-1)
		}
	}
	var ret []voice
	for n := range comp.All() {
		note, ok := redact.ElementAs[redact.PlayNote](n.Segment.Element)
		if !ok || n.Segment.Timing.IsEmpty() || note.Velocity == 0 {
			continue
		}
		tb := pianoTimbre
		var pan float32
		if part, ok := comp.Enclosing(n, redact.PartKind); ok {
			p, _ := redact.ElementAs[redact.Part](part.Segment.Element)
			tb = partTimbre(comp, part, p, n)
			pan = pans[part.ID]
		}
		start := tempo.Seconds(n.Segment.Timing.Start, tpb)
		end := tempo.Seconds(n.Segment.Timing.End, tpb)
		ret = append(ret, voice{node: n, note: note, timbre: tb, pan: pan, start: start, length: end - start})
	}
	return ret
}

// partTimbre returns the timbre of the latest program change in the part that
// was expanded before the note. Percussion parts always play noise.
func partTimbre(comp *redact.Composition, part *redact.Node, p redact.Part, note *redact.Node) timbre {
	if p.Type == redact.Percussion {
		return drumTimbre
	}
	tb := pianoTimbre
	for n := range comp.Subtree(part) {
		if n.Order >= note.Order {
			break
		}
		if prog, ok := redact.ElementAs[midi.Program](n.Segment.Element); ok && n.Segment.Timing.Start <= note.Segment.Timing.Start {
			tb = timbreFor(prog.Number)
		}
	}
	return tb
}

// renderVoice writes the samples of one voice, starting at its note on.
func (s *Synth) renderVoice(v voice, dst []float32) {
	gain := float32(v.note.Velocity) / 127
	rate := float64(s.sampleRate)
	if v.timbre.noise {
		rng := redact.NewRand(v.node.Seed)
		for i := range dst {
			dst[i] = gain * v.timbre.envelope(float64(i)/rate, v.length) * float32(2*rng.Float64()-1)
		}
		return
	}
	freq := 440 * math.Pow(2, (float64(v.note.Note)-69)/12)
	nyquist := rate / 2
	for i := range dst {
		t := float64(i) / rate
		var sample float32
		for h, amp := range v.timbre.harmonics {
			f := freq * float64(h+1)
			if f >= nyquist {
				break
			}
			if amp != 0 {
				sample += amp * float32(math.Sin(2*math.Pi*f*t))
			}
		}
		dst[i] = gain * v.timbre.envelope(t, v.length) * sample
	}
}

// normalize scales both channels together so that the absolute peak is s.peak.
func (s *Synth) normalize(left, right []float32) {
	if s.peak <= 0 || len(left) == 0 {
		return
	}
	abs := vek32.Abs(left)
	peak := vek32.Max(abs)
	abs = vek32.Abs_Into(abs, right)
	peak = max(peak, vek32.Max(abs))
	if peak == 0 {
		return
	}
	vek32.MulNumber_Inplace(left, s.peak/peak)
	vek32.MulNumber_Inplace(right, s.peak/peak)
}
