// Package demo is a small ready-made set of renderers: a song that picks a
// key, a tempo and a chord progression, and parts that play the chords, a
// melody over them and a drum beat.
package demo

import (
	"github.com/vsariola/redact"
	"github.com/vsariola/redact/midi"
	"github.com/vsariola/redact/musical"
)

type (
	// Song is the root of a demo composition. When Chords is empty, a
	// progression is picked at random from the song's key; when BPM is zero,
	// a tempo between 90 and 129 is picked at random.
	Song struct {
		Chords []musical.Chord `yaml:"chords,omitempty" json:"chords,omitempty"`
		BPM    int             `yaml:"bpm,omitempty" json:"bpm,omitempty"`
	}

	// Progression lays out the chords of the song, one every two beats.
	Progression struct {
		Chords []musical.Chord `yaml:"chords,omitempty" json:"chords,omitempty"`
	}

	// PlayChords plays every chord found within the part as a block chord.
	PlayChords struct{}

	// Melody plays a random rhythm of chord tones.
	Melody struct{}

	// DrumBeat plays kick, snare and hi-hat on the beat grid.
	DrumBeat struct{}
)

const (
	SongKind        redact.Kind = "Song"
	ProgressionKind redact.Kind = "Progression"
	PlayChordsKind  redact.Kind = "PlayChords"
	MelodyKind      redact.Kind = "Melody"
	DrumBeatKind    redact.Kind = "DrumBeat"
)

func init() {
	redact.RegisterElement[Song]()
	redact.RegisterElement[Progression]()
	redact.RegisterElement[PlayChords]()
	redact.RegisterElement[Melody]()
	redact.RegisterElement[DrumBeat]()
}

func (Song) Kind() redact.Kind        { return SongKind }
func (Progression) Kind() redact.Kind { return ProgressionKind }
func (PlayChords) Kind() redact.Kind  { return PlayChordsKind }
func (Melody) Kind() redact.Kind      { return MelodyKind }
func (DrumBeat) Kind() redact.Kind    { return DrumBeatKind }

// Renderers returns the demo renderers together with the General MIDI ones
// they rely on.
func Renderers() *redact.RenderEngine {
	local := redact.MustRenderEngine(
		redact.HandleFunc(renderSong),
		redact.HandleFunc(renderProgression),
		redact.HandleFunc(renderPlayChords),
		redact.HandleFunc(renderMelody),
		redact.HandleFunc(renderDrumBeat),
	)
	engine, err := redact.Union(local, midi.Renderers())
	if err != nil {
		panic(err)
	}
	return engine
}

func renderSong(s redact.SegmentRef[Song], ctx *redact.CompositionContext) ([]redact.Segment, error) {
	rng := ctx.Rng()
	key := musical.NewKey(musical.PitchClasses()[rng.IntN(12)], musical.Major, musical.Ionian)
	chords := s.Element.Chords
	if len(chords) == 0 {
		chords = randomProgression(key, rng.IntN)
	}
	bpm := s.Element.BPM
	if bpm <= 0 {
		bpm = 90 + rng.IntN(40)
	}
	return []redact.Segment{
		redact.NewSegment(key, s.Timing),
		redact.NewSegment(musical.TimeSignature{BeatsPerBar: 4, BeatLength: ctx.BeatLength()}, s.Timing),
		redact.NewSegment(redact.Tempo{BPM: bpm}, s.Timing),
		redact.NewSegment(Progression{Chords: chords}, s.Timing),
		redact.NewNamedSegment("chords", redact.InstrumentPart(PlayChords{}), s.Timing),
		redact.NewNamedSegment("melody", redact.InstrumentPart(Melody{}), s.Timing),
		redact.NewNamedSegment("drums", redact.PercussionPart(DrumBeat{}), s.Timing),
	}, nil
}

// randomProgression starts from the tonic triad and picks three more triads
// of the key, ending on the dominant when the key has one.
func randomProgression(key musical.Key, intN func(int) int) []musical.Chord {
	triads := key.Chords(musical.Maj, musical.Min)
	tonic := musical.NewChord(key.Root, musical.Maj)
	ret := []musical.Chord{tonic}
	for range 2 {
		ret = append(ret, triads[intN(len(triads))])
	}
	dominant := musical.NewChord(key.RelativePitch(musical.V), musical.Maj)
	if dominant.InKey(key) {
		return append(ret, dominant)
	}
	return append(ret, triads[intN(len(triads))])
}

func renderProgression(s redact.SegmentRef[Progression], ctx *redact.CompositionContext) ([]redact.Segment, error) {
	if len(s.Element.Chords) == 0 {
		return nil, nil
	}
	var ret []redact.Segment
	i := 0
	for t := range musical.NewRhythm(2 * ctx.BeatLength()).Over(s.Timing) {
		ret = append(ret, redact.NewSegment(s.Element.Chords[i%len(s.Element.Chords)], t))
		i++
	}
	return ret, nil
}

func renderPlayChords(s redact.SegmentRef[PlayChords], ctx *redact.CompositionContext) ([]redact.Segment, error) {
	chords, err := redact.Find[musical.Chord](ctx).WithTiming(redact.Within, s.Timing).RequireAll()
	if err != nil {
		return nil, err
	}
	rng := ctx.Rng()
	pads := midi.Pianos().Plus(midi.SynthPads()...)
	ret := []redact.Segment{redact.NewSegment(pads[rng.IntN(len(pads))], redact.NewTiming(s.Timing.Start, s.Timing.Start))}
	for _, c := range chords {
		for _, n := range c.Element.NotesInRange(musical.C.InOctave(4), musical.C.InOctave(5)) {
			ret = append(ret, redact.NewSegment(n.Play(uint8(80+rng.IntN(30))), c.Timing))
		}
	}
	return ret, nil
}

func renderMelody(s redact.SegmentRef[Melody], ctx *redact.CompositionContext) ([]redact.Segment, error) {
	ts, err := redact.Find[musical.TimeSignature](ctx).Require()
	if err != nil {
		return nil, err
	}
	rng := ctx.Rng()
	leads := midi.SynthLeads().Plus(midi.Flute, midi.Vibraphone)
	ret := []redact.Segment{redact.NewSegment(leads[rng.IntN(len(leads))], redact.NewTiming(s.Timing.Start, s.Timing.Start))}
	divide := func(l int) float64 {
		if l > ts.Element.Beat() {
			return 1
		}
		return 0.4
	}
	rest := func(l int) float64 {
		if l < ts.Element.Beat() {
			return 0.2
		}
		return 0.1
	}
	for bar := range musical.NewRhythm(ts.Element.Bar()).Over(s.Timing) {
		rhythm := musical.RandomRhythm(bar.Len(), ts.Element, divide, rest, rng)
		for sub := range rhythm.Notes() {
			t := sub.Timing().Shift(bar.Start)
			chord, ok := redact.Find[musical.Chord](ctx).WithTiming(redact.Overlapping, t).Get()
			if !ok {
				continue
			}
			notes := chord.Element.NotesInRange(musical.C.InOctave(5), musical.C.InOctave(6))
			if len(notes) == 0 {
				continue
			}
			ret = append(ret, redact.NewSegment(notes[rng.IntN(len(notes))].Play(uint8(90+rng.IntN(20))), t))
		}
	}
	return ret, nil
}

func renderDrumBeat(s redact.SegmentRef[DrumBeat], ctx *redact.CompositionContext) ([]redact.Segment, error) {
	ts, err := redact.Find[musical.TimeSignature](ctx).Require()
	if err != nil {
		return nil, err
	}
	ret := []redact.Segment{redact.NewSegment(midi.StandardDrumKit, redact.NewTiming(s.Timing.Start, s.Timing.Start))}
	beat := ts.Element.Beat()
	for i, t := range s.Timing.Divide(ts.Element.HalfBeat()) {
		ret = append(ret, redact.NewSegment(midi.DrumHit{Hit: midi.ClosedHiHat, Velocity: 70}, t))
		if i%2 != 0 {
			continue
		}
		hit := midi.BassDrum
		if (t.Start-s.Timing.Start)/beat%2 == 1 {
			hit = midi.AcousticSnare
		}
		ret = append(ret, redact.NewSegment(midi.DrumHit{Hit: hit, Velocity: 110}, redact.NewTiming(t.Start, t.Start+beat/2)))
	}
	return ret, nil
}
