package musical_test

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/vsariola/redact"
	"github.com/vsariola/redact/musical"
	"gopkg.in/yaml.v3"
)

func TestKeyNotes(t *testing.T) {
	cases := []struct {
		key      musical.Key
		expected []musical.Note
	}{
		{musical.NewKey(musical.C, musical.Major, musical.Ionian), []musical.Note{60, 62, 64, 65, 67, 69, 71}},
		{musical.NewKey(musical.C, musical.NaturalMinor, musical.Ionian), []musical.Note{60, 62, 63, 65, 67, 68, 70}},
		{musical.NewKey(musical.C, musical.Major, musical.Dorian), []musical.Note{60, 62, 63, 65, 67, 69, 70}},
		{musical.NewKey(musical.A, musical.HarmonicMinor, musical.Ionian), []musical.Note{60, 62, 64, 65, 68, 69, 71}},
	}
	for _, c := range cases {
		got := c.key.NotesInRange(musical.C.InOctave(4), musical.C.InOctave(5))
		if !reflect.DeepEqual(got, c.expected) {
			t.Errorf("%v: got %v, expected %v", c.key, got, c.expected)
		}
	}
}

func TestChords(t *testing.T) {
	c := musical.NewChord(musical.G, musical.Dom7)
	if got, expected := c.PitchClasses(), []musical.PitchClass{musical.G, musical.B, musical.D, musical.F}; !reflect.DeepEqual(got, expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
	key := musical.NewKey(musical.C, musical.Major, musical.Ionian)
	if !c.InKey(key) {
		t.Fatalf("%v should be in %v", c, key)
	}
	triads := key.Chords(musical.TriadShapes...)
	expected := []musical.Chord{
		{Root: musical.C, Shape: musical.Maj},
		{Root: musical.D, Shape: musical.Min},
		{Root: musical.E, Shape: musical.Min},
		{Root: musical.F, Shape: musical.Maj},
		{Root: musical.G, Shape: musical.Maj},
		{Root: musical.A, Shape: musical.Min},
		{Root: musical.B, Shape: musical.Dim},
	}
	if !reflect.DeepEqual(triads, expected) {
		t.Fatalf("got triads %v, expected %v", triads, expected)
	}
	notes := musical.NewChord(musical.F, musical.Maj).NotesInRange(60, 72)
	if !reflect.DeepEqual(notes, []musical.Note{60, 65, 69}) {
		t.Fatalf("got %v, expected [C4 F4 A4]", notes)
	}
}

func TestPitchClasses(t *testing.T) {
	if got := musical.B.Add(musical.MinorThird); got != musical.D {
		t.Fatalf("got %v, expected D", got)
	}
	if got := musical.C.Sub(musical.MinorSecond); got != musical.B {
		t.Fatalf("got %v, expected B", got)
	}
	if got := musical.E.Above(64); got != 76 {
		t.Fatalf("got %v, expected E5", got)
	}
	if got := musical.E.AtOrAbove(64); got != 64 {
		t.Fatalf("got %v, expected E4", got)
	}
	if got := musical.C.Below(60); got != 48 {
		t.Fatalf("got %v, expected C3", got)
	}
	if got := musical.A.IntervalTo(musical.C); got != musical.MinorThird {
		t.Fatalf("got %v, expected a minor third", got)
	}
	if got := musical.MajorNinth.Inversion(); got != musical.MinorSeventh {
		t.Fatalf("got %v, expected a minor seventh", got)
	}
	for _, s := range []string{"Bb", "A#", "as"} {
		p, err := musical.ParsePitchClass(s)
		if err != nil || p != musical.As {
			t.Fatalf("ParsePitchClass(%q): got %v %v, expected A#", s, p, err)
		}
	}
	if n := musical.Note(60); n.String() != "C4" || n.Play(90) != (redact.PlayNote{Note: 60, Velocity: 90}) {
		t.Fatalf("unexpected middle C: %v", n)
	}
}

func TestRhythms(t *testing.T) {
	r := musical.NewRhythm(2, -1, 1)
	var got []redact.Timing
	for tm := range r.Over(redact.NewTiming(10, 20)) {
		got = append(got, tm)
	}
	expected := []redact.Timing{{Start: 10, End: 12}, {Start: 13, End: 14}, {Start: 14, End: 16}, {Start: 17, End: 18}, {Start: 18, End: 20}}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
	framed := r.Frame(6)
	if framed.Len() != 6 || !framed[len(framed)-1].Rest {
		t.Fatalf("Frame(6) should pad with a rest, got %v", framed)
	}
	if framed = r.Frame(3); framed.Len() != 3 || len(framed) != 2 {
		t.Fatalf("Frame(3) should cut the last note, got %v", framed)
	}
	merged := musical.FromSubdivisions([]musical.Subdivision{{Start: 4, End: 6}, {Start: 0, End: 2}, {Start: 1, End: 3}})
	if !reflect.DeepEqual(merged, musical.Rhythm{{Start: 0, End: 2}, {Start: 2, End: 3}, {Start: 3, End: 4, Rest: true}, {Start: 4, End: 6}}) {
		t.Fatalf("unexpected merge %v", merged)
	}
	if got := r.Append(musical.NewRhythm(4)); got.Len() != 8 || got[3].Start != 4 {
		t.Fatalf("unexpected append %v", got)
	}
}

func TestRandomRhythms(t *testing.T) {
	ts := musical.TimeSignature{BeatsPerBar: 4, BeatLength: 480}
	always := func(int) float64 { return 1 }
	never := func(int) float64 { return 0 }
	for seed := range uint64(20) {
		rng := rand.New(rand.NewPCG(seed, seed))
		r := musical.RandomRhythm(ts.Bars(2), ts, always, never, rng)
		if r.Len() != ts.Bars(2) {
			t.Fatalf("seed %d: random rhythm has length %d, expected %d", seed, r.Len(), ts.Bars(2))
		}
		for i := 1; i < len(r); i++ {
			if r[i].Start != r[i-1].End {
				t.Fatalf("seed %d: subdivisions are not consecutive: %v", seed, r)
			}
		}
		b, err := musical.BalancedRhythm(ts.Bar(), 5, ts, rng)
		if err != nil {
			t.Fatalf("BalancedRhythm failed: %v", err)
		}
		if len(b) != 5 || b.Len() != ts.Bar() {
			t.Fatalf("balanced rhythm %v does not have 5 subdivisions over a bar", b)
		}
		w := musical.RandomWeightedRhythm(ts.Bar(), []musical.WeightedDivision{
			{Lengths: []int{ts.Beat()}, Weight: 2},
			{Lengths: []int{ts.HalfBeat(), ts.HalfBeat()}, Weight: 1},
		}, rng)
		if w.Len() != ts.Bar() {
			t.Fatalf("weighted rhythm %v does not fill a bar", w)
		}
	}
	if _, err := musical.BalancedRhythm(ts.Beat(), 64, ts, rand.New(rand.NewPCG(1, 1))); err == nil {
		t.Fatalf("dividing a beat into 64 should fail")
	}
}

func TestElementsRoundTrip(t *testing.T) {
	seg := redact.Over(musical.NewChord(musical.Fs, musical.Min7), 0, 960)
	b, err := yaml.Marshal(seg)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	var back redact.Segment
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v\n%s", err, b)
	}
	if !reflect.DeepEqual(back.Element, seg.Element) {
		t.Fatalf("got %v, expected %v", back.Element, seg.Element)
	}
	if !slices.Contains(redact.ElementTypes(), musical.KeyKind) {
		t.Fatalf("Key is not registered")
	}
}
