package demo_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/vsariola/redact"
	"github.com/vsariola/redact/demo"
	"github.com/vsariola/redact/midi"
	"github.com/vsariola/redact/musical"
	"gopkg.in/yaml.v3"
)

func compose(t *testing.T, song demo.Song, beats int, seed uint64) *redact.Composition {
	composer := redact.NewComposer(demo.Renderers())
	length := composer.Options().TicksPerBeat * beats
	comp, err := composer.Compose(redact.Over(song, 0, length), seed)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	return comp
}

func TestFixedProgression(t *testing.T) {
	chords := []musical.Chord{
		musical.NewChord(musical.C, musical.Maj),
		musical.NewChord(musical.F, musical.Maj),
		musical.NewChord(musical.G, musical.Maj),
		musical.NewChord(musical.C, musical.Maj),
	}
	comp := compose(t, demo.Song{Chords: chords}, 16, 42)
	var got []musical.Chord
	for _, n := range comp.OfKind(musical.ChordKind) {
		got = append(got, n.Segment.Element.(musical.Chord))
		if n.Segment.Timing.Len() != 2*comp.Options.TicksPerBeat {
			t.Fatalf("chord %v lasts %d ticks, expected two beats", n.Segment.Element, n.Segment.Timing.Len())
		}
	}
	expected := append(append([]musical.Chord{}, chords...), chords...)
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
	parts := comp.OfKind(redact.PartKind)
	if len(parts) != 3 || parts[0].Segment.Name() != "chords" {
		t.Fatalf("got %d parts, expected chords, melody and drums", len(parts))
	}
	notes := 0
	for n := range comp.Subtree(parts[0]) {
		note, ok := n.Segment.Element.(redact.PlayNote)
		if !ok {
			continue
		}
		notes++
		if note.Note < 60 || note.Note >= 72 {
			t.Fatalf("chord note %v is outside of the fourth octave", note.Note)
		}
	}
	if notes != 3*len(expected) {
		t.Fatalf("got %d chord notes, expected %d", notes, 3*len(expected))
	}
}

func TestRandomSongIsDeterministic(t *testing.T) {
	a, err := yaml.Marshal(compose(t, demo.Song{}, 16, 7))
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	b, err := yaml.Marshal(compose(t, demo.Song{}, 16, 7))
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("the same seed produced different compositions")
	}
	c, err := yaml.Marshal(compose(t, demo.Song{}, 16, 8))
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("different seeds produced the same composition")
	}
}

func TestSongFitsItsTiming(t *testing.T) {
	comp := compose(t, demo.Song{}, 32, 3)
	key, err := redact.Find[musical.Key](comp).Require()
	if err != nil {
		t.Fatalf("no key in the song: %v", err)
	}
	root := comp.Timing()
	for n := range comp.All() {
		if !n.Segment.Timing.Within(root) {
			t.Fatalf("segment %d %v is outside of the song %v", n.ID, n.Segment.Timing, root)
		}
		if c, ok := n.Segment.Element.(musical.Chord); ok && !c.InKey(key.Element) {
			t.Fatalf("chord %v is not in %v", c, key.Element)
		}
	}
	var buf bytes.Buffer
	if err := midi.Write(&buf, comp); err != nil {
		t.Fatalf("midi.Write failed: %v", err)
	}
}
