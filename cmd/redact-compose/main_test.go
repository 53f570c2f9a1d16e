package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vsariola/redact"
	"github.com/vsariola/redact/demo"
	"github.com/vsariola/redact/midi"
	"github.com/vsariola/redact/musical"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path     string
		seed     uint64
		many     bool
		expected string
	}{
		{"song.mid", 3, false, "song.mid"},
		{"song.mid", 3, true, "song-3.mid"},
		{filepath.Join("out", "a.b.yml"), 12, true, filepath.Join("out", "a.b-12.yml")},
		{"noext", 1, true, "noext-1"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.path, tt.seed, tt.many); got != tt.expected {
			t.Fatalf("outputPath(%q, %d, %v): got %q, expected %q", tt.path, tt.seed, tt.many, got, tt.expected)
		}
	}
}

func TestConfigMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	data := "seed: 5\nbeats: 8\nbpm: 100\nchords:\n  - {root: C, shape: maj}\n  - {root: A, shape: min}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("could not write config: %v", err)
	}
	file, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	flagValues := config{Seed: 0, Count: 1, Beats: 32, TicksPerBeat: redact.StandardBeatLength, BPM: 140}
	changed := func(name string) bool { return name == "bpm" }
	got := file.merge(flagValues, changed)
	expected := config{
		Seed:         5,
		Count:        1,
		Beats:        8,
		TicksPerBeat: redact.StandardBeatLength,
		BPM:          140,
		Chords:       []musical.Chord{musical.NewChord(musical.C, musical.Maj), musical.NewChord(musical.A, musical.Min)},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("got %+v, expected %+v", got, expected)
	}
	if err := got.validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if err := (config{Count: 0, Beats: 1, TicksPerBeat: 1}).validate(); err == nil {
		t.Fatalf("expected an invalid config to fail validation")
	}
}

type node struct {
	ID       redact.SegmentID
	Parent   redact.SegmentID
	Children []redact.SegmentID
	Order    int
	Seed     uint64
	Name     string
	Timing   redact.Timing
	Element  redact.Element
}

func nodes(comp *redact.Composition) []node {
	var ret []node
	for n := range comp.All() {
		ret = append(ret, node{n.ID, n.Parent, n.Children, n.Order, n.Seed, n.Segment.Name(), n.Segment.Timing, n.Segment.Element})
	}
	return ret
}

func noteOns(t *testing.T, data []byte) int {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("smf.ReadFrom failed: %v", err)
	}
	count := 0
	for _, tr := range s.Tracks {
		for _, ev := range tr {
			var ch, key, vel uint8
			if gomidi.Message(ev.Message).GetNoteOn(&ch, &key, &vel) {
				count++
			}
		}
	}
	return count
}

func TestSaveAndLoad(t *testing.T) {
	composer := redact.NewComposer(demo.Renderers())
	comp, err := composer.Compose(redact.Over(demo.Song{BPM: 120}, 0, 8*composer.Options().TicksPerBeat), 1)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	dir := t.TempDir()
	for _, name := range []string{"song.yml", "song.json"} {
		path := filepath.Join(dir, name)
		if err := save(path, comp, false); err != nil {
			t.Fatalf("save %v failed: %v", name, err)
		}
		back, err := loadComposition(path)
		if err != nil {
			t.Fatalf("loadComposition %v failed: %v", name, err)
		}
		if back.Options != comp.Options || back.Seed != comp.Seed {
			t.Fatalf("%v: got options %+v seed %d, expected %+v seed %d", name, back.Options, back.Seed, comp.Options, comp.Seed)
		}
		if got, expected := nodes(back), nodes(comp); !reflect.DeepEqual(got, expected) {
			t.Fatalf("%v: loaded tree differs\ngot:      %+v\nexpected: %+v", name, got, expected)
		}
	}
	loaded, err := loadComposition(filepath.Join(dir, "song.yml"))
	if err != nil {
		t.Fatalf("loadComposition failed: %v", err)
	}
	var buf bytes.Buffer
	if err := midi.Write(&buf, loaded); err != nil {
		t.Fatalf("midi.Write failed: %v", err)
	}
	if got := noteOns(t, buf.Bytes()); got == 0 {
		t.Fatalf("the MIDI file of the loaded composition has no notes")
	}
	path := filepath.Join(dir, "sub", "song.mid")
	if err := save(path, comp, false); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read back the MIDI file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Fatalf("got %q, expected a MIDI header", data[:min(4, len(data))])
	}
	if err := save(filepath.Join(dir, "song.txt"), comp, false); err == nil {
		t.Fatalf("expected an unknown extension to fail")
	}
	if _, err := loadComposition(path); err == nil {
		t.Fatalf("expected loading a MIDI file as a composition to fail")
	}
}
