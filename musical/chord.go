package musical

import (
	"fmt"
	"slices"
)

type (
	// ChordShape is the interval structure of a chord, independent of its
	// root.
	ChordShape int

	// Chord is a chord shape built on a root pitch class. As an element it
	// marks the harmony during its segment.
	Chord struct {
		Root  PitchClass `yaml:"root" json:"root"`
		Shape ChordShape `yaml:"shape" json:"shape"`
	}
)

const (
	Maj ChordShape = iota
	Maj6
	Maj6_9
	Maj7
	Maj9
	Maj11
	Maj13
	Min
	Min6
	Min7
	MinMaj7
	Min9
	Min11
	Min13
	Dom7
	Dom9
	Dom11
	Dom13
	Dim
	Dim7
	Min7b5
	Aug
	Aug7
	Sus2
	Sus4
	Sus4_7
	Add9
	Add11
)

var chordShapes = []struct {
	name      string
	intervals []Interval
}{
	Maj:     {"maj", []Interval{Unison, MajorThird, PerfectFifth}},
	Maj6:    {"maj6", []Interval{Unison, MajorThird, PerfectFifth, MajorSixth}},
	Maj6_9:  {"maj6_9", []Interval{Unison, MajorThird, PerfectFifth, MajorSixth, MajorNinth}},
	Maj7:    {"maj7", []Interval{Unison, MajorThird, PerfectFifth, MajorSeventh}},
	Maj9:    {"maj9", []Interval{Unison, MajorThird, PerfectFifth, MajorSeventh, MajorNinth}},
	Maj11:   {"maj11", []Interval{Unison, MajorThird, PerfectFifth, MajorSeventh, MajorNinth, PerfectEleventh}},
	Maj13:   {"maj13", []Interval{Unison, MajorThird, PerfectFifth, MajorSeventh, MajorNinth, PerfectEleventh, MajorThirteenth}},
	Min:     {"min", []Interval{Unison, MinorThird, PerfectFifth}},
	Min6:    {"min6", []Interval{Unison, MinorThird, PerfectFifth, MajorSixth}},
	Min7:    {"min7", []Interval{Unison, MinorThird, PerfectFifth, MinorSeventh}},
	MinMaj7: {"min_maj7", []Interval{Unison, MinorThird, PerfectFifth, MajorSeventh}},
	Min9:    {"min9", []Interval{Unison, MinorThird, PerfectFifth, MinorSeventh, MajorNinth}},
	Min11:   {"min11", []Interval{Unison, MinorThird, PerfectFifth, MinorSeventh, MajorNinth, PerfectEleventh}},
	Min13:   {"min13", []Interval{Unison, MinorThird, PerfectFifth, MinorSeventh, MajorNinth, PerfectEleventh, MajorThirteenth}},
	Dom7:    {"dom7", []Interval{Unison, MajorThird, PerfectFifth, MinorSeventh}},
	Dom9:    {"dom9", []Interval{Unison, MajorThird, PerfectFifth, MinorSeventh, MajorNinth}},
	Dom11:   {"dom11", []Interval{Unison, MajorThird, PerfectFifth, MinorSeventh, MajorNinth, PerfectEleventh}},
	Dom13:   {"dom13", []Interval{Unison, MajorThird, PerfectFifth, MinorSeventh, MajorNinth, PerfectEleventh, MajorThirteenth}},
	Dim:     {"dim", []Interval{Unison, MinorThird, DimFifth}},
	Dim7:    {"dim7", []Interval{Unison, MinorThird, DimFifth, MajorSixth}},
	Min7b5:  {"min7_b5", []Interval{Unison, MinorThird, DimFifth, MinorSeventh}},
	Aug:     {"aug", []Interval{Unison, MajorThird, AugFifth}},
	Aug7:    {"aug7", []Interval{Unison, MajorThird, AugFifth, MinorSeventh}},
	Sus2:    {"sus2", []Interval{Unison, MajorSecond, PerfectFifth}},
	Sus4:    {"sus4", []Interval{Unison, PerfectFourth, PerfectFifth}},
	Sus4_7:  {"sus4_7", []Interval{Unison, PerfectFourth, PerfectFifth, MinorSeventh}},
	Add9:    {"add9", []Interval{Unison, MajorThird, PerfectFifth, MajorNinth}},
	Add11:   {"add11", []Interval{Unison, MajorThird, PerfectFifth, PerfectEleventh}},
}

// Shape groups, useful when picking chords from a key.
var (
	TriadShapes      = []ChordShape{Maj, Min, Dim, Aug}
	SimpleShapes     = []ChordShape{Maj, Maj6, Maj7, Min, Min6, Min7, MinMaj7, Dim, Dim7, Min7b5, Sus2, Sus4, Sus4_7}
	JazzShapes       = []ChordShape{Maj6_9, Maj9, Maj11, Maj13, Min9, Min11, Min13, Add9, Add11}
	MajorShapes      = []ChordShape{Maj, Maj6, Maj7, Maj6_9, Maj9, Maj11, Maj13}
	MinorShapes      = []ChordShape{Min, Min6, Min7, MinMaj7, Min9, Min11, Min13}
	DiminishedShapes = []ChordShape{Dim, Dim7, Min7b5}
	AugmentedShapes  = []ChordShape{Aug, Aug7}
	SuspendedShapes  = []ChordShape{Sus2, Sus4, Sus4_7, Add9, Add11}
)

// AllShapes returns every chord shape, grouped by quality.
func AllShapes() []ChordShape {
	return slices.Concat(MajorShapes, MinorShapes, DiminishedShapes, AugmentedShapes, SuspendedShapes)
}

func (s ChordShape) valid() bool {
	return s >= 0 && int(s) < len(chordShapes)
}

// Intervals returns the intervals of the shape from its root, ascending.
func (s ChordShape) Intervals() []Interval {
	if !s.valid() {
		return nil
	}
	return slices.Clone(chordShapes[s].intervals)
}

func (s ChordShape) String() string {
	if !s.valid() {
		return fmt.Sprintf("ChordShape(%d)", int(s))
	}
	return chordShapes[s].name
}

func (s ChordShape) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("invalid chord shape %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *ChordShape) UnmarshalText(text []byte) error {
	for i, c := range chordShapes {
		if c.name == string(text) {
			*s = ChordShape(i)
			return nil
		}
	}
	return fmt.Errorf("invalid chord shape %q", text)
}

// NewChord returns the chord of shape built on root.
func NewChord(root PitchClass, shape ChordShape) Chord {
	return Chord{Root: root % 12, Shape: shape}
}

// PitchClasses returns the pitch classes of the chord, root first.
func (c Chord) PitchClasses() []PitchClass {
	intervals := c.Shape.Intervals()
	ret := make([]PitchClass, len(intervals))
	for i, iv := range intervals {
		ret[i] = c.Root.Add(iv)
	}
	return ret
}

// Contains reports if every given pitch class is part of the chord.
func (c Chord) Contains(pitches ...PitchClass) bool {
	return containsAll(c.PitchClasses(), pitches)
}

// InKey reports if the chord only uses pitches of the key.
func (c Chord) InKey(k Key) bool {
	return k.Contains(c.PitchClasses()...)
}

// NotesInRange returns the notes of the chord in [lo, hi), ascending.
func (c Chord) NotesInRange(lo, hi Note) []Note {
	return notesInRange(c.PitchClasses(), lo, hi)
}

func (c Chord) String() string {
	return fmt.Sprintf("%v%v", c.Root, c.Shape)
}
