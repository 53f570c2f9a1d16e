package musical

import (
	"fmt"
	"strings"
)

type (
	// Scale is a sequence of interval steps spanning an octave.
	Scale int

	// Mode rotates the steps of a scale to start from another degree.
	Mode int

	// Degree is a zero based position within a seven note scale: I is 0.
	Degree int

	// Key is a scale, rotated by a mode, starting from a root pitch class. As
	// an element it marks the tonality during its segment.
	Key struct {
		Root  PitchClass `yaml:"root" json:"root"`
		Scale Scale      `yaml:"scale" json:"scale"`
		Mode  Mode       `yaml:"mode" json:"mode"`
	}
)

const (
	Major Scale = iota
	Minor
	NaturalMinor
	HarmonicMinor
)

const (
	Ionian Mode = iota
	Dorian
	Phrygian
	Lydian
	Mixolydian
	Aeolian
	Locrian
)

const (
	I Degree = iota
	II
	III
	IV
	V
	VI
	VII
)

var (
	scaleNames = []string{"major", "minor", "naturalMinor", "harmonicMinor"}
	modeNames  = []string{"ionian", "dorian", "phrygian", "lydian", "mixolydian", "aeolian", "locrian"}
)

// Scales lists every scale.
func Scales() []Scale {
	return []Scale{Major, Minor, NaturalMinor, HarmonicMinor}
}

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{Ionian, Dorian, Phrygian, Lydian, Mixolydian, Aeolian, Locrian}
}

// Steps returns the seven steps of the scale, in semitones.
func (s Scale) Steps() []Interval {
	const w, h = MajorSecond, MinorSecond
	switch s {
	case Minor:
		return []Interval{w, h, w, w, w, h, w}
	case NaturalMinor:
		return []Interval{w, h, w, w, h, w, w}
	case HarmonicMinor:
		return []Interval{w, h, w, w, h, w + h, h}
	}
	return []Interval{w, w, h, w, w, w, h}
}

func (s Scale) String() string { return enumName(scaleNames, int(s), "Scale") }
func (m Mode) String() string  { return enumName(modeNames, int(m), "Mode") }

func (s Scale) MarshalText() ([]byte, error) { return enumText(scaleNames, int(s), "scale") }
func (m Mode) MarshalText() ([]byte, error)  { return enumText(modeNames, int(m), "mode") }

func (s *Scale) UnmarshalText(text []byte) error {
	v, err := parseEnum(scaleNames, string(text), "scale")
	*s = Scale(v)
	return err
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := parseEnum(modeNames, string(text), "mode")
	*m = Mode(v)
	return err
}

// Next returns the following degree, wrapping from VII to I.
func (d Degree) Next() Degree {
	return (d + 1) % 7
}

// Prev returns the preceding degree, wrapping from I to VII.
func (d Degree) Prev() Degree {
	return (d + 6) % 7
}

// Diff returns the shortest distance between two degrees, going either way
// around the scale.
func (d Degree) Diff(other Degree) int {
	lo, hi := min(d, other), max(d, other)
	return int(min(hi-lo, lo+7-hi))
}

func (d Degree) String() string {
	return [...]string{"I", "II", "III", "IV", "V", "VI", "VII"}[((d%7)+7)%7]
}

// NewKey returns the key of root in the given scale and mode.
func NewKey(root PitchClass, scale Scale, mode Mode) Key {
	return Key{Root: root % 12, Scale: scale, Mode: mode}
}

// Steps returns the interval steps of the key: the scale rotated by the
// mode.
func (k Key) Steps() []Interval {
	steps := k.Scale.Steps()
	ret := make([]Interval, len(steps))
	for i := range steps {
		ret[i] = steps[(i+int(k.Mode))%len(steps)]
	}
	return ret
}

// Intervals returns the distance of each degree of the key from its root.
func (k Key) Intervals() []Interval {
	steps := k.Steps()
	ret := make([]Interval, len(steps))
	for i := 1; i < len(steps); i++ {
		ret[i] = ret[i-1] + steps[i-1]
	}
	return ret
}

// PitchClasses returns the pitch classes of the key, starting from the root.
func (k Key) PitchClasses() []PitchClass {
	intervals := k.Intervals()
	ret := make([]PitchClass, len(intervals))
	for i, iv := range intervals {
		ret[i] = k.Root.Add(iv)
	}
	return ret
}

// Contains reports if every given pitch class belongs to the key.
func (k Key) Contains(pitches ...PitchClass) bool {
	return containsAll(k.PitchClasses(), pitches)
}

// RelativePitch returns the pitch class at the given degree of the key.
func (k Key) RelativePitch(d Degree) PitchClass {
	return k.Root.Add(k.Intervals()[((d%7)+7)%7])
}

// Chords returns, for each degree in order, the chords of the given shapes
// rooted at that degree that stay within the key.
func (k Key) Chords(shapes ...ChordShape) []Chord {
	if len(shapes) == 0 {
		shapes = AllShapes()
	}
	var ret []Chord
	for d := I; d <= VII; d++ {
		root := k.RelativePitch(d)
		for _, s := range shapes {
			if c := NewChord(root, s); c.InKey(k) {
				ret = append(ret, c)
			}
		}
	}
	return ret
}

// NotesInRange returns the notes of the key in [lo, hi), ascending.
func (k Key) NotesInRange(lo, hi Note) []Note {
	return notesInRange(k.PitchClasses(), lo, hi)
}

func (k Key) String() string {
	if k.Mode == Ionian {
		return fmt.Sprintf("%v %v", k.Root, k.Scale)
	}
	return fmt.Sprintf("%v %v %v", k.Root, k.Scale, k.Mode)
}

func enumName(names []string, v int, typ string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("%s(%d)", typ, v)
	}
	return names[v]
}

func enumText(names []string, v int, typ string) ([]byte, error) {
	if v < 0 || v >= len(names) {
		return nil, fmt.Errorf("invalid %s %d", typ, v)
	}
	return []byte(names[v]), nil
}

func parseEnum(names []string, s, typ string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", typ, s)
}
