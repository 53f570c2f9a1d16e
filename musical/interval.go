package musical

import "fmt"

// Interval is a distance between two notes in semitones.
type Interval uint8

const (
	Unison Interval = iota
	MinorSecond
	MajorSecond
	MinorThird
	MajorThird
	PerfectFourth
	Tritone
	PerfectFifth
	MinorSixth
	MajorSixth
	MinorSeventh
	MajorSeventh
	Octave
	MinorNinth
	MajorNinth
	MinorTenth
	MajorTenth
	PerfectEleventh
	_
	PerfectTwelfth
	MinorThirteenth
	MajorThirteenth
)

// Aliases for intervals spelled differently.
const (
	AugFourth = Tritone
	DimFifth  = Tritone
	AugFifth  = MinorSixth
)

// IsSimple reports if the interval spans at most one octave.
func (i Interval) IsSimple() bool {
	return i <= Octave
}

// Simple reduces a compound interval to within one octave.
func (i Interval) Simple() Interval {
	return i % Octave
}

// Compound raises a simple interval by an octave; compound intervals are
// returned as is.
func (i Interval) Compound() Interval {
	if i.IsSimple() {
		return i + Octave
	}
	return i
}

// Inversion returns the interval that, added to i, gives a whole number of
// octaves.
func (i Interval) Inversion() Interval {
	if i.IsSimple() {
		return Octave - i
	}
	octaves := i/Octave + 1
	return Octave*octaves - i
}

func (i Interval) String() string {
	return fmt.Sprintf("%d semitones", uint8(i))
}
