package musical

import (
	"fmt"
	"strings"

	"github.com/vsariola/redact"
)

type (
	// PitchClass is a note name without an octave: 0 is C, 11 is B.
	PitchClass uint8

	// Note is a MIDI note number; 60 is middle C (C4).
	Note uint8
)

const (
	C PitchClass = iota
	Cs
	D
	Ds
	E
	F
	Fs
	G
	Gs
	A
	As
	B
)

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClasses returns all twelve pitch classes starting from C.
func PitchClasses() []PitchClass {
	ret := make([]PitchClass, 12)
	for i := range ret {
		ret[i] = PitchClass(i)
	}
	return ret
}

// Add transposes the pitch class up by an interval.
func (p PitchClass) Add(i Interval) PitchClass {
	return (p + PitchClass(i.Simple())) % 12
}

// Sub transposes the pitch class down by an interval.
func (p PitchClass) Sub(i Interval) PitchClass {
	return (p + 12 - PitchClass(i.Simple())) % 12
}

// InOctave returns the note of the pitch class in the given octave, using the
// convention where middle C is C4.
func (p PitchClass) InOctave(octave int) Note {
	return Note(int(p%12) + 12*(octave+1))
}

// Above returns the lowest note of the pitch class strictly above n.
func (p PitchClass) Above(n Note) Note {
	same := p.InOctave(n.Octave())
	if same > n {
		return same
	}
	return same + Note(Octave)
}

// AtOrAbove is Above, but returns n itself if it has the pitch class.
func (p PitchClass) AtOrAbove(n Note) Note {
	if n.PitchClass() == p {
		return n
	}
	return p.Above(n)
}

// Below returns the highest note of the pitch class strictly below n.
func (p PitchClass) Below(n Note) Note {
	same := p.InOctave(n.Octave())
	if same < n {
		return same
	}
	return same - Note(Octave)
}

// IntervalTo returns the upward interval from p to other, within an octave.
func (p PitchClass) IntervalTo(other PitchClass) Interval {
	return Interval((int(other%12) - int(p%12) + 12) % 12)
}

func (p PitchClass) String() string {
	return pitchClassNames[p%12]
}

func (p PitchClass) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PitchClass) UnmarshalText(text []byte) error {
	v, err := ParsePitchClass(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePitchClass parses names such as "C", "F#" or "Bb".
func ParsePitchClass(s string) (PitchClass, error) {
	if s == "" {
		return 0, fmt.Errorf("empty pitch class")
	}
	base := strings.IndexByte("C D EF G A B", strings.ToUpper(s[:1])[0])
	if base < 0 || s[0] == ' ' {
		return 0, fmt.Errorf("invalid pitch class %q", s)
	}
	v := base
	for _, r := range s[1:] {
		switch r {
		case '#', 's':
			v++
		case 'b':
			v--
		default:
			return 0, fmt.Errorf("invalid pitch class %q", s)
		}
	}
	return PitchClass((v%12 + 12) % 12), nil
}

// PitchClass returns the pitch class of the note.
func (n Note) PitchClass() PitchClass {
	return PitchClass(n % 12)
}

// Octave returns the octave of the note; middle C is in octave 4.
func (n Note) Octave() int {
	return int(n)/12 - 1
}

// Add transposes the note up.
func (n Note) Add(i Interval) Note {
	return n + Note(i)
}

// Sub transposes the note down.
func (n Note) Sub(i Interval) Note {
	return n - Note(i)
}

// IntervalWith returns the distance between the two notes.
func (n Note) IntervalWith(other Note) Interval {
	if n > other {
		return Interval(n - other)
	}
	return Interval(other - n)
}

// Play returns a PlayNote of this note.
func (n Note) Play(velocity uint8) redact.PlayNote {
	return redact.PlayNote{Note: uint8(n), Velocity: velocity}
}

func (n Note) String() string {
	return fmt.Sprintf("%v%d", n.PitchClass(), n.Octave())
}

// notesInRange returns the notes in [lo, hi) whose pitch class is one of
// pitches, in ascending order.
func notesInRange(pitches []PitchClass, lo, hi Note) []Note {
	var set [12]bool
	for _, p := range pitches {
		set[p%12] = true
	}
	var ret []Note
	for n := int(lo); n < int(hi); n++ {
		if set[n%12] {
			ret = append(ret, Note(n))
		}
	}
	return ret
}

// containsAll reports if every pitch of subset is in set.
func containsAll(set, subset []PitchClass) bool {
	var in [12]bool
	for _, p := range set {
		in[p%12] = true
	}
	for _, p := range subset {
		if !in[p%12] {
			return false
		}
	}
	return true
}
