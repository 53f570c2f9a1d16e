package redact

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// StandardBeatLength is the default number of ticks per beat. It divides evenly
// by most of the common subdivisions (2, 3, 4, 5, 6, 8, 10, 12, 16...).
const StandardBeatLength = 480

// HighPrecisionBeatLength can be used instead of StandardBeatLength when finer
// subdivisions are needed.
const HighPrecisionBeatLength = 960

type (
	// Timing is a half-open range of ticks: Start is inclusive, End is
	// exclusive. A Timing with Start == End is zero-length; it still has a
	// position and takes part in relations as a point.
	Timing struct {
		Start int `yaml:"start" json:"start"`
		End   int `yaml:"end" json:"end"`
	}

	// Relation describes how a target Timing relates to a reference Timing.
	// Relations are the only vocabulary used by timing based queries.
	Relation int
)

const (
	// During holds when the target spans at least the whole reference.
	During Relation = iota
	// Overlapping holds when the target shares any part of the reference.
	Overlapping
	// Within holds when the target is fully enclosed by the reference;
	// touching boundaries are allowed.
	Within
	// BeginningWithin holds when the target starts inside the reference.
	BeginningWithin
	// EndingWithin holds when the target ends inside the reference.
	EndingWithin
	// Before holds when the target ends at or before the reference start.
	Before
	// After holds when the target starts at or after the reference end.
	After
	// Equal holds when target and reference have the same start and end.
	Equal
)

var relationNames = []string{"during", "overlapping", "within", "beginningWithin", "endingWithin", "before", "after", "equal"}

var errUnknownRelation = errors.New("unknown timing relation")

// NewTiming returns the Timing [start, end). If end < start, the range is
// clamped to be zero-length at start.
func NewTiming(start, end int) Timing {
	if end < start {
		end = start
	}
	return Timing{Start: start, End: end}
}

func (t Timing) String() string {
	return fmt.Sprintf("[%d, %d)", t.Start, t.End)
}

// Len returns End - Start.
func (t Timing) Len() int {
	return t.End - t.Start
}

// IsEmpty is true for zero-length (or inverted) timings.
func (t Timing) IsEmpty() bool {
	return t.End <= t.Start
}

// Contains reports if the tick is inside the half-open range.
func (t Timing) Contains(tick int) bool {
	return t.Start <= tick && tick < t.End
}

// Before reports if t ends at or before ref starts.
func (t Timing) Before(ref Timing) bool {
	return t.End <= ref.Start
}

// After reports if t starts at or after ref ends.
func (t Timing) After(ref Timing) bool {
	return t.Start >= ref.End
}

// Within reports if t is fully inside ref, boundaries inclusive. A zero-length
// t at point p is within ref when ref.Start <= p <= ref.End.
func (t Timing) Within(ref Timing) bool {
	return ref.Start <= t.Start && t.End <= ref.End
}

// During reports if t spans at least the whole of ref.
func (t Timing) During(ref Timing) bool {
	return ref.Within(t)
}

// Overlaps reports if t and ref have a non-empty intersection. Zero-length
// timings behave as points: a point overlaps every range containing it and
// any other point at the same position.
func (t Timing) Overlaps(ref Timing) bool {
	switch {
	case t.IsEmpty() && ref.IsEmpty():
		return t.Start == ref.Start
	case t.IsEmpty():
		return ref.Contains(t.Start)
	case ref.IsEmpty():
		return t.Contains(ref.Start)
	}
	return t.Start < ref.End && ref.Start < t.End
}

// Equal reports if both timings have the same start and end.
func (t Timing) Equal(ref Timing) bool {
	return t == ref
}

// BeginsWithin reports if t starts inside ref.
func (t Timing) BeginsWithin(ref Timing) bool {
	if ref.IsEmpty() {
		return t.Start == ref.Start
	}
	return ref.Contains(t.Start)
}

// EndsWithin reports if t ends inside ref, i.e. its last tick is inside ref.
func (t Timing) EndsWithin(ref Timing) bool {
	if t.IsEmpty() || ref.IsEmpty() {
		return t.End >= ref.Start && t.End <= ref.End
	}
	return ref.Start < t.End && t.End <= ref.End
}

// Shift moves both ends of the timing by amount.
func (t Timing) Shift(amount int) Timing {
	return Timing{Start: t.Start + amount, End: t.End + amount}
}

// ShiftStart moves only the start by amount.
func (t Timing) ShiftStart(amount int) Timing {
	return Timing{Start: t.Start + amount, End: t.End}
}

// ShiftEnd moves only the end by amount.
func (t Timing) ShiftEnd(amount int) Timing {
	return Timing{Start: t.Start, End: t.End + amount}
}

// Divide splits the timing into consecutive pieces of the given size. The last
// piece is truncated to end at t.End. Non-positive sizes return nil.
func (t Timing) Divide(size int) []Timing {
	if size <= 0 {
		return nil
	}
	ret := make([]Timing, 0, (t.Len()+size-1)/size)
	for s := t.Start; s < t.End; s += size {
		ret = append(ret, Timing{Start: s, End: min(s+size, t.End)})
	}
	return ret
}

// Join merges overlapping or touching timings. The input is sorted by start
// before merging; the input slice is not modified.
func Join(timings []Timing) []Timing {
	if len(timings) == 0 {
		return nil
	}
	sorted := slices.Clone(timings)
	slices.SortStableFunc(sorted, func(a, b Timing) int { return a.Start - b.Start })
	ret := []Timing{sorted[0]}
	for _, t := range sorted[1:] {
		last := &ret[len(ret)-1]
		if t.Start <= last.End {
			last.End = max(last.End, t.End)
			continue
		}
		ret = append(ret, t)
	}
	return ret
}

// Holds reports if target relates to ref by the relation r.
func (r Relation) Holds(target, ref Timing) bool {
	switch r {
	case During:
		return target.During(ref)
	case Overlapping:
		return target.Overlaps(ref)
	case Within:
		return target.Within(ref)
	case BeginningWithin:
		return target.BeginsWithin(ref)
	case EndingWithin:
		return target.EndsWithin(ref)
	case Before:
		return target.Before(ref)
	case After:
		return target.After(ref)
	case Equal:
		return target.Equal(ref)
	}
	return false
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return fmt.Sprintf("Relation(%d)", int(r))
	}
	return relationNames[r]
}

// ParseRelation is the inverse of Relation.String; matching is case
// insensitive.
func ParseRelation(s string) (Relation, error) {
	for i, n := range relationNames {
		if strings.EqualFold(n, s) {
			return Relation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownRelation, s)
}

func (r Relation) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(relationNames) {
		return nil, fmt.Errorf("%w: %d", errUnknownRelation, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Relation) UnmarshalText(text []byte) error {
	v, err := ParseRelation(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
