package musical

import (
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/vsariola/redact"
)

type (
	// TimeSignature describes how ticks group into beats and bars. As an
	// element it sets the meter during its segment.
	TimeSignature struct {
		BeatsPerBar int `yaml:"beatsPerBar" json:"beatsPerBar"`
		BeatLength  int `yaml:"beatLength" json:"beatLength"`
	}

	// Subdivision is one step of a rhythm, in ticks relative to the start of
	// the rhythm. Rests keep their place in time but produce no notes.
	Subdivision struct {
		Start int  `yaml:"start" json:"start"`
		End   int  `yaml:"end" json:"end"`
		Rest  bool `yaml:"rest,omitempty" json:"rest,omitempty"`
	}

	// Rhythm is a sequence of consecutive subdivisions starting at tick 0.
	Rhythm []Subdivision

	// WeightedDivision is a group of subdivision lengths that is picked
	// with a relative weight by RandomWeightedRhythm.
	WeightedDivision struct {
		Lengths []int
		Weight  int
	}
)

var errIndivisible = errors.New("cannot divide rhythm")

func (ts TimeSignature) Bar() int         { return ts.BeatsPerBar * ts.BeatLength }
func (ts TimeSignature) Bars(n int) int   { return ts.Bar() * n }
func (ts TimeSignature) Beat() int        { return ts.BeatLength }
func (ts TimeSignature) Beats(n int) int  { return ts.BeatLength * n }
func (ts TimeSignature) HalfBeat() int    { return ts.BeatLength / 2 }
func (ts TimeSignature) QuarterBeat() int { return ts.BeatLength / 4 }
func (ts TimeSignature) EighthBeat() int  { return ts.BeatLength / 8 }
func (ts TimeSignature) Triplet() int     { return ts.BeatLength * 2 / 3 }
func (ts TimeSignature) HalfTriplet() int { return ts.BeatLength / 3 }

// Timing returns the subdivision as a Timing.
func (s Subdivision) Timing() redact.Timing {
	return redact.NewTiming(s.Start, s.End)
}

// NewRhythm returns a rhythm of consecutive notes with the given lengths.
// Negative lengths are rests of the absolute length.
func NewRhythm(lengths ...int) Rhythm {
	ret := make(Rhythm, 0, len(lengths))
	pos := 0
	for _, l := range lengths {
		rest := l < 0
		if rest {
			l = -l
		}
		ret = append(ret, Subdivision{Start: pos, End: pos + l, Rest: rest})
		pos += l
	}
	return ret
}

// FromSubdivisions builds a rhythm from possibly unordered or overlapping
// subdivisions. Subdivisions are sorted by start; gaps become rests,
// subdivisions entirely covered by earlier ones are dropped and partially
// covered ones are shortened to start where the previous one ends.
func FromSubdivisions(divs []Subdivision) Rhythm {
	sorted := slices.Clone(divs)
	slices.SortStableFunc(sorted, func(a, b Subdivision) int { return a.Start - b.Start })
	var ret Rhythm
	for _, d := range sorted {
		if len(ret) == 0 {
			ret = append(ret, d)
			continue
		}
		prev := ret[len(ret)-1]
		switch {
		case d.End <= prev.End:
			continue
		case d.Start > prev.End:
			ret = append(ret, Subdivision{Start: prev.End, End: d.Start, Rest: true}, d)
		default:
			ret = append(ret, Subdivision{Start: prev.End, End: d.End, Rest: d.Rest})
		}
	}
	return ret
}

// Len returns the length of the rhythm in ticks.
func (r Rhythm) Len() int {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1].End
}

// Notes iterates over the subdivisions that are not rests.
func (r Rhythm) Notes() iter.Seq[Subdivision] {
	return func(yield func(Subdivision) bool) {
		for _, s := range r {
			if !s.Rest && !yield(s) {
				return
			}
		}
	}
}

// Offset returns a copy of the rhythm shifted by amount ticks.
func (r Rhythm) Offset(amount int) Rhythm {
	ret := make(Rhythm, len(r))
	for i, s := range r {
		ret[i] = Subdivision{Start: s.Start + amount, End: s.End + amount, Rest: s.Rest}
	}
	return ret
}

// Append returns r followed by other.
func (r Rhythm) Append(other Rhythm) Rhythm {
	return append(slices.Clip(r), other.Offset(r.Len())...)
}

// Frame cuts or pads the rhythm to exactly size ticks. A last subdivision
// crossing the frame is shortened; a rhythm shorter than the frame is padded
// with a rest.
func (r Rhythm) Frame(size int) Rhythm {
	var ret Rhythm
	for _, s := range r {
		if s.Start >= size {
			break
		}
		ret = append(ret, s)
	}
	if len(ret) == 0 {
		return nil
	}
	last := &ret[len(ret)-1]
	switch {
	case last.End > size:
		last.End = size
	case last.End < size && last.Rest:
		last.End = size
	case last.End < size:
		ret = append(ret, Subdivision{Start: last.End, End: size, Rest: true})
	}
	return ret
}

// Over repeats the rhythm from the start of t and yields the timings of its
// notes that end within t.
func (r Rhythm) Over(t redact.Timing) iter.Seq[redact.Timing] {
	return func(yield func(redact.Timing) bool) {
		length := r.Len()
		if length <= 0 {
			return
		}
		for offset := t.Start; ; offset += length {
			for _, s := range r {
				if offset+s.End > t.End {
					return
				}
				if s.Rest {
					continue
				}
				if !yield(redact.NewTiming(offset+s.Start, offset+s.End)) {
					return
				}
			}
		}
	}
}

// BalancedRhythm splits length into exactly n subdivisions by repeatedly
// halving the longest one along bar, beat, half beat and quarter beat lines,
// then shuffles them.
func BalancedRhythm(length, n int, ts TimeSignature, rng *rand.Rand) (Rhythm, error) {
	lengths := []int{length}
	grid := []int{ts.Bar(), ts.Beat(), ts.HalfBeat(), ts.QuarterBeat()}
	for len(lengths) < n {
		longest := 0
		for i, l := range lengths {
			if l > lengths[longest] {
				longest = i
			}
		}
		l := lengths[longest]
		split := 0
		for _, g := range grid {
			if g > 0 && l/g > 1 {
				split = l / g / 2 * g
				break
			}
		}
		if split == 0 {
			return nil, fmt.Errorf("%w: %d ticks into %d subdivisions", errIndivisible, length, n)
		}
		lengths = slices.Delete(lengths, longest, longest+1)
		lengths = append(lengths, split, l-split)
	}
	rng.Shuffle(len(lengths), func(i, j int) { lengths[i], lengths[j] = lengths[j], lengths[i] })
	return NewRhythm(lengths...), nil
}

// RandomRhythm recursively divides length along the time signature. For each
// subdivision of length l, divide(l) is the probability of dividing it
// further and rest(l) the probability of it becoming a rest.
func RandomRhythm(length int, ts TimeSignature, divide, rest func(l int) float64, rng *rand.Rand) Rhythm {
	choices := func(l int) [][]int {
		switch {
		case l > ts.Bar():
			var bars []int
			for range l / ts.Bar() {
				bars = append(bars, ts.Bar())
			}
			if l%ts.Bar() != 0 {
				bars = append(bars, l%ts.Bar())
			}
			return [][]int{bars}
		case l > ts.Beats(2):
			return [][]int{{ts.Beats(2), l - ts.Beats(2)}, {ts.Beat(), l - ts.Beat()}}
		case l == ts.Beats(2):
			return [][]int{
				{ts.Triplet(), ts.Triplet(), ts.Triplet()},
				{ts.Beat() + ts.HalfBeat(), ts.HalfBeat()},
				{ts.Beat(), l - ts.Beat()},
			}
		case l >= ts.Beat() && ts.HalfBeat() > 0:
			return [][]int{{ts.HalfBeat(), l - ts.HalfBeat()}}
		case l >= ts.HalfBeat() && ts.QuarterBeat() > 0:
			return [][]int{{ts.QuarterBeat(), l - ts.QuarterBeat()}}
		}
		return nil
	}
	type piece struct {
		length int
		done   bool
	}
	pieces := []piece{{length: length}}
	for slices.ContainsFunc(pieces, func(p piece) bool { return !p.done }) {
		var next []piece
		for _, p := range pieces {
			if p.done || rng.Float64() >= clamp01(divide(p.length)) {
				next = append(next, piece{p.length, true})
				continue
			}
			c := choices(p.length)
			if len(c) == 0 {
				next = append(next, piece{p.length, true})
				continue
			}
			for _, l := range c[rng.IntN(len(c))] {
				if l > 0 {
					next = append(next, piece{length: l})
				}
			}
		}
		pieces = next
	}
	ret := make(Rhythm, len(pieces))
	pos := 0
	for i, p := range pieces {
		ret[i] = Subdivision{Start: pos, End: pos + p.length, Rest: rng.Float64() < clamp01(rest(p.length))}
		pos += p.length
	}
	return ret
}

// RandomWeightedRhythm fills length with groups picked by weight among those
// that still fit, then shuffles the groups. It returns an empty rhythm when no
// group fits at all.
func RandomWeightedRhythm(length int, divisions []WeightedDivision, rng *rand.Rand) Rhythm {
	var groups [][]int
	for sum := 0; sum < length; {
		remaining := length - sum
		var fitting []WeightedDivision
		total := 0
		for _, d := range divisions {
			if s := sumOf(d.Lengths); s > 0 && s <= remaining && d.Weight > 0 {
				fitting = append(fitting, d)
				total += d.Weight
			}
		}
		if total == 0 {
			if len(groups) == 0 {
				return nil
			}
			break
		}
		pick := rng.IntN(total)
		for _, d := range fitting {
			if pick < d.Weight {
				groups = append(groups, d.Lengths)
				sum += sumOf(d.Lengths)
				break
			}
			pick -= d.Weight
		}
	}
	rng.Shuffle(len(groups), func(i, j int) { groups[i], groups[j] = groups[j], groups[i] })
	return NewRhythm(slices.Concat(groups...)...)
}

func sumOf(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func clamp01(p float64) float64 {
	return min(max(p, 0), 1)
}
