package redact

import "slices"

// DefaultBPM is the tempo of any part of a composition not covered by a Tempo
// segment.
const DefaultBPM = 120

type (
	// TempoSpan is a range of ticks played at one tempo.
	TempoSpan struct {
		Timing Timing
		BPM    int
	}

	// TempoMap is a sequence of consecutive, non-overlapping spans that
	// covers a composition from tick 0.
	TempoMap []TempoSpan
)

// TempoMap collects the Tempo segments of the composition into a map. The
// composition starts at DefaultBPM; each Tempo segment, in pre-order,
// overrides whatever tempo was in effect over its timing, so later and deeper
// segments win. Zero-length and non-positive tempos are ignored. Adjacent
// spans of the same tempo are merged.
func (c *Composition) TempoMap() TempoMap {
	end := max(c.Timing().End, 0)
	m := TempoMap{{Timing: NewTiming(0, end), BPM: DefaultBPM}}
	for _, n := range c.OfKind(TempoKind) {
		t, ok := ElementAs[Tempo](n.Segment.Element)
		if !ok || t.BPM <= 0 || n.Segment.Timing.IsEmpty() {
			continue
		}
		m = m.splice(TempoSpan{Timing: n.Segment.Timing, BPM: t.BPM})
	}
	return m.merged()
}

func (m TempoMap) splice(s TempoSpan) TempoMap {
	ret := make(TempoMap, 0, len(m)+2)
	for _, old := range m {
		if left := NewTiming(old.Timing.Start, min(old.Timing.End, s.Timing.Start)); !left.IsEmpty() {
			ret = append(ret, TempoSpan{Timing: left, BPM: old.BPM})
		}
		if right := NewTiming(max(old.Timing.Start, s.Timing.End), old.Timing.End); !right.IsEmpty() {
			ret = append(ret, TempoSpan{Timing: right, BPM: old.BPM})
		}
	}
	ret = append(ret, s)
	slices.SortFunc(ret, func(a, b TempoSpan) int { return a.Timing.Start - b.Timing.Start })
	return ret
}

func (m TempoMap) merged() TempoMap {
	var ret TempoMap
	for _, s := range m {
		if n := len(ret); n > 0 && ret[n-1].BPM == s.BPM && ret[n-1].Timing.End == s.Timing.Start {
			ret[n-1].Timing.End = s.Timing.End
			continue
		}
		ret = append(ret, s)
	}
	return ret
}

// At returns the tempo in effect at tick. Ticks outside the map use the
// nearest span.
func (m TempoMap) At(tick int) int {
	if len(m) == 0 {
		return DefaultBPM
	}
	for _, s := range m {
		if tick < s.Timing.End {
			return s.BPM
		}
	}
	return m[len(m)-1].BPM
}

// Seconds converts a tick position to seconds from tick 0, integrating over
// the tempo changes. Ticks past the end of the map continue at its last tempo.
func (m TempoMap) Seconds(tick, ticksPerBeat int) float64 {
	if ticksPerBeat <= 0 {
		return 0
	}
	secs := 0.0
	pos := 0
	bpm := DefaultBPM
	for _, s := range m {
		if pos >= tick {
			break
		}
		bpm = s.BPM
		upto := min(s.Timing.End, tick)
		if upto > pos {
			secs += float64(upto-pos) * 60 / (float64(bpm) * float64(ticksPerBeat))
			pos = upto
		}
	}
	if tick > pos {
		secs += float64(tick-pos) * 60 / (float64(bpm) * float64(ticksPerBeat))
	}
	return secs
}
