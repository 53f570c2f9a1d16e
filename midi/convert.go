package midi

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/vsariola/redact"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// PercussionChannel is the zero based General MIDI drum channel (channel 10
// in the one based numbering of most sequencers).
const PercussionChannel = 9

const numChannels = 16

// Converter turns compositions into format 1 Standard MIDI Files. The first
// track holds the tempo map and every Part that got a channel gets a track of
// its own, holding the program changes and notes generated under it.
type Converter struct {
	Logger *slog.Logger
}

var ErrTicksPerBeat = errors.New("ticks per beat does not fit in a MIDI file header")

// event priorities when several events share a tick: program changes first,
// then note offs so that a repeated note is released before it is struck again.
const (
	priorityProgram = iota
	priorityNoteOff
	priorityNoteOn
)

type (
	timedEvent struct {
		tick     int
		priority int
		msg      midi.Message
	}

	partChannel struct {
		node    *redact.Node
		part    redact.Part
		channel int // -1 if the part could not be assigned one
	}
)

// Convert converts comp using a Converter that logs to slog.Default().
func Convert(comp *redact.Composition) (*smf.SMF, error) {
	return (&Converter{}).Convert(comp)
}

// Write converts comp and writes it as a MIDI file to w.
func Write(w io.Writer, comp *redact.Composition) error {
	s, err := Convert(comp)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing MIDI file failed: %w", err)
	}
	return nil
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Convert converts the composition. Notes and programs that are not generated
// under any Part are left out, as are the notes of parts for which no channel
// was free.
func (c *Converter) Convert(comp *redact.Composition) (*smf.SMF, error) {
	tpb := comp.Options.TicksPerBeat
	if tpb <= 0 || tpb > 0x7fff {
		return nil, fmt.Errorf("%w: %d", ErrTicksPerBeat, tpb)
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(uint16(tpb))
	if err := s.Add(c.conductorTrack(comp)); err != nil {
		return nil, fmt.Errorf("adding tempo track failed: %w", err)
	}
	parts := c.assignChannels(comp)
	events := c.partEvents(comp, parts)
	count := 0
	for _, p := range parts {
		if p.channel < 0 {
			continue
		}
		evs := events[p.node.ID]
		count += len(evs)
		if err := s.Add(partTrack(trackName(p), evs)); err != nil {
			return nil, fmt.Errorf("adding track for segment %d failed: %w", p.node.ID, err)
		}
	}
	c.logger().Debug("converted composition to MIDI", "tracks", len(s.Tracks), "events", count)
	return s, nil
}

func (c *Converter) conductorTrack(comp *redact.Composition) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("Tempo"))
	prev := 0
	for _, span := range comp.TempoMap() {
		tick := max(span.Timing.Start, 0)
		tr.Add(uint32(tick-prev), smf.MetaTempo(float64(span.BPM)))
		prev = tick
	}
	tr.Close(0)
	return tr
}

// assignChannels gives every part, in order of start time, the lowest channel
// not used by a part still playing. Percussion parts share the single
// percussion channel, instrument parts the remaining fifteen.
func (c *Converter) assignChannels(comp *redact.Composition) []partChannel {
	var parts []partChannel
	for _, n := range comp.OfKind(redact.PartKind) {
		p, _ := redact.ElementAs[redact.Part](n.Segment.Element)
		parts = append(parts, partChannel{node: n, part: p, channel: -1})
	}
	byStart := make([]*partChannel, len(parts))
	for i := range parts {
		byStart[i] = &parts[i]
	}
	slices.SortStableFunc(byStart, func(a, b *partChannel) int {
		return cmp.Compare(a.node.Segment.Timing.Start, b.node.Segment.Timing.Start)
	})
	var busy [numChannels]*partChannel
	for _, p := range byStart {
		start := p.node.Segment.Timing.Start
		for ch, b := range busy {
			if b != nil && b.node.Segment.Timing.End <= start {
				busy[ch] = nil
			}
		}
		for ch := range numChannels {
			if busy[ch] != nil || (ch == PercussionChannel) != (p.part.Type == redact.Percussion) {
				continue
			}
			p.channel = ch
			busy[ch] = p
			break
		}
		if p.channel < 0 {
			c.logger().Warn("no free MIDI channel for part, dropping it",
				"id", p.node.ID, "type", p.part.Type, "timing", p.node.Segment.Timing)
		}
	}
	return parts
}

// partEvents collects the program changes and notes of every part, keyed by
// the id of the part node. A segment belongs to its nearest Part ancestor.
func (c *Converter) partEvents(comp *redact.Composition, parts []partChannel) map[redact.SegmentID][]timedEvent {
	channels := make(map[redact.SegmentID]int, len(parts))
	for _, p := range parts {
		channels[p.node.ID] = p.channel
	}
	ret := map[redact.SegmentID][]timedEvent{}
	orphans := 0
	for n := range comp.All() {
		prog, isProg := redact.ElementAs[Program](n.Segment.Element)
		note, isNote := redact.ElementAs[redact.PlayNote](n.Segment.Element)
		if !isProg && !isNote {
			continue
		}
		owner, ok := comp.Enclosing(n, redact.PartKind)
		if !ok {
			orphans++
			continue
		}
		ch := channels[owner.ID]
		if ch < 0 {
			continue
		}
		t := n.Segment.Timing
		start, end := max(t.Start, 0), max(t.End, 0)
		switch {
		case isProg:
			ret[owner.ID] = append(ret[owner.ID], timedEvent{start, priorityProgram, midi.ProgramChange(uint8(ch), prog.Number)})
		case t.IsEmpty():
			// nothing to hear
		default:
			ret[owner.ID] = append(ret[owner.ID],
				timedEvent{start, priorityNoteOn, midi.NoteOn(uint8(ch), note.Note, note.Velocity)},
				timedEvent{end, priorityNoteOff, midi.NoteOff(uint8(ch), note.Note)})
		}
	}
	if orphans > 0 {
		c.logger().Warn("segments outside of any part were not converted", "count", orphans)
	}
	return ret
}

func partTrack(name string, events []timedEvent) smf.Track {
	slices.SortStableFunc(events, func(a, b timedEvent) int {
		return cmp.Or(cmp.Compare(a.tick, b.tick), cmp.Compare(a.priority, b.priority))
	})
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	prev := 0
	for _, e := range events {
		tr.Add(uint32(e.tick-prev), e.msg)
		prev = e.tick
	}
	tr.Close(0)
	return tr
}

func trackName(p partChannel) string {
	if name := p.node.Segment.Name(); name != "" {
		return titleCase(name)
	}
	if p.part.Element != nil {
		return titleCase(string(p.part.Element.Kind()))
	}
	return titleCase(p.part.Type.String())
}
