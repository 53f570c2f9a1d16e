package redact

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	// PlayNote is a playable leaf: a MIDI note number (60 is middle C) struck
	// with a velocity for the duration of its segment.
	PlayNote struct {
		Note     uint8 `yaml:"note" json:"note"`
		Velocity uint8 `yaml:"velocity" json:"velocity"`
	}

	// Tempo sets the speed, in beats per minute, for the duration of its
	// segment.
	Tempo struct {
		BPM int `yaml:"bpm" json:"bpm"`
	}

	// Part wraps another element and marks the notes generated under it as
	// being played by a single instrument (or drum kit) at a time. Renderers
	// of the wrapped element run for the part as well.
	Part struct {
		Type    PartType
		Element Element
	}

	// PartType tells if a part is played by a melodic instrument or by
	// percussion.
	PartType int

	partDoc[E any] struct {
		Type    PartType `yaml:"type" json:"type"`
		Wrapped E        `yaml:"wrapped" json:"wrapped"`
	}
)

const (
	Instrument PartType = iota
	Percussion
)

const (
	PlayNoteKind Kind = "PlayNote"
	TempoKind    Kind = "Tempo"
	PartKind     Kind = "Part"
)

func init() {
	RegisterElement[PlayNote]()
	RegisterElement[Tempo]()
	RegisterElement[Part]()
}

func (PlayNote) Kind() Kind { return PlayNoteKind }
func (Tempo) Kind() Kind    { return TempoKind }
func (Part) Kind() Kind     { return PartKind }

// MicrosecondsPerBeat converts the tempo to the unit used by MIDI files.
func (t Tempo) MicrosecondsPerBeat() int {
	if t.BPM <= 0 {
		return 0
	}
	return 60_000_000 / t.BPM
}

// InstrumentPart wraps element in a melodic part.
func InstrumentPart(element Element) Part {
	return Part{Type: Instrument, Element: element}
}

// PercussionPart wraps element in a percussion part.
func PercussionPart(element Element) Part {
	return Part{Type: Percussion, Element: element}
}

func (p Part) Wrapped() Element {
	return p.Element
}

func (t PartType) String() string {
	switch t {
	case Instrument:
		return "instrument"
	case Percussion:
		return "percussion"
	}
	return fmt.Sprintf("PartType(%d)", int(t))
}

func (t PartType) MarshalText() ([]byte, error) {
	switch t {
	case Instrument, Percussion:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("invalid part type %d", int(t))
}

func (t *PartType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "instrument":
		*t = Instrument
	case "percussion":
		*t = Percussion
	default:
		return fmt.Errorf("invalid part type %q", text)
	}
	return nil
}

func (p Part) MarshalYAML() (any, error) {
	w, err := encodeYAMLElement(p.Element)
	if err != nil {
		return nil, fmt.Errorf("part: %w", err)
	}
	return partDoc[yamlElement]{Type: p.Type, Wrapped: w}, nil
}

func (p *Part) UnmarshalYAML(value *yaml.Node) error {
	var doc partDoc[yamlElement]
	if err := value.Decode(&doc); err != nil {
		return err
	}
	e, err := doc.Wrapped.decode()
	if err != nil {
		return fmt.Errorf("part: %w", err)
	}
	p.Type, p.Element = doc.Type, e
	return nil
}

func (p Part) MarshalJSON() ([]byte, error) {
	w, err := encodeJSONElement(p.Element)
	if err != nil {
		return nil, fmt.Errorf("part: %w", err)
	}
	return json.Marshal(partDoc[jsonElement]{Type: p.Type, Wrapped: w})
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var doc partDoc[jsonElement]
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	e, err := doc.Wrapped.decode()
	if err != nil {
		return fmt.Errorf("part: %w", err)
	}
	p.Type, p.Element = doc.Type, e
	return nil
}
