// Package midi converts compositions to Standard MIDI Files and provides the
// General MIDI elements (programs, drum kits, drum hits) that parts use to
// pick their sound.
package midi

import "github.com/vsariola/redact"

type (
	// Program changes the program of the part it is generated under, at the
	// start of its segment.
	Program struct {
		Number uint8 `yaml:"number" json:"number"`
	}

	// DrumKit selects a drum kit for a percussion part. It renders into a
	// Program.
	DrumKit struct {
		Number uint8 `yaml:"number" json:"number"`
	}

	// DrumHit is one strike of a General MIDI percussion sound. It renders
	// into a PlayNote.
	DrumHit struct {
		Hit      DrumHitType `yaml:"hit" json:"hit"`
		Velocity uint8       `yaml:"velocity" json:"velocity"`
	}
)

const (
	ProgramKind    redact.Kind = "Program"
	DrumKitKind    redact.Kind = "DrumKit"
	DrumHitKind    redact.Kind = "DrumHit"
	InstrumentKind redact.Kind = "Instrument"
)

// StandardDrumKit is the default General MIDI kit.
var StandardDrumKit = DrumKit{Number: 0}

func init() {
	redact.RegisterElement[Program]()
	redact.RegisterElement[DrumKit]()
	redact.RegisterElement[DrumHit]()
	redact.RegisterElement[Instrument]()
}

func (Program) Kind() redact.Kind    { return ProgramKind }
func (DrumKit) Kind() redact.Kind    { return DrumKitKind }
func (DrumHit) Kind() redact.Kind    { return DrumHitKind }
func (Instrument) Kind() redact.Kind { return InstrumentKind }

// Program returns the program change selecting the instrument.
func (i Instrument) Program() Program {
	return Program{Number: uint8(i)}
}

// Renderers returns an engine rendering Instrument and DrumKit segments into
// Programs and DrumHit segments into PlayNotes, each over the same timing.
func Renderers() *redact.RenderEngine {
	return redact.MustRenderEngine(
		redact.HandleFunc(func(s redact.SegmentRef[Instrument], _ *redact.CompositionContext) ([]redact.Segment, error) {
			return []redact.Segment{redact.NewSegment(s.Element.Program(), s.Timing)}, nil
		}),
		redact.HandleFunc(func(s redact.SegmentRef[DrumKit], _ *redact.CompositionContext) ([]redact.Segment, error) {
			return []redact.Segment{redact.NewSegment(Program(s.Element), s.Timing)}, nil
		}),
		redact.HandleFunc(func(s redact.SegmentRef[DrumHit], _ *redact.CompositionContext) ([]redact.Segment, error) {
			note := redact.PlayNote{Note: uint8(s.Element.Hit), Velocity: s.Element.Velocity}
			return []redact.Segment{redact.NewSegment(note, s.Timing)}, nil
		}),
	)
}
