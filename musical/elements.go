// Package musical provides the music theory vocabulary used by renderers:
// pitch classes and notes, intervals, chords, keys and scales, and rhythms.
// Chord, Key and TimeSignature are also elements, so they can be placed in
// a composition and found by later renderers.
package musical

import "github.com/vsariola/redact"

const (
	ChordKind         redact.Kind = "Chord"
	KeyKind           redact.Kind = "Key"
	TimeSignatureKind redact.Kind = "TimeSignature"
)

func init() {
	redact.RegisterElement[Chord]()
	redact.RegisterElement[Key]()
	redact.RegisterElement[TimeSignature]()
}

func (Chord) Kind() redact.Kind         { return ChordKind }
func (Key) Kind() redact.Kind           { return KeyKind }
func (TimeSignature) Kind() redact.Kind { return TimeSignatureKind }
