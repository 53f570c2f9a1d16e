package redact_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vsariola/redact"
	"gopkg.in/yaml.v3"
)

// songEngine produces a small tree with every core element type, wrapped
// parts and named segments.
func songEngine() *redact.RenderEngine {
	return redact.MustRenderEngine(
		redact.HandleFunc(func(s redact.SegmentRef[Root], ctx *redact.CompositionContext) ([]redact.Segment, error) {
			return []redact.Segment{
				redact.NewSegment(redact.Tempo{BPM: 128}, s.Timing),
				redact.NewNamedSegment("lead", redact.InstrumentPart(Arp{Base: 60}), s.Timing),
				redact.NewSegment(redact.PercussionPart(Noise{}), s.Timing),
			}, nil
		}),
		redact.HandleFunc(arp),
		redact.HandleFunc(noise),
	)
}

func composeSong(t *testing.T) *redact.Composition {
	t.Helper()
	composer := redact.NewComposer(songEngine(), redact.WithOptions(redact.Options{TicksPerBeat: 2}))
	comp, err := composer.Compose(redact.Over(Root{}, 0, 8), 42)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	return comp
}

func TestYAMLRoundTrip(t *testing.T) {
	comp := composeSong(t)
	b, err := yaml.Marshal(comp)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	var back redact.Composition
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v\n%s", err, b)
	}
	if back.Options != comp.Options || back.Seed != comp.Seed {
		t.Fatalf("got options %+v seed %v, expected %+v %v", back.Options, back.Seed, comp.Options, comp.Seed)
	}
	if got, expected := summarize(&back), summarize(comp); !reflect.DeepEqual(got, expected) {
		t.Fatalf("round trip changed the tree\ngot:      %+v\nexpected: %+v", got, expected)
	}
	for _, k := range []redact.Kind{redact.PartKind, "Arp", "Noise", redact.PlayNoteKind, "Value"} {
		if len(back.OfKind(k)) != len(comp.OfKind(k)) {
			t.Fatalf("index of %v differs after round trip", k)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	comp := composeSong(t)
	b, err := json.Marshal(comp)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	back := new(redact.Composition)
	if err := json.Unmarshal(b, back); err != nil {
		t.Fatalf("json.Unmarshal failed: %v\n%s", err, b)
	}
	if got, expected := summarize(back), summarize(comp); !reflect.DeepEqual(got, expected) {
		t.Fatalf("round trip changed the tree\ngot:      %+v\nexpected: %+v", got, expected)
	}
	again, err := json.Marshal(back)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(again) != string(b) {
		t.Fatalf("encoding is not stable:\n%s\n%s", b, again)
	}
}

func TestSegmentRoundTrip(t *testing.T) {
	s := redact.NewNamedSegment("bass", redact.InstrumentPart(redact.PlayNote{Note: 36, Velocity: 90}), redact.NewTiming(0, 960))
	b, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	var back redact.Segment
	if err := yaml.Unmarshal(b, &back); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if back.Name() != "bass" || back.Timing != s.Timing || !reflect.DeepEqual(back.Element, s.Element) {
		t.Fatalf("got %v, expected %v", back, s)
	}
}

func TestSegmentPayloadsSurviveYAML(t *testing.T) {
	segments := []redact.Segment{
		redact.Over(redact.Tempo{BPM: 128}, 0, 4),
		redact.Over(redact.PercussionPart(redact.Tempo{BPM: 90}), 0, 4),
		redact.Over(redact.InstrumentPart(Value{X: 7}), 2, 6),
		redact.Over(redact.PlayNote{Note: 64, Velocity: 100}, 4, 4),
	}
	for _, s := range segments {
		b, err := yaml.Marshal(s)
		if err != nil {
			t.Fatalf("yaml.Marshal failed: %v", err)
		}
		var back redact.Segment
		if err := yaml.Unmarshal(b, &back); err != nil {
			t.Fatalf("yaml.Unmarshal failed: %v\n%s", err, b)
		}
		if !reflect.DeepEqual(back.Element, s.Element) || back.Timing != s.Timing {
			t.Fatalf("got %+v, expected %+v\n%s", back.Element, s.Element, b)
		}
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	doc := `
options: {ticksPerBeat: 480}
seed: 1
tree:
  id: 0
  kind: NoSuchElement
  start: 0
  end: 4
`
	var comp redact.Composition
	err := yaml.Unmarshal([]byte(doc), &comp)
	if !errors.Is(err, redact.ErrUnknownKind) {
		t.Fatalf("got error %v, expected ErrUnknownKind", err)
	}
}

func TestDecodeMalformedTree(t *testing.T) {
	docs := map[string]string{
		"duplicate id": `{"options":{"ticksPerBeat":480},"seed":1,"tree":{"id":0,"kind":"Root","start":0,"end":4,"children":[{"id":1,"kind":"Beat","start":0,"end":2},{"id":1,"kind":"Beat","start":2,"end":4}]}}`,
		"missing id":   `{"options":{"ticksPerBeat":480},"seed":1,"tree":{"id":0,"kind":"Root","start":0,"end":4,"children":[{"id":2,"kind":"Beat","start":0,"end":2}]}}`,
		"inverted":     `{"options":{"ticksPerBeat":480},"seed":1,"tree":{"id":0,"kind":"Root","start":4,"end":0}}`,
	}
	for name, doc := range docs {
		var comp redact.Composition
		if err := json.Unmarshal([]byte(doc), &comp); err == nil {
			t.Errorf("%s: decoding should fail", name)
		}
	}
}

func TestYAMLIsReadable(t *testing.T) {
	b, err := yaml.Marshal(composeSong(t))
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}
	for _, s := range []string{"kind: Root", "kind: Part", "type: instrument", "name: lead", "bpm: 128"} {
		if !strings.Contains(string(b), s) {
			t.Fatalf("encoded composition does not contain %q:\n%s", s, b)
		}
	}
}
