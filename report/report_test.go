package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsariola/redact"
	"github.com/vsariola/redact/report"
)

type (
	Root struct{}
	Beat struct{ Index int }
)

func (Root) Kind() redact.Kind { return "Root" }
func (Beat) Kind() redact.Kind { return "Beat" }

func compose(t *testing.T) *redact.Composition {
	engine := redact.MustRenderEngine(
		redact.HandleFunc(func(s redact.SegmentRef[Root], _ *redact.CompositionContext) ([]redact.Segment, error) {
			var ret []redact.Segment
			for i, tm := range s.Timing.Divide(4) {
				seg := redact.NewSegment(Beat{Index: i}, tm)
				if i == 0 {
					seg = redact.NewNamedSegment("downbeat", Beat{Index: i}, tm)
				}
				ret = append(ret, seg)
			}
			return ret, nil
		}),
	)
	comp, err := redact.NewComposer(engine, redact.WithOptions(redact.Options{TicksPerBeat: 4})).Compose(redact.Over(Root{}, 0, 16), 42)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	return comp
}

func TestWrite(t *testing.T) {
	r, err := report.New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Write(&buf, compose(t)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got := buf.String()
	expected := `Root Composition
seed 42, 4 ticks per beat, 5 segments, 2s
0 Root [0, 16)
  1 Beat [0, 4) "downbeat" {Index:0}
  2 Beat [4, 8) {Index:1}
  3 Beat [8, 12) {Index:2}
  4 Beat [12, 16) {Index:3}
kinds:
  Beat: 4
  Root: 1
`
	if got != expected {
		t.Fatalf("got\n%s\nexpected\n%s", got, expected)
	}
}

func TestNewFromTemplates(t *testing.T) {
	dir := t.TempDir()
	tmpl := `{{ define "tree.tmpl" }}{{ range .Nodes }}{{ .Kind | lower }};{{ end }}{{ end }}`
	if err := os.WriteFile(filepath.Join(dir, "custom.tmpl"), []byte(tmpl), 0644); err != nil {
		t.Fatalf("could not write template: %v", err)
	}
	r, err := report.NewFromTemplates(dir)
	if err != nil {
		t.Fatalf("NewFromTemplates failed: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Write(&buf, compose(t)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != "root;beat;beat;beat;beat;" {
		t.Fatalf("got %q, expected root;beat;beat;beat;beat;", got)
	}
	if err := r.Execute(&buf, "missing.tmpl", compose(t)); err == nil || !strings.Contains(err.Error(), "missing.tmpl") {
		t.Fatalf("got %v, expected an error naming the missing template", err)
	}
}
