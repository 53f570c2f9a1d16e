// Package report writes human readable listings of compositions using text
// templates.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/redact"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	Reporter struct {
		Template *template.Template
	}

	// Data is what the templates are executed with.
	Data struct {
		Title        string
		Seed         uint64
		TicksPerBeat int
		Length       time.Duration
		Nodes        []Row
		Kinds        map[string]any // kind -> number of segments
	}

	// Row is one segment of the listing, in pre-order.
	Row struct {
		ID      redact.SegmentID
		Depth   int
		Kind    string
		Timing  redact.Timing
		Name    string
		Element string // empty for elements without fields
	}
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultTemplate is the template Write executes.
const DefaultTemplate = "tree.tmpl"

// New returns a reporter using the embedded templates.
func New() (*Reporter, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Reporter{Template: tmpl}, nil
}

// NewFromTemplates returns a reporter using the *.tmpl templates in a
// directory. They must define DefaultTemplate.
func NewFromTemplates(templateDirectory string) (*Reporter, error) {
	globPtrn := filepath.Join(templateDirectory, "*.tmpl")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Reporter{Template: tmpl}, nil
}

// NewData collects the data of a composition for the templates.
func NewData(comp *redact.Composition) Data {
	d := Data{
		Seed:         comp.Seed,
		TicksPerBeat: comp.Options.TicksPerBeat,
		Kinds:        map[string]any{},
	}
	if root := comp.Root(); root != nil {
		d.Title = cases.Title(language.English).String(string(root.Segment.Kind()) + " composition")
		secs := comp.TempoMap().Seconds(max(root.Segment.Timing.End, 0), d.TicksPerBeat)
		d.Length = time.Duration(secs * float64(time.Second)).Round(time.Millisecond)
	}
	for n := range comp.All() {
		kind := n.Segment.Kind()
		count, _ := d.Kinds[string(kind)].(int)
		d.Kinds[string(kind)] = count + 1
		element := fmt.Sprintf("%+v", n.Segment.Element)
		if element == "{}" {
			element = ""
		}
		d.Nodes = append(d.Nodes, Row{
			ID:      n.ID,
			Depth:   n.Depth,
			Kind:    string(kind),
			Timing:  n.Segment.Timing,
			Name:    n.Segment.Name(),
			Element: element,
		})
	}
	return d
}

// Write executes the default template for the composition.
func (r *Reporter) Write(w io.Writer, comp *redact.Composition) error {
	return r.Execute(w, DefaultTemplate, comp)
}

// Execute executes the named template for the composition.
func (r *Reporter) Execute(w io.Writer, name string, comp *redact.Composition) error {
	var buf bytes.Buffer
	if err := r.Template.ExecuteTemplate(&buf, name, NewData(comp)); err != nil {
		return fmt.Errorf(`could not execute template "%v": %v`, name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
