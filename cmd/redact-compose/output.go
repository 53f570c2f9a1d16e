package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsariola/redact"
	"github.com/vsariola/redact/midi"
	"github.com/vsariola/redact/report"
	"github.com/vsariola/redact/synth"
	"gopkg.in/yaml.v3"
)

// outputPath returns path with "-<seed>" inserted before the extension when
// several compositions are written.
func outputPath(path string, seed uint64, many bool) string {
	if !many {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%v-%d%v", strings.TrimSuffix(path, ext), seed, ext)
}

func encode(w io.Writer, ext string, comp *redact.Composition, pcm16 bool) error {
	switch ext {
	case ".yml", ".yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(comp); err != nil {
			return err
		}
		return enc.Close()
	case ".json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(comp)
	case ".mid", ".midi":
		return midi.Write(w, comp)
	case ".wav":
		return synth.WriteWav(w, comp, pcm16)
	}
	return fmt.Errorf("unknown output format %q", ext)
}

func save(path string, comp *redact.Composition, pcm16 bool) error {
	var buf bytes.Buffer
	if err := encode(&buf, strings.ToLower(filepath.Ext(path)), comp, pcm16); err != nil {
		return fmt.Errorf("could not encode %v: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return nil
}

func loadComposition(path string) (*redact.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %v: %w", path, err)
	}
	var comp redact.Composition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &comp)
	case ".json":
		err = json.Unmarshal(data, &comp)
	default:
		return nil, fmt.Errorf("unknown composition format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse %v: %w", path, err)
	}
	return &comp, nil
}

func synthesize(comp *redact.Composition) ([]float32, error) {
	return synth.New().Render(comp)
}

func writeReport(w io.Writer, comp *redact.Composition) error {
	r, err := report.New()
	if err != nil {
		return err
	}
	return r.Write(w, comp)
}
