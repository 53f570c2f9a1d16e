package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vsariola/redact/musical"
	"gopkg.in/yaml.v3"
)

// config holds the options of a compose run. A config file gives the
// defaults; flags given on the command line win.
type config struct {
	Seed         uint64          `yaml:"seed"`
	Count        int             `yaml:"count"`
	Beats        int             `yaml:"beats"`
	TicksPerBeat int             `yaml:"ticksPerBeat"`
	BPM          int             `yaml:"bpm"`
	Chords       []musical.Chord `yaml:"chords"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config %v: %w", path, err)
	}
	return cfg, nil
}

// merge returns the file config overridden by the flags that were changed.
// Fields missing from the file keep the flag defaults.
func (c config) merge(f config, changed func(name string) bool) config {
	pick := func(name string, file, flag int) int {
		if changed(name) || file == 0 {
			return flag
		}
		return file
	}
	ret := c
	if changed("seed") {
		ret.Seed = f.Seed
	}
	ret.Count = pick("count", c.Count, f.Count)
	ret.Beats = pick("beats", c.Beats, f.Beats)
	ret.TicksPerBeat = pick("ticks-per-beat", c.TicksPerBeat, f.TicksPerBeat)
	ret.BPM = pick("bpm", c.BPM, f.BPM)
	return ret
}

func (c config) validate() error {
	var errs []error
	if c.Count < 1 {
		errs = append(errs, fmt.Errorf("count must be at least 1, got %d", c.Count))
	}
	if c.Beats < 1 {
		errs = append(errs, fmt.Errorf("beats must be at least 1, got %d", c.Beats))
	}
	if c.TicksPerBeat < 2 || c.TicksPerBeat > 0x7fff {
		errs = append(errs, fmt.Errorf("ticks per beat must be in 2..32767, got %d", c.TicksPerBeat))
	}
	if c.BPM < 0 {
		errs = append(errs, fmt.Errorf("bpm must not be negative, got %d", c.BPM))
	}
	return errors.Join(errs...)
}
