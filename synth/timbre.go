package synth

// timbre is the sound of a voice: the relative amplitudes of its harmonics
// and a linear attack/decay/sustain/release envelope, in seconds.
type timbre struct {
	harmonics []float32
	attack    float64
	decay     float64
	sustain   float32
	release   float64
	noise     bool
}

var (
	pianoTimbre   = timbre{harmonics: []float32{1, 0.5, 0.25, 0.12, 0.06}, attack: 0.005, decay: 0.6, sustain: 0.2, release: 0.2}
	malletTimbre  = timbre{harmonics: []float32{1, 0, 0.3, 0, 0.1}, attack: 0.002, decay: 0.3, sustain: 0, release: 0.3}
	organTimbre   = timbre{harmonics: []float32{1, 0.8, 0.6, 0.4, 0.3, 0.2}, attack: 0.01, decay: 0, sustain: 1, release: 0.05}
	pluckTimbre   = timbre{harmonics: []float32{1, 0.6, 0.3, 0.2, 0.1, 0.05}, attack: 0.002, decay: 0.4, sustain: 0.1, release: 0.1}
	bassTimbre    = timbre{harmonics: []float32{1, 0.7, 0.3, 0.1}, attack: 0.005, decay: 0.2, sustain: 0.6, release: 0.08}
	stringsTimbre = timbre{harmonics: []float32{1, 0.5, 0.33, 0.25, 0.2, 0.16, 0.14}, attack: 0.15, decay: 0, sustain: 1, release: 0.3}
	windTimbre    = timbre{harmonics: []float32{1, 0.1, 0.3, 0.05, 0.1}, attack: 0.05, decay: 0, sustain: 1, release: 0.1}
	leadTimbre    = timbre{harmonics: []float32{1, 0.5, 0.33, 0.25, 0.2, 0.16, 0.14, 0.12}, attack: 0.01, decay: 0.1, sustain: 0.8, release: 0.1}
	padTimbre     = timbre{harmonics: []float32{1, 0.4, 0.2, 0.1}, attack: 0.4, decay: 0, sustain: 1, release: 0.6}
	drumTimbre    = timbre{attack: 0.001, decay: 0.15, sustain: 0, release: 0.05, noise: true}
)

// timbreFor picks a timbre by General MIDI program family.
func timbreFor(program uint8) timbre {
	switch program / 8 {
	case 0:
		return pianoTimbre
	case 1, 14:
		return malletTimbre
	case 2:
		return organTimbre
	case 3, 13:
		return pluckTimbre
	case 4:
		return bassTimbre
	case 5, 6:
		return stringsTimbre
	case 7, 8, 9:
		return windTimbre
	case 10:
		return leadTimbre
	case 11, 12:
		return padTimbre
	}
	return drumTimbre
}

// envelope returns the gain at time t seconds after the note started, for a
// note held for length seconds.
func (tb timbre) envelope(t, length float64) float32 {
	if t < 0 {
		return 0
	}
	level := func(t float64) float32 {
		switch {
		case t < tb.attack:
			return float32(t / tb.attack)
		case t < tb.attack+tb.decay:
			f := float32((t - tb.attack) / tb.decay)
			return 1 - f*(1-tb.sustain)
		}
		return tb.sustain
	}
	if t < length {
		return level(t)
	}
	if tb.release <= 0 || t >= length+tb.release {
		return 0
	}
	return level(length) * float32(1-(t-length)/tb.release)
}
