package midi

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Instrument is a General MIDI program number, 0-127.
type Instrument uint8

// DrumHitType is a General MIDI percussion key, 35-81 on channel 10.
type DrumHitType uint8

const (
	AcousticGrandPiano  Instrument = 0
	ElectricPiano1      Instrument = 4
	Vibraphone          Instrument = 11
	DrawbarOrgan        Instrument = 16
	AcousticGuitarNylon Instrument = 24
	AcousticBass        Instrument = 32
	SynthBass1          Instrument = 38
	Violin              Instrument = 40
	StringEnsemble1     Instrument = 48
	Trumpet             Instrument = 56
	AltoSax             Instrument = 65
	Flute               Instrument = 73
	LeadSquare          Instrument = 80
	LeadSawtooth        Instrument = 81
	PadWarm             Instrument = 89
)

const (
	AcousticBassDrum DrumHitType = 35 + iota
	BassDrum
	SideStick
	AcousticSnare
	HandClap
	ElectricSnare
	LowFloorTom
	ClosedHiHat
	HighFloorTom
	PedalHiHat
	LowTom
	OpenHiHat
	LowMidTom
	HighMidTom
	CrashCymbal1
	HighTom
	RideCymbal1
	ChineseCymbal
	RideBell
	Tambourine
	SplashCymbal
	Cowbell
	CrashCymbal2
	Vibraslap
	RideCymbal2
	HighBongo
	LowBongo
	MuteHighConga
	OpenHighConga
	LowConga
	HighTimbale
	LowTimbale
	HighAgogo
	LowAgogo
	Cabasa
	Maracas
	ShortWhistle
	LongWhistle
	ShortGuiro
	LongGuiro
	Claves
	HighWoodblock
	LowWoodblock
	MuteCuica
	OpenCuica
	MuteTriangle
	OpenTriangle
)

var instrumentNames = [128]string{
	"acoustic grand piano", "bright acoustic piano", "electric grand piano", "honky-tonk piano",
	"electric piano 1", "electric piano 2", "harpsichord", "clavi",
	"celesta", "glockenspiel", "music box", "vibraphone",
	"marimba", "xylophone", "tubular bells", "dulcimer",
	"drawbar organ", "percussive organ", "rock organ", "church organ",
	"reed organ", "accordion", "harmonica", "tango accordion",
	"acoustic guitar (nylon)", "acoustic guitar (steel)", "electric guitar (jazz)", "electric guitar (clean)",
	"electric guitar (muted)", "overdriven guitar", "distortion guitar", "guitar harmonics",
	"acoustic bass", "electric bass (finger)", "electric bass (pick)", "fretless bass",
	"slap bass 1", "slap bass 2", "synth bass 1", "synth bass 2",
	"violin", "viola", "cello", "contrabass",
	"tremolo strings", "pizzicato strings", "orchestral harp", "timpani",
	"string ensemble 1", "string ensemble 2", "synth strings 1", "synth strings 2",
	"choir aahs", "voice oohs", "synth voice", "orchestra hit",
	"trumpet", "trombone", "tuba", "muted trumpet",
	"french horn", "brass section", "synth brass 1", "synth brass 2",
	"soprano sax", "alto sax", "tenor sax", "baritone sax",
	"oboe", "english horn", "bassoon", "clarinet",
	"piccolo", "flute", "recorder", "pan flute",
	"blown bottle", "shakuhachi", "whistle", "ocarina",
	"lead 1 (square)", "lead 2 (sawtooth)", "lead 3 (calliope)", "lead 4 (chiff)",
	"lead 5 (charang)", "lead 6 (voice)", "lead 7 (fifths)", "lead 8 (bass + lead)",
	"pad 1 (new age)", "pad 2 (warm)", "pad 3 (polysynth)", "pad 4 (choir)",
	"pad 5 (bowed)", "pad 6 (metallic)", "pad 7 (halo)", "pad 8 (sweep)",
	"fx 1 (rain)", "fx 2 (soundtrack)", "fx 3 (crystal)", "fx 4 (atmosphere)",
	"fx 5 (brightness)", "fx 6 (goblins)", "fx 7 (echoes)", "fx 8 (sci-fi)",
	"sitar", "banjo", "shamisen", "koto",
	"kalimba", "bag pipe", "fiddle", "shanai",
	"tinkle bell", "agogo", "steel drums", "woodblock",
	"taiko drum", "melodic tom", "synth drum", "reverse cymbal",
	"guitar fret noise", "breath noise", "seashore", "bird tweet",
	"telephone ring", "helicopter", "applause", "gunshot",
}

var drumNames = [...]string{
	"acoustic bass drum", "bass drum", "side stick", "acoustic snare",
	"hand clap", "electric snare", "low floor tom", "closed hi-hat",
	"high floor tom", "pedal hi-hat", "low tom", "open hi-hat",
	"low-mid tom", "high-mid tom", "crash cymbal 1", "high tom",
	"ride cymbal 1", "chinese cymbal", "ride bell", "tambourine",
	"splash cymbal", "cowbell", "crash cymbal 2", "vibraslap",
	"ride cymbal 2", "high bongo", "low bongo", "mute high conga",
	"open high conga", "low conga", "high timbale", "low timbale",
	"high agogo", "low agogo", "cabasa", "maracas",
	"short whistle", "long whistle", "short guiro", "long guiro",
	"claves", "high woodblock", "low woodblock", "mute cuica",
	"open cuica", "mute triangle", "open triangle",
}

// titleCase capitalizes names for display. A Caser is stateful, so one is
// made per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func (i Instrument) String() string {
	if int(i) >= len(instrumentNames) {
		return fmt.Sprintf("Program %d", uint8(i))
	}
	return titleCase(instrumentNames[i])
}

func (d DrumHitType) String() string {
	idx := int(d) - int(AcousticBassDrum)
	if idx < 0 || idx >= len(drumNames) {
		return fmt.Sprintf("Drum %d", uint8(d))
	}
	return titleCase(drumNames[idx])
}

// ProgramName returns the General MIDI name of a program number.
func ProgramName(program uint8) string {
	return Instrument(program).String()
}

// Instruments is a set of General MIDI programs to pick from.
type Instruments []Instrument

// family returns the eight programs starting at first; General MIDI groups
// its programs in families of eight.
func family(first Instrument) Instruments {
	ret := make(Instruments, 8)
	for i := range ret {
		ret[i] = first + Instrument(i)
	}
	return ret
}

func Pianos() Instruments              { return family(0) }
func ChromaticPercussion() Instruments { return family(8) }
func Organs() Instruments              { return family(16) }
func Guitars() Instruments             { return family(24) }
func Basses() Instruments              { return family(32) }
func Strings() Instruments             { return family(40) }
func Ensembles() Instruments           { return family(48) }
func Brass() Instruments               { return family(56) }
func Reeds() Instruments               { return family(64) }
func Pipes() Instruments               { return family(72) }
func SynthLeads() Instruments          { return family(80) }
func SynthPads() Instruments           { return family(88) }
func SynthEffects() Instruments        { return family(96) }
func Ethnic() Instruments              { return family(104) }
func Percussive() Instruments          { return family(112) }
func SoundEffects() Instruments        { return family(120) }

// AllInstruments returns every General MIDI program.
func AllInstruments() Instruments {
	ret := make(Instruments, 128)
	for i := range ret {
		ret[i] = Instrument(i)
	}
	return ret
}

// Melodic returns the programs that play pitched notes.
func Melodic() Instruments {
	return AllInstruments().Without(slices.Concat(Percussive(), SoundEffects())...)
}

// Plus returns the union of the sets, keeping the order of first appearance.
func (s Instruments) Plus(others ...Instrument) Instruments {
	ret := slices.Clone(s)
	for _, o := range others {
		if !slices.Contains(ret, o) {
			ret = append(ret, o)
		}
	}
	return ret
}

// Without returns the set minus the given programs.
func (s Instruments) Without(others ...Instrument) Instruments {
	return slices.DeleteFunc(slices.Clone(s), func(i Instrument) bool {
		return slices.Contains(others, i)
	})
}
