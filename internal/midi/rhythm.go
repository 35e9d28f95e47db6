package midi

// RhythmTemplate defines timing and accent patterns within one 4/4 bar
type RhythmTemplate struct {
	Name string
	// Offsets within a bar (in beats, 0-4)
	Offsets []float64
	// Velocity multipliers for accents (1.0 = normal)
	Accents []float64
	// Duration multiplier (affects note length, 0.0-1.0)
	Articulation float64
}

const (
	articulationHigh    = 0.9
	articulationMedium  = 0.8
	articulationMidHigh = 0.85
	articulationShort   = 0.4
	articulationOverlap = 1.1

	beatsPerBar = 4.0
)

var rhythmTemplates = map[string]RhythmTemplate{
	"whole": {
		Name:         "whole",
		Offsets:      []float64{0},
		Accents:      []float64{1.0},
		Articulation: 1.0,
	},
	"half": {
		Name:         "half",
		Offsets:      []float64{0, 2},
		Accents:      []float64{1.0, 0.9},
		Articulation: 1.0,
	},
	"quarters": {
		Name:         "quarters",
		Offsets:      []float64{0, 1, 2, 3},
		Accents:      []float64{1.0, 0.8, 0.9, 0.8},
		Articulation: articulationHigh,
	},
	"8ths": {
		Name:         "8ths",
		Offsets:      []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5},
		Accents:      []float64{1.0, 0.7, 0.9, 0.7, 0.95, 0.7, 0.9, 0.7},
		Articulation: articulationMidHigh,
	},
	"16ths": {
		Name:         "16ths",
		Offsets:      []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2, 2.25, 2.5, 2.75, 3, 3.25, 3.5, 3.75},
		Accents:      []float64{1.0, 0.6, 0.8, 0.6, 0.9, 0.6, 0.8, 0.6, 0.95, 0.6, 0.8, 0.6, 0.9, 0.6, 0.8, 0.6},
		Articulation: articulationMedium,
	},
	"swing": {
		Name:         "swing",
		Offsets:      []float64{0, 0.67, 1, 1.67, 2, 2.67, 3, 3.67}, // Triplet feel
		Accents:      []float64{1.0, 0.7, 0.9, 0.7, 0.95, 0.7, 0.9, 0.7},
		Articulation: articulationMidHigh,
	},
	"shuffle": {
		Name:         "shuffle",
		Offsets:      []float64{0, 0.67, 1, 1.67, 2, 2.67, 3, 3.67},
		Accents:      []float64{1.0, 0.8, 0.9, 0.8, 1.0, 0.8, 0.9, 0.8},
		Articulation: articulationHigh,
	},
	"samba": {
		Name:         "samba",
		Offsets:      []float64{0, 0.5, 1.5, 2, 3, 3.5},
		Accents:      []float64{1.0, 0.7, 0.9, 0.85, 0.95, 0.7},
		Articulation: articulationMedium,
	},
	"tresillo": {
		Name:         "tresillo",
		Offsets:      []float64{0, 1.5, 3}, // 3+3+2
		Accents:      []float64{1.0, 0.9, 0.95},
		Articulation: articulationHigh,
	},
	"offbeat": {
		Name:         "offbeat",
		Offsets:      []float64{0.5, 1.5, 2.5, 3.5},
		Accents:      []float64{0.9, 0.85, 0.9, 0.85},
		Articulation: articulationMidHigh,
	},
	"syncopated": {
		Name:         "syncopated",
		Offsets:      []float64{0, 0.5, 1.5, 2, 3, 3.5},
		Accents:      []float64{1.0, 0.8, 0.9, 0.85, 0.95, 0.8},
		Articulation: articulationMidHigh,
	},
	"anticipation": {
		Name:         "anticipation",
		Offsets:      []float64{0, 1, 1.75, 3, 3.75}, // Push before beats 2 and 4
		Accents:      []float64{1.0, 0.8, 0.9, 0.85, 0.9},
		Articulation: articulationMidHigh,
	},
	"broken": {
		Name:         "broken",
		Offsets:      []float64{0, 0.5, 1, 1.5},
		Accents:      []float64{1.0, 0.8, 0.85, 0.75},
		Articulation: articulationHigh,
	},
	"alberti": {
		Name:         "alberti",
		Offsets:      []float64{0, 0.25, 0.5, 0.75},
		Accents:      []float64{1.0, 0.7, 0.85, 0.7},
		Articulation: articulationMidHigh,
	},
	"staccato": {
		Name:         "staccato",
		Offsets:      []float64{0, 1, 2, 3},
		Accents:      []float64{1.0, 0.9, 0.95, 0.9},
		Articulation: articulationShort,
	},
	"legato": {
		Name:         "legato",
		Offsets:      []float64{0, 1, 2, 3},
		Accents:      []float64{0.9, 0.85, 0.9, 0.85},
		Articulation: articulationOverlap, // Slightly overlapping
	},
}

// GetRhythmTemplate returns a rhythm template by name
func GetRhythmTemplate(name string) (RhythmTemplate, bool) {
	tmpl, ok := rhythmTemplates[name]
	return tmpl, ok
}

// RhythmNames lists the available templates
func RhythmNames() []string {
	names := make([]string, 0, len(rhythmTemplates))
	for name := range rhythmTemplates {
		names = append(names, name)
	}
	return names
}

// hitDuration is the articulated length of hit i, never running into the
// next hit or past the end of the bar.
func (t RhythmTemplate) hitDuration(i int) float64 {
	d := (beatsPerBar / float64(len(t.Offsets))) * t.Articulation
	limit := beatsPerBar - t.Offsets[i]
	if i+1 < len(t.Offsets) {
		limit = t.Offsets[i+1] - t.Offsets[i]
	}
	if d > limit {
		d = limit
	}
	return d
}

func (t RhythmTemplate) accent(i int) float64 {
	if i < len(t.Accents) {
		return t.Accents[i]
	}
	return 1.0
}
