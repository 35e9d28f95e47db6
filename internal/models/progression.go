package models

import "strings"

// ProgressionRequest is the engine input as sent by clients
type ProgressionRequest struct {
	Key       string `json:"key"`
	Scale     string `json:"scale"`     // "major", "minor"
	Bars      int    `json:"bars"`      // 1..64
	Seed      *int64 `json:"seed"`      // nil lets the engine choose, the choice is echoed back
	Cadence   string `json:"cadence"`   // "none", "soft", "strong", "plagal", "half"
	Sevenths  bool   `json:"sevenths"`  // extend triads with their diatonic seventh
	Voicing   string `json:"voicing"`   // "close", "open"
	Inversion string `json:"inversion"` // "root", "random", "smooth"
}

// EngineConfig echoes the request with the seed resolved and options defaulted
type EngineConfig struct {
	Key       string `json:"key"`
	Scale     string `json:"scale"`
	Bars      int    `json:"bars"`
	Seed      int64  `json:"seed"`
	Cadence   string `json:"cadence"`
	Sevenths  bool   `json:"sevenths"`
	Voicing   string `json:"voicing"`
	Inversion string `json:"inversion"`
}

// Request turns an echoed config back into a request that reproduces it
func (c EngineConfig) Request() ProgressionRequest {
	seed := c.Seed
	return ProgressionRequest{
		Key:       c.Key,
		Scale:     c.Scale,
		Bars:      c.Bars,
		Seed:      &seed,
		Cadence:   c.Cadence,
		Sevenths:  c.Sevenths,
		Voicing:   c.Voicing,
		Inversion: c.Inversion,
	}
}

// Meta identifies the engine build that produced a response
type Meta struct {
	Banner     string `json:"banner"`
	AppVersion string `json:"app_version"`
	FSVersion  string `json:"fs_version"`
	TSVersion  string `json:"ts_version"`
}

// Chord is one realized bar of a progression
type Chord struct {
	Symbol   string   `json:"symbol"`
	Notes    []string `json:"notes"` // low to high, after voicing and inversion
	Degree   int      `json:"degree"`
	BarIndex int      `json:"bar_index"`
	Root     string   `json:"root"`
	Quality  string   `json:"quality"`

	// Concrete pitches behind Notes, kept for MIDI rendering
	MIDINotes []int `json:"-"`
	Inversion int   `json:"-"`
}

// Progression is the ordered chord sequence, one chord per bar
type Progression struct {
	Key    string  `json:"key"`
	Scale  string  `json:"scale"`
	Bars   int     `json:"bars"`
	Seed   int64   `json:"seed"`
	Chords []Chord `json:"chords"`
}

// Summary renders the chord symbols as "C | Am | F | G"
func (p Progression) Summary() string {
	symbols := make([]string, len(p.Chords))
	for i, c := range p.Chords {
		symbols[i] = c.Symbol
	}
	return strings.Join(symbols, " | ")
}

// Degrees returns the scale degree of every bar
func (p Progression) Degrees() []int {
	degrees := make([]int, len(p.Chords))
	for i, c := range p.Chords {
		degrees[i] = c.Degree
	}
	return degrees
}

// ProgressionResponse is the full engine output
type ProgressionResponse struct {
	Meta        Meta         `json:"meta"`
	Config      EngineConfig `json:"config"`
	Progression Progression  `json:"progression"`
}
