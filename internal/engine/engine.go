package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

const (
	AppName    = "chordgen"
	AppVersion = "0.2.0"
	FSVersion  = "FS-ChordGeefNie-v0.2 (Extended-B)"
	TSVersion  = "TS-ChordGeefNie-v0.2"

	// Upper bound (exclusive) for engine-chosen seeds
	maxDefaultSeed = 1 << 31
)

// SeedSource supplies the seed for requests that arrive without one
type SeedSource func() int64

// RandomSeed draws a fresh seed in [0, 2^31)
func RandomSeed() int64 {
	return rand.Int64N(maxDefaultSeed)
}

// FixedSeed always supplies the same seed
func FixedSeed(seed int64) SeedSource {
	return func() int64 { return seed }
}

// Engine generates progressions. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	meta  models.Meta
	seeds SeedSource
}

// Option configures an Engine
type Option func(*Engine)

// WithSeedSource overrides the default seed policy
func WithSeedSource(s SeedSource) Option {
	return func(e *Engine) {
		if s != nil {
			e.seeds = s
		}
	}
}

// WithVersion overrides the app version reported in responses
func WithVersion(version string) Option {
	return func(e *Engine) {
		if version != "" {
			e.meta = NewMeta(version)
		}
	}
}

// NewMeta builds the identifying banner for a version
func NewMeta(version string) models.Meta {
	return models.Meta{
		Banner:     fmt.Sprintf("%s v%s | %s | %s", AppName, version, FSVersion, TSVersion),
		AppVersion: version,
		FSVersion:  FSVersion,
		TSVersion:  TSVersion,
	}
}

// New creates an engine with the random seed policy unless overridden
func New(opts ...Option) *Engine {
	e := &Engine{
		meta:  NewMeta(AppVersion),
		seeds: RandomSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Meta returns the banner and versions stamped on every response
func (e *Engine) Meta() models.Meta {
	return e.meta
}

// Result is a successful generation plus any degraded-case warnings
type Result struct {
	Response models.ProgressionResponse
	Warnings []Warning
}

// Generate runs the pipeline: resolve scale, sequence degrees, build chords,
// realize voicings, select inversions. It either returns a complete
// progression or an *Error; partial results are never returned.
func (e *Engine) Generate(req models.ProgressionRequest) (*Result, error) {
	scale, err := ParseScale(req.Scale)
	if err != nil {
		return nil, err
	}
	cadence, err := ParseCadence(req.Cadence)
	if err != nil {
		return nil, err
	}
	voicing, err := ParseVoicing(req.Voicing)
	if err != nil {
		return nil, err
	}
	inversion, err := ParseInversion(req.Inversion)
	if err != nil {
		return nil, err
	}
	if req.Bars < MinBars || req.Bars > MaxBars {
		return nil, newError(KindInvalidRange, "bars must be within [%d, %d], got %d", MinBars, MaxBars, req.Bars)
	}

	seed := e.seeds()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := NewRand(seed)

	rs, err := newScaleResolver().Resolve(req.Key, scale)
	if err != nil {
		return nil, err
	}

	degrees, warnings := sequenceDegrees(rng, req.Bars, cadence)

	voiced := make([]voicedChord, len(degrees))
	for bar, degree := range degrees {
		diatonic, err := buildChord(rs, degree, bar, req.Sevenths)
		if err != nil {
			return nil, err
		}
		voiced[bar] = realizeVoicing(diatonic, voicing)
	}

	inverted := selectInversions(rng, voiced, inversion)

	chords := make([]models.Chord, len(inverted))
	for i, ic := range inverted {
		chords[i] = realizedChord(ic, rs.Spelling)
	}

	result := &Result{
		Response: models.ProgressionResponse{
			Meta: e.meta,
			Config: models.EngineConfig{
				Key:       strings.TrimSpace(req.Key),
				Scale:     string(scale),
				Bars:      req.Bars,
				Seed:      seed,
				Cadence:   string(cadence),
				Sevenths:  req.Sevenths,
				Voicing:   string(voicing),
				Inversion: string(inversion),
			},
			Progression: models.Progression{
				Key:    rs.Key.Display,
				Scale:  string(scale),
				Bars:   req.Bars,
				Seed:   seed,
				Chords: chords,
			},
		},
		Warnings: warnings,
	}

	if err := verify(result.Response.Progression, inverted); err != nil {
		return nil, err
	}
	return result, nil
}

func realizedChord(ic invertedChord, s Spelling) models.Chord {
	names := make([]string, len(ic.pitches))
	for i, p := range ic.pitches {
		names[i] = PitchClass(p).Name(s)
	}
	return models.Chord{
		Symbol:    ic.diatonic.Symbol(s),
		Notes:     names,
		Degree:    ic.diatonic.Degree,
		BarIndex:  ic.diatonic.BarIndex,
		Root:      ic.diatonic.Root.Name(s),
		Quality:   string(ic.diatonic.Quality),
		MIDINotes: ic.pitches,
		Inversion: ic.inversion,
	}
}

// verify checks the output invariants before anything leaves the engine
func verify(p models.Progression, chords []invertedChord) error {
	if len(p.Chords) != p.Bars || len(chords) != p.Bars {
		return newError(KindInternalInvariantViolation, "progression has %d chords for %d bars", len(p.Chords), p.Bars)
	}
	for i, c := range p.Chords {
		if c.BarIndex != i {
			return newError(KindInternalInvariantViolation, "bar_index %d at position %d", c.BarIndex, i)
		}
		if !sameMembers(pitchClassSet(chords[i].pitches), toneSet(chords[i].diatonic.Tones)) {
			return newError(KindInternalInvariantViolation, "bar %d notes do not match chord tones", i)
		}
		if len(c.MIDINotes) != len(chords[i].diatonic.Tones) {
			return newError(KindInternalInvariantViolation, "bar %d has %d notes for %d tones", i, len(c.MIDINotes), len(chords[i].diatonic.Tones))
		}
		for j := 1; j < len(c.MIDINotes); j++ {
			if c.MIDINotes[j] <= c.MIDINotes[j-1] {
				return newError(KindInternalInvariantViolation, "bar %d notes are not ascending", i)
			}
		}
	}
	return nil
}

func pitchClassSet(pitches []int) map[PitchClass]bool {
	set := make(map[PitchClass]bool, len(pitches))
	for _, p := range pitches {
		set[PitchClass(p).Transpose(0)] = true
	}
	return set
}

func toneSet(tones []PitchClass) map[PitchClass]bool {
	set := make(map[PitchClass]bool, len(tones))
	for _, t := range tones {
		set[t] = true
	}
	return set
}

func sameMembers(a, b map[PitchClass]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
