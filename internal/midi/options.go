package midi

import (
	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
)

// PlaybackMode controls how the notes of a chord are placed in time
type PlaybackMode string

const (
	PlaybackSimultaneous PlaybackMode = "simultaneous"
	PlaybackArpeggio     PlaybackMode = "arpeggio"
)

// VelocityMode controls how note velocities are chosen
type VelocityMode string

const (
	VelocityFixed    VelocityMode = "fixed"
	VelocityRange    VelocityMode = "range"
	VelocityHumanize VelocityMode = "humanize"
)

// Options configures MIDI rendering. Zero values take the defaults.
type Options struct {
	PPQ                 int          `json:"ppq" form:"ppq"`
	TempoBPM            float64      `json:"tempo_bpm" form:"tempo_bpm"`
	Channel             int          `json:"channel" form:"channel"` // 1..16
	NoteLengthBeats     float64      `json:"note_length_beats" form:"note_length_beats"`
	Playback            PlaybackMode `json:"playback" form:"playback"`
	ArpeggioSpreadBeats *float64     `json:"arpeggio_spread_beats,omitempty" form:"arpeggio_spread_beats"`
	Velocity            VelocityMode `json:"velocity_mode" form:"velocity_mode"`
	VelocityFixed       int          `json:"velocity_fixed" form:"velocity_fixed"`
	VelocityMin         int          `json:"velocity_min" form:"velocity_min"`
	VelocityMax         int          `json:"velocity_max" form:"velocity_max"`
	Humanize            *float64     `json:"humanize,omitempty" form:"humanize"` // 0..1
	Rhythm              string       `json:"rhythm,omitempty" form:"rhythm"`
}

// DefaultOptions returns the stock rendering settings
func DefaultOptions() Options {
	return Options{
		PPQ:                 480,
		TempoBPM:            120,
		Channel:             1,
		NoteLengthBeats:     4.0,
		Playback:            PlaybackSimultaneous,
		ArpeggioSpreadBeats: Float(0.25),
		Velocity:            VelocityFixed,
		VelocityFixed:       90,
		VelocityMin:         70,
		VelocityMax:         100,
		Humanize:            Float(0.15),
	}
}

// Float returns a pointer to v, for the options where zero is a valid setting
func Float(v float64) *float64 {
	return &v
}

// WithDefaults fills unset fields from DefaultOptions. Spread and humanize
// are pointers so an explicit 0 survives.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.PPQ == 0 {
		o.PPQ = d.PPQ
	}
	if o.TempoBPM == 0 {
		o.TempoBPM = d.TempoBPM
	}
	if o.Channel == 0 {
		o.Channel = d.Channel
	}
	if o.NoteLengthBeats == 0 {
		o.NoteLengthBeats = d.NoteLengthBeats
	}
	if o.Playback == "" {
		o.Playback = d.Playback
	}
	if o.ArpeggioSpreadBeats == nil {
		o.ArpeggioSpreadBeats = d.ArpeggioSpreadBeats
	}
	if o.Velocity == "" {
		o.Velocity = d.Velocity
	}
	if o.VelocityFixed == 0 {
		o.VelocityFixed = d.VelocityFixed
	}
	if o.VelocityMin == 0 {
		o.VelocityMin = d.VelocityMin
	}
	if o.VelocityMax == 0 {
		o.VelocityMax = d.VelocityMax
	}
	if o.Humanize == nil {
		o.Humanize = d.Humanize
	}
	return o
}

// Validate reports the first out-of-range setting as an InvalidOption error
func (o Options) Validate() error {
	invalid := func(format string, args ...any) error {
		return engine.NewError(engine.KindInvalidOption, format, args...)
	}

	switch {
	case o.PPQ <= 0 || o.PPQ > 0x7FFF:
		return invalid("ppq must be within 1..32767, got %d", o.PPQ)
	case o.TempoBPM <= 0 || o.TempoBPM > 999:
		return invalid("tempo_bpm must be within (0, 999], got %g", o.TempoBPM)
	case o.Channel < 1 || o.Channel > 16:
		return invalid("channel must be 1..16, got %d", o.Channel)
	case o.NoteLengthBeats <= 0:
		return invalid("note_length_beats must be > 0, got %g", o.NoteLengthBeats)
	case o.Playback != PlaybackSimultaneous && o.Playback != PlaybackArpeggio:
		return invalid("playback must be simultaneous|arpeggio, got %q", o.Playback)
	case o.spread() < 0:
		return invalid("arpeggio_spread_beats must be >= 0, got %g", o.spread())
	case o.Velocity != VelocityFixed && o.Velocity != VelocityRange && o.Velocity != VelocityHumanize:
		return invalid("velocity_mode must be fixed|range|humanize, got %q", o.Velocity)
	case o.VelocityFixed < 1 || o.VelocityFixed > 127:
		return invalid("velocity_fixed must be 1..127, got %d", o.VelocityFixed)
	case o.VelocityMin < 1 || o.VelocityMin > 127 || o.VelocityMax < 1 || o.VelocityMax > 127:
		return invalid("velocity_min/max must be 1..127")
	case o.VelocityMin > o.VelocityMax:
		return invalid("velocity_min must be <= velocity_max")
	case o.humanize() < 0 || o.humanize() > 1:
		return invalid("humanize must be 0..1, got %g", o.humanize())
	}
	if o.Rhythm != "" {
		if _, ok := GetRhythmTemplate(o.Rhythm); !ok {
			return invalid("unknown rhythm template %q", o.Rhythm)
		}
	}
	return nil
}

func (o Options) spread() float64 {
	if o.ArpeggioSpreadBeats == nil {
		return *DefaultOptions().ArpeggioSpreadBeats
	}
	return *o.ArpeggioSpreadBeats
}

func (o Options) humanize() float64 {
	if o.Humanize == nil {
		return *DefaultOptions().Humanize
	}
	return *o.Humanize
}
