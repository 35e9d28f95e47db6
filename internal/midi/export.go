package midi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

// Velocity draws use their own stream so that changing velocity settings
// never shifts the progression itself.
const velocitySalt int64 = 0x5DEECE66D

const (
	eventNoteOn  = "note_on"
	eventNoteOff = "note_off"
)

// ToNoteEvents lays out a progression on a beat timeline, one chord per bar
func ToNoteEvents(p models.Progression, opts Options) ([]models.NoteEvent, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := engine.NewRand(p.Seed ^ velocitySalt)
	var tmpl *RhythmTemplate
	if opts.Rhythm != "" {
		t, _ := GetRhythmTemplate(opts.Rhythm)
		tmpl = &t
	}

	var events []models.NoteEvent
	for _, chord := range p.Chords {
		if len(chord.MIDINotes) == 0 {
			return nil, engine.NewError(engine.KindInternalInvariantViolation, "bar %d has no pitches to render", chord.BarIndex)
		}
		barStart := float64(chord.BarIndex) * beatsPerBar
		if tmpl != nil {
			events = append(events, templateEvents(chord.MIDINotes, barStart, *tmpl, opts, rng)...)
			continue
		}
		for i, note := range chord.MIDINotes {
			start := barStart
			if opts.Playback == PlaybackArpeggio {
				start += float64(i) * opts.spread()
			}
			events = append(events, models.NoteEvent{
				MidiNoteNumber: note,
				Velocity:       velocity(opts, rng, 1.0),
				StartBeats:     start,
				DurationBeats:  opts.NoteLengthBeats,
			})
		}
	}
	return events, nil
}

// templateEvents plays a chord on every hit of the template. Arpeggios take
// one chord tone per hit, cycling upward.
func templateEvents(notes []int, barStart float64, tmpl RhythmTemplate, opts Options, rng *engine.Rand) []models.NoteEvent {
	var events []models.NoteEvent
	for i, offset := range tmpl.Offsets {
		start := barStart + offset
		duration := tmpl.hitDuration(i)

		if opts.Playback == PlaybackArpeggio {
			events = append(events, models.NoteEvent{
				MidiNoteNumber: notes[i%len(notes)],
				Velocity:       velocity(opts, rng, tmpl.accent(i)),
				StartBeats:     start,
				DurationBeats:  duration,
			})
			continue
		}
		for _, note := range notes {
			events = append(events, models.NoteEvent{
				MidiNoteNumber: note,
				Velocity:       velocity(opts, rng, tmpl.accent(i)),
				StartBeats:     start,
				DurationBeats:  duration,
			})
		}
	}
	return events
}

func velocity(opts Options, rng *engine.Rand, accent float64) int {
	var v int
	switch opts.Velocity {
	case VelocityRange:
		v = opts.VelocityMin + rng.Intn(opts.VelocityMax-opts.VelocityMin+1)
	case VelocityHumanize:
		base := opts.VelocityMin + rng.Intn(opts.VelocityMax-opts.VelocityMin+1)
		jitter := int(math.Round((rng.Float64() - 0.5) * 2 * 15 * opts.humanize()))
		v = base + jitter
	default:
		v = opts.VelocityFixed
	}
	return clampVelocity(int(float64(v) * accent))
}

func clampVelocity(v int) int {
	return max(1, min(127, v))
}

func toTicks(beats float64, ppq int) int {
	return int(math.Round(beats * float64(ppq)))
}

// EventDump flattens note events into note_on/note_off pairs in absolute
// ticks. At equal ticks note_off sorts before note_on, then by note number.
func EventDump(events []models.NoteEvent, opts Options) []models.MIDIEvent {
	opts = opts.WithDefaults()
	channel := opts.Channel - 1

	dump := make([]models.MIDIEvent, 0, len(events)*2)
	for _, ev := range events {
		on := toTicks(ev.StartBeats, opts.PPQ)
		off := on + toTicks(ev.DurationBeats, opts.PPQ)
		dump = append(dump,
			models.MIDIEvent{AbsTick: on, Type: eventNoteOn, Note: ev.MidiNoteNumber, Velocity: ev.Velocity, Channel: channel},
			models.MIDIEvent{AbsTick: off, Type: eventNoteOff, Note: ev.MidiNoteNumber, Velocity: 0, Channel: channel},
		)
	}

	sort.SliceStable(dump, func(i, j int) bool {
		a, b := dump[i], dump[j]
		if a.AbsTick != b.AbsTick {
			return a.AbsTick < b.AbsTick
		}
		if a.Type != b.Type {
			return a.Type == eventNoteOff
		}
		return a.Note < b.Note
	})
	return dump
}

// WriteSMF writes the dump as a single-track Standard MIDI File in 4/4
func WriteSMF(w io.Writer, dump []models.MIDIEvent, opts Options) error {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.PPQ)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(opts.TempoBPM))
	tr.Add(0, smf.MetaMeter(4, 4))

	last := 0
	for _, ev := range dump {
		delta := uint32(max(0, ev.AbsTick-last))
		last = ev.AbsTick

		ch, key := uint8(ev.Channel), uint8(ev.Note)
		switch ev.Type {
		case eventNoteOn:
			tr.Add(delta, gomidi.NoteOn(ch, key, uint8(ev.Velocity)))
		case eventNoteOff:
			tr.Add(delta, gomidi.NoteOff(ch, key))
		default:
			return fmt.Errorf("unknown event type %q", ev.Type)
		}
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write midi file: %w", err)
	}
	return nil
}

// Rendering is a progression turned into MIDI, with its diagnostics
type Rendering struct {
	Events []models.NoteEvent
	Dump   []models.MIDIEvent
	SMF    []byte
}

// Checksum is the hex SHA-256 of the rendered file
func (r *Rendering) Checksum() string {
	sum := sha256.Sum256(r.SMF)
	return hex.EncodeToString(sum[:])
}

// Render runs the whole export: note events, event dump and SMF bytes
func Render(p models.Progression, opts Options) (*Rendering, error) {
	events, err := ToNoteEvents(p, opts)
	if err != nil {
		return nil, err
	}
	dump := EventDump(events, opts)

	var buf bytes.Buffer
	if err := WriteSMF(&buf, dump, opts); err != nil {
		return nil, err
	}
	return &Rendering{Events: events, Dump: dump, SMF: buf.Bytes()}, nil
}
