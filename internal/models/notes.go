package models

// NoteEvent represents a single musical note with timing and pitch information
type NoteEvent struct {
	MidiNoteNumber int     `json:"midiNoteNumber"`
	Velocity       int     `json:"velocity"`
	StartBeats     float64 `json:"startBeats"`
	DurationBeats  float64 `json:"durationBeats"`
}

// MIDIEvent is one entry of the diagnostic event dump, in absolute ticks
type MIDIEvent struct {
	AbsTick  int    `json:"abs_tick"`
	Type     string `json:"type"` // "note_on", "note_off"
	Note     int    `json:"note"`
	Velocity int    `json:"velocity"`
	Channel  int    `json:"channel"` // 0-based, as on the wire
}
