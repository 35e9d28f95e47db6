package handlers

const (
	// Error kinds outside the engine's own
	kindInvalidRequest = "InvalidRequest"
	kindNotFound       = "NotFound"
	kindPresetDrift    = "PresetDrift"
	kindInternal       = "InternalError"

	headerEngineWarning = "X-Engine-Warning"
	headerPresetWarning = "X-Preset-Warning"
	headerMIDIChecksum  = "X-MIDI-SHA256"

	contentTypeMIDI = "audio/midi"
)
