package engine

// Scale is the diatonic mode a progression is drawn from
type Scale string

const (
	ScaleMajor Scale = "major"
	ScaleMinor Scale = "minor"
)

// Cadence is the closing formula enforced on phrase endings
type Cadence string

const (
	CadenceNone   Cadence = "none"
	CadenceSoft   Cadence = "soft"
	CadenceStrong Cadence = "strong"
	CadencePlagal Cadence = "plagal"
	CadenceHalf   Cadence = "half"
)

// Voicing is the octave spread of each chord
type Voicing string

const (
	VoicingClose Voicing = "close"
	VoicingOpen  Voicing = "open"
)

// InversionMode is the policy for choosing each chord's bass
type InversionMode string

const (
	InversionRoot   InversionMode = "root"
	InversionRandom InversionMode = "random"
	InversionSmooth InversionMode = "smooth"
)

// Defaults applied to empty option strings
const (
	DefaultScale     = ScaleMinor
	DefaultCadence   = CadenceSoft
	DefaultVoicing   = VoicingClose
	DefaultInversion = InversionRoot

	MinBars = 1
	MaxBars = 64
)

// ParseScale validates a scale name, empty meaning the default
func ParseScale(s string) (Scale, error) {
	switch Scale(s) {
	case "":
		return DefaultScale, nil
	case ScaleMajor, ScaleMinor:
		return Scale(s), nil
	}
	return "", newError(KindInvalidOption, "scale must be major|minor, got %q", s)
}

// ParseCadence validates a cadence name, empty meaning the default
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case "":
		return DefaultCadence, nil
	case CadenceNone, CadenceSoft, CadenceStrong, CadencePlagal, CadenceHalf:
		return Cadence(s), nil
	}
	return "", newError(KindInvalidOption, "cadence must be none|soft|strong|plagal|half, got %q", s)
}

// ParseVoicing validates a voicing name, empty meaning the default
func ParseVoicing(s string) (Voicing, error) {
	switch Voicing(s) {
	case "":
		return DefaultVoicing, nil
	case VoicingClose, VoicingOpen:
		return Voicing(s), nil
	}
	return "", newError(KindInvalidOption, "voicing must be close|open, got %q", s)
}

// ParseInversion validates an inversion mode, empty meaning the default
func ParseInversion(s string) (InversionMode, error) {
	switch InversionMode(s) {
	case "":
		return DefaultInversion, nil
	case InversionRoot, InversionRandom, InversionSmooth:
		return InversionMode(s), nil
	}
	return "", newError(KindInvalidOption, "inversion must be root|random|smooth, got %q", s)
}
