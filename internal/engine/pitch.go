package engine

import (
	"strings"
)

// PitchClass is a note modulo the octave, C = 0 .. B = 11
type PitchClass int

// Semitone offsets of the natural letters from C
var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Spelling selects sharp or flat names when rendering pitch classes
type Spelling int

const (
	SpellSharps Spelling = iota
	SpellFlats
)

// Name renders the pitch class under the given spelling
func (pc PitchClass) Name(s Spelling) string {
	n := pc.normalize()
	if s == SpellFlats {
		return flatNames[n]
	}
	return sharpNames[n]
}

func (pc PitchClass) normalize() int {
	return ((int(pc) % 12) + 12) % 12
}

// Transpose returns the pitch class the given number of semitones away
func (pc PitchClass) Transpose(semitones int) PitchClass {
	return PitchClass((int(pc) + semitones%12 + 12) % 12)
}

// MIDI returns the MIDI note number of this pitch class in the given octave (C4 = 60)
func (pc PitchClass) MIDI(octave int) int {
	return (octave+1)*12 + pc.normalize()
}

// Key is a parsed key name: its pitch class plus the spelling it was written in
type Key struct {
	PitchClass PitchClass
	Display    string
	Accidental int // -1 flat, 0 natural, +1 sharp
}

// ParseKey parses names like "C", "f#", "Eb", "B♭"
func ParseKey(raw string) (Key, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "♯", "#")
	s = strings.ReplaceAll(s, "♭", "b")
	if s == "" {
		return Key{}, newError(KindInvalidKey, "key must not be empty")
	}

	letter := strings.ToUpper(s[:1])[0]
	offset, ok := letterOffsets[letter]
	if !ok {
		return Key{}, newError(KindInvalidKey, "unrecognized key %q, use e.g. C, C#, Eb, F#", raw)
	}

	accidental := 0
	switch rest := s[1:]; rest {
	case "":
	case "#":
		accidental = 1
	case "b", "B":
		accidental = -1
	default:
		return Key{}, newError(KindInvalidKey, "unrecognized key %q, use e.g. C, C#, Eb, F#", raw)
	}

	display := string(letter)
	switch accidental {
	case 1:
		display += "#"
	case -1:
		display += "b"
	}

	return Key{
		PitchClass: PitchClass(offset).Transpose(accidental),
		Display:    display,
		Accidental: accidental,
	}, nil
}

// SpellingFor picks note names for a key: explicit accidentals win, natural
// keys follow their conventional key signature.
func SpellingFor(k Key, scale Scale) Spelling {
	switch {
	case k.Accidental < 0:
		return SpellFlats
	case k.Accidental > 0:
		return SpellSharps
	}
	if scale == ScaleMajor && k.Display == "F" {
		return SpellFlats
	}
	if scale == ScaleMinor {
		switch k.Display {
		case "D", "G", "C", "F":
			return SpellFlats
		}
	}
	return SpellSharps
}

// PitchClassOf parses a bare note name such as "G#" or "Bb"
func PitchClassOf(name string) (PitchClass, error) {
	k, err := ParseKey(name)
	if err != nil {
		return 0, err
	}
	return k.PitchClass, nil
}
