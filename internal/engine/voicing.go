package engine

import "sort"

// baseOctave places every chord's root-position bass in MIDI 48..59
const baseOctave = 3

// voicedChord is a chord after the realizer: its close stack and the spread
// to apply once the inversion is known.
type voicedChord struct {
	diatonic DiatonicChord
	close    []int
	spread   Voicing
}

// realizeVoicing stacks the chord tones upward from the root within one octave
func realizeVoicing(diatonic DiatonicChord, v Voicing) voicedChord {
	return voicedChord{
		diatonic: diatonic,
		close:    closeStack(diatonic.Tones),
		spread:   v,
	}
}

// notes returns the concrete pitches for a given inversion
func (vc voicedChord) notes(inversion int) []int {
	return applySpread(rotate(vc.close, inversion), vc.spread)
}

func closeStack(tones []PitchClass) []int {
	out := make([]int, len(tones))
	for i, pc := range tones {
		n := pc.MIDI(baseOctave)
		if i > 0 {
			for n <= out[i-1] {
				n += 12
			}
		}
		out[i] = n
	}
	return out
}

// rotate moves the k lowest notes to the top, each raised by whole octaves
// until it sits above the current highest note.
func rotate(stack []int, k int) []int {
	out := append([]int(nil), stack...)
	for i := 0; i < k && len(out) > 1; i++ {
		low := out[0]
		top := out[len(out)-1]
		for low <= top {
			low += 12
		}
		out = append(out[1:], low)
	}
	return out
}

// applySpread turns a close stack into the requested voicing. Open drops the
// second-highest voice an octave; when that lands below the bass, the bass
// drops too so it stays the lowest voice.
func applySpread(stack []int, v Voicing) []int {
	out := append([]int(nil), stack...)
	if v != VoicingOpen || len(out) < 3 {
		return out
	}
	i := len(out) - 2
	out[i] -= 12
	if out[i] < out[0] {
		out[0] -= 12
	}
	sort.Ints(out)
	return out
}
