package engine

// invertedChord is a voiced chord with its bass decided
type invertedChord struct {
	voicedChord
	inversion int
	pitches   []int
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// selectInversions picks an inversion per chord. Smooth mode is greedy: each
// chord only looks at the bass of the chord before it.
func selectInversions(rng *Rand, chords []voicedChord, mode InversionMode) []invertedChord {
	out := make([]invertedChord, len(chords))
	prevBass := 0

	for i, vc := range chords {
		n := len(vc.close)
		inv := 0

		switch mode {
		case InversionRandom:
			inv = rng.Intn(n)
		case InversionSmooth:
			if i == 0 {
				break
			}
			best := -1
			for k := 0; k < n; k++ {
				d := abs(vc.notes(k)[0] - prevBass)
				if best < 0 || d < best {
					best = d
					inv = k
				}
			}
		}

		pitches := vc.notes(inv)
		out[i] = invertedChord{voicedChord: vc, inversion: inv, pitches: pitches}
		prevBass = pitches[0]
	}

	return out
}
