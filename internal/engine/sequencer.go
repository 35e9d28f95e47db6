package engine

// transitionWeights[from-1][to-1] drives the harmonic walk. Tonic, subdominant
// and dominant exchange most often; stepwise motion fills in. No row allows
// repeating the current degree.
var transitionWeights = [7][7]int{
	//  1  2  3  4  5  6  7
	{0, 2, 1, 4, 4, 3, 1}, // I
	{1, 0, 1, 1, 5, 0, 2}, // ii
	{1, 1, 0, 3, 1, 4, 0}, // iii
	{4, 2, 1, 0, 5, 1, 1}, // IV
	{6, 0, 1, 1, 0, 3, 0}, // V
	{1, 3, 1, 4, 2, 0, 0}, // vi
	{6, 0, 2, 0, 1, 1, 0}, // vii
}

// cadencePatterns lists, per cadence, the candidate degrees of its final bars.
// A slot with several candidates is resolved by the generator.
var cadencePatterns = map[Cadence][][]int{
	CadenceHalf:   {{5}},
	CadencePlagal: {{4}, {1}},
	CadenceStrong: {{5}, {1}},
	CadenceSoft:   {{2, 4}, {1}},
}

const phraseLength = 4

// cadencePlan maps bar indexes to the degrees the cadence forces there
func cadencePlan(cadence Cadence, bars int) (map[int][]int, []Warning) {
	pattern, ok := cadencePatterns[cadence]
	if !ok || bars < 1 {
		return nil, nil
	}

	var warnings []Warning
	plan := make(map[int][]int)

	place := func(end int, p [][]int) {
		start := end - len(p) + 1
		for i, slot := range p {
			plan[start+i] = slot
		}
	}

	final := pattern
	if len(final) > bars {
		final = final[len(final)-bars:]
		warnings = append(warnings, Warning{
			Kind:    KindUnsupportedCadenceForLength,
			Message: "cadence " + string(cadence) + " needs more bars than available, keeping only its final degree",
		})
	}
	place(bars-1, final)

	if (cadence == CadenceSoft || cadence == CadenceHalf) && bars%phraseLength == 0 {
		for end := phraseLength - 1; end < bars-1; end += phraseLength {
			place(end, pattern)
		}
	}

	return plan, warnings
}

// sequenceDegrees chooses one scale degree per bar
func sequenceDegrees(rng *Rand, bars int, cadence Cadence) ([]int, []Warning) {
	plan, warnings := cadencePlan(cadence, bars)
	degrees := make([]int, bars)

	for bar := 0; bar < bars; bar++ {
		if slot, ok := plan[bar]; ok {
			if len(slot) == 1 {
				degrees[bar] = slot[0]
			} else {
				degrees[bar] = slot[rng.Intn(len(slot))]
			}
			continue
		}

		if bar == 0 {
			degrees[bar] = 1
			continue
		}

		weights := transitionWeights[degrees[bar-1]-1]
		row := weights[:]
		// Approach a forced degree from somewhere else when the walk allows it
		if next, ok := plan[bar+1]; ok && len(next) == 1 {
			adjusted := weights
			adjusted[next[0]-1] = 0
			if sum(adjusted[:]) > 0 {
				row = adjusted[:]
			}
		}
		degrees[bar] = rng.Weighted(row) + 1
	}

	return degrees, warnings
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
