package engine

// Quality names a chord's interval structure
type Quality string

const (
	QualityMajor          Quality = "maj"
	QualityMinor          Quality = "min"
	QualityDiminished     Quality = "dim"
	QualityAugmented      Quality = "aug"
	QualityDominant7      Quality = "7"
	QualityMinor7         Quality = "m7"
	QualityMajor7         Quality = "maj7"
	QualityHalfDiminished Quality = "m7b5"
)

// Symbol suffixes appended to the root name
var qualitySuffix = map[Quality]string{
	QualityMajor:          "",
	QualityMinor:          "m",
	QualityDiminished:     "dim",
	QualityAugmented:      "aug",
	QualityDominant7:      "7",
	QualityMinor7:         "m7",
	QualityMajor7:         "maj7",
	QualityHalfDiminished: "m7b5",
}

type triadShape struct{ third, fifth int }

var triadQualities = map[triadShape]Quality{
	{4, 7}: QualityMajor,
	{3, 7}: QualityMinor,
	{3, 6}: QualityDiminished,
	{4, 8}: QualityAugmented,
}

type seventhShape struct {
	triad   Quality
	seventh int
}

var seventhQualities = map[seventhShape]Quality{
	{QualityMajor, 11}:      QualityMajor7,
	{QualityMajor, 10}:      QualityDominant7,
	{QualityMinor, 10}:      QualityMinor7,
	{QualityDiminished, 10}: QualityHalfDiminished,
}

// DiatonicChord is a scale chord before any octave placement
type DiatonicChord struct {
	Root     PitchClass
	Quality  Quality
	Degree   int
	BarIndex int
	// Tones in stacked-thirds order: root, third, fifth, [seventh]
	Tones []PitchClass
}

// Symbol renders the chord name, e.g. "Am7", "Bm7b5"
func (c DiatonicChord) Symbol(s Spelling) string {
	return c.Root.Name(s) + qualitySuffix[c.Quality]
}

func interval(from, to PitchClass) int {
	return ((int(to)-int(from))%12 + 12) % 12
}

// buildChord stacks diatonic thirds on a degree, so quality always follows
// from the scale itself and no chromatic tone can appear.
func buildChord(rs *ResolvedScale, degree, barIndex int, sevenths bool) (DiatonicChord, error) {
	if degree < 1 || degree > 7 {
		return DiatonicChord{}, newError(KindInternalInvariantViolation, "degree %d out of range at bar %d", degree, barIndex)
	}

	root := rs.PitchClass(degree)
	third := rs.PitchClass(degree + 2)
	fifth := rs.PitchClass(degree + 4)

	quality, ok := triadQualities[triadShape{interval(root, third), interval(root, fifth)}]
	if !ok {
		return DiatonicChord{}, newError(KindInternalInvariantViolation, "no triad quality for degree %d", degree)
	}
	tones := []PitchClass{root, third, fifth}

	if sevenths {
		seventh := rs.PitchClass(degree + 6)
		q, ok := seventhQualities[seventhShape{quality, interval(root, seventh)}]
		if !ok {
			return DiatonicChord{}, newError(KindInternalInvariantViolation, "no seventh quality for degree %d", degree)
		}
		quality = q
		tones = append(tones, seventh)
	}

	return DiatonicChord{
		Root:     root,
		Quality:  quality,
		Degree:   degree,
		BarIndex: barIndex,
		Tones:    tones,
	}, nil
}
