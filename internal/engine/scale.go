package engine

// Semitone offsets of degrees 1..7 from the tonic
var scaleIntervals = map[Scale][7]int{
	ScaleMajor: {0, 2, 4, 5, 7, 9, 11}, // W-W-H-W-W-W-H
	ScaleMinor: {0, 2, 3, 5, 7, 8, 10}, // W-H-W-W-H-W-W
}

// ResolvedScale holds the seven pitch classes of a key and mode
type ResolvedScale struct {
	Key      Key
	Scale    Scale
	Degrees  [7]PitchClass
	Spelling Spelling
}

// PitchClass returns the pitch class of a 1-based degree; degrees wrap past 7
func (rs *ResolvedScale) PitchClass(degree int) PitchClass {
	idx := ((degree-1)%7 + 7) % 7
	return rs.Degrees[idx]
}

// scaleResolver resolves (key, scale) pairs, memoizing within a single generation call
type scaleResolver struct {
	cache map[scaleCacheKey]*ResolvedScale
}

type scaleCacheKey struct {
	key   string
	scale Scale
}

func newScaleResolver() *scaleResolver {
	return &scaleResolver{cache: make(map[scaleCacheKey]*ResolvedScale)}
}

// Resolve maps a key name and scale to its degree pitch classes
func (r *scaleResolver) Resolve(key string, scale Scale) (*ResolvedScale, error) {
	ck := scaleCacheKey{key: key, scale: scale}
	if rs, ok := r.cache[ck]; ok {
		return rs, nil
	}

	intervals, ok := scaleIntervals[scale]
	if !ok {
		return nil, newError(KindInvalidOption, "unsupported scale %q", scale)
	}

	k, err := ParseKey(key)
	if err != nil {
		return nil, err
	}

	rs := &ResolvedScale{
		Key:      k,
		Scale:    scale,
		Spelling: SpellingFor(k, scale),
	}
	for i, iv := range intervals {
		rs.Degrees[i] = k.PitchClass.Transpose(iv)
	}

	r.cache[ck] = rs
	return rs, nil
}

// ResolveScale is the one-shot form of the resolver
func ResolveScale(key string, scale Scale) (*ResolvedScale, error) {
	return newScaleResolver().Resolve(key, scale)
}
