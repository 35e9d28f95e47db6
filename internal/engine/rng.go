package engine

// Rand is a xorshift64* generator. Every generation call owns its own
// instance; the sequence depends only on the seed, never on the platform.
type Rand struct {
	state uint64
}

// NewRand seeds a generator. The seed is scrambled with splitmix64 so that
// small and zero seeds still start from a well-mixed non-zero state.
func NewRand(seed int64) *Rand {
	z := uint64(seed) + 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	if z == 0 {
		z = 0x9E3779B97F4A7C15
	}
	return &Rand{state: z}
}

// Uint64 returns the next raw value
func (r *Rand) Uint64() uint64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return r.state * 0x2545F4914F6CDD1D
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	return int(r.Uint64() % uint64(n))
}

// Float64 returns a value in [0, 1)
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Weighted returns an index drawn proportionally to weights. Zero and
// negative weights are never chosen; it returns -1 when nothing is eligible.
func (r *Rand) Weighted(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	pick := r.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if pick < w {
			return i
		}
		pick -= w
	}
	return -1
}
