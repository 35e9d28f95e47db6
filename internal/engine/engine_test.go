package engine

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

func seedPtr(n int64) *int64 { return &n }

func baseRequest() models.ProgressionRequest {
	return models.ProgressionRequest{
		Key:       "C",
		Scale:     "major",
		Bars:      8,
		Seed:      seedPtr(123),
		Cadence:   "strong",
		Voicing:   "close",
		Inversion: "root",
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	e := New()
	req := models.ProgressionRequest{
		Key:       "C",
		Scale:     "minor",
		Bars:      8,
		Seed:      seedPtr(123),
		Cadence:   "plagal",
		Sevenths:  true,
		Voicing:   "open",
		Inversion: "smooth",
	}

	first, err := e.Generate(req)
	require.NoError(t, err)
	second, err := New().Generate(req)
	require.NoError(t, err)

	assert.Equal(t, first.Response, second.Response)
}

func TestGenerate_SeedsVaryOutput(t *testing.T) {
	e := New()
	seen := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		req := baseRequest()
		req.Cadence = "none"
		req.Seed = seedPtr(seed)
		res, err := e.Generate(req)
		require.NoError(t, err)
		seen[res.Response.Progression.Summary()] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerate_LengthAndBarIndex(t *testing.T) {
	e := New()
	for _, cadence := range []string{"none", "soft", "strong", "plagal", "half"} {
		for bars := MinBars; bars <= 16; bars++ {
			req := baseRequest()
			req.Bars = bars
			req.Cadence = cadence

			res, err := e.Generate(req)
			require.NoError(t, err, "cadence=%s bars=%d", cadence, bars)

			chords := res.Response.Progression.Chords
			require.Len(t, chords, bars)
			for i, c := range chords {
				assert.Equal(t, i, c.BarIndex)
				assert.GreaterOrEqual(t, c.Degree, 1)
				assert.LessOrEqual(t, c.Degree, 7)
			}
		}
	}
}

func TestGenerate_NotesStayInScale(t *testing.T) {
	tests := []struct {
		key   string
		scale string
	}{
		{"C", "major"},
		{"A", "minor"},
		{"F#", "major"},
		{"Eb", "minor"},
		{"D", "minor"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.key+" "+tt.scale, func(t *testing.T) {
			rs, err := ResolveScale(tt.key, Scale(tt.scale))
			require.NoError(t, err)
			inScale := map[string]bool{}
			for _, pc := range rs.Degrees {
				inScale[pc.Name(rs.Spelling)] = true
			}

			for _, voicing := range []string{"close", "open"} {
				for _, inversion := range []string{"root", "random", "smooth"} {
					req := models.ProgressionRequest{
						Key:       tt.key,
						Scale:     tt.scale,
						Bars:      16,
						Seed:      seedPtr(7),
						Cadence:   "soft",
						Sevenths:  true,
						Voicing:   voicing,
						Inversion: inversion,
					}
					res, err := e.Generate(req)
					require.NoError(t, err)
					for _, c := range res.Response.Progression.Chords {
						assert.True(t, inScale[c.Root], "root %s", c.Root)
						for _, n := range c.Notes {
							assert.True(t, inScale[n], "note %s in %s", n, c.Symbol)
						}
					}
				}
			}
		})
	}
}

func TestGenerate_Cadences(t *testing.T) {
	e := New()
	for seed := int64(0); seed < 25; seed++ {
		gen := func(cadence string, bars int) []int {
			req := baseRequest()
			req.Seed = seedPtr(seed)
			req.Cadence = cadence
			req.Bars = bars
			res, err := e.Generate(req)
			require.NoError(t, err)
			return res.Response.Progression.Degrees()
		}

		d := gen("strong", 8)
		assert.Equal(t, []int{5, 1}, d[6:])

		d = gen("plagal", 8)
		assert.Equal(t, []int{4, 1}, d[6:])

		d = gen("half", 8)
		assert.Equal(t, 5, d[7])
		assert.Equal(t, 5, d[3])

		d = gen("soft", 8)
		assert.Equal(t, 1, d[7])
		assert.Contains(t, []int{2, 4}, d[6])
		assert.Equal(t, 1, d[3])
		assert.Contains(t, []int{2, 4}, d[2])

		d = gen("soft", 6)
		assert.Equal(t, 1, d[5])
		assert.Contains(t, []int{2, 4}, d[4])
	}
}

func TestGenerate_OpensOnTonic(t *testing.T) {
	e := New()
	for seed := int64(0); seed < 10; seed++ {
		req := baseRequest()
		req.Seed = seedPtr(seed)
		res, err := e.Generate(req)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Response.Progression.Chords[0].Degree)
	}
}

func TestGenerate_NoRepeatedDegreesWithoutCadence(t *testing.T) {
	e := New()
	req := baseRequest()
	req.Cadence = "none"
	req.Bars = 64
	res, err := e.Generate(req)
	require.NoError(t, err)

	d := res.Response.Progression.Degrees()
	for i := 1; i < len(d); i++ {
		assert.NotEqual(t, d[i-1], d[i], "bar %d", i)
	}
}

func TestGenerate_ShortCadenceWarns(t *testing.T) {
	e := New()

	req := baseRequest()
	req.Bars = 1
	req.Cadence = "strong"
	res, err := e.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Response.Progression.Degrees())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, KindUnsupportedCadenceForLength, res.Warnings[0].Kind)

	req.Cadence = "half"
	res, err = e.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, res.Response.Progression.Degrees())
	assert.Empty(t, res.Warnings)

	req.Cadence = "plagal"
	req.Bars = 2
	res, err = e.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1}, res.Response.Progression.Degrees())
	assert.Empty(t, res.Warnings)
}

func TestGenerate_SeedEcho(t *testing.T) {
	e := New(WithSeedSource(FixedSeed(42)))
	req := baseRequest()
	req.Seed = nil

	res, err := e.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.Response.Config.Seed)
	assert.Equal(t, int64(42), res.Response.Progression.Seed)

	req.Seed = seedPtr(42)
	again, err := e.Generate(req)
	require.NoError(t, err)
	assert.Equal(t, res.Response, again.Response)
}

func TestGenerate_RandomSeedInRange(t *testing.T) {
	e := New()
	req := baseRequest()
	req.Seed = nil
	for i := 0; i < 20; i++ {
		res, err := e.Generate(req)
		require.NoError(t, err)
		seed := res.Response.Config.Seed
		assert.GreaterOrEqual(t, seed, int64(0))
		assert.Less(t, seed, int64(1<<31))
	}
}

func TestGenerate_AMinorPlagalSevenths(t *testing.T) {
	req := models.ProgressionRequest{
		Key:       "A",
		Scale:     "minor",
		Bars:      4,
		Seed:      seedPtr(123),
		Cadence:   "plagal",
		Sevenths:  true,
		Voicing:   "open",
		Inversion: "smooth",
	}

	res, err := New().Generate(req)
	require.NoError(t, err)

	p := res.Response.Progression
	require.Len(t, p.Chords, 4)
	assert.Equal(t, "A", p.Key)
	assert.Equal(t, "minor", p.Scale)
	assert.Equal(t, int64(123), p.Seed)

	d := p.Degrees()
	assert.Equal(t, []int{4, 1}, d[2:])
	assert.Equal(t, "Dm7", p.Chords[2].Symbol)

	for _, c := range p.Chords {
		assert.Len(t, c.Notes, 4)
		if c.Degree == 1 {
			assert.Equal(t, "A", c.Root)
			assert.Equal(t, "m7", c.Quality)
			assert.Equal(t, "Am7", c.Symbol)
		}
	}
	assert.Empty(t, res.Warnings)
}

func TestGenerate_ConfigEcho(t *testing.T) {
	req := models.ProgressionRequest{Key: " eb ", Bars: 4, Seed: seedPtr(9)}
	res, err := New().Generate(req)
	require.NoError(t, err)

	cfg := res.Response.Config
	assert.Equal(t, "eb", cfg.Key)
	assert.Equal(t, "minor", cfg.Scale)
	assert.Equal(t, "soft", cfg.Cadence)
	assert.Equal(t, "close", cfg.Voicing)
	assert.Equal(t, "root", cfg.Inversion)
	assert.Equal(t, "Eb", res.Response.Progression.Key)

	replay, err := New().Generate(cfg.Request())
	require.NoError(t, err)
	assert.Equal(t, res.Response.Progression, replay.Response.Progression)
}

func TestGenerate_OpenKeepsPitchClasses(t *testing.T) {
	e := New()
	req := baseRequest()
	req.Sevenths = true

	closeRes, err := e.Generate(req)
	require.NoError(t, err)
	req.Voicing = "open"
	openRes, err := e.Generate(req)
	require.NoError(t, err)

	cc := closeRes.Response.Progression.Chords
	oc := openRes.Response.Progression.Chords
	require.Len(t, oc, len(cc))
	for i := range cc {
		assert.Equal(t, cc[i].Symbol, oc[i].Symbol)
		assert.ElementsMatch(t, cc[i].Notes, oc[i].Notes)
		assert.Equal(t, cc[i].Root, oc[i].Notes[0], "open voicing keeps the root in the bass")
	}
}

func TestGenerate_RootPositionBass(t *testing.T) {
	req := baseRequest()
	req.Sevenths = true
	res, err := New().Generate(req)
	require.NoError(t, err)
	for _, c := range res.Response.Progression.Chords {
		assert.Equal(t, c.Root, c.Notes[0])
		assert.True(t, sort.IntsAreSorted(c.MIDINotes))
		assert.Equal(t, 0, c.Inversion)
	}
}

func TestGenerate_SmoothStartsInRootPosition(t *testing.T) {
	req := baseRequest()
	req.Inversion = "smooth"
	res, err := New().Generate(req)
	require.NoError(t, err)
	first := res.Response.Progression.Chords[0]
	assert.Equal(t, 0, first.Inversion)
	assert.Equal(t, first.Root, first.Notes[0])
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ProgressionRequest)
		want   error
	}{
		{"empty key", func(r *models.ProgressionRequest) { r.Key = "" }, ErrInvalidKey},
		{"unknown key", func(r *models.ProgressionRequest) { r.Key = "H" }, ErrInvalidKey},
		{"double sharp", func(r *models.ProgressionRequest) { r.Key = "C##" }, ErrInvalidKey},
		{"zero bars", func(r *models.ProgressionRequest) { r.Bars = 0 }, ErrInvalidRange},
		{"too many bars", func(r *models.ProgressionRequest) { r.Bars = MaxBars + 1 }, ErrInvalidRange},
		{"negative bars", func(r *models.ProgressionRequest) { r.Bars = -3 }, ErrInvalidRange},
		{"unknown scale", func(r *models.ProgressionRequest) { r.Scale = "dorian" }, ErrInvalidOption},
		{"unknown cadence", func(r *models.ProgressionRequest) { r.Cadence = "deceptive" }, ErrInvalidOption},
		{"unknown voicing", func(r *models.ProgressionRequest) { r.Voicing = "drop3" }, ErrInvalidOption},
		{"unknown inversion", func(r *models.ProgressionRequest) { r.Inversion = "first" }, ErrInvalidOption},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			res, err := e.Generate(req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var engineErr *Error
			require.True(t, errors.As(err, &engineErr))
			assert.NotEmpty(t, engineErr.Message)
		})
	}
}

func TestGenerate_Boundaries(t *testing.T) {
	e := New()
	for _, bars := range []int{MinBars, MaxBars} {
		req := baseRequest()
		req.Bars = bars
		res, err := e.Generate(req)
		require.NoError(t, err)
		assert.Len(t, res.Response.Progression.Chords, bars)
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	e := New()
	req := baseRequest()
	req.Inversion = "random"
	want, err := e.Generate(req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Generate(req)
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, want.Response, res.Response)
	}
}

func TestMeta(t *testing.T) {
	e := New(WithVersion("1.2.3"))
	meta := e.Meta()
	assert.Equal(t, "chordgen v1.2.3 | FS-ChordGeefNie-v0.2 (Extended-B) | TS-ChordGeefNie-v0.2", meta.Banner)
	assert.Equal(t, "1.2.3", meta.AppVersion)
	assert.Equal(t, FSVersion, meta.FSVersion)
	assert.Equal(t, TSVersion, meta.TSVersion)

	assert.Equal(t, AppVersion, New(WithVersion("")).Meta().AppVersion)
}
