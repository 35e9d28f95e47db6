package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

// cMajor builds a realized C major bar and the chord it came from
func cMajor(bar int, pitches ...int) (models.Chord, invertedChord) {
	ic := invertedChord{
		voicedChord: voicedChord{
			diatonic: DiatonicChord{
				Root:     0,
				Quality:  QualityMajor,
				Degree:   1,
				BarIndex: bar,
				Tones:    []PitchClass{0, 4, 7},
			},
		},
		pitches: pitches,
	}
	return models.Chord{Symbol: "C", BarIndex: bar, MIDINotes: pitches}, ic
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (models.Progression, []invertedChord)
		wantErr bool
	}{
		{
			name: "valid",
			build: func() (models.Progression, []invertedChord) {
				c0, i0 := cMajor(0, 48, 52, 55)
				c1, i1 := cMajor(1, 52, 55, 60)
				return models.Progression{Bars: 2, Chords: []models.Chord{c0, c1}}, []invertedChord{i0, i1}
			},
		},
		{
			name: "chord count differs from bars",
			build: func() (models.Progression, []invertedChord) {
				c0, i0 := cMajor(0, 48, 52, 55)
				return models.Progression{Bars: 2, Chords: []models.Chord{c0}}, []invertedChord{i0}
			},
			wantErr: true,
		},
		{
			name: "realized chords missing",
			build: func() (models.Progression, []invertedChord) {
				c0, _ := cMajor(0, 48, 52, 55)
				return models.Progression{Bars: 1, Chords: []models.Chord{c0}}, nil
			},
			wantErr: true,
		},
		{
			name: "bar index gap",
			build: func() (models.Progression, []invertedChord) {
				c0, i0 := cMajor(0, 48, 52, 55)
				c1, i1 := cMajor(2, 48, 52, 55)
				return models.Progression{Bars: 2, Chords: []models.Chord{c0, c1}}, []invertedChord{i0, i1}
			},
			wantErr: true,
		},
		{
			name: "pitch class outside chord",
			build: func() (models.Progression, []invertedChord) {
				c0, i0 := cMajor(0, 48, 51, 55)
				return models.Progression{Bars: 1, Chords: []models.Chord{c0}}, []invertedChord{i0}
			},
			wantErr: true,
		},
		{
			name: "doubled note",
			build: func() (models.Progression, []invertedChord) {
				c0, i0 := cMajor(0, 48, 52, 55, 60)
				return models.Progression{Bars: 1, Chords: []models.Chord{c0}}, []invertedChord{i0}
			},
			wantErr: true,
		},
		{
			name: "not ascending",
			build: func() (models.Progression, []invertedChord) {
				c0, i0 := cMajor(0, 52, 48, 55)
				return models.Progression{Bars: 1, Chords: []models.Chord{c0}}, []invertedChord{i0}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, chords := tt.build()
			err := verify(p, chords)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInternalInvariantViolation)
		})
	}
}
