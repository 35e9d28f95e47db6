package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/chordgen-api/internal/database"
	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

func generate(t *testing.T, eng *engine.Engine, seed int64) models.ProgressionResponse {
	t.Helper()
	res, err := eng.Generate(models.ProgressionRequest{
		Key:       "A",
		Scale:     "minor",
		Bars:      8,
		Seed:      &seed,
		Cadence:   "plagal",
		Sevenths:  true,
		Voicing:   "open",
		Inversion: "smooth",
	})
	require.NoError(t, err)
	return res.Response
}

func newFileService(t *testing.T) (*PresetService, *FileStore) {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "presets"))
	require.NoError(t, err)
	return NewPresetService(store, engine.New()), store
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		expectError bool
	}{
		{input: "My Song", expected: "my-song"},
		{input: "  Verse #2 (dark)  ", expected: "verse-2-dark"},
		{input: "already-a-slug", expected: "already-a-slug"},
		{input: "Ünïcode Ballad", expected: "n-code-ballad"},
		{input: "", expectError: true},
		{input: "!!!", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			slug, err := Slugify(tt.input)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidPresetName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slug)
		})
	}
}

func TestPresetService_SaveLoadRoundTrip(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	resp := generate(t, engine.New(), 123)

	saved, err := svc.Save(ctx, "Night Drive", resp)
	require.NoError(t, err)
	assert.Equal(t, "night-drive", saved.Slug)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, models.PresetVersion, saved.PresetVersion)

	loaded, err := svc.Load(ctx, "night drive")
	require.NoError(t, err)
	assert.Empty(t, loaded.Warnings)
	assert.Equal(t, saved.ID, loaded.Preset.ID)
	assert.Equal(t, resp.Config, loaded.Preset.Config)
	assert.Equal(t, resp.Progression.Summary(), loaded.Preset.Progression.Summary())
	assert.Equal(t, resp.Progression.Degrees(), loaded.Preset.Progression.Degrees())
}

func TestPresetService_SaveReplacesKeepingID(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()
	eng := engine.New()

	first, err := svc.Save(ctx, "loop", generate(t, eng, 1))
	require.NoError(t, err)
	second, err := svc.Save(ctx, "Loop", generate(t, eng, 2))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	loaded, err := svc.Load(ctx, "loop")
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.Preset.Config.Seed)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPresetService_ListSorted(t *testing.T) {
	svc, store := newFileService(t)
	ctx := context.Background()
	eng := engine.New()

	for i, name := range []string{"zeta", "alpha", "Mid Point"} {
		_, err := svc.Save(ctx, name, generate(t, eng, int64(i)))
		require.NoError(t, err)
	}
	// stray files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "notes.txt"), []byte("hi"), 0o644))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Slug)
	assert.Equal(t, "mid-point", list[1].Slug)
	assert.Equal(t, "zeta", list[2].Slug)
	assert.Equal(t, "A", list[0].Key)
	assert.Equal(t, 8, list[0].Bars)
}

func TestPresetService_NotFound(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()

	_, err := svc.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrPresetNotFound)

	err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestPresetService_Delete(t *testing.T) {
	svc, _ := newFileService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "temp", generate(t, engine.New(), 5))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "temp"))

	_, err = svc.Load(ctx, "temp")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestPresetService_VersionWarnings(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	old := NewPresetService(store, engine.New(engine.WithVersion("0.1.0")))
	_, err = old.Save(ctx, "legacy", generate(t, engine.New(engine.WithVersion("0.1.0")), 9))
	require.NoError(t, err)

	current := NewPresetService(store, engine.New())
	loaded, err := current.Load(ctx, "legacy")
	require.NoError(t, err)
	require.Len(t, loaded.Warnings, 1)
	assert.Contains(t, loaded.Warnings[0], "0.1.0")
}

func TestPresetService_Regenerate(t *testing.T) {
	svc, store := newFileService(t)
	ctx := context.Background()
	resp := generate(t, engine.New(), 77)

	_, err := svc.Save(ctx, "replay", resp)
	require.NoError(t, err)

	result, loaded, err := svc.Regenerate(ctx, "replay")
	require.NoError(t, err)
	assert.Empty(t, loaded.Warnings)
	assert.Equal(t, resp.Progression, result.Response.Progression)
	for _, c := range result.Response.Progression.Chords {
		assert.NotEmpty(t, c.MIDINotes)
	}

	// tamper with the stored chords
	preset, err := store.Get(ctx, "replay")
	require.NoError(t, err)
	preset.Progression.Chords[0].Symbol = "X"
	require.NoError(t, store.Put(ctx, preset))

	_, _, err = svc.Regenerate(ctx, "replay")
	assert.ErrorIs(t, err, ErrPresetDrift)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	_, err = store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPresetNotFound))
}

func TestGormStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := NewGormStore(db)
	svc := NewPresetService(store, engine.New())
	ctx := context.Background()
	name := "gorm-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = svc.Delete(ctx, name) })

	resp := generate(t, engine.New(), 42)
	saved, err := svc.Save(ctx, name, resp)
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.Preset.ID)
	assert.Equal(t, resp.Config, loaded.Preset.Config)

	again, err := svc.Save(ctx, name, generate(t, engine.New(), 43))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)

	require.NoError(t, svc.Delete(ctx, name))
	assert.ErrorIs(t, svc.Delete(ctx, name), ErrPresetNotFound)
}
