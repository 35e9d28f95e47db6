package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

var (
	ErrPresetNotFound    = errors.New("preset not found")
	ErrInvalidPresetName = errors.New("invalid preset name")
	ErrPresetDrift       = errors.New("stored progression does not match its config")
)

// PresetStore persists presets keyed by slug
type PresetStore interface {
	Put(ctx context.Context, preset *models.Preset) error
	Get(ctx context.Context, slug string) (*models.Preset, error)
	List(ctx context.Context) ([]models.Preset, error)
	Delete(ctx context.Context, slug string) error
}

type PresetService struct {
	store  PresetStore
	engine *engine.Engine
	now    func() time.Time
}

func NewPresetService(store PresetStore, eng *engine.Engine) *PresetService {
	return &PresetService{
		store:  store,
		engine: eng,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LoadedPreset is a preset plus notes about version drift since it was saved
type LoadedPreset struct {
	Preset   *models.Preset
	Warnings []string
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses everything else into dashes
func Slugify(name string) (string, error) {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPresetName, name)
	}
	return slug, nil
}

// Save stores a generated progression under a name, replacing any preset
// with the same slug.
func (s *PresetService) Save(ctx context.Context, name string, resp models.ProgressionResponse) (*models.Preset, error) {
	slug, err := Slugify(name)
	if err != nil {
		return nil, err
	}

	preset := &models.Preset{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(name),
		Slug:          slug,
		PresetVersion: models.PresetVersion,
		SavedUTC:      s.now(),
		AppVersion:    resp.Meta.AppVersion,
		FSVersion:     resp.Meta.FSVersion,
		TSVersion:     resp.Meta.TSVersion,
		Config:        resp.Config,
		Progression:   resp.Progression,
	}

	existing, err := s.store.Get(ctx, slug)
	switch {
	case err == nil:
		preset.ID = existing.ID
		preset.CreatedAt = existing.CreatedAt
	case !errors.Is(err, ErrPresetNotFound):
		return nil, fmt.Errorf("failed to look up preset %s: %w", slug, err)
	}

	if err := s.store.Put(ctx, preset); err != nil {
		return nil, fmt.Errorf("failed to save preset %s: %w", slug, err)
	}
	return preset, nil
}

// Load fetches a preset by name or slug
func (s *PresetService) Load(ctx context.Context, name string) (*LoadedPreset, error) {
	slug, err := Slugify(name)
	if err != nil {
		return nil, err
	}
	preset, err := s.store.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	meta := s.engine.Meta()
	var warnings []string
	if preset.AppVersion != meta.AppVersion {
		warnings = append(warnings, fmt.Sprintf("preset saved with app version %s, running %s", preset.AppVersion, meta.AppVersion))
	}
	if preset.FSVersion != meta.FSVersion {
		warnings = append(warnings, fmt.Sprintf("preset saved with %s, running %s", preset.FSVersion, meta.FSVersion))
	}
	if preset.PresetVersion != models.PresetVersion {
		warnings = append(warnings, fmt.Sprintf("preset layout version %d, expected %d", preset.PresetVersion, models.PresetVersion))
	}

	return &LoadedPreset{Preset: preset, Warnings: warnings}, nil
}

// List returns every stored preset in slug order
func (s *PresetService) List(ctx context.Context) ([]models.PresetSummary, error) {
	presets, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PresetSummary, len(presets))
	for i := range presets {
		out[i] = presets[i].Summary()
	}
	return out, nil
}

// Delete removes a preset by name or slug
func (s *PresetService) Delete(ctx context.Context, name string) error {
	slug, err := Slugify(name)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, slug)
}

// Regenerate replays a preset's stored config through the engine. Stored
// progressions carry names only, so rendering needs the regenerated pitches.
func (s *PresetService) Regenerate(ctx context.Context, name string) (*engine.Result, *LoadedPreset, error) {
	loaded, err := s.Load(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.engine.Generate(loaded.Preset.Config.Request())
	if err != nil {
		return nil, loaded, err
	}

	same, err := sameProgression(loaded.Preset.Progression, result.Response.Progression)
	if err != nil {
		return nil, loaded, err
	}
	if !same {
		return nil, loaded, fmt.Errorf("%w: %s", ErrPresetDrift, loaded.Preset.Slug)
	}
	return result, loaded, nil
}

// sameProgression compares the serialized views, ignoring render-only fields
func sameProgression(a, b models.Progression) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ja, jb), nil
}
