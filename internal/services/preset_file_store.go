package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

const presetFileExt = ".json"

// FileStore keeps one JSON document per preset in a directory
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preset dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slug string) string {
	return filepath.Join(s.dir, slug+presetFileExt)
}

func (s *FileStore) Put(_ context.Context, preset *models.Preset) error {
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, preset.Slug+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(preset.Slug))
}

func (s *FileStore) Get(_ context.Context, slug string) (*models.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.path(slug))
}

func (s *FileStore) read(path string) (*models.Preset, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrPresetNotFound
	}
	if err != nil {
		return nil, err
	}

	var preset models.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("corrupt preset %s: %w", filepath.Base(path), err)
	}
	return &preset, nil
}

func (s *FileStore) List(_ context.Context) ([]models.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	presets := make([]models.Preset, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), presetFileExt) {
			continue
		}
		preset, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		presets = append(presets, *preset)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Slug < presets[j].Slug })
	return presets, nil
}

func (s *FileStore) Delete(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(slug))
	if errors.Is(err, os.ErrNotExist) {
		return ErrPresetNotFound
	}
	return err
}
