package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

// GormStore keeps presets in the presets table
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Put(ctx context.Context, preset *models.Preset) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at", "preset_version", "saved_utc", "app_version", "fs_version", "ts_version", "config", "progression"}),
	}).Create(preset).Error
}

func (s *GormStore) Get(ctx context.Context, slug string) (*models.Preset, error) {
	var preset models.Preset
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&preset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPresetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.Preset, error) {
	var presets []models.Preset
	if err := s.db.WithContext(ctx).Order("slug").Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

func (s *GormStore) Delete(ctx context.Context, slug string) error {
	result := s.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Preset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}
