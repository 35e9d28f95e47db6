package models

import "time"

// PresetVersion is the current on-disk/in-db preset layout
const PresetVersion = 1

// Preset is a saved progression together with the config that reproduces it
type Preset struct {
	ID            string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt     time.Time    `json:"-"`
	UpdatedAt     time.Time    `json:"-"`
	Name          string       `gorm:"not null" json:"name"`
	Slug          string       `gorm:"uniqueIndex;not null" json:"slug"`
	PresetVersion int          `gorm:"not null" json:"preset_version"`
	SavedUTC      time.Time    `json:"saved_utc"`
	AppVersion    string       `json:"app_version"`
	FSVersion     string       `json:"fs_version"`
	TSVersion     string       `json:"ts_version"`
	Config        EngineConfig `gorm:"serializer:json" json:"config"`
	Progression   Progression  `gorm:"serializer:json" json:"progression"`
}

// PresetSummary is the listing view of a preset
type PresetSummary struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	SavedUTC time.Time `json:"saved_utc"`
	Key      string    `json:"key"`
	Scale    string    `json:"scale"`
	Bars     int       `json:"bars"`
	Chords   string    `json:"chords"`
}

// Summary returns the listing view
func (p *Preset) Summary() PresetSummary {
	return PresetSummary{
		Name:     p.Name,
		Slug:     p.Slug,
		SavedUTC: p.SavedUTC,
		Key:      p.Progression.Key,
		Scale:    p.Progression.Scale,
		Bars:     p.Progression.Bars,
		Chords:   p.Progression.Summary(),
	}
}
