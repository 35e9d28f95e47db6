package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/chordgen-api/internal/logger"
	"github.com/Conceptual-Machines/chordgen-api/internal/metrics"
	"github.com/Conceptual-Machines/chordgen-api/internal/midi"
	"github.com/Conceptual-Machines/chordgen-api/internal/models"
	"github.com/Conceptual-Machines/chordgen-api/internal/services"
)

type PresetHandler struct {
	presets     *services.PresetService
	progression *ProgressionHandler
	sentry      *metrics.SentryMetrics
}

func NewPresetHandler(presets *services.PresetService, progression *ProgressionHandler) *PresetHandler {
	return &PresetHandler{
		presets:     presets,
		progression: progression,
		sentry:      metrics.NewSentryMetrics(),
	}
}

type SavePresetRequest struct {
	Name    string                    `json:"name" binding:"required"`
	Request models.ProgressionRequest `json:"request"`
}

type PresetResponse struct {
	Preset   *models.Preset `json:"preset"`
	Warnings []string       `json:"warnings,omitempty"`
}

func (h *PresetHandler) List(c *gin.Context) {
	list, err := h.presets.List(c.Request.Context())
	h.sentry.RecordPresetOperation(c.Request.Context(), "list", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": list})
}

// Save generates the requested progression and stores it under a name
func (h *PresetHandler) Save(c *gin.Context) {
	var req SavePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}

	result, err := h.progression.generate(c, req.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	preset, err := h.presets.Save(c.Request.Context(), req.Name, result.Response)
	h.sentry.RecordPresetOperation(c.Request.Context(), "save", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	fields := logger.WithContext(c)
	fields["slug"] = preset.Slug
	logger.Info("Preset saved", fields)

	setWarnings(c, result.Warnings)
	c.JSON(http.StatusCreated, PresetResponse{Preset: preset})
}

func (h *PresetHandler) Get(c *gin.Context) {
	loaded, err := h.presets.Load(c.Request.Context(), c.Param("name"))
	h.sentry.RecordPresetOperation(c.Request.Context(), "load", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PresetResponse{Preset: loaded.Preset, Warnings: loaded.Warnings})
}

func (h *PresetHandler) Delete(c *gin.Context) {
	err := h.presets.Delete(c.Request.Context(), c.Param("name"))
	h.sentry.RecordPresetOperation(c.Request.Context(), "delete", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportMIDI re-renders a stored preset. MIDI options come from the query
// string, e.g. ?playback=arpeggio&rhythm=8ths.
func (h *PresetHandler) ExportMIDI(c *gin.Context) {
	var opts midi.Options
	if err := c.ShouldBindQuery(&opts); err != nil {
		abortWithError(c, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}
	if err := opts.WithDefaults().Validate(); err != nil {
		respondError(c, err)
		return
	}

	result, loaded, err := h.presets.Regenerate(c.Request.Context(), c.Param("name"))
	h.sentry.RecordPresetOperation(c.Request.Context(), "export", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	if loaded != nil {
		for _, w := range loaded.Warnings {
			c.Writer.Header().Add(headerPresetWarning, w)
		}
	}
	setWarnings(c, result.Warnings)
	h.progression.writeMIDI(c, result.Response.Progression, opts)
}

func sortedRhythms() []string {
	names := midi.RhythmNames()
	sort.Strings(names)
	return names
}
