package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/logger"
	"github.com/Conceptual-Machines/chordgen-api/internal/metrics"
	"github.com/Conceptual-Machines/chordgen-api/internal/midi"
	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

type ProgressionHandler struct {
	engine     *engine.Engine
	sentry     *metrics.SentryMetrics
	cloudwatch *metrics.Client
}

func NewProgressionHandler(eng *engine.Engine, cw *metrics.Client) *ProgressionHandler {
	return &ProgressionHandler{
		engine:     eng,
		sentry:     metrics.NewSentryMetrics(),
		cloudwatch: cw,
	}
}

// MIDIRequest asks for a progression rendered straight to a MIDI file
type MIDIRequest struct {
	Request models.ProgressionRequest `json:"request"`
	MIDI    midi.Options              `json:"midi"`
}

// MetaResponse describes the engine and the options it accepts
type MetaResponse struct {
	models.Meta
	Scales     []string `json:"scales"`
	Cadences   []string `json:"cadences"`
	Voicings   []string `json:"voicings"`
	Inversions []string `json:"inversions"`
	Rhythms    []string `json:"rhythms"`
	MinBars    int      `json:"min_bars"`
	MaxBars    int      `json:"max_bars"`
}

func (h *ProgressionHandler) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, MetaResponse{
		Meta:       h.engine.Meta(),
		Scales:     []string{string(engine.ScaleMajor), string(engine.ScaleMinor)},
		Cadences:   []string{string(engine.CadenceNone), string(engine.CadenceSoft), string(engine.CadenceStrong), string(engine.CadencePlagal), string(engine.CadenceHalf)},
		Voicings:   []string{string(engine.VoicingClose), string(engine.VoicingOpen)},
		Inversions: []string{string(engine.InversionRoot), string(engine.InversionRandom), string(engine.InversionSmooth)},
		Rhythms:    sortedRhythms(),
		MinBars:    engine.MinBars,
		MaxBars:    engine.MaxBars,
	})
}

// generate runs the engine and records the outcome
func (h *ProgressionHandler) generate(c *gin.Context, req models.ProgressionRequest) (*engine.Result, error) {
	start := time.Now()
	result, err := h.engine.Generate(req)
	duration := time.Since(start)

	outcome := metrics.OutcomeOK
	if kind, ok := engine.KindOf(err); ok {
		outcome = string(kind)
	}
	warnings := 0
	if result != nil {
		warnings = len(result.Warnings)
		for _, w := range result.Warnings {
			h.cloudwatch.RecordWarning(string(w.Kind))
		}
	}
	h.sentry.RecordGeneration(c.Request.Context(), duration, req.Bars, outcome, warnings)
	h.cloudwatch.RecordGeneration(duration, outcome)

	if err != nil {
		return nil, err
	}

	cfg := result.Response.Config
	logger.LogProgression(c.Request.Context(), cfg.Key, cfg.Scale, cfg.Bars, cfg.Seed, duration, warnings, logger.WithContext(c))
	return result, nil
}

func (h *ProgressionHandler) Generate(c *gin.Context) {
	var req models.ProgressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}

	result, err := h.generate(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	setWarnings(c, result.Warnings)
	c.JSON(http.StatusOK, result.Response)
}

func (h *ProgressionHandler) ExportMIDI(c *gin.Context) {
	var req MIDIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}

	if err := req.MIDI.WithDefaults().Validate(); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.generate(c, req.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	setWarnings(c, result.Warnings)
	h.writeMIDI(c, result.Response.Progression, req.MIDI)
}

// EventDumpResponse is the diagnostic view of a MIDI rendering
type EventDumpResponse struct {
	SHA256 string             `json:"sha256"`
	Events []models.MIDIEvent `json:"events"`
}

// ExportMIDIEvents renders like ExportMIDI but returns the event dump as JSON
func (h *ProgressionHandler) ExportMIDIEvents(c *gin.Context) {
	var req MIDIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, kindInvalidRequest, err.Error())
		return
	}

	if err := req.MIDI.WithDefaults().Validate(); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.generate(c, req.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	rendering, err := midi.Render(result.Response.Progression, req.MIDI)
	if err != nil {
		respondError(c, err)
		return
	}

	setWarnings(c, result.Warnings)
	c.JSON(http.StatusOK, EventDumpResponse{SHA256: rendering.Checksum(), Events: rendering.Dump})
}

func (h *ProgressionHandler) writeMIDI(c *gin.Context, p models.Progression, opts midi.Options) {
	start := time.Now()
	rendering, err := midi.Render(p, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sentry.RecordMIDIExport(c.Request.Context(), time.Since(start), len(rendering.SMF), len(rendering.Dump))
	h.cloudwatch.RecordMIDIExport(len(rendering.SMF))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, midiFilename(p)))
	c.Header(headerMIDIChecksum, rendering.Checksum())
	c.Data(http.StatusOK, contentTypeMIDI, rendering.SMF)
}

func midiFilename(p models.Progression) string {
	key := strings.ReplaceAll(p.Key, "#", "s")
	return fmt.Sprintf("chordgen-%s-%s-%d.mid", key, p.Scale, p.Seed)
}
