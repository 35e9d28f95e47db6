package handlers

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/logger"
	"github.com/Conceptual-Machines/chordgen-api/internal/services"
)

// ErrorBody is the error envelope of every failed API call
type ErrorBody struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id"`
}

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusForKind maps engine error kinds onto HTTP statuses
var statusForKind = map[engine.Kind]int{
	engine.KindInvalidKey:                 http.StatusBadRequest,
	engine.KindInvalidRange:               http.StatusBadRequest,
	engine.KindInvalidOption:              http.StatusBadRequest,
	engine.KindInternalInvariantViolation: http.StatusInternalServerError,
}

func abortWithError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:     ErrorDetail{Kind: kind, Message: message},
		RequestID: c.GetString("request_id"),
	})
}

// respondError writes err in the error envelope with the matching status
func respondError(c *gin.Context, err error) {
	fields := logger.WithContext(c)

	if kind, ok := engine.KindOf(err); ok {
		status, known := statusForKind[kind]
		if !known {
			status = http.StatusInternalServerError
		}
		var engineErr *engine.Error
		errors.As(err, &engineErr)
		fields["kind"] = string(kind)
		if status >= http.StatusInternalServerError {
			logger.Error("Engine invariant violated", err, fields)
		}
		abortWithError(c, status, string(kind), engineErr.Message)
		return
	}

	switch {
	case errors.Is(err, services.ErrPresetNotFound):
		abortWithError(c, http.StatusNotFound, kindNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidPresetName):
		abortWithError(c, http.StatusBadRequest, kindInvalidRequest, err.Error())
	case errors.Is(err, services.ErrPresetDrift):
		fields["kind"] = kindPresetDrift
		logger.Warn("Preset no longer reproduces", fields)
		logger.LogToSentry(sentry.LevelWarning, "Preset drift: "+err.Error(), fields)
		abortWithError(c, http.StatusConflict, kindPresetDrift, err.Error())
	default:
		fields["kind"] = kindInternal
		logger.Error("Request failed", err, fields)
		abortWithError(c, http.StatusInternalServerError, kindInternal, "Internal server error")
	}
}

// setWarnings exposes degraded-case warnings without touching the body
func setWarnings(c *gin.Context, warnings []engine.Warning) {
	for _, w := range warnings {
		c.Writer.Header().Add(headerEngineWarning, w.String())
	}
}
