package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest

	// OutcomeOK tags generations that produced a progression
	OutcomeOK = "ok"
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordGeneration records one engine call. Outcome is OutcomeOK or the
// error kind that stopped it.
func (m *SentryMetrics) RecordGeneration(ctx context.Context, duration time.Duration, bars int, outcome string, warnings int) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "engine.generate")
	defer span.Finish()

	span.SetTag("outcome", outcome)
	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("bars", bars)
	span.SetData("warnings", warnings)

	switch outcome {
	case OutcomeOK:
		span.Status = sentry.SpanStatusOK
	case "InternalInvariantViolation":
		span.Status = sentry.SpanStatusInternalError
	default:
		span.Status = sentry.SpanStatusInvalidArgument
	}

	span.Description = fmt.Sprintf("Generation: %s", outcome)
}

// RecordMIDIExport records the size of a rendered MIDI file
func (m *SentryMetrics) RecordMIDIExport(ctx context.Context, duration time.Duration, sizeBytes int, events int) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "midi.export")
	defer span.Finish()

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("size_bytes", sizeBytes)
	span.SetData("events", events)
	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("MIDI Export: %d bytes", sizeBytes)
}

// RecordPresetOperation records a preset store call
func (m *SentryMetrics) RecordPresetOperation(ctx context.Context, operation string, success bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "preset."+operation)
	defer span.Finish()

	span.SetTag("success", fmt.Sprintf("%t", success))
	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("Preset %s: %t", operation, success)
}
