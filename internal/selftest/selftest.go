// Package selftest verifies that generation and MIDI export are reproducible
// for a fixed configuration.
package selftest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/midi"
	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

// Check is the outcome of one reproducibility check
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report collects every check of a run
type Report struct {
	Request  models.ProgressionRequest `json:"request"`
	Checks   []Check                   `json:"checks"`
	Passed   bool                      `json:"passed"`
	Checksum string                    `json:"sha256,omitempty"`
}

// DefaultRequest is the configuration exercised by Run
func DefaultRequest() models.ProgressionRequest {
	seed := int64(123)
	return models.ProgressionRequest{
		Key:       "C",
		Scale:     "minor",
		Bars:      8,
		Seed:      &seed,
		Cadence:   "plagal",
		Sevenths:  true,
		Voicing:   "open",
		Inversion: "smooth",
	}
}

// DefaultMIDIOptions uses humanized velocities so the velocity stream is covered too
func DefaultMIDIOptions() midi.Options {
	opts := midi.DefaultOptions()
	opts.Velocity = midi.VelocityHumanize
	return opts
}

// Run generates and renders the request twice and compares the results.
// Errors are returned only when a run cannot complete at all.
func Run(eng *engine.Engine, req models.ProgressionRequest, opts midi.Options) (*Report, error) {
	first, err := runOnce(eng, req, opts)
	if err != nil {
		return nil, err
	}
	second, err := runOnce(eng, req, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Request: req, Checksum: first.rendering.Checksum()}
	report.add("progression", bytes.Equal(first.json, second.json), "serialized responses differ")
	report.add("midi_events", reflect.DeepEqual(first.rendering.Dump, second.rendering.Dump), "event dumps differ")
	report.add("midi_sha256", first.rendering.Checksum() == second.rendering.Checksum(),
		fmt.Sprintf("%s != %s", first.rendering.Checksum(), second.rendering.Checksum()))

	report.Passed = true
	for _, c := range report.Checks {
		report.Passed = report.Passed && c.Passed
	}
	return report, nil
}

type run struct {
	json      []byte
	rendering *midi.Rendering
}

func runOnce(eng *engine.Engine, req models.ProgressionRequest, opts midi.Options) (*run, error) {
	result, err := eng.Generate(req)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(result.Response)
	if err != nil {
		return nil, err
	}
	rendering, err := midi.Render(result.Response.Progression, opts)
	if err != nil {
		return nil, err
	}
	return &run{json: data, rendering: rendering}, nil
}

func (r *Report) add(name string, passed bool, failure string) {
	c := Check{Name: name, Passed: passed}
	if !passed {
		c.Detail = failure
	}
	r.Checks = append(r.Checks, c)
}
