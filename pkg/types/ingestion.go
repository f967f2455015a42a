// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunState tracks an ingestion run's lifecycle.
type RunState string

const (
	RunPending RunState = "pending"
	RunRunning RunState = "running"
	RunSettled RunState = "settled"
)

// IngestionResult is the outcome of one adapter within one run. A failed
// result never blocks or replaces a sibling source's result.
type IngestionResult struct {
	SourceID  string    `json:"source_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Fetched   int       `json:"fetched"`
	Inserted  int       `json:"inserted"`
	Updated   int       `json:"updated"`
	Skipped   int       `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}

// IngestionRun is one orchestration invocation: immutable once settled.
type IngestionRun struct {
	ID        string                     `json:"id"`
	State     RunState                   `json:"state"`
	StartedAt time.Time                  `json:"started_at"`
	Duration  time.Duration              `json:"duration"`
	Results   map[string]IngestionResult `json:"results"`
}

// Succeeded returns the number of sources that completed without error.
func (r IngestionRun) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of sources that did not complete.
func (r IngestionRun) Failed() int { return len(r.Results) - r.Succeeded() }
