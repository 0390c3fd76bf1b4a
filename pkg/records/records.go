// Package records keeps the history of completed rounds for a run.
package records

import "time"

// Record is the outcome of one completed round.
type Record struct {
	RunID        string             `json:"run_id"`
	Round        int                `json:"round"`
	NumUpdates   int                `json:"num_updates"`
	TotalSamples int                `json:"total_samples"`
	Summary      map[string]float64 `json:"summary,omitempty"`
	CompletedAt  time.Time          `json:"completed_at"`
}

// Store persists round records in completion order.
type Store interface {
	Append(record Record) error
	List() ([]Record, error)
	Latest() (Record, error)
}
