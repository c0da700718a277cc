// Package state persists governance evaluation run history in a local
// SQLite database: one row per run plus per-severity pass rates. The
// history is an optional convenience; evaluation itself never depends on
// it.
package state

import "time"

// EvaluationRun is one recorded governance evaluation.
type EvaluationRun struct {
	ID               string
	GeneratedAt      time.Time
	Version          string
	TotalEvaluations int
	TotalPassed      int
	TotalFailed      int
	OverallPassRate  float64
}

// SeverityRate is the recorded pass rate for one severity tier of a run.
type SeverityRate struct {
	RunID     string
	Severity  string
	Evaluated int
	Passed    int
	PassRate  float64
}

// Store is the run-history persistence interface.
type Store interface {
	// Open opens the store at the given path, ":memory:" for in-memory.
	Open(path string) error
	Close() error

	// Migrate applies pending schema migrations.
	Migrate() error

	// RecordRun persists a run and its per-severity rates.
	RecordRun(run *EvaluationRun, rates []SeverityRate) error

	// GetRun retrieves a run by id, nil when not found.
	GetRun(id string) (*EvaluationRun, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*EvaluationRun, error)

	// GetSeverityRates returns the per-severity rates for a run.
	GetSeverityRates(runID string) ([]SeverityRate, error)
}
