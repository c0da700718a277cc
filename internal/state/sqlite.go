package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun persists a run and its per-severity rates in one transaction.
func (s *SQLiteStore) RecordRun(run *EvaluationRun, rates []SeverityRate) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	s.logger.Debug("recording evaluation run", slog.String("id", run.ID))

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO evaluation_runs
		 (id, generated_at, version, total_evaluations, total_passed, total_failed, overall_pass_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.GeneratedAt.UTC(), run.Version,
		run.TotalEvaluations, run.TotalPassed, run.TotalFailed, run.OverallPassRate,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for _, rate := range rates {
		_, err = tx.Exec(
			`INSERT INTO severity_rates (run_id, severity, evaluated, passed, pass_rate)
			 VALUES (?, ?, ?, ?, ?)`,
			run.ID, rate.Severity, rate.Evaluated, rate.Passed, rate.PassRate,
		)
		if err != nil {
			return fmt.Errorf("failed to record severity rate: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by id. Returns nil without error when the run
// does not exist.
func (s *SQLiteStore) GetRun(id string) (*EvaluationRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, generated_at, version, total_evaluations, total_passed, total_failed, overall_pass_rate
		 FROM evaluation_runs WHERE id = ?`, id,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]*EvaluationRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, generated_at, version, total_evaluations, total_passed, total_failed, overall_pass_rate
		 FROM evaluation_runs ORDER BY generated_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*EvaluationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetSeverityRates returns the per-severity rates recorded for a run.
func (s *SQLiteStore) GetSeverityRates(runID string) ([]SeverityRate, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT run_id, severity, evaluated, passed, pass_rate
		 FROM severity_rates WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get severity rates: %w", err)
	}
	defer rows.Close()

	var rates []SeverityRate
	for rows.Next() {
		var rate SeverityRate
		if err := rows.Scan(&rate.RunID, &rate.Severity, &rate.Evaluated, &rate.Passed, &rate.PassRate); err != nil {
			return nil, fmt.Errorf("failed to scan severity rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*EvaluationRun, error) {
	var run EvaluationRun
	var generatedAt time.Time
	err := row.Scan(
		&run.ID, &generatedAt, &run.Version,
		&run.TotalEvaluations, &run.TotalPassed, &run.TotalFailed, &run.OverallPassRate,
	)
	if err != nil {
		return nil, err
	}
	run.GeneratedAt = generatedAt.UTC()
	return &run, nil
}
