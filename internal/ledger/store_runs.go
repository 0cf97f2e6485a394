package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StartRun records a new running entry for the search.
func (s *Store) StartRun(ctx context.Context, runID, searchName string) (*Run, error) {
	if runID == "" || searchName == "" {
		return nil, errors.New("ledger start run: run id and search name required")
	}
	run := &Run{
		ID:         runID,
		SearchName: searchName,
		Status:     StatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, search_name, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.SearchName, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger start run: %w", err)
	}
	return run, nil
}

// FinishRun marks the run finished with its final status and counts.
func (s *Store) FinishRun(ctx context.Context, runID, status string, counts Counts, errorMessage string) error {
	finished := time.Now().UTC()
	err := s.execWithRetry(ctx,
		`UPDATE runs
		 SET status = ?, finished_at = ?, listings_found = ?, details_fetched = ?,
		     rooms_failed = ?, rooms_scored = ?, error_message = ?
		 WHERE id = ?`,
		status, finished, counts.ListingsFound, counts.DetailsFetched,
		counts.RoomsFailed, counts.RoomsScored, errorMessage, runID,
	)
	if err != nil {
		return fmt.Errorf("ledger finish run: %w", err)
	}
	return nil
}

// RecordFailure stores one exhausted fetch attempt.
func (s *Store) RecordFailure(ctx context.Context, f Failure) error {
	if f.RunID == "" || f.RoomID == "" {
		return errors.New("ledger record failure: run id and room id required")
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO fetch_failures (run_id, search_name, room_id, stage, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.RunID, f.SearchName, f.RoomID, f.Stage, f.Message, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("ledger record failure: %w", err)
	}
	return nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var finished sql.NullTime
	err := rows.Scan(&run.ID, &run.SearchName, &run.Status, &run.StartedAt, &finished,
		&run.ListingsFound, &run.DetailsFetched, &run.RoomsFailed, &run.RoomsScored, &run.ErrorMessage)
	if err != nil {
		return Run{}, err
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}

const runColumns = `id, search_name, status, started_at, finished_at,
	listings_found, details_fetched, rooms_failed, rooms_scored, error_message`

// Runs returns the most recent runs for a search, newest first. An empty
// search name returns runs across all searches.
func (s *Store) Runs(ctx context.Context, searchName string, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if searchName != "" {
		query += ` WHERE search_name = ?`
		args = append(args, searchName)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger list runs: %w", err)
	}
	return runs, nil
}

// Failures returns recorded fetch failures for a search, newest first.
func (s *Store) Failures(ctx context.Context, searchName string, limit int) ([]Failure, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, search_name, room_id, stage, message, created_at
		 FROM fetch_failures WHERE search_name = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		searchName, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger list failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.ID, &f.RunID, &f.SearchName, &f.RoomID, &f.Stage, &f.Message, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("ledger scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger list failures: %w", err)
	}
	return failures, nil
}
