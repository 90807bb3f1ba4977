package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hazyhaar/avis/dbopen"
	"github.com/hazyhaar/avis/scrape"
)

// Run is a persisted scrape run.
type Run struct {
	ID             string   `json:"id"`
	Business       string   `json:"business"`
	TotalFound     int      `json:"total_found"`
	TotalExtracted int      `json:"total_extracted"`
	SuccessRate    float64  `json:"success_rate"`
	Errors         []string `json:"errors"`
	ScrapedAt      int64    `json:"scraped_at"` // unix millis
	CreatedAt      int64    `json:"created_at"` // unix millis
}

// SaveResult persists a scrape result: one run row plus an upsert per
// review. Returns the new run ID.
func (s *Store) SaveResult(ctx context.Context, result *scrape.Result) (string, error) {
	runID := s.newRunID()

	errsJSON, err := json.Marshal(result.Errors)
	if err != nil {
		return "", fmt.Errorf("store: marshal errors: %w", err)
	}

	err = dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, business, total_found, total_extracted, errors_json, scraped_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, result.Business, result.TotalFound, result.TotalExtracted,
			string(errsJSON), result.ScrapedAt.UnixMilli(), time.Now().UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("store: insert run: %w", err)
		}

		for _, rev := range result.Reviews {
			if err := s.upsertReview(ctx, tx, runID, &rev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// GetRun retrieves a run by ID, or nil when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, business, total_found, total_extracted, errors_json, scraped_at, created_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, business, total_found, total_extracted, errors_json, scraped_at, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run (cascades to its reviews).
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	_, err := dbopen.Exec(ctx, s.DB, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var errsJSON string
	if err := row.Scan(&run.ID, &run.Business, &run.TotalFound, &run.TotalExtracted,
		&errsJSON, &run.ScrapedAt, &run.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(errsJSON), &run.Errors); err != nil {
		run.Errors = nil
	}
	if run.TotalFound > 0 {
		run.SuccessRate = float64(run.TotalExtracted) / float64(run.TotalFound) * 100
	}
	return &run, nil
}
