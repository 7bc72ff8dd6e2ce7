// ABOUTME: Bookkeeping for ingestion runs in the ingest_runs table.
// ABOUTME: A run row is written before the first page and finalized when the loop stops.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/exercises/internal/models"
)

// CreateRun records the start of an ingestion run.
func (d *DB) CreateRun(ctx context.Context, run *models.IngestRun) error {
	row := Row{
		{Name: "id", Value: run.ID.String()},
		{Name: "start_url", Value: run.StartURL},
		{Name: "status", Value: run.Status},
		{Name: "pages", Value: run.Pages},
		{Name: "records", Value: run.Records},
		{Name: "error", Value: run.Error},
		{Name: "started_at", Value: formatTime(run.StartedAt)},
		{Name: "finished_at", Value: formatTimePtr(run.FinishedAt)},
	}
	return d.WithTx(ctx, func(tx *Tx) error {
		if err := tx.Upsert(ctx, TableIngestRuns, row, "id"); err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		return nil
	})
}

// FinishRun stores the final status and counters of a run.
func (d *DB) FinishRun(ctx context.Context, run *models.IngestRun) error {
	query := d.dialect.Rebind(`
		UPDATE ingest_runs
		SET status = ?, pages = ?, records = ?, error = ?, finished_at = ?
		WHERE id = ?`)
	result, err := d.db.ExecContext(ctx, query,
		run.Status, run.Pages, run.Records, run.Error, formatTimePtr(run.FinishedAt), run.ID.String())
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: run %s not found", run.ID)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]*models.IngestRun, error) {
	query := `
		SELECT id, start_url, status, pages, records, error, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, d.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*models.IngestRun
	for rows.Next() {
		var (
			run              models.IngestRun
			id, startedAt    string
			startURL, errMsg sql.NullString
			finishedAt       sql.NullString
			pages, records   sql.NullInt64
		)
		if err := rows.Scan(&id, &startURL, &run.Status, &pages, &records, &errMsg, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse run id: %w", err)
		}
		run.StartURL = startURL.String
		run.Pages = int(pages.Int64)
		run.Records = int(records.Int64)
		if errMsg.Valid {
			run.Error = &errMsg.String
		}
		run.StartedAt, err = parseTime(startedAt)
		if err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			t, err := parseTime(finishedAt.String)
			if err != nil {
				return nil, err
			}
			run.FinishedAt = &t
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
