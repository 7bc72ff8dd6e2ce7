// ABOUTME: Ingestion loop: fetch a page, normalize its records, commit, follow next.
// ABOUTME: Each page is one transaction; any error rolls back that page and stops the run.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/exercises/internal/models"
	"github.com/harperreed/exercises/internal/normalize"
	"github.com/harperreed/exercises/internal/storage"
)

// Store is the part of the catalog store the loop writes to.
type Store interface {
	Begin(ctx context.Context) (*storage.Tx, error)
	CreateRun(ctx context.Context, run *models.IngestRun) error
	FinishRun(ctx context.Context, run *models.IngestRun) error
}

// Options tune a run.
type Options struct {
	// MaxPages stops the run after this many pages; 0 means no limit.
	MaxPages int
	// DryRun normalizes and applies every page, then rolls it back.
	DryRun bool
}

// Summary describes a finished run.
type Summary struct {
	RunID   uuid.UUID
	Pages   int
	Records int
	Writes  int
	Tables  map[string]int
	Stopped bool // stopped by MaxPages before the last page
}

// Ingester drives pagination against a Source and writes into a Store.
type Ingester struct {
	store   Store
	source  Source
	logger  *log.Logger
	opts    Options
	metrics *Metrics
}

// New creates an Ingester. A nil logger discards log output.
func New(store Store, source Source, logger *log.Logger, opts Options) *Ingester {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Ingester{store: store, source: source, logger: logger, opts: opts}
}

// WithMetrics records page and run metrics into m.
func (i *Ingester) WithMetrics(m *Metrics) *Ingester {
	i.metrics = m
	return i
}

// Run ingests from startURL until the API reports no next page.
// Pages committed before an error stay committed.
func (i *Ingester) Run(ctx context.Context, startURL string) (*Summary, error) {
	run := models.NewIngestRun(startURL)
	summary := &Summary{RunID: run.ID, Tables: make(map[string]int)}
	logger := i.logger.With("run", run.ID.String()[:8])

	if !i.opts.DryRun {
		if err := i.store.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}
	logger.Info("ingest started", "url", startURL, "dry_run", i.opts.DryRun)

	err := i.loop(ctx, startURL, summary, logger)

	run.Pages = summary.Pages
	run.Records = summary.Records
	run.Finish(err)
	if i.metrics != nil && !i.opts.DryRun {
		i.metrics.observeRun(err)
	}
	if !i.opts.DryRun {
		// The run row is finalized even when ctx was cancelled.
		if ferr := i.store.FinishRun(context.WithoutCancel(ctx), run); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}

	if err != nil {
		logger.Error("ingest failed", "pages", summary.Pages, "records", summary.Records, "err", err)
		return summary, err
	}
	logger.Info("ingest finished", "pages", summary.Pages, "records", summary.Records, "writes", summary.Writes)
	return summary, nil
}

func (i *Ingester) loop(ctx context.Context, pageURL string, summary *Summary, logger *log.Logger) error {
	for pageURL != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i.opts.MaxPages > 0 && summary.Pages >= i.opts.MaxPages {
			summary.Stopped = true
			logger.Warn("page limit reached", "max_pages", i.opts.MaxPages, "next", pageURL)
			return nil
		}

		started := time.Now()
		result, err := i.page(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("page %d: %w", summary.Pages+1, err)
		}

		summary.Pages++
		summary.Records += result.records
		for table, n := range result.tables {
			summary.Tables[table] += n
			summary.Writes += n
		}
		// Rolled-back dry-run pages are not counted as committed.
		if i.metrics != nil && !i.opts.DryRun {
			i.metrics.observePage(result.records, result.tables, time.Since(started))
		}
		logger.Info("page committed", "page", summary.Pages, "records", result.records, "next", result.next)

		pageURL = result.next
	}
	return nil
}

type pageResult struct {
	records int
	tables  map[string]int
	next    string
}

// page fetches, normalizes and commits one page.
func (i *Ingester) page(ctx context.Context, pageURL string) (*pageResult, error) {
	body, err := i.source.Page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	page, err := models.DecodePage(body)
	if err != nil {
		return nil, err
	}

	tx, err := i.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	for n := range page.Results {
		rec := &page.Results[n]
		writes, err := normalize.Exercise(rec)
		if err == nil {
			err = tx.Apply(ctx, writes...)
		}
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("record %d: %w", n+1, err)
		}
	}

	if i.opts.DryRun {
		if err := tx.Rollback(); err != nil {
			return nil, err
		}
	} else if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &pageResult{records: len(page.Results), tables: tx.Counts(), next: page.NextURL()}, nil
}
