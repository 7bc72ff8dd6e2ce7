// ABOUTME: CLI command that runs the ingestion loop.
// ABOUTME: Fetches live or replays archived pages into the store, one transaction per page.
package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/harperreed/exercises/internal/archive"
	"github.com/harperreed/exercises/internal/ingest"
	"github.com/spf13/cobra"
)

var (
	ingestMaxPages    int
	ingestDryRun      bool
	ingestReplay      bool
	ingestMetricsFile string
	ingestVerbose     bool
)

var ingestCmd = &cobra.Command{
	Use:     "ingest",
	Aliases: []string{"fetch"},
	Short:   "Fetch the exercise catalog into the store",
	Long: `Fetch the exercise catalog page by page and write every record into the store.

Each page is committed in its own transaction. Any transport or data error
rolls back the current page, keeps the pages already committed, and exits
non-zero. Re-running is safe: lookup rows keep their first-seen values and
exercise rows are replaced.

PAGING:

  --base-url   listing endpoint (default https://musclewiki.com/newapi/exercise/exercises/)
  --limit      page size (default 50)
  --offset     starting offset (default 1050)
  --status     status filter (default Published)
  --max-pages  stop after N pages (default: follow next until it is empty)

ARCHIVE AND REPLAY:

  --archive fs|memory|badger|charm|s3   store every fetched page
  --replay                              read pages from the archive only

EXAMPLES:

  exercises ingest
  exercises ingest --offset 0 --limit 100
  exercises ingest --dry-run --max-pages 1
  exercises ingest --archive fs
  exercises ingest --archive fs --replay
  exercises ingest --metrics-file /var/lib/node_exporter/exercises.prom`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		startURL, err := ingest.StartURL(cfg.API.BaseURL, cfg.API.Limit, cfg.API.Offset, cfg.API.Status)
		if err != nil {
			return err
		}

		var source ingest.Source = ingest.NewHTTPSource(cfg.API.Timeout, cfg.API.UserAgent)
		if ingestReplay && !cfg.ArchiveEnabled() {
			return fmt.Errorf("--replay requires an archive driver (--archive)")
		}
		if cfg.ArchiveEnabled() {
			store, err := cfg.OpenArchive(ctx)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer func() { _ = store.Close() }()
			source = wrapSource(source, store, ingestReplay)
			logger.Info("page archive enabled", "driver", store.Driver(), "replay", ingestReplay)
		}

		var metrics *ingest.Metrics
		if ingestMetricsFile != "" {
			metrics = ingest.NewMetrics()
		}

		ingester := ingest.New(db, source, logger, ingest.Options{
			MaxPages: ingestMaxPages,
			DryRun:   ingestDryRun,
		}).WithMetrics(metrics)

		if ingestDryRun {
			color.Yellow("Dry run mode - every page will be rolled back")
		}

		summary, runErr := ingester.Run(ctx, startURL)

		if metrics != nil {
			if err := metrics.WriteTextfile(ingestMetricsFile); err != nil {
				logger.Warn("failed to write metrics", "path", ingestMetricsFile, "err", err)
			}
		}

		if summary != nil {
			printSummary(cmd, summary)
		}
		if runErr != nil {
			return fmt.Errorf("ingest failed: %w", runErr)
		}
		return nil
	},
}

func wrapSource(live ingest.Source, store archive.Store, replay bool) ingest.Source {
	if replay {
		return &ingest.ReplaySource{Archive: store}
	}
	return &ingest.ArchivingSource{Source: live, Archive: store}
}

func printSummary(cmd *cobra.Command, s *ingest.Summary) {
	out := cmd.OutOrStdout()
	if ingestDryRun {
		color.New(color.FgYellow).Fprintf(out, "✓ Dry run: %d pages, %d records, %d writes (rolled back)\n", s.Pages, s.Records, s.Writes)
	} else {
		color.New(color.FgGreen).Fprintf(out, "✓ Ingested %d pages, %d records, %d writes\n", s.Pages, s.Records, s.Writes)
	}
	if s.Stopped {
		fmt.Fprintf(out, "  stopped after --max-pages %d\n", ingestMaxPages)
	}
	if !ingestDryRun {
		fmt.Fprintln(out, color.New(color.Faint).Sprintf("  run %s", s.RunID))
	}

	if !ingestVerbose {
		return
	}
	tables := make([]string, 0, len(s.Tables))
	for t := range s.Tables {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(out, "  %s %d\n", padRight(t, 28), s.Tables[t])
	}
}

func init() {
	f := ingestCmd.Flags()
	f.String("base-url", "", "listing endpoint URL")
	f.Int("limit", 0, "page size")
	f.Int("offset", 0, "starting offset")
	f.String("status", "", "status filter")
	f.Duration("timeout", 0, "per-request timeout")
	f.String("archive", "", "page archive driver: fs, memory, badger, charm or s3")
	f.String("archive-dir", "", "archive directory for fs and badger (default under the data dir)")
	f.IntVar(&ingestMaxPages, "max-pages", 0, "stop after N pages (0 = no limit)")
	f.BoolVar(&ingestDryRun, "dry-run", false, "apply every page then roll it back")
	f.BoolVar(&ingestReplay, "replay", false, "read pages from the archive instead of the network")
	f.StringVar(&ingestMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	f.BoolVarP(&ingestVerbose, "verbose", "v", false, "print per-table write counts")
	configFlags[ingestCmd] = map[string]string{
		"api.base_url":   "base-url",
		"api.limit":      "limit",
		"api.offset":     "offset",
		"api.status":     "status",
		"api.timeout":    "timeout",
		"archive.driver": "archive",
		"archive.dir":    "archive-dir",
	}
	rootCmd.AddCommand(ingestCmd)
}
