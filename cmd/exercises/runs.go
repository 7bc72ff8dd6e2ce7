// ABOUTME: CLI command listing past ingest runs.
// ABOUTME: Shows status, page and record counts, and the error of failed runs.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/exercises/internal/models"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List ingest runs",
	Long: `List recorded ingest runs, newest first.

Each line shows: ID  STARTED  STATUS  PAGES  RECORDS  (ERROR)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := db.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No ingest runs recorded.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range runs {
			status := r.Status
			switch r.Status {
			case models.RunCompleted:
				status = color.GreenString(padRight(status, 10))
			case models.RunFailed:
				status = color.RedString(padRight(status, 10))
			default:
				status = color.YellowString(padRight(status, 10))
			}
			errText := ""
			if r.Error != nil {
				errText = faint.Sprintf(" (%s)", truncate(*r.Error, 60))
			}
			fmt.Fprintf(out, "%s %s %s %4d pages %6d records%s\n",
				faint.Sprint(r.ID.String()[:8]),
				faint.Sprint(r.StartedAt.Local().Format("2006-01-02 15:04")),
				status,
				r.Pages,
				r.Records,
				errText)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "max number of runs")
	rootCmd.AddCommand(runsCmd)
}
