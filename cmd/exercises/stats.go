// ABOUTME: CLI command for table row counts.
// ABOUTME: Prints every catalog table with its number of rows.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts per table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		var total int64
		for _, s := range stats {
			line := fmt.Sprintf("%s %d", padRight(s.Table, 28), s.Rows)
			if s.Rows == 0 {
				line = faint.Sprint(line)
			}
			fmt.Fprintln(out, line)
			total += s.Rows
		}
		fmt.Fprintf(out, "%s %d\n", padRight("total", 28), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
