// ABOUTME: CLI command for exporting the stored catalog.
// ABOUTME: Supports JSON (full backup) and YAML (grouped by category) formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export the catalog",
	Long: `Export the stored catalog.

FORMATS:

  json   Every exercise in full plus the ingest run history
  yaml   Exercises grouped by primary category (human-readable)

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  exercises export json                  # Export everything as JSON
  exercises export json -o catalog.json  # Save to file
  exercises export yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = db.ExportJSON(cmd.Context())
		case "yaml":
			data, err = db.ExportYAML(cmd.Context())
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
