// ABOUTME: CLI command for copying the store into another database.
// ABOUTME: Moves a catalog between SQLite, Postgres and MySQL without re-fetching.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/exercises/internal/config"
	"github.com/harperreed/exercises/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateToDriver string
	migrateToDSN    string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the store into another database",
	Long: `Copy every table of the current store into another database.

The target is provisioned first. Rows whose key already exists in the
target are left untouched, so an interrupted copy can simply be re-run.

EXAMPLES:

  exercises migrate --to-driver postgres --to-dsn postgres://localhost/exercises
  exercises migrate --to-driver sqlite --to-dsn ~/backup/exercises.db
  exercises --driver mysql --dsn 'u:p@tcp(db:3306)/ex' migrate --to-driver sqlite --to-dsn ex.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dst, err := storage.Open(ctx, migrateToDriver, config.ExpandPath(migrateToDSN))
		if err != nil {
			return fmt.Errorf("failed to open target store: %w", err)
		}
		defer func() { _ = dst.Close() }()

		if dst.Location() == db.Location() && dst.Dialect() == db.Dialect() {
			return fmt.Errorf("source and target are the same store")
		}

		summary, err := storage.CopyTables(ctx, db, dst)
		if err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}

		if summary.Total == 0 {
			color.Yellow("Source store is empty; nothing copied.")
			return nil
		}
		color.Green("✓ Copied %d rows from %s to %s", summary.Total, db.Dialect(), dst.Dialect())
		out := cmd.OutOrStdout()
		for _, t := range summary.Tables {
			if t.Rows > 0 {
				fmt.Fprintf(out, "  %s %d\n", padRight(t.Table, 28), t.Rows)
			}
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateToDriver, "to-driver", "sqlite", "target driver: sqlite, postgres or mysql")
	migrateCmd.Flags().StringVar(&migrateToDSN, "to-dsn", "", "target DSN (sqlite: file path)")
	_ = migrateCmd.MarkFlagRequired("to-dsn")
	rootCmd.AddCommand(migrateCmd)
}
