// ABOUTME: Root Cobra command for the exercises CLI.
// ABOUTME: Loads config, builds the logger and manages the store via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/exercises/internal/config"
	"github.com/harperreed/exercises/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg    *config.Config
	db     *storage.DB
	logger *log.Logger
)

// configFlags maps config keys onto the flags that override them, per command.
// A command sees its own entries and those of its parents.
var configFlags = map[*cobra.Command]map[string]string{}

var rootCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Exercise catalog ingester",
	Long: `Exercises pulls a paginated exercise catalog from a JSON API and stores it
in a normalized relational database.

QUICK START:

  $ exercises ingest                    # Fetch every page from the default offset
  $ exercises ingest --max-pages 2      # Stop after two pages
  $ exercises stats                     # Row count of every table
  $ exercises list --muscle biceps      # Find exercises
  $ exercises show 1050                 # Full detail for one exercise

STORAGE:

  SQLite by default at ~/.local/share/exercises/exercises.db. Postgres and
  MySQL are selected with --driver and --dsn:

  $ exercises --driver postgres --dsn postgres://localhost/exercises ingest

CONFIGURATION:

  Settings are read from ~/.config/exercises/config.yaml, then EXERCISES_*
  environment variables (EXERCISES_API_LIMIT, EXERCISES_STORE_DSN, ...),
  then flags.

PAGE ARCHIVE:

  With --archive fs|memory|badger|charm|s3 every fetched page is stored,
  and 'exercises ingest --replay' re-runs from the archive without network.

MCP INTEGRATION:

  Run 'exercises mcp' to serve the catalog to MCP-compatible assistants.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		switch cmd.Name() {
		case "help", "version", "completion":
			return nil
		}

		v := config.New()
		if err := bindFlags(v, cmd); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.Log.Level)
		if err != nil {
			return err
		}

		db, err = cfg.OpenStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		logger.Debug("store opened", "driver", db.Dialect(), "location", db.Location())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for c := cmd; c != nil; c = c.Parent() {
		for key, name := range configFlags[c] {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return nil
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "exercises",
		Level:           lvl,
	}), nil
}

func init() {
	rootCmd.PersistentFlags().String("driver", "", "store driver: sqlite, postgres or mysql")
	rootCmd.PersistentFlags().String("dsn", "", "store DSN (sqlite: file path)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	configFlags[rootCmd] = map[string]string{
		"store.driver": "driver",
		"store.dsn":    "dsn",
		"log.level":    "log-level",
	}
}
