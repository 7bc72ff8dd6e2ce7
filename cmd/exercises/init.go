// ABOUTME: CLI command that provisions the store schema.
// ABOUTME: Creates every table, seeds the two genders, and can write a starter config.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/exercises/internal/config"
	"github.com/spf13/cobra"
)

var initWriteConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the store schema",
	Long: `Create every catalog table and seed the male and female genders.

Running init on an existing store is a no-op. With --write-config the resolved
settings are saved to ~/.config/exercises/config.yaml unless that file exists.

EXAMPLES:

  exercises init
  exercises --driver mysql --dsn 'user:pass@tcp(localhost:3306)/exercises' init
  exercises init --write-config`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The store was provisioned when it was opened; provisioning again is harmless.
		if err := db.Provision(cmd.Context()); err != nil {
			return fmt.Errorf("failed to provision store: %w", err)
		}
		color.Green("✓ Store ready (%s at %s)", db.Dialect(), db.Location())

		if !initWriteConfig {
			return nil
		}
		path := config.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			color.Yellow("Config already exists at %s", path)
			return nil
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Wrote %s", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initWriteConfig, "write-config", false, "save the resolved settings as the config file")
	rootCmd.AddCommand(initCmd)
}
