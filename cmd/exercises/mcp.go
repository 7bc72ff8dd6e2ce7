// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server exposing the stored catalog read-only.
package main

import (
	"github.com/harperreed/exercises/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and only reads from the store.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "exercises": {
        "command": "exercises",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_exercise       Get one exercise in full
  search_exercises   Search by name, muscle or category
  list_runs          Recent ingest runs

AVAILABLE RESOURCES:

  exercises://stats  Row counts per table and the latest run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db)
		if err != nil {
			return err
		}
		// The root context is cancelled on SIGINT/SIGTERM.
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
