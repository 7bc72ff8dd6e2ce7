// ABOUTME: CLI command for listing stored exercises.
// ABOUTME: Supports filtering by name, muscle and category and limiting results.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/exercises/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listSearch   string
	listMuscle   string
	listCategory string
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List stored exercises",
	Long: `List exercises from the store, ordered by name.

OUTPUT FORMAT:

  Each line shows: ID  NAME  DIFFICULTY  CATEGORY

  Exercises only known as a variation target are not listed until their
  own record has been ingested.

FILTERING:

  All filters are case-insensitive substring matches.

EXAMPLES:

  exercises list                        # First 20 exercises
  exercises list --search curl          # Name or slug contains "curl"
  exercises list --muscle biceps -n 50  # Exercises hitting the biceps
  exercises list --category barbell`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := db.ListExercises(cmd.Context(), storage.ListFilter{
			Search:   listSearch,
			Muscle:   listMuscle,
			Category: listCategory,
			Limit:    listLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			fmt.Fprintln(out, "No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range exercises {
			fmt.Fprintf(out, "%s %s %s %s\n",
				faint.Sprint(padRight(fmt.Sprint(e.ID), 6)),
				padRight(truncate(e.Name, 40), 40),
				padRight(e.Difficulty, 12),
				faint.Sprint(e.Category))
		}

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by name or slug")
	listCmd.Flags().StringVarP(&listMuscle, "muscle", "m", "", "filter by muscle name")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "filter by category name")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
