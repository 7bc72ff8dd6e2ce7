// ABOUTME: CLI command that prints one stored exercise in full.
// ABOUTME: Shows descriptors, muscles by role, categories, steps and video URLs.
package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/exercises/internal/models"
	"github.com/harperreed/exercises/internal/storage"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an exercise",
	Long: `Show everything stored for one exercise.

An exercise that is only known as the target of another exercise's
variation_of is shown as a stub.

EXAMPLES:

  exercises show 1050`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid exercise id: %s", args[0])
		}

		ex, err := db.GetExercise(cmd.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("exercise not found: %d", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}

		printExercise(cmd.OutOrStdout(), ex)
		return nil
	},
}

func printExercise(out io.Writer, ex *models.ExerciseDetail) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	if ex.Stub {
		fmt.Fprintf(out, "%s %s\n", bold.Sprintf("#%d", ex.ID), faint.Sprint("(stub: referenced as a variation, not yet fetched)"))
		return
	}

	fmt.Fprintf(out, "%s %s\n", bold.Sprintf("#%d %s", ex.ID, ex.Name), faint.Sprint(ex.Slug))
	if ex.NameAlternative != "" {
		fmt.Fprintf(out, "  also: %s\n", ex.NameAlternative)
	}

	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint(padRight(label+":", 12)), value)
		}
	}
	field("status", ex.Status)
	field("difficulty", ex.Difficulty)
	field("force", ex.Force)
	field("mechanic", ex.Mechanic)
	if ex.VariationOf != nil {
		field("variation", fmt.Sprintf("of #%d", *ex.VariationOf))
	}
	if ex.Weight != nil {
		field("weight", strconv.FormatFloat(*ex.Weight, 'f', -1, 64))
	}
	if ex.Impact != nil {
		field("impact", strconv.FormatFloat(*ex.Impact, 'f', -1, 64))
	}
	if ex.NeedWarmup {
		field("warmup", "needed")
	}

	for _, role := range []string{models.RolePrimary, models.RoleSecondary, models.RoleTertiary, models.RoleGeneral} {
		muscles := ex.MusclesByRole(role)
		if len(muscles) == 0 {
			continue
		}
		names := make([]string, len(muscles))
		for i, m := range muscles {
			names[i] = m.Name
		}
		field(role, strings.Join(names, ", "))
	}

	if len(ex.Categories) > 0 {
		names := make([]string, len(ex.Categories))
		for i, c := range ex.Categories {
			names[i] = c.Name
			if c.Primary {
				names[i] += "*"
			}
		}
		field("categories", strings.Join(names, ", "))
	}
	field("grips", strings.Join(ex.Grips, ", "))
	field("tags", strings.Join(ex.SeoTags, ", "))

	if ex.Description != "" {
		fmt.Fprintf(out, "\n%s\n", ex.Description)
	}

	if len(ex.Steps) > 0 {
		fmt.Fprintln(out)
		for _, s := range ex.Steps {
			fmt.Fprintf(out, "  %d. %s\n", s.Order, s.Text)
		}
	}

	printURLs(out, "videos", ex.URLs)
	printURLs(out, "target", ex.TargetURLs)
}

func printURLs(out io.Writer, label string, urls map[string]string) {
	if len(urls) == 0 {
		return
	}
	genders := make([]string, 0, len(urls))
	for g := range urls {
		genders = append(genders, g)
	}
	sort.Strings(genders)

	fmt.Fprintf(out, "\n  %s:\n", label)
	for _, g := range genders {
		fmt.Fprintf(out, "    %s %s\n", padRight(g, 8), urls[g])
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
