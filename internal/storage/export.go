// ABOUTME: Export of the stored catalog as JSON or YAML.
// ABOUTME: Exercises are assembled from the normalized tables; stub rows are left out.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/exercises/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for the catalog.
type ExportData struct {
	Version    string                   `json:"version" yaml:"version"`
	ExportedAt time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool       string                   `json:"tool" yaml:"tool"`
	Exercises  []*models.ExerciseDetail `json:"exercises" yaml:"exercises"`
	Runs       []*models.IngestRun      `json:"runs,omitempty" yaml:"runs,omitempty"`
}

// ExportData retrieves every fetched exercise and every run.
func (d *DB) ExportData(ctx context.Context) (*ExportData, error) {
	summaries, err := d.ListExercises(ctx, ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	exercises := make([]*models.ExerciseDetail, 0, len(summaries))
	for _, s := range summaries {
		ex, err := d.GetExercise(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("get exercise %d: %w", s.ID, err)
		}
		exercises = append(exercises, ex)
	}

	runs, err := d.ListRuns(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "exercises",
		Exercises:  exercises,
		Runs:       runs,
	}, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.ExportData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML, grouping exercises by primary category.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.ExportData(ctx)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                    `yaml:"version"`
		ExportedAt string                    `yaml:"exported_at"`
		Tool       string                    `yaml:"tool"`
		Exercises  map[string][]yamlExercise `yaml:"exercises"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Exercises:  make(map[string][]yamlExercise),
	}

	for _, ex := range data.Exercises {
		category := "uncategorized"
		for _, c := range ex.Categories {
			if c.Primary {
				category = c.Name
				break
			}
		}
		ye := yamlExercise{
			ID:         ex.ID,
			Name:       ex.Name,
			Slug:       ex.Slug,
			Difficulty: ex.Difficulty,
			Grips:      ex.Grips,
			Tags:       ex.SeoTags,
		}
		for _, m := range ex.Muscles {
			ye.Muscles = append(ye.Muscles, m.Role+": "+m.Name)
		}
		for _, s := range ex.Steps {
			ye.Steps = append(ye.Steps, s.Text)
		}
		yamlData.Exercises[category] = append(yamlData.Exercises[category], ye)
	}

	return yaml.Marshal(yamlData)
}

type yamlExercise struct {
	ID         int64    `yaml:"id"`
	Name       string   `yaml:"name"`
	Slug       string   `yaml:"slug"`
	Difficulty string   `yaml:"difficulty,omitempty"`
	Muscles    []string `yaml:"muscles,omitempty"`
	Grips      []string `yaml:"grips,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	Steps      []string `yaml:"steps,omitempty"`
}
