// ABOUTME: Tests for export functionality.
// ABOUTME: Verifies JSON and YAML export formats.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/exercises/internal/models"
	"gopkg.in/yaml.v3"
)

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedExercise(t, db, 1, "Barbell Curl", "Biceps", "Barbell")
	seedExercise(t, db, 2, "Push Up", "Chest", "Bodyweight")
	if err := db.CreateRun(ctx, models.NewIngestRun("http://example.test")); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	data, err := db.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if export.Tool != "exercises" {
		t.Errorf("Expected tool 'exercises', got %s", export.Tool)
	}
	if len(export.Exercises) != 2 {
		t.Fatalf("Expected 2 exercises, got %d", len(export.Exercises))
	}
	if export.Exercises[0].Name != "Barbell Curl" || len(export.Exercises[0].Muscles) != 1 {
		t.Errorf("unexpected first exercise: %+v", export.Exercises[0])
	}
	if len(export.Runs) != 1 {
		t.Errorf("Expected 1 run, got %d", len(export.Runs))
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedExercise(t, db, 1, "Barbell Curl", "Biceps", "Barbell")
	seedExercise(t, db, 2, "Squat", "Quads", "Barbell")

	data, err := db.ExportYAML(ctx)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed struct {
		Tool      string `yaml:"tool"`
		Exercises map[string][]struct {
			Name    string   `yaml:"name"`
			Muscles []string `yaml:"muscles"`
		} `yaml:"exercises"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if parsed.Tool != "exercises" {
		t.Errorf("Expected tool 'exercises', got %s", parsed.Tool)
	}
	barbell := parsed.Exercises["Barbell"]
	if len(barbell) != 2 {
		t.Fatalf("Expected 2 barbell exercises, got %d", len(barbell))
	}
	if barbell[0].Muscles[0] != "primary: Biceps" {
		t.Errorf("unexpected muscles: %v", barbell[0].Muscles)
	}
	if !strings.Contains(string(data), "exported_at:") {
		t.Error("YAML should carry exported_at")
	}
}

func TestExportEmpty(t *testing.T) {
	db := setupTestDB(t)

	data, err := db.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(export.Exercises) != 0 {
		t.Errorf("Expected no exercises, got %d", len(export.Exercises))
	}
}
