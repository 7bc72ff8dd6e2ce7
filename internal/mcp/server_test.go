// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and the stats resource.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/exercises/internal/models"
	"github.com/harperreed/exercises/internal/normalize"
	"github.com/harperreed/exercises/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "exercises.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// seed normalizes and stores the given raw records.
func seed(t *testing.T, db *storage.DB, raws ...string) {
	t.Helper()
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *storage.Tx) error {
		for _, raw := range raws {
			var rec models.Exercise
			if err := json.Unmarshal([]byte(raw), &rec); err != nil {
				return err
			}
			writes, err := normalize.Exercise(&rec)
			if err != nil {
				return err
			}
			if err := tx.Apply(ctx, writes...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

const (
	squatRecord = `{
		"id": 1,
		"name": "Barbell Squat",
		"slug": "barbell-squat",
		"difficulty": {"id": 2, "name": "Intermediate"},
		"category": {"id": 1, "name": "Barbell"},
		"muscles_primary": [{"id": 10, "name": "Quads"}],
		"correct_steps": [{"id": 100, "order": 1, "text": "Brace"}]
	}`
	curlRecord = `{
		"id": 2,
		"name": "Dumbbell Curl",
		"slug": "dumbbell-curl",
		"category": {"id": 3, "name": "Dumbbells"},
		"muscles_primary": [{"id": 11, "name": "Biceps"}]
	}`
)

func TestNewServer(t *testing.T) {
	db := setupTestDB(t)

	server, err := NewServer(db)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
}

func TestHandleGetExercise(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, squatRecord)
	server, _ := NewServer(db)
	ctx := context.Background()

	tests := []struct {
		name      string
		id        int64
		wantErr   bool
		errSubstr string
	}{
		{name: "existing exercise", id: 1},
		{name: "missing exercise", id: 99, wantErr: true, errSubstr: "not found"},
		{name: "invalid id", id: 0, wantErr: true, errSubstr: "invalid exercise id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleGetExercise(ctx, &mcp.CallToolRequest{}, getExerciseInput{ID: tt.id})

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Expected error containing %q, got %q", tt.errSubstr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			ex, ok := output.(*models.ExerciseDetail)
			if !ok {
				t.Fatalf("Expected *models.ExerciseDetail, got %T", output)
			}
			if ex.Name != "Barbell Squat" || ex.Difficulty != "Intermediate" {
				t.Errorf("unexpected exercise: %+v", ex)
			}
			if len(ex.Steps) != 1 || ex.Steps[0].Text != "Brace" {
				t.Errorf("expected one step, got %+v", ex.Steps)
			}
		})
	}
}

func TestHandleSearchExercises(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, squatRecord, curlRecord)
	server, _ := NewServer(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		input searchExercisesInput
		want  []string
	}{
		{name: "no filter", input: searchExercisesInput{}, want: []string{"Barbell Squat", "Dumbbell Curl"}},
		{name: "by name", input: searchExercisesInput{Query: "CURL"}, want: []string{"Dumbbell Curl"}},
		{name: "by muscle", input: searchExercisesInput{Muscle: "quad"}, want: []string{"Barbell Squat"}},
		{name: "by category", input: searchExercisesInput{Category: "dumbbell"}, want: []string{"Dumbbell Curl"}},
		{name: "limit", input: searchExercisesInput{Limit: 1}, want: []string{"Barbell Squat"}},
		{name: "no match", input: searchExercisesInput{Query: "deadlift"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleSearchExercises(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			result, ok := output.(map[string]interface{})
			if !ok {
				t.Fatalf("Expected map output, got %T", output)
			}

			if len(tt.want) == 0 {
				if result["message"] != "No exercises found." {
					t.Errorf("Expected no-results message, got %v", result)
				}
				return
			}

			exercises, ok := result["exercises"].([]*models.ExerciseSummary)
			if !ok {
				t.Fatalf("Expected exercises slice, got %T", result["exercises"])
			}
			var names []string
			for _, e := range exercises {
				names = append(names, e.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", names, tt.want)
			}
			if result["count"] != len(tt.want) {
				t.Errorf("count = %v, want %d", result["count"], len(tt.want))
			}
		})
	}
}

func TestHandleListRuns(t *testing.T) {
	db := setupTestDB(t)
	server, _ := NewServer(db)
	ctx := context.Background()

	_, output, err := server.handleListRuns(ctx, &mcp.CallToolRequest{}, listRunsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result := output.(map[string]interface{}); result["message"] != "No ingest runs recorded." {
		t.Errorf("Expected empty message, got %v", result)
	}

	run := models.NewIngestRun("https://example.test/ex/?limit=50")
	if err := db.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	run.Pages = 2
	run.Records = 100
	run.Finish(nil)
	if err := db.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	_, output, err = server.handleListRuns(ctx, &mcp.CallToolRequest{}, listRunsInput{Limit: 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	runs, ok := output.(map[string]interface{})["runs"].([]*models.IngestRun)
	if !ok || len(runs) != 1 {
		t.Fatalf("Expected one run, got %v", output)
	}
	if runs[0].ID != run.ID || runs[0].Status != models.RunCompleted || runs[0].Records != 100 {
		t.Errorf("unexpected run: %+v", runs[0])
	}
}

func TestHandleStatsResource(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, squatRecord, curlRecord)
	server, _ := NewServer(db)
	ctx := context.Background()

	result, err := server.handleStatsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleStatsResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected 1 content, got %d", len(result.Contents))
	}

	content := result.Contents[0]
	if content.URI != "exercises://stats" {
		t.Errorf("Expected URI exercises://stats, got %s", content.URI)
	}
	if content.MIMEType != "application/json" {
		t.Errorf("Expected application/json, got %s", content.MIMEType)
	}

	var payload struct {
		Tables  map[string]int64 `json:"tables"`
		LastRun *json.RawMessage `json:"last_run"`
	}
	if err := json.Unmarshal([]byte(content.Text), &payload); err != nil {
		t.Fatalf("Failed to parse stats JSON: %v", err)
	}
	if payload.Tables["exercises"] != 2 {
		t.Errorf("Expected 2 exercises, got %d", payload.Tables["exercises"])
	}
	if payload.Tables["genders"] != 2 {
		t.Errorf("Expected seeded genders, got %d", payload.Tables["genders"])
	}
	if len(payload.Tables) != len(storage.Schema) {
		t.Errorf("Expected %d tables, got %d", len(storage.Schema), len(payload.Tables))
	}
	if payload.LastRun != nil {
		t.Error("Expected no last_run before any ingest")
	}
}
