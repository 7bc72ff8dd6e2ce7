// ABOUTME: Repository interfaces for the exercise catalog store.
// ABOUTME: Separates the read side used by query surfaces from ingestion writes.
package storage

import (
	"context"

	"github.com/harperreed/exercises/internal/models"
)

// Reader defines the read-only catalog operations.
// This interface allows swapping implementations (e.g., for testing).
type Reader interface {
	Stats(ctx context.Context) ([]models.TableCount, error)
	GetExercise(ctx context.Context, id int64) (*models.ExerciseDetail, error)
	ListExercises(ctx context.Context, filter ListFilter) ([]*models.ExerciseSummary, error)
	ListRuns(ctx context.Context, limit int) ([]*models.IngestRun, error)
}

// Repository is the full catalog store.
type Repository interface {
	Reader

	// Ingestion
	Begin(ctx context.Context) (*Tx, error)
	CreateRun(ctx context.Context, run *models.IngestRun) error
	FinishRun(ctx context.Context, run *models.IngestRun) error

	// Export
	ExportJSON(ctx context.Context) ([]byte, error)
	ExportYAML(ctx context.Context) ([]byte, error)

	// Lifecycle
	Provision(ctx context.Context) error
	Close() error
}

var _ Repository = (*DB)(nil)
