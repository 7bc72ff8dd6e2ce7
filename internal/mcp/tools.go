// ABOUTME: MCP tool implementations for the exercise catalog.
// ABOUTME: Provides lookup and search over exercises and the ingest run history.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/exercises/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_exercise",
		Description: "Get an exercise with its muscles, categories, steps and video URLs",
	}, s.handleGetExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_exercises",
		Description: "Search exercises by name, muscle or category",
	}, s.handleSearchExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_runs",
		Description: "List recent ingest runs, newest first",
	}, s.handleListRuns)
}

// Tool input types

type getExerciseInput struct {
	ID int64 `json:"id" jsonschema:"exercise id"`
}

type searchExercisesInput struct {
	Query    string `json:"query,omitempty" jsonschema:"substring of the exercise name"`
	Muscle   string `json:"muscle,omitempty" jsonschema:"substring of an attached muscle name"`
	Category string `json:"category,omitempty" jsonschema:"substring of an attached category name"`
	Limit    int    `json:"limit,omitempty" jsonschema:"max results (default 20)"`
}

type listRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"max results (default 10)"`
}

// Tool handlers

func (s *Server) handleGetExercise(ctx context.Context, req *mcp.CallToolRequest, input getExerciseInput) (*mcp.CallToolResult, any, error) {
	if input.ID <= 0 {
		return nil, nil, fmt.Errorf("invalid exercise id: %d", input.ID)
	}

	ex, err := s.repo.GetExercise(ctx, input.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("exercise not found: %d", input.ID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get exercise: %w", err)
	}

	return nil, ex, nil
}

func (s *Server) handleSearchExercises(ctx context.Context, req *mcp.CallToolRequest, input searchExercisesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	exercises, err := s.repo.ListExercises(ctx, storage.ListFilter{
		Search:   input.Query,
		Muscle:   input.Muscle,
		Category: input.Category,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search exercises: %w", err)
	}

	if len(exercises) == 0 {
		return nil, map[string]interface{}{"message": "No exercises found."}, nil
	}

	return nil, map[string]interface{}{
		"count":     len(exercises),
		"exercises": exercises,
	}, nil
}

func (s *Server) handleListRuns(ctx context.Context, req *mcp.CallToolRequest, input listRunsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 10
	}

	runs, err := s.repo.ListRuns(ctx, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		return nil, map[string]interface{}{"message": "No ingest runs recorded."}, nil
	}

	return nil, map[string]interface{}{"runs": runs}, nil
}
