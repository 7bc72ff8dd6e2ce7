// ABOUTME: MCP resource implementations for the exercise catalog.
// ABOUTME: Provides exercises://stats with per-table row counts and the latest run.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const statsURI = "exercises://stats"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "Catalog Statistics",
		Description: "Row count of every catalog table plus the most recent ingest run",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

func (s *Server) handleStatsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tables: %w", err)
	}

	runs, err := s.repo.ListRuns(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	tables := make(map[string]int64, len(stats))
	for _, st := range stats {
		tables[st.Table] = st.Rows
	}

	result := map[string]interface{}{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"tables":       tables,
	}
	if len(runs) > 0 {
		result["last_run"] = runs[0]
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      statsURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
