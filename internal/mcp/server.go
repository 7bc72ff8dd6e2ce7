// ABOUTME: MCP server setup for the exercise catalog.
// ABOUTME: Wraps the MCP server around a read-only storage connection.
package mcp

import (
	"context"

	"github.com/harperreed/exercises/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Reader
}

// NewServer creates a new MCP server over the given catalog reader.
func NewServer(repo storage.Reader) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "exercises",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
