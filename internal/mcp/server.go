// Package mcp exposes the layout engine to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wintk/internal/config"
)

const (
	ServerName    = "wintk"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for Bix layout tooling. Every tool works on
// detached widgets, so no display connection is needed.
type Server struct {
	mcpServer *mcpsdk.Server
	logger    *slog.Logger

	mu     sync.RWMutex
	config *config.Config
}

// NewServer creates a new MCP server using cfg for layout defaults and presets.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{config: cfg, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// SetConfig swaps the configuration, e.g. after the file changed on disk.
func (s *Server) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	s.logger.Info("configuration reloaded", "presets", len(cfg.Presets))
}

func (s *Server) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "bix_parse",
		Description: "Check a Bix layout grammar. Returns the number of % placeholders and the normalized form, or the error with its line, column and byte offset. Grammar: X[...] row, Y[...] column, XY[...] or XY<n>[...] matrix, ';' ends a matrix row; prefix f/fx/fy to fill and e/ex/ey for even spacing.",
	}, s.handleParse)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "bix_measure",
		Description: "Compute the preferred size of a Bix layout given the preferred size of each placeholder widget.",
	}, s.handleMeasure)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "bix_arrange",
		Description: "Arrange a Bix layout into a rectangle and return the rectangle of every placeholder widget in order. The rectangle defaults to the measured size.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "grid_arrange",
		Description: "Tile a number of equal cells into an area using the grid layout modes (auto, fixed, vertical, horizontal, master-stack).",
	}, s.handleGrid)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_presets",
		Description: "List the configured Bix presets, including the built-in ones.",
	}, s.handleListPresets)
}
