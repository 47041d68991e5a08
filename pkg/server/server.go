// Package server provides the MCP server that exposes the Google Maps and
// Open-Meteo tools over stdio.
package server

import (
	"log/slog"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/tools"
	"github.com/NERVsystems/mapsmcp/pkg/tools/prompts"
	"github.com/NERVsystems/mapsmcp/pkg/version"
	"github.com/mark3labs/mcp-go/server"
)

// Server encapsulates the MCP server with the maps tools and prompts.
type Server struct {
	srv      *server.MCPServer
	registry *tools.Registry
	logger   *slog.Logger
}

// NewServer creates a new MCP server with all tools and prompts registered.
// cfg must already be validated.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	logger.Info("initializing Google Maps MCP server",
		"name", version.Name,
		"version", version.BuildVersion)

	srv := server.NewMCPServer(
		version.Name,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	svc := tools.NewServiceFromConfig(cfg, logger)
	registry := tools.NewRegistry(svc, logger)
	registry.RegisterTools(srv)
	prompts.RegisterPrompts(srv)

	return &Server{srv: srv, registry: registry, logger: logger}, nil
}

// Registry returns the tool registry, for one-shot dispatch outside MCP.
func (s *Server) Registry() *tools.Registry {
	return s.registry
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.srv
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	s.logger.Info("server initialized, waiting for requests")
	return server.ServeStdio(s.srv)
}
