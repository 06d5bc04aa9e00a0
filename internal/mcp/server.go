// Package mcp exposes the database layer over the Model Context Protocol.
//
// The server speaks MCP over stdio: tools for query execution and schema
// introspection, resource templates for table and hypertable layouts, and
// prompts that guide a client through common workflows. Log output goes to
// stderr; stdout belongs to the protocol.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/export"
)

// Config identifies the server to MCP clients.
type Config struct {
	Name    string
	Version string
}

// Server wires the database layer and the optional export sink into an MCP
// server.
type Server struct {
	mcp *server.MCPServer
	db  database.DB
	exp *export.Exporter
	cfg Config
	log zerolog.Logger
}

// New assembles the MCP server and registers every tool, resource template
// and prompt. exp may be nil; the export_query tool is then not offered.
func New(db database.DB, exp *export.Exporter, cfg Config, log zerolog.Logger) *Server {
	s := &Server{
		db:  db,
		exp: exp,
		cfg: cfg,
		log: log,
	}

	s.mcp = server.NewMCPServer(cfg.Name, cfg.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio serves MCP over stdin/stdout until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.log.Info().
		Str("name", s.cfg.Name).
		Str("version", s.cfg.Version).
		Bool("export_enabled", s.exp != nil).
		Msg("mcp server listening on stdio")

	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
