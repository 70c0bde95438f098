package mcp

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/shellbook-mcp/internal/config"
	"github.com/dshills/shellbook-mcp/internal/highlight"
	"github.com/dshills/shellbook-mcp/internal/lens"
	"github.com/dshills/shellbook-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "shellbook-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DBFileName is the chunk index file inside the database directory
	DBFileName = "shellbook.db"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp        *server.MCPServer
	storage    storage.Storage
	config     config.Provider
	lenses     *lens.Provider
	highlights *highlight.Updater
	sink       *NotificationSink
	logger     *log.Logger
}

// NewServer creates a new MCP server instance. dbPath is the directory
// holding the chunk index; empty or "~"-prefixed paths resolve under the
// user's home directory.
func NewServer(dbPath string, cfg config.Provider, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg == nil {
		cfg = config.NewStatic(nil)
	}

	dir, err := expandDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	lenses, err := lens.NewProvider(cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize lens provider: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	sink := NewNotificationSink(mcpServer)

	s := &Server{
		mcp:        mcpServer,
		storage:    store,
		config:     cfg,
		lenses:     lenses,
		highlights: highlight.NewUpdater(lenses, sink, cfg, logger),
		sink:       sink,
		logger:     logger,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until ctx is cancelled
// or stdin is closed
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// Close releases the chunk index
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(scanChunksTool(), s.handleScanChunks)
	s.mcp.AddTool(codeLensesTool(), s.handleCodeLenses)
	s.mcp.AddTool(openDocumentTool(), s.handleOpenDocument)
	s.mcp.AddTool(getChunkTool(), s.handleGetChunk)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}

// expandDBPath resolves the default and "~" forms of the database directory
func expandDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	if dbPath != "~" && !strings.HasPrefix(dbPath, "~/") {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(dbPath, "~")), nil
}
