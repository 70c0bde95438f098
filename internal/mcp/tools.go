package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/shellbook-mcp/internal/chunker"
	"github.com/dshills/shellbook-mcp/internal/document"
	"github.com/dshills/shellbook-mcp/internal/highlight"
	"github.com/dshills/shellbook-mcp/internal/lens"
	"github.com/dshills/shellbook-mcp/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeDocumentNotFound = -32001 // Path does not name a readable file
	ErrorCodeChunkNotFound    = -32002 // No chunk matches the title or line
)

// defaultInlineURI names inline text that came without a uri
const defaultInlineURI = "untitled:shellbook"

// handleScanChunks handles the scan_chunks tool invocation
func (s *Server) handleScanChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := sourceFromArgs(request)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	analysis, err := s.lenses.Analyze(ctx, src)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "scan failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	recorded, err := s.record(ctx, analysis)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to record scan", map[string]interface{}{
			"error": err.Error(),
		})
	}

	chunks := make([]map[string]interface{}, 0, len(analysis.Chunks))
	for _, c := range analysis.Chunks {
		chunks = append(chunks, map[string]interface{}{
			"pair_id":    c.PairID,
			"title":      c.Title,
			"start_line": c.StartLine,
			"end_line":   c.EndLine,
			"range":      lens.RangeOf(analysis.Lines, c, document.LineLength),
		})
	}

	response := map[string]interface{}{
		"uri":          analysis.URI,
		"language_id":  analysis.LanguageID,
		"line_count":   len(analysis.Lines),
		"chunks":       chunks,
		"cache_hit":    analysis.CacheHit,
		"index_update": !recorded.Skipped,
		"duration_ms":  time.Since(start).Milliseconds(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCodeLenses handles the code_lenses tool invocation
func (s *Server) handleCodeLenses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := sourceFromArgs(request)
	if err != nil {
		return nil, err
	}

	analysis, err := s.lenses.Analyze(ctx, src)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "scan failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if getBoolDefault(request.GetArguments(), "publish", false) {
		if err := s.sink.RenderLenses(ctx, analysis.URI, analysis.Lenses); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to publish lenses", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	response := map[string]interface{}{
		"uri":    analysis.URI,
		"lenses": toLensPayloads(analysis.Lenses),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleOpenDocument handles the open_document tool invocation. It is the
// active-editor-changed event: the shell context flag and chunk highlights
// follow the document, and shell documents also get their lenses.
func (s *Server) handleOpenDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := sourceFromArgs(request)
	if err != nil {
		return nil, err
	}

	// Highlights and lenses are independent; concurrent scans of the same
	// content collapse into one in the lens provider
	shell := src.LanguageID() == document.LanguageShellScript
	var result *highlight.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.highlights.Update(gctx, src)
		if err != nil {
			return fmt.Errorf("highlight update failed: %w", err)
		}
		result = r
		return nil
	})
	if shell {
		g.Go(func() error {
			if err := s.lenses.Publish(gctx, src, s.sink); err != nil {
				return fmt.Errorf("failed to publish lenses: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to open document", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"uri":              src.URI(),
		"is_shell_script":  result.ShellScript,
		"attempts":         result.Attempts,
		"ranges":           result.Ranges,
		"highlighted":      result.Rendered,
		"lenses_published": shell,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetChunk handles the get_chunk tool invocation
func (s *Server) handleGetChunk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title := getStringDefault(args, "title", "")
	line := getIntDefault(args, "line", -1)
	if title == "" && line < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "title or line parameter is required", map[string]interface{}{
			"param":  "title",
			"reason": "missing or empty",
		})
	}

	src, err := sourceFromArgs(request)
	if err != nil {
		return nil, err
	}

	analysis, err := s.lenses.Analyze(ctx, src)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "scan failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	recorded, err := s.record(ctx, analysis)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to record scan", map[string]interface{}{
			"error": err.Error(),
		})
	}

	var chunk *storage.Chunk
	if title != "" {
		chunk, err = s.storage.FindChunk(ctx, recorded.Document.ID, title)
	} else {
		chunk, err = s.storage.FindChunkAtLine(ctx, recorded.Document.ID, line)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeChunkNotFound, "chunk not found", map[string]interface{}{
			"uri":   analysis.URI,
			"title": title,
			"line":  line,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to look up chunk", map[string]interface{}{
			"error": err.Error(),
		})
	}

	text := chunk.Content
	if !getBoolDefault(args, "include_markers", true) {
		text = chunker.Body(analysis.Lines, chunk.ToMatchedChunk())
	}

	response := map[string]interface{}{
		"uri":        analysis.URI,
		"pair_id":    chunk.PairID,
		"title":      chunk.Title,
		"start_line": chunk.StartLine,
		"end_line":   chunk.EndLine,
		"text":       text,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	settings, err := s.config.Settings()
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load settings", map[string]interface{}{
			"error": err.Error(),
		})
	}

	lastScanned := "never"
	if !status.LastScannedAt.IsZero() {
		lastScanned = humanize.Time(status.LastScannedAt)
	}

	cache := s.lenses.Stats()

	// Format response
	response := map[string]interface{}{
		"statistics": map[string]interface{}{
			"documents_count": status.DocumentsCount,
			"chunks_count":    status.ChunksCount,
			"index_size":      humanize.Bytes(uint64(status.IndexSizeBytes)),
			"last_scanned":    lastScanned,
			"schema_version":  status.SchemaVersion,
		},
		"cache": map[string]interface{}{
			"hits":    cache.Hits,
			"misses":  cache.Misses,
			"entries": cache.Entries,
		},
		"settings": map[string]interface{}{
			"chunk_config":     settings.ChunkConfig,
			"toggles":          settings.Toggles,
			"background_color": settings.BackgroundColor,
			"retry_delay_ms":   settings.RetryDelay.Milliseconds(),
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// record stores an analysis in the chunk index
func (s *Server) record(ctx context.Context, a *lens.Analysis) (*storage.RecordResult, error) {
	return storage.RecordScan(ctx, s.storage, &storage.Scan{
		URI:         a.URI,
		LanguageID:  a.LanguageID,
		ContentHash: a.ScanKey,
		Lines:       a.Lines,
		Chunks:      a.Chunks,
	}, chunker.Extract)
}

// Helper functions

// sourceFromArgs builds the document named by the request: inline text when
// present, otherwise the file at path
func sourceFromArgs(request mcp.CallToolRequest) (document.TextSource, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	if text, ok := args["text"].(string); ok {
		uri := getStringDefault(args, "uri", defaultInlineURI)
		lang := getStringDefault(args, "language_id", document.LanguageShellScript)
		return document.NewMemory(uri, lang, text), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path or text parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		code := ErrorCodeInvalidParams
		if errors.Is(err, ErrPathNotFound) {
			code = ErrorCodeDocumentNotFound
		}
		return nil, newMCPError(code, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	f, err := document.NewFile(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeDocumentNotFound, "failed to open document", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	return f, nil
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that path is an absolute, readable regular file
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	// Check if path is absolute
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	// Check if path exists
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if info.IsDir() {
		return ErrIsDirectory
	}

	// Check if file is readable
	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrIsDirectory     = errors.New("path is a directory")
)
