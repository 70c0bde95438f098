package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/shellbook-mcp/pkg/types"
)

// Scan is the outcome of scanning one document, ready to be recorded.
// ContentHash identifies what was scanned; callers fold the marker
// configuration into it so a config change forces a re-record.
type Scan struct {
	URI         string
	LanguageID  string
	ContentHash [32]byte
	Lines       []string
	Chunks      []types.MatchedChunk
}

// RecordResult reports what RecordScan did
type RecordResult struct {
	Document *Document
	Skipped  bool
}

// RecordScan stores a scan and its chunks in one transaction.
// A document whose stored hash equals the scan's hash is left untouched.
// extract returns the text of a chunk from the scanned lines.
func RecordScan(ctx context.Context, s Storage, scan *Scan, extract func([]string, types.MatchedChunk) string) (*RecordResult, error) {
	existing, err := s.GetDocument(ctx, scan.URI)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("failed to look up document: %w", err)
	}
	if existing != nil && existing.ContentHash == scan.ContentHash {
		return &RecordResult{Document: existing, Skipped: true}, nil
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	doc := &Document{
		URI:         scan.URI,
		LanguageID:  scan.LanguageID,
		ContentHash: scan.ContentHash,
		LineCount:   len(scan.Lines),
		ChunkCount:  len(scan.Chunks),
		ScannedAt:   time.Now(),
	}
	if err := tx.UpsertDocument(ctx, doc); err != nil {
		return nil, err
	}

	chunks := make([]*Chunk, 0, len(scan.Chunks))
	for _, mc := range scan.Chunks {
		chunks = append(chunks, FromMatchedChunk(mc, doc.ID, extract(scan.Lines, mc)))
	}
	if err := tx.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scan: %w", err)
	}
	return &RecordResult{Document: doc}, nil
}
