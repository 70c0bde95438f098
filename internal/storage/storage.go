package storage

import (
	"context"
	"time"

	"github.com/dshills/shellbook-mcp/pkg/types"
)

// Storage defines the interface for persisting scanned documents and their chunks
type Storage interface {
	// Document operations
	UpsertDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, uri string) (*Document, error)
	GetDocumentByID(ctx context.Context, documentID int64) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	DeleteDocument(ctx context.Context, documentID int64) error

	// Chunk operations
	ReplaceChunks(ctx context.Context, documentID int64, chunks []*Chunk) error
	ListChunks(ctx context.Context, documentID int64) ([]*Chunk, error)
	FindChunk(ctx context.Context, documentID int64, title string) (*Chunk, error)
	FindChunkAtLine(ctx context.Context, documentID int64, line int) (*Chunk, error)

	// Status operations
	GetStatus(ctx context.Context) (*IndexStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Document is a scanned shell script
type Document struct {
	ID          int64
	URI         string
	LanguageID  string
	ContentHash [32]byte
	LineCount   int
	ChunkCount  int
	ScannedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chunk is a stored matched chunk with its text
type Chunk struct {
	ID         int64
	DocumentID int64
	PairID     string
	Title      string
	StartLine  int
	EndLine    int
	Content    string
	CreatedAt  time.Time
}

// IndexStatus contains statistics about the chunk index
type IndexStatus struct {
	DocumentsCount int
	ChunksCount    int
	IndexSizeBytes int64
	LastScannedAt  time.Time
	SchemaVersion  string
}

// ToMatchedChunk converts a stored chunk to its scan form
func (c *Chunk) ToMatchedChunk() types.MatchedChunk {
	return types.MatchedChunk{
		PairID:    c.PairID,
		StartLine: c.StartLine,
		EndLine:   c.EndLine,
		Title:     c.Title,
	}
}

// FromMatchedChunk builds a storage chunk from a scan result
func FromMatchedChunk(mc types.MatchedChunk, documentID int64, content string) *Chunk {
	return &Chunk{
		DocumentID: documentID,
		PairID:     mc.PairID,
		Title:      mc.Title,
		StartLine:  mc.StartLine,
		EndLine:    mc.EndLine,
		Content:    content,
	}
}
