package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// Document operations

const documentColumns = `id, uri, language_id, content_hash, line_count, chunk_count,
		       scanned_at, created_at, updated_at`

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	var hash []byte
	var scannedAt sql.NullTime
	err := row.Scan(
		&doc.ID, &doc.URI, &doc.LanguageID, &hash, &doc.LineCount, &doc.ChunkCount,
		&scannedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(doc.ContentHash[:], hash)
	if scannedAt.Valid {
		doc.ScannedAt = scannedAt.Time
	}
	return &doc, nil
}

func upsertDocument(ctx context.Context, q querier, doc *Document) error {
	query := `
		INSERT INTO documents (uri, language_id, content_hash, line_count, chunk_count, scanned_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uri) DO UPDATE SET
			language_id = excluded.language_id,
			content_hash = excluded.content_hash,
			line_count = excluded.line_count,
			chunk_count = excluded.chunk_count,
			scanned_at = excluded.scanned_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	if doc.ScannedAt.IsZero() {
		doc.ScannedAt = now
	}
	err := q.QueryRowContext(ctx, query,
		doc.URI, doc.LanguageID, doc.ContentHash[:], doc.LineCount, doc.ChunkCount,
		doc.ScannedAt, now, now).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	doc.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertDocument(ctx context.Context, doc *Document) error {
	return upsertDocument(ctx, s.db, doc)
}

func getDocument(ctx context.Context, q querier, uri string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE uri = ?`
	doc, err := scanDocument(q.QueryRowContext(ctx, query, uri))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return doc, err
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, uri string) (*Document, error) {
	return getDocument(ctx, s.db, uri)
}

func getDocumentByID(ctx context.Context, q querier, documentID int64) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	doc, err := scanDocument(q.QueryRowContext(ctx, query, documentID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return doc, err
}

func (s *SQLiteStorage) GetDocumentByID(ctx context.Context, documentID int64) (*Document, error) {
	return getDocumentByID(ctx, s.db, documentID)
}

func listDocuments(ctx context.Context, q querier) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY uri`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	return listDocuments(ctx, s.db)
}

func deleteDocument(ctx context.Context, q querier, documentID int64) error {
	result, err := q.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteDocument(ctx context.Context, documentID int64) error {
	return deleteDocument(ctx, s.db, documentID)
}

// Chunk operations

const chunkColumns = `id, document_id, pair_id, title, start_line, end_line, content, created_at`

func scanChunk(row rowScanner) (*Chunk, error) {
	var c Chunk
	err := row.Scan(&c.ID, &c.DocumentID, &c.PairID, &c.Title, &c.StartLine, &c.EndLine, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// replaceChunks deletes a document's chunks and inserts the new set
func replaceChunks(ctx context.Context, q querier, documentID int64, chunks []*Chunk) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	query := `
		INSERT INTO chunks (document_id, pair_id, title, start_line, end_line, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	now := time.Now()
	for _, c := range chunks {
		c.DocumentID = documentID
		err := q.QueryRowContext(ctx, query,
			documentID, c.PairID, c.Title, c.StartLine, c.EndLine, c.Content, now).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %q: %w", c.Title, err)
		}
		c.CreatedAt = now
	}
	return nil
}

// ReplaceChunks swaps a document's chunks atomically
func (s *SQLiteStorage) ReplaceChunks(ctx context.Context, documentID int64, chunks []*Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceChunks(ctx, tx, documentID, chunks); err != nil {
		return err
	}
	return tx.Commit()
}

func listChunks(ctx context.Context, q querier, documentID int64) ([]*Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE document_id = ? ORDER BY end_line, start_line`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks := make([]*Chunk, 0)
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStorage) ListChunks(ctx context.Context, documentID int64) ([]*Chunk, error) {
	return listChunks(ctx, s.db, documentID)
}

// findChunk returns the first chunk with the title in document order
func findChunk(ctx context.Context, q querier, documentID int64, title string) (*Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE document_id = ? AND title = ? ORDER BY end_line LIMIT 1`
	c, err := scanChunk(q.QueryRowContext(ctx, query, documentID, title))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStorage) FindChunk(ctx context.Context, documentID int64, title string) (*Chunk, error) {
	return findChunk(ctx, s.db, documentID, title)
}

// findChunkAtLine returns the innermost chunk covering line
func findChunkAtLine(ctx context.Context, q querier, documentID int64, line int) (*Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks
		WHERE document_id = ? AND start_line <= ? AND end_line >= ?
		ORDER BY (end_line - start_line), start_line DESC LIMIT 1`
	c, err := scanChunk(q.QueryRowContext(ctx, query, documentID, line, line))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStorage) FindChunkAtLine(ctx context.Context, documentID int64, line int) (*Chunk, error) {
	return findChunkAtLine(ctx, s.db, documentID, line)
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*IndexStatus, error) {
	status := &IndexStatus{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&status.DocumentsCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&status.ChunksCount); err != nil {
		return nil, err
	}

	var lastScanned sql.NullTime
	err := s.db.QueryRowContext(ctx, "SELECT scanned_at FROM documents ORDER BY scanned_at DESC LIMIT 1").Scan(&lastScanned)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if lastScanned.Valid {
		status.LastScannedAt = lastScanned.Time
	}

	// Calculate database size
	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeBytes = pageCount * pageSize
	}

	version, err := SchemaVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version

	return status, nil
}

// Transaction implementations

func (t *sqliteTx) UpsertDocument(ctx context.Context, doc *Document) error {
	return upsertDocument(ctx, t.tx, doc)
}

func (t *sqliteTx) GetDocument(ctx context.Context, uri string) (*Document, error) {
	return getDocument(ctx, t.tx, uri)
}

func (t *sqliteTx) GetDocumentByID(ctx context.Context, documentID int64) (*Document, error) {
	return getDocumentByID(ctx, t.tx, documentID)
}

func (t *sqliteTx) ListDocuments(ctx context.Context) ([]*Document, error) {
	return listDocuments(ctx, t.tx)
}

func (t *sqliteTx) DeleteDocument(ctx context.Context, documentID int64) error {
	return deleteDocument(ctx, t.tx, documentID)
}

func (t *sqliteTx) ReplaceChunks(ctx context.Context, documentID int64, chunks []*Chunk) error {
	return replaceChunks(ctx, t.tx, documentID, chunks)
}

func (t *sqliteTx) ListChunks(ctx context.Context, documentID int64) ([]*Chunk, error) {
	return listChunks(ctx, t.tx, documentID)
}

func (t *sqliteTx) FindChunk(ctx context.Context, documentID int64, title string) (*Chunk, error) {
	return findChunk(ctx, t.tx, documentID, title)
}

func (t *sqliteTx) FindChunkAtLine(ctx context.Context, documentID int64, line int) (*Chunk, error) {
	return findChunkAtLine(ctx, t.tx, documentID, line)
}

func (t *sqliteTx) GetStatus(ctx context.Context) (*IndexStatus, error) {
	return nil, errors.New("status is not available inside a transaction")
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
