// Package storage provides SQLite-based persistence for scanned chunks.
//
// The storage layer manages:
//   - Scanned documents and their content hashes
//   - Matched chunks with their extracted text
//   - Schema versioning
//
// # Database Schema
//
// Tables:
//   - documents: document URI, language id, SHA-256 hash and counts
//   - chunks: pair id, title, line range and text of each matched chunk
//   - schema_version: applied migrations
//
// Deleting a document cascades to its chunks.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.shellbook/index.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	doc, err := db.GetDocument(ctx, "file:///home/me/run.sh")
//	chunks, err := db.ListChunks(ctx, doc.ID)
//
// # Recording Scans
//
// RecordScan writes a document and replaces its chunks atomically. When the
// stored content hash matches the scan, nothing is written:
//
//	res, err := storage.RecordScan(ctx, db, &storage.Scan{
//	    URI:         src.URI(),
//	    LanguageID:  src.LanguageID(),
//	    ContentHash: document.ContentHash(text),
//	    Lines:       lines,
//	    Chunks:      chunks,
//	}, chunker.Extract)
//
// # Transactions
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.UpsertDocument(ctx, doc)
//	_ = tx.ReplaceChunks(ctx, doc.ID, chunks)
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Build Tags
//
// CGO Build (sqlite_cgo tag) uses github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
//
// Pure Go Build (default, without sqlite_cgo) uses modernc.org/sqlite:
//
//	CGO_ENABLED=0 go build ./...
package storage
