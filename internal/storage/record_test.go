package storage

import (
	"context"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/shellbook-mcp/pkg/types"
)

// RecordScanSuite exercises RecordScan against a fresh database per test
type RecordScanSuite struct {
	suite.Suite
	ctx     context.Context
	storage *SQLiteStorage
	text    string
	scan    *Scan
}

func TestRecordScanSuite(t *testing.T) {
	suite.Run(t, new(RecordScanSuite))
}

func (s *RecordScanSuite) SetupTest() {
	storage, err := NewSQLiteStorage(":memory:")
	s.Require().NoError(err)
	s.storage = storage
	s.ctx = context.Background()

	s.text = "#>> hello\necho hi\n#<<"
	s.scan = &Scan{
		URI:         "file:///tmp/r.sh",
		LanguageID:  "shellscript",
		ContentHash: sha256.Sum256([]byte(s.text)),
		Lines:       strings.Split(s.text, "\n"),
		Chunks: []types.MatchedChunk{
			{PairID: "shellbook", StartLine: 0, EndLine: 2, Title: "hello"},
		},
	}
}

func (s *RecordScanSuite) TearDownTest() {
	s.Require().NoError(s.storage.Close())
}

func joinLines(lines []string, c types.MatchedChunk) string {
	return strings.Join(lines[c.StartLine:c.EndLine+1], "\n")
}

func (s *RecordScanSuite) TestRecordsDocumentAndChunks() {
	res, err := RecordScan(s.ctx, s.storage, s.scan, joinLines)
	s.Require().NoError(err)
	s.False(res.Skipped)
	s.Equal(1, res.Document.ChunkCount)
	s.Equal(3, res.Document.LineCount)

	chunk, err := s.storage.FindChunk(s.ctx, res.Document.ID, "hello")
	s.Require().NoError(err)
	s.Equal(s.text, chunk.Content)
	s.Equal(s.scan.Chunks[0], chunk.ToMatchedChunk())
}

func (s *RecordScanSuite) TestUnchangedHashIsSkipped() {
	first, err := RecordScan(s.ctx, s.storage, s.scan, joinLines)
	s.Require().NoError(err)

	second, err := RecordScan(s.ctx, s.storage, s.scan, joinLines)
	s.Require().NoError(err)
	s.True(second.Skipped)
	s.Equal(first.Document.ID, second.Document.ID)
}

func (s *RecordScanSuite) TestChangedHashReplacesChunks() {
	first, err := RecordScan(s.ctx, s.storage, s.scan, joinLines)
	s.Require().NoError(err)

	s.scan.ContentHash = sha256.Sum256([]byte("changed"))
	s.scan.Chunks = nil
	res, err := RecordScan(s.ctx, s.storage, s.scan, joinLines)
	s.Require().NoError(err)
	s.False(res.Skipped)
	s.Equal(first.Document.ID, res.Document.ID)

	chunks, err := s.storage.ListChunks(s.ctx, res.Document.ID)
	s.Require().NoError(err)
	s.Empty(chunks)

	doc, err := s.storage.GetDocument(s.ctx, s.scan.URI)
	s.Require().NoError(err)
	s.Equal(0, doc.ChunkCount)
}
