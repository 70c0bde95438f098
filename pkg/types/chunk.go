package types

import "strings"

// DefaultTitle is used when a start line has no title token after its marker
const DefaultTitle = "shellbook_run"

// MarkerPair defines the start and end markers of one kind of chunk
type MarkerPair struct {
	ID    string `yaml:"id" json:"id"`
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Validate checks that the pair is usable by the scanner
func (p MarkerPair) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyPairID
	}
	if p.Start == "" || p.End == "" {
		return ErrEmptyMarker
	}
	return nil
}

// MatchedChunk is a line range closed by a matching end marker
type MatchedChunk struct {
	PairID    string `json:"pair_id"`
	StartLine int    `json:"start_line"` // 0-based, inclusive
	EndLine   int    `json:"end_line"`   // 0-based, inclusive
	Title     string `json:"title"`
}

// Validate checks the chunk's line range
func (c MatchedChunk) Validate() error {
	if c.StartLine < 0 || c.EndLine < 0 {
		return ErrNegativeLine
	}
	if c.StartLine > c.EndLine {
		return ErrInvertedRange
	}
	return nil
}

// LineCount returns the number of lines covered by the chunk
func (c MatchedChunk) LineCount() int {
	return c.EndLine - c.StartLine + 1
}

// LineRange returns the whole-line range of the chunk
func (c MatchedChunk) LineRange() LineRange {
	return LineRange{StartLine: c.StartLine, EndLine: c.EndLine}
}

// Position is a 0-based line/character location in a document
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range spans from Start to End within a document
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineRange is a whole-line span used for highlighting
type LineRange struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}
