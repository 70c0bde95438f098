package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/shellbook-mcp/pkg/types"
)

var (
	// ErrEmptyPattern is returned when a marker pattern is empty
	ErrEmptyPattern = errors.New("marker pattern cannot be empty")
	// ErrDuplicatePairID is returned when two marker pairs share an id
	ErrDuplicatePairID = errors.New("duplicate marker pair id")
)

// Scanner finds start/end marker chunks in document lines.
// A Scanner is immutable after construction and safe for concurrent use.
type Scanner struct {
	pairs []compiledPair
}

type compiledPair struct {
	id    string
	start *Marker
	end   *Marker
}

// scanState tracks one marker pair during a single scan
type scanState struct {
	open      bool
	startLine int
	endLine   int
	title     string
}

// New compiles the marker pairs into a Scanner. Pair order is significant:
// when several pairs match the same line the first one wins.
func New(pairs []types.MarkerPair) (*Scanner, error) {
	seen := make(map[string]struct{}, len(pairs))
	compiled := make([]compiledPair, 0, len(pairs))

	for _, p := range pairs {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("marker pair %q: %w", p.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePairID, p.ID)
		}
		seen[p.ID] = struct{}{}

		start, err := CompileMarker(p.Start)
		if err != nil {
			return nil, fmt.Errorf("marker pair %q start: %w", p.ID, err)
		}
		end, err := CompileMarker(p.End)
		if err != nil {
			return nil, fmt.Errorf("marker pair %q end: %w", p.ID, err)
		}

		compiled = append(compiled, compiledPair{id: p.ID, start: start, end: end})
	}

	return &Scanner{pairs: compiled}, nil
}

// Scan compiles pairs and scans lines in one call
func Scan(lines []string, pairs []types.MarkerPair) ([]types.MatchedChunk, error) {
	s, err := New(pairs)
	if err != nil {
		return nil, err
	}
	return s.Scan(lines), nil
}

// Scan walks lines once and returns the closed chunks in the order their
// end lines appear. Unclosed chunks and end markers without a start are
// dropped silently.
func (s *Scanner) Scan(lines []string) []types.MatchedChunk {
	states := make([]scanState, len(s.pairs))
	for i := range states {
		states[i] = scanState{open: true, startLine: -1, endLine: -1}
	}

	chunks := make([]types.MatchedChunk, 0)

	for lineNum, line := range lines {
		startIdx := s.matchStart(line)
		endIdx := s.matchEnd(line)

		if startIdx >= 0 && states[startIdx].open {
			st := &states[startIdx]
			st.startLine = lineNum
			st.title = titleOf(line)
			st.open = false
			continue
		}

		if endIdx < 0 {
			continue
		}

		st := &states[endIdx]
		st.endLine = lineNum
		if st.startLine != -1 {
			chunks = append(chunks, types.MatchedChunk{
				PairID:    s.pairs[endIdx].id,
				StartLine: st.startLine,
				EndLine:   st.endLine,
				Title:     st.title,
			})
		}
		// Rearm for the next chunk of the same kind. Clearing startLine means
		// a repeated end marker emits nothing instead of reusing the old start.
		st.open = true
		st.startLine = -1
		st.title = ""
	}

	return chunks
}

// PairIDs returns the configured pair ids in order
func (s *Scanner) PairIDs() []string {
	ids := make([]string, len(s.pairs))
	for i, p := range s.pairs {
		ids[i] = p.id
	}
	return ids
}

func (s *Scanner) matchStart(line string) int {
	for i := range s.pairs {
		if s.pairs[i].start.Match(line) {
			return i
		}
	}
	return -1
}

func (s *Scanner) matchEnd(line string) int {
	for i := range s.pairs {
		if s.pairs[i].end.Match(line) {
			return i
		}
	}
	return -1
}

// titleOf returns the first token after the marker on a start line
func titleOf(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return types.DefaultTitle
	}
	return fields[1]
}

// Extract returns the text of a chunk, start and end lines included.
// Out of range bounds are clamped to the document.
func Extract(lines []string, chunk types.MatchedChunk) string {
	if len(lines) == 0 {
		return ""
	}

	start := chunk.StartLine
	if start < 0 {
		start = 0
	}
	end := chunk.EndLine + 1
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}

	return strings.Join(lines[start:end], "\n")
}

// Body returns the chunk text without its marker lines
func Body(lines []string, chunk types.MatchedChunk) string {
	if chunk.EndLine-chunk.StartLine < 2 {
		return ""
	}
	inner := types.MatchedChunk{StartLine: chunk.StartLine + 1, EndLine: chunk.EndLine - 1}
	return Extract(lines, inner)
}
