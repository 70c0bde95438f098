package chunker

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Marker is a compiled start or end marker.
//
// A line matches when, after leading whitespace, it begins with the marker
// pattern and the pattern is followed by whitespace, end of line, or any
// character other than the last character of the marker text. The last
// rule keeps "run" from matching "runner".
type Marker struct {
	source string
	re     *regexp.Regexp
}

// CompileMarker compiles a marker pattern. The pattern uses RE2 syntax.
func CompileMarker(pattern string) (*Marker, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	// Compile alone first so a pattern cannot close the wrapping group
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("invalid marker %q: %w", pattern, err)
	}

	last, _ := utf8.DecodeLastRuneInString(pattern)
	expr := fmt.Sprintf(`^\s*(?:%s)(?:\s|$|[^%s])`, pattern, regexp.QuoteMeta(string(last)))

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid marker %q: %w", pattern, err)
	}

	return &Marker{source: pattern, re: re}, nil
}

// MustCompileMarker is like CompileMarker but panics on error
func MustCompileMarker(pattern string) *Marker {
	m, err := CompileMarker(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether line opens with the marker
func (m *Marker) Match(line string) bool {
	return m.re.MatchString(line)
}

// String returns the marker pattern as configured
func (m *Marker) String() string {
	return m.source
}
