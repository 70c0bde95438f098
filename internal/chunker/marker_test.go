package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMarker(t *testing.T) {
	t.Run("empty pattern", func(t *testing.T) {
		_, err := CompileMarker("")
		assert.ErrorIs(t, err, ErrEmptyPattern)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := CompileMarker("#(")
		assert.Error(t, err)
	})

	t.Run("pattern escaping its group", func(t *testing.T) {
		_, err := CompileMarker("a)(b")
		assert.Error(t, err)
	})

	t.Run("keeps source", func(t *testing.T) {
		m, err := CompileMarker("#>>")
		require.NoError(t, err)
		assert.Equal(t, "#>>", m.String())
	})
}

func TestMarker_Match(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    bool
	}{
		{"exact end of line", "run", "run", true},
		{"followed by space", "run", "run foo", true},
		{"followed by tab", "run", "run\tfoo", true},
		{"leading whitespace", "run", "   run foo", true},
		{"prefix of longer token", "run", "runner foo", false},
		{"different following char", "run", "runa", true},
		{"not at line start", "run", "echo run", false},
		{"empty line", "run", "", false},
		{"comment marker", "#--", "#-- job1", true},
		{"longer dash run", "#--", "#---", false},
		{"end marker shape", "#--", "#--end", true},
		{"end marker exact", "#--end", "#--end", true},
		{"end marker on start line", "#--end", "#-- job1", false},
		{"regex class", "#[>]+", "#>> job", true},
		{"regex needs backtrack", "#-+", "#--+", true},
		{"regex exhausted", "#-+", "#++", false},
		{"meta last char", "#\\.", "#. job", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustCompileMarker(tt.pattern)
			assert.Equal(t, tt.want, m.Match(tt.line))
		})
	}
}

func TestMustCompileMarker_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustCompileMarker("[")
	})
}
