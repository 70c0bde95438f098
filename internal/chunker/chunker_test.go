package chunker

import (
	"strings"
	"testing"

	"github.com/dshills/shellbook-mcp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dashPairs = []types.MarkerPair{{ID: "A", Start: "#--", End: "#--end"}}

func mustScanner(t *testing.T, pairs []types.MarkerPair) *Scanner {
	t.Helper()
	s, err := New(pairs)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Run("valid pairs", func(t *testing.T) {
		s := mustScanner(t, []types.MarkerPair{
			{ID: "a", Start: "#>>", End: "#<<"},
			{ID: "b", Start: "# %%", End: "# %% end"},
		})
		assert.Equal(t, []string{"a", "b"}, s.PairIDs())
	})

	t.Run("no pairs", func(t *testing.T) {
		s := mustScanner(t, nil)
		assert.Empty(t, s.Scan([]string{"#>> job", "#<<"}))
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := New([]types.MarkerPair{
			{ID: "a", Start: "#>>", End: "#<<"},
			{ID: "a", Start: "#!>", End: "#!<"},
		})
		assert.ErrorIs(t, err, ErrDuplicatePairID)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := New([]types.MarkerPair{{ID: " ", Start: "#>>", End: "#<<"}})
		assert.ErrorIs(t, err, types.ErrEmptyPairID)
	})

	t.Run("empty marker", func(t *testing.T) {
		_, err := New([]types.MarkerPair{{ID: "a", Start: "#>>"}})
		assert.ErrorIs(t, err, types.ErrEmptyMarker)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := New([]types.MarkerPair{{ID: "a", Start: "#(", End: "#<<"}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "start")
	})
}

func TestScan_SingleChunk(t *testing.T) {
	lines := []string{"#-- job1", "echo hi", "#--end"}

	chunks, err := Scan(lines, dashPairs)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, types.MatchedChunk{
		PairID:    "A",
		StartLine: 0,
		EndLine:   2,
		Title:     "job1",
	}, chunks[0])
}

func TestScan_EdgeCases(t *testing.T) {
	s := mustScanner(t, dashPairs)

	t.Run("empty document", func(t *testing.T) {
		assert.Empty(t, s.Scan(nil))
		assert.Empty(t, s.Scan([]string{""}))
	})

	t.Run("unclosed chunk", func(t *testing.T) {
		assert.Empty(t, s.Scan([]string{"#-- job1", "echo hi"}))
	})

	t.Run("orphan end", func(t *testing.T) {
		assert.Empty(t, s.Scan([]string{"echo hi", "#--end"}))
	})

	t.Run("orphan end after closed chunk", func(t *testing.T) {
		chunks := s.Scan([]string{"#-- a", "#--end", "echo", "#--end"})
		require.Len(t, chunks, 1)
		assert.Equal(t, 1, chunks[0].EndLine)
	})

	t.Run("default title", func(t *testing.T) {
		chunks := s.Scan([]string{"#--", "echo", "#--end"})
		require.Len(t, chunks, 1)
		assert.Equal(t, types.DefaultTitle, chunks[0].Title)
	})

	t.Run("trailing whitespace only", func(t *testing.T) {
		chunks := s.Scan([]string{"#--   ", "#--end"})
		require.Len(t, chunks, 1)
		assert.Equal(t, types.DefaultTitle, chunks[0].Title)
	})

	t.Run("indented markers", func(t *testing.T) {
		chunks := s.Scan([]string{"  #-- nested_job", "  echo", "\t#--end"})
		require.Len(t, chunks, 1)
		assert.Equal(t, "nested_job", chunks[0].Title)
	})

	t.Run("start while open is ignored", func(t *testing.T) {
		chunks := s.Scan([]string{"#-- first", "#-- second", "#--end"})
		require.Len(t, chunks, 1)
		assert.Equal(t, 0, chunks[0].StartLine)
		assert.Equal(t, "first", chunks[0].Title)
	})
}

func TestScan_Title(t *testing.T) {
	s := mustScanner(t, []types.MarkerPair{{ID: "r", Start: "run", End: "done"}})

	chunks := s.Scan([]string{"run myjob extra", "echo", "done"})
	require.Len(t, chunks, 1)
	assert.Equal(t, "myjob", chunks[0].Title)

	chunks = s.Scan([]string{"run", "echo", "done"})
	require.Len(t, chunks, 1)
	assert.Equal(t, types.DefaultTitle, chunks[0].Title)

	assert.Empty(t, s.Scan([]string{"runner foo", "echo", "done"}))
}

func TestScan_SequentialChunks(t *testing.T) {
	s := mustScanner(t, dashPairs)

	lines := []string{
		"#!/bin/bash",
		"#-- first",
		"echo one",
		"#--end",
		"",
		"#-- second",
		"echo two",
		"echo three",
		"#--end",
	}

	chunks := s.Scan(lines)
	require.Len(t, chunks, 2)

	assert.Equal(t, "first", chunks[0].Title)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 3, chunks[0].EndLine)

	assert.Equal(t, "second", chunks[1].Title)
	assert.Equal(t, 5, chunks[1].StartLine)
	assert.Equal(t, 8, chunks[1].EndLine)

	for _, c := range chunks {
		assert.LessOrEqual(t, c.StartLine, c.EndLine)
		assert.NoError(t, c.Validate())
	}
}

func TestScan_MultiplePairs(t *testing.T) {
	s := mustScanner(t, []types.MarkerPair{
		{ID: "job", Start: "#>>", End: "#<<"},
		{ID: "cell", Start: "# %%", End: "# %% end"},
	})

	t.Run("independent pairs", func(t *testing.T) {
		lines := []string{
			"#>> align",
			"bwa mem ref.fa r1.fq",
			"#<<",
			"# %% plot",
			"Rscript plot.R",
			"# %% end",
		}
		chunks := s.Scan(lines)
		require.Len(t, chunks, 2)
		assert.Equal(t, "job", chunks[0].PairID)
		assert.Equal(t, "cell", chunks[1].PairID)
	})

	t.Run("interleaved pairs keep their own titles", func(t *testing.T) {
		s := mustScanner(t, []types.MarkerPair{
			{ID: "job", Start: "#>>", End: "#<<"},
			{ID: "cell", Start: "#%%", End: "#%%end"},
		})
		lines := []string{
			"#>> outer",
			"#%% inner",
			"echo",
			"#%%end",
			"#<<",
		}
		chunks := s.Scan(lines)
		require.Len(t, chunks, 2)

		assert.Equal(t, types.MatchedChunk{PairID: "cell", StartLine: 1, EndLine: 3, Title: "inner"}, chunks[0])
		assert.Equal(t, types.MatchedChunk{PairID: "job", StartLine: 0, EndLine: 4, Title: "outer"}, chunks[1])
	})

	t.Run("marker with a space takes the title field", func(t *testing.T) {
		lines := []string{"# %% inner", "echo", "# %% end"}
		chunks := s.Scan(lines)
		require.Len(t, chunks, 1)
		assert.Equal(t, types.MatchedChunk{PairID: "cell", StartLine: 0, EndLine: 2, Title: "%%"}, chunks[0])
	})

	t.Run("results ordered by closing line", func(t *testing.T) {
		lines := []string{"#>> a", "# %% b", "#<<", "# %% end"}
		chunks := s.Scan(lines)
		require.Len(t, chunks, 2)
		assert.Equal(t, 2, chunks[0].EndLine)
		assert.Equal(t, 3, chunks[1].EndLine)
	})
}

func TestScan_StartPrecedesEnd(t *testing.T) {
	// "##" starts pair a and ends pair b on the same line
	s := mustScanner(t, []types.MarkerPair{
		{ID: "a", Start: "##", End: "#a"},
		{ID: "b", Start: "#b", End: "##"},
	})

	chunks := s.Scan([]string{"#b x", "##", "#a"})
	require.Len(t, chunks, 1)
	assert.Equal(t, "a", chunks[0].PairID)
	assert.Equal(t, 1, chunks[0].StartLine)
}

func TestScan_Reusable(t *testing.T) {
	s := mustScanner(t, dashPairs)
	lines := []string{"#-- job1", "#--end"}

	first := s.Scan(lines)
	second := s.Scan(lines)
	assert.Equal(t, first, second)
}

func TestExtract(t *testing.T) {
	lines := strings.Split("a\n#>> x\nb\nc\n#<<\nd", "\n")
	chunk := types.MatchedChunk{StartLine: 1, EndLine: 4}

	assert.Equal(t, "#>> x\nb\nc\n#<<", Extract(lines, chunk))
	assert.Equal(t, "b\nc", Body(lines, chunk))

	t.Run("clamped", func(t *testing.T) {
		assert.Equal(t, "d", Extract(lines, types.MatchedChunk{StartLine: 5, EndLine: 20}))
		assert.Equal(t, "", Extract(lines, types.MatchedChunk{StartLine: 9, EndLine: 20}))
		assert.Equal(t, "", Extract(nil, chunk))
	})

	t.Run("adjacent markers have empty body", func(t *testing.T) {
		assert.Equal(t, "", Body(lines, types.MatchedChunk{StartLine: 3, EndLine: 4}))
	})
}
