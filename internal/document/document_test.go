package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{""}},
		{"single", "echo", []string{"echo"}},
		{"lf", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b", ""}},
		{"mixed", "a\r\nb\nc", []string{"a", "b", "c"}},
		{"lone cr kept", "a\rb", []string{"a\rb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines(tt.text))
		})
	}
}

func TestLineLength(t *testing.T) {
	assert.Equal(t, 0, LineLength(""))
	assert.Equal(t, 6, LineLength("#<< ok"))
	assert.Equal(t, 4, LineLength("échö"))
	// Astral plane characters take two UTF-16 units
	assert.Equal(t, 2, LineLength("😀"))
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		firstLine string
		want      string
	}{
		{"sh extension", "/w/run.sh", "", LanguageShellScript},
		{"bash extension upper", "/w/RUN.BASH", "", LanguageShellScript},
		{"zsh extension", "/w/run.zsh", "", LanguageShellScript},
		{"bash shebang", "/w/run", "#!/bin/bash", LanguageShellScript},
		{"env shebang", "/w/run", "#!/usr/bin/env bash", LanguageShellScript},
		{"sh shebang", "/w/run", "#! /bin/sh -e", LanguageShellScript},
		{"python shebang", "/w/run", "#!/usr/bin/env python3", LanguagePlainText},
		{"text file", "/w/notes.txt", "hello", LanguagePlainText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.path, tt.firstLine))
		})
	}
}

func TestFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("shell by shebang", func(t *testing.T) {
		path := filepath.Join(tmpDir, "pipeline")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/bash\r\necho hi\r\n"), 0644))

		f, err := NewFile(path)
		require.NoError(t, err)

		assert.Equal(t, LanguageShellScript, f.LanguageID())
		assert.Equal(t, path, f.Path())
		assert.Contains(t, f.URI(), "file://")
		assert.Contains(t, f.URI(), "pipeline")
	})

	t.Run("text rereads the file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "job.sh")
		require.NoError(t, os.WriteFile(path, []byte("echo one"), 0644))

		f, err := NewFile(path)
		require.NoError(t, err)

		text, err := f.Text()
		require.NoError(t, err)
		assert.Equal(t, "echo one", text)

		require.NoError(t, os.WriteFile(path, []byte("echo two"), 0644))
		text, err = f.Text()
		require.NoError(t, err)
		assert.Equal(t, "echo two", text)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFile(filepath.Join(tmpDir, "missing.sh"))
		assert.Error(t, err)
	})

	t.Run("removed after open", func(t *testing.T) {
		path := filepath.Join(tmpDir, "gone.sh")
		require.NoError(t, os.WriteFile(path, []byte("echo"), 0644))

		f, err := NewFile(path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		_, err = f.Text()
		assert.Error(t, err)
	})
}

func TestMemory(t *testing.T) {
	m := NewMemory("mem://a", LanguageShellScript, "echo")

	assert.Equal(t, "mem://a", m.URI())
	assert.Equal(t, LanguageShellScript, m.LanguageID())
	text, err := m.Text()
	require.NoError(t, err)
	assert.Equal(t, "echo", text)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("a"), ContentHash("a"))
	assert.NotEqual(t, ContentHash("a"), ContentHash("b"))
}
