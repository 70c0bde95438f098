package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	p := NewStatic(nil)

	s, err := p.Settings()
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	// Callers get their own copy
	s.ChunkConfig = nil
	again, err := p.Settings()
	require.NoError(t, err)
	assert.NotEmpty(t, again.ChunkConfig)
}

func TestFileProvider(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")

	t.Run("missing file gives defaults", func(t *testing.T) {
		p, err := NewFileProvider(path)
		require.NoError(t, err)
		assert.Equal(t, path, p.Path())

		s, err := p.Settings()
		require.NoError(t, err)
		assert.Equal(t, DefaultMarkerPairs(), s.ChunkConfig)
	})

	t.Run("reloads on change", func(t *testing.T) {
		p, err := NewFileProvider(path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("send_to_qsub: false\n"), 0644))
		// Make the change visible on filesystems with coarse mtimes
		future := time.Now().Add(2 * time.Second)
		require.NoError(t, os.Chtimes(path, future, future))

		s, err := p.Settings()
		require.NoError(t, err)
		assert.False(t, s.Toggles.SendToQsub)

		require.NoError(t, os.WriteFile(path, []byte("send_to_qsub: true\n"), 0644))
		later := future.Add(2 * time.Second)
		require.NoError(t, os.Chtimes(path, later, later))

		s, err = p.Settings()
		require.NoError(t, err)
		assert.True(t, s.Toggles.SendToQsub)
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("cache_size: 0\nchunk_config:\n  - {id: a, start: \"[\", end: x}\n"), 0644))

		_, err := NewFileProvider(bad)
		assert.ErrorIs(t, err, ErrInvalidMarker)
	})
}
