package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Provider supplies the settings for each scan. Implementations must be
// safe for concurrent use.
type Provider interface {
	Settings() (*Settings, error)
}

// Static always returns the same settings
type Static struct {
	settings *Settings
}

// NewStatic wraps fixed settings; nil means defaults
func NewStatic(s *Settings) *Static {
	if s == nil {
		s = Default()
	}
	return &Static{settings: s}
}

// Settings returns a copy of the wrapped settings
func (p *Static) Settings() (*Settings, error) {
	return p.settings.Clone(), nil
}

// FileProvider reloads the settings file when its modification time changes
type FileProvider struct {
	path string

	mu       sync.Mutex
	modTime  time.Time
	exists   bool
	loaded   bool
	settings *Settings
}

// NewFileProvider creates a provider for path and loads it once
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: path}
	if _, err := p.Settings(); err != nil {
		return nil, err
	}
	return p, nil
}

// Path returns the settings file path
func (p *FileProvider) Path() string {
	return p.path
}

// Settings returns the current settings, reloading if the file changed.
// Environment overrides are applied on every reload.
func (p *FileProvider) Settings() (*Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var modTime time.Time
	exists := true
	info, err := os.Stat(p.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		exists = false
	case err != nil:
		return nil, fmt.Errorf("failed to stat config: %w", err)
	default:
		modTime = info.ModTime()
	}

	if p.loaded && exists == p.exists && modTime.Equal(p.modTime) {
		return p.settings.Clone(), nil
	}

	s, err := Load(p.path)
	if err != nil {
		return nil, err
	}

	p.settings = s
	p.modTime = modTime
	p.exists = exists
	p.loaded = true

	return s.Clone(), nil
}
