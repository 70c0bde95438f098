// Package config loads shellbook settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/dshills/shellbook-mcp/internal/chunker"
	"github.com/dshills/shellbook-mcp/pkg/types"
)

const (
	// DefaultBackgroundColor is the chunk highlight colour
	DefaultBackgroundColor = "rgba(56, 56, 56, 0.3)"
	// DefaultRetryDelay is the wait before the single highlight retry
	DefaultRetryDelay = 1000 * time.Millisecond
	// DefaultCacheSize is the number of scan results kept in memory
	DefaultCacheSize = 256
	// DefaultDBPath is the default location of the chunk index
	DefaultDBPath = "~/.shellbook"
	// DefaultConfigFile is the settings file name under the config dir
	DefaultConfigFile = "config.yaml"
)

// Environment variables
const (
	EnvConfigPath      = "SHELLBOOK_CONFIG"
	EnvDBPath          = "SHELLBOOK_DB_PATH"
	EnvSendToTerminal  = "SHELLBOOK_SEND_TO_TERMINAL"
	EnvSendToQsub      = "SHELLBOOK_SEND_TO_QSUB"
	EnvIterToTerminal  = "SHELLBOOK_ITER_TO_TERMINAL"
	EnvIterFile        = "SHELLBOOK_ITER_FILE"
	EnvBackgroundColor = "SHELLBOOK_CHUNK_BACKGROUND_COLOR"
	EnvRetryDelay      = "SHELLBOOK_RETRY_DELAY"
)

var (
	// ErrInvalidMarker is returned when a marker pair cannot be compiled
	ErrInvalidMarker = errors.New("invalid marker pair")
	// ErrInvalidSetting is returned for out of range or unparsable values
	ErrInvalidSetting = errors.New("invalid setting")
)

// Toggles enables or disables each chunk action
type Toggles struct {
	SendToTerminal bool `json:"send_to_terminal"`
	SendToQsub     bool `json:"send_to_qsub"`
	IterToTerminal bool `json:"iter_to_terminal"`
	IterFile       bool `json:"iter_file"`
}

// AllEnabled returns toggles with every action on
func AllEnabled() Toggles {
	return Toggles{SendToTerminal: true, SendToQsub: true, IterToTerminal: true, IterFile: true}
}

// Enabled reports whether the action kind is switched on
func (t Toggles) Enabled(kind types.ActionKind) bool {
	switch kind {
	case types.ActionSendToTerminal:
		return t.SendToTerminal
	case types.ActionSendToQsub:
		return t.SendToQsub
	case types.ActionIterToTerminal:
		return t.IterToTerminal
	case types.ActionIterFile:
		return t.IterFile
	default:
		return false
	}
}

// Settings is the resolved configuration used for one scan
type Settings struct {
	ChunkConfig     []types.MarkerPair
	Toggles         Toggles
	BackgroundColor string
	RetryDelay      time.Duration
	CacheSize       int
	DBPath          string
}

// fileSettings mirrors the YAML file; pointers distinguish unset from false
type fileSettings struct {
	ChunkConfig     []types.MarkerPair `yaml:"chunk_config"`
	SendToTerminal  *bool              `yaml:"send_to_terminal"`
	SendToQsub      *bool              `yaml:"send_to_qsub"`
	IterToTerminal  *bool              `yaml:"iter_to_terminal"`
	IterFile        *bool              `yaml:"iter_file"`
	BackgroundColor string             `yaml:"chunk_background_color"`
	RetryDelay      *time.Duration     `yaml:"retry_delay"`
	CacheSize       int                `yaml:"cache_size"`
	DBPath          string             `yaml:"db_path"`
}

// DefaultMarkerPairs returns the marker pairs used when none are configured
func DefaultMarkerPairs() []types.MarkerPair {
	return []types.MarkerPair{{ID: "shellbook", Start: "#>>", End: "#<<"}}
}

// Default returns the built-in settings
func Default() *Settings {
	return &Settings{
		ChunkConfig:     DefaultMarkerPairs(),
		Toggles:         AllEnabled(),
		BackgroundColor: DefaultBackgroundColor,
		RetryDelay:      DefaultRetryDelay,
		CacheSize:       DefaultCacheSize,
		DBPath:          DefaultDBPath,
	}
}

// DefaultConfigPath returns the settings file path, honouring SHELLBOOK_CONFIG
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, ".shellbook", DefaultConfigFile)
}

// Load reads settings from path, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := s.merge(data); err != nil {
				return nil, err
			}
		}
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// merge overlays YAML content onto s
func (s *Settings) merge(data []byte) error {
	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if len(fs.ChunkConfig) > 0 {
		s.ChunkConfig = fs.ChunkConfig
	}
	if fs.SendToTerminal != nil {
		s.Toggles.SendToTerminal = *fs.SendToTerminal
	}
	if fs.SendToQsub != nil {
		s.Toggles.SendToQsub = *fs.SendToQsub
	}
	if fs.IterToTerminal != nil {
		s.Toggles.IterToTerminal = *fs.IterToTerminal
	}
	if fs.IterFile != nil {
		s.Toggles.IterFile = *fs.IterFile
	}
	if fs.BackgroundColor != "" {
		s.BackgroundColor = fs.BackgroundColor
	}
	if fs.RetryDelay != nil {
		s.RetryDelay = *fs.RetryDelay
	}
	if fs.CacheSize != 0 {
		s.CacheSize = fs.CacheSize
	}
	if fs.DBPath != "" {
		s.DBPath = fs.DBPath
	}

	return nil
}

// applyEnv overlays SHELLBOOK_* environment variables onto s
func (s *Settings) applyEnv() error {
	toggles := []struct {
		env    string
		target *bool
	}{
		{EnvSendToTerminal, &s.Toggles.SendToTerminal},
		{EnvSendToQsub, &s.Toggles.SendToQsub},
		{EnvIterToTerminal, &s.Toggles.IterToTerminal},
		{EnvIterFile, &s.Toggles.IterFile},
	}

	for _, tg := range toggles {
		raw := strings.TrimSpace(os.Getenv(tg.env))
		if raw == "" {
			continue
		}
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidSetting, tg.env, raw)
		}
		*tg.target = v
	}

	if raw := strings.TrimSpace(os.Getenv(EnvRetryDelay)); raw != "" {
		d, err := cast.ToDurationE(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidSetting, EnvRetryDelay, raw)
		}
		s.RetryDelay = d
	}

	if v := os.Getenv(EnvBackgroundColor); v != "" {
		s.BackgroundColor = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		s.DBPath = v
	}

	return nil
}

// Validate rejects settings the scanner cannot use
func (s *Settings) Validate() error {
	if _, err := chunker.New(s.ChunkConfig); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMarker, err)
	}
	if s.RetryDelay < 0 {
		return fmt.Errorf("%w: retry_delay must not be negative", ErrInvalidSetting)
	}
	if s.CacheSize < 1 {
		return fmt.Errorf("%w: cache_size must be positive", ErrInvalidSetting)
	}
	if strings.TrimSpace(s.BackgroundColor) == "" {
		return fmt.Errorf("%w: chunk_background_color is empty", ErrInvalidSetting)
	}
	return nil
}

// Clone returns a deep copy
func (s *Settings) Clone() *Settings {
	c := *s
	c.ChunkConfig = append([]types.MarkerPair(nil), s.ChunkConfig...)
	return &c
}
