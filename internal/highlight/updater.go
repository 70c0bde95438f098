// Package highlight keeps the chunk background highlight of the active
// document in sync with its content.
package highlight

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/dshills/shellbook-mcp/internal/config"
	"github.com/dshills/shellbook-mcp/internal/document"
	"github.com/dshills/shellbook-mcp/pkg/types"
)

// ContextKeyShellScript is the host context flag set for shell documents
const ContextKeyShellScript = "isShellScript"

// RangeSource computes the chunk line ranges of a document
type RangeSource interface {
	Ranges(ctx context.Context, src document.TextSource) ([]types.LineRange, error)
}

// Result describes what one Update did
type Result struct {
	ShellScript bool
	Attempts    int
	Ranges      []types.LineRange
	Rendered    bool
}

// Updater re-derives and renders highlights when the active document changes.
// Concurrent updates are not ordered: the last one to reach the sink wins.
type Updater struct {
	ranges RangeSource
	sink   types.HighlightRenderer
	config config.Provider
	logger *log.Logger

	maxAttempts int
}

// NewUpdater creates an Updater. A nil logger discards output.
func NewUpdater(ranges RangeSource, sink types.HighlightRenderer, cfg config.Provider, logger *log.Logger) *Updater {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Updater{
		ranges:      ranges,
		sink:        sink,
		config:      cfg,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
	}
}

// Style returns the highlight decoration for the given settings
func Style(s *config.Settings) types.HighlightStyle {
	return types.HighlightStyle{
		BackgroundColor: s.BackgroundColor,
		BorderRadius:    "0px",
		IsWholeLine:     true,
	}
}

// Update highlights the chunks of src. Non-shell documents only clear the
// shell context flag. When the first scan finds no chunks the scan is
// retried once after the configured delay; if that also finds nothing the
// update is skipped without error.
func (u *Updater) Update(ctx context.Context, src document.TextSource) (*Result, error) {
	if src == nil || src.LanguageID() != document.LanguageShellScript {
		u.setContext(ctx, false)
		return &Result{}, nil
	}
	u.setContext(ctx, true)

	settings, err := u.config.Settings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	retry := RetryConfig{MaxAttempts: u.maxAttempts, Delay: settings.RetryDelay}
	ranges, attempts, err := retryUntilFound(ctx, retry, func() ([]types.LineRange, bool, error) {
		r, err := u.ranges.Ranges(ctx, src)
		if err != nil {
			u.logger.Printf("highlight: scan of %s failed: %v", src.URI(), err)
		}
		return r, len(r) > 0, err
	})

	result := &Result{ShellScript: true, Attempts: attempts, Ranges: ranges}
	if err != nil {
		return result, err
	}

	if len(ranges) == 0 {
		u.logger.Printf("highlight: no chunks in %s after %d attempts, skipping", src.URI(), attempts)
		return result, nil
	}

	if err := u.sink.RenderHighlights(ctx, src.URI(), ranges, Style(settings)); err != nil {
		return result, fmt.Errorf("failed to render highlights: %w", err)
	}
	result.Rendered = true

	return result, nil
}

func (u *Updater) setContext(ctx context.Context, value bool) {
	setter, ok := u.sink.(types.ContextSetter)
	if !ok {
		return
	}
	if err := setter.SetContext(ctx, ContextKeyShellScript, value); err != nil {
		u.logger.Printf("highlight: failed to set %s: %v", ContextKeyShellScript, err)
	}
}
