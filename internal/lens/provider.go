// Package lens turns scanned chunks into CodeLens actions.
package lens

import (
	"context"
	"crypto/sha256"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dshills/shellbook-mcp/internal/chunker"
	"github.com/dshills/shellbook-mcp/internal/config"
	"github.com/dshills/shellbook-mcp/internal/document"
	"github.com/dshills/shellbook-mcp/pkg/types"
)

// Analysis is the result of scanning one document. ScanKey changes when
// either the text or the marker configuration does.
type Analysis struct {
	URI         string
	LanguageID  string
	ContentHash [32]byte
	ScanKey     [32]byte
	Lines       []string
	Chunks      []types.MatchedChunk
	Lenses      []types.Lens
	Settings    *config.Settings
	CacheHit    bool
}

// Ranges returns the whole-line range of every chunk
func (a *Analysis) Ranges() []types.LineRange {
	ranges := make([]types.LineRange, len(a.Chunks))
	for i, c := range a.Chunks {
		ranges[i] = c.LineRange()
	}
	return ranges
}

// CacheStats reports scan cache usage
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Provider scans documents with the current settings and builds lenses
type Provider struct {
	config config.Provider

	cache *lru.Cache[[32]byte, []types.MatchedChunk]
	group singleflight.Group

	scannerMu   sync.Mutex
	scannerKey  [32]byte
	scanner     *chunker.Scanner
	scannerInit bool

	hits   atomic.Int64
	misses atomic.Int64
}

// NewProvider creates a Provider. The scan cache is sized from the
// settings available at construction.
func NewProvider(cfg config.Provider) (*Provider, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cache, err := lru.New[[32]byte, []types.MatchedChunk](settings.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan cache: %w", err)
	}

	return &Provider{config: cfg, cache: cache}, nil
}

// Analyze reads the document, scans it and materializes its lenses.
// Settings are re-read on every call.
func (p *Provider) Analyze(ctx context.Context, src document.TextSource) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings, err := p.config.Settings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	text, err := src.Text()
	if err != nil {
		return nil, err
	}

	lines := document.Lines(text)
	pairsKey := fingerprint(settings.ChunkConfig)
	key := cacheKey(pairsKey, text)
	chunks, hit, err := p.scan(settings.ChunkConfig, pairsKey, key, lines)
	if err != nil {
		return nil, err
	}

	uri := src.URI()
	lenses := make([]types.Lens, 0, len(chunks)*4)
	for _, c := range chunks {
		rng := RangeOf(lines, c, document.LineLength)
		for _, action := range Materialize(c, uri, rng, settings.Toggles) {
			lenses = append(lenses, types.Lens{Range: rng, Chunk: c, Action: action})
		}
	}

	return &Analysis{
		URI:         uri,
		LanguageID:  src.LanguageID(),
		ContentHash: document.ContentHash(text),
		ScanKey:     key,
		Lines:       lines,
		Chunks:      chunks,
		Lenses:      lenses,
		Settings:    settings,
		CacheHit:    hit,
	}, nil
}

// ProvideCodeLenses returns the lens set for a document
func (p *Provider) ProvideCodeLenses(ctx context.Context, src document.TextSource) ([]types.Lens, error) {
	a, err := p.Analyze(ctx, src)
	if err != nil {
		return nil, err
	}
	return a.Lenses, nil
}

// Ranges returns the chunk line ranges of a document
func (p *Provider) Ranges(ctx context.Context, src document.TextSource) ([]types.LineRange, error) {
	a, err := p.Analyze(ctx, src)
	if err != nil {
		return nil, err
	}
	return a.Ranges(), nil
}

// Publish computes a document's lenses and hands them to r
func (p *Provider) Publish(ctx context.Context, src document.TextSource, r types.LensRenderer) error {
	lenses, err := p.ProvideCodeLenses(ctx, src)
	if err != nil {
		return err
	}
	return r.RenderLenses(ctx, src.URI(), lenses)
}

// Stats returns cache counters
func (p *Provider) Stats() CacheStats {
	return CacheStats{
		Hits:    p.hits.Load(),
		Misses:  p.misses.Load(),
		Entries: p.cache.Len(),
	}
}

// scan returns the chunks of text, from cache when possible. Concurrent
// scans of the same content share one pass.
func (p *Provider) scan(pairs []types.MarkerPair, pairsKey, key [32]byte, lines []string) ([]types.MatchedChunk, bool, error) {
	if cached, ok := p.cache.Get(key); ok {
		p.hits.Add(1)
		return slices.Clone(cached), true, nil
	}

	v, err, _ := p.group.Do(string(key[:]), func() (interface{}, error) {
		s, err := p.scannerFor(pairsKey, pairs)
		if err != nil {
			return nil, err
		}
		chunks := s.Scan(lines)
		p.cache.Add(key, chunks)
		return chunks, nil
	})
	if err != nil {
		return nil, false, err
	}

	p.misses.Add(1)
	return slices.Clone(v.([]types.MatchedChunk)), false, nil
}

// scannerFor returns a scanner compiled for pairs, reusing the last one
// while the marker configuration is unchanged.
func (p *Provider) scannerFor(key [32]byte, pairs []types.MarkerPair) (*chunker.Scanner, error) {
	p.scannerMu.Lock()
	defer p.scannerMu.Unlock()

	if p.scannerInit && p.scannerKey == key {
		return p.scanner, nil
	}

	s, err := chunker.New(pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to compile markers: %w", err)
	}

	p.scanner = s
	p.scannerKey = key
	p.scannerInit = true
	return s, nil
}

// fingerprint hashes the marker configuration
func fingerprint(pairs []types.MarkerPair) [32]byte {
	h := sha256.New()
	for _, pair := range pairs {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00", pair.ID, pair.Start, pair.End)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func cacheKey(pairsKey [32]byte, text string) [32]byte {
	h := sha256.New()
	h.Write(pairsKey[:])
	h.Write([]byte(text))
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
