package types

import "context"

// Lens is one action placed over a chunk's range
type Lens struct {
	Range  Range        `json:"range"`
	Chunk  MatchedChunk `json:"chunk"`
	Action Action       `json:"action"`
}

// HighlightStyle describes the chunk background decoration
type HighlightStyle struct {
	BackgroundColor string `json:"background_color"`
	BorderRadius    string `json:"border_radius"`
	IsWholeLine     bool   `json:"is_whole_line"`
}

// LensRenderer displays a document's lens set, replacing any previous set
type LensRenderer interface {
	RenderLenses(ctx context.Context, uri string, lenses []Lens) error
}

// HighlightRenderer displays whole-line highlights, replacing any previous ones
type HighlightRenderer interface {
	RenderHighlights(ctx context.Context, uri string, ranges []LineRange, style HighlightStyle) error
}

// Sink is the presentation side of the host
type Sink interface {
	LensRenderer
	HighlightRenderer
}

// ContextSetter is an optional Sink capability for host context flags
type ContextSetter interface {
	SetContext(ctx context.Context, key string, value bool) error
}
