package mcp

import (
	"context"

	"github.com/dshills/shellbook-mcp/pkg/types"
)

// Notification methods sent to the client
const (
	MethodLenses     = "notifications/shellbook/lenses"
	MethodHighlights = "notifications/shellbook/highlights"
	MethodContext    = "notifications/shellbook/context"
)

// Notifier broadcasts a notification to connected clients.
// *server.MCPServer satisfies it.
type Notifier interface {
	SendNotificationToAllClients(method string, params map[string]any)
}

// NotificationSink renders lenses, highlights and context flags as MCP
// notifications. The client owns the actual decorations.
type NotificationSink struct {
	notifier Notifier
}

// NewNotificationSink creates a sink that broadcasts through n
func NewNotificationSink(n Notifier) *NotificationSink {
	return &NotificationSink{notifier: n}
}

// lensPayload is the client-facing form of a lens
type lensPayload struct {
	Range     types.Range `json:"range"`
	Title     string      `json:"title"`
	Command   string      `json:"command"`
	Arguments []any       `json:"arguments"`
	Chunk     string      `json:"chunk"`
}

func toLensPayloads(lenses []types.Lens) []lensPayload {
	out := make([]lensPayload, 0, len(lenses))
	for _, l := range lenses {
		out = append(out, lensPayload{
			Range:     l.Range,
			Title:     l.Action.Label,
			Command:   l.Action.Command,
			Arguments: l.Action.Arguments(),
			Chunk:     l.Chunk.Title,
		})
	}
	return out
}

// RenderLenses replaces the client's lens set for uri
func (s *NotificationSink) RenderLenses(ctx context.Context, uri string, lenses []types.Lens) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.notifier.SendNotificationToAllClients(MethodLenses, map[string]any{
		"uri":    uri,
		"lenses": toLensPayloads(lenses),
	})
	return nil
}

// RenderHighlights replaces the client's chunk highlights for uri
func (s *NotificationSink) RenderHighlights(ctx context.Context, uri string, ranges []types.LineRange, style types.HighlightStyle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.notifier.SendNotificationToAllClients(MethodHighlights, map[string]any{
		"uri":    uri,
		"ranges": ranges,
		"style":  style,
	})
	return nil
}

// SetContext publishes a host context flag
func (s *NotificationSink) SetContext(ctx context.Context, key string, value bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.notifier.SendNotificationToAllClients(MethodContext, map[string]any{
		"key":   key,
		"value": value,
	})
	return nil
}

var (
	_ types.Sink          = (*NotificationSink)(nil)
	_ types.ContextSetter = (*NotificationSink)(nil)
)
