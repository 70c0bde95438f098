package lens

import (
	"github.com/dshills/shellbook-mcp/internal/config"
	"github.com/dshills/shellbook-mcp/pkg/types"
)

// Materialize returns the enabled actions for a chunk in fixed order:
// send to terminal, send to qsub, iterate to terminal, iterate file.
func Materialize(chunk types.MatchedChunk, uri string, rng types.Range, toggles config.Toggles) []types.Action {
	actions := make([]types.Action, 0, 4)

	for _, kind := range types.AllActionKinds() {
		if !toggles.Enabled(kind) {
			continue
		}

		payload := types.ActionPayload{URI: uri, Range: rng}
		if kind.NeedsTitle() {
			payload.Title = chunk.Title
		}

		actions = append(actions, types.Action{
			Kind:    kind,
			Label:   kind.Label(),
			Command: kind.Command(),
			Payload: payload,
		})
	}

	return actions
}

// RangeOf spans a chunk from column 0 of its start line to the end of its end line
func RangeOf(lines []string, chunk types.MatchedChunk, lineLength func(string) int) types.Range {
	endChar := 0
	if chunk.EndLine >= 0 && chunk.EndLine < len(lines) {
		endChar = lineLength(lines[chunk.EndLine])
	}
	return types.Range{
		Start: types.Position{Line: chunk.StartLine, Character: 0},
		End:   types.Position{Line: chunk.EndLine, Character: endChar},
	}
}
