package types

// ActionKind identifies one of the fixed chunk actions
type ActionKind string

const (
	ActionSendToTerminal ActionKind = "sendToTerminal"
	ActionSendToQsub     ActionKind = "sendToQsub"
	ActionIterToTerminal ActionKind = "iterToTerminal"
	ActionIterFile       ActionKind = "iterFile"
)

// CommandPrefix namespaces the command names handed to the host
const CommandPrefix = "shellbook."

// AllActionKinds returns the action kinds in emission order
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionSendToTerminal,
		ActionSendToQsub,
		ActionIterToTerminal,
		ActionIterFile,
	}
}

// Label returns the text shown on the lens
func (k ActionKind) Label() string {
	switch k {
	case ActionSendToTerminal:
		return "Send to Terminal"
	case ActionSendToQsub:
		return "Send to qsub"
	case ActionIterToTerminal:
		return "Iter to Terminal"
	case ActionIterFile:
		return "IterFile to Terminal"
	default:
		return string(k)
	}
}

// Command returns the fully qualified command name
func (k ActionKind) Command() string {
	return CommandPrefix + string(k)
}

// NeedsTitle reports whether the action's payload carries the chunk title
func (k ActionKind) NeedsTitle() bool {
	return k != ActionSendToTerminal
}

// ActionPayload is the argument list passed to a command
type ActionPayload struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
	Title string `json:"title,omitempty"`
}

// Action is a labeled command attached to a chunk
type Action struct {
	Kind    ActionKind    `json:"kind"`
	Label   string        `json:"label"`
	Command string        `json:"command"`
	Payload ActionPayload `json:"payload"`
}

// Arguments returns the payload in positional form (uri, range[, title])
func (a Action) Arguments() []any {
	if a.Kind.NeedsTitle() {
		return []any{a.Payload.URI, a.Payload.Range, a.Payload.Title}
	}
	return []any{a.Payload.URI, a.Payload.Range}
}
