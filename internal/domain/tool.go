package domain

import "context"

// Tool is the interface for device capabilities (show version, routing
// table, ping, interface config). A tool validates its argument, talks to
// the device, and always returns a result string: device and validation
// failures are encoded in-band with the marker prefixes below, never
// returned as errors. Only the dispatcher reports errors, and only for
// wiring problems (unknown tool name).
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Run(ctx context.Context, argument string) string
}

// Result markers for in-band tool output. Callers pattern-match on these
// prefixes instead of relying on errors crossing the tool boundary.
const (
	MarkerError = "[ERROR] "
	MarkerSkip  = "[SKIP] "
	MarkerOK    = "[OK] "
)

// ToolDefinition is the provider-facing description of a tool, sent to the
// LLM as a function definition.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
