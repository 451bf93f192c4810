// Package tool implements the device command tools and the registry that
// dispatches invocations to them.
package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"netbot/internal/domain"
)

// ErrToolNotFound is returned by Dispatch for an unregistered tool name.
// Unlike device or validation failures, which tools encode in-band, an
// unknown name is a caller wiring bug and propagates as an error.
var ErrToolNotFound = errors.New("tool not found")

// Registry holds the registered tools in registration order and forwards
// invocations to them.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]domain.Tool
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]domain.Tool),
		logger: logger,
	}
}

func (r *Registry) Register(t domain.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
	r.logger.Debug("registered tool", "name", t.Name())
}

func (r *Registry) Get(name string) domain.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Dispatch looks the tool up by exact name and runs it. The returned error
// is non-nil only for an unknown name; every tool-internal failure is
// already encoded in the result string.
func (r *Registry) Dispatch(ctx context.Context, name, argument string) (string, error) {
	t := r.Get(name)
	if t == nil {
		return "", fmt.Errorf("%w: %s (available: %v)", ErrToolNotFound, name, r.Names())
	}
	r.logger.Info("dispatching tool", "name", name)
	return t.Run(ctx, argument), nil
}

// Result carries the outcome of an asynchronous dispatch.
type Result struct {
	Output string
	Err    error
}

// DispatchAsync offloads a blocking dispatch onto a goroutine so callers
// with an event-driven execution model are not blocked. The wrapper is
// applied here, uniformly, rather than duplicated per tool.
func (r *Registry) DispatchAsync(ctx context.Context, name, argument string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		output, err := r.Dispatch(ctx, name, argument)
		out <- Result{Output: output, Err: err}
	}()
	return out
}

// Definitions returns provider-facing tool definitions in registration order.
func (r *Registry) Definitions() []domain.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domain.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, domain.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// inputSchema builds the one-string-argument JSON schema shared by all
// device tools. Every tool carries its argument under the key "input".
func inputSchema(description string, required bool) map[string]any {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{"type": "string", "description": description},
		},
	}
	if required {
		schema["required"] = []string{"input"}
	}
	return schema
}
