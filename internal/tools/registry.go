package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnknownTool is returned when a caller invokes a name that was
	// never registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when the argument payload cannot be
	// decoded against the tool's schema.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Handler executes an operation with JSON-encoded arguments and returns a
// JSON-serializable result.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry is a stable name-to-handler mapping built at startup. It is
// read-only after construction and safe for concurrent use.
type Registry struct {
	order   []string
	entries map[string]entry
}

type entry struct {
	def     Definition
	handler Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a tool. Registering a duplicate name panics: the registry
// is assembled once at startup and a duplicate is a programming error.
func (r *Registry) Register(def Definition, h Handler) {
	if _, ok := r.entries[def.Name]; ok {
		panic("tools: duplicate registration of " + def.Name)
	}
	r.entries[def.Name] = entry{def: def, handler: h}
	r.order = append(r.order, def.Name)
}

// Definitions returns all registered tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].def)
	}
	return defs
}

// Invocation is the envelope returned for a successful tool call.
type Invocation struct {
	ID     string `json:"invocation_id"`
	Tool   string `json:"tool"`
	Result any    `json:"result"`
}

// Call executes a registered tool by name. Handler errors are surfaced
// unchanged.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*Invocation, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	result, err := e.handler(ctx, args)
	if err != nil {
		return nil, err
	}
	return &Invocation{
		ID:     uuid.NewString(),
		Tool:   name,
		Result: result,
	}, nil
}
