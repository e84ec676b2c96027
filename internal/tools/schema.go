// Package tools holds the explicit registry mapping operation names to
// typed handlers plus their declared JSON schemas. The registry is built
// once at startup; serving adapters (HTTP, MCP) expose it to callers.
package tools

// JSONSchema is a structured representation of the JSON Schema fragment
// describing a tool's parameters.
type JSONSchema struct {
	// Type is the data type for a schema node (e.g. "object", "string",
	// "number"). The top-level parameters node is always "object".
	Type string `json:"type"`
	// Description explains what a parameter is for.
	Description string `json:"description,omitempty"`
	// Properties describes an object's parameters, keyed by name.
	Properties map[string]*JSONSchema `json:"properties,omitempty"`
	// Required lists the parameter names that must be present.
	Required []string `json:"required,omitempty"`
	// Minimum/Maximum bound numeric parameters; Default documents the
	// value applied when the parameter is omitted.
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
	Default any      `json:"default,omitempty"`
}

// Definition describes one callable operation to external callers.
type Definition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

func floatPtr(v float64) *float64 { return &v }
