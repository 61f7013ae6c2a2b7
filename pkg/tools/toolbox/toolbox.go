// Package toolbox holds named, JSON-invoked operations that can be served to
// external callers.
package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Handler executes a tool with the given JSON input and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is an executable operation with a name, description, JSON Schema and
// handler.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// ToolBox is a set of tools keyed by name.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a ToolBox holding tools.
func New(tools ...Tool) *ToolBox {
	tb := &ToolBox{tools: make(map[string]Tool, len(tools))}
	tb.Register(tools...)
	return tb
}

// Register adds tools, replacing any tool with the same name.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns every tool sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}

	slices.SortFunc(result, func(a, b Tool) int { return strings.Compare(a.Name, b.Name) })
	return result
}

// Call runs the named tool. Empty input is passed to the handler as "{}".
func (tb *ToolBox) Call(ctx context.Context, name string, input json.RawMessage) (string, error) {
	t, ok := tb.tools[name]
	if !ok {
		return "", fmt.Errorf("toolbox: tool not found: %s", name)
	}

	if len(input) == 0 {
		input = json.RawMessage("{}")
	}

	return t.Handler(ctx, input)
}
