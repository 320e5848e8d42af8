package markitdownmcp

import (
	"context"

	"markitdownmcp/tools"
)

type ToolProvider interface {
	GetTools() []tools.Tool
	GetTool(name string) (tools.Tool, error)
}

// Dispatcher answers every tool call with exactly one text response. Failures
// are reported in the text, never as an error.
type Dispatcher interface {
	Call(ctx context.Context, name string, args map[string]any) tools.TextResponse
}
