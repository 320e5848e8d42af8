package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// Tool is a named, schema-described capability advertised to MCP clients.
type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (output string, err error)
}

// Call is one tool invocation: a tool name and its JSON arguments.
type Call struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// TextResponse is the single content item returned for every call, success or failure.
type TextResponse struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewTextResponse(text string) TextResponse {
	return TextResponse{Type: "text", Text: text}
}

// stringArg returns input[key] when it is a non-empty string.
func stringArg(input map[string]any, key string) (string, bool) {
	s, ok := input[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func boolArg(input map[string]any, key string, def bool) bool {
	if b, ok := input[key].(bool); ok {
		return b
	}
	return def
}
