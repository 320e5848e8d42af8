package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"markitdownmcp/converter"
)

type ConvertURL struct{ provider converter.Provider }

func NewConvertURL(provider converter.Provider) *ConvertURL {
	return &ConvertURL{provider: provider}
}

func (t *ConvertURL) Name() string        { return "convert_url_to_markdown" }
func (t *ConvertURL) Title() string       { return "Convert URL to Markdown" }
func (t *ConvertURL) Description() string { return "Convert a webpage URL to Markdown format" }

func (t *ConvertURL) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"url": {
				Type:        "string",
				Description: "URL of the webpage to convert",
			},
		},
		Required: []string{"url"},
	}
}

func (t *ConvertURL) Run(ctx context.Context, input map[string]any) (string, error) {
	url, ok := stringArg(input, "url")
	if !ok {
		return "", &ValidationError{Field: "url"}
	}

	// URLs are not filesystem paths, so there is no existence check here.
	conv, err := acquire(ctx, t.provider)
	if err != nil {
		return "", withSource(err, "URL")
	}

	slog.Info("DISPATCH: Converting URL", "url", url)
	res, err := conv.Convert(ctx, url)
	if err != nil {
		return "", &ConversionError{Source: "URL", Err: err}
	}

	return "# Converted: " + url + "\n\n---\n\n" + res.TextContent, nil
}
