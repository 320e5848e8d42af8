package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"markitdownmcp/converter"
)

type ConvertFile struct{ provider converter.Provider }

func NewConvertFile(provider converter.Provider) *ConvertFile {
	return &ConvertFile{provider: provider}
}

func (t *ConvertFile) Name() string  { return "convert_file_to_markdown" }
func (t *ConvertFile) Title() string { return "Convert File to Markdown" }
func (t *ConvertFile) Description() string {
	return "Convert any file (PDF, Word, Excel, PowerPoint, Images, etc.) to Markdown format. Supports: PDF, DOCX, XLSX, PPTX, images, HTML, and more."
}

func (t *ConvertFile) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"file_path": {
				Type:        "string",
				Description: "Absolute path to the file to convert",
			},
			"include_images": {
				Type:        "boolean",
				Description: "Whether to extract and include images (default: true)",
				Default:     json.RawMessage("true"),
			},
		},
		Required: []string{"file_path"},
	}
}

func (t *ConvertFile) Run(ctx context.Context, input map[string]any) (string, error) {
	filePath, ok := stringArg(input, "file_path")
	if !ok {
		return "", &ValidationError{Field: "file_path"}
	}
	// Accepted for compatibility; markitdown has no per-call switch for images.
	includeImages := boolArg(input, "include_images", true)

	filePath = ExpandHome(filePath)
	info, err := os.Stat(filePath)
	if err != nil {
		return "", &NotFoundError{Path: filePath}
	}

	conv, err := acquire(ctx, t.provider)
	if err != nil {
		return "", withSource(err, "file")
	}

	// Absolute so a relative name like "notes:v2.pdf" is never read as a URL scheme.
	source, err := filepath.Abs(filePath)
	if err != nil {
		return "", &ConversionError{Source: "file", Err: err}
	}

	slog.Info("DISPATCH: Converting file", "path", source, "size_bytes", info.Size(), "include_images", includeImages)
	res, err := conv.Convert(ctx, source)
	if err != nil {
		return "", &ConversionError{Source: "file", Err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Converted: %s\n\n", filepath.Base(filePath))
	fmt.Fprintf(&b, "**File Size:** %s bytes\n\n", humanize.Comma(info.Size()))
	b.WriteString("---\n\n")
	b.WriteString(res.TextContent)
	return b.String(), nil
}

// ExpandHome replaces a leading "~" with the current user's home directory.
// Other users' homes ("~name/...") are intentionally left as literal paths.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// acquire obtains a converter. Unavailability is reported as a DependencyError.
func acquire(ctx context.Context, p converter.Provider) (converter.Converter, error) {
	if p == nil {
		return nil, &DependencyError{Err: converter.ErrUnavailable}
	}
	conv, err := p.Converter(ctx)
	if err != nil {
		if errors.Is(err, converter.ErrUnavailable) {
			return nil, &DependencyError{Err: err}
		}
		return nil, err
	}
	return conv, nil
}

// withSource keeps DependencyErrors as-is and wraps anything else as a ConversionError.
func withSource(err error, source string) error {
	var dep *DependencyError
	if errors.As(err, &dep) {
		return dep
	}
	return &ConversionError{Source: source, Err: err}
}
