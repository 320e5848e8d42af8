package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

const supportedFormatsText = `# Supported File Formats

## Documents
- **PDF**: .pdf
- **Word**: .docx, .doc
- **Excel**: .xlsx, .xls
- **PowerPoint**: .pptx, .ppt

## Web
- **HTML**: .html, .htm
- **URL**: Any webpage URL

## Images
- **Common**: .jpg, .jpeg, .png, .gif, .bmp
- **Advanced**: .tiff, .webp

## Code & Text
- **Markdown**: .md
- **Text**: .txt
- **CSV**: .csv
- **JSON**: .json
- **XML**: .xml

## Archives
- **ZIP**: .zip (extracts and converts contents)`

type SupportedFormats struct{}

func NewSupportedFormats() *SupportedFormats { return &SupportedFormats{} }

func (t *SupportedFormats) Name() string  { return "supported_formats" }
func (t *SupportedFormats) Title() string { return "Supported Formats" }
func (t *SupportedFormats) Description() string {
	return "List all supported file formats for conversion"
}

func (t *SupportedFormats) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
}

// Run ignores its input; the listing is static.
func (t *SupportedFormats) Run(ctx context.Context, input map[string]any) (string, error) {
	return supportedFormatsText, nil
}
