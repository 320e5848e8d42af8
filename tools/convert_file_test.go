package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markitdownmcp/converter"
)

// fakeProvider hands out a converter that returns canned output or an error,
// and records every acquisition and conversion.
type fakeProvider struct {
	output     string
	convErr    error
	acquireErr error

	acquired int
	sources  []string
}

func (p *fakeProvider) Converter(ctx context.Context) (converter.Converter, error) {
	p.acquired++
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return converter.Func(func(ctx context.Context, source string) (converter.Result, error) {
		p.sources = append(p.sources, source)
		if p.convErr != nil {
			return converter.Result{}, p.convErr
		}
		return converter.Result{TextContent: p.output}, nil
	}), nil
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0644))
	return path
}

func TestConvertFile_Run(t *testing.T) {
	t.Run("successful conversion", func(t *testing.T) {
		path := writeFile(t, "report.pdf", 1234567)
		provider := &fakeProvider{output: "Hello"}

		out, err := NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": path})
		require.NoError(t, err)

		assert.Equal(t, "# Converted: report.pdf\n\n**File Size:** 1,234,567 bytes\n\n---\n\nHello", out)
		assert.True(t, strings.HasSuffix(out, "Hello"))
		assert.Equal(t, []string{path}, provider.sources)
	})

	t.Run("small file has no separator", func(t *testing.T) {
		path := writeFile(t, "notes.txt", 12)
		out, err := NewConvertFile(&fakeProvider{output: "notes"}).Run(context.Background(), map[string]any{"file_path": path})
		require.NoError(t, err)
		assert.Contains(t, out, "**File Size:** 12 bytes")
	})

	t.Run("include_images is accepted", func(t *testing.T) {
		path := writeFile(t, "slides.pptx", 10)
		out, err := NewConvertFile(&fakeProvider{output: "slides"}).Run(context.Background(), map[string]any{
			"file_path":      path,
			"include_images": false,
		})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, "slides"))
	})

	t.Run("missing file_path", func(t *testing.T) {
		provider := &fakeProvider{}
		_, err := NewConvertFile(provider).Run(context.Background(), map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file_path is required")

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Zero(t, provider.acquired)
	})

	t.Run("empty or non-string file_path", func(t *testing.T) {
		for _, v := range []any{"", 42.0, nil, true} {
			_, err := NewConvertFile(&fakeProvider{}).Run(context.Background(), map[string]any{"file_path": v})
			assert.EqualError(t, err, "Error: file_path is required", "value %v", v)
		}
	})

	t.Run("file not found", func(t *testing.T) {
		provider := &fakeProvider{output: "never"}
		missing := filepath.Join(t.TempDir(), "missing.docx")

		_, err := NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": missing})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "File not found:")
		assert.Contains(t, err.Error(), missing)
		assert.Zero(t, provider.acquired, "converter must not be acquired for a missing file")
	})

	t.Run("converter unavailable", func(t *testing.T) {
		path := writeFile(t, "report.pdf", 10)
		provider := &fakeProvider{acquireErr: fmt.Errorf("%w: markitdown not found on PATH", converter.ErrUnavailable)}

		_, err := NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": path})
		require.Error(t, err)

		var dep *DependencyError
		require.ErrorAs(t, err, &dep)
		assert.ErrorIs(t, err, converter.ErrUnavailable)
		assert.Equal(t, "Error: markitdown is not installed. Run: pip install markitdown", err.Error())
		assert.Empty(t, provider.sources)
	})

	t.Run("other acquisition failures are conversion errors", func(t *testing.T) {
		path := writeFile(t, "report.pdf", 10)
		provider := &fakeProvider{acquireErr: errors.New("permission denied")}

		_, err := NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": path})
		assert.EqualError(t, err, "Error converting file: permission denied")
	})

	t.Run("conversion failure", func(t *testing.T) {
		path := writeFile(t, "report.pdf", 10)
		provider := &fakeProvider{convErr: errors.New("boom")}

		out, err := NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": path})
		require.Error(t, err)
		assert.Empty(t, out)
		assert.Equal(t, "Error converting file: boom", err.Error())

		var cerr *ConversionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "file", cerr.Source)
	})
}

func TestConvertFile_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	require.NoError(t, os.WriteFile(filepath.Join(home, "doc.html"), []byte("<p>x</p>"), 0644))
	provider := &fakeProvider{output: "x"}

	out, err := NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": "~/doc.html"})
	require.NoError(t, err)
	assert.Contains(t, out, "# Converted: doc.html")
	assert.Equal(t, []string{filepath.Join(home, "doc.html")}, provider.sources)

	_, err = NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": "~/nope.html"})
	assert.EqualError(t, err, "Error: File not found: "+filepath.Join(home, "nope.html"))
}

func TestConvertFile_RelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	wd, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile("notes:v2.pdf", []byte("%PDF"), 0644))
	provider := &fakeProvider{output: "notes"}

	out, err := NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": "notes:v2.pdf"})
	require.NoError(t, err)
	assert.Contains(t, out, "# Converted: notes:v2.pdf")
	assert.Equal(t, []string{filepath.Join(wd, "notes:v2.pdf")}, provider.sources)

	// Not-found messages keep the path as given.
	_, err = NewConvertFile(provider).Run(context.Background(), map[string]any{"file_path": "missing.pdf"})
	assert.EqualError(t, err, "Error: File not found: missing.pdf")
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/a/b.pdf", filepath.Join(home, "a", "b.pdf")},
		{"/abs/path.pdf", "/abs/path.pdf"},
		{"relative/~/x", "relative/~/x"},
		{"~other/file", "~other/file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}

func TestConvertFile_ToolMethods(t *testing.T) {
	tool := NewConvertFile(&fakeProvider{})

	assert.Equal(t, "convert_file_to_markdown", tool.Name())
	assert.NotEmpty(t, tool.Title())
	assert.Contains(t, tool.Description(), "PDF")

	schema := tool.InputSchema()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"file_path"}, schema.Required)
	require.Contains(t, schema.Properties, "file_path")
	assert.Equal(t, "string", schema.Properties["file_path"].Type)
	require.Contains(t, schema.Properties, "include_images")
	assert.Equal(t, "boolean", schema.Properties["include_images"].Type)
}
