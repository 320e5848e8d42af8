package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOpener(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		data     []byte
		asURL    bool
	}{
		{
			name:     "plain path",
			filename: "report.html",
			data:     []byte("<h1>Report</h1>"),
		},
		{
			name:     "file url",
			filename: "notes.txt",
			data:     []byte("some notes"),
			asURL:    true,
		},
		{
			name:     "empty file",
			filename: "empty.csv",
			data:     []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := filepath.Join(tmpDir, tt.filename)
			require.NoError(t, os.WriteFile(filePath, tt.data, 0644))

			location := filePath
			if tt.asURL {
				location = "file://" + filePath
			}

			rc, err := NewFileOpener().Open(context.Background(), location)
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}

	t.Run("open nonexistent file", func(t *testing.T) {
		_, err := NewFileOpener().Open(context.Background(), filepath.Join(tmpDir, "nonexistent.pdf"))
		assert.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestScheme(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"/tmp/report.pdf", "file"},
		{"relative/report.pdf", "file"},
		{"file:///tmp/report.pdf", "file"},
		{"https://example.com/page", "https"},
		{"HTTP://example.com", "http"},
		{"s3://bucket/key.pdf", "s3"},
		{`C:\docs\report.docx`, "file"},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, Scheme(tt.location))
		})
	}
}

func TestMux(t *testing.T) {
	files := NewTestOpener(map[string][]byte{"/tmp/a.txt": []byte("a")})
	remote := NewTestOpener(map[string][]byte{"https://example.com/b": []byte("b")})
	mux := Mux{"file": files, "https": remote}

	rc, err := mux.Open(context.Background(), "https://example.com/b")
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "b", string(got))
	assert.Equal(t, []string{"https://example.com/b"}, remote.Opened)
	assert.Empty(t, files.Opened)

	_, err = mux.Open(context.Background(), "ftp://example.com/c")
	assert.ErrorContains(t, err, `unsupported source scheme "ftp"`)
}
