package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markitdownmcp"
	"markitdownmcp/converter"
	"markitdownmcp/dispatch"
)

func TestNew_Defaults(t *testing.T) {
	a, err := New(context.Background(), Options{Provider: converter.StaticProvider{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Equal(t, "markitdown-mcp", a.Server.Name)
	assert.Len(t, a.Registry.GetTools(), 3)
	assert.IsType(t, &dispatch.Dispatcher{}, a.Dispatcher)

	resp := a.Dispatcher.Call(context.Background(), "convert_url_to_markdown", map[string]any{"url": "https://example.com"})
	assert.Equal(t, "Error: markitdown is not installed. Run: pip install markitdown", resp.Text)
}

func callLogLines(t *testing.T, path string) []markitdownmcp.CallLog {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var calls []markitdownmcp.CallLog
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var c markitdownmcp.CallLog
		require.NoError(t, json.Unmarshal([]byte(line), &c))
		calls = append(calls, c)
	}
	return calls
}

func TestNew_CallLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calls.jsonl")
	t.Setenv("MCP_CALL_LOG_PATH", path)

	var stream bytes.Buffer
	a, err := New(context.Background(), Options{CallLogStream: &stream, Provider: converter.StaticProvider{}})
	require.NoError(t, err)

	a.Dispatcher.Call(context.Background(), "supported_formats", nil)
	a.Dispatcher.Call(context.Background(), "frobnicate", nil)

	// The file is written per call, not on shutdown.
	calls := callLogLines(t, path)
	require.Len(t, calls, 2)
	assert.Equal(t, "unknown_tool", calls[1].ErrorKind)

	require.NoError(t, a.Close(context.Background()))

	lines := strings.Split(strings.TrimSpace(stream.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestNew_CallLogDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCP_CALL_LOG_PATH", dir)

	a, err := New(context.Background(), Options{Provider: converter.StaticProvider{}})
	require.NoError(t, err)
	a.Dispatcher.Call(context.Background(), "supported_formats", nil)
	require.NoError(t, a.Close(context.Background()))

	matches, err := filepath.Glob(filepath.Join(dir, "*.calls.jsonl"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Len(t, callLogLines(t, matches[0]), 1)
}

func TestNew_CallLogWebhook(t *testing.T) {
	var (
		mu    sync.Mutex
		tools []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c markitdownmcp.CallLog
		if err := json.NewDecoder(r.Body).Decode(&c); err == nil {
			mu.Lock()
			tools = append(tools, c.Tool)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	t.Setenv("MCP_CALL_LOG_WEBHOOK", srv.URL)

	a, err := New(context.Background(), Options{Provider: converter.StaticProvider{}})
	require.NoError(t, err)
	a.Dispatcher.Call(context.Background(), "supported_formats", nil)
	a.Dispatcher.Call(context.Background(), "convert_file_to_markdown", nil)

	// Close drains the queue.
	require.NoError(t, a.Close(context.Background()))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"supported_formats", "convert_file_to_markdown"}, tools)
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Setenv("MARKITDOWN_BACKEND", "wasm")
	_, err := New(context.Background(), Options{})
	assert.ErrorContains(t, err, `unknown markitdown backend "wasm"`)
}

func TestNewOpener(t *testing.T) {
	mux, staged, err := NewOpener(context.Background(), markitdownmcp.ConverterConfig{HTTPMaxRetries: 1})
	require.NoError(t, err)
	assert.Contains(t, mux, "file")
	assert.Contains(t, mux, "http")
	assert.Contains(t, mux, "https")
	assert.NotContains(t, mux, "s3")
	assert.Empty(t, staged)
}

func TestNewOpener_S3(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	mux, staged, err := NewOpener(context.Background(), markitdownmcp.ConverterConfig{S3Enabled: true})
	require.NoError(t, err)
	assert.Contains(t, mux, "s3")
	assert.Equal(t, []string{"s3"}, staged)
}
