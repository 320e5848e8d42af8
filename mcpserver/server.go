// Package mcpserver exposes the tool catalog over the Model Context Protocol.
package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"markitdownmcp"
	"markitdownmcp/tools"
)

type Options struct {
	Name    string
	Version string
}

// Server is an mcp-go server whose tools/call answers every tool name,
// including ones outside the catalog, with a text result from the dispatcher.
type Server struct {
	*server.MCPServer

	catalog    markitdownmcp.ToolProvider
	dispatcher markitdownmcp.Dispatcher
}

// New registers every catalog tool on a fresh MCP server. Each handler defers
// to the dispatcher and always returns a single text content item.
func New(opts Options, catalog markitdownmcp.ToolProvider, dispatcher markitdownmcp.Dispatcher) (*Server, error) {
	s := server.NewMCPServer(opts.Name, opts.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, t := range catalog.GetTools() {
		tool, err := Descriptor(t)
		if err != nil {
			return nil, err
		}
		s.AddTool(tool, handler(dispatcher))
	}
	return &Server{MCPServer: s, catalog: catalog, dispatcher: dispatcher}, nil
}

// Descriptor converts a catalog tool into its advertised MCP form.
func Descriptor(t tools.Tool) (mcp.Tool, error) {
	schema, err := json.Marshal(t.InputSchema())
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("marshal input schema for %q: %w", t.Name(), err)
	}
	return mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema), nil
}

func handler(dispatcher markitdownmcp.Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := dispatcher.Call(ctx, req.Params.Name, req.GetArguments())
		return mcp.NewToolResultText(resp.Text), nil
	}
}

type toolCallMessage struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type toolCallResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      json.RawMessage     `json:"id"`
	Result  *mcp.CallToolResult `json:"result"`
}

// HandleMessage answers tools/call requests for names outside the catalog
// itself, since mcp-go would reject them with a JSON-RPC error. Everything
// else goes to mcp-go. A nil result means there is nothing to send back.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) any {
	var msg toolCallMessage
	if err := json.Unmarshal(raw, &msg); err == nil && msg.Method == string(mcp.MethodToolsCall) && len(msg.ID) > 0 {
		if _, err := s.catalog.GetTool(msg.Params.Name); err != nil {
			resp := s.dispatcher.Call(ctx, msg.Params.Name, msg.Params.Arguments)
			return toolCallResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				ID:      msg.ID,
				Result:  mcp.NewToolResultText(resp.Text),
			}
		}
	}

	return s.MCPServer.HandleMessage(ctx, raw)
}

// ServeStdio reads newline-delimited JSON-RPC messages from in and writes one
// response line per request to out. Requests are handled concurrently. It
// returns when in is exhausted (after in-flight requests finish) or ctx is done.
func ServeStdio(ctx context.Context, s *Server, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if strings.TrimSpace(line) != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	defer wg.Wait()

	write := func(resp any) {
		data, err := json.Marshal(resp)
		if err != nil {
			slog.Error("SERVER: Failed to marshal response", "error", err)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if _, err := out.Write(append(data, '\n')); err != nil {
			slog.Error("SERVER: Failed to write response", "error", err)
		}
	}

	slog.Info("SERVER: Listening on stdio")
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				slog.Info("SERVER: Input closed")
				return nil
			}
			return fmt.Errorf("read stdin: %w", err)
		case line := <-lines:
			wg.Add(1)
			go func() {
				defer wg.Done()
				if resp := s.HandleMessage(ctx, json.RawMessage(line)); resp != nil {
					write(resp)
				}
			}()
		}
	}
}
