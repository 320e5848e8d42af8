package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"markitdownmcp"
	"markitdownmcp/tools"
)

// Dispatcher routes a tool call by name and turns every outcome, success or
// failure, into a single text response.
type Dispatcher struct {
	toolProvider markitdownmcp.ToolProvider
	logger       markitdownmcp.CallLogger
}

func NewDispatcher(toolProvider markitdownmcp.ToolProvider, logger markitdownmcp.CallLogger) *Dispatcher {
	if logger == nil {
		logger = markitdownmcp.NewNoOpCallLogger()
	}
	return &Dispatcher{
		toolProvider: toolProvider,
		logger:       logger,
	}
}

// Call never fails; errors are rendered into the response text.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) tools.TextResponse {
	resp, _ := d.Run(ctx, name, args)
	return resp
}

// Run is Call that also reports the underlying error, for callers that record
// outcomes. The response is the same either way.
func (d *Dispatcher) Run(ctx context.Context, name string, args map[string]any) (resp tools.TextResponse, err error) {
	if args == nil {
		args = map[string]any{}
	}

	call := markitdownmcp.NewCallLog(name, args)
	slog.Info("DISPATCH: Handling tool call", "tool", name, "call_id", call.ID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Error: internal failure in %s: %v", name, r)
			resp = tools.NewTextResponse(err.Error())
		}

		call.DurationMS = time.Since(call.Timestamp).Milliseconds()
		call.OutputBytes = len(resp.Text)
		if err != nil {
			call.ErrorKind = tools.ErrorKind(err)
			call.Error = err.Error()
			slog.Warn("DISPATCH: Tool call failed", "tool", name, "call_id", call.ID, "kind", call.ErrorKind, "error", err)
		} else {
			slog.Info("DISPATCH: Tool call completed", "tool", name, "call_id", call.ID, "output_bytes", call.OutputBytes, "duration_ms", call.DurationMS)
		}
		d.logCall(call)
	}()

	tool, err := d.toolProvider.GetTool(name)
	if err != nil {
		return tools.NewTextResponse(err.Error()), err
	}

	out, err := tool.Run(ctx, args)
	if err != nil {
		return tools.NewTextResponse(err.Error()), err
	}
	return tools.NewTextResponse(out), nil
}

func (d *Dispatcher) logCall(call markitdownmcp.CallLog) {
	if err := d.logger.LogCall(call); err != nil {
		slog.Error("Failed to log tool call", "error", err, "call_id", call.ID)
	}
}
