package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"markitdownmcp"
	"markitdownmcp/app"
	"markitdownmcp/tools"
)

// newHandler answers each event through d. Tool failures are part of the
// response text, so the handler itself never returns an error.
func newHandler(d markitdownmcp.Dispatcher) func(ctx context.Context, call tools.Call) (tools.TextResponse, error) {
	return func(ctx context.Context, call tools.Call) (tools.TextResponse, error) {
		slog.Info("LAMBDA: Invocation", "tool", call.Tool)
		return d.Call(ctx, call.Tool, call.Arguments), nil
	}
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	ctx := context.Background()
	a, err := app.New(ctx, app.Options{CallLogStream: os.Stdout})
	if err != nil {
		log.Fatalf("Failed to set up: %s", err)
	}
	// Call logs and telemetry are flushed when the runtime shuts the function down.
	lambda.StartWithOptions(
		newHandler(a.Dispatcher),
		lambda.WithContext(ctx),
		lambda.WithEnableSIGTERM(func() {
			if err := a.Close(ctx); err != nil {
				slog.Error("SHUTDOWN: Failed to close", "error", err)
			}
		}),
	)
}
