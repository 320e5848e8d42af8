package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// CLIConverter runs the markitdown command-line tool and returns its stdout.
// The source is passed as the only argument, so anything markitdown accepts
// (paths, http(s) URLs, file:// and data: URIs) works unchanged.
type CLIConverter struct {
	bin  string
	exec executor
}

func NewCLIConverter(bin string) *CLIConverter {
	return &CLIConverter{bin: bin, exec: defaultExec}
}

// Available reports whether the markitdown binary is on PATH.
func (c *CLIConverter) Available() error {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return fmt.Errorf("%w: %s not found on PATH: %v", ErrUnavailable, c.bin, err)
	}
	return nil
}

func (c *CLIConverter) Convert(ctx context.Context, source string) (Result, error) {
	var stdout, stderr bytes.Buffer
	slog.Debug("CONVERTER: Running markitdown", "bin", c.bin, "source", source)

	if err := c.exec.RunPiped(ctx, c.bin, []string{source}, nil, &stdout, &stderr); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return Result{}, errors.New(msg)
		}
		return Result{}, fmt.Errorf("running %s: %w", c.bin, err)
	}
	return Result{TextContent: stdout.String()}, nil
}
