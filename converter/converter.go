// Package converter wraps the markitdown engine behind a small interface so the
// tool layer can convert files and URLs without knowing how markitdown runs.
package converter

import (
	"context"
	"errors"
)

// ErrUnavailable is returned (wrapped) by a Provider when the engine is not installed.
var ErrUnavailable = errors.New("markitdown unavailable")

// Result is the engine output. TextContent is passed through untouched.
type Result struct {
	TextContent string
}

// Converter turns a filesystem path or URL into markdown.
type Converter interface {
	Convert(ctx context.Context, source string) (Result, error)
}

// Provider hands out a Converter, or an error wrapping ErrUnavailable when the
// engine cannot be used. It is consulted on every conversion so that installing
// markitdown while the server runs takes effect.
type Provider interface {
	Converter(ctx context.Context) (Converter, error)
}

// StaticProvider always returns the same converter. A nil Conv is reported as unavailable.
type StaticProvider struct {
	Conv Converter
}

func (p StaticProvider) Converter(ctx context.Context) (Converter, error) {
	if p.Conv == nil {
		return nil, ErrUnavailable
	}
	return p.Conv, nil
}

// Func adapts a plain function to Converter.
type Func func(ctx context.Context, source string) (Result, error)

func (f Func) Convert(ctx context.Context, source string) (Result, error) {
	return f(ctx, source)
}
