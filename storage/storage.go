// Package storage opens conversion sources (local files, http(s) URLs and S3
// objects) as byte streams for backends that cannot fetch them on their own.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Opener opens the bytes behind a location. Callers must close the reader.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Scheme returns the lower-cased URL scheme of location, or "file" for plain
// paths (including Windows drive letters).
func Scheme(location string) string {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// Mux routes a location to the Opener registered for its scheme.
type Mux map[string]Opener

func (m Mux) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	scheme := Scheme(location)
	o, ok := m[scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported source scheme %q", scheme)
	}
	return o.Open(ctx, location)
}

// TestOpener is a simple in-memory implementation for testing
type TestOpener struct {
	data   map[string][]byte
	err    error
	Opened []string
}

func NewTestOpener(data map[string][]byte) *TestOpener {
	return &TestOpener{data: data}
}

func NewTestOpenerWithError() *TestOpener {
	return &TestOpener{err: errors.New("not found")}
}

func (t *TestOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	t.Opened = append(t.Opened, location)
	if t.err != nil {
		return nil, t.err
	}
	b, ok := t.data[location]
	if !ok {
		return nil, fmt.Errorf("%s: not found", location)
	}
	return io.NopCloser(strings.NewReader(string(b))), nil
}
