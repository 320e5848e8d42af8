package storage

import (
	"context"
	"io"
	"net/url"
	"os"
)

// FileOpener reads local paths and file:// URLs.
type FileOpener struct{}

func NewFileOpener() *FileOpener {
	return &FileOpener{}
}

func (f *FileOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	return os.Open(LocalPath(location))
}

// LocalPath strips a file:// prefix. Other locations are returned unchanged.
func LocalPath(location string) string {
	if Scheme(location) != "file" {
		return location
	}
	if u, err := url.Parse(location); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return location
}
