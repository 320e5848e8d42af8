package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"markitdownmcp/storage"
)

// StagedConverter downloads sources with a staged scheme (s3 by default) into a
// temporary file and hands the local path to the wrapped converter. Other
// sources pass straight through.
type StagedConverter struct {
	next    Converter
	opener  storage.Opener
	schemes map[string]bool
	tempDir string
}

func NewStagedConverter(next Converter, opener storage.Opener, schemes ...string) *StagedConverter {
	if len(schemes) == 0 {
		schemes = []string{"s3"}
	}
	set := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		set[s] = true
	}
	return &StagedConverter{next: next, opener: opener, schemes: set}
}

func (s *StagedConverter) Convert(ctx context.Context, source string) (Result, error) {
	if !s.schemes[storage.Scheme(source)] {
		return s.next.Convert(ctx, source)
	}

	local, err := s.stage(ctx, source)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(local)

	return s.next.Convert(ctx, local)
}

// stage copies source into a temp file that keeps the original extension so
// markitdown can detect the format.
func (s *StagedConverter) stage(ctx context.Context, source string) (string, error) {
	rc, err := s.opener.Open(ctx, source)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	pattern := "markitdown-*"
	if ext := extension(source); ext != "" {
		pattern += "." + ext
	}
	f, err := os.CreateTemp(s.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("stage %s: %w", path.Base(source), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stage %s: %w", path.Base(source), err)
	}
	return f.Name(), nil
}
