package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"markitdownmcp/storage"
)

// ContainerConverter pipes source bytes through the markitdown container image.
// The container cannot reach the host filesystem, so every source is opened on
// the host and streamed to the container's stdin.
type ContainerConverter struct {
	runtime Runtime
	image   string
	opener  storage.Opener
}

func NewContainerConverter(rt Runtime, image string, opener storage.Opener) *ContainerConverter {
	return &ContainerConverter{runtime: rt, image: image, opener: opener}
}

func (c *ContainerConverter) Convert(ctx context.Context, source string) (Result, error) {
	rc, err := c.opener.Open(ctx, source)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	// Without a filename markitdown has to sniff the stream; the extension hint
	// keeps format detection identical to the CLI backend.
	var args []string
	if ext := extension(source); ext != "" {
		args = append(args, "-x", ext)
	}

	var stdout, stderr bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, args, rc, &stdout, &stderr); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return Result{}, errors.New(msg)
		}
		return Result{}, err
	}
	return Result{TextContent: stdout.String()}, nil
}

// extension returns the lower-cased extension of the path component of source, without the dot.
func extension(source string) string {
	p := source
	if storage.Scheme(source) != "file" {
		u, err := url.Parse(source)
		if err != nil {
			return ""
		}
		p = u.Path
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(strings.ReplaceAll(p, `\`, "/")), "."))
}

// checkImage verifies the runtime has the image locally.
func checkImage(ctx context.Context, rt Runtime, image string) error {
	if err := rt.ImageExists(ctx, image); err != nil {
		return fmt.Errorf("%w: markitdown image not available in %s: %v", ErrUnavailable, rt.Name(), err)
	}
	return nil
}
