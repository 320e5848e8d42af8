package converter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"markitdownmcp/storage"
)

const (
	BackendCLI       = "cli"
	BackendContainer = "container"
)

// Options selects and configures a markitdown backend.
type Options struct {
	Backend string
	Binary  string
	Image   string

	// Opener fetches sources the backend cannot read itself. The container
	// backend needs one for every scheme; the CLI backend only for staged
	// schemes such as s3.
	Opener storage.Opener
	// Staged lists schemes the CLI backend must download first.
	Staged []string
}

// NewProvider returns a Provider for the configured backend. Availability is
// checked on every acquisition, not here.
func NewProvider(opts Options) (Provider, error) {
	switch opts.Backend {
	case "", BackendCLI:
		return &cliProvider{bin: opts.Binary, exec: defaultExec, opener: opts.Opener, staged: opts.Staged}, nil
	case BackendContainer:
		if opts.Opener == nil {
			return nil, fmt.Errorf("container backend requires a source opener")
		}
		return &containerProvider{image: opts.Image, opener: opts.Opener, detect: DetectRuntime, ttl: containerCheckTTL, now: time.Now}, nil
	default:
		return nil, fmt.Errorf("unknown markitdown backend %q", opts.Backend)
	}
}

type cliProvider struct {
	bin    string
	exec   executor
	opener storage.Opener
	staged []string
}

func (p *cliProvider) Converter(ctx context.Context) (Converter, error) {
	c := &CLIConverter{bin: p.bin, exec: p.exec}
	if err := c.Available(); err != nil {
		slog.Warn("CONVERTER: markitdown CLI unavailable", "bin", p.bin, "error", err)
		return nil, err
	}
	if p.opener != nil && len(p.staged) > 0 {
		return NewStagedConverter(c, p.opener, p.staged...), nil
	}
	return c, nil
}

// containerCheckTTL bounds how long a successful runtime and image check is reused.
const containerCheckTTL = 30 * time.Second

type containerProvider struct {
	image  string
	opener storage.Opener
	detect func(ctx context.Context) (Runtime, error)

	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	cached    Converter
	checkedAt time.Time
}

// Converter reuses the last successful check for ttl. Failures are not cached
// so a runtime or image that appears is picked up on the next call.
func (p *containerProvider) Converter(ctx context.Context) (Converter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && p.now().Sub(p.checkedAt) < p.ttl {
		return p.cached, nil
	}
	p.cached = nil

	rt, err := p.detect(ctx)
	if err != nil {
		slog.Warn("CONVERTER: No container runtime", "error", err)
		return nil, err
	}
	if err := checkImage(ctx, rt, p.image); err != nil {
		slog.Warn("CONVERTER: markitdown image missing", "runtime", rt.Name(), "image", p.image, "error", err)
		return nil, err
	}

	p.cached = NewContainerConverter(rt, p.image, p.opener)
	p.checkedAt = p.now()
	return p.cached, nil
}
