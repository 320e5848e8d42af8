// Package app wires configuration, storage, the converter backend, call
// logging and telemetry into a ready dispatcher for the entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"markitdownmcp"
	"markitdownmcp/converter"
	"markitdownmcp/dispatch"
	"markitdownmcp/storage"
	"markitdownmcp/tools"
	"markitdownmcp/webhook"
)

type Options struct {
	// CallLogStream, when set, receives every call as a JSON line.
	CallLogStream io.Writer
	// Provider overrides the configured converter backend.
	Provider converter.Provider
}

type App struct {
	Server     markitdownmcp.ServerConfig
	Converter  markitdownmcp.ConverterConfig
	Registry   *tools.Registry
	Dispatcher markitdownmcp.Dispatcher

	closers []func(ctx context.Context) error
}

func New(ctx context.Context, opts Options) (*App, error) {
	a := &App{}
	if err := envdecode.Decode(&a.Server); err != nil {
		return nil, fmt.Errorf("decode server config: %w", err)
	}
	if err := envdecode.Decode(&a.Converter); err != nil {
		return nil, fmt.Errorf("decode converter config: %w", err)
	}
	if a.Server.Debug {
		markitdownmcp.Dump(a.Server, a.Converter)
	}

	provider := opts.Provider
	if provider == nil {
		p, err := NewProvider(ctx, a.Converter)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	registry, err := tools.NewRegistry(provider)
	if err != nil {
		return nil, err
	}
	a.Registry = registry

	callLogger, err := a.callLogger(opts.CallLogStream)
	if err != nil {
		return nil, err
	}

	d := dispatch.NewDispatcher(registry, callLogger)
	a.Dispatcher = d

	if a.Server.OtelEnabled {
		tp, mp, shutdown, err := markitdownmcp.InitOtel(ctx)
		if err != nil {
			return nil, fmt.Errorf("init otel: %w", err)
		}
		a.closers = append(a.closers, shutdown)

		instrumented, err := dispatch.NewInstrumentedDispatcher(d,
			tp.Tracer(markitdownmcp.TracerNameDispatcher),
			mp.Meter(markitdownmcp.MeterNameDispatcher))
		if err != nil {
			return nil, fmt.Errorf("instrument dispatcher: %w", err)
		}
		a.Dispatcher = instrumented
	}

	slog.Info("SETUP: Ready",
		"backend", a.Converter.Backend,
		"tools", len(registry.GetTools()),
		"otel", a.Server.OtelEnabled)
	return a, nil
}

// Close drains the webhook queue, closes the call log file and shuts
// telemetry down.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) callLogger(stream io.Writer) (markitdownmcp.CallLogger, error) {
	var loggers markitdownmcp.MultiCallLogger

	if stream != nil {
		loggers = append(loggers, markitdownmcp.NewStreamCallLogger(stream))
	}

	if path := a.Server.CallLogPath; path != "" {
		fileLogger, err := markitdownmcp.NewFileCallLogger(markitdownmcp.ResolveCallLogPath(path))
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fileLogger)
		a.closers = append(a.closers, func(context.Context) error { return fileLogger.Close() })
		slog.Info("SETUP: Logging calls to file", "path", fileLogger.Path())
	}

	if url := a.Server.CallLogWebhook; url != "" {
		client := webhook.NewClient(url, &http.Client{Timeout: a.Converter.HTTPTimeout})
		webhookLogger := markitdownmcp.NewWebhookCallLogger(client, 0, 0)
		loggers = append(loggers, webhookLogger)
		a.closers = append(a.closers, webhookLogger.Close)
		slog.Info("SETUP: Posting calls to webhook")
	}

	switch len(loggers) {
	case 0:
		return markitdownmcp.NewNoOpCallLogger(), nil
	case 1:
		return loggers[0], nil
	}
	return loggers, nil
}

// NewProvider builds the converter provider for cfg, including the openers
// the backend needs to reach remote sources.
func NewProvider(ctx context.Context, cfg markitdownmcp.ConverterConfig) (converter.Provider, error) {
	opener, staged, err := NewOpener(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return converter.NewProvider(converter.Options{
		Backend: cfg.Backend,
		Binary:  cfg.Binary,
		Image:   cfg.Image,
		Opener:  opener,
		Staged:  staged,
	})
}

// NewOpener returns a scheme mux over local files, http(s) and, when enabled,
// S3. The second result lists schemes that must be staged to a local file for
// the CLI backend.
func NewOpener(ctx context.Context, cfg markitdownmcp.ConverterConfig) (storage.Mux, []string, error) {
	httpOpener := storage.NewHTTPOpener(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.UserAgent, cfg.HTTPMaxRetries)
	mux := storage.Mux{
		"file":  storage.NewFileOpener(),
		"http":  httpOpener,
		"https": httpOpener,
	}

	var staged []string
	if cfg.S3Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		mux["s3"] = storage.NewS3Opener(s3.NewFromConfig(awsCfg))
		staged = append(staged, "s3")
		slog.Info("SETUP: S3 sources enabled")
	}
	return mux, staged, nil
}
