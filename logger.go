package markitdownmcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CallLogger records one entry per dispatched tool call.
type CallLogger interface {
	LogCall(call CallLog) error
}

var ErrCallLogQueueFull = errors.New("call log queue full")

// NewCallLogFilePath returns a timestamped log file path under dir.
func NewCallLogFilePath(dir string) string {
	if dir == "" {
		dir = "./logs"
	}
	return fmt.Sprintf("%s/%d.calls.jsonl", strings.TrimSuffix(dir, "/"), time.Now().Unix())
}

// ResolveCallLogPath maps MCP_CALL_LOG_PATH to a file. An existing directory,
// or a path ending in a separator, gets a timestamped file inside it.
func ResolveCallLogPath(path string) string {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return NewCallLogFilePath(path)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return NewCallLogFilePath(path)
	}
	return path
}

// CallLog represents a single tool call and its outcome
type CallLog struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Tool        string         `json:"tool"`
	Input       map[string]any `json:"input,omitempty"`
	OutputBytes int            `json:"output_bytes"`
	ErrorKind   string         `json:"error_kind,omitempty"`
	Error       string         `json:"error,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
}

// NewCallLog starts a log entry for a call to tool with a fresh call id.
func NewCallLog(tool string, input map[string]any) CallLog {
	return CallLog{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Tool:      tool,
		Input:     input,
	}
}

// StreamCallLogger writes each call as a JSON line. Lambda points it at
// stdout for CloudWatch; the stdio server must use stderr instead.
type StreamCallLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStreamCallLogger(w io.Writer) *StreamCallLogger {
	return &StreamCallLogger{w: w}
}

func (l *StreamCallLogger) LogCall(call CallLog) error {
	data, err := json.Marshal(call)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(append(data, '\n'))
	return err
}

// FileCallLogger appends one JSON line per call to a file. Each record is
// written as it arrives, so nothing is held in memory between calls.
type FileCallLogger struct {
	*StreamCallLogger
	f *os.File
}

func NewFileCallLogger(path string) (*FileCallLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create call log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log: %w", err)
	}
	return &FileCallLogger{StreamCallLogger: NewStreamCallLogger(f), f: f}, nil
}

func (l *FileCallLogger) Path() string { return l.f.Name() }

func (l *FileCallLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// NoOpCallLogger discards all log entries
type NoOpCallLogger struct{}

func NewNoOpCallLogger() *NoOpCallLogger {
	return &NoOpCallLogger{}
}

func (nop *NoOpCallLogger) LogCall(call CallLog) error {
	return nil
}

type WebhookPoster interface {
	Post(ctx context.Context, payload any) error
}

// WebhookCallLogger posts calls from a background goroutine so a slow
// receiver never delays a tool response. When the queue is full the call is
// dropped and LogCall returns ErrCallLogQueueFull.
type WebhookCallLogger struct {
	poster  WebhookPoster
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan CallLog
	done   chan struct{}
}

func NewWebhookCallLogger(poster WebhookPoster, timeout time.Duration, queueSize int) *WebhookCallLogger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	l := &WebhookCallLogger{
		poster:  poster,
		timeout: timeout,
		queue:   make(chan CallLog, queueSize),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *WebhookCallLogger) LogCall(call CallLog) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return errors.New("call log webhook closed")
	}
	select {
	case l.queue <- call:
		return nil
	default:
		return ErrCallLogQueueFull
	}
}

func (l *WebhookCallLogger) run() {
	defer close(l.done)
	for call := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		if err := l.poster.Post(ctx, call); err != nil {
			slog.Error("Failed to post call log", "error", err, "call_id", call.ID)
		}
		cancel()
	}
}

// Close stops accepting calls and waits until queued ones are posted or ctx is done.
func (l *WebhookCallLogger) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MultiCallLogger fans a call out to every logger and joins their errors.
type MultiCallLogger []CallLogger

func (m MultiCallLogger) LogCall(call CallLog) error {
	var errs []error
	for _, l := range m {
		if err := l.LogCall(call); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
