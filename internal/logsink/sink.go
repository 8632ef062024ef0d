// Package logsink provides the asynchronous file-backed log sink. Pipeline
// code only ever sees a *slog.Logger; this package is the collaborator that
// persists the event stream. Entries flow through a bounded channel to a
// single writer goroutine, and Shutdown drains what is queued.
package logsink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSink is an io.Writer whose writes are queued and appended to a dated
// log file by a background goroutine. Plug it into a slog handler.
type FileSink struct {
	f *os.File

	ch   chan []byte
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*FileSink)

// WithQueueSize bounds the number of in-flight entries.
func WithQueueSize(n int) Option {
	return func(s *FileSink) {
		if n > 0 {
			s.ch = make(chan []byte, n)
		}
	}
}

// New creates dir if needed, opens (or appends to) finstat-YYYYMMDD.log
// inside it, and starts the writer goroutine.
func New(dir string, opts ...Option) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("finstat-%s.log", time.Now().Format("20060102"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	s := &FileSink{
		f:  f,
		ch: make(chan []byte, 1024),
	}
	for _, o := range opts {
		o(s)
	}
	s.start()
	return s, nil
}

func (s *FileSink) start() {
	s.once.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for entry := range s.ch {
				if _, err := s.f.Write(entry); err != nil {
					fmt.Fprintf(os.Stderr, "logsink: write failed: %v\n", err)
				}
			}
		}()
	})
}

// Write queues one formatted log entry. The slog handler reuses its buffer,
// so the entry is copied before it crosses the channel. A full queue blocks
// the caller rather than dropping the entry.
func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return len(p), nil
	}
	entry := make([]byte, len(p))
	copy(entry, p)
	s.ch <- entry
	return len(p), nil
}

// Shutdown stops accepting entries, drains the queue, and closes the file.
// The context bounds how long the drain may take.
func (s *FileSink) Shutdown(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); s.wg.Wait() }()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "logsink: shutdown interrupted by context")
	case <-done:
	}
	_ = s.f.Close()
}

// Path returns the log file location, mainly for startup messages and tests.
func (s *FileSink) Path() string {
	return s.f.Name()
}
