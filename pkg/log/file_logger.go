package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger writes events to an .rlog file: a Header followed by one CBOR
// item per event. Opening an existing log appends to it. It is safe for
// concurrent use.
type FileLogger struct {
	path    string
	maxSize int64

	mu      sync.Mutex
	file    *os.File
	size    int64
	encoder *cbor.Encoder
	closed  bool
}

// FileLoggerOption configures a FileLogger.
type FileLoggerOption func(*FileLogger)

// WithMaxSize rotates the log once it reaches n bytes. The full file is
// renamed to path + ".1", replacing any earlier one, and a fresh log is
// started. Zero disables rotation.
func WithMaxSize(n int64) FileLoggerOption {
	return func(l *FileLogger) {
		l.maxSize = n
	}
}

// NewFileLogger opens path for appending, creating it with mode 0644.
// An existing non-empty file must already be a renderer control log.
func NewFileLogger(path string, opts ...FileLoggerOption) (*FileLogger, error) {
	l := &FileLogger{path: path}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) open() error {
	if err := checkExisting(l.path); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	l.file = f
	l.size = info.Size()
	l.encoder = logEncMode.NewEncoder(sizeWriter{l})
	if l.size == 0 {
		if err := l.encoder.Encode(NewHeader(time.Now())); err != nil {
			f.Close()
			return fmt.Errorf("write log header: %w", err)
		}
	}
	return nil
}

// checkExisting refuses to append to a file that is not an .rlog.
func checkExisting(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := readHeader(logDecMode.NewDecoder(f)); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Log writes the event. Events logged after Close, or after a failed
// rotation, are dropped.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	// Logging must not disrupt control, so encoding errors are dropped.
	_ = l.encoder.Encode(event)

	if l.maxSize > 0 && l.size >= l.maxSize {
		if err := l.rotate(); err != nil {
			l.closed = true
		}
	}
}

func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(l.path, l.path+".1"); err != nil {
		return err
	}
	return l.open()
}

// Close closes the file. Further calls are no-ops.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

// sizeWriter tracks how many bytes have reached the current file.
type sizeWriter struct {
	l *FileLogger
}

func (w sizeWriter) Write(p []byte) (int, error) {
	n, err := w.l.file.Write(p)
	w.l.size += int64(n)
	return n, err
}

var _ Logger = (*FileLogger)(nil)
