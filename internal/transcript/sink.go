package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrSinkClosed is returned when writing to a sink after Close.
var ErrSinkClosed = errors.New("transcript sink closed")

// ErrSinkLocked is returned when another process already writes the same transcript.
var ErrSinkLocked = errors.New("transcript file is locked by another writer")

// Sink receives transcript output. Flush must push everything written so far
// to durable storage.
type Sink interface {
	io.Writer
	Flush() error
}

// FileSink is an exclusively owned UTF-8 transcript file.
type FileSink struct {
	path string
	file *os.File
	buf  *bufio.Writer
	lock *flock.Flock
}

// OpenFileSink creates (or truncates) path, creating parent directories as
// needed, and takes an advisory lock so only one writer owns the transcript.
func OpenFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrSinkLocked)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
		return nil, fmt.Errorf("open transcript file: %w", err)
	}

	return &FileSink{
		path: path,
		file: file,
		buf:  bufio.NewWriterSize(file, 64*1024),
		lock: lock,
	}, nil
}

// Path returns the transcript location.
func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Write(p []byte) (int, error) {
	if s.file == nil {
		return 0, ErrSinkClosed
	}
	return s.buf.Write(p)
}

// Flush writes buffered bytes and syncs the file.
func (s *FileSink) Flush() error {
	if s.file == nil {
		return ErrSinkClosed
	}
	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("flush transcript: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync transcript: %w", err)
	}
	return nil
}

// Close flushes, closes the file and releases the lock. Safe to call twice.
func (s *FileSink) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	s.file = nil

	if err := s.lock.Unlock(); err == nil {
		_ = os.Remove(s.lock.Path())
	}

	if flushErr != nil {
		return fmt.Errorf("flush transcript: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close transcript: %w", closeErr)
	}
	return nil
}
