// Package progress persists the resume point of an annotation run.
//
// The cursor is the index of the next record to process. It is stored as a
// single decimal integer in a plain-text file. A missing or corrupt file is a
// fresh start, not an error.
package progress

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileTracker stores the cursor in a plain-text file.
type FileTracker struct {
	path   string
	logger *slog.Logger
}

// Option configures a FileTracker.
type Option func(*FileTracker)

// WithLogger sets the logger used to report unreadable progress files.
func WithLogger(l *slog.Logger) Option {
	return func(t *FileTracker) {
		t.logger = l
	}
}

// NewFileTracker returns a tracker for path. The file is not touched until
// Load or Save is called.
func NewFileTracker(path string, opts ...Option) *FileTracker {
	t := &FileTracker{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Path returns the progress file location.
func (t *FileTracker) Path() string {
	return t.path
}

// Load returns the persisted cursor, or 0 if there is none. Unreadable,
// unparsable and negative contents are logged and treated as 0.
func (t *FileTracker) Load() int {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.logger.Warn("progress file unreadable, starting from 0", "path", t.path, "error", err)
		}
		return 0
	}

	cursor, err := parse(data)
	if err != nil {
		t.logger.Warn("progress file corrupt, starting from 0", "path", t.path, "error", err)
		return 0
	}
	return cursor
}

// Save durably replaces the persisted cursor with i.
func (t *FileTracker) Save(i int) error {
	if i < 0 {
		return fmt.Errorf("save progress: negative cursor %d", i)
	}
	if err := writeAtomic(t.path, []byte(strconv.Itoa(i))); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	t.logger.Debug("progress saved", "path", t.path, "cursor", i)
	return nil
}

// Reset sets the cursor at path to `to`. It is the only way the cursor moves
// backwards, and only on explicit operator request.
func Reset(path string, to int) error {
	return NewFileTracker(path).Save(to)
}

func parse(data []byte) (int, error) {
	s := strings.TrimSpace(string(data))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse cursor %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse cursor: negative value %d", n)
	}
	return n, nil
}

// writeAtomic writes data to a temp file beside path, syncs it and renames it
// over path, so a crash leaves either the old or the new value.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
