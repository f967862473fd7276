package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrorLog appends per-file failures to a plain text log so a long run
// can be audited after the fact. An empty path keeps counts only.
type ErrorLog struct {
	mu    sync.Mutex
	path  string
	count int
	file  *os.File
}

// NewErrorLog opens (or creates) the log file for appending.
func NewErrorLog(path string) (*ErrorLog, error) {
	l := &ErrorLog{path: path}
	if path == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open error log: %w", err)
	}
	l.file = f
	return l, nil
}

// Log records one failure.
func (l *ErrorLog) Log(path, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count++
	if l.file != nil {
		line := fmt.Sprintf("%s | %s | %s\n",
			time.Now().Format(time.RFC3339), filepath.Base(path), msg)
		l.file.WriteString(line)
	}
}

// Count returns the number of logged failures.
func (l *ErrorLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close closes the underlying file.
func (l *ErrorLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
