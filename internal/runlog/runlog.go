// Package runlog captures raw device traffic for a test run. A Writer
// that was never opened is a no-op, so callers can log unconditionally
// without checking whether capture was requested.
package runlog

import (
	"fmt"
	"os"
	"time"
)

// Writer appends received device output and sent responses to a log file.
type Writer struct {
	file *os.File
}

// Discard returns a Writer whose operations are all no-ops.
func Discard() *Writer {
	return &Writer{}
}

// Open creates (truncating) the log file and writes a timestamped header.
func Open(name string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	if _, err := fmt.Fprintf(f, "dutrun %s\n", time.Now().Format("2006-01-02 15:04:05")); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write run log header: %w", err)
	}
	return &Writer{file: f}, nil
}

// Write appends raw received bytes to the log.
func (w *Writer) Write(p []byte) error {
	if w == nil || w.file == nil {
		return nil
	}
	_, err := w.file.Write(p)
	return err
}

// Line appends a text line to the log.
func (w *Writer) Line(s string) error {
	if w == nil || w.file == nil {
		return nil
	}
	_, err := fmt.Fprintln(w.file, s)
	return err
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	return w.file.Close()
}
