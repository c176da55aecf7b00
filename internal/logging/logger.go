// Package logging provides the append-only log sink shared by the
// deployment runner and the transfer engine. Messages carry an optional
// color hint that interactive console sinks may honor; file sinks ignore it.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Color is a rendering hint attached to a log message.
type Color = color.Attribute

// Color hints used across the deployment output.
const (
	Green  = color.FgGreen
	Red    = color.FgRed
	Yellow = color.FgYellow
	Cyan   = color.FgCyan
	White  = color.FgHiWhite
)

// Logger writes deployment progress to a single sink. It is safe for use
// from multiple goroutines, although the runner itself is sequential.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	colors bool
	file   *os.File
}

// New creates a logger writing to out. Color hints are honored only when
// colors is true.
func New(out io.Writer, colors bool) *Logger {
	return &Logger{out: out, colors: colors}
}

// NewConsole creates a logger writing to standard output.
func NewConsole(colors bool) *Logger {
	return New(os.Stdout, colors)
}

// NewFile creates a logger appending to the file at path. File sinks
// never render colors.
func NewFile(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &Logger{out: f, file: f}, nil
}

// Log appends one message to the sink. attrs is an optional color hint.
func (l *Logger) Log(msg string, attrs ...Color) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.colors && len(attrs) > 0 {
		color.New(attrs...).Fprintln(l.out, msg)
		return
	}
	fmt.Fprintln(l.out, msg)
}

// Close releases the underlying file when the logger owns one.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
