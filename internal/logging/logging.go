// Package logging builds the file logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// New returns a logfmt logger writing to w. An empty level means info.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level = strings.TrimSpace(level); level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Prefix:          "todolist",
		Formatter:       log.LogfmtFormatter,
	}), nil
}

// Open appends to the log file at path. The returned closer closes the file.
func Open(path, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode) //nolint:gosec // path inside the data dir
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// Discard returns a logger that drops every record.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
