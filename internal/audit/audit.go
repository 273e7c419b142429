// Package audit appends human-readable operation records to a log file in
// the profile directory, when enabled.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the audit log file inside the profile directory.
const FileName = "audit"

// Logger appends audit lines. A disabled logger is a no-op, so callers
// never need to check the enable flag themselves.
type Logger struct {
	path    string
	enabled bool
	now     func() time.Time
}

// New creates a Logger writing to the audit file inside dir.
func New(dir string, enabled bool) *Logger {
	return &Logger{
		path:    filepath.Join(dir, FileName),
		enabled: enabled,
		now:     time.Now,
	}
}

// Enabled reports whether the logger writes anything.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Log appends one line of the form
//
//	[2026-01-02T15:04:05Z] SAVE: work (oauth)
//
// The details part is omitted when empty. The file is created with
// owner-only permissions on first write. Failures are returned but are
// advisory; no lifecycle operation depends on the audit log.
func (l *Logger) Log(operation, profile, details string) error {
	if !l.enabled {
		return nil
	}

	line := fmt.Sprintf("[%s] %s: %s", l.now().UTC().Format(time.RFC3339), operation, profile)
	if details != "" {
		line += " (" + details + ")"
	}
	line += "\n"

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
