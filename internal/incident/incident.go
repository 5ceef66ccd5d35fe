// Package incident appends human-readable problem reports to the workspace
// incident journal (bug.md). The journal is a best-effort sink: writes that
// fail are dropped silently so a broken stick never turns a diagnostic into a
// second error. Credential values must never be passed to this package.
package incident

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Severity of a recorded incident.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Logger appends markdown blocks to a single journal file.
// A nil *Logger is valid and records nothing.
type Logger struct {
	path string
	now  func() time.Time
}

// New returns a Logger appending to path.
func New(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

// Record appends one self-contained block. details may be empty.
func (l *Logger) Record(sev Severity, context, message, details string) {
	if l == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", l.now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, "- severity: %s\n", sev)
	fmt.Fprintf(&b, "- context: %s\n", context)
	fmt.Fprintf(&b, "- message: %s\n", message)
	if details != "" {
		fmt.Fprintf(&b, "- details: %s\n", details)
	}
	b.WriteString("\n")

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(b.String())
}
