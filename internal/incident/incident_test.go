package incident

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAppendsBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bug.md")
	l := New(path)
	l.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

	l.Record(SeverityError, "codex_exec", "exec failed (rc=1)", "")
	l.Record(SeverityWarning, "codex_status", "not logged in", "run login first")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "## 2026-03-14T09:26:53")
	assert.Contains(t, text, "- severity: error")
	assert.Contains(t, text, "- context: codex_exec")
	assert.Contains(t, text, "- message: exec failed (rc=1)")
	assert.Contains(t, text, "- details: run login first")
	assert.NotContains(t, text, "- details: \n")
}

func TestRecordSwallowsWriteErrors(t *testing.T) {
	// Point at a path whose parent does not exist; Record must not panic
	// and must not create anything.
	l := New(filepath.Join(t.TempDir(), "missing", "deep", "bug.md"))
	l.Record(SeverityInfo, "ctx", "msg", "")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Record(SeverityError, "ctx", "msg", "")
}
