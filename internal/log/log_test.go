package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStderrLevelDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Stderr: &buf}))
	defer Close()

	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")

	out := buf.String()
	assert.NotContains(t, out, "debug msg")
	assert.NotContains(t, out, "info msg")
	assert.Contains(t, out, "warn msg")
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Verbose: true, Stderr: &buf}))
	defer Close()

	Debug("debug msg")
	assert.Contains(t, buf.String(), "debug msg")
}

func TestInteractiveSuppressesVerbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Verbose: true, Interactive: true, Stderr: &buf}))
	defer Close()

	Info("info msg")
	Error("error msg")

	out := buf.String()
	assert.NotContains(t, out, "info msg")
	assert.Contains(t, out, "error msg")
}

func TestFileHandlerGetsAllLevels(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Dir: dir, Stderr: &buf}))
	defer Close()

	Debug("to file only")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".jsonl"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file only")
}
