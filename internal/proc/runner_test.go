//go:build !windows

package proc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, h Handle) (lines []Event, exit Event) {
	t.Helper()
	for ev := range h.Events() {
		if ev.Kind == KindExit {
			exit = ev
			continue
		}
		lines = append(lines, ev)
	}
	return lines, exit
}

func TestStartEmptyArgv(t *testing.T) {
	_, err := NewRunner().Start(context.Background(), Spec{})
	assert.ErrorIs(t, err, ErrEmptyArgv)
}

func TestStartSpawnFailure(t *testing.T) {
	_, err := NewRunner().Start(context.Background(), Spec{
		Argv: []string{"/nonexistent/definitely-missing-binary"},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyArgv)
}

func TestStreamsStdoutInOrder(t *testing.T) {
	h, err := NewRunner().Start(context.Background(), Spec{
		Argv: []string{"sh", "-c", "echo one; echo two; echo three"},
	})
	require.NoError(t, err)

	lines, exit := collect(t, h)
	require.Len(t, lines, 3)
	assert.Equal(t, "one", lines[0].Text)
	assert.Equal(t, "two", lines[1].Text)
	assert.Equal(t, "three", lines[2].Text)
	assert.Equal(t, StreamStdout, lines[0].Stream)
	assert.Equal(t, 0, exit.Code)

	code, waitErr := h.Wait()
	assert.Equal(t, 0, code)
	assert.NoError(t, waitErr)
}

func TestStderrTagged(t *testing.T) {
	h, err := NewRunner().Start(context.Background(), Spec{
		Argv: []string{"sh", "-c", "echo oops >&2"},
	})
	require.NoError(t, err)

	lines, _ := collect(t, h)
	require.Len(t, lines, 1)
	assert.Equal(t, StreamStderr, lines[0].Stream)
	assert.Equal(t, "oops", lines[0].Text)
}

func TestExitCodePropagates(t *testing.T) {
	h, err := NewRunner().Start(context.Background(), Spec{
		Argv: []string{"sh", "-c", "exit 7"},
	})
	require.NoError(t, err)

	_, exit := collect(t, h)
	assert.Equal(t, 7, exit.Code)
}

func TestEnvIsolation(t *testing.T) {
	h, err := NewRunner().Start(context.Background(), Spec{
		Argv: []string{"sh", "-c", "echo \"home=$CODEX_HOME key=$OPENAI_API_KEY\""},
		Env:  []string{"PATH=/usr/bin:/bin", "CODEX_HOME=/stick/codex_home"},
	})
	require.NoError(t, err)

	lines, _ := collect(t, h)
	require.Len(t, lines, 1)
	assert.Equal(t, "home=/stick/codex_home key=", lines[0].Text)
}

func TestCancelTerminatesChild(t *testing.T) {
	h, err := NewRunner().Start(context.Background(), Spec{
		Argv: []string{"sh", "-c", "sleep 30"},
	})
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		h.Cancel()
	}()

	start := time.Now()
	_, exit := collect(t, h)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, -1, exit.Code) // killed by signal
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h, err := NewRunner().Start(ctx, Spec{
		Argv: []string{"sh", "-c", "sleep 30"},
	})
	require.NoError(t, err)

	cancel()
	_, exit := collect(t, h)
	assert.Equal(t, -1, exit.Code)
}
