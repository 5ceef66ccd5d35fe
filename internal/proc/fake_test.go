package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeRunnerScript(t *testing.T) {
	f := &FakeRunner{}
	f.Push(FakeResult{Stdout: []string{"a", "b"}, Code: 3})

	h, err := f.Start(context.Background(), Spec{Argv: []string{"codex", "exec"}})
	require.NoError(t, err)

	var texts []string
	var code int
	for ev := range h.Events() {
		switch ev.Kind {
		case KindLine:
			texts = append(texts, ev.Text)
		case KindExit:
			code = ev.Code
		}
	}
	assert.Equal(t, []string{"a", "b"}, texts)
	assert.Equal(t, 3, code)

	require.Len(t, f.Specs, 1)
	assert.Equal(t, []string{"codex", "exec"}, f.Specs[0].Argv)
}

func TestFakeRunnerStartError(t *testing.T) {
	f := &FakeRunner{}
	f.Push(FakeResult{Err: errors.New("no such file")})

	_, err := f.Start(context.Background(), Spec{Argv: []string{"codex"}})
	assert.Error(t, err)
}

func TestFakeRunnerEmptyArgv(t *testing.T) {
	f := &FakeRunner{}
	_, err := f.Start(context.Background(), Spec{})
	assert.ErrorIs(t, err, ErrEmptyArgv)
}

func TestFakeRunnerExhaustedScriptIsCleanExit(t *testing.T) {
	f := &FakeRunner{}
	h, err := f.Start(context.Background(), Spec{Argv: []string{"codex", "login", "status"}})
	require.NoError(t, err)

	code, waitErr := h.Wait()
	assert.Equal(t, 0, code)
	assert.NoError(t, waitErr)
}
