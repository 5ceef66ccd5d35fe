// Package proc spawns child processes and streams their output as ordered
// line events. The Runner interface is the seam between the assistant layer
// and the operating system: production code uses the exec-backed runner,
// tests use FakeRunner so no real process or network is ever touched.
package proc

import (
	"context"
	"errors"
)

// EventKind discriminates stream events.
type EventKind int

const (
	// KindLine carries one output line from the child.
	KindLine EventKind = iota
	// KindExit is the final event; the channel closes after it.
	KindExit
)

// Stream origins for line events.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// Event is one element of a child process output stream.
type Event struct {
	Kind   EventKind
	Stream string // StreamStdout or StreamStderr for KindLine
	Text   string // line content, trailing newline stripped
	Code   int    // exit code for KindExit; -1 when unknown (signal, spawn race)
}

// ErrEmptyArgv is returned when a caller asks to spawn nothing.
var ErrEmptyArgv = errors.New("argv must not be empty")

// Spec describes one child process invocation.
type Spec struct {
	Argv []string
	Dir  string
	Env  []string // nil inherits the parent environment
}

// Handle follows a running child process.
type Handle interface {
	// Events returns the ordered event stream. It is closed after the
	// exit event is delivered. Callers must drain it until closed or the
	// pump goroutines leak.
	Events() <-chan Event

	// Cancel terminates the child. The event stream still ends with an
	// exit event and closes promptly. Safe to call multiple times.
	Cancel()

	// Wait blocks until the child has exited and returns its exit code
	// (-1 if unknown) and any wait-level error.
	Wait() (int, error)
}

// Runner spawns child processes.
type Runner interface {
	Start(ctx context.Context, spec Spec) (Handle, error)
}
