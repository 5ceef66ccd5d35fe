package proc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// scannerBuffer caps a single output line at 1 MiB; assistant transcripts
// stay far below this, but npm occasionally prints very long progress lines.
const scannerBuffer = 1 << 20

// defaultGrace is how long a cancelled child gets to exit before being killed.
const defaultGrace = 3 * time.Second

type osRunner struct {
	grace time.Duration
}

// NewRunner returns the exec-backed Runner.
func NewRunner() Runner {
	return &osRunner{grace: defaultGrace}
}

type osHandle struct {
	events chan Event
	cancel context.CancelFunc

	done chan struct{}
	code int
	err  error
}

func (h *osHandle) Events() <-chan Event { return h.events }

func (h *osHandle) Cancel() { h.cancel() }

func (h *osHandle) Wait() (int, error) {
	<-h.done
	return h.code, h.err
}

// Start spawns spec.Argv[0] with the given environment and streams its
// combined stdout/stderr line by line. One OS process is created; it is
// always reaped before the event channel closes.
func (r *osRunner) Start(ctx context.Context, spec Spec) (Handle, error) {
	if len(spec.Argv) == 0 {
		return nil, ErrEmptyArgv
	}

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	setSysProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawning %s: %w", spec.Argv[0], err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := &osHandle{
		events: make(chan Event, 64),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	var emit sync.Mutex // serializes channel sends across the two pumps

	pump := func(r io.Reader, stream string) error {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), scannerBuffer)
		for scanner.Scan() {
			emit.Lock()
			h.events <- Event{Kind: KindLine, Stream: stream, Text: scanner.Text()}
			emit.Unlock()
		}
		return scanner.Err()
	}

	var g errgroup.Group
	g.Go(func() error { return pump(stdout, StreamStdout) })
	g.Go(func() error { return pump(stderr, StreamStderr) })

	// Terminate the child when the caller cancels. terminated closes once
	// the child is gone so the watcher never outlives the invocation.
	terminated := make(chan struct{})
	go func() {
		select {
		case <-runCtx.Done():
			terminate(cmd, r.grace, terminated)
		case <-terminated:
		}
	}()

	go func() {
		pumpErr := g.Wait()
		waitErr := cmd.Wait()
		close(terminated)

		h.code = exitCode(waitErr)
		if pumpErr != nil && waitErr == nil {
			waitErr = fmt.Errorf("reading output: %w", pumpErr)
		}
		if h.code >= 0 {
			// A reported exit code, even non-zero, is a normal end of
			// stream; classification happens upstream.
			h.err = nil
		} else {
			h.err = waitErr
		}

		h.events <- Event{Kind: KindExit, Code: h.code}
		close(h.events)
		close(h.done)
		cancel()
	}()

	return h, nil
}

// exitCode maps a cmd.Wait error to an exit code: nil is 0, a process that
// exited with a code reports it, anything else (signals, I/O failure) is -1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
