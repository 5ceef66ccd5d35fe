package proc

import (
	"context"
	"sync"
)

// FakeResult scripts one Start call on a FakeRunner.
type FakeResult struct {
	Stdout []string
	Stderr []string
	Code   int
	Err    error // returned from Start; nothing is streamed
}

// FakeRunner is a deterministic Runner for tests. Each Start call consumes
// the next scripted result and records the Spec it was given. When the
// script runs out, Start yields an immediate clean exit.
type FakeRunner struct {
	mu      sync.Mutex
	results []FakeResult

	// Specs records every Start call in order, for assertions on argv,
	// dir, and environment.
	Specs []Spec
}

// Push appends a scripted result.
func (f *FakeRunner) Push(res FakeResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, res)
}

// Start implements Runner.
func (f *FakeRunner) Start(ctx context.Context, spec Spec) (Handle, error) {
	if len(spec.Argv) == 0 {
		return nil, ErrEmptyArgv
	}

	f.mu.Lock()
	f.Specs = append(f.Specs, spec)
	var res FakeResult
	if len(f.results) > 0 {
		res = f.results[0]
		f.results = f.results[1:]
	}
	f.mu.Unlock()

	if res.Err != nil {
		return nil, res.Err
	}

	events := make(chan Event, len(res.Stdout)+len(res.Stderr)+1)
	for _, line := range res.Stdout {
		events <- Event{Kind: KindLine, Stream: StreamStdout, Text: line}
	}
	for _, line := range res.Stderr {
		events <- Event{Kind: KindLine, Stream: StreamStderr, Text: line}
	}
	events <- Event{Kind: KindExit, Code: res.Code}
	close(events)

	done := make(chan struct{})
	close(done)
	return &fakeHandle{events: events, code: res.Code, done: done}, nil
}

type fakeHandle struct {
	events chan Event
	code   int
	done   chan struct{}
}

func (h *fakeHandle) Events() <-chan Event { return h.events }
func (h *fakeHandle) Cancel()              {}
func (h *fakeHandle) Wait() (int, error) {
	<-h.done
	return h.code, nil
}
