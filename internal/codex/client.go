package codex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/usbide/usbide/internal/config"
	"github.com/usbide/usbide/internal/id"
	"github.com/usbide/usbide/internal/incident"
	"github.com/usbide/usbide/internal/log"
	"github.com/usbide/usbide/internal/proc"
	"github.com/usbide/usbide/internal/workspace"
)

// ErrNotAuthenticated means the authentication probe failed, so the
// requested operation was not attempted.
var ErrNotAuthenticated = errors.New("not authenticated: run the login operation first")

// EmitFunc receives transcript events as they are decoded. Called from the
// goroutine driving the invocation; implementations should be quick.
type EmitFunc func(Event)

// InvokeError is a child invocation that ran but failed.
type InvokeError struct {
	Op       string
	ExitCode int
	Status   int // HTTP status hint observed in the stream, 0 when absent
	Diag     Diagnostic
}

func (e *InvokeError) Error() string {
	msg := fmt.Sprintf("codex %s failed with exit code %d", e.Op, e.ExitCode)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if advice := e.Diag.Advice(); advice != "" {
		msg += ": " + advice
	}
	return msg
}

// Client runs assistant operations against one workspace. Operations are
// serialized by the caller; Client itself holds no goroutines.
type Client struct {
	root      workspace.Root
	settings  config.Settings
	runner    proc.Runner
	resolver  *Resolver
	incidents *incident.Logger

	// ambient snapshots the parent environment; overridable in tests.
	ambient func() map[string]string

	// autoInstalled limits implicit installs to one per session.
	autoInstalled bool
}

// NewClient returns a Client for root using runner to spawn children.
func NewClient(root workspace.Root, settings config.Settings, runner proc.Runner) *Client {
	return &Client{
		root:      root,
		settings:  settings,
		runner:    runner,
		resolver:  NewResolver(root),
		incidents: incident.New(root.IncidentLogPath()),
		ambient:   Ambient,
	}
}

// Env builds the sanitized child environment for this client's settings.
func (c *Client) Env() map[string]string {
	return BuildEnv(c.root, c.ambient(), EnvOptions{
		AllowAPIKey:     c.settings.AllowAPIKey,
		AllowCustomBase: c.settings.AllowCustomBase,
		PrependPath:     PathPrepends(c.root),
	})
}

// Resolve exposes tool resolution for doctor-style inspection.
func (c *Client) Resolve() (Tool, error) {
	return c.resolver.Resolve(c.Env())
}

// Login runs the interactive sign-in flow, streaming its output as notice
// events.
func (c *Client) Login(ctx context.Context, emit EmitFunc) error {
	const op = "login"
	env := c.Env()
	tool, err := c.resolveTool(ctx, env, emit)
	if err != nil {
		return err
	}

	argv := SpawnArgvEnv(tool, LoginArgs(c.settings.DeviceAuth), env)
	code, err := c.run(ctx, op, argv, env, func(line string) {
		emitNoticeLine(emit, line)
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return c.fail(op, code, 0)
	}
	return nil
}

// Status probes authentication. nil means signed in; ErrNotAuthenticated
// means the probe ran and reported otherwise.
func (c *Client) Status(ctx context.Context) error {
	const op = "status"
	env := c.Env()
	tool, err := c.resolveTool(ctx, env, nil)
	if err != nil {
		return err
	}

	code, err := c.run(ctx, op, SpawnArgvEnv(tool, StatusArgs(), env), env, nil)
	if err != nil {
		return err
	}
	if code != 0 {
		return ErrNotAuthenticated
	}
	return nil
}

// Exec runs one non-interactive assistant turn. The authentication probe
// gates the run: on failure the prompt is never sent. Decoded transcript
// events stream to emit; whatever arrived before a failure is still
// delivered.
func (c *Client) Exec(ctx context.Context, prompt string, emit EmitFunc) error {
	const op = "exec"

	extra, err := ExecExtraArgs(c.settings)
	if err != nil {
		return err
	}
	args, err := ExecArgs(prompt, extra)
	if err != nil {
		return err
	}

	env := c.Env()
	tool, err := c.resolveTool(ctx, env, emit)
	if err != nil {
		return err
	}

	if err := c.Status(ctx); err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			c.explainAuthFailure(emit)
			c.incidents.Record(incident.SeverityWarning, "codex exec",
				"authentication probe failed, prompt not sent", "")
		}
		return err
	}

	parser := NewParser()
	var lastStatus int
	feed := func(line string) {
		for _, ev := range parser.Feed(line) {
			if ev.Kind == EventError && ev.Status != 0 {
				lastStatus = ev.Status
			}
			emit(ev)
		}
	}

	code, err := c.run(ctx, op, SpawnArgvEnv(tool, args, env), env, feed)
	for _, ev := range parser.Flush() {
		emit(ev)
	}
	if err != nil {
		return err
	}
	if code != 0 {
		return c.fail(op, code, lastStatus)
	}
	return nil
}

// Install installs (or updates) the managed package into the workspace
// prefix through the portable Node runtime, then invalidates the cached
// resolution so the next operation picks up the fresh entrypoint.
func (c *Client) Install(ctx context.Context, emit EmitFunc) error {
	const op = "install"
	env := c.Env()
	argv, err := InstallArgv(c.root, env, c.settings.Package)
	if err != nil {
		return err
	}

	code, err := c.run(ctx, op, argv, env, func(line string) {
		emitNoticeLine(emit, line)
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return c.fail(op, code, 0)
	}
	c.resolver.Invalidate()
	return nil
}

// resolveTool resolves the CLI, auto-installing once per session when it is
// missing and the settings allow it.
func (c *Client) resolveTool(ctx context.Context, env map[string]string, emit EmitFunc) (Tool, error) {
	tool, err := c.resolver.Resolve(env)
	if err == nil {
		return tool, nil
	}
	if !errors.Is(err, ErrNotFound) || !c.settings.AutoInstall || c.autoInstalled {
		return Tool{}, err
	}

	c.autoInstalled = true
	if emit != nil {
		emit(Event{Kind: EventNotice, Text: "Codex CLI not found, installing it into the workspace."})
	}
	if installErr := c.Install(ctx, orDiscard(emit)); installErr != nil {
		c.incidents.Record(incident.SeverityError, "codex install",
			"automatic install failed", installErr.Error())
		return Tool{}, fmt.Errorf("auto-install: %w", installErr)
	}
	return c.resolver.Resolve(env)
}

// run spawns argv and pumps its output, calling onLine for each line of
// either stream. Returns the exit code.
func (c *Client) run(ctx context.Context, op string, argv []string, env map[string]string, onLine func(string)) (int, error) {
	invID := id.Generate("inv")
	logger := log.With("invocation", invID, "op", op)
	logger.Debug("spawning child", "argv0", argv[0], "args", len(argv)-1)

	h, err := c.runner.Start(ctx, proc.Spec{
		Argv: argv,
		Dir:  c.root.Dir(),
		Env:  EnvList(env),
	})
	if err != nil {
		c.incidents.Record(incident.SeverityError, "codex "+op,
			"failed to start child process", err.Error())
		return 0, fmt.Errorf("starting codex %s: %w", op, err)
	}

	code := 0
	for ev := range h.Events() {
		switch ev.Kind {
		case proc.KindLine:
			if onLine != nil {
				onLine(ev.Text)
			}
		case proc.KindExit:
			code = ev.Code
		}
	}
	logger.Debug("child exited", "code", code)
	return code, nil
}

// fail records the incident and returns the classified invocation error.
func (c *Client) fail(op string, code, status int) error {
	diag := Classify(code, status)
	invErr := &InvokeError{Op: op, ExitCode: code, Status: status, Diag: diag}
	c.incidents.Record(incident.SeverityError, "codex "+op, invErr.Error(), "")
	return invErr
}

// explainAuthFailure mirrors the guidance shown when the probe fails.
func (c *Client) explainAuthFailure(emit EmitFunc) {
	if emit == nil {
		return
	}
	emit(Event{Kind: EventNotice, Text: "Codex login check failed (status returned an error)."})
	emit(Event{Kind: EventNotice, Text: "If you are not signed in, run login and try again."})
	emit(Event{Kind: EventNotice, Text: "If you are already signed in, check the install and the network connection."})
	if !c.settings.DeviceAuth {
		emit(Event{Kind: EventNotice, Text: "Tip: if the browser does not open, set USBIDE_CODEX_DEVICE_AUTH=1."})
	}
}

// emitNoticeLine forwards one raw output line as a notice, applying the
// known-chatter translations.
func emitNoticeLine(emit EmitFunc, line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if translated := TranslateLine(trimmed); translated != "" {
		trimmed = translated
	}
	emit(Event{Kind: EventNotice, Text: trimmed})
}

func orDiscard(emit EmitFunc) EmitFunc {
	if emit != nil {
		return emit
	}
	return func(Event) {}
}
