package codex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/usbide/usbide/internal/config"
	"github.com/usbide/usbide/internal/workspace"
)

var (
	// ErrEmptyPrompt rejects blank exec prompts before anything spawns.
	ErrEmptyPrompt = errors.New("prompt must not be empty")
	// ErrEmptyPackage rejects installs with no package name.
	ErrEmptyPackage = errors.New("package name must not be empty")
	// ErrNodeMissing means no Node runtime is available for npm installs.
	ErrNodeMissing = errors.New("node runtime not found: place one under tools/node or add node to PATH")
	// ErrNpmMissing means npm-cli.js could not be located next to Node.
	ErrNpmMissing = errors.New("npm-cli.js not found next to the node runtime")
)

// SandboxMode is the filesystem policy passed to exec runs.
type SandboxMode string

const (
	SandboxReadOnly       SandboxMode = "read-only"
	SandboxWorkspaceWrite SandboxMode = "workspace-write"
	SandboxFullAccess     SandboxMode = "danger-full-access"
)

// ParseSandboxMode accepts the canonical names plus common shorthands.
func ParseSandboxMode(raw string) (SandboxMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "workspace-write", "workspace", "write":
		return SandboxWorkspaceWrite, nil
	case "read-only", "readonly", "ro":
		return SandboxReadOnly, nil
	case "danger-full-access", "full-access", "full":
		return SandboxFullAccess, nil
	}
	return "", fmt.Errorf("unknown sandbox mode %q", raw)
}

// ApprovalPolicy controls when the assistant pauses for confirmation.
type ApprovalPolicy string

const (
	ApprovalNever     ApprovalPolicy = "never"
	ApprovalOnRequest ApprovalPolicy = "on-request"
	ApprovalOnFailure ApprovalPolicy = "on-failure"
	ApprovalUntrusted ApprovalPolicy = "untrusted"
)

// ParseApprovalPolicy accepts the canonical names plus common shorthands.
func ParseApprovalPolicy(raw string) (ApprovalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "never":
		return ApprovalNever, nil
	case "on-request", "request":
		return ApprovalOnRequest, nil
	case "on-failure", "failure":
		return ApprovalOnFailure, nil
	case "untrusted":
		return ApprovalUntrusted, nil
	}
	return "", fmt.Errorf("unknown approval policy %q", raw)
}

// LoginArgs builds the arguments for an interactive login.
func LoginArgs(deviceAuth bool) []string {
	args := []string{"login"}
	if deviceAuth {
		args = append(args, "--device-auth")
	}
	return args
}

// StatusArgs builds the arguments for an authentication probe.
func StatusArgs() []string {
	return []string{"login", "status"}
}

// ExecArgs builds the arguments for a non-interactive exec turn. The prompt
// is passed as a single trailing argument; a "--" separator is inserted when
// it could be mistaken for a flag.
func ExecArgs(prompt string, extra []string) ([]string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil, ErrEmptyPrompt
	}
	args := []string{"exec", "--json"}
	args = append(args, extra...)
	if strings.HasPrefix(trimmed, "-") {
		args = append(args, "--")
	}
	args = append(args, prompt)
	return args, nil
}

// ExecExtraArgs derives the policy flags for an exec run from settings. The
// sandbox flag is always explicit; the approval flag is only passed when the
// policy deviates from the CLI's non-interactive default.
func ExecExtraArgs(settings config.Settings) ([]string, error) {
	sandbox, err := ParseSandboxMode(settings.Sandbox)
	if err != nil {
		return nil, err
	}
	approval, err := ParseApprovalPolicy(settings.Approval)
	if err != nil {
		return nil, err
	}
	extra := []string{"--sandbox", string(sandbox)}
	if approval != ApprovalNever {
		extra = append(extra, "--ask-for-approval", string(approval))
	}
	return extra, nil
}

// SpawnArgv turns a resolved tool plus its arguments into a full argument
// vector, applying the wrapper strategy the resolution chose.
func SpawnArgv(tool Tool, args []string) []string {
	return spawnArgv(tool, args, "")
}

func spawnArgv(tool Tool, args []string, comspec string) []string {
	switch tool.Strategy {
	case WindowsCmdWrapper:
		shell := comspec
		if shell == "" {
			shell = "cmd.exe"
		}
		// /d skips AutoRun, /s preserves quoting of the target path.
		argv := []string{shell, "/d", "/s", "/c", tool.Executable}
		return append(argv, args...)
	case WindowsPowerShellWrapper:
		argv := []string{"powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-File", tool.Executable}
		return append(argv, args...)
	default:
		argv := []string{tool.Executable}
		if tool.Entrypoint != "" {
			argv = append(argv, tool.Entrypoint)
		}
		return append(argv, args...)
	}
}

// SpawnArgvEnv is SpawnArgv with COMSPEC taken from env, for Windows cmd
// wrappers that should honor a nonstandard interpreter location.
func SpawnArgvEnv(tool Tool, args []string, env map[string]string) []string {
	return spawnArgv(tool, args, envValue(env, "COMSPEC", true))
}

// InstallArgv builds the complete argument vector for installing pkg into
// the workspace-managed prefix through the portable Node runtime.
func InstallArgv(root workspace.Root, env map[string]string, pkg string) ([]string, error) {
	if strings.TrimSpace(pkg) == "" {
		return nil, ErrEmptyPackage
	}
	node, ok := NodeExecutable(root, env)
	if !ok {
		return nil, ErrNodeMissing
	}
	npm, ok := NpmCLI(node)
	if !ok {
		return nil, ErrNpmMissing
	}
	return []string{
		node, npm, "install",
		"--prefix", root.CodexPrefix(),
		"--no-audit", "--no-fund",
		pkg,
	}, nil
}
