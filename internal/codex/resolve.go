package codex

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/usbide/usbide/internal/workspace"
)

// Origin says where a resolved tool came from.
type Origin int

const (
	// OriginPortable is a runtime + entrypoint pair under the workspace.
	OriginPortable Origin = iota
	// OriginPathFallback is an executable found on the host PATH.
	OriginPathFallback
)

func (o Origin) String() string {
	if o == OriginPortable {
		return "portable"
	}
	return "path"
}

// Strategy is how the resolved target must be spawned.
type Strategy int

const (
	// DirectExec spawns the executable as-is.
	DirectExec Strategy = iota
	// WindowsCmdWrapper routes a .cmd/.bat shim through the command
	// interpreter.
	WindowsCmdWrapper
	// WindowsPowerShellWrapper routes a .ps1 script through powershell
	// with a one-shot execution-policy bypass.
	WindowsPowerShellWrapper
)

func (s Strategy) String() string {
	switch s {
	case WindowsCmdWrapper:
		return "cmd-wrapper"
	case WindowsPowerShellWrapper:
		return "powershell-wrapper"
	default:
		return "direct"
	}
}

// Tool is the result of resolution, immutable until Invalidate.
type Tool struct {
	Origin     Origin
	Executable string
	Entrypoint string // set when a runtime executes a script (portable install)
	Strategy   Strategy
}

// ErrNotFound means neither a portable install nor a PATH executable exists.
var ErrNotFound = errors.New("codex CLI not found: run the install operation or add codex to PATH")

// Resolver locates the codex CLI for one workspace. The result is cached for
// the session; Invalidate forces a re-resolution after an install.
type Resolver struct {
	root    workspace.Root
	windows bool

	mu     sync.Mutex
	cached *Tool
}

// NewResolver returns a Resolver for root.
func NewResolver(root workspace.Root) *Resolver {
	return &Resolver{root: root, windows: runtime.GOOS == "windows"}
}

// Resolve returns the cached tool, resolving on first use. env supplies PATH
// (and PATHEXT/COMSPEC on Windows); pass the sanitized environment so
// resolution sees the same world the child will.
func (r *Resolver) Resolve(env map[string]string) (Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached != nil {
		return *r.cached, nil
	}
	tool, err := resolveTool(r.root, env, r.windows)
	if err != nil {
		return Tool{}, err
	}
	r.cached = &tool
	return tool, nil
}

// Invalidate drops the cached resolution. Called after an install so the
// freshly installed entrypoint is picked up.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = nil
}

func resolveTool(root workspace.Root, env map[string]string, windows bool) (Tool, error) {
	// Portable install first: workspace Node runtime plus the managed
	// entrypoint always wins over whatever the host has.
	if node, ok := nodeExecutable(root, env, windows); ok {
		if entry, ok := entrypointJS(root.CodexPrefix()); ok {
			return Tool{
				Origin:     OriginPortable,
				Executable: node,
				Entrypoint: entry,
				Strategy:   DirectExec,
			}, nil
		}
	}

	resolved, ok := lookPath("codex", env, windows)
	if !ok {
		return Tool{}, ErrNotFound
	}
	return Tool{
		Origin:     OriginPathFallback,
		Executable: resolved,
		Strategy:   strategyFor(resolved, windows),
	}, nil
}

// strategyFor inspects the extension of a PATH-resolved target. Script shims
// need an interpreter on Windows; everything else spawns directly.
func strategyFor(path string, windows bool) Strategy {
	if !windows {
		return DirectExec
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cmd", ".bat":
		return WindowsCmdWrapper
	case ".ps1":
		return WindowsPowerShellWrapper
	default:
		return DirectExec
	}
}

// NodeExecutable finds the Node runtime: the portable copy under tools/node
// first, then the host PATH.
func NodeExecutable(root workspace.Root, env map[string]string) (string, bool) {
	return nodeExecutable(root, env, runtime.GOOS == "windows")
}

func nodeExecutable(root workspace.Root, env map[string]string, windows bool) (string, bool) {
	nodeDir := root.NodeDir()
	var candidates []string
	if windows {
		candidates = append(candidates, filepath.Join(nodeDir, "node.exe"))
	} else {
		candidates = append(candidates,
			filepath.Join(nodeDir, "bin", "node"),
			filepath.Join(nodeDir, "node"),
		)
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, true
		}
	}
	return lookPath("node", env, windows)
}

// EntrypointJS resolves the managed install's entry script from the package
// manifest's bin field.
func EntrypointJS(prefix string) (string, bool) {
	return entrypointJS(prefix)
}

func entrypointJS(prefix string) (string, bool) {
	pkgJSON := filepath.Join(prefix, "node_modules", "@openai", "codex", "package.json")
	data, err := os.ReadFile(pkgJSON)
	if err != nil {
		return "", false
	}
	var manifest struct {
		Bin any `json:"bin"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", false
	}

	var rel string
	switch bin := manifest.Bin.(type) {
	case string:
		rel = bin
	case map[string]any:
		if v, ok := bin["codex"].(string); ok {
			rel = v
		} else {
			for _, v := range bin {
				if s, ok := v.(string); ok {
					rel = s
					break
				}
			}
		}
	}
	if rel == "" {
		return "", false
	}
	entry := filepath.Join(filepath.Dir(pkgJSON), filepath.FromSlash(rel))
	if !fileExists(entry) {
		return "", false
	}
	return entry, true
}

// NpmCLI locates npm-cli.js relative to a Node runtime, so installs can run
// npm through the portable Node instead of a host npm shim.
func NpmCLI(node string) (string, bool) {
	nodeDir := filepath.Dir(node)
	candidates := []string{
		filepath.Join(nodeDir, "node_modules", "npm", "bin", "npm-cli.js"),
		filepath.Join(filepath.Dir(nodeDir), "lib", "node_modules", "npm", "bin", "npm-cli.js"),
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, true
		}
	}
	return "", false
}

// lookPath searches env's PATH for cmd, honoring PATHEXT on Windows. A cmd
// containing a separator is treated as a literal path.
func lookPath(cmd string, env map[string]string, windows bool) (string, bool) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return "", false
	}

	hasSep := strings.ContainsRune(cmd, os.PathSeparator) || (windows && strings.ContainsRune(cmd, '/'))
	if filepath.IsAbs(cmd) || hasSep {
		if fileExists(cmd) {
			return cmd, true
		}
		return "", false
	}

	exts := []string{""}
	if windows && filepath.Ext(cmd) == "" {
		pathext := envValue(env, "PATHEXT", windows)
		if pathext == "" {
			pathext = ".COM;.EXE;.BAT;.CMD;.PS1"
		}
		exts = exts[:0]
		for _, ext := range strings.Split(pathext, ";") {
			if ext != "" {
				exts = append(exts, ext)
			}
		}
		if len(exts) == 0 {
			exts = []string{""}
		}
	}

	sep := ":"
	if windows {
		sep = ";"
	}
	for _, dir := range strings.Split(envValue(env, "PATH", windows), sep) {
		if dir == "" {
			continue
		}
		for _, ext := range exts {
			candidate := filepath.Join(dir, cmd+ext)
			if fileExists(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

// envValue reads key from env, case-insensitively on Windows (PATH arrives
// as Path there).
func envValue(env map[string]string, key string, windows bool) string {
	if v, ok := env[key]; ok {
		return v
	}
	if windows {
		for k, v := range env {
			if strings.EqualFold(k, key) {
				return v
			}
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// PathPrepends lists the portable directories to put in front of the child's
// PATH, frontmost first: the managed install's .bin, the Node directory, and
// Node's bin subdirectory when present.
func PathPrepends(root workspace.Root) []string {
	dirs := []string{root.CodexBinDir(), root.NodeDir()}
	if nodeBin := filepath.Join(root.NodeDir(), "bin"); dirExists(nodeBin) {
		dirs = append(dirs, nodeBin)
	}
	return dirs
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
