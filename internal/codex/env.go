package codex

import (
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/usbide/usbide/internal/workspace"
)

// Credential and endpoint variables stripped from the child unless an
// explicit override allows them through.
var (
	apiKeyVars     = []string{"OPENAI_API_KEY", "CODEX_API_KEY"}
	customBaseVars = []string{"OPENAI_BASE_URL", "OPENAI_API_BASE", "OPENAI_API_HOST"}
)

// EnvOptions tunes environment construction.
type EnvOptions struct {
	// AllowAPIKey lets the host's API-key variables pass through.
	AllowAPIKey bool
	// AllowCustomBase lets custom endpoint variables pass through.
	AllowCustomBase bool
	// PrependPath lists directories placed in front of PATH, frontmost
	// first. Typically PathPrepends(root).
	PrependPath []string
}

// Ambient snapshots the parent process environment as a map. On Windows the
// last-writer-wins collapse of duplicate keys matches what CreateProcess does.
func Ambient() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// BuildEnv derives the child environment from the ambient one. Pure: the same
// inputs always give the same map. The result redirects every cache and state
// location onto the workspace so nothing leaks onto the host machine, and
// strips credentials and endpoint overrides unless opts allows them.
func BuildEnv(root workspace.Root, ambient map[string]string, opts EnvOptions) map[string]string {
	return buildEnv(root, ambient, opts, runtime.GOOS == "windows")
}

func buildEnv(root workspace.Root, ambient map[string]string, opts EnvOptions, windows bool) map[string]string {
	env := make(map[string]string, len(ambient)+8)
	for k, v := range ambient {
		env[k] = v
	}

	if !opts.AllowAPIKey {
		deleteVars(env, apiKeyVars, windows)
	}
	if !opts.AllowCustomBase {
		deleteVars(env, customBaseVars, windows)
	}

	// All assistant state lives on the stick, not in the host profile.
	env["CODEX_HOME"] = root.CodexHome()
	tmp := root.TmpDir()
	env["TEMP"] = tmp
	env["TMP"] = tmp
	env["TMPDIR"] = tmp
	env["NPM_CONFIG_CACHE"] = root.NpmCacheDir()
	env["NPM_CONFIG_UPDATE_NOTIFIER"] = "false"

	// UTF-8 hints for embedded Python tooling, set only when the host has
	// not expressed a preference.
	if _, ok := env["PYTHONUTF8"]; !ok {
		env["PYTHONUTF8"] = "1"
	}
	if _, ok := env["PYTHONIOENCODING"]; !ok {
		env["PYTHONIOENCODING"] = "utf-8"
	}

	if len(opts.PrependPath) > 0 {
		prependPath(env, opts.PrependPath, windows)
	}
	return env
}

// deleteVars removes names from env, matching keys case-insensitively on
// Windows where the environment block is case-preserving but caseless.
func deleteVars(env map[string]string, names []string, windows bool) {
	for _, name := range names {
		delete(env, name)
		if windows {
			for k := range env {
				if strings.EqualFold(k, name) {
					delete(env, k)
				}
			}
		}
	}
}

// prependPath puts dirs in front of the existing PATH, preserving their
// order. On Windows the value may live under a differently cased key (Path);
// it is normalized to a single PATH entry.
func prependPath(env map[string]string, dirs []string, windows bool) {
	key := "PATH"
	existing := env["PATH"]
	if windows {
		for k, v := range env {
			if strings.EqualFold(k, "PATH") {
				existing = v
				if k != "PATH" {
					delete(env, k)
				}
			}
		}
	}

	sep := ":"
	if windows {
		sep = ";"
	}
	parts := make([]string, 0, len(dirs)+1)
	parts = append(parts, dirs...)
	if existing != "" {
		parts = append(parts, existing)
	}
	env[key] = strings.Join(parts, sep)
}

// EnvList flattens an environment map into sorted KEY=value form for
// exec.Cmd. Sorting keeps spawn specs deterministic and diffable in logs.
func EnvList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}
