// Package workspace defines the on-stick directory layout. Every path the
// rest of the program writes to or hands to a child process derives from a
// single Root; nothing is ever placed under host-global locations.
package workspace

import (
	"os"
	"path/filepath"
)

// Root is the workspace root directory of a portable install.
type Root struct {
	dir string
}

// New returns a Root for dir. The directory does not need to exist yet;
// call EnsureDirs before spawning anything.
func New(dir string) Root {
	return Root{dir: dir}
}

// Dir returns the root directory path.
func (r Root) Dir() string { return r.dir }

// TmpDir is the scratch directory exported as TEMP/TMP/TMPDIR to children.
func (r Root) TmpDir() string { return filepath.Join(r.dir, "tmp") }

// CodexHome is the assistant's home/config directory (CODEX_HOME).
func (r Root) CodexHome() string { return filepath.Join(r.dir, "codex_home") }

// NpmCacheDir is the package-manager cache (NPM_CONFIG_CACHE).
func (r Root) NpmCacheDir() string { return filepath.Join(r.dir, "cache", "npm") }

// HiddenDir is the .usbide directory holding managed installs and state.
func (r Root) HiddenDir() string { return filepath.Join(r.dir, ".usbide") }

// CodexPrefix is the npm --prefix directory of the managed codex install.
func (r Root) CodexPrefix() string { return filepath.Join(r.HiddenDir(), "codex") }

// CodexBinDir is the .bin directory of the managed codex install.
func (r Root) CodexBinDir() string {
	return filepath.Join(r.CodexPrefix(), "node_modules", ".bin")
}

// NodeDir is where a portable Node runtime lives (tools/node).
func (r Root) NodeDir() string { return filepath.Join(r.dir, "tools", "node") }

// LogDir holds the structured debug logs.
func (r Root) LogDir() string { return filepath.Join(r.HiddenDir(), "logs") }

// ConfigPath is the optional workspace settings file.
func (r Root) ConfigPath() string { return filepath.Join(r.HiddenDir(), "config.yaml") }

// IncidentLogPath is the append-only incident journal at the workspace root.
func (r Root) IncidentLogPath() string { return filepath.Join(r.dir, "bug.md") }

// EnsureDirs creates the writable workspace directories. Called once at
// startup; failures on individual directories are returned so the caller can
// surface a single actionable message.
func (r Root) EnsureDirs() error {
	for _, dir := range []string{
		r.NpmCacheDir(),
		r.TmpDir(),
		r.CodexHome(),
		r.HiddenDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
