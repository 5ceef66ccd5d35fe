// Package config loads the caller-facing switches controlling the assistant
// integration: credential pass-through, device auth, auto-install, and exec
// policies. Values come from .usbide/config.yaml in the workspace, overridden
// by USBIDE_CODEX_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/usbide/usbide/internal/workspace"
)

// Settings holds the override switches for assistant invocations.
type Settings struct {
	// AllowAPIKey lets OPENAI_API_KEY/CODEX_API_KEY pass through to the
	// child process instead of being scrubbed.
	AllowAPIKey bool `yaml:"allow_api_key"`

	// AllowCustomBase lets OPENAI_BASE_URL/OPENAI_API_BASE/OPENAI_API_HOST
	// pass through.
	AllowCustomBase bool `yaml:"allow_custom_base"`

	// DeviceAuth adds --device-auth to login, for hosts where a browser
	// flow is unavailable.
	DeviceAuth bool `yaml:"device_auth"`

	// AutoInstall runs the install operation when no codex CLI is found.
	AutoInstall bool `yaml:"auto_install"`

	// Package is the npm package installed into the workspace.
	Package string `yaml:"package"`

	// Sandbox is the exec sandbox mode (read-only, workspace-write,
	// danger-full-access; aliases accepted).
	Sandbox string `yaml:"sandbox"`

	// Approval is the exec approval policy (untrusted, on-failure,
	// on-request, never; aliases accepted).
	Approval string `yaml:"approval"`
}

// DefaultPackage is the npm package containing the assistant CLI.
const DefaultPackage = "@openai/codex"

// Default returns the default settings.
func Default() Settings {
	return Settings{
		AutoInstall: true,
		Package:     DefaultPackage,
		Sandbox:     "workspace-write",
		Approval:    "never",
	}
}

// Load reads the workspace config file (if any) and applies environment
// overrides. A missing or malformed file yields defaults; the environment
// always wins over the file.
func Load(root workspace.Root) Settings {
	return load(readFile(root.ConfigPath()), os.Getenv)
}

func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

func load(data []byte, getenv func(string) string) Settings {
	cfg := Default()
	if len(data) > 0 {
		_ = yaml.Unmarshal(data, &cfg) // malformed file: keep defaults
	}

	overlayBool(&cfg.AllowAPIKey, getenv("USBIDE_CODEX_ALLOW_API_KEY"))
	overlayBool(&cfg.AllowCustomBase, getenv("USBIDE_CODEX_ALLOW_CUSTOM_BASE"))
	overlayBool(&cfg.DeviceAuth, getenv("USBIDE_CODEX_DEVICE_AUTH"))
	overlayBool(&cfg.AutoInstall, getenv("USBIDE_CODEX_AUTO_INSTALL"))
	overlayString(&cfg.Package, getenv("USBIDE_CODEX_PACKAGE"))
	overlayString(&cfg.Sandbox, getenv("USBIDE_CODEX_SANDBOX"))
	overlayString(&cfg.Approval, getenv("USBIDE_CODEX_APPROVAL"))

	if strings.TrimSpace(cfg.Package) == "" {
		cfg.Package = DefaultPackage
	}
	return cfg
}

func overlayBool(dst *bool, raw string) {
	if raw == "" {
		return
	}
	*dst = Truthy(raw)
}

func overlayString(dst *string, raw string) {
	if strings.TrimSpace(raw) != "" {
		*dst = strings.TrimSpace(raw)
	}
}

// Truthy reports whether raw is an enabled switch value (1/true/yes/on).
func Truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// String renders the non-secret switches for doctor output.
func (s Settings) String() string {
	return fmt.Sprintf("package=%s sandbox=%s approval=%s auto_install=%t device_auth=%t",
		s.Package, s.Sandbox, s.Approval, s.AutoInstall, s.DeviceAuth)
}
