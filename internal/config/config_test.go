package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usbide/usbide/internal/workspace"
)

func noEnv(string) string { return "" }

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestDefaults(t *testing.T) {
	cfg := load(nil, noEnv)

	assert.False(t, cfg.AllowAPIKey)
	assert.False(t, cfg.AllowCustomBase)
	assert.False(t, cfg.DeviceAuth)
	assert.True(t, cfg.AutoInstall)
	assert.Equal(t, "@openai/codex", cfg.Package)
	assert.Equal(t, "workspace-write", cfg.Sandbox)
	assert.Equal(t, "never", cfg.Approval)
}

func TestFileOverridesDefaults(t *testing.T) {
	data := []byte("device_auth: true\npackage: \"@acme/assistant\"\nsandbox: read-only\n")
	cfg := load(data, noEnv)

	assert.True(t, cfg.DeviceAuth)
	assert.Equal(t, "@acme/assistant", cfg.Package)
	assert.Equal(t, "read-only", cfg.Sandbox)
	// untouched keys keep defaults
	assert.True(t, cfg.AutoInstall)
}

func TestEnvOverridesFile(t *testing.T) {
	data := []byte("device_auth: true\nauto_install: true\n")
	cfg := load(data, envFrom(map[string]string{
		"USBIDE_CODEX_DEVICE_AUTH":   "0",
		"USBIDE_CODEX_AUTO_INSTALL":  "no",
		"USBIDE_CODEX_ALLOW_API_KEY": "yes",
		"USBIDE_CODEX_PACKAGE":       "@acme/assistant",
	}))

	assert.False(t, cfg.DeviceAuth)
	assert.False(t, cfg.AutoInstall)
	assert.True(t, cfg.AllowAPIKey)
	assert.Equal(t, "@acme/assistant", cfg.Package)
}

func TestMalformedFileKeepsDefaults(t *testing.T) {
	cfg := load([]byte("{not yaml:::"), noEnv)
	assert.Equal(t, Default(), cfg)
}

func TestEmptyPackageFallsBack(t *testing.T) {
	cfg := load([]byte("package: \"  \"\n"), noEnv)
	assert.Equal(t, DefaultPackage, cfg.Package)
}

func TestLoadReadsWorkspaceFile(t *testing.T) {
	root := workspace.New(t.TempDir())
	require.NoError(t, root.EnsureDirs())
	require.NoError(t, os.WriteFile(root.ConfigPath(), []byte("device_auth: true\n"), 0o644))

	cfg := Load(root)
	assert.True(t, cfg.DeviceAuth)
	assert.Equal(t, filepath.Join(root.Dir(), ".usbide", "config.yaml"), root.ConfigPath())
}

func TestTruthy(t *testing.T) {
	for _, raw := range []string{"1", "true", "YES", " on "} {
		assert.True(t, Truthy(raw), raw)
	}
	for _, raw := range []string{"", "0", "false", "off", "maybe"} {
		assert.False(t, Truthy(raw), raw)
	}
}
