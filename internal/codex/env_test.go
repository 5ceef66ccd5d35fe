package codex

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usbide/usbide/internal/workspace"
)

func TestBuildEnvRedirectsStateOntoWorkspace(t *testing.T) {
	root := workspace.New("/stick")
	env := buildEnv(root, map[string]string{"HOME": "/home/alice"}, EnvOptions{}, false)

	assert.Equal(t, root.CodexHome(), env["CODEX_HOME"])
	assert.Equal(t, root.TmpDir(), env["TEMP"])
	assert.Equal(t, root.TmpDir(), env["TMP"])
	assert.Equal(t, root.TmpDir(), env["TMPDIR"])
	assert.Equal(t, root.NpmCacheDir(), env["NPM_CONFIG_CACHE"])
	assert.Equal(t, "false", env["NPM_CONFIG_UPDATE_NOTIFIER"])
	assert.Equal(t, "/home/alice", env["HOME"])
}

func TestBuildEnvScrubsCredentials(t *testing.T) {
	root := workspace.New("/stick")
	ambient := map[string]string{
		"OPENAI_API_KEY":  "sk-secret",
		"CODEX_API_KEY":   "also-secret",
		"OPENAI_BASE_URL": "https://proxy.example",
		"OPENAI_API_BASE": "https://proxy.example",
		"OPENAI_API_HOST": "proxy.example",
		"UNRELATED":       "kept",
	}

	env := buildEnv(root, ambient, EnvOptions{}, false)
	for _, key := range []string{
		"OPENAI_API_KEY", "CODEX_API_KEY",
		"OPENAI_BASE_URL", "OPENAI_API_BASE", "OPENAI_API_HOST",
	} {
		_, present := env[key]
		assert.False(t, present, key)
	}
	assert.Equal(t, "kept", env["UNRELATED"])
}

func TestBuildEnvAllowOverrides(t *testing.T) {
	root := workspace.New("/stick")
	ambient := map[string]string{
		"OPENAI_API_KEY":  "sk-secret",
		"OPENAI_BASE_URL": "https://proxy.example",
	}

	env := buildEnv(root, ambient, EnvOptions{AllowAPIKey: true}, false)
	assert.Equal(t, "sk-secret", env["OPENAI_API_KEY"])
	_, present := env["OPENAI_BASE_URL"]
	assert.False(t, present)

	env = buildEnv(root, ambient, EnvOptions{AllowCustomBase: true}, false)
	_, present = env["OPENAI_API_KEY"]
	assert.False(t, present)
	assert.Equal(t, "https://proxy.example", env["OPENAI_BASE_URL"])
}

func TestBuildEnvScrubsCaseInsensitiveOnWindows(t *testing.T) {
	root := workspace.New(`E:\stick`)
	ambient := map[string]string{"Openai_Api_Key": "sk-secret"}

	env := buildEnv(root, ambient, EnvOptions{}, true)
	assert.Empty(t, env["Openai_Api_Key"])

	// Off Windows the environment is case-sensitive and the odd casing
	// is a different variable.
	env = buildEnv(workspace.New("/stick"), ambient, EnvOptions{}, false)
	assert.Equal(t, "sk-secret", env["Openai_Api_Key"])
}

func TestBuildEnvUTF8HintsSetIfAbsent(t *testing.T) {
	root := workspace.New("/stick")

	env := buildEnv(root, map[string]string{}, EnvOptions{}, false)
	assert.Equal(t, "1", env["PYTHONUTF8"])
	assert.Equal(t, "utf-8", env["PYTHONIOENCODING"])

	env = buildEnv(root, map[string]string{
		"PYTHONUTF8":       "0",
		"PYTHONIOENCODING": "latin-1",
	}, EnvOptions{}, false)
	assert.Equal(t, "0", env["PYTHONUTF8"])
	assert.Equal(t, "latin-1", env["PYTHONIOENCODING"])
}

func TestBuildEnvPathPrepend(t *testing.T) {
	root := workspace.New("/stick")
	env := buildEnv(root, map[string]string{"PATH": "/usr/bin:/bin"}, EnvOptions{
		PrependPath: []string{"/stick/.usbide/codex/node_modules/.bin", "/stick/tools/node"},
	}, false)

	assert.Equal(t,
		"/stick/.usbide/codex/node_modules/.bin:/stick/tools/node:/usr/bin:/bin",
		env["PATH"])
}

func TestBuildEnvPathPrependEmptyBase(t *testing.T) {
	root := workspace.New("/stick")
	env := buildEnv(root, map[string]string{}, EnvOptions{
		PrependPath: []string{"/stick/tools/node"},
	}, false)
	assert.Equal(t, "/stick/tools/node", env["PATH"])
}

func TestBuildEnvWindowsPathKeyNormalized(t *testing.T) {
	root := workspace.New(`E:\stick`)
	env := buildEnv(root, map[string]string{"Path": `C:\Windows`}, EnvOptions{
		PrependPath: []string{`E:\stick\tools\node`},
	}, true)

	_, hasOldKey := env["Path"]
	assert.False(t, hasOldKey)
	assert.Equal(t, `E:\stick\tools\node;C:\Windows`, env["PATH"])
}

func TestBuildEnvIsPure(t *testing.T) {
	root := workspace.New("/stick")
	ambient := map[string]string{"PATH": "/bin", "OPENAI_API_KEY": "sk"}

	a := buildEnv(root, ambient, EnvOptions{}, false)
	b := buildEnv(root, ambient, EnvOptions{}, false)
	assert.Equal(t, a, b)
	// The ambient input is never mutated.
	assert.Equal(t, "sk", ambient["OPENAI_API_KEY"])
	assert.Equal(t, "/bin", ambient["PATH"])
}

func TestEnvListSortedAndComplete(t *testing.T) {
	list := EnvList(map[string]string{"B": "2", "A": "1", "C": "3"})
	require.Equal(t, []string{"A=1", "B=2", "C=3"}, list)
	assert.True(t, sort.StringsAreSorted(list))
}
