package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsDeriveFromRoot(t *testing.T) {
	r := New(filepath.Join("some", "stick"))

	assert.Equal(t, filepath.Join("some", "stick", "codex_home"), r.CodexHome())
	assert.Equal(t, filepath.Join("some", "stick", "tmp"), r.TmpDir())
	assert.Equal(t, filepath.Join("some", "stick", "cache", "npm"), r.NpmCacheDir())
	assert.Equal(t, filepath.Join("some", "stick", ".usbide", "codex"), r.CodexPrefix())
	assert.Equal(t, filepath.Join("some", "stick", ".usbide", "codex", "node_modules", ".bin"), r.CodexBinDir())
	assert.Equal(t, filepath.Join("some", "stick", "tools", "node"), r.NodeDir())
	assert.Equal(t, filepath.Join("some", "stick", "bug.md"), r.IncidentLogPath())
}

func TestEnsureDirs(t *testing.T) {
	r := New(t.TempDir())
	require.NoError(t, r.EnsureDirs())

	for _, dir := range []string{r.NpmCacheDir(), r.TmpDir(), r.CodexHome(), r.HiddenDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}
