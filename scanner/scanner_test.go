package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return root
}

func TestScanFindsPythonFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"motor.py":          "import tango",
		"README.md":         "docs",
		"devices/pump.py":   "import tango",
		"devices/notes.txt": "not python",
	})

	files, err := New(root).Scan()
	require.NoError(t, err)

	require.Len(t, files, 2, "only .py files should be collected")
	assert.Equal(t, filepath.Join(root, "devices", "pump.py"), files[0].Path)
	assert.Equal(t, filepath.Join(root, "motor.py"), files[1].Path)
	for _, f := range files {
		assert.Greater(t, f.Size, int64(0), "size comes from the walk")
	}
}

func TestScanSkipsNoiseDirectories(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"server.py":                   "import tango",
		"__pycache__/server.py":       "stale",
		"venv/lib/site.py":            "vendored",
		"node_modules/pkg/index.py":   "vendored",
		".git/hooks/sample.py":        "hook",
		".hidden/secret.py":           "hidden",
		"devices/__pycache__/x.py":    "stale",
		"devices/controller.py":       "import tango",
		"devices/.cache/generated.py": "generated",
	})

	files, err := New(root).Scan()
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "devices", "controller.py"), files[0].Path)
	assert.Equal(t, filepath.Join(root, "server.py"), files[1].Path)
}

func TestScanCustomExtensions(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"device.py":  "import tango",
		"device.pyi": "stub",
	})

	files, err := New(root, ".py", ".pyi").Scan()
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "device.py"), files[0].Path)
	assert.Equal(t, filepath.Join(root, "device.pyi"), files[1].Path)
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "gone")).Scan()
	assert.Error(t, err)
}

func TestScanEmptyTree(t *testing.T) {
	t.Parallel()

	files, err := New(t.TempDir()).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}
