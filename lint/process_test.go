package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

const motorSource = "from tango.server import Device\n" +
	"\n" +
	"\n" +
	"class motor(Device):\n" +
	"    def init_device(self):\n" +
	"        super().init_device()\n"

// extractArchive unpacks a txtar fixture into a fresh temp dir and
// returns its root.
func extractArchive(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	root := t.TempDir()
	for _, f := range txtar.Parse(data).Files {
		path := filepath.Join(root, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	return root
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, t.TempDir(), "motor.py", motorSource)

	results, err := ProcessPath(context.Background(), nil, New(), path)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, path, results[0].Path)
	require.Len(t, results[0].Issues, 1)
	assert.Equal(t, "T001", results[0].Issues[0].Code)
}

func TestProcessPathSkipsNonPython(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, t.TempDir(), "notes.txt", "not python\n")

	results, err := ProcessPath(context.Background(), nil, New(), path)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcessPathMissing(t *testing.T) {
	t.Parallel()

	_, err := ProcessPath(context.Background(), nil, New(), filepath.Join(t.TempDir(), "gone.py"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stat")
}

func TestProcessPathDirectory(t *testing.T) {
	t.Parallel()

	root := extractArchive(t, "project.txtar")

	results, err := ProcessPath(context.Background(), nil, New(), root)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(root, "devices", "motor.py"), results[0].Path)
	assert.Equal(t, filepath.Join(root, "util", "clean.py"), results[1].Path)

	require.Len(t, results[0].Issues, 1)
	assert.Equal(t, "T001", results[0].Issues[0].Code)
	assert.Empty(t, results[1].Issues, "a clean file still gets a result")
}

func TestProcessFilesKeepsArgumentOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeTempFile(t, dir, "b_device.py", motorSource)
	second := writeTempFile(t, dir, "a_clean.py", "import os\n")

	results, err := ProcessFiles(context.Background(), nil, New(), []string{first, second})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].Path)
	assert.Equal(t, second, results[1].Path)
}

func TestProcessPathCancelled(t *testing.T) {
	t.Parallel()

	root := extractArchive(t, "project.txtar")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ProcessPath(ctx, nil, New(), root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
