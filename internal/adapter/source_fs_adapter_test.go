package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/scad-tools/flatscad/internal/model"
)

// writeTree lays a fixture project out under a temp dir:
//
//	main.scad
//	notes.txt
//	lib/walls.scad
//	lib/vendor/thirdparty.scad
func writeTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	files := map[string]string{
		"main.scad":                  "include <lib/walls.scad>\n",
		"notes.txt":                  "not a source file\n",
		"lib/walls.scad":             "wall = 2.4;\n",
		"lib/vendor/thirdparty.scad": "x = 1;\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return dir
}

func basesOf(paths []m.Path) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		out = append(out, path.Base())
	}

	return out
}

func TestLocalSourceFSAdapter_Get(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	t.Run("single file root", func(t *testing.T) {
		dir := writeTree(t)

		files, err := adapter.Get([]m.Path{m.Path(filepath.Join(dir, "main.scad"))}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"main.scad"}, basesOf(files))
	})

	t.Run("directory root is non-recursive", func(t *testing.T) {
		dir := writeTree(t)

		files, err := adapter.Get([]m.Path{m.Path(dir)}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"main.scad"}, basesOf(files))
	})

	t.Run("ellipsis root descends", func(t *testing.T) {
		dir := writeTree(t)

		files, err := adapter.Get([]m.Path{m.Path(dir + "/...")}, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"main.scad", "walls.scad", "thirdparty.scad"}, basesOf(files))
	})

	t.Run("non-scad files are ignored", func(t *testing.T) {
		dir := writeTree(t)

		files, err := adapter.Get([]m.Path{m.Path(dir + "/...")}, nil)
		require.NoError(t, err)
		assert.NotContains(t, basesOf(files), "notes.txt")
	})

	t.Run("exclude pattern filters matches", func(t *testing.T) {
		dir := writeTree(t)

		files, err := adapter.Get([]m.Path{m.Path(dir + "/...")}, []string{"vendor"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"main.scad", "walls.scad"}, basesOf(files))
	})

	t.Run("invalid exclude pattern errors", func(t *testing.T) {
		dir := writeTree(t)

		_, err := adapter.Get([]m.Path{m.Path(dir)}, []string{"("})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid exclude pattern")
	})

	t.Run("overlapping roots deduplicate", func(t *testing.T) {
		dir := writeTree(t)

		files, err := adapter.Get([]m.Path{
			m.Path(filepath.Join(dir, "main.scad")),
			m.Path(dir + "/..."),
		}, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"main.scad", "walls.scad", "thirdparty.scad"}, basesOf(files))
	})

	t.Run("missing root errors", func(t *testing.T) {
		_, err := adapter.Get([]m.Path{m.Path(filepath.Join(t.TempDir(), "nope"))}, nil)
		require.Error(t, err)
	})

	t.Run("no roots yields empty", func(t *testing.T) {
		files, err := adapter.Get(nil, nil)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	collect := func(root string, recursive bool) []string {
		var visited []string

		err := adapter.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			require.NoError(t, err)

			if !info.IsDir() {
				visited = append(visited, filepath.Base(path))
			}

			return nil
		})
		require.NoError(t, err)

		return visited
	}

	t.Run("recursive", func(t *testing.T) {
		dir := writeTree(t)
		assert.ElementsMatch(t, []string{"main.scad", "notes.txt", "walls.scad", "thirdparty.scad"}, collect(dir, true))
	})

	t.Run("non-recursive", func(t *testing.T) {
		dir := writeTree(t)
		assert.ElementsMatch(t, []string{"main.scad", "notes.txt"}, collect(dir, false))
	})
}

func TestLocalSourceFSAdapter_Resolve(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	t.Run("relative reference joins origin dir", func(t *testing.T) {
		dir := writeTree(t)

		resolved, err := adapter.Resolve("lib/walls.scad", m.Path(dir))
		require.NoError(t, err)
		assert.Equal(t, "walls.scad", resolved.Base())
		assert.True(t, filepath.IsAbs(string(resolved)))
	})

	t.Run("parent traversal", func(t *testing.T) {
		dir := writeTree(t)

		resolved, err := adapter.Resolve("../main.scad", m.Path(filepath.Join(dir, "lib")))
		require.NoError(t, err)
		assert.Equal(t, "main.scad", resolved.Base())
	})

	t.Run("absolute reference ignores origin", func(t *testing.T) {
		dir := writeTree(t)
		target := filepath.Join(dir, "main.scad")

		resolved, err := adapter.Resolve(target, m.Path("/somewhere/else"))
		require.NoError(t, err)
		assert.Equal(t, m.Path(target), resolved)
	})

	t.Run("missing target errors", func(t *testing.T) {
		dir := writeTree(t)

		_, err := adapter.Resolve("gone.scad", m.Path(dir))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `cannot resolve reference "gone.scad"`)
	})

	t.Run("directory target errors", func(t *testing.T) {
		dir := writeTree(t)

		_, err := adapter.Resolve("lib", m.Path(dir))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resolves to a directory")
	})

	t.Run("empty reference errors", func(t *testing.T) {
		_, err := adapter.Resolve("  ", m.Path(t.TempDir()))
		require.Error(t, err)
	})
}

func TestLocalSourceFSAdapter_ReadWrite(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, adapter.EnsureDir(m.Path(nested)))

	target := filepath.Join(nested, "out.scad")
	require.NoError(t, adapter.WriteFile(m.Path(target), []byte("x = 1;\n"), 0o600))

	raw, err := adapter.ReadFile(m.Path(target))
	require.NoError(t, err)
	assert.Equal(t, "x = 1;\n", string(raw))

	rel, err := adapter.RelPath(m.Path(dir), m.Path(target))
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("a", "b", "out.scad")), rel)
}
