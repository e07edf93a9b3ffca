package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scad-tools/flatscad/internal/adapter"
	m "github.com/scad-tools/flatscad/internal/model"
)

func TestWorkflow_FlattenExampleProject(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", "..", "examples", "box", "box.scad"))
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "merged")
	ui := &captureUI{}
	wf := NewWorkflow(adapter.NewLocalSourceFSAdapter(), adapter.NewOutputStore(), ui, testLogger())

	err = wf.Flatten(FlattenArgs{
		ListArgs: ListArgs{Paths: []m.Path{m.Path(root)}},
		Output:   m.Path(outDir),
	})
	require.NoError(t, err)

	require.Len(t, ui.results, 1)

	result := ui.results[0]
	require.NoError(t, result.Err)

	raw, err := os.ReadFile(filepath.Join(outDir, "box.scad"))
	require.NoError(t, err)

	merged := string(raw)

	// Sections from all three files survive, each exactly once; the
	// duplicate [Box] section in walls.scad yields to the root's.
	assert.Equal(t, 1, strings.Count(merged, "/* [Box] */"))
	assert.Equal(t, 1, strings.Count(merged, "/* [Print] */"))
	assert.Equal(t, 1, strings.Count(merged, "/* [Walls] */"))
	assert.Contains(t, merged, "width = 60;")
	assert.NotContains(t, merged, "width = 50;")

	// utils.scad sits behind both the root and walls.scad; its functions
	// come through exactly once.
	assert.Equal(t, 1, strings.Count(merged, "function inner(size, shell)"))
	assert.Equal(t, 1, strings.Count(merged, "function half(v)"))

	assert.Contains(t, merged, "module box()")
	assert.Contains(t, merged, "module wall_slot(length)")

	assert.NotContains(t, merged, "include <")
	assert.NotContains(t, merged, "use <")
	assert.Equal(t, strings.Count(merged, "{"), strings.Count(merged, "}"))

	duplicates := 0
	for _, diag := range result.Diagnostics {
		if diag.Kind == m.DiagDuplicateSection {
			duplicates++
		}
	}
	assert.Equal(t, 1, duplicates)
}

func TestWorkflow_FlattenedOutputIsStable(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", "..", "examples", "box", "box.scad"))
	require.NoError(t, err)

	fs := adapter.NewLocalSourceFSAdapter()

	first := flattenOnce(t, fs, m.Path(root))
	second := flattenOnce(t, fs, m.Path(root))

	assert.Equal(t, first, second)
}

func flattenOnce(t *testing.T, fs adapter.SourceFSAdapter, root m.Path) string {
	t.Helper()

	run := NewRun(fs, testLogger())

	entries, _, err := run.Process(root)
	require.NoError(t, err)

	return Serialize(root, entries)
}
