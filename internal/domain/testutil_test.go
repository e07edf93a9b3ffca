package domain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/scad-tools/flatscad/internal/adapter"
	"github.com/scad-tools/flatscad/internal/controller"
	m "github.com/scad-tools/flatscad/internal/model"
)

// memFS is an in-memory SourceFSAdapter so engine tests never touch the disk.
type memFS struct {
	files      map[string]string
	unreadable map[string]struct{}
}

var _ adapter.SourceFSAdapter = (*memFS)(nil)

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files, unreadable: make(map[string]struct{})}
}

func (f *memFS) markUnreadable(path string) {
	f.unreadable[path] = struct{}{}
}

func (f *memFS) Get(roots []m.Path, exclude []string) ([]m.Path, error) {
	seen := make(map[string]struct{})

	var out []m.Path

	for _, root := range roots {
		rootStr := strings.TrimSuffix(string(root), "/...")

		for file := range f.files {
			if filepath.Ext(file) != ".scad" {
				continue
			}

			if file != rootStr && !strings.HasPrefix(file, rootStr+"/") {
				continue
			}

			if memExcluded(file, exclude) {
				continue
			}

			if _, dup := seen[file]; dup {
				continue
			}

			seen[file] = struct{}{}
			out = append(out, m.Path(file))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

// memExcluded treats patterns as plain substrings; good enough for a double.
func memExcluded(file string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(file, pattern) {
			return true
		}
	}

	return false
}

func (f *memFS) Walk(_ m.Path, _ bool, _ adapter.FilepathWalkFunc) error {
	return nil
}

func (f *memFS) ReadFile(path m.Path) ([]byte, error) {
	if _, bad := f.unreadable[string(path)]; bad {
		return nil, fmt.Errorf("read %s: permission denied", path)
	}

	content, ok := f.files[string(path)]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}

	return []byte(content), nil
}

func (f *memFS) FileInfo(path m.Path) (os.FileInfo, error) {
	if _, ok := f.files[string(path)]; !ok {
		return nil, os.ErrNotExist
	}

	return nil, nil
}

func (f *memFS) Resolve(ref string, originDir m.Path) (m.Path, error) {
	candidate := ref
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(string(originDir), candidate)
	}

	candidate = filepath.Clean(candidate)

	if _, ok := f.files[candidate]; !ok {
		return "", fmt.Errorf("cannot resolve reference %q: %w", ref, os.ErrNotExist)
	}

	return m.Path(candidate), nil
}

func (f *memFS) WriteFile(path m.Path, content []byte, _ os.FileMode) error {
	f.files[string(path)] = string(content)

	return nil
}

func (f *memFS) EnsureDir(_ m.Path) error {
	return nil
}

func (f *memFS) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))

	return m.Path(rel), err
}

func (f *memFS) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// memStore records merged outputs instead of writing them.
type memStore struct {
	saved map[string]string
}

var _ adapter.OutputStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]string)}
}

func (s *memStore) Save(dir m.Path, root m.Path, content []byte) (m.Path, error) {
	target := filepath.Join(string(dir), root.Base())
	s.saved[target] = string(content)

	return m.Path(target), nil
}

// captureUI records what the workflow hands to the UI layer.
type captureUI struct {
	inventories []m.Inventory
	results     []m.MergeResult
}

var _ controller.UI = (*captureUI)(nil)

func (u *captureUI) Start(_ ...controller.StartOption) error { return nil }

func (u *captureUI) Close() {}

func (u *captureUI) DisplayInventory(inventories []m.Inventory) error {
	u.inventories = inventories

	return nil
}

func (u *captureUI) DisplaySummary(results []m.MergeResult) error {
	u.results = results

	return nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRun(files map[string]string, options ...RunOption) *Run {
	return NewRun(newMemFS(files), testLogger(), options...)
}

func kindsOf(entries []m.Entry) []m.EntryKind {
	kinds := make([]m.EntryKind, 0, len(entries))
	for _, entry := range entries {
		kinds = append(kinds, entry.Kind)
	}

	return kinds
}

func entriesOfKind(entries []m.Entry, kind m.EntryKind) []m.Entry {
	var out []m.Entry

	for _, entry := range entries {
		if entry.Kind == kind {
			out = append(out, entry)
		}
	}

	return out
}
