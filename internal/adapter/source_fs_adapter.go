// Package adapter contains filesystem and output adapters for the flatscad CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "github.com/scad-tools/flatscad/internal/model"
)

const scadFileExt = ".scad"

// SourceFSAdapter abstracts filesystem-specific operations that the domain
// layer relies on when discovering and merging SCAD projects. It intentionally
// hides direct `os` access so the merge logic can be tested without touching
// the disk.
type SourceFSAdapter interface {
	// Get collects SCAD source files for the provided roots. A root may be a
	// file, a directory, or a Go-style `dir/...` pattern for recursive
	// discovery. Files matching any exclude regex are skipped.
	Get(roots []m.Path, exclude []string) ([]m.Path, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Resolve maps a directive's reference string to an absolute file
	// identity, using originDir as the base for relative lookups.
	Resolve(ref string, originDir m.Path) (m.Path, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// EnsureDir creates a directory (and parents) if it does not exist.
	EnsureDir(path m.Path) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the concrete implementation backed by the local
// filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get collects SCAD source files for the provided roots.
func (a *LocalSourceFSAdapter) Get(roots []m.Path, exclude []string) ([]m.Path, error) {
	if len(roots) == 0 {
		return []m.Path{}, nil
	}

	excludeRes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})

	var files []m.Path

	for _, root := range roots {
		rootPath, recursive, err := normalizeRootPath(string(root))
		if err != nil {
			return nil, err
		}

		info, err := a.FileInfo(m.Path(rootPath))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			if path, ok := sourcePath(rootPath, excludeRes); ok {
				if _, exists := seen[path]; !exists {
					seen[path] = struct{}{}
					files = append(files, m.Path(path))
				}
			}

			continue
		}

		err = a.Walk(m.Path(rootPath), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				return nil
			}

			abs, ok := sourcePath(path, excludeRes)
			if !ok {
				return nil
			}

			if _, exists := seen[abs]; exists {
				return nil
			}

			seen[abs] = struct{}{}
			files = append(files, m.Path(abs))

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Resolve maps a directive reference to an absolute path. Relative references
// are looked up against the directory of the file that contains the directive.
func (a *LocalSourceFSAdapter) Resolve(ref string, originDir m.Path) (m.Path, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}

	candidate := ref
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(string(originDir), candidate)
	}

	candidate = filepath.Clean(candidate)

	info, err := os.Stat(candidate)
	if err != nil {
		return "", fmt.Errorf("cannot resolve reference %q: %w", ref, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("reference %q resolves to a directory", ref)
	}

	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// EnsureDir creates the directory and any missing parents.
func (a *LocalSourceFSAdapter) EnsureDir(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		res = append(res, re)
	}

	return res, nil
}

func sourcePath(path string, excludes []*regexp.Regexp) (string, bool) {
	if filepath.Ext(path) != scadFileExt {
		return "", false
	}

	for _, re := range excludes {
		if re.MatchString(path) {
			return "", false
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	return abs, true
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if len(rootStr) >= 4 && rootStr[len(rootStr)-4:] == "/..." {
		return rootStr[:len(rootStr)-4], true
	}

	return rootStr, false
}
