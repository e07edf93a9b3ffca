package model

import "path/filepath"

// Path represents a file system path.
type Path string

// Base returns the last element of the path (the file's short name).
func (p Path) Base() string {
	return filepath.Base(string(p))
}

// Dir returns the directory the path lives in.
func (p Path) Dir() Path {
	return Path(filepath.Dir(string(p)))
}

// SourceFile represents one SCAD source file taking part in a merge run.
// Its identity is the absolute path; the short name is kept for provenance
// comments and diagnostics.
type SourceFile struct {
	Path    Path
	Name    string
	Raw     string
	Entries []Entry
	Visited bool
}

// NewSourceFile creates a SourceFile for the given absolute path and raw text.
func NewSourceFile(path Path, raw string) *SourceFile {
	return &SourceFile{
		Path: path,
		Name: path.Base(),
		Raw:  raw,
	}
}

// Inventory holds per-file entry counts for the list command.
type Inventory struct {
	File      Path
	Sections  int
	Variables int
	Modules   int
	Functions int
}

// Total returns the sum of all counted entries.
func (i Inventory) Total() int {
	return i.Sections + i.Variables + i.Modules + i.Functions
}
