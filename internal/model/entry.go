// Package model defines the data structures for SCAD project flattening.
package model

// EntryKind classifies one structural unit of SCAD source text.
type EntryKind string

const (
	// KindComment represents a line or block comment, or any free-standing
	// text line the classifier has no better home for.
	KindComment EntryKind = "comment"
	// KindVariable represents a top-level assignment of the form `name = value;`.
	KindVariable EntryKind = "variable"
	// KindInclude represents an `include <...>` directive. The referenced
	// file's top-level statements execute in the including file's context.
	KindInclude EntryKind = "include"
	// KindUse represents a `use <...>` directive. Only the referenced file's
	// declarations are made available.
	KindUse EntryKind = "use"
	// KindFunction represents a `function name(...)` declaration.
	KindFunction EntryKind = "function"
	// KindModule represents a `module name(...)` declaration.
	KindModule EntryKind = "module"
	// KindSection represents a customizer section: a bracketed-label comment
	// header plus the parameter lines buffered under it.
	KindSection EntryKind = "customizer"
	// KindEmpty represents a blank line, preserved for spacing.
	KindEmpty EntryKind = "empty"
)

// Entry is one classified structural unit of source text. Entries are
// immutable once created; provenance is never reassigned.
type Entry struct {
	Kind    EntryKind
	Content string // verbatim reconstructible text, possibly multi-line
	Value   string // secondary payload: variable RHS, section name, or directive reference
	Section string // comment run associated with a variable, if any

	SourceFile Path   // provenance
	Line       int    // 1-based line of the entry's first line in its origin
	Indent     string // exact leading whitespace of the first line

	// Resolved is set on directive entries whose target was inlined (or was
	// already inlined earlier in the run). Unresolved directives survive into
	// the output as diagnostic passthrough.
	Resolved bool
}

// IsDirective reports whether the entry is an include or use directive.
func (e Entry) IsDirective() bool {
	return e.Kind == KindInclude || e.Kind == KindUse
}

// CountByKind tallies entries per kind.
func CountByKind(entries []Entry) map[EntryKind]int {
	counts := make(map[EntryKind]int)
	for _, entry := range entries {
		counts[entry.Kind]++
	}

	return counts
}
