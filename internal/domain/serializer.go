package domain

import (
	"fmt"
	"strings"

	m "github.com/scad-tools/flatscad/internal/model"
)

// Serialize renders a flattened entry stream into the final merged text.
// Output follows a fixed canonical order: the root file's leading comment,
// a generated marker, unresolved directives kept for visibility, then all
// customizer sections, variables, modules and functions, each group keeping
// encounter order and each entry tagged with its origin. Free-floating
// comments and blank lines are intentionally subsumed by the grouping.
func Serialize(root m.Path, entries []m.Entry) string {
	var b strings.Builder

	consumed := ""

	if lead, ok := leadingComment(root, entries); ok {
		b.WriteString(lead.Content)
		b.WriteString("\n\n")
		consumed = commentRunText(lead.Content)
	}

	b.WriteString("// File assembled by flatscad from " + root.Base() + ". Do not edit directly.\n")

	writeUnresolved(&b, entries)
	writeGroup(&b, entries, m.KindSection, "")
	writeGroup(&b, entries, m.KindVariable, consumed)
	writeGroup(&b, entries, m.KindModule, "")
	writeGroup(&b, entries, m.KindFunction, "")

	return b.String()
}

// leadingComment returns the root file's descriptive header comment, if the
// root starts with one.
func leadingComment(root m.Path, entries []m.Entry) (m.Entry, bool) {
	for _, entry := range entries {
		if entry.SourceFile != root {
			continue
		}

		if entry.Kind == m.KindEmpty {
			continue
		}

		if entry.Kind == m.KindComment && isCommentText(entry.Content) {
			return entry, true
		}

		return m.Entry{}, false
	}

	return m.Entry{}, false
}

func isCommentText(content string) bool {
	trimmed := strings.TrimSpace(content)

	return strings.HasPrefix(trimmed, lineCommentToken) || strings.HasPrefix(trimmed, blockOpenToken)
}

// writeUnresolved re-emits directives whose target could not be inlined, once
// each, so the merged file still names what it is missing.
func writeUnresolved(b *strings.Builder, entries []m.Entry) {
	seen := make(map[string]struct{})
	wrote := false

	for _, entry := range entries {
		if !entry.IsDirective() || entry.Resolved {
			continue
		}

		key := string(entry.Kind) + "<" + entry.Value + ">"
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		if !wrote {
			b.WriteString("\n")

			wrote = true
		}

		b.WriteString(entry.Content + "\n")
	}
}

// writeGroup renders one entry kind in encounter order. For variables,
// consumed names the lead comment's run text: the variable that consumed the
// file header as its comment run must not print it again below the header.
func writeGroup(b *strings.Builder, entries []m.Entry, kind m.EntryKind, consumed string) {
	for _, entry := range entries {
		if entry.Kind != kind {
			continue
		}

		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("// from %s:%d\n", entry.SourceFile.Base(), entry.Line))

		// A variable carries its descriptive comment run along.
		if kind == m.KindVariable && entry.Section != "" {
			run := entry.Section

			switch {
			case consumed != "" && run == consumed:
				run = ""
				consumed = ""
			case consumed != "" && strings.HasPrefix(run, consumed+"\n"):
				run = run[len(consumed)+1:]
				consumed = ""
			}

			for _, line := range strings.Split(run, "\n") {
				if line == "" {
					continue
				}

				b.WriteString("// " + line + "\n")
			}
		}

		b.WriteString(entry.Content + "\n")
	}
}

// commentRunText mirrors how the classifier records a comment in a variable's
// comment run.
func commentRunText(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, blockOpenToken) {
		return blockCommentText(trimmed)
	}

	return strings.TrimSpace(strings.TrimPrefix(trimmed, lineCommentToken))
}
