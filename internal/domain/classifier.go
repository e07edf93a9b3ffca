package domain

import (
	"regexp"
	"strings"

	m "github.com/scad-tools/flatscad/internal/model"
)

// Tokens of the line-oriented SCAD wire format. The classifier only needs to
// delimit block boundaries and directive lines well enough to merge text
// safely; it is not a parser for the geometry language.
const (
	lineCommentToken = "//"
	blockOpenToken   = "/*"
	blockCloseToken  = "*/"
)

// Line shapes, checked in fixed priority order: a directive always beats the
// assignment shape, and a customizer header always beats plain comment
// detection even though both start with the comment-open token.
var (
	includeRe = regexp.MustCompile(`^(\s*)include\s*<([^<>]+)>\s*;?\s*$`)
	useRe     = regexp.MustCompile(`^(\s*)use\s*<([^<>]+)>\s*;?\s*$`)
	sectionRe = regexp.MustCompile(`^(\s*)/\*\s*\[\s*([^\]]+?)\s*\]\s*\*/\s*$`)
	funcRe    = regexp.MustCompile(`^(\s*)function\s+([A-Za-z_$][A-Za-z0-9_]*)\s*\(`)
	moduleRe  = regexp.MustCompile(`^(\s*)module\s+([A-Za-z_$][A-Za-z0-9_]*)\s*\(`)
	assignRe  = regexp.MustCompile(`^(\s*)([A-Za-z_$][A-Za-z0-9_]*)\s*=\s*(.+?)\s*;\s*(?://.*)?$`)
)

// blockState tracks which multi-line construct the scanner is inside of. The
// states are mutually exclusive.
type blockState int

const (
	blockNone blockState = iota
	blockComment
	blockSection
	blockFunction
	blockModule
)

// scanner performs the single forward pass over one file's lines.
type scanner struct {
	run  *Run
	file *m.SourceFile

	state     blockState
	buf       []string
	startLine int
	indent    string
	name      string // section or declaration name being buffered
	depth     int    // brace depth, meaningful inside function/module bodies
	sawBrace  bool

	// commentRun accumulates the immediately preceding plain comments so a
	// variable can carry its description along.
	commentRun []string

	entries []m.Entry
}

// classify scans the file's raw text into an ordered entry list. Directive
// resolution happens synchronously as directives are encountered, so entries
// of referenced files are spliced in at the directive's position before
// scanning resumes.
func (r *Run) classify(file *m.SourceFile) []m.Entry {
	s := &scanner{run: r, file: file}

	for i, line := range splitLines(file.Raw) {
		s.scanLine(i+1, line)
	}

	s.finish()

	file.Entries = s.entries
	file.Visited = true

	return s.entries
}

func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	return lines
}

func (s *scanner) scanLine(n int, line string) {
	switch s.state {
	case blockComment:
		s.continueComment(line)
	case blockSection:
		s.continueSection(n, line)
	case blockFunction, blockModule:
		s.continueDeclaration(line)
	default:
		s.scanFree(n, line)
	}
}

// scanFree classifies a line outside any block state.
func (s *scanner) scanFree(n int, line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		s.commentRun = nil
		s.emit(m.Entry{Kind: m.KindEmpty, Content: line, SourceFile: s.file.Path, Line: n})

	case includeRe.MatchString(line):
		s.scanDirective(m.KindInclude, includeRe.FindStringSubmatch(line), n, line)

	case useRe.MatchString(line):
		s.scanDirective(m.KindUse, useRe.FindStringSubmatch(line), n, line)

	case sectionRe.MatchString(line):
		match := sectionRe.FindStringSubmatch(line)
		s.open(blockSection, n, line, match[1], match[2])

	case strings.HasPrefix(trimmed, lineCommentToken):
		s.commentRun = append(s.commentRun, strings.TrimSpace(strings.TrimPrefix(trimmed, lineCommentToken)))
		s.emit(m.Entry{Kind: m.KindComment, Content: line, SourceFile: s.file.Path, Line: n, Indent: leadingWhitespace(line)})

	case strings.HasPrefix(trimmed, blockOpenToken):
		if closesBlockComment(trimmed) {
			if text := blockCommentText(trimmed); text != "" {
				s.commentRun = append(s.commentRun, text)
			}
			s.emit(m.Entry{Kind: m.KindComment, Content: line, SourceFile: s.file.Path, Line: n, Indent: leadingWhitespace(line)})
			return
		}

		s.open(blockComment, n, line, leadingWhitespace(line), "")

	case funcRe.MatchString(line):
		match := funcRe.FindStringSubmatch(line)
		s.openDeclaration(blockFunction, n, line, match[1], match[2])

	case moduleRe.MatchString(line):
		match := moduleRe.FindStringSubmatch(line)
		s.openDeclaration(blockModule, n, line, match[1], match[2])

	case assignRe.MatchString(line):
		match := assignRe.FindStringSubmatch(line)
		s.emit(m.Entry{
			Kind:       m.KindVariable,
			Content:    line,
			Value:      match[3],
			Section:    strings.Join(s.commentRun, "\n"),
			SourceFile: s.file.Path,
			Line:       n,
			Indent:     match[1],
		})
		s.commentRun = nil

	default:
		// Top-level statements (geometry calls and the like) have no kind of
		// their own; keep them as plain text entries so the internal model
		// stays lossless.
		s.commentRun = nil
		s.emit(m.Entry{Kind: m.KindComment, Content: line, SourceFile: s.file.Path, Line: n, Indent: leadingWhitespace(line)})
	}
}

// scanDirective records the directive entry and splices the resolved target's
// entries right behind it. Resolution completes before scanning continues, so
// output order stays deterministic.
func (s *scanner) scanDirective(kind m.EntryKind, match []string, n int, line string) {
	s.commentRun = nil

	ref := strings.TrimSpace(match[2])
	inlined, resolved := s.run.resolve(ref, s.file, n)

	s.emit(m.Entry{
		Kind:       kind,
		Content:    line,
		Value:      ref,
		SourceFile: s.file.Path,
		Line:       n,
		Indent:     match[1],
		Resolved:   resolved,
	})
	s.entries = append(s.entries, inlined...)
}

func (s *scanner) continueComment(line string) {
	s.buf = append(s.buf, line)

	if strings.HasSuffix(strings.TrimRight(line, " \t"), blockCloseToken) {
		content := strings.Join(s.buf, "\n")
		s.emit(m.Entry{Kind: m.KindComment, Content: content, SourceFile: s.file.Path, Line: s.startLine, Indent: s.indent})
		if text := blockCommentText(content); text != "" {
			s.commentRun = append(s.commentRun, text)
		}
		s.reset()
	}
}

// continueSection buffers customizer parameter lines. The section is
// blank-line terminated: the first whitespace-only line closes it and is kept
// as its own Empty entry.
func (s *scanner) continueSection(n int, line string) {
	if strings.TrimSpace(line) == "" {
		s.closeSection()
		s.emit(m.Entry{Kind: m.KindEmpty, Content: line, SourceFile: s.file.Path, Line: n})

		return
	}

	s.buf = append(s.buf, line)
}

func (s *scanner) closeSection() {
	if s.run.keepSection(s.name, s.file.Path, s.startLine) {
		s.emit(m.Entry{
			Kind:       m.KindSection,
			Content:    strings.Join(s.buf, "\n"),
			Value:      s.name,
			Section:    s.name,
			SourceFile: s.file.Path,
			Line:       s.startLine,
			Indent:     s.indent,
		})
	}

	s.reset()
}

func (s *scanner) openDeclaration(state blockState, n int, line, indent, name string) {
	s.state = state
	s.startLine = n
	s.indent = indent
	s.name = name
	s.buf = []string{line}
	s.depth = strings.Count(line, "{") - strings.Count(line, "}")
	s.sawBrace = strings.Contains(line, "{")

	s.commentRun = nil
	s.maybeCloseDeclaration(strings.TrimSpace(line))
}

func (s *scanner) continueDeclaration(line string) {
	s.buf = append(s.buf, line)
	s.depth += strings.Count(line, "{") - strings.Count(line, "}")

	if strings.Contains(line, "{") {
		s.sawBrace = true
	}

	s.maybeCloseDeclaration(strings.TrimSpace(line))
}

func (s *scanner) maybeCloseDeclaration(trimmed string) {
	if s.sawBrace {
		if s.depth <= 0 {
			s.closeDeclaration()
		}

		return
	}

	// Expression-bodied functions never open a brace; the statement
	// terminator ends them.
	if s.state == blockFunction && strings.HasSuffix(trimmed, ";") {
		s.closeDeclaration()
	}
}

func (s *scanner) closeDeclaration() {
	kind := m.KindFunction
	if s.state == blockModule {
		kind = m.KindModule
	}

	s.emit(m.Entry{
		Kind:       kind,
		Content:    strings.Join(s.buf, "\n"),
		Value:      s.name,
		SourceFile: s.file.Path,
		Line:       s.startLine,
		Indent:     s.indent,
	})
	s.reset()
}

// finish handles end-of-file inside a block state: the buffered partial
// content is emitted best-effort and a warning is surfaced. This must never
// abort the run.
func (s *scanner) finish() {
	switch s.state {
	case blockNone:
		return

	case blockComment:
		s.run.diagnose(m.DiagUnterminatedBlock, s.file.Path, "", s.startLine, "comment never closes before end of file")
		s.emit(m.Entry{Kind: m.KindComment, Content: strings.Join(s.buf, "\n"), SourceFile: s.file.Path, Line: s.startLine, Indent: s.indent})

	case blockSection:
		s.run.diagnose(m.DiagUnterminatedBlock, s.file.Path, s.name, s.startLine, "customizer section "+s.name+" runs to end of file")
		s.closeSection()

	case blockFunction, blockModule:
		s.run.diagnose(m.DiagUnterminatedBlock, s.file.Path, s.name, s.startLine, "declaration "+s.name+" never closes before end of file")
		s.closeDeclaration()
	}
}

func (s *scanner) open(state blockState, n int, line, indent, name string) {
	s.state = state
	s.startLine = n
	s.indent = indent
	s.name = name
	s.buf = []string{line}
	s.commentRun = nil
}

func (s *scanner) emit(entry m.Entry) {
	s.entries = append(s.entries, entry)
}

func (s *scanner) reset() {
	s.state = blockNone
	s.buf = nil
	s.startLine = 0
	s.indent = ""
	s.name = ""
	s.depth = 0
	s.sawBrace = false
}

// closesBlockComment reports whether a line that opens a block comment also
// closes it, making the line a complete single-line comment.
func closesBlockComment(trimmed string) bool {
	return strings.HasSuffix(trimmed, blockCloseToken) &&
		len(trimmed) >= len(blockOpenToken)+len(blockCloseToken)
}

// blockCommentText returns a block comment's inner text, without the
// open/close tokens, so comment runs read as plain text when re-emitted.
func blockCommentText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, blockOpenToken)
	text = strings.TrimSuffix(text, blockCloseToken)

	return strings.TrimSpace(text)
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
