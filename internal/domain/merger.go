package domain

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/scad-tools/flatscad/internal/adapter"
	m "github.com/scad-tools/flatscad/internal/model"
)

// maxRefDepth bounds directive recursion independently of the processed-set,
// so a pathological reference chain cannot grow the stack without bound.
const maxRefDepth = 64

// Run owns all mutable state of one flatten invocation over a single root
// file: the processed-set, the seen-section-name set and the collected
// diagnostics. A Run is created per root and never shared, so independent
// runs stay isolated without any locking.
type Run struct {
	fs     adapter.SourceFSAdapter
	logger *log.Logger

	followRefs bool
	depth      int
	root       m.Path
	processed  map[m.Path]struct{}
	sections   map[string]sectionOrigin
	// rootSections holds the section names the root file declares, collected
	// before any directive is followed, so the root's definition outranks a
	// referenced file's no matter where the directive sits.
	rootSections map[string]struct{}
	diags        []m.Diagnostic
}

type sectionOrigin struct {
	file m.Path
	line int
}

// RunOption configures a Run.
type RunOption func(*Run)

// WithoutInlining disables directive resolution so files are classified in
// isolation. The list command uses this to inventory files without pulling
// their references in.
func WithoutInlining() RunOption {
	return func(r *Run) {
		r.followRefs = false
	}
}

// NewRun creates a merge run context.
func NewRun(fs adapter.SourceFSAdapter, logger *log.Logger, options ...RunOption) *Run {
	r := &Run{
		fs:           fs,
		logger:       logger,
		followRefs:   true,
		processed:    make(map[m.Path]struct{}),
		sections:     make(map[string]sectionOrigin),
		rootSections: make(map[string]struct{}),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Process classifies the root file, recursively inlining every directive it
// references, and returns the flattened entry list plus the diagnostics
// collected along the way. Only a failure to read the root itself is an
// error; everything below it degrades to skip-and-warn.
func (r *Run) Process(root m.Path) ([]m.Entry, []m.Diagnostic, error) {
	raw, err := r.fs.ReadFile(root)
	if err != nil {
		return nil, r.diags, fmt.Errorf("cannot read %s: %w", root, err)
	}

	file := m.NewSourceFile(root, string(raw))
	r.processed[root] = struct{}{}
	r.root = root
	r.reserveRootSections(string(raw))

	entries := r.classify(file)

	return entries, r.diags, nil
}

// Diagnostics returns the diagnostics collected so far.
func (r *Run) Diagnostics() []m.Diagnostic {
	return r.diags
}

// resolve maps a directive reference to a file, classifies it once per run,
// and returns the entries to splice into the caller's stream, wrapped in
// begin/end provenance markers. The boolean reports whether the target was
// inlined (or had been already); unresolved directives survive as diagnostic
// passthrough in the output.
func (r *Run) resolve(ref string, origin *m.SourceFile, line int) ([]m.Entry, bool) {
	if !r.followRefs {
		return nil, false
	}

	if r.depth >= maxRefDepth {
		r.diagnose(m.DiagUnresolvedReference, origin.Path, ref, line,
			fmt.Sprintf("reference depth limit (%d) exceeded at <%s>", maxRefDepth, ref))

		return nil, false
	}

	target, err := r.fs.Resolve(ref, origin.Path.Dir())
	if err != nil {
		r.diagnose(m.DiagUnresolvedReference, origin.Path, ref, line, err.Error())

		return nil, false
	}

	if _, done := r.processed[target]; done {
		// Already inlined via another path; the directive is absorbed. This
		// is also what terminates reference cycles.
		return nil, true
	}

	r.processed[target] = struct{}{}

	raw, err := r.fs.ReadFile(target)
	if err != nil {
		r.diagnose(m.DiagUnreadableFile, origin.Path, ref, line, err.Error())

		return nil, false
	}

	file := m.NewSourceFile(target, string(raw))

	r.depth++
	entries := r.classify(file)
	r.depth--

	// Surviving customizer sections lead the inlined block so section
	// grouping is easy to follow in the flattened stream.
	sections, rest := partitionSections(entries)

	out := make([]m.Entry, 0, len(entries)+2)
	out = append(out, marker("// begin content from <"+ref+">", file.Path))
	out = append(out, sections...)
	out = append(out, rest...)
	out = append(out, marker("// end content from <"+ref+">", file.Path))

	return out, true
}

// reserveRootSections records the root file's section headers ahead of
// classification. Referenced files are only classified mid-scan, so without
// the reservation a directive placed above the root's own section would let
// the referenced file's definition in first.
func (r *Run) reserveRootSections(raw string) {
	for _, line := range splitLines(raw) {
		if match := sectionRe.FindStringSubmatch(line); match != nil {
			r.rootSections[match[2]] = struct{}{}
		}
	}
}

// keepSection reconciles duplicate customizer section names across the file
// graph: the root file's definition always wins, and among referenced files
// the first one seen in depth-first resolution order wins.
func (r *Run) keepSection(name string, file m.Path, line int) bool {
	if first, dup := r.sections[name]; dup {
		r.diagnose(m.DiagDuplicateSection, file, name, line,
			fmt.Sprintf("section %q already defined by %s; keeping the first definition", name, first.file.Base()))

		return false
	}

	if _, owned := r.rootSections[name]; owned && file != r.root {
		r.diagnose(m.DiagDuplicateSection, file, name, line,
			fmt.Sprintf("section %q is also defined by the root %s; keeping the root's definition", name, r.root.Base()))

		return false
	}

	r.sections[name] = sectionOrigin{file: file, line: line}

	return true
}

func (r *Run) diagnose(kind m.DiagnosticKind, file m.Path, ref string, line int, msg string) {
	r.diags = append(r.diags, m.Diagnostic{Kind: kind, File: file, Ref: ref, Line: line, Msg: msg})

	if r.logger == nil {
		return
	}

	// Duplicate sections are expected with shared libraries and resolve by
	// rule; everything else deserves a warning.
	if kind == m.DiagDuplicateSection {
		r.logger.Info(msg, "file", file.Base(), "line", line)
	} else {
		r.logger.Warn(msg, "file", file.Base(), "line", line)
	}
}

func partitionSections(entries []m.Entry) (sections, rest []m.Entry) {
	for _, entry := range entries {
		if entry.Kind == m.KindSection {
			sections = append(sections, entry)
		} else {
			rest = append(rest, entry)
		}
	}

	return sections, rest
}

func marker(text string, file m.Path) m.Entry {
	return m.Entry{Kind: m.KindComment, Content: text, SourceFile: file}
}
