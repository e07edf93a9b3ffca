package model

import "fmt"

// DiagnosticKind categorizes the recoverable conditions a merge run reports.
type DiagnosticKind string

const (
	// DiagUnresolvedReference means a directive's target could not be located.
	DiagUnresolvedReference DiagnosticKind = "unresolved-reference"
	// DiagUnreadableFile means a directive's target resolved but could not be read.
	DiagUnreadableFile DiagnosticKind = "unreadable-file"
	// DiagDuplicateSection means the same customizer section name was declared
	// more than once across the file graph; the first occurrence wins.
	DiagDuplicateSection DiagnosticKind = "duplicate-section"
	// DiagUnterminatedBlock means a comment, section, function or module body
	// never closed before end of file; the partial content is kept best-effort.
	DiagUnterminatedBlock DiagnosticKind = "unterminated-block"
)

// Diagnostic records one recoverable condition surfaced during a merge run.
// Diagnostics go to the log stream, never into merged output.
type Diagnostic struct {
	Kind DiagnosticKind
	File Path   // file the condition was detected in
	Ref  string // directive reference or section name, when applicable
	Line int
	Msg  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s %s:%d: %s", d.Kind, d.File.Base(), d.Line, d.Msg)
	}

	return fmt.Sprintf("%s %s: %s", d.Kind, d.File.Base(), d.Msg)
}

// MergeResult holds the outcome of flattening a single root file.
type MergeResult struct {
	Root        Path
	Output      Path
	Entries     []Entry
	Diagnostics []Diagnostic
	Err         error // root-level failure; Entries and Output are empty when set
}

// Warnings returns the number of diagnostics carried by the result.
func (r MergeResult) Warnings() int {
	return len(r.Diagnostics)
}
