// Package domain contains the classification and merge engine for SCAD
// project flattening.
package domain

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/scad-tools/flatscad/internal/adapter"
	"github.com/scad-tools/flatscad/internal/controller"
	m "github.com/scad-tools/flatscad/internal/model"
)

// Workflow defines the interface for flattening operations.
type Workflow interface {
	List(args ListArgs) error
	Flatten(args FlattenArgs) error
}

// ListArgs configures source discovery for the list command.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
}

// FlattenArgs configures a flatten batch.
type FlattenArgs struct {
	ListArgs

	Output  m.Path
	Threads int
}

// DefaultOutputDir is where merged files go when no output directory is set.
const DefaultOutputDir = "flattened"

type workflow struct {
	fs     adapter.SourceFSAdapter
	store  adapter.OutputStore
	ui     controller.UI
	logger *log.Logger
}

// NewWorkflow creates a new Workflow instance with the provided collaborators.
func NewWorkflow(fs adapter.SourceFSAdapter, store adapter.OutputStore, ui controller.UI, logger *log.Logger) Workflow {
	return &workflow{
		fs:     fs,
		store:  store,
		ui:     ui,
		logger: logger,
	}
}

// List discovers SCAD source files and displays an inventory of their
// classified entries. Files are classified in isolation; directives are
// counted but not followed.
func (w *workflow) List(args ListArgs) error {
	if len(args.Paths) == 0 {
		return fmt.Errorf("no input paths supplied")
	}

	files, err := w.fs.Get(args.Paths, args.Exclude)
	if err != nil {
		return err
	}

	if err := w.ui.Start(controller.WithListMode()); err != nil {
		return err
	}
	defer w.ui.Close()

	inventories := make([]m.Inventory, 0, len(files))

	for _, file := range files {
		run := NewRun(w.fs, w.logger, WithoutInlining())

		entries, _, err := run.Process(file)
		if err != nil {
			w.logger.Warn("skipping unreadable file", "file", file.Base(), "err", err)

			continue
		}

		counts := m.CountByKind(entries)
		inventories = append(inventories, m.Inventory{
			File:      file,
			Sections:  counts[m.KindSection],
			Variables: counts[m.KindVariable],
			Modules:   counts[m.KindModule],
			Functions: counts[m.KindFunction],
		})
	}

	return w.ui.DisplayInventory(inventories)
}

// Flatten merges each discovered root file into one self-contained output
// file. Roots are independent: each gets its own run context, failures are
// contained per root, and independent roots may be merged in parallel.
func (w *workflow) Flatten(args FlattenArgs) error {
	if len(args.Paths) == 0 {
		return fmt.Errorf("no input paths supplied")
	}

	output := args.Output
	if output == "" {
		output = DefaultOutputDir
	}

	files, err := w.fs.Get(args.Paths, args.Exclude)
	if err != nil {
		return err
	}

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	if err := w.ui.Start(controller.WithFlattenMode()); err != nil {
		return err
	}
	defer w.ui.Close()

	results := make([]m.MergeResult, len(files))

	var g errgroup.Group
	g.SetLimit(threads)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = w.flattenOne(file, output)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return w.ui.DisplaySummary(results)
}

// flattenOne merges a single root file. Failures stay inside the returned
// result so a failed root never affects sibling roots in the batch.
func (w *workflow) flattenOne(root m.Path, output m.Path) m.MergeResult {
	run := NewRun(w.fs, w.logger)

	entries, diags, err := run.Process(root)
	if err != nil {
		w.logger.Warn("skipping root file", "file", root.Base(), "err", err)

		return m.MergeResult{Root: root, Diagnostics: diags, Err: err}
	}

	content := Serialize(root, entries)

	written, err := w.store.Save(output, root, []byte(content))
	if err != nil {
		w.logger.Warn("cannot write merged output", "file", root.Base(), "err", err)

		return m.MergeResult{Root: root, Entries: entries, Diagnostics: diags, Err: err}
	}

	return m.MergeResult{Root: root, Output: written, Entries: entries, Diagnostics: diags}
}
