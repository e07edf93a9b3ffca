package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/scad-tools/flatscad/internal/model"
)

// SimpleUI implements UI with plain text tables on the cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(_ ...StartOption) error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {

}

// DisplayInventory prints the per-file entry counts.
func (s *SimpleUI) DisplayInventory(inventories []m.Inventory) error {
	if len(inventories) == 0 {
		s.printf("No source files found\n")

		return nil
	}

	sort.Slice(inventories, func(i, j int) bool {
		return inventories[i].File < inventories[j].File
	})

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Sections", "Variables", "Modules", "Functions"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	total := 0

	for _, inventory := range inventories {
		table.Append([]string{
			string(inventory.File),
			fmt.Sprintf("%d", inventory.Sections),
			fmt.Sprintf("%d", inventory.Variables),
			fmt.Sprintf("%d", inventory.Modules),
			fmt.Sprintf("%d", inventory.Functions),
		})

		total += inventory.Total()
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(inventories)),
		"", "", "",
		fmt.Sprintf("%d entries", total),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplaySummary prints one row per merged root file.
func (s *SimpleUI) DisplaySummary(results []m.MergeResult) error {
	if len(results) == 0 {
		s.printf("No source files found\n")

		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Root", "Output", "Entries", "Warnings"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	merged := 0

	for _, result := range results {
		output := string(result.Output)
		if result.Err != nil {
			output = "skipped: " + result.Err.Error()
		} else {
			merged++
		}

		table.Append([]string{
			string(result.Root),
			output,
			fmt.Sprintf("%d", len(result.Entries)),
			fmt.Sprintf("%d", result.Warnings()),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Merged %d of %d", merged, len(results)),
		"", "", "",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
