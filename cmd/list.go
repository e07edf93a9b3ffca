package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scad-tools/flatscad/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()
var listExcludeFlags []string

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and their entry counts",
		Long: `List discovered SCAD source files together with the number of customizer
sections, variables, modules and functions each one declares. Files are
classified in isolation; references are not followed.`,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.List(domain.ListArgs{
				Paths:   parsePaths(args),
				Exclude: listExcludeFlags,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&listExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
