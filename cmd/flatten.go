package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scad-tools/flatscad/internal/domain"
	m "github.com/scad-tools/flatscad/internal/model"
)

var flattenParallelFlag int
var flattenExcludeFlags []string

// flattenCmd represents the flatten command.
var flattenCmd = newFlattenCmd()

func newFlattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten [paths...]",
		Short: "Merge each root file and its references into one file",
		Long: `Flatten classifies every discovered SCAD file, recursively inlines its
include<...> and use<...> references, reconciles duplicate customizer
sections and writes one merged file per root into the output directory.`,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Flatten(domain.FlattenArgs{
				ListArgs: domain.ListArgs{
					Paths:   parsePaths(args),
					Exclude: flattenExcludeFlags,
				},
				Output:  m.Path(outputDirFlag),
				Threads: flattenParallelFlag,
			})
		},
	}
	cmd.Flags().IntVarP(&flattenParallelFlag, "parallel", "p", 1, "number of parallel workers, one root file per worker")
	cmd.Flags().StringArrayVarP(&flattenExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(flattenCmd)
}
