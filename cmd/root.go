// Package cmd provides the root command and CLI setup for flatscad.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/scad-tools/flatscad/internal/adapter"
	"github.com/scad-tools/flatscad/internal/controller"
	"github.com/scad-tools/flatscad/internal/domain"
	m "github.com/scad-tools/flatscad/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var outputStore adapter.OutputStore
var logger *log.Logger
var ui controller.UI
var workflow domain.Workflow

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "flatscad"})
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	outputStore = adapter.NewOutputStore()
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	workflow = domain.NewWorkflow(fsAdapter, outputStore, ui, logger)
}

var outputDirFlag string
var parallelFlag int
var excludeFlags []string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatscad [paths...]",
		Short: "Flatten multi-file OpenSCAD projects into single files",
		Long: `Flatscad merges a tree of OpenSCAD source files connected by include<...>
and use<...> directives into one self-contained file per root, suitable for
publishing on platforms that only accept single-file models. Customizer
sections, variables, modules and functions are regrouped and tagged with the
file they came from.

Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./parts/...    recursively scan parts directory
  - ./a ./b        scan multiple directories`,
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Flatten(domain.FlattenArgs{
				ListArgs: domain.ListArgs{
					Paths:   parsePaths(args),
					Exclude: excludeFlags,
				},
				Output:  m.Path(outputDirFlag),
				Threads: parallelFlag,
			})
		},
	}
	cmd.PersistentFlags().StringVarP(&outputDirFlag, "out", "o", domain.DefaultOutputDir, "directory merged files are written to")
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", 1, "number of parallel workers, one root file per worker")
	cmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
