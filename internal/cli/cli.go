// Package cli implements the graphwfc command-line interface.
//
// This package provides commands for solving graph coloring problems from
// GraphML inputs, inspecting extracted patterns, rendering colored graphs,
// serving the HTTP API, and managing the extraction cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - solve: Color an output graph from an example graph and templates
//   - extract: Show the patterns a template extracts from an example graph
//   - render: Draw a colored GraphML file as SVG, PNG, or DOT
//   - serve: Run the HTTP API server
//   - cache: Manage the extraction cache
//
// # Logging
//
// All commands support --verbose for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
// Note that -v is the color attribute flag, not verbosity.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwfc/pkg/buildinfo"
)

// Execute runs the graphwfc CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree. The
// logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "graphwfc",
		Short:        "graphwfc colors graphs by example",
		Long:         `graphwfc generalizes WaveFunctionCollapse from grids to arbitrary graphs: it learns local color patterns from an example graph and propagates them onto an output graph until every node has a color.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
