package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwfc/pkg/graphml"
	"github.com/matzehuels/graphwfc/pkg/iso"
	"github.com/matzehuels/graphwfc/pkg/pattern"
	"github.com/matzehuels/graphwfc/pkg/pipeline"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	example   string
	templates []string
	nodeAttr  string
	edgeAttr  string
	asJSON    bool
	limit     int
}

// newExtractCmd creates the extract command. It shows the pattern tables a
// set of templates extracts from an example graph, without solving anything.
// Useful for checking that templates match where expected.
func newExtractCmd() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [workdir]",
		Short: "Show the patterns a template extracts from an example graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir := "."
			if len(args) == 1 {
				workdir = args[0]
			}
			return runExtract(cmd.Context(), workdir, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.example, "example", "GI.graphml", "example graph file")
	cmd.Flags().StringSliceVar(&opts.templates, "template", []string{"GL.graphml"}, "template graph file(s)")
	cmd.Flags().StringVarP(&opts.nodeAttr, "node-attr", "v", pipeline.DefaultNodeAttr, "node attribute holding the color")
	cmd.Flags().StringVarP(&opts.edgeAttr, "edge-attr", "e", pipeline.DefaultEdgeAttr, "edge attribute matched during search")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print tables as JSON")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "patterns to list per template, 0 = all")

	return cmd
}

// runExtract enumerates images and prints one pattern table per template.
func runExtract(ctx context.Context, workdir string, opts *extractOpts) error {
	logger := loggerFromContext(ctx)

	example, err := graphml.Import(resolve(workdir, opts.example))
	if err != nil {
		return err
	}
	logger.Debugf("Loaded example: %d nodes, %d edges", len(example.Nodes()), example.EdgeCount())

	var tables []*pattern.Table
	for _, name := range opts.templates {
		if err := ctx.Err(); err != nil {
			return err
		}
		tmpl, err := graphml.Import(resolve(workdir, name))
		if err != nil {
			return err
		}

		images, err := iso.Enumerate(example, tmpl, iso.Options{EdgeAttr: opts.edgeAttr})
		if err != nil {
			return err
		}
		table, err := pattern.Extract(example, iso.QueryOrder(tmpl), images, opts.nodeAttr)
		if err != nil {
			return err
		}
		tables = append(tables, table)

		if !opts.asJSON {
			printTable(name, len(images), table, opts.limit)
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	}
	return nil
}

// printTable prints a human-readable summary of one pattern table.
func printTable(name string, imageCount int, t *pattern.Table, limit int) {
	fmt.Println(StyleTitle.Render(name))
	printKeyValue("Images", fmt.Sprintf("%d", imageCount))
	printKeyValue("Patterns", fmt.Sprintf("%d distinct", t.Len()))
	printKeyValue("Order", strings.Join(t.Order, ", "))

	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	total := t.TotalWeight()
	for i := 0; i < n; i++ {
		weight := t.Weights[i]
		printDetail("%-40s ×%d (%.1f%%)",
			strings.Join(t.Patterns[i], " "), weight, 100*float64(weight)/float64(total))
	}
	if n < t.Len() {
		printDetail("… %d more", t.Len()-n)
	}
	fmt.Println()
}

// resolve joins a file name with the working directory unless absolute.
func resolve(workdir, name string) string {
	if workdir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(workdir, name)
}
