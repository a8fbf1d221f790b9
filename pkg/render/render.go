// Package render draws colored graphs as SVG or PNG images.
//
// Graphs are first converted to Graphviz DOT with one fill color per
// distinct node color, then rendered in-process with
// [github.com/goccy/go-graphviz]. No external graphviz installation is
// needed.
package render

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphwfc/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// NodeAttr is the node attribute displayed and used for fill colors.
	NodeAttr string

	// Detailed includes every node attribute in labels, not just the
	// color.
	Detailed bool
}

// fills is the fill palette cycled over the distinct colors of the graph,
// in sorted color order. Colors beyond the palette reuse it from the start.
var fills = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3",
	"#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd",
}

// ToDOT converts a colored graph to Graphviz DOT. Uncolored nodes are drawn
// white. The resulting DOT string can be rendered with [SVG] or [PNG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	connector := "->"
	if g.Directed() {
		buf.WriteString("digraph G {\n")
	} else {
		buf.WriteString("graph G {\n")
		connector = "--"
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white];\n")
	buf.WriteString("\n")

	fill := fillFor(g, opts.NodeAttr)
	for _, id := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", label(g, id, opts))}
		if color, ok := g.NodeAttr(id, opts.NodeAttr); ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill[color]))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q %s %q;\n", e.From, connector, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(g *graph.Graph, id string, opts Options) string {
	color, _ := g.NodeAttr(id, opts.NodeAttr)
	if !opts.Detailed {
		if color == "" {
			return id
		}
		return id + "\n" + color
	}
	parts := []string{id}
	attrs := g.NodeAttrs(id)
	for _, e := range sortedEntries(attrs) {
		parts = append(parts, e)
	}
	return strings.Join(parts, "\n")
}

func sortedEntries(a graph.Attrs) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + ": " + a[k]
	}
	return out
}

// fillFor assigns a fill color to each distinct node color, stable across
// runs because colors are assigned in sorted order.
func fillFor(g *graph.Graph, nodeAttr string) map[string]string {
	set := make(map[string]bool)
	for _, id := range g.Nodes() {
		if c, ok := g.NodeAttr(id, nodeAttr); ok {
			set[c] = true
		}
	}
	colors := make([]string, 0, len(set))
	for c := range set {
		colors = append(colors, c)
	}
	slices.Sort(colors)
	fill := make(map[string]string, len(colors))
	for i, c := range colors {
		fill[c] = fills[i%len(fills)]
	}
	return fill
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
