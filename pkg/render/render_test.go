package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/graphwfc/pkg/graph"
)

func coloredPair(t *testing.T, directed bool) *graph.Graph {
	t.Helper()
	g := graph.New(directed)
	g.AddNode("a", graph.Attrs{"value": "red"})
	g.AddNode("b", graph.Attrs{"value": "blue"})
	g.AddEdge("a", "b", nil)
	return g
}

func TestToDOTUndirected(t *testing.T) {
	dot := ToDOT(coloredPair(t, false), Options{NodeAttr: "value"})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("ToDOT() = %q, want graph prefix", dot)
	}
	if !strings.Contains(dot, `"a" -- "b";`) {
		t.Errorf("ToDOT() missing undirected edge, got %q", dot)
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() used a directed connector for an undirected graph")
	}
}

func TestToDOTDirected(t *testing.T) {
	dot := ToDOT(coloredPair(t, true), Options{NodeAttr: "value"})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("ToDOT() = %q, want digraph prefix", dot)
	}
	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Errorf("ToDOT() missing directed edge, got %q", dot)
	}
}

func TestToDOTFillsAreStable(t *testing.T) {
	// Fills follow sorted color order, so blue gets the first palette
	// entry and red the second, regardless of node order.
	g := graph.New(false)
	g.AddNode("n1", graph.Attrs{"value": "red"})
	g.AddNode("n2", graph.Attrs{"value": "blue"})

	dot := ToDOT(g, Options{NodeAttr: "value"})
	if !strings.Contains(dot, `"n2" [label="n2\nblue", fillcolor="`+fills[0]+`"];`) {
		t.Errorf("blue node fill mismatch in %q", dot)
	}
	if !strings.Contains(dot, `"n1" [label="n1\nred", fillcolor="`+fills[1]+`"];`) {
		t.Errorf("red node fill mismatch in %q", dot)
	}

	if again := ToDOT(g, Options{NodeAttr: "value"}); again != dot {
		t.Error("ToDOT() not deterministic across runs")
	}
}

func TestToDOTUncoloredNode(t *testing.T) {
	g := graph.New(false)
	g.AddNode("bare", nil)

	dot := ToDOT(g, Options{NodeAttr: "value"})
	if !strings.Contains(dot, `"bare" [label="bare"];`) {
		t.Errorf("uncolored node got a fill: %q", dot)
	}
	if !strings.Contains(dot, "fillcolor=white") {
		t.Error("node defaults missing white fill")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := graph.New(false)
	g.AddNode("a", graph.Attrs{"value": "red", "weight": "3"})

	dot := ToDOT(g, Options{NodeAttr: "value", Detailed: true})
	if !strings.Contains(dot, `label="a\nvalue: red\nweight: 3"`) {
		t.Errorf("detailed label mismatch in %q", dot)
	}
}

func TestToDOTPaletteWraps(t *testing.T) {
	g := graph.New(false)
	colors := len(fills) + 2
	for i := 0; i < colors; i++ {
		id := "n" + string(rune('a'+i))
		g.AddNode(id, graph.Attrs{"value": "c" + string(rune('a'+i))})
	}

	dot := ToDOT(g, Options{NodeAttr: "value"})
	// Colors beyond the palette reuse it from the start.
	if strings.Count(dot, fills[0]) != 2 {
		t.Errorf("palette did not wrap: %q", dot)
	}
}
