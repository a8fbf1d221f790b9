package pattern

import (
	"reflect"
	"testing"

	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graph"
	"github.com/matzehuels/graphwfc/pkg/iso"
)

// coloredPath builds an undirected path with the given colors in order,
// nodes named a, b, c, ...
func coloredPath(t *testing.T, colors ...string) *graph.Graph {
	t.Helper()
	g := graph.New(false)
	prev := ""
	for i, c := range colors {
		id := string(rune('a' + i))
		if err := g.AddNode(id, graph.Attrs{"value": c}); err != nil {
			t.Fatalf("AddNode(%s) = %v", id, err)
		}
		if prev != "" {
			if err := g.AddEdge(prev, id, nil); err != nil {
				t.Fatalf("AddEdge(%s, %s) = %v", prev, id, err)
			}
		}
		prev = id
	}
	return g
}

func TestExtract(t *testing.T) {
	// red-blue-red path; a single-edge template sees the color pairs
	// (red,blue), (blue,red), (blue,red), (red,blue).
	example := coloredPath(t, "red", "blue", "red")

	tmpl := graph.New(false)
	tmpl.AddNode("x", nil)
	tmpl.AddNode("y", nil)
	tmpl.AddEdge("x", "y", nil)

	images, err := iso.Enumerate(example, tmpl, iso.Options{})
	if err != nil {
		t.Fatalf("Enumerate() = %v, want nil", err)
	}

	table, err := Extract(example, iso.QueryOrder(tmpl), images, "value")
	if err != nil {
		t.Fatalf("Extract() = %v, want nil", err)
	}

	wantPatterns := []Pattern{{"blue", "red"}, {"red", "blue"}}
	wantWeights := []int{2, 2}
	if !reflect.DeepEqual(table.Patterns, wantPatterns) {
		t.Errorf("Patterns = %v, want %v", table.Patterns, wantPatterns)
	}
	if !reflect.DeepEqual(table.Weights, wantWeights) {
		t.Errorf("Weights = %v, want %v", table.Weights, wantWeights)
	}
	if got := table.TotalWeight(); got != 4 {
		t.Errorf("TotalWeight() = %d, want 4", got)
	}
	if got := table.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestExtractWeightsAreAsymmetric(t *testing.T) {
	// red-red-blue: pair (red,red) appears twice (both orientations of one
	// edge), (red,blue) and (blue,red) once each.
	example := coloredPath(t, "red", "red", "blue")

	tmpl := graph.New(false)
	tmpl.AddNode("x", nil)
	tmpl.AddNode("y", nil)
	tmpl.AddEdge("x", "y", nil)

	images, err := iso.Enumerate(example, tmpl, iso.Options{})
	if err != nil {
		t.Fatalf("Enumerate() = %v, want nil", err)
	}
	table, err := Extract(example, iso.QueryOrder(tmpl), images, "value")
	if err != nil {
		t.Fatalf("Extract() = %v, want nil", err)
	}

	weights := make(map[string]int, table.Len())
	for i, p := range table.Patterns {
		weights[p[0]+"|"+p[1]] = table.Weights[i]
	}
	want := map[string]int{"red|red": 2, "red|blue": 1, "blue|red": 1}
	if !reflect.DeepEqual(weights, want) {
		t.Errorf("weights = %v, want %v", weights, want)
	}
}

func TestExtractMissingColor(t *testing.T) {
	example := graph.New(false)
	example.AddNode("a", graph.Attrs{"value": "red"})
	example.AddNode("b", nil) // no color
	example.AddEdge("a", "b", nil)

	tmpl := graph.New(false)
	tmpl.AddNode("x", nil)
	tmpl.AddNode("y", nil)
	tmpl.AddEdge("x", "y", nil)

	images, err := iso.Enumerate(example, tmpl, iso.Options{})
	if err != nil {
		t.Fatalf("Enumerate() = %v, want nil", err)
	}
	_, err = Extract(example, iso.QueryOrder(tmpl), images, "value")
	if !errors.Is(err, errors.ErrCodeMissingColor) {
		t.Errorf("Extract() = %v, want MISSING_COLOR", err)
	}
}

func TestExtractNoImages(t *testing.T) {
	example := coloredPath(t, "red", "blue")
	table, err := Extract(example, []string{"x", "y"}, nil, "value")
	if err != nil {
		t.Fatalf("Extract() = %v, want nil", err)
	}
	if table.Len() != 0 || table.TotalWeight() != 0 {
		t.Errorf("empty extraction gave %d patterns, weight %d", table.Len(), table.TotalWeight())
	}
}

func TestPalette(t *testing.T) {
	example := coloredPath(t, "red", "blue", "red", "green")

	p := NewPalette(example, "value")
	want := []string{"blue", "green", "red"}
	if !reflect.DeepEqual(p.Colors, want) {
		t.Errorf("Colors = %v, want %v", p.Colors, want)
	}
	if got := p.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := p.Index("green"); got != 1 {
		t.Errorf("Index(green) = %d, want 1", got)
	}
	if got := p.Index("unknown"); got != -1 {
		t.Errorf("Index(unknown) = %d, want -1", got)
	}
}
