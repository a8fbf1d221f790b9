package graphml

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graph"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="d0" for="node" attr.name="value" attr.type="string">
    <default>blue</default>
  </key>
  <key id="d1" for="edge" attr.name="type" attr.type="string"/>
  <graph id="G" edgedefault="undirected">
    <node id="a">
      <data key="d0">red</data>
    </node>
    <node id="b"/>
    <edge source="a" target="b">
      <data key="d1">road</data>
    </edge>
  </graph>
</graphml>
`

func TestRead(t *testing.T) {
	g, err := Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Read() = %v, want nil", err)
	}

	if g.Directed() {
		t.Error("Directed() = true, want false")
	}
	if got := g.NodeCount(); got != 2 {
		t.Fatalf("NodeCount() = %d, want 2", got)
	}
	if v, _ := g.NodeAttr("a", "value"); v != "red" {
		t.Errorf("NodeAttr(a, value) = %q, want red", v)
	}
	if v, _ := g.NodeAttr("b", "value"); v != "blue" {
		t.Errorf("NodeAttr(b, value) = %q, want default blue", v)
	}
	if v, _ := g.EdgeAttr("a", "b", "type"); v != "road" {
		t.Errorf("EdgeAttr(a, b, type) = %q, want road", v)
	}
}

func TestReadDirected(t *testing.T) {
	doc := `<graphml><graph edgedefault="directed">
	  <node id="a"/><node id="b"/>
	  <edge source="a" target="b"/>
	</graph></graphml>`

	g, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read() = %v, want nil", err)
	}
	if !g.Directed() {
		t.Error("Directed() = false, want true")
	}
	if g.HasEdge("b", "a") {
		t.Error("HasEdge(b, a) = true in directed graph, want false")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "malformed xml",
			doc:  "<graphml><graph>",
		},
		{
			name: "no graph element",
			doc:  "<graphml></graphml>",
		},
		{
			name: "edge references unknown node",
			doc: `<graphml><graph edgedefault="directed">
			  <node id="a"/>
			  <edge source="a" target="ghost"/>
			</graph></graphml>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			if !errors.Is(err, errors.ErrCodeInvalidGraphML) {
				t.Errorf("Read() = %v, want INVALID_GRAPHML", err)
			}
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "nope.graphml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRoundTrip(t *testing.T) {
	g := graph.New(true)
	g.AddNode("n1", graph.Attrs{"value": "red", "size": "3"})
	g.AddNode("n2", graph.Attrs{"value": "blue"})
	g.AddEdge("n1", "n2", graph.Attrs{"type": "road"})
	g.AddEdge("n2", "n1", nil)

	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		t.Fatalf("Write() = %v, want nil", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() = %v, want nil", err)
	}

	if got.Directed() != g.Directed() {
		t.Errorf("Directed() = %v, want %v", got.Directed(), g.Directed())
	}
	if got.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", got.NodeCount(), g.NodeCount())
	}
	if v, _ := got.NodeAttr("n1", "size"); v != "3" {
		t.Errorf("NodeAttr(n1, size) = %q, want 3", v)
	}
	if v, _ := got.EdgeAttr("n1", "n2", "type"); v != "road" {
		t.Errorf("EdgeAttr(n1, n2, type) = %q, want road", v)
	}
	if !got.HasEdge("n2", "n1") {
		t.Error("HasEdge(n2, n1) = false, want true")
	}
}

func TestMarshalDeterministic(t *testing.T) {
	g := graph.New(false)
	g.AddNode("b", graph.Attrs{"value": "x"})
	g.AddNode("a", graph.Attrs{"value": "y"})
	g.AddEdge("a", "b", graph.Attrs{"type": "t"})

	first, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() = %v, want nil", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Marshal(g)
		if err != nil {
			t.Fatalf("Marshal() = %v, want nil", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal() output differs between runs")
		}
	}
}

func TestExportImport(t *testing.T) {
	g := graph.New(false)
	g.AddNode("a", graph.Attrs{"value": "red"})
	g.AddNode("b", nil)
	g.AddEdge("a", "b", nil)

	path := filepath.Join(t.TempDir(), "g.graphml")
	if err := Export(g, path); err != nil {
		t.Fatalf("Export() = %v, want nil", err)
	}

	got, err := Import(path)
	if err != nil {
		t.Fatalf("Import() = %v, want nil", err)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Errorf("imported %d nodes, %d edges, want 2, 1", got.NodeCount(), got.EdgeCount())
	}
}
