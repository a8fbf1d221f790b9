package graphml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graph"
)

// Namespace is the GraphML XML namespace written on exported documents.
const Namespace = "http://graphml.graphdrawing.org/xmlns"

type xmlDocument struct {
	XMLName xml.Name   `xml:"graphml"`
	Xmlns   string     `xml:"xmlns,attr"`
	Keys    []xmlKey   `xml:"key"`
	Graphs  []xmlGraph `xml:"graph"`
}

type xmlKey struct {
	ID      string  `xml:"id,attr"`
	For     string  `xml:"for,attr"`
	Name    string  `xml:"attr.name,attr"`
	Type    string  `xml:"attr.type,attr,omitempty"`
	Default *string `xml:"default"`
}

type xmlGraph struct {
	ID          string    `xml:"id,attr,omitempty"`
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// keyInfo is a resolved <key> declaration: the attribute name it maps to and
// the default value applied to elements that omit it.
type keyInfo struct {
	name       string
	forElem    string
	defaultVal *string
}

// Read decodes a GraphML document from r into a graph. The first <graph>
// element of the document is used; its edgedefault attribute decides whether
// the result is directed. Attribute keys declared with a <default> are
// applied to every node or edge that does not carry the key explicitly.
func Read(r io.Reader) (*graph.Graph, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraphML, err, "decode graphml")
	}
	if len(doc.Graphs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGraphML, "document contains no graph element")
	}
	xg := doc.Graphs[0]

	keys := make(map[string]keyInfo, len(doc.Keys))
	for _, k := range doc.Keys {
		name := k.Name
		if name == "" {
			name = k.ID
		}
		keys[k.ID] = keyInfo{name: name, forElem: k.For, defaultVal: k.Default}
	}

	directed := xg.EdgeDefault != "undirected"
	g := graph.New(directed)

	for _, n := range xg.Nodes {
		attrs := attrsFor(keys, "node", n.Data)
		if err := g.AddNode(n.ID, attrs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraphML, err, "node %q", n.ID)
		}
	}
	for _, e := range xg.Edges {
		attrs := attrsFor(keys, "edge", e.Data)
		if err := g.AddEdge(e.Source, e.Target, attrs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraphML, err, "edge %s->%s", e.Source, e.Target)
		}
	}
	return g, nil
}

// attrsFor resolves the data entries of one element against the key table and
// fills in declared defaults for keys the element omits.
func attrsFor(keys map[string]keyInfo, elem string, data []xmlData) graph.Attrs {
	attrs := make(graph.Attrs)
	for _, d := range data {
		name := d.Key
		if k, ok := keys[d.Key]; ok {
			name = k.name
		}
		attrs[name] = d.Value
	}
	for _, k := range keys {
		if k.defaultVal == nil || (k.forElem != elem && k.forElem != "all" && k.forElem != "") {
			continue
		}
		if _, ok := attrs[k.name]; !ok {
			attrs[k.name] = *k.defaultVal
		}
	}
	return attrs
}

// Import reads the GraphML file at path and returns the decoded graph.
// A missing file is reported as a file-not-found error so callers can
// distinguish it from a malformed document.
func Import(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidGraphML, err, "open %s", path)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "read %s", path)
	}
	return g, nil
}

// Write encodes g as GraphML and writes it to w. Keys are declared for every
// node and edge attribute name present in the graph, numbered d0, d1, ... in
// sorted name order with node keys first. Nodes and edges follow in the
// graph's sorted iteration order, so output is deterministic.
func Write(g *graph.Graph, w io.Writer) error {
	nodeKeys, edgeKeys := collectKeys(g)

	doc := xmlDocument{Xmlns: Namespace}
	keyID := make(map[[2]string]string, len(nodeKeys)+len(edgeKeys))
	n := 0
	for _, name := range nodeKeys {
		id := fmt.Sprintf("d%d", n)
		n++
		keyID[[2]string{"node", name}] = id
		doc.Keys = append(doc.Keys, xmlKey{ID: id, For: "node", Name: name, Type: "string"})
	}
	for _, name := range edgeKeys {
		id := fmt.Sprintf("d%d", n)
		n++
		keyID[[2]string{"edge", name}] = id
		doc.Keys = append(doc.Keys, xmlKey{ID: id, For: "edge", Name: name, Type: "string"})
	}

	edgeDefault := "directed"
	if !g.Directed() {
		edgeDefault = "undirected"
	}
	xg := xmlGraph{EdgeDefault: edgeDefault}

	for _, id := range g.Nodes() {
		xn := xmlNode{ID: id}
		attrs := g.NodeAttrs(id)
		for _, name := range sortedAttrNames(attrs) {
			xn.Data = append(xn.Data, xmlData{Key: keyID[[2]string{"node", name}], Value: attrs[name]})
		}
		xg.Nodes = append(xg.Nodes, xn)
	}
	for _, e := range g.Edges() {
		xe := xmlEdge{Source: e.From, Target: e.To}
		for _, name := range sortedAttrNames(e.Attr) {
			xe.Data = append(xe.Data, xmlData{Key: keyID[[2]string{"edge", name}], Value: e.Attr[name]})
		}
		xg.Edges = append(xg.Edges, xe)
	}
	doc.Graphs = []xmlGraph{xg}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns g as a GraphML document in memory.
func Marshal(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes g to the GraphML file at path, creating or truncating it.
func Export(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// collectKeys returns the sorted sets of node and edge attribute names
// appearing anywhere in the graph.
func collectKeys(g *graph.Graph) (nodeKeys, edgeKeys []string) {
	nset := make(map[string]bool)
	for _, id := range g.Nodes() {
		for name := range g.NodeAttrs(id) {
			nset[name] = true
		}
	}
	eset := make(map[string]bool)
	for _, e := range g.Edges() {
		for name := range e.Attr {
			eset[name] = true
		}
	}
	return sortedSet(nset), sortedSet(eset)
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func sortedAttrNames(a graph.Attrs) []string {
	out := make([]string, 0, len(a))
	for k := range a {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
