// Package pattern extracts color patterns from a colored example graph.
//
// A pattern is the tuple of colors an isomorphism image reads off the example
// graph, indexed by the template's fixed node order. Each distinct tuple is
// stored once with the number of images that produced it; the counts are the
// weights used for entropy and sampling during solving.
package pattern

import (
	"slices"

	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graph"
	"github.com/matzehuels/graphwfc/pkg/iso"
)

// Pattern is one color assignment for a template, aligned with the
// template's fixed node order.
type Pattern []string

// Table holds the distinct patterns extracted for one template, with their
// occurrence counts. Patterns are sorted lexicographically, so tables built
// from the same inputs are identical.
type Table struct {
	// Order is the template's fixed node order; every Pattern in the table
	// is indexed by it.
	Order []string `json:"order"`

	// Patterns are the distinct color tuples, sorted.
	Patterns []Pattern `json:"patterns"`

	// Weights[i] is the number of isomorphism images that produced
	// Patterns[i]. Always >= 1.
	Weights []int `json:"weights"`
}

// Len returns the number of distinct patterns.
func (t *Table) Len() int { return len(t.Patterns) }

// TotalWeight returns the sum of all pattern weights, which equals the
// number of images the table was extracted from.
func (t *Table) TotalWeight() int {
	total := 0
	for _, w := range t.Weights {
		total += w
	}
	return total
}

// Extract builds the pattern table for one template from the images of its
// isomorphisms into the colored example graph. Every node of the example
// graph reached by an image must carry the color attribute.
func Extract(example *graph.Graph, order []string, images []iso.Image, colorAttr string) (*Table, error) {
	counts := make(map[string]int, len(images))
	tuples := make(map[string]Pattern, len(images))

	for _, img := range images {
		p := make(Pattern, len(order))
		for i, hnode := range img {
			color, ok := example.NodeAttr(hnode, colorAttr)
			if !ok {
				return nil, errors.New(errors.ErrCodeMissingColor,
					"example node %q has no %q attribute", hnode, colorAttr)
			}
			p[i] = color
		}
		key := p.key()
		if _, seen := counts[key]; !seen {
			tuples[key] = p
		}
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	t := &Table{
		Order:    slices.Clone(order),
		Patterns: make([]Pattern, len(keys)),
		Weights:  make([]int, len(keys)),
	}
	for i, k := range keys {
		t.Patterns[i] = tuples[k]
		t.Weights[i] = counts[k]
	}
	return t, nil
}

// key is a collision-free string form of the tuple, used for deduplication
// and for the table's sort order. Colors never contain NUL in practice; the
// separator keeps ("ab","c") distinct from ("a","bc") regardless.
func (p Pattern) key() string {
	n := 0
	for _, c := range p {
		n += len(c) + 1
	}
	b := make([]byte, 0, n)
	for _, c := range p {
		b = append(b, c...)
		b = append(b, 0)
	}
	return string(b)
}

// Palette is the ordered set of colors a solve may assign: the distinct
// colors of the example graph, sorted.
type Palette struct {
	Colors []string       `json:"colors"`
	index  map[string]int `json:"-"`
}

// NewPalette collects the distinct values of the color attribute across all
// nodes of the example graph. Nodes without the attribute are skipped here;
// Extract reports them when an image actually touches one.
func NewPalette(example *graph.Graph, colorAttr string) *Palette {
	set := make(map[string]bool)
	for _, id := range example.Nodes() {
		if c, ok := example.NodeAttr(id, colorAttr); ok {
			set[c] = true
		}
	}
	colors := make([]string, 0, len(set))
	for c := range set {
		colors = append(colors, c)
	}
	slices.Sort(colors)
	return &Palette{Colors: colors, index: indexOf(colors)}
}

// Index returns the position of a color in the palette, or -1 if absent.
func (p *Palette) Index(color string) int {
	if p.index == nil {
		p.index = indexOf(p.Colors)
	}
	if i, ok := p.index[color]; ok {
		return i
	}
	return -1
}

// Len returns the number of colors.
func (p *Palette) Len() int { return len(p.Colors) }

func indexOf(colors []string) map[string]int {
	m := make(map[string]int, len(colors))
	for i, c := range colors {
		m[c] = i
	}
	return m
}
