package solver

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/matzehuels/graphwfc/pkg/errors"
	"github.com/matzehuels/graphwfc/pkg/graph"
	"github.com/matzehuels/graphwfc/pkg/iso"
	"github.com/matzehuels/graphwfc/pkg/observability"
	"github.com/matzehuels/graphwfc/pkg/pattern"
)

// jitterEps scales the random perturbation added to image entropies during
// observation. It is small enough to only ever break exact ties.
const jitterEps = 1e-6

// Config carries the inputs of one solve.
type Config struct {
	// Example is the colored example graph the patterns are learned from.
	Example *graph.Graph

	// Templates are the uncolored query graphs whose neighborhoods define
	// the patterns. At least one is required.
	Templates []*graph.Graph

	// Output is the graph to color. It is not mutated; the solver works on
	// a pruned clone.
	Output *graph.Graph

	// NodeAttr is the node attribute holding the color.
	NodeAttr string

	// EdgeAttr is the edge attribute that must match between corresponding
	// edges during isomorphism search. Empty disables label matching.
	EdgeAttr string

	// Seed initializes the random source. Reruns with the same config and
	// seed produce the same output.
	Seed int64

	// Tables optionally supplies precomputed pattern tables, one per
	// template in order. When nil they are extracted from Example.
	Tables []*pattern.Table

	// OutputImages optionally supplies precomputed template isomorphisms
	// into Output, one slice per template in order. When nil they are
	// enumerated.
	OutputImages [][]iso.Image
}

// Outcome is the result of a Run.
type Outcome int

const (
	// OutcomeSuccess means every image reached zero entropy and the output
	// graph is fully colored.
	OutcomeSuccess Outcome = iota

	// OutcomeContradiction means propagation emptied a domain or a pattern
	// set. Reset and rerun with a different seed.
	OutcomeContradiction

	// OutcomeExhausted means the iteration budget ran out with observations
	// still pending.
	OutcomeExhausted
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeContradiction:
		return "contradiction"
	case OutcomeExhausted:
		return "exhausted"
	}
	return "unknown"
}

// compiled is one template's pattern table in palette-index form, plus the
// per-position support sets the propagator intersects against.
type compiled struct {
	order    []string
	patterns [][]int   // pattern -> position -> palette index
	weights  []int     // pattern occurrence counts
	wlogw    []float64 // weights[i] * log(weights[i])

	// byPos[pos][color] is the set of patterns carrying color at pos.
	byPos [][]bitset
}

// imageState is one isomorphism of a template into the output graph, with
// the mutable set of patterns it still allows.
type imageState struct {
	tmpl    *compiled
	nodes   []int // output node index per template position
	allowed bitset
	entropy float64
}

// covRef locates one position of one image covering an output node.
type covRef struct {
	img int
	pos int
}

// State is a solve in progress. Create with New; it is not safe for
// concurrent use.
type State struct {
	cfg     Config
	out     *graph.Graph
	palette *pattern.Palette
	tmpls   []*compiled

	nodes   []string
	nodeIdx map[string]int
	covers  [][]covRef
	images  []*imageState

	domains   []bitset
	invisible []string

	seed int64
	rng  *rand.Rand
	iter int

	nodeQueue  []int
	nodeQueued []bool
	imgQueue   []int
	imgQueued  []bool
}

// New validates the config, enumerates isomorphisms, extracts patterns,
// prunes uncoverable output nodes, and resets the state to fully
// unconstrained. The returned state is ready to Run.
//
// Setup failures are final: fix the inputs rather than retrying. A
// contradiction during the initial propagation is also reported here, since
// no choice of seed can escape it.
func New(ctx context.Context, cfg Config) (*State, error) {
	start := time.Now()
	observability.Solver().OnSetupStart(ctx, len(cfg.Templates), cfg.Output.NodeCount())

	s, err := build(ctx, cfg)

	patterns, images := 0, 0
	if s != nil {
		for _, t := range s.tmpls {
			patterns += len(t.patterns)
		}
		images = len(s.images)
	}
	observability.Solver().OnSetupComplete(ctx, patterns, images, time.Since(start), err)
	return s, err
}

func build(ctx context.Context, cfg Config) (*State, error) {
	if cfg.Example == nil || cfg.Output == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "example and output graphs are required")
	}
	if len(cfg.Templates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one template is required")
	}
	if cfg.NodeAttr == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node attribute must not be empty")
	}
	directed := cfg.Example.Directed()
	if cfg.Output.Directed() != directed {
		return nil, errors.New(errors.ErrCodeMixedDirectedness,
			"example graph is directed=%v but output graph is directed=%v", directed, cfg.Output.Directed())
	}
	for i, tl := range cfg.Templates {
		if tl.Directed() != directed {
			return nil, errors.New(errors.ErrCodeMixedDirectedness,
				"example graph is directed=%v but template %d is directed=%v", directed, i, tl.Directed())
		}
		if !tl.ConnectedIgnoringDirection() {
			observability.Solver().OnTemplateDisconnected(ctx, i)
		}
	}
	if cfg.Tables != nil && len(cfg.Tables) != len(cfg.Templates) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d pattern tables for %d templates", len(cfg.Tables), len(cfg.Templates))
	}
	if cfg.OutputImages != nil && len(cfg.OutputImages) != len(cfg.Templates) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d image sets for %d templates", len(cfg.OutputImages), len(cfg.Templates))
	}

	opts := iso.Options{EdgeAttr: cfg.EdgeAttr}

	tables := cfg.Tables
	if tables == nil {
		tables = make([]*pattern.Table, len(cfg.Templates))
		for i, tl := range cfg.Templates {
			images, err := iso.Enumerate(cfg.Example, tl, opts)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "enumerate template %d in example", i)
			}
			t, err := pattern.Extract(cfg.Example, iso.QueryOrder(tl), images, cfg.NodeAttr)
			if err != nil {
				return nil, err
			}
			tables[i] = t
		}
	}
	total := 0
	for _, t := range tables {
		total += t.Len()
	}
	if total == 0 {
		return nil, errors.New(errors.ErrCodeNoPatterns,
			"no template matches the example graph, nothing to learn")
	}

	pal := pattern.NewPalette(cfg.Example, cfg.NodeAttr)

	s := &State{
		cfg:     cfg,
		palette: pal,
		seed:    cfg.Seed,
	}
	for i, t := range tables {
		c, err := compile(t, pal)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "template %d", i)
		}
		s.tmpls = append(s.tmpls, c)
	}

	outImages := cfg.OutputImages
	if outImages == nil {
		outImages = make([][]iso.Image, len(cfg.Templates))
		for i, tl := range cfg.Templates {
			images, err := iso.Enumerate(cfg.Output, tl, opts)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "enumerate template %d in output", i)
			}
			outImages[i] = images
		}
	}

	covered := make(map[string]bool)
	for _, images := range outImages {
		for _, img := range images {
			for _, id := range img {
				covered[id] = true
			}
		}
	}
	if len(covered) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyCoverage,
			"no template matches the output graph, no node can be constrained")
	}

	s.out = cfg.Output.Clone()
	for _, id := range cfg.Output.Nodes() {
		if !covered[id] {
			s.invisible = append(s.invisible, id)
			s.out.RemoveNode(id)
		}
	}

	s.nodes = s.out.Nodes()
	s.nodeIdx = make(map[string]int, len(s.nodes))
	for i, id := range s.nodes {
		s.nodeIdx[id] = i
	}
	s.covers = make([][]covRef, len(s.nodes))

	for ti, images := range outImages {
		tmpl := s.tmpls[ti]
		for _, img := range images {
			ist := &imageState{
				tmpl:  tmpl,
				nodes: make([]int, len(img)),
			}
			idx := len(s.images)
			for pos, id := range img {
				ni := s.nodeIdx[id]
				ist.nodes[pos] = ni
				s.covers[ni] = append(s.covers[ni], covRef{img: idx, pos: pos})
			}
			s.images = append(s.images, ist)
		}
	}

	s.domains = make([]bitset, len(s.nodes))
	s.nodeQueued = make([]bool, len(s.nodes))
	s.imgQueued = make([]bool, len(s.images))

	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// compile converts a pattern table to palette indexes and builds the
// per-position support sets.
func compile(t *pattern.Table, pal *pattern.Palette) (*compiled, error) {
	n := t.Len()
	c := &compiled{
		order:    t.Order,
		patterns: make([][]int, n),
		weights:  t.Weights,
		wlogw:    make([]float64, n),
		byPos:    make([][]bitset, len(t.Order)),
	}
	for pos := range c.byPos {
		c.byPos[pos] = make([]bitset, pal.Len())
		for color := range c.byPos[pos] {
			c.byPos[pos][color] = newBitset(n)
		}
	}
	for p, tuple := range t.Patterns {
		c.patterns[p] = make([]int, len(tuple))
		for pos, color := range tuple {
			ci := pal.Index(color)
			if ci < 0 {
				return nil, errors.New(errors.ErrCodeMissingColor,
					"pattern color %q is not in the palette", color)
			}
			c.patterns[p][pos] = ci
			c.byPos[pos][ci].set(p)
		}
		w := float64(t.Weights[p])
		c.wlogw[p] = w * math.Log(w)
	}
	return c, nil
}

// Reset returns the state to fully unconstrained: every node may take every
// palette color, every image allows every pattern, and the random source is
// reseeded so a rerun reproduces the same choices. The initial propagation
// then applies the constraints that hold before any observation; if it
// contradicts, no seed can solve the inputs and Reset reports it as a final
// error.
func (s *State) Reset() error {
	s.rng = rand.New(rand.NewSource(s.seed))
	s.iter = 0
	s.nodeQueue = s.nodeQueue[:0]
	s.imgQueue = s.imgQueue[:0]
	for i := range s.nodeQueued {
		s.nodeQueued[i] = false
	}
	for i := range s.imgQueued {
		s.imgQueued[i] = false
	}

	for i := range s.domains {
		s.domains[i] = fullBitset(s.palette.Len())
	}
	for _, img := range s.images {
		img.allowed = fullBitset(len(img.tmpl.patterns))
		img.entropy = entropyOf(img)
	}

	for i := range s.nodes {
		s.enqueueNode(i)
	}
	if bad, ok := s.propagate(); !ok {
		return errors.New(errors.ErrCodeContradiction,
			"inputs contradict before any observation at node %q", s.nodes[bad])
	}
	return nil
}

// Reseed changes the seed used by the next Reset. It does not touch the
// current run.
func (s *State) Reseed(seed int64) { s.seed = seed }

// Seed returns the seed the state resets with.
func (s *State) Seed() int64 { return s.seed }

// Run observes and propagates until the wave collapses, a contradiction
// occurs, or maxIter observations have been spent. maxIter <= 0 means no
// budget. The context is checked between iterations.
//
// On success the colors are written into the output graph, available via
// [State.Out] and [State.Colors].
func (s *State) Run(ctx context.Context, maxIter int) (Outcome, error) {
	start := time.Now()
	outcome, err := s.run(ctx, maxIter)
	observability.Solver().OnSolveComplete(ctx, outcome.String(), s.iter, time.Since(start), err)
	return outcome, err
}

func (s *State) run(ctx context.Context, maxIter int) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return OutcomeExhausted, errors.Wrap(errors.ErrCodeInternal, err, "solve canceled")
		}
		if maxIter > 0 && s.iter >= maxIter {
			if s.finished() {
				s.writeColors()
				return OutcomeSuccess, nil
			}
			return OutcomeExhausted, nil
		}

		target := s.observeTarget(ctx)
		if target < 0 {
			s.writeColors()
			return OutcomeSuccess, nil
		}
		s.iter++

		s.collapse(target)
		if bad, ok := s.propagate(); !ok {
			observability.Solver().OnContradiction(ctx, s.iter, s.nodes[bad])
			return OutcomeContradiction, nil
		}
	}
}

// finished reports whether every image has zero entropy.
func (s *State) finished() bool {
	for _, img := range s.images {
		if img.entropy > 0 {
			return false
		}
	}
	return true
}

// writeColors stamps each node's remaining color onto the output graph.
// It is called only on success, where every node has exactly one color left;
// a node with several colors would take its lowest.
func (s *State) writeColors() {
	for i, id := range s.nodes {
		if c := s.domains[i].first(); c >= 0 {
			s.out.SetNodeAttr(id, s.cfg.NodeAttr, s.palette.Colors[c])
		}
	}
}

// entropyOf computes the Shannon entropy of an image's allowed patterns
// under occurrence-count weighting. A single allowed pattern is exactly
// zero; an empty set is reported as zero too, contradiction handling is the
// propagator's job.
func entropyOf(img *imageState) float64 {
	n := img.allowed.count()
	if n <= 1 {
		return 0
	}
	total := 0
	sum := 0.0
	img.allowed.each(func(p int) {
		total += img.tmpl.weights[p]
		sum += img.tmpl.wlogw[p]
	})
	w := float64(total)
	return math.Log(w) - sum/w
}

// Out returns the solver's output graph: the pruned clone that receives the
// colors. Callers must not mutate it while the solve is running.
func (s *State) Out() *graph.Graph { return s.out }

// Colors returns the current color of every decided node. Undecided nodes
// (domain size > 1) are omitted.
func (s *State) Colors() map[string]string {
	out := make(map[string]string, len(s.nodes))
	for i, id := range s.nodes {
		if s.domains[i].count() == 1 {
			out[id] = s.palette.Colors[s.domains[i].first()]
		}
	}
	return out
}

// Domains returns the remaining colors of every node, sorted per node.
func (s *State) Domains() map[string][]string {
	out := make(map[string][]string, len(s.nodes))
	for i, id := range s.nodes {
		var colors []string
		s.domains[i].each(func(c int) {
			colors = append(colors, s.palette.Colors[c])
		})
		out[id] = colors
	}
	return out
}

// Invisible returns the output nodes pruned before solving because no
// template isomorphism covers them, sorted.
func (s *State) Invisible() []string { return s.invisible }

// Iterations returns the number of observations spent so far.
func (s *State) Iterations() int { return s.iter }

// Palette returns the colors the solve draws from.
func (s *State) Palette() []string { return s.palette.Colors }

// ImageCount returns the number of template isomorphisms into the output
// graph the solver tracks.
func (s *State) ImageCount() int { return len(s.images) }
