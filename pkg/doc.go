// Package pkg provides the core libraries for GraphWFC graph synthesis.
//
// # Overview
//
// GraphWFC generalizes the WaveFunctionCollapse algorithm from pixel grids to
// arbitrary graphs: given a colored example graph, it colors an uncolored
// output graph so that every local neighborhood of the result also appears
// somewhere in the example. The pkg directory is organized into four areas:
//
//  1. Graph model ([graph], [graphml]) - attributed graphs and their wire format
//  2. Extraction ([iso], [pattern]) - subgraph isomorphism and pattern tables
//  3. Solving ([solver]) - observation, propagation, and contradiction handling
//  4. Orchestration ([pipeline], [cache], [render]) - the end-to-end solve flow
//
// # Architecture
//
// The typical data flow through GraphWFC:
//
//	GI.graphml / GL.graphml / GO.graphml
//	         ↓
//	    [graphml] package (decode attributed graphs)
//	         ↓
//	    [iso] package (enumerate template embeddings)
//	         ↓
//	    [pattern] package (weighted color patterns per template)
//	         ↓
//	    [solver] package (entropy-driven observation + propagation)
//	         ↓
//	    colored GraphML / SVG / PNG output
//
// # Quick Start
//
// Load a working directory and solve it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/graphwfc/pkg/cache"
//	    "github.com/matzehuels/graphwfc/pkg/pipeline"
//	)
//
//	c, _ := cache.Open(ctx, cache.Config{Backend: "memory"})
//	runner := pipeline.NewRunner(c, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    WorkDir: "examples/two-coloring",
//	    Seed:    42,
//	})
//	for id, color := range result.Colors {
//	    fmt.Println(id, color)
//	}
//
// # Main Packages
//
// ## Graph Model
//
// [graph] - Attributed graphs with string node IDs. A single type covers
// directed and undirected graphs; nodes and edges carry string attribute
// maps. Iteration orders are deterministic.
//
// [graphml] - GraphML encoding and decoding, including key declarations with
// defaults. Exports are byte-stable so cache keys can hash file contents.
//
// ## Extraction
//
// [iso] - Node-induced subgraph isomorphism. Enumerates every embedding of a
// template graph into a host graph, optionally constrained by an edge
// attribute. Matches require edge-iff-edge agreement in both directions.
//
// [pattern] - Turns template embeddings of the example graph into weighted
// color patterns, the statistical model the solver draws from.
//
// ## Solving
//
// [solver] - The constraint solver. Tracks a color domain per output node and
// an allowed-pattern set per template image, observes the lowest-entropy
// image, and propagates to a fixed point. Contradictions are outcomes, not
// errors, so callers can retry with fresh seeds.
//
// ## Orchestration
//
// [pipeline] - Complete solve pipeline (load → extract → solve → write) used
// by CLI and API. Extraction results are cached by content hash, so re-solving
// the same inputs with a new seed skips the isomorphism search.
//
// [cache] - Cache backends behind one interface: file (CLI default), memory
// (LRU, testing), Redis and MongoDB (service deployments), and null.
//
// [render] - Colored graphs as Graphviz DOT, rendered in-process to SVG or
// PNG. No external graphviz installation is needed.
//
// ## Supporting Packages
//
// [config] - TOML configuration (graphwfc.toml) with defaults shared by CLI
// and server.
//
// [errors] - Coded errors. Every failure carries a stable code that the CLI
// maps to exit behavior and the API maps to HTTP status.
//
// [observability] - Pluggable solver and API hooks. The watch TUI subscribes
// to solver progress through these.
//
// [buildinfo] - Version, commit, and build date injected at link time.
//
// # Common Workflows
//
// Enumerate template embeddings directly:
//
//	images, _ := iso.Enumerate(host, tmpl, iso.Options{EdgeAttr: "type"})
//
// Extract a pattern table:
//
//	table, _ := pattern.Extract(example, iso.QueryOrder(tmpl), images, "value")
//
// Run the solver with a fixed seed:
//
//	st, _ := solver.New(ctx, solver.Config{
//	    Example:   example,
//	    Templates: templates,
//	    Output:    output,
//	    NodeAttr:  "value",
//	    Seed:      42,
//	})
//	outcome, _ := st.Run(ctx, 0)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/solver/...     # Specific package
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/graph
// [graphml]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/graphml
// [iso]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/iso
// [pattern]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/pattern
// [solver]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/solver
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphwfc/pkg/buildinfo
package pkg
