// Package solver implements graph wave function collapse: it colors an
// output graph so that every local neighborhood matching a template looks
// like some neighborhood of the colored example graph.
//
// # Model
//
// Setup enumerates the isomorphisms of each template into the example graph
// and into the output graph. The example-side images yield weighted color
// patterns; the output-side images carry a mutable set of still-allowed
// patterns, and every output node carries a mutable color domain. Output
// nodes covered by no image cannot be constrained and are pruned up front.
//
// # Solving
//
// Run alternates observation and propagation. An observation picks the image
// with the lowest positive entropy (with a small random jitter to break
// ties), samples one of its allowed patterns weighted by occurrence count,
// and pins the image to it. Propagation then shrinks node domains to the
// colors their covering images still support and shrinks image pattern sets
// to the patterns their nodes' domains still allow, to a fixed point. An
// empty domain or pattern set is a contradiction; the caller resets and
// retries with a fresh seed.
//
// All randomness flows through a single seeded source and every iteration
// order is fixed, so a run is reproducible from its seed.
package solver
