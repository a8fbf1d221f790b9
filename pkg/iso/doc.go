// Package iso enumerates node-induced subgraph isomorphisms of a small query
// graph into a larger host graph.
//
// The matcher is a backtracking search in the VF2 family: query nodes are
// ordered most-constrained-first (degree, then connectivity to nodes already
// in the sequence), candidates are drawn from the host neighborhood of an
// already-matched neighbor whenever one exists, and each extension is checked
// for adjacency, non-adjacency (the mapping must induce the query, not merely
// embed it), directionality, and optional edge-attribute equality. Candidates
// whose host degrees cannot cover the query node's degrees are pruned before
// the pairwise checks.
//
// Enumeration order is a pure function of the two graphs' node IDs and the
// options, which makes pattern extraction reproducible across runs.
package iso
