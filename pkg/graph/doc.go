// Package graph provides the labeled graph model shared by every stage of
// the collapse pipeline: the colored example graph, the uncolored templates,
// and the output graph.
//
// A single run works either entirely on directed graphs or entirely on
// undirected ones; the flag is fixed per graph at construction and validated
// across graphs by the solver. Undirected graphs index each edge in both
// directions with a shared attribute map, so adjacency queries never branch
// on direction at the call site.
//
// Node and edge attributes are opaque strings. The solver reads one node
// attribute as the color and optionally one edge attribute as the match
// label; everything else is carried through untouched.
package graph
