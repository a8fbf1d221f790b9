// Package graphml reads and writes labeled graphs in GraphML, the XML
// interchange format used by most graph tooling.
//
// # Format
//
// A GraphML document declares typed attribute keys up front and then lists
// nodes and edges that reference them:
//
//	<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
//	  <key id="d0" for="node" attr.name="value" attr.type="string"/>
//	  <graph edgedefault="directed">
//	    <node id="a"><data key="d0">red</data></node>
//	    <node id="b"><data key="d0">blue</data></node>
//	    <edge source="a" target="b"/>
//	  </graph>
//	</graphml>
//
// # Import
//
// Use [Import] to read a graph from a file path, or [Read] to read from any
// io.Reader. Key declarations are resolved to attribute names, <default>
// values are applied to elements that omit the key, and the graph's
// directedness follows the edgedefault attribute.
//
// # Export
//
// Use [Export] to write a graph to a file, or [Write] to write to any
// io.Writer. Output is deterministic: attribute keys, nodes, and edges are
// all emitted in sorted order, so identical graphs always serialize to
// identical documents.
package graphml
