// Package dag provides the directed graph that declarative renderers consume.
//
// # Overview
//
// A taxonomy edge list identifies nodes by label. When a label appears under
// two parents the structure is no longer a tree, and when rows disagree on
// direction (A→B in one row, B→A in another) it can even contain a cycle.
// [DAG] represents both: each node records the level at which its label was
// first seen, edges are deduplicated, [DAG.MultiParent] lists shared labels
// and [DAG.Validate] reports cycles.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "Apparel", Row: 0})
//	g.AddNode(dag.Node{ID: "Shoes", Row: 1})
//	g.AddEdge(dag.Edge{From: "Apparel", To: "Shoes"})
//
// Query the structure with [DAG.Children] and [DAG.Sources].
//
// # Ordering
//
// [DAG.Nodes], [DAG.Edges] and [DAG.Sources] all return insertion order, so
// a graph built from an edge list renders the same way every time.
//
// # Metadata
//
// Nodes carry [Metadata] maps. Taxonomy adapters store the aggregated weight
// under [MetaWeight] and the row count under [MetaRowCount].
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
package dag
