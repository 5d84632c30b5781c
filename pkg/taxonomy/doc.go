// Package taxonomy folds flat category rows into hierarchy structures.
//
// # Overview
//
// A taxonomy row carries up to [MaxLevels] ordered category labels (L0..L3) and
// one numeric weight, typically a search-volume metric. This package converts a
// batch of rows into the two shapes renderers consume:
//
//   - [BuildEdges]: a deduplicated parent/child edge list for edge-driven
//     renderers, preceded by synthetic root edges for every label that never
//     appears as a child.
//   - [BuildNestedTree]: a recursive [TreeNode] structure wrapped in a synthetic
//     root, for recursive renderers.
//
// Both builders accumulate the weight sum and row count of every node they visit.
// Every call starts from scratch; nothing is retained between batches.
//
// # Node Identity
//
// In the edge list a node is identified by its label. If the same label appears
// under two different parents, both edges are kept and the label is reported in
// [EdgeList.Ambiguous]; [WithStrict] turns that situation into an error.
//
// In the nested tree a node is identified by its path from the root, so equal
// labels under different parents stay distinct. [TreeNode.ID] holds the path.
//
// # Ingestion
//
// Rows arrive from a dashboard host as objects keyed by "<dataset>.<field>" with
// each cell wrapped as {"value": scalar}. [DecodeHostRows] validates that shape
// once against a [Schema] and yields typed [Row] values. Malformed scalars are
// treated as absent (labels) or zero (weights) rather than failing the batch.
//
// # Formatting
//
// [FormatMetric] renders weights the way the charts label them: "2.5M", "2K", "999".
package taxonomy
