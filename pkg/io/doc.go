// Package io reads taxonomy rows from files and writes builder output.
//
// # Input Formats
//
// Two row formats are supported, selected by file extension or explicitly
// with [ReadRowsFrom]:
//
//   - host JSON (.json): the dashboard host's row array, where every cell is
//     keyed "<dataset>.<field>" and wrapped as {"value": ...}:
//
//     [
//     {"local_mi_base_rank.l0": {"value": "Apparel"},
//     "local_mi_base_rank.l1": {"value": "Shoes"},
//     "local_mi_base_rank.global_monthly_search": {"value": 1200}}
//     ]
//
//   - CSV (.csv): a header row naming the level and metric columns, either
//     bare ("l0") or dataset-qualified ("local_mi_base_rank.l0"):
//
//     l0,l1,l2,l3,global_monthly_search
//     Apparel,Shoes,,,1200
//
// Both readers apply the same permissive rules as [taxonomy.DecodeHostRows]:
// labels are trimmed, levels after a gap are dropped, and malformed weights
// become zero. What was coerced is returned in a [taxonomy.IngestReport].
//
// # Output
//
// [WriteEdgesJSON] and [WriteTreeJSON] encode builder output as indented
// JSON; [ExportJSON] writes either to a file. [ReadTreeJSON] reads a tree
// written by WriteTreeJSON back.
//
// # Concurrency
//
// All functions are safe for concurrent use; none retain their arguments.
package io
