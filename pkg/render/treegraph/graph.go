package treegraph

import (
	"fmt"

	"github.com/matzehuels/taxotree/pkg/dag"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// FromEdges converts an edge list into a graph. Each label becomes a node in
// the row of the level where it was first seen, carrying its weight and row
// count as metadata. Root edges contribute no graph edge; their labels are the
// graph's sources.
func FromEdges(l *taxonomy.EdgeList) (*dag.DAG, error) {
	g := dag.New()
	for _, label := range l.Nodes {
		s := l.Stats[label]
		err := g.AddNode(dag.Node{
			ID:  label,
			Row: l.Depths[label],
			Meta: dag.Metadata{
				dag.MetaWeight:   s.WeightSum,
				dag.MetaRowCount: s.RowCount,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", label, err)
		}
	}
	for _, e := range l.Edges {
		if e.IsRoot() {
			continue
		}
		if err := g.AddEdge(dag.Edge{From: e.Parent, To: e.Child}); err != nil {
			return nil, fmt.Errorf("edge %q -> %q: %w", e.Parent, e.Child, err)
		}
	}
	return g, nil
}
