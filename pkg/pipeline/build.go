package pipeline

import (
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Hierarchy is the output of the build stage: both shapes of the taxonomy,
// built from the same rows.
type Hierarchy struct {
	Edges *taxonomy.EdgeList `json:"edges"`
	Tree  *taxonomy.TreeNode `json:"tree"`
}

// Build folds rows into a [Hierarchy]. Rows without an L0 label are ignored;
// if none remain, Build returns [taxonomy.ErrEmptyInput].
func Build(rows []taxonomy.Row, opts Options) (*Hierarchy, error) {
	var buildOpts []taxonomy.BuildOption
	if opts.Strict {
		buildOpts = append(buildOpts, taxonomy.WithStrict())
	}
	edges, err := taxonomy.BuildEdges(rows, buildOpts...)
	if err != nil {
		return nil, err
	}
	if len(edges.Nodes) == 0 {
		return nil, taxonomy.ErrEmptyInput
	}
	tree, err := taxonomy.BuildNestedTree(rows)
	if err != nil {
		return nil, err
	}
	return &Hierarchy{Edges: edges, Tree: tree}, nil
}
