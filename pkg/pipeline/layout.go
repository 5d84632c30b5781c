package pipeline

import (
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/render"
	"github.com/matzehuels/taxotree/pkg/render/collapsible"
	"github.com/matzehuels/taxotree/pkg/render/treegraph"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// Layout is the serialisable output of the layout stage. Exactly one of
// Treegraph and Collapsible is set, matching Type.
type Layout struct {
	Type        render.Type             `json:"type"`
	Treegraph   *treegraph.Layout       `json:"treegraph,omitempty"`
	Collapsible *collapsible.Layout     `json:"collapsible,omitempty"`
	Transition  *collapsible.Transition `json:"transition,omitempty"`
}

// NodeCount returns the number of nodes drawn.
func (l Layout) NodeCount() int {
	switch {
	case l.Treegraph != nil:
		return len(l.Treegraph.Nodes)
	case l.Collapsible != nil:
		return len(l.Collapsible.Nodes)
	}
	return 0
}

// GenerateLayout lays out a hierarchy for the renderer opts selects.
func GenerateLayout(h *Hierarchy, opts Options) (Layout, error) {
	if opts.IsCollapsible() {
		return generateCollapsible(h.Tree, opts)
	}
	g, err := treegraph.FromEdges(h.Edges)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "tree graph")
	}
	tl := treegraph.Export(g, opts.Treegraph)
	if logger := opts.Logger; logger != nil {
		if tl.Cyclic {
			logger.Warn("rows disagree on label order, the tree graph contains a cycle")
		}
		if len(tl.Shared) > 0 {
			logger.Debug("labels drawn under several parents", "labels", tl.Shared)
		}
	}
	return Layout{Type: render.TypeTreegraph, Treegraph: &tl}, nil
}

// NewChart builds a collapsible chart in the initial state opts describes:
// fully expanded, or collapsed below CollapseDepth.
func NewChart(tree *taxonomy.TreeNode, opts Options) (*collapsible.Chart, error) {
	c, err := collapsible.NewChart(tree, opts.Chart)
	if err != nil {
		return nil, err
	}
	if opts.ExpandAll {
		c.ExpandAll()
	} else {
		c.CollapseBelow(opts.CollapseDepth)
	}
	return c, nil
}

// generateCollapsible applies the toggles in order. With Animate set, the
// returned transition is the one produced by the last toggle, or the initial
// entry animation when there are no toggles.
func generateCollapsible(tree *taxonomy.TreeNode, opts Options) (Layout, error) {
	c, err := NewChart(tree, opts)
	if err != nil {
		return Layout{}, err
	}

	out := Layout{Type: render.TypeCollapsible}
	if !opts.Animate {
		for _, key := range opts.Toggles {
			if err := c.Toggle(key); err != nil {
				return Layout{}, err
			}
		}
		cl := c.Layout()
		out.Collapsible = &cl
		return out, nil
	}

	tr, err := c.Update(taxonomy.RootID)
	if err != nil {
		return Layout{}, err
	}
	for _, key := range opts.Toggles {
		if err := c.Toggle(key); err != nil {
			return Layout{}, err
		}
		if tr, err = c.Update(key); err != nil {
			return Layout{}, err
		}
	}
	cl := tr.To
	out.Collapsible = &cl
	out.Transition = &tr
	return out, nil
}
