package collapsible

import "github.com/matzehuels/taxotree/pkg/taxonomy"

// Layout is a positioned snapshot of the visible part of a chart.
type Layout struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Margin Margin       `json:"margin"`
	Radius float64      `json:"radius"`
	Nodes  []LayoutNode `json:"nodes"`
	Links  []LayoutLink `json:"links"`
}

// LayoutNode is one visible node.
type LayoutNode struct {
	ID          int     `json:"id"`
	Key         string  `json:"key"`
	ParentID    int     `json:"parent_id,omitempty"`
	Name        string  `json:"name"`
	Depth       int     `json:"depth"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Weight      float64 `json:"weight"`
	RowCount    int     `json:"row_count"`
	Label       string  `json:"label"`
	Fill        string  `json:"fill"`
	HasChildren bool    `json:"has_children"`
	Collapsed   bool    `json:"collapsed"`
}

// Pos returns the node's position.
func (n LayoutNode) Pos() Point { return Point{X: n.X, Y: n.Y} }

// LayoutLink connects a visible node to its visible parent.
type LayoutLink struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Path   string `json:"path"`
}

// Node returns the node with the given ID.
func (l Layout) Node(id int) (LayoutNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return LayoutNode{}, false
}

// NodeByKey returns the node with the given tree ID.
func (l Layout) NodeByKey(key string) (LayoutNode, bool) {
	for _, n := range l.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return LayoutNode{}, false
}

// Layout positions the visible nodes. Nodes get their ID on their first
// layout, so IDs follow the order in which nodes first became visible.
func (c *Chart) Layout() Layout {
	visible := c.visibleNodes()

	leaves := 0
	maxDepth := 0
	for _, n := range visible {
		if len(n.children) == 0 {
			leaves++
		}
		maxDepth = max(maxDepth, n.depth)
	}

	pos := make(map[*node]Point, len(visible))
	slot := 0
	step := c.cfg.TreeHeight / float64(max(leaves, 1))
	var place func(n *node) Point
	place = func(n *node) Point {
		p := Point{Y: float64(n.depth) * c.cfg.DepthSpacing}
		if len(n.children) == 0 {
			p.X = (float64(slot) + 0.5) * step
			slot++
		} else {
			first := place(n.children[0])
			last := first
			for _, ch := range n.children[1:] {
				last = place(ch)
			}
			p.X = (first.X + last.X) / 2
		}
		pos[n] = p
		return p
	}
	place(c.root)

	m := c.cfg.Margin
	out := Layout{
		Width:  max(c.cfg.Width, m.Left+float64(maxDepth)*c.cfg.DepthSpacing+m.Right),
		Height: c.cfg.TreeHeight + m.Top + m.Bottom,
		Margin: m,
		Radius: c.cfg.NodeRadius,
	}
	for _, n := range visible {
		id := c.assignID(n)
		p := pos[n]
		ln := LayoutNode{
			ID:          id,
			Key:         n.tree.ID,
			Name:        n.tree.Name,
			Depth:       n.depth,
			X:           p.X,
			Y:           p.Y,
			Weight:      n.tree.Data.WeightSum,
			RowCount:    n.tree.Data.RowCount,
			Label:       taxonomy.FormatMetric(n.tree.Data.WeightSum),
			Fill:        c.cfg.NodeColorEmpty,
			HasChildren: n.hasChildren(),
			Collapsed:   len(n.hidden) > 0,
		}
		if ln.Collapsed {
			ln.Fill = c.cfg.NodeColorWithChildren
		}
		if n.parent != nil {
			ln.ParentID = n.parent.id
			out.Links = append(out.Links, LayoutLink{
				Source: n.parent.id,
				Target: id,
				Path:   LinkPath(pos[n.parent], p),
			})
		}
		out.Nodes = append(out.Nodes, ln)
	}
	return out
}

// visibleNodes returns the visible nodes in depth-first order, parents first.
func (c *Chart) visibleNodes() []*node {
	var out []*node
	var walk func(n *node)
	walk = func(n *node) {
		out = append(out, n)
		for _, ch := range n.children {
			walk(ch)
		}
	}
	walk(c.root)
	return out
}
