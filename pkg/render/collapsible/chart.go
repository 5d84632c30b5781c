package collapsible

import (
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// node is the chart's view of a tree node. children holds the visible
// children; hidden holds the children of a collapsed node.
type node struct {
	tree     *taxonomy.TreeNode
	parent   *node
	children []*node
	hidden   []*node
	depth    int // 0 for the root
	id       int // assigned on first layout; 0 means unassigned
}

func (n *node) expanded() bool { return len(n.hidden) == 0 }

func (n *node) hasChildren() bool { return len(n.children) > 0 || len(n.hidden) > 0 }

// collapse hides the children of n and collapses them recursively.
func (n *node) collapse() {
	if len(n.children) == 0 {
		return
	}
	n.hidden = n.children
	n.children = nil
	for _, c := range n.hidden {
		c.collapse()
	}
}

// expand shows the hidden children of n. Their own state is unchanged.
func (n *node) expand() {
	if len(n.hidden) == 0 {
		return
	}
	n.children = n.hidden
	n.hidden = nil
}

// toggle alternates between expand and a non-recursive collapse, so that a
// second toggle restores the subtree exactly.
func (n *node) toggle() {
	if len(n.children) > 0 {
		n.hidden = n.children
		n.children = nil
		return
	}
	n.expand()
}

func (n *node) allChildren() []*node {
	if len(n.children) > 0 {
		return n.children
	}
	return n.hidden
}

// Chart is one collapsible tree instance. It owns the expand/collapse state,
// the node ID counter, and the positions of the previous layout.
//
// A Chart is not safe for concurrent use.
type Chart struct {
	cfg    Config
	root   *node
	byKey  map[string]*node
	nextID int
	prev   map[int]Point // node id -> previous position
	last   Layout
}

// NewChart creates a chart for tree with every node expanded. It returns
// [taxonomy.ErrEmptyInput] for a nil tree or a root without children.
func NewChart(tree *taxonomy.TreeNode, cfg Config) (*Chart, error) {
	if tree == nil || tree.IsLeaf() {
		return nil, taxonomy.ErrEmptyInput
	}
	c := &Chart{
		cfg:   cfg.WithDefaults(),
		byKey: make(map[string]*node),
		prev:  make(map[int]Point),
	}
	c.root = c.wrap(tree, nil, 0)
	return c, nil
}

func (c *Chart) wrap(t *taxonomy.TreeNode, parent *node, depth int) *node {
	n := &node{tree: t, parent: parent, depth: depth}
	c.byKey[t.ID] = n
	for _, child := range t.Children {
		n.children = append(n.children, c.wrap(child, n, depth+1))
	}
	return n
}

// Config returns the chart's effective configuration.
func (c *Chart) Config() Config { return c.cfg }

// Tree returns the wrapped tree.
func (c *Chart) Tree() *taxonomy.TreeNode { return c.root.tree }

func (c *Chart) lookup(key string) (*node, error) {
	n, ok := c.byKey[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no node with id %q", key)
	}
	return n, nil
}

// CollapseBelow collapses every node at chart depth >= depth, the root being
// depth 0. CollapseBelow(1) shows only the root's children, which is the
// initial state of the dashboard widget.
func (c *Chart) CollapseBelow(depth int) {
	var walk func(n *node)
	walk = func(n *node) {
		if n.depth >= depth {
			n.collapse()
			return
		}
		for _, ch := range n.allChildren() {
			walk(ch)
		}
	}
	walk(c.root)
}

// ExpandAll shows every node.
func (c *Chart) ExpandAll() {
	var walk func(n *node)
	walk = func(n *node) {
		n.expand()
		for _, ch := range n.children {
			walk(ch)
		}
	}
	walk(c.root)
}

// Toggle collapses an expanded node or expands a collapsed one. key is the
// node's [taxonomy.TreeNode] ID. Toggling a leaf is a no-op.
func (c *Chart) Toggle(key string) error {
	n, err := c.lookup(key)
	if err != nil {
		return err
	}
	n.toggle()
	return nil
}

// Expand shows the hidden children of the node with the given key.
func (c *Chart) Expand(key string) error {
	n, err := c.lookup(key)
	if err != nil {
		return err
	}
	n.expand()
	return nil
}

// Collapse hides the children of the node with the given key and collapses
// its subtree.
func (c *Chart) Collapse(key string) error {
	n, err := c.lookup(key)
	if err != nil {
		return err
	}
	n.collapse()
	return nil
}

// IsExpanded reports whether the node with the given key shows its children.
// Leaves count as expanded.
func (c *Chart) IsExpanded(key string) (bool, error) {
	n, err := c.lookup(key)
	if err != nil {
		return false, err
	}
	return n.expanded(), nil
}

// Visible returns the keys of the visible nodes in depth-first order.
func (c *Chart) Visible() []string {
	var out []string
	var walk func(n *node)
	walk = func(n *node) {
		out = append(out, n.tree.ID)
		for _, ch := range n.children {
			walk(ch)
		}
	}
	walk(c.root)
	return out
}

// assignID gives n an ID on first layout.
func (c *Chart) assignID(n *node) int {
	if n.id == 0 {
		c.nextID++
		n.id = c.nextID
	}
	return n.id
}
