package taxonomy

import "strings"

// RootID is the ID of the synthetic root node of a nested tree.
const RootID = "/"

// RootName is the display name of the synthetic root node.
const RootName = "root"

// TreeNode is one node of the nested tree produced by [BuildNestedTree].
//
// The synthetic root has Depth -1 and wraps the L0 nodes, which have Depth 0.
// ID is the escaped path from the root ("/Apparel/Shoes"); it is unique even
// when labels repeat under different parents.
type TreeNode struct {
	Name     string      `json:"name"`
	ID       string      `json:"id"`
	Depth    int         `json:"depth"`
	Data     NodeStats   `json:"data"`
	Children []*TreeNode `json:"children,omitempty"`
}

// IsRoot reports whether n is the synthetic root.
func (n *TreeNode) IsRoot() bool { return n.ID == RootID }

// IsLeaf reports whether n has no children.
func (n *TreeNode) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants depth-first in child order. Returning false
// from fn skips the node's subtree.
func (n *TreeNode) Walk(fn func(*TreeNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the node with the given ID, or nil.
func (n *TreeNode) Find(id string) *TreeNode {
	var found *TreeNode
	n.Walk(func(c *TreeNode) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// NodeCount returns the number of nodes in the subtree rooted at n, n included.
func (n *TreeNode) NodeCount() int {
	count := 0
	n.Walk(func(*TreeNode) bool { count++; return true })
	return count
}

// Leaves returns the leaf nodes of the subtree in depth-first order.
func (n *TreeNode) Leaves() []*TreeNode {
	var out []*TreeNode
	n.Walk(func(c *TreeNode) bool {
		if c.IsLeaf() {
			out = append(out, c)
		}
		return true
	})
	return out
}

var idEscaper = strings.NewReplacer("%", "%25", "/", "%2F")

// ChildID returns the ID of a child labelled label under the node parentID.
func ChildID(parentID, label string) string {
	if parentID == RootID {
		return RootID + idEscaper.Replace(label)
	}
	return parentID + "/" + idEscaper.Replace(label)
}

// levelNode is the keyed mapping built before conversion to TreeNode. Keys keep
// insertion order so the output follows first-seen row order.
type levelNode struct {
	stats    NodeStats
	keys     []string
	children map[string]*levelNode
}

func newLevelNode() *levelNode {
	return &levelNode{children: make(map[string]*levelNode)}
}

func (n *levelNode) child(label string) *levelNode {
	c, ok := n.children[label]
	if !ok {
		c = newLevelNode()
		n.children[label] = c
		n.keys = append(n.keys, label)
	}
	return c
}

// BuildNestedTree folds rows into a nested tree under a synthetic root.
//
// At every level the label keys a child mapping whose weight sum and row count
// accumulate exactly as in [BuildEdges]. The mapping is then converted
// depth-first into [TreeNode] values, children in first-seen order. The root
// aggregates every row that reaches level 0.
//
// BuildNestedTree returns [ErrEmptyInput] if rows is empty or no row has an L0.
func BuildNestedTree(rows []Row) (*TreeNode, error) {
	root := newLevelNode()
	for _, row := range rows {
		path := row.Path()
		if len(path) == 0 {
			continue
		}
		root.stats.add(row.Weight)
		cur := root
		for _, label := range path {
			cur = cur.child(label)
			cur.stats.add(row.Weight)
		}
	}
	if len(root.keys) == 0 {
		return nil, ErrEmptyInput
	}
	return convert(root, RootName, RootID, -1), nil
}

func convert(n *levelNode, name, id string, depth int) *TreeNode {
	out := &TreeNode{Name: name, ID: id, Depth: depth, Data: n.stats}
	if len(n.keys) > 0 {
		out.Children = make([]*TreeNode, 0, len(n.keys))
	}
	for _, k := range n.keys {
		out.Children = append(out.Children, convert(n.children[k], k, ChildID(id, k), depth+1))
	}
	return out
}
