package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the same
	// ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdge is returned by [DAG.AddEdge] when the same From→To pair
	// was already added.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// Label identity lets a taxonomy such as A→B, B→A form one.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes.
// Taxonomy graphs use it for the aggregated weight and row count of a label.
type Metadata map[string]any

// Well-known metadata keys set by taxonomy adapters.
const (
	MetaWeight   = "weight"
	MetaRowCount = "row_count"
)

// Node is a vertex with an assigned row: the hierarchy level at which its
// label was first seen.
type Node struct {
	ID   string   // Unique identifier (also used as display label)
	Row  int      // Level assignment (0 = top level)
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Weight returns the MetaWeight value of the node, or 0.
func (n Node) Weight() float64 {
	w, _ := n.Meta[MetaWeight].(float64)
	return w
}

// Edge is a directed parent→child connection.
type Edge struct {
	From string
	To   string
}

// DAG is a directed graph of taxonomy labels. Unlike a pure tree it
// allows a node to have several parents, which is how an ambiguous taxonomy
// label looks under label identity.
//
// Nodes and edges are kept in insertion order so renderers are deterministic.
// The zero value is not usable; use New. DAG is not safe for concurrent use.
type DAG struct {
	order    []string
	nodes    map[string]*Node
	edges    []Edge
	seen     map[Edge]bool
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		seen:     make(map[Edge]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Each From→To pair
// may be added once.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if d.seen[e] {
		return ErrDuplicateEdge
	}
	d.seen[e] = true
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Nodes returns all nodes in insertion order. The pointers refer to the nodes
// stored in the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// Children returns the IDs of the node's children, read-only.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// MultiParent returns the IDs of nodes with more than one parent, in insertion
// order.
func (d *DAG) MultiParent() []string {
	var out []string
	for _, id := range d.order {
		if len(d.incoming[id]) > 1 {
			out = append(out, id)
		}
	}
	return out
}

// Validate returns ErrGraphHasCycle if the graph contains a directed cycle.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
