package treegraph

import (
	"encoding/json"
	"errors"

	"github.com/matzehuels/taxotree/pkg/dag"
)

// Layout is the serialisable form of a tree graph. Graphviz computes the
// positions at render time, so the layout carries the DOT source together
// with the resolved node styling.
type Layout struct {
	Type   string       `json:"type"`
	Title  string       `json:"title,omitempty"`
	Height int          `json:"height"`
	Engine string       `json:"engine"`
	DOT    string       `json:"dot"`
	Nodes  []LayoutNode `json:"nodes"`
	Edges  []LayoutEdge `json:"edges"`

	// Shared lists labels drawn under more than one parent.
	Shared []string `json:"shared,omitempty"`
	// Cyclic is set when rows disagree on direction, e.g. A→B and B→A.
	Cyclic bool `json:"cyclic,omitempty"`
}

// LayoutNode is one label of the tree graph.
type LayoutNode struct {
	ID       string  `json:"id"`
	Level    int     `json:"level"`
	Weight   float64 `json:"weight"`
	RowCount int     `json:"row_count"`
	Color    string  `json:"color"`
}

// LayoutEdge is one parent→child link. Root edges have an empty From.
type LayoutEdge struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}

// Export packages a graph and its DOT source into a [Layout].
func Export(g *dag.DAG, opts Options) Layout {
	opts = opts.WithDefaults()
	colors := resolveColors(g, opts)

	out := Layout{
		Type:   "treegraph",
		Title:  opts.Title,
		Height: opts.Height,
		Engine: "dot",
		DOT:    ToDOT(g, opts),
		Shared: g.MultiParent(),
		Cyclic: errors.Is(g.Validate(), dag.ErrGraphHasCycle),
	}
	for _, n := range g.Nodes() {
		rows, _ := n.Meta[dag.MetaRowCount].(int)
		out.Nodes = append(out.Nodes, LayoutNode{
			ID:       n.ID,
			Level:    n.Row,
			Weight:   n.Weight(),
			RowCount: rows,
			Color:    colors[n.ID].Hex(),
		})
	}
	for _, n := range g.Sources() {
		out.Edges = append(out.Edges, LayoutEdge{To: n.ID})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, LayoutEdge{From: e.From, To: e.To})
	}
	return out
}

// RenderJSON encodes a layout as indented JSON.
func RenderJSON(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
