package taxonomy

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
)

// Edge is a directed parent→child pair in the edge list. A synthetic root edge
// has an empty Parent and encodes it as JSON null.
type Edge struct {
	Parent string
	Child  string
}

// IsRoot reports whether e is a synthetic root edge.
func (e Edge) IsRoot() bool { return e.Parent == "" }

// String returns "(parent, child)" with "undefined" for root edges.
func (e Edge) String() string {
	p := e.Parent
	if e.IsRoot() {
		p = "undefined"
	}
	return fmt.Sprintf("(%s, %s)", p, e.Child)
}

type edgeJSON struct {
	Parent *string `json:"parent"`
	Child  string  `json:"child"`
}

// MarshalJSON encodes the edge as {"parent": ..., "child": ...}.
func (e Edge) MarshalJSON() ([]byte, error) {
	out := edgeJSON{Child: e.Child}
	if !e.IsRoot() {
		out.Parent = &e.Parent
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var in edgeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.Child = in.Child
	e.Parent = ""
	if in.Parent != nil {
		e.Parent = *in.Parent
	}
	return nil
}

// EdgeList is the output of [BuildEdges].
type EdgeList struct {
	// Edges holds root edges first, then parent→child edges, each group in
	// first-encountered order. No (parent, child) pair appears twice.
	Edges []Edge `json:"edges"`

	// Nodes lists every label in first-encountered order.
	Nodes []string `json:"nodes"`

	// Stats holds the accumulated weight sum and row count per label.
	Stats map[string]NodeStats `json:"stats"`

	// Depths holds the level at which each label was first seen.
	Depths map[string]int `json:"depths"`

	// Ambiguous maps labels that occur under more than one parent to those
	// parents, in first-encountered order.
	Ambiguous map[string][]string `json:"ambiguous,omitempty"`
}

// Weights returns the weight sum per label.
func (l *EdgeList) Weights() map[string]float64 {
	out := make(map[string]float64, len(l.Stats))
	for k, s := range l.Stats {
		out[k] = s.WeightSum
	}
	return out
}

// Roots returns the labels that never appear as a child, in edge order.
func (l *EdgeList) Roots() []string {
	var roots []string
	for _, e := range l.Edges {
		if e.IsRoot() {
			roots = append(roots, e.Child)
		}
	}
	return roots
}

// Children returns the child labels of parent, in edge order.
func (l *EdgeList) Children(parent string) []string {
	var out []string
	for _, e := range l.Edges {
		if !e.IsRoot() && e.Parent == parent {
			out = append(out, e.Child)
		}
	}
	return out
}

// BuildOption configures [BuildEdges].
type BuildOption func(*buildConfig)

type buildConfig struct {
	strict bool
}

// WithStrict makes BuildEdges fail with an AMBIGUOUS_PARENT error when a label
// occurs under more than one parent.
func WithStrict() BuildOption { return func(c *buildConfig) { c.strict = true } }

// BuildEdges folds rows into a deduplicated edge list.
//
// For every row, each reachable label is added to the node set and the row's
// weight is added to that label's sum. Each adjacent pair (L(k-1), L(k)) is
// recorded once. Labels that are never a child get a synthetic root edge; root
// edges come first. A label repeated within one row is counted once for that
// row, and a label is never its own parent.
//
// BuildEdges never fails on data shape: an empty batch yields an empty list.
// It only returns an error under [WithStrict].
func BuildEdges(rows []Row, opts ...BuildOption) (*EdgeList, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	out := &EdgeList{
		Stats:  make(map[string]NodeStats),
		Depths: make(map[string]int),
	}
	type pair struct{ parent, child string }
	seenEdge := make(map[pair]bool)
	isChild := make(map[string]bool)
	parents := make(map[string][]string)
	var links []Edge

	for _, row := range rows {
		path := row.Path()
		touched := make(map[string]bool, len(path))
		for k, label := range path {
			if _, ok := out.Stats[label]; !ok {
				out.Nodes = append(out.Nodes, label)
				out.Depths[label] = k
			}
			if !touched[label] {
				touched[label] = true
				s := out.Stats[label]
				s.add(row.Weight)
				out.Stats[label] = s
			}
			if k == 0 {
				continue
			}
			p := pair{parent: path[k-1], child: label}
			if p.parent == p.child || seenEdge[p] {
				continue
			}
			seenEdge[p] = true
			isChild[label] = true
			parents[label] = append(parents[label], p.parent)
			links = append(links, Edge{Parent: p.parent, Child: p.child})
		}
	}

	for _, label := range out.Nodes {
		if !isChild[label] {
			out.Edges = append(out.Edges, Edge{Child: label})
		}
	}
	out.Edges = append(out.Edges, links...)

	for _, label := range out.Nodes {
		if ps := parents[label]; len(ps) > 1 {
			if out.Ambiguous == nil {
				out.Ambiguous = make(map[string][]string)
			}
			out.Ambiguous[label] = ps
		}
	}

	if cfg.strict && len(out.Ambiguous) > 0 {
		labels := make([]string, 0, len(out.Ambiguous))
		for l := range out.Ambiguous {
			labels = append(labels, l)
		}
		slices.Sort(labels)
		return nil, errors.New(errors.ErrCodeAmbiguousParent,
			"labels with more than one parent: %s", strings.Join(labels, ", "))
	}
	return out, nil
}
