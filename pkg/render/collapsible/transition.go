package collapsible

import (
	"time"
)

// State classifies a node or link in a transition.
type State string

// Transition states.
const (
	StateEnter  State = "enter"
	StateUpdate State = "update"
	StateExit   State = "exit"
)

// tiny stands in for zero radius and opacity, which some SVG viewers refuse
// to animate from.
const tiny = 1e-6

// NodeTransition moves one node between two layouts.
type NodeTransition struct {
	Node        LayoutNode `json:"node"`
	State       State      `json:"state"`
	From        Point      `json:"from"`
	To          Point      `json:"to"`
	FromRadius  float64    `json:"from_radius"`
	ToRadius    float64    `json:"to_radius"`
	FromOpacity float64    `json:"from_opacity"`
	ToOpacity   float64    `json:"to_opacity"`
}

// LinkTransition moves one link between two layouts. S is the parent end and
// D the child end.
type LinkTransition struct {
	Source int   `json:"source"`
	Target int   `json:"target"`
	State  State `json:"state"`
	FromS  Point `json:"from_s"`
	FromD  Point `json:"from_d"`
	ToS    Point `json:"to_s"`
	ToD    Point `json:"to_d"`
}

// Transition is the animated change between two layouts of a chart.
type Transition struct {
	Source   string           `json:"source"`
	Duration time.Duration    `json:"duration"`
	To       Layout           `json:"-"`
	Nodes    []NodeTransition `json:"nodes"`
	Links    []LinkTransition `json:"links"`
}

// Frame is a transition sampled at one point in time.
type Frame struct {
	T     float64     `json:"t"`
	Nodes []FrameNode `json:"nodes"`
	Links []FrameLink `json:"links"`
}

// FrameNode is a node's interpolated state.
type FrameNode struct {
	ID      int     `json:"id"`
	Key     string  `json:"key"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
}

// FrameLink is a link's interpolated path.
type FrameLink struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Path   string `json:"path"`
}

// Update lays the chart out again and returns the transition from the
// previous layout, animated around the node with the given key (usually the
// node that was just toggled). Entering nodes and links grow out of the
// source's previous position; exiting ones shrink into its new position. On
// the first call every node enters from the middle of the left edge.
func (c *Chart) Update(sourceKey string) (Transition, error) {
	src, err := c.lookup(sourceKey)
	if err != nil {
		return Transition{}, err
	}

	origin := c.previousPosition(src)
	last := c.last
	next := c.Layout()
	target := newPosition(next, src)

	tr := Transition{Source: sourceKey, Duration: c.cfg.Duration, To: next}
	inNext := make(map[int]bool, len(next.Nodes))
	r := next.Radius

	for _, n := range next.Nodes {
		inNext[n.ID] = true
		if p, ok := c.prev[n.ID]; ok {
			tr.Nodes = append(tr.Nodes, NodeTransition{
				Node: n, State: StateUpdate, From: p, To: n.Pos(),
				FromRadius: r, ToRadius: r, FromOpacity: 1, ToOpacity: 1,
			})
			continue
		}
		tr.Nodes = append(tr.Nodes, NodeTransition{
			Node: n, State: StateEnter, From: origin, To: n.Pos(),
			FromRadius: tiny, ToRadius: r, FromOpacity: tiny, ToOpacity: 1,
		})
	}
	for _, n := range last.Nodes {
		if inNext[n.ID] {
			continue
		}
		tr.Nodes = append(tr.Nodes, NodeTransition{
			Node: n, State: StateExit, From: c.prev[n.ID], To: target,
			FromRadius: r, ToRadius: tiny, FromOpacity: 1, ToOpacity: tiny,
		})
	}

	for _, l := range next.Links {
		s, d := mustPos(next, l.Source), mustPos(next, l.Target)
		ps, okS := c.prev[l.Source]
		pd, okD := c.prev[l.Target]
		if okS && okD {
			tr.Links = append(tr.Links, LinkTransition{
				Source: l.Source, Target: l.Target, State: StateUpdate,
				FromS: ps, FromD: pd, ToS: s, ToD: d,
			})
			continue
		}
		tr.Links = append(tr.Links, LinkTransition{
			Source: l.Source, Target: l.Target, State: StateEnter,
			FromS: origin, FromD: origin, ToS: s, ToD: d,
		})
	}
	for _, l := range last.Links {
		if inNext[l.Target] {
			continue
		}
		tr.Links = append(tr.Links, LinkTransition{
			Source: l.Source, Target: l.Target, State: StateExit,
			FromS: c.prev[l.Source], FromD: c.prev[l.Target], ToS: target, ToD: target,
		})
	}

	c.prev = make(map[int]Point, len(next.Nodes))
	for _, n := range next.Nodes {
		c.prev[n.ID] = n.Pos()
	}
	c.last = next
	return tr, nil
}

// previousPosition returns where src (or its nearest ancestor) was drawn last
// time, or the middle of the left edge if nothing was drawn yet.
func (c *Chart) previousPosition(src *node) Point {
	for n := src; n != nil; n = n.parent {
		if p, ok := c.prev[n.id]; ok {
			return p
		}
	}
	return Point{X: c.cfg.TreeHeight / 2, Y: 0}
}

// newPosition returns the position of src, or of its nearest visible ancestor,
// in l.
func newPosition(l Layout, src *node) Point {
	for n := src; n != nil; n = n.parent {
		if n.id == 0 {
			continue
		}
		if ln, ok := l.Node(n.id); ok {
			return ln.Pos()
		}
	}
	return Point{}
}

func mustPos(l Layout, id int) Point {
	n, _ := l.Node(id)
	return n.Pos()
}

// At interpolates the transition linearly at t, clamped to [0, 1]. Exiting
// nodes and links are dropped at t = 1.
func (tr Transition) At(t float64) Frame {
	t = max(0, min(1, t))
	f := Frame{T: t}
	for _, n := range tr.Nodes {
		if t == 1 && n.State == StateExit {
			continue
		}
		p := n.From.lerp(n.To, t)
		f.Nodes = append(f.Nodes, FrameNode{
			ID:      n.Node.ID,
			Key:     n.Node.Key,
			X:       p.X,
			Y:       p.Y,
			Radius:  lerp(n.FromRadius, n.ToRadius, t),
			Opacity: lerp(n.FromOpacity, n.ToOpacity, t),
		})
	}
	for _, l := range tr.Links {
		if t == 1 && l.State == StateExit {
			continue
		}
		f.Links = append(f.Links, FrameLink{
			Source: l.Source,
			Target: l.Target,
			Path:   LinkPath(l.FromS.lerp(l.ToS, t), l.FromD.lerp(l.ToD, t)),
		})
	}
	return f
}

// Frames samples n evenly spaced frames from t = 0 to t = 1. A single frame
// is the end state.
func (tr Transition) Frames(n int) []Frame {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []Frame{tr.At(1)}
	}
	frames := make([]Frame, n)
	for i := range n {
		frames[i] = tr.At(float64(i) / float64(n-1))
	}
	return frames
}
