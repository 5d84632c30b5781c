// Package collapsible renders a nested taxonomy tree as a horizontal
// node-link tree whose nodes expand and collapse.
//
// # Overview
//
// A [Chart] wraps a [taxonomy.TreeNode] and owns every piece of interaction
// state: which nodes are expanded, the hidden children of collapsed nodes,
// the node ID counter, and the positions of the previous layout. Nothing is
// kept in package-level variables, so any number of charts can coexist.
//
//	tree, _ := taxonomy.BuildNestedTree(rows)
//	c, _ := collapsible.NewChart(tree, collapsible.DefaultConfig())
//	c.CollapseBelow(1)                 // only the root's children are shown
//	tr := c.Update(taxonomy.RootID)     // first layout, entering from the root
//	svg := collapsible.RenderSVG(tr.To, collapsible.WithTransition(tr))
//
// # Expand and Collapse
//
// Collapsing a node moves its children into a hidden slot and collapsing is
// applied to the whole subtree; expanding moves them back unchanged.
// [Chart.Toggle] alternates between the two, so toggling twice restores the
// previous layout.
//
// # Layout
//
// [Chart.Layout] places visible nodes with y = depth × DepthSpacing. Leaves
// are spread evenly over TreeHeight in depth-first order, and every parent is
// centred on its visible children. Nodes with hidden children are filled
// with NodeColorWithChildren, all others with NodeColorEmpty.
//
// # Transitions
//
// [Chart.Update] diffs the new layout against the previous one. Entering nodes
// start at the source node's previous position; exiting nodes shrink into the
// source node's new position. [Transition.At] interpolates linearly and
// [Transition.Frames] samples it. Links are cubic Bezier curves, see
// [LinkPath].
//
// # Output
//
// [RenderSVG] writes the layout as SVG, optionally with SMIL animations for a
// transition and a click-to-toggle script. [RenderJSON] writes it as JSON,
// optionally with sampled frames. [RenderMessageSVG] renders a plain message
// in place of a chart, for empty input and render failures.
//
// # Concurrency
//
// A Chart is not safe for concurrent use. Layouts and transitions are plain
// values and can be shared once produced.
package collapsible
