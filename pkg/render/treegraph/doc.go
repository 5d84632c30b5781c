// Package treegraph renders a taxonomy edge list as a tree graph using
// Graphviz.
//
// # Overview
//
// This is the declarative renderer: the edge list from
// [taxonomy.BuildEdges] is handed to Graphviz, which lays out and draws the
// tree. The package only decides what the chart looks like:
//
//   - Left-to-right layout with the title "Taxonomy Tree" on top
//   - Circle markers with a white fill and a coloured outline
//   - A label per node with its name and formatted weight
//   - Per-level colours: roots share one colour, each level-2 node takes the
//     next palette colour, and levels 3 and 4 vary the brightness of their
//     parent's colour (darker at level 3, lighter at level 4)
//
// # Usage
//
//	l, _ := taxonomy.BuildEdges(rows)
//	g, _ := treegraph.FromEdges(l)
//	dot := treegraph.ToDOT(g, treegraph.DefaultOptions())
//
//	r := treegraph.NewRenderer()
//	if err := r.Init(ctx); err != nil { ... }
//	defer r.Close()
//	svg, err := r.RenderSVG(ctx, dot)
//
// # Initialisation
//
// The Graphviz engine is created by [Renderer.Init], never when the package is
// imported. Hosts call Init once at startup and reuse the renderer; rendering
// before Init returns [ErrNotInitialized]. A Renderer serialises access to the
// engine and is safe for concurrent use.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering and [github.com/lucasb-eyer/go-colorful] for colour variation.
// PDF and PNG conversion requires librsvg (rsvg-convert).
package treegraph
