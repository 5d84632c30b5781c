// Package render holds what both taxonomy renderers share.
//
// # Renderers
//
// Two renderers draw a taxonomy:
//
//   - [treegraph]: the declarative variant. The deduplicated edge list becomes
//     a Graphviz graph with per-level colours, laid out by Graphviz itself.
//   - [collapsible]: the hand-rolled variant. The nested tree is laid out as a
//     horizontal node-link tree whose nodes expand and collapse, with linear
//     transitions and cubic Bezier links.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := r.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// Both return [ErrConverterMissing] when the tool is not installed.
//
// # Formats
//
// [Format] names the artifact formats the CLI and the HTTP host accept; see
// [ParseFormat].
//
// [treegraph]: github.com/matzehuels/taxotree/pkg/render/treegraph
// [collapsible]: github.com/matzehuels/taxotree/pkg/render/collapsible
package render
