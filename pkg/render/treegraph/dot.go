package treegraph

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/taxotree/pkg/dag"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// DefaultTitle is the chart title.
const DefaultTitle = "Taxonomy Tree"

// Options configures tree graph generation.
type Options struct {
	Title        string   // Chart title; empty hides it
	Height       int      // Chart height in pixels
	MarkerRadius float64  // Marker radius in pixels
	MarkerFill   string   // Marker fill colour
	BaseColor    string   // Colour of level-1 nodes
	Palette      []string // Colour-by-point palette for level 2
	HideMetric   bool     // Label nodes with their name only
}

// DefaultOptions returns the default chart look.
func DefaultOptions() Options {
	return Options{
		Title:        DefaultTitle,
		Height:       600,
		MarkerRadius: 6,
		MarkerFill:   "#ffffff",
		BaseColor:    DefaultPalette[0],
		Palette:      DefaultPalette,
	}
}

// WithDefaults fills unset sizes and colours from DefaultOptions. The title
// is left alone.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.MarkerRadius <= 0 {
		o.MarkerRadius = d.MarkerRadius
	}
	if o.MarkerFill == "" {
		o.MarkerFill = d.MarkerFill
	}
	if o.BaseColor == "" {
		o.BaseColor = d.BaseColor
	}
	if len(o.Palette) == 0 {
		o.Palette = d.Palette
	}
	return o
}

// Validate reports an INVALID_CONFIG error for unparsable colours.
func (o Options) Validate() error {
	o = o.WithDefaults()
	for _, h := range append([]string{o.MarkerFill, o.BaseColor}, o.Palette...) {
		if _, err := colorful.Hex(h); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid colour %q", h)
		}
	}
	return nil
}

// pixelsPerInch is the Graphviz unit conversion.
const pixelsPerInch = 72.0

// ToDOT converts a taxonomy graph to Graphviz DOT source. Invalid colours in
// opts fall back to the defaults; call [Options.Validate] to reject them.
func ToDOT(g *dag.DAG, opts Options) string {
	opts = opts.WithDefaults()
	colors := resolveColors(g, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.15;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=18;\n", opts.Title)
	}
	diameter := 2 * opts.MarkerRadius / pixelsPerInch
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%.3f, style=filled, fillcolor=%q, penwidth=2, label=\"\", fontsize=11];\n",
		diameter, opts.MarkerFill)
	buf.WriteString("  edge [arrowhead=none, penwidth=1.2];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(*n, colors[n.ID], opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", e.From, e.To, colors[e.To].Hex())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, hideMetric bool) string {
	if hideMetric {
		return n.ID
	}
	return fmt.Sprintf("%s (%s)", n.ID, taxonomy.FormatMetric(n.Weight()))
}

func fmtTooltip(n dag.Node) string {
	rows, _ := n.Meta[dag.MetaRowCount].(int)
	return fmt.Sprintf("%s: %s, %d rows", n.ID, taxonomy.FormatMetric(n.Weight()), rows)
}

func fmtAttrs(n dag.Node, c colorful.Color, opts Options) []string {
	return []string{
		fmt.Sprintf("xlabel=%q", fmtLabel(n, opts.HideMetric)),
		fmt.Sprintf("tooltip=%q", fmtTooltip(n)),
		fmt.Sprintf("color=%q", c.Hex()),
	}
}
