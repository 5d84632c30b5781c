package collapsible

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
)

const (
	linkStroke = "#ccc"
	nodeStroke = "#36c1b3"
	labelGap   = 10
)

const nodeInteractionCSS = `
    .node { cursor: pointer; }
    .node text { font: 11px sans-serif; paint-order: stroke; stroke: #fff; stroke-width: 3px; }
    .link { fill: none; stroke: ` + linkStroke + `; stroke-width: 1.5px; }`

// The script collapses and re-expands the nodes drawn in the SVG. Subtrees
// that were already collapsed at render time are not part of the document.
const nodeInteractionJS = `
    var fillWith = %s, fillEmpty = %s;
    function parentOf(el) { return el.getAttribute('data-parent'); }
    function hiddenByAncestor(el) {
      for (var p = parentOf(el); p; ) {
        var pe = document.getElementById('node-' + p);
        if (!pe) break;
        if (pe.classList.contains('collapsed')) return true;
        p = parentOf(pe);
      }
      return false;
    }
    function refresh() {
      document.querySelectorAll('.node').forEach(function (el) {
        var hide = hiddenByAncestor(el);
        el.style.display = hide ? 'none' : '';
        var link = document.getElementById('link-' + el.id.replace('node-', ''));
        if (link) link.style.display = hide ? 'none' : '';
        var c = el.querySelector('circle');
        if (c && el.getAttribute('data-children') === 'true') {
          c.setAttribute('fill', el.classList.contains('collapsed') ? fillWith : fillEmpty);
        }
      });
    }
    document.querySelectorAll('.node').forEach(function (el) {
      el.addEventListener('click', function () {
        if (el.getAttribute('data-children') !== 'true') return;
        el.classList.toggle('collapsed');
        refresh();
      });
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	transition  *Transition
	interactive bool
	title       string
	withColor   string
	emptyColor  string
}

// WithTransition animates the SVG from the previous layout with SMIL.
func WithTransition(tr Transition) SVGOption {
	return func(r *svgRenderer) { r.transition = &tr }
}

// WithInteractive embeds the click-to-toggle script. The colours are the
// fills of collapsed and expanded nodes.
func WithInteractive(withChildren, empty string) SVGOption {
	return func(r *svgRenderer) {
		r.interactive = true
		r.withColor = withChildren
		r.emptyColor = empty
	}
}

// WithTitle adds a title above the tree.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG writes a layout as SVG.
func RenderSVG(l Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <text x=\"%.1f\" y=\"16\" text-anchor=\"middle\" font-size=\"16\" font-family=\"sans-serif\">%s</text>\n",
			l.Width/2, html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, "  <g transform=\"translate(%s,%s)\">\n", num(l.Margin.Left), num(l.Margin.Top))

	if r.transition != nil {
		renderAnimated(&buf, l, *r.transition)
	} else {
		renderStatic(&buf, l)
	}

	buf.WriteString("  </g>\n")
	if r.interactive {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
			fmt.Sprintf(nodeInteractionJS, jsString(r.withColor), jsString(r.emptyColor)))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStatic(buf *bytes.Buffer, l Layout) {
	for _, link := range l.Links {
		fmt.Fprintf(buf, "    <path class=\"link\" id=\"link-%d\" d=\"%s\"/>\n", link.Target, link.Path)
	}
	for _, n := range l.Nodes {
		openNode(buf, n, n.Pos())
		fmt.Fprintf(buf, "      <circle r=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1.5\"/>\n", num(l.Radius), html.EscapeString(n.Fill), nodeStroke)
		writeLabel(buf, n)
		buf.WriteString("    </g>\n")
	}
}

func renderAnimated(buf *bytes.Buffer, l Layout, tr Transition) {
	dur := fmt.Sprintf("%.3fs", tr.Duration.Seconds())
	for _, link := range tr.Links {
		from := LinkPath(link.FromS, link.FromD)
		to := LinkPath(link.ToS, link.ToD)
		fmt.Fprintf(buf, "    <path class=\"link\" id=\"link-%d\" d=\"%s\">\n", link.Target, to)
		fmt.Fprintf(buf, "      <animate attributeName=\"d\" from=\"%s\" to=\"%s\" dur=\"%s\" fill=\"freeze\"/>\n", from, to, dur)
		if link.State == StateExit {
			fmt.Fprintf(buf, "      <animate attributeName=\"opacity\" from=\"1\" to=\"0\" dur=\"%s\" fill=\"freeze\"/>\n", dur)
		}
		buf.WriteString("    </path>\n")
	}
	for _, nt := range tr.Nodes {
		n := nt.Node
		openNode(buf, n, nt.To)
		fmt.Fprintf(buf, "      <animateTransform attributeName=\"transform\" type=\"translate\" from=\"%s %s\" to=\"%s %s\" dur=\"%s\" fill=\"freeze\"/>\n",
			num(nt.From.Y), num(nt.From.X), num(nt.To.Y), num(nt.To.X), dur)
		fmt.Fprintf(buf, "      <animate attributeName=\"opacity\" from=\"%s\" to=\"%s\" dur=\"%s\" fill=\"freeze\"/>\n",
			num(nt.FromOpacity), num(nt.ToOpacity), dur)
		fmt.Fprintf(buf, "      <circle r=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1.5\">\n", num(nt.ToRadius), html.EscapeString(n.Fill), nodeStroke)
		fmt.Fprintf(buf, "        <animate attributeName=\"r\" from=\"%g\" to=\"%g\" dur=\"%s\" fill=\"freeze\"/>\n",
			nt.FromRadius, nt.ToRadius, dur)
		buf.WriteString("      </circle>\n")
		writeLabel(buf, n)
		buf.WriteString("    </g>\n")
	}
}

// jsString quotes s as a JavaScript string literal. json.Marshal escapes <, >
// and &, so the result cannot close the surrounding CDATA section.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func openNode(buf *bytes.Buffer, n LayoutNode, p Point) {
	class := "node"
	if n.Collapsed {
		class += " collapsed"
	}
	fmt.Fprintf(buf, "    <g class=%q id=\"node-%d\" data-key=\"%s\"", class, n.ID, html.EscapeString(n.Key))
	if n.ParentID != 0 {
		fmt.Fprintf(buf, " data-parent=\"%d\"", n.ParentID)
	}
	fmt.Fprintf(buf, " data-children=\"%t\" transform=\"translate(%s,%s)\">\n", n.HasChildren, num(p.Y), num(p.X))
	fmt.Fprintf(buf, "      <title>%s: %s (%d rows)</title>\n", html.EscapeString(n.Name), n.Label, n.RowCount)
}

// writeLabel places the label left of nodes with children and right of
// leaves.
func writeLabel(buf *bytes.Buffer, n LayoutNode) {
	x, anchor := labelGap, "start"
	if n.HasChildren {
		x, anchor = -labelGap, "end"
	}
	fmt.Fprintf(buf, "      <text x=\"%d\" dy=\".35em\" text-anchor=\"%s\">%s (%s)</text>\n",
		x, anchor, html.EscapeString(n.Name), n.Label)
}

// RenderMessageSVG renders msg centred in a width × height SVG. Hosts show it
// in place of the chart when there is nothing to draw or rendering failed.
func RenderMessageSVG(msg string, width, height float64) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" font-family=\"sans-serif\" font-size=\"14\" fill=\"#666\">%s</text>\n",
		width/2, height/2, html.EscapeString(msg))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
