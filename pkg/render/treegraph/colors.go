package treegraph

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/taxotree/pkg/dag"
)

// DefaultPalette is the colour-by-point palette for level-2 nodes.
var DefaultPalette = []string{
	"#2caffe", "#544fc5", "#00e272", "#fe6a35", "#6b8abc",
	"#d568fb", "#2ee0ca", "#fa4b42", "#feb56a", "#91e8e1",
}

// Brightness variation applied across the siblings of levels 3 and 4.
const (
	level3Brightness = -0.3
	level4Brightness = 0.3
)

// levelColors assigns a colour to every node reachable from a source. Levels
// are counted from 1 at the sources along a breadth-first walk; a node with
// several parents takes its colour from the first one that reaches it.
func levelColors(g *dag.DAG, base colorful.Color, palette []colorful.Color) map[string]colorful.Color {
	colors := make(map[string]colorful.Color, g.NodeCount())

	type item struct {
		id    string
		level int
	}
	var queue []item
	for _, n := range g.Sources() {
		colors[n.ID] = base
		queue = append(queue, item{n.ID, 1})
	}

	point := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		var fresh []string
		for _, c := range g.Children(cur.id) {
			if _, done := colors[c]; !done {
				fresh = append(fresh, c)
			}
		}
		parent := colors[cur.id]
		for i, c := range fresh {
			switch level := cur.level + 1; {
			case level == 2 && len(palette) > 0:
				colors[c] = palette[point%len(palette)]
				point++
			case level == 3:
				colors[c] = vary(parent, level3Brightness, i, len(fresh))
			case level == 4:
				colors[c] = vary(parent, level4Brightness, i, len(fresh))
			default:
				colors[c] = parent
			}
			queue = append(queue, item{c, cur.level + 1})
		}
	}

	// Nodes only reachable through a cycle have no source above them.
	for _, n := range g.Nodes() {
		if _, ok := colors[n.ID]; !ok {
			colors[n.ID] = base
		}
	}
	return colors
}

// vary shifts the lightness of c by to*i/n in CIE L*a*b* space, so the first
// sibling keeps its parent's colour and later ones drift towards to.
func vary(c colorful.Color, to float64, i, n int) colorful.Color {
	if n == 0 {
		return c
	}
	l, a, b := c.Lab()
	l += to * float64(i) / float64(n)
	l = max(0, min(1, l))
	return colorful.Lab(l, a, b).Clamped()
}

func parsePalette(hexes []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// resolveColors parses the colours of opts, falling back to the defaults for
// unparsable values, and assigns them to the nodes of g.
func resolveColors(g *dag.DAG, opts Options) map[string]colorful.Color {
	base, err := colorful.Hex(opts.BaseColor)
	if err != nil {
		base, _ = colorful.Hex(DefaultPalette[0])
	}
	palette, err := parsePalette(opts.Palette)
	if err != nil {
		palette, _ = parsePalette(DefaultPalette)
	}
	return levelColors(g, base, palette)
}
