package treegraph

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/taxotree/pkg/dag"
	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

func sampleGraph(t *testing.T) *dag.DAG {
	t.Helper()
	l, err := taxonomy.BuildEdges([]taxonomy.Row{
		taxonomy.NewRow(1200, "Apparel", "Shoes", "Boots", "Chelsea"),
		taxonomy.NewRow(800, "Apparel", "Shoes", "Sneakers"),
		taxonomy.NewRow(2_500_000, "Apparel", "Hats"),
		taxonomy.NewRow(10, "Garden"),
	})
	if err != nil {
		t.Fatalf("BuildEdges() error: %v", err)
	}
	g, err := FromEdges(l)
	if err != nil {
		t.Fatalf("FromEdges() error: %v", err)
	}
	return g
}

func nodeByID(g *dag.DAG, id string) *dag.Node {
	for _, n := range g.Nodes() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func TestFromEdges(t *testing.T) {
	g := sampleGraph(t)

	if g.NodeCount() != 7 {
		t.Errorf("NodeCount() = %d, want 7", g.NodeCount())
	}
	if len(g.Edges()) != 5 {
		t.Errorf("len(Edges()) = %d, want 5", len(g.Edges()))
	}
	if got := g.Sources(); len(got) != 2 || got[0].ID != "Apparel" || got[1].ID != "Garden" {
		t.Errorf("Sources() = %v, want [Apparel Garden]", got)
	}
	n := nodeByID(g, "Apparel")
	if n.Weight() != 2_502_000 || n.Meta[dag.MetaRowCount] != 3 {
		t.Errorf("Apparel meta = %v", n.Meta)
	}
	if n := nodeByID(g, "Chelsea"); n.Row != 3 {
		t.Errorf("Chelsea row = %d, want 3", n.Row)
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleGraph(t), DefaultOptions())

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`label="Taxonomy Tree"`,
		`"Apparel" -> "Shoes"`,
		`xlabel="Hats (2.5M)"`,
		`xlabel="Shoes (2K)"`,
		`fillcolor="#ffffff"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, "undefined") {
		t.Error("ToDOT() should not emit the synthetic root")
	}
}

func TestToDOT_HideMetricAndTitle(t *testing.T) {
	opts := DefaultOptions()
	opts.HideMetric = true
	opts.Title = ""
	dot := ToDOT(sampleGraph(t), opts)

	if !strings.Contains(dot, `xlabel="Hats"`) {
		t.Error("ToDOT() with HideMetric should label with the name only")
	}
	if strings.Contains(dot, "labelloc") {
		t.Error("ToDOT() without title should not set a graph label")
	}
}

func TestLevelColors(t *testing.T) {
	g := sampleGraph(t)
	base, _ := colorful.Hex("#2caffe")
	palette, _ := parsePalette([]string{"#ff0000", "#00ff00"})
	colors := levelColors(g, base, palette)

	if colors["Apparel"] != base || colors["Garden"] != base {
		t.Error("level-1 nodes should share the base colour")
	}
	if colors["Shoes"].Hex() != "#ff0000" || colors["Hats"].Hex() != "#00ff00" {
		t.Errorf("level-2 colours = %s, %s; want palette order", colors["Shoes"].Hex(), colors["Hats"].Hex())
	}

	// First sibling keeps the parent colour, later siblings get darker.
	if colors["Boots"].Hex() != colors["Shoes"].Hex() {
		t.Errorf("Boots = %s, want parent colour %s", colors["Boots"].Hex(), colors["Shoes"].Hex())
	}
	lb, _, _ := colors["Boots"].Lab()
	ls, _, _ := colors["Sneakers"].Lab()
	if ls >= lb {
		t.Errorf("Sneakers lightness %.3f should be below Boots %.3f", ls, lb)
	}
	if _, ok := colors["Chelsea"]; !ok {
		t.Error("level-4 node has no colour")
	}
}

func TestLevelColors_Cycle(t *testing.T) {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	base, _ := colorful.Hex("#123456")
	colors := levelColors(g, base, nil)
	if colors["a"] != base || colors["b"] != base {
		t.Errorf("cycle colours = %v, want base", colors)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("DefaultOptions().Validate() = %v", err)
	}
	opts := DefaultOptions()
	opts.Palette = []string{"#fff", "chartreuse"}
	if err := opts.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
	}
}

func TestExport(t *testing.T) {
	l := Export(sampleGraph(t), DefaultOptions())

	if l.Type != "treegraph" || l.Height != 600 || l.DOT == "" {
		t.Errorf("Export() = %+v", l)
	}
	if len(l.Nodes) != 7 {
		t.Errorf("len(Nodes) = %d, want 7", len(l.Nodes))
	}
	if len(l.Edges) != 7 || l.Edges[0].From != "" || l.Edges[0].To != "Apparel" {
		t.Errorf("Edges = %v, want root edges first", l.Edges)
	}
	if l.Cyclic || len(l.Shared) != 0 {
		t.Errorf("a proper tree should be neither cyclic nor shared: %+v", l)
	}
}

func TestExport_CycleAndSharedLabels(t *testing.T) {
	l, err := taxonomy.BuildEdges([]taxonomy.Row{
		taxonomy.NewRow(1, "Shoes", "Boots"),
		taxonomy.NewRow(2, "Boots", "Shoes"),
		taxonomy.NewRow(3, "Men", "Sale"),
		taxonomy.NewRow(4, "Women", "Sale"),
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := FromEdges(l)
	if err != nil {
		t.Fatal(err)
	}

	out := Export(g, DefaultOptions())
	if !out.Cyclic {
		t.Error("Shoes→Boots→Shoes should be reported as a cycle")
	}
	if len(out.Shared) != 1 || out.Shared[0] != "Sale" {
		t.Errorf("Shared = %v, want [Sale]", out.Shared)
	}
}
