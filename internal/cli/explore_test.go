package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/render"
)

func newTestExplorer(t *testing.T) exploreModel {
	t.Helper()
	c := New(io.Discard, LogInfo)
	cfg := config.Default()
	rows, err := c.readRows(writeSample(t), cfg)
	if err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{VizType: render.TypeCollapsible, Chart: cfg.CollapsibleConfig()}
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	h, err := pipeline.Build(rows, opts)
	if err != nil {
		t.Fatal(err)
	}
	chart, err := pipeline.NewChart(h.Tree, opts)
	if err != nil {
		t.Fatal(err)
	}
	return newExploreModel(chart)
}

func press(m exploreModel, key string) exploreModel {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(exploreModel)
}

func visibleKeys(m exploreModel) []string {
	out := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Key
	}
	return out
}

func TestExploreInitialState(t *testing.T) {
	m := newTestExplorer(t)

	want := []string{"/", "/Apparel", "/Garden"}
	if got := visibleKeys(m); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("visible = %v, want %v", got, want)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestExploreToggle(t *testing.T) {
	m := newTestExplorer(t)

	m = press(m, "j")
	if m.selected().Key != "/Apparel" {
		t.Fatalf("selected %q after j, want /Apparel", m.selected().Key)
	}
	if !m.selected().Collapsed {
		t.Fatal("/Apparel should start collapsed")
	}

	m = press(m, "enter")
	if len(m.nodes) != 5 {
		t.Errorf("after expanding /Apparel, %d nodes visible, want 5: %v", len(m.nodes), visibleKeys(m))
	}
	if m.selected().Key != "/Apparel" {
		t.Errorf("cursor moved to %q, want it to stay on /Apparel", m.selected().Key)
	}

	m = press(m, "enter")
	if len(m.nodes) != 3 {
		t.Errorf("after collapsing /Apparel, %d nodes visible, want 3", len(m.nodes))
	}
}

func TestExploreCollapseAndParent(t *testing.T) {
	m := newTestExplorer(t)
	m = press(m, "j")
	m = press(m, "l")
	if m.selected().Collapsed {
		t.Fatal("l should expand the selected node")
	}

	m = press(m, "h")
	if !m.selected().Collapsed {
		t.Error("h on an expanded node should collapse it")
	}
	m = press(m, "h")
	if m.selected().Key != "/" {
		t.Errorf("h on a collapsed node should move to the parent, selected %q", m.selected().Key)
	}
}

func TestExploreExpandAllAndReset(t *testing.T) {
	m := newTestExplorer(t)

	m = press(m, "e")
	if len(m.nodes) != 7 {
		t.Errorf("expand all shows %d nodes, want 7", len(m.nodes))
	}
	m = press(m, "c")
	if len(m.nodes) != 3 || m.cursor != 0 {
		t.Errorf("reset shows %d nodes with cursor %d, want 3 and 0", len(m.nodes), m.cursor)
	}
}

func TestExploreCursorBounds(t *testing.T) {
	m := newTestExplorer(t)
	m = press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k at the top", m.cursor)
	}
	for range 10 {
		m = press(m, "j")
	}
	if m.cursor != len(m.nodes)-1 {
		t.Errorf("cursor = %d, want it clamped to %d", m.cursor, len(m.nodes)-1)
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplorer(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExploreView(t *testing.T) {
	m := newTestExplorer(t)
	view := m.View()
	for _, want := range []string{"Taxonomy", "Apparel", "Garden", markerCollapsed, markerLeaf, "4 rows"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestExploreWindowSize(t *testing.T) {
	m := newTestExplorer(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	if got := next.(exploreModel).height; got != 5 {
		t.Errorf("height = %d, want the minimum of 5", got)
	}
}
