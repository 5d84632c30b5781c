package collapsible

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	taxerrors "github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

// sampleTree is root → A → {B, C} and root → D.
func sampleTree(t *testing.T) *taxonomy.TreeNode {
	t.Helper()
	tree, err := taxonomy.BuildNestedTree([]taxonomy.Row{
		taxonomy.NewRow(5, "A", "B"),
		taxonomy.NewRow(7, "A", "C"),
		taxonomy.NewRow(1, "D"),
	})
	if err != nil {
		t.Fatalf("BuildNestedTree() error: %v", err)
	}
	return tree
}

func newSampleChart(t *testing.T) *Chart {
	t.Helper()
	c, err := NewChart(sampleTree(t), DefaultConfig())
	if err != nil {
		t.Fatalf("NewChart() error: %v", err)
	}
	return c
}

func TestNewChart_Empty(t *testing.T) {
	if _, err := NewChart(nil, DefaultConfig()); !errors.Is(err, taxonomy.ErrEmptyInput) {
		t.Errorf("NewChart(nil) = %v, want ErrEmptyInput", err)
	}
	leaf := &taxonomy.TreeNode{Name: taxonomy.RootName, ID: taxonomy.RootID, Depth: -1}
	if _, err := NewChart(leaf, DefaultConfig()); !errors.Is(err, taxonomy.ErrEmptyInput) {
		t.Errorf("NewChart(bare root) = %v, want ErrEmptyInput", err)
	}
}

func TestChart_CollapseBelow(t *testing.T) {
	c := newSampleChart(t)
	c.CollapseBelow(1)

	want := []string{"/", "/A", "/D"}
	if got := c.Visible(); !slices.Equal(got, want) {
		t.Errorf("Visible() = %v, want %v", got, want)
	}
	if ok, _ := c.IsExpanded("/A"); ok {
		t.Error("IsExpanded(/A) = true after CollapseBelow(1)")
	}
	if ok, _ := c.IsExpanded("/D"); !ok {
		t.Error("a leaf should count as expanded")
	}
}

func TestChart_ToggleTwiceRestoresLayout(t *testing.T) {
	c := newSampleChart(t)
	before := c.Layout()

	if err := c.Toggle("/A"); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	collapsed := c.Layout()
	if len(collapsed.Nodes) != 3 {
		t.Errorf("after collapse: %d visible nodes, want 3", len(collapsed.Nodes))
	}

	if err := c.Toggle("/A"); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	after := c.Layout()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("toggling twice changed the layout:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestChart_ToggleKeepsHiddenSubtree(t *testing.T) {
	tree, _ := taxonomy.BuildNestedTree([]taxonomy.Row{
		taxonomy.NewRow(1, "A", "B", "C"),
	})
	c, _ := NewChart(tree, DefaultConfig())

	_ = c.Collapse("/A/B")
	_ = c.Toggle("/A")
	_ = c.Toggle("/A")

	want := []string{"/", "/A", "/A/B"}
	if got := c.Visible(); !slices.Equal(got, want) {
		t.Errorf("Visible() = %v, want %v", got, want)
	}
	if ok, _ := c.IsExpanded("/A/B"); ok {
		t.Error("/A/B should still be collapsed")
	}
}

func TestChart_ExpandCollapse(t *testing.T) {
	c := newSampleChart(t)
	c.CollapseBelow(0)
	if got := c.Visible(); !slices.Equal(got, []string{"/"}) {
		t.Fatalf("Visible() = %v, want [/]", got)
	}

	_ = c.Expand("/")
	_ = c.Expand("/A")
	if got := c.Visible(); len(got) != 5 {
		t.Errorf("Visible() = %v, want all 5 nodes", got)
	}

	_ = c.Collapse("/")
	c.ExpandAll()
	if got := c.Visible(); len(got) != 5 {
		t.Errorf("Visible() after ExpandAll = %v, want all 5 nodes", got)
	}
}

func TestChart_UnknownKey(t *testing.T) {
	c := newSampleChart(t)
	for name, err := range map[string]error{
		"Toggle":   c.Toggle("/nope"),
		"Expand":   c.Expand("/nope"),
		"Collapse": c.Collapse("/nope"),
	} {
		if !taxerrors.Is(err, taxerrors.ErrCodeNotFound) {
			t.Errorf("%s(/nope) = %v, want NOT_FOUND", name, err)
		}
	}
	if _, err := c.Update("/nope"); !taxerrors.Is(err, taxerrors.ErrCodeNotFound) {
		t.Errorf("Update(/nope) = %v, want NOT_FOUND", err)
	}
}

func TestChartsAreIndependent(t *testing.T) {
	tree := sampleTree(t)
	a, _ := NewChart(tree, DefaultConfig())
	b, _ := NewChart(tree, DefaultConfig())

	a.CollapseBelow(1)
	if len(b.Visible()) != 5 {
		t.Error("collapsing one chart affected another")
	}
	if a.Layout().Nodes[0].ID != 1 || b.Layout().Nodes[0].ID != 1 {
		t.Error("each chart should number its own nodes from 1")
	}
}
