package taxonomy

import (
	"errors"
	"testing"

	taxerrors "github.com/matzehuels/taxotree/pkg/errors"
)

func TestBuildNestedTree_Empty(t *testing.T) {
	for _, rows := range [][]Row{nil, {}, {{Weight: 3}}} {
		_, err := BuildNestedTree(rows)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("BuildNestedTree(%v) error = %v, want ErrEmptyInput", rows, err)
		}
		if !taxerrors.Is(err, taxerrors.ErrCodeEmptyInput) {
			t.Errorf("error code = %q, want EMPTY_INPUT", taxerrors.GetCode(err))
		}
	}
}

func TestBuildNestedTree_Structure(t *testing.T) {
	tree, err := BuildNestedTree([]Row{
		NewRow(5, "A", "B"),
		NewRow(7, "A", "C", "D"),
		NewRow(1, "E"),
	})
	if err != nil {
		t.Fatalf("BuildNestedTree() error: %v", err)
	}

	if tree.Name != RootName || tree.ID != RootID || tree.Depth != -1 {
		t.Errorf("root = %q/%q depth %d", tree.Name, tree.ID, tree.Depth)
	}
	if tree.Data.WeightSum != 13 || tree.Data.RowCount != 3 {
		t.Errorf("root.Data = %+v, want {13 3}", tree.Data)
	}
	if len(tree.Children) != 2 || tree.Children[0].Name != "A" || tree.Children[1].Name != "E" {
		t.Fatalf("root children = %v", names(tree.Children))
	}

	a := tree.Children[0]
	if a.Depth != 0 || a.Data.WeightSum != 12 || a.Data.RowCount != 2 {
		t.Errorf("A = depth %d data %+v, want depth 0 {12 2}", a.Depth, a.Data)
	}
	if got := names(a.Children); len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Errorf("A children = %v, want [B C]", got)
	}

	d := tree.Find("/A/C/D")
	if d == nil {
		t.Fatal("Find(/A/C/D) = nil")
	}
	if d.Depth != 2 || d.Data.WeightSum != 7 || !d.IsLeaf() {
		t.Errorf("D = depth %d data %+v leaf %v", d.Depth, d.Data, d.IsLeaf())
	}
	if tree.NodeCount() != 6 {
		t.Errorf("NodeCount() = %d, want 6", tree.NodeCount())
	}
	if got := names(tree.Leaves()); len(got) != 3 {
		t.Errorf("Leaves() = %v, want 3 leaves", got)
	}
}

func TestBuildNestedTree_PathIdentity(t *testing.T) {
	tree, _ := BuildNestedTree([]Row{
		NewRow(2, "Men", "Shoes"),
		NewRow(3, "Women", "Shoes"),
	})

	men := tree.Find("/Men/Shoes")
	women := tree.Find("/Women/Shoes")
	if men == nil || women == nil {
		t.Fatal("expected distinct Shoes nodes under Men and Women")
	}
	if men.Data.WeightSum != 2 || women.Data.WeightSum != 3 {
		t.Errorf("weights = %v / %v, want 2 / 3", men.Data.WeightSum, women.Data.WeightSum)
	}
}

func TestChildIDEscapes(t *testing.T) {
	if got := ChildID(RootID, "a/b"); got != "/a%2Fb" {
		t.Errorf("ChildID() = %q, want /a%%2Fb", got)
	}
	if got := ChildID("/x", "50%"); got != "/x/50%25" {
		t.Errorf("ChildID() = %q, want /x/50%%25", got)
	}
}

func names(nodes []*TreeNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
