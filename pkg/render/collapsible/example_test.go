package collapsible_test

import (
	"fmt"

	"github.com/matzehuels/taxotree/pkg/render/collapsible"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

func ExampleChart() {
	tree, _ := taxonomy.BuildNestedTree([]taxonomy.Row{
		taxonomy.NewRow(5, "Apparel", "Shoes"),
		taxonomy.NewRow(7, "Apparel", "Hats"),
		taxonomy.NewRow(2, "Garden"),
	})

	c, _ := collapsible.NewChart(tree, collapsible.DefaultConfig())
	c.CollapseBelow(1)
	fmt.Println(c.Visible())

	_ = c.Toggle("/Apparel")
	fmt.Println(c.Visible())
	// Output:
	// [/ /Apparel /Garden]
	// [/ /Apparel /Apparel/Shoes /Apparel/Hats /Garden]
}

func ExampleLinkPath() {
	s := collapsible.Point{X: 300, Y: 0}
	d := collapsible.Point{X: 150, Y: 180}
	fmt.Println(collapsible.LinkPath(s, d))
	// Output:
	// M0,300 C90,300 90,150 180,150
}
