package dag_test

import (
	"fmt"

	"github.com/matzehuels/taxotree/pkg/dag"
)

func ExampleDAG_basic() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "Apparel", Row: 0})
	_ = g.AddNode(dag.Node{ID: "Shoes", Row: 1})
	_ = g.AddNode(dag.Node{ID: "Boots", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "Apparel", To: "Shoes"})
	_ = g.AddEdge(dag.Edge{From: "Shoes", To: "Boots"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", len(g.Edges()))
	fmt.Println("Children of Shoes:", g.Children("Shoes"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Children of Shoes: [Boots]
}

func ExampleDAG_MultiParent() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "Men", Row: 0})
	_ = g.AddNode(dag.Node{ID: "Women", Row: 0})
	_ = g.AddNode(dag.Node{ID: "Shoes", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "Men", To: "Shoes"})
	_ = g.AddEdge(dag.Edge{From: "Women", To: "Shoes"})

	for _, n := range g.Sources() {
		fmt.Println("Source:", n.ID)
	}
	fmt.Println("Shared:", g.MultiParent())
	// Output:
	// Source: Men
	// Source: Women
	// Shared: [Shoes]
}

func ExampleDAG_Validate() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "Shoes"})
	_ = g.AddNode(dag.Node{ID: "Boots", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "Shoes", To: "Boots"})
	_ = g.AddEdge(dag.Edge{From: "Boots", To: "Shoes"})

	fmt.Println(g.Validate())
	// Output:
	// graph contains a cycle
}
