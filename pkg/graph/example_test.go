package graph_test

import (
	"fmt"

	"github.com/matzehuels/corpusgraph/pkg/graph"
)

func ExampleCoreDataset_Top() {
	d := &graph.CoreDataset{
		Nodes: []graph.CoreNode{
			{ID: "dom", ConnectionWeight: 5},
			{ID: "kot", ConnectionWeight: 1},
			{ID: "pies", ConnectionWeight: 9},
		},
		Edges: []graph.Edge{
			{Source: "dom", Target: "pies", Weight: 2},
			{Source: "kot", Target: "pies", Weight: 1},
		},
	}

	top := d.Top(2)
	for _, n := range top.Nodes {
		fmt.Println(n.ID)
	}
	fmt.Println("edges:", len(top.Edges))
	// Output:
	// pies
	// dom
	// edges: 1
}
