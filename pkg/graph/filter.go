package graph

import (
	"cmp"
	"slices"
)

// DefaultTopNodes is the number of core nodes shown in the graphic.
const DefaultTopNodes = 50

// Top returns a copy of d restricted to the n nodes with the largest
// connection weight (ties keep input order). Only edges whose endpoints both
// survive are kept. n <= 0 or n >= len(d.Nodes) keeps every node.
func (d *CoreDataset) Top(n int) *CoreDataset {
	nodes := slices.Clone(d.Nodes)
	slices.SortStableFunc(nodes, func(a, b CoreNode) int {
		return cmp.Compare(b.ConnectionWeight, a.ConnectionWeight)
	})
	if n > 0 && n < len(nodes) {
		nodes = nodes[:n]
	}

	keep := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		keep[node.ID] = struct{}{}
	}
	edges := make([]Edge, 0, len(d.Edges))
	for _, e := range d.Edges {
		_, a := keep[e.Source]
		_, b := keep[e.Target]
		if a && b {
			edges = append(edges, e)
		}
	}

	return &CoreDataset{Metadata: d.Metadata, Nodes: nodes, Edges: edges}
}

// Node returns the node with the given id.
func (d *CoreDataset) Node(id string) (CoreNode, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return CoreNode{}, false
}

// Side returns the column of id, checking the left column first.
func (g *Subgraph) Side(id string) (Side, bool) {
	for _, n := range g.LeftNodes {
		if n.ID == id {
			return SideLeft, true
		}
	}
	for _, n := range g.RightNodes {
		if n.ID == id {
			return SideRight, true
		}
	}
	return SideNone, false
}
