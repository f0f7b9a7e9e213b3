package panel

import "github.com/matzehuels/corpusgraph/pkg/graph"

// Summary is everything the side panel shows for one view.
type Summary struct {
	Graph     string `json:"graph"`
	Selected  string `json:"selected,omitempty"`
	Side      string `json:"side,omitempty"`
	Direction string `json:"direction,omitempty"`

	// Details is set for a selection in the single-mode graph.
	Details *graph.CoreNode `json:"details,omitempty"`

	Connections []Connection `json:"connections,omitempty"`

	// TopLeft and TopRight are set for bipartite graphs with no selection.
	LeftLabel  string               `json:"left_label,omitempty"`
	RightLabel string               `json:"right_label,omitempty"`
	TopLeft    []graph.SemanticNode `json:"top_left,omitempty"`
	TopRight   []graph.SemanticNode `json:"top_right,omitempty"`
}

// HasSelection reports whether the summary describes a selected node.
func (s Summary) HasSelection() bool { return s.Selected != "" }

// Core summarizes the single-mode graph. A selection that is not part of d
// yields an empty summary.
func Core(d *graph.CoreDataset, sel graph.NodeRef, ok bool, limit int) Summary {
	s := Summary{Graph: graph.GraphCore}
	if !ok {
		return s
	}
	node, found := d.Node(sel.ID)
	if !found {
		return s
	}
	s.Selected = node.ID
	s.Details = &node
	s.Connections = Connections(sel, d.Edges, graph.SingleMode, limit)
	return s
}

// Bipartite summarizes one bipartite graph.
func Bipartite(name string, g *graph.Subgraph, sel graph.NodeRef, ok bool, limit int) Summary {
	s := Summary{
		Graph:      name,
		LeftLabel:  g.Metadata.LeftLabel,
		RightLabel: g.Metadata.RightLabel,
	}
	if !ok {
		s.TopLeft, s.TopRight = TopBySide(g, DefaultTopSide)
		return s
	}
	s.Selected = sel.ID
	s.Side = sel.Side.String()
	s.Direction = Direction(g.Metadata, sel.Side)
	s.Connections = Connections(sel, g.Edges, graph.Bipartite, limit)
	return s
}
