// Package panel computes the side panel of a graph view: the ranked
// connections of the selected node and the summaries shown next to them.
//
// The panel always works on the full dataset, even when the graphic shows a
// filtered subset, so its numbers do not depend on what is drawn.
package panel

import (
	"cmp"
	"slices"

	"github.com/matzehuels/corpusgraph/pkg/graph"
)

// Panel defaults.
const (
	DefaultLimit   = 12
	DefaultTopSide = 10
)

// Connection is one neighbor of the selected node and the weight of the edge
// joining them.
type Connection struct {
	ID     string        `json:"id"`
	Ref    graph.NodeRef `json:"-"`
	Weight float64       `json:"weight"`
	Band   Band          `json:"band"`
}

// Connections collects the edges incident to sel, maps each to its other
// endpoint and sorts them by descending weight, keeping edge order for ties.
// At most limit entries are returned; limit <= 0 means DefaultLimit.
func Connections(sel graph.NodeRef, edges []graph.Edge, ends graph.Endpoints, limit int) []Connection {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if ends == nil {
		ends = graph.SingleMode
	}
	var out []Connection
	for _, e := range edges {
		src, dst := ends(e)
		var other graph.NodeRef
		switch sel {
		case src:
			other = dst
		case dst:
			other = src
		default:
			continue
		}
		out = append(out, Connection{ID: other.ID, Ref: other, Weight: e.Weight, Band: BandOf(e.Weight)})
	}
	slices.SortStableFunc(out, func(a, b Connection) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	if len(out) > limit {
		out = out[:limit:limit]
	}
	return out
}

// Band classifies a connection weight for badge coloring.
type Band string

const (
	BandNone   Band = "none"
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// BandOf returns the band of w: 0 is none, up to 2 is low, up to 10 is
// medium and anything larger is high.
func BandOf(w float64) Band {
	switch {
	case w <= 0:
		return BandNone
	case w > 10:
		return BandHigh
	case w > 2:
		return BandMedium
	default:
		return BandLow
	}
}

// TopBySide returns the n most frequent nodes of each column, ties in input
// order. n <= 0 means DefaultTopSide.
func TopBySide(g *graph.Subgraph, n int) (left, right []graph.SemanticNode) {
	if n <= 0 {
		n = DefaultTopSide
	}
	return topFrequent(g.LeftNodes, n), topFrequent(g.RightNodes, n)
}

func topFrequent(nodes []graph.SemanticNode, n int) []graph.SemanticNode {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b graph.SemanticNode) int {
		return cmp.Compare(b.Frequency, a.Frequency)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Direction returns the reading direction of a bipartite selection, such as
// "Adjectives → Nouns" for a left-column node.
func Direction(meta graph.SubgraphMetadata, side graph.Side) string {
	if side == graph.SideRight {
		return meta.RightLabel + " → " + meta.LeftLabel
	}
	return meta.LeftLabel + " → " + meta.RightLabel
}
