package layout

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/graph"
)

// Design constants in data-space units.
const (
	DefaultRadius = 380.0

	DefaultColumnX = 320.0
	DefaultTop     = -380.0
	DefaultBottom  = 380.0
)

// Kind discriminates layout strategies.
type Kind int

const (
	KindRadial Kind = iota
	KindBipartiteColumn
)

// String returns the strategy name.
func (k Kind) String() string {
	if k == KindBipartiteColumn {
		return "bipartite"
	}
	return "radial"
}

// Strategy is a tagged layout variant. Only the fields of the active Kind are
// used.
type Strategy struct {
	Kind Kind

	// Radial
	Radius float64

	// BipartiteColumn: left column at -ColumnX, right at +ColumnX,
	// rows spread over [Top, Bottom].
	ColumnX float64
	Top     float64
	Bottom  float64
}

// Radial returns the radial strategy with the default radius.
func Radial() Strategy {
	return Strategy{Kind: KindRadial, Radius: DefaultRadius}
}

// BipartiteColumn returns the two-column strategy with default spacing.
func BipartiteColumn() Strategy {
	return Strategy{
		Kind:    KindBipartiteColumn,
		ColumnX: DefaultColumnX,
		Top:     DefaultTop,
		Bottom:  DefaultBottom,
	}
}

// Item is one node handed to the layout. Rank orders bipartite columns
// (frequency); radial layouts use input order and ignore it.
type Item struct {
	Ref  graph.NodeRef
	Rank float64
}

// Positions maps node references to data-space coordinates.
type Positions map[graph.NodeRef]r2.Vec

// Compute assigns a position to every item.
func Compute(s Strategy, items []Item) Positions {
	if s.Kind == KindBipartiteColumn {
		return bipartite(s, items)
	}
	return radial(s, items)
}

// Ordered returns items in presentation order: input order for radial
// layouts, left column then right column (each by descending rank) for
// bipartite layouts.
func Ordered(s Strategy, items []Item) []Item {
	if s.Kind != KindBipartiteColumn {
		return slices.Clone(items)
	}
	left, right := columns(items)
	return append(left, right...)
}

func radial(s Strategy, items []Item) Positions {
	pos := make(Positions, len(items))
	n := float64(len(items))
	for i, it := range items {
		angle := float64(i)/n*2*math.Pi - math.Pi/2
		pos[it.Ref] = r2.Vec{X: s.Radius * math.Cos(angle), Y: s.Radius * math.Sin(angle)}
	}
	return pos
}

func bipartite(s Strategy, items []Item) Positions {
	left, right := columns(items)
	pos := make(Positions, len(left)+len(right))
	place(pos, left, -s.ColumnX, s.Top, s.Bottom)
	place(pos, right, s.ColumnX, s.Top, s.Bottom)
	return pos
}

func place(pos Positions, col []Item, x, top, bottom float64) {
	switch len(col) {
	case 0:
		return
	case 1:
		pos[col[0].Ref] = r2.Vec{X: x, Y: (top + bottom) / 2}
		return
	}
	gap := (bottom - top) / float64(len(col)-1)
	for i, it := range col {
		pos[it.Ref] = r2.Vec{X: x, Y: top + float64(i)*gap}
	}
}

// columns splits items by side and sorts each column by descending rank.
// Items without a side are ignored.
func columns(items []Item) (left, right []Item) {
	for _, it := range items {
		switch it.Ref.Side {
		case graph.SideLeft:
			left = append(left, it)
		case graph.SideRight:
			right = append(right, it)
		}
	}
	byRank := func(a, b Item) int { return cmp.Compare(b.Rank, a.Rank) }
	slices.SortStableFunc(left, byRank)
	slices.SortStableFunc(right, byRank)
	return left, right
}
