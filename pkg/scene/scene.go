package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/layout"
	"github.com/matzehuels/corpusgraph/pkg/selection"
	"github.com/matzehuels/corpusgraph/pkg/viewport"
)

// NodeState classifies a node relative to the selection.
type NodeState string

const (
	StateBase     NodeState = "base"
	StateNeighbor NodeState = "neighbor"
	StateSelected NodeState = "selected"
)

// Node is one node handed to Build, in drawing order.
type Node struct {
	Ref    graph.NodeRef
	Label  string
	Metric float64
}

// Input is everything Build needs.
type Input struct {
	Theme     Theme
	Positions layout.Positions
	Nodes     []Node
	Edges     []graph.Edge
	Ends      graph.Endpoints

	// Selected is meaningful only when HasSelection is set.
	Selected     graph.NodeRef
	HasSelection bool
	Highlight    selection.Highlight

	Transform viewport.Affine

	// Legend entries are optional; bipartite views name their columns here.
	Legend []LegendEntry
}

// Line is an edge segment in data space.
type Line struct {
	Source graph.NodeRef `json:"-"`
	Target graph.NodeRef `json:"-"`
	From   string        `json:"from"`
	To     string        `json:"to"`
	X1     float64       `json:"x1"`
	Y1     float64       `json:"y1"`
	X2     float64       `json:"x2"`
	Y2     float64       `json:"y2"`
	Active bool          `json:"active"`
	EdgeStyle
}

// Disc is a node circle in data space.
type Disc struct {
	Ref         graph.NodeRef `json:"-"`
	ID          string        `json:"id"`
	Side        string        `json:"side,omitempty"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	R           float64       `json:"r"`
	Fill        string        `json:"fill"`
	Stroke      string        `json:"stroke"`
	StrokeWidth float64       `json:"stroke_width"`
	State       NodeState     `json:"state"`
}

// Center returns the disc center.
func (d Disc) Center() r2.Vec { return r2.Vec{X: d.X, Y: d.Y} }

// Anchor is an SVG text-anchor value.
type Anchor string

const (
	AnchorStart Anchor = "start"
	AnchorEnd   Anchor = "end"
)

// Label is node text placed beside its disc.
type Label struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Anchor   Anchor  `json:"anchor"`
	FontSize float64 `json:"font_size"`
	Fill     string  `json:"fill"`
}

// LegendEntry names a node color.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Scene is a drawable description of one graph view.
type Scene struct {
	ViewBox    viewport.ViewBox `json:"view_box"`
	Transform  viewport.Affine  `json:"transform"`
	Background string           `json:"background"`
	Lines      []Line           `json:"lines"`
	Discs      []Disc           `json:"discs"`
	Labels     []Label          `json:"labels"`
	Legend     []LegendEntry    `json:"legend,omitempty"`
}

// Build produces the scene for in. Lines come first so discs are drawn on top
// of them; discs and labels follow in.Nodes order.
func Build(in Input) *Scene {
	ends := in.Ends
	if ends == nil {
		ends = graph.SingleMode
	}
	sc := &Scene{
		ViewBox:    in.Theme.ViewBox,
		Transform:  in.Transform,
		Background: in.Theme.Background,
		Lines:      make([]Line, 0, len(in.Edges)),
		Discs:      make([]Disc, 0, len(in.Nodes)),
		Labels:     make([]Label, 0, len(in.Nodes)),
		Legend:     in.Legend,
	}

	for i, e := range in.Edges {
		src, dst := ends(e)
		a, okA := in.Positions[src]
		b, okB := in.Positions[dst]
		if !okA || !okB {
			continue
		}
		active := in.HasSelection && in.Highlight.IsActive(i)
		style := in.Theme.Inactive
		if active {
			style = in.Theme.Active
		}
		sc.Lines = append(sc.Lines, Line{
			Source: src, Target: dst,
			From: e.Source, To: e.Target,
			X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
			Active:    active,
			EdgeStyle: style,
		})
	}

	maxMetric := maxMetrics(in.Nodes)
	for _, n := range in.Nodes {
		p, ok := in.Positions[n.Ref]
		if !ok {
			continue
		}
		state := StateBase
		switch {
		case in.HasSelection && n.Ref == in.Selected:
			state = StateSelected
		case in.HasSelection && in.Highlight.IsNeighbor(n.Ref):
			state = StateNeighbor
		}
		r := Radius(in.Theme, n.Metric, maxMetric[n.Ref.Side])
		if state == StateSelected {
			r *= SelectedScale
		}
		sc.Discs = append(sc.Discs, disc(in.Theme.Palette(n.Ref.Side), n.Ref, p, r, state))
		sc.Labels = append(sc.Labels, label(n, p, r))
	}
	return sc
}

// Radius is the unselected disc radius of a node with the given metric.
func Radius(t Theme, metric, maxMetric float64) float64 {
	return t.RBase + metric/math.Max(1, maxMetric)*t.RSpread
}

func maxMetrics(nodes []Node) map[graph.Side]float64 {
	m := make(map[graph.Side]float64, 2)
	for _, n := range nodes {
		if n.Metric > m[n.Ref.Side] {
			m[n.Ref.Side] = n.Metric
		}
	}
	return m
}

func disc(p NodePalette, ref graph.NodeRef, at r2.Vec, r float64, state NodeState) Disc {
	d := Disc{
		Ref: ref, ID: ref.ID,
		X: at.X, Y: at.Y, R: r,
		Fill: p.Fill, Stroke: p.Stroke, StrokeWidth: p.StrokeWidth,
		State: state,
	}
	if ref.Side != graph.SideNone {
		d.Side = ref.Side.String()
	}
	switch state {
	case StateSelected:
		d.Fill, d.Stroke, d.StrokeWidth = p.SelectedFill, p.SelectedStroke, p.SelectedStrokeWidth
	case StateNeighbor:
		d.Fill, d.Stroke = p.NeighborFill, p.NeighborStroke
	}
	return d
}

// label places text outside the disc: to the right, or to the left with an
// end anchor for the right column.
func label(n Node, at r2.Vec, r float64) Label {
	text := n.Label
	if text == "" {
		text = n.Ref.ID
	}
	l := Label{
		Text:     text,
		X:        at.X + r + LabelGap,
		Y:        at.Y + LabelBaseline,
		Anchor:   AnchorStart,
		FontSize: LabelFontSize,
		Fill:     LabelColor,
	}
	if n.Ref.Side == graph.SideRight {
		l.X = at.X - r - LabelGap
		l.Anchor = AnchorEnd
	}
	return l
}

// HitTest returns the topmost disc containing the data-space point p.
func (s *Scene) HitTest(p r2.Vec) (graph.NodeRef, bool) {
	for i := len(s.Discs) - 1; i >= 0; i-- {
		d := s.Discs[i]
		if r2.Norm(r2.Sub(p, d.Center())) <= d.R {
			return d.Ref, true
		}
	}
	return graph.NodeRef{}, false
}

// Disc returns the disc drawn for ref.
func (s *Scene) Disc(ref graph.NodeRef) (Disc, bool) {
	for _, d := range s.Discs {
		if d.Ref == ref {
			return d, true
		}
	}
	return Disc{}, false
}
