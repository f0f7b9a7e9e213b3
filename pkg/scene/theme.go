package scene

import (
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/viewport"
)

// SelectedScale enlarges the selected node's disc.
const SelectedScale = 1.6

// Label placement in data-space units.
const (
	LabelGap      = 6.0
	LabelBaseline = 4.0
	LabelFontSize = 10.0
	LabelColor    = "#0f172a"
)

// NodePalette colors the discs of one column.
type NodePalette struct {
	Fill, NeighborFill, SelectedFill       string
	Stroke, NeighborStroke, SelectedStroke string
	StrokeWidth, SelectedStrokeWidth       float64
}

// EdgeStyle is the stroke of an edge line.
type EdgeStyle struct {
	Stroke  string  `json:"stroke"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// Theme fixes the look of one graph type.
type Theme struct {
	// Nodes holds one palette per side. Single-mode graphs use SideNone.
	Nodes map[graph.Side]NodePalette

	Active   EdgeStyle
	Inactive EdgeStyle

	RBase   float64
	RSpread float64

	ViewBox    viewport.ViewBox
	Background string
}

// Palette returns the palette of side, falling back to SideNone.
func (t Theme) Palette(side graph.Side) NodePalette {
	if p, ok := t.Nodes[side]; ok {
		return p
	}
	return t.Nodes[graph.SideNone]
}

// CoreTheme is the look of the single-mode radial graph.
func CoreTheme() Theme {
	return Theme{
		Nodes: map[graph.Side]NodePalette{
			graph.SideNone: {
				Fill: "#2563eb", NeighborFill: "#60a5fa", SelectedFill: "#1e3a8a",
				Stroke: "#1e40af", NeighborStroke: "#1e3a8a", SelectedStroke: "#1e40af",
				StrokeWidth: 0.6, SelectedStrokeWidth: 1.2,
			},
		},
		Active:     EdgeStyle{Stroke: "#2563eb", Width: 1.6, Opacity: 0.95},
		Inactive:   EdgeStyle{Stroke: "#9ca3af", Width: 0.6, Opacity: 0.35},
		RBase:      3,
		RSpread:    8,
		ViewBox:    viewport.ViewBox{MinX: -500, MinY: -500, Width: 1000, Height: 1000},
		Background: "#f2f2f2",
	}
}

// BipartiteTheme is the look of the two-column graphs: orange left column,
// sky-blue right column.
func BipartiteTheme() Theme {
	return Theme{
		Nodes: map[graph.Side]NodePalette{
			graph.SideLeft: {
				Fill: "#f97316", NeighborFill: "#fb923c", SelectedFill: "#c2410c",
				Stroke: "#c2410c", NeighborStroke: "#c2410c", SelectedStroke: "#9a3412",
				StrokeWidth: 0.6, SelectedStrokeWidth: 1.2,
			},
			graph.SideRight: {
				Fill: "#0ea5e9", NeighborFill: "#38bdf8", SelectedFill: "#0369a1",
				Stroke: "#0f172a", NeighborStroke: "#0f172a", SelectedStroke: "#075985",
				StrokeWidth: 0.6, SelectedStrokeWidth: 1.2,
			},
		},
		Active:     EdgeStyle{Stroke: "#0f172a", Width: 1.6, Opacity: 0.9},
		Inactive:   EdgeStyle{Stroke: "#94a3b8", Width: 0.5, Opacity: 0.3},
		RBase:      3,
		RSpread:    7,
		ViewBox:    viewport.ViewBox{MinX: -500, MinY: -450, Width: 1000, Height: 900},
		Background: "#f2f2f2",
	}
}
