package nodelink

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/scene"
	"github.com/matzehuels/corpusgraph/pkg/viewport"
)

func testScene() *scene.Scene {
	a := graph.NodeRef{Side: graph.SideLeft, ID: "red"}
	b := graph.NodeRef{Side: graph.SideRight, ID: "car"}
	return &scene.Scene{
		Transform: viewport.Affine{Scale: 2, Pan: r2.Vec{X: 10, Y: 0}},
		Lines: []scene.Line{{
			Source: a, Target: b, From: "red", To: "car",
			EdgeStyle: scene.EdgeStyle{Stroke: "#0f172a", Width: 1.6, Opacity: 0.9},
		}},
		Discs: []scene.Disc{
			{Ref: a, X: -320, Y: 20, R: 9, Fill: "#f97316", Stroke: "#c2410c", StrokeWidth: 0.6},
			{Ref: b, X: 320, Y: -380, R: 3.6, Fill: "#0ea5e9", Stroke: "#0f172a", StrokeWidth: 0.6},
		},
		Labels: []scene.Label{{Text: "red", Fill: scene.LabelColor}, {Text: "car", Fill: scene.LabelColor}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testScene(), Options{})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`"left:red" [pos="-320.00,-20.00!", width=0.2500`,
		`"right:car" [pos="320.00,380.00!", width=0.1000`,
		`"left:red" -- "right:car" [color="#0f172ae6", penwidth=1.6];`,
		`bgcolor="transparent"`,
		`label=""`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "xlabel") {
		t.Error("labels should be off by default")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(testScene(), Options{ApplyTransform: true, Labels: true})
	if !strings.Contains(dot, `pos="-630.00,-40.00!", width=0.5000`) {
		t.Errorf("transform not applied:\n%s", dot)
	}
	if !strings.Contains(dot, `xlabel="red"`) {
		t.Errorf("labels missing:\n%s", dot)
	}
}

func TestWithAlpha(t *testing.T) {
	tests := []struct {
		color   string
		opacity float64
		want    string
	}{
		{"#000000", 0.5, "#00000080"},
		{"#ffffff", 1, "#ffffff"},
		{"gray", 0.3, "gray"},
	}
	for _, tt := range tests {
		if got := withAlpha(tt.color, tt.opacity); got != tt.want {
			t.Errorf("withAlpha(%q, %v) = %q, want %q", tt.color, tt.opacity, got, tt.want)
		}
	}
}
