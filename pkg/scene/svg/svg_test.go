package svg

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/scene"
	"github.com/matzehuels/corpusgraph/pkg/viewport"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		ViewBox:    viewport.ViewBox{MinX: -500, MinY: -450, Width: 1000, Height: 900},
		Transform:  viewport.Affine{Scale: 2, Pan: r2.Vec{X: 10, Y: -5}},
		Background: "#f2f2f2",
		Lines: []scene.Line{{
			X1: -320, Y1: 0, X2: 320, Y2: 12.34,
			EdgeStyle: scene.EdgeStyle{Stroke: "#94a3b8", Width: 0.5, Opacity: 0.3},
		}},
		Discs: []scene.Disc{{
			Ref: graph.NodeRef{Side: graph.SideLeft, ID: "a<b"},
			X:   -320, Y: 0, R: 6.5, Fill: "#f97316", Stroke: "#c2410c", StrokeWidth: 0.6,
		}},
		Labels: []scene.Label{{Text: "a<b", X: -307.5, Y: 4, Anchor: scene.AnchorStart, FontSize: 10, Fill: scene.LabelColor}},
		Legend: []scene.LegendEntry{{Label: "Adjectives", Color: "#f97316"}},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testScene(), Options{Width: 640, Height: 480, Title: "test"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	var doc any
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid XML: %v\n%s", err, out)
	}

	for _, want := range []string{
		`viewBox="-500 -450 1000 900"`,
		`translate(10,-5) scale(2)`,
		`scale(0.1)`,
		`x2="3200"`,
		`y2="123"`,
		`r="65"`,
		`stroke-width:5;`,
		`a&lt;b`,
		`Adjectives`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteInvalidSize(t *testing.T) {
	if err := Write(&bytes.Buffer{}, testScene(), Options{}); err == nil {
		t.Error("expected error for zero size")
	}
}
