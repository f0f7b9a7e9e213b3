// Package svg writes a scene as a standalone SVG document.
package svg

import (
	"fmt"
	"io"
	"math"

	svgo "github.com/ajstarks/svgo"

	"github.com/matzehuels/corpusgraph/pkg/scene"
)

// precision is the number of integer units per data unit. svgo only takes
// integer coordinates, so geometry is scaled up by precision inside a group
// that scales it back down.
const precision = 10

// Options controls the document size.
type Options struct {
	Width  int
	Height int
	Title  string
}

// DefaultOptions returns an 800x800 document.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 800}
}

// Write renders sc to w.
func Write(w io.Writer, sc *scene.Scene, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid SVG size %dx%d", opts.Width, opts.Height)
	}
	vb := sc.ViewBox
	canvas := svgo.New(w)
	canvas.Startview(opts.Width, opts.Height,
		int(math.Floor(vb.MinX)), int(math.Floor(vb.MinY)),
		int(math.Ceil(vb.Width)), int(math.Ceil(vb.Height)))
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	if sc.Background != "" {
		canvas.Rect(int(vb.MinX), int(vb.MinY), int(vb.Width), int(vb.Height), "fill:"+sc.Background)
	}

	canvas.Gtransform(sc.Transform.SVG())
	canvas.Gtransform(fmt.Sprintf("scale(%g)", 1.0/precision))

	for _, l := range sc.Lines {
		canvas.Line(u(l.X1), u(l.Y1), u(l.X2), u(l.Y2),
			fmt.Sprintf("stroke:%s;stroke-width:%g;opacity:%g", l.Stroke, l.Width*precision, l.Opacity))
	}
	for i, d := range sc.Discs {
		canvas.Circle(u(d.X), u(d.Y), u(d.R),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g;cursor:pointer", d.Fill, d.Stroke, d.StrokeWidth*precision))
		if i < len(sc.Labels) {
			writeLabel(canvas, sc.Labels[i])
		}
	}

	canvas.Gend()
	canvas.Gend()
	writeLegend(canvas, sc)
	canvas.End()
	return nil
}

func writeLabel(canvas *svgo.SVG, l scene.Label) {
	canvas.Text(u(l.X), u(l.Y), l.Text,
		fmt.Sprintf("font-size:%g;fill:%s;text-anchor:%s;pointer-events:none", l.FontSize*precision, l.Fill, l.Anchor))
}

// writeLegend draws the legend in the top-left corner of the view box, outside
// the pan/zoom group.
func writeLegend(canvas *svgo.SVG, sc *scene.Scene) {
	if len(sc.Legend) == 0 {
		return
	}
	x := int(sc.ViewBox.MinX) + 16
	y := int(sc.ViewBox.MinY) + 20
	for _, e := range sc.Legend {
		canvas.Circle(x, y-4, 4, "fill:"+e.Color)
		canvas.Text(x+10, y, e.Label, "font-size:12;fill:"+scene.LabelColor)
		y += 18
	}
}

func u(f float64) int {
	return int(math.Round(f * precision))
}
