package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/corpusgraph/pkg/scene"
)

// pointsPerInch converts data units (used as points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// ApplyTransform bakes the scene's viewport transform into node positions.
	ApplyTransform bool
	// Labels adds node labels next to the discs.
	Labels bool
}

// ToDOT converts a scene to Graphviz DOT with pinned node positions.
// Graphviz's y axis points up, so y coordinates are negated.
func ToDOT(sc *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  inputscale=%g;\n", pointsPerInch)
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg(sc.Background))
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	labels := make(map[string]scene.Label, len(sc.Labels))
	for i, d := range sc.Discs {
		if i < len(sc.Labels) {
			labels[d.Ref.String()] = sc.Labels[i]
		}
	}

	for _, d := range sc.Discs {
		c, r := d.Center(), d.R
		if opts.ApplyTransform {
			c = sc.Transform.Apply(c)
			r *= sc.Transform.Scale
		}
		attrs := fmt.Sprintf("pos=\"%.2f,%.2f!\", width=%.4f, fillcolor=%q, color=%q, penwidth=%g",
			c.X, -c.Y, 2*r/pointsPerInch, d.Fill, d.Stroke, d.StrokeWidth)
		if l, ok := labels[d.Ref.String()]; ok && opts.Labels {
			attrs += fmt.Sprintf(", xlabel=%q, fontcolor=%q", l.Text, l.Fill)
		} else {
			attrs += ", label=\"\""
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", d.Ref.String(), attrs)
	}

	buf.WriteString("\n")
	for _, l := range sc.Lines {
		fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=%g];\n",
			l.Source.String(), l.Target.String(), withAlpha(l.Stroke, l.Opacity), l.Width)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func bg(c string) string {
	if c == "" {
		return "transparent"
	}
	return c
}

// withAlpha appends an alpha byte to a #rrggbb color.
func withAlpha(color string, opacity float64) string {
	if len(color) != 7 || color[0] != '#' || opacity >= 1 || opacity < 0 {
		return color
	}
	return fmt.Sprintf("%s%02x", color, int(opacity*255+0.5))
}

// RenderSVG renders DOT source to SVG with Graphviz's neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPNG renders DOT source to PNG with Graphviz's neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(ctx context.Context, dot string, format graphviz.Format, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, w); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}
