// Package nodelink renders graph scenes through Graphviz.
//
// # Overview
//
// [ToDOT] turns a [scene.Scene] into DOT source in which every node carries
// a pinned position (pos="x,y!") taken from the scene, so Graphviz does not
// lay anything out itself. The neato engine honors pinned positions, which
// makes the output match the native SVG sink geometrically.
//
//	dot := nodelink.ToDOT(sc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - ApplyTransform: bake the scene's pan/zoom transform into the positions
//   - Labels: emit node labels (off by default; dense graphs get cluttered)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz
// as WebAssembly; no system Graphviz installation is required.
package nodelink
