// Package pkg provides the core libraries for corpusgraph, an interactive
// viewer for word co-occurrence graphs.
//
// # Overview
//
// corpusgraph draws two kinds of graph produced by a corpus analysis: the
// language core, a single-mode graph of the most connected words laid out on
// a circle, and two bipartite graphs (adjective-noun and verb-noun)
// laid out as two columns. The pkg directory is organized into four areas:
//
//  1. Data - dataset types, loading and live reload ([graph], [dataset])
//  2. Geometry - node placement and pan/zoom ([layout], [viewport])
//  3. Presentation - selection, scenes, panels and renderers ([selection],
//     [scene], [panel], [render])
//  4. Infrastructure - caching, errors, formatting, hooks ([cache], [errors],
//     [format], [observability], [buildinfo])
//
// [view] ties the areas together: it owns one graph, its layout, its
// viewport and its selection, and answers the questions a front end asks.
//
// # Architecture
//
// The typical data flow:
//
//	language_core.json / semantic_graphs.json
//	         ↓
//	    [dataset] package (load both files, fingerprint, watch)
//	         ↓
//	    [view] package (layout + viewport + selection)
//	         ↓
//	    [scene] package (drawable lines, discs, labels)
//	         ↓
//	    SVG / DOT / PNG / JSON / terminal
//
// # Quick Start
//
// Load a dataset directory and render the adjective-noun graph with one
// node selected:
//
//	dir, _ := dataset.Open("out/")
//	b, _ := dataset.Load(ctx, dir)
//
//	v, _ := view.New(graph.GraphAdjectiveNoun, b.Core, b.Semantic)
//	_ = v.SelectID("duzy", graph.SideLeft)
//	v.Viewport().ZoomIn()
//
//	_ = svg.Write(w, v.Scene(), svg.DefaultOptions())
//
// # Main Packages
//
// [graph] - Dataset types for both files, validation, top-N filtering and
// node references that keep the two columns of a bipartite graph apart.
//
// [layout] - Radial placement of the core graph (most connected word at the
// top, the rest clockwise) and column placement for bipartite graphs.
//
// [viewport] - Pan and zoom state, the affine transform it applies, and
// pointer/wheel handling with clamped scale.
//
// [selection] - The selected node and the set of edges and neighbors it
// highlights.
//
// [scene] - Turns positions, sizes and highlight state into a drawable scene
// with a theme per graph kind. [scene/svg] writes it as SVG.
//
// [render/nodelink] - Converts a scene to Graphviz DOT with pinned positions
// and renders it to PNG in-process.
//
// [panel] - The side panel: node details, ranked connections with weight
// bands, and the most frequent nodes of each column.
//
// [cache] - Artifact cache with file, redis and null backends.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/viewport/...    # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/graph
// [dataset]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/dataset
// [layout]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/viewport
// [selection]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/selection
// [scene]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/scene
// [scene/svg]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/scene/svg
// [panel]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/panel
// [render]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/render/nodelink
// [view]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/view
// [cache]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/errors
// [format]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/format
// [observability]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/corpusgraph/pkg/buildinfo
package pkg
