// Package scene turns a laid-out graph, its viewport transform and its
// selection into a flat, drawable scene description.
//
// A [Scene] holds lines for edges, discs for nodes and labels beside the
// discs, all in data-space coordinates, plus the viewport [viewport.Affine]
// that a surface applies when drawing and the [viewport.ViewBox] of the
// surface itself. Sinks such as the svg subpackage and the Graphviz renderer
// in render/nodelink only draw what Build produced; they never consult the
// selection or layout again.
//
// Node radius grows with the node's metric relative to the largest metric in
// the same column:
//
//	r = RBase + metric/max(1, maxMetric) · RSpread
//
// and is multiplied by [SelectedScale] for the selected node. Edges with an
// endpoint that has no position (for example after top-N filtering) are
// skipped.
package scene
