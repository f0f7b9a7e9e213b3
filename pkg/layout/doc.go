// Package layout assigns static data-space positions to graph nodes.
//
// A layout is a pure function of the node set: it is computed once, before
// any interaction, and never changes with pan or zoom. Positions live in an
// abstract coordinate space centered on the origin; the viewport package maps
// that space onto a rendering surface.
//
// Two strategies are available, selected by the [Strategy] tagged variant:
//
//   - [Radial]: nodes placed evenly on a circle of fixed radius, node 0 at
//     the top, proceeding clockwise (screen y grows downward)
//   - [BipartiteColumn]: left and right node sets in two vertical columns,
//     each ordered by descending rank with ties in input order
//
// Degenerate inputs (zero nodes, a single node in a column) never divide by
// zero: an empty input yields an empty [Positions] map and a single node is
// centered in its column.
//
// [Cache] keeps the last computed layout and recomputes only when the node
// set changes, which is how views avoid re-layout on every pointer event.
package layout
