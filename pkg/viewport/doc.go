// Package viewport implements the pan/zoom controller of a graph view.
//
// Three coordinate spaces are involved:
//
//   - pointer space: raw device coordinates delivered with input events
//   - local space: the rendering surface's own coordinate system (for an SVG
//     surface, its viewBox); the surface's device transform maps local to
//     pointer space
//   - data space: where the layout package places nodes
//
// The [Viewport] owns a uniform scale and a pan offset and draws data space
// into local space as
//
//	local = scale · data + pan
//
// Dragging accumulates pan from deltas measured in local space, so panning
// speed in screen pixels is independent of the zoom level.
//
// # Failure handling
//
// Nothing here returns an error. A surface without a usable device transform
// makes pointer coordinates count as local coordinates (identity fallback),
// scale changes are silently clamped to [MinScale, MaxScale], and pointer
// capture release is best-effort.
//
// A Viewport is owned by exactly one view and is not safe for concurrent use.
package viewport
