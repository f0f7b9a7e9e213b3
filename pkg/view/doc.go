// Package view wires the layout, viewport, selection, scene and panel
// packages into one interactive graph view.
//
// A [View] displays either the single-mode core graph (radial layout) or one
// bipartite graph (two columns). It owns its viewport and selection; two views
// never share state. Input arrives as pointer events in pointer space:
//
//	v := view.NewCore(dataset)
//	v.PointerDown(ev)      // hit test decides between drag and node press
//	v.PointerMove(ev)      // pans while dragging
//	v.PointerUp(ev)
//	v.Click(p)             // selects the topmost node under p, if any
//	sc := v.Scene()        // drawable scene
//	sum := v.Panel()       // side panel over the full dataset
//
// Core views draw only the DefaultTopNodes heaviest nodes; the panel still
// reads the full dataset.
package view
