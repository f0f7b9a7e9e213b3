// Package render groups output renderers that sit on top of pkg/scene.
//
// The [nodelink] subpackage converts a scene into Graphviz DOT with pinned
// node positions and renders it to SVG or PNG in-process. The native SVG sink
// lives in pkg/scene/svg.
//
// [nodelink]: github.com/matzehuels/corpusgraph/pkg/render/nodelink
package render
