package view

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/errors"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/layout"
	"github.com/matzehuels/corpusgraph/pkg/panel"
	"github.com/matzehuels/corpusgraph/pkg/scene"
	"github.com/matzehuels/corpusgraph/pkg/selection"
	"github.com/matzehuels/corpusgraph/pkg/viewport"
)

// Option configures a View.
type Option func(*View)

// WithTopNodes sets how many core nodes are drawn. n <= 0 draws all nodes.
func WithTopNodes(n int) Option {
	return func(v *View) { v.top = n }
}

// WithPolicy sets the re-select policy.
func WithPolicy(p selection.Policy) Option {
	return func(v *View) { v.policy = p }
}

// WithPanelLimit sets the number of ranked connections in the panel.
func WithPanelLimit(n int) Option {
	return func(v *View) { v.limit = n }
}

// WithSurface attaches the rendering surface used to convert pointer
// coordinates.
func WithSurface(s viewport.Surface) Option {
	return func(v *View) { v.vp.Attach(s) }
}

// WithCapturer sets the pointer capture target used during drags.
func WithCapturer(c viewport.Capturer) Option {
	return func(v *View) { v.vp.SetCapturer(c) }
}

// View is one interactive graph view. It is not safe for concurrent use.
type View struct {
	id       string
	name     string
	strategy layout.Strategy
	theme    scene.Theme
	ends     graph.Endpoints

	top    int
	limit  int
	policy selection.Policy

	core    *graph.CoreDataset // full dataset
	shown   *graph.CoreDataset // top-N subset drawn
	sub     *graph.Subgraph
	nodes   []scene.Node
	items   []layout.Item
	layouts layout.Cache

	vp  *viewport.Viewport
	sel *selection.State
}

func newView(name string, strategy layout.Strategy, theme scene.Theme, ends graph.Endpoints, opts []Option) *View {
	v := &View{
		id:       uuid.NewString(),
		name:     name,
		strategy: strategy,
		theme:    theme,
		ends:     ends,
		top:      graph.DefaultTopNodes,
		limit:    panel.DefaultLimit,
		vp:       viewport.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.sel = selection.New(nil, ends, v.policy)
	return v
}

// NewCore returns a radial view of the single-mode graph.
func NewCore(d *graph.CoreDataset, opts ...Option) *View {
	v := newView(graph.GraphCore, layout.Radial(), scene.CoreTheme(), graph.SingleMode, opts)
	v.setCore(d)
	return v
}

// NewBipartite returns a two-column view of the named bipartite graph.
func NewBipartite(name string, g *graph.Subgraph, opts ...Option) (*View, error) {
	if name != graph.GraphAdjectiveNoun && name != graph.GraphVerbNoun {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "unknown bipartite graph %q", name)
	}
	v := newView(name, layout.BipartiteColumn(), scene.BipartiteTheme(), graph.Bipartite, opts)
	v.setSubgraph(g)
	return v, nil
}

// New returns the view of the named graph from the loaded datasets.
func New(name string, core *graph.CoreDataset, sem *graph.SemanticDataset, opts ...Option) (*View, error) {
	if name == graph.GraphCore {
		if core == nil {
			return nil, errors.New(errors.ErrCodeDatasetNotFound, "core dataset not loaded")
		}
		return NewCore(core, opts...), nil
	}
	if sem == nil {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "semantic dataset not loaded")
	}
	g, ok := sem.Subgraph(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "unknown graph %q", name)
	}
	return NewBipartite(name, g, opts...)
}

// ID returns the view's instance identifier.
func (v *View) ID() string { return v.id }

// Name returns the graph name.
func (v *View) Name() string { return v.name }

// Bipartite reports whether the view shows a bipartite graph.
func (v *View) Bipartite() bool { return v.sub != nil }

// Viewport exposes the view's pan/zoom state.
func (v *View) Viewport() *viewport.Viewport { return v.vp }

// Selected returns the selected node, if any.
func (v *View) Selected() (graph.NodeRef, bool) { return v.sel.Selected() }

// SetCore replaces the dataset of a core view and clears the selection.
func (v *View) SetCore(d *graph.CoreDataset) error {
	if v.sub != nil {
		return errors.New(errors.ErrCodeInvalidGraph, "view %s shows a bipartite graph", v.name)
	}
	v.setCore(d)
	return nil
}

// SetSubgraph replaces the dataset of a bipartite view and clears the
// selection.
func (v *View) SetSubgraph(g *graph.Subgraph) error {
	if v.sub == nil {
		return errors.New(errors.ErrCodeInvalidGraph, "view %s shows the core graph", v.name)
	}
	v.setSubgraph(g)
	return nil
}

func (v *View) setCore(d *graph.CoreDataset) {
	if d == nil {
		d = &graph.CoreDataset{}
	}
	v.core = d
	v.shown = d.Top(v.top)
	v.nodes = make([]scene.Node, len(v.shown.Nodes))
	v.items = make([]layout.Item, len(v.shown.Nodes))
	for i, n := range v.shown.Nodes {
		ref := graph.Ref(n.ID)
		v.nodes[i] = scene.Node{Ref: ref, Metric: n.ConnectionWeight}
		v.items[i] = layout.Item{Ref: ref, Rank: n.ConnectionWeight}
	}
	v.sel.Reset(v.shown.Edges)
}

func (v *View) setSubgraph(g *graph.Subgraph) {
	if g == nil {
		g = &graph.Subgraph{}
	}
	v.sub = g
	items := make([]layout.Item, 0, len(g.LeftNodes)+len(g.RightNodes))
	freq := make(map[graph.NodeRef]float64, cap(items))
	for _, n := range g.LeftNodes {
		ref := graph.NodeRef{Side: graph.SideLeft, ID: n.ID}
		items = append(items, layout.Item{Ref: ref, Rank: float64(n.Frequency)})
		freq[ref] = float64(n.Frequency)
	}
	for _, n := range g.RightNodes {
		ref := graph.NodeRef{Side: graph.SideRight, ID: n.ID}
		items = append(items, layout.Item{Ref: ref, Rank: float64(n.Frequency)})
		freq[ref] = float64(n.Frequency)
	}
	v.items = items
	ordered := layout.Ordered(v.strategy, items)
	v.nodes = make([]scene.Node, len(ordered))
	for i, it := range ordered {
		v.nodes[i] = scene.Node{Ref: it.Ref, Metric: freq[it.Ref]}
	}
	v.sel.Reset(g.Edges)
}

func (v *View) edges() []graph.Edge {
	if v.sub != nil {
		return v.sub.Edges
	}
	return v.shown.Edges
}

// Positions returns the cached layout of the drawn node set.
func (v *View) Positions() layout.Positions {
	return v.layouts.Get(v.strategy, v.items)
}

// =============================================================================
// Selection
// =============================================================================

// Select selects ref as if it had been clicked and reports whether the
// selection changed.
func (v *View) Select(ref graph.NodeRef) bool {
	return v.sel.Select(ref)
}

// SelectID resolves id in the full dataset and selects it. For bipartite
// graphs side may be SideNone, in which case the left column wins.
func (v *View) SelectID(id string, side graph.Side) error {
	if v.sub == nil {
		if _, ok := v.core.Node(id); !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "node %q not in %s", id, v.name)
		}
		v.sel.Select(graph.Ref(id))
		return nil
	}
	if side == graph.SideNone {
		s, ok := v.sub.Side(id)
		if !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "node %q not in %s", id, v.name)
		}
		side = s
	} else if !v.hasSide(id, side) {
		return errors.New(errors.ErrCodeNodeNotFound, "node %q not in %s column of %s", id, side, v.name)
	}
	v.sel.Select(graph.NodeRef{Side: side, ID: id})
	return nil
}

func (v *View) hasSide(id string, side graph.Side) bool {
	nodes := v.sub.LeftNodes
	if side == graph.SideRight {
		nodes = v.sub.RightNodes
	}
	for _, n := range nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// Input
// =============================================================================

// HitTest returns the topmost node drawn under the pointer-space point p.
func (v *View) HitTest(p r2.Vec) (graph.NodeRef, bool) {
	return v.Scene().HitTest(v.vp.DataPoint(p))
}

// PointerDown starts a drag unless the pointer landed on a node. It reports
// whether a drag was armed.
func (v *View) PointerDown(ev viewport.PointerEvent) bool {
	_, onNode := v.HitTest(ev.Point)
	return v.PointerDownPicked(ev, onNode)
}

// PointerDownPicked is PointerDown for front ends that pick nodes with their
// own hit shape. onNode is the result of that pick.
func (v *View) PointerDownPicked(ev viewport.PointerEvent, onNode bool) bool {
	ev.Target = viewport.TargetBackground
	if onNode {
		ev.Target = viewport.TargetNode
	}
	return v.vp.PointerDown(ev)
}

// PointerMove pans while a drag is armed and reports whether the pan changed.
func (v *View) PointerMove(ev viewport.PointerEvent) bool { return v.vp.PointerMove(ev) }

// PointerUp ends a drag.
func (v *View) PointerUp(ev viewport.PointerEvent) { v.vp.PointerUp(ev) }

// Click selects the node under the pointer-space point p. Clicks on the
// background leave the selection unchanged. It reports whether the selection
// changed.
func (v *View) Click(p r2.Vec) bool {
	ref, ok := v.HitTest(p)
	if !ok {
		return false
	}
	return v.sel.Select(ref)
}

// Wheel applies one wheel event.
func (v *View) Wheel(deltaY float64) { v.vp.Wheel(deltaY) }

// ZoomIn applies the zoom-in step.
func (v *View) ZoomIn() { v.vp.ZoomIn() }

// ZoomOut applies the zoom-out step.
func (v *View) ZoomOut() { v.vp.ZoomOut() }

// Reset restores the initial pan and zoom. The selection is kept.
func (v *View) Reset() { v.vp.Reset() }

// CenterSelection pans so the selected node is drawn at the center of the
// view box. The zoom is kept. It reports whether a node was selected.
func (v *View) CenterSelection() bool {
	ref, ok := v.sel.Selected()
	if !ok {
		return false
	}
	d, ok := v.Scene().Disc(ref)
	if !ok {
		return false
	}
	v.vp.Focus(d.Center())
	return true
}

// =============================================================================
// Output
// =============================================================================

// Scene builds the drawable scene for the current state.
func (v *View) Scene() *scene.Scene {
	sel, ok := v.sel.Selected()
	in := scene.Input{
		Theme:        v.theme,
		Positions:    v.Positions(),
		Nodes:        v.nodes,
		Edges:        v.edges(),
		Ends:         v.ends,
		Selected:     sel,
		HasSelection: ok,
		Highlight:    v.sel.Highlight(),
		Transform:    v.vp.Transform(),
	}
	if v.sub != nil {
		in.Legend = []scene.LegendEntry{
			{Label: v.sub.Metadata.LeftLabel, Color: v.theme.Palette(graph.SideLeft).Fill},
			{Label: v.sub.Metadata.RightLabel, Color: v.theme.Palette(graph.SideRight).Fill},
		}
	}
	return scene.Build(in)
}

// Panel summarizes the selection over the full dataset.
func (v *View) Panel() panel.Summary {
	sel, ok := v.sel.Selected()
	if v.sub != nil {
		return panel.Bipartite(v.name, v.sub, sel, ok, v.limit)
	}
	return panel.Core(v.core, sel, ok, v.limit)
}
