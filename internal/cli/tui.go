package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/format"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/panel"
	"github.com/matzehuels/corpusgraph/pkg/scene"
	"github.com/matzehuels/corpusgraph/pkg/view"
	"github.com/matzehuels/corpusgraph/pkg/viewport"
)

// Terminal layout.
const (
	cellAspect   = 2.0 // terminal cells are about twice as tall as wide
	panelWidth   = 34
	minMapWidth  = 20
	headerHeight = 1
	footerHeight = 1
	mousePointer = 1
)

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	panelStyle       = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorDim).
				PaddingLeft(1)
)

// =============================================================================
// Terminal surface
// =============================================================================

// termSurface maps a view box onto the map area of the terminal, in cells.
type termSurface struct {
	vb         viewport.ViewBox
	cols, rows int
}

// DeviceTransform implements viewport.Surface. It is not ready until the
// terminal size is known.
func (s *termSurface) DeviceTransform() (viewport.Matrix, bool) {
	return s.vb.FitCells(float64(s.cols), float64(s.rows), cellAspect)
}

// viewBoxOf returns the view box a view is drawn into.
func viewBoxOf(v *view.View) viewport.ViewBox {
	if v.Bipartite() {
		return scene.BipartiteTheme().ViewBox
	}
	return scene.CoreTheme().ViewBox
}

// =============================================================================
// Canvas
// =============================================================================

type cell struct {
	r     rune
	color string
	bold  bool
}

// canvas rasterizes a scene into terminal cells.
type canvas struct {
	cols, rows int
	cells      []cell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return nil
	}
	return &c.cells[y*c.cols+x]
}

func (c *canvas) set(x, y int, r rune, color string, bold bool) {
	if p := c.at(x, y); p != nil {
		*p = cell{r: r, color: color, bold: bold}
	}
}

// line draws a segment with Bresenham's algorithm. Active lines overwrite
// inactive ones but never discs.
func (c *canvas) line(a, b r2.Vec, r rune, color string, bold bool) {
	x0, y0 := int(math.Floor(a.X)), int(math.Floor(a.Y))
	x1, y1 := int(math.Floor(b.X)), int(math.Floor(b.Y))
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		if p := c.at(x0, y0); p != nil && (p.r == ' ' || (bold && !p.bold && isEdgeRune(p.r))) {
			*p = cell{r: r, color: color, bold: bold}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// text writes s starting at (x, y) without overwriting discs.
func (c *canvas) text(x, y int, s string, color string) {
	for i, r := range []rune(s) {
		p := c.at(x+i, y)
		if p == nil {
			continue
		}
		if p.r != ' ' && !isEdgeRune(p.r) {
			return
		}
		*p = cell{r: r, color: color}
	}
}

func isEdgeRune(r rune) bool { return r == '·' || r == '•' }

// String renders the canvas, grouping runs of equally styled cells.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		row := c.cells[y*c.cols : (y+1)*c.cols]
		for i := 0; i < len(row); {
			j := i
			var run strings.Builder
			for j < len(row) && row[j].color == row[i].color && row[j].bold == row[i].bold {
				run.WriteRune(row[j].r)
				j++
			}
			if row[i].color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[i].color)).Bold(row[i].bold).Render(run.String()))
			}
			i = j
		}
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// drawScene rasterizes sc through the device transform m.
func drawScene(c *canvas, sc *scene.Scene, m viewport.Matrix) {
	dev := func(x, y float64) r2.Vec {
		return m.Apply(sc.Transform.Apply(r2.Vec{X: x, Y: y}))
	}
	for _, active := range []bool{false, true} {
		for _, l := range sc.Lines {
			if l.Active != active {
				continue
			}
			r := '·'
			if active {
				r = '•'
			}
			c.line(dev(l.X1, l.Y1), dev(l.X2, l.Y2), r, l.Stroke, active)
		}
	}
	for _, d := range sc.Discs {
		p := dev(d.X, d.Y)
		r := '●'
		if d.State == scene.StateSelected {
			r = '◉'
		}
		c.set(int(math.Floor(p.X)), int(math.Floor(p.Y)), r, d.Fill, d.State != scene.StateBase)
	}
	// Selected and neighbor labels claim space first.
	for _, state := range []scene.NodeState{scene.StateSelected, scene.StateNeighbor, scene.StateBase} {
		for i, d := range sc.Discs {
			if d.State != state || i >= len(sc.Labels) {
				continue
			}
			l := sc.Labels[i]
			center := dev(d.X, d.Y)
			x, y := int(math.Floor(center.X))+2, int(math.Floor(center.Y))
			if l.Anchor == scene.AnchorEnd {
				x = int(math.Floor(center.X)) - 1 - len([]rune(l.Text))
			}
			color := l.Fill
			if state == scene.StateBase {
				color = string(colorDim)
			}
			c.text(x, y, l.Text, color)
		}
	}
}

// pick returns the disc closest to the device point p within one cell, or
// within the disc's own device radius when that is larger. A point inside the
// cell a disc is drawn in always hits it.
func pick(sc *scene.Scene, m viewport.Matrix, p r2.Vec) (graph.NodeRef, bool) {
	best, bestDist := graph.NodeRef{}, math.Inf(1)
	for _, d := range sc.Discs {
		c := m.Apply(sc.Transform.Apply(d.Center()))
		delta := r2.Sub(p, c)
		delta.Y *= cellAspect
		dist := r2.Norm(delta)
		reach := math.Max(1, d.R*sc.Transform.Scale*m.A)
		if !(dist <= reach || sameCell(p, c)) {
			continue
		}
		if dist < bestDist {
			best, bestDist = d.Ref, dist
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// sameCell reports whether a and b fall in the same terminal cell.
func sameCell(a, b r2.Vec) bool {
	return math.Floor(a.X) == math.Floor(b.X) && math.Floor(a.Y) == math.Floor(b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// =============================================================================
// Model
// =============================================================================

// datasetChangedMsg is sent when the dataset files change on disk.
type datasetChangedMsg struct{}

// datasetReloadedMsg carries the result of a reload.
type datasetReloadedMsg struct {
	bundle *dataset.Bundle
	err    error
}

// waitForChange returns a command that blocks until the next change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return datasetChangedMsg{}
	}
}

// reload returns a command that reads the datasets again.
func reload(ctx context.Context, l dataset.Loader) tea.Cmd {
	return func() tea.Msg {
		b, err := dataset.Load(ctx, l)
		return datasetReloadedMsg{bundle: b, err: err}
	}
}

// ViewerModel is the bubbletea model of the interactive viewer. It owns one
// view per available graph; tab cycles between them.
type ViewerModel struct {
	ctx     context.Context
	loader  dataset.Loader
	changes <-chan struct{}
	f       *format.Formatter

	views    []*view.View
	surfaces []*termSurface
	active   int

	width, height int
	pressed       bool
	moved         bool
	status        string
}

// NewViewerModel creates the viewer over b. changes may be nil to disable
// live reload.
func NewViewerModel(ctx context.Context, l dataset.Loader, b *dataset.Bundle, changes <-chan struct{}, f *format.Formatter, opts ...view.Option) (ViewerModel, error) {
	m := ViewerModel{ctx: ctx, loader: l, changes: changes, f: f}
	for _, name := range graph.GraphNames {
		if !b.Has(name) {
			continue
		}
		v, err := view.New(name, b.Core, b.Semantic, opts...)
		if err != nil {
			return m, err
		}
		s := &termSurface{vb: viewBoxOf(v)}
		v.Viewport().Attach(s)
		m.views = append(m.views, v)
		m.surfaces = append(m.surfaces, s)
	}
	if len(m.views) == 0 {
		return m, fmt.Errorf("no graphs to show")
	}
	return m, nil
}

func (m ViewerModel) current() *view.View { return m.views[m.active] }

func (m ViewerModel) Init() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return waitForChange(m.changes)
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols, rows := m.mapSize()
		for _, s := range m.surfaces {
			s.cols, s.rows = cols, rows
		}

	case tea.KeyMsg:
		v := m.current()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			v.ZoomIn()
		case "-", "_":
			v.ZoomOut()
		case "r":
			v.Reset()
		case "c":
			v.CenterSelection()
		case "tab":
			m.active = (m.active + 1) % len(m.views)
		case "shift+tab":
			m.active = (m.active + len(m.views) - 1) % len(m.views)
		}

	case tea.MouseMsg:
		m.mouse(msg)

	case datasetChangedMsg:
		m.status = "Reloading…"
		return m, reload(m.ctx, m.loader)

	case datasetReloadedMsg:
		if msg.err != nil {
			m.status = "Reload failed: " + msg.err.Error()
		} else {
			m.apply(msg.bundle)
			m.status = "Reloaded"
		}
		return m, waitForChange(m.changes)
	}
	return m, nil
}

// mouse maps terminal mouse events onto the current view: the left button
// drags or clicks, the wheel zooms.
func (m *ViewerModel) mouse(msg tea.MouseMsg) {
	v := m.current()
	cols, rows := m.mapSize()
	p := r2.Vec{X: float64(msg.X) + 0.5, Y: float64(msg.Y-headerHeight) + 0.5}
	inside := msg.X < cols && msg.Y >= headerHeight && msg.Y < headerHeight+rows
	ev := viewport.PointerEvent{PointerID: mousePointer, Point: p}

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		v.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown && inside:
		v.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.pressed, m.moved = true, false
		_, onNode := m.pickAt(p)
		v.PointerDownPicked(ev, onNode)
	case msg.Action == tea.MouseActionMotion && m.pressed:
		if v.Viewport().Dragging() {
			m.moved = true
			v.PointerMove(ev)
		}
	case msg.Action == tea.MouseActionRelease && m.pressed:
		m.pressed = false
		v.PointerUp(ev)
		if !m.moved && inside {
			m.click(p)
		}
	}
}

// click selects the node nearest the pointer.
func (m *ViewerModel) click(p r2.Vec) {
	if ref, ok := m.pickAt(p); ok {
		m.current().Select(ref)
	}
}

// pickAt finds the node under the terminal point p. Terminal cells are
// coarse, so a point within one cell of a disc counts as a hit. Presses and
// clicks both use it.
func (m *ViewerModel) pickAt(p r2.Vec) (graph.NodeRef, bool) {
	dt, ok := m.surfaces[m.active].DeviceTransform()
	if !ok {
		return graph.NodeRef{}, false
	}
	return pick(m.current().Scene(), dt, p)
}

// apply swaps in a reloaded bundle. Each view keeps its viewport and loses
// its selection.
func (m *ViewerModel) apply(b *dataset.Bundle) {
	for _, v := range m.views {
		if v.Bipartite() {
			if b.Semantic == nil {
				continue
			}
			if g, ok := b.Semantic.Subgraph(v.Name()); ok {
				_ = v.SetSubgraph(g)
			}
			continue
		}
		if b.Core != nil {
			_ = v.SetCore(b.Core)
		}
	}
}

// mapSize returns the size of the map area in cells.
func (m ViewerModel) mapSize() (cols, rows int) {
	cols = m.width
	if m.width-panelWidth >= minMapWidth {
		cols = m.width - panelWidth - 1
	}
	rows = m.height - headerHeight - footerHeight
	return max(cols, 0), max(rows, 0)
}

func (m ViewerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading…"
	}
	v := m.current()
	cols, rows := m.mapSize()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')

	c := newCanvas(cols, rows)
	if dt, ok := m.surfaces[m.active].DeviceTransform(); ok {
		drawScene(c, v.Scene(), dt)
	}
	body := c.String()
	if cols < m.width {
		side := panelStyle.Width(panelWidth).Height(rows).MaxHeight(rows).Render(m.panelView(v.Panel()))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, side)
	}
	b.WriteString(body)
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render(truncate("drag pan · wheel zoom · click select · +/- zoom · r reset · c center · tab graph · q quit  "+m.status, m.width)))
	return b.String()
}

func (m ViewerModel) header() string {
	tabs := make([]string, len(m.views))
	for i, v := range m.views {
		style := tabInactiveStyle
		if i == m.active {
			style = tabActiveStyle
		}
		tabs[i] = style.Render(v.Name())
	}
	zoom := StyleNumber.Render(m.f.Zoom(m.current().Viewport().Scale()))
	return strings.Join(tabs, "  ") + "   " + zoom
}

// panelView renders the side panel for the narrow terminal column.
func (m ViewerModel) panelView(s panel.Summary) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		b.WriteString(truncate(fmt.Sprintf(format, args...), panelWidth-2))
		b.WriteByte('\n')
	}
	if !s.HasSelection() {
		if s.LeftLabel == "" {
			b.WriteString(StyleDim.Render("Click a node") + "\n")
			return b.String()
		}
		for _, col := range []struct {
			label string
			nodes []graph.SemanticNode
		}{{s.LeftLabel, s.TopLeft}, {s.RightLabel, s.TopRight}} {
			b.WriteString(StyleTitle.Render("Top "+col.label) + "\n")
			for _, n := range col.nodes {
				line("%-20s %s", truncate(n.ID, 20), m.f.Int(n.Frequency))
			}
		}
		return b.String()
	}

	b.WriteString(StyleTitle.Render(truncate(s.Selected, panelWidth-2)) + "\n")
	if s.Direction != "" {
		line("%s", s.Direction)
	}
	if d := s.Details; d != nil {
		line("freq %s · nbrs %s · w %s", m.f.Int(d.Frequency), m.f.Int(d.UniqueNeighbors), m.f.Weight(d.ConnectionWeight))
	}
	b.WriteByte('\n')
	if len(s.Connections) == 0 {
		b.WriteString(StyleDim.Render("No connections") + "\n")
	}
	for _, conn := range s.Connections {
		w := bandStyles[conn.Band].Render(m.f.Weight(conn.Weight))
		b.WriteString(fmt.Sprintf("%-22s %s\n", truncate(conn.ID, 22), w))
	}
	return b.String()
}
