package cli

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/format"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/scene"
	"github.com/matzehuels/corpusgraph/pkg/viewport"
)

func TestCanvasLine(t *testing.T) {
	c := newCanvas(5, 3)
	c.line(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 4, Y: 2}, '·', "", false)

	var got []string
	for y := 0; y < c.rows; y++ {
		var row strings.Builder
		for x := 0; x < c.cols; x++ {
			row.WriteRune(c.at(x, y).r)
		}
		got = append(got, row.String())
	}
	want := []string{"·    ", " ··  ", "   ··"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("canvas = %q, want %q", got, want)
	}
}

func TestCanvasLayering(t *testing.T) {
	c := newCanvas(6, 1)
	c.line(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, '·', "", false)
	c.set(2, 0, '●', "", false)
	c.line(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0}, '•', "", true)

	if got := c.at(0, 0).r; got != '•' {
		t.Errorf("active line should overwrite inactive, got %q", got)
	}
	if got := c.at(2, 0).r; got != '●' {
		t.Errorf("lines must not overwrite discs, got %q", got)
	}

	c.text(0, 0, "abcdef", "")
	if got := c.at(1, 0).r; got != 'b' {
		t.Errorf("text should overwrite edges, got %q", got)
	}
	if got := c.at(2, 0).r; got != '●' {
		t.Errorf("text must stop at discs, got %q", got)
	}
	if got := c.at(3, 0).r; got != '•' {
		t.Errorf("text past a disc should not be drawn, got %q", got)
	}
	if c.at(6, 0) != nil || c.at(-1, 0) != nil {
		t.Error("out of range cells should be nil")
	}
}

func TestPick(t *testing.T) {
	sc := &scene.Scene{
		Transform: viewport.Affine{Scale: 1},
		Discs: []scene.Disc{
			{Ref: graph.Ref("a"), X: 10, Y: 10, R: 0.2},
			{Ref: graph.Ref("b"), X: 20, Y: 10, R: 0.2},
			{Ref: graph.Ref("c"), X: 30.9, Y: 10.9, R: 0.2},
		},
	}
	m := viewport.Identity()

	tests := []struct {
		name string
		p    r2.Vec
		want string
		ok   bool
	}{
		{"on a", r2.Vec{X: 10.5, Y: 10}, "a", true},
		{"near b", r2.Vec{X: 19.2, Y: 10}, "b", true},
		{"between", r2.Vec{X: 15, Y: 10}, "", false},
		{"row below is too far", r2.Vec{X: 10, Y: 11}, "", false},
		{"same cell as c", r2.Vec{X: 30.1, Y: 10.1}, "c", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := pick(sc, m, tt.p)
			if ok != tt.ok || ref.ID != tt.want {
				t.Errorf("pick(%v) = %v, %v; want %q, %v", tt.p, ref, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTermSurface(t *testing.T) {
	s := &termSurface{vb: scene.CoreTheme().ViewBox}
	if _, ok := s.DeviceTransform(); ok {
		t.Error("surface without a size should not be ready")
	}
	s.cols, s.rows = 100, 50
	m, ok := s.DeviceTransform()
	if !ok {
		t.Fatal("sized surface should be ready")
	}
	center := m.Apply(r2.Vec{})
	if math.Abs(center.X-50) > 1e-9 || math.Abs(center.Y-25) > 1e-9 {
		t.Errorf("view box center maps to %v, want (50, 25)", center)
	}
}

func newTestViewer(t *testing.T, changes <-chan struct{}) (ViewerModel, *dataset.Dir) {
	t.Helper()
	dir, b := loadTestBundle(t)
	m, err := NewViewerModel(context.Background(), dir, b, changes, format.Default())
	if err != nil {
		t.Fatal(err)
	}
	return update(t, m, tea.WindowSizeMsg{Width: 400, Height: 200}), dir
}

func update(t *testing.T, m ViewerModel, msg tea.Msg) ViewerModel {
	t.Helper()
	next, _ := m.Update(msg)
	vm, ok := next.(ViewerModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return vm
}

func TestViewerModelKeys(t *testing.T) {
	m, _ := newTestViewer(t, nil)
	if len(m.views) != 3 {
		t.Fatalf("%d views, want 3", len(m.views))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if got := m.current().Viewport().Scale(); got <= 1 {
		t.Errorf("+ should zoom in, scale = %v", got)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if got := m.current().Viewport().Scale(); got != 1 {
		t.Errorf("r should reset, scale = %v", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current().Name() != graph.GraphAdjectiveNoun {
		t.Errorf("tab: active = %s", m.current().Name())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.current().Name() != graph.GraphVerbNoun {
		t.Errorf("shift+tab should wrap around, active = %s", m.current().Name())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewerModelCenterKey(t *testing.T) {
	m, _ := newTestViewer(t, nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if p := m.current().Viewport().Pan(); p != (r2.Vec{}) {
		t.Errorf("c without a selection should not pan, pan = %v", p)
	}

	m.current().Select(graph.Ref("kot"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})

	sc := m.current().Scene()
	d, _ := sc.Disc(graph.Ref("kot"))
	if got := sc.Transform.Apply(d.Center()); math.Hypot(got.X, got.Y) > 1e-9 {
		t.Errorf("selected node drawn at %v, want the view box center", got)
	}
	if got := m.current().Viewport().Scale(); got <= 1 {
		t.Errorf("centering should keep the zoom, scale = %v", got)
	}
}

func TestViewerModelWheel(t *testing.T) {
	m, _ := newTestViewer(t, nil)
	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := m.current().Viewport().Scale(); got <= 1 {
		t.Errorf("wheel up should zoom in, scale = %v", got)
	}
	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := m.current().Viewport().Scale(); got >= 1 {
		t.Errorf("wheel down should zoom out, scale = %v", got)
	}
}

// cellOf returns the terminal cell of the disc drawn for ref.
func cellOf(t *testing.T, m ViewerModel, ref graph.NodeRef) (int, int) {
	t.Helper()
	sc := m.current().Scene()
	d, ok := sc.Disc(ref)
	if !ok {
		t.Fatalf("no disc for %v", ref)
	}
	dt, ok := m.surfaces[m.active].DeviceTransform()
	if !ok {
		t.Fatal("surface not ready")
	}
	p := dt.Apply(sc.Transform.Apply(d.Center()))
	return int(math.Floor(p.X)), int(math.Floor(p.Y)) + headerHeight
}

func TestViewerModelClickSelects(t *testing.T) {
	m, _ := newTestViewer(t, nil)
	x, y := cellOf(t, m, graph.Ref("dom"))

	m = update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})

	sel, ok := m.current().Selected()
	if !ok || sel != graph.Ref("dom") {
		t.Errorf("Selected() = %v, %v; want dom", sel, ok)
	}
	if !strings.Contains(m.View(), "dom") {
		t.Error("panel should show the selected node")
	}
}

func TestViewerModelPressOnNodeDoesNotDrag(t *testing.T) {
	for _, size := range [][2]int{{80, 24}, {120, 40}, {400, 200}} {
		m, _ := newTestViewer(t, nil)
		m = update(t, m, tea.WindowSizeMsg{Width: size[0], Height: size[1]})

		for range m.views {
			hits := 0
			for _, d := range m.current().Scene().Discs {
				x, y := cellOf(t, m, d.Ref)
				p := r2.Vec{X: float64(x) + 0.5, Y: float64(y-headerHeight) + 0.5}
				_, onNode := m.pickAt(p)

				m = update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
				if got := m.current().Viewport().Dragging(); got == onNode {
					t.Errorf("%dx%d %s %v: picked=%v dragging=%v", size[0], size[1], m.current().Name(), d.Ref, onNode, got)
				}
				if onNode {
					hits++
					m = update(t, m, tea.MouseMsg{X: x + 1, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
					if p := m.current().Viewport().Pan(); p != (r2.Vec{}) {
						t.Errorf("%dx%d %s %v: jitter after a node press panned to %v", size[0], size[1], m.current().Name(), d.Ref, p)
					}
				}
				m = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
			}
			if hits == 0 {
				t.Errorf("%dx%d %s: no node cell was pickable", size[0], size[1], m.current().Name())
			}
			m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		}
	}
}

func TestViewerModelJitteredClickSelects(t *testing.T) {
	m, _ := newTestViewer(t, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	x, y := cellOf(t, m, graph.Ref("dom"))

	m = update(t, m, tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: x + 1, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})

	if sel, ok := m.current().Selected(); !ok || sel != graph.Ref("dom") {
		t.Errorf("Selected() = %v, %v; want dom", sel, ok)
	}
	if p := m.current().Viewport().Pan(); p != (r2.Vec{}) {
		t.Errorf("pan = %v, want none", p)
	}
}

func TestViewerModelDragPans(t *testing.T) {
	m, _ := newTestViewer(t, nil)

	m = update(t, m, tea.MouseMsg{X: 0, Y: headerHeight, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 10, Y: headerHeight + 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: 10, Y: headerHeight + 5, Action: tea.MouseActionRelease})

	v := m.current()
	if p := v.Viewport().Pan(); p.X <= 0 || p.Y <= 0 {
		t.Errorf("drag right and down should pan right and down, pan = %v", p)
	}
	if v.Viewport().Dragging() {
		t.Error("release should end the drag")
	}
	if _, ok := v.Selected(); ok {
		t.Error("a drag must not select")
	}
}

func TestViewerModelReload(t *testing.T) {
	changes := make(chan struct{}, 1)
	m, _ := newTestViewer(t, changes)
	m.current().Select(graph.Ref("kot"))
	m.current().ZoomIn()

	if m.Init() == nil {
		t.Fatal("a viewer with a change channel should wait for changes")
	}

	next, cmd := m.Update(datasetChangedMsg{})
	m = next.(ViewerModel)
	if cmd == nil {
		t.Fatal("a change should trigger a reload")
	}
	reloaded, ok := cmd().(datasetReloadedMsg)
	if !ok || reloaded.err != nil {
		t.Fatalf("reload result = %+v", reloaded)
	}

	m = update(t, m, reloaded)
	if _, ok := m.current().Selected(); ok {
		t.Error("reload should clear the selection")
	}
	if got := m.current().Viewport().Scale(); got <= 1 {
		t.Errorf("reload should keep the viewport, scale = %v", got)
	}
	if !strings.Contains(m.View(), "Reloaded") {
		t.Error("status line should report the reload")
	}
}

func TestViewerModelViewBeforeResize(t *testing.T) {
	_, b := loadTestBundle(t)
	m, err := NewViewerModel(context.Background(), nil, b, nil, format.Default())
	if err != nil {
		t.Fatal(err)
	}
	if got := m.View(); got != "Loading…" {
		t.Errorf("View() = %q", got)
	}
}

func TestNewViewerModelEmptyBundle(t *testing.T) {
	if _, err := NewViewerModel(context.Background(), nil, &dataset.Bundle{}, nil, format.Default()); err == nil {
		t.Error("a bundle without graphs should be rejected")
	}
}
