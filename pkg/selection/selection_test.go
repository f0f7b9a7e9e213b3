package selection

import (
	"maps"
	"slices"
	"testing"

	"github.com/matzehuels/corpusgraph/pkg/graph"
	"pgregory.net/rapid"
)

func edges(pairs ...string) []graph.Edge {
	var out []graph.Edge
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, graph.Edge{Source: pairs[i], Target: pairs[i+1], Weight: 1})
	}
	return out
}

func neighborIDs(h Highlight) []string {
	var ids []string
	for ref := range h.Neighbors {
		ids = append(ids, ref.ID)
	}
	slices.Sort(ids)
	return ids
}

func TestSelectTransitions(t *testing.T) {
	s := New(edges("a", "b", "c", "a", "b", "c"), graph.SingleMode, PolicyKeep)

	if _, ok := s.Selected(); ok {
		t.Fatal("new state should be unselected")
	}
	if s.Highlight().IsNeighbor(graph.Ref("b")) {
		t.Error("unselected state should highlight nothing")
	}

	if !s.Select(graph.Ref("a")) {
		t.Error("first select should change state")
	}
	if got := neighborIDs(s.Highlight()); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("neighbors(a) = %v, want [b c]", got)
	}
	if !s.Highlight().IsActive(0) || !s.Highlight().IsActive(1) || s.Highlight().IsActive(2) {
		t.Errorf("active edges = %v, want {0, 1}", s.Highlight().Active)
	}

	if !s.Select(graph.Ref("b")) {
		t.Error("selecting another node should change state")
	}
	if ref, _ := s.Selected(); ref != graph.Ref("b") {
		t.Errorf("selected = %v, want b", ref)
	}
	if got := neighborIDs(s.Highlight()); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("neighbors(b) = %v, want [a c]", got)
	}

	before := s.Highlight()
	if s.Select(graph.Ref("b")) {
		t.Error("re-selecting should be a no-op")
	}
	if ref, ok := s.Selected(); !ok || ref != graph.Ref("b") {
		t.Errorf("selected = %v/%v after re-select, want b", ref, ok)
	}
	if !maps.Equal(before.Neighbors, s.Highlight().Neighbors) {
		t.Error("highlight changed on re-select")
	}
}

func TestToggle(t *testing.T) {
	s := New(edges("a", "b"), nil, PolicyToggle)
	s.Select(graph.Ref("a"))
	if !s.Select(graph.Ref("a")) {
		t.Error("toggle should report a change")
	}
	if _, ok := s.Selected(); ok {
		t.Error("toggle should deselect")
	}
	if len(s.Highlight().Neighbors) != 0 {
		t.Error("deselect should clear the highlight")
	}
}

func TestReset(t *testing.T) {
	s := New(edges("a", "b"), nil, PolicyKeep)
	s.Select(graph.Ref("a"))
	s.Reset(edges("x", "y"))
	if _, ok := s.Selected(); ok {
		t.Error("Reset should clear the selection")
	}
	s.Select(graph.Ref("x"))
	if got := neighborIDs(s.Highlight()); !slices.Equal(got, []string{"y"}) {
		t.Errorf("neighbors after reset = %v, want [y]", got)
	}
}

func TestBipartiteSidesDoNotCollide(t *testing.T) {
	// "light" exists in both columns.
	es := edges("light", "room", "dark", "light")
	left := graph.NodeRef{Side: graph.SideLeft, ID: "light"}
	right := graph.NodeRef{Side: graph.SideRight, ID: "light"}

	h := Compute(left, es, graph.Bipartite)
	if !h.IsNeighbor(graph.NodeRef{Side: graph.SideRight, ID: "room"}) || len(h.Neighbors) != 1 {
		t.Errorf("neighbors(left:light) = %v, want {right:room}", h.Neighbors)
	}
	if !h.IsActive(0) || h.IsActive(1) {
		t.Errorf("active(left:light) = %v, want {0}", h.Active)
	}

	h = Compute(right, es, graph.Bipartite)
	if !h.IsNeighbor(graph.NodeRef{Side: graph.SideLeft, ID: "dark"}) || len(h.Neighbors) != 1 {
		t.Errorf("neighbors(right:light) = %v, want {left:dark}", h.Neighbors)
	}
}

func TestSelectProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := []string{"a", "b", "c", "d", "e"}
		id := rapid.SampledFrom(ids)
		n := rapid.IntRange(0, 20).Draw(t, "edges")
		es := make([]graph.Edge, n)
		for i := range es {
			es[i] = graph.Edge{Source: id.Draw(t, "src"), Target: id.Draw(t, "dst"), Weight: 1}
		}

		s := New(es, graph.SingleMode, PolicyKeep)
		a := id.Draw(t, "a")
		b := id.Draw(t, "b")
		s.Select(graph.Ref(a))
		s.Select(graph.Ref(b))

		want := map[graph.NodeRef]struct{}{}
		for _, e := range es {
			if e.Source == b {
				want[graph.Ref(e.Target)] = struct{}{}
			}
			if e.Target == b {
				want[graph.Ref(e.Source)] = struct{}{}
			}
		}
		if ref, ok := s.Selected(); !ok || ref != graph.Ref(b) {
			t.Fatalf("selected = %v, want %v", ref, b)
		}
		if !maps.Equal(s.Highlight().Neighbors, want) {
			t.Fatalf("neighbors = %v, want %v", s.Highlight().Neighbors, want)
		}

		if s.Select(graph.Ref(b)) {
			t.Fatal("re-select reported a change")
		}
	})
}
