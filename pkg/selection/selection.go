package selection

import "github.com/matzehuels/corpusgraph/pkg/graph"

// Policy decides what re-selecting the selected node does.
type Policy int

const (
	// PolicyKeep leaves the selection unchanged.
	PolicyKeep Policy = iota
	// PolicyToggle clears the selection.
	PolicyToggle
)

// Highlight is the set of nodes and edges emphasized for a selection.
// The zero value highlights nothing.
type Highlight struct {
	Neighbors map[graph.NodeRef]struct{}
	Active    map[int]struct{}
}

// IsNeighbor reports whether ref is adjacent to the selected node.
func (h Highlight) IsNeighbor(ref graph.NodeRef) bool {
	_, ok := h.Neighbors[ref]
	return ok
}

// IsActive reports whether the edge at index i is incident to the selection.
func (h Highlight) IsActive(i int) bool {
	_, ok := h.Active[i]
	return ok
}

// Compute derives the highlight of sel over edges. Edges are treated as
// undirected; ends resolves their endpoints to node references.
func Compute(sel graph.NodeRef, edges []graph.Edge, ends graph.Endpoints) Highlight {
	h := Highlight{
		Neighbors: make(map[graph.NodeRef]struct{}),
		Active:    make(map[int]struct{}),
	}
	for i, e := range edges {
		src, dst := ends(e)
		switch sel {
		case src:
			h.Neighbors[dst] = struct{}{}
		case dst:
			h.Neighbors[src] = struct{}{}
		default:
			continue
		}
		h.Active[i] = struct{}{}
	}
	return h
}

// State is the selection of one view. The zero value is not usable; call New.
type State struct {
	policy Policy
	ends   graph.Endpoints
	edges  []graph.Edge

	selected graph.NodeRef
	ok       bool
	hl       Highlight
}

// New returns an unselected state over edges. A nil ends resolves edges as
// single-mode.
func New(edges []graph.Edge, ends graph.Endpoints, policy Policy) *State {
	if ends == nil {
		ends = graph.SingleMode
	}
	return &State{policy: policy, ends: ends, edges: edges}
}

// Selected returns the selected node, if any.
func (s *State) Selected() (graph.NodeRef, bool) {
	return s.selected, s.ok
}

// Highlight returns the highlight of the current selection.
func (s *State) Highlight() Highlight { return s.hl }

// Select applies a hit on ref and reports whether the state changed.
func (s *State) Select(ref graph.NodeRef) bool {
	if s.ok && s.selected == ref {
		if s.policy != PolicyToggle {
			return false
		}
		s.clear()
		return true
	}
	s.selected, s.ok = ref, true
	s.hl = Compute(ref, s.edges, s.ends)
	return true
}

// Reset clears the selection and replaces the edge list. It is called when
// the dataset backing the view changes.
func (s *State) Reset(edges []graph.Edge) {
	s.edges = edges
	s.clear()
}

func (s *State) clear() {
	s.selected, s.ok = graph.NodeRef{}, false
	s.hl = Highlight{}
}
