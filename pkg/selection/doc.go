// Package selection holds the per-view selection state machine and the
// highlight sets derived from it.
//
// A [State] is either unselected or selected on exactly one [graph.NodeRef].
// Selecting a different node replaces the selection directly; selecting the
// already selected node is a no-op under [PolicyKeep] (the default) and
// deselects under [PolicyToggle]. The selection is only cleared when the
// view's dataset changes ([State.Reset]).
//
// After every transition the state recomputes its [Highlight]: the neighbors
// of the selected node, treating edges as undirected, and the indices of the
// edges incident to it.
package selection
