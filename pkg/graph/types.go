package graph

import "fmt"

// =============================================================================
// Constants
// =============================================================================

// Graph names addressable from the CLI and the preview server.
const (
	GraphCore          = "core"
	GraphAdjectiveNoun = "adjective_noun"
	GraphVerbNoun      = "verb_noun"
)

// Dataset file names inside a dataset directory.
const (
	CoreFile     = "language_core.json"
	SemanticFile = "semantic_bipartite_graphs.json"
)

// GraphNames lists every graph name in presentation order.
var GraphNames = []string{GraphCore, GraphAdjectiveNoun, GraphVerbNoun}

// =============================================================================
// Node identity
// =============================================================================

// Side identifies the column a node belongs to in a bipartite graph.
type Side int

const (
	// SideNone is used by single-mode graphs.
	SideNone Side = iota
	// SideLeft is the left column (adjectives, verbs).
	SideLeft
	// SideRight is the right column (nouns).
	SideRight
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// ParseSide parses a side name as produced by [Side.String].
func ParseSide(s string) (Side, error) {
	switch s {
	case "", "none":
		return SideNone, nil
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	}
	return SideNone, fmt.Errorf("unknown side %q (want left, right or none)", s)
}

// NodeRef identifies a node within one graph.
type NodeRef struct {
	Side Side
	ID   string
}

// Ref returns a single-mode reference for id.
func Ref(id string) NodeRef { return NodeRef{ID: id} }

// String returns "id" for single-mode refs and "side:id" otherwise.
func (r NodeRef) String() string {
	if r.Side == SideNone {
		return r.ID
	}
	return r.Side.String() + ":" + r.ID
}

// =============================================================================
// Edges
// =============================================================================

// Edge is a weighted connection between two node ids.
// In bipartite graphs Source names a left node and Target a right node.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Endpoints resolves an edge's endpoint ids to node references.
type Endpoints func(e Edge) (source, target NodeRef)

// SingleMode resolves both endpoints to single-mode refs.
func SingleMode(e Edge) (NodeRef, NodeRef) {
	return NodeRef{ID: e.Source}, NodeRef{ID: e.Target}
}

// Bipartite resolves the source to the left column and the target to the right.
func Bipartite(e Edge) (NodeRef, NodeRef) {
	return NodeRef{Side: SideLeft, ID: e.Source}, NodeRef{Side: SideRight, ID: e.Target}
}

// =============================================================================
// Single-mode dataset
// =============================================================================

// CoreNode is a node of the single-mode language core graph.
type CoreNode struct {
	ID               string  `json:"id"`
	Frequency        int     `json:"frequency"`
	UniqueNeighbors  int     `json:"unique_neighbors"`
	ConnectionWeight float64 `json:"connection_weight"`
}

// CoreMetadata describes how a core dataset was produced.
type CoreMetadata struct {
	TargetUniqueWords   int     `json:"target_unique_words"`
	UniqueWordsObserved int     `json:"unique_words_observed"`
	TotalTokensObserved int     `json:"total_tokens_observed"`
	ArticlesUsed        int     `json:"articles_used,omitempty"`
	FilesConsidered     int     `json:"files_considered,omitempty"`
	LemmaStrategy       string  `json:"lemma_strategy,omitempty"`
	MinFrequency        int     `json:"min_frequency,omitempty"`
	MinConnectionWeight float64 `json:"min_connection_weight,omitempty"`
	MaxNodes            int     `json:"max_nodes,omitempty"`
	SelectedNodes       int     `json:"selected_nodes,omitempty"`
	SelectedEdges       int     `json:"selected_edges,omitempty"`
}

// CoreDataset is the payload of the single-mode graph.
type CoreDataset struct {
	Metadata CoreMetadata `json:"metadata"`
	Nodes    []CoreNode   `json:"nodes"`
	Edges    []Edge       `json:"edges"`
}

// =============================================================================
// Bipartite dataset
// =============================================================================

// SemanticNode is a node of a bipartite graph column.
type SemanticNode struct {
	ID        string `json:"id"`
	Frequency int    `json:"frequency"`
}

// SubgraphMetadata carries display labels and counts of one bipartite graph.
type SubgraphMetadata struct {
	LeftLabel  string `json:"left_label"`
	RightLabel string `json:"right_label"`
	LeftCount  int    `json:"left_count"`
	RightCount int    `json:"right_count"`
	EdgeCount  int    `json:"edge_count"`
}

// Subgraph is one bipartite graph.
type Subgraph struct {
	Metadata   SubgraphMetadata `json:"metadata"`
	LeftNodes  []SemanticNode   `json:"left_nodes"`
	RightNodes []SemanticNode   `json:"right_nodes"`
	Edges      []Edge           `json:"edges"`
}

// SemanticMetadata describes how the bipartite graphs were produced.
type SemanticMetadata struct {
	TopN                int    `json:"top_n"`
	MinConnection       int    `json:"min_connection"`
	TargetTokens        int    `json:"target_tokens"`
	TotalTokensObserved int    `json:"total_tokens_observed"`
	LemmaStrategy       string `json:"lemma_strategy"`
	POSStrategy         string `json:"pos_strategy"`
}

// SemanticDataset is the payload holding both bipartite graphs.
type SemanticDataset struct {
	Metadata      SemanticMetadata `json:"metadata"`
	AdjectiveNoun Subgraph         `json:"adjective_noun"`
	VerbNoun      Subgraph         `json:"verb_noun"`
}

// Subgraph returns the bipartite graph registered under name.
func (d *SemanticDataset) Subgraph(name string) (*Subgraph, bool) {
	switch name {
	case GraphAdjectiveNoun:
		return &d.AdjectiveNoun, true
	case GraphVerbNoun:
		return &d.VerbNoun, true
	}
	return nil, false
}
