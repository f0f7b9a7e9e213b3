package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/matzehuels/corpusgraph/pkg/errors"
)

// =============================================================================
// Decoding
// =============================================================================

// UnmarshalCore decodes and validates a core dataset.
func UnmarshalCore(data []byte) (*CoreDataset, error) {
	var d CoreDataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode core dataset")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// UnmarshalSemantic decodes and validates a semantic dataset.
func UnmarshalSemantic(data []byte) (*SemanticDataset, error) {
	var d SemanticDataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode semantic dataset")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadCoreFile reads a core dataset from path.
func ReadCoreFile(path string) (*CoreDataset, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalCore(data)
}

// ReadSemanticFile reads a semantic dataset from path.
func ReadSemanticFile(path string) (*SemanticDataset, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalSemantic(data)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeDatasetNotFound, err, "dataset %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// =============================================================================
// Encoding
// =============================================================================

// WriteJSON writes v as indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Marshal encodes v as indented JSON.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks node uniqueness and value ranges.
// Edges referencing unknown nodes are tolerated; renderers skip them.
func (d *CoreDataset) Validate() error {
	seen := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidDataset, "node with empty id")
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Frequency < 0 {
			return errors.New(errors.ErrCodeInvalidDataset, "node %q has negative frequency", n.ID)
		}
		if n.ConnectionWeight < 0 {
			return errors.New(errors.ErrCodeInvalidDataset, "node %q has negative connection weight", n.ID)
		}
	}
	return validateEdges(d.Edges)
}

// Validate checks both bipartite graphs.
func (d *SemanticDataset) Validate() error {
	if err := d.AdjectiveNoun.Validate(); err != nil {
		return fmt.Errorf("%s: %w", GraphAdjectiveNoun, err)
	}
	if err := d.VerbNoun.Validate(); err != nil {
		return fmt.Errorf("%s: %w", GraphVerbNoun, err)
	}
	return nil
}

// Validate checks per-side uniqueness; ids may repeat across sides.
func (g *Subgraph) Validate() error {
	for _, col := range []struct {
		side  Side
		nodes []SemanticNode
	}{{SideLeft, g.LeftNodes}, {SideRight, g.RightNodes}} {
		seen := make(map[string]struct{}, len(col.nodes))
		for _, n := range col.nodes {
			if n.ID == "" {
				return errors.New(errors.ErrCodeInvalidDataset, "%s node with empty id", col.side)
			}
			if _, dup := seen[n.ID]; dup {
				return errors.New(errors.ErrCodeInvalidDataset, "duplicate %s node id %q", col.side, n.ID)
			}
			seen[n.ID] = struct{}{}
			if n.Frequency < 0 {
				return errors.New(errors.ErrCodeInvalidDataset, "%s node %q has negative frequency", col.side, n.ID)
			}
		}
	}
	return validateEdges(g.Edges)
}

func validateEdges(edges []Edge) error {
	for i, e := range edges {
		if e.Weight <= 0 {
			return errors.New(errors.ErrCodeInvalidDataset, "edge %d (%s→%s) has non-positive weight %v", i, e.Source, e.Target, e.Weight)
		}
	}
	return nil
}

// =============================================================================
// Diagnostics
// =============================================================================

// DanglingEdges counts edges with an endpoint missing from the node set.
func (d *CoreDataset) DanglingEdges() int {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID] = struct{}{}
	}
	count := 0
	for _, e := range d.Edges {
		_, a := ids[e.Source]
		_, b := ids[e.Target]
		if !a || !b {
			count++
		}
	}
	return count
}

// DanglingEdges counts edges whose source is not a left node or whose target
// is not a right node.
func (g *Subgraph) DanglingEdges() int {
	left := idSet(g.LeftNodes)
	right := idSet(g.RightNodes)
	count := 0
	for _, e := range g.Edges {
		_, a := left[e.Source]
		_, b := right[e.Target]
		if !a || !b {
			count++
		}
	}
	return count
}

func idSet(nodes []SemanticNode) map[string]struct{} {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}
