package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/graph"
)

const testCoreJSON = `{
  "metadata": {"target_unique_words": 4, "unique_words_observed": 4, "total_tokens_observed": 1234},
  "nodes": [
    {"id": "dom", "frequency": 40, "unique_neighbors": 3, "connection_weight": 12},
    {"id": "kot", "frequency": 20, "unique_neighbors": 2, "connection_weight": 7},
    {"id": "pies", "frequency": 10, "unique_neighbors": 2, "connection_weight": 6},
    {"id": "las", "frequency": 5, "unique_neighbors": 1, "connection_weight": 1}
  ],
  "edges": [
    {"source": "dom", "target": "kot", "weight": 5},
    {"source": "dom", "target": "pies", "weight": 6},
    {"source": "kot", "target": "pies", "weight": 2},
    {"source": "dom", "target": "las", "weight": 1}
  ]
}`

const testSemanticJSON = `{
  "metadata": {"top_n": 10, "min_connection": 1, "target_tokens": 0, "total_tokens_observed": 1234, "lemma_strategy": "simple", "pos_strategy": "suffix"},
  "adjective_noun": {
    "metadata": {"left_label": "Adjectives", "right_label": "Nouns", "left_count": 2, "right_count": 2, "edge_count": 3},
    "left_nodes": [{"id": "duzy", "frequency": 9}, {"id": "maly", "frequency": 4}],
    "right_nodes": [{"id": "dom", "frequency": 12}, {"id": "kot", "frequency": 3}],
    "edges": [
      {"source": "duzy", "target": "dom", "weight": 7},
      {"source": "maly", "target": "kot", "weight": 2},
      {"source": "duzy", "target": "kot", "weight": 1}
    ]
  },
  "verb_noun": {
    "metadata": {"left_label": "Verbs", "right_label": "Nouns", "left_count": 1, "right_count": 1, "edge_count": 1},
    "left_nodes": [{"id": "mieszkac", "frequency": 6}],
    "right_nodes": [{"id": "dom", "frequency": 12}],
    "edges": [{"source": "mieszkac", "target": "dom", "weight": 4}]
  }
}`

// writeDataset creates a dataset directory holding both files.
func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{graph.CoreFile: testCoreJSON, graph.SemanticFile: testSemanticJSON} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// loadTestBundle loads the dataset written by writeDataset.
func loadTestBundle(t *testing.T) (*dataset.Dir, *dataset.Bundle) {
	t.Helper()
	dir, b, err := loadBundle(context.Background(), writeDataset(t))
	if err != nil {
		t.Fatalf("loadBundle: %v", err)
	}
	return dir, b
}

// isolateHome points the XDG directories at a temporary directory.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	return home
}
