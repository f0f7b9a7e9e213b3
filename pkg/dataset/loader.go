// Package dataset loads corpus graph datasets from a directory and watches
// the directory for changes.
//
// A dataset directory holds up to two files: language_core.json (the
// single-mode graph) and semantic_bipartite_graphs.json (both bipartite
// graphs). Either may be absent; [Load] fails only when neither exists.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/corpusgraph/pkg/cache"
	"github.com/matzehuels/corpusgraph/pkg/errors"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/observability"
)

// Loader yields parsed datasets.
type Loader interface {
	LoadCore(ctx context.Context) (*graph.CoreDataset, error)
	LoadSemantic(ctx context.Context) (*graph.SemanticDataset, error)
}

// Bundle holds the datasets of one directory. Missing files leave their
// field nil.
type Bundle struct {
	Core     *graph.CoreDataset
	Semantic *graph.SemanticDataset

	// Fingerprint changes whenever a dataset file changes.
	Fingerprint string
}

// Has reports whether the bundle can serve the named graph.
func (b *Bundle) Has(name string) bool {
	if name == graph.GraphCore {
		return b.Core != nil
	}
	if b.Semantic == nil {
		return false
	}
	_, ok := b.Semantic.Subgraph(name)
	return ok
}

// Dir reads datasets from a directory.
type Dir struct {
	path  string
	keyer cache.Keyer
}

// Open returns a loader for the dataset directory at path.
func Open(path string) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeDatasetNotFound, err, "dataset directory %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", path)
	}
	return &Dir{path: abs, keyer: cache.NewKeyer("")}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// File returns the path of a dataset file inside the directory.
func (d *Dir) File(name string) string { return filepath.Join(d.path, name) }

// LoadCore reads language_core.json.
func (d *Dir) LoadCore(ctx context.Context) (*graph.CoreDataset, error) {
	var out *graph.CoreDataset
	err := d.load(ctx, graph.CoreFile, func(path string) (int, int, error) {
		ds, err := graph.ReadCoreFile(path)
		if err != nil {
			return 0, 0, err
		}
		out = ds
		return len(ds.Nodes), len(ds.Edges), nil
	})
	return out, err
}

// LoadSemantic reads semantic_bipartite_graphs.json.
func (d *Dir) LoadSemantic(ctx context.Context) (*graph.SemanticDataset, error) {
	var out *graph.SemanticDataset
	err := d.load(ctx, graph.SemanticFile, func(path string) (int, int, error) {
		ds, err := graph.ReadSemanticFile(path)
		if err != nil {
			return 0, 0, err
		}
		out = ds
		nodes, edges := 0, 0
		for _, g := range []graph.Subgraph{ds.AdjectiveNoun, ds.VerbNoun} {
			nodes += len(g.LeftNodes) + len(g.RightNodes)
			edges += len(g.Edges)
		}
		return nodes, edges, nil
	})
	return out, err
}

func (d *Dir) load(ctx context.Context, file string, read func(string) (int, int, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := d.File(file)
	hooks := observability.Dataset()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()
	nodes, edges, err := read(path)
	hooks.OnLoadComplete(ctx, path, nodes, edges, time.Since(start), err)
	return err
}

// Fingerprint returns a key derived from the size and modification time of
// every dataset file. Missing files contribute nothing.
func (d *Dir) Fingerprint() string {
	var parts string
	for _, f := range []string{graph.CoreFile, graph.SemanticFile} {
		info, err := os.Stat(d.File(f))
		if err != nil {
			continue
		}
		parts += d.keyer.DatasetKey(f, info.Size(), info.ModTime())
	}
	return cache.Hash([]byte(parts))
}

// Load reads both dataset files concurrently. A missing file is tolerated as
// long as the other one exists; any other error aborts the load. The
// fingerprint is taken before reading, so a file that changes mid-read leaves
// the bundle stale and the next fingerprint check reloads it.
func Load(ctx context.Context, l Loader) (*Bundle, error) {
	var b Bundle
	if f, ok := l.(interface{ Fingerprint() string }); ok {
		b.Fingerprint = f.Fingerprint()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ds, err := l.LoadCore(ctx)
		if errors.Is(err, errors.ErrCodeDatasetNotFound) {
			return nil
		}
		b.Core = ds
		return err
	})
	g.Go(func() error {
		ds, err := l.LoadSemantic(ctx)
		if errors.Is(err, errors.ErrCodeDatasetNotFound) {
			return nil
		}
		b.Semantic = ds
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if b.Core == nil && b.Semantic == nil {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "no dataset files found")
	}
	return &b, nil
}
