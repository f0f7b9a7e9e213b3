package cli

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/corpusgraph/pkg/buildinfo"
	"github.com/matzehuels/corpusgraph/pkg/cache"
	"github.com/matzehuels/corpusgraph/pkg/errors"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/scene"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,json,png", []string{"svg", "json", "png"}},
		{"spaces and case", " SVG , json", []string{"svg", "json"}},
		{"duplicates", "svg,svg", []string{"svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"all valid", []string{"svg", "dot", "png", "json"}, false},
		{"pdf unsupported", []string{"pdf"}, true},
		{"mixed", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %q, want INVALID_FORMAT", errors.GetCode(err))
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, graph, want string
	}{
		{"", "core", "core"},
		{"out/core.svg", "core", "out/core"},
		{"out/graph.json", "verb_noun", "out/graph"},
		{"out/graph.v2", "core", "out/graph.v2"},
		{"out/graph", "core", "out/graph"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.graph); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.graph, got, tt.want)
		}
	}
}

func TestBuildView(t *testing.T) {
	_, b := loadTestBundle(t)

	tests := []struct {
		name     string
		opts     sceneOpts
		wantCode errors.Code
		wantSel  graph.NodeRef
	}{
		{"core no selection", sceneOpts{graph: graph.GraphCore}, "", graph.NodeRef{}},
		{"core selection", sceneOpts{graph: graph.GraphCore, selID: "kot"}, "", graph.Ref("kot")},
		{"bipartite side inferred", sceneOpts{graph: graph.GraphAdjectiveNoun, selID: "dom"}, "", graph.NodeRef{Side: graph.SideRight, ID: "dom"}},
		{"bipartite explicit side", sceneOpts{graph: graph.GraphAdjectiveNoun, selID: "duzy", side: "left"}, "", graph.NodeRef{Side: graph.SideLeft, ID: "duzy"}},
		{"unknown graph", sceneOpts{graph: "noun_noun"}, errors.ErrCodeInvalidGraph, graph.NodeRef{}},
		{"unknown node", sceneOpts{graph: graph.GraphCore, selID: "zamek"}, errors.ErrCodeNodeNotFound, graph.NodeRef{}},
		{"wrong column", sceneOpts{graph: graph.GraphAdjectiveNoun, selID: "duzy", side: "right"}, errors.ErrCodeNodeNotFound, graph.NodeRef{}},
		{"bad side", sceneOpts{graph: graph.GraphAdjectiveNoun, selID: "duzy", side: "up"}, errors.ErrCodeInvalidInput, graph.NodeRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := buildView(b, tt.opts)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("buildView() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildView() error = %v", err)
			}
			sel, ok := v.Selected()
			if ok != (tt.wantSel != graph.NodeRef{}) || sel != tt.wantSel {
				t.Errorf("Selected() = %v, %v; want %v", sel, ok, tt.wantSel)
			}
		})
	}
}

func TestBuildViewViewport(t *testing.T) {
	_, b := loadTestBundle(t)
	v, err := buildView(b, sceneOpts{graph: graph.GraphCore, zoom: 9, panX: 10, panY: -5})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Viewport().Scale(); got != 5 {
		t.Errorf("zoom should clamp to 5, got %v", got)
	}
	if p := v.Viewport().Pan(); p.X != 10 || p.Y != -5 {
		t.Errorf("Pan() = %v", p)
	}
}

func TestEncodeScene(t *testing.T) {
	_, b := loadTestBundle(t)
	o := sceneOpts{graph: graph.GraphCore, selID: "dom", zoom: 1, width: 400, height: 400}
	sc, err := buildScene(b, o)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("svg", func(t *testing.T) {
		data, err := encodeScene(ctx, sc, o, formatSVG)
		if err != nil {
			t.Fatal(err)
		}
		if err := xml.Unmarshal(data, new(struct{})); err != nil {
			t.Errorf("invalid SVG: %v", err)
		}
		if !bytes.Contains(data, []byte(`viewBox="-500 -500 1000 1000"`)) {
			t.Error("SVG should use the core view box")
		}
	})

	t.Run("json", func(t *testing.T) {
		data, err := encodeScene(ctx, sc, o, formatJSON)
		if err != nil {
			t.Fatal(err)
		}
		var got scene.Scene
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if len(got.Discs) != 4 || len(got.Lines) != 4 {
			t.Errorf("scene has %d discs and %d lines, want 4 and 4", len(got.Discs), len(got.Lines))
		}
	})

	t.Run("dot", func(t *testing.T) {
		data, err := encodeScene(ctx, sc, o, formatDOT)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("graph G {")) {
			t.Errorf("DOT output = %.40q", data)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := encodeScene(ctx, sc, o, "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("error = %v, want INVALID_FORMAT", err)
		}
	})
}

func TestRendererCaches(t *testing.T) {
	_, b := loadTestBundle(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := &renderer{cache: fc, keyer: cache.NewKeyer("test:"), ttl: time.Hour}
	o := sceneOpts{graph: graph.GraphVerbNoun, zoom: 1, width: 300, height: 300}
	ctx := context.Background()

	first, cached, err := r.render(ctx, b, o, formatSVG)
	if err != nil || cached {
		t.Fatalf("first render: cached=%v err=%v", cached, err)
	}
	second, cached, err := r.render(ctx, b, o, formatSVG)
	if err != nil || !cached {
		t.Fatalf("second render: cached=%v err=%v", cached, err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached artifact differs from the rendered one")
	}

	o.selID = "dom"
	if _, cached, _ := r.render(ctx, b, o, formatSVG); cached {
		t.Error("a different selection must not hit the cache")
	}
	if _, cached, _ := r.render(ctx, b, o, formatJSON); cached {
		t.Error("a different format must not hit the cache")
	}
}

func TestRendererKeysCarryVersion(t *testing.T) {
	_, b := loadTestBundle(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	o := sceneOpts{graph: graph.GraphCore, zoom: 1, width: 300, height: 300}
	ctx := context.Background()

	old := buildinfo.Version
	t.Cleanup(func() { buildinfo.Version = old })

	buildinfo.Version = "v1.0.0"
	if _, _, err := newRenderer(fc, "test:", time.Hour).render(ctx, b, o, formatSVG); err != nil {
		t.Fatal(err)
	}
	if _, cached, _ := newRenderer(fc, "test:", time.Hour).render(ctx, b, o, formatSVG); !cached {
		t.Error("same release should hit the cache")
	}

	buildinfo.Version = "v1.1.0"
	if _, cached, _ := newRenderer(fc, "test:", time.Hour).render(ctx, b, o, formatSVG); cached {
		t.Error("a new release must not reuse artifacts cached by an older one")
	}
}

func TestRenderCommand(t *testing.T) {
	isolateHome(t)
	dir := writeDataset(t)
	out := filepath.Join(t.TempDir(), "adj")

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{"render", dir, "-g", "adjective_noun", "--select", "duzy", "-f", "svg,json", "-o", out, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, ext := range []string{".svg", ".json"} {
		if _, err := os.Stat(out + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}
	if !strings.Contains(stdout.String(), out+".svg") {
		t.Errorf("stdout should list the written files:\n%s", stdout.String())
	}

	raw, err := os.ReadFile(out + ".json")
	if err != nil {
		t.Fatal(err)
	}
	var sc scene.Scene
	if err := json.Unmarshal(raw, &sc); err != nil {
		t.Fatal(err)
	}
	var selected int
	for _, d := range sc.Discs {
		if d.State == scene.StateSelected {
			selected++
			if d.ID != "duzy" || d.Side != "left" {
				t.Errorf("selected disc = %+v", d)
			}
		}
	}
	if selected != 1 {
		t.Errorf("%d selected discs, want 1", selected)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	isolateHome(t)
	dir := writeDataset(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", dir, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"missing dir", []string{"render", filepath.Join(dir, "nope")}, errors.ErrCodeDatasetNotFound},
		{"unknown node", []string{"render", dir, "--select", "zamek", "--no-cache", "-o", filepath.Join(t.TempDir(), "x.svg")}, errors.ErrCodeNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tt.args)
			if err := root.Execute(); !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}
