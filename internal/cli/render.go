package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/corpusgraph/pkg/buildinfo"
	"github.com/matzehuels/corpusgraph/pkg/cache"
	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/errors"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/observability"
	"github.com/matzehuels/corpusgraph/pkg/render/nodelink"
	"github.com/matzehuels/corpusgraph/pkg/scene"
	"github.com/matzehuels/corpusgraph/pkg/scene/svg"
	"github.com/matzehuels/corpusgraph/pkg/view"
)

// Output formats.
const (
	formatSVG  = "svg"
	formatDOT  = "dot"
	formatPNG  = "png"
	formatJSON = "json"
)

// validFormats lists the supported output formats in presentation order.
var validFormats = []string{formatSVG, formatDOT, formatPNG, formatJSON}

// sceneOpts selects which state of a view is rendered.
type sceneOpts struct {
	graph  string
	selID  string
	side   string
	zoom   float64
	panX   float64
	panY   float64
	top    int
	width  int
	height int
	labels bool

	// graphviz renders SVG through Graphviz instead of the native writer.
	graphviz bool
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	sceneOpts
	output  string
	formats []string
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{sceneOpts: sceneOpts{graph: graph.GraphCore, zoom: 1}}

	cmd := &cobra.Command{
		Use:   "render <dataset-dir>",
		Short: "Render a graph view to SVG, DOT, PNG, or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			c.applyRenderDefaults(cmd, &opts.sceneOpts)
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], &opts)
		},
	}

	addSceneFlags(cmd, &opts.sceneOpts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// addSceneFlags registers the flags shared by render and serve defaults.
func addSceneFlags(cmd *cobra.Command, o *sceneOpts) {
	cmd.Flags().StringVarP(&o.graph, "graph", "g", o.graph, "graph: "+strings.Join(graph.GraphNames, ", "))
	cmd.Flags().StringVar(&o.selID, "select", "", "node to select")
	cmd.Flags().StringVar(&o.side, "side", "", "column of the selected node in a bipartite graph: left, right")
	cmd.Flags().Float64Var(&o.zoom, "zoom", o.zoom, "zoom factor (clamped to [0.2, 5])")
	cmd.Flags().Float64Var(&o.panX, "pan-x", 0, "horizontal pan in view units")
	cmd.Flags().Float64Var(&o.panY, "pan-y", 0, "vertical pan in view units")
	cmd.Flags().IntVar(&o.top, "top", 0, "core nodes drawn (0 uses the configured default)")
	cmd.Flags().IntVar(&o.width, "width", 0, "SVG width in pixels (0 uses the configured default)")
	cmd.Flags().IntVar(&o.height, "height", 0, "SVG height in pixels (0 uses the configured default)")
	cmd.Flags().BoolVar(&o.labels, "labels", false, "draw node labels in DOT and PNG output")
	cmd.Flags().BoolVar(&o.graphviz, "graphviz", false, "render SVG through Graphviz (neato) instead of the native writer")
}

// applyRenderDefaults fills unset size and top-N flags from the config.
func (c *CLI) applyRenderDefaults(cmd *cobra.Command, o *sceneOpts) {
	if o.top == 0 && !cmd.Flags().Changed("top") {
		o.top = c.cfg.Render.Top
	}
	if o.width <= 0 {
		o.width = c.cfg.Render.Width
	}
	if o.height <= 0 {
		o.height = c.cfg.Render.Height
	}
}

// parseFormats parses the --format flag. If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

// basePath derives the base output path. If output is empty, the graph name
// is used; a known format extension on output is stripped.
func basePath(output, graphName string) string {
	if output == "" {
		return graphName
	}
	ext := filepath.Ext(output)
	if slices.Contains(validFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the dataset, builds the requested view state, and writes
// one file per format.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, dir string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	_, b, err := loadBundle(ctx, dir)
	if err != nil {
		return err
	}
	ca, err := c.newCache(ctx, opts.noCache, false)
	if err != nil {
		return err
	}
	defer ca.Close()
	ttl, _ := c.cfg.Cache.ttl()

	r := newRenderer(ca, "", ttl)
	base := basePath(opts.output, opts.graph)
	for _, f := range opts.formats {
		data, cached, err := r.render(ctx, b, opts.sceneOpts, f)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", opts.graph, f, err)
		}
		path := base + "." + f
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", f, len(data))
		printFile(stdout, path, cached)
	}
	return nil
}

// =============================================================================
// Renderer
// =============================================================================

// renderer turns a view state into bytes, consulting the artifact cache.
type renderer struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// newRenderer creates a renderer whose keys carry prefix and the build
// version, so artifacts cached by another release are never served.
func newRenderer(ca cache.Cache, prefix string, ttl time.Duration) *renderer {
	return &renderer{cache: ca, keyer: cache.NewKeyer(prefix + buildinfo.Version + ":"), ttl: ttl}
}

// render returns the artifact and whether it came from the cache. Cache
// failures are logged and otherwise ignored.
func (r *renderer) render(ctx context.Context, b *dataset.Bundle, o sceneOpts, format string) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)
	key := r.keyer.SceneKey(b.Fingerprint, cache.SceneKeyOpts{
		Graph: o.graph, Selected: o.selID, Side: o.side,
		Scale: o.zoom, PanX: o.panX, PanY: o.panY, Top: o.top,
		Format: fmt.Sprintf("%s:%dx%d:%t:%t", format, o.width, o.height, o.labels, o.graphviz),
	})

	data, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, key)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, key)

	sc, err := buildScene(b, o)
	if err != nil {
		return nil, false, err
	}
	data, err = encodeScene(ctx, sc, o, format)
	if err != nil {
		return nil, false, err
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return data, false, nil
}

// buildView creates the view of o.graph with the requested selection and
// viewport state applied.
func buildView(b *dataset.Bundle, o sceneOpts, extra ...view.Option) (*view.View, error) {
	vopts := extra
	if o.top != 0 {
		vopts = append(vopts, view.WithTopNodes(o.top))
	}
	v, err := view.New(o.graph, b.Core, b.Semantic, vopts...)
	if err != nil {
		return nil, err
	}
	if o.selID != "" {
		if err := errors.ValidateNodeID(o.selID); err != nil {
			return nil, err
		}
		side, err := graph.ParseSide(o.side)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid side")
		}
		if err := v.SelectID(o.selID, side); err != nil {
			return nil, err
		}
	}
	if o.zoom != 0 {
		v.Viewport().SetScale(o.zoom)
	}
	v.Viewport().SetPan(r2.Vec{X: o.panX, Y: o.panY})
	return v, nil
}

func buildScene(b *dataset.Bundle, o sceneOpts) (*scene.Scene, error) {
	v, err := buildView(b, o)
	if err != nil {
		return nil, err
	}
	return v.Scene(), nil
}

// encodeScene serializes sc in the given format.
func encodeScene(ctx context.Context, sc *scene.Scene, o sceneOpts, format string) (data []byte, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, o.graph, format)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, o.graph, format, len(data), time.Since(start), err)
	}()

	var buf bytes.Buffer
	switch format {
	case formatSVG:
		if o.graphviz {
			var out []byte
			out, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(sc, nodelink.Options{ApplyTransform: true, Labels: o.labels}))
			buf.Write(out)
			break
		}
		err = svg.Write(&buf, sc, svg.Options{Width: o.width, Height: o.height, Title: o.graph})
	case formatJSON:
		err = sc.WriteJSON(&buf)
	case formatDOT:
		_, err = buf.WriteString(nodelink.ToDOT(sc, nodelink.Options{ApplyTransform: true, Labels: o.labels}))
	case formatPNG:
		var png []byte
		png, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(sc, nodelink.Options{ApplyTransform: true, Labels: o.labels}))
		buf.Write(png)
	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
