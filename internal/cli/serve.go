package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/corpusgraph/pkg/buildinfo"
	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/errors"
	"github.com/matzehuels/corpusgraph/pkg/graph"
	"github.com/matzehuels/corpusgraph/pkg/observability"
	"github.com/matzehuels/corpusgraph/pkg/panel"
	"github.com/matzehuels/corpusgraph/pkg/view"
)

const shutdownTimeout = 5 * time.Second

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	formatSVG:  "image/svg+xml",
	formatDOT:  "text/vnd.graphviz; charset=utf-8",
	formatPNG:  "image/png",
	formatJSON: "application/json",
}

// serveCommand creates the serve command, an HTTP preview of the views.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve <dataset-dir>",
		Short: "Serve rendered scenes and connection panels over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Serve.Addr
			}
			dir, err := dataset.Open(args[0])
			if err != nil {
				return err
			}
			ca, err := c.newCache(ctx, noCache, true)
			if err != nil {
				return err
			}
			defer ca.Close()
			ttl, _ := c.cfg.Cache.ttl()

			defaults := sceneOpts{zoom: 1}
			c.applyRenderDefaults(cmd, &defaults)
			s := newServer(dir, newRenderer(ca, appName+":", ttl), defaults)
			return listen(ctx, addr, s.routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// listen serves h on addr until ctx is done, then shuts down gracefully.
func listen(ctx context.Context, addr string, h http.Handler) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Serving on http://%s", addr)
		if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	err := g.Wait()
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// =============================================================================
// Server
// =============================================================================

// server answers preview requests. Every request builds a fresh view, so
// handlers share nothing but the dataset bundle, which is reloaded when the
// files on disk change.
type server struct {
	dir      *dataset.Dir
	render   *renderer
	defaults sceneOpts

	mu     sync.Mutex
	bundle *dataset.Bundle
}

func newServer(dir *dataset.Dir, r *renderer, defaults sceneOpts) *server {
	return &server{dir: dir, render: r, defaults: defaults}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	r.Get("/datasets/{file}", s.datasetFile)
	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.listGraphs)
		r.Get("/{graph}/scene.{format}", s.scene)
		r.Get("/{graph}/connections/{id}", s.connections)
		r.Get("/{graph}/panel", s.panel)
	})
	return r
}

// observe sets the Server header and reports requests to the server hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		start := time.Now()
		w.Header().Set("Server", buildinfo.UserAgent())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// current returns the loaded bundle, reloading it when the dataset files
// changed since the last request.
func (s *server) current(ctx context.Context) (*dataset.Bundle, error) {
	fp := s.dir.Fingerprint()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle != nil && s.bundle.Fingerprint == fp {
		return s.bundle, nil
	}
	b, err := dataset.Load(ctx, s.dir)
	if err != nil {
		return nil, err
	}
	s.bundle = b
	return b, nil
}

func (s *server) listGraphs(w http.ResponseWriter, r *http.Request) {
	b, err := s.current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	names := []string{}
	for _, name := range graph.GraphNames {
		if b.Has(name) {
			names = append(names, name)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"graphs": names})
}

func (s *server) scene(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := validateFormats([]string{format}); err != nil {
		writeError(w, err)
		return
	}
	o, err := s.sceneOpts(r)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := s.current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	data, cached, err := s.render.render(r.Context(), b, o, format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// connections returns the panel of the node named in the path.
func (s *server) connections(w http.ResponseWriter, r *http.Request) {
	o, err := s.sceneOpts(r)
	if err != nil {
		writeError(w, err)
		return
	}
	o.selID = chi.URLParam(r, "id")
	s.writePanel(w, r, o)
}

// panel returns the panel for the ?select= query, or the unselected panel.
func (s *server) panel(w http.ResponseWriter, r *http.Request) {
	o, err := s.sceneOpts(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writePanel(w, r, o)
}

func (s *server) writePanel(w http.ResponseWriter, r *http.Request, o sceneOpts) {
	limit, err := intParam(r, "limit", panel.DefaultLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := s.current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := buildView(b, o, view.WithPanelLimit(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Panel())
}

// datasetFile serves one raw dataset file.
func (s *server) datasetFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if err := errors.ValidateDatasetFile(name); err != nil {
		writeError(w, err)
		return
	}
	if name != graph.CoreFile && name != graph.SemanticFile {
		writeError(w, errors.New(errors.ErrCodeDatasetNotFound, "unknown dataset file %q", name))
		return
	}
	path := s.dir.File(name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeDatasetNotFound, err, "dataset file %s not found", name))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, path)
}

// sceneOpts reads the view state from the path and query.
func (s *server) sceneOpts(r *http.Request) (sceneOpts, error) {
	o := s.defaults
	o.graph = chi.URLParam(r, "graph")
	if !slices.Contains(graph.GraphNames, o.graph) {
		return o, errors.New(errors.ErrCodeInvalidGraph, "unknown graph %q", o.graph)
	}
	q := r.URL.Query()
	o.selID = q.Get("select")
	o.side = q.Get("side")
	o.labels = q.Get("labels") == "true"
	switch engine := q.Get("engine"); engine {
	case "", "native":
	case "graphviz":
		o.graphviz = true
	default:
		return o, errors.New(errors.ErrCodeInvalidInput, "unknown engine %q (want native or graphviz)", engine)
	}

	var err error
	if o.zoom, err = floatParam(r, "zoom", o.zoom); err != nil {
		return o, err
	}
	if o.panX, err = floatParam(r, "pan_x", 0); err != nil {
		return o, err
	}
	if o.panY, err = floatParam(r, "pan_y", 0); err != nil {
		return o, err
	}
	if o.top, err = intParam(r, "top", o.top); err != nil {
		return o, err
	}
	if o.width, err = intParam(r, "width", o.width); err != nil {
		return o, err
	}
	if o.height, err = intParam(r, "height", o.height); err != nil {
		return o, err
	}
	return o, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
	}
	return f, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
	}
	return n, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
