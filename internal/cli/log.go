package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/corpusgraph/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that filters
// messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of one operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Loaded /data (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks reports every observability event at debug level.
type logHooks struct {
	logger *log.Logger
}

// registerHooks routes all observability hooks to l.
func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetDatasetHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("loading dataset", "path", path)
}

func (h logHooks) OnLoadComplete(_ context.Context, path string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("dataset load failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("dataset loaded", "path", path, "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnChange(_ context.Context, path string) {
	h.logger.Info("dataset changed", "path", path)
}

func (h logHooks) OnRenderStart(_ context.Context, graph, format string) {
	h.logger.Debug("rendering", "graph", graph, "format", format)
}

func (h logHooks) OnRenderComplete(_ context.Context, graph, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "graph", graph, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "graph", graph, "format", format, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", shortKey(key))
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", shortKey(key))
}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", shortKey(key), "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

// shortKey trims a "scene:<sha256>" key for display.
func shortKey(key string) string {
	if len(key) > 18 {
		return key[:18]
	}
	return key
}
