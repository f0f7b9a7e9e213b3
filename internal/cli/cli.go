// Package cli implements the corpusgraph command-line interface.
//
// # Commands
//
//   - render: write a graph view to SVG, DOT, PNG, or scene JSON
//   - connections: print the ranked connections of one node
//   - info: summarize the datasets of a directory
//   - view: interactive terminal viewer with mouse pan, zoom, and selection
//   - serve: HTTP preview server for scenes and connection panels
//   - cache: manage the rendered artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context, and observability hooks log dataset loads,
// renders, cache traffic, and requests at debug level.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/corpusgraph/pkg/buildinfo"
	"github.com/matzehuels/corpusgraph/pkg/cache"
	"github.com/matzehuels/corpusgraph/pkg/dataset"
	"github.com/matzehuels/corpusgraph/pkg/errors"
	"github.com/matzehuels/corpusgraph/pkg/format"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "corpusgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() *Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is read before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Corpusgraph explores word co-occurrence graphs",
		Long:         `Corpusgraph renders and explores the word graphs of a text corpus: the radial language core and the adjective-noun and verb-noun bipartite graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "config file")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.connectionsCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Shared helpers
// =============================================================================

// loadBundle opens a dataset directory and reads every dataset file in it.
func loadBundle(ctx context.Context, path string) (*dataset.Dir, *dataset.Bundle, error) {
	dir, err := dataset.Open(path)
	if err != nil {
		return nil, nil, err
	}
	prog := newProgress(loggerFromContext(ctx))
	b, err := dataset.Load(ctx, dir)
	if err != nil {
		return nil, nil, err
	}
	prog.done("Loaded " + dir.Path())
	return dir, b, nil
}

// formatter returns the number formatter for the configured locale.
func (c *CLI) formatter() (*format.Formatter, error) {
	return format.Parse(c.cfg.Locale)
}

// newCache returns the artifact cache selected by the configuration. The
// redis backend is only available to long-running commands; everything else
// falls back to the file cache.
func (c *CLI) newCache(ctx context.Context, noCache, allowRedis bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Backend == backendNone {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Cache.Backend == backendRedis && allowRedis {
		rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to redis")
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/corpusgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/corpusgraph/).
func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

func defaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}
