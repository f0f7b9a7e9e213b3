package cli

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/corpusgraph/pkg/errors"
	"github.com/matzehuels/corpusgraph/pkg/graph"
)

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the contents of config.toml. Every field has a default, so the
// file is optional.
type Config struct {
	// Locale formats numbers in tables and panels (BCP 47, e.g. "en", "pl").
	Locale string `toml:"locale"`

	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig holds defaults for rendered output.
type RenderConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Top    int `toml:"top"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend  string `toml:"backend"` // "file", "redis", "none"
	RedisURL string `toml:"redis_url"`
	TTL      string `toml:"ttl"` // Go duration; empty means no expiry
}

// ServeConfig holds preview server settings.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Locale: "en",
		Render: RenderConfig{Width: 800, Height: 800, Top: graph.DefaultTopNodes},
		Cache:  CacheConfig{Backend: backendFile, RedisURL: "redis://localhost:6379/0", TTL: "24h"},
		Serve:  ServeConfig{Addr: "127.0.0.1:8080"},
	}
}

// LoadConfig reads the config file at path over the defaults. A missing file
// yields the defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend %q (must be %s)", c.Cache.Backend,
			strings.Join([]string{backendFile, backendRedis, backendNone}, ", "))
	}
	if _, err := c.Cache.ttl(); err != nil {
		return err
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// ttl parses the configured expiry.
func (c CacheConfig) ttl() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid cache ttl %q", c.TTL)
	}
	return d, nil
}
