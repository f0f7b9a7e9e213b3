package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "prefix:sha256(json(parts))".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// SceneKeyOpts identifies one rendered scene.
type SceneKeyOpts struct {
	Graph    string  `json:"graph"`
	Selected string  `json:"selected,omitempty"`
	Side     string  `json:"side,omitempty"`
	Scale    float64 `json:"scale"`
	PanX     float64 `json:"pan_x"`
	PanY     float64 `json:"pan_y"`
	Top      int     `json:"top"`
	Format   string  `json:"format"`
}

// Keyer builds cache keys under an optional namespace prefix.
type Keyer struct {
	prefix string
}

// NewKeyer returns a keyer that prepends prefix to every key.
func NewKeyer(prefix string) Keyer { return Keyer{prefix: prefix} }

// DatasetKey identifies a dataset file by path, size and modification time,
// so edits to the file produce a new key.
func (k Keyer) DatasetKey(path string, size int64, modTime time.Time) string {
	return k.prefix + hashKey("dataset", path, size, modTime.UnixNano())
}

// SceneKey identifies a rendered scene of a dataset version.
func (k Keyer) SceneKey(datasetKey string, opts SceneKeyOpts) string {
	return k.prefix + hashKey("scene", datasetKey, opts)
}
