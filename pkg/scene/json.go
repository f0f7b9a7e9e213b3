package scene

import (
	"io"

	"github.com/goccy/go-json"
)

// WriteJSON writes the scene as indented JSON.
func (s *Scene) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
