package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/segrole/process"
)

// JSONRenderer writes results as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the results as a JSON array. nil results give an empty
// array.
func (r *JSONRenderer) Render(results []process.Result) error {
	if results == nil {
		results = []process.Result{}
	}

	enc := json.NewEncoder(r.W)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

// compile-time interface check
var _ Renderer = (*JSONRenderer)(nil)
