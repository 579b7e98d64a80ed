// Package export serializes analysis results to JSON with UTF-8 text
// preserved verbatim, so Cyrillic round-trips unchanged.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal renders v as JSON. HTML escaping is off so Cyrillic and
// angle-bracket text stay literal; pretty adds two-space indentation for
// download-friendly output.
func Marshal(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
