package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeJSON writes v indented by four spaces. HTML in bodies and
// descriptions is kept as is instead of being escaped.
func writeJSON(path string, v any) (int64, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	err := encoder.Encode(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", path, err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return 0, err
	}
	err = os.WriteFile(path, buf.Bytes(), 0644)
	if err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}
