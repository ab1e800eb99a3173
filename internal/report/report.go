// Package report writes JSON reports to files or writers.
package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// WriteJSON serializes v as indented JSON to path, creating parent
// directories as needed.
func WriteJSON(v any, path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create report dir")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create report file")
	}
	defer f.Close()

	if err := Encode(v, f); err != nil {
		return err
	}
	return errors.Wrap(f.Close(), "close report file")
}

// Encode writes v as indented JSON to w without HTML escaping.
func Encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encode json")
}
