package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteJSONCreatesParents(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out", "nested", "report.json")

	payload := map[string]any{"total": 3, "name": "a<b"}
	if err := WriteJSON(payload, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["total"] != float64(3) {
		t.Errorf("total = %v, want 3", got["total"])
	}
	if !strings.Contains(string(data), "a<b") {
		t.Errorf("HTML escaping applied: %s", data)
	}
}

func TestEncodeIndents(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Encode(map[string]int{"violations": 0}, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"violations\"") {
		t.Errorf("output not indented: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("missing trailing newline")
	}
}

func TestWriteJSONUnwritablePath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// Use the directory itself as the target file.
	if err := WriteJSON(map[string]int{}, dir); err == nil {
		t.Error("expected error writing to a directory path")
	}
}
