package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteJSONDefault(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"version": "dev"}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"version":"dev"}` {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestWriteTableFormatObject(t *testing.T) {
	var buf bytes.Buffer
	payload := map[string]any{
		"deleted": true,
		"id":      "cat-1",
		"tags":    []string{"b2b", "featured"},
	}
	if err := Write(&buf, payload, "table", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"FIELD", "VALUE", "deleted", "true", "id", "cat-1", `["b2b","featured"]`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTableFormatNonObjectFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []int{1, 2, 3}, "table", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[1,2,3]" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, map[string]any{"x": 1}, "yaml", false)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}
