package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Write writes output in the requested format.
//
// Supported formats:
//   - json (default)
//   - table (field/value rows for object payloads; non-objects fall back to
//     JSON so scalar results stay scriptable)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		return writeFieldTable(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteTable renders rows as a bordered table for humans.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeFieldTable flattens an object payload into sorted field/value rows.
func writeFieldTable(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return WriteJSON(w, v, pretty)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		value := obj[k]
		// Nested objects/arrays stay JSON inside the cell.
		switch value.(type) {
		case map[string]any, []any:
			nested, err := json.Marshal(value)
			if err != nil {
				return err
			}
			rows = append(rows, []string{k, string(nested)})
		default:
			rows = append(rows, []string{k, fmt.Sprint(value)})
		}
	}
	return WriteTable(w, []string{"FIELD", "VALUE"}, rows)
}
