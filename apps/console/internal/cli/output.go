package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

func isFormat(f string) bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// render writes v in the selected format. table fills a tabwriter whose
// columns are separated by tabs.
func (a *App) render(v any, table func(w io.Writer)) error {
	switch a.format {
	case FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		return writeYAML(a.out, v)
	default:
		tw := tabwriter.NewWriter(a.out, 2, 0, 3, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// writeYAML goes through JSON so that keys and decimal values match the
// JSON rendering
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
