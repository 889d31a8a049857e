package cmd

import (
	"fmt"
	"io"

	"github.com/pable/go-wta-metrics/internal/report"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

// render writes v as JSON or YAML, or calls table for the table format.
func render(w io.Writer, format string, v any, table func()) error {
	switch format {
	case formatJSON:
		return report.WriteJSON(w, v)
	case formatYAML:
		return report.WriteYAML(w, v)
	default:
		table()
		return nil
	}
}
