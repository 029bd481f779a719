// Package render turns materialized result sets into text tables.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

// Format selects how a result table is written.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatMarkdown, FormatCSV, FormatHTML}

// ParseFormat resolves a format name. Empty means FormatTable.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table", "ascii":
		return FormatTable, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: table, markdown, csv, html): %w", name, dwhetl.ErrInvalidConfig)
	}
}

// asciiStyle draws +---+ borders and keeps column names as returned by the
// server.
func asciiStyle() table.Style {
	style := table.StyleDefault
	style.Format.Header = text.FormatDefault
	return style
}

// Render writes result to w in the given format. A result with columns but
// no rows renders as a header-only table; a result with no columns writes
// nothing.
func Render(w io.Writer, result *dwhetl.ResultTable, format Format) error {
	if result == nil || len(result.Columns) == 0 {
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(asciiStyle())

	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range result.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}

	var out string
	switch format {
	case FormatTable, "":
		out = t.Render()
	case FormatMarkdown:
		out = t.RenderMarkdown()
	case FormatCSV:
		out = t.RenderCSV()
	case FormatHTML:
		out = t.RenderHTML()
	default:
		return fmt.Errorf("unknown output format %q: %w", format, dwhetl.ErrRenderFailed)
	}

	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("failed to write table: %v: %w", err, dwhetl.ErrRenderFailed)
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
