// Package ui renders parse results for the terminal or for other programs.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"sitelink/internal/facets"
)

// Output formats.
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatPretty = "pretty"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// ResolveFormat turns "auto" into pretty when w is a terminal and JSON
// otherwise. Other formats are returned unchanged.
func ResolveFormat(format string, w io.Writer) string {
	if format != "" && format != FormatAuto {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatPretty
	}
	return FormatJSON
}

// Resolved is one rendered parse: the link, the vendor that claimed it and
// its result (nil when nothing matched).
type Resolved struct {
	URL    string         `json:"url" yaml:"url"`
	Vendor string         `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Source string         `json:"source,omitempty" yaml:"source,omitempty"`
	Result *facets.Result `json:"result" yaml:"result"`
}

// Render writes items to w in the given format. format must already be
// resolved (not "auto").
func Render(w io.Writer, format string, items []Resolved) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(items) == 1 {
			return enc.Encode(items[0])
		}
		return enc.Encode(items)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		if len(items) == 1 {
			return enc.Encode(items[0])
		}
		return enc.Encode(items)
	case FormatPretty:
		for _, it := range items {
			if _, err := fmt.Fprintln(w, Pretty(it)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Pretty renders a single item as a styled block.
func Pretty(it Resolved) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(it.URL))
	b.WriteString("\n")

	if it.Source != "" {
		b.WriteString(labelStyle.Render("source   ") + it.Source + "\n")
	}
	if it.Result == nil {
		b.WriteString(missStyle.Render("no match"))
		return boxStyle.Render(b.String())
	}

	b.WriteString(labelStyle.Render("vendor   ") + it.Vendor + "\n")
	b.WriteString(labelStyle.Render("type     ") + valueStyle.Render(it.Result.TypeName.String()))

	props := make([]string, 0, len(it.Result.Facets.Properties))
	for p := range it.Result.Facets.Properties {
		props = append(props, p)
	}
	sort.Strings(props)

	for _, p := range props {
		b.WriteString("\n" + labelStyle.Render(p))
		for _, c := range it.Result.Facets.Properties[p] {
			fmt.Fprintf(&b, "\n  %s %s %s", c.Operand, c.Operator, valueStyle.Render(fmt.Sprintf("%q", c.Value)))
		}
	}
	return boxStyle.Render(b.String())
}

// Table renders rows under a header with aligned columns.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			cell := lipgloss.NewStyle().Width(widths[i]).Render(c)
			if style != nil {
				cell = style.Render(cell)
			}
			parts[i] = cell
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(line(header, &headerStyle))
	for _, row := range rows {
		b.WriteString("\n" + line(row, nil))
	}
	return b.String()
}
