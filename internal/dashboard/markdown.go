package dashboard

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
)

const maxCellWidth = 80

// MarkdownOptions controls report rendering.
type MarkdownOptions struct {
	// Rows is how many filtered rows to print; 0 omits the section.
	Rows int
}

// Markdown renders a compact report of the snapshot.
func (s *Snapshot) Markdown(opt MarkdownOptions) string {
	var b strings.Builder
	b.WriteString("[DATASET]\n")
	if s.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Source))
	}
	if s.Filters.IsEmpty() {
		b.WriteString(fmt.Sprintf("Rows: %d\n", s.TotalRows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d of %d\n", len(s.Filtered), s.TotalRows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(s.Columns)))

	b.WriteString("\n[FILTERS]\n")
	if s.Filters.IsEmpty() {
		b.WriteString("(none)\n")
	} else {
		logic := "AND"
		if s.Filters.Logic.IsOr() {
			logic = "OR"
		}
		b.WriteString(fmt.Sprintf("Logic: %s\n", logic))
		for _, c := range s.Filters.Conditions {
			b.WriteString("- " + safeVal(c.String()) + "\n")
		}
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range s.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (missing %.1f%%, unique %d)", safeName(c.OriginalName), c.DataType, c.NullRatio*100, c.UniqueCount))
		switch {
		case c.Min != nil && c.Max != nil:
			b.WriteString(fmt.Sprintf(" — min %s, max %s", c.Min, c.Max))
		case len(c.SampleValues) > 0:
			b.WriteString(" — e.g., ")
			for i, v := range c.SampleValues {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(utils.Truncate(v, 40)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[KPIS]\n")
	for _, k := range s.KPIs {
		b.WriteString(fmt.Sprintf("- %s: %s", k.Label, dataset.FormatNumber(k.Value)))
		if k.Unit != "" {
			b.WriteString(" " + k.Unit)
		}
		b.WriteString("\n")
	}

	if len(s.Keywords) > 0 {
		b.WriteString("\n[KEYWORDS]\n")
		for i, k := range s.Keywords {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%s(%d)", k.Text, k.Count))
		}
		b.WriteString("\n")
	}

	if len(s.Charts)+len(s.Custom) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, c := range s.Charts {
			writeChart(&b, c, "")
		}
		for _, c := range s.Custom {
			writeChart(&b, c, "custom ")
		}
	}

	if opt.Rows > 0 && len(s.Filtered) > 0 {
		keys := analysis.Keys(s.Columns)
		b.WriteString("\n[ROWS]\n")
		b.WriteString("| ")
		for i, c := range s.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(safeName(c.OriginalName)))
		}
		b.WriteString(" |\n|")
		for range s.Columns {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		n := opt.Rows
		if n > len(s.Filtered) {
			n = len(s.Filtered)
		}
		for _, r := range s.Filtered[:n] {
			b.WriteString("| ")
			for i, k := range keys {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(utils.Truncate(r.Get(k).Text(), maxCellWidth)))
			}
			b.WriteString(" |\n")
		}
		if n < len(s.Filtered) {
			b.WriteString(fmt.Sprintf("(%d more rows)\n", len(s.Filtered)-n))
		}
	}
	return b.String()
}

func writeChart(b *strings.Builder, c analysis.ChartSpec, prefix string) {
	b.WriteString(fmt.Sprintf("- %s%s: %s", prefix, c.ChartType, c.Title))
	var axes []string
	if c.XKey != "" {
		axes = append(axes, "x="+c.XKey)
	}
	if len(c.Series) > 0 {
		keys := make([]string, len(c.Series))
		for i, sr := range c.Series {
			keys[i] = sr.Key
		}
		axes = append(axes, "series="+strings.Join(keys, ","))
	} else if c.YKey != "" {
		axes = append(axes, "y="+c.YKey)
	}
	axes = append(axes, fmt.Sprintf("%d points", len(c.Dataset)))
	b.WriteString(" (" + strings.Join(axes, ", ") + ")\n")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
