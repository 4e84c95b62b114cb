package parser

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
)

// Table is the parsed content of one file or worksheet.
type Table struct {
	// Name is the base name of the source file.
	Name string `json:"name"`
	// Sheet is the worksheet read, for workbook formats.
	Sheet string `json:"sheet,omitempty"`
	// Sheets lists every worksheet in the workbook.
	Sheets  []string      `json:"sheets,omitempty"`
	Columns []string      `json:"columns"`
	Rows    []dataset.Row `json:"rows"`
	// Truncated is set when MaxRows stopped ingestion early.
	Truncated bool `json:"truncated"`
}

// newTable normalises header cells into unique column keys.
func newTable(header []string) *Table {
	return &Table{Columns: NormalizeHeader(header), Rows: []dataset.Row{}}
}

// add appends a data row unless every cell is blank. It reports false once
// limit rows have been read; a zero limit is unlimited.
func (t *Table) add(record []string, limit int) bool {
	if blank(record) {
		return true
	}
	if limit > 0 && len(t.Rows) >= limit {
		t.Truncated = true
		return false
	}
	t.Rows = append(t.Rows, dataset.FromRecord(dataset.RowID(len(t.Rows)+1), t.Columns, record))
	return true
}

// NormalizeHeader trims header cells, names blank ones column_N (1-based) and
// suffixes repeats with _2, _3 and so on.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]bool{dataset.RowIDKey: true}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		name := h
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
