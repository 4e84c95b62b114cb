package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	DataSheet    = "Data"

	headerFill    = "EFF6FF"
	highlightFill = "FFF59D"
	minColWidth   = 14
)

// Workbook is the payload of an XLSX export: every row, the rows that pass
// the filter, the columns to write and the filter that produced Filtered.
type Workbook struct {
	All      []dataset.Row
	Filtered []dataset.Row
	Columns  []analysis.ColumnProfile
	Filters  filter.State
}

// WriteXLSX encodes wb as a workbook with a Summary sheet and a Data sheet.
// Data holds all rows; when at least one condition is active, rows that pass
// the filter are highlighted.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f, err := buildWorkbook(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func buildWorkbook(wb Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, wb); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeData(f, wb); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSummary(f *excelize.File, wb Workbook) error {
	logic := strings.ToUpper(string(filter.LogicAnd))
	if wb.Filters.Logic.IsOr() {
		logic = strings.ToUpper(string(filter.LogicOr))
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Rows", len(wb.All)},
		{"Filtered Rows", len(wb.Filtered)},
		{"Columns", len(wb.Columns)},
		{"Filter Logic", logic},
		{"Active Conditions", len(wb.Filters.Conditions)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return fmt.Errorf("size summary: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 22); err != nil {
		return fmt.Errorf("size summary: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("summary style: %w", err)
	}
	return f.SetCellStyle(SummarySheet, "A1", "B1", bold)
}

func writeData(f *excelize.File, wb Workbook) error {
	if _, err := f.NewSheet(DataSheet); err != nil {
		return fmt.Errorf("create data sheet: %w", err)
	}
	ncol := len(wb.Columns)
	header := make([]any, ncol)
	for i, c := range wb.Columns {
		header[i] = c.OriginalName
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(c.OriginalName) + 4)
		if width < minColWidth {
			width = minColWidth
		}
		if err := f.SetColWidth(DataSheet, col, col, width); err != nil {
			return fmt.Errorf("size column %s: %w", c.Key, err)
		}
	}
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return fmt.Errorf("write data header: %w", err)
	}
	if ncol == 0 {
		return nil
	}
	last, _ := excelize.ColumnNumberToName(ncol)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(DataSheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("style data header: %w", err)
	}

	highlight := 0
	passed := make(map[string]bool, len(wb.Filtered))
	if !wb.Filters.IsEmpty() {
		for _, r := range wb.Filtered {
			passed[r.ID()] = true
		}
		highlight, err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{highlightFill}},
		})
		if err != nil {
			return fmt.Errorf("highlight style: %w", err)
		}
	}

	record := make([]any, ncol)
	for i, r := range wb.All {
		for j, c := range wb.Columns {
			record[j] = cellValue(r.Get(c.Key))
		}
		rowNum := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(DataSheet, cell, &record); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID(), err)
		}
		if highlight != 0 && passed[r.ID()] {
			if err := f.SetCellStyle(DataSheet, cell, fmt.Sprintf("%s%d", last, rowNum), highlight); err != nil {
				return fmt.Errorf("highlight row %s: %w", r.ID(), err)
			}
		}
	}
	return nil
}

// cellValue maps a cell onto the Go type excelize writes natively.
func cellValue(v dataset.Value) any {
	switch v.Kind() {
	case dataset.KindNumber:
		return v.Float()
	case dataset.KindBool:
		return v.Boolean()
	case dataset.KindString:
		return v.Raw()
	default:
		return ""
	}
}
