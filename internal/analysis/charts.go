package analysis

import (
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
)

const radarRowLimit = 20

// RecommendCharts applies a fixed set of independent rules to the profiles:
//
//  1. first date column x first number column: line
//  2. first category column x first number column: bar
//  3. first two number columns: scatter
//  4. three or more number columns: radar over the first three, first 20 rows only
//
// A rule whose column types are absent emits nothing. The result is a
// best-effort suggestion, not a judgement of visual quality.
func RecommendCharts(rows []dataset.Row, profiles []ColumnProfile) []ChartSpec {
	charts := []ChartSpec{}
	numbers := ColumnsOfType(profiles, TypeNumber)
	dates := ColumnsOfType(profiles, TypeDate)
	categories := ColumnsOfType(profiles, TypeCategory)

	if len(dates) > 0 && len(numbers) > 0 {
		x, y := dates[0], numbers[0]
		charts = append(charts, ChartSpec{
			ID:        "line-date-number",
			Title:     y.OriginalName + " Over " + x.OriginalName,
			ChartType: ChartLine,
			XKey:      x.Key,
			YKey:      y.Key,
			Dataset:   project(rows, x.Key, y.Key),
		})
	}
	if len(categories) > 0 && len(numbers) > 0 {
		x, y := categories[0], numbers[0]
		charts = append(charts, ChartSpec{
			ID:        "bar-category-number",
			Title:     y.OriginalName + " by " + x.OriginalName,
			ChartType: ChartBar,
			XKey:      x.Key,
			YKey:      y.Key,
			Dataset:   project(rows, x.Key, y.Key),
		})
	}
	if len(numbers) >= 2 {
		x, y := numbers[0], numbers[1]
		charts = append(charts, ChartSpec{
			ID:        "scatter-number-number",
			Title:     y.OriginalName + " vs " + x.OriginalName,
			ChartType: ChartScatter,
			XKey:      x.Key,
			YKey:      y.Key,
			Dataset:   project(rows, x.Key, y.Key),
		})
	}
	if len(numbers) >= 3 {
		top := numbers[:3]
		series := make([]SeriesRef, len(top))
		keys := make([]string, len(top))
		for i, c := range top {
			series[i] = SeriesRef{Key: c.Key, Name: c.OriginalName}
			keys[i] = c.Key
		}
		head := rows
		if len(head) > radarRowLimit {
			head = head[:radarRowLimit]
		}
		charts = append(charts, ChartSpec{
			ID:        "radar-three-number",
			Title:     "Multi-Metric Radar",
			ChartType: ChartRadar,
			Series:    series,
			Dataset:   project(head, keys...),
		})
	}
	return charts
}

// project materialises rows onto keys; the result shares nothing with rows.
func project(rows []dataset.Row, keys ...string) []Point {
	out := make([]Point, len(rows))
	for i, r := range rows {
		out[i] = Point(r.Project(keys...))
	}
	return out
}
