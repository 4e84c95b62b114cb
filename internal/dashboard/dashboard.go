package dashboard

import (
	"log"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
)

// Snapshot is everything derived from one dataset and one filter state.
// It is recomputed wholesale; nothing in it is updated in place.
type Snapshot struct {
	Source    string                   `json:"source"`
	Columns   []analysis.ColumnProfile `json:"columns"`
	TotalRows int                      `json:"totalRows"`
	Filtered  []dataset.Row            `json:"filteredRows"`
	Filters   filter.State             `json:"filters"`
	KPIs      []analysis.KPIItem       `json:"kpis"`
	Keywords  []analysis.KeywordItem   `json:"keywords"`
	Charts    []analysis.ChartSpec     `json:"recommendedCharts"`
	Custom    []analysis.ChartSpec     `json:"customCharts"`
}

// Compute profiles rows, applies state and derives the analytics of the
// filtered rows. Text and category columns feed the keyword extractor.
func Compute(source string, rows []dataset.Row, state filter.State, custom []analysis.CustomChartConfig) *Snapshot {
	profiles := analysis.ProfileColumns(rows)
	filtered := filter.Apply(rows, state, profiles)
	textCols := analysis.Keys(analysis.ColumnsOfType(profiles, analysis.TypeText, analysis.TypeCategory))

	s := &Snapshot{
		Source:    source,
		Columns:   profiles,
		TotalRows: len(rows),
		Filtered:  filtered,
		Filters:   state.Clone(),
		KPIs:      analysis.BuildKPIs(filtered, profiles),
		Keywords:  analysis.ExtractKeywords(filtered, textCols),
		Charts:    analysis.RecommendCharts(filtered, profiles),
		Custom:    make([]analysis.ChartSpec, 0, len(custom)),
	}
	if s.Filtered == nil {
		s.Filtered = []dataset.Row{}
	}
	for _, c := range custom {
		s.Custom = append(s.Custom, analysis.BuildCustomChart(filtered, c, profiles))
	}
	log.Printf("[dashboard] %s: %d/%d rows pass %d conditions; %d charts, %d custom",
		source, len(filtered), len(rows), len(state.Conditions), len(s.Charts), len(s.Custom))
	return s
}
