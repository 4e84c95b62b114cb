package analysis

import (
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
	"github.com/montanaflynn/stats"
)

const (
	maxKPIs          = 6
	maxKPINumColumns = 2
)

// BuildKPIs returns Rows and Columns followed by a Sum and an Avg for each of
// the first two number columns. Missing and unparseable cells are excluded
// from both the sum and the average rather than counted as zero. Columns
// without any parseable value add nothing. The result never exceeds six items.
func BuildKPIs(rows []dataset.Row, profiles []ColumnProfile) []KPIItem {
	kpis := []KPIItem{
		{ID: "rows", Label: "Rows", Value: float64(len(rows))},
		{ID: "columns", Label: "Columns", Value: float64(len(profiles))},
	}
	numeric := ColumnsOfType(profiles, TypeNumber)
	if len(numeric) > maxKPINumColumns {
		numeric = numeric[:maxKPINumColumns]
	}
	for _, p := range numeric {
		nums := numericValues(rows, p.Key)
		if len(nums) == 0 {
			continue
		}
		sum, err := stats.Sum(nums)
		if err != nil {
			continue
		}
		mean, err := stats.Mean(nums)
		if err != nil {
			continue
		}
		kpis = append(kpis,
			KPIItem{ID: p.Key + "-sum", Label: p.OriginalName + " Sum", Value: utils.Round2(sum)},
			KPIItem{ID: p.Key + "-avg", Label: p.OriginalName + " Avg", Value: utils.Round2(mean)},
		)
	}
	if len(kpis) > maxKPIs {
		kpis = kpis[:maxKPIs]
	}
	return kpis
}

func numericValues(rows []dataset.Row, key string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if x, ok := r.Get(key).ToNumber(); ok {
			out = append(out, x)
		}
	}
	return out
}
