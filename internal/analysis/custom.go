package analysis

import (
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/google/uuid"
)

// NewCustomChart returns a default bar chart config for the given columns:
// x is the first column, y the first number column (else the second column, else x).
func NewCustomChart(profiles []ColumnProfile) CustomChartConfig {
	x := "x"
	if len(profiles) > 0 {
		x = profiles[0].Key
	}
	y := x
	if nums := ColumnsOfType(profiles, TypeNumber); len(nums) > 0 {
		y = nums[0].Key
	} else if len(profiles) > 1 {
		y = profiles[1].Key
	}
	return CustomChartConfig{
		ID:        "custom_" + uuid.NewString(),
		Title:     "Custom Chart",
		ChartType: ChartBar,
		XKey:      x,
		YKeys:     []string{y},
	}
}

// BuildCustomChart materialises cfg against rows. The dataset holds the x
// key, every y key and the group key, in that order of precedence.
func BuildCustomChart(rows []dataset.Row, cfg CustomChartConfig, profiles []ColumnProfile) ChartSpec {
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.Key] = p.OriginalName
	}
	var keys []string
	seen := make(map[string]bool)
	add := func(k string) {
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keys = append(keys, k)
	}
	add(cfg.XKey)
	for _, y := range cfg.YKeys {
		add(y)
	}
	add(cfg.GroupBy)

	spec := ChartSpec{
		ID:        cfg.ID,
		Title:     cfg.Title,
		ChartType: cfg.ChartType,
		XKey:      cfg.XKey,
		Dataset:   project(rows, keys...),
	}
	if spec.ChartType == "" {
		spec.ChartType = ChartBar
	}
	if len(cfg.YKeys) > 0 {
		spec.YKey = cfg.YKeys[0]
	}
	if len(cfg.YKeys) > 1 {
		for _, y := range cfg.YKeys {
			name := names[y]
			if name == "" {
				name = y
			}
			spec.Series = append(spec.Series, SeriesRef{Key: y, Name: name})
		}
	}
	return spec
}
