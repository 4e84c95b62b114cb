package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/google/uuid"
)

// CustomCharts returns a copy of the saved custom charts in insertion order.
func (w *Workspace) CustomCharts() []analysis.CustomChartConfig {
	out := make([]analysis.CustomChartConfig, len(w.Charts))
	for i, c := range w.Charts {
		out[i] = copyChart(c)
	}
	return out
}

// AddChart validates cfg, assigns an id when it has none and appends it.
func (w *Workspace) AddChart(cfg analysis.CustomChartConfig) (analysis.CustomChartConfig, error) {
	cfg = copyChart(cfg)
	if cfg.ID == "" {
		cfg.ID = "custom_" + uuid.NewString()
	}
	if cfg.ChartType == "" {
		cfg.ChartType = analysis.ChartBar
	}
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = "Custom Chart"
	}
	if err := validateChart(cfg); err != nil {
		return analysis.CustomChartConfig{}, err
	}
	if w.chartIndex(cfg.ID) >= 0 {
		return analysis.CustomChartConfig{}, fmt.Errorf("chart %q already exists", cfg.ID)
	}
	w.Charts = append(w.Charts, cfg)
	return copyChart(cfg), nil
}

// UpdateChart replaces the chart with cfg.ID.
func (w *Workspace) UpdateChart(cfg analysis.CustomChartConfig) error {
	i := w.chartIndex(cfg.ID)
	if i < 0 {
		return fmt.Errorf("chart %q: %w", cfg.ID, ErrNotFound)
	}
	if err := validateChart(cfg); err != nil {
		return err
	}
	w.Charts[i] = copyChart(cfg)
	return nil
}

// DeleteChart removes the chart with id.
func (w *Workspace) DeleteChart(id string) error {
	i := w.chartIndex(id)
	if i < 0 {
		return fmt.Errorf("chart %q: %w", id, ErrNotFound)
	}
	w.Charts = append(w.Charts[:i:i], w.Charts[i+1:]...)
	return nil
}

func (w *Workspace) chartIndex(id string) int {
	for i, c := range w.Charts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func validateChart(cfg analysis.CustomChartConfig) error {
	if _, err := analysis.ParseChartType(string(cfg.ChartType)); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.XKey) == "" {
		return errors.New("chart x key is required")
	}
	if len(cfg.YKeys) == 0 {
		return errors.New("chart needs at least one y key")
	}
	return nil
}

func copyChart(c analysis.CustomChartConfig) analysis.CustomChartConfig {
	c.YKeys = append([]string(nil), c.YKeys...)
	return c
}
