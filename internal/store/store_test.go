package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
	"github.com/KaramelBytes/sheetlens-cli/internal/store"
)

func sampleState() filter.State {
	return filter.NewState(filter.LogicOr).With(
		filter.Condition{ID: "c1", Column: "region", Op: filter.OpIn,
			Value: filter.List(dataset.String("north"), dataset.String("south"))},
		filter.Condition{ID: "c2", Column: "notes", Op: filter.OpIsNull},
	)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	w, err := store.Load(filepath.Join(t.TempDir(), "nope", "workspace.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(w.Presets) != 0 || len(w.Charts) != 0 {
		t.Fatalf("expected empty workspace, got %+v", w)
	}
}

func TestPresetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws", "workspace.json")
	w, err := store.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	state := sampleState()
	first, err := w.SavePreset("  North or South ", state)
	if err != nil {
		t.Fatalf("save preset: %v", err)
	}
	if !strings.HasPrefix(first.ID, "preset_") || first.Name != "North or South" {
		t.Fatalf("unexpected preset: %+v", first)
	}
	if _, err := w.SavePreset("Recent", filter.State{}); err != nil {
		t.Fatalf("save preset: %v", err)
	}
	if _, err := w.SavePreset("   ", state); err == nil {
		t.Fatalf("expected error for blank name")
	}

	// Saved presets are detached from the caller's state.
	state.Conditions[0].Column = "changed"
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := store.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(back.Presets) != 2 || back.Presets[0].Name != "Recent" {
		t.Fatalf("presets should be newest first: %+v", back.Presets)
	}
	p, err := back.Preset("north OR south")
	if err != nil {
		t.Fatalf("preset by name: %v", err)
	}
	if p.ID != first.ID || !p.Filters.Logic.IsOr() || len(p.Filters.Conditions) != 2 {
		t.Fatalf("unexpected preset: %+v", p)
	}
	c := p.Filters.Conditions[0]
	if c.Column != "region" || c.Op != filter.OpIn || len(c.Value.Items()) != 2 {
		t.Fatalf("unexpected condition: %+v", c)
	}
	if p.Filters.Conditions[1].Op != filter.OpIsNull || !p.Filters.Conditions[1].Value.IsAbsent() {
		t.Fatalf("unexpected condition: %+v", p.Filters.Conditions[1])
	}

	if _, err := back.Preset(first.ID); err != nil {
		t.Fatalf("preset by id: %v", err)
	}
	if _, err := back.DeletePreset(first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := back.Preset(first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := back.DeletePreset("ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestChartsCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	w, _ := store.Load(path)
	c, err := w.AddChart(analysis.CustomChartConfig{XKey: "region", YKeys: []string{"revenue"}})
	if err != nil {
		t.Fatalf("add chart: %v", err)
	}
	if !strings.HasPrefix(c.ID, "custom_") || c.ChartType != analysis.ChartBar || c.Title != "Custom Chart" {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if _, err := w.AddChart(c); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := w.AddChart(analysis.CustomChartConfig{ChartType: "donut", XKey: "a", YKeys: []string{"b"}}); err == nil {
		t.Fatalf("expected chart type error")
	}
	if _, err := w.AddChart(analysis.CustomChartConfig{XKey: "a"}); err == nil {
		t.Fatalf("expected y key error")
	}

	c.ChartType = analysis.ChartLine
	c.YKeys = append(c.YKeys, "units")
	if err := w.UpdateChart(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	charts := w.CustomCharts()
	charts[0].YKeys[0] = "mutated"
	if got := w.CustomCharts()[0]; got.ChartType != analysis.ChartLine || got.YKeys[0] != "revenue" || len(got.YKeys) != 2 {
		t.Fatalf("unexpected chart: %+v", got)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	back, err := store.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := back.DeleteChart(c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(back.Charts) != 0 {
		t.Fatalf("chart not deleted")
	}
	if err := back.DeleteChart(c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := back.UpdateChart(c); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
