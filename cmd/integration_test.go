package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
	"github.com/KaramelBytes/sheetlens-cli/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"
)

const salesCSV = `date,region,revenue,units,notes
2023-10-01,north,100,2,late delivery
2023-10-02,south,250,5,box damaged
2023-10-03,north,400,8,on time
2023-10-04,east,50,1,
`

// resetFlags restores every flag to its default so runs don't leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

// executeWithStderr is execute that also returns what the command wrote to stderr.
func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// runCmd is execute for commands that must succeed.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// setup isolates HOME and writes the sales fixture, returning its path.
func setup(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	data = filepath.Join(home, "sales.csv")
	if err := os.WriteFile(data, []byte(salesCSV), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return home, data
}

type snapshotJSON struct {
	TotalRows int              `json:"totalRows"`
	Filtered  []map[string]any `json:"filteredRows"`
	Filters   struct {
		Logic string `json:"logic"`
	} `json:"filters"`
	KPIs []struct {
		ID    string  `json:"id"`
		Value float64 `json:"value"`
	} `json:"kpis"`
	Custom []struct {
		Title string `json:"title"`
	} `json:"customCharts"`
}

func analyzeJSON(t *testing.T, args ...string) snapshotJSON {
	t.Helper()
	out := runCmd(t, append([]string{"analyze"}, append(args, "--json")...)...)
	var s snapshotJSON
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}
	return s
}

func kpi(s snapshotJSON, id string) (float64, bool) {
	for _, k := range s.KPIs {
		if k.ID == id {
			return k.Value, true
		}
	}
	return 0, false
}

func TestCLI_ProfileJSON(t *testing.T) {
	_, data := setup(t)
	out := runCmd(t, "profile", data, "--json")
	var got []fileProfile
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode profiles: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].File != "sales.csv" || got[0].Rows != 4 {
		t.Fatalf("unexpected profile header: %+v", got)
	}
	types := map[string]string{}
	for _, c := range got[0].Columns {
		types[c.Key] = string(c.DataType)
	}
	if types["date"] != "date" || types["revenue"] != "number" || types["units"] != "number" {
		t.Fatalf("unexpected column types: %v", types)
	}
}

func TestCLI_ProfileTableAndGlob(t *testing.T) {
	home, _ := setup(t)
	second := filepath.Join(home, "more.csv")
	if err := os.WriteFile(second, []byte("a,b\n1,x\n2,y\n"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	out := runCmd(t, "profile", filepath.Join(home, "*.csv"))
	for _, want := range []string{"more.csv", "sales.csv", "COLUMN", "revenue", "number"} {
		if !strings.Contains(out, want) {
			t.Fatalf("profile output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "more.csv") > strings.Index(out, "sales.csv") {
		t.Fatalf("files should be profiled in sorted order:\n%s", out)
	}

	if _, err := execute(t, "profile", filepath.Join(home, "*.nothing")); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}

func TestCLI_ProfileTruncationWarningsInFileOrder(t *testing.T) {
	home, _ := setup(t)
	second := filepath.Join(home, "more.csv")
	if err := os.WriteFile(second, []byte("a,b\n1,x\n2,y\n"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	_, stderr, err := executeWithStderr(t, "profile", filepath.Join(home, "*.csv"), "--max-rows", "1", "--parallel", "2", "--json")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	var warnings []string
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		if strings.Contains(line, "truncated") {
			warnings = append(warnings, line)
		}
	}
	if len(warnings) != 2 {
		t.Fatalf("want one warning per file, got %d:\n%s", len(warnings), stderr)
	}
	if !strings.Contains(warnings[0], "more.csv") || !strings.Contains(warnings[1], "sales.csv") {
		t.Fatalf("warnings should follow sorted file order:\n%s", stderr)
	}
}

func TestCLI_AnalyzeFilters(t *testing.T) {
	_, data := setup(t)

	s := analyzeJSON(t, data, "-w", "revenue > 100")
	if s.TotalRows != 4 || len(s.Filtered) != 2 {
		t.Fatalf("want 2 of 4 rows, got %d of %d", len(s.Filtered), s.TotalRows)
	}
	if v, ok := kpi(s, "revenue-sum"); !ok || v != 650 {
		t.Fatalf("revenue-sum = %v (found %v), want 650", v, ok)
	}

	s = analyzeJSON(t, data, "-w", "region = north", "-w", "units in 5,1", "--logic", "or")
	if s.Filters.Logic != "or" || len(s.Filtered) != 4 {
		t.Fatalf("OR filter: logic=%s rows=%d", s.Filters.Logic, len(s.Filtered))
	}

	s = analyzeJSON(t, data, "-w", "revenue between 60,300")
	if len(s.Filtered) != 2 {
		t.Fatalf("between: got %d rows", len(s.Filtered))
	}

	s = analyzeJSON(t, data, "-w", "notes isNull")
	if len(s.Filtered) != 1 || s.Filtered[0]["region"] != "east" {
		t.Fatalf("isNull: got %v", s.Filtered)
	}
}

func TestCLI_AnalyzeMarkdownToFile(t *testing.T) {
	home, data := setup(t)
	out := runCmd(t, "analyze", data, "-w", "region = north", "--rows", "5")
	for _, want := range []string{"[DATASET]", "Rows: 2 of 4", "Logic: AND", "- region eq north", "[ROWS]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}

	report := filepath.Join(home, "report.md")
	out = runCmd(t, "analyze", data, "-o", report)
	if !strings.Contains(out, "Wrote analysis to") {
		t.Fatalf("unexpected status: %q", out)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), "Rows: 4") {
		t.Fatalf("report missing row count:\n%s", b)
	}
}

func TestCLI_AnalyzeFilterFile(t *testing.T) {
	home, data := setup(t)
	path := filepath.Join(home, "filters.json")
	state := `{"logic":"or","conditions":[
		{"id":"a","column":"region","op":"eq","value":"east"},
		{"id":"b","column":"units","op":"gte","value":8},
		{"id":"c","column":"notes","op":"regex","value":"^late"}]}`
	if err := os.WriteFile(path, []byte(state), 0o644); err != nil {
		t.Fatalf("write filter file: %v", err)
	}
	// the unknown operator passes every row, so OR keeps everything
	s := analyzeJSON(t, data, "--filter-file", path)
	if len(s.Filtered) != 4 {
		t.Fatalf("want 4 rows, got %d", len(s.Filtered))
	}
	s = analyzeJSON(t, data, "--filter-file", path, "--logic", "and")
	if len(s.Filtered) != 0 {
		t.Fatalf("want 0 rows with AND, got %d", len(s.Filtered))
	}

	if _, err := execute(t, "analyze", data, "--filter-file", path, "--preset", "x"); err == nil {
		t.Fatalf("expected --preset and --filter-file to conflict")
	}
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home, data := setup(t)
	if _, err := execute(t, "analyze", data, "-w", "revenue"); !errors.Is(err, filter.ErrBadCondition) {
		t.Fatalf("want ErrBadCondition, got %v", err)
	}
	if _, err := execute(t, "analyze", data, "--format", "html"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := execute(t, "analyze", filepath.Join(home, "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCLI_PresetRoundTrip(t *testing.T) {
	_, data := setup(t)
	out := runCmd(t, "preset", "save", "North deals", "-w", "region = north", "-w", "revenue >= 100")
	if !strings.Contains(out, "Saved preset 'North deals'") {
		t.Fatalf("unexpected save output: %q", out)
	}
	out = runCmd(t, "preset", "list")
	if !strings.Contains(out, "North deals (2 conditions, AND") {
		t.Fatalf("unexpected list output: %q", out)
	}
	out = runCmd(t, "preset", "show", "north deals")
	if !strings.Contains(out, "- revenue gte 100") {
		t.Fatalf("unexpected show output: %q", out)
	}

	s := analyzeJSON(t, data, "--preset", "North deals")
	if len(s.Filtered) != 2 {
		t.Fatalf("preset filter: got %d rows", len(s.Filtered))
	}
	// --where narrows a preset further
	s = analyzeJSON(t, data, "--preset", "North deals", "-w", "units > 5")
	if len(s.Filtered) != 1 {
		t.Fatalf("preset + where: got %d rows", len(s.Filtered))
	}

	runCmd(t, "preset", "delete", "North deals")
	if _, err := execute(t, "analyze", data, "--preset", "North deals"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if out := runCmd(t, "preset", "list"); !strings.Contains(out, "(no presets)") {
		t.Fatalf("unexpected list output: %q", out)
	}
}

func TestCLI_ExportCSVAndXLSX(t *testing.T) {
	home, data := setup(t)
	csvOut := filepath.Join(home, "out", "big.csv")
	out := runCmd(t, "export", data, "-w", "units >= 5", "-o", csvOut)
	if !strings.Contains(out, "Exported 2 of 4 rows") {
		t.Fatalf("unexpected status: %q", out)
	}
	b, err := os.ReadFile(csvOut)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 || lines[0] != "date,region,revenue,units,notes" {
		t.Fatalf("unexpected csv export:\n%s", b)
	}

	xlsxOut := filepath.Join(home, "all.xlsx")
	runCmd(t, "export", data, "-w", "units >= 5", "-o", xlsxOut)
	f, err := excelize.OpenFile(xlsxOut)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Data")
	if err != nil {
		t.Fatalf("read Data sheet: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("Data sheet should hold header + all 4 rows, got %d", len(rows))
	}

	if _, err := execute(t, "export", data, "-o", filepath.Join(home, "x.json")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := execute(t, "export", data); err == nil {
		t.Fatalf("expected missing --output error")
	}
}

func TestCLI_ChartLifecycle(t *testing.T) {
	_, data := setup(t)
	out := runCmd(t, "chart", "add", "--from", data, "--title", "Revenue by region", "--x", "region", "--y", "revenue")
	if !strings.Contains(out, "Added chart 'Revenue by region' (custom_") {
		t.Fatalf("unexpected add output: %q", out)
	}
	if _, err := execute(t, "chart", "add", "--from", data, "--x", "nope"); err == nil {
		t.Fatalf("expected unknown column error")
	}
	if _, err := execute(t, "chart", "add", "--x", "region", "--y", "revenue", "--type", "donut"); err == nil {
		t.Fatalf("expected unknown chart type error")
	}

	out = runCmd(t, "chart", "list")
	if !strings.Contains(out, "Revenue by region (bar, x=region, y=revenue)") {
		t.Fatalf("unexpected list output: %q", out)
	}
	id := strings.TrimSuffix(strings.SplitN(strings.TrimPrefix(strings.TrimSpace(out), "- "), ":", 2)[0], ":")

	runCmd(t, "chart", "edit", id, "--type", "line", "--y", "revenue,units")
	if out := runCmd(t, "chart", "list"); !strings.Contains(out, "(line, x=region, y=revenue,units)") {
		t.Fatalf("edit not applied: %q", out)
	}

	s := analyzeJSON(t, data)
	if len(s.Custom) != 1 || s.Custom[0].Title != "Revenue by region" {
		t.Fatalf("custom charts: %+v", s.Custom)
	}
	if s := analyzeJSON(t, data, "--no-custom"); len(s.Custom) != 0 {
		t.Fatalf("--no-custom should skip charts, got %d", len(s.Custom))
	}

	runCmd(t, "chart", "remove", id)
	if out := runCmd(t, "chart", "list"); !strings.Contains(out, "(no charts)") {
		t.Fatalf("unexpected list output: %q", out)
	}
	if _, err := execute(t, "chart", "remove", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home, data := setup(t)
	runCmd(t, "config", "set", "default_logic", "or")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "default_logic: or") {
		t.Fatalf("unexpected config:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".sheetlens", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	// default_logic now combines --where conditions with OR
	s := analyzeJSON(t, data, "-w", "region = east", "-w", "units = 8")
	if len(s.Filtered) != 2 {
		t.Fatalf("config default_logic: got %d rows", len(s.Filtered))
	}

	if _, err := execute(t, "config", "set", "max_rows", "many"); err == nil {
		t.Fatalf("expected invalid int error")
	}
	if _, err := execute(t, "config", "set", "colour", "blue"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
