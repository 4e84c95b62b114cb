package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
)

// DataType is the semantic type inferred for a column.
type DataType string

const (
	TypeNumber   DataType = "number"
	TypeDate     DataType = "date"
	TypeBoolean  DataType = "boolean"
	TypeCategory DataType = "category"
	TypeText     DataType = "text"
	TypeUnknown  DataType = "unknown"
)

// ColumnProfile captures inferred type and statistics per column.
type ColumnProfile struct {
	Key          string   `json:"key"`
	OriginalName string   `json:"originalName"`
	DataType     DataType `json:"dataType"`
	NullRatio    float64  `json:"nullRatio"`
	UniqueCount  int      `json:"uniqueCount"`
	SampleValues []string `json:"sampleValues"`
	// Min and Max are set only for number and date columns with at least one parseable value.
	Min *Bound `json:"min,omitempty"`
	Max *Bound `json:"max,omitempty"`
}

// Bound is a column extreme: a number for numeric columns, an ISO-8601
// timestamp for date columns.
type Bound struct {
	Number float64
	Time   string
}

func numberBound(f float64) *Bound { return &Bound{Number: f} }
func timeBound(iso string) *Bound { return &Bound{Time: iso} }

// IsTime reports whether the bound is a timestamp.
func (b Bound) IsTime() bool { return b.Time != "" }

func (b Bound) String() string {
	if b.IsTime() {
		return b.Time
	}
	return dataset.FormatNumber(b.Number)
}

func (b Bound) MarshalJSON() ([]byte, error) {
	if b.IsTime() {
		return json.Marshal(b.Time)
	}
	return json.Marshal(b.Number)
}

func (b *Bound) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*b = Bound{Number: x}
	case string:
		*b = Bound{Time: x}
	default:
		return fmt.Errorf("bound: unsupported JSON value %s", string(data))
	}
	return nil
}

// ColumnTypes maps column keys to their inferred types.
func ColumnTypes(profiles []ColumnProfile) map[string]DataType {
	out := make(map[string]DataType, len(profiles))
	for _, p := range profiles {
		out[p.Key] = p.DataType
	}
	return out
}

// ColumnsOfType returns the profiles of the given type, in profile order.
func ColumnsOfType(profiles []ColumnProfile, types ...DataType) []ColumnProfile {
	var out []ColumnProfile
	for _, p := range profiles {
		for _, t := range types {
			if p.DataType == t {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Keys returns the column keys of profiles in order.
func Keys(profiles []ColumnProfile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Key
	}
	return out
}

// KPIItem is one scalar summary metric.
type KPIItem struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// KeywordItem is a token and the number of times it occurred.
type KeywordItem struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// ChartType names a chart layout.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartRadar   ChartType = "radar"
	ChartScatter ChartType = "scatter"
	ChartTreemap ChartType = "treemap"
	ChartArea    ChartType = "area"
	ChartTable   ChartType = "table"
	ChartKPI     ChartType = "kpi"
	ChartKeyword ChartType = "keyword"
)

var chartTypes = []ChartType{
	ChartBar, ChartLine, ChartPie, ChartRadar, ChartScatter,
	ChartTreemap, ChartArea, ChartTable, ChartKPI, ChartKeyword,
}

// ParseChartType validates a chart type name.
func ParseChartType(s string) (ChartType, error) {
	for _, t := range chartTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown chart type %q", s)
}

// Point is one materialised dataset entry: column key to cell.
type Point map[string]dataset.Value

// SeriesRef names one series of a multi-series chart.
type SeriesRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ChartSpec is a declarative chart: type, axes and a materialised dataset.
type ChartSpec struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	ChartType ChartType   `json:"chartType"`
	XKey      string      `json:"xKey,omitempty"`
	YKey      string      `json:"yKey,omitempty"`
	Series    []SeriesRef `json:"series,omitempty"`
	Dataset   []Point     `json:"dataset"`
}

// CustomChartConfig is a user-defined chart, persisted between runs.
type CustomChartConfig struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ChartType ChartType `json:"chartType"`
	XKey      string    `json:"xKey"`
	YKeys     []string  `json:"yKeys"`
	GroupBy   string    `json:"groupBy,omitempty"`
}
