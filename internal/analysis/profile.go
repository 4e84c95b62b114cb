package analysis

import (
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
)

// Type inference thresholds, as fractions of non-missing values.
const (
	booleanRatio = 0.95
	numberRatio  = 0.8
	dateRatio    = 0.7

	// A column is categorical when its distinct count is at most
	// min(maxCategories, ceil(categoryRatio * non-missing)).
	maxCategories = 30
	categoryRatio = 0.2

	sampleSize = 5
)

// DetectColumnType infers the semantic type of a column from its raw cells.
// Missing cells are ignored; a column with no present value is TypeUnknown.
// Checks run boolean, number, date, category, text; the first match wins,
// so a 0/1 flag column is boolean rather than number.
func DetectColumnType(values []dataset.Value) DataType {
	var total, numCnt, dateCnt, boolCnt int
	distinct := make(map[string]struct{})
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		total++
		s := strings.TrimSpace(v.Text())
		distinct[s] = struct{}{}
		if _, ok := dataset.ParseNumber(s); ok {
			numCnt++
		}
		if dataset.IsDate(s) {
			dateCnt++
		}
		if dataset.IsBoolToken(s) {
			boolCnt++
		}
	}
	if total == 0 {
		return TypeUnknown
	}
	n := float64(total)
	switch {
	case float64(boolCnt)/n >= booleanRatio:
		return TypeBoolean
	case float64(numCnt)/n >= numberRatio:
		return TypeNumber
	case float64(dateCnt)/n >= dateRatio:
		return TypeDate
	case len(distinct) <= categoryLimit(total):
		return TypeCategory
	default:
		return TypeText
	}
}

func categoryLimit(total int) int {
	limit := int(math.Ceil(float64(total) * categoryRatio))
	if limit > maxCategories {
		return maxCategories
	}
	return limit
}

// ProfileColumns infers one profile per column of the first row, in that
// row's column order. An empty row set yields an empty slice.
func ProfileColumns(rows []dataset.Row) []ColumnProfile {
	keys := dataset.Columns(rows)
	profiles := make([]ColumnProfile, 0, len(keys))
	for _, key := range keys {
		values := make([]dataset.Value, len(rows))
		for i, r := range rows {
			values[i] = r.Get(key)
		}
		profiles = append(profiles, profileColumn(key, values))
	}
	return profiles
}

func profileColumn(key string, values []dataset.Value) ColumnProfile {
	p := ColumnProfile{
		Key:          key,
		OriginalName: key,
		DataType:     DetectColumnType(values),
		SampleValues: []string{},
	}
	present := make([]dataset.Value, 0, len(values))
	seen := make(map[string]struct{})
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		present = append(present, v)
		s := strings.TrimSpace(v.Text())
		seen[s] = struct{}{}
		if len(p.SampleValues) < sampleSize {
			p.SampleValues = append(p.SampleValues, s)
		}
	}
	p.UniqueCount = len(seen)
	if len(values) > 0 {
		p.NullRatio = float64(len(values)-len(present)) / float64(len(values))
	}

	switch p.DataType {
	case TypeNumber:
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range present {
			x, ok := v.ToNumber()
			if !ok {
				continue
			}
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
		if !math.IsInf(lo, 1) {
			p.Min, p.Max = numberBound(lo), numberBound(hi)
		}
	case TypeDate:
		var lo, hi time.Time
		found := false
		for _, v := range present {
			t, ok := dataset.ParseDate(v.Text())
			if !ok {
				continue
			}
			if !found || t.Before(lo) {
				lo = t
			}
			if !found || t.After(hi) {
				hi = t
			}
			found = true
		}
		if found {
			p.Min, p.Max = timeBound(dataset.FormatISO(lo)), timeBound(dataset.FormatISO(hi))
		}
	}
	return p
}
