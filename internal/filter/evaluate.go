package filter

import (
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
)

// Matcher is a compiled filter state. The zero Matcher matches every row.
type Matcher struct {
	or    bool
	preds []func(dataset.Row) bool
}

// Compile resolves each condition's column type against profiles once and
// returns a matcher that can be applied to any number of rows. Columns absent
// from profiles compare as case-insensitive text.
func Compile(state State, profiles []analysis.ColumnProfile) Matcher {
	types := analysis.ColumnTypes(profiles)
	m := Matcher{or: state.Logic.IsOr(), preds: make([]func(dataset.Row) bool, 0, len(state.Conditions))}
	for _, c := range state.Conditions {
		m.preds = append(m.preds, predicate(c, types[c.Column]))
	}
	return m
}

// Empty reports whether the matcher has no conditions.
func (m Matcher) Empty() bool { return len(m.preds) == 0 }

// Match evaluates every condition against r and combines the results.
func (m Matcher) Match(r dataset.Row) bool {
	if len(m.preds) == 0 {
		return true
	}
	for _, p := range m.preds {
		ok := p(r)
		if m.or && ok {
			return true
		}
		if !m.or && !ok {
			return false
		}
	}
	return !m.or
}

// Apply returns the rows that satisfy state, in their original order. An
// empty condition list returns rows itself. rows is never modified.
func Apply(rows []dataset.Row, state State, profiles []analysis.ColumnProfile) []dataset.Row {
	if state.IsEmpty() {
		return rows
	}
	m := Compile(state, profiles)
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		if m.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func predicate(c Condition, dt analysis.DataType) func(dataset.Row) bool {
	col := c.Column
	switch c.Op {
	case OpEq, OpNeq:
		want := equalityKey(c.Value.Value(), dt)
		neq := c.Op == OpNeq
		return func(r dataset.Row) bool {
			return keysEqual(equalityKey(r.Get(col), dt), want) != neq
		}
	case OpGt, OpGte, OpLt, OpLte:
		cmp := comparator(c.Op)
		expected := c.Value.Value()
		if dt == analysis.TypeDate {
			want, wantOK := expected.ToDate()
			return func(r dataset.Row) bool {
				got, ok := r.Get(col).ToDate()
				return ok && wantOK && cmp(compareTimes(got, want))
			}
		}
		want := toFloat(expected)
		return func(r dataset.Row) bool {
			got := toFloat(r.Get(col))
			if math.IsNaN(got) || math.IsNaN(want) {
				return false
			}
			return cmp(compareFloats(got, want))
		}
	case OpContains, OpStartsWith, OpEndsWith:
		needle := strings.ToLower(c.Value.Value().Text())
		test := strings.Contains
		switch c.Op {
		case OpStartsWith:
			test = strings.HasPrefix
		case OpEndsWith:
			test = strings.HasSuffix
		}
		return func(r dataset.Row) bool {
			return test(strings.ToLower(r.Get(col).Text()), needle)
		}
	case OpIn:
		if !c.Value.IsList() {
			return func(dataset.Row) bool { return false }
		}
		items := c.Value.Items()
		wants := make([]eqKey, len(items))
		for i, v := range items {
			wants[i] = equalityKey(v, dt)
		}
		return func(r dataset.Row) bool {
			got := equalityKey(r.Get(col), dt)
			for _, w := range wants {
				if keysEqual(got, w) {
					return true
				}
			}
			return false
		}
	case OpBetween:
		bounds := c.Value.Items()
		if !c.Value.IsList() || len(bounds) != 2 {
			// Malformed range: every row passes.
			return func(dataset.Row) bool { return true }
		}
		if dt == analysis.TypeDate {
			lo, loOK := bounds[0].ToDate()
			hi, hiOK := bounds[1].ToDate()
			return func(r dataset.Row) bool {
				t, ok := r.Get(col).ToDate()
				return ok && loOK && hiOK && !t.Before(lo) && !t.After(hi)
			}
		}
		lo, hi := toFloat(bounds[0]), toFloat(bounds[1])
		return func(r dataset.Row) bool {
			x := toFloat(r.Get(col))
			return x >= lo && x <= hi
		}
	case OpIsNull:
		return func(r dataset.Row) bool { return r.Get(col).IsMissing() }
	case OpIsNotNull:
		return func(r dataset.Row) bool { return !r.Get(col).IsMissing() }
	default:
		return func(dataset.Row) bool { return true }
	}
}

// toFloat coerces v to a number, NaN when it has none. NaN compares false
// against everything, so comparisons on unparseable cells fail closed.
func toFloat(v dataset.Value) float64 {
	if x, ok := v.ToNumber(); ok {
		return x
	}
	return math.NaN()
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func comparator(op Op) func(int) bool {
	switch op {
	case OpGt:
		return func(c int) bool { return c > 0 }
	case OpGte:
		return func(c int) bool { return c >= 0 }
	case OpLt:
		return func(c int) bool { return c < 0 }
	default:
		return func(c int) bool { return c <= 0 }
	}
}

type keyKind int

const (
	keyNull keyKind = iota
	keyInvalid
	keyNumber
	keyBool
	keyString
)

// eqKey is a cell normalised for type-aware equality.
type eqKey struct {
	kind keyKind
	num  float64
	b    bool
	s    string
}

// keysEqual compares normalised cells. An invalid key equals nothing, itself included.
func keysEqual(a, b eqKey) bool {
	if a.kind == keyInvalid || b.kind == keyInvalid {
		return false
	}
	return a == b
}

func equalityKey(v dataset.Value, dt analysis.DataType) eqKey {
	if v.IsMissing() {
		return eqKey{kind: keyNull}
	}
	switch dt {
	case analysis.TypeNumber:
		if x, ok := v.ToNumber(); ok {
			return eqKey{kind: keyNumber, num: x}
		}
		return eqKey{kind: keyInvalid}
	case analysis.TypeBoolean:
		if b, ok := v.ToBool(); ok {
			return eqKey{kind: keyBool, b: b}
		}
	}
	return eqKey{kind: keyString, s: strings.ToLower(v.Text())}
}
