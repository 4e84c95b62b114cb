package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "missing"
	}
}

// Value is a single raw cell: a string, a number, a boolean, or Missing.
// The zero Value is Missing. Absent cells, nulls and empty strings all
// collapse to Missing when they enter the package, so callers never need
// to check more than one representation.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Missing returns the missing-value sentinel.
func Missing() Value { return Value{} }

// String wraps s. An empty string is Missing.
func String(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, str: s}
}

// Number wraps f.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }
func (v Value) Raw() string { return v.str }
func (v Value) Float() float64 { return v.num }
func (v Value) Boolean() bool { return v.b }
func (v Value) Equal(o Value) bool { return v == o }

// Text renders the value the way it is displayed: strings verbatim,
// numbers in shortest round-trip form, booleans as true/false and
// Missing as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func (v Value) GoString() string {
	return fmt.Sprintf("dataset.Value{%s:%q}", v.kind, v.Text())
}

// ToNumber coerces the value to a finite float64.
// Booleans map to 1 and 0; strings must parse as a finite number after trimming.
func (v Value) ToNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		return ParseNumber(v.str)
	default:
		return 0, false
	}
}

// ToDate parses the value's text form as a calendar date.
func (v Value) ToDate() (time.Time, bool) {
	if v.kind != KindString {
		return time.Time{}, false
	}
	return ParseDate(v.str)
}

// ToBool accepts booleans and the tokens true/false/1/0 (case-insensitive).
func (v Value) ToBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	if v.kind == KindMissing {
		return false, false
	}
	return ParseBool(v.Text())
}

// ParseNumber parses s as a finite decimal number. Leading and trailing
// whitespace is ignored; NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBool recognises true/false/1/0, case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

// IsBoolToken reports whether s is one of the literal boolean tokens.
func IsBoolToken(s string) bool {
	_, ok := ParseBool(s)
	return ok
}

// FormatNumber renders f in shortest round-trip form, switching to
// exponent notation for very large or very small magnitudes.
func FormatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseCell normalises one raw text cell coming out of a file parser:
// trimmed, empty -> Missing, true/false -> Bool, numeric -> Number, else String.
func ParseCell(raw string) Value {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Missing()
	}
	switch strings.ToLower(text) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if f, ok := ParseNumber(text); ok {
		return Number(f)
	}
	return String(text)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Missing()
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode cell: %w", err)
	}
	switch x := raw.(type) {
	case string:
		*v = String(x)
	case float64:
		*v = Number(x)
	case bool:
		*v = Bool(x)
	default:
		return fmt.Errorf("decode cell: unsupported JSON value %s", string(data))
	}
	return nil
}
