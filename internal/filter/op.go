package filter

import (
	"fmt"
	"strings"
)

// Op is a filter operator. The set is closed; OpUnknown is only produced when
// decoding a tag this version does not recognise, and it matches every row.
type Op int

const (
	OpUnknown Op = iota
	OpEq
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpContains
	OpStartsWith
	OpEndsWith
	OpIn
	OpBetween
	OpIsNull
	OpIsNotNull
)

var opNames = [...]string{
	OpUnknown:    "unknown",
	OpEq:         "eq",
	OpNeq:        "neq",
	OpGt:         "gt",
	OpGte:        "gte",
	OpLt:         "lt",
	OpLte:        "lte",
	OpContains:   "contains",
	OpStartsWith: "startsWith",
	OpEndsWith:   "endsWith",
	OpIn:         "in",
	OpBetween:    "between",
	OpIsNull:     "isNull",
	OpIsNotNull:  "isNotNull",
}

// symbols accepted on the command line in place of operator names.
var opSymbols = map[string]Op{
	"=":  OpEq,
	"==": OpEq,
	"!=": OpNeq,
	"<>": OpNeq,
	">":  OpGt,
	">=": OpGte,
	"<":  OpLt,
	"<=": OpLte,
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return opNames[OpUnknown]
	}
	return opNames[o]
}

// Ops lists every known operator in declaration order.
func Ops() []Op {
	out := make([]Op, 0, len(opNames)-1)
	for o := OpEq; o <= OpIsNotNull; o++ {
		out = append(out, o)
	}
	return out
}

// ParseOp resolves an operator name (case-insensitive) or comparison symbol.
func ParseOp(s string) (Op, error) {
	s = strings.TrimSpace(s)
	if o, ok := opSymbols[s]; ok {
		return o, nil
	}
	for o := OpEq; o <= OpIsNotNull; o++ {
		if strings.EqualFold(opNames[o], s) {
			return o, nil
		}
	}
	return OpUnknown, fmt.Errorf("unknown operator %q", s)
}

// TakesValue reports whether the operator reads the condition's value.
func (o Op) TakesValue() bool {
	switch o {
	case OpIsNull, OpIsNotNull, OpUnknown:
		return false
	}
	return true
}

func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText never fails: unrecognised tags decode to OpUnknown so that
// presets written by newer versions still load.
func (o *Op) UnmarshalText(b []byte) error {
	s := string(b)
	for op := OpEq; op <= OpIsNotNull; op++ {
		if opNames[op] == s {
			*o = op
			return nil
		}
	}
	*o = OpUnknown
	return nil
}
