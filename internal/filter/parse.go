package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/google/uuid"
)

// ErrBadCondition is returned when a condition expression cannot be parsed.
var ErrBadCondition = errors.New("bad condition")

var tokenRe = regexp.MustCompile(`\S+`)

// ParseCondition parses a "<column> <op> [value]" expression. The column is
// everything before the first operator token, so it may contain spaces.
// "in" takes comma-separated values, "between" takes "lo,hi", and
// isNull/isNotNull take none. Values are normalised like parsed cells.
func ParseCondition(expr string) (Condition, error) {
	locs := tokenRe.FindAllStringIndex(expr, -1)
	if len(locs) < 2 {
		return Condition{}, fmt.Errorf("%w: %q: want <column> <op> [value]", ErrBadCondition, expr)
	}
	opAt := -1
	var op Op
	for i := 1; i < len(locs); i++ {
		if o, err := ParseOp(expr[locs[i][0]:locs[i][1]]); err == nil {
			opAt, op = i, o
			break
		}
	}
	if opAt < 0 {
		return Condition{}, fmt.Errorf("%w: %q: no operator (one of %s)", ErrBadCondition, expr, opList())
	}
	column := strings.TrimSpace(expr[locs[0][0]:locs[opAt-1][1]])
	rest := strings.TrimSpace(expr[locs[opAt][1]:])

	c := Condition{ID: uuid.NewString(), Column: column, Op: op}
	switch op {
	case OpIsNull, OpIsNotNull:
		if rest != "" {
			return Condition{}, fmt.Errorf("%w: %q: %s takes no value", ErrBadCondition, expr, op)
		}
	case OpIn:
		if rest == "" {
			return Condition{}, fmt.Errorf("%w: %q: in needs a comma-separated list", ErrBadCondition, expr)
		}
		c.Value = List(splitValues(rest)...)
	case OpBetween:
		bounds := splitValues(rest)
		if len(bounds) != 2 {
			return Condition{}, fmt.Errorf("%w: %q: between needs lo,hi", ErrBadCondition, expr)
		}
		c.Value = List(bounds...)
	case OpContains, OpStartsWith, OpEndsWith:
		if rest == "" {
			return Condition{}, fmt.Errorf("%w: %q: %s needs a value", ErrBadCondition, expr, op)
		}
		// substring operands match the literal text, so 1.50 stays 1.50
		c.Value = Scalar(dataset.String(unquote(rest)))
	default:
		if rest == "" {
			return Condition{}, fmt.Errorf("%w: %q: %s needs a value", ErrBadCondition, expr, op)
		}
		c.Value = Scalar(dataset.ParseCell(unquote(rest)))
	}
	return c, nil
}

// ParseConditions parses each expression in order, stopping at the first error.
func ParseConditions(exprs []string) ([]Condition, error) {
	out := make([]Condition, 0, len(exprs))
	for _, e := range exprs {
		c, err := ParseCondition(e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func splitValues(s string) []dataset.Value {
	parts := strings.Split(s, ",")
	out := make([]dataset.Value, len(parts))
	for i, p := range parts {
		out[i] = dataset.ParseCell(unquote(strings.TrimSpace(p)))
	}
	return out
}

// unquote strips one pair of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func opList() string {
	names := make([]string, 0, len(opNames))
	for _, o := range Ops() {
		names = append(names, o.String())
	}
	return strings.Join(names, ", ")
}
