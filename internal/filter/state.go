package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
)

// Logic combines condition results.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// ParseLogic accepts "and" or "or", case-insensitively.
func ParseLogic(s string) (Logic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and", "":
		return LogicAnd, nil
	case "or":
		return LogicOr, nil
	}
	return "", fmt.Errorf("invalid logic %q (want and|or)", s)
}

// IsOr reports whether at least one condition suffices. Any value other than
// "or" combines with AND.
func (l Logic) IsOr() bool { return l == LogicOr }

// Operand is a condition's expected value: absent, a single cell, or a list.
type Operand struct {
	list   bool
	scalar dataset.Value
	items  []dataset.Value
}

// Absent returns the empty operand.
func Absent() Operand { return Operand{} }

// Scalar wraps one value. Scalar(dataset.Missing()) is indistinguishable from Absent.
func Scalar(v dataset.Value) Operand { return Operand{scalar: v} }

// List wraps a sequence of values.
func List(vs ...dataset.Value) Operand {
	items := make([]dataset.Value, len(vs))
	copy(items, vs)
	return Operand{list: true, items: items}
}

func (o Operand) IsAbsent() bool { return !o.list && o.scalar.IsMissing() }
func (o Operand) IsList() bool { return o.list }

// Items returns a copy of the list elements, or nil for a non-list operand.
func (o Operand) Items() []dataset.Value {
	if !o.list {
		return nil
	}
	out := make([]dataset.Value, len(o.items))
	copy(out, o.items)
	return out
}

// Value returns the operand as one cell. Lists join their elements' text with commas.
func (o Operand) Value() dataset.Value {
	if !o.list {
		return o.scalar
	}
	parts := make([]string, len(o.items))
	for i, v := range o.items {
		parts[i] = v.Text()
	}
	return dataset.String(strings.Join(parts, ","))
}

func (o Operand) String() string {
	if !o.list {
		return o.scalar.Text()
	}
	parts := make([]string, len(o.items))
	for i, v := range o.items {
		parts[i] = v.Text()
	}
	return strings.Join(parts, ", ")
}

func (o Operand) MarshalJSON() ([]byte, error) {
	if o.list {
		if o.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(o.items)
	}
	return o.scalar.MarshalJSON()
}

func (o *Operand) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []dataset.Value
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode operand list: %w", err)
		}
		*o = List(items...)
		return nil
	}
	var v dataset.Value
	if err := v.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode operand: %w", err)
	}
	*o = Scalar(v)
	return nil
}

// Condition is one typed predicate over a column.
type Condition struct {
	ID     string
	Column string
	Op     Op
	Value  Operand
}

type conditionJSON struct {
	ID     string   `json:"id"`
	Column string   `json:"column"`
	Op     Op       `json:"op"`
	Value  *Operand `json:"value,omitempty"`
}

func (c Condition) MarshalJSON() ([]byte, error) {
	out := conditionJSON{ID: c.ID, Column: c.Column, Op: c.Op}
	if !c.Value.IsAbsent() {
		v := c.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var in conditionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = Condition{ID: in.ID, Column: in.Column, Op: in.Op}
	if in.Value != nil {
		c.Value = *in.Value
	}
	return nil
}

func (c Condition) String() string {
	if c.Op.TakesValue() {
		return fmt.Sprintf("%s %s %s", c.Column, c.Op, c.Value)
	}
	return fmt.Sprintf("%s %s", c.Column, c.Op)
}

// State is a boolean combination of conditions. The zero value matches everything.
type State struct {
	Logic      Logic       `json:"logic"`
	Conditions []Condition `json:"conditions"`
}

// NewState returns an empty state with the given logic.
func NewState(logic Logic) State {
	return State{Logic: logic, Conditions: []Condition{}}
}

// IsEmpty reports whether the state has no conditions.
func (s State) IsEmpty() bool { return len(s.Conditions) == 0 }

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	out := State{Logic: s.Logic, Conditions: make([]Condition, len(s.Conditions))}
	for i, c := range s.Conditions {
		if c.Value.list {
			c.Value = List(c.Value.items...)
		}
		out.Conditions[i] = c
	}
	return out
}

// With returns a copy of s with conds appended.
func (s State) With(conds ...Condition) State {
	out := s.Clone()
	out.Conditions = append(out.Conditions, conds...)
	return out
}

func (s State) MarshalJSON() ([]byte, error) {
	type plain State
	p := plain(s)
	if p.Logic == "" {
		p.Logic = LogicAnd
	}
	if p.Conditions == nil {
		p.Conditions = []Condition{}
	}
	return json.Marshal(p)
}

// UnmarshalJSON accepts logic in any case; a missing logic is AND and any
// value other than and/or is an error.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	logic, err := ParseLogic(string(p.Logic))
	if err != nil {
		return err
	}
	p.Logic = logic
	*s = State(p)
	return nil
}

// DecodeState reads a JSON filter state.
func DecodeState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode filter state: %w", err)
	}
	if s.Conditions == nil {
		s.Conditions = []Condition{}
	}
	return s, nil
}
