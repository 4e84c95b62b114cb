package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RowIDKey is the JSON member that carries a row's identifier. It is never a column.
const RowIDKey = "__rowId"

// Row is one immutable record: an identifier plus cells in column order.
// Rows share their backing storage; nothing in this module mutates it.
type Row struct {
	id    string
	keys  []string
	cells map[string]Value
}

// NewRow builds a row from parallel key/value slices. A key equal to RowIDKey
// is dropped; later duplicates of a key overwrite the earlier value but keep
// the first position.
func NewRow(id string, keys []string, values []Value) Row {
	r := Row{id: id, keys: make([]string, 0, len(keys)), cells: make(map[string]Value, len(keys))}
	for i, k := range keys {
		if k == RowIDKey {
			continue
		}
		var v Value
		if i < len(values) {
			v = values[i]
		}
		if _, seen := r.cells[k]; !seen {
			r.keys = append(r.keys, k)
		}
		r.cells[k] = v
	}
	return r
}

// FromRecord builds a row from raw text cells, normalising each through ParseCell.
func FromRecord(id string, header []string, record []string) Row {
	values := make([]Value, len(header))
	for i := range header {
		if i < len(record) {
			values[i] = ParseCell(record[i])
		}
	}
	return NewRow(id, header, values)
}

// RowID formats the synthetic identifier of the n-th (1-based) data row.
func RowID(n int) string { return fmt.Sprintf("row-%d", n) }

func (r Row) ID() string { return r.id }

// Keys returns the row's column keys in order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.keys) }

// Get returns the cell for key, or Missing when the column is absent.
func (r Row) Get(key string) Value {
	if r.cells == nil {
		return Missing()
	}
	return r.cells[key]
}

// Has reports whether key is one of the row's columns.
func (r Row) Has(key string) bool {
	_, ok := r.cells[key]
	return ok
}

// With returns a copy of r with key set to v. The receiver is left untouched.
func (r Row) With(key string, v Value) Row {
	keys := r.Keys()
	values := make([]Value, len(keys), len(keys)+1)
	for i, k := range keys {
		values[i] = r.cells[k]
	}
	if !r.Has(key) {
		keys = append(keys, key)
		values = append(values, v)
	} else {
		for i, k := range keys {
			if k == key {
				values[i] = v
			}
		}
	}
	return NewRow(r.id, keys, values)
}

// Project copies the cells for keys into a fresh map.
func (r Row) Project(keys ...string) map[string]Value {
	out := make(map[string]Value, len(keys))
	for _, k := range keys {
		out[k] = r.Get(k)
	}
	return out
}

// Columns returns the column keys of the first row, or nil for an empty set.
func Columns(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// MarshalJSON writes the row as an object with RowIDKey first and columns in order.
func (r Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	id, _ := json.Marshal(r.id)
	b.WriteString(`"` + RowIDKey + `":`)
	b.Write(id)
	for _, k := range r.keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := r.cells[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.WriteByte(',')
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads an object produced by MarshalJSON, preserving member order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode row: expected object")
	}
	var (
		id     string
		keys   []string
		values []Value
	)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode row: %w", err)
		}
		key, _ := kt.(string)
		if key == RowIDKey {
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("decode row id: %w", err)
			}
			id = strings.TrimSpace(fmt.Sprint(raw))
			continue
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode row %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	*r = NewRow(id, keys, values)
	return nil
}
