package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	cases := []struct {
		in   string
		want Value
	}{
		{"", Missing()},
		{"   ", Missing()},
		{"TRUE", Bool(true)},
		{"false", Bool(false)},
		{" 42 ", Number(42)},
		{"100.0", Number(100)},
		{"-1.5e3", Number(-1500)},
		{"NaN", String("NaN")},
		{"Infinity", String("Infinity")},
		{"  hello world ", String("hello world")},
		{"1", Number(1)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseCell(c.in), "ParseCell(%q)", c.in)
	}
}

func TestEmptyStringIsMissing(t *testing.T) {
	assert.True(t, String("").IsMissing())
	assert.Equal(t, Missing(), String(""))
	assert.Equal(t, "", Missing().Text())
}

func TestCoercions(t *testing.T) {
	n, ok := String(" 12.5 ").ToNumber()
	require.True(t, ok)
	assert.Equal(t, 12.5, n)

	_, ok = String("twelve").ToNumber()
	assert.False(t, ok)
	_, ok = Missing().ToNumber()
	assert.False(t, ok)

	n, ok = Bool(true).ToNumber()
	require.True(t, ok)
	assert.Equal(t, 1.0, n)

	b, ok := String("0").ToBool()
	require.True(t, ok)
	assert.False(t, b)
	b, ok = Number(1).ToBool()
	require.True(t, ok)
	assert.True(t, b)
	_, ok = String("yes").ToBool()
	assert.False(t, ok)

	d, ok := String("2023-10-15").ToDate()
	require.True(t, ok)
	assert.Equal(t, "2023-10-15T00:00:00.000Z", FormatISO(d))
	_, ok = Number(2023).ToDate()
	assert.False(t, ok)
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{
		"2023-10-01",
		"2023-10-01T08:30:00Z",
		"2023-10-01 08:30:00",
		"10/01/2023",
		"1/2/2024",
		"Oct 1, 2023",
		"1 Oct 2023",
	} {
		assert.True(t, IsDate(s), s)
	}
	for _, s := range []string{"", "hello", "42", "2023-13-45"} {
		assert.False(t, IsDate(s), s)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "100", Number(100).Text())
	assert.Equal(t, "0.25", Number(0.25).Text())
	assert.Equal(t, "-3", Number(-3).Text())
	assert.Equal(t, "1e+21", Number(1e21).Text())
}

func TestRowIsImmutable(t *testing.T) {
	r := NewRow("row-1", []string{"a", "b"}, []Value{Number(1), String("x")})
	r2 := r.With("a", Number(2))
	r3 := r.With("c", Bool(true))

	assert.Equal(t, Number(1), r.Get("a"))
	assert.Equal(t, Number(2), r2.Get("a"))
	assert.Equal(t, []string{"a", "b"}, r.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, r3.Keys())
	assert.Equal(t, "row-1", r3.ID())
	assert.True(t, r.Get("nope").IsMissing())
}

func TestNewRowDropsIdentifierColumn(t *testing.T) {
	r := NewRow("row-9", []string{RowIDKey, "x"}, []Value{String("bogus"), Number(3)})
	assert.Equal(t, []string{"x"}, r.Keys())
	assert.Equal(t, "row-9", r.ID())
}

func TestFromRecordPadsShortRecords(t *testing.T) {
	r := FromRecord(RowID(3), []string{"a", "b", "c"}, []string{"1", "true"})
	assert.Equal(t, "row-3", r.ID())
	assert.Equal(t, Number(1), r.Get("a"))
	assert.Equal(t, Bool(true), r.Get("b"))
	assert.True(t, r.Get("c").IsMissing())
	assert.True(t, r.Has("c"))
}

func TestRowJSONRoundTrip(t *testing.T) {
	r := NewRow("row-1", []string{"name", "score", "ok", "note"},
		[]Value{String("Ada"), Number(9.5), Bool(true), Missing()})
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"__rowId":"row-1","name":"Ada","score":9.5,"ok":true,"note":null}`, string(b))

	var back Row
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r.Keys(), back.Keys())
	assert.Equal(t, r.ID(), back.ID())
	for _, k := range r.Keys() {
		assert.Equal(t, r.Get(k), back.Get(k), k)
	}
}
