package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return hasExt(filename, ".csv", ".tsv")
}

func (csvParser) Parse(r io.Reader, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.Comma = delimiter(opt)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := newTable(header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		if !t.add(rec, opt.MaxRows) {
			break
		}
	}
	return t, nil
}

func delimiter(opt Options) rune {
	if opt.Delimiter != 0 {
		return opt.Delimiter
	}
	if hasExt(opt.filename, ".tsv") {
		return '\t'
	}
	return ','
}
