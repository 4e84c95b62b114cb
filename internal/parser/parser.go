package parser

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Parser reads one tabular file format into rows.
type Parser interface {
	CanParse(filename string) bool
	Parse(r io.Reader, opt Options) (*Table, error)
}

// Options controls ingestion.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Sheet selects an XLSX worksheet by name. Empty means the first sheet.
	Sheet string
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// filename is used for extension-based defaults.
	filename string
}

// DefaultOptions returns reasonable ingestion defaults.
func DefaultOptions() Options {
	return Options{MaxRows: 100000}
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

var (
	// ErrUnsupported indicates a file extension no parser handles.
	ErrUnsupported = errors.New("unsupported file format")
	// ErrNoRows indicates a file without a header row.
	ErrNoRows = errors.New("no header row")
)

// ParseFile selects a parser by extension and reads the file at path.
func ParseFile(path string, opt Options) (*Table, error) {
	p := lookup(path)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	opt.filename = path
	t, err := p.Parse(f, opt)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	t.Name = filepath.Base(path)
	log.Printf("[parser] %s: %d rows, %d columns (truncated=%v)", t.Name, len(t.Rows), len(t.Columns), t.Truncated)
	return t, nil
}

// Supported reports whether some registered parser accepts filename.
func Supported(filename string) bool { return lookup(filename) != nil }

func lookup(filename string) Parser {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}
