package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/sheetlens-cli/internal/config"
	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
	"github.com/KaramelBytes/sheetlens-cli/internal/parser"
	"github.com/KaramelBytes/sheetlens-cli/internal/store"
	"github.com/spf13/cobra"
)

// inputFlags are the ingestion flags of every command that reads a data file.
type inputFlags struct {
	sheet     string
	delimiter string
	maxRows   int
}

func (f *inputFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.sheet, "sheet", "", "XLSX worksheet name (default: config sheet, else the first sheet)")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter, e.g. ';' or 'tab' (default: by extension)")
	c.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum data rows to read (default: config max_rows)")
}

// options merges flags over the loaded configuration.
func (f *inputFlags) options() (parser.Options, error) {
	c := settings()
	opt := parser.DefaultOptions()
	opt.MaxRows = c.MaxRows
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	opt.Sheet = c.Sheet
	if f.sheet != "" {
		opt.Sheet = f.sheet
	}
	delim := c.Delimiter
	if f.delimiter != "" {
		delim = f.delimiter
	}
	r, err := cfgpkg.ParseDelimiter(delim)
	if err != nil {
		return opt, fmt.Errorf("unsupported --delimiter: %w", err)
	}
	opt.Delimiter = r
	return opt, nil
}

// parse reads path with the merged options and returns the row limit it used.
func (f *inputFlags) parse(path string) (*parser.Table, int, error) {
	opt, err := f.options()
	if err != nil {
		return nil, 0, err
	}
	t, err := parser.ParseFile(path, opt)
	if err != nil {
		return nil, 0, err
	}
	return t, opt.MaxRows, nil
}

// load parses path and warns on stderr when ingestion stopped at the row limit.
func (f *inputFlags) load(cmd *cobra.Command, path string) (*parser.Table, error) {
	t, limit, err := f.parse(path)
	if err != nil {
		return nil, err
	}
	warnTruncated(cmd, t, limit)
	return t, nil
}

func warnTruncated(cmd *cobra.Command, t *parser.Table, limit int) {
	if t.Truncated {
		warnf(cmd.ErrOrStderr(), "%s truncated to the first %d rows (raise --max-rows)", t.Name, limit)
	}
}

// filterFlags build a filter state from the command line.
type filterFlags struct {
	where  []string
	logic  string
	file   string
	preset string
}

func (f *filterFlags) register(c *cobra.Command) {
	c.Flags().StringArrayVarP(&f.where, "where", "w", nil, `filter condition, e.g. "revenue > 100" or "region in north,south" (repeatable)`)
	c.Flags().StringVar(&f.logic, "logic", "", "combine conditions with and|or (default: preset or file logic, else config default_logic)")
	c.Flags().StringVar(&f.file, "filter-file", "", "read a JSON filter state from file")
	c.Flags().StringVar(&f.preset, "preset", "", "start from a saved filter preset (id or name)")
	c.MarkFlagsMutuallyExclusive("preset", "filter-file")
}

// state starts from the preset or filter file, appends --where conditions
// and finally applies --logic.
func (f *filterFlags) state() (filter.State, error) {
	logic, err := filter.ParseLogic(settings().DefaultLogic)
	if err != nil {
		return filter.State{}, err
	}
	state := filter.NewState(logic)
	switch {
	case f.preset != "":
		ws, err := openWorkspace()
		if err != nil {
			return filter.State{}, err
		}
		p, err := ws.Preset(f.preset)
		if err != nil {
			return filter.State{}, err
		}
		state = p.Filters
	case f.file != "":
		b, err := os.ReadFile(f.file)
		if err != nil {
			return filter.State{}, fmt.Errorf("read filter file: %w", err)
		}
		state, err = filter.DecodeState(b)
		if err != nil {
			return filter.State{}, err
		}
	}
	conds, err := filter.ParseConditions(f.where)
	if err != nil {
		return filter.State{}, err
	}
	state = state.With(conds...)
	if f.logic != "" {
		l, err := filter.ParseLogic(f.logic)
		if err != nil {
			return filter.State{}, err
		}
		state.Logic = l
	}
	return state, nil
}

func openWorkspace() (*store.Workspace, error) {
	return store.Load(settings().PresetsFile)
}
