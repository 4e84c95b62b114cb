package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/parser"
	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	profInput    inputFlags
	profJSON     bool
	profParallel int
)

// fileProfile is the schema of one input file.
type fileProfile struct {
	File      string                   `json:"file"`
	Sheet     string                   `json:"sheet,omitempty"`
	Sheets    []string                 `json:"sheets,omitempty"`
	Rows      int                      `json:"rows"`
	Truncated bool                     `json:"truncated"`
	Columns   []analysis.ColumnProfile `json:"columns"`
}

var profileCmd = &cobra.Command{
	Use:   "profile <files...>",
	Short: "Infer column types and statistics for one or more files (globs allowed)",
	Example: `  sheetlens profile sales.csv
  sheetlens profile "data/*.xlsx" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}

		results := make([]fileProfile, len(files))
		tables := make([]*parser.Table, len(files))
		limits := make([]int, len(files))
		var g errgroup.Group
		g.SetLimit(max(profParallel, 1))
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				t, limit, err := profInput.parse(path)
				if err != nil {
					return err
				}
				tables[i], limits[i] = t, limit
				results[i] = fileProfile{
					File:      t.Name,
					Sheet:     t.Sheet,
					Sheets:    t.Sheets,
					Rows:      len(t.Rows),
					Truncated: t.Truncated,
					Columns:   analysis.ProfileColumns(t.Rows),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		// warn after the group so concurrent parses never interleave on stderr
		for i, t := range tables {
			warnTruncated(cmd, t, limits[i])
		}

		w := cmd.OutOrStdout()
		if profJSON {
			b, err := utils.PrettyJSON(results)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(b))
			return err
		}
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			renderProfile(w, r)
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func renderProfile(w io.Writer, r fileProfile) {
	title := r.File
	if r.Sheet != "" {
		title += " [" + r.Sheet + "]"
	}
	fmt.Fprintln(w, headerStyle.Render(title), mutedStyle.Render(fmt.Sprintf("%d rows, %d columns", r.Rows, len(r.Columns))))
	if len(r.Sheets) > 1 {
		fmt.Fprintln(w, mutedStyle.Render("sheets: "+strings.Join(r.Sheets, ", ")))
	}
	if len(r.Columns) == 0 {
		return
	}
	rows := make([][]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		lo, hi := "", ""
		if c.Min != nil {
			lo = c.Min.String()
		}
		if c.Max != nil {
			hi = c.Max.String()
		}
		rows = append(rows, []string{
			c.OriginalName,
			string(c.DataType),
			fmt.Sprintf("%.1f%%", c.NullRatio*100),
			strconv.Itoa(c.UniqueCount),
			lo,
			hi,
			utils.Truncate(strings.Join(c.SampleValues, " | "), 40),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("COLUMN", "TYPE", "MISSING", "UNIQUE", "MIN", "MAX", "SAMPLES").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profInput.register(profileCmd)
	profileCmd.Flags().BoolVar(&profJSON, "json", false, "print profiles as JSON")
	profileCmd.Flags().IntVar(&profParallel, "parallel", 4, "files to parse concurrently")
}
