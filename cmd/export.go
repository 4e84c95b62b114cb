package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/export"
	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	expInput      inputFlags
	expFilter     filterFlags
	expOutputPath string
	expFormat     string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write filtered rows to CSV, or all rows with a summary sheet to XLSX",
	Long: `Export applies the filter to the input file and writes the result.

CSV output holds only the rows that pass the filter. XLSX output holds a Summary
sheet (row counts and active filters) and a Data sheet with every row, where rows
that pass the filter are highlighted.`,
	Example: `  sheetlens export sales.csv -w "units >= 10" -o big.csv
  sheetlens export sales.xlsx --preset north -o north.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(expFormat)
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(expOutputPath)), ".")
		}
		if format != "csv" && format != "xlsx" {
			return fmt.Errorf("unsupported export format %q (use --format csv|xlsx)", format)
		}

		t, err := expInput.load(cmd, args[0])
		if err != nil {
			return err
		}
		state, err := expFilter.state()
		if err != nil {
			return err
		}
		profiles := analysis.ProfileColumns(t.Rows)
		filtered := filter.Apply(t.Rows, state, profiles)

		var buf bytes.Buffer
		switch format {
		case "csv":
			err = export.WriteCSV(&buf, filtered, profiles)
		case "xlsx":
			err = export.WriteXLSX(&buf, export.Workbook{
				All:      t.Rows,
				Filtered: filtered,
				Columns:  profiles,
				Filters:  state,
			})
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		if err := utils.SafeWriteFile(expOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		successf(cmd.OutOrStdout(), "Exported %d of %d rows to %s", len(filtered), len(t.Rows), expOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	expInput.register(exportCmd)
	expFilter.register(exportCmd)
	exportCmd.Flags().StringVarP(&expOutputPath, "output", "o", "", "path to write the export")
	exportCmd.Flags().StringVar(&expFormat, "format", "", "csv|xlsx (default: from the output extension)")
	_ = exportCmd.MarkFlagRequired("output")
}
