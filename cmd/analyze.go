package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/dashboard"
	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaInput      inputFlags
	anaFilter     filterFlags
	anaOutputPath string
	anaFormat     string
	anaJSON       bool
	anaRows       int
	anaNoCustom   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Profile a CSV/TSV/XLSX file, apply filters and report KPIs, keywords and charts",
	Example: `  sheetlens analyze sales.csv
  sheetlens analyze sales.xlsx --sheet Q4 -w "revenue > 100" -w "region in north,south"
  sheetlens analyze sales.csv --preset "big deals" --format json -o dashboard.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		format := c.OutputFormat
		if anaFormat != "" {
			format = anaFormat
		}
		if anaJSON {
			format = "json"
		}
		if format != "markdown" && format != "json" {
			return fmt.Errorf("unsupported --format: %s (use markdown|json)", format)
		}
		rows := c.SampleRows
		if cmd.Flags().Changed("rows") {
			rows = anaRows
		}

		t, err := anaInput.load(cmd, args[0])
		if err != nil {
			return err
		}
		state, err := anaFilter.state()
		if err != nil {
			return err
		}
		var custom []analysis.CustomChartConfig
		if !anaNoCustom {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			custom = ws.CustomCharts()
		}

		snap := dashboard.Compute(t.Name, t.Rows, state, custom)
		var out []byte
		if format == "json" {
			b, err := utils.PrettyJSON(snap)
			if err != nil {
				return err
			}
			out = append(b, '\n')
		} else {
			out = []byte(snap.Markdown(dashboard.MarkdownOptions{Rows: rows}))
		}

		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			successf(cmd.OutOrStdout(), "Wrote analysis to %s (%d of %d rows)", anaOutputPath, len(snap.Filtered), snap.TotalRows)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaInput.register(analyzeCmd)
	anaFilter.register(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "", "report format: markdown|json (default: config output_format)")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "shorthand for --format json")
	analyzeCmd.Flags().IntVar(&anaRows, "rows", 0, "filtered rows to include in a markdown report (default: config sample_rows)")
	analyzeCmd.Flags().BoolVar(&anaNoCustom, "no-custom", false, "skip saved custom charts")
}
