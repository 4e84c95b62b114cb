package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/store"
	"github.com/spf13/cobra"
)

var (
	chTitle   string
	chType    string
	chX       string
	chY       []string
	chGroupBy string
	chFrom    string
	chInput   inputFlags
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Manage custom charts rendered by analyze",
}

var chartAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom chart",
	Long: `Add a custom chart to the workspace. With --from, defaults come from the file's
columns (x = first column, y = first number column) and every key is checked against them.`,
	Example: `  sheetlens chart add --title "Revenue by region" --x region --y revenue
  sheetlens chart add --from sales.csv --type line --x date --y revenue --y units`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg analysis.CustomChartConfig
		var profiles []analysis.ColumnProfile
		if chFrom != "" {
			t, err := chInput.load(cmd, chFrom)
			if err != nil {
				return err
			}
			profiles = analysis.ProfileColumns(t.Rows)
			cfg = analysis.NewCustomChart(profiles)
		}
		if err := applyChartFlags(cmd, &cfg); err != nil {
			return err
		}
		if profiles != nil {
			if err := checkChartKeys(cfg, profiles); err != nil {
				return err
			}
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		added, err := ws.AddChart(cfg)
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Added chart '%s' (%s)", added.Title, added.ID)
		return nil
	},
}

var chartEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title, type or keys of a custom chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		var cfg analysis.CustomChartConfig
		found := false
		for _, c := range ws.CustomCharts() {
			if c.ID == args[0] {
				cfg, found = c, true
				break
			}
		}
		if !found {
			return fmt.Errorf("chart %q: %w", args[0], store.ErrNotFound)
		}
		if err := applyChartFlags(cmd, &cfg); err != nil {
			return err
		}
		if err := ws.UpdateChart(cfg); err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Updated chart '%s' (%s)", cfg.Title, cfg.ID)
		return nil
	},
}

var chartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		charts := ws.CustomCharts()
		if len(charts) == 0 {
			fmt.Fprintln(w, "(no charts)")
			return nil
		}
		for _, c := range charts {
			fmt.Fprintf(w, "- %s: %s (%s, x=%s, y=%s", c.ID, c.Title, c.ChartType, c.XKey, strings.Join(c.YKeys, ","))
			if c.GroupBy != "" {
				fmt.Fprintf(w, ", group=%s", c.GroupBy)
			}
			fmt.Fprintln(w, ")")
		}
		return nil
	},
}

var chartRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a custom chart",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		if err := ws.DeleteChart(args[0]); err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Removed chart %s", args[0])
		return nil
	},
}

// applyChartFlags copies the chart flags the user set onto cfg.
func applyChartFlags(cmd *cobra.Command, cfg *analysis.CustomChartConfig) error {
	f := cmd.Flags()
	if f.Changed("title") {
		cfg.Title = chTitle
	}
	if f.Changed("type") {
		t, err := analysis.ParseChartType(strings.ToLower(chType))
		if err != nil {
			return err
		}
		cfg.ChartType = t
	}
	if f.Changed("x") {
		cfg.XKey = chX
	}
	if f.Changed("y") {
		cfg.YKeys = append([]string(nil), chY...)
	}
	if f.Changed("group-by") {
		cfg.GroupBy = chGroupBy
	}
	return nil
}

func checkChartKeys(cfg analysis.CustomChartConfig, profiles []analysis.ColumnProfile) error {
	known := analysis.ColumnTypes(profiles)
	keys := append([]string{cfg.XKey}, cfg.YKeys...)
	if cfg.GroupBy != "" {
		keys = append(keys, cfg.GroupBy)
	}
	for _, k := range keys {
		if _, ok := known[k]; !ok {
			return fmt.Errorf("unknown column %q (available: %s)", k, strings.Join(analysis.Keys(profiles), ", "))
		}
	}
	return nil
}

func registerChartFlags(c *cobra.Command) {
	c.Flags().StringVar(&chTitle, "title", "", "chart title")
	c.Flags().StringVar(&chType, "type", "", "chart type: bar|line|pie|radar|scatter|treemap|area|table|kpi|keyword")
	c.Flags().StringVar(&chX, "x", "", "x-axis column key")
	c.Flags().StringSliceVar(&chY, "y", nil, "y column keys (repeatable or comma-separated)")
	c.Flags().StringVar(&chGroupBy, "group-by", "", "optional grouping column key")
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartAddCmd, chartEditCmd, chartListCmd, chartRemoveCmd)

	registerChartFlags(chartAddCmd)
	registerChartFlags(chartEditCmd)
	chartAddCmd.Flags().StringVar(&chFrom, "from", "", "data file whose columns supply defaults and are validated against")
	chInput.register(chartAddCmd)
}
