package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/sheetlens-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SheetLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		w := cmd.OutOrStdout()
		delim := c.Delimiter
		if delim == "" {
			delim = "(by extension)"
		}
		sheet := c.Sheet
		if sheet == "" {
			sheet = "(first sheet)"
		}
		fmt.Fprintf(w, "presets_file: %s\n", c.PresetsFile)
		fmt.Fprintf(w, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(w, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(w, "delimiter: %s\n", delim)
		fmt.Fprintf(w, "sheet: %s\n", sheet)
		fmt.Fprintf(w, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(w, "default_logic: %s\n", c.DefaultLogic)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Saved config: %s = %s", key, val)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
