package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	psFilter filterFlags
	psJSON   bool
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved filter presets",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the filter built from --where/--logic/--filter-file as a named preset",
	Example: `  sheetlens preset save "big north" -w "region = north" -w "revenue >= 1000"
  sheetlens preset save either --logic or -w "status = open" -w "priority in high,urgent"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := psFilter.state()
		if err != nil {
			return err
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		p, err := ws.SavePreset(args[0], state)
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Saved preset '%s' (%s) with %d conditions", p.Name, p.ID, len(p.Filters.Conditions))
		return nil
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(ws.Presets) == 0 {
			fmt.Fprintln(w, "(no presets)")
			return nil
		}
		for _, p := range ws.Presets {
			fmt.Fprintf(w, "- %s: %s (%d conditions, %s, %s)\n", p.ID, p.Name, len(p.Filters.Conditions),
				strings.ToUpper(string(p.Filters.Logic)), p.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a preset's conditions (--json prints a filter file)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		p, err := ws.Preset(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if psJSON {
			b, err := utils.PrettyJSON(p.Filters)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}
		logic := "AND"
		if p.Filters.Logic.IsOr() {
			logic = "OR"
		}
		fmt.Fprintf(w, "Name: %s\nID: %s\nCreated: %s\nLogic: %s\n", p.Name, p.ID, p.CreatedAt.Format("2006-01-02 15:04:05"), logic)
		if len(p.Filters.Conditions) == 0 {
			fmt.Fprintln(w, "(no conditions)")
		}
		for _, c := range p.Filters.Conditions {
			fmt.Fprintf(w, "- %s\n", c)
		}
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a preset",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		p, err := ws.DeletePreset(args[0])
		if err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		successf(cmd.OutOrStdout(), "Deleted preset '%s'", p.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetSaveCmd, presetListCmd, presetShowCmd, presetDeleteCmd)

	psFilter.register(presetSaveCmd)
	presetShowCmd.Flags().BoolVar(&psJSON, "json", false, "print the filter state as JSON")
}
