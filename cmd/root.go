package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	cfgpkg "github.com/KaramelBytes/sheetlens-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "sheetlens",
	Short: "SheetLens CLI: profile, filter and chart CSV/XLSX spreadsheets",
	Long: `SheetLens is a CLI tool that ingests CSV, TSV and XLSX files, infers a type for every column,
filters rows with AND/OR conditions and derives KPIs, keywords and chart datasets from the result.
Filter presets and custom charts are kept in a local workspace file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetOutput(cmd.ErrOrStderr())
			log.SetFlags(log.Ltime | log.Lmicroseconds)
			return
		}
		log.SetOutput(io.Discard)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ Error:"), err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sheetlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		warnf(rootCmd.ErrOrStderr(), "failed to load config: %v", err)
		cfg = cfgpkg.Default()
		return
	}
	cfg = c
}

// settings returns the loaded configuration, or defaults when none is loaded.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}
