package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/config"
)

var (
	// Global flags
	verbose bool
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "ots",
	Short: "OpenTraceSDAX - SDAX schematic extraction and rendering tools",
	Long: `OpenTraceSDAX (ots) rebuilds a unified schematic design model from a
fragmented SDAX project directory and renders it for review.

Examples:
  ots extract --root ./my_project     # Build the design document
  ots render svg full_design.json     # Render per-page SVG files
  ots render pdf full_design.json     # Render a multi-page PDF
  ots verify full_design.json out.txt # Cross-check against rendered text
  ots info full_design.json           # Show document statistics`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file")
}

// newLogger builds the logger shared by all subcommands. Warnings always
// show; per-file detail only with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}
