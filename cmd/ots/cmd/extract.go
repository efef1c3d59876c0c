package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/extract"
)

var (
	extractRoot     string
	extractBlock    string
	extractOut      string
	extractCompress bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build the unified design document from an SDAX project",
	Long: `Scans an SDAX project directory, reconstructs the design model from its
fragment files and writes the interchange document.

The project root must contain worklib/ (one directory per design block)
and cache/ (symbol graphics and styles). Flags override the config file
and OTS_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractRoot, "root", "", "SDAX project directory")
	extractCmd.Flags().StringVar(&extractBlock, "block", "", "root design block")
	extractCmd.Flags().StringVarP(&extractOut, "output", "o", "", "output document path")
	extractCmd.Flags().BoolVar(&extractCompress, "compress", false, "snappy-compress the output document")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if extractRoot != "" {
		cfg.Project.Root = extractRoot
	}
	if extractBlock != "" {
		cfg.Project.RootBlock = extractBlock
	}
	if extractOut != "" {
		cfg.Output.Path = extractOut
	}
	if cmd.Flags().Changed("compress") {
		cfg.Output.Compress = extractCompress
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	res, err := extract.New(cfg, newLogger()).Run()
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if err := export.WriteFile(cfg.Output.Path, res.Document, cfg.Output.Compress); err != nil {
		return fmt.Errorf("error writing document: %w", err)
	}

	stats := res.Document.Statistics
	fmt.Printf("Wrote %s\n", cfg.Output.Path)
	fmt.Printf("  Components: %d\n", stats.TotalComponents)
	fmt.Printf("  Nets: %d\n", stats.TotalNets)
	fmt.Printf("  Connections: %d\n", stats.TotalConnections)
	fmt.Printf("  Pages: %d\n", stats.TotalPages)
	fmt.Printf("  Primitives: %d\n", stats.TotalPrimitives)
	for _, w := range res.Report.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
	return nil
}
