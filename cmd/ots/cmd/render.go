package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/render"
)

var (
	renderSVGDir  string
	renderPDFPath string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a design document",
	Long:  `Commands for rendering the interchange document produced by extract`,
}

var renderSVGCmd = &cobra.Command{
	Use:   "svg <document>",
	Short: "Render per-page SVG files",
	Long: `Renders every non-empty page of the design document to its own SVG file.
Pages keep their sheet proportions at 0.1 px per mil.`,
	Args: cobra.ExactArgs(1),
	RunE: runRenderSVG,
}

var renderPDFCmd = &cobra.Command{
	Use:   "pdf <document>",
	Short: "Render a multi-page PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenderPDF,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.AddCommand(renderSVGCmd)
	renderCmd.AddCommand(renderPDFCmd)
	renderSVGCmd.Flags().StringVarP(&renderSVGDir, "out", "o", "", "output directory")
	renderPDFCmd.Flags().StringVarP(&renderPDFPath, "out", "o", "", "output file")
}

func runRenderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.Render.SVGDir
	if renderSVGDir != "" {
		dir = renderSVGDir
	}

	doc, err := export.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("error loading document: %w", err)
	}

	paths, err := render.NewSVG(doc, render.DarkTheme()).RenderAll(dir)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	fmt.Printf("Rendered %d page(s) to %s\n", len(paths), dir)
	return nil
}

func runRenderPDF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Render.PDFPath
	if renderPDFPath != "" {
		path = renderPDFPath
	}

	doc, err := export.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("error loading document: %w", err)
	}

	if err := render.NewPDF(doc, render.DarkTheme()).RenderFile(path); err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}
	fmt.Printf("Rendered %s\n", path)
	return nil
}
