package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/verify"
)

var verifyReportPath string

var verifyCmd = &cobra.Command{
	Use:   "verify <document> <rendered_text>",
	Short: "Cross-check a document against rendered output",
	Long: `Compares the design document with text recovered from rendered pages
(for example OCR output or extracted SVG text) and reports how many
reference designators and net names survived the round trip.

The report is written as markdown to stdout, or to --out.`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyReportPath, "out", "o", "", "report file (default stdout)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	doc, err := export.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("error loading document: %w", err)
	}
	rendered, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("error reading rendered text: %w", err)
	}

	result := verify.Compare(doc, string(rendered))

	out := os.Stdout
	if verifyReportPath != "" {
		f, err := os.Create(verifyReportPath)
		if err != nil {
			return fmt.Errorf("error creating report: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := result.WriteReport(out, args[0], args[1]); err != nil {
		return err
	}
	if verifyReportPath != "" {
		fmt.Printf("Wrote %s\n", verifyReportPath)
	}
	return nil
}
