package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
)

var infoCmd = &cobra.Command{
	Use:   "info <document>",
	Short: "Show design document information",
	Long: `Display summary information about a design document.

Without refdes argument: shows document summary
With refdes argument: shows details for that component`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := export.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("error loading document: %w", err)
	}

	if len(args) >= 2 {
		return showComponentDetails(doc, args[1])
	}

	showDocumentSummary(doc, args[0])
	return nil
}

func showDocumentSummary(doc *export.Document, filename string) {
	stats := doc.Statistics
	fmt.Printf("Document: %s\n", filename)
	fmt.Printf("Project: %s\n", doc.Project)
	fmt.Printf("Run: %s (%s)\n", stats.RunID, stats.ExtractionDate)
	fmt.Println()

	fmt.Printf("Components: %d\n", stats.TotalComponents)
	types := make([]string, 0, len(stats.ComponentsByType))
	for t := range stats.ComponentsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %s: %d\n", t, stats.ComponentsByType[t])
	}
	fmt.Printf("Nets: %d\n", stats.TotalNets)
	fmt.Printf("Connections: %d\n", stats.TotalConnections)
	fmt.Printf("Primitives: %d\n", stats.TotalPrimitives)
	fmt.Printf("Unresolved references: %d\n", stats.UnresolvedRefs)
	fmt.Println()

	fmt.Printf("Pages: %d\n", len(doc.Pages))
	for _, p := range doc.Pages {
		fmt.Printf("  %d: %s (%s)\n", p.Number, p.Title, p.SourceBlock)
	}

	if len(stats.Warnings) > 0 {
		fmt.Println()
		fmt.Printf("Warnings: %d\n", len(stats.Warnings))
		for _, w := range stats.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}
}

func showComponentDetails(doc *export.Document, refdes string) error {
	for _, inst := range doc.Instances {
		if string(inst.RefDes) != refdes {
			continue
		}
		fmt.Printf("Component: %s\n", inst.RefDes)
		fmt.Printf("  Library: %s\n", inst.Library)
		fmt.Printf("  Part: %s\n", inst.PartName)
		fmt.Printf("  Block: %s\n", inst.Block)
		fmt.Printf("  Symbol: %s (%s)\n", inst.SymbolCacheKey, inst.SymbolRevision)
		if inst.HasPosition {
			fmt.Printf("  Position: (%d, %d) on page %d\n", inst.X, inst.Y, inst.PageNumber)
		} else {
			fmt.Println("  Position: unresolved")
		}
		fmt.Printf("  Graphics: %v (%d lines, %d pins)\n", inst.HasGraphics, inst.LineCount, inst.PinCount)

		for _, comp := range doc.Components {
			if string(comp.RefDes) != refdes {
				continue
			}
			if len(comp.Pins) > 0 {
				fmt.Printf("  Pins: %d\n", len(comp.Pins))
				for _, pin := range comp.Pins {
					fmt.Printf("    %s (#%s) -> %s\n", pin.PinName, pin.PinNumber, pin.Net)
				}
			}
		}
		return nil
	}
	return fmt.Errorf("component %q not found", refdes)
}
