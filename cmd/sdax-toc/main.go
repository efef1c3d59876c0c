// sdax-toc prints the resolved page table of an SDAX project
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/discover"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/fragment"
)

const tocPageIndex = 2

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: sdax-toc <project_root> <root_block>")
		fmt.Println("")
		fmt.Println("Prints the page table read from the root block's TOC sheet.")
		os.Exit(1)
	}

	root := os.Args[1]
	block := design.BlockName(os.Args[2])

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	proj, err := discover.Scan(root, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning project: %v\n", err)
		os.Exit(1)
	}

	toc, err := fragment.ParseTOCFile(proj.PageFile(block, tocPageIndex))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing TOC: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sheet: %s %s (%dx%d %s)\n",
		toc.Standard, toc.SizeCode, toc.Size.Width, toc.Size.Height, toc.Size.Unit)
	fmt.Printf("Pages: %d\n", len(toc.Entries))
	fmt.Println()
	for _, p := range toc.Pages() {
		fmt.Printf("  %3d  %-40s %s (uid %s)\n", p.Number, p.Title, p.SourceBlock, p.PageUID)
	}
}
