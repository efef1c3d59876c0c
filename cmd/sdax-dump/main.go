// sdax-dump prints a summary of a single SDAX fragment file
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/discover"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/fragment"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: sdax-dump <fragment_file>")
		fmt.Println("")
		fmt.Println("Recognized files: *dx.json, *.json, *.xcon, page_file_*.ascii, instindex.ascii")
		os.Exit(1)
	}

	filename := os.Args[1]
	class, ok := discover.Classify(filepath.Base(filename))
	if !ok {
		fmt.Fprintf(os.Stderr, "Unrecognized fragment file: %s\n", filename)
		os.Exit(1)
	}

	if err := dump(filename, class); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dump(filename string, class discover.Class) error {
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Class: %s\n", class)
	fmt.Println()

	switch class {
	case discover.ClassNames:
		return dumpNames(filename)
	case discover.ClassParts:
		return dumpParts(filename)
	case discover.ClassXcon:
		return dumpXcon(filename)
	case discover.ClassInstIndex:
		return dumpInstIndex(filename)
	case discover.ClassPage:
		return dumpPage(filename)
	}
	return fmt.Errorf("no dumper for class %s", class)
}

func dumpNames(filename string) error {
	f, err := fragment.ParseNamesFile(filename)
	if err != nil {
		return err
	}
	fmt.Printf("Instances: %d\n", len(f.Instances))
	for _, inst := range f.Instances {
		refdes := inst.Attributes["refdes"]
		if refdes == "" {
			refdes = inst.Properties["refdes"]
		}
		fmt.Printf("  %s", inst.CPath)
		if refdes != "" {
			fmt.Printf(" -> %s", refdes)
		}
		fmt.Println()
	}
	return nil
}

func dumpParts(filename string) error {
	f, err := fragment.ParsePartsFile(filename)
	if err != nil {
		return err
	}
	fmt.Printf("Objects: %d\n", len(f.Objects))
	for _, obj := range f.Objects {
		fmt.Printf("  type=%s instances=%d\n", obj.Type, len(obj.Meta.Instances))
		for _, ref := range obj.Meta.Instances {
			attrs := ref.AttrMap()
			fmt.Printf("    %s=%s refdes=%s\n", ref.Name, ref.Value, attrs["refdes"])
		}
	}
	return nil
}

func dumpXcon(filename string) error {
	doc, err := fragment.ParseXconFile(filename)
	if err != nil {
		return err
	}
	for i, d := range doc.Designs {
		fmt.Printf("Design %d: %d cells, %d nets, %d instances\n",
			i, len(d.Cells), len(d.Nets), len(d.Instances))
		for _, c := range d.Cells {
			fmt.Printf("  cell %s: %s/%s (%s), %d terms\n",
				c.ID, c.Library, c.Name, c.View, len(c.Terms))
		}
		for _, n := range d.Nets {
			fmt.Printf("  net %s: %s scope=%s\n", n.ID, n.Name, n.Scope)
		}
	}
	return nil
}

func dumpInstIndex(filename string) error {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	records := fragment.ParseInstanceIndex(string(raw))
	fmt.Printf("Records: %d\n", len(records))
	for _, rec := range records {
		fmt.Printf("  inst=%s page_file=%d goid=%s\n", rec.LocalID, rec.PageFile, rec.Graphics)
	}
	return nil
}

func dumpPage(filename string) error {
	pg, err := fragment.ParsePageGeometryFile(filename, design.BlockName("?"))
	if err != nil {
		return err
	}
	kinds := map[design.PrimitiveKind]int{}
	for _, p := range pg.Primitives {
		kinds[p.Kind]++
	}
	fmt.Printf("File index: %d\n", pg.FileIndex)
	fmt.Printf("Primitives: %d\n", len(pg.Primitives))
	for k, n := range kinds {
		fmt.Printf("  %s: %d\n", k, n)
	}
	fmt.Printf("Graphics positions: %d\n", len(pg.Positions))
	return nil
}
