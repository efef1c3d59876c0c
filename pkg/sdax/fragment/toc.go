package fragment

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ascii"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// ANSI page sizes in mils, keyed by the pageBorderSize letter code.
var pageSizes = map[string]design.PageSize{
	"A": {Width: 11000, Height: 8500, Unit: "mils"},
	"B": {Width: 17000, Height: 11000, Unit: "mils"},
	"C": {Width: 22000, Height: 17000, Unit: "mils"},
	"D": {Width: 34000, Height: 22000, Unit: "mils"},
	"E": {Width: 44000, Height: 34000, Unit: "mils"},
}

// PageSizeFor returns the sheet dimensions for a size code, defaulting to
// ANSI B when the code is unknown.
func PageSizeFor(code string) design.PageSize {
	if s, ok := pageSizes[code]; ok {
		return s
	}
	return pageSizes["B"]
}

// TOCEntry is one data row of the table-of-contents page listing. Rows are
// in document order; their position defines the absolute page sequence.
type TOCEntry struct {
	SheetNo   string
	Title     string
	BlockPath string
	Block     design.BlockName // block referenced by the sheet link
	PageUID   string
	FileIndex int // page-geometry file index within the block
}

// TOC is the parsed table-of-contents page file.
type TOC struct {
	SizeCode string
	Standard string
	Size     design.PageSize
	Entries  []TOCEntry
}

// Pages materializes the document page table. Page numbers are assigned
// 1-based in row order. SDAX sheets use a bottom-left coordinate origin.
func (t *TOC) Pages() []design.Page {
	pages := make([]design.Page, 0, len(t.Entries))
	for i, e := range t.Entries {
		pages = append(pages, design.Page{
			Number:      i + 1,
			PageUID:     e.PageUID,
			Title:       e.Title,
			SourceBlock: e.Block,
			BlockPath:   e.BlockPath,
			Size:        t.Size,
			Standard:    t.Standard,
			Origin:      design.OriginBottomLeft,
		})
	}
	return pages
}

// TOC table cells are embedded as single-line HTML documents behind a
// "< 9 /> row col len" marker.
var tocCellPattern = regexp.MustCompile(`(?s)<\s*9\s*/>\s*(\d+)\s+(\d+)\s+(\d+)\s+(<!DOCTYPE[^>]+>.*?</html>)`)

var (
	tocPageUIDPattern  = regexp.MustCompile(`pageuid=(\d+)`)
	tocBlockRefPattern = regexp.MustCompile(`@\w+\.(\w+)\(tbl_1\)`)
)

type tocCell struct {
	text string
	href string
}

// ParseTOC parses the table-of-contents page file content.
func ParseTOC(content string) (*TOC, error) {
	toc := &TOC{Standard: "ANSI", SizeCode: "B"}
	if v, ok := ascii.FindProp(content, "pageBorderSize"); ok {
		toc.SizeCode = v
	}
	if v, ok := ascii.FindProp(content, "pageBorderStandard"); ok {
		toc.Standard = v
	}
	toc.Size = PageSizeFor(toc.SizeCode)

	// Organize cells by (row, column). Row 0 is the header.
	rows := make(map[int]map[int]tocCell)
	for _, m := range tocCellPattern.FindAllStringSubmatch(content, -1) {
		row, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		cell, err := parseTOCCell(m[4])
		if err != nil {
			continue
		}
		if rows[row] == nil {
			rows[row] = make(map[int]tocCell)
		}
		rows[row][col] = cell
	}

	rowIdx := make([]int, 0, len(rows))
	for r := range rows {
		if r == 0 {
			continue
		}
		rowIdx = append(rowIdx, r)
	}
	sort.Ints(rowIdx)

	for _, r := range rowIdx {
		cells := rows[r]
		sheetNo := strings.TrimSpace(cells[0].text)
		title := strings.TrimSpace(cells[1].text)
		if sheetNo == "" || title == "" {
			continue
		}

		// Block stays empty when the sheet link carries no block
		// reference; callers substitute the root design block.
		entry := TOCEntry{
			SheetNo:   sheetNo,
			Title:     title,
			BlockPath: strings.TrimSpace(cells[2].text),
		}
		href := cells[0].href
		if m := tocPageUIDPattern.FindStringSubmatch(href); m != nil {
			entry.PageUID = m[1]
			// The sheet link's pageuid names the page-geometry file
			// (page_file_<uid>.ascii) inside the referenced block.
			entry.FileIndex, _ = strconv.Atoi(m[1])
		} else {
			entry.PageUID = strconv.Itoa(r)
		}
		if m := tocBlockRefPattern.FindStringSubmatch(href); m != nil {
			entry.Block = design.BlockName(m[1])
		}
		toc.Entries = append(toc.Entries, entry)
	}

	if len(toc.Entries) == 0 {
		return toc, fmt.Errorf("table of contents has no data rows")
	}
	return toc, nil
}

// ParseTOCFile reads and parses the TOC page file from disk.
func ParseTOCFile(path string) (*TOC, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseTOC(string(data))
}

// parseTOCCell extracts the visible text (span and anchor content) and the
// first anchor href from one HTML table cell.
func parseTOCCell(fragmentHTML string) (tocCell, error) {
	doc, err := html.Parse(strings.NewReader(fragmentHTML))
	if err != nil {
		return tocCell{}, err
	}

	var cell tocCell
	var parts []string
	textDepth := 0

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		entered := false
		if n.Type == html.ElementNode {
			switch n.Data {
			case "span":
				entered = true
			case "a":
				entered = true
				if cell.href == "" {
					for _, a := range n.Attr {
						if a.Key == "href" {
							cell.href = a.Val
						}
					}
				}
			}
		}
		if entered {
			textDepth++
		}
		if n.Type == html.TextNode && textDepth > 0 {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if entered {
			textDepth--
		}
	}
	walk(doc)

	cell.text = strings.Join(parts, " ")
	return cell, nil
}
