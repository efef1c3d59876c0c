package fragment

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ascii"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/geom"
)

const defaultZValue = 10000

// Page geometry lives in per-block page_file_N.ascii files. Four record
// shapes matter:
//
//	wires      — an LP coordinate property ("X1,Y1;X2,Y2") followed by a
//	             CGTYPE code
//	text       — a tag 31 cell with literal content, bbox (44) and
//	             position (45)
//	placements — a transform property followed by a 45 coordinate cell
//	positions  — a "< 14:GID />" graphics-object cell followed by a 45
//	             coordinate cell
//
// Everything else (rotation, zValue, style) rides in nearby properties, so
// each record match searches a bounded window around itself.
var (
	wirePattern = regexp.MustCompile(
		`(?s)<n LP n/>\s*<[^>]+>\s*<[^>]+>\s*<v\s*([^v]+)\s*v/>.*?` +
			`<n CGTYPE n/>\s*<[^>]+>\s*<v\s*(\d+)\s*v/>`)

	pageTextPattern = regexp.MustCompile(
		`(?s)<\s*31\s*/>\s*<[^>]+>\s*<[^>]+>\s*<[^>]+>\s*<\s*\d+\s*/>\s*<\s*([^/]+)\s*/>\s*` +
			`<\s*44\s*/>\s*<[^>]+>\s*<\s*45\s*/>\s*<\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*/>`)

	placementPattern = regexp.MustCompile(
		`(?s)<n transform n/>\s*<[^>]+>\s*<[^>]+>\s*<v\s*([^v]+)\s*v/>.*?` +
			`<\s*45\s*/>\s*<\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*/>`)

	graphicsPosPattern = regexp.MustCompile(
		`(?s)<\s*14:(\d+)\s*/>\s*` +
			`<\s*45\s*/>\s*<\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*/>`)

	pageFileNamePattern = regexp.MustCompile(`page_file_(\d+)\.ascii$`)
)

// PageFileIndex extracts the per-block file index from a page geometry file
// name (page_file_3.ascii -> 3). Unrecognized names yield 0.
func PageFileIndex(name string) int {
	if m := pageFileNamePattern.FindStringSubmatch(name); m != nil {
		idx, _ := strconv.Atoi(m[1])
		return idx
	}
	return 0
}

// PageGeometry is the raw content of one page geometry file. Primitives come
// out with no element ID, no sequence index, and an unresolved page number;
// the extraction pipeline assigns identity and resolves pages.
type PageGeometry struct {
	Block      design.BlockName
	FileIndex  int
	Primitives []design.PrimitiveElement
	Positions  []geom.PositionRecord
}

// ParsePageGeometry scans one page geometry file's content.
func ParsePageGeometry(content string, block design.BlockName, fileIndex int) *PageGeometry {
	pg := &PageGeometry{Block: block, FileIndex: fileIndex}
	pg.scanWires(content)
	pg.scanText(content)
	pg.scanPlacements(content)
	pg.scanGraphicsPositions(content)
	return pg
}

// ParsePageGeometryFile reads and scans a page geometry file, deriving the
// file index from the name.
func ParsePageGeometryFile(path string, block design.BlockName) (*PageGeometry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &design.SkippableFileError{File: path, Err: err}
	}
	return ParsePageGeometry(string(raw), block, PageFileIndex(filepath.Base(path))), nil
}

func (pg *PageGeometry) scanWires(content string) {
	for _, m := range wirePattern.FindAllStringSubmatchIndex(content, -1) {
		points := parseLPPoints(content[m[2]:m[3]])
		if len(points) < 2 {
			continue
		}
		cgtype, _ := strconv.Atoi(content[m[4]:m[5]])

		prim := design.PrimitiveElement{
			Kind:           design.KindLine,
			ShapeType:      design.ShapeTypeForCGType(cgtype),
			CGType:         cgtype,
			PageNumber:     design.PageUnresolved,
			PageLocalIndex: pg.FileIndex,
			Block:          pg.Block,
			Points:         points,
			Rotation:       intPropNear(content, "rotation", m[0], m[1], 0),
			ZValue:         intPropNear(content, "zValue", m[0], m[1], defaultZValue),
			StyleRef:       "Style1",
		}
		if v, ok := ascii.FindPropNear(content, "transform", m[0], m[1], 500); ok {
			t := design.ParseTransform(v)
			prim.Transform = &t
		}
		pg.Primitives = append(pg.Primitives, prim)
	}
}

func (pg *PageGeometry) scanText(content string) {
	for _, m := range pageTextPattern.FindAllStringSubmatchIndex(content, -1) {
		text := strings.TrimSpace(content[m[2]:m[3]])
		if text == "" || text == "##" || text == "?" || text == "PN" {
			continue
		}
		x, _ := strconv.Atoi(content[m[4]:m[5]])
		y, _ := strconv.Atoi(content[m[6]:m[7]])

		window := content[m[0]:min(len(content), m[1]+500)]
		just := 0
		if jm := symJustPattern.FindStringSubmatch(window); jm != nil {
			just, _ = strconv.Atoi(jm[1])
		}
		styleRef := design.StyleRef("Style1")
		if sm := symStylePattern.FindStringSubmatch(window); sm != nil {
			styleRef = design.StyleRef(sm[1])
		}
		rotation := intPropNear(content, "rotation", m[0], m[1], 0)

		pg.Primitives = append(pg.Primitives, design.PrimitiveElement{
			Kind:           design.KindText,
			ShapeType:      "label",
			PageNumber:     design.PageUnresolved,
			PageLocalIndex: pg.FileIndex,
			Block:          pg.Block,
			Origin:         &design.Point{X: x, Y: y},
			TextContent:    text,
			Text: &design.TextProperties{
				Alignment:     design.AlignmentForJustification(just),
				Justification: just,
				Rotation:      rotation,
			},
			Rotation: rotation,
			ZValue:   intPropNear(content, "zValue", m[0], m[1], defaultZValue),
			StyleRef: styleRef,
		})
	}
}

func (pg *PageGeometry) scanPlacements(content string) {
	for _, m := range placementPattern.FindAllStringSubmatchIndex(content, -1) {
		transformStr := strings.TrimSpace(content[m[2]:m[3]])
		x, _ := strconv.Atoi(content[m[4]:m[5]])
		y, _ := strconv.Atoi(content[m[6]:m[7]])

		rotation := intPropNear(content, "rotation", m[0], m[1], 0)
		// An identity transform with no rotation is internal graphics
		// plumbing, not a component placement.
		if transformStr == "1,0,0,0,1,0,0,0,1" && rotation == 0 {
			continue
		}

		t := design.ParseTransform(transformStr)
		name, _ := ascii.FindPropNear(content, "name", m[0], m[1], 500)

		pg.Primitives = append(pg.Primitives, design.PrimitiveElement{
			Kind:           design.KindInstance,
			ShapeType:      "component_instance",
			PageNumber:     design.PageUnresolved,
			PageLocalIndex: pg.FileIndex,
			Block:          pg.Block,
			Origin:         &design.Point{X: x, Y: y},
			Transform:      &t,
			Rotation:       rotation,
			ZValue:         intPropNear(content, "zValue", m[0], m[1], defaultZValue),
			InstanceName:   strings.TrimSpace(name),
		})
	}
}

func (pg *PageGeometry) scanGraphicsPositions(content string) {
	for _, m := range graphicsPosPattern.FindAllStringSubmatch(content, -1) {
		x, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		pg.Positions = append(pg.Positions, geom.PositionRecord{
			Graphics:  design.GraphicsObjectID(m[1]),
			X:         x,
			Y:         y,
			Block:     pg.Block,
			FileIndex: pg.FileIndex,
		})
	}
}

// parseLPPoints parses the LP coordinate list "X1,Y1;X2,Y2[;...]".
// Coordinates appear as decimal floats but the grid is integral.
func parseLPPoints(s string) []design.Point {
	var points []design.Point
	for _, seg := range strings.Split(strings.TrimSpace(s), ";") {
		coords := strings.Split(seg, ",")
		if len(coords) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, design.Point{X: int(x), Y: int(y)})
	}
	return points
}

func intPropNear(content, name string, lo, hi, fallback int) int {
	v, ok := ascii.FindPropNear(content, name, lo, hi, 500)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
