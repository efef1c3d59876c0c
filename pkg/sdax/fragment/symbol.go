package fragment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ascii"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// Symbol cache files use three tagged record kinds:
//
//	tag 25 — body line, two < 45 /> coordinate cells and a trailing style
//	tag 31 — named text slot (LOCATION, VALUE, ...), with position, default
//	         value, justification, rotation, style
//	tag 19 — pin container; pin facts live in PIN_SIDE_DISPLAY /
//	         PIN_TYPE_DISPLAY / PN / visibility properties
//
// The nested "< < 14 /> ..." cell shape distinguishes record headers from
// the flat property stream.
var (
	symLinePattern = regexp.MustCompile(
		`(?s)<\s*25\s*/>\s*<\s*<\s*14\s*/>\s*<\s*[^>]+\s*/>\s*` +
			`<\s*45\s*/>\s*<\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*/>\s*` +
			`<\s*45\s*/>\s*<\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*/>`)

	symTextPattern = regexp.MustCompile(
		`(?s)<\s*31\s*/>\s*<\s*<\s*\d+\s*/>\s*<\s*\d+\s*/>\s*<\s*\d+\s*/>\s*<\s*(\d+)\s*/>\s*<\s*([A-Z_]+)\s*/>`)

	symPositionPattern = regexp.MustCompile(
		`<\s*45\s*/>\s*<\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*<\s*\d+\s*/>\s*<\s*(-?\d+)\s*/>\s*/>`)

	symStylePattern = regexp.MustCompile(`<\s*\d+\s*/>\s*<\s*(Style\d+)\s*/>`)

	symJustPattern = regexp.MustCompile(`<n\s+just\s+n/>\s*<\s*\d+\s*/>\s*<v\s*(\d+)\s*v/>`)

	symVisibilityPattern = regexp.MustCompile(`<n\s+visibility\s+n/>\s*<\s*\d+\s*/>\s*<v\s*(\d+)\s*v/>`)

	symOutlinePattern = regexp.MustCompile(
		`<n\s+CDS_LMAN_SYM_OUTLINE\s+n/>\s*<\s*\d+\s*/>\s*<\s*\d+\s*/>\s*<v\s*([^v]+)\s*v/>`)
)

// ParseSymbol parses one symbol cache .ascii file into a symbol definition.
// The bounding box comes from the CDS_LMAN_SYM_OUTLINE property when present
// and is otherwise derived from the body lines.
func ParseSymbol(content string, key design.SymbolKey) *design.SymbolDefinition {
	def := &design.SymbolDefinition{
		Key:        key,
		Anchors:    make(map[string]design.TextAnchor),
		PinNumbers: make(map[string]string),
	}

	for _, m := range symLinePattern.FindAllStringSubmatchIndex(content, -1) {
		x1, _ := strconv.Atoi(content[m[2]:m[3]])
		y1, _ := strconv.Atoi(content[m[4]:m[5]])
		x2, _ := strconv.Atoi(content[m[6]:m[7]])
		y2, _ := strconv.Atoi(content[m[8]:m[9]])

		styleRef := design.StyleRef("Style1")
		if sm := symStylePattern.FindStringSubmatch(content[m[1]:min(len(content), m[1]+200)]); sm != nil {
			styleRef = design.StyleRef(sm[1])
		}
		def.Lines = append(def.Lines, design.SymbolLine{
			Points:   []design.Point{{X: x1, Y: y1}, {X: x2, Y: y2}},
			StyleRef: styleRef,
		})
	}

	for _, m := range symTextPattern.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[4]:m[5]]
		if name == "PN" {
			continue
		}
		window := content[m[1]:min(len(content), m[1]+500)]

		anchor := design.TextAnchor{Name: name, StyleRef: "Style1"}
		if pm := symPositionPattern.FindStringSubmatch(window); pm != nil {
			anchor.Offset.X, _ = strconv.Atoi(pm[1])
			anchor.Offset.Y, _ = strconv.Atoi(pm[2])
		}
		if v, ok := ascii.FindProp(window, "V"); ok {
			anchor.DefaultValue = v
		}
		if jm := symJustPattern.FindStringSubmatch(window); jm != nil {
			anchor.Justification, _ = strconv.Atoi(jm[1])
		}
		if v, ok := ascii.FindProp(window, "rotation"); ok {
			anchor.Rotation, _ = strconv.Atoi(v)
		}
		if sm := symStylePattern.FindStringSubmatch(window); sm != nil {
			anchor.StyleRef = design.StyleRef(sm[1])
		}
		def.Anchors[name] = anchor
	}

	props := ascii.ScanProps(content)
	parseSymbolPins(content, props, def)
	parsePinNumbers(props, def)

	if om := symOutlinePattern.FindStringSubmatch(content); om != nil {
		if bb := parseOutline(om[1]); bb != nil {
			def.BoundingBox = bb
		}
	}
	if def.BoundingBox == nil {
		def.BoundingBox = design.ComputeBoundingBox(def.Lines)
	}
	return def
}

// parseSymbolPins walks the property stream and turns each PIN_SIDE_DISPLAY
// occurrence into a pin, gathering the neighboring type, number, and
// visibility properties.
func parseSymbolPins(content string, props []ascii.Prop, def *design.SymbolDefinition) {
	for i, p := range props {
		if p.Name != "PIN_SIDE_DISPLAY" {
			continue
		}
		pin := design.SymbolPin{
			Side:       p.Value,
			Electrical: "Unknown",
			Number:     "?",
			Visible:    true,
		}
		// Companion properties live within the same tag 19 container, a
		// few entries on either side.
		for j := max(0, i-4); j < min(len(props), i+5); j++ {
			switch props[j].Name {
			case "PIN_TYPE_DISPLAY":
				pin.Electrical = props[j].Value
			case "PN":
				pin.Number = props[j].Value
			}
		}
		if vm := symVisibilityPattern.FindStringSubmatch(ascii.Window(content, p.Offset, p.Offset, 200)); vm != nil {
			vis, _ := strconv.Atoi(vm[1])
			pin.Visible = vis != 0
			pin.Hidden = vis == 0
		}
		def.Pins = append(def.Pins, pin)
	}
}

// parsePinNumbers fills the name-to-physical-number table from
// PIN_DISPLAY_NAME properties and the V property that follows each.
func parsePinNumbers(props []ascii.Prop, def *design.SymbolDefinition) {
	for i, p := range props {
		if p.Name != "PIN_DISPLAY_NAME" || p.Value == "" {
			continue
		}
		for j := i + 1; j < len(props) && j <= i+6; j++ {
			if props[j].Name == "V" {
				if _, err := strconv.Atoi(props[j].Value); err == nil {
					def.PinNumbers[strings.ToLower(p.Value)] = props[j].Value
				}
				break
			}
		}
	}
}

func parseOutline(s string) *design.BoundingBox {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return nil
	}
	vals := make([]int, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		vals[i] = int(f)
	}
	return &design.BoundingBox{
		MinX:   vals[0],
		MinY:   vals[1],
		MaxX:   vals[2],
		MaxY:   vals[3],
		Width:  vals[2] - vals[0],
		Height: vals[3] - vals[1],
	}
}

// SymbolLibrary is the loaded symbol cache, keyed by "library##part##rev".
type SymbolLibrary map[string]*design.SymbolDefinition

// Lookup returns the symbol for a key string, trying the exact revision
// first and then any revision of the same part.
func (lib SymbolLibrary) Lookup(key design.SymbolKey, revision string) *design.SymbolDefinition {
	if def, ok := lib[key.String()+"##"+revision]; ok {
		return def
	}
	prefix := key.String() + "##"
	for k, def := range lib {
		if strings.HasPrefix(k, prefix) {
			return def
		}
	}
	return nil
}

// LoadSymbolCache parses every *.ascii file under a cache directory. File
// names encode the symbol identity as library##part##sym_N.ascii; files that
// do not follow the pattern or fail to parse are skipped with a log entry.
func LoadSymbolCache(dir string, log *slog.Logger) (SymbolLibrary, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.ascii"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan symbol cache: %w", err)
	}

	lib := make(SymbolLibrary, len(matches))
	for _, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), ".ascii")
		parts := strings.Split(stem, "##")
		if len(parts) < 2 {
			continue
		}
		key := design.SymbolKey{Library: parts[0], PartName: parts[1]}
		revision := "sym_1"
		if len(parts) >= 3 {
			revision = parts[2]
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable symbol cache file", "file", path, "error", err)
			continue
		}
		lib[key.String()+"##"+revision] = ParseSymbol(string(raw), key)
	}
	return lib, nil
}
