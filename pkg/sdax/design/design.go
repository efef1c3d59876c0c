// Package design defines the unified data model the extraction pipeline
// reconstructs from a fragmented SDAX project: component instances, nets,
// pages, drawable primitives and symbol definitions, all keyed by stable
// domain identifiers rather than per-file local IDs.
package design

import (
	"regexp"
	"sort"
	"strings"
)

// PageUnresolved is the sentinel page number for primitives and positions
// whose absolute page could not be determined. Real page numbers are 1-based.
const PageUnresolved = 0

// Position is an absolute placement in design-internal integer units,
// tagged with the absolute document page it belongs to.
type Position struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Page int `json:"page_number"`
}

// Point is a coordinate pair in design-internal integer units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PinConnection records one pin of a component and the net it connects to.
type PinConnection struct {
	PinName   string  `json:"pin_name"`
	PinNumber string  `json:"pin_number"` // from the symbol pin table; empty when unknown
	TermID    string  `json:"pin_id"`
	Net       NetName `json:"net"`
	NetID     string  `json:"net_id"`
}

// ComponentInstance is one placed part in the design, keyed by refdes.
//
// An instance is created the first time its refdes is seen. A later record
// for the same refdes replaces it wholesale only when it carries a longer
// hierarchy chain; records are never merged field by field. Pins and
// position are attached in separate passes and follow a first-write-wins
// policy.
type ComponentInstance struct {
	RefDes         RefDes            `json:"refdes"`
	Type           string            `json:"type"`
	Library        string            `json:"library"`
	PartName       string            `json:"part_name"`
	SymbolRevision string            `json:"symbol"`
	Block          BlockName         `json:"block"`
	CPath          string            `json:"hierarchy_path"`
	InstancePath   []BlockName       `json:"hierarchy_chain"`
	LocalID        LocalInstanceID   `json:"instance_id"`
	Properties     map[string]string `json:"properties"`
	Pins           []PinConnection   `json:"pins"`
	Position       *Position         `json:"position,omitempty"`
}

// SymbolKey returns the symbol definition key for this instance.
func (c *ComponentInstance) SymbolKey() SymbolKey {
	return SymbolKey{Library: c.Library, PartName: c.PartName}
}

var refdesPrefixPattern = regexp.MustCompile(`^[A-Za-z]+`)

var componentTypeByPrefix = map[string]string{
	"R":   "resistor",
	"C":   "capacitor",
	"L":   "inductor",
	"U":   "ic",
	"Q":   "transistor",
	"D":   "diode",
	"J":   "connector",
	"P":   "connector",
	"CR":  "led",
	"LED": "led",
	"F":   "fuse",
	"FB":  "ferrite_bead",
	"Y":   "crystal",
	"SW":  "switch",
	"TP":  "test_point",
	"PTH": "pth_connector",
}

// RefDesPrefixes returns the known refdes letter prefixes, longest first
// so regexp alternations built from the list match "FB" before "F".
func RefDesPrefixes() []string {
	out := make([]string, 0, len(componentTypeByPrefix))
	for p := range componentTypeByPrefix {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// ClassifyRefDes maps a reference designator to a component type by its
// letter prefix ("C51" -> "capacitor"). Unknown prefixes are returned
// lower-cased; a refdes with no letter prefix classifies as "unknown".
func ClassifyRefDes(rd RefDes) string {
	prefix := refdesPrefixPattern.FindString(string(rd))
	if prefix == "" {
		return "unknown"
	}
	prefix = strings.ToUpper(prefix)
	if t, ok := componentTypeByPrefix[prefix]; ok {
		return t
	}
	return strings.ToLower(prefix)
}

// NetConnection is one (refdes, pin) endpoint of a net. Resolved reports
// whether the refdes was resolved through the identifier bridge; unresolved
// endpoints still count toward net-completeness statistics.
type NetConnection struct {
	RefDes   RefDes          `json:"refdes"`
	Pin      string          `json:"pin"`
	LocalID  LocalInstanceID `json:"instance_id"`
	Resolved bool            `json:"resolved"`
}

// Net is an electrically connected set of pins, keyed globally by name.
// A net declared in several block connectivity files degenerates to one
// record: connection lists and block sets are unioned. Duplicate connections
// are tolerated on purpose; connection counts are a validation signal.
type Net struct {
	ID          string             `json:"id"`
	Name        NetName            `json:"name"`
	Scope       string             `json:"scope,omitempty"`
	Direction   string             `json:"direction,omitempty"`
	Blocks      map[BlockName]bool `json:"-"`
	Connections []NetConnection    `json:"connections"`
}

// BlockList returns the participating blocks in sorted order.
func (n *Net) BlockList() []BlockName {
	out := make([]BlockName, 0, len(n.Blocks))
	for b := range n.Blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CoordinateOrigin tells geometry consumers where a page's origin sits.
// Top-left origin pages require a Y-axis flip when drawing.
type CoordinateOrigin string

const (
	OriginTopLeft    CoordinateOrigin = "top_left"
	OriginBottomLeft CoordinateOrigin = "bottom_left"
)

// PageSize is a sheet size with its unit (typically mils).
type PageSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Unit   string `json:"unit"`
}

// Page is one document sheet. Number is absolute and 1-based and defines
// document order.
type Page struct {
	Number      int              `json:"page_number"`
	PageUID     string           `json:"page_uid"`
	Title       string           `json:"title"`
	SourceBlock BlockName        `json:"source_block"`
	BlockPath   string           `json:"block_path"`
	Size        PageSize         `json:"size"`
	Standard    string           `json:"page_standard"`
	Origin      CoordinateOrigin `json:"coordinate_origin"`
}

// GridConfig carries grid and snap settings needed to reproduce original
// placement intent. Internal units: 100000 per inch, 1 unit = 0.01 mil.
type GridConfig struct {
	XStep              int     `json:"x_step"`
	YStep              int     `json:"y_step"`
	Unit               string  `json:"unit"`
	MilsPerUnit        float64 `json:"mils_per_unit"`
	MMPerUnit          float64 `json:"mm_per_unit"`
	InternalPerInch    int     `json:"internal_per_inch"`
	SnapEnabled        bool    `json:"snap_enabled"`
	DisplayGrid        bool    `json:"display_grid"`
	MinorGridDivisions int     `json:"minor_grid_divisions"`
}

// DefaultGridConfig returns the standard SDAX grid: 100 mil grid step in
// internal units.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		XStep:              100000,
		YStep:              100000,
		Unit:               "internal",
		MilsPerUnit:        0.01,
		MMPerUnit:          0.000254,
		InternalPerInch:    100000,
		SnapEnabled:        true,
		DisplayGrid:        true,
		MinorGridDivisions: 10,
	}
}
