package design

import "strings"

// Anchor slot names used by symbol definitions. LOCATION is where the refdes
// label is drawn, VALUE where the component value goes.
const (
	AnchorRefDes = "LOCATION"
	AnchorValue  = "VALUE"
)

// SymbolPin is one pin of a symbol template.
type SymbolPin struct {
	Side       string `json:"side"`
	Electrical string `json:"type"`
	Number     string `json:"number"`
	Visible    bool   `json:"visible"`
	Hidden     bool   `json:"hidden_pin"`
}

// SymbolLine is one body line of a symbol template, in symbol-relative
// coordinates.
type SymbolLine struct {
	Points   []Point  `json:"points"`
	StyleRef StyleRef `json:"style_ref"`
}

// TextAnchor is a named symbol-relative offset where instance text (refdes,
// value) is drawn. The offset is added to the instance origin at label
// synthesis time.
type TextAnchor struct {
	Name          string   `json:"name"`
	Offset        Point    `json:"position"`
	DefaultValue  string   `json:"default_value"`
	Justification int      `json:"justification"`
	Rotation      int      `json:"rotation"`
	StyleRef      StyleRef `json:"style_ref"`
}

// BoundingBox is an axis-aligned extent in symbol-relative units.
type BoundingBox struct {
	MinX   int `json:"min_x"`
	MinY   int `json:"min_y"`
	MaxX   int `json:"max_x"`
	MaxY   int `json:"max_y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SymbolDefinition is the reusable visual and pin template shared by all
// instances of a part. Loaded once from the symbol cache and immutable
// afterward.
type SymbolDefinition struct {
	Key         SymbolKey             `json:"-"`
	BoundingBox *BoundingBox          `json:"bounding_box"`
	Lines       []SymbolLine          `json:"lines"`
	Pins        []SymbolPin           `json:"pins"`
	Anchors     map[string]TextAnchor `json:"text_positions"`
	// PinNumbers maps lower-cased pin names to physical pin numbers.
	PinNumbers map[string]string `json:"pin_numbers"`
}

// PinNumber looks up a physical pin number by pin name, case-insensitively.
// A missing entry yields the empty string, not an error: many symbols carry
// no pin number table at all.
func (s *SymbolDefinition) PinNumber(pinName string) string {
	if s == nil || s.PinNumbers == nil {
		return ""
	}
	return s.PinNumbers[strings.ToLower(pinName)]
}

// Anchor returns the named text anchor, if the symbol defines it.
func (s *SymbolDefinition) Anchor(name string) (TextAnchor, bool) {
	if s == nil || s.Anchors == nil {
		return TextAnchor{}, false
	}
	a, ok := s.Anchors[name]
	return a, ok
}

// ComputeBoundingBox derives the bounding box from body lines when the
// symbol outline property was absent. Returns nil for a symbol with no lines.
func ComputeBoundingBox(lines []SymbolLine) *BoundingBox {
	first := true
	var bb BoundingBox
	for _, l := range lines {
		for _, p := range l.Points {
			if first {
				bb = BoundingBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
				first = false
				continue
			}
			if p.X < bb.MinX {
				bb.MinX = p.X
			}
			if p.Y < bb.MinY {
				bb.MinY = p.Y
			}
			if p.X > bb.MaxX {
				bb.MaxX = p.X
			}
			if p.Y > bb.MaxY {
				bb.MaxY = p.Y
			}
		}
	}
	if first {
		return nil
	}
	bb.Width = bb.MaxX - bb.MinX
	bb.Height = bb.MaxY - bb.MinY
	return &bb
}
