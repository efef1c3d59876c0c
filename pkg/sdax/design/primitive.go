package design

import (
	"strconv"
	"strings"
)

// PrimitiveKind classifies a drawable object.
type PrimitiveKind string

const (
	KindLine     PrimitiveKind = "line"
	KindText     PrimitiveKind = "text"
	KindInstance PrimitiveKind = "instance"
)

// CGType values classify raw shapes in page-geometry data.
const (
	CGTypeWire  = 65571
	CGTypeTable = 65570
)

// ShapeTypeForCGType maps a raw CGTYPE code to its shape class name.
func ShapeTypeForCGType(cgtype int) string {
	switch cgtype {
	case CGTypeWire:
		return "wire"
	case CGTypeTable:
		return "table"
	default:
		return "unknown"
	}
}

// Justification codes used by text primitives and anchor slots.
const (
	JustifyLeft   = 0
	JustifyCenter = 1
	JustifyRight  = 2
)

// AlignmentForJustification resolves a numeric justification code to a text
// alignment name. Code 3 renders centered, same as 1.
func AlignmentForJustification(just int) string {
	switch just {
	case JustifyCenter, 3:
		return "center"
	case JustifyRight:
		return "right"
	default:
		return "left"
	}
}

// Transform is a parsed 3x3 affine placement matrix with convenience fields
// derived from the diagonal.
type Transform struct {
	Matrix  [9]float64 `json:"matrix"`
	MirrorX bool       `json:"mirror_x"`
	MirrorY bool       `json:"mirror_y"`
	ScaleX  float64    `json:"scale_x"`
	ScaleY  float64    `json:"scale_y"`
}

// IdentityTransform returns the identity placement transform.
func IdentityTransform() Transform {
	return Transform{
		Matrix: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		ScaleX: 1,
		ScaleY: 1,
	}
}

// ParseTransform parses a comma-separated 9-element matrix string
// ("a,b,c,d,e,f,g,h,i"). Malformed input yields the identity transform.
func ParseTransform(s string) Transform {
	parts := strings.Split(s, ",")
	if len(parts) != 9 {
		return IdentityTransform()
	}
	var m [9]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return IdentityTransform()
		}
		m[i] = v
	}
	t := Transform{Matrix: m, MirrorX: m[0] < 0, MirrorY: m[4] < 0, ScaleX: 1, ScaleY: 1}
	if m[0] != 0 {
		t.ScaleX = abs(m[0])
	}
	if m[4] != 0 {
		t.ScaleY = abs(m[4])
	}
	return t
}

// TextProperties carry alignment and rotation for text primitives.
type TextProperties struct {
	Alignment     string `json:"alignment"`
	Justification int    `json:"justification"`
	Rotation      int    `json:"rotation"`
}

// PrimitiveElement is one drawable object: a wire polyline, a text label or
// a symbol placement reference.
//
// PageNumber is the absolute 1-based document page, or PageUnresolved when
// the page-mapping table had no entry. PageLocalIndex keeps the raw per-block
// page file index for the fallback path. SequenceIndex is globally unique and
// strictly increasing in creation order; it is the z-order tiebreaker within
// a draw category and must survive export unchanged.
type PrimitiveElement struct {
	ElementID      string           `json:"element_id"`
	SequenceIndex  int              `json:"sequence_index"`
	Kind           PrimitiveKind    `json:"type"`
	ShapeType      string           `json:"shape_type"`
	CGType         int              `json:"cgtype,omitempty"`
	PageNumber     int              `json:"page_number"`
	PageLocalIndex int              `json:"page_index"`
	Block          BlockName        `json:"block"`
	Points         []Point          `json:"points,omitempty"`
	Origin         *Point           `json:"origin,omitempty"`
	TextContent    string           `json:"text_content,omitempty"`
	Text           *TextProperties  `json:"text_properties,omitempty"`
	Transform      *Transform       `json:"transform,omitempty"`
	Rotation       int              `json:"rotation"`
	ZValue         int              `json:"z_value"`
	StyleRef       StyleRef         `json:"style_ref,omitempty"`
	GraphicsID     GraphicsObjectID `json:"graphics_id,omitempty"`
	InstanceName   string           `json:"instance_name,omitempty"`
}

// PageResolved reports whether the primitive landed on a real document page.
func (p *PrimitiveElement) PageResolved() bool {
	return p.PageNumber != PageUnresolved
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
