package aggregate

import (
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// SynthesizeLabels projects a component's refdes and value text onto the
// page. Raw page-geometry files never carry instance-bound text; the symbol
// definition instead declares named anchor slots, and each label is the
// anchor's symbol-relative offset added to the instance's absolute position.
//
// This is a pure projection: the returned primitives carry no element ID or
// sequence index, which the caller assigns when appending them to the
// primitive list. A component without a position or a symbol yields nothing.
func SynthesizeLabels(comp *design.ComponentInstance, sym *design.SymbolDefinition) []design.PrimitiveElement {
	if comp == nil || sym == nil || comp.Position == nil {
		return nil
	}

	var out []design.PrimitiveElement
	if anchor, ok := sym.Anchor(design.AnchorRefDes); ok {
		out = append(out, labelPrimitive(comp, anchor, string(comp.RefDes), "refdes_label"))
	}
	if anchor, ok := sym.Anchor(design.AnchorValue); ok {
		value := comp.Properties["VALUE"]
		if value == "" {
			value = anchor.DefaultValue
		}
		if value != "" {
			out = append(out, labelPrimitive(comp, anchor, value, "value_label"))
		}
	}
	return out
}

func labelPrimitive(comp *design.ComponentInstance, anchor design.TextAnchor, text, shape string) design.PrimitiveElement {
	origin := design.Point{
		X: comp.Position.X + anchor.Offset.X,
		Y: comp.Position.Y + anchor.Offset.Y,
	}
	return design.PrimitiveElement{
		Kind:        design.KindText,
		ShapeType:   shape,
		PageNumber:  comp.Position.Page,
		Block:       comp.Block,
		Origin:      &origin,
		TextContent: text,
		Text: &design.TextProperties{
			Alignment:     design.AlignmentForJustification(anchor.Justification),
			Justification: anchor.Justification,
			Rotation:      anchor.Rotation,
		},
		Rotation: anchor.Rotation,
		ZValue:   defaultLabelZ,
		StyleRef: anchor.StyleRef,
	}
}

// Labels draw above wires and symbol bodies.
const defaultLabelZ = 20000
