package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

func labelSymbol() *design.SymbolDefinition {
	return &design.SymbolDefinition{
		Key: design.SymbolKey{Library: "capacitor", PartName: "capacitor"},
		Anchors: map[string]design.TextAnchor{
			design.AnchorRefDes: {
				Name:          design.AnchorRefDes,
				Offset:        design.Point{X: -25400, Y: 35306},
				Justification: 1,
				StyleRef:      "Style4",
			},
			design.AnchorValue: {
				Name:         design.AnchorValue,
				Offset:       design.Point{X: -25400, Y: -10000},
				DefaultValue: "C?",
			},
		},
	}
}

func TestSynthesizeLabels(t *testing.T) {
	comp := &design.ComponentInstance{
		RefDes:     "C51",
		Block:      "usb_phy",
		Position:   &design.Position{X: 100000, Y: 200000, Page: 4},
		Properties: map[string]string{"VALUE": "100nF"},
	}

	labels := SynthesizeLabels(comp, labelSymbol())
	require.Len(t, labels, 2)

	refdes := labels[0]
	assert.Equal(t, design.KindText, refdes.Kind)
	assert.Equal(t, "refdes_label", refdes.ShapeType)
	assert.Equal(t, "C51", refdes.TextContent)
	require.NotNil(t, refdes.Origin)
	assert.Equal(t, design.Point{X: 74600, Y: 235306}, *refdes.Origin, "anchor offset added to instance position")
	assert.Equal(t, 4, refdes.PageNumber)
	assert.Equal(t, "center", refdes.Text.Alignment)
	assert.Equal(t, design.StyleRef("Style4"), refdes.StyleRef)

	value := labels[1]
	assert.Equal(t, "value_label", value.ShapeType)
	assert.Equal(t, "100nF", value.TextContent, "VALUE property preferred over anchor default")
}

func TestSynthesizeLabelsAnchorDefault(t *testing.T) {
	comp := &design.ComponentInstance{
		RefDes:   "C51",
		Position: &design.Position{X: 0, Y: 0, Page: 1},
	}
	labels := SynthesizeLabels(comp, labelSymbol())
	require.Len(t, labels, 2)
	assert.Equal(t, "C?", labels[1].TextContent)
}

func TestSynthesizeLabelsRequiresPositionAndSymbol(t *testing.T) {
	comp := &design.ComponentInstance{RefDes: "C51"}
	assert.Nil(t, SynthesizeLabels(comp, labelSymbol()), "no position")

	comp.Position = &design.Position{Page: 1}
	assert.Nil(t, SynthesizeLabels(comp, nil), "no symbol")
	assert.Nil(t, SynthesizeLabels(nil, labelSymbol()))
}
