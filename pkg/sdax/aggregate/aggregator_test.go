package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ident"
)

func resolved(refdes string, chain ...design.BlockName) *ident.ResolvedInstance {
	return &ident.ResolvedInstance{
		RefDes:         design.RefDes(refdes),
		Block:          "brain_board",
		LocalID:        "100",
		Chain:          chain,
		Library:        "ic",
		PartName:       "usb3320_ulpi_xcvr",
		SymbolRevision: "sym_1",
	}
}

func TestAddInstanceDeduplicatesByRefDes(t *testing.T) {
	a := New("brain_board", nil)

	a.AddInstance(resolved("U7", "usb_phy"))
	a.AddInstance(resolved("U7", "usb_phy", "power", "ldo"))

	require.Equal(t, 1, a.Len(), "one refdes, one component")
	comp := a.Component("U7")
	require.NotNil(t, comp)
	assert.Len(t, comp.InstancePath, 3, "longer hierarchy chain wins")
}

func TestAddInstanceTieKeepsFirst(t *testing.T) {
	a := New("brain_board", nil)

	first := resolved("U7", "usb_phy")
	first.PartName = "first_seen"
	a.AddInstance(first)

	second := resolved("U7", "power")
	second.PartName = "second_seen"
	a.AddInstance(second)

	assert.Equal(t, "first_seen", a.Component("U7").PartName, "equal chain length keeps first record")
}

func TestAddInstanceClassifiesType(t *testing.T) {
	a := New("brain_board", nil)
	a.AddInstance(resolved("C51"))
	a.AddInstance(resolved("FB3"))

	assert.Equal(t, "capacitor", a.Component("C51").Type)
	assert.Equal(t, "ferrite_bead", a.Component("FB3").Type)
}

func TestAttachPinsWriteOnce(t *testing.T) {
	a := New("brain_board", nil)
	a.AddInstance(resolved("U7"))

	first := []design.PinConnection{{PinName: "VDDIO", Net: "VDD_3V3"}}
	second := []design.PinConnection{{PinName: "GND", Net: "GND"}}

	assert.True(t, a.AttachPins("U7", first))
	assert.False(t, a.AttachPins("U7", second), "second write must be discarded")
	assert.Equal(t, "VDDIO", a.Component("U7").Pins[0].PinName)

	assert.False(t, a.AttachPins("U99", first), "unknown refdes")
}

func TestAttachPositionFirstWriteWins(t *testing.T) {
	a := New("brain_board", nil)
	a.AddInstance(resolved("U7"))

	assert.True(t, a.AttachPosition("U7", design.Position{X: 100, Y: 200, Page: 3}))
	assert.False(t, a.AttachPosition("U7", design.Position{X: 999, Y: 999, Page: 9}))

	pos := a.Component("U7").Position
	require.NotNil(t, pos)
	assert.Equal(t, 100, pos.X)
	assert.Equal(t, 3, pos.Page)
}

func TestHierarchyTree(t *testing.T) {
	a := New("brain_board", nil)
	a.AddInstance(resolved("U1"))
	a.AddInstance(resolved("C1", "usb_phy"))
	a.AddInstance(resolved("C2", "usb_phy", "filter"))

	root := a.Hierarchy()
	assert.Equal(t, []design.RefDes{"U1"}, root.Components, "empty chain lands at root")

	phy := root.Children["usb_phy"]
	require.NotNil(t, phy)
	assert.Equal(t, []design.RefDes{"C1"}, phy.Components)

	filter := phy.Children["filter"]
	require.NotNil(t, filter)
	assert.Equal(t, []design.RefDes{"C2"}, filter.Components)

	assert.Equal(t, 2, root.Depth())
}
