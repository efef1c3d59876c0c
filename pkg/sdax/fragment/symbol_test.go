package fragment

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

const sampleSymbol = `< 25 />  <  < 14 />  < 14:1008806316530991106  />
  < 45 />  <  < 0 />  < 38100 />  < 0 />  < 25400 />  />
  < 45 />  <  < 0 />  < 63500 />  < 0 />  < 25400 />  />
  < 0 />  < 6 />  < Style2 />
< 25 />  <  < 14 />  < 14:1008806316530991107  />
  < 45 />  <  < 0 />  < 38100 />  < 0 />  < 25400 />  />
  < 45 />  <  < 0 />  < 38100 />  < 0 />  < 50800 />  />
< 31 />  <  < 0 />  < 2 />  < 0 />  < 8 />  < LOCATION />
  < 44 />  < box />
  < 45 />  <  < 0 />  < -25400 />  < 0 />  < 35306 />  />
  <n just n/>  < 1 />  <v 1 v/>
  <n rotation n/>  < 1 />  < 2 />  <v 0 v/>
  <n V n/>  < 1 />  < 2 />  <v C? v/>
< 19 />  <  < 0 />  < 8 />  < zeronull />  < 19 />
  <n PN n/>  < 1 />  < 1 />  <v 2 v/>
  <n PIN_SIDE_DISPLAY n/>  < 1 />  < 6 />  <v Bottom v/>
  <n PIN_TYPE_DISPLAY n/>  < 1 />  < 6 />  <v Analog v/>
<n PIN_DISPLAY_NAME n/>  < 1 />  < 5 />  <v VDDIO v/>
  <n V n/>  < 1 />  < 2 />  <v 32 v/>
<n CDS_LMAN_SYM_OUTLINE n/>  < 1 />  < 18 />  <v 0,0,101600,50800 v/>
`

func TestParseSymbol(t *testing.T) {
	key := design.SymbolKey{Library: "capacitor", PartName: "capacitor"}
	def := ParseSymbol(sampleSymbol, key)

	if len(def.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(def.Lines))
	}
	l := def.Lines[0]
	if l.Points[0] != (design.Point{X: 38100, Y: 25400}) || l.Points[1] != (design.Point{X: 63500, Y: 25400}) {
		t.Errorf("line 0 points = %+v", l.Points)
	}
	if l.StyleRef != "Style2" {
		t.Errorf("line 0 style = %q, want Style2", l.StyleRef)
	}

	anchor, ok := def.Anchor(design.AnchorRefDes)
	if !ok {
		t.Fatal("LOCATION anchor missing")
	}
	if anchor.Offset != (design.Point{X: -25400, Y: 35306}) {
		t.Errorf("anchor offset = %+v", anchor.Offset)
	}
	if anchor.DefaultValue != "C?" {
		t.Errorf("anchor default = %q, want C?", anchor.DefaultValue)
	}
	if anchor.Justification != 1 {
		t.Errorf("anchor justification = %d, want 1", anchor.Justification)
	}

	if len(def.Pins) != 1 {
		t.Fatalf("pins = %d, want 1", len(def.Pins))
	}
	pin := def.Pins[0]
	if pin.Side != "Bottom" || pin.Electrical != "Analog" || pin.Number != "2" {
		t.Errorf("pin = %+v", pin)
	}
	if !pin.Visible || pin.Hidden {
		t.Errorf("pin without visibility property should default visible")
	}

	if got := def.PinNumber("VDDIO"); got != "32" {
		t.Errorf("PinNumber(VDDIO) = %q, want 32", got)
	}
	if got := def.PinNumber("vddio"); got != "32" {
		t.Errorf("pin name lookup should be case-insensitive, got %q", got)
	}

	if def.BoundingBox == nil {
		t.Fatal("bounding box missing")
	}
	if def.BoundingBox.MaxX != 101600 || def.BoundingBox.Height != 50800 {
		t.Errorf("bounding box = %+v, want outline property values", def.BoundingBox)
	}
}

func TestParseSymbolBoundingBoxFromLines(t *testing.T) {
	content := `< 25 />  <  < 14 />  < 14:1  />
  < 45 />  <  < 0 />  < 100 />  < 0 />  < 200 />  />
  < 45 />  <  < 0 />  < 500 />  < 0 />  < -300 />  />
`
	def := ParseSymbol(content, design.SymbolKey{Library: "resistor", PartName: "res_0402"})
	bb := def.BoundingBox
	if bb == nil {
		t.Fatal("bounding box should derive from lines")
	}
	if bb.MinX != 100 || bb.MinY != -300 || bb.MaxX != 500 || bb.MaxY != 200 {
		t.Errorf("bounding box = %+v", bb)
	}
	if bb.Width != 400 || bb.Height != 500 {
		t.Errorf("bounding box extent = %dx%d", bb.Width, bb.Height)
	}
}

func TestSymbolLibraryLookup(t *testing.T) {
	key := design.SymbolKey{Library: "ic", PartName: "usb3320_ulpi_xcvr"}
	def := &design.SymbolDefinition{Key: key}
	lib := SymbolLibrary{"ic##usb3320_ulpi_xcvr##sym_2": def}

	if got := lib.Lookup(key, "sym_2"); got != def {
		t.Error("exact revision lookup failed")
	}
	if got := lib.Lookup(key, "sym_1"); got != def {
		t.Error("lookup should fall back to any revision of the part")
	}
	if got := lib.Lookup(design.SymbolKey{Library: "ic", PartName: "other"}, "sym_1"); got != nil {
		t.Error("lookup of unknown part should be nil")
	}
}
