package design

import (
	"testing"
)

func TestClassifyRefDes(t *testing.T) {
	cases := []struct {
		refdes RefDes
		want   string
	}{
		{"R84", "resistor"},
		{"C51", "capacitor"},
		{"U12", "ic"},
		{"FB3", "ferrite_bead"},
		{"TP1", "test_point"},
		{"XYZ9", "xyz"},
		{"123", "unknown"},
	}
	for _, c := range cases {
		if got := ClassifyRefDes(c.refdes); got != c.want {
			t.Errorf("ClassifyRefDes(%q) = %q, want %q", c.refdes, got, c.want)
		}
	}
}

func TestRefDesPrefixesLongestFirst(t *testing.T) {
	prefixes := RefDesPrefixes()
	if len(prefixes) != len(componentTypeByPrefix) {
		t.Fatalf("expected %d prefixes, got %d", len(componentTypeByPrefix), len(prefixes))
	}
	for i := 1; i < len(prefixes); i++ {
		if len(prefixes[i]) > len(prefixes[i-1]) {
			t.Errorf("prefix %q sorted after shorter %q", prefixes[i], prefixes[i-1])
		}
	}
}

func TestParseSymbolKey(t *testing.T) {
	k, err := ParseSymbolKey("ic##usb3320_ulpi_xcvr##sym_1")
	if err != nil {
		t.Fatalf("ParseSymbolKey failed: %v", err)
	}
	if k.Library != "ic" || k.PartName != "usb3320_ulpi_xcvr" {
		t.Errorf("unexpected key: %+v", k)
	}
	if k.String() != "ic##usb3320_ulpi_xcvr" {
		t.Errorf("String() = %q", k.String())
	}
	if k.CachePath("sym_1") != "ic##usb3320_ulpi_xcvr##sym_1" {
		t.Errorf("CachePath() = %q", k.CachePath("sym_1"))
	}

	if _, err := ParseSymbolKey("no-separator"); err == nil {
		t.Error("expected error for key without separator")
	}
}

func TestParseTransform(t *testing.T) {
	tr := ParseTransform("-1,0,0,0,1,0,0,0,1")
	if !tr.MirrorX || tr.MirrorY {
		t.Errorf("expected mirror X only, got mirrorX=%v mirrorY=%v", tr.MirrorX, tr.MirrorY)
	}
	if tr.ScaleX != 1 || tr.ScaleY != 1 {
		t.Errorf("expected unit scale, got %v/%v", tr.ScaleX, tr.ScaleY)
	}

	// Malformed strings fall back to identity.
	for _, bad := range []string{"", "1,2,3", "a,b,c,d,e,f,g,h,i"} {
		tr := ParseTransform(bad)
		if tr != IdentityTransform() {
			t.Errorf("ParseTransform(%q): expected identity fallback", bad)
		}
	}
}

func TestAlignmentForJustification(t *testing.T) {
	cases := map[int]string{0: "left", 1: "center", 2: "right", 3: "center", 7: "left"}
	for just, want := range cases {
		if got := AlignmentForJustification(just); got != want {
			t.Errorf("AlignmentForJustification(%d) = %q, want %q", just, got, want)
		}
	}
}

func TestSymbolPinNumberLookup(t *testing.T) {
	sym := &SymbolDefinition{
		PinNumbers: map[string]string{"vddio": "32", "gnd": "33"},
	}
	if got := sym.PinNumber("VDDIO"); got != "32" {
		t.Errorf("PinNumber(VDDIO) = %q, want 32", got)
	}
	if got := sym.PinNumber("NONEXISTENT"); got != "" {
		t.Errorf("missing pin should yield empty number, got %q", got)
	}

	var nilSym *SymbolDefinition
	if got := nilSym.PinNumber("x"); got != "" {
		t.Errorf("nil symbol should yield empty number, got %q", got)
	}
}

func TestComputeBoundingBox(t *testing.T) {
	lines := []SymbolLine{
		{Points: []Point{{X: 38100, Y: 25400}, {X: 63500, Y: 25400}}},
		{Points: []Point{{X: 38100, Y: -10000}, {X: 38100, Y: 25400}}},
	}
	bb := ComputeBoundingBox(lines)
	if bb == nil {
		t.Fatal("expected bounding box")
	}
	if bb.MinX != 38100 || bb.MinY != -10000 || bb.MaxX != 63500 || bb.MaxY != 25400 {
		t.Errorf("unexpected box: %+v", bb)
	}
	if bb.Width != 25400 || bb.Height != 35400 {
		t.Errorf("unexpected extent: %dx%d", bb.Width, bb.Height)
	}

	if ComputeBoundingBox(nil) != nil {
		t.Error("empty line list should give nil box")
	}
}

func TestNetBlockList(t *testing.T) {
	n := &Net{
		Name:   "CLK0",
		Blocks: map[BlockName]bool{"usb_block": true, "dsp_block": true},
	}
	blocks := n.BlockList()
	if len(blocks) != 2 || blocks[0] != "dsp_block" || blocks[1] != "usb_block" {
		t.Errorf("unexpected block list: %v", blocks)
	}
}
