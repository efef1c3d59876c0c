package verify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
)

func verifyDocument() *export.Document {
	return &export.Document{
		Components: []*design.ComponentInstance{
			{RefDes: "U7", Type: "ic"},
			{RefDes: "C12", Type: "capacitor"},
			{RefDes: "FB3", Type: "ferrite_bead"},
		},
		Nets: map[string]export.NetEntry{
			"VDD_3V3":   {Name: "VDD_3V3"},
			"DDR_DQ<0>": {Name: "DDR_DQ<0>"},
		},
		Primitives: []design.PrimitiveElement{
			{Kind: design.KindText, TextContent: "U7"},
			{Kind: design.KindText, TextContent: "C12"},
			{Kind: design.KindText, TextContent: "VDD_3V3"},
		},
	}
}

func TestRefDesTokens(t *testing.T) {
	set := RefDesTokens("U7 connects to C12 through FB3 near pin A1 on SHEET")
	assert.True(t, set["U7"])
	assert.True(t, set["C12"])
	assert.True(t, set["FB3"])
	assert.False(t, set["A1"], "A is not a refdes prefix")
	assert.False(t, set["SHEET"])
}

func TestRefDesTokensTrackClassifierPrefixes(t *testing.T) {
	// Every prefix the component classifier knows must be mined, fuses
	// and LEDs included, and multi-letter prefixes must win over their
	// single-letter heads.
	set := RefDesTokens("F1 LED2 CR4 PTH5 FB3 TP7 SW1")
	assert.True(t, set["F1"])
	assert.True(t, set["LED2"])
	assert.True(t, set["CR4"])
	assert.True(t, set["PTH5"])
	assert.True(t, set["FB3"])
	assert.True(t, set["TP7"])
	assert.True(t, set["SW1"])
	assert.False(t, set["B3"], "FB3 must not split into F + B3")
}

func TestNetTokens(t *testing.T) {
	set := NetTokens("VDD_3V3 ULPI_DIR TITLE GND 1234 ok")
	assert.True(t, set["VDD_3V3"])
	assert.True(t, set["ULPI_DIR"])
	assert.False(t, set["TITLE"], "title-block noise filtered")
	assert.False(t, set["GND"], "noise list filtered")
	assert.False(t, set["1234"], "pure numbers filtered")
	assert.False(t, set["ok"], "lowercase tokens ignored")
}

func TestCompare(t *testing.T) {
	rendered := "U7 C12 R99 VDD_3V3 DDR_DQ BOGUS_NET"
	res := Compare(verifyDocument(), rendered)

	assert.Equal(t, []string{"C12", "U7"}, res.RefDesMatched)
	assert.Equal(t, []string{"R99"}, res.RefDesMissing)
	assert.InDelta(t, 66.6, res.RefDesMatchRate(), 0.1)

	assert.Contains(t, res.NetsMatched, "VDD_3V3")
	assert.Contains(t, res.NetsMatched, "DDR_DQ", "bus member matches by substring")
	assert.Contains(t, res.NetsMissing, "BOGUS_NET")

	assert.Equal(t, 2, res.RefDesInText, "U7 and C12 appear as text primitives")
	assert.InDelta(t, 66.6, res.ConsistencyRate(), 0.1)
}

func TestCompareEmptyText(t *testing.T) {
	res := Compare(verifyDocument(), "")
	assert.Empty(t, res.RenderedRefDes)
	assert.Equal(t, 100.0, res.RefDesMatchRate(), "no tokens means nothing to miss")
}

func TestWriteReport(t *testing.T) {
	res := Compare(verifyDocument(), "U7 C12 R99 VDD_3V3")

	var b strings.Builder
	require.NoError(t, res.WriteReport(&b, "full_design.json", "pages/"))
	report := b.String()

	assert.Contains(t, report, "# Design Verification Report")
	assert.Contains(t, report, "`full_design.json`")
	assert.Contains(t, report, "Refdes matched:** 2")
	assert.Contains(t, report, "R99")
	assert.Contains(t, report, "```diff")
}

func TestRefDesDiff(t *testing.T) {
	res := Compare(verifyDocument(), "U7 C12 FB3")
	assert.Empty(t, res.RefDesDiff(), "identical sets produce no diff")

	res = Compare(verifyDocument(), "U7 C12")
	diff := res.RefDesDiff()
	assert.Contains(t, diff, "-FB3")
	assert.Contains(t, diff, "--- document")
}
