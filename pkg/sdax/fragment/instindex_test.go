package fragment

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

const sampleInstIndex = `<n INST n/>  < 1 />  < 9 />  <v 167231504 v/>
<n PAGE n/>  < 1 />  < 1 />  <v 1 v/>
<n GOID n/>  < 1 />  < 19 />  <v 1008806316530991106 v/>
<n INST n/>  < 1 />  < 9 />  <v 167231505 v/>
<n PAGE n/>  < 1 />  < 1 />  <v 2 v/>
<n GOID n/>  < 1 />  < 19 />  <v 1008806316530991107 v/>
<n INST n/>  < 1 />  < 9 />  <v 167231506 v/>
<n PAGE n/>  < 1 />  < 1 />  <v 2 v/>
`

func TestParseInstanceIndex(t *testing.T) {
	records := ParseInstanceIndex(sampleInstIndex)

	// The third triplet has no GOID and is dropped.
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	r := records[0]
	if r.LocalID != "167231504" || r.Graphics != "1008806316530991106" || r.PageFile != 1 {
		t.Errorf("record 0 = %+v", r)
	}
	if records[1].PageFile != 2 {
		t.Errorf("record 1 page file = %d, want 2", records[1].PageFile)
	}
}

func TestParseInstanceIndexEmpty(t *testing.T) {
	if records := ParseInstanceIndex(""); len(records) != 0 {
		t.Errorf("empty content yields %d records", len(records))
	}
}

const sampleGridPage = `<n gridX n/>  < 1 />  < 5 />  <v 50000 v/>
<n gridY n/>  < 1 />  < 6 />  <v 100000 v/>
`

func TestParseGridConfig(t *testing.T) {
	cfg := ParseGridConfig(sampleGridPage)
	if cfg.XStep != 50000 {
		t.Errorf("x step = %d, want 50000 override", cfg.XStep)
	}
	if cfg.YStep != 100000 {
		t.Errorf("y step = %d, want 100000", cfg.YStep)
	}
	if cfg.InternalPerInch != 100000 || cfg.MilsPerUnit != 0.01 {
		t.Errorf("unit conversion lost: %+v", cfg)
	}
}

func TestParseGridConfigDefaults(t *testing.T) {
	cfg := ParseGridConfig("no grid properties here")
	if cfg != design.DefaultGridConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
