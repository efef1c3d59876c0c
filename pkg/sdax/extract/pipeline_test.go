package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/config"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

const testTOC = `<n pageBorderStandard n/>  < 1 />  < 4 />  <v ANSI v/>
<n pageBorderSize n/>  < 1 />  < 1 />  <v B v/>
< 9 /> 0 0 80 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>Sheet</span></p></body></html>
< 9 /> 0 1 80 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>Title</span></p></body></html>
< 9 /> 1 0 160 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><a href="goto:pageuid=3&amp;path=@worklib.brain_board(tbl_1)"><span>1</span></a></p></body></html>
< 9 /> 1 1 120 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>Power Supply</span></p></body></html>
< 9 /> 1 2 120 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>top</span></p></body></html>
`

const testGridPage = `<n gridX n/>  < 1 />  < 4 />  <v 50000 v/>
<n gridY n/>  < 1 />  < 4 />  <v 50000 v/>
`

const testContentPage = `<n LP n/>  < 1 />  < 24 />  <v 38100,25400;63500,25400 v/>
<n zValue n/>  < 1 />  < 4 />  <v 9000 v/>
<n CGTYPE n/>  < 1 />  <v 65571 v/>
< 31 />  <  < 0 />  < 2 />  < 0 />  < 8 />  < USB_VBUS />
  < 44 />  < box />
  < 45 />  <  < 0 />  < 12700 />  < 0 />  < 25400 />  />
  <n just n/>  < 1 />  <v 2 v/>
< 14:1008806316530991106 />
  < 45 />  <  < 0 />  < 38100 />  < 0 />  < 25400 />  />
`

const testInstIndex = `<n INST n/>  < 1 />  < 9 />  <v 100 v/>
<n PAGE n/>  < 1 />  < 1 />  <v 3 v/>
<n GOID n/>  < 1 />  < 19 />  <v 1008806316530991106 v/>
`

const testSymbol = `< 25 />  <  < 14 />  < 14:1008806316530991106  />
  < 45 />  <  < 0 />  < 38100 />  < 0 />  < 25400 />  />
  < 45 />  <  < 0 />  < 63500 />  < 0 />  < 25400 />  />
  < 0 />  < 6 />  < Style2 />
< 31 />  <  < 0 />  < 2 />  < 0 />  < 8 />  < LOCATION />
  < 44 />  < box />
  < 45 />  <  < 0 />  < -25400 />  < 0 />  < 35306 />  />
  <n just n/>  < 1 />  <v 1 v/>
  <n rotation n/>  < 1 />  < 2 />  <v 0 v/>
  <n V n/>  < 1 />  < 2 />  <v U? v/>
<n PIN_DISPLAY_NAME n/>  < 1 />  < 5 />  <v VDDIO v/>
  <n V n/>  < 1 />  < 2 />  <v 32 v/>
<n CDS_LMAN_SYM_OUTLINE n/>  < 1 />  < 18 />  <v 0,0,101600,50800 v/>
`

const testStyles = `Style1 {
  line-width : 2
}
`

const testXcon = `<schema>
  <designs>
    <design>
      <cells>
        <cell>
          <id>C1</id>
          <library>ic</library>
          <name>usb3320_ulpi_xcvr</name>
          <view>sym_1</view>
          <terms>
            <term><id>T1</id><name>VDDIO</name><direction>input</direction></term>
            <term><id>T2</id><name>DIR</name><direction>output</direction></term>
          </terms>
        </cell>
      </cells>
      <nets>
        <net><id>N1</id><name>VDD_3V3</name><scope>global</scope></net>
        <net><id>N2</id><name>ULPI_DIR</name></net>
      </nets>
      <instances>
        <instance>
          <id>I100</id>
          <cellid>C1</cellid>
          <pins>
            <pin><termid>T1</termid><connections><connection net="N1"/></connections></pin>
            <pin><termid>T2</termid><connections><connection net="N2"/></connections></pin>
          </pins>
        </instance>
      </instances>
    </design>
  </designs>
</schema>`

// testPartsFile builds a parts file with one IC (U7, instance I100) plus
// enough passives to clear the minimum-component validation floor.
func testPartsFile(passives int) string {
	var b strings.Builder
	b.WriteString(`{"objects":[`)
	b.WriteString(`{"type":"part","properties":{"CDS_LIBRARY_ID":"ic:16777220","PART_NAME":"usb3320_ulpi_xcvr"},` +
		`"meta":{"instances":[{"name":"cpath","value":"@worklib.brain_board(tbl_1):\\I100\\",` +
		`"data":[{"name":"refdes","value":"U7"},{"name":"symbol","value":"sym_1"}]}]}}`)
	for i := 0; i < passives; i++ {
		fmt.Fprintf(&b, `,{"type":"part","properties":{"CDS_LIBRARY_ID":"capacitor:1","PART_NAME":"capacitor"},`+
			`"meta":{"instances":[{"name":"cpath","value":"@worklib.brain_board(tbl_1):\\I%d\\",`+
			`"data":[{"name":"refdes","value":"C%d"}]}]}}`, 101+i, i+1)
	}
	b.WriteString(`]}`)
	return b.String()
}

func testNamesFile() string {
	return `{"instances":[{"cpath":"@worklib.brain_board(tbl_1):\\I100\\",` +
		`"attributes":{"refdes":"U7","library":"ic","system_capture_model":"usb3320_ulpi_xcvr","symbol":"sym_1"}}]}`
}

func writeTestProject(t *testing.T, passives int) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"worklib/brain_board/tbl_1/tbl_1dx.json":      testNamesFile(),
		"worklib/brain_board/tbl_1/tbl_1.json":        testPartsFile(passives),
		"worklib/brain_board/tbl_1/tbl_1.xcon":        testXcon,
		"worklib/brain_board/tbl_1/page_file_1.ascii": testGridPage,
		"worklib/brain_board/tbl_1/page_file_2.ascii": testTOC,
		"worklib/brain_board/tbl_1/page_file_3.ascii": testContentPage,
		"worklib/brain_board/tbl_1/instindex.ascii":   testInstIndex,
		"cache/ic##usb3320_ulpi_xcvr##sym_1.ascii":    testSymbol,
		"cache/styles.style":                          testStyles,
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func testConfig(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Project.Root = root
	cfg.Project.RootBlock = "brain_board"
	return cfg
}

func TestPipelineRun(t *testing.T) {
	root := writeTestProject(t, 10)

	res, err := New(testConfig(root), nil).Run()
	require.NoError(t, err)
	doc := res.Document

	// Components and classification.
	require.Len(t, doc.Components, 11)
	assert.Equal(t, 11, doc.Statistics.TotalComponents)
	assert.Equal(t, 10, doc.Statistics.ComponentsByType["capacitor"])
	assert.Equal(t, 1, doc.Statistics.ComponentsByType["ic"])

	// Connectivity joined onto the IC through the bridge.
	var u7 *design.ComponentInstance
	for _, c := range doc.Components {
		if c.RefDes == "U7" {
			u7 = c
		}
	}
	require.NotNil(t, u7)
	require.Len(t, u7.Pins, 2)
	assert.Equal(t, "VDDIO", u7.Pins[0].PinName)
	assert.Equal(t, "32", u7.Pins[0].PinNumber, "pin number from the symbol cache")
	assert.Equal(t, design.NetName("VDD_3V3"), u7.Pins[0].Net)

	// Geometry chain: instindex GOID -> page position -> TOC page 1.
	require.NotNil(t, u7.Position)
	assert.Equal(t, 38100, u7.Position.X)
	assert.Equal(t, 25400, u7.Position.Y)
	assert.Equal(t, 1, u7.Position.Page)

	// Nets carry the resolved endpoint.
	net, ok := doc.Nets["VDD_3V3"]
	require.True(t, ok)
	require.NotEmpty(t, net.Connections)
	assert.Equal(t, design.RefDes("U7"), net.Connections[0].RefDes)
	assert.True(t, net.Connections[0].Resolved)

	// Pages from the TOC.
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "Power Supply", doc.Pages[0].Title)
	assert.Equal(t, design.OriginBottomLeft, doc.Pages[0].Origin)

	// Grid overrides read from the root block's first page file.
	assert.Equal(t, 50000, doc.GridConfig.XStep)

	// Cells recorded for verification tooling.
	assert.Contains(t, doc.Cells, "ic##usb3320_ulpi_xcvr")

	assert.NotEmpty(t, doc.Statistics.RunID)
	assert.Equal(t, 1, doc.Statistics.InstancesWithPosition)
	assert.Equal(t, 1, doc.Statistics.InstancesWithGraphics)
}

func TestPipelinePrimitiveAssembly(t *testing.T) {
	root := writeTestProject(t, 10)

	res, err := New(testConfig(root), nil).Run()
	require.NoError(t, err)
	prims := res.Document.Primitives

	var wire, text, label *design.PrimitiveElement
	for i := range prims {
		switch prims[i].ShapeType {
		case "wire":
			wire = &prims[i]
		case "label":
			text = &prims[i]
		case "refdes_label":
			label = &prims[i]
		}
	}

	require.NotNil(t, wire)
	assert.Equal(t, "wire_1", wire.ElementID)
	assert.Equal(t, 1, wire.PageNumber, "content page resolves through the TOC")
	assert.Equal(t, 9000, wire.ZValue)

	require.NotNil(t, text)
	assert.Equal(t, "USB_VBUS", text.TextContent)
	assert.Equal(t, 1, text.PageNumber)

	require.NotNil(t, label, "positioned IC gets a synthesized refdes label")
	assert.Equal(t, "U7", label.TextContent)
	assert.Equal(t, 12700, label.Origin.X, "anchor offset added to instance origin")
	assert.Equal(t, 60706, label.Origin.Y)

	// Sequence indices are strictly increasing and unique.
	seen := make(map[int]bool)
	last := 0
	for _, p := range prims {
		assert.Greater(t, p.SequenceIndex, 0)
		assert.False(t, seen[p.SequenceIndex], "duplicate sequence index")
		seen[p.SequenceIndex] = true
		if p.SequenceIndex > last {
			last = p.SequenceIndex
		}
	}
	assert.Equal(t, len(prims), last)
}

func TestPipelineFatalOnTooFewComponents(t *testing.T) {
	root := writeTestProject(t, 2)

	_, err := New(testConfig(root), nil).Run()
	require.Error(t, err)
	assert.True(t, design.IsFatal(err))
}

func TestPipelineSurvivesMissingCacheAndTOC(t *testing.T) {
	root := writeTestProject(t, 10)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "cache")))
	require.NoError(t, os.Remove(filepath.Join(root, "worklib", "brain_board", "tbl_1", "page_file_2.ascii")))

	res, err := New(testConfig(root), nil).Run()
	require.NoError(t, err, "missing TOC and cache degrade, not abort")

	assert.Empty(t, res.Document.Pages)
	for _, p := range res.Document.Primitives {
		if p.ShapeType == "wire" {
			assert.Equal(t, 3, p.PageNumber, "file-index fallback page")
		}
	}
}
