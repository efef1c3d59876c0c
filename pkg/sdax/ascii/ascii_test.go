package ascii

import "testing"

const sample = `
< 19 />  <  < 0 />  < 8 />
<n PIN_DISPLAY_NAME n/>  < 1 />  < 5 />  <v VDDIO v/>
<n V n/>  < 1 />  < 2 />  <v 32 v/>
<n PIN_DISPLAY_NAME n/>  < 1 />  < 3 />  <v GND v/>
<n V n/>  < 1 />  < 2 />  <v 33 v/>
<n pageBorderSize n/>  < 1 />  < 1 />  <v B v/>
`

func TestScanProps(t *testing.T) {
	props := ScanProps(sample)
	if len(props) != 5 {
		t.Fatalf("expected 5 props, got %d: %+v", len(props), props)
	}

	want := []struct{ name, value string }{
		{"PIN_DISPLAY_NAME", "VDDIO"},
		{"V", "32"},
		{"PIN_DISPLAY_NAME", "GND"},
		{"V", "33"},
		{"pageBorderSize", "B"},
	}
	for i, w := range want {
		if props[i].Name != w.name || props[i].Value != w.value {
			t.Errorf("prop %d: got %s=%q, want %s=%q",
				i, props[i].Name, props[i].Value, w.name, w.value)
		}
	}

	// Offsets must be in file order.
	for i := 1; i < len(props); i++ {
		if props[i].Offset <= props[i-1].Offset {
			t.Errorf("offsets not increasing at %d", i)
		}
	}
}

func TestScanPropsUnpairedName(t *testing.T) {
	// A name marker immediately followed by another name marker has no value.
	content := `<n ORPHAN n/> <n V n/> < 1 /> < 2 /> <v 7 v/>`
	props := ScanProps(content)
	if len(props) != 1 || props[0].Name != "V" || props[0].Value != "7" {
		t.Errorf("unexpected props: %+v", props)
	}
}

func TestFindProp(t *testing.T) {
	v, ok := FindProp(sample, "pageBorderSize")
	if !ok || v != "B" {
		t.Errorf("FindProp(pageBorderSize) = %q, %v", v, ok)
	}

	if _, ok := FindProp(sample, "missing"); ok {
		t.Error("expected miss for unknown property")
	}
}

func TestFindPropNear(t *testing.T) {
	// Search window anchored at the start should not reach pageBorderSize
	// at the end of the sample.
	if _, ok := FindPropNear(sample, "pageBorderSize", 0, 10, 40); ok {
		t.Error("window should not cover pageBorderSize")
	}
	if v, ok := FindPropNear(sample, "PIN_DISPLAY_NAME", 0, len(sample), 0); !ok || v != "VDDIO" {
		t.Errorf("full-window search failed: %q, %v", v, ok)
	}
}

func TestWindowClamps(t *testing.T) {
	if w := Window("abc", -5, 100, 10); w != "abc" {
		t.Errorf("clamped window = %q", w)
	}
	if w := Window("abc", 3, 2, 0); w != "" {
		t.Errorf("inverted window should be empty, got %q", w)
	}
}
