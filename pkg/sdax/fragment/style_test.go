package fragment

import (
	"strings"
	"testing"
)

const sampleStyles = `Style1 {
  line-width : 2
  line-color : #008000
  line-style : dash
  bold : true
}

Style2 {
  font-name : Courier New
  font-size : 12.5
  underline : true
}
`

func TestParseStyles(t *testing.T) {
	styles, err := ParseStyles(strings.NewReader(sampleStyles))
	if err != nil {
		t.Fatalf("ParseStyles() error = %v", err)
	}
	if len(styles) != 2 {
		t.Fatalf("styles = %d, want 2", len(styles))
	}

	s1 := styles["Style1"]
	if s1.LineWidth != 2 {
		t.Errorf("line width = %d, want 2", s1.LineWidth)
	}
	if s1.LineColor != "#008000" {
		t.Errorf("line color = %q", s1.LineColor)
	}
	if s1.LineStyle != "dash" {
		t.Errorf("line style = %q", s1.LineStyle)
	}
	if s1.FontWeight != "bold" {
		t.Errorf("bold flag should map to font weight, got %q", s1.FontWeight)
	}
	// Untouched properties keep their defaults.
	if s1.FontName != "Arial" || s1.FontSize != 10.0 {
		t.Errorf("defaults lost: font = %q %v", s1.FontName, s1.FontSize)
	}

	s2 := styles["Style2"]
	if s2.FontName != "Courier New" {
		t.Errorf("multi-word font name = %q, want Courier New", s2.FontName)
	}
	if s2.FontSize != 12.5 {
		t.Errorf("font size = %v, want 12.5", s2.FontSize)
	}
	if s2.TextDecoration != "underline" {
		t.Errorf("text decoration = %q, want underline", s2.TextDecoration)
	}
	if s2.LineWidth != 1 {
		t.Errorf("line width default = %d, want 1", s2.LineWidth)
	}
}

func TestParseStylesUnknownProperty(t *testing.T) {
	styles, err := ParseStyles(strings.NewReader("Style9 {\n  sparkle : maximum\n}\n"))
	if err != nil {
		t.Fatalf("ParseStyles() error = %v", err)
	}
	if _, ok := styles["Style9"]; !ok {
		t.Fatal("style with unknown property should still parse")
	}
}
