package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Theme carries the output color scheme. The extracted styles were authored
// for a dark editor canvas, so black strokes and green highlights are
// remapped for contrast instead of being drawn verbatim.
type Theme struct {
	Background   string
	WireColor    string
	LineColor    string
	GreenRemap   string
	TextColor    string
	ICBodyFill   string
	ICBodyStroke string
	Placeholder  string
}

// DarkTheme matches the original editor's dark canvas.
func DarkTheme() Theme {
	return Theme{
		Background:   "#1a1a2e",
		WireColor:    "#00ffff",
		LineColor:    "#CCCCCC",
		GreenRemap:   "#00FF00",
		TextColor:    "#FFFFFF",
		ICBodyFill:   "#404040",
		ICBodyStroke: "#808080",
		Placeholder:  "#FF00FF",
	}
}

// wire returns the stroke color for a wire with the given extracted color.
func (t Theme) wire(extracted string) string {
	if isBlack(extracted) {
		return t.WireColor
	}
	return extracted
}

// line returns the stroke color for a symbol body line.
func (t Theme) line(extracted string) string {
	switch {
	case isBlack(extracted):
		return t.LineColor
	case strings.EqualFold(extracted, "#008000") || strings.EqualFold(extracted, "green"):
		return t.GreenRemap
	default:
		return extracted
	}
}

// text returns the fill color for label text.
func (t Theme) text(extracted string) string {
	if isBlack(extracted) {
		return t.TextColor
	}
	return extracted
}

func isBlack(c string) bool {
	switch strings.ToLower(c) {
	case "", "#000000", "#000", "black":
		return true
	}
	return false
}

// rgb parses a #rrggbb color into components; unparsable input comes back
// black.
func rgb(c string) (int, int, int) {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) == 3 {
		c = fmt.Sprintf("%c%c%c%c%c%c", c[0], c[0], c[1], c[1], c[2], c[2])
	}
	if len(c) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff)
}
