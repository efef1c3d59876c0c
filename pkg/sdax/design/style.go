package design

// Style is one named drawing style from a .style file. Absent properties
// keep these defaults; a primitive without a style_ref implies Default().
type Style struct {
	LineWidth      int     `json:"line_width"`
	LineColor      string  `json:"line_color"`
	LineStyle      string  `json:"line_style"`
	LineCapStyle   string  `json:"line_cap_style"`
	LineJoinStyle  string  `json:"line_join_style"`
	FillColor      string  `json:"fill_color"`
	FillStyle      string  `json:"fill_style,omitempty"`
	FontName       string  `json:"font_name"`
	FontSize       float64 `json:"font_size"`
	FontColor      string  `json:"font_color"`
	FontWeight     string  `json:"font_weight"`
	FontStyle      string  `json:"font_style"`
	TextDecoration string  `json:"text_decoration"`
}

// DefaultStyle returns the hard-coded style used when no style table entry
// applies.
func DefaultStyle() Style {
	return Style{
		LineWidth:      1,
		LineColor:      "#000000",
		LineStyle:      "solid",
		LineCapStyle:   "square-cap",
		LineJoinStyle:  "bevel-join",
		FillColor:      "#000000",
		FontName:       "Arial",
		FontSize:       10.0,
		FontColor:      "#000000",
		FontWeight:     "normal",
		FontStyle:      "normal",
		TextDecoration: "none",
	}
}

// StyleTable maps style names (plus file-qualified aliases) to styles.
type StyleTable map[string]Style

// Lookup resolves a style reference, falling back to the default style.
func (t StyleTable) Lookup(ref StyleRef) Style {
	if t != nil {
		if s, ok := t[string(ref)]; ok {
			return s
		}
	}
	return DefaultStyle()
}
