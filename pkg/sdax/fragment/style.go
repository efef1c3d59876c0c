package fragment

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// Style files are a brace-delimited property list format:
//
//	Style1 {
//	  line-width : 1
//	  line-color : #008000
//	  font-name : Arial
//	}
//
// Newlines are significant (they terminate property values), so the lexer
// keeps them as tokens.
var styleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Punct", Pattern: `[{}:]`},
	{Name: "Atom", Pattern: `[^\s{}:]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

type stylePropAST struct {
	Name  string   `parser:"@Atom ':'"`
	Value []string `parser:"@Atom*"`
}

type styleBlockAST struct {
	Name  string         `parser:"@Atom '{'"`
	Props []stylePropAST `parser:"(Newline | @@)* '}'"`
}

type styleFileAST struct {
	Blocks []styleBlockAST `parser:"(Newline | @@)*"`
}

var styleParser = participle.MustBuild[styleFileAST](
	participle.Lexer(styleLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseStyles parses one .style file into named style definitions.
// Unrecognized properties are ignored; absent ones keep their defaults.
func ParseStyles(r io.Reader) (map[string]design.Style, error) {
	ast, err := styleParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse style file: %w", err)
	}

	styles := make(map[string]design.Style, len(ast.Blocks))
	for _, block := range ast.Blocks {
		s := design.DefaultStyle()
		for _, p := range block.Props {
			applyStyleProp(&s, p.Name, strings.Join(p.Value, " "))
		}
		styles[block.Name] = s
	}
	return styles, nil
}

// ParseStylesFile reads and parses a .style file from disk.
func ParseStylesFile(path string) (map[string]design.Style, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseStyles(f)
}

func applyStyleProp(s *design.Style, name, value string) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "_") {
	case "line_width":
		if v, err := strconv.Atoi(value); err == nil {
			s.LineWidth = v
		}
	case "line_color":
		s.LineColor = value
	case "line_style":
		s.LineStyle = value
	case "line_cap_style":
		s.LineCapStyle = value
	case "line_join_style":
		s.LineJoinStyle = value
	case "fill_color":
		s.FillColor = value
	case "fill_style":
		s.FillStyle = value
	case "font_name":
		s.FontName = value
	case "font_size":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			s.FontSize = v
		}
	case "font_color":
		s.FontColor = value
	case "bold":
		if strings.EqualFold(value, "true") {
			s.FontWeight = "bold"
		}
	case "italic":
		if strings.EqualFold(value, "true") {
			s.FontStyle = "italic"
		}
	case "underline":
		if strings.EqualFold(value, "true") {
			s.TextDecoration = "underline"
		}
	}
}

// LoadStyleDir loads every .style file in dir into one style table. Each
// style is registered under both its simple name and a file-qualified
// "<stem>::<name>" alias; later files win the simple name on collision.
func LoadStyleDir(dir string) (design.StyleTable, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{&design.SkippableFileError{File: dir, Err: err}}
	}

	table := make(design.StyleTable)
	var skipped []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".style") {
			continue
		}
		path := dir + "/" + e.Name()
		styles, err := ParseStylesFile(path)
		if err != nil {
			skipped = append(skipped, &design.SkippableFileError{File: path, Err: err})
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".style")
		for name, style := range styles {
			table[stem+"::"+name] = style
			table[name] = style
		}
	}
	return table, skipped
}
