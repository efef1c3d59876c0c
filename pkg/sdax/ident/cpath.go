// Package ident implements the identifier bridge: it resolves the four
// uncorrelated identifier namespaces found across project files (hierarchical
// instance path, per-file local instance ID, global graphics-object ID,
// reference designator) into one canonical key per component instance.
package ident

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// cpathLexer tokenizes hierarchical instance paths such as
//
//	@worklib.usb_block(tbl_1):\I167231504\
//
// Nested placements chain one such segment per hierarchy level, innermost
// last, either concatenated directly or joined with a ".".
var cpathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Inst", Pattern: `\\I\d+\\`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[@.():]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type segmentAST struct {
	Library string `parser:"'.'? '@' @Ident"`
	Block   string `parser:"'.' @Ident"`
	View    string `parser:"'(' @Ident ')'"`
	Inst    string `parser:"':' @Inst"`
}

type pathAST struct {
	Segments []segmentAST `parser:"@@*"`
}

var pathParser = participle.MustBuild[pathAST](
	participle.Lexer(cpathLexer),
	participle.Elide("Whitespace"),
)

// PathSegment is one hierarchy level of an instance path.
type PathSegment struct {
	Library string
	Block   design.BlockName
	LocalID design.LocalInstanceID
}

// InstancePath is a parsed hierarchical instance path. An empty path (no
// segments) denotes a top-level instance placed directly in the root design.
type InstancePath struct {
	Segments []PathSegment
}

// ParsePath parses a cpath string. The empty string parses to an empty path.
func ParsePath(cpath string) (InstancePath, error) {
	cpath = strings.TrimSpace(cpath)
	if cpath == "" {
		return InstancePath{}, nil
	}

	ast, err := pathParser.ParseString("", cpath)
	if err != nil {
		return InstancePath{}, fmt.Errorf("invalid instance path %q: %w", cpath, err)
	}

	p := InstancePath{Segments: make([]PathSegment, 0, len(ast.Segments))}
	for _, seg := range ast.Segments {
		p.Segments = append(p.Segments, PathSegment{
			Library: seg.Library,
			Block:   design.BlockName(seg.Block),
			// Strip the \I...\ wrapper down to the numeric ID.
			LocalID: design.LocalInstanceID(strings.TrimSuffix(strings.TrimPrefix(seg.Inst, `\I`), `\`)),
		})
	}
	return p, nil
}

// Chain returns the container-block names from the design root down to the
// instance's containing block.
func (p InstancePath) Chain() []design.BlockName {
	chain := make([]design.BlockName, len(p.Segments))
	for i, s := range p.Segments {
		chain[i] = s.Block
	}
	return chain
}

// Leaf resolves the innermost segment. For hierarchical placements the
// component physically lives in the leaf block regardless of nesting depth;
// ancestor local IDs are irrelevant once the leaf is known. An empty path
// resolves to the root block with no local ID.
func (p InstancePath) Leaf(root design.BlockName) (design.BlockName, design.LocalInstanceID) {
	if len(p.Segments) == 0 {
		return root, ""
	}
	last := p.Segments[len(p.Segments)-1]
	return last.Block, last.LocalID
}
