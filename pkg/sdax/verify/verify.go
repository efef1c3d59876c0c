// Package verify cross-checks an interchange document against rendered
// output. Token extraction is best-effort text mining: refdes and net-name
// shaped tokens pulled out of whatever text the rendered artifact exposes,
// compared against the document's component and net tables.
package verify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
)

// refdesPattern matches reference designators whose prefix the component
// classifier knows, so the two lists cannot drift apart. Prefixes outside
// that set (stray single letters, pin names) are ignored.
var refdesPattern = regexp.MustCompile(
	`\b((?:` + strings.Join(design.RefDesPrefixes(), "|") + `)[0-9]{1,4})\b`)

// netPattern matches net-name shaped tokens: uppercase, digits and
// underscores, at least three characters to cut noise.
var netPattern = regexp.MustCompile(`\b([A-Z0-9_]{3,})\b`)

// netNoise filters title-block vocabulary that matches the net pattern but
// never names an electrical net.
var netNoise = map[string]bool{
	"GND": true, "VCC": true, "PAGE": true, "DATE": true, "REV": true,
	"SIZE": true, "TITLE": true, "DRAWN": true, "CHECKED": true,
	"BLOCK": true, "SCHEMATIC": true,
}

// RefDesTokens extracts the set of refdes-shaped tokens from text.
func RefDesTokens(text string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range refdesPattern.FindAllStringSubmatch(text, -1) {
		set[m[1]] = true
	}
	return set
}

// NetTokens extracts the set of net-name-shaped tokens from text, with
// title-block noise and pure numbers filtered out.
func NetTokens(text string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range netPattern.FindAllStringSubmatch(text, -1) {
		tok := m[1]
		if netNoise[tok] || isDigits(tok) {
			continue
		}
		set[tok] = true
	}
	return set
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Result is the outcome of one document-versus-rendered-text comparison.
type Result struct {
	// Components in the document's flat table.
	DocComponents []string
	// Refdes tokens mined from the rendered text.
	RenderedRefDes []string
	// Refdes tokens present in both.
	RefDesMatched []string
	// Refdes tokens in the rendered text with no document component.
	RefDesMissing []string

	// Net tokens mined from the rendered text.
	RenderedNets []string
	// Net tokens matched exactly or as a substring of a document net.
	NetsMatched []string
	// Net tokens with no document counterpart.
	NetsMissing []string

	// Document refdes values that also occur in the document's own text
	// primitives; a low count means label synthesis lost components.
	RefDesInText int
}

// RefDesMatchRate is the fraction of rendered refdes tokens found in the
// document, in percent. A text with no refdes tokens scores 100.
func (r *Result) RefDesMatchRate() float64 {
	return rate(len(r.RefDesMatched), len(r.RenderedRefDes))
}

// NetMatchRate is the fraction of rendered net tokens matched against the
// document's net table, in percent.
func (r *Result) NetMatchRate() float64 {
	return rate(len(r.NetsMatched), len(r.RenderedNets))
}

// ConsistencyRate is the fraction of document components whose refdes shows
// up in the document's own text primitives, in percent.
func (r *Result) ConsistencyRate() float64 {
	return rate(r.RefDesInText, len(r.DocComponents))
}

func rate(matched, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(matched) / float64(total) * 100
}

// Compare mines refdes and net tokens out of renderedText and checks them
// against the document tables.
func Compare(doc *export.Document, renderedText string) *Result {
	res := &Result{}

	docRefDes := make(map[string]bool, len(doc.Components))
	for _, comp := range doc.Components {
		docRefDes[string(comp.RefDes)] = true
		res.DocComponents = append(res.DocComponents, string(comp.RefDes))
	}
	sort.Strings(res.DocComponents)

	for tok := range RefDesTokens(renderedText) {
		res.RenderedRefDes = append(res.RenderedRefDes, tok)
		if docRefDes[tok] {
			res.RefDesMatched = append(res.RefDesMatched, tok)
		} else {
			res.RefDesMissing = append(res.RefDesMissing, tok)
		}
	}
	sort.Strings(res.RenderedRefDes)
	sort.Strings(res.RefDesMatched)
	sort.Strings(res.RefDesMissing)

	for tok := range NetTokens(renderedText) {
		res.RenderedNets = append(res.RenderedNets, tok)
		if matchNet(doc.Nets, tok) {
			res.NetsMatched = append(res.NetsMatched, tok)
		} else {
			res.NetsMissing = append(res.NetsMissing, tok)
		}
	}
	sort.Strings(res.RenderedNets)
	sort.Strings(res.NetsMatched)
	sort.Strings(res.NetsMissing)

	res.RefDesInText = refdesInText(doc, docRefDes)
	return res
}

// matchNet accepts an exact net-name hit, or a rendered token that is a
// substring of a longer document net. Bus members render as "DDR_DQ" while
// the document carries "DDR_DQ<0>".
func matchNet(nets map[string]export.NetEntry, tok string) bool {
	if _, ok := nets[tok]; ok {
		return true
	}
	for name := range nets {
		if strings.Contains(name, tok) {
			return true
		}
	}
	return false
}

func refdesInText(doc *export.Document, docRefDes map[string]bool) int {
	inText := make(map[string]bool)
	for _, prim := range doc.Primitives {
		if prim.Kind != design.KindText {
			continue
		}
		if docRefDes[prim.TextContent] {
			inText[prim.TextContent] = true
		}
	}
	return len(inText)
}
