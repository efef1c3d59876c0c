package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// sampleLimit caps how many tokens a report section lists inline.
const sampleLimit = 50

// WriteReport writes the comparison result as a markdown report. docPath
// and renderedPath identify the inputs in the report header.
func (r *Result) WriteReport(w io.Writer, docPath, renderedPath string) error {
	var b strings.Builder

	b.WriteString("# Design Verification Report\n\n")
	fmt.Fprintf(&b, "**Document:** `%s`\n", docPath)
	fmt.Fprintf(&b, "**Rendered output:** `%s`\n\n", renderedPath)

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- **Components in document:** %d\n", len(r.DocComponents))
	fmt.Fprintf(&b, "- **Refdes tokens in rendered output:** %d\n", len(r.RenderedRefDes))
	fmt.Fprintf(&b, "- **Refdes matched:** %d (%.1f%%)\n", len(r.RefDesMatched), r.RefDesMatchRate())
	fmt.Fprintf(&b, "- **Net tokens in rendered output:** %d\n", len(r.RenderedNets))
	fmt.Fprintf(&b, "- **Nets matched:** %d (%.1f%%)\n\n", len(r.NetsMatched), r.NetMatchRate())

	b.WriteString("## Internal Consistency\n")
	fmt.Fprintf(&b, "- **Refdes present in document text primitives:** %d / %d (%.1f%%)\n\n",
		r.RefDesInText, len(r.DocComponents), r.ConsistencyRate())

	b.WriteString("## Component Verification\n")
	if len(r.RefDesMissing) > 0 {
		b.WriteString("### Rendered but not in document\n")
		b.WriteString("These may be text artifacts rather than components.\n\n")
		writeSample(&b, r.RefDesMissing)
	} else {
		b.WriteString("All refdes tokens in the rendered output were found in the document.\n\n")
	}
	if len(r.RefDesMatched) > 0 {
		b.WriteString("### Sample matched components\n\n")
		writeSample(&b, r.RefDesMatched[:min(20, len(r.RefDesMatched))])
	}

	b.WriteString("## Net Verification\n")
	if len(r.NetsMissing) > 0 {
		b.WriteString("### Unmatched net labels\n")
		b.WriteString("These may be generic text rather than electrical nets.\n\n")
		writeSample(&b, r.NetsMissing)
	} else {
		b.WriteString("All net tokens in the rendered output matched document nets.\n\n")
	}

	if diff := r.RefDesDiff(); diff != "" {
		b.WriteString("## Refdes Diff (document vs rendered)\n\n")
		b.WriteString("```diff\n")
		b.WriteString(diff)
		b.WriteString("```\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RefDesDiff returns a unified diff of the document's component set against
// the refdes tokens mined from the rendered output. An empty string means
// the sets agree.
func (r *Result) RefDesDiff() string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(r.DocComponents, "\n") + "\n"),
		B:        difflib.SplitLines(strings.Join(r.RenderedRefDes, "\n") + "\n"),
		FromFile: "document",
		ToFile:   "rendered",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

func writeSample(b *strings.Builder, tokens []string) {
	shown := tokens[:min(sampleLimit, len(tokens))]
	fmt.Fprintf(b, "`%s`", strings.Join(shown, ", "))
	if len(tokens) > sampleLimit {
		b.WriteString(" ... and more")
	}
	b.WriteString("\n\n")
}
