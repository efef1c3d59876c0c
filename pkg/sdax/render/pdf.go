package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
)

// PDFRenderer renders an interchange document to a single multi-page PDF,
// one A4 landscape sheet per design page.
type PDFRenderer struct {
	doc   *export.Document
	theme Theme
}

// NewPDF creates a PDF renderer for a loaded document.
func NewPDF(doc *export.Document, theme Theme) *PDFRenderer {
	return &PDFRenderer{doc: doc, theme: theme}
}

// RenderFile renders every non-empty page and writes the PDF to path.
func (r *PDFRenderer) RenderFile(path string) error {
	pdf, rendered := r.render()
	if rendered == 0 {
		return fmt.Errorf("nothing to render: no page has drawable content")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// Render renders every non-empty page to w.
func (r *PDFRenderer) Render(w io.Writer) error {
	pdf, rendered := r.render()
	if rendered == 0 {
		return fmt.Errorf("nothing to render: no page has drawable content")
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (r *PDFRenderer) render() (*fpdf.Fpdf, int) {
	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	rendered := 0
	for _, page := range r.doc.Pages {
		view := buildPageView(r.doc, page.Number)
		if view.empty() {
			continue
		}
		r.renderPage(pdf, view)
		rendered++
	}
	return pdf, rendered
}

func (r *PDFRenderer) renderPage(pdf *fpdf.Fpdf, v *pageView) {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	t := fitView(v, pageW, pageH)
	t.yDown = true

	br, bg, bb := rgb(r.theme.Background)
	pdf.SetFillColor(br, bg, bb)
	pdf.Rect(0, 0, pageW, pageH, "F")

	r.drawWires(pdf, v, t)
	r.drawSymbols(pdf, v, t)
	r.drawLabels(pdf, v, t)
	r.drawFooter(pdf, v, pageW, pageH)
}

func (r *PDFRenderer) drawWires(pdf *fpdf.Fpdf, v *pageView, t viewTransform) {
	for _, prim := range v.wires {
		if prim.ShapeType != "wire" || len(prim.Points) < 2 {
			continue
		}
		style := r.doc.Styles.Lookup(prim.StyleRef)
		setDrawStyle(pdf, r.theme.wire(style.LineColor), style.LineWidth)
		drawPolyline(pdf, v, t, prim.Points, 0, 0)
	}
}

func (r *PDFRenderer) drawSymbols(pdf *fpdf.Fpdf, v *pageView, t viewTransform) {
	for _, inst := range v.instances {
		sym := symbolFor(r.doc, inst)
		if sym == nil {
			pr, pg, pb := rgb(r.theme.Placeholder)
			pdf.SetDrawColor(pr, pg, pb)
			pdf.SetLineWidth(0.8)
			x, y := t.apply(inst.X, inst.Y, v.page.Origin)
			pdf.Rect(x-4, y-4, 8, 8, "D")
			continue
		}

		if isIC(sym) && sym.BoundingBox != nil {
			bb := sym.BoundingBox
			x1, y1 := t.apply(inst.X+bb.MinX, inst.Y+bb.MinY, v.page.Origin)
			x2, y2 := t.apply(inst.X+bb.MaxX, inst.Y+bb.MaxY, v.page.Origin)
			fr, fg, fb := rgb(r.theme.ICBodyFill)
			sr, sg, sb := rgb(r.theme.ICBodyStroke)
			pdf.SetFillColor(fr, fg, fb)
			pdf.SetDrawColor(sr, sg, sb)
			pdf.SetLineWidth(0.8)
			pdf.Rect(min(x1, x2), min(y1, y2), abs(x2-x1), abs(y2-y1), "FD")
		}

		for _, line := range sym.Lines {
			if len(line.Points) < 2 {
				continue
			}
			style := r.doc.Styles.Lookup(line.StyleRef)
			setDrawStyle(pdf, r.theme.line(style.LineColor), style.LineWidth)
			drawPolyline(pdf, v, t, line.Points, inst.X, inst.Y)
		}
	}
}

func (r *PDFRenderer) drawLabels(pdf *fpdf.Fpdf, v *pageView, t viewTransform) {
	type labelKey struct {
		x, y int
		text string
	}
	seen := make(map[labelKey]bool)

	for _, prim := range v.labels {
		if prim.Origin == nil || prim.TextContent == "" {
			continue
		}
		key := labelKey{prim.Origin.X / 1000, prim.Origin.Y / 1000, prim.TextContent}
		if seen[key] {
			continue
		}
		seen[key] = true

		style := r.doc.Styles.Lookup(prim.StyleRef)
		size := style.FontSize
		if size <= 0 {
			size = 10
		}
		pdf.SetFont(coreFont(style.FontName), fontStyleFlags(style), size)
		tr, tg, tb := rgb(r.theme.text(style.FontColor))
		pdf.SetTextColor(tr, tg, tb)

		x, y := t.apply(prim.Origin.X, prim.Origin.Y, v.page.Origin)
		if prim.Text != nil {
			switch prim.Text.Alignment {
			case "center":
				x -= pdf.GetStringWidth(prim.TextContent) / 2
			case "right":
				x -= pdf.GetStringWidth(prim.TextContent)
			}
		}
		// Text() places the baseline at y; nudge down so the anchor sits
		// roughly at the visual center of the glyphs.
		pdf.Text(x, y+size*0.35, prim.TextContent)
	}
}

func (r *PDFRenderer) drawFooter(pdf *fpdf.Fpdf, v *pageView, pageW, pageH float64) {
	pdf.SetFont("Helvetica", "", 8)
	tr, tg, tb := rgb(r.theme.TextColor)
	pdf.SetTextColor(tr, tg, tb)

	label := fmt.Sprintf("Page %d", v.page.Number)
	if v.page.Title != "" {
		label = fmt.Sprintf("Page %d - %s", v.page.Number, v.page.Title)
	}
	pdf.Text(pageW/2-pdf.GetStringWidth(label)/2, pageH-10, label)
}

func drawPolyline(pdf *fpdf.Fpdf, v *pageView, t viewTransform, pts []design.Point, dx, dy int) {
	px, py := t.apply(pts[0].X+dx, pts[0].Y+dy, v.page.Origin)
	for _, pt := range pts[1:] {
		x, y := t.apply(pt.X+dx, pt.Y+dy, v.page.Origin)
		pdf.Line(px, py, x, y)
		px, py = x, y
	}
}

func setDrawStyle(pdf *fpdf.Fpdf, color string, width int) {
	cr, cg, cb := rgb(color)
	pdf.SetDrawColor(cr, cg, cb)
	if width < 1 {
		width = 1
	}
	pdf.SetLineWidth(float64(width) * 0.6)
}

// coreFont maps a style font name onto one of the PDF core families.
func coreFont(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "courier"), strings.Contains(n, "mono"):
		return "Courier"
	case strings.Contains(n, "times"), strings.Contains(n, "serif"):
		return "Times"
	default:
		return "Helvetica"
	}
}

func fontStyleFlags(s design.Style) string {
	var flags string
	if s.FontWeight == "bold" {
		flags += "B"
	}
	if s.FontStyle == "italic" {
		flags += "I"
	}
	if s.TextDecoration == "underline" {
		flags += "U"
	}
	return flags
}
