package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
)

// SVG output resolution: pixels per mil of sheet size. An ANSI B sheet
// (17000x11000 mils) renders at 1700x1100.
const pxPerMil = 0.1

// SVGRenderer renders one interchange document to per-page SVG files.
type SVGRenderer struct {
	doc   *export.Document
	theme Theme
}

// NewSVG creates an SVG renderer for a loaded document.
func NewSVG(doc *export.Document, theme Theme) *SVGRenderer {
	return &SVGRenderer{doc: doc, theme: theme}
}

// RenderAll writes page_<n>.svg files into dir for every non-empty page and
// returns the written paths.
func (r *SVGRenderer) RenderAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, page := range r.doc.Pages {
		view := buildPageView(r.doc, page.Number)
		if view.empty() {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("page_%d.svg", page.Number))
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("failed to create %s: %w", path, err)
		}
		r.renderView(f, view)
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// RenderPage renders one page to w.
func (r *SVGRenderer) RenderPage(w io.Writer, pageNum int) {
	r.renderView(w, buildPageView(r.doc, pageNum))
}

func (r *SVGRenderer) renderView(w io.Writer, v *pageView) {
	width, height := pagePixels(v.page)
	t := fitView(v, float64(width), float64(height))
	t.yDown = true

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+r.theme.Background)

	r.drawWires(canvas, v, t)
	r.drawSymbols(canvas, v, t)
	r.drawLabels(canvas, v, t)

	canvas.End()
}

func (r *SVGRenderer) drawWires(canvas *svg.SVG, v *pageView, t viewTransform) {
	for _, prim := range v.wires {
		if prim.ShapeType != "wire" || len(prim.Points) < 2 {
			continue
		}
		style := r.doc.Styles.Lookup(prim.StyleRef)

		xs := make([]int, len(prim.Points))
		ys := make([]int, len(prim.Points))
		for i, pt := range prim.Points {
			x, y := t.apply(pt.X, pt.Y, v.page.Origin)
			xs[i], ys[i] = int(x), int(y)
		}
		canvas.Polyline(xs, ys, fmt.Sprintf(
			"fill:none;stroke:%s;stroke-width:%d;stroke-linecap:round;stroke-linejoin:round",
			r.theme.wire(style.LineColor), max(1, style.LineWidth)))
	}
}

func (r *SVGRenderer) drawSymbols(canvas *svg.SVG, v *pageView, t viewTransform) {
	for _, inst := range v.instances {
		sym := r.symbolFor(inst)
		if sym == nil {
			// A positioned instance with no linked graphics still gets a
			// visible marker so missing symbols are obvious on the page.
			x, y := t.apply(inst.X, inst.Y, v.page.Origin)
			canvas.Rect(int(x)-5, int(y)-5, 10, 10,
				"fill:none;stroke:"+r.theme.Placeholder)
			continue
		}

		if isIC(sym) && sym.BoundingBox != nil {
			bb := sym.BoundingBox
			x1, y1 := t.apply(inst.X+bb.MinX, inst.Y+bb.MinY, v.page.Origin)
			x2, y2 := t.apply(inst.X+bb.MaxX, inst.Y+bb.MaxY, v.page.Origin)
			canvas.Rect(int(min(x1, x2)), int(min(y1, y2)),
				int(abs(x2-x1)), int(abs(y2-y1)),
				fmt.Sprintf("fill:%s;stroke:%s", r.theme.ICBodyFill, r.theme.ICBodyStroke))
		}

		for _, line := range sym.Lines {
			if len(line.Points) < 2 {
				continue
			}
			style := r.doc.Styles.Lookup(line.StyleRef)
			xs := make([]int, len(line.Points))
			ys := make([]int, len(line.Points))
			for i, pt := range line.Points {
				x, y := t.apply(inst.X+pt.X, inst.Y+pt.Y, v.page.Origin)
				xs[i], ys[i] = int(x), int(y)
			}
			canvas.Polyline(xs, ys, fmt.Sprintf(
				"fill:none;stroke:%s;stroke-width:%d",
				r.theme.line(style.LineColor), max(1, style.LineWidth)))
		}
	}
}

func (r *SVGRenderer) drawLabels(canvas *svg.SVG, v *pageView, t viewTransform) {
	// A label repeated at the same spot (coarse 1000-unit buckets) is
	// drawn once.
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
		x, y := t.apply(prim.Origin.X, prim.Origin.Y, v.page.Origin)

		attrs := []string{
			fmt.Sprintf("font-family:%s", style.FontName),
			fmt.Sprintf("font-size:%dpx", int(style.FontSize*2)),
			"fill:" + r.theme.text(style.FontColor),
		}
		if prim.Text != nil {
			switch prim.Text.Alignment {
			case "center":
				attrs = append(attrs, "text-anchor:middle")
			case "right":
				attrs = append(attrs, "text-anchor:end")
			}
		}
		canvas.Text(int(x), int(y), prim.TextContent, strings.Join(attrs, ";"))
	}
}

// symbolFor resolves the instance's symbol graphics from the document's
// symbol library.
func (r *SVGRenderer) symbolFor(inst export.InstanceEntry) *design.SymbolDefinition {
	return symbolFor(r.doc, inst)
}

func symbolFor(doc *export.Document, inst export.InstanceEntry) *design.SymbolDefinition {
	if !inst.HasGraphics {
		return nil
	}
	return doc.SymbolLibrary[inst.SymbolCacheKey]
}

// isIC decides whether a symbol gets the filled body treatment: many pins,
// or a physically large outline.
func isIC(sym *design.SymbolDefinition) bool {
	if len(sym.Pins) > 10 {
		return true
	}
	bb := sym.BoundingBox
	return bb != nil && bb.Width > 200000 && bb.Height > 200000
}

// pagePixels derives the SVG canvas size from the sheet size in mils,
// defaulting to ANSI B.
func pagePixels(page design.Page) (int, int) {
	w, h := page.Size.Width, page.Size.Height
	if w <= 0 || h <= 0 {
		w, h = 17000, 11000
	}
	return int(float64(w) * pxPerMil), int(float64(h) * pxPerMil)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
