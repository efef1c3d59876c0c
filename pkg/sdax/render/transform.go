// Package render draws interchange documents back to visual pages, as SVG
// (one file per page) or as a multi-page PDF. Both back ends share the page
// content indexing, the fixed draw order and the auto-fit view transform;
// only the drawing surface differs.
package render

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
)

// fitMargin is the fraction of the output page left blank on each side when
// auto-fitting content.
const fitMargin = 0.05

// pageView is everything drawable on one page, pre-sorted into the fixed
// draw order: wires first, then symbol placements, then text labels.
// Within a category the stable sequence index breaks ties.
type pageView struct {
	page      design.Page
	wires     []design.PrimitiveElement
	labels    []design.PrimitiveElement
	instances []export.InstanceEntry
}

// buildPageView collects and orders the content of one page.
func buildPageView(doc *export.Document, pageNum int) *pageView {
	v := &pageView{}
	for _, p := range doc.Pages {
		if p.Number == pageNum {
			v.page = p
			break
		}
	}

	for _, prim := range doc.Primitives {
		if prim.PageNumber != pageNum {
			continue
		}
		switch prim.Kind {
		case design.KindLine:
			v.wires = append(v.wires, prim)
		case design.KindText:
			v.labels = append(v.labels, prim)
		}
	}
	bySequence(v.wires)
	bySequence(v.labels)

	for _, inst := range doc.Instances {
		if inst.HasPosition && inst.PageNumber == pageNum {
			v.instances = append(v.instances, inst)
		}
	}
	return v
}

func bySequence(prims []design.PrimitiveElement) {
	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].SequenceIndex < prims[j].SequenceIndex
	})
}

// empty reports whether the page has nothing to draw.
func (v *pageView) empty() bool {
	return len(v.wires) == 0 && len(v.labels) == 0 && len(v.instances) == 0
}

// bounds returns the extent of all content in design units.
func (v *pageView) bounds() (minX, minY, maxX, maxY float64, ok bool) {
	first := true
	add := func(x, y int) {
		fx, fy := float64(x), float64(y)
		if first {
			minX, minY, maxX, maxY = fx, fy, fx, fy
			first = false
			return
		}
		if fx < minX {
			minX = fx
		}
		if fy < minY {
			minY = fy
		}
		if fx > maxX {
			maxX = fx
		}
		if fy > maxY {
			maxY = fy
		}
	}

	for _, prim := range v.wires {
		for _, pt := range prim.Points {
			add(pt.X, pt.Y)
		}
	}
	for _, prim := range v.labels {
		if prim.Origin != nil {
			add(prim.Origin.X, prim.Origin.Y)
		}
	}
	for _, inst := range v.instances {
		add(inst.X, inst.Y)
		if inst.BoundingBox != nil {
			add(inst.X+inst.BoundingBox.MinX, inst.Y+inst.BoundingBox.MinY)
			add(inst.X+inst.BoundingBox.MaxX, inst.Y+inst.BoundingBox.MaxY)
		}
	}
	return minX, minY, maxX, maxY, !first
}

// viewTransform maps design units onto an output surface. yDown is set for
// surfaces whose origin is top-left (PDF), and for pages that themselves
// declare a top-left origin the flip cancels out.
type viewTransform struct {
	scale            float64
	offsetX, offsetY float64
	outputHeight     float64
	yDown            bool
}

// fitView computes the transform that fits the page content into an output
// surface of the given size with a uniform margin, centered.
func fitView(v *pageView, outputW, outputH float64) viewTransform {
	t := viewTransform{scale: 1, outputHeight: outputH}

	minX, minY, maxX, maxY, ok := v.bounds()
	if !ok {
		return t
	}
	dataW := maxX - minX
	dataH := maxY - minY
	if dataW <= 0 && dataH <= 0 {
		return t
	}
	if dataW <= 0 {
		dataW = 1
	}
	if dataH <= 0 {
		dataH = 1
	}

	usableW := outputW * (1 - 2*fitMargin)
	usableH := outputH * (1 - 2*fitMargin)
	t.scale = usableW / dataW
	if s := usableH / dataH; s < t.scale {
		t.scale = s
	}

	// Shift content to the origin, then center it in the usable area.
	t.offsetX = -minX + (outputW*fitMargin+(usableW-dataW*t.scale)/2)/t.scale
	t.offsetY = -minY + (outputH*fitMargin+(usableH-dataH*t.scale)/2)/t.scale
	return t
}

// apply maps one design point to output coordinates. The Y axis flips only
// when exactly one of surface orientation and page origin is top-down.
func (t viewTransform) apply(x, y int, origin design.CoordinateOrigin) (float64, float64) {
	ox := (float64(x) + t.offsetX) * t.scale
	oy := (float64(y) + t.offsetY) * t.scale

	pageTopLeft := origin == design.OriginTopLeft
	if t.yDown != pageTopLeft {
		oy = t.outputHeight - oy
	}
	return ox, oy
}
