// Package extract sequences the reconstruction pipeline: discovery,
// identifier bridging, page indexing, graphics linking, position extraction,
// symbol and style loading, connectivity building, aggregation, validation
// and document assembly. Phases run single-threaded in a strict dependency
// order; a file that fails to parse is skipped with a log line, and only
// terminal validation can abort the run.
package extract

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/aggregate"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/config"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/conn"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/discover"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/export"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/fragment"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/geom"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ident"
)

// Pipeline runs one extraction over an SDAX project directory.
type Pipeline struct {
	cfg *config.Config
	log *slog.Logger
	now func() time.Time
}

// Result is the outcome of one pipeline run: the assembled document plus
// the validation report it passed.
type Result struct {
	Document *export.Document
	Report   *aggregate.Report
	Project  *discover.Project
}

// New creates a pipeline for the given configuration.
func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, log: log, now: time.Now}
}

// Run executes every phase in order. Only two failures abort: an unusable
// project directory and a fatal validation result.
func (p *Pipeline) Run() (*Result, error) {
	root := design.BlockName(p.cfg.Project.RootBlock)

	proj, err := discover.Scan(p.cfg.Project.Root, p.log)
	if err != nil {
		return nil, err
	}

	bridge := p.buildBridge(proj, root)

	toc := p.loadTOC(proj, root)
	var pages []design.Page
	if toc != nil {
		pages = toc.Pages()
	}

	rec := geom.NewReconciler(p.log)
	rec.IndexPages(pageEntries(toc))
	p.registerAliases(rec, proj, toc)
	p.linkGraphics(proj, rec)

	geoms := p.readPageGeometry(proj)
	rec.ExtractPositions(collectPositions(geoms))

	styles, styleFiles := p.loadStyles(proj)
	symbols, err := fragment.LoadSymbolCache(proj.CacheDir, p.log)
	if err != nil {
		p.log.Warn("symbol cache unavailable", "dir", proj.CacheDir, "error", err)
	}

	builder := conn.NewBuilder(bridge, symbols, p.log)
	cells := make(map[string]export.CellEntry)
	connFiles := p.buildConnectivity(proj, builder, cells)

	agg := aggregate.New(root, p.log)
	partsFiles := p.aggregateComponents(proj, agg)
	p.attachComponentData(agg, builder, rec)

	seq := newSequencer()
	prims, unresolved := p.assemblePrimitives(geoms, rec, seq)
	prims = append(prims, p.synthesizeLabels(agg, symbols, seq)...)

	report := agg.Validate(aggregate.ValidateInput{
		Nets:               builder.Nets(),
		Connections:        builder.Connections(),
		UnresolvedGeometry: unresolved,
		FallbackPages:      rec.FallbackCollisions(),
	})
	for _, w := range report.Warnings {
		p.log.Warn(w)
	}
	if report.Err != nil {
		return nil, report.Err
	}

	grid := fragment.ParseGridConfigFile(proj.PageFile(root, p.cfg.Extract.GridPageIndex))

	doc := &export.Document{
		Project:       p.cfg.Project.RootBlock,
		GridConfig:    grid,
		Pages:         pages,
		Primitives:    prims,
		Styles:        styles,
		SymbolLibrary: exportSymbols(symbols),
		Instances:     export.BuildInstances(agg.Components(), symbols),
		Components:    agg.Components(),
		Hierarchy:     agg.Hierarchy(),
		Nets:          export.BuildNets(builder.Nets()),
		Cells:         cells,
	}
	doc.Statistics = p.buildStatistics(doc, proj, builder, styleFiles, connFiles, partsFiles, report)

	p.log.Info("extraction complete",
		"components", len(doc.Components),
		"nets", len(doc.Nets),
		"primitives", len(doc.Primitives),
		"pages", len(doc.Pages))
	return &Result{Document: doc, Report: report, Project: proj}, nil
}

// buildBridge populates the identifier bridge from every names file. The
// bridge must be complete before connectivity or geometry resolution runs.
func (p *Pipeline) buildBridge(proj *discover.Project, root design.BlockName) *ident.Bridge {
	bridge := ident.NewBridge(root, p.log)
	for _, f := range proj.ByClass(discover.ClassNames) {
		nf, err := fragment.ParseNamesFile(f.Path)
		if err != nil {
			p.skipFile(f.Path, err)
			continue
		}
		for _, inst := range nf.Instances {
			attrs := make(map[string]string, len(inst.Properties)+len(inst.Attributes))
			for k, v := range inst.Properties {
				attrs[k] = v
			}
			for k, v := range inst.Attributes {
				attrs[k] = v
			}
			bridge.Register(inst.CPath, attrs, f.Path)
		}
	}
	p.log.Info("identifier bridge built",
		"instances", bridge.Len(), "skipped", bridge.Skipped())
	return bridge
}

func (p *Pipeline) loadTOC(proj *discover.Project, root design.BlockName) *fragment.TOC {
	path := proj.PageFile(root, p.cfg.Extract.TOCPageIndex)
	toc, err := fragment.ParseTOCFile(path)
	if err != nil {
		p.log.Warn("page table unavailable, all pages will use file-index fallback",
			"path", path, "error", err)
		return nil
	}
	p.log.Info("page table loaded", "pages", len(toc.Entries), "size", toc.SizeCode)
	return toc
}

func pageEntries(toc *fragment.TOC) []geom.PageEntry {
	if toc == nil {
		return nil
	}
	entries := make([]geom.PageEntry, 0, len(toc.Entries))
	for i, e := range toc.Entries {
		entries = append(entries, geom.PageEntry{
			Block:        e.Block,
			FileIndex:    e.FileIndex,
			AbsolutePage: i + 1,
		})
	}
	return entries
}

// registerAliases connects TOC display block names to on-disk block
// directories when they differ only by a suffix. Without the alias every
// primitive of the renamed block would fall back to file-local pages.
func (p *Pipeline) registerAliases(rec *geom.Reconciler, proj *discover.Project, toc *fragment.TOC) {
	if toc == nil {
		return
	}
	onDisk := make(map[design.BlockName]bool, len(proj.Blocks))
	for _, b := range proj.Blocks {
		onDisk[b] = true
	}
	for _, e := range toc.Entries {
		if e.Block == "" || onDisk[e.Block] {
			continue
		}
		for _, b := range proj.Blocks {
			if strings.HasPrefix(string(b), string(e.Block)) || strings.HasPrefix(string(e.Block), string(b)) {
				p.log.Debug("aliasing page-table block to storage block",
					"display", e.Block, "storage", b)
				rec.AddAlias(b, e.Block)
				break
			}
		}
	}
}

func (p *Pipeline) linkGraphics(proj *discover.Project, rec *geom.Reconciler) {
	var records []geom.LinkRecord
	for _, f := range proj.ByClass(discover.ClassInstIndex) {
		recs, err := fragment.ParseInstanceIndexFile(f.Path, f.Block)
		if err != nil {
			p.skipFile(f.Path, err)
			continue
		}
		records = append(records, recs...)
	}
	rec.LinkGraphics(records)
}

func (p *Pipeline) readPageGeometry(proj *discover.Project) []*fragment.PageGeometry {
	var geoms []*fragment.PageGeometry
	for _, f := range proj.ByClass(discover.ClassPage) {
		pg, err := fragment.ParsePageGeometryFile(f.Path, f.Block)
		if err != nil {
			p.skipFile(f.Path, err)
			continue
		}
		geoms = append(geoms, pg)
	}
	return geoms
}

func collectPositions(geoms []*fragment.PageGeometry) []geom.PositionRecord {
	var out []geom.PositionRecord
	for _, pg := range geoms {
		out = append(out, pg.Positions...)
	}
	return out
}

func (p *Pipeline) loadStyles(proj *discover.Project) (design.StyleTable, int) {
	styles, errs := fragment.LoadStyleDir(proj.CacheDir)
	for _, err := range errs {
		p.log.Warn("style file skipped", "error", err)
	}
	files, _ := filepath.Glob(filepath.Join(proj.CacheDir, "*.style"))
	return styles, len(files)
}

func (p *Pipeline) buildConnectivity(proj *discover.Project, builder *conn.Builder, cells map[string]export.CellEntry) int {
	processed := 0
	for _, f := range proj.ByClass(discover.ClassXcon) {
		doc, err := fragment.ParseXconFile(f.Path)
		if err != nil {
			p.skipFile(f.Path, err)
			continue
		}
		builder.AddDocument(doc, f.Block)
		collectCells(doc, cells)
		processed++
	}
	p.log.Info("connectivity built",
		"nets", len(builder.Nets()),
		"connections", builder.Connections(),
		"unresolved", builder.Unresolved())
	return processed
}

func collectCells(doc *fragment.XconDocument, cells map[string]export.CellEntry) {
	for _, d := range doc.Designs {
		for _, c := range d.Cells {
			key := c.Library + "##" + c.Name
			if _, ok := cells[key]; ok {
				continue
			}
			terms := make([]string, 0, len(c.Terms))
			for _, t := range c.Terms {
				terms = append(terms, t.Name)
			}
			cells[key] = export.CellEntry{
				Library:   c.Library,
				Name:      c.Name,
				View:      c.View,
				Terminals: terms,
			}
		}
	}
}

// aggregateComponents folds every part placement from the parts files into
// the component table. The refdes lives in the per-instance attribute rows;
// library and part name come from the part-level properties.
func (p *Pipeline) aggregateComponents(proj *discover.Project, agg *aggregate.Aggregator) int {
	processed := 0
	for _, f := range proj.ByClass(discover.ClassParts) {
		pf, err := fragment.ParsePartsFile(f.Path)
		if err != nil {
			p.skipFile(f.Path, err)
			continue
		}
		for _, obj := range pf.Objects {
			if obj.Type != "part" {
				continue
			}
			props := obj.StringProperties()
			for _, ref := range obj.Meta.Instances {
				if ref.Name != "cpath" {
					continue
				}
				p.addPartInstance(agg, obj, ref, props)
			}
		}
		processed++
	}
	p.log.Info("components aggregated", "components", agg.Len())
	return processed
}

func (p *Pipeline) addPartInstance(agg *aggregate.Aggregator, obj fragment.PartObject,
	ref fragment.PartInstanceRef, props map[string]string) {

	path, err := ident.ParsePath(ref.Value)
	if err != nil {
		p.log.Debug("skipping part instance with malformed path",
			"cpath", ref.Value, "error", err)
		return
	}
	attrs := ref.AttrMap()
	refdes := attrs["refdes"]
	if refdes == "" {
		return
	}
	block, localID := path.Leaf(agg.Root())
	revision := attrs["symbol"]
	if revision == "" {
		revision = p.cfg.Extract.SymbolRevision
	}
	agg.AddInstance(&ident.ResolvedInstance{
		RefDes:         design.RefDes(refdes),
		Block:          block,
		LocalID:        localID,
		Chain:          path.Chain(),
		CPath:          ref.Value,
		Library:        obj.Library(),
		PartName:       obj.PartName(),
		SymbolRevision: revision,
		Properties:     props,
	})
}

// attachComponentData joins pins from the connectivity builder and positions
// from the geometry reconciler onto the component table.
func (p *Pipeline) attachComponentData(agg *aggregate.Aggregator, builder *conn.Builder, rec *geom.Reconciler) {
	for _, comp := range agg.Components() {
		if pins := builder.PinsFor(comp.Block, comp.LocalID); len(pins) > 0 {
			agg.AttachPins(comp.RefDes, pins)
		}
		if pos, ok := rec.ResolvePosition(comp.LocalID, comp.Block); ok {
			agg.AttachPosition(comp.RefDes, pos)
		}
	}
}

// assemblePrimitives resolves every geometry primitive to its absolute page
// and stamps element IDs and sequence indices. It returns how many
// primitives stayed unresolved.
func (p *Pipeline) assemblePrimitives(geoms []*fragment.PageGeometry, rec *geom.Reconciler, seq *sequencer) ([]design.PrimitiveElement, int) {
	var out []design.PrimitiveElement
	unresolved := 0
	for _, pg := range geoms {
		for _, prim := range pg.Primitives {
			page, _ := rec.AbsolutePage(prim.Block, prim.PageLocalIndex)
			prim.PageNumber = page
			if page == design.PageUnresolved {
				unresolved++
			}
			seq.assign(&prim)
			out = append(out, prim)
		}
	}
	return out, unresolved
}

// synthesizeLabels projects refdes and value labels for every positioned
// component whose symbol defines text anchors.
func (p *Pipeline) synthesizeLabels(agg *aggregate.Aggregator, symbols fragment.SymbolLibrary, seq *sequencer) []design.PrimitiveElement {
	var out []design.PrimitiveElement
	for _, comp := range agg.Components() {
		sym := symbols.Lookup(comp.SymbolKey(), comp.SymbolRevision)
		for _, label := range aggregate.SynthesizeLabels(comp, sym) {
			seq.assign(&label)
			out = append(out, label)
		}
	}
	return out
}

func (p *Pipeline) buildStatistics(doc *export.Document, proj *discover.Project,
	builder *conn.Builder, styleFiles, connFiles, partsFiles int, report *aggregate.Report) export.Statistics {

	stats := export.NewStatistics(p.now())
	stats.TotalComponents = len(doc.Components)
	stats.TotalNets = len(doc.Nets)
	stats.TotalConnections = builder.Connections()
	stats.UnresolvedRefs = builder.Unresolved()
	stats.BlocksProcessed = len(proj.Blocks)
	stats.PartsFiles = partsFiles
	stats.ConnFiles = connFiles
	stats.StyleFiles = styleFiles
	stats.SymbolsLoaded = len(doc.SymbolLibrary)
	stats.TotalPages = len(doc.Pages)
	stats.TotalPrimitives = len(doc.Primitives)
	stats.Warnings = report.Warnings

	for _, c := range doc.Components {
		stats.ComponentsByType[c.Type]++
	}
	for _, prim := range doc.Primitives {
		stats.PrimitivesByKind[string(prim.Kind)]++
		stats.PrimitivesByShape[prim.ShapeType]++
	}
	for _, inst := range doc.Instances {
		if inst.HasGraphics {
			stats.InstancesWithGraphics++
		}
		if inst.HasPosition {
			stats.InstancesWithPosition++
		}
	}
	return stats
}

func (p *Pipeline) skipFile(path string, err error) {
	p.log.Warn("file skipped", "error", &design.SkippableFileError{File: path, Err: err})
}

// exportSymbols re-keys the revisioned symbol cache by the cache key the
// instance entries carry. The lowest revision wins when several exist.
func exportSymbols(symbols fragment.SymbolLibrary) map[string]*design.SymbolDefinition {
	keys := make([]string, 0, len(symbols))
	for k := range symbols {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]*design.SymbolDefinition, len(symbols))
	for _, k := range keys {
		parts := strings.SplitN(k, "##", 3)
		if len(parts) < 2 {
			continue
		}
		cacheKey := parts[0] + "##" + parts[1]
		if _, ok := out[cacheKey]; !ok {
			out[cacheKey] = symbols[k]
		}
	}
	return out
}

// sequencer pairs the global draw-order counter with the element-ID
// allocator so every primitive gets both in one call, no matter which
// phase emitted it.
type sequencer struct {
	seq design.SequenceAllocator
	ids design.ElementIDAllocator
}

func newSequencer() *sequencer {
	return &sequencer{}
}

func (s *sequencer) assign(prim *design.PrimitiveElement) {
	prim.SequenceIndex = s.seq.Next()

	shape := prim.ShapeType
	if shape == "" {
		shape = string(prim.Kind)
	}
	prim.ElementID = s.ids.Next(shape)
}
