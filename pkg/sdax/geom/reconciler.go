// Package geom reconciles geometry: it computes an absolute (x, y, page)
// placement for component instances and drawing primitives by composing the
// three-stage indirection chain found in the project files:
//
//  1. local instance ID -> graphics-object ID (per-block index files)
//  2. graphics-object ID -> (x, y, source page file) (page-geometry files)
//  3. (block, source page file) -> absolute document page (TOC-derived table)
//
// Stage 3's table must be fully built before stage 2's output can be tagged
// with an absolute page; stage 1 has no ordering dependency on either.
package geom

import (
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// State tracks the reconciler through its phase machine. The terminal state
// PositionsLinked is reached once all three maps have been composed.
type State int

const (
	Unmapped State = iota
	PagesIndexed
	GraphicsLinked
	PositionsExtracted
	PositionsLinked
)

func (s State) String() string {
	switch s {
	case Unmapped:
		return "unmapped"
	case PagesIndexed:
		return "pages-indexed"
	case GraphicsLinked:
		return "graphics-linked"
	case PositionsExtracted:
		return "positions-extracted"
	case PositionsLinked:
		return "positions-linked"
	default:
		return "unknown"
	}
}

// PageKey addresses one page-geometry file of one block.
type PageKey struct {
	Block     design.BlockName
	FileIndex int
}

// PageEntry is one row of the static page-mapping table: a block's Nth page
// file maps to an absolute document page.
type PageEntry struct {
	Block        design.BlockName
	FileIndex    int
	AbsolutePage int
}

// LinkRecord is one stage-1 record from a per-block index file.
type LinkRecord struct {
	Block    design.BlockName
	LocalID  design.LocalInstanceID
	Graphics design.GraphicsObjectID
}

// PositionRecord is one stage-2 record scanned from a page-geometry file.
// Graphics-object IDs are treated as globally unique across the design.
type PositionRecord struct {
	Graphics  design.GraphicsObjectID
	X, Y      int
	Block     design.BlockName
	FileIndex int
}

type resolvedPosition struct {
	x, y     int
	page     int
	fallback bool
}

// Reconciler builds and composes the three lookup maps. Single-threaded;
// the pipeline enforces phase order, the reconciler makes violations
// observable instead of producing wrong pages.
type Reconciler struct {
	log *slog.Logger

	pagesIndexed       bool
	graphicsLinked     bool
	positionsExtracted bool

	pages    map[PageKey]int
	aliasFwd map[design.BlockName]design.BlockName
	aliasRev map[design.BlockName]design.BlockName
	graphics map[design.InstanceKey]design.GraphicsObjectID
	position map[design.GraphicsObjectID]resolvedPosition

	// fallbackPages tracks which blocks resolved a page through the raw
	// file-local index because the TOC table had no entry. Two blocks
	// landing on the same fallback page is a silent collision in the
	// source tool; here it surfaces as a validation warning.
	fallbackPages map[int]map[design.BlockName]bool
}

// NewReconciler creates an empty reconciler in the Unmapped state.
func NewReconciler(log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		log:           log,
		pages:         make(map[PageKey]int),
		aliasFwd:      make(map[design.BlockName]design.BlockName),
		aliasRev:      make(map[design.BlockName]design.BlockName),
		graphics:      make(map[design.InstanceKey]design.GraphicsObjectID),
		position:      make(map[design.GraphicsObjectID]resolvedPosition),
		fallbackPages: make(map[int]map[design.BlockName]bool),
	}
}

// State reports the reconciler's position in the phase machine.
func (r *Reconciler) State() State {
	switch {
	case r.positionsExtracted && r.graphicsLinked && r.pagesIndexed:
		return PositionsLinked
	case r.positionsExtracted:
		return PositionsExtracted
	case r.graphicsLinked:
		return GraphicsLinked
	case r.pagesIndexed:
		return PagesIndexed
	default:
		return Unmapped
	}
}

// AddAlias records that a block appears in the page table under a display
// name that differs from its storage name (historical rename). Lookups
// consult aliases in both directions before declaring a miss.
func (r *Reconciler) AddAlias(storage, display design.BlockName) {
	r.aliasFwd[storage] = display
	r.aliasRev[display] = storage
}

// IndexPages installs the full static page-mapping table. This must complete
// before ExtractPositions for positions to receive absolute page numbers.
func (r *Reconciler) IndexPages(entries []PageEntry) {
	for _, e := range entries {
		r.pages[PageKey{Block: e.Block, FileIndex: e.FileIndex}] = e.AbsolutePage
	}
	r.pagesIndexed = true
	r.log.Info("page table indexed", "entries", len(r.pages))
}

// LinkGraphics installs stage-1 records. May run before or after IndexPages.
func (r *Reconciler) LinkGraphics(records []LinkRecord) {
	for _, rec := range records {
		r.graphics[design.InstanceKey{Block: rec.Block, Local: rec.LocalID}] = rec.Graphics
	}
	r.graphicsLinked = true
	r.log.Info("graphics links indexed", "entries", len(r.graphics))
}

// ExtractPositions installs stage-2 records, tagging each with its absolute
// page via the page-mapping table. When the table has not been built every
// record is tagged design.PageUnresolved; a wrong absolute page is never
// produced. When the table misses a single entry the raw file-local index
// is used as an observable fallback.
func (r *Reconciler) ExtractPositions(records []PositionRecord) {
	unresolved := 0
	for _, rec := range records {
		page, fallback := r.resolvePage(rec.Block, rec.FileIndex)
		if page == design.PageUnresolved {
			unresolved++
		}
		r.position[rec.Graphics] = resolvedPosition{
			x: rec.X, y: rec.Y, page: page, fallback: fallback,
		}
	}
	r.positionsExtracted = true
	if unresolved > 0 {
		r.log.Warn("positions with unresolved page", "count", unresolved)
	}
}

// AbsolutePage resolves a (block, page file) pair to an absolute document
// page. The second return reports whether the raw file-local fallback was
// used; a sentinel page means the table was not built at all.
func (r *Reconciler) AbsolutePage(block design.BlockName, fileIndex int) (int, bool) {
	return r.resolvePage(block, fileIndex)
}

func (r *Reconciler) resolvePage(block design.BlockName, fileIndex int) (page int, fallback bool) {
	if !r.pagesIndexed {
		return design.PageUnresolved, false
	}
	if p, ok := r.pages[PageKey{Block: block, FileIndex: fileIndex}]; ok {
		return p, false
	}
	if alias, ok := r.aliasFwd[block]; ok {
		if p, ok := r.pages[PageKey{Block: alias, FileIndex: fileIndex}]; ok {
			return p, false
		}
	}
	if alias, ok := r.aliasRev[block]; ok {
		if p, ok := r.pages[PageKey{Block: alias, FileIndex: fileIndex}]; ok {
			return p, false
		}
	}

	// Raw per-block page index fallback. Colliding page numbers across
	// blocks are possible here; track usage so validation can warn.
	set := r.fallbackPages[fileIndex]
	if set == nil {
		set = make(map[design.BlockName]bool)
		r.fallbackPages[fileIndex] = set
	}
	set[block] = true
	return fileIndex, true
}

// ResolvePosition composes the full chain for one instance. A false return
// is a normal outcome, not an error: some instances exist purely as logical
// or off-page entries and are never graphically placed.
func (r *Reconciler) ResolvePosition(localID design.LocalInstanceID, block design.BlockName) (design.Position, bool) {
	gid, ok := r.lookupGraphics(block, localID)
	if !ok {
		return design.Position{}, false
	}
	pos, ok := r.position[gid]
	if !ok {
		return design.Position{}, false
	}
	return design.Position{X: pos.x, Y: pos.y, Page: pos.page}, true
}

// GraphicsFor exposes the stage-1 link for one instance.
func (r *Reconciler) GraphicsFor(block design.BlockName, localID design.LocalInstanceID) (design.GraphicsObjectID, bool) {
	return r.lookupGraphics(block, localID)
}

func (r *Reconciler) lookupGraphics(block design.BlockName, localID design.LocalInstanceID) (design.GraphicsObjectID, bool) {
	if gid, ok := r.graphics[design.InstanceKey{Block: block, Local: localID}]; ok {
		return gid, true
	}
	if alias, ok := r.aliasFwd[block]; ok {
		if gid, ok := r.graphics[design.InstanceKey{Block: alias, Local: localID}]; ok {
			return gid, true
		}
	}
	if alias, ok := r.aliasRev[block]; ok {
		if gid, ok := r.graphics[design.InstanceKey{Block: alias, Local: localID}]; ok {
			return gid, true
		}
	}
	return "", false
}

// FallbackCollisions returns the fallback page numbers that more than one
// block resolved to. Each is a potential cross-block page collision.
func (r *Reconciler) FallbackCollisions() map[int][]design.BlockName {
	out := make(map[int][]design.BlockName)
	for page, blocks := range r.fallbackPages {
		if len(blocks) < 2 {
			continue
		}
		for b := range blocks {
			out[page] = append(out[page], b)
		}
	}
	return out
}
