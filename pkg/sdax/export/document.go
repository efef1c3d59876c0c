// Package export serializes the aggregated design graph to the interchange
// document consumed by the rendering and verification collaborators.
package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/aggregate"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/fragment"
)

// Statistics summarize one extraction run. They travel inside the document
// so downstream consumers can judge completeness without re-deriving counts.
type Statistics struct {
	RunID                 string         `json:"run_id"`
	ExtractionDate        string         `json:"extraction_date"`
	TotalComponents       int            `json:"total_components"`
	TotalNets             int            `json:"total_nets"`
	TotalConnections      int            `json:"total_connections"`
	UnresolvedRefs        int            `json:"unresolved_references"`
	BlocksProcessed       int            `json:"blocks_processed"`
	PartsFiles            int            `json:"json_files_processed"`
	ConnFiles             int            `json:"xcon_files_processed"`
	StyleFiles            int            `json:"style_files_processed"`
	SymbolsLoaded         int            `json:"symbol_graphics_loaded"`
	TotalPages            int            `json:"total_pages"`
	TotalPrimitives       int            `json:"total_primitives"`
	ComponentsByType      map[string]int `json:"components_by_type"`
	PrimitivesByKind      map[string]int `json:"primitives_by_type"`
	PrimitivesByShape     map[string]int `json:"primitives_by_shape_type"`
	InstancesWithGraphics int            `json:"instances_with_symbol_graphics"`
	InstancesWithPosition int            `json:"instances_with_position"`
	Warnings              []string       `json:"warnings,omitempty"`
}

// NewStatistics stamps a fresh run ID and extraction date.
func NewStatistics(now time.Time) Statistics {
	return Statistics{
		RunID:             uuid.NewString(),
		ExtractionDate:    now.Format(time.RFC3339),
		ComponentsByType:  map[string]int{},
		PrimitivesByKind:  map[string]int{},
		PrimitivesByShape: map[string]int{},
	}
}

// InstanceEntry is one component instance annotated with derived symbol
// linkage flags. Downstream renderers use it to decide whether an instance
// can be drawn at all, so absence of graphics is explicit rather than an
// empty field.
type InstanceEntry struct {
	LocalID         design.LocalInstanceID       `json:"instance_id"`
	RefDes          design.RefDes                `json:"refdes"`
	Library         string                       `json:"library"`
	PartName        string                       `json:"part_name"`
	SymbolRevision  string                       `json:"symbol"`
	Block           design.BlockName             `json:"block"`
	SymbolCacheKey  string                       `json:"symbol_cache_key"`
	SymbolCachePath string                       `json:"symbol_cache_path"`
	HasGraphics     bool                         `json:"has_symbol_graphics"`
	HasPosition     bool                         `json:"has_position"`
	X               int                          `json:"x,omitempty"`
	Y               int                          `json:"y,omitempty"`
	PageNumber      int                          `json:"page_index,omitempty"`
	BoundingBox     *design.BoundingBox          `json:"symbol_bounding_box,omitempty"`
	LineCount       int                          `json:"symbol_line_count"`
	PinCount        int                          `json:"symbol_pin_count"`
	Anchors         map[string]design.TextAnchor `json:"text_positions,omitempty"`
}

// NetEntry is the exported form of a net, with the block set flattened to a
// sorted list.
type NetEntry struct {
	ID          string                 `json:"id"`
	Name        design.NetName         `json:"name"`
	Scope       string                 `json:"scope,omitempty"`
	Direction   string                 `json:"direction,omitempty"`
	Blocks      []design.BlockName     `json:"blocks"`
	Connections []design.NetConnection `json:"connections"`
}

// CellEntry is one part-type definition carried through for verification
// tooling.
type CellEntry struct {
	Library   string   `json:"library"`
	Name      string   `json:"name"`
	View      string   `json:"view"`
	Terminals []string `json:"terminals"`
}

// Document is the self-contained interchange document. Key names are the
// contract consumed by the renderer and verifier and must stay stable.
type Document struct {
	Project       string                              `json:"project"`
	GridConfig    design.GridConfig                   `json:"grid_config"`
	Statistics    Statistics                          `json:"statistics"`
	Pages         []design.Page                       `json:"pages"`
	Primitives    []design.PrimitiveElement           `json:"primitives"`
	Styles        design.StyleTable                   `json:"styles"`
	SymbolLibrary map[string]*design.SymbolDefinition `json:"symbol_library"`
	Instances     []InstanceEntry                     `json:"instances"`
	Components    []*design.ComponentInstance         `json:"components_flat"`
	Hierarchy     *aggregate.HierarchyNode            `json:"hierarchy"`
	Nets          map[string]NetEntry                 `json:"nets"`
	Cells         map[string]CellEntry                `json:"cells"`
}

// BuildInstances derives the annotated instance list from the component
// table and the symbol library.
func BuildInstances(components []*design.ComponentInstance, symbols fragment.SymbolLibrary) []InstanceEntry {
	out := make([]InstanceEntry, 0, len(components))
	for _, c := range components {
		key := c.SymbolKey()
		entry := InstanceEntry{
			LocalID:         c.LocalID,
			RefDes:          c.RefDes,
			Library:         c.Library,
			PartName:        c.PartName,
			SymbolRevision:  c.SymbolRevision,
			Block:           c.Block,
			SymbolCacheKey:  key.String(),
			SymbolCachePath: key.CachePath(c.SymbolRevision),
		}
		if sym := symbols.Lookup(key, c.SymbolRevision); sym != nil {
			entry.HasGraphics = true
			entry.BoundingBox = sym.BoundingBox
			entry.LineCount = len(sym.Lines)
			entry.PinCount = len(sym.Pins)
			entry.Anchors = sym.Anchors
		}
		if c.Position != nil {
			entry.HasPosition = true
			entry.X = c.Position.X
			entry.Y = c.Position.Y
			entry.PageNumber = c.Position.Page
		}
		out = append(out, entry)
	}
	return out
}

// BuildNets flattens nets for export.
func BuildNets(nets []*design.Net) map[string]NetEntry {
	out := make(map[string]NetEntry, len(nets))
	for _, n := range nets {
		out[string(n.Name)] = NetEntry{
			ID:          n.ID,
			Name:        n.Name,
			Scope:       n.Scope,
			Direction:   n.Direction,
			Blocks:      n.BlockList(),
			Connections: n.Connections,
		}
	}
	return out
}
