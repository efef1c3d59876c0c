package ident

import (
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// ResolvedInstance is the bridge's answer for one component instance: the
// canonical refdes plus the leaf (block, local ID) pair used downstream to
// look up graphics linkage within that block.
type ResolvedInstance struct {
	RefDes         design.RefDes
	Block          design.BlockName
	LocalID        design.LocalInstanceID
	Chain          []design.BlockName
	CPath          string
	Library        string
	PartName       string
	SymbolRevision string
	Properties     map[string]string
}

// SymbolKey returns the symbol definition key for this instance.
func (r *ResolvedInstance) SymbolKey() design.SymbolKey {
	return design.SymbolKey{Library: r.Library, PartName: r.PartName}
}

// Bridge accumulates resolved instances and answers lookups by qualified or
// bare local instance ID. It must be fully populated before the connectivity
// builder or the geometry reconciler run; both depend on canonical refdes
// resolution.
type Bridge struct {
	root design.BlockName
	log  *slog.Logger

	byKey   map[design.InstanceKey]*ResolvedInstance
	byLocal map[design.LocalInstanceID]*ResolvedInstance
	order   []*ResolvedInstance
	skipped int
}

// NewBridge creates a bridge rooted at the top-level design block.
func NewBridge(root design.BlockName, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{
		root:    root,
		log:     log,
		byKey:   make(map[design.InstanceKey]*ResolvedInstance),
		byLocal: make(map[design.LocalInstanceID]*ResolvedInstance),
	}
}

// Register resolves one raw instance record into the bridge. The attribute
// set carries the authoritative refdes plus symbol lookup attributes. An
// instance without a refdes cannot be canonically keyed and is dropped with
// a non-fatal log; ok reports whether the record was kept.
func (b *Bridge) Register(cpath string, attrs map[string]string, sourceFile string) (*ResolvedInstance, bool) {
	path, err := ParsePath(cpath)
	if err != nil {
		b.skipped++
		b.log.Warn("skipping instance with malformed path",
			"file", sourceFile, "cpath", cpath, "err", err)
		return nil, false
	}

	refdes := attrs["refdes"]
	if refdes == "" {
		b.skipped++
		b.log.Debug("skipping instance without refdes",
			"file", sourceFile, "cpath", cpath)
		return nil, false
	}

	block, localID := path.Leaf(b.root)
	revision := attrs["symbol"]
	if revision == "" {
		revision = "sym_1"
	}

	inst := &ResolvedInstance{
		RefDes:         design.RefDes(refdes),
		Block:          block,
		LocalID:        localID,
		Chain:          path.Chain(),
		CPath:          cpath,
		Library:        attrs["library"],
		PartName:       attrs["system_capture_model"],
		SymbolRevision: revision,
		Properties:     attrs,
	}

	if localID != "" {
		b.byKey[design.InstanceKey{Block: block, Local: localID}] = inst
		// Bare-ID index for connectivity files that carry no block
		// qualification. The 9-digit IDs collide rarely enough that the
		// qualified index is always preferred.
		b.byLocal[localID] = inst
	}
	b.order = append(b.order, inst)
	return inst, true
}

// Lookup resolves a local instance ID to its canonical instance, preferring
// the block-qualified key and falling back to the bare ID.
func (b *Bridge) Lookup(block design.BlockName, localID design.LocalInstanceID) (*ResolvedInstance, bool) {
	if inst, ok := b.byKey[design.InstanceKey{Block: block, Local: localID}]; ok {
		return inst, true
	}
	inst, ok := b.byLocal[localID]
	return inst, ok
}

// Instances returns every registered instance in registration order.
func (b *Bridge) Instances() []*ResolvedInstance {
	return b.order
}

// Len returns the number of registered instances.
func (b *Bridge) Len() int { return len(b.order) }

// Skipped returns how many records were dropped for missing refdes or
// malformed paths.
func (b *Bridge) Skipped() int { return b.skipped }
