// Package aggregate merges the outputs of the identifier bridge, the
// geometry reconciler and the connectivity builder into one deduplicated
// design graph, then validates it before export.
package aggregate

import (
	"log/slog"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ident"
)

// Aggregator owns the canonical component table. Components are keyed by
// refdes; every policy that resolves conflicting source records lives here.
type Aggregator struct {
	log *slog.Logger

	root       design.BlockName
	components map[design.RefDes]*design.ComponentInstance
	order      []design.RefDes
}

// New creates an aggregator rooted at the top-level design block.
func New(root design.BlockName, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		log:        log,
		root:       root,
		components: make(map[design.RefDes]*design.ComponentInstance),
	}
}

// AddInstance folds one bridged instance into the component table.
//
// Dedup policy: on a refdes collision the record with the longer hierarchy
// chain wins wholesale; ties keep the first-seen record. Chain length is a
// heuristic proxy for provenance completeness, not a correctness guarantee,
// but it is the policy the source data was authored against.
func (a *Aggregator) AddInstance(inst *ident.ResolvedInstance) *design.ComponentInstance {
	comp := &design.ComponentInstance{
		RefDes:         inst.RefDes,
		Type:           design.ClassifyRefDes(inst.RefDes),
		Library:        inst.Library,
		PartName:       inst.PartName,
		SymbolRevision: inst.SymbolRevision,
		Block:          inst.Block,
		CPath:          inst.CPath,
		InstancePath:   inst.Chain,
		LocalID:        inst.LocalID,
		Properties:     inst.Properties,
	}

	existing, ok := a.components[inst.RefDes]
	if !ok {
		a.components[inst.RefDes] = comp
		a.order = append(a.order, inst.RefDes)
		return comp
	}

	if len(comp.InstancePath) > len(existing.InstancePath) {
		a.log.Debug("replacing component with deeper hierarchy record",
			"refdes", inst.RefDes,
			"old_depth", len(existing.InstancePath),
			"new_depth", len(comp.InstancePath))
		a.components[inst.RefDes] = comp
		return comp
	}
	return existing
}

// AttachPins sets a component's pin list. Write-once: a component that
// already has pins keeps them, on the assumption that the first writer came
// from the more specific hierarchy resolution.
func (a *Aggregator) AttachPins(refdes design.RefDes, pins []design.PinConnection) bool {
	comp, ok := a.components[refdes]
	if !ok || len(comp.Pins) > 0 || len(pins) == 0 {
		return false
	}
	comp.Pins = pins
	return true
}

// AttachPosition sets a component's absolute position. First write wins.
func (a *Aggregator) AttachPosition(refdes design.RefDes, pos design.Position) bool {
	comp, ok := a.components[refdes]
	if !ok || comp.Position != nil {
		return false
	}
	comp.Position = &pos
	return true
}

// Component returns the aggregated record for a refdes, or nil.
func (a *Aggregator) Component(refdes design.RefDes) *design.ComponentInstance {
	return a.components[refdes]
}

// Components returns all components in first-seen order.
func (a *Aggregator) Components() []*design.ComponentInstance {
	out := make([]*design.ComponentInstance, 0, len(a.order))
	for _, rd := range a.order {
		out = append(out, a.components[rd])
	}
	return out
}

// Len returns the component count.
func (a *Aggregator) Len() int { return len(a.components) }

// TypeCounts returns the component count per classified type.
func (a *Aggregator) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, c := range a.components {
		counts[c.Type]++
	}
	return counts
}

// SortedRefDes returns every refdes in lexical order.
func (a *Aggregator) SortedRefDes() []design.RefDes {
	out := make([]design.RefDes, 0, len(a.order))
	out = append(out, a.order...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Hierarchy replays every component's hierarchy chain into a containment
// tree rooted at the top-level design block. Intermediate block nodes are
// created on demand; a component with an empty chain lands in the root's
// component list.
func (a *Aggregator) Hierarchy() *HierarchyNode {
	rootNode := &HierarchyNode{Type: "top", Children: map[design.BlockName]*HierarchyNode{}}
	for _, rd := range a.order {
		comp := a.components[rd]
		node := rootNode
		for _, block := range comp.InstancePath {
			child, ok := node.Children[block]
			if !ok {
				child = &HierarchyNode{Type: "block", Children: map[design.BlockName]*HierarchyNode{}}
				node.Children[block] = child
			}
			node = child
		}
		node.Components = append(node.Components, comp.RefDes)
	}
	return rootNode
}

// Root returns the top-level design block name.
func (a *Aggregator) Root() design.BlockName { return a.root }

// HierarchyNode is one node of the block containment tree.
type HierarchyNode struct {
	Type       string                              `json:"type"`
	Components []design.RefDes                     `json:"components"`
	Children   map[design.BlockName]*HierarchyNode `json:"children"`
}

// Depth returns the maximum depth below this node, counting this node as 0.
func (n *HierarchyNode) Depth() int {
	deepest := 0
	for _, child := range n.Children {
		if d := child.Depth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}
