// Package conn builds global net connectivity from per-block connectivity
// documents. Terminal and net IDs in those documents are file-local; the
// builder resolves terminals to pin names through the document's own cell
// table, resolves instances to refdes through the identifier bridge, and
// unions nets across blocks by their global name.
package conn

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/fragment"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ident"
)

// Builder accumulates connectivity across documents. Not safe for
// concurrent use; the pipeline feeds it one document at a time.
type Builder struct {
	log     *slog.Logger
	bridge  *ident.Bridge
	symbols fragment.SymbolLibrary

	nets     map[design.NetName]*design.Net
	netOrder []design.NetName
	pins     map[design.InstanceKey][]design.PinConnection

	connections int
	unresolved  int
}

// NewBuilder creates a builder. The bridge must already be populated; the
// symbol library may be nil, in which case pin numbers stay empty.
func NewBuilder(bridge *ident.Bridge, symbols fragment.SymbolLibrary, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		log:     log,
		bridge:  bridge,
		symbols: symbols,
		nets:    make(map[design.NetName]*design.Net),
		pins:    make(map[design.InstanceKey][]design.PinConnection),
	}
}

// AddDocument folds one block's connectivity document into the builder.
func (b *Builder) AddDocument(doc *fragment.XconDocument, block design.BlockName) {
	for _, d := range doc.Designs {
		b.addDesign(d, block)
	}
}

func (b *Builder) addDesign(d fragment.XconDesign, block design.BlockName) {
	// Terminal and net IDs must not leak across documents; both tables are
	// rebuilt per design section.
	cells := make(map[string]fragment.XconCell, len(d.Cells))
	termNames := make(map[string]string)
	for _, c := range d.Cells {
		cells[c.ID] = c
		for _, t := range c.Terms {
			termNames[t.ID] = t.Name
		}
	}

	netNames := make(map[string]design.NetName, len(d.Nets))
	for _, n := range d.Nets {
		if n.ID == "" || n.Name == "" {
			continue
		}
		name := design.NetName(n.Name)
		netNames[n.ID] = name

		net, ok := b.nets[name]
		if !ok {
			net = &design.Net{
				ID:        n.ID,
				Name:      name,
				Scope:     n.Scope,
				Direction: n.Direction,
				Blocks:    make(map[design.BlockName]bool),
			}
			b.nets[name] = net
			b.netOrder = append(b.netOrder, name)
		}
		net.Blocks[block] = true
	}

	for _, inst := range d.Instances {
		b.addInstance(inst, block, cells, termNames, netNames)
	}
}

func (b *Builder) addInstance(inst fragment.XconInstance, block design.BlockName,
	cells map[string]fragment.XconCell, termNames map[string]string, netNames map[string]design.NetName) {

	localID := design.LocalInstanceID(inst.LocalInstanceID())

	var sym *design.SymbolDefinition
	if cell, ok := cells[inst.CellID]; ok && b.symbols != nil {
		revision := cell.View
		if revision == "" {
			revision = "sym_1"
		}
		sym = b.symbols.Lookup(design.SymbolKey{Library: cell.Library, PartName: cell.Name}, revision)
	}

	resolved, _ := b.bridge.Lookup(block, localID)

	var pins []design.PinConnection
	for _, pin := range inst.Pins {
		if pin.TermID == "" {
			continue
		}
		pinName := termNames[pin.TermID]
		if pinName == "" {
			pinName = pin.TermID
		}

		for _, c := range pin.Connections {
			if c.Net == "" {
				continue
			}
			netName, ok := netNames[c.Net]
			if !ok {
				netName = design.NetName(c.Net)
			}

			pins = append(pins, design.PinConnection{
				PinName:   pinName,
				PinNumber: sym.PinNumber(pinName),
				TermID:    pin.TermID,
				Net:       netName,
				NetID:     c.Net,
			})

			b.connect(netName, block, localID, pinName, resolved)
		}
	}

	if len(pins) == 0 {
		return
	}
	// First writer wins: a later document never overwrites an instance's
	// pin list.
	key := design.InstanceKey{Block: block, Local: localID}
	if _, ok := b.pins[key]; !ok {
		b.pins[key] = pins
	}
}

func (b *Builder) connect(netName design.NetName, block design.BlockName,
	localID design.LocalInstanceID, pinName string, resolved *ident.ResolvedInstance) {

	net, ok := b.nets[netName]
	if !ok {
		// A connection can reference a net the document never declared;
		// treat the raw reference as the global name.
		net = &design.Net{
			Name:   netName,
			Blocks: make(map[design.BlockName]bool),
		}
		b.nets[netName] = net
		b.netOrder = append(b.netOrder, netName)
	}
	net.Blocks[block] = true

	endpoint := design.NetConnection{Pin: pinName, LocalID: localID}
	if resolved != nil {
		endpoint.RefDes = resolved.RefDes
		endpoint.Resolved = true
	} else {
		endpoint.RefDes = design.RefDes(fmt.Sprintf("INST_%s", localID))
		b.unresolved++
		b.log.Debug("net endpoint has no bridged refdes",
			"net", netName, "block", block, "instance", localID)
	}
	net.Connections = append(net.Connections, endpoint)
	b.connections++
}

// PinsFor returns the pin list recorded for an instance, or nil.
func (b *Builder) PinsFor(block design.BlockName, localID design.LocalInstanceID) []design.PinConnection {
	return b.pins[design.InstanceKey{Block: block, Local: localID}]
}

// Nets returns all nets in first-seen order.
func (b *Builder) Nets() []*design.Net {
	out := make([]*design.Net, 0, len(b.netOrder))
	for _, name := range b.netOrder {
		out = append(out, b.nets[name])
	}
	return out
}

// NetByName returns one net, or nil.
func (b *Builder) NetByName(name design.NetName) *design.Net {
	return b.nets[name]
}

// SortedNetNames returns all net names in lexical order, for deterministic
// reporting.
func (b *Builder) SortedNetNames() []design.NetName {
	names := make([]design.NetName, 0, len(b.nets))
	for n := range b.nets {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Connections returns the total endpoint count recorded so far.
func (b *Builder) Connections() int { return b.connections }

// Unresolved returns how many endpoints had no bridged refdes.
func (b *Builder) Unresolved() int { return b.unresolved }
