package design

import (
	"fmt"
	"strings"
)

// The extraction pipeline joins records from four independent identifier
// namespaces. Each namespace gets its own type so a key from one space can
// never be used to index a table belonging to another.

// RefDes is a reference designator, the canonical component key (e.g. "U12").
type RefDes string

// BlockName names a sub-design (schematic sheet group).
type BlockName string

// LocalInstanceID is an instance identifier that is unique only within the
// file it was read from. Never use it as a cross-file key on its own; pair it
// with the owning block (see InstanceKey).
type LocalInstanceID string

// GraphicsObjectID identifies a drawable object inside page-geometry data.
// The 18-digit identifiers are treated as globally unique across the design.
type GraphicsObjectID string

// NetName is the canonical key for an electrical net, scoped globally.
type NetName string

// StyleRef references an entry in the style table (e.g. "Style2").
type StyleRef string

// InstanceKey qualifies a local instance ID with its owning block, making it
// safe to use across files.
type InstanceKey struct {
	Block BlockName
	Local LocalInstanceID
}

// SymbolKey identifies a symbol definition by (library, part name).
// Symbols are keyed per part, not per instance.
type SymbolKey struct {
	Library  string
	PartName string
}

// String returns the cache-file form of the key: "library##part_name".
func (k SymbolKey) String() string {
	return k.Library + "##" + k.PartName
}

// CachePath returns the symbol cache file stem for a given revision,
// "library##part_name##revision".
func (k SymbolKey) CachePath(revision string) string {
	return k.Library + "##" + k.PartName + "##" + revision
}

// ParseSymbolKey parses a "library##part_name[##revision]" string.
func ParseSymbolKey(s string) (SymbolKey, error) {
	parts := strings.Split(s, "##")
	if len(parts) < 2 {
		return SymbolKey{}, fmt.Errorf("invalid symbol key %q: want library##part_name", s)
	}
	return SymbolKey{Library: parts[0], PartName: parts[1]}, nil
}
