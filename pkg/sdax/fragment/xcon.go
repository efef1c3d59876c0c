package fragment

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// XconDocument is a parsed connectivity (.xcon) file: cell definitions with
// their terminal lists, net declarations and instance placements with
// per-pin connection records. All identifiers are local to the block the
// file describes.
type XconDocument struct {
	XMLName xml.Name     `xml:"schema"`
	Designs []XconDesign `xml:"designs>design"`
}

// XconDesign is one design section of a connectivity file.
type XconDesign struct {
	Cells     []XconCell     `xml:"cells>cell"`
	Nets      []XconNet      `xml:"nets>net"`
	Instances []XconInstance `xml:"instances>instance"`
}

// XconCell is a part-type definition with its named terminal list.
// Terminal IDs are cell-local and must be resolved through this list before
// pin names become usable.
type XconCell struct {
	ID      string     `xml:"id"`
	Library string     `xml:"library"`
	Name    string     `xml:"name"`
	View    string     `xml:"view"`
	Terms   []XconTerm `xml:"terms>term"`
}

// XconTerm is one terminal of a cell.
type XconTerm struct {
	ID        string `xml:"id"`
	Name      string `xml:"name"`
	Direction string `xml:"direction"`
}

// XconNet is a net declaration. The ID is file-local; the name is the
// global canonical key.
type XconNet struct {
	ID        string `xml:"id"`
	Name      string `xml:"name"`
	Scope     string `xml:"scope"`
	Direction string `xml:"direction"`
}

// XconInstance is one instance placement with its pin connections.
type XconInstance struct {
	ID     string    `xml:"id"`
	CellID string    `xml:"cellid"`
	Pins   []XconPin `xml:"pins>pin"`
}

// XconPin is one pin of an instance, referencing a cell terminal and the
// nets it connects to.
type XconPin struct {
	TermID      string           `xml:"termid"`
	Connections []XconConnection `xml:"connections>connection"`
}

// XconConnection references a net by its file-local ID.
type XconConnection struct {
	Net string `xml:"net,attr"`
}

// LocalInstanceID strips the "I" prefix from an instance ID, yielding the
// bare numeric ID the bridge indexes by.
func (i XconInstance) LocalInstanceID() string {
	if len(i.ID) > 0 && i.ID[0] == 'I' {
		return i.ID[1:]
	}
	return i.ID
}

// ParseXcon reads a connectivity file from r.
func ParseXcon(r io.Reader) (*XconDocument, error) {
	var doc XconDocument
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode xcon file: %w", err)
	}
	return &doc, nil
}

// ParseXconFile reads and parses a connectivity file from disk.
func ParseXconFile(path string) (*XconDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseXcon(f)
}
