// Package fragment contains the per-format readers that turn each project
// file class into intermediate records, still keyed in each format's own
// local identifier space. Cross-referencing into canonical keys happens
// downstream in ident, geom, conn and aggregate.
package fragment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// NamesInstance is one instance row of a "names" (*dx.json) file. These
// files carry the authoritative refdes, library and part attributes that the
// page-geometry files never encode.
type NamesInstance struct {
	CPath      string            `json:"cpath"`
	Attributes map[string]string `json:"attributes"`
	Properties map[string]string `json:"properties"`
}

// NamesFile is a parsed "names" file.
type NamesFile struct {
	Instances []NamesInstance `json:"instances"`
}

// ParseNames reads a names file from r.
func ParseNames(r io.Reader) (*NamesFile, error) {
	var f NamesFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode names file: %w", err)
	}
	return &f, nil
}

// ParseNamesFile reads and parses a names file from disk.
func ParseNamesFile(path string) (*NamesFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseNames(f)
}
