package fragment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// PartsFile is a parsed component-definition JSON file. Only objects of
// type "part" are of interest; other object classes (annotations, rooms)
// are skipped by callers.
type PartsFile struct {
	Objects []PartObject `json:"objects"`
}

// PartObject is one design object with its properties and placement
// metadata.
type PartObject struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Meta       PartMeta       `json:"meta"`
}

// PartMeta carries the instance placements of a part object.
type PartMeta struct {
	Instances []PartInstanceRef `json:"instances"`
}

// PartInstanceRef is one placement entry: a named value (the cpath) plus
// per-instance attribute rows.
type PartInstanceRef struct {
	Name  string      `json:"name"`
	Value string      `json:"value"`
	Data  []NameValue `json:"data"`
}

// NameValue is one attribute row of an instance entry.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AttrMap flattens the attribute rows into a map.
func (p PartInstanceRef) AttrMap() map[string]string {
	m := make(map[string]string, len(p.Data))
	for _, nv := range p.Data {
		m[nv.Name] = nv.Value
	}
	return m
}

// StringProperties renders the part's open-ended property values as
// strings. JSON numbers keep their literal form.
func (o PartObject) StringProperties() map[string]string {
	m := make(map[string]string, len(o.Properties))
	for k, v := range o.Properties {
		switch t := v.(type) {
		case string:
			m[k] = t
		case nil:
			m[k] = ""
		case json.Number:
			m[k] = t.String()
		default:
			m[k] = fmt.Sprint(t)
		}
	}
	return m
}

// Library extracts the library name from the CDS_LIBRARY_ID property,
// which may carry a "library:qualifier" suffix.
func (o PartObject) Library() string {
	id, _ := o.Properties["CDS_LIBRARY_ID"].(string)
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i]
	}
	return id
}

// PartName returns the part's name, preferring PART_NAME over
// CDS_PART_NAME.
func (o PartObject) PartName() string {
	if s, ok := o.Properties["PART_NAME"].(string); ok && s != "" {
		return s
	}
	s, _ := o.Properties["CDS_PART_NAME"].(string)
	return s
}

// ParseParts reads a component-definition file from r.
func ParseParts(r io.Reader) (*PartsFile, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var f PartsFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode parts file: %w", err)
	}
	return &f, nil
}

// ParsePartsFile reads and parses a component-definition file from disk.
func ParsePartsFile(path string) (*PartsFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseParts(f)
}
