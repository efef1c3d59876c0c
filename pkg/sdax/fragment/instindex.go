package fragment

import (
	"os"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ascii"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/geom"
)

// IndexRecord is one row of a per-block instance index file: the placement
// of one local instance on one of the block's pages.
type IndexRecord struct {
	LocalID  design.LocalInstanceID
	PageFile int
	Graphics design.GraphicsObjectID
}

// ParseInstanceIndex parses an instindex.ascii file. Records are INST /
// PAGE / GOID property triplets in the shared ascii property stream; a
// triplet missing its GOID is dropped. The PAGE field is carried through
// for diagnostics but never used for page resolution, which goes through
// the graphics object's host file instead.
func ParseInstanceIndex(content string) []IndexRecord {
	props := ascii.ScanProps(content)

	var records []IndexRecord
	var cur *IndexRecord
	for _, p := range props {
		switch p.Name {
		case "INST":
			if cur != nil && cur.Graphics != "" {
				records = append(records, *cur)
			}
			cur = &IndexRecord{LocalID: design.LocalInstanceID(p.Value)}
		case "PAGE":
			if cur != nil {
				cur.PageFile = atoiDefault(p.Value, 0)
			}
		case "GOID":
			if cur != nil {
				cur.Graphics = design.GraphicsObjectID(p.Value)
			}
		}
	}
	if cur != nil && cur.Graphics != "" {
		records = append(records, *cur)
	}
	return records
}

// ParseInstanceIndexFile reads an instance index file and converts its
// records to stage-1 link records for the given block.
func ParseInstanceIndexFile(path string, block design.BlockName) ([]geom.LinkRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &design.SkippableFileError{File: path, Err: err}
	}

	records := ParseInstanceIndex(string(raw))
	links := make([]geom.LinkRecord, 0, len(records))
	for _, rec := range records {
		links = append(links, geom.LinkRecord{
			Block:    block,
			LocalID:  rec.LocalID,
			Graphics: rec.Graphics,
		})
	}
	return links, nil
}
