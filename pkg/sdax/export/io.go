package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
)

// snappy framing format stream identifier; the first bytes of any framed
// snappy file.
var snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")

// Write serializes the document as indented JSON to w.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// WriteFile writes the document to path, snappy-compressed when compress is
// set. The file is written atomically via a temporary sibling so a failed
// run never leaves a truncated document behind.
func WriteFile(path string, doc *Document, compress bool) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sdax-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	var sw *snappy.Writer
	if compress {
		sw = snappy.NewBufferedWriter(tmp)
		w = sw
	}

	if err := Write(w, doc); err != nil {
		tmp.Close()
		return err
	}
	if sw != nil {
		if err := sw.Close(); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to flush compressed output: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move document into place: %w", err)
	}
	return nil
}

// Load reads a document from r, sniffing the snappy framing magic so both
// plain and compressed documents load transparently.
func Load(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(snappyMagic))
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read document header: %w", err)
	}

	var src io.Reader = br
	if bytes.HasPrefix(head, snappyMagic) {
		src = snappy.NewReader(br)
	}

	var doc Document
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads a document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	return Load(f)
}
