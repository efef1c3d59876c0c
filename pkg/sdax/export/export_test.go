package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/fragment"
)

func sampleDocument() *Document {
	return &Document{
		Project:    "brain_board",
		GridConfig: design.DefaultGridConfig(),
		Statistics: NewStatistics(time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)),
		Pages: []design.Page{
			{Number: 1, Title: "Power Supply", SourceBlock: "brain_board", Origin: design.OriginBottomLeft},
		},
		Primitives: []design.PrimitiveElement{
			{ElementID: "wire_1", SequenceIndex: 1, Kind: design.KindLine, ShapeType: "wire", PageNumber: 1, Block: "brain_board", Points: []design.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
		},
		Styles: design.StyleTable{"Style1": design.DefaultStyle()},
		Nets:   map[string]NetEntry{},
		Cells:  map[string]CellEntry{},
	}
}

func TestDocumentKeyContract(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDocument()))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	for _, key := range []string{
		"project", "grid_config", "statistics", "pages", "primitives",
		"styles", "symbol_library", "instances", "components_flat",
		"hierarchy", "nets", "cells",
	} {
		assert.Contains(t, raw, key)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.json")
	require.NoError(t, WriteFile(path, sampleDocument(), false))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "brain_board", doc.Project)
	require.Len(t, doc.Primitives, 1)
	assert.Equal(t, 1, doc.Primitives[0].SequenceIndex, "sequence index survives export")
}

func TestWriteLoadCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.json.sz")
	require.NoError(t, WriteFile(path, sampleDocument(), true))

	// The loader sniffs the framing magic; no flag needed.
	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "brain_board", doc.Project)
	assert.Equal(t, 1, doc.Pages[0].Number)
}

func TestBuildInstances(t *testing.T) {
	symbols := fragment.SymbolLibrary{
		"ic##usb3320_ulpi_xcvr##sym_1": &design.SymbolDefinition{
			Key:         design.SymbolKey{Library: "ic", PartName: "usb3320_ulpi_xcvr"},
			Lines:       []design.SymbolLine{{Points: []design.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}},
			Pins:        []design.SymbolPin{{Number: "1"}, {Number: "2"}},
			BoundingBox: &design.BoundingBox{MaxX: 10, Width: 10},
		},
	}
	components := []*design.ComponentInstance{
		{
			RefDes: "U7", Library: "ic", PartName: "usb3320_ulpi_xcvr",
			SymbolRevision: "sym_1", Block: "brain_board", LocalID: "100",
			Position: &design.Position{X: 5, Y: 6, Page: 2},
		},
		{RefDes: "TP1", Library: "misc", PartName: "testpoint", SymbolRevision: "sym_1"},
	}

	entries := BuildInstances(components, symbols)
	require.Len(t, entries, 2)

	u7 := entries[0]
	assert.True(t, u7.HasGraphics)
	assert.True(t, u7.HasPosition)
	assert.Equal(t, "ic##usb3320_ulpi_xcvr", u7.SymbolCacheKey)
	assert.Equal(t, 2, u7.PinCount)
	assert.Equal(t, 2, u7.PageNumber)

	tp := entries[1]
	assert.False(t, tp.HasGraphics, "missing symbol is an explicit flag, not an empty struct")
	assert.False(t, tp.HasPosition)
}

func TestBuildNets(t *testing.T) {
	nets := []*design.Net{
		{
			ID: "N1", Name: "VDD_3V3", Scope: "global",
			Blocks:      map[design.BlockName]bool{"usb_phy": true, "brain_board": true},
			Connections: []design.NetConnection{{RefDes: "U7", Pin: "VDDIO", Resolved: true}},
		},
	}
	out := BuildNets(nets)
	require.Contains(t, out, "VDD_3V3")
	assert.Equal(t, []design.BlockName{"brain_board", "usb_phy"}, out["VDD_3V3"].Blocks)
	assert.Len(t, out["VDD_3V3"].Connections, 1)
}

func TestNewStatisticsRunID(t *testing.T) {
	a := NewStatistics(time.Now())
	b := NewStatistics(time.Now())
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.NotEmpty(t, a.ExtractionDate)
}
