package fragment

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

const sampleTOC = `<n pageBorderStandard n/>  < 1 />  < 4 />  <v ANSI v/>
<n pageBorderSize n/>  < 1 />  < 1 />  <v C v/>
< 9 /> 0 0 80 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>Sheet</span></p></body></html>
< 9 /> 0 1 80 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>Title</span></p></body></html>
< 9 /> 1 0 160 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><a href="goto:pageuid=1&amp;path=@worklib.brain_board(tbl_1)"><span>1</span></a></p></body></html>
< 9 /> 1 1 120 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>Power Supply</span></p></body></html>
< 9 /> 1 2 120 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>top</span></p></body></html>
< 9 /> 2 0 160 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><a href="goto:pageuid=2&amp;path=@worklib.usb_phy(tbl_1)"><span>2</span></a></p></body></html>
< 9 /> 2 1 120 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>USB Interface</span></p></body></html>
< 9 /> 2 2 120 <!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.0//EN"><html><body><p><span>top.usb_phy</span></p></body></html>
`

func TestParseTOC(t *testing.T) {
	toc, err := ParseTOC(sampleTOC)
	if err != nil {
		t.Fatalf("ParseTOC() error = %v", err)
	}

	if toc.SizeCode != "C" || toc.Standard != "ANSI" {
		t.Errorf("size = %s %s, want ANSI C", toc.Standard, toc.SizeCode)
	}
	if toc.Size.Width != 22000 {
		t.Errorf("page width = %d, want 22000 mils", toc.Size.Width)
	}

	if len(toc.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 (header row skipped)", len(toc.Entries))
	}

	e := toc.Entries[0]
	if e.SheetNo != "1" || e.Title != "Power Supply" {
		t.Errorf("entry 0 = %q %q", e.SheetNo, e.Title)
	}
	if e.Block != "brain_board" || e.FileIndex != 1 || e.PageUID != "1" {
		t.Errorf("entry 0 link = block %q file %d uid %q", e.Block, e.FileIndex, e.PageUID)
	}

	e = toc.Entries[1]
	if e.Block != "usb_phy" || e.FileIndex != 2 {
		t.Errorf("entry 1 link = block %q file %d", e.Block, e.FileIndex)
	}
	if e.BlockPath != "top.usb_phy" {
		t.Errorf("entry 1 block path = %q", e.BlockPath)
	}
}

func TestTOCPages(t *testing.T) {
	toc, err := ParseTOC(sampleTOC)
	if err != nil {
		t.Fatalf("ParseTOC() error = %v", err)
	}

	pages := toc.Pages()
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if pages[0].Number != 1 || pages[1].Number != 2 {
		t.Errorf("page numbers = %d %d, want 1-based sequence", pages[0].Number, pages[1].Number)
	}
	if pages[0].Origin != design.OriginBottomLeft {
		t.Errorf("origin = %v, want bottom_left", pages[0].Origin)
	}
	if pages[1].SourceBlock != "usb_phy" {
		t.Errorf("page 2 block = %q, want usb_phy", pages[1].SourceBlock)
	}
}

func TestParseTOCNoRows(t *testing.T) {
	if _, err := ParseTOC("<n pageBorderSize n/> < 1 /> < 1 /> <v B v/>"); err == nil {
		t.Fatal("ParseTOC() with no data rows should error")
	}
}

func TestPageSizeForUnknownCode(t *testing.T) {
	s := PageSizeFor("Z")
	if s.Width != 17000 || s.Height != 11000 {
		t.Errorf("unknown code size = %+v, want ANSI B fallback", s)
	}
}
