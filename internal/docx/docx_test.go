package docx

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/docforge-io/docforge/internal/doc"
)

func roundTrip(t *testing.T, d *doc.Document) *doc.Document {
	t.Helper()
	data, err := WriteBytes(d)
	if err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	got, err := ReadBytes(data)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	return got
}

func TestRoundTrip_Paragraphs(t *testing.T) {
	d := doc.NewDocument()
	d.AddParagraph(doc.NewHeading("Title", 1))
	d.AddParagraph(doc.NewParagraph("plain text"))
	centered := doc.NewParagraph("centered")
	centered.Style.Alignment = doc.AlignCenter
	d.AddParagraph(centered)

	got := roundTrip(t, d)

	paras := got.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	if paras[0].Text() != "Title" || paras[0].Style.HeadingLevel != 1 {
		t.Errorf("heading did not round-trip: %q level %d", paras[0].Text(), paras[0].Style.HeadingLevel)
	}
	if paras[0].Style.StyleName != "Heading1" {
		t.Errorf("expected style Heading1, got %q", paras[0].Style.StyleName)
	}
	if paras[1].Text() != "plain text" {
		t.Errorf("expected 'plain text', got %q", paras[1].Text())
	}
	if paras[2].Style.Alignment != doc.AlignCenter {
		t.Errorf("expected centered alignment, got %q", paras[2].Style.Alignment)
	}
}

func TestRoundTrip_RunFormatting(t *testing.T) {
	d := doc.NewDocument()
	p := doc.NewParagraph("")
	p.AddRun("styled", doc.TextStyle{
		Bold:      true,
		Italic:    true,
		Underline: true,
		Color:     "#FF8800",
		FontSize:  14,
		FontName:  "Courier New",
	})
	p.AddRun(" and plain", doc.TextStyle{})
	d.AddParagraph(p)

	got := roundTrip(t, d)

	runs := got.Paragraphs()[0].Runs
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	want := doc.TextStyle{Bold: true, Italic: true, Underline: true, Color: "#FF8800", FontSize: 14, FontName: "Courier New"}
	if runs[0].Style != want {
		t.Errorf("expected %+v, got %+v", want, runs[0].Style)
	}
	if runs[1].Style != (doc.TextStyle{}) {
		t.Errorf("expected plain style, got %+v", runs[1].Style)
	}
	if runs[1].Text != " and plain" {
		t.Errorf("leading space lost: %q", runs[1].Text)
	}
}

func TestRoundTrip_PageBreakAndMargins(t *testing.T) {
	d := doc.NewDocument()
	d.AddParagraph(doc.NewParagraph("page one"))
	d.AddPageBreak()
	d.AddParagraph(doc.NewParagraph("page two"))
	d.Margins = doc.Margins{Top: 1134, Bottom: 1134, Left: 1701, Right: 850}

	got := roundTrip(t, d)

	if len(got.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(got.Blocks))
	}
	if got.Blocks[1].Type != doc.BlockTypePageBreak {
		t.Errorf("expected page break block, got %s", got.Blocks[1].Type)
	}
	if got.Margins != d.Margins {
		t.Errorf("expected margins %+v, got %+v", d.Margins, got.Margins)
	}
}

func TestRoundTrip_Table(t *testing.T) {
	d := doc.NewDocument()
	table := doc.NewTable(2, 3)
	table.Style = "TableGrid"
	table.Rows[0].Cells[0].SetText("h1")
	table.Rows[0].Cells[1].SetText("h2")
	table.Rows[0].Cells[2].SetText("h3")
	table.Rows[1].Cells[0].SetText("a")
	d.AddTable(table)

	got := roundTrip(t, d)

	tables := got.Tables()
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	tbl := tables[0]
	if tbl.RowCount() != 2 || tbl.Cols != 3 {
		t.Fatalf("expected 2x3 table, got %dx%d", tbl.RowCount(), tbl.Cols)
	}
	if tbl.Style != "TableGrid" {
		t.Errorf("expected style TableGrid, got %q", tbl.Style)
	}
	cell, _ := tbl.Cell(0, 1)
	if cell.Text() != "h2" {
		t.Errorf("expected 'h2', got %q", cell.Text())
	}
	if err := tbl.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRoundTrip_HorizontalMerge(t *testing.T) {
	d := doc.NewDocument()
	table := doc.NewTable(2, 3)
	table.Rows[0].Cells[0].SetText("wide")
	table.Rows[0].Cells[0].ColSpan = 3
	table.Rows[0].Cells[1].Covered = true
	table.Rows[0].Cells[2].Covered = true
	table.Rows[1].Cells[1].SetText("mid")
	d.AddTable(table)

	got := roundTrip(t, d)

	tbl := got.Tables()[0]
	if tbl.Cols != 3 {
		t.Fatalf("expected 3 columns, got %d", tbl.Cols)
	}
	anchor, _ := tbl.Cell(0, 0)
	if anchor.ColSpan != 3 || anchor.Text() != "wide" {
		t.Errorf("expected colspan 3 'wide', got span %d %q", anchor.ColSpan, anchor.Text())
	}
	for c := 1; c < 3; c++ {
		cell, _ := tbl.Cell(0, c)
		if !cell.Covered {
			t.Errorf("expected (0,%d) covered", c)
		}
	}
	mid, _ := tbl.Cell(1, 1)
	if mid.Text() != "mid" {
		t.Errorf("expected 'mid', got %q", mid.Text())
	}
}

func TestRoundTrip_VerticalMerge(t *testing.T) {
	d := doc.NewDocument()
	table := doc.NewTable(3, 2)
	table.Rows[0].Cells[0].SetText("tall")
	table.Rows[0].Cells[0].RowSpan = 2
	table.Rows[1].Cells[0].Covered = true
	table.Rows[2].Cells[0].SetText("below")
	d.AddTable(table)

	got := roundTrip(t, d)

	tbl := got.Tables()[0]
	anchor, _ := tbl.Cell(0, 0)
	if anchor.RowSpan != 2 || anchor.Text() != "tall" {
		t.Errorf("expected rowspan 2 'tall', got span %d %q", anchor.RowSpan, anchor.Text())
	}
	covered, _ := tbl.Cell(1, 0)
	if !covered.Covered {
		t.Error("expected (1,0) covered")
	}
	below, _ := tbl.Cell(2, 0)
	if below.Covered || below.Text() != "below" {
		t.Errorf("row below the merge wrong: %+v", below)
	}
	if err := tbl.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRoundTrip_RectangularMerge(t *testing.T) {
	d := doc.NewDocument()
	table := doc.NewTable(3, 3)
	table.Rows[0].Cells[0].SetText("block")
	table.Rows[0].Cells[0].RowSpan = 2
	table.Rows[0].Cells[0].ColSpan = 2
	table.Rows[0].Cells[1].Covered = true
	table.Rows[1].Cells[0].Covered = true
	table.Rows[1].Cells[1].Covered = true
	d.AddTable(table)

	got := roundTrip(t, d)

	tbl := got.Tables()[0]
	anchor, _ := tbl.Cell(0, 0)
	if anchor.RowSpan != 2 || anchor.ColSpan != 2 {
		t.Errorf("expected 2x2 span, got %dx%d", anchor.RowSpan, anchor.ColSpan)
	}
	if err := tbl.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWriteRead_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")

	d := doc.NewDocument()
	d.AddParagraph(doc.NewHeading("Saved", 2))
	if err := Write(d, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Paragraphs()[0].Text() != "Saved" {
		t.Errorf("expected 'Saved', got %q", got.Paragraphs()[0].Text())
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.docx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadBytes_NotAZip(t *testing.T) {
	if _, err := ReadBytes([]byte("this is not a docx")); err == nil {
		t.Error("expected error for non-zip input")
	}
}

func TestReadBytes_MissingDocumentPart(t *testing.T) {
	// A valid zip with no word/document.xml.
	data := buildZip(t, map[string]string{"hello.txt": "hi"})
	if _, err := ReadBytes(data); err == nil {
		t.Error("expected error for archive without word/document.xml")
	}
}

func TestWriteBytes_RejectsInvalidTree(t *testing.T) {
	d := doc.NewDocument()
	bad := doc.NewTable(1, 2)
	bad.Rows[0].Cells[1].Covered = true // no anchor spans it
	d.AddTable(bad)

	if _, err := WriteBytes(d); err == nil {
		t.Error("expected error for inconsistent grid")
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		styleID string
		want    int
	}{
		{"Heading1", 1},
		{"Heading9", 9},
		{"Heading10", 0},
		{"Heading", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := headingLevel(tt.styleID); got != tt.want {
			t.Errorf("headingLevel(%q): expected %d, got %d", tt.styleID, tt.want, got)
		}
	}
}

func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.Bytes()
}
