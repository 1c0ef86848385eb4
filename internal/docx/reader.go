// Package docx reads and writes the OOXML (.docx) container: a zip archive
// holding word/document.xml plus package plumbing. Only the parts the model
// covers are mapped: paragraphs, runs with inline formatting, heading
// styles, alignment, tables with merge spans, page breaks and page margins.
// Everything is loaded into and written from the doc package's tree; the
// codec holds no state between calls.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/docforge-io/docforge/internal/doc"
)

// ErrLegacyFormat indicates an OLE compound-file container (the binary .doc
// format), which this codec does not read.
var ErrLegacyFormat = errors.New("docx: legacy binary .doc format is not supported, convert to .docx first")

// Read parses a .docx file into a document tree.
func Read(path string) (*doc.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	d, err := ReadBytes(data)
	if err != nil && isCompoundFile(data) {
		// A zip failure on an OLE compound file means the caller handed us
		// a legacy binary .doc; report that distinctly.
		return nil, fmt.Errorf("%w: %s", ErrLegacyFormat, path)
	}
	return d, err
}

// ReadBytes parses an in-memory .docx archive.
func ReadBytes(data []byte) (*doc.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx container: %w", err)
	}

	raw, err := fileContent(zr, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", doc.ErrMalformedDocument, err)
	}
	var parsed documentXML
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing word/document.xml: %v", doc.ErrMalformedDocument, err)
	}

	d := doc.NewDocument()
	for _, el := range parsed.Body.Elements {
		switch {
		case el.Paragraph != nil:
			if isPageBreak(el.Paragraph) {
				d.AddPageBreak()
				continue
			}
			d.AddParagraph(toParagraph(el.Paragraph))
		case el.Table != nil:
			t, err := toTable(el.Table)
			if err != nil {
				return nil, err
			}
			d.AddTable(t)
		}
	}
	if parsed.Body.SectPr != nil && parsed.Body.SectPr.PgMar != nil {
		applyMargins(d, parsed.Body.SectPr.PgMar)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// isCompoundFile sniffs the OLE compound-file container that the legacy
// .doc format uses.
func isCompoundFile(data []byte) bool {
	_, err := mscfb.New(bytes.NewReader(data))
	return err == nil
}

// fileContent reads one named part out of the archive.
func fileContent(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("missing required part: %s", name)
}

// isPageBreak reports whether the paragraph is nothing but a page break.
func isPageBreak(p *paragraphXML) bool {
	sawBreak := false
	for _, r := range p.Runs {
		for _, t := range r.Texts {
			if strings.TrimSpace(t.Value) != "" {
				return false
			}
		}
		for _, br := range r.Breaks {
			if br.Type == "page" {
				sawBreak = true
			}
		}
	}
	return sawBreak
}

func toParagraph(p *paragraphXML) *doc.Paragraph {
	out := doc.NewParagraph("")
	if p.Props != nil {
		if p.Props.Style != nil {
			out.Style.StyleName = p.Props.Style.Val
			out.Style.HeadingLevel = headingLevel(p.Props.Style.Val)
		}
		if p.Props.Justification != nil {
			out.Style.Alignment = toAlignment(p.Props.Justification.Val)
		}
	}
	for _, r := range p.Runs {
		var sb strings.Builder
		for _, t := range r.Texts {
			sb.WriteString(t.Value)
		}
		if sb.Len() == 0 {
			continue
		}
		out.AddRun(sb.String(), toTextStyle(r.Props))
	}
	return out
}

// headingLevel extracts the level from style ids like "Heading1".
func headingLevel(styleID string) int {
	if !strings.HasPrefix(styleID, "Heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(styleID, "Heading"))
	if err != nil || n < 1 || n > 9 {
		return 0
	}
	return n
}

func toAlignment(jc string) doc.Alignment {
	switch jc {
	case "left", "start":
		return doc.AlignLeft
	case "center":
		return doc.AlignCenter
	case "right", "end":
		return doc.AlignRight
	case "both", "distribute":
		return doc.AlignJustify
	default:
		return doc.AlignDefault
	}
}

func toTextStyle(props *runPropsXML) doc.TextStyle {
	var s doc.TextStyle
	if props == nil {
		return s
	}
	s.Bold = props.Bold.On()
	s.Italic = props.Italic.On()
	s.Underline = props.Underline != nil && props.Underline.Val != "none"
	if props.Color != nil && props.Color.Val != "" && props.Color.Val != "auto" {
		s.Color = "#" + strings.ToUpper(props.Color.Val)
	}
	if props.Size != nil {
		if half, err := strconv.Atoi(props.Size.Val); err == nil {
			s.FontSize = half / 2
		}
	}
	if props.Fonts != nil {
		s.FontName = props.Fonts.ASCII
		if s.FontName == "" {
			s.FontName = props.Fonts.EastAsia
		}
	}
	return s
}

// gridSlot is one grid position while rebuilding a table's span accounting.
type gridSlot struct {
	paras    []*doc.Paragraph
	colSpan  int
	covered  bool
	vRestart bool
	vCont    bool
}

// toTable rebuilds the span-accounted grid from the serialized form, where
// a horizontal merge omits the swallowed cells (gridSpan) and a vertical
// merge marks continuation cells with vMerge.
func toTable(t *tableXML) (*doc.Table, error) {
	cols := 0
	if t.Grid != nil {
		cols = len(t.Grid.Cols)
	}

	grid := make([][]gridSlot, len(t.TRows))
	for r, tr := range t.TRows {
		var row []gridSlot
		for _, tc := range tr.Cells {
			span := 1
			vRestart, vCont := false, false
			if tc.Props != nil {
				if tc.Props.GridSpan != nil {
					if n, err := strconv.Atoi(tc.Props.GridSpan.Val); err == nil && n > 1 {
						span = n
					}
				}
				if tc.Props.VMerge != nil {
					if tc.Props.VMerge.Val == "restart" {
						vRestart = true
					} else {
						vCont = true
					}
				}
			}
			var paras []*doc.Paragraph
			for i := range tc.Paragraphs {
				paras = append(paras, toParagraph(&tc.Paragraphs[i]))
			}
			if len(paras) == 0 {
				paras = []*doc.Paragraph{doc.NewParagraph("")}
			}
			row = append(row, gridSlot{paras: paras, colSpan: span, vRestart: vRestart, vCont: vCont})
			for k := 1; k < span; k++ {
				row = append(row, gridSlot{covered: true, vCont: vCont})
			}
		}
		grid[r] = row
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil, fmt.Errorf("%w: table with no columns", doc.ErrMalformedDocument)
	}

	out := &doc.Table{Cols: cols}
	if t.Props != nil && t.Props.Style != nil {
		out.Style = t.Props.Style.Val
	}
	for r := range grid {
		row := doc.Row{Cells: make([]doc.Cell, cols)}
		for c := 0; c < cols; c++ {
			if c >= len(grid[r]) {
				// Short rows are padded to keep the grid rectangular.
				row.Cells[c] = doc.Cell{Paragraphs: []*doc.Paragraph{doc.NewParagraph("")}, RowSpan: 1, ColSpan: 1}
				continue
			}
			s := grid[r][c]
			cell := doc.Cell{RowSpan: 1, ColSpan: 1}
			switch {
			case s.covered || s.vCont:
				cell.Covered = true
				cell.Paragraphs = []*doc.Paragraph{doc.NewParagraph("")}
			default:
				cell.Paragraphs = s.paras
				cell.ColSpan = s.colSpan
				if s.vRestart {
					cell.RowSpan = verticalExtent(grid, r, c)
				}
			}
			row.Cells[c] = cell
		}
		out.Rows = append(out.Rows, row)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// verticalExtent counts the rows a vertical merge anchored at (r, c) spans.
func verticalExtent(grid [][]gridSlot, r, c int) int {
	span := 1
	for i := r + 1; i < len(grid); i++ {
		if c >= len(grid[i]) || !grid[i][c].vCont {
			break
		}
		span++
	}
	return span
}

func applyMargins(d *doc.Document, m *pgMarXML) {
	if v, err := strconv.Atoi(m.Top); err == nil {
		d.Margins.Top = v
	}
	if v, err := strconv.Atoi(m.Bottom); err == nil {
		d.Margins.Bottom = v
	}
	if v, err := strconv.Atoi(m.Left); err == nil {
		d.Margins.Left = v
	}
	if v, err := strconv.Atoi(m.Right); err == nil {
		d.Margins.Right = v
	}
}
