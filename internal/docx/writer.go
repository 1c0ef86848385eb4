package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docforge-io/docforge/internal/doc"
)

// Write serializes the document tree to a .docx file at path.
func Write(d *doc.Document, path string) error {
	data, err := WriteBytes(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// WriteBytes serializes the document tree to an in-memory .docx archive.
func WriteBytes(d *doc.Document) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	body, err := marshalBody(d)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", body},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize container: %w", err)
	}
	return buf.Bytes(), nil
}

// Write-side XML types. The reader matches elements namespace-agnostically
// by local name; the writer emits explicit w: prefixes.

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wP struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *wPPr    `xml:"w:pPr,omitempty"`
	Runs    []wR
}

type wPPr struct {
	Style *wVal `xml:"w:pStyle,omitempty"`
	Jc    *wVal `xml:"w:jc,omitempty"`
}

type wR struct {
	XMLName xml.Name `xml:"w:r"`
	Props   *wRPr    `xml:"w:rPr,omitempty"`
	Break   *wBr     `xml:"w:br,omitempty"`
	Text    *wT      `xml:"w:t,omitempty"`
}

type wBr struct {
	Type string `xml:"w:type,attr,omitempty"`
}

type wT struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type wRPr struct {
	Fonts     *wFonts   `xml:"w:rFonts,omitempty"`
	Bold      *struct{} `xml:"w:b,omitempty"`
	Italic    *struct{} `xml:"w:i,omitempty"`
	Color     *wVal     `xml:"w:color,omitempty"`
	Size      *wVal     `xml:"w:sz,omitempty"`
	SizeCs    *wVal     `xml:"w:szCs,omitempty"`
	Underline *wVal     `xml:"w:u,omitempty"`
}

type wFonts struct {
	ASCII    string `xml:"w:ascii,attr"`
	HAnsi    string `xml:"w:hAnsi,attr"`
	EastAsia string `xml:"w:eastAsia,attr"`
}

type wTbl struct {
	XMLName xml.Name `xml:"w:tbl"`
	Props   wTblPr   `xml:"w:tblPr"`
	Grid    wTblGrid `xml:"w:tblGrid"`
	Rows    []wTr
}

type wTblPr struct {
	Style *wVal `xml:"w:tblStyle,omitempty"`
}

type wTblGrid struct {
	Cols []wGridCol `xml:"w:gridCol"`
}

type wGridCol struct {
	W string `xml:"w:w,attr"`
}

type wTr struct {
	XMLName xml.Name `xml:"w:tr"`
	Cells   []wTc
}

type wTc struct {
	XMLName    xml.Name `xml:"w:tc"`
	Props      *wTcPr   `xml:"w:tcPr,omitempty"`
	Paragraphs []wP
}

type wTcPr struct {
	GridSpan *wVal    `xml:"w:gridSpan,omitempty"`
	VMerge   *wVMerge `xml:"w:vMerge,omitempty"`
}

type wVMerge struct {
	Val string `xml:"w:val,attr,omitempty"`
}

type wSectPr struct {
	XMLName xml.Name `xml:"w:sectPr"`
	PgMar   wPgMar   `xml:"w:pgMar"`
}

type wPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
}

// marshalBody renders word/document.xml: each block in order, then the
// section properties.
func marshalBody(d *doc.Document) (string, error) {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `"><w:body>`)

	for i := range d.Blocks {
		b := &d.Blocks[i]
		var el interface{}
		switch b.Type {
		case doc.BlockTypeParagraph:
			el = fromParagraph(b.Paragraph)
		case doc.BlockTypePageBreak:
			el = wP{Runs: []wR{{Break: &wBr{Type: "page"}}}}
		case doc.BlockTypeTable:
			tbl, err := fromTable(b.Table)
			if err != nil {
				return "", err
			}
			el = tbl
		}
		frag, err := xml.Marshal(el)
		if err != nil {
			return "", fmt.Errorf("failed to marshal block %d: %w", i, err)
		}
		sb.Write(frag)
	}

	sect, err := xml.Marshal(wSectPr{PgMar: wPgMar{
		Top:    d.Margins.Top,
		Right:  d.Margins.Right,
		Bottom: d.Margins.Bottom,
		Left:   d.Margins.Left,
	}})
	if err != nil {
		return "", err
	}
	sb.Write(sect)

	sb.WriteString(`</w:body></w:document>`)
	return sb.String(), nil
}

func fromParagraph(p *doc.Paragraph) wP {
	out := wP{Props: fromParagraphStyle(p.Style)}
	for i := range p.Runs {
		out.Runs = append(out.Runs, fromRun(&p.Runs[i]))
	}
	return out
}

func fromParagraphStyle(s doc.ParagraphStyle) *wPPr {
	props := &wPPr{}
	switch {
	case s.HeadingLevel > 0:
		props.Style = &wVal{Val: "Heading" + strconv.Itoa(s.HeadingLevel)}
	case s.StyleName != "" && s.StyleName != "Normal":
		props.Style = &wVal{Val: s.StyleName}
	}
	if jc := fromAlignment(s.Alignment); jc != "" {
		props.Jc = &wVal{Val: jc}
	}
	if props.Style == nil && props.Jc == nil {
		return nil
	}
	return props
}

func fromAlignment(a doc.Alignment) string {
	switch a {
	case doc.AlignLeft:
		return "left"
	case doc.AlignCenter:
		return "center"
	case doc.AlignRight:
		return "right"
	case doc.AlignJustify:
		return "both"
	default:
		return ""
	}
}

func fromRun(r *doc.Run) wR {
	out := wR{Props: fromTextStyle(r.Style)}
	t := &wT{Text: r.Text}
	if r.Text != strings.TrimSpace(r.Text) {
		t.Space = "preserve"
	}
	out.Text = t
	return out
}

func fromTextStyle(s doc.TextStyle) *wRPr {
	props := &wRPr{}
	empty := true
	if s.FontName != "" {
		props.Fonts = &wFonts{ASCII: s.FontName, HAnsi: s.FontName, EastAsia: s.FontName}
		empty = false
	}
	if s.Bold {
		props.Bold = &struct{}{}
		empty = false
	}
	if s.Italic {
		props.Italic = &struct{}{}
		empty = false
	}
	if s.Color != "" {
		props.Color = &wVal{Val: strings.TrimPrefix(s.Color, "#")}
		empty = false
	}
	if s.FontSize > 0 {
		half := strconv.Itoa(s.FontSize * 2)
		props.Size = &wVal{Val: half}
		props.SizeCs = &wVal{Val: half}
		empty = false
	}
	if s.Underline {
		props.Underline = &wVal{Val: "single"}
		empty = false
	}
	if empty {
		return nil
	}
	return props
}

// fromTable serializes the span-accounted grid back to OOXML conventions:
// horizontally covered positions disappear behind the anchor's gridSpan,
// vertically covered rows keep a cell carrying vMerge.
func fromTable(t *doc.Table) (wTbl, error) {
	out := wTbl{Grid: wTblGrid{Cols: make([]wGridCol, t.Cols)}}
	if t.Style != "" {
		out.Props.Style = &wVal{Val: t.Style}
	}
	for i := range out.Grid.Cols {
		out.Grid.Cols[i] = wGridCol{W: "2400"}
	}

	for r := range t.Rows {
		row := wTr{}
		for c := 0; c < t.Cols; {
			cell := &t.Rows[r].Cells[c]
			if !cell.Covered {
				tc := wTc{Paragraphs: cellParagraphs(cell)}
				props := &wTcPr{}
				if cell.ColSpan > 1 {
					props.GridSpan = &wVal{Val: strconv.Itoa(cell.ColSpan)}
				}
				if cell.RowSpan > 1 {
					props.VMerge = &wVMerge{Val: "restart"}
				}
				if props.GridSpan != nil || props.VMerge != nil {
					tc.Props = props
				}
				row.Cells = append(row.Cells, tc)
				c += cell.ColSpan
				continue
			}
			ar, ac, err := findAnchor(t, r, c)
			if err != nil {
				return wTbl{}, err
			}
			if ar == r {
				// Horizontal leftover; swallowed by the anchor's gridSpan.
				c++
				continue
			}
			// Vertical continuation row for the anchor at (ar, ac).
			anchor := &t.Rows[ar].Cells[ac]
			tc := wTc{
				Props:      &wTcPr{VMerge: &wVMerge{}},
				Paragraphs: []wP{{}},
			}
			if anchor.ColSpan > 1 {
				tc.Props.GridSpan = &wVal{Val: strconv.Itoa(anchor.ColSpan)}
			}
			row.Cells = append(row.Cells, tc)
			c += anchor.ColSpan
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func cellParagraphs(cell *doc.Cell) []wP {
	var out []wP
	for _, p := range cell.Paragraphs {
		out = append(out, fromParagraph(p))
	}
	if len(out) == 0 {
		// A cell must always contain at least one paragraph.
		out = []wP{{}}
	}
	return out
}

// findAnchor locates the span anchor covering grid position (r, c).
func findAnchor(t *doc.Table, r, c int) (int, int, error) {
	for i := r; i >= 0; i-- {
		for j := c; j >= 0; j-- {
			cell := &t.Rows[i].Cells[j]
			if cell.Covered {
				continue
			}
			if i+cell.RowSpan > r && j+cell.ColSpan > c {
				return i, j, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: no anchor covers cell (%d,%d)", doc.ErrMalformedDocument, r, c)
}

// Static package parts. Styles cover the named styles the model emits:
// Normal, Heading 1-9 and Table Grid.
const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

var stylesXML = buildStylesXML()

func buildStylesXML() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:styles xmlns:w="` + nsW + `">`)
	sb.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	for level := 1; level <= 9; level++ {
		n := strconv.Itoa(level)
		sz := strconv.Itoa(2 * (20 - level)) // heading sizes taper from 19pt down
		sb.WriteString(`<w:style w:type="paragraph" w:styleId="Heading` + n + `">`)
		sb.WriteString(`<w:name w:val="heading ` + n + `"/><w:basedOn w:val="Normal"/>`)
		sb.WriteString(`<w:pPr><w:outlineLvl w:val="` + strconv.Itoa(level-1) + `"/></w:pPr>`)
		sb.WriteString(`<w:rPr><w:b/><w:sz w:val="` + sz + `"/></w:rPr>`)
		sb.WriteString(`</w:style>`)
	}
	sb.WriteString(`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/></w:style>`)
	sb.WriteString(`</w:styles>`)
	return sb.String()
}
