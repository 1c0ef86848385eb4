package docx

import "encoding/xml"

// XML namespaces used in DOCX packages.
const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// documentXML represents word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

// bodyXML is the document body. Paragraphs and tables must keep their
// document order, which a plain struct unmarshal would lose, so the element
// list is decoded manually.
type bodyXML struct {
	Elements []bodyElement
	SectPr   *sectPrXML
}

// bodyElement is one ordered body child: a paragraph or a table.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// UnmarshalXML decodes body children in order.
func (b *bodyXML) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := dec.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Paragraph: &p})
			case "tbl":
				var tbl tableXML
				if err := dec.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Table: &tbl})
			case "sectPr":
				var s sectPrXML
				if err := dec.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.SectPr = &s
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	Props *paragraphPropsXML `xml:"pPr"`
	Runs  []runXML           `xml:"r"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         *valXML `xml:"pStyle"`
	Justification *valXML `xml:"jc"`
}

// valXML is the common single-attribute value element.
type valXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Props  *runPropsXML `xml:"rPr"`
	Texts  []textXML    `xml:"t"`
	Breaks []breakXML   `xml:"br"`
}

// textXML represents literal run text (<w:t>).
type textXML struct {
	Space string `xml:"space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// breakXML represents a line or page break (<w:br>).
type breakXML struct {
	Type string `xml:"type,attr"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold      *toggleXML `xml:"b"`
	Italic    *toggleXML `xml:"i"`
	Underline *valXML    `xml:"u"`
	Color     *valXML    `xml:"color"`
	Size      *valXML    `xml:"sz"` // half-points
	Fonts     *fontsXML  `xml:"rFonts"`
}

// toggleXML is an on/off property; absence means off, presence without a
// val attribute means on.
type toggleXML struct {
	Val string `xml:"val,attr"`
}

// On reports whether a present toggle is enabled.
func (t *toggleXML) On() bool {
	return t != nil && t.Val != "false" && t.Val != "0"
}

// fontsXML represents run font selection (<w:rFonts>).
type fontsXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

// tableXML represents a table element (<w:tbl>).
type tableXML struct {
	Props *tblPrXML   `xml:"tblPr"`
	Grid  *tblGridXML `xml:"tblGrid"`
	TRows []trXML     `xml:"tr"`
}

// tblPrXML represents table properties (<w:tblPr>).
type tblPrXML struct {
	Style *valXML `xml:"tblStyle"`
}

// tblGridXML declares the table's column grid.
type tblGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

type gridColXML struct {
	W string `xml:"w,attr"`
}

// trXML represents a table row (<w:tr>).
type trXML struct {
	Cells []tcXML `xml:"tc"`
}

// tcXML represents a table cell (<w:tc>).
type tcXML struct {
	Props      *tcPrXML       `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
}

// tcPrXML represents cell properties (<w:tcPr>). GridSpan is the horizontal
// span; VMerge carries "restart" on the anchor of a vertical merge and is
// present without a value on continuation cells.
type tcPrXML struct {
	GridSpan *valXML    `xml:"gridSpan"`
	VMerge   *vMergeXML `xml:"vMerge"`
}

type vMergeXML struct {
	Val string `xml:"val,attr"`
}

// sectPrXML represents section properties (<w:sectPr>).
type sectPrXML struct {
	PgMar *pgMarXML `xml:"pgMar"`
}

// pgMarXML represents page margins in twips (<w:pgMar>).
type pgMarXML struct {
	Top    string `xml:"top,attr"`
	Bottom string `xml:"bottom,attr"`
	Left   string `xml:"left,attr"`
	Right  string `xml:"right,attr"`
}
