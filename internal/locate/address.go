// Package locate resolves logical queries (paragraph index, heading text,
// keyword, table coordinates, section bounds) against a document snapshot,
// producing transient node addresses. Addresses record the tree revision
// they were resolved at; any structural mutation invalidates them and the
// caller must re-resolve rather than reuse.
package locate

import (
	"fmt"

	"github.com/docforge-io/docforge/internal/doc"
)

// Kind identifies the node class an address points at.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindTableCell Kind = "table_cell"
)

// Address is a resolved, snapshot-scoped locator for a model node.
type Address struct {
	Kind      Kind   `json:"kind"`
	Paragraph int    `json:"paragraph,omitempty"`  // body paragraph index
	Table     int    `json:"table,omitempty"`      // table index
	Row       int    `json:"row,omitempty"`        // grid row
	Col       int    `json:"col,omitempty"`        // grid column
	CellPara  int    `json:"cell_para,omitempty"`  // paragraph index within the cell
	Revision  uint64 `json:"-"`
}

// Match pairs an address with the matched span inside the node's text.
type Match struct {
	Addr  Address `json:"addr"`
	Start int     `json:"start"` // byte offset within the node text
	End   int     `json:"end"`
	Text  string  `json:"text"` // full node text at resolution time, for context
}

// Current reports whether the address was resolved against the document's
// current revision.
func (a Address) Current(d *doc.Document) bool {
	return a.Revision == d.Revision()
}

// Check returns ErrStaleAddress when the address predates a structural
// mutation of the document.
func (a Address) Check(d *doc.Document) error {
	if !a.Current(d) {
		return fmt.Errorf("%w: resolved at revision %d, document at %d",
			doc.ErrStaleAddress, a.Revision, d.Revision())
	}
	return nil
}

// ParagraphAddress resolves a body paragraph index to an address.
func ParagraphAddress(d *doc.Document, index int) (Address, error) {
	if _, err := d.Paragraph(index); err != nil {
		return Address{}, err
	}
	return Address{Kind: KindParagraph, Paragraph: index, Revision: d.Revision()}, nil
}

// CellAddress resolves table grid coordinates to an address.
func CellAddress(d *doc.Document, table, row, col int) (Address, error) {
	t, err := d.Table(table)
	if err != nil {
		return Address{}, err
	}
	if _, err := t.Cell(row, col); err != nil {
		return Address{}, err
	}
	return Address{Kind: KindTableCell, Table: table, Row: row, Col: col, Revision: d.Revision()}, nil
}
