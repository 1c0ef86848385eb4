package edit

import (
	"fmt"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/locate"
)

// MergeCells merges the axis-aligned rectangle of cells between (r1,c1) and
// (r2,c2) in the given table. The coordinates may arrive in any order; the
// normalized rectangle must cover at least two cells, and every covered
// position must hold a plain unmerged cell. The surviving cell at the
// rectangle's top-left takes the concatenated content of all cells in
// row-major order and spans the rectangle; the remaining grid positions stay
// in the grid marked as covered, so the declared column count is unchanged.
func MergeCells(d *doc.Document, tableIndex, r1, c1, r2, c2 int) (locate.Address, error) {
	t, err := d.Table(tableIndex)
	if err != nil {
		return locate.Address{}, err
	}

	top, bottom := r1, r2
	if top > bottom {
		top, bottom = bottom, top
	}
	left, right := c1, c2
	if left > right {
		left, right = right, left
	}
	if top < 0 || bottom >= t.RowCount() {
		return locate.Address{}, fmt.Errorf("%w: rows %d..%d, table has %d rows", doc.ErrOutOfRange, top, bottom, t.RowCount())
	}
	if left < 0 || right >= t.Cols {
		return locate.Address{}, fmt.Errorf("%w: columns %d..%d, table has %d columns", doc.ErrOutOfRange, left, right, t.Cols)
	}
	if top == bottom && left == right {
		return locate.Address{}, fmt.Errorf("%w: region (%d,%d)..(%d,%d) is a single cell", doc.ErrInvalidMergeRegion, r1, c1, r2, c2)
	}
	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			cell := &t.Rows[r].Cells[c]
			if cell.Covered || cell.RowSpan != 1 || cell.ColSpan != 1 {
				return locate.Address{}, fmt.Errorf("%w: cell (%d,%d) already belongs to a merged region", doc.ErrInvalidMergeRegion, r, c)
			}
		}
	}

	// Fold the rectangle's content into one paragraph in row-major order.
	// Runs keep their styles; non-empty cell contents are joined by a single
	// unstyled space so the merged text reads naturally.
	merged := doc.NewParagraph("")
	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			for _, p := range t.Rows[r].Cells[c].Paragraphs {
				if p.IsEmpty() {
					continue
				}
				if len(merged.Runs) > 0 {
					merged.AddRun(" ", doc.TextStyle{})
				}
				merged.Runs = append(merged.Runs, p.Runs...)
			}
		}
	}

	for r := top; r <= bottom; r++ {
		for c := left; c <= right; c++ {
			cell := &t.Rows[r].Cells[c]
			if r == top && c == left {
				cell.Paragraphs = []*doc.Paragraph{merged}
				cell.RowSpan = bottom - top + 1
				cell.ColSpan = right - left + 1
				continue
			}
			cell.Paragraphs = []*doc.Paragraph{doc.NewParagraph("")}
			cell.RowSpan = 1
			cell.ColSpan = 1
			cell.Covered = true
		}
	}
	return locate.Address{Kind: locate.KindTableCell, Table: tableIndex, Row: top, Col: left, Revision: d.Revision()}, nil
}

// SplitTable splits the table into two independent tables after the given
// row. Rows 0..afterRow stay in the original table node; the remaining rows
// move to a new table inserted right after it, separated by an empty
// paragraph since two tables cannot be structurally adjacent. Column count,
// table style and per-cell spans carry over unchanged. afterRow must be an
// internal boundary, and the boundary must not cut through a vertical merge.
// Returns the address of the first cell of the new table.
func SplitTable(d *doc.Document, tableIndex, afterRow int) (locate.Address, error) {
	t, err := d.Table(tableIndex)
	if err != nil {
		return locate.Address{}, err
	}
	if afterRow < 0 || afterRow >= t.RowCount()-1 {
		return locate.Address{}, fmt.Errorf("%w: split boundary %d, should be between 0 and %d", doc.ErrOutOfRange, afterRow, t.RowCount()-2)
	}
	for c := 0; c < t.Cols; c++ {
		for r := 0; r <= afterRow; r++ {
			cell := &t.Rows[r].Cells[c]
			if !cell.Covered && r+cell.RowSpan > afterRow+1 {
				return locate.Address{}, fmt.Errorf("%w: vertical merge at (%d,%d) crosses the split boundary", doc.ErrInvalidMergeRegion, r, c)
			}
		}
	}
	blockIndex, err := d.TableBlock(tableIndex)
	if err != nil {
		return locate.Address{}, err
	}

	second := &doc.Table{
		Cols:  t.Cols,
		Style: t.Style,
		Rows:  append([]doc.Row(nil), t.Rows[afterRow+1:]...),
	}
	t.Rows = t.Rows[:afterRow+1]

	if err := d.InsertBlock(blockIndex+1, doc.Block{Type: doc.BlockTypeParagraph, Paragraph: doc.NewParagraph("")}); err != nil {
		return locate.Address{}, err
	}
	if err := d.InsertBlock(blockIndex+2, doc.Block{Type: doc.BlockTypeTable, Table: second}); err != nil {
		return locate.Address{}, err
	}
	return locate.Address{Kind: locate.KindTableCell, Table: tableIndex + 1, Row: 0, Col: 0, Revision: d.Revision()}, nil
}
