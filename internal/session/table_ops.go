package session

import (
	"fmt"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/edit"
	"github.com/docforge-io/docforge/internal/locate"
)

// TableArgs are the arguments of AddTable. Data is row-major seed text;
// short rows are left empty.
type TableArgs struct {
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Data  [][]string `json:"data,omitempty"`
	Style string     `json:"style,omitempty"`
}

// AddTable appends a rows x cols table, optionally seeded with text.
func (p *Processor) AddTable(args TableArgs) Result {
	return p.run("add_table", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		if args.Rows < 1 || args.Cols < 1 {
			return nil, nil, fmt.Errorf("%w: table size %dx%d", doc.ErrOutOfRange, args.Rows, args.Cols)
		}
		t := doc.NewTable(args.Rows, args.Cols)
		t.Style = args.Style
		if t.Style == "" {
			t.Style = p.cfg.Defaults.TableStyle
		}
		for r, row := range args.Data {
			if r >= args.Rows {
				break
			}
			for c, text := range row {
				if c >= args.Cols {
					break
				}
				cell, err := t.Cell(r, c)
				if err != nil {
					return nil, nil, err
				}
				cell.SetText(text)
			}
		}
		d.AddTable(t)
		addr := locate.Address{
			Kind:     locate.KindTableCell,
			Table:    len(d.Tables()) - 1,
			Revision: d.Revision(),
		}
		return nil, []locate.Address{addr}, nil
	})
}

// AddTableRow appends a row to the table, optionally filled with text.
func (p *Processor) AddTableRow(tableIndex int, data []string) Result {
	return p.run("add_table_row", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		t, err := d.Table(tableIndex)
		if err != nil {
			return nil, nil, err
		}
		row := t.AddRow()
		for c, text := range data {
			if c >= len(row.Cells) {
				break
			}
			row.Cells[c].SetText(text)
		}
		addr := locate.Address{
			Kind:     locate.KindTableCell,
			Table:    tableIndex,
			Row:      t.RowCount() - 1,
			Revision: d.Revision(),
		}
		return nil, []locate.Address{addr}, nil
	})
}

// DeleteTableRow removes the row at the given index. Rows crossed by a
// vertical merge cannot be removed.
func (p *Processor) DeleteTableRow(tableIndex, rowIndex int) Result {
	return p.run("delete_table_row", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		t, err := d.Table(tableIndex)
		if err != nil {
			return nil, nil, err
		}
		if err := t.RemoveRow(rowIndex); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	})
}

// EditTableCell sets the text of one cell. Covered cells (swallowed by a
// merge) are not editable; the anchor cell holds the merged content.
func (p *Processor) EditTableCell(tableIndex, row, col int, text string) Result {
	return p.run("edit_table_cell", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		t, err := d.Table(tableIndex)
		if err != nil {
			return nil, nil, err
		}
		cell, err := t.Cell(row, col)
		if err != nil {
			return nil, nil, err
		}
		if cell.Covered {
			return nil, nil, fmt.Errorf("%w: cell (%d,%d) is covered by a merge", doc.ErrInvalidMergeRegion, row, col)
		}
		cell.SetText(text)
		addr := locate.Address{
			Kind:     locate.KindTableCell,
			Table:    tableIndex,
			Row:      row,
			Col:      col,
			Revision: d.Revision(),
		}
		return nil, []locate.Address{addr}, nil
	})
}

// MergeTableCells merges the rectangular region between the two corner
// cells into one, folding the contents into the anchor.
func (p *Processor) MergeTableCells(tableIndex, startRow, startCol, endRow, endCol int) Result {
	return p.run("merge_table_cells", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		addr, err := edit.MergeCells(d, tableIndex, startRow, startCol, endRow, endCol)
		if err != nil {
			return nil, nil, err
		}
		return nil, []locate.Address{addr}, nil
	})
}

// SplitTable splits the table in two after the given row, leaving an empty
// paragraph between the halves.
func (p *Processor) SplitTable(tableIndex, afterRow int) Result {
	return p.run("split_table", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		addr, err := edit.SplitTable(d, tableIndex, afterRow)
		if err != nil {
			return nil, nil, err
		}
		return nil, []locate.Address{addr}, nil
	})
}
