package doc

import (
	"fmt"
	"strings"
)

// Table represents a rectangular grid of cells. Merges never remove grid
// positions: the surviving cell records its row/column span and the covered
// positions stay in the grid marked as covered, so the declared column count
// is always reconstructable.
type Table struct {
	Rows  []Row  `json:"rows"`
	Cols  int    `json:"cols"`
	Style string `json:"style,omitempty"` // table style id, e.g. "TableGrid"
}

// Row is an ordered sequence of cells.
type Row struct {
	Cells []Cell `json:"cells"`
}

// Cell owns a sequence of paragraphs (a cell is a mini document body).
// RowSpan/ColSpan are 1 for an unmerged cell; Covered marks a grid position
// swallowed by a neighboring cell's span.
type Cell struct {
	Paragraphs []*Paragraph `json:"paragraphs"`
	RowSpan    int          `json:"row_span,omitempty"`
	ColSpan    int          `json:"col_span,omitempty"`
	Covered    bool         `json:"covered,omitempty"`
}

// NewTable creates a rows x cols table of empty unmerged cells. Every cell
// starts with a single empty paragraph, mirroring the on-disk format where a
// cell always contains at least one paragraph.
func NewTable(rows, cols int) *Table {
	t := &Table{Cols: cols, Rows: make([]Row, rows)}
	for r := range t.Rows {
		t.Rows[r] = newRow(cols)
	}
	return t
}

func newRow(cols int) Row {
	row := Row{Cells: make([]Cell, cols)}
	for c := range row.Cells {
		row.Cells[c] = newCell()
	}
	return row
}

func newCell() Cell {
	return Cell{
		Paragraphs: []*Paragraph{NewParagraph("")},
		RowSpan:    1,
		ColSpan:    1,
	}
}

// RowCount returns the number of grid rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// Cell returns the cell at the given grid position.
func (t *Table) Cell(row, col int) (*Cell, error) {
	if row < 0 || row >= len(t.Rows) {
		return nil, fmt.Errorf("%w: row index %d, table has %d rows", ErrOutOfRange, row, len(t.Rows))
	}
	if col < 0 || col >= t.Cols {
		return nil, fmt.Errorf("%w: column index %d, table has %d columns", ErrOutOfRange, col, t.Cols)
	}
	return &t.Rows[row].Cells[col], nil
}

// AddRow appends a row of empty unmerged cells and returns it.
func (t *Table) AddRow() *Row {
	t.Rows = append(t.Rows, newRow(t.Cols))
	return &t.Rows[len(t.Rows)-1]
}

// RemoveRow removes the row at the given index. Rows intersected by a
// vertical span cannot be removed without breaking the grid topology;
// horizontal spans contained in the row leave with it.
func (t *Table) RemoveRow(index int) error {
	if index < 0 || index >= len(t.Rows) {
		return fmt.Errorf("%w: row index %d, table has %d rows", ErrOutOfRange, index, len(t.Rows))
	}
	for c := 0; c < t.Cols; c++ {
		cell := &t.Rows[index].Cells[c]
		if cell.RowSpan > 1 {
			return fmt.Errorf("%w: row %d anchors a vertical span", ErrInvalidMergeRegion, index)
		}
		if cell.Covered && !t.coveredWithinRow(index, c) {
			return fmt.Errorf("%w: row %d intersects a merged region", ErrInvalidMergeRegion, index)
		}
	}
	t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
	return nil
}

// coveredWithinRow reports whether the covered cell at (row, col) is covered
// by a single-row horizontal span anchored in the same row.
func (t *Table) coveredWithinRow(row, col int) bool {
	for a := col - 1; a >= 0; a-- {
		anchor := &t.Rows[row].Cells[a]
		if anchor.Covered {
			continue
		}
		return anchor.RowSpan == 1 && a+anchor.ColSpan > col
	}
	return false
}

// Text returns the cell's text: paragraph texts joined with newlines.
func (c *Cell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// SetText replaces the cell content with a single paragraph holding text.
// Cell paragraph and run formatting is reset.
func (c *Cell) SetText(text string) {
	c.Paragraphs = []*Paragraph{NewParagraph(text)}
}

// Validate checks grid consistency: uniform row width, spans inside bounds,
// and exact agreement between span extents and covered markers.
func (t *Table) Validate() error {
	if t.Cols <= 0 {
		return fmt.Errorf("%w: table declares %d columns", ErrMalformedDocument, t.Cols)
	}
	for r := range t.Rows {
		if len(t.Rows[r].Cells) != t.Cols {
			return fmt.Errorf("%w: row %d has %d cells, table declares %d columns",
				ErrMalformedDocument, r, len(t.Rows[r].Cells), t.Cols)
		}
	}
	// Mark every position reachable from a span anchor, then require the
	// marks to agree with the Covered flags.
	covered := make([][]bool, len(t.Rows))
	for r := range covered {
		covered[r] = make([]bool, t.Cols)
	}
	for r := range t.Rows {
		for c := 0; c < t.Cols; c++ {
			cell := &t.Rows[r].Cells[c]
			if cell.Covered {
				continue
			}
			rs, cs := cell.RowSpan, cell.ColSpan
			if rs < 1 || cs < 1 {
				return fmt.Errorf("%w: cell (%d,%d) has span %dx%d", ErrMalformedDocument, r, c, rs, cs)
			}
			if r+rs > len(t.Rows) || c+cs > t.Cols {
				return fmt.Errorf("%w: cell (%d,%d) span %dx%d exceeds grid", ErrMalformedDocument, r, c, rs, cs)
			}
			for i := r; i < r+rs; i++ {
				for j := c; j < c+cs; j++ {
					if i == r && j == c {
						continue
					}
					if covered[i][j] {
						return fmt.Errorf("%w: overlapping spans at (%d,%d)", ErrMalformedDocument, i, j)
					}
					covered[i][j] = true
				}
			}
		}
	}
	for r := range t.Rows {
		for c := 0; c < t.Cols; c++ {
			if t.Rows[r].Cells[c].Covered != covered[r][c] {
				return fmt.Errorf("%w: cover marker mismatch at (%d,%d)", ErrMalformedDocument, r, c)
			}
		}
	}
	return nil
}
