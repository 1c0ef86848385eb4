// Package doc defines the in-memory document object model: an ordered block
// tree of paragraphs, tables and page breaks, plus page-layout settings.
// All write primitives are index-based; logical queries (headings, keywords,
// sections) live in the locate package, and the editing engines translate
// them into the primitive calls exposed here.
package doc

import "fmt"

// Twips per centimeter and per inch. Page measurements are stored in twips
// (twentieths of a point), matching the OOXML on-disk representation.
const (
	TwipsPerCm   = 567
	TwipsPerInch = 1440
)

// BlockType represents the type of a top-level content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
	BlockTypePageBreak BlockType = "page_break"
)

// Block represents a top-level content block in the document body.
type Block struct {
	Type      BlockType  `json:"type"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Table     *Table     `json:"table,omitempty"`
}

// Margins holds the page margins in twips.
type Margins struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Document is the root of the model tree. It owns an ordered sequence of
// blocks and the page-layout settings. Structural mutations (block insert
// and removal) bump the revision counter; node addresses resolved against
// an older revision must be re-resolved before use.
type Document struct {
	Blocks  []Block `json:"blocks"`
	Margins Margins `json:"margins"`

	rev uint64
}

// NewDocument creates an empty document with one-inch margins.
func NewDocument() *Document {
	return &Document{
		Blocks: make([]Block, 0),
		Margins: Margins{
			Top:    TwipsPerInch,
			Bottom: TwipsPerInch,
			Left:   TwipsPerInch,
			Right:  TwipsPerInch,
		},
	}
}

// Revision returns the current structural revision of the tree.
func (d *Document) Revision() uint64 { return d.rev }

func (d *Document) bump() { d.rev++ }

// AddParagraph appends a paragraph block to the document body.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Blocks = append(d.Blocks, Block{Type: BlockTypeParagraph, Paragraph: p})
	d.bump()
}

// AddTable appends a table block to the document body.
func (d *Document) AddTable(t *Table) {
	d.Blocks = append(d.Blocks, Block{Type: BlockTypeTable, Table: t})
	d.bump()
}

// AddPageBreak appends a page break block to the document body.
func (d *Document) AddPageBreak() {
	d.Blocks = append(d.Blocks, Block{Type: BlockTypePageBreak})
	d.bump()
}

// InsertBlock inserts a block at the given position in the body.
func (d *Document) InsertBlock(index int, b Block) error {
	if index < 0 || index > len(d.Blocks) {
		return fmt.Errorf("%w: block index %d, document has %d blocks", ErrOutOfRange, index, len(d.Blocks))
	}
	d.Blocks = append(d.Blocks, Block{})
	copy(d.Blocks[index+1:], d.Blocks[index:])
	d.Blocks[index] = b
	d.bump()
	return nil
}

// RemoveBlock removes the block at the given position from the body.
func (d *Document) RemoveBlock(index int) error {
	if index < 0 || index >= len(d.Blocks) {
		return fmt.Errorf("%w: block index %d, document has %d blocks", ErrOutOfRange, index, len(d.Blocks))
	}
	d.Blocks = append(d.Blocks[:index], d.Blocks[index+1:]...)
	d.bump()
	return nil
}

// Paragraphs returns the body paragraphs in document order. Paragraphs
// inside table cells are not included; their indices are table-relative.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for i := range d.Blocks {
		if d.Blocks[i].Type == BlockTypeParagraph && d.Blocks[i].Paragraph != nil {
			out = append(out, d.Blocks[i].Paragraph)
		}
	}
	return out
}

// Paragraph returns the body paragraph at the given paragraph index.
func (d *Document) Paragraph(index int) (*Paragraph, error) {
	paras := d.Paragraphs()
	if index < 0 || index >= len(paras) {
		return nil, fmt.Errorf("%w: paragraph index %d, document has %d paragraphs", ErrOutOfRange, index, len(paras))
	}
	return paras[index], nil
}

// ParagraphBlock maps a body paragraph index to its block index.
func (d *Document) ParagraphBlock(index int) (int, error) {
	if index < 0 {
		return 0, fmt.Errorf("%w: paragraph index %d", ErrOutOfRange, index)
	}
	n := 0
	for i := range d.Blocks {
		if d.Blocks[i].Type != BlockTypeParagraph {
			continue
		}
		if n == index {
			return i, nil
		}
		n++
	}
	return 0, fmt.Errorf("%w: paragraph index %d, document has %d paragraphs", ErrOutOfRange, index, n)
}

// Tables returns the body tables in document order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for i := range d.Blocks {
		if d.Blocks[i].Type == BlockTypeTable && d.Blocks[i].Table != nil {
			out = append(out, d.Blocks[i].Table)
		}
	}
	return out
}

// Table returns the body table at the given table index.
func (d *Document) Table(index int) (*Table, error) {
	tables := d.Tables()
	if index < 0 || index >= len(tables) {
		return nil, fmt.Errorf("%w: table index %d, document has %d tables", ErrOutOfRange, index, len(tables))
	}
	return tables[index], nil
}

// TableBlock maps a body table index to its block index.
func (d *Document) TableBlock(index int) (int, error) {
	if index < 0 {
		return 0, fmt.Errorf("%w: table index %d", ErrOutOfRange, index)
	}
	n := 0
	for i := range d.Blocks {
		if d.Blocks[i].Type != BlockTypeTable {
			continue
		}
		if n == index {
			return i, nil
		}
		n++
	}
	return 0, fmt.Errorf("%w: table index %d, document has %d tables", ErrOutOfRange, index, n)
}

// Validate checks the tree invariants: every block carries the payload its
// type declares, and every table grid is consistent.
func (d *Document) Validate() error {
	for i := range d.Blocks {
		b := &d.Blocks[i]
		switch b.Type {
		case BlockTypeParagraph:
			if b.Paragraph == nil {
				return fmt.Errorf("%w: paragraph block %d has no paragraph", ErrMalformedDocument, i)
			}
		case BlockTypeTable:
			if b.Table == nil {
				return fmt.Errorf("%w: table block %d has no table", ErrMalformedDocument, i)
			}
			if err := b.Table.Validate(); err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
		case BlockTypePageBreak:
			// no payload
		default:
			return fmt.Errorf("%w: unknown block type %q at %d", ErrMalformedDocument, b.Type, i)
		}
	}
	return nil
}
