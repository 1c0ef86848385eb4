package doc

import (
	"fmt"
	"strings"
)

// Alignment represents paragraph-level text alignment.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Paragraph represents a body (or cell) paragraph: an ordered sequence of
// styled runs plus paragraph-level style. Adjacent runs are never merged by
// the model, so formatting boundaries survive edits.
type Paragraph struct {
	Runs  []Run          `json:"runs"`
	Style ParagraphStyle `json:"style"`
}

// ParagraphStyle contains paragraph-level formatting.
type ParagraphStyle struct {
	HeadingLevel int       `json:"heading_level,omitempty"` // 0 = normal, 1-9 = heading
	StyleName    string    `json:"style_name,omitempty"`    // named style, e.g. "Normal"
	Alignment    Alignment `json:"alignment,omitempty"`
}

// Run represents a styled text span within a paragraph.
type Run struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
}

// TextStyle contains character-level formatting.
type TextStyle struct {
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Color     string `json:"color,omitempty"`     // "#RRGGBB", empty for default
	FontSize  int    `json:"font_size,omitempty"` // points, 0 for default
	FontName  string `json:"font_name,omitempty"`
}

// NewParagraph creates a paragraph holding the text as a single unstyled run.
// Empty text yields a paragraph with no runs.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{Runs: make([]Run, 0)}
	if text != "" {
		p.Runs = append(p.Runs, Run{Text: text})
	}
	return p
}

// NewHeading creates a heading paragraph. The level is clamped to 1-9.
func NewHeading(text string, level int) *Paragraph {
	if level < 1 {
		level = 1
	}
	if level > 9 {
		level = 9
	}
	p := NewParagraph(text)
	p.Style.HeadingLevel = level
	p.Style.StyleName = fmt.Sprintf("Heading%d", level)
	return p
}

// AddRun appends a styled run to the paragraph.
func (p *Paragraph) AddRun(text string, style TextStyle) {
	p.Runs = append(p.Runs, Run{Text: text, Style: style})
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for i := range p.Runs {
		sb.WriteString(p.Runs[i].Text)
	}
	return sb.String()
}

// Len returns the total text length in bytes.
func (p *Paragraph) Len() int {
	n := 0
	for i := range p.Runs {
		n += len(p.Runs[i].Text)
	}
	return n
}

// IsEmpty reports whether the paragraph has no text content.
func (p *Paragraph) IsEmpty() bool {
	return p.Len() == 0
}

// InsertRun inserts a run at the given position in the run list.
func (p *Paragraph) InsertRun(index int, r Run) error {
	if index < 0 || index > len(p.Runs) {
		return fmt.Errorf("%w: run index %d, paragraph has %d runs", ErrOutOfRange, index, len(p.Runs))
	}
	p.Runs = append(p.Runs, Run{})
	copy(p.Runs[index+1:], p.Runs[index:])
	p.Runs[index] = r
	return nil
}

// RemoveRun removes the run at the given position.
func (p *Paragraph) RemoveRun(index int) error {
	if index < 0 || index >= len(p.Runs) {
		return fmt.Errorf("%w: run index %d, paragraph has %d runs", ErrOutOfRange, index, len(p.Runs))
	}
	p.Runs = append(p.Runs[:index], p.Runs[index+1:]...)
	return nil
}

// SplitRuns splits the run list at the given text offset and returns the run
// index at the boundary: runs[:i] carry exactly text[:offset]. A run
// containing the offset is split into two runs sharing its style, so no
// formatting boundary is lost. Offsets at existing run boundaries leave the
// run list unchanged.
func (p *Paragraph) SplitRuns(offset int) (int, error) {
	if offset < 0 || offset > p.Len() {
		return 0, fmt.Errorf("%w: text offset %d, paragraph length %d", ErrOutOfRange, offset, p.Len())
	}
	pos := 0
	for i := range p.Runs {
		if pos == offset {
			return i, nil
		}
		end := pos + len(p.Runs[i].Text)
		if offset < end {
			left := p.Runs[i].Text[:offset-pos]
			right := p.Runs[i].Text[offset-pos:]
			style := p.Runs[i].Style
			p.Runs[i].Text = left
			if err := p.InsertRun(i+1, Run{Text: right, Style: style}); err != nil {
				return 0, err
			}
			return i + 1, nil
		}
		pos = end
	}
	return len(p.Runs), nil
}

// DeleteTextRange removes text[start:end] from the paragraph, trimming or
// dropping runs as needed. Runs emptied by the deletion are removed; the
// styles of untouched runs are unaffected.
func (p *Paragraph) DeleteTextRange(start, end int) error {
	if start < 0 || start >= p.Len() {
		return fmt.Errorf("%w: start position %d, paragraph length %d", ErrOutOfRange, start, p.Len())
	}
	if end <= start || end > p.Len() {
		return fmt.Errorf("%w: end position %d, should be between %d and %d", ErrOutOfRange, end, start+1, p.Len())
	}
	from, err := p.SplitRuns(start)
	if err != nil {
		return err
	}
	to, err := p.SplitRuns(end)
	if err != nil {
		return err
	}
	p.Runs = append(p.Runs[:from], p.Runs[to:]...)
	return nil
}
