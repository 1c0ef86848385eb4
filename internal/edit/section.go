// Package edit implements the document editing engines: section and keyword
// replacement, table restructuring, and scoped find-and-replace. Every
// operation validates fully before mutating, so a failed call leaves the
// tree exactly as it was.
package edit

import (
	"fmt"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/locate"
	"github.com/docforge-io/docforge/internal/style"
)

// ContentItem is one replacement paragraph for ReplaceSection. The optional
// overrides win over the inherited signature of the replaced content.
type ContentItem struct {
	Text  string              `json:"text"`
	Style *doc.ParagraphStyle `json:"style,omitempty"`
	Run   *doc.TextStyle      `json:"run,omitempty"`
}

// SectionOptions controls section replacement.
type SectionOptions struct {
	// PreserveMarker keeps the start-marker paragraph in place and replaces
	// only the content after it, so a heading keeps its original style
	// around the edit. When false the marker paragraph is replaced too.
	PreserveMarker bool

	// EndMarker bounds the section; empty means end of document.
	EndMarker string

	IgnoreCase bool
}

// ReplaceSection locates the paragraph matching startMarker, removes every
// body paragraph in the section span, and inserts the items at the same
// position. Replacement paragraphs inherit the signature of the first
// removed paragraph (left edge of the replaced region); explicit per-item
// overrides take precedence. Tables inside the span are left in place.
// Returns the addresses of the inserted paragraphs.
func ReplaceSection(d *doc.Document, startMarker string, items []ContentItem, opts SectionOptions) ([]locate.Address, error) {
	start, end, err := locate.SectionBounds(d, startMarker, opts.EndMarker, locate.Options{IgnoreCase: opts.IgnoreCase})
	if err != nil {
		return nil, err
	}

	first := start
	if opts.PreserveMarker {
		first = start + 1
	}
	if first > end {
		first = end
	}

	// Default signature: the first paragraph of the replaced region, falling
	// back to the marker paragraph when the region is empty.
	sigSource := first
	if sigSource >= end {
		sigSource = start
	}
	src, err := d.Paragraph(sigSource)
	if err != nil {
		return nil, err
	}
	sig := style.Capture(src)

	// Resolve block positions before mutating anything.
	insertAt, err := sectionInsertBlock(d, first, start)
	if err != nil {
		return nil, err
	}
	var removeBlocks []int
	for i := first; i < end; i++ {
		bi, err := d.ParagraphBlock(i)
		if err != nil {
			return nil, err
		}
		removeBlocks = append(removeBlocks, bi)
	}

	// Remove from the end so earlier block indices stay valid.
	for k := len(removeBlocks) - 1; k >= 0; k-- {
		if err := d.RemoveBlock(removeBlocks[k]); err != nil {
			return nil, err
		}
	}

	for k, item := range items {
		p := style.NewParagraph(item.Text, sig)
		if item.Style != nil {
			p.Style = *item.Style
		}
		if item.Run != nil && len(p.Runs) > 0 {
			p.Runs[0].Style = *item.Run
		}
		if err := d.InsertBlock(insertAt+k, doc.Block{Type: doc.BlockTypeParagraph, Paragraph: p}); err != nil {
			return nil, err
		}
	}

	addrs := make([]locate.Address, len(items))
	for k := range items {
		addrs[k] = locate.Address{
			Kind:      locate.KindParagraph,
			Paragraph: first + k,
			Revision:  d.Revision(),
		}
	}
	return addrs, nil
}

// sectionInsertBlock finds the block index where replacement content goes:
// the block of the first paragraph to remove, or the slot right after the
// marker paragraph when the replaced region is empty.
func sectionInsertBlock(d *doc.Document, first, marker int) (int, error) {
	if first < len(d.Paragraphs()) {
		return d.ParagraphBlock(first)
	}
	bi, err := d.ParagraphBlock(marker)
	if err != nil {
		return 0, err
	}
	if first == marker {
		return bi, nil
	}
	return bi + 1, nil
}

// MatchMode selects how many keyword matches an edit applies to.
type MatchMode string

const (
	MatchFirst MatchMode = "first"
	MatchAll   MatchMode = "all"
)

// EditSectionByKeyword substitutes newText for every occurrence of keyword
// inside the matching paragraph(s), in place. Each affected run keeps its
// signature per the left-edge inheritance rule; paragraphs and runs the
// keyword does not touch are byte-for-byte unaffected. With MatchFirst only
// the first matching paragraph in document order is edited, and a missing
// keyword is ErrKeywordNotFound; with MatchAll a missing keyword simply
// edits nothing.
func EditSectionByKeyword(d *doc.Document, keyword, newText string, mode MatchMode, opts locate.Options) ([]locate.Address, error) {
	matches, err := locate.FindParagraphs(d, keyword, opts)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		if mode == MatchFirst {
			return nil, fmt.Errorf("%w: %q", doc.ErrKeywordNotFound, keyword)
		}
		return nil, nil
	}

	grouped := groupByParagraph(matches)
	if mode == MatchFirst {
		grouped = grouped[:1]
	}

	var addrs []locate.Address
	for _, g := range grouped {
		p, err := d.Paragraph(g.addr.Paragraph)
		if err != nil {
			return nil, err
		}
		if err := substituteSpans(p, g.spans, newText); err != nil {
			return nil, err
		}
		addrs = append(addrs, g.addr)
	}
	return addrs, nil
}
