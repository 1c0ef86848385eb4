// Package style captures and reapplies formatting signatures around
// destructive edits. A signature is a value snapshot of a paragraph's
// formatting and its runs' formatting; it holds no references into the tree,
// so it stays valid across any mutation.
//
// When replacement text covers a region that previously had mixed run
// formatting, the inserted runs inherit the signature of the first run in
// the replaced region (left-edge inheritance). This is a deliberate,
// documented tie-break, not an attempt to merge formats.
package style

import "github.com/docforge-io/docforge/internal/doc"

// Signature is an immutable snapshot of a paragraph's formatting.
type Signature struct {
	Para doc.ParagraphStyle `json:"para"`
	Runs []doc.TextStyle    `json:"runs,omitempty"`
}

// Capture reads the formatting of a paragraph and its runs without mutating
// anything.
func Capture(p *doc.Paragraph) Signature {
	sig := Signature{Para: p.Style}
	if len(p.Runs) > 0 {
		sig.Runs = make([]doc.TextStyle, len(p.Runs))
		for i := range p.Runs {
			sig.Runs[i] = p.Runs[i].Style
		}
	}
	return sig
}

// Apply writes the paragraph-level formatting of sig onto p, leaving text
// content and run formatting untouched.
func Apply(p *doc.Paragraph, sig Signature) {
	p.Style = sig.Para
}

// LeadRun returns the left-edge run style of the signature: the style of the
// first captured run, or the zero style when the source had no runs.
func (s Signature) LeadRun() doc.TextStyle {
	if len(s.Runs) == 0 {
		return doc.TextStyle{}
	}
	return s.Runs[0]
}

// NewParagraph builds a paragraph holding text as a single run, formatted
// with the signature's paragraph style and left-edge run style. This is the
// reconstruction primitive used by section replacement.
func NewParagraph(text string, sig Signature) *doc.Paragraph {
	p := doc.NewParagraph("")
	p.Style = sig.Para
	if text != "" {
		p.AddRun(text, sig.LeadRun())
	}
	return p
}

// Equal reports whether two signatures are identical, field for field.
// Used by tests to assert formatting isolation around edits.
func Equal(a, b Signature) bool {
	if a.Para != b.Para || len(a.Runs) != len(b.Runs) {
		return false
	}
	for i := range a.Runs {
		if a.Runs[i] != b.Runs[i] {
			return false
		}
	}
	return true
}
