package locate

import (
	"fmt"
	"regexp"

	"github.com/docforge-io/docforge/internal/doc"
)

// Options controls text matching. The zero value means a case-sensitive
// literal first-match query over the whole document.
type Options struct {
	Regex        bool  // treat the pattern as a regular expression
	IgnoreCase   bool  // case-insensitive matching; matches are case-sensitive by default
	Exact        bool  // match only when the pattern covers a paragraph's whole text
	HeadingsOnly bool  // restrict matching to heading paragraphs
	Scope        Scope // restrict matching to a section of the body
}

// Scope restricts matching to the section bounded by a start marker and an
// optional end marker. The zero value means the whole document.
type Scope struct {
	StartMarker string `json:"start_marker,omitempty"`
	EndMarker   string `json:"end_marker,omitempty"`
}

// Whole reports whether the scope covers the whole document.
func (s Scope) Whole() bool { return s.StartMarker == "" }

// compile turns the pattern into a regexp honoring the literal/fold options.
func compile(pattern string, opts Options) (*regexp.Regexp, error) {
	expr := pattern
	if !opts.Regex {
		expr = regexp.QuoteMeta(pattern)
	}
	if opts.IgnoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// FindParagraphs returns every match of pattern within the body paragraphs
// in document order, honoring the scope. Paragraphs with no match contribute
// nothing; an empty result is not an error.
func FindParagraphs(d *doc.Document, pattern string, opts Options) ([]Match, error) {
	re, err := compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	first, last, err := scopeBounds(d, opts.Scope)
	if err != nil {
		return nil, err
	}
	var out []Match
	for i, p := range d.Paragraphs() {
		if i < first || i >= last {
			continue
		}
		if opts.HeadingsOnly && p.Style.HeadingLevel == 0 {
			continue
		}
		text := p.Text()
		for _, span := range re.FindAllStringIndex(text, -1) {
			if opts.Exact && (span[0] != 0 || span[1] != len(text)) {
				continue
			}
			out = append(out, Match{
				Addr:  Address{Kind: KindParagraph, Paragraph: i, Revision: d.Revision()},
				Start: span[0],
				End:   span[1],
				Text:  text,
			})
		}
	}
	return out, nil
}

// FindCells returns every match of pattern inside table cell paragraphs, in
// table/row/column/paragraph order. Covered grid positions are skipped.
// Section scopes never include tables, so a scoped query returns nothing.
func FindCells(d *doc.Document, pattern string, opts Options) ([]Match, error) {
	if !opts.Scope.Whole() {
		return nil, nil
	}
	re, err := compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	var out []Match
	for ti, t := range d.Tables() {
		for r := range t.Rows {
			for c := range t.Rows[r].Cells {
				cell := &t.Rows[r].Cells[c]
				if cell.Covered {
					continue
				}
				for pi, p := range cell.Paragraphs {
					text := p.Text()
					for _, span := range re.FindAllStringIndex(text, -1) {
						out = append(out, Match{
							Addr: Address{
								Kind: KindTableCell, Table: ti, Row: r, Col: c,
								CellPara: pi, Revision: d.Revision(),
							},
							Start: span[0],
							End:   span[1],
							Text:  text,
						})
					}
				}
			}
		}
	}
	return out, nil
}

// Find returns all matches of pattern in the document: body paragraphs
// first, then table cells, each group in document order.
func Find(d *doc.Document, pattern string, opts Options) ([]Match, error) {
	matches, err := FindParagraphs(d, pattern, opts)
	if err != nil {
		return nil, err
	}
	cells, err := FindCells(d, pattern, opts)
	if err != nil {
		return nil, err
	}
	return append(matches, cells...), nil
}

// FindHeadings returns matches restricted to heading paragraphs, in document
// order. With exact set, the heading text must equal the pattern rather than
// contain it.
func FindHeadings(d *doc.Document, text string, exact bool) ([]Match, error) {
	return FindParagraphs(d, text, Options{HeadingsOnly: true, Exact: exact})
}

// FirstParagraph returns the first body paragraph whose text matches the
// pattern, or ErrKeywordNotFound when nothing matches.
func FirstParagraph(d *doc.Document, pattern string, opts Options) (Match, error) {
	matches, err := FindParagraphs(d, pattern, opts)
	if err != nil {
		return Match{}, err
	}
	if len(matches) == 0 {
		return Match{}, fmt.Errorf("%w: %q", doc.ErrKeywordNotFound, pattern)
	}
	return matches[0], nil
}

// UniqueParagraph returns the single body paragraph matching the pattern.
// Zero matches yield ErrKeywordNotFound; two or more distinct paragraphs
// yield ErrAmbiguous with the candidate count.
func UniqueParagraph(d *doc.Document, pattern string, opts Options) (Match, error) {
	matches, err := FindParagraphs(d, pattern, opts)
	if err != nil {
		return Match{}, err
	}
	if len(matches) == 0 {
		return Match{}, fmt.Errorf("%w: %q", doc.ErrKeywordNotFound, pattern)
	}
	distinct := 1
	for i := 1; i < len(matches); i++ {
		if matches[i].Addr.Paragraph != matches[i-1].Addr.Paragraph {
			distinct++
		}
	}
	if distinct > 1 {
		return Match{}, fmt.Errorf("%w: %q matches %d paragraphs", doc.ErrAmbiguous, pattern, distinct)
	}
	return matches[0], nil
}

// SectionBounds resolves the paragraph span [start, end) of a section. The
// start paragraph is the first paragraph containing startMarker; the end
// bound is the first subsequent paragraph containing endMarker, or the
// paragraph count when endMarker is empty or matches nothing. Markers that
// name a heading bind to the heading, not to prose mentions of the same
// text. A missing start marker is ErrSectionNotFound.
func SectionBounds(d *doc.Document, startMarker, endMarker string, opts Options) (int, int, error) {
	starts, err := markerParagraphs(d, startMarker, opts)
	if err != nil {
		return 0, 0, err
	}
	if len(starts) == 0 {
		return 0, 0, fmt.Errorf("%w: start marker %q", doc.ErrSectionNotFound, startMarker)
	}
	start := starts[0].Addr.Paragraph
	end := len(d.Paragraphs())
	if endMarker != "" {
		ends, err := markerParagraphs(d, endMarker, opts)
		if err != nil {
			return 0, 0, err
		}
		for _, m := range ends {
			if m.Addr.Paragraph > start {
				end = m.Addr.Paragraph
				break
			}
		}
	}
	return start, end, nil
}

// markerParagraphs resolves a section marker, preferring heading matches: a
// marker found in any heading never binds to a body paragraph.
func markerParagraphs(d *doc.Document, marker string, opts Options) ([]Match, error) {
	base := Options{Regex: opts.Regex, IgnoreCase: opts.IgnoreCase}
	headOpts := base
	headOpts.HeadingsOnly = true
	matches, err := FindParagraphs(d, marker, headOpts)
	if err != nil || len(matches) > 0 {
		return matches, err
	}
	return FindParagraphs(d, marker, base)
}

// scopeBounds translates a scope to a paragraph index window.
func scopeBounds(d *doc.Document, s Scope) (int, int, error) {
	if s.Whole() {
		return 0, len(d.Paragraphs()), nil
	}
	start, end, err := SectionBounds(d, s.StartMarker, s.EndMarker, Options{})
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
