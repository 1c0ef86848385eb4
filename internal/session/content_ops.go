package session

import (
	"fmt"
	"regexp"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/edit"
	"github.com/docforge-io/docforge/internal/locate"
)

// colorPattern matches "#RRGGBB" colors at the API boundary.
var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func parseAlignment(s string) (doc.Alignment, error) {
	switch a := doc.Alignment(s); a {
	case doc.AlignDefault, doc.AlignLeft, doc.AlignCenter, doc.AlignRight, doc.AlignJustify:
		return a, nil
	default:
		return doc.AlignDefault, fmt.Errorf("invalid alignment %q, expected left, center, right or justify", s)
	}
}

// ParagraphArgs are the arguments of AddParagraph.
type ParagraphArgs struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	FontSize  int    `json:"font_size,omitempty"`
	FontName  string `json:"font_name,omitempty"`
	Color     string `json:"color,omitempty"`     // "#RRGGBB"
	Alignment string `json:"alignment,omitempty"` // left, center, right, justify
}

// AddParagraph appends a paragraph with the given formatting. Unset font
// fields fall back to the configured defaults.
func (p *Processor) AddParagraph(args ParagraphArgs) Result {
	return p.run("add_paragraph", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		if args.Color != "" && !colorPattern.MatchString(args.Color) {
			return nil, nil, fmt.Errorf("invalid color %q, expected #RRGGBB", args.Color)
		}
		align, err := parseAlignment(args.Alignment)
		if err != nil {
			return nil, nil, err
		}
		styleText := doc.TextStyle{
			Bold:      args.Bold,
			Italic:    args.Italic,
			Underline: args.Underline,
			Color:     args.Color,
			FontSize:  args.FontSize,
			FontName:  args.FontName,
		}
		if styleText.FontName == "" {
			styleText.FontName = p.cfg.Defaults.FontName
		}
		if styleText.FontSize == 0 {
			styleText.FontSize = p.cfg.Defaults.FontSize
		}
		para := doc.NewParagraph("")
		para.Style.Alignment = align
		if args.Text != "" {
			para.AddRun(args.Text, styleText)
		}
		d.AddParagraph(para)
		addr := locate.Address{
			Kind:      locate.KindParagraph,
			Paragraph: len(d.Paragraphs()) - 1,
			Revision:  d.Revision(),
		}
		return nil, []locate.Address{addr}, nil
	})
}

// AddHeading appends a heading paragraph at the given level (1-9).
func (p *Processor) AddHeading(text string, level int) Result {
	return p.run("add_heading", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		if level < 1 || level > 9 {
			return nil, nil, fmt.Errorf("%w: heading level %d, should be between 1 and 9", doc.ErrOutOfRange, level)
		}
		d.AddParagraph(doc.NewHeading(text, level))
		addr := locate.Address{
			Kind:      locate.KindParagraph,
			Paragraph: len(d.Paragraphs()) - 1,
			Revision:  d.Revision(),
		}
		return nil, []locate.Address{addr}, nil
	})
}

// DeleteParagraph removes the body paragraph at the given index.
func (p *Processor) DeleteParagraph(index int) Result {
	return p.run("delete_paragraph", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		blockIndex, err := d.ParagraphBlock(index)
		if err != nil {
			return nil, nil, err
		}
		if err := d.RemoveBlock(blockIndex); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	})
}

// DeleteText removes text[start:end) from the paragraph at the given index,
// leaving the formatting of the surrounding text untouched.
func (p *Processor) DeleteText(paragraphIndex, start, end int) Result {
	return p.run("delete_text", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		para, err := d.Paragraph(paragraphIndex)
		if err != nil {
			return nil, nil, err
		}
		if err := para.DeleteTextRange(start, end); err != nil {
			return nil, nil, err
		}
		addr := locate.Address{Kind: locate.KindParagraph, Paragraph: paragraphIndex, Revision: d.Revision()}
		return nil, []locate.Address{addr}, nil
	})
}

// SearchText finds every occurrence of keyword in body paragraphs and table
// cells. No match is an empty payload, not an error.
func (p *Processor) SearchText(keyword string) Result {
	return p.run("search_text", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		matches, err := locate.Find(d, keyword, locate.Options{})
		if err != nil {
			return nil, nil, err
		}
		return matches, nil, nil
	})
}

// ReplaceArgs are the arguments of SearchAndReplace.
type ReplaceArgs struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	Regex       bool   `json:"regex,omitempty"`
	IgnoreCase  bool   `json:"ignore_case,omitempty"`
	StartMarker string `json:"start_marker,omitempty"` // section scope
	EndMarker   string `json:"end_marker,omitempty"`
	Preview     bool   `json:"preview,omitempty"`
}

// SearchAndReplace substitutes the replacement for every match of the
// pattern within scope. With Preview set the document is not touched and
// the payload reports what a commit would change.
func (p *Processor) SearchAndReplace(args ReplaceArgs) Result {
	return p.run("search_and_replace", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		res, err := edit.SearchAndReplace(d, args.Pattern, args.Replacement, edit.ReplaceOptions{
			Regex:      args.Regex,
			IgnoreCase: args.IgnoreCase,
			Scope:      locate.Scope{StartMarker: args.StartMarker, EndMarker: args.EndMarker},
			Preview:    args.Preview,
		})
		if err != nil {
			return nil, nil, err
		}
		if !args.Preview && p.met != nil {
			p.met.ReplacementsTotal.Add(float64(res.Total))
		}
		var affected []locate.Address
		if !args.Preview {
			for _, r := range res.Replacements {
				affected = append(affected, r.Addr)
			}
		}
		return res, affected, nil
	})
}

// FindAndReplace is the plain whole-document literal replacement: every
// occurrence of find becomes replace, and the payload is the substitution
// count.
func (p *Processor) FindAndReplace(find, replace string) Result {
	return p.run("find_and_replace", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		res, err := edit.SearchAndReplace(d, find, replace, edit.ReplaceOptions{})
		if err != nil {
			return nil, nil, err
		}
		if p.met != nil {
			p.met.ReplacementsTotal.Add(float64(res.Total))
		}
		var affected []locate.Address
		for _, r := range res.Replacements {
			affected = append(affected, r.Addr)
		}
		return res.Total, affected, nil
	})
}

// SectionArgs are the arguments of ReplaceSection.
type SectionArgs struct {
	StartMarker    string             `json:"start_marker"`
	EndMarker      string             `json:"end_marker,omitempty"`
	Content        []edit.ContentItem `json:"content"`
	ReplaceMarker  bool               `json:"replace_marker,omitempty"` // replace the marker paragraph too
	IgnoreCase     bool               `json:"ignore_case,omitempty"`
}

// ReplaceSection replaces the paragraphs of the section identified by the
// start marker with the given content, preserving the surrounding styles.
func (p *Processor) ReplaceSection(args SectionArgs) Result {
	return p.run("replace_section", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		affected, err := edit.ReplaceSection(d, args.StartMarker, args.Content, edit.SectionOptions{
			PreserveMarker: !args.ReplaceMarker,
			EndMarker:      args.EndMarker,
			IgnoreCase:     args.IgnoreCase,
		})
		if err != nil {
			return nil, nil, err
		}
		return len(affected), affected, nil
	})
}

// EditSectionByKeyword substitutes newText for the keyword inside the
// matching paragraph(s), preserving run formatting in place.
func (p *Processor) EditSectionByKeyword(keyword, newText string, mode edit.MatchMode) Result {
	return p.run("edit_section_by_keyword", func() (interface{}, []locate.Address, error) {
		d, err := p.Current()
		if err != nil {
			return nil, nil, err
		}
		if mode == "" {
			mode = edit.MatchFirst
		}
		affected, err := edit.EditSectionByKeyword(d, keyword, newText, mode, locate.Options{})
		if err != nil {
			return nil, nil, err
		}
		return len(affected), affected, nil
	})
}
