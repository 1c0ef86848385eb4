package edit

import (
	"strings"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/locate"
)

// ReplaceOptions controls SearchAndReplace.
type ReplaceOptions struct {
	Regex      bool         // treat pattern as a regular expression
	IgnoreCase bool         // case-insensitive matching
	Scope      locate.Scope // zero value means the whole document
	Preview    bool         // report matches without mutating the tree
}

// Replacement describes one affected node: its address, the text before and
// after substitution, and the number of occurrences replaced within it.
type Replacement struct {
	Addr     locate.Address `json:"addr"`
	Original string         `json:"original"`
	Replaced string         `json:"replaced"`
	Count    int            `json:"count"`
}

// Result is the outcome of a SearchAndReplace call.
type Result struct {
	Replacements []Replacement `json:"replacements"`
	Total        int           `json:"total"`
	Preview      bool          `json:"preview"`
}

// SearchAndReplace enumerates all matches of pattern within scope in
// document order and substitutes repl for each, per-run and
// style-preserving. The replacement string is inserted literally, also under
// regex matching. Matches are computed against a snapshot taken at call
// time; they are non-overlapping and resolved left to right, and a replaced
// span is never re-matched within the same call. With Preview set the tree
// is not touched and the result reports what a commit would do.
func SearchAndReplace(d *doc.Document, pattern, repl string, opts ReplaceOptions) (Result, error) {
	matches, err := locate.Find(d, pattern, locate.Options{
		Regex:      opts.Regex,
		IgnoreCase: opts.IgnoreCase,
		Scope:      opts.Scope,
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{Preview: opts.Preview}
	for _, g := range groupByParagraph(matches) {
		res.Replacements = append(res.Replacements, Replacement{
			Addr:     g.addr,
			Original: g.text,
			Replaced: spliceSpans(g.text, g.spans, repl),
			Count:    len(g.spans),
		})
		res.Total += len(g.spans)
	}
	if opts.Preview {
		return res, nil
	}

	for _, g := range groupByParagraph(matches) {
		p, err := resolveParagraph(d, g.addr)
		if err != nil {
			return Result{}, err
		}
		if err := substituteSpans(p, g.spans, repl); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// paragraphGroup collects the match spans that fall inside one paragraph
// node (a body paragraph or one paragraph of a table cell).
type paragraphGroup struct {
	addr  locate.Address
	text  string
	spans [][2]int
}

func sameParagraph(a, b locate.Address) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == locate.KindParagraph {
		return a.Paragraph == b.Paragraph
	}
	return a.Table == b.Table && a.Row == b.Row && a.Col == b.Col && a.CellPara == b.CellPara
}

// groupByParagraph folds a match list into per-paragraph span groups,
// preserving document order. Spans within a group are ascending because the
// locator emits them left to right.
func groupByParagraph(matches []locate.Match) []paragraphGroup {
	var out []paragraphGroup
	for _, m := range matches {
		if n := len(out); n > 0 && sameParagraph(out[n-1].addr, m.Addr) {
			out[n-1].spans = append(out[n-1].spans, [2]int{m.Start, m.End})
			continue
		}
		out = append(out, paragraphGroup{
			addr:  m.Addr,
			text:  m.Text,
			spans: [][2]int{{m.Start, m.End}},
		})
	}
	return out
}

// resolveParagraph follows an address to the live paragraph node.
func resolveParagraph(d *doc.Document, a locate.Address) (*doc.Paragraph, error) {
	if err := a.Check(d); err != nil {
		return nil, err
	}
	if a.Kind == locate.KindParagraph {
		return d.Paragraph(a.Paragraph)
	}
	t, err := d.Table(a.Table)
	if err != nil {
		return nil, err
	}
	cell, err := t.Cell(a.Row, a.Col)
	if err != nil {
		return nil, err
	}
	if a.CellPara < 0 || a.CellPara >= len(cell.Paragraphs) {
		return nil, doc.ErrOutOfRange
	}
	return cell.Paragraphs[a.CellPara], nil
}

// spliceSpans returns text with each span replaced by repl, without touching
// the model. Spans must be ascending and non-overlapping.
func spliceSpans(text string, spans [][2]int, repl string) string {
	var sb strings.Builder
	pos := 0
	for _, span := range spans {
		sb.WriteString(text[pos:span[0]])
		sb.WriteString(repl)
		pos = span[1]
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// substituteSpans performs the in-place, style-preserving substitution: for
// each span, the covered runs are replaced by a single run holding repl
// with the signature of the first run in the span (left-edge inheritance).
// A match that starts and ends inside one run splits that run, so
// formatting on either side is untouched. Spans are applied right to left
// so earlier offsets stay valid.
func substituteSpans(p *doc.Paragraph, spans [][2]int, repl string) error {
	for k := len(spans) - 1; k >= 0; k-- {
		start, end := spans[k][0], spans[k][1]
		i, err := p.SplitRuns(start)
		if err != nil {
			return err
		}
		j, err := p.SplitRuns(end)
		if err != nil {
			return err
		}
		lead := doc.TextStyle{}
		if j > i {
			lead = p.Runs[i].Style
		} else if i > 0 {
			// Zero-width span: inherit from the run on the left.
			lead = p.Runs[i-1].Style
		}
		p.Runs = append(p.Runs[:i], p.Runs[j:]...)
		if repl != "" {
			if err := p.InsertRun(i, doc.Run{Text: repl, Style: lead}); err != nil {
				return err
			}
		}
	}
	return nil
}
