package style

import (
	"testing"

	"github.com/docforge-io/docforge/internal/doc"
)

func styledParagraph() *doc.Paragraph {
	p := doc.NewParagraph("")
	p.Style = doc.ParagraphStyle{HeadingLevel: 2, StyleName: "Heading2", Alignment: doc.AlignCenter}
	p.AddRun("bold", doc.TextStyle{Bold: true, FontSize: 14})
	p.AddRun(" plain", doc.TextStyle{})
	return p
}

func TestCapture(t *testing.T) {
	p := styledParagraph()
	sig := Capture(p)

	if sig.Para.HeadingLevel != 2 || sig.Para.Alignment != doc.AlignCenter {
		t.Errorf("unexpected paragraph style %+v", sig.Para)
	}
	if len(sig.Runs) != 2 {
		t.Fatalf("expected 2 run styles, got %d", len(sig.Runs))
	}
	if !sig.Runs[0].Bold || sig.Runs[0].FontSize != 14 {
		t.Errorf("unexpected lead run style %+v", sig.Runs[0])
	}
}

func TestCapture_IsValueSnapshot(t *testing.T) {
	p := styledParagraph()
	sig := Capture(p)

	p.Style.HeadingLevel = 5
	p.Runs[0].Style.Bold = false

	if sig.Para.HeadingLevel != 2 {
		t.Error("mutating the paragraph changed the captured paragraph style")
	}
	if !sig.Runs[0].Bold {
		t.Error("mutating a run changed the captured run style")
	}
}

func TestApply(t *testing.T) {
	sig := Capture(styledParagraph())
	p := doc.NewParagraph("kept text")
	p.AddRun(" extra", doc.TextStyle{Italic: true})

	Apply(p, sig)

	if p.Style.HeadingLevel != 2 || p.Style.Alignment != doc.AlignCenter {
		t.Errorf("paragraph style not applied: %+v", p.Style)
	}
	if p.Text() != "kept text extra" {
		t.Errorf("Apply changed the text to %q", p.Text())
	}
	if !p.Runs[1].Style.Italic {
		t.Error("Apply changed run formatting")
	}
}

func TestLeadRun(t *testing.T) {
	sig := Capture(styledParagraph())
	if !sig.LeadRun().Bold {
		t.Errorf("expected bold lead style, got %+v", sig.LeadRun())
	}

	empty := Capture(doc.NewParagraph(""))
	if empty.LeadRun() != (doc.TextStyle{}) {
		t.Errorf("expected zero style for empty source, got %+v", empty.LeadRun())
	}
}

func TestNewParagraph(t *testing.T) {
	sig := Capture(styledParagraph())
	p := NewParagraph("replacement", sig)

	if p.Text() != "replacement" {
		t.Errorf("expected 'replacement', got %q", p.Text())
	}
	if p.Style != sig.Para {
		t.Errorf("expected paragraph style %+v, got %+v", sig.Para, p.Style)
	}
	if len(p.Runs) != 1 || !p.Runs[0].Style.Bold {
		t.Errorf("expected one run with the left-edge style, got %+v", p.Runs)
	}

	blank := NewParagraph("", sig)
	if len(blank.Runs) != 0 {
		t.Errorf("expected no runs for empty text, got %d", len(blank.Runs))
	}
}

func TestEqual(t *testing.T) {
	a := Capture(styledParagraph())
	b := Capture(styledParagraph())
	if !Equal(a, b) {
		t.Error("identical captures should be equal")
	}

	b.Runs[1].Italic = true
	if Equal(a, b) {
		t.Error("differing run styles should not be equal")
	}

	c := Capture(styledParagraph())
	c.Para.Alignment = doc.AlignRight
	if Equal(a, c) {
		t.Error("differing paragraph styles should not be equal")
	}
}
