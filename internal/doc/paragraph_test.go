package doc

import (
	"errors"
	"testing"
)

func TestNewHeading(t *testing.T) {
	tests := []struct {
		level     int
		wantLevel int
		wantStyle string
	}{
		{1, 1, "Heading1"},
		{5, 5, "Heading5"},
		{9, 9, "Heading9"},
		{0, 1, "Heading1"},
		{12, 9, "Heading9"},
	}
	for _, tt := range tests {
		h := NewHeading("Title", tt.level)
		if h.Style.HeadingLevel != tt.wantLevel {
			t.Errorf("level %d: expected heading level %d, got %d", tt.level, tt.wantLevel, h.Style.HeadingLevel)
		}
		if h.Style.StyleName != tt.wantStyle {
			t.Errorf("level %d: expected style %s, got %s", tt.level, tt.wantStyle, h.Style.StyleName)
		}
	}
}

func TestParagraph_Text(t *testing.T) {
	p := NewParagraph("Hello")
	p.AddRun(" ", TextStyle{})
	p.AddRun("World", TextStyle{Bold: true})

	if got := p.Text(); got != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", got)
	}
	if p.Len() != 11 {
		t.Errorf("expected length 11, got %d", p.Len())
	}
}

func TestParagraph_SplitRunsAtBoundary(t *testing.T) {
	p := NewParagraph("")
	p.AddRun("abc", TextStyle{Bold: true})
	p.AddRun("def", TextStyle{Italic: true})

	i, err := p.SplitRuns(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i != 1 {
		t.Errorf("expected boundary index 1, got %d", i)
	}
	if len(p.Runs) != 2 {
		t.Errorf("expected run list unchanged, got %d runs", len(p.Runs))
	}
}

func TestParagraph_SplitRunsInsideRun(t *testing.T) {
	p := NewParagraph("")
	p.AddRun("abcdef", TextStyle{Bold: true})

	i, err := p.SplitRuns(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i != 1 {
		t.Errorf("expected boundary index 1, got %d", i)
	}
	if len(p.Runs) != 2 {
		t.Fatalf("expected 2 runs after split, got %d", len(p.Runs))
	}
	if p.Runs[0].Text != "ab" || p.Runs[1].Text != "cdef" {
		t.Errorf("expected 'ab'+'cdef', got %q+%q", p.Runs[0].Text, p.Runs[1].Text)
	}
	if !p.Runs[0].Style.Bold || !p.Runs[1].Style.Bold {
		t.Error("split runs should both keep the original style")
	}
	if got := p.Text(); got != "abcdef" {
		t.Errorf("split changed text to %q", got)
	}
}

func TestParagraph_SplitRunsEnds(t *testing.T) {
	p := NewParagraph("abc")

	i, err := p.SplitRuns(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i != 0 {
		t.Errorf("expected index 0 at start, got %d", i)
	}

	i, err = p.SplitRuns(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i != 1 {
		t.Errorf("expected index 1 at end, got %d", i)
	}

	if _, err := p.SplitRuns(4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestParagraph_DeleteTextRange(t *testing.T) {
	p := NewParagraph("")
	p.AddRun("Hello ", TextStyle{})
	p.AddRun("cruel ", TextStyle{Bold: true})
	p.AddRun("World", TextStyle{Italic: true})

	if err := p.DeleteTextRange(6, 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Text(); got != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", got)
	}
	if len(p.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(p.Runs))
	}
	if !p.Runs[1].Style.Italic {
		t.Error("surviving run lost its style")
	}
}

func TestParagraph_DeleteTextRangeAcrossRuns(t *testing.T) {
	p := NewParagraph("")
	p.AddRun("abcd", TextStyle{})
	p.AddRun("efgh", TextStyle{Bold: true})

	if err := p.DeleteTextRange(2, 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.Text(); got != "abgh" {
		t.Errorf("expected 'abgh', got %q", got)
	}
	if !p.Runs[len(p.Runs)-1].Style.Bold {
		t.Error("trailing fragment lost its style")
	}
}

func TestParagraph_DeleteTextRangeBounds(t *testing.T) {
	p := NewParagraph("abc")

	tests := []struct {
		start, end int
	}{
		{-1, 2},
		{3, 4},
		{1, 1},
		{2, 1},
		{0, 4},
	}
	for _, tt := range tests {
		if err := p.DeleteTextRange(tt.start, tt.end); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("DeleteTextRange(%d, %d): expected ErrOutOfRange, got %v", tt.start, tt.end, err)
		}
	}
}
