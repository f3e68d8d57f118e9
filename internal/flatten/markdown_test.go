package flatten

import (
	"strings"
	"testing"
)

func TestMarkdownFlattener_HeadingsAndParagraphs(t *testing.T) {
	input := "# Overview\n\nFirst paragraph.\n\n## Details\n\nSecond paragraph."
	p := &MarkdownFlattener{}
	ft, err := p.Flatten(strings.NewReader(input), "readme.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ft.Title != "readme" {
		t.Errorf("expected title %q, got %q", "readme", ft.Title)
	}

	want := []string{"Overview", "First paragraph.", "Details", "Second paragraph."}
	if len(ft.Fragments) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %#v", len(want), len(ft.Fragments), ft.Fragments)
	}
	for i, w := range want {
		if ft.Fragments[i].Text != w {
			t.Errorf("fragment[%d]: expected %q, got %q", i, w, ft.Fragments[i].Text)
		}
	}
}

func TestMarkdownFlattener_SpansSliceFlatText(t *testing.T) {
	input := "# Title\n\nBody text."
	p := &MarkdownFlattener{}
	ft, err := p.Flatten(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runes := []rune(ft.Text)
	for i, f := range ft.Fragments {
		got := string(runes[f.Start:f.End])
		if got != f.Text {
			t.Errorf("fragment[%d]: span (%d,%d) yields %q, expected %q", i, f.Start, f.End, got, f.Text)
		}
	}
}

func TestMarkdownFlattener_EmphasisFlattened(t *testing.T) {
	input := "Some *emphasized* words."
	p := &MarkdownFlattener{}
	ft, err := p.Flatten(strings.NewReader(input), "em.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ft.Fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(ft.Fragments))
	}
	if ft.Fragments[0].Text != "Some emphasized words." {
		t.Errorf("expected %q, got %q", "Some emphasized words.", ft.Fragments[0].Text)
	}
}

func TestMarkdownFlattener_EmptyInput(t *testing.T) {
	p := &MarkdownFlattener{}
	ft, err := p.Flatten(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ft.Fragments) != 0 {
		t.Errorf("expected 0 fragments, got %d", len(ft.Fragments))
	}
}
