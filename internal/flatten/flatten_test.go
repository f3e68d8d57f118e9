package flatten

import (
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		wantErr  bool
	}{
		{"doc.html", false},
		{"doc.htm", false},
		{"doc.md", false},
		{"doc.markdown", false},
		{"doc.txt", false},
		{"doc.csv", false},
		{"doc.pdf", false},
		{"doc.docx", false},
		{"doc.exe", true},
		{"doc", true},
	}
	for _, c := range cases {
		_, err := ForFile(c.filename)
		if c.wantErr && err == nil {
			t.Errorf("expected error for %q, got nil", c.filename)
		}
		if !c.wantErr && err != nil {
			t.Errorf("unexpected error for %q: %v", c.filename, err)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("report.PDF") {
		t.Error("expected uppercase extension to be supported")
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("expected .zip to be unsupported")
	}
}

func TestBuilder_SeparatorBetweenFragments(t *testing.T) {
	var b builder
	b.add("first", 0)
	b.add("second", 2)

	ft := b.flatText("t")
	if ft.Text != "first\n\nsecond" {
		t.Errorf("expected flat text %q, got %q", "first\n\nsecond", ft.Text)
	}
	if len(ft.Fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(ft.Fragments))
	}
	if ft.Fragments[0].Start != 0 || ft.Fragments[0].End != 5 {
		t.Errorf("expected first span (0,5), got (%d,%d)", ft.Fragments[0].Start, ft.Fragments[0].End)
	}
	if ft.Fragments[1].Start != 7 || ft.Fragments[1].End != 13 {
		t.Errorf("expected second span (7,13), got (%d,%d)", ft.Fragments[1].Start, ft.Fragments[1].End)
	}
	if ft.Fragments[1].Page != 2 {
		t.Errorf("expected page 2, got %d", ft.Fragments[1].Page)
	}
}

func TestBuilder_SkipsEmptyText(t *testing.T) {
	var b builder
	b.add("  \n ", 0)
	b.add("", 0)
	ft := b.flatText("t")
	if len(ft.Fragments) != 0 {
		t.Errorf("expected 0 fragments, got %d", len(ft.Fragments))
	}
}
