package offsets

import (
	"strings"
	"testing"
)

func TestBuildIndex_FragmentsTileFlatText(t *testing.T) {
	r, err := NewResolver("<div><h1>Title</h1><p>First para</p><p>Second</p></div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frags := r.Fragments()
	if len(frags) == 0 {
		t.Fatal("expected fragments, got none")
	}

	pos := 0
	var rebuilt strings.Builder
	for i, f := range frags {
		if f.Start != pos {
			t.Errorf("fragment %d: expected start %d, got %d", i, pos, f.Start)
		}
		if f.End < f.Start {
			t.Errorf("fragment %d: end %d before start %d", i, f.End, f.Start)
		}
		rebuilt.WriteString(f.Text)
		pos = f.End
	}
	if rebuilt.String() != r.FlatText() {
		t.Errorf("expected fragment concatenation %q to equal flat text %q", rebuilt.String(), r.FlatText())
	}
}

func TestBuildIndex_WhitespaceNodesKept(t *testing.T) {
	r, err := NewResolver("<div><p>A</p> <p>B</p></div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FlatText() != "A B" {
		t.Errorf("expected flat text %q, got %q", "A B", r.FlatText())
	}
	if len(r.Fragments()) != 3 {
		t.Errorf("expected 3 fragments, got %d", len(r.Fragments()))
	}
}

func TestBuildIndex_EmptyDocument(t *testing.T) {
	r, err := NewResolver("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FlatText() != "" {
		t.Errorf("expected empty flat text, got %q", r.FlatText())
	}
	if len(r.Fragments()) != 0 {
		t.Errorf("expected 0 fragments, got %d", len(r.Fragments()))
	}
}

func TestByText_ScopedToNode(t *testing.T) {
	r, err := NewResolver("<div><p>Same</p><p>Same</p></div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unscoped search finds the first occurrence.
	frag, ok := r.idx.byText(nil, "Same")
	if !ok {
		t.Fatal("expected fragment for unscoped search")
	}
	if frag.Start != 0 || frag.End != 4 {
		t.Errorf("expected first occurrence (0,4), got (%d,%d)", frag.Start, frag.End)
	}

	// Scoping to the second paragraph's text node parent skips the first.
	second := r.idx.owners[1].Parent
	frag, ok = r.idx.byText(second, "Same")
	if !ok {
		t.Fatal("expected fragment for scoped search")
	}
	if frag.Start != 4 || frag.End != 8 {
		t.Errorf("expected second occurrence (4,8), got (%d,%d)", frag.Start, frag.End)
	}
}
