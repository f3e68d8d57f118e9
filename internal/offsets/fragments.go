package offsets

import (
	"strings"
	"unicode/utf8"

	"github.com/annolab/anchor/internal/doctext"
	"golang.org/x/net/html"
)

// fragmentIndex is the ordered flattened-text index of a parsed document.
// Fragments tile the flattened text exactly: fragment i ends where
// fragment i+1 starts, and their concatenation is the whole text.
type fragmentIndex struct {
	fragments []doctext.Fragment
	owners    []*html.Node // text node that produced fragments[i]
	text      string
}

// buildIndex walks the tree in document order and records every text node
// with its rune span in the running concatenation.
func buildIndex(root *html.Node) *fragmentIndex {
	idx := &fragmentIndex{}
	var flat strings.Builder
	pos := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			start := pos
			flat.WriteString(n.Data)
			pos += utf8.RuneCountInString(n.Data)
			idx.fragments = append(idx.fragments, doctext.Fragment{
				Text:  n.Data,
				Start: start,
				End:   pos,
			})
			idx.owners = append(idx.owners, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	idx.text = flat.String()
	return idx
}

// byOwner returns the fragment produced by the given text node.
func (idx *fragmentIndex) byOwner(n *html.Node) (doctext.Fragment, bool) {
	for i, owner := range idx.owners {
		if owner == n {
			return idx.fragments[i], true
		}
	}
	return doctext.Fragment{}, false
}

// byText returns the first fragment in document order whose text equals s.
// A non-nil scope restricts the search to fragments inside that node.
func (idx *fragmentIndex) byText(scope *html.Node, s string) (doctext.Fragment, bool) {
	for i, f := range idx.fragments {
		if f.Text != s {
			continue
		}
		if scope == nil || isInside(idx.owners[i], scope) {
			return f, true
		}
	}
	return doctext.Fragment{}, false
}

func isInside(n, ancestor *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
