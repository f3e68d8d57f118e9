// Package offsets resolves XPath selections over HTML documents to rune
// offsets in the document's flattened text (the concatenation of all text
// nodes in document order). Annotation tools use it to reconcile
// XPath-based selections with flat-text coordinates.
package offsets

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/annolab/anchor/internal/doctext"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Span is a half-open [Start, End) rune range in the flattened text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Resolver evaluates XPath expressions against a single parsed HTML
// document. Safe for concurrent use once constructed.
type Resolver struct {
	root *html.Node
	idx  *fragmentIndex
}

// NewResolver parses the HTML leniently (tag-soup recovery, never a parse
// failure on malformed markup) and builds the flattened-text index.
func NewResolver(document string) (*Resolver, error) {
	root, err := htmlquery.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Resolver{root: root, idx: buildIndex(root)}, nil
}

// Root returns the parsed document node.
func (r *Resolver) Root() *html.Node { return r.root }

// FlatText returns the concatenation of all text fragments in document order.
func (r *Resolver) FlatText() string { return r.idx.text }

// Fragments returns the ordered fragment spans of the flattened text.
func (r *Resolver) Fragments() []doctext.Fragment { return r.idx.fragments }

// Resolve evaluates xpathExpr, takes the first match only, and returns its
// span in the flattened text. A non-empty substring narrows the span to the
// first literal, case-sensitive occurrence within the matched node's text.
//
// Failures are *NoMatchError (nothing matched), *LookupError (the match's
// text form is not a single fragment of the flattened text) and
// *SubstringNotFoundError.
func (r *Resolver) Resolve(xpathExpr, substring string) (Span, error) {
	expr, err := xpath.Compile(xpathExpr)
	if err != nil {
		return Span{}, fmt.Errorf("compile xpath %q: %w", xpathExpr, err)
	}

	node, nodeText, err := r.firstMatch(expr, xpathExpr)
	if err != nil {
		return Span{}, err
	}

	frag, ok := r.lookup(node, nodeText)
	if !ok {
		return Span{}, &LookupError{NodeText: nodeText}
	}

	if substring == "" {
		return Span{Start: frag.Start, End: frag.End}, nil
	}
	byteIdx := strings.Index(nodeText, substring)
	if byteIdx < 0 {
		return Span{}, &SubstringNotFoundError{Substring: substring, NodeText: nodeText}
	}
	start := frag.Start + utf8.RuneCountInString(nodeText[:byteIdx])
	return Span{Start: start, End: start + utf8.RuneCountInString(substring)}, nil
}

// firstMatch evaluates the compiled expression and consumes only the first
// result. Node-set results stay lazy: nothing past the first node is
// materialized. Scalar results (string, number, boolean) and attribute
// matches carry no usable tree position and resolve by string value.
func (r *Resolver) firstMatch(expr *xpath.Expr, raw string) (*html.Node, string, error) {
	switch v := expr.Evaluate(htmlquery.CreateXPathNavigator(r.root)).(type) {
	case *xpath.NodeIterator:
		if !v.MoveNext() {
			return nil, "", &NoMatchError{Expression: raw}
		}
		nav, ok := v.Current().(*htmlquery.NodeNavigator)
		if !ok || nav.NodeType() == xpath.AttributeNode {
			return nil, v.Current().Value(), nil
		}
		node := nav.Current()
		return node, stringify(node), nil
	case string:
		return nil, v, nil
	case float64:
		return nil, strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return nil, strconv.FormatBool(v), nil
	default:
		return nil, "", &NoMatchError{Expression: raw}
	}
}

// lookup finds the fragment carrying the matched node's text. Text nodes
// resolve by identity, so duplicate fragment text elsewhere in the document
// cannot misdirect the span. Elements resolve to the first descendant
// fragment equal to their inner text; an element whose text spans several
// fragments has no exact entry. Scalar results scan the whole document.
func (r *Resolver) lookup(node *html.Node, nodeText string) (doctext.Fragment, bool) {
	if node != nil && node.Type == html.TextNode {
		return r.idx.byOwner(node)
	}
	return r.idx.byText(node, nodeText)
}

// stringify is the canonical text form of a matched node: a text node is
// its own data, anything else its concatenated inner text.
func stringify(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	return htmlquery.InnerText(n)
}

// Resolve is the one-shot form: parse the document, resolve one expression.
// Each call owns all of its working data, so concurrent calls need no
// coordination.
func Resolve(document, xpathExpr, substring string) (Span, error) {
	r, err := NewResolver(document)
	if err != nil {
		return Span{}, err
	}
	return r.Resolve(xpathExpr, substring)
}
