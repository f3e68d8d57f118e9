package flatten

import (
	"fmt"
	"io"
	"strings"

	"github.com/annolab/anchor/internal/doctext"
	"github.com/annolab/anchor/internal/offsets"
	"github.com/antchfx/htmlquery"
)

// HTMLFlattener handles HTML files. It reuses the resolver's traversal so
// the fragments here line up exactly with XPath-resolved spans: raw text
// nodes, tiled with no separators.
type HTMLFlattener struct{}

func (p *HTMLFlattener) Flatten(r io.Reader, filename string) (*doctext.FlatText, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	res, err := offsets.NewResolver(string(src))
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".html"), ".htm")
	if node, err := htmlquery.Query(res.Root(), "//title"); err == nil && node != nil {
		if t := strings.TrimSpace(htmlquery.InnerText(node)); t != "" {
			title = t
		}
	}

	return &doctext.FlatText{
		Title:     title,
		Text:      res.FlatText(),
		Fragments: res.Fragments(),
	}, nil
}
