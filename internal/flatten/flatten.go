// Package flatten extracts a document's flattened text, with per-fragment
// spans, from the formats annotation clients upload. For every format
// except HTML, fragments are separated by a blank line in the flattened
// text; fragment spans cover the fragment text only, never the separator.
package flatten

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/annolab/anchor/internal/doctext"
)

// Flattener converts raw document bytes into a FlatText.
type Flattener interface {
	Flatten(r io.Reader, filename string) (*doctext.FlatText, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate flattener for a filename.
func ForFile(filename string) (Flattener, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextFlattener{}, nil
	case ".md", ".markdown":
		return &MarkdownFlattener{}, nil
	case ".csv":
		return &CSVFlattener{}, nil
	case ".html", ".htm":
		return &HTMLFlattener{}, nil
	case ".pdf":
		return &PDFFlattener{}, nil
	case ".docx":
		return &DOCXFlattener{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

const fragmentSeparator = "\n\n"

// builder accumulates fragments with running rune offsets, inserting the
// separator between consecutive fragments.
type builder struct {
	buf   strings.Builder
	pos   int
	frags []doctext.Fragment
}

func (b *builder) add(text string, page int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.pos > 0 {
		b.buf.WriteString(fragmentSeparator)
		b.pos += utf8.RuneCountInString(fragmentSeparator)
	}
	start := b.pos
	b.buf.WriteString(text)
	b.pos += utf8.RuneCountInString(text)
	b.frags = append(b.frags, doctext.Fragment{
		Text:  text,
		Start: start,
		End:   b.pos,
		Page:  page,
	})
}

func (b *builder) flatText(title string) *doctext.FlatText {
	return &doctext.FlatText{
		Title:     title,
		Text:      b.buf.String(),
		Fragments: b.frags,
	}
}
