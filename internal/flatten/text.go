package flatten

import (
	"bufio"
	"io"
	"strings"

	"github.com/annolab/anchor/internal/doctext"
)

// TextFlattener handles plain text files. Each paragraph becomes one
// fragment.
type TextFlattener struct{}

func (p *TextFlattener) Flatten(r io.Reader, filename string) (*doctext.FlatText, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b builder
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			b.add(current.String(), 0)
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return b.flatText(strings.TrimSuffix(filename, ".txt")), nil
}
