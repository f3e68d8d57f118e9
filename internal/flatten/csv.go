package flatten

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/annolab/anchor/internal/doctext"
)

// CSVFlattener handles CSV files. The header row and each data row become
// one fragment, with cells labeled by their column header.
type CSVFlattener struct{}

func (p *CSVFlattener) Flatten(r io.Reader, filename string) (*doctext.FlatText, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := strings.TrimSuffix(filename, ".csv")
	var b builder
	if len(records) == 0 {
		return b.flatText(title), nil
	}

	headers := records[0]
	b.add("Headers: "+strings.Join(headers, ", "), 0)

	for _, row := range records[1:] {
		var line strings.Builder
		for j, cell := range row {
			if j > 0 {
				line.WriteString(", ")
			}
			if j < len(headers) {
				line.WriteString(headers[j] + ": " + cell)
			} else {
				line.WriteString(cell)
			}
		}
		b.add(line.String(), 0)
	}

	return b.flatText(title), nil
}
