package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/j-russo/chunking-visualizer/internal/doctree"
)

// csvBatchSize is the number of data rows grouped into one section.
const csvBatchSize = 20

// CSVParser handles CSV files. The first row is the header; every data row
// renders as one "header: value" line and rows are grouped into sections.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return tree, nil
	}

	headers, rows := records[0], records[1:]
	for i := 0; i < len(rows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(rows))
		lines := make([]string, 0, end-i)
		for _, row := range rows[i:end] {
			lines = append(lines, csvRowLine(headers, row))
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Rows %d-%d", i+2, end+1), // 1-indexed, after the header
			Text:  strings.Join(lines, "\n"),
		})
	}
	return tree, nil
}

func csvRowLine(headers, row []string) string {
	cells := make([]string, len(row))
	for j, cell := range row {
		if j < len(headers) {
			cells[j] = headers[j] + ": " + cell
		} else {
			cells[j] = cell
		}
	}
	return strings.Join(cells, ", ")
}
