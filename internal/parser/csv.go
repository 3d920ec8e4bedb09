package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvBatchSize is the number of data rows rendered per page.
const csvBatchSize = 20

// CSVParser handles tabular exports such as a results table saved as CSV.
// Each batch of rows becomes one page, every cell labelled with its header.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	rows := records[1:]
	if len(rows) == 0 {
		doc.Pages = append(doc.Pages, strings.Join(headers, ", "))
		return doc, nil
	}

	for i := 0; i < len(rows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(rows))

		var text strings.Builder
		for _, row := range rows[i:end] {
			for j, cell := range row {
				if j > 0 {
					text.WriteString(", ")
				}
				if j < len(headers) && headers[j] != "" {
					text.WriteString(headers[j] + ": ")
				}
				text.WriteString(cell)
			}
			text.WriteString("\n")
		}
		doc.Pages = append(doc.Pages, strings.TrimSuffix(text.String(), "\n"))
	}
	return doc, nil
}
