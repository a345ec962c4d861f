package attach

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor handles tabular lab exports. The first row is the header;
// each data row becomes one "header: value" line.
type CSVExtractor struct{}

func (p *CSVExtractor) Extract(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0]
	var lines []string
	for _, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		lines = append(lines, strings.Join(cells, ", "))
	}

	var b textBuilder
	b.para("Columns: " + strings.Join(headers, ", "))
	b.para(strings.Join(lines, "\n"))
	return b.String(), nil
}
