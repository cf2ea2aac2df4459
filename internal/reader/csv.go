package reader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVReader renders CSV records as a markdown table so the chunking core
// treats the whole sheet as one protected element.
type CSVReader struct{}

func (p *CSVReader) ReadLines(r io.Reader, filename string) (Document, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("parse csv: %w", err)
	}

	doc := Document{Title: baseTitle(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	doc.Lines = append(doc.Lines, tableRow(records[0]))
	doc.Lines = append(doc.Lines, tableSeparator(len(records[0])))
	for _, record := range records[1:] {
		doc.Lines = append(doc.Lines, tableRow(record))
	}
	return doc, nil
}

func tableRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		cell = strings.ReplaceAll(cell, "|", `\|`)
		escaped[i] = strings.ReplaceAll(cell, "\n", " ")
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}

func tableSeparator(cols int) string {
	parts := make([]string, cols)
	for i := range parts {
		parts[i] = "---"
	}
	return "| " + strings.Join(parts, " | ") + " |"
}
