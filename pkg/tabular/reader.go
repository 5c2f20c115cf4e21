package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ozstats/labourpipe/core/pipeline"
)

// Row is one data row keyed by trimmed source header.
type Row struct {
	// Line is the 1-based line in the source file, the header being line 1.
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of the named column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// Table is a fully parsed delimited source file.
type Table struct {
	Path    string
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the header row contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ReadFile loads and parses the CSV file at path.
func ReadFile(path string) (*Table, []pipeline.Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	t, warns, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	t.Path = path
	return t, warns, nil
}

// Parse decodes and parses raw CSV bytes. Rows with mismatched column
// counts are padded or truncated to the header width and reported as
// warnings; unreadable rows are skipped the same way.
func Parse(data []byte) (*Table, []pipeline.Warning, error) {
	decoded, _, err := DetectAndDecode(data)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Column count mismatches are handled below, not by the csv package.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty file: no header row")
		}
		return nil, nil, fmt.Errorf("header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers}
	var warns []pipeline.Warning
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			warns = append(warns, pipeline.Warning{
				Kind:   pipeline.WarnMalformedRow,
				Row:    line,
				Detail: fmt.Sprintf("row %d unreadable: %v", line, err),
			})
			continue
		}
		if len(row) != len(headers) {
			detail := fmt.Sprintf("row %d has %d columns, expected %d", line, len(row), len(headers))
			warns = append(warns, pipeline.Warning{Kind: pipeline.WarnMalformedRow, Row: line, Detail: detail})
			if len(row) < len(headers) {
				padded := make([]string, len(headers))
				copy(padded, row)
				row = padded
			} else {
				row = row[:len(headers)]
			}
		}
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			fields[h] = row[i]
		}
		t.Rows = append(t.Rows, Row{Line: line, Fields: fields})
	}
	if len(t.Rows) == 0 {
		return nil, warns, fmt.Errorf("file contains no data rows")
	}
	return t, warns, nil
}
