// Package table holds a small in-memory model of tabular data: an ordered
// column list plus rows of column-to-scalar mappings. It is the unit both
// the ingestion engine and the transformation pipeline work on.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gear6io/sift/pkg/errors"
)

// Package-specific error codes
var (
	ErrParseFailed = errors.MustNewCode("table.parse_failed")
	ErrNoHeader    = errors.MustNewCode("table.no_header")
	ErrWriteFailed = errors.MustNewCode("table.write_failed")
)

// Row maps column name to a document-safe scalar: string, int64, float64,
// bool, or nil for a missing value.
type Row = map[string]interface{}

// Table is tabular data with a stable column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Missing-value markers normalized to nil at parse time.
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
}

// ReadCSV parses delimited text with a header row into a Table.
// Missing-value markers become nil; remaining cells are coerced to
// int64, float64 or bool where they parse cleanly, else kept as strings.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(ErrNoHeader, "csv input is empty, header row required", nil)
	}
	if err != nil {
		return nil, errors.New(ErrParseFailed, "failed to read csv header", err)
	}

	t := &Table{Columns: append([]string(nil), header...)}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New(ErrParseFailed, "failed to read csv record", err).
				AddContext("row", fmt.Sprintf("%d", len(t.Rows)+1))
		}

		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(record) {
				row[col] = parseCell(record[i])
			} else {
				row[col] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// WriteCSV renders the table back to delimited text, header first,
// cells in column order, nil as an empty cell.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return errors.New(ErrWriteFailed, "failed to write csv header", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = formatCell(row[col])
		}
		if err := writer.Write(record); err != nil {
			return errors.New(ErrWriteFailed, "failed to write csv record", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.New(ErrWriteFailed, "failed to flush csv output", err)
	}
	return nil
}

// TotalRows returns the number of data rows.
func (t *Table) TotalRows() int64 {
	return int64(len(t.Rows))
}

// Sample returns the first min(n, TotalRows) rows as fresh maps.
func (t *Table) Sample(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	sample := make([]Row, 0, n)
	for _, row := range t.Rows[:n] {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		sample = append(sample, copied)
	}
	return sample
}

func parseCell(s string) interface{} {
	if missingMarkers[s] {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	return s
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
