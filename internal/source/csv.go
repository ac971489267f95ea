package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVFile reads comma-separated rows of four numbers.
// The first row may be a header naming the columns; it is skipped.
type CSVFile struct {
	Path string
}

// Read loads and decodes the file.
func (f CSVFile) Read(ctx context.Context) (Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, notFound(f.Path, err)
	}
	defer file.Close()

	m, err := DecodeCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return m, nil
}

// Locator returns the file path.
func (f CSVFile) Locator() string {
	return f.Path
}

// DecodeCSV decodes N×4 numeric rows. Errors wrap ErrMalformed.
func DecodeCSV(r io.Reader) (Matrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	m := Matrix{}
	line := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("csv", "%v", err)
		}
		line++

		if len(fields) != Columns {
			return nil, malformed("csv", "row %d: expected %d fields, got %d", line, Columns, len(fields))
		}
		if line == 1 && isHeader(fields) {
			continue
		}

		var row Row
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, malformed("csv", "row %d, column %s: %q is not numeric", line, ColumnNames[i], field)
			}
			row[i] = v
		}
		m = append(m, row)
	}
	return m, nil
}

func isHeader(fields []string) bool {
	for i, field := range fields {
		if !strings.EqualFold(strings.TrimSpace(field), ColumnNames[i]) {
			return false
		}
	}
	return true
}
