package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Columns is the fixed width of every source row.
const Columns = 4

// Column positions inside a Row.
const (
	ColTimeIndex = 0
	ColObjectID  = 1
	ColLatitude  = 2
	ColLongitude = 3
)

// ColumnNames lists the column names in Row order.
var ColumnNames = [Columns]string{"time_index", "object_id", "latitude", "longitude"}

var (
	// ErrNotFound reports a locator that does not resolve or cannot be read.
	ErrNotFound = errors.New("source not found")

	// ErrMalformed reports an artifact that is not an N×4 numeric matrix.
	ErrMalformed = errors.New("source malformed")
)

// Row is one raw observation: time_index, object_id, latitude, longitude.
type Row [Columns]float64

// Matrix is the raw N×4 content of a source, in artifact order.
type Matrix []Row

// Reader produces the raw matrix behind a locator.
type Reader interface {
	// Read loads the whole matrix. Errors wrap ErrNotFound or ErrMalformed.
	Read(ctx context.Context) (Matrix, error)

	// Locator describes where the data comes from (usually a path).
	Locator() string
}

// Open returns the Reader for a locator, chosen by file extension.
// Unknown extensions are read as NPY.
func Open(locator string) Reader {
	switch strings.ToLower(filepath.Ext(locator)) {
	case ".csv":
		return CSVFile{Path: locator}
	case ".db", ".sqlite", ".sqlite3":
		return SQLiteFile{Path: locator}
	default:
		return NPYFile{Path: locator}
	}
}

// Static serves an in-memory matrix. Useful for embedding and tests.
type Static struct {
	Name string
	Rows Matrix
}

// Read returns a copy of the rows.
func (s Static) Read(ctx context.Context) (Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(Matrix, len(s.Rows))
	copy(out, s.Rows)
	return out, nil
}

// Locator returns the configured name, or "static".
func (s Static) Locator() string {
	if s.Name == "" {
		return "static"
	}
	return s.Name
}

func notFound(locator string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrNotFound, locator, err)
}

func malformed(locator, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformed, locator, fmt.Sprintf(format, args...))
}
