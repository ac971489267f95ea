// Package source reads the raw record artifact that feeds a trajectory store.
//
// Every carrier yields the same thing: an N×4 numeric matrix whose columns are
// time_index, object_id, latitude and longitude, in that order. Nothing else is
// accepted.
//
// # Carriers
//
//   - NPY: NumPy array files (format v1, v2 and v3). Rank must be 2 with
//     exactly 4 columns. Integer, unsigned and float dtypes of any width are
//     widened to float64. C and Fortran order are both supported.
//   - CSV: 4 numeric fields per row, optional header naming the columns.
//   - SQLite: a "records" table with the four columns, read in rowid order.
//
// Open picks a carrier from the locator's extension and falls back to NPY.
//
// # Errors
//
// Read failures are classified with two sentinels so callers can branch with
// errors.Is:
//
//   - ErrNotFound: the locator does not resolve or cannot be read.
//   - ErrMalformed: the artifact exists but is not an N×4 numeric matrix.
package source
