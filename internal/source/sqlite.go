package source

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteFile reads the records table of a SQLite database.
type SQLiteFile struct {
	Path string
}

// Read loads every row of the records table in rowid order.
//
// The database is opened read-only; a missing file is reported as ErrNotFound
// rather than silently created.
func (f SQLiteFile) Read(ctx context.Context) (Matrix, error) {
	if _, err := os.Stat(f.Path); err != nil {
		return nil, notFound(f.Path, err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", f.Path))
	if err != nil {
		return nil, notFound(f.Path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT time_index, object_id, latitude, longitude
		FROM records
		ORDER BY rowid ASC
	`)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, malformed(f.Path, "query records: %v", err)
	}
	defer rows.Close()

	m := Matrix{}
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row[ColTimeIndex], &row[ColObjectID], &row[ColLatitude], &row[ColLongitude]); err != nil {
			return nil, malformed(f.Path, "row %d: %v", len(m)+1, err)
		}
		m = append(m, row)
	}
	if err := rows.Err(); err != nil {
		return nil, malformed(f.Path, "iterate records: %v", err)
	}
	return m, nil
}

// Locator returns the database path.
func (f SQLiteFile) Locator() string {
	return f.Path
}

// WriteSQLite stores m as the records table of the database at path,
// replacing any records already there. The database is created if needed.
func WriteSQLite(ctx context.Context, path string, m Matrix) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Single writer, one connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		return fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS records"); err != nil {
		return fmt.Errorf("failed to reset records: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (time_index, object_id, latitude, longitude)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range m {
		if _, err := stmt.ExecContext(ctx, row[ColTimeIndex], int64(row[ColObjectID]), row[ColLatitude], row[ColLongitude]); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// applyPragmas sets connection options for a one-shot artifact write.
// The default rollback journal is kept so no -wal/-shm files are left behind.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
