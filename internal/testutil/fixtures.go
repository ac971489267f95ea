// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/trajectory/internal/source"
)

// ScenarioA holds object 1 once, object 2 three times and object 3 twice,
// with time indexes out of order.
var ScenarioA = source.Matrix{
	{5, 2, 48.130, 11.560},
	{2, 3, 52.520, 13.400},
	{1, 1, 40.710, -74.000},
	{3, 2, 48.135, 11.570},
	{4, 3, 52.525, 13.410},
	{0, 2, 48.140, 11.580},
}

// Trajectory4 is a small table where object 4 is the tracked vehicle and
// object 9 shares time indexes with it.
var Trajectory4 = source.Matrix{
	{0, 4, 48.000, 11.000},
	{0, 9, 50.000, 10.000},
	{1, 4, 48.010, 11.020},
	{1, 9, 50.010, 10.010},
	{2, 4, 48.030, 11.030},
	{3, 7, 0.000, 0.000},
}

// WriteNPY writes m as an .npy file under a fresh temp dir and returns its path.
func WriteNPY(t *testing.T, name string, m source.Matrix) string {
	t.Helper()
	var buf bytes.Buffer
	if err := source.EncodeNPY(&buf, m); err != nil {
		t.Fatalf("EncodeNPY() failed: %v", err)
	}
	return WriteFile(t, name, buf.Bytes())
}

// WriteCSV writes m as a CSV file with a header row and returns its path.
func WriteCSV(t *testing.T, name string, m source.Matrix) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(source.ColumnNames[:], ",") + "\n")
	for _, row := range m {
		fmt.Fprintf(&b, "%v,%v,%v,%v\n", row[0], row[1], row[2], row[3])
	}
	return WriteFile(t, name, []byte(b.String()))
}

// WriteSQLite writes m as a SQLite records table and returns its path.
func WriteSQLite(t *testing.T, name string, m source.Matrix) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := source.WriteSQLite(context.Background(), path, m); err != nil {
		t.Fatalf("WriteSQLite() failed: %v", err)
	}
	return path
}

// WriteFile writes raw bytes under a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

// MissingPath returns a path inside a temp dir that does not exist.
func MissingPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing", name)
}
