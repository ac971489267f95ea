package source

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// npyMagic prefixes every NumPy array file.
const npyMagic = "\x93NUMPY"

// NPYFile reads a NumPy .npy file from disk.
type NPYFile struct {
	Path string
}

// Read loads and decodes the file.
func (f NPYFile) Read(ctx context.Context) (Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, notFound(f.Path, err)
	}
	m, err := DecodeNPY(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return m, nil
}

// Locator returns the file path.
func (f NPYFile) Locator() string {
	return f.Path
}

// DecodeNPY decodes an N×4 array from NumPy's .npy format. Float, signed and
// unsigned integer dtypes of either byte order are widened to float64.
// Errors wrap ErrMalformed.
func DecodeNPY(r io.Reader) (Matrix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, malformed("npy", "read: %v", err)
	}

	nr, err := npyio.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, malformed("npy", "%v", err)
	}
	descr := nr.Header.Descr

	size, err := npyElemSize(descr.Type)
	if err != nil {
		return nil, err
	}
	if len(descr.Shape) != 2 {
		return nil, malformed("npy", "expected a 2-d array, got shape %v", descr.Shape)
	}
	rows, cols := descr.Shape[0], descr.Shape[1]
	if cols != Columns {
		return nil, malformed("npy", "expected %d columns, got %d", Columns, cols)
	}

	body, err := npyBodyLen(data)
	if err != nil {
		return nil, err
	}
	// Compare by division so a huge shape cannot overflow or drive allocation.
	if rows < 0 || rows > body/(cols*size) {
		return nil, malformed("npy", "truncated data: shape %v needs more than the %d bytes present", descr.Shape, body)
	}

	var flat []float64
	if err := nr.Read(&flat); err != nil {
		return nil, malformed("npy", "read data: %v", err)
	}
	if len(flat) != rows*cols {
		return nil, malformed("npy", "read %d values, want %d", len(flat), rows*cols)
	}

	m := make(Matrix, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			idx := i*cols + j
			if descr.Fortran {
				idx = j*rows + i
			}
			m[i][j] = flat[idx]
		}
	}
	return m, nil
}

// npyElemSize returns the byte width of a simple numeric dtype such as "<f8".
func npyElemSize(dtype string) (int, error) {
	t := strings.TrimLeft(dtype, "<>|=")
	if len(t) < 2 || !strings.ContainsRune("fiu", rune(t[0])) {
		return 0, malformed("npy", "non-numeric or unsupported dtype %q", dtype)
	}
	size, err := strconv.Atoi(t[1:])
	if err != nil || size <= 0 {
		return 0, malformed("npy", "unsupported dtype %q", dtype)
	}
	return size, nil
}

// npyBodyLen returns the number of bytes after the header block.
func npyBodyLen(data []byte) (int, error) {
	prelude := len(npyMagic) + 2
	if len(data) < prelude+4 {
		return 0, malformed("npy", "short header")
	}
	var end int
	switch data[len(npyMagic)] {
	case 1:
		end = prelude + 2 + int(binary.LittleEndian.Uint16(data[prelude:]))
	default:
		end = prelude + 4 + int(binary.LittleEndian.Uint32(data[prelude:]))
	}
	if end > len(data) {
		return 0, malformed("npy", "short header")
	}
	return len(data) - end, nil
}

// EncodeNPY writes m as a little-endian float64, C-order array.
func EncodeNPY(w io.Writer, m Matrix) error {
	if len(m) == 0 {
		return fmt.Errorf("write npy: empty matrix")
	}
	flat := make([]float64, 0, len(m)*Columns)
	for _, row := range m {
		flat = append(flat, row[:]...)
	}
	if err := npyio.Write(w, mat.NewDense(len(m), Columns, flat)); err != nil {
		return fmt.Errorf("write npy: %w", err)
	}
	return nil
}
