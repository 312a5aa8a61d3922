// Package matrix provides the dense row-major buffer that holds a map's
// weights and neuron distances.
package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when two matrices that must match in shape do not.
var ErrShape = errors.New("matrix: shape mismatch")

// Matrix is a fixed-size rows×cols matrix of float64 values stored in a
// single row-major slice. The shape never changes after construction.
//
// Indexing outside [0, rows)×[0, cols) is a programming error and panics.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New allocates a zero-filled rows×cols matrix.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative dimension %d×%d", rows, cols))
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Dims returns the number of rows and columns. Together with At and T it
// makes *Matrix a gonum mat.Matrix.
func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) float64 {
	m.check(row, col)
	return m.data[col+row*m.cols]
}

// Set sets the element at (row, col).
func (m *Matrix) Set(row, col int, v float64) {
	m.check(row, col)
	m.data[col+row*m.cols] = v
}

// T returns the transpose view of m.
func (m *Matrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// Row returns a copy of the given row. Writes to the returned slice do not
// affect the matrix; use Set to write back.
func (m *Matrix) Row(row int) []float64 {
	out := make([]float64, m.cols)
	copy(out, m.RowView(row))
	return out
}

// RowView returns the given row without copying. The slice aliases the
// matrix storage: writes through it mutate the matrix, and it stays valid
// for the lifetime of m.
func (m *Matrix) RowView(row int) []float64 {
	if row < 0 || row >= m.rows {
		panic(fmt.Sprintf("matrix: row %d out of range [0,%d)", row, m.rows))
	}
	return m.data[row*m.cols : (row+1)*m.cols : (row+1)*m.cols]
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := New(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// CloneEmpty returns a zero-filled matrix with the shape of m.
func (m *Matrix) CloneEmpty() *Matrix {
	return New(m.rows, m.cols)
}

// CopyFrom overwrites m with the contents of src.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if !m.SameShape(src) {
		return fmt.Errorf("copy %d×%d into %d×%d: %w", src.rows, src.cols, m.rows, m.cols, ErrShape)
	}
	copy(m.data, src.data)
	return nil
}

// SameShape reports whether m and o have identical dimensions.
func (m *Matrix) SameShape(o *Matrix) bool {
	return o != nil && m.rows == o.rows && m.cols == o.cols
}

// Lerp writes a·(1-t) + b·t into dst element-wise.
// dst may alias a or b.
func Lerp(dst, a, b *Matrix, t float64) error {
	if !dst.SameShape(a) || !dst.SameShape(b) {
		return fmt.Errorf("lerp: %w", ErrShape)
	}
	for i := range dst.data {
		dst.data[i] = a.data[i]*(1-t) + b.data[i]*t
	}
	return nil
}

func (m *Matrix) check(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range [0,%d)×[0,%d)", row, col, m.rows, m.cols))
	}
}
