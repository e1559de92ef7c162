// Package weights implements the per-class linear weight matrix and its persistence
package weights

import "fmt"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/hillclimb/errs"

// Matrix holds one row of weights per class, one weight per pixel.
//
// A Matrix is never modified once handed to a scorer; the trainer builds
// a fresh one with Clone for every candidate.
type Matrix struct {
	d *mat.Dense
}

// New returns a zero matrix.
func New(classes, pixels int) (*Matrix, error) {
	if classes <= 0 {
		return nil, errs.Configf("%d classes", classes)
	}
	if pixels <= 0 {
		return nil, errs.Configf("%d pixels", pixels)
	}
	return &Matrix{d: mat.NewDense(classes, pixels, nil)}, nil
}

// FromRows copies rows into a new matrix. All rows must have equal length.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, errs.Config("0 classes")
	}
	m, err := New(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for c, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, errs.Configf("class %d has %d weights, want %d", c, len(row), len(rows[0]))
		}
		m.d.SetRow(c, row)
	}
	return m, nil
}

// Classes reports the number of rows.
func (m *Matrix) Classes() int {
	r, _ := m.d.Dims()
	return r
}

// Pixels reports the number of weights per class.
func (m *Matrix) Pixels() int {
	_, c := m.d.Dims()
	return c
}

// Row returns the weights of class c. The slice aliases the matrix.
func (m *Matrix) Row(c int) []float64 {
	return m.d.RawRowView(c)
}

// At returns the weight of class c at pixel i.
func (m *Matrix) At(c, i int) float64 {
	return m.d.At(c, i)
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{d: mat.DenseCopyOf(m.d)}
}

// Check verifies the matrix shape.
func (m *Matrix) Check(classes, pixels int) error {
	if m == nil {
		return errs.Config("nil weights")
	}
	if m.Classes() != classes {
		return errs.Configf("weights have %d classes, want %d", m.Classes(), classes)
	}
	if m.Pixels() != pixels {
		return errs.Configf("weights have %d pixels, samples have %d", m.Pixels(), pixels)
	}
	return nil
}

// EqualApprox reports whether both matrices have the same shape and all
// weights within tol.
func (m *Matrix) EqualApprox(o *Matrix, tol float64) bool {
	return mat.EqualApprox(m.d, o.d, tol)
}

// String renders the matrix for debugging.
func (m *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.d, mat.Excerpt(3), mat.Squeeze()))
}
