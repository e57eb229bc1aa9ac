package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a row major gonum Dense. Wavefunction sets are stored one
// state per row so that each state is a contiguous slice.
type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix       { return m.M.T() }
func (m Matrix) Data() []float64     { return m.M.RawMatrix().Data }

func (m Matrix) IsEmpty() bool { return m.M == nil }

// RowView returns the storage of row i, writes go through to the receiver
func (m Matrix) RowView(i int) []float64 {
	return m.M.RawRowView(i)
}

// Grow returns a matrix with at least nr rows, the leading rows of the
// receiver are copied into it
func (m Matrix) Grow(nr int) (R Matrix) {
	var (
		nrM, nc = 0, 0
	)
	if !m.IsEmpty() {
		nrM, nc = m.Dims()
		if nrM >= nr {
			return m
		}
	}
	if nc == 0 {
		panic("unable to grow a matrix without columns")
	}
	R = NewMatrix(nr, nc)
	copy(R.Data(), m.Data())
	return
}
