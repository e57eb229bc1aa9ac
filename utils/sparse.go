package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is a write friendly sparse matrix used to assemble operators entry by
// entry before converting them to CSR.
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(name string, nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		name,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

// AddAt accumulates val into element (i,j)
func (m DOK) AddAt(i, j int, val float64) DOK { // Changes receiver
	if val == 0 {
		return m
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }
func (m CSR) NNZ() int            { return m.M.NNZ() }
func (m CSR) Name() string        { return m.name }

// MulVec computes dst = M * x by walking the stored entries
func (m CSR) MulVec(dst, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	m.M.DoNonZero(func(i, j int, v float64) {
		dst[i] += v * x[j]
	})
}

// ToSymDense expands a structurally symmetric matrix into dense storage
func (m CSR) ToSymDense() (S *mat.SymDense) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		panic(fmt.Errorf("matrix %s is not square: %d x %d", m.name, nr, nc))
	}
	S = mat.NewSymDense(nr, nil)
	m.M.DoNonZero(func(i, j int, v float64) {
		if j >= i {
			S.SetSym(i, j, v)
		}
	})
	return
}
