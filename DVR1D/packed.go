package DVR1D

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PackedSym stores the lower triangle of a symmetric matrix row by row,
// element (i,j) with i >= j lives at i*(i+1)/2 + j
type PackedSym struct {
	N    int
	Data []float64
}

func NewPackedSym(n int) (P *PackedSym) {
	return &PackedSym{
		N:    n,
		Data: make([]float64, n*(n+1)/2),
	}
}

func packedIndex(i, j int) int {
	if j > i {
		i, j = j, i
	}
	return i*(i+1)/2 + j
}

func (P *PackedSym) At(i, j int) float64 {
	return P.Data[packedIndex(i, j)]
}

func (P *PackedSym) Set(i, j int, val float64) {
	P.Data[packedIndex(i, j)] = val
}

// Diagonal returns a copy of the diagonal entries
func (P *PackedSym) Diagonal() (d []float64) {
	d = make([]float64, P.N)
	for i := range d {
		d[i] = P.Data[i*(i+1)/2+i]
	}
	return
}

// Expand returns the full row major n x n storage, used in the inner loops
// of matrix free products
func (P *PackedSym) Expand() (full []float64) {
	var (
		n = P.N
	)
	full = make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := P.Data[i*(i+1)/2+j]
			full[i*n+j] = v
			full[j*n+i] = v
		}
	}
	return
}

func (P *PackedSym) ToSymDense() (S *mat.SymDense) {
	S = mat.NewSymDense(P.N, nil)
	for i := 0; i < P.N; i++ {
		for j := 0; j <= i; j++ {
			S.SetSym(i, j, P.At(i, j))
		}
	}
	return
}

func NewPackedSymFromDense(A mat.Matrix) (P *PackedSym, err error) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("packed storage needs a square matrix, have %d x %d", nr, nc)
		return
	}
	P = NewPackedSym(nr)
	for i := 0; i < nr; i++ {
		for j := 0; j <= i; j++ {
			P.Set(i, j, 0.5*(A.At(i, j)+A.At(j, i)))
		}
	}
	return
}

// NewPackedDiagonal builds a diagonal matrix in packed storage
func NewPackedDiagonal(d []float64) (P *PackedSym) {
	P = NewPackedSym(len(d))
	for i, v := range d {
		P.Set(i, i, v)
	}
	return
}
