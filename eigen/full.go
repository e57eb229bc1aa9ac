package eigen

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/godvr/utils"
)

// Full diagonalizes A densely and stores the lowest nStates eigenvectors in
// the rows of vecs
func Full(A mat.Symmetric, nStates int, vecs utils.Matrix) (res Result, err error) {
	var (
		n   = A.SymmetricDim()
		eig mat.EigenSym
	)
	if nStates < 1 || nStates > n {
		err = fmt.Errorf("%w: %d states requested from a dimension %d matrix", ErrSettings, nStates, n)
		return
	}
	if ok := eig.Factorize(A, true); !ok {
		err = fmt.Errorf("full diagonalization of a dimension %d matrix failed", n)
		return
	}
	var (
		ev = eig.Values(nil)
		U  = mat.NewDense(n, n, nil)
	)
	eig.VectorsTo(U)
	res.Values = make([]float64, nStates)
	res.Residuals = make([]float64, nStates)
	for i := 0; i < nStates; i++ {
		res.Values[i] = ev[i]
		mat.Col(vecs.RowView(i), i, U)
	}
	res.NConverged = nStates
	res.Iterations = 1
	return
}
