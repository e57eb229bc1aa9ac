package eigen

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/notargets/godvr/types"
	"github.com/notargets/godvr/utils"
)

var ErrSettings = errors.New("invalid eigensolver settings")

// Operator is a symmetric matrix known only through its action on a vector
type Operator interface {
	Dim() int
	MulVec(dst, src []float64)
}

// Diagonaler is implemented by operators that can supply their diagonal for
// preconditioning
type Diagonaler interface {
	Diagonal() []float64
}

type Settings struct {
	NStates       int
	MaxSubspace   int
	MaxIterations int // macro iterations, i.e. subspace restarts
	Tolerance     float64
	Correction    types.CorrectionScheme
	Seed          uint64
	Log           *logrus.Entry

	// Preliminary runs only seed a later solver, shortfalls are not warned about
	Preliminary bool
}

func (s Settings) Validate(dim int) (err error) {
	switch {
	case s.NStates < 1:
		err = fmt.Errorf("%w: %d states requested", ErrSettings, s.NStates)
	case s.NStates > dim:
		err = fmt.Errorf("%w: %d states requested from a dimension %d operator", ErrSettings, s.NStates, dim)
	case s.MaxSubspace <= s.NStates:
		err = fmt.Errorf("%w: subspace size %d must exceed the number of states %d",
			ErrSettings, s.MaxSubspace, s.NStates)
	case s.MaxIterations < 1:
		err = fmt.Errorf("%w: %d iterations", ErrSettings, s.MaxIterations)
	case !(s.Tolerance > 0):
		err = fmt.Errorf("%w: tolerance %g", ErrSettings, s.Tolerance)
	}
	return
}

func (s Settings) logger() *logrus.Entry {
	if s.Log != nil {
		return s.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func (s Settings) shortfall(format string, args ...any) {
	if s.Preliminary {
		s.logger().Debugf(format, args...)
		return
	}
	s.logger().Warnf(format, args...)
}

type Result struct {
	NConverged int
	Values     []float64
	Residuals  []float64
	Iterations int
	MatVecs    int
}

// countConverged returns the number of leading residuals below tol
func countConverged(res []float64, tol float64) (n int) {
	for _, r := range res {
		if r >= tol {
			break
		}
		n++
	}
	return
}

// subspace is an orthonormal basis V together with W = A V
type subspace struct {
	op      Operator
	n       int
	V, W    [][]float64
	matVecs int
	rnd     distuv.Uniform
}

func newSubspace(op Operator, seed uint64) *subspace {
	return &subspace{
		op: op,
		n:  op.Dim(),
		rnd: distuv.Uniform{
			Min: -1, Max: 1,
			Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

func (ss *subspace) size() int { return len(ss.V) }

// orthogonalize projects V out of v twice and normalizes it. It reports
// false when nothing is left of v.
func (ss *subspace) orthogonalize(v []float64) bool {
	norm0 := floats.Norm(v, 2)
	if norm0 == 0 {
		return false
	}
	for pass := 0; pass < 2; pass++ {
		for _, b := range ss.V {
			floats.AddScaled(v, -floats.Dot(b, v), b)
		}
	}
	norm := floats.Norm(v, 2)
	if norm < 1.e-10*norm0 || norm < 1.e-300 {
		return false
	}
	floats.Scale(1/norm, v)
	return true
}

// add appends v (which is consumed) to the basis
func (ss *subspace) add(v []float64) bool {
	if !ss.orthogonalize(v) {
		return false
	}
	w := make([]float64, ss.n)
	ss.op.MulVec(w, v)
	ss.matVecs++
	ss.V = append(ss.V, v)
	ss.W = append(ss.W, w)
	return true
}

// addOrRandom appends v, falling back to random vectors when v is already
// in the span of the basis
func (ss *subspace) addOrRandom(v []float64) {
	if ss.add(v) {
		return
	}
	for tries := 0; tries < 10; tries++ {
		if ss.add(ss.random()) {
			return
		}
	}
	panic("unable to extend the subspace with a random vector")
}

// next is a copy of A v_last, the unorthogonalized Krylov direction
func (ss *subspace) next() (f []float64) {
	f = make([]float64, ss.n)
	copy(f, ss.W[ss.size()-1])
	return
}

func (ss *subspace) random() (v []float64) {
	v = make([]float64, ss.n)
	for i := range v {
		v[i] = ss.rnd.Rand()
	}
	return
}

// ritz solves the projected problem, theta ascending, Ritz vector i is
// V * S[:,i]
func (ss *subspace) ritz() (theta []float64, S *mat.Dense, err error) {
	var (
		m   = ss.size()
		H   = mat.NewSymDense(m, nil)
		eig mat.EigenSym
	)
	for i := 0; i < m; i++ {
		for j := 0; j <= i; j++ {
			H.SetSym(i, j, 0.5*(floats.Dot(ss.V[i], ss.W[j])+floats.Dot(ss.V[j], ss.W[i])))
		}
	}
	if ok := eig.Factorize(H, true); !ok {
		err = fmt.Errorf("Rayleigh-Ritz step failed for a subspace of size %d", m)
		return
	}
	theta = eig.Values(nil)
	S = mat.NewDense(m, m, nil)
	eig.VectorsTo(S)
	return
}

// ritzPair forms y = V s_i, hy = W s_i and returns the residual norm
func (ss *subspace) ritzPair(S *mat.Dense, theta float64, i int, y, hy, r []float64) float64 {
	for k := range y {
		y[k], hy[k] = 0, 0
	}
	for j := 0; j < ss.size(); j++ {
		c := S.At(j, i)
		floats.AddScaled(y, c, ss.V[j])
		floats.AddScaled(hy, c, ss.W[j])
	}
	floats.AddScaledTo(r, hy, -theta, y)
	return floats.Norm(r, 2)
}

// restart replaces the basis by the first k Ritz vectors
func (ss *subspace) restart(S *mat.Dense, k int) {
	var (
		V = make([][]float64, k)
		W = make([][]float64, k)
	)
	for i := 0; i < k; i++ {
		V[i] = make([]float64, ss.n)
		W[i] = make([]float64, ss.n)
		for j := 0; j < ss.size(); j++ {
			c := S.At(j, i)
			floats.AddScaled(V[i], c, ss.V[j])
			floats.AddScaled(W[i], c, ss.W[j])
		}
	}
	ss.V, ss.W = V, W
}

// start loads the leading NStates rows of vecs as the initial basis
func (ss *subspace) start(vecs utils.Matrix, nStates int) {
	for i := 0; i < nStates; i++ {
		v := make([]float64, ss.n)
		copy(v, vecs.RowView(i))
		ss.addOrRandom(v)
	}
}

// finish writes Ritz vectors into the rows of vecs and fills the result
func (ss *subspace) finish(S *mat.Dense, theta []float64, nStates int, vecs utils.Matrix, tol float64) (res Result) {
	var (
		hy = make([]float64, ss.n)
		r  = make([]float64, ss.n)
	)
	res.Values = make([]float64, nStates)
	res.Residuals = make([]float64, nStates)
	for i := 0; i < nStates; i++ {
		y := vecs.RowView(i)
		res.Residuals[i] = ss.ritzPair(S, theta[i], i, y, hy, r)
		res.Values[i] = theta[i]
	}
	res.NConverged = countConverged(res.Residuals, tol)
	res.MatVecs = ss.matVecs
	return
}
