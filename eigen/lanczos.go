package eigen

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/godvr/utils"
)

/*
Lanczos computes the lowest NStates eigenpairs of op with a thick restarted
Lanczos iteration. The Krylov sequence starts from the sum of the start
vectors, is fully reorthogonalized and kept together with its image
W = A V. When the basis reaches MaxSubspace it is collapsed onto the lowest
Ritz vectors y_i and extended by the next Lanczos vector f, the part of
A v_last orthogonal to the old basis. Every residual A y_i - theta_i y_i is
parallel to f, so the restarted basis spans a Krylov space again.

On entry the leading NStates rows of vecs are the start vectors, on exit
they hold the Ritz vectors.
*/
func Lanczos(op Operator, s Settings, vecs utils.Matrix) (res Result, err error) {
	if err = s.Validate(op.Dim()); err != nil {
		return
	}
	var (
		log    = s.logger()
		ss     = newSubspace(op, s.Seed)
		maxSub = min(s.MaxSubspace, op.Dim())
		keep   = min(s.NStates+(maxSub-s.NStates)/2, maxSub-1)
		hy     = make([]float64, op.Dim())
		y      = make([]float64, op.Dim())
		r      = make([]float64, op.Dim())
	)
	ss.addOrRandom(startVector(vecs, s.NStates))
	for iter := 1; ; iter++ {
		for ss.size() < maxSub {
			ss.addOrRandom(ss.next())
		}
		theta, S, rerr := ss.ritz()
		if rerr != nil {
			err = rerr
			return
		}
		var nConv int
		for i := 0; i < s.NStates; i++ {
			if ss.ritzPair(S, theta[i], i, y, hy, r) >= s.Tolerance {
				break
			}
			nConv++
		}
		log.Debugf("Lanczos iteration %3d: E0 = %14.8f, %d of %d converged, %d MxV",
			iter, theta[0], nConv, s.NStates, ss.matVecs)
		if nConv == s.NStates || iter == s.MaxIterations || maxSub == op.Dim() {
			res = ss.finish(S, theta, s.NStates, vecs, s.Tolerance)
			res.Iterations = iter
			break
		}
		// f has to lose its components along the discarded directions
		f := ss.next()
		if !ss.orthogonalize(f) {
			f = ss.random()
		}
		ss.restart(S, keep)
		ss.addOrRandom(f)
	}
	if res.NConverged < s.NStates {
		s.shortfall("Lanczos: only %d of %d states converged after %d iterations",
			res.NConverged, s.NStates, res.Iterations)
	}
	return
}

// startVector sums the leading nStates rows of vecs
func startVector(vecs utils.Matrix, nStates int) (v []float64) {
	v = make([]float64, len(vecs.RowView(0)))
	for i := 0; i < nStates; i++ {
		floats.Add(v, vecs.RowView(i))
	}
	return
}
