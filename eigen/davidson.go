package eigen

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/godvr/types"
	"github.com/notargets/godvr/utils"
)

const denominatorFloor = 1.e-8

/*
Davidson refines the lowest NStates eigenpairs of op starting from the
leading rows of vecs. Every step adds one correction per unconverged state:

	CorrectionNone:           t = r
	CorrectionDavidson:       t = (D - theta)^-1 r
	CorrectionJacobiDavidson: t = M^-1 r - eps M^-1 u,  eps = u.M^-1 r / u.M^-1 u

with M = D - theta (zeroth order Jacobi-Davidson after Olsen). A correction
that falls into the span of the basis is replaced by the residual. The
diagonal D comes from op when it implements Diagonaler, otherwise the
correction degrades to none.
*/
func Davidson(op Operator, s Settings, vecs utils.Matrix) (res Result, err error) {
	if err = s.Validate(op.Dim()); err != nil {
		return
	}
	var (
		log    = s.logger()
		n      = op.Dim()
		ss     = newSubspace(op, s.Seed)
		maxSub = min(s.MaxSubspace, n)
		keep   = min(max(s.NStates, maxSub/2), maxSub-1)
		corr   = s.Correction
		diag   []float64
		ys     = make([][]float64, s.NStates)
		rs     = make([][]float64, s.NStates)
		hy     = make([]float64, n)
	)
	if d, ok := op.(Diagonaler); ok {
		diag = d.Diagonal()
	} else if corr != types.CorrectionNone {
		log.Warnf("operator has no diagonal, using no correction instead of %s", corr)
		corr = types.CorrectionNone
	}
	for i := range ys {
		ys[i] = make([]float64, n)
		rs[i] = make([]float64, n)
	}
	ss.start(vecs, s.NStates)
	iter := 1
	for step := 1; ; step++ {
		theta, S, rerr := ss.ritz()
		if rerr != nil {
			err = rerr
			return
		}
		var (
			nConv       int
			unconverged []int
		)
		nr := min(s.NStates, ss.size())
		for i := 0; i < nr; i++ {
			if ss.ritzPair(S, theta[i], i, ys[i], hy, rs[i]) < s.Tolerance {
				if len(unconverged) == 0 {
					nConv++
				}
				continue
			}
			unconverged = append(unconverged, i)
		}
		log.Tracef("Davidson step %4d: E0 = %14.8f, %d of %d converged", step, theta[0], nConv, s.NStates)
		done := nr == s.NStates && len(unconverged) == 0
		if done || ss.size() == n {
			res = ss.finish(S, theta, s.NStates, vecs, s.Tolerance)
			res.Iterations = iter
			break
		}
		if ss.size()+len(unconverged) > maxSub {
			if iter == s.MaxIterations {
				res = ss.finish(S, theta, s.NStates, vecs, s.Tolerance)
				res.Iterations = iter
				break
			}
			log.Debugf("Davidson iteration %3d: E0 = %14.8f, %d of %d converged, %d MxV",
				iter, theta[0], nConv, s.NStates, ss.matVecs)
			ss.restart(S, keep)
			iter++
		}
		var added int
		for _, i := range unconverged {
			if ss.size() == maxSub {
				break
			}
			t := correction(corr, diag, theta[i], ys[i], rs[i])
			if !ss.add(t) {
				t = make([]float64, n)
				copy(t, rs[i])
				if !ss.add(t) {
					continue
				}
			}
			added++
		}
		if added == 0 && ss.size() < maxSub {
			ss.addOrRandom(ss.random())
		}
	}
	if res.NConverged < s.NStates {
		s.shortfall("Davidson: only %d of %d states converged after %d iterations",
			res.NConverged, s.NStates, res.Iterations)
	}
	return
}

func correction(corr types.CorrectionScheme, diag []float64, theta float64, u, r []float64) (t []float64) {
	t = make([]float64, len(r))
	if corr == types.CorrectionNone {
		copy(t, r)
		return
	}
	minv := func(i int) float64 {
		den := diag[i] - theta
		if math.Abs(den) < denominatorFloor {
			den = math.Copysign(denominatorFloor, den)
		}
		return 1 / den
	}
	for i := range t {
		t[i] = minv(i) * r[i]
	}
	if corr == types.CorrectionJacobiDavidson {
		var (
			mu = make([]float64, len(u))
		)
		for i := range mu {
			mu[i] = minv(i) * u[i]
		}
		eps := floats.Dot(u, t) / floats.Dot(u, mu)
		floats.AddScaled(t, -eps, mu)
	}
	return
}
