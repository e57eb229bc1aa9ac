package DVR3D

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/godvr/potential"
)

// GradientBuffers are the worker private accumulators of a gradient
// calculation plus the shared buffers the reduction writes into
type GradientBuffers struct {
	NSites  int
	Grad    [][]float64 // per worker, 3*NSites
	Temp    [][]float64 // per worker, gradient at one grid point
	Scratch []*potential.GradientScratch
	Ext     *potential.ExternalBuffers
	PolGrad []float64 // polarization gradient merged in at the end
}

func NewGradientBuffers(np int, V potential.GradientEvaluator) (buf *GradientBuffers) {
	var (
		nSites = V.NSites()
	)
	buf = &GradientBuffers{
		NSites:  nSites,
		Grad:    make([][]float64, np),
		Temp:    make([][]float64, np),
		Scratch: make([]*potential.GradientScratch, np),
		Ext:     potential.NewExternalBuffers(nSites),
		PolGrad: make([]float64, 3*nSites),
	}
	for w := 0; w < np; w++ {
		buf.Grad[w] = make([]float64, 3*nSites)
		buf.Temp[w] = make([]float64, 3*nSites)
		buf.Scratch[w] = V.NewScratch()
	}
	return
}

/*
ComputeGradient returns G[j] = sum_igp psi(igp)^2 dV/dR_j(igp) for state iwf.
Workers accumulate into private buffers, afterwards FinalGradient is called
for every worker in order, the worker gradients are summed, and the site-site
gradient is replaced by buf.PolGrad. A nil buf allocates one.
*/
func (dvr *DVR) ComputeGradient(V potential.GradientEvaluator, iwf int,
	buf *GradientBuffers) (grad []float64, err error) {
	var (
		g = dvr.Grid
	)
	if g.NDim != 3 {
		err = fmt.Errorf("%w: gradient", ErrNot3D)
		return
	}
	if iwf < 0 || iwf >= dvr.Wavefn.NConverged {
		err = fmt.Errorf("%w: state %d requested, %d converged", ErrNoStates, iwf, dvr.Wavefn.NConverged)
		return
	}
	if buf == nil {
		buf = NewGradientBuffers(dvr.Workers.NP, V)
	}
	if len(buf.Grad) < dvr.Workers.NP || buf.NSites != V.NSites() {
		err = fmt.Errorf("gradient buffers for %d workers and %d sites, need %d workers and %d sites",
			len(buf.Grad), buf.NSites, dvr.Workers.NP, V.NSites())
		return
	}
	var (
		psi     = dvr.Wavefn.State(iwf)
		pm      = dvr.Workers.Partition(g.NGP)
		clones  = make([]potential.GradientEvaluator, pm.ParallelDegree)
		nWorker = pm.ParallelDegree
	)
	for i := range buf.Ext.Dipole {
		buf.Ext.Dipole[i] = 0
	}
	for i := range buf.Ext.DipoleDipole {
		buf.Ext.DipoleDipole[i] = 0
	}
	pm.Run(func(np, kMin, kMax int) {
		var (
			Vw      = V.Clone().(potential.GradientEvaluator)
			q       = dvr.Workers.Buffers[np].Q
			gw, tmp = buf.Grad[np], buf.Temp[np]
			scratch = buf.Scratch[np]
		)
		clones[np] = Vw
		for i := range gw {
			gw[i] = 0
		}
		scratch.Zero()
		for igp := kMin; igp < kMax; igp++ {
			for i := range tmp {
				tmp[i] = 0
			}
			dvr.Point(igp, q)
			Vw.EvaluateGradient(q, tmp, scratch, psi[igp])
			floats.AddScaled(gw, psi[igp]*psi[igp], tmp)
		}
	})
	grad = make([]float64, 3*V.NSites())
	for np := 0; np < nWorker; np++ {
		clones[np].FinalGradient(buf.Grad[np], buf.Scratch[np], buf.Ext)
		floats.Add(grad, buf.Grad[np])
	}
	V.SubtractPairGradient(buf.PolGrad, grad)
	return
}
