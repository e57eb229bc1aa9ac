package DVR3D

import (
	"fmt"

	"github.com/notargets/godvr/potential"
	"github.com/notargets/godvr/types"
	"github.com/notargets/godvr/utils"
)

// AxialOffset is the displacement in bohr used by the 6-point sampling
const AxialOffset = 0.2

/*
ComputePotential samples V onto the grid with the policy of the DVR and
rebuilds the diagonal. Every worker evaluates a private clone of V and
writes a disjoint range of grid points, smoothing reads a frozen copy of
the point sampled values, so the result does not depend on the number of
workers.
*/
func (dvr *DVR) ComputePotential(V potential.Evaluator) (err error) {
	var (
		g = dvr.Grid
		s = dvr.Sampling
	)
	if s.MultiPoint() && g.NDim != 3 {
		return fmt.Errorf("%w: %s", ErrNot3D, s)
	}
	switch s.Kind {
	case types.SamplePoint, types.SampleSmooth:
		dvr.samplePoints(V, nil)
	case types.SampleOctant8:
		dvr.samplePoints(V, dvr.octantOffsets())
	case types.SampleCubic27:
		dvr.samplePoints(V, dvr.cubicOffsets())
	case types.SampleAxial6:
		dvr.samplePoints(V, axialOffsets(AxialOffset))
	default:
		return fmt.Errorf("%w: %s", types.ErrUnknownSampling, s)
	}
	if s.Kind == types.SampleSmooth {
		dvr.smooth(s.Order)
	}
	if utils.IsNan(dvr.V) {
		return ErrPotentialNaN
	}
	dvr.UpdateDiagonal()
	if dvr.Verbose > 5 {
		q := make([]float64, g.NDim)
		for igp, v := range dvr.V {
			dvr.Point(igp, q)
			dvr.log.Tracef("%v   %12.8f", q, v)
		}
	}
	return
}

// samplePoints stores the mean of V over the offsets around every grid
// point, a nil offset list is plain point sampling
func (dvr *DVR) samplePoints(V potential.Evaluator, offsets [][3]float64) {
	var (
		g  = dvr.Grid
		pm = dvr.Workers.Partition(g.NGP)
	)
	pm.Run(func(np, kMin, kMax int) {
		var (
			Vw = V.Clone()
			q  = dvr.Workers.Buffers[np].Q
			qo = make([]float64, g.NDim)
		)
		for igp := kMin; igp < kMax; igp++ {
			dvr.Point(igp, q)
			if offsets == nil {
				dvr.V[igp] = Vw.Evaluate(q)
				continue
			}
			var sum float64
			for _, o := range offsets {
				for d := 0; d < 3; d++ {
					qo[d] = q[d] + o[d]
				}
				sum += Vw.Evaluate(qo)
			}
			dvr.V[igp] = sum / float64(len(offsets))
		}
	})
}

// octantOffsets are the 8 points at +-Step/4 along every axis
func (dvr *DVR) octantOffsets() (offsets [][3]float64) {
	var h [3]float64
	for d := 0; d < 3; d++ {
		h[d] = 0.25 * dvr.Axes[d].Step
	}
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				offsets = append(offsets, [3]float64{sx * h[0], sy * h[1], sz * h[2]})
			}
		}
	}
	return
}

// cubicOffsets are the 27 points {0, +-Step/3}^3
func (dvr *DVR) cubicOffsets() (offsets [][3]float64) {
	var h [3]float64
	for d := 0; d < 3; d++ {
		h[d] = dvr.Axes[d].Step / 3
	}
	for sx := -1; sx <= 1; sx++ {
		for sy := -1; sy <= 1; sy++ {
			for sz := -1; sz <= 1; sz++ {
				offsets = append(offsets, [3]float64{
					float64(sx) * h[0], float64(sy) * h[1], float64(sz) * h[2]})
			}
		}
	}
	return
}

func axialOffsets(dx float64) (offsets [][3]float64) {
	for d := 0; d < 3; d++ {
		for _, s := range []float64{-1, 1} {
			var o [3]float64
			o[d] = s * dx
			offsets = append(offsets, o)
		}
	}
	return
}

/*
SmoothingWeights returns the stencil weights for order q, normalized so
that self + 6 face + 12 edge + 8 corner weights add up to one:

	face = 1/q, edge = face/q, corner = edge/q, self = 1
	all scaled by q^3 / (q^3 + 6q^2 + 12q + 8)
*/
func SmoothingWeights(q int) (self, face, edge, corner float64) {
	var (
		qf   = float64(q)
		norm = qf * qf * qf / (qf*qf*qf + 6*qf*qf + 12*qf + 8)
	)
	face = 1 / qf
	edge = face / qf
	corner = edge / qf
	return norm, face * norm, edge * norm, corner * norm
}

// smooth convolves the interior of the sampled potential with the 26
// neighbour stencil, the boundary layer keeps its point sampled values
func (dvr *DVR) smooth(q int) {
	var (
		g                        = dvr.Grid
		frozen                   = make([]float64, g.NGP)
		wSelf, wFace, wEdge, wCo = SmoothingWeights(q)
		sx, sy, sz               = g.Stride[0], g.Stride[1], g.Stride[2]
		nInner                   = max(g.N[2]-2, 0)
		pm                       = dvr.Workers.Partition(nInner)
	)
	copy(frozen, dvr.V)
	if nInner == 0 || g.N[0] < 3 || g.N[1] < 3 {
		return
	}
	// partitioned over interior z planes
	pm.Run(func(np, kMin, kMax int) {
		for k := kMin + 1; k < kMax+1; k++ {
			for j := 1; j < g.N[1]-1; j++ {
				for i := 1; i < g.N[0]-1; i++ {
					var (
						c                  = g.Sub2Ind(i, j, k)
						face, edge, corner float64
					)
					for dz := -1; dz <= 1; dz++ {
						for dy := -1; dy <= 1; dy++ {
							for dx := -1; dx <= 1; dx++ {
								v := frozen[c+dx*sx+dy*sy+dz*sz]
								switch abs(dx) + abs(dy) + abs(dz) {
								case 1:
									face += v
								case 2:
									edge += v
								case 3:
									corner += v
								}
							}
						}
					}
					dvr.V[c] = wSelf*frozen[c] + wFace*face + wEdge*edge + wCo*corner
				}
			}
		}
	})
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
