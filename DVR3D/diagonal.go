package DVR3D

import (
	"fmt"

	"github.com/notargets/godvr/utils"
)

// ComputeDiagonal assembles V + sum_d diag(T_d) into diag, which must have
// NGP entries. Off diagonal kinetic energy is applied by the Hamiltonian.
func (dvr *DVR) ComputeDiagonal(diag []float64) {
	if len(diag) != dvr.Grid.NGP {
		panic(fmt.Errorf("diagonal has length %d, grid has %d points", len(diag), dvr.Grid.NGP))
	}
	copy(diag, dvr.V)
	for d, ax := range dvr.Axes {
		BroadcastAddAxis(diag, dvr.Grid, d, ax.PositionDiagonal(), dvr.Workers.NP)
	}
}

// UpdateDiagonal rebuilds the diagonal kept on the DVR
func (dvr *DVR) UpdateDiagonal() {
	dvr.ComputeDiagonal(dvr.Diag)
}

/*
BroadcastAddAxis adds t1d[i] to every grid point whose index along axis is
i. The grid is viewed with axis as the fast index and an odometer over the
other axes, every line is owned by exactly one worker.
*/
func BroadcastAddAxis(dst []float64, g *Grid, axis int, t1d []float64, procs int) {
	var (
		nLines = g.NLines(axis)
		stride = g.Stride[axis]
		n      = g.N[axis]
		pm     = utils.NewPartitionMap(utils.ParallelDegree(procs, nLines), nLines)
	)
	pm.Run(func(np, lMin, lMax int) {
		for l := lMin; l < lMax; l++ {
			off := g.LineOffset(axis, l)
			for i := 0; i < n; i++ {
				dst[off+i*stride] += t1d[i]
			}
		}
	})
}
