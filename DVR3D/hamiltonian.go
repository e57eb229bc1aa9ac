package DVR3D

import (
	"github.com/notargets/godvr/utils"
)

/*
Hamiltonian applies H = V + sum_d T_d to a vector without forming H. The
potential is taken from the DVR, each T_d acts on the grid lines along
axis d. On FFT grids the kinetic energy is applied in k-space instead.
*/
type Hamiltonian struct {
	dvr  *DVR
	ke   [][]float64 // expanded n x n kinetic energy per axis
	work []complex128
}

// Hamiltonian returns the operator for the current potential and refreshes
// the diagonal handed to preconditioners
func (dvr *DVR) Hamiltonian() (h *Hamiltonian) {
	dvr.UpdateDiagonal()
	h = &Hamiltonian{dvr: dvr}
	if dvr.FFT {
		h.work = make([]complex128, dvr.Grid.NGP)
	} else {
		h.ke = make([][]float64, len(dvr.Axes))
		for d, ax := range dvr.Axes {
			h.ke[d] = ax.PositionKE().Expand()
		}
	}
	return
}

func (h *Hamiltonian) Dim() int { return h.dvr.Grid.NGP }

func (h *Hamiltonian) Diagonal() []float64 { return h.dvr.Diag }

func (h *Hamiltonian) MulVec(dst, src []float64) {
	var (
		dvr = h.dvr
		pm  = dvr.Workers.Partition(dvr.Grid.NGP)
	)
	pm.Run(func(np, kMin, kMax int) {
		for igp := kMin; igp < kMax; igp++ {
			dst[igp] = dvr.V[igp] * src[igp]
		}
	})
	if dvr.FFT {
		h.kineticFFT(dst, src)
		return
	}
	for d := range dvr.Axes {
		h.kineticAxis(d, dst, src)
	}
}

// kineticAxis adds T_d src into dst, one worker per set of lines
func (h *Hamiltonian) kineticAxis(axis int, dst, src []float64) {
	var (
		g      = h.dvr.Grid
		n      = g.N[axis]
		stride = g.Stride[axis]
		T      = h.ke[axis]
		pm     = h.dvr.Workers.Partition(g.NLines(axis))
	)
	pm.Run(func(np, lMin, lMax int) {
		var (
			wb = h.dvr.Workers.Buffers[np]
			x  = wb.In[:n]
		)
		for l := lMin; l < lMax; l++ {
			off := g.LineOffset(axis, l)
			for i := 0; i < n; i++ {
				x[i] = src[off+i*stride]
			}
			for i := 0; i < n; i++ {
				var (
					sum float64
					row = T[i*n : (i+1)*n]
				)
				for j, t := range row {
					sum += t * x[j]
				}
				dst[off+i*stride] += sum
			}
		}
	})
}

// kineticFFT adds F^-1 KEDiag F src into dst
func (h *Hamiltonian) kineticFFT(dst, src []float64) {
	var (
		dvr = h.dvr
		ngp = dvr.Grid.NGP
		pm  = dvr.Workers.Partition(ngp)
	)
	pm.Run(func(np, kMin, kMax int) {
		for igp := kMin; igp < kMax; igp++ {
			h.work[igp] = complex(src[igp], 0)
		}
	})
	for d := range dvr.Axes {
		h.transformAxis(d, true)
	}
	pm.Run(func(np, kMin, kMax int) {
		for igp := kMin; igp < kMax; igp++ {
			h.work[igp] *= complex(dvr.KEDiag[igp], 0)
		}
	})
	for d := range dvr.Axes {
		h.transformAxis(d, false)
	}
	scale := 1 / float64(ngp)
	pm.Run(func(np, kMin, kMax int) {
		for igp := kMin; igp < kMax; igp++ {
			dst[igp] += real(h.work[igp]) * scale
		}
	})
}

// transformAxis runs the unnormalized 1D FFT along every line of axis
func (h *Hamiltonian) transformAxis(axis int, forward bool) {
	var (
		g      = h.dvr.Grid
		n      = g.N[axis]
		stride = g.Stride[axis]
		pm     = h.dvr.Workers.Partition(g.NLines(axis))
	)
	pm.Run(func(np, lMin, lMax int) {
		var (
			wb   = h.dvr.Workers.Buffers[np]
			fft  = wb.FFT[axis]
			cin  = wb.CIn[:n]
			cout = wb.COut[:n]
		)
		for l := lMin; l < lMax; l++ {
			off := g.LineOffset(axis, l)
			for i := 0; i < n; i++ {
				cin[i] = h.work[off+i*stride]
			}
			if forward {
				fft.Coefficients(cout, cin)
			} else {
				fft.Sequence(cout, cin)
			}
			for i := 0; i < n; i++ {
				h.work[off+i*stride] = cout[i]
			}
		}
	})
}

// BuildSparseHamiltonian assembles H explicitly, for debugging and the full
// diagonalization
func (dvr *DVR) BuildSparseHamiltonian() (H utils.CSR) {
	var (
		g   = dvr.Grid
		dok = utils.NewDOK("H", g.NGP, g.NGP)
	)
	for igp, v := range dvr.V {
		dok.AddAt(igp, igp, v)
	}
	for d, ax := range dvr.Axes {
		var (
			T      = ax.PositionKE()
			n      = g.N[d]
			stride = g.Stride[d]
		)
		for l := 0; l < g.NLines(d); l++ {
			off := g.LineOffset(d, l)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					dok.AddAt(off+i*stride, off+j*stride, T.At(i, j))
				}
			}
		}
	}
	H = dok.ToCSR()
	dvr.log.Debugf("explicit Hamiltonian %s: %d points, %d nonzero elements", H.Name(), g.NGP, H.NNZ())
	return
}
