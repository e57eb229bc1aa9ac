package DVR3D

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/notargets/godvr/utils"
)

// WorkerPool owns the per worker buffers of every parallel region. It is
// sized once, worker np only ever touches Buffers[np].
type WorkerPool struct {
	NP      int
	Buffers []*WorkerBuffers
}

type WorkerBuffers struct {
	Q       []float64 // grid point coordinates
	In, Out []float64 // one grid line
	CIn     []complex128
	COut    []complex128
	FFT     []*fourier.CmplxFFT // per axis, nil unless the grid is FFT based
}

func NewWorkerPool(procs int, g *Grid, fft bool) (wp *WorkerPool) {
	wp = &WorkerPool{
		NP: utils.ParallelDegree(procs, g.NGP),
	}
	wp.Buffers = make([]*WorkerBuffers, wp.NP)
	for np := range wp.Buffers {
		wb := &WorkerBuffers{
			Q:   make([]float64, g.NDim),
			In:  make([]float64, g.MaxAxis),
			Out: make([]float64, g.MaxAxis),
		}
		if fft {
			wb.CIn = make([]complex128, g.MaxAxis)
			wb.COut = make([]complex128, g.MaxAxis)
			wb.FFT = make([]*fourier.CmplxFFT, g.NDim)
			for d := range wb.FFT {
				wb.FFT[d] = fourier.NewCmplxFFT(g.N[d])
			}
		}
		wp.Buffers[np] = wb
	}
	return
}

// Partition splits count items over at most NP workers
func (wp *WorkerPool) Partition(count int) *utils.PartitionMap {
	return utils.NewPartitionMap(min(wp.NP, count), count)
}
