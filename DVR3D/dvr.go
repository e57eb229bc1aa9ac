package DVR3D

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/notargets/godvr/DVR1D"
	"github.com/notargets/godvr/types"
	"github.com/notargets/godvr/utils"
)

var (
	ErrUnknownStartVector = types.ErrUnknownStartVector
	ErrUnknownMethod      = types.ErrUnknownMethod
	ErrFullDiagCapacity   = errors.New("grid too large for full diagonalization")
	ErrNot3D              = errors.New("operation is only defined for 3D grids")
	ErrSamplingGrid       = errors.New("sampling needs an equidistant grid")
	ErrNotSetup           = errors.New("diagonalization has not been set up")
	ErrNoStates           = errors.New("no converged states available")
	ErrPotentialNaN       = errors.New("potential evaluated to NaN")
)

// FullDiagLimit is the largest grid handed to the dense eigensolver
const FullDiagLimit = 1000

type Options struct {
	Procs   int
	Verbose int
	Seed    uint64
	Log     *logrus.Entry
}

// DVR owns the grid, the axis operators, the potential and diagonal vectors,
// the wavefunctions and the worker pool of one calculation
type DVR struct {
	Grid     *Grid
	Axes     []*DVR1D.Axis
	Sampling types.Sampling
	V        []float64 // sampled potential
	Diag     []float64 // V plus the kinetic energy diagonal
	KEDiag   []float64 // k-space kinetic energy, FFT grids only
	FFT      bool
	Wavefn   *WavefunctionSet
	Workers  *WorkerPool
	Verbose  int
	request  *SolverRequest
	seed     uint64
	rnd      distuv.Uniform
	log      *logrus.Entry
}

// NewDVR builds one axis of kind per dimension. para is the oscillator
// frequency or the box length of each axis.
func NewDVR(kind types.BasisType, n []int, para []float64, mass float64,
	sampling types.Sampling, opt Options) (dvr *DVR, err error) {
	if len(para) != len(n) {
		err = fmt.Errorf("%w: %d axes but %d basis parameters", ErrInvalidGrid, len(n), len(para))
		return
	}
	if kind == types.BasisFourier && len(n) != 3 {
		err = fmt.Errorf("%w: Fourier grids with %d dimensions", ErrNot3D, len(n))
		return
	}
	axes := make([]*DVR1D.Axis, len(n))
	for d := range n {
		if axes[d], err = DVR1D.NewAxis(kind, n[d], para[d], mass); err != nil {
			err = fmt.Errorf("axis %d: %w", d, err)
			return
		}
	}
	return NewDVRFromAxes(axes, sampling, opt)
}

// NewDVRFromAxes takes ownership of prebuilt axes
func NewDVRFromAxes(axes []*DVR1D.Axis, sampling types.Sampling, opt Options) (dvr *DVR, err error) {
	n := make([]int, len(axes))
	for d, ax := range axes {
		if ax == nil {
			err = fmt.Errorf("%w: axis %d is missing", ErrInvalidGrid, d)
			return
		}
		n[d] = ax.N
	}
	var g *Grid
	if g, err = NewGrid(n); err != nil {
		return
	}
	if err = sampling.Validate(); err != nil {
		return
	}
	if sampling.MultiPoint() && g.NDim != 3 {
		err = fmt.Errorf("%w: %s on a %dD grid", ErrNot3D, sampling, g.NDim)
		return
	}
	if sampling.NeedsEquidistant() {
		for d, ax := range axes {
			if !ax.Equidistant {
				err = fmt.Errorf("%w: %s, axis %d is a %s", ErrSamplingGrid, sampling, d, ax.Kind)
				return
			}
		}
	}
	log := opt.Log
	if log == nil {
		log = utils.NewComponentLogger(opt.Verbose, "dvr")
	}
	dvr = &DVR{
		Grid:     g,
		Axes:     axes,
		Sampling: sampling,
		V:        make([]float64, g.NGP),
		Diag:     make([]float64, g.NGP),
		FFT:      g.NDim == 3,
		Wavefn:   NewWavefunctionSet(g.NGP),
		Verbose:  opt.Verbose,
		seed:     opt.Seed,
		rnd: distuv.Uniform{
			Min: -1, Max: 1,
			Src: rand.NewPCG(opt.Seed, opt.Seed+1),
		},
		log: log,
	}
	for _, ax := range axes {
		if !ax.Kind.DiagonalKE() || ax.KE != nil {
			dvr.FFT = false
		}
	}
	if dvr.FFT {
		dvr.KEDiag = kineticDiagonal3D(g, axes)
	}
	dvr.Workers = NewWorkerPool(opt.Procs, g, dvr.FFT)
	dvr.report()
	return
}

// kineticDiagonal3D is KE[i,j,k] = Tx[i] + Ty[j] + Tz[k] in grid order
func kineticDiagonal3D(g *Grid, axes []*DVR1D.Axis) (ke []float64) {
	ke = make([]float64, g.NGP)
	for k := 0; k < g.N[2]; k++ {
		for j := 0; j < g.N[1]; j++ {
			for i := 0; i < g.N[0]; i++ {
				ke[g.Sub2Ind(i, j, k)] = axes[0].KEDiag[i] + axes[1].KEDiag[j] + axes[2].KEDiag[k]
			}
		}
	}
	return
}

func (dvr *DVR) report() {
	dvr.log.Infof("DVR grid definition: %s", dvr.Grid)
	for d, ax := range dvr.Axes {
		dvr.log.Infof("  axis %d: %s", d, ax)
	}
	dvr.log.Infof("  potential: %s, %d workers", dvr.Sampling, dvr.Workers.NP)
	if dvr.FFT {
		dvr.log.Info("  kinetic energy applied with a 3D FFT")
	}
	dvr.log.Debugf("  BLAS: %s", utils.BLASImplementation)
}

func (dvr *DVR) Logger() *logrus.Entry { return dvr.log }

// Point writes the coordinates of grid point igp into q
func (dvr *DVR) Point(igp int, q []float64) {
	g := dvr.Grid
	for d := 0; d < g.NDim; d++ {
		q[d] = dvr.Axes[d].X[igp%g.N[d]]
		igp /= g.N[d]
	}
}

// VolumeElement is the volume per grid point of an equidistant 3D grid
func (dvr *DVR) VolumeElement() (dV float64, err error) {
	if dvr.Grid.NDim != 3 {
		err = fmt.Errorf("%w: volume element", ErrNot3D)
		return
	}
	dV = 1
	for d, ax := range dvr.Axes {
		if ax.N < 2 {
			err = fmt.Errorf("%w: axis %d has a single point", ErrInvalidGrid, d)
			return
		}
		_, L := ax.Bounds()
		dV *= L / float64(ax.N-1)
	}
	return
}
