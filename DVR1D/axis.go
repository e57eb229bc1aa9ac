package DVR1D

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/godvr/types"
)

var ErrAxisParameters = errors.New("invalid 1D basis parameters")

/*
Axis holds everything the 3D code needs from one coordinate:
  - X, the grid abscissae
  - KE, the kinetic energy in position space (packed), nil for Fourier grids
  - KEDiag, the kinetic energy in k-space (Fourier grids only)
  - Transform, the DVR to basis transformation (harmonic oscillator only)
  - Step, the grid spacing when Equidistant
*/
type Axis struct {
	Kind        types.BasisType
	N           int
	Para, Mass  float64
	X           []float64
	KE          *PackedSym
	KEDiag      []float64
	Transform   *mat.Dense
	Step        float64
	Equidistant bool
}

// NewAxis dispatches to the 1D generator for kind. para is the frequency
// for harmonic oscillator grids and the box length for all others.
func NewAxis(kind types.BasisType, n int, para, mass float64) (ax *Axis, err error) {
	switch {
	case n < 1:
		err = fmt.Errorf("%w: %d points", ErrAxisParameters, n)
	case para <= 0:
		err = fmt.Errorf("%w: grid parameter %g must be positive", ErrAxisParameters, para)
	case mass <= 0:
		err = fmt.Errorf("%w: mass %g must be positive", ErrAxisParameters, mass)
	}
	if err != nil {
		return
	}
	switch kind {
	case types.BasisSine:
		ax = SineDVR(n, mass, -0.5*para, 0.5*para)
	case types.BasisHarmonicOscillator:
		ax, err = HarmonicOscillatorDVR(n, para, mass)
	case types.BasisFourier:
		ax = FourierGrid(n, mass, -0.5*para, 0.5*para)
	case types.BasisColbertMiller:
		if n < 2 {
			err = fmt.Errorf("%w: Colbert-Miller grids need at least 2 points", ErrAxisParameters)
			return
		}
		ax = ColbertMillerDVR(n, mass, -0.5*para, 0.5*para)
	default:
		err = fmt.Errorf("%w: %d", types.ErrUnknownBasis, kind)
	}
	if ax != nil {
		ax.Para = para
	}
	return
}

// NewAxisFromMatrix wraps a caller supplied kinetic energy, useful for model
// Hamiltonians with a known spectrum
func NewAxisFromMatrix(x []float64, ke *PackedSym) (ax *Axis, err error) {
	if ke == nil || ke.N != len(x) {
		err = fmt.Errorf("%w: kinetic energy does not match %d abscissae", ErrAxisParameters, len(x))
		return
	}
	ax = &Axis{
		Kind: types.BasisSine,
		N:    len(x),
		Mass: 1,
		X:    x,
		KE:   ke,
	}
	if len(x) > 1 {
		ax.Step = x[1] - x[0]
		ax.Equidistant = true
		for i := 2; i < len(x); i++ {
			if math.Abs(x[i]-x[i-1]-ax.Step) > 1.e-10*math.Abs(ax.Step) {
				ax.Equidistant = false
				ax.Step = 0
				break
			}
		}
	}
	return
}

// Bounds returns the first abscissa and the extent of the grid
func (ax *Axis) Bounds() (x0, L float64) {
	x0 = ax.X[0]
	L = ax.X[ax.N-1] - x0
	return
}

// PositionDiagonal returns the diagonal of the kinetic energy in position
// space. For Fourier grids every diagonal element is the mean of the k-space
// energies.
func (ax *Axis) PositionDiagonal() (d []float64) {
	if ax.KE != nil {
		return ax.KE.Diagonal()
	}
	var mean float64
	for _, t := range ax.KEDiag {
		mean += t
	}
	mean /= float64(ax.N)
	d = make([]float64, ax.N)
	for i := range d {
		d[i] = mean
	}
	return
}

// PositionKE returns the kinetic energy matrix in position space, for
// Fourier grids it is synthesized from the k-space diagonal
func (ax *Axis) PositionKE() *PackedSym {
	if ax.KE != nil {
		return ax.KE
	}
	return FourierPositionKE(ax.KEDiag)
}

func (ax *Axis) String() string {
	s := fmt.Sprintf("%s: %3d grid points from %10.6f to %10.6f", ax.Kind, ax.N, ax.X[0], ax.X[ax.N-1])
	if ax.Equidistant {
		s += fmt.Sprintf("  StepSize = %10.6f", ax.Step)
	}
	return s
}
