package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownBasis       = errors.New("unknown DVR basis type")
	ErrUnknownSampling    = errors.New("unknown potential sampling")
	ErrUnknownMethod      = errors.New("unknown diagonalization method")
	ErrUnknownStartVector = errors.New("unknown start vector policy")
	ErrIllegalCorrection  = errors.New("correction scheme is only valid for Davidson")
)

type BasisType uint8

const (
	BasisSine BasisType = iota
	BasisHarmonicOscillator
	BasisFourier
	BasisColbertMiller
)

// Legacy integer codes used by input decks
var basisCodes = map[int]BasisType{
	1:  BasisHarmonicOscillator,
	2:  BasisSine,
	3:  BasisFourier,
	20: BasisColbertMiller,
}

var BasisNameMap = map[string]BasisType{
	"sine":           BasisSine,
	"ho":             BasisHarmonicOscillator,
	"harmonic":       BasisHarmonicOscillator,
	"fourier":        BasisFourier,
	"fft":            BasisFourier,
	"colbert-miller": BasisColbertMiller,
	"cm":             BasisColbertMiller,
}

func NewBasisType(code int) (bt BasisType, err error) {
	var ok bool
	if bt, ok = basisCodes[code]; !ok {
		err = fmt.Errorf("%w: code %d", ErrUnknownBasis, code)
	}
	return
}

func NewBasisTypeFromName(name string) (bt BasisType, err error) {
	var ok bool
	if bt, ok = BasisNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownBasis, name)
	}
	return
}

// Equidistant reports whether the basis produces an evenly spaced grid
func (bt BasisType) Equidistant() bool {
	return bt != BasisHarmonicOscillator
}

// DiagonalKE reports whether the kinetic energy is diagonal in transform
// space rather than a dense matrix in position space
func (bt BasisType) DiagonalKE() bool {
	return bt == BasisFourier
}

func (bt BasisType) String() string {
	switch bt {
	case BasisSine:
		return "Sine DVR"
	case BasisHarmonicOscillator:
		return "Harmonic Oscillator DVR"
	case BasisFourier:
		return "Fourier (FFT) grid"
	case BasisColbertMiller:
		return "Colbert-Miller DVR"
	}
	return fmt.Sprintf("BasisType(%d)", uint8(bt))
}

type SamplingKind uint8

const (
	SamplePoint SamplingKind = iota
	SampleOctant8
	SampleCubic27
	SampleAxial6
	SampleSmooth
)

// Sampling selects how the potential is sampled onto the grid. Order is the
// smoothing order q and only meaningful for SampleSmooth.
type Sampling struct {
	Kind  SamplingKind
	Order int
}

func NewSampling(code int) (s Sampling, err error) {
	switch {
	case code == 1:
		s.Kind = SamplePoint
	case code == 2:
		s.Kind = SampleOctant8
	case code == 3:
		s.Kind = SampleCubic27
	case code == 4:
		s.Kind = SampleAxial6
	case code >= 5:
		s = Sampling{Kind: SampleSmooth, Order: code}
	default:
		err = fmt.Errorf("%w: code %d", ErrUnknownSampling, code)
	}
	return
}

// MinSmoothingOrder is the lowest q accepted by SampleSmooth
const MinSmoothingOrder = 5

func (s Sampling) Validate() error {
	switch s.Kind {
	case SamplePoint, SampleOctant8, SampleCubic27, SampleAxial6:
	case SampleSmooth:
		if s.Order < MinSmoothingOrder {
			return fmt.Errorf("%w: smoothing order %d is below %d", ErrUnknownSampling, s.Order, MinSmoothingOrder)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrUnknownSampling, s.Kind)
	}
	return nil
}

// MultiPoint reports whether the policy needs a 3D grid
func (s Sampling) MultiPoint() bool {
	return s.Kind != SamplePoint
}

// NeedsEquidistant reports whether the offsets are defined by the step size
func (s Sampling) NeedsEquidistant() bool {
	return s.Kind == SampleOctant8 || s.Kind == SampleCubic27
}

func (s Sampling) String() string {
	switch s.Kind {
	case SamplePoint:
		return "point sampling"
	case SampleOctant8:
		return "8-point sampling"
	case SampleCubic27:
		return "27-point sampling"
	case SampleAxial6:
		return "6-point sampling"
	case SampleSmooth:
		return fmt.Sprintf("stencil smoothing, q = %d", s.Order)
	}
	return fmt.Sprintf("Sampling(%d)", uint8(s.Kind))
}

type SolverKind uint8

const (
	SolverFull SolverKind = iota
	SolverArnoldi
	SolverDavidson
)

type CorrectionScheme uint8

const (
	CorrectionNone CorrectionScheme = iota
	CorrectionDavidson
	CorrectionJacobiDavidson
)

func (cs CorrectionScheme) String() string {
	switch cs {
	case CorrectionNone:
		return "none"
	case CorrectionDavidson:
		return "Davidson"
	case CorrectionJacobiDavidson:
		return "Jacobi-Davidson"
	}
	return fmt.Sprintf("CorrectionScheme(%d)", uint8(cs))
}

// SolverMethod is the solver kind plus the correction scheme used by the
// Davidson family. Other kinds always carry CorrectionNone.
type SolverMethod struct {
	Kind       SolverKind
	Correction CorrectionScheme
}

var (
	MethodFull           = SolverMethod{Kind: SolverFull}
	MethodArnoldi        = SolverMethod{Kind: SolverArnoldi}
	MethodDavidson       = SolverMethod{Kind: SolverDavidson, Correction: CorrectionDavidson}
	MethodJacobiDavidson = SolverMethod{Kind: SolverDavidson, Correction: CorrectionJacobiDavidson}
	MethodDavidsonNone   = SolverMethod{Kind: SolverDavidson, Correction: CorrectionNone}
)

var methodCodes = map[int]SolverMethod{
	0: MethodFull,
	1: MethodArnoldi,
	2: MethodDavidson,
	3: MethodJacobiDavidson,
	4: MethodDavidsonNone,
}

var MethodNameMap = map[string]SolverMethod{
	"full":            MethodFull,
	"arnoldi":         MethodArnoldi,
	"lanczos":         MethodArnoldi,
	"davidson":        MethodDavidson,
	"jacobi-davidson": MethodJacobiDavidson,
	"jd":              MethodJacobiDavidson,
	"davidson-none":   MethodDavidsonNone,
}

func NewSolverMethod(code int) (sm SolverMethod, err error) {
	var ok bool
	if sm, ok = methodCodes[code]; !ok {
		err = fmt.Errorf("%w: code %d", ErrUnknownMethod, code)
	}
	return
}

func NewSolverMethodFromName(name string) (sm SolverMethod, err error) {
	var ok bool
	if sm, ok = MethodNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return
}

func (sm SolverMethod) Validate() error {
	switch sm.Kind {
	case SolverFull, SolverArnoldi:
		if sm.Correction != CorrectionNone {
			return fmt.Errorf("%w: %s with %s correction", ErrIllegalCorrection, sm.kindName(), sm.Correction)
		}
	case SolverDavidson:
		if sm.Correction > CorrectionJacobiDavidson {
			return fmt.Errorf("%w: %s", ErrUnknownMethod, sm.Correction)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrUnknownMethod, sm.Kind)
	}
	return nil
}

func (sm SolverMethod) kindName() string {
	switch sm.Kind {
	case SolverFull:
		return "Full Diagonalization"
	case SolverArnoldi:
		return "Lanczos Arnoldi"
	case SolverDavidson:
		return "Davidson"
	}
	return fmt.Sprintf("SolverKind(%d)", uint8(sm.Kind))
}

func (sm SolverMethod) String() string {
	if sm.Kind == SolverDavidson {
		return fmt.Sprintf("%s (%s correction)", sm.kindName(), sm.Correction)
	}
	return sm.kindName()
}

type StartVector uint8

const (
	StartReuseConverged StartVector = iota
	StartParticleInBox
	StartRandom
)

func NewStartVector(code int) (sv StartVector, err error) {
	if code < 0 || code > int(StartRandom) {
		err = fmt.Errorf("%w: code %d", ErrUnknownStartVector, code)
		return
	}
	sv = StartVector(code)
	return
}

func (sv StartVector) Validate() error {
	if sv > StartRandom {
		return fmt.Errorf("%w: code %d", ErrUnknownStartVector, sv)
	}
	return nil
}

func (sv StartVector) String() string {
	switch sv {
	case StartReuseConverged:
		return "previously converged vectors"
	case StartParticleInBox:
		return "particle-in-a-box vector"
	case StartRandom:
		return "random vectors"
	}
	return fmt.Sprintf("StartVector(%d)", uint8(sv))
}
