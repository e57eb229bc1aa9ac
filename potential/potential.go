package potential

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownModel = errors.New("unknown potential model")

// Energy components reported by ReportEnergies, in this order
const (
	EnergyElectrostatic = iota
	EnergyRepulsion
	EnergyPolarization
	EnergyTotal
	NEnergies
)

var EnergyNames = [NEnergies]string{"vElec", "vRep", "vPol", "vTotal"}

// Evaluator returns the potential energy of the particle at point q.
// Implementations keep the components of the last evaluation, so each
// worker needs its own Clone.
type Evaluator interface {
	Evaluate(q []float64) float64
	Clone() Evaluator
	// ReportEnergies copies the components of the last evaluation into dst
	// and returns how many were written
	ReportEnergies(dst []float64) int
}

/*
GradientEvaluator adds the derivatives of the potential with respect to
the positions of the NSites sources. A gradient accumulation is driven as

	EvaluateGradient for every grid point, per worker
	FinalGradient once per worker, sequentially
	SubtractPairGradient once on the reduced gradient
*/
type GradientEvaluator interface {
	Evaluator
	NSites() int
	// NewScratch allocates zeroed worker private buffers
	NewScratch() *GradientScratch
	// EvaluateGradient adds dV/dR_site at q into grad (length 3*NSites).
	// weight is the wavefunction amplitude at q, the density weighted
	// dipole accumulators in scratch are updated with weight^2.
	EvaluateGradient(q, grad []float64, scratch *GradientScratch, weight float64)
	// FinalGradient merges the worker scratch into the shared buffers
	FinalGradient(grad []float64, scratch *GradientScratch, ext *ExternalBuffers)
	// SubtractPairGradient removes the site-site gradient and adds polGrad
	SubtractPairGradient(polGrad, grad []float64)
}

// GradientScratch holds the induced dipole accumulators of one worker
type GradientScratch struct {
	Dipole       []float64 // 3*NSites
	DipoleDipole []float64 // (3*NSites)^2, row major outer product
	Mu           []float64 // induced dipoles at the current point
}

func NewGradientScratch(nSites int) (gs *GradientScratch) {
	n3 := 3 * nSites
	return &GradientScratch{
		Dipole:       make([]float64, n3),
		DipoleDipole: make([]float64, n3*n3),
		Mu:           make([]float64, n3),
	}
}

func (gs *GradientScratch) Zero() {
	for i := range gs.Dipole {
		gs.Dipole[i] = 0
	}
	for i := range gs.DipoleDipole {
		gs.DipoleDipole[i] = 0
	}
}

// ExternalBuffers receive the reduced dipole moments, <mu> and <mu mu>,
// after all workers have finished
type ExternalBuffers struct {
	Dipole       []float64
	DipoleDipole []float64
}

func NewExternalBuffers(nSites int) (eb *ExternalBuffers) {
	gs := NewGradientScratch(nSites)
	return &ExternalBuffers{
		Dipole:       gs.Dipole,
		DipoleDipole: gs.DipoleDipole,
	}
}

// Model describes a potential in an input deck
type Model struct {
	Name   string    `json:"name"`
	Value  float64   `json:"value,omitempty"`
	Omega  []float64 `json:"omega,omitempty"`
	Center []float64 `json:"center,omitempty"`
	Mass   float64   `json:"mass,omitempty"`
	Sites  []Site    `json:"sites,omitempty"`
}

func (m Model) NewEvaluator() (V Evaluator, err error) {
	switch strings.ToLower(strings.TrimSpace(m.Name)) {
	case "constant", "":
		V = NewConstant(m.Value)
	case "harmonic":
		var h *Harmonic
		if h, err = NewHarmonic(m.Omega, m.Center, m.Mass); err != nil {
			return
		}
		V = h
	case "sites", "soft-coulomb":
		if len(m.Sites) == 0 {
			err = fmt.Errorf("%w: %q needs at least one site", ErrUnknownModel, m.Name)
			return
		}
		V = NewSoftCoulombSites(m.Sites)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownModel, m.Name)
	}
	return
}
