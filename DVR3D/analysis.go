package DVR3D

import (
	"fmt"
	"math"

	"github.com/notargets/godvr/output"
	"github.com/notargets/godvr/potential"
	"github.com/notargets/godvr/utils"
)

type Expectation struct {
	State  int
	Norm   float64
	Mean   [3]float64 // <x>, <y>, <z>
	R      float64    // |<r>|
	RMS    float64    // sqrt(<r^2>)
	Spread float64    // sqrt(<r^2> - |<r>|^2)
}

// TransitionDipole is d = <n|r|0> for an excited state n
type TransitionDipole struct {
	State int
	D     [3]float64
	D2    float64
}

func (dvr *DVR) checkStates(what string) error {
	if dvr.Grid.NDim != 3 {
		return fmt.Errorf("%w: %s", ErrNot3D, what)
	}
	if dvr.Wavefn.NConverged < 1 {
		return fmt.Errorf("%w: %s", ErrNoStates, what)
	}
	return nil
}

// ExpectationValues reports position moments of every converged state and
// the transition dipoles to the ground state. DVR states are normalized to
// sum psi^2 = 1, a deviation beyond utils.NORMTOL is logged.
func (dvr *DVR) ExpectationValues() (ex []Expectation, td []TransitionDipole, err error) {
	if err = dvr.checkStates("expectation values"); err != nil {
		return
	}
	var (
		g     = dvr.Grid
		nconv = dvr.Wavefn.NConverged
		rsq   = make([]float64, nconv)
		q     = make([]float64, 3)
	)
	ex = make([]Expectation, nconv)
	td = make([]TransitionDipole, nconv-1)
	for igp := 0; igp < g.NGP; igp++ {
		dvr.Point(igp, q)
		r2 := q[0]*q[0] + q[1]*q[1] + q[2]*q[2]
		psi0 := dvr.Wavefn.State(0)[igp]
		for i := 0; i < nconv; i++ {
			var (
				psi = dvr.Wavefn.State(i)[igp]
				rho = psi * psi
			)
			ex[i].Norm += rho
			for k := 0; k < 3; k++ {
				ex[i].Mean[k] += rho * q[k]
			}
			rsq[i] += rho * r2
			if i > 0 {
				for k := 0; k < 3; k++ {
					td[i-1].D[k] += psi * q[k] * psi0
				}
			}
		}
	}
	b2a := utils.Bohr2Angs
	dvr.log.Info("State     <|r|>     sqrt(<r^2>)   spread  (all in Angstrom)")
	for i := range ex {
		e := &ex[i]
		e.State = i
		if math.Abs(e.Norm-1) > utils.NORMTOL {
			dvr.log.Warnf("normalization integral of state %d is not 1.0, but %.12f", i, e.Norm)
		}
		e.R = math.Sqrt(e.Mean[0]*e.Mean[0] + e.Mean[1]*e.Mean[1] + e.Mean[2]*e.Mean[2])
		e.RMS = math.Sqrt(rsq[i])
		e.Spread = math.Sqrt(math.Max(rsq[i]-e.R*e.R, 0))
		dvr.log.Infof(" %3d   %10.5f  %10.5f  %10.5f", i, b2a*e.R, b2a*e.RMS, b2a*e.Spread)
	}
	if len(td) > 0 {
		dvr.log.Info("Transition dipoles d^2 and d=(<n|x|0>, <n|y|0>, <n|z|0>) (all in au)")
	}
	for i := range td {
		d := &td[i]
		d.State = i + 1
		d.D2 = d.D[0]*d.D[0] + d.D[1]*d.D[1] + d.D[2]*d.D[2]
		dvr.log.Infof(" %3d      %10.5f     (%10.5f,  %10.5f,  %10.5f)", d.State, d.D2, d.D[0], d.D[1], d.D[2])
	}
	return
}

// EnergyPartitioning returns the density weighted potential energy
// components, parts[state][component], for every converged state
func (dvr *DVR) EnergyPartitioning(V potential.Evaluator) (parts [][]float64, err error) {
	if err = dvr.checkStates("energy partitioning"); err != nil {
		return
	}
	var (
		g     = dvr.Grid
		nconv = dvr.Wavefn.NConverged
		pm    = dvr.Workers.Partition(g.NGP)
		acc   = make([][][]float64, pm.ParallelDegree)
	)
	pm.Run(func(np, kMin, kMax int) {
		var (
			Vw = V.Clone()
			q  = dvr.Workers.Buffers[np].Q
			e  = make([]float64, potential.NEnergies)
		)
		acc[np] = make([][]float64, nconv)
		for i := range acc[np] {
			acc[np][i] = make([]float64, potential.NEnergies)
		}
		for igp := kMin; igp < kMax; igp++ {
			dvr.Point(igp, q)
			Vw.Evaluate(q)
			nc := Vw.ReportEnergies(e)
			for i := 0; i < nconv; i++ {
				psi := dvr.Wavefn.State(i)[igp]
				for c := 0; c < nc; c++ {
					acc[np][i][c] += psi * psi * e[c]
				}
			}
		}
	})
	parts = make([][]float64, nconv)
	for i := range parts {
		parts[i] = make([]float64, potential.NEnergies)
		for np := range acc {
			for c := range parts[i] {
				parts[i][c] += acc[np][i][c]
			}
		}
	}
	dvr.log.Info("Energy expectation values (all in meV)")
	dvr.log.Infof("State  %10s  %10s  %10s  %10s", potential.EnergyNames[0], potential.EnergyNames[1],
		potential.EnergyNames[2], potential.EnergyNames[3])
	for i, p := range parts {
		dvr.log.Infof(" %3d   %10.5f  %10.5f  %10.5f  %10.5f", i,
			p[0]*utils.AU2MEV, p[1]*utils.AU2MEV, p[2]*utils.AU2MEV, p[3]*utils.AU2MEV)
	}
	return
}

// PotentialCube returns the sampled potential in x-major cube order
func (dvr *DVR) PotentialCube() (c output.Cube, err error) {
	if dvr.Grid.NDim != 3 {
		err = fmt.Errorf("%w: potential cube", ErrNot3D)
		return
	}
	c = dvr.toCube(dvr.V, 1)
	return
}

// WaveFnCube returns state iwf in x-major cube order scaled by 1/sqrt(dV),
// which gives the wavefunction in bohr^(-3/2)
func (dvr *DVR) WaveFnCube(iwf int) (c output.Cube, err error) {
	if err = dvr.checkStates("wavefunction cube"); err != nil {
		return
	}
	if iwf < 0 || iwf >= dvr.Wavefn.NConverged {
		err = fmt.Errorf("%w: state %d requested, %d converged", ErrNoStates, iwf, dvr.Wavefn.NConverged)
		return
	}
	var dV float64
	if dV, err = dvr.VolumeElement(); err != nil {
		return
	}
	c = dvr.toCube(dvr.Wavefn.State(iwf), 1/math.Sqrt(dV))
	return
}

func (dvr *DVR) toCube(data []float64, scale float64) (c output.Cube) {
	var (
		g = dvr.Grid
	)
	c = output.NewCube(dvr.Axes[0].X, dvr.Axes[1].X, dvr.Axes[2].X)
	for ix := 0; ix < g.N[0]; ix++ {
		for iy := 0; iy < g.N[1]; iy++ {
			for iz := 0; iz < g.N[2]; iz++ {
				c.Data[c.Index(ix, iy, iz)] = data[g.Sub2Ind(ix, iy, iz)] * scale
			}
		}
	}
	return
}
