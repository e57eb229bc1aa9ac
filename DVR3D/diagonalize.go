package DVR3D

import (
	"fmt"
	"math"

	"github.com/notargets/godvr/eigen"
	"github.com/notargets/godvr/types"
)

// the Lanczos pass seeding a Davidson run gets this fraction of the
// iteration budget
const preliminaryShare = 4

// SolverRequest is fixed for the duration of one Diagonalize call
type SolverRequest struct {
	NStates           int
	Method            types.SolverMethod
	MaxSubspace       int
	MaxIterations     int
	ToleranceExponent int
}

// Tolerance is the residual norm below which a state counts as converged
func (r SolverRequest) Tolerance() float64 {
	return math.Pow(10, -float64(r.ToleranceExponent))
}

func (dvr *DVR) DiagonalizeSetup(req SolverRequest) (err error) {
	if err = req.Method.Validate(); err != nil {
		return
	}
	if req.NStates < 1 || req.NStates > dvr.Grid.NGP {
		return fmt.Errorf("%w: %d states requested on %d grid points", eigen.ErrSettings, req.NStates, dvr.Grid.NGP)
	}
	if req.Method.Kind != types.SolverFull {
		s := dvr.settings(req)
		if err = s.Validate(dvr.Grid.NGP); err != nil {
			return
		}
	}
	dvr.request = &req
	return
}

func (dvr *DVR) settings(req SolverRequest) eigen.Settings {
	return eigen.Settings{
		NStates:       req.NStates,
		MaxSubspace:   req.MaxSubspace,
		MaxIterations: req.MaxIterations,
		Tolerance:     req.Tolerance(),
		Correction:    req.Method.Correction,
		Seed:          dvr.seed,
		Log:           dvr.log,
	}
}

/*
Diagonalize computes the lowest states of the current Hamiltonian. The start
vectors are the leading rows of the wavefunction set:

	StartReuseConverged  previously converged rows, random rows for the rest
	StartParticleInBox   one product of sine half waves, random rows for the rest
	StartRandom          random rows, uniform in [-1,1]

On return the rows hold the new states, nConverged of which met the
tolerance. A shortfall is logged, not returned as an error.
*/
func (dvr *DVR) Diagonalize(sv types.StartVector) (nConverged int, ev []float64, err error) {
	if dvr.request == nil {
		err = ErrNotSetup
		return
	}
	if err = sv.Validate(); err != nil {
		return
	}
	var (
		req = *dvr.request
		ws  = dvr.Wavefn
		ngp = dvr.Grid.NGP
	)
	if req.Method.Kind == types.SolverFull && ngp > FullDiagLimit {
		err = fmt.Errorf("%w: %d grid points, the limit is %d", ErrFullDiagCapacity, ngp, FullDiagLimit)
		return
	}
	dvr.log.Info("Computing the energy and wavefunction using a DVR of the Hamiltonian")
	ws.Ensure(req.NStates)
	istart := 0
	switch sv {
	case types.StartReuseConverged:
		istart = min(ws.NConverged, req.NStates)
		if ws.NConverged < req.NStates {
			dvr.log.Warnf("only %d old wavefunctions available for %d states, using random start vectors for the rest",
				ws.NConverged, req.NStates)
		}
		dvr.log.Infof("Using %d start vectors from a previous diagonalization", istart)
	case types.StartParticleInBox:
		dvr.log.Info("Initializing one particle-in-a-box start vector")
		dvr.ParticleInBox(ws.State(0))
		istart = 1
	}
	if istart < req.NStates {
		dvr.log.Infof("Initializing %d random start vectors", req.NStates-istart)
		for i := istart; i < req.NStates; i++ {
			row := ws.State(i)
			for k := range row {
				row[k] = dvr.rnd.Rand()
			}
		}
	}
	var (
		res eigen.Result
		s   = dvr.settings(req)
		H   = dvr.Hamiltonian()
	)
	switch req.Method.Kind {
	case types.SolverFull:
		dvr.log.Info("Full Diagonalization (only for debugging)")
		res, err = eigen.Full(dvr.BuildSparseHamiltonian().ToSymDense(), req.NStates, ws.Psi)
	case types.SolverArnoldi:
		dvr.log.Info("Lanczos Arnoldi")
		res, err = eigen.Lanczos(H, s, ws.Psi)
	case types.SolverDavidson:
		dvr.log.Infof("%s", req.Method)
		seed := s
		seed.Preliminary = true
		seed.MaxIterations = max(1, s.MaxIterations/preliminaryShare)
		if res, err = eigen.Lanczos(H, seed, ws.Psi); err != nil {
			return
		}
		dvr.log.Debugf("Lanczos seed: %d of %d converged, %d MxV", res.NConverged, req.NStates, res.MatVecs)
		res, err = eigen.Davidson(H, s, ws.Psi)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownMethod, req.Method)
	}
	if err != nil {
		return
	}
	ws.NConverged = res.NConverged
	nConverged, ev = res.NConverged, res.Values
	for i, e := range ev {
		dvr.log.Debugf("  state %3d  E = %16.10f  |r| = %9.3e", i, e, res.Residuals[i])
	}
	return
}

// ParticleInBox fills wf with prod_d sin(pi (q_d - x0_d)/L_d), x0_d and L_d
// being the first point and the extent of axis d
func (dvr *DVR) ParticleInBox(wf []float64) {
	var (
		g   = dvr.Grid
		x0  = make([]float64, g.NDim)
		L   = make([]float64, g.NDim)
		sin = make([][]float64, g.NDim)
	)
	for d, ax := range dvr.Axes {
		x0[d], L[d] = ax.Bounds()
		dvr.log.Debugf("dimension %d  x0 = %10.6f   L = %10.6f", d, x0[d], L[d])
		sin[d] = make([]float64, ax.N)
		for i, x := range ax.X {
			sin[d][i] = 1
			if L[d] > 0 {
				sin[d][i] = math.Sin(math.Pi / L[d] * (x - x0[d]))
			}
		}
	}
	multi := make([]int, g.NDim)
	for igp := range wf {
		g.MultiIndex(igp, multi)
		wf[igp] = 1
		for d, i := range multi {
			wf[igp] *= sin[d][i]
		}
	}
}
