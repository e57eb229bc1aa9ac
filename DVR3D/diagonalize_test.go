package DVR3D

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/godvr/DVR1D"
	"github.com/notargets/godvr/eigen"
	"github.com/notargets/godvr/types"
)

var iterativeMethods = []types.SolverMethod{
	types.MethodArnoldi,
	types.MethodDavidson,
	types.MethodJacobiDavidson,
	types.MethodDavidsonNone,
}

func TestDiagonalHamiltonian(t *testing.T) {
	var (
		n       = 10
		a, b, c = make([]float64, n), make([]float64, n), make([]float64, n)
		exact   []float64
	)
	for i := 0; i < n; i++ {
		a[i] = float64(i) + 0.5
		b[i] = math.Sqrt2 * (float64(i) + 0.5)
		c[i] = math.Sqrt(3) * (float64(i) + 0.5)
	}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				exact = append(exact, a[i]+b[j]+c[k])
			}
		}
	}
	sort.Float64s(exact)
	for _, m := range iterativeMethods {
		axes := []*DVR1D.Axis{diagonalAxis(t, a), diagonalAxis(t, b), diagonalAxis(t, c)}
		dvr, err := NewDVRFromAxes(axes, types.Sampling{}, quietOptions(4))
		require.NoError(t, err)
		require.NoError(t, dvr.DiagonalizeSetup(SolverRequest{
			NStates: 4, Method: m, MaxSubspace: 40, MaxIterations: 200, ToleranceExponent: 7,
		}))
		nconv, ev, err := dvr.Diagonalize(types.StartRandom)
		require.NoError(t, err)
		assert.Equal(t, 4, nconv, m.String())
		assert.InDeltaSlice(t, exact[:4], ev[:4], 1.e-8, m.String())
	}
}

func TestSolversAgree(t *testing.T) {
	var (
		n    = []int{6, 7, 8}
		L    = []float64{7, 8, 9}
		V    = harmonic(t, []float64{0.3, 0.4, 0.5}, []float64{0.2, -0.1, 0.3})
		req  = SolverRequest{NStates: 4, MaxSubspace: 24, MaxIterations: 100, ToleranceExponent: 8}
		full []float64
	)
	{
		dvr := sineDVR(t, n, L, types.Sampling{}, 2)
		require.NoError(t, dvr.ComputePotential(V))
		req.Method = types.MethodFull
		require.NoError(t, dvr.DiagonalizeSetup(req))
		nconv, ev, err := dvr.Diagonalize(types.StartParticleInBox)
		require.NoError(t, err)
		assert.Equal(t, 4, nconv)
		full = ev
		for i := 1; i < len(full); i++ {
			assert.Less(t, full[i-1], full[i])
		}
	}
	for _, m := range iterativeMethods {
		for _, sv := range []types.StartVector{types.StartParticleInBox, types.StartRandom} {
			dvr := sineDVR(t, n, L, types.Sampling{}, 3)
			require.NoError(t, dvr.ComputePotential(V))
			req.Method = m
			require.NoError(t, dvr.DiagonalizeSetup(req))
			nconv, ev, err := dvr.Diagonalize(sv)
			require.NoError(t, err)
			assert.Equal(t, 4, nconv)
			assert.InDeltaSlicef(t, full, ev[:4], 1.e-9, "%s from %s", m, sv)
			assert.Equal(t, 4, dvr.Wavefn.NConverged)
		}
	}
	{ // Restarting from converged vectors reproduces the states
		dvr := sineDVR(t, n, L, types.Sampling{}, 2)
		require.NoError(t, dvr.ComputePotential(V))
		req.Method = types.MethodJacobiDavidson
		require.NoError(t, dvr.DiagonalizeSetup(req))
		_, _, err := dvr.Diagonalize(types.StartRandom)
		require.NoError(t, err)
		nconv, ev, err := dvr.Diagonalize(types.StartReuseConverged)
		require.NoError(t, err)
		assert.Equal(t, 4, nconv)
		assert.InDeltaSlice(t, full, ev[:4], 1.e-9)
		// asking for more states keeps the old rows as start vectors
		req.NStates = 6
		require.NoError(t, dvr.DiagonalizeSetup(req))
		nconv, ev, err = dvr.Diagonalize(types.StartReuseConverged)
		require.NoError(t, err)
		assert.Equal(t, 6, nconv)
		assert.InDeltaSlice(t, full, ev[:4], 1.e-9)
		req.NStates = 4
	}
}

func TestAnisotropicHarmonicGrid(t *testing.T) {
	var (
		n     = []int{20, 20, 20}
		L     = []float64{12, 12, 12}
		V     = harmonic(t, []float64{0.5, 0.6, 0.7}, []float64{0, 0, 0})
		exact = []float64{0.9, 1.4, 1.5, 1.6}
	)
	for _, tc := range []struct {
		method types.SolverMethod
		start  types.StartVector
	}{
		{types.MethodArnoldi, types.StartParticleInBox},
		{types.MethodArnoldi, types.StartRandom},
		{types.MethodDavidson, types.StartParticleInBox},
		{types.MethodJacobiDavidson, types.StartRandom},
	} {
		dvr := sineDVR(t, n, L, types.Sampling{}, 4)
		require.NoError(t, dvr.ComputePotential(V))
		require.NoError(t, dvr.DiagonalizeSetup(SolverRequest{
			NStates: 4, Method: tc.method, MaxSubspace: 40, MaxIterations: 200, ToleranceExponent: 6,
		}))
		nconv, ev, err := dvr.Diagonalize(tc.start)
		require.NoError(t, err)
		assert.Equalf(t, 4, nconv, "%s from %s", tc.method, tc.start)
		assert.InDeltaSlicef(t, exact, ev, 1.e-5, "%s from %s", tc.method, tc.start)
	}
}

func TestDiagonalizeErrors(t *testing.T) {
	{ // Not set up
		dvr := sineDVR(t, []int{4, 4, 4}, []float64{4, 4, 4}, types.Sampling{}, 1)
		_, _, err := dvr.Diagonalize(types.StartRandom)
		assert.True(t, errors.Is(err, ErrNotSetup))
	}
	{ // Capacity of the dense solver
		dvr := sineDVR(t, []int{11, 10, 10}, []float64{4, 4, 4}, types.Sampling{}, 1)
		require.NoError(t, dvr.DiagonalizeSetup(SolverRequest{NStates: 2, Method: types.MethodFull}))
		_, _, err := dvr.Diagonalize(types.StartRandom)
		assert.True(t, errors.Is(err, ErrFullDiagCapacity))
	}
	{ // Setup validation
		dvr := sineDVR(t, []int{4, 4, 4}, []float64{4, 4, 4}, types.Sampling{}, 1)
		err := dvr.DiagonalizeSetup(SolverRequest{NStates: 0, Method: types.MethodFull})
		assert.True(t, errors.Is(err, eigen.ErrSettings))
		err = dvr.DiagonalizeSetup(SolverRequest{NStates: 65, Method: types.MethodFull})
		assert.True(t, errors.Is(err, eigen.ErrSettings))
		err = dvr.DiagonalizeSetup(SolverRequest{NStates: 2, Method: types.MethodArnoldi,
			MaxSubspace: 2, MaxIterations: 10, ToleranceExponent: 6})
		assert.True(t, errors.Is(err, eigen.ErrSettings))
		err = dvr.DiagonalizeSetup(SolverRequest{NStates: 2,
			Method: types.SolverMethod{Kind: types.SolverArnoldi, Correction: types.CorrectionDavidson}})
		assert.True(t, errors.Is(err, types.ErrIllegalCorrection))
		err = dvr.DiagonalizeSetup(SolverRequest{NStates: 2, Method: types.SolverMethod{Kind: 9}})
		assert.True(t, errors.Is(err, ErrUnknownMethod))
	}
	{ // Unknown start vector policy
		dvr := sineDVR(t, []int{4, 4, 4}, []float64{4, 4, 4}, types.Sampling{}, 1)
		require.NoError(t, dvr.DiagonalizeSetup(SolverRequest{NStates: 2, Method: types.MethodFull}))
		_, _, err := dvr.Diagonalize(types.StartVector(7))
		assert.True(t, errors.Is(err, ErrUnknownStartVector))
	}
}

func TestWavefunctionSet(t *testing.T) {
	ws := NewWavefunctionSet(5)
	assert.Equal(t, 0, ws.NWavefn())
	assert.True(t, ws.Ensure(3))
	assert.Equal(t, 3, ws.NWavefn())
	for i := 0; i < 3; i++ {
		row := ws.State(i)
		for k := range row {
			row[k] = float64(10*i + k)
		}
	}
	ws.NConverged = 3
	// enough room, nothing changes
	assert.False(t, ws.Ensure(2))
	assert.Equal(t, 3, ws.NConverged)
	assert.Equal(t, 3, ws.NWavefn())
	// growing keeps the data but nothing counts as converged
	assert.True(t, ws.Ensure(5))
	assert.Equal(t, 5, ws.NWavefn())
	assert.Equal(t, 0, ws.NConverged)
	for i := 0; i < 3; i++ {
		for k, v := range ws.State(i) {
			assert.Equal(t, float64(10*i+k), v)
		}
	}
	for _, v := range ws.State(4) {
		assert.Equal(t, 0., v)
	}
}
