package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/godvr/potential"
	"github.com/notargets/godvr/types"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Water dimer anion
Points: [24, 22, 20]
Basis: sine
BasisPara: [18., 16., 15.]
Sampling: 6
NStates: 3
Method: jd
ToleranceExponent: 7
StartVector: random
Seed: 11
Potential:
  Name: sites
  Sites:
    - z: 8
      position: [0., 0., 0.1]
      charge: -0.8
      width: 0.9
      polarizability: 1.4
    - z: 1
      position: [1.4, 0., -0.9]
      charge: 0.4
      width: 0.5
Output:
  Directory: out
  CubeStates: 2
  Cuts: true
`)
	var ip InputParametersDVR
	require.NoError(t, ip.Parse(fileInput))
	ip.Print()
	assert.Equal(t, "Water dimer anion", ip.Title)
	assert.Equal(t, []int{24, 22, 20}, ip.Points)
	assert.Equal(t, []float64{18, 16, 15}, ip.BasisPara)
	assert.Equal(t, uint64(11), ip.Seed)
	assert.Equal(t, 2, len(ip.Potential.Sites))
	assert.Equal(t, 8, ip.Potential.Sites[0].Z)
	assert.Equal(t, 1.4, ip.Potential.Sites[0].Polarizability)
	assert.Equal(t, [3]float64{1.4, 0, -0.9}, ip.Potential.Sites[1].Position)
	assert.Equal(t, "out", ip.Output.Directory)
	assert.Equal(t, 2, ip.Output.CubeStates)
	assert.True(t, ip.Output.Cuts)
	// defaults
	assert.Equal(t, 1., ip.Mass)
	assert.Equal(t, 100, ip.MaxIterations)
	assert.Equal(t, 33, ip.MaxSubspace)
	require.NoError(t, ip.Validate())

	bt, _ := ip.BasisType()
	assert.Equal(t, types.BasisSine, bt)
	s, _ := ip.SamplingPolicy()
	assert.Equal(t, types.Sampling{Kind: types.SampleSmooth, Order: 6}, s)
	sm, _ := ip.SolverMethod()
	assert.Equal(t, types.MethodJacobiDavidson, sm)
	sv, _ := ip.Start()
	assert.Equal(t, types.StartRandom, sv)
	V, err := ip.Potential.NewEvaluator()
	require.NoError(t, err)
	_, isGradient := V.(potential.GradientEvaluator)
	assert.True(t, isGradient)
}

func TestValidate(t *testing.T) {
	deck := func(extra string) (ip InputParametersDVR) {
		require.NoError(t, ip.Parse([]byte("Points: [4, 4, 4]\nBasisPara: [4., 4., 4.]\n"+extra)))
		return
	}
	{ // Minimal deck
		ip := deck("")
		require.NoError(t, ip.Validate())
		assert.Equal(t, "box", ip.StartVector)
		assert.Equal(t, "davidson", ip.Method)
		assert.Equal(t, 1, ip.NStates)
	}
	{
		ip := deck("Basis: wavelet\n")
		assert.True(t, errors.Is(ip.Validate(), types.ErrUnknownBasis))
		ip = deck("Method: power\n")
		assert.True(t, errors.Is(ip.Validate(), types.ErrUnknownMethod))
		ip = deck("StartVector: zeros\n")
		assert.True(t, errors.Is(ip.Validate(), types.ErrUnknownStartVector))
		ip = deck("Sampling: -2\n")
		assert.True(t, errors.Is(ip.Validate(), types.ErrUnknownSampling))
		ip = deck("Potential:\n  Name: morse\n")
		assert.True(t, errors.Is(ip.Validate(), potential.ErrUnknownModel))
	}
	{
		var ip InputParametersDVR
		require.NoError(t, ip.Parse([]byte("Points: [4, 4]\nBasisPara: [4.]\n")))
		assert.Error(t, ip.Validate())
	}
}
