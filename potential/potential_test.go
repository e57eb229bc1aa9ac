package potential

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSites() []Site {
	return []Site{
		{Position: [3]float64{0.5, 0, 0}, Charge: 0.8, Width: 1.0, Polarizability: 1.4, RepulsionA: 0.3, RepulsionB: 0.7},
		{Position: [3]float64{-1, 0.5, 0.2}, Charge: -0.4, Width: 0.6, Polarizability: 0.9},
		{Position: [3]float64{0, -1, 1}, Charge: -0.4, Width: 0.8, RepulsionA: 0.1, RepulsionB: 1.1},
	}
}

func TestConstantAndHarmonic(t *testing.T) {
	{
		V := NewConstant(-0.25)
		assert.Equal(t, -0.25, V.Evaluate([]float64{1, 2, 3}))
		e := make([]float64, NEnergies)
		assert.Equal(t, NEnergies, V.ReportEnergies(e))
		assert.Equal(t, -0.25, e[EnergyTotal])
	}
	{
		h, err := NewHarmonic([]float64{1, 2, 3}, nil, 1)
		require.NoError(t, err)
		assert.InDelta(t, 0.5*(1+4+9), h.Evaluate([]float64{1, 1, 1}), 1.e-14)
		_, err = NewHarmonic([]float64{1, 2}, []float64{0}, 1)
		assert.True(t, errors.Is(err, ErrUnknownModel))
	}
}

func TestSoftCoulombGradient(t *testing.T) {
	var (
		V    = NewSoftCoulombSites(testSites())
		q    = []float64{0.3, -0.2, 0.4}
		grad = make([]float64, 3*V.NSites())
		h    = 1.e-5
	)
	V.EvaluateGradient(q, grad, nil, 1)
	// dV/dR_s by central differences on the site positions
	for is := range V.Sites {
		for k := 0; k < 3; k++ {
			W := V.Clone().(*SoftCoulombSites)
			W.Sites[is].Position[k] += h
			vp := W.Evaluate(q)
			W.Sites[is].Position[k] -= 2 * h
			vm := W.Evaluate(q)
			assert.InDelta(t, (vp-vm)/(2*h), grad[3*is+k], 1.e-7)
		}
	}
}

func TestSoftCoulombComponents(t *testing.T) {
	var (
		V = NewSoftCoulombSites(testSites())
		q = []float64{0.1, 0.2, 0.3}
		e = make([]float64, NEnergies)
	)
	v := V.Evaluate(q)
	assert.Equal(t, NEnergies, V.ReportEnergies(e))
	assert.InDelta(t, v, e[EnergyTotal], 1.e-14)
	assert.InDelta(t, v, e[EnergyElectrostatic]+e[EnergyRepulsion]+e[EnergyPolarization], 1.e-14)
	assert.Less(t, e[EnergyPolarization], 0.)
	{ // clones do not share state
		W := V.Clone()
		W.Evaluate([]float64{5, 5, 5})
		e2 := make([]float64, NEnergies)
		V.ReportEnergies(e2)
		assert.Equal(t, e, e2)
	}
}

func TestSoftCoulombScratch(t *testing.T) {
	var (
		V       = NewSoftCoulombSites(testSites())
		n3      = 3 * V.NSites()
		scratch = V.NewScratch()
		ext     = NewExternalBuffers(V.NSites())
		grad    = make([]float64, n3)
	)
	V.EvaluateGradient([]float64{0.2, 0.2, 0.2}, grad, scratch, 0.5)
	// one point: the accumulators are products of the point dipoles
	for i := 0; i < n3; i++ {
		assert.InDelta(t, 0.25*scratch.Mu[i], scratch.Dipole[i], 1.e-14)
		for j := 0; j < n3; j++ {
			assert.InDelta(t, 0.25*scratch.Mu[i]*scratch.Mu[j], scratch.DipoleDipole[i*n3+j], 1.e-14)
		}
	}
	assert.NotEqual(t, 0., scratch.Mu[0])
	V.EvaluateGradient([]float64{-0.4, 0.1, 0.0}, grad, scratch, 0.25)
	// third site is not polarizable
	for k := 0; k < 3; k++ {
		assert.Equal(t, 0., scratch.Dipole[6+k])
	}
	// <mu mu> is symmetric
	for i := 0; i < n3; i++ {
		for j := 0; j < n3; j++ {
			assert.InDelta(t, scratch.DipoleDipole[i*n3+j], scratch.DipoleDipole[j*n3+i], 1.e-14)
		}
	}
	V.FinalGradient(grad, scratch, ext)
	V.FinalGradient(grad, scratch, ext)
	assert.InDelta(t, 2*scratch.Dipole[0], ext.Dipole[0], 1.e-14)
	scratch.Zero()
	assert.Equal(t, 0., scratch.Dipole[0])
	assert.Equal(t, 0., scratch.DipoleDipole[0])
}

func TestPairGradient(t *testing.T) {
	var (
		V  = NewSoftCoulombSites(testSites())
		pg = V.PairGradient()
	)
	// translation invariance: forces sum to zero
	for k := 0; k < 3; k++ {
		var sum float64
		for is := 0; is < V.NSites(); is++ {
			sum += pg[3*is+k]
		}
		assert.InDelta(t, 0, sum, 1.e-14)
	}
	grad := make([]float64, len(pg))
	pol := make([]float64, len(pg))
	pol[4] = 1
	V.SubtractPairGradient(pol, grad)
	assert.InDelta(t, -pg[0], grad[0], 1.e-14)
	assert.InDelta(t, 1-pg[4], grad[4], 1.e-14)
}

func TestModel(t *testing.T) {
	V, err := Model{Name: "constant", Value: 2}.NewEvaluator()
	require.NoError(t, err)
	assert.Equal(t, 2., V.Evaluate([]float64{0, 0, 0}))
	V, err = Model{Name: "Harmonic", Omega: []float64{1, 1, 1}}.NewEvaluator()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, V.Evaluate([]float64{1, 1, 1}), 1.e-14)
	V, err = Model{Name: "sites", Sites: testSites()}.NewEvaluator()
	require.NoError(t, err)
	_, ok := V.(GradientEvaluator)
	assert.True(t, ok)
	_, err = Model{Name: "sites"}.NewEvaluator()
	assert.True(t, errors.Is(err, ErrUnknownModel))
	_, err = Model{Name: "lennard-jones"}.NewEvaluator()
	assert.True(t, errors.Is(err, ErrUnknownModel))
}
