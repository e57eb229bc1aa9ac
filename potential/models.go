package potential

import (
	"fmt"
	"math"
)

// Constant is a flat potential, mostly useful in tests
type Constant struct {
	V float64
}

func NewConstant(v float64) *Constant { return &Constant{V: v} }

func (c *Constant) Evaluate(q []float64) float64 { return c.V }

func (c *Constant) Clone() Evaluator {
	cc := *c
	return &cc
}

func (c *Constant) ReportEnergies(dst []float64) int {
	dst[EnergyElectrostatic] = c.V
	dst[EnergyRepulsion], dst[EnergyPolarization] = 0, 0
	dst[EnergyTotal] = c.V
	return NEnergies
}

// Harmonic is V = 1/2 m sum_d w_d^2 (q_d - c_d)^2
type Harmonic struct {
	Omega, Center []float64
	Mass          float64
	last          float64
}

func NewHarmonic(omega, center []float64, mass float64) (h *Harmonic, err error) {
	if len(omega) == 0 {
		err = fmt.Errorf("%w: harmonic potential needs frequencies", ErrUnknownModel)
		return
	}
	if len(center) == 0 {
		center = make([]float64, len(omega))
	}
	if len(center) != len(omega) {
		err = fmt.Errorf("%w: %d frequencies but a %d dimensional center", ErrUnknownModel, len(omega), len(center))
		return
	}
	if mass == 0 {
		mass = 1
	}
	h = &Harmonic{Omega: omega, Center: center, Mass: mass}
	return
}

func (h *Harmonic) Evaluate(q []float64) (v float64) {
	for d, w := range h.Omega {
		x := q[d] - h.Center[d]
		v += w * w * x * x
	}
	v *= 0.5 * h.Mass
	h.last = v
	return
}

func (h *Harmonic) Clone() Evaluator {
	hh := *h
	return &hh
}

func (h *Harmonic) ReportEnergies(dst []float64) int {
	dst[EnergyElectrostatic] = h.last
	dst[EnergyRepulsion], dst[EnergyPolarization] = 0, 0
	dst[EnergyTotal] = h.last
	return NEnergies
}

// Site is a softened point charge with a Gaussian repulsive core and an
// isotropic polarizability. Z only labels the nucleus in cube files.
type Site struct {
	Z              int        `json:"z,omitempty"`
	Position       [3]float64 `json:"position"`
	Charge         float64    `json:"charge"`
	Width          float64    `json:"width"`
	Polarizability float64    `json:"polarizability,omitempty"`
	RepulsionA     float64    `json:"repulsionA,omitempty"`
	RepulsionB     float64    `json:"repulsionB,omitempty"`
}

/*
SoftCoulombSites is the electron interacting with a set of sites, with
d = q - R_s and s = |d|^2:

	vElec = sum_s -Q_s / sqrt(s + a_s^2)
	vRep  = sum_s A_s exp(-B_s s)
	vPol  = sum_s -1/2 alpha_s |E_s|^2,  E_s = d / (s + a_s^2)^(3/2)

E_s is the softened field of the electron at the site, mu_s = alpha_s E_s
is the dipole it induces.
*/
type SoftCoulombSites struct {
	Sites    []Site
	energies [NEnergies]float64
}

func NewSoftCoulombSites(sites []Site) *SoftCoulombSites {
	return &SoftCoulombSites{Sites: sites}
}

func (sc *SoftCoulombSites) NSites() int { return len(sc.Sites) }

func (sc *SoftCoulombSites) Clone() Evaluator {
	cc := &SoftCoulombSites{Sites: make([]Site, len(sc.Sites))}
	copy(cc.Sites, sc.Sites)
	return cc
}

func (sc *SoftCoulombSites) Evaluate(q []float64) float64 {
	var (
		elec, rep, pol float64
	)
	for _, st := range sc.Sites {
		d, s := st.separation(q)
		a2 := st.Width * st.Width
		elec -= st.Charge / math.Sqrt(s+a2)
		if st.RepulsionA != 0 {
			rep += st.RepulsionA * math.Exp(-st.RepulsionB*s)
		}
		if st.Polarizability != 0 {
			f := math.Pow(s+a2, -1.5)
			E2 := (d[0]*d[0] + d[1]*d[1] + d[2]*d[2]) * f * f
			pol -= 0.5 * st.Polarizability * E2
		}
	}
	sc.energies = [NEnergies]float64{elec, rep, pol, elec + rep + pol}
	return elec + rep + pol
}

func (sc *SoftCoulombSites) ReportEnergies(dst []float64) int {
	return copy(dst, sc.energies[:])
}

func (st Site) separation(q []float64) (d [3]float64, s float64) {
	for k := 0; k < 3; k++ {
		d[k] = q[k] - st.Position[k]
		s += d[k] * d[k]
	}
	return
}

func (sc *SoftCoulombSites) NewScratch() *GradientScratch {
	return NewGradientScratch(sc.NSites())
}

/*
EvaluateGradient uses dV/dR = -2 h'(s) d for every term V = h(s):

	elec: -Q d (s+a^2)^(-3/2)
	rep:  2 A B exp(-B s) d
	pol:  alpha (a^2 - 2s) (s+a^2)^(-4) d
*/
func (sc *SoftCoulombSites) EvaluateGradient(q, grad []float64, scratch *GradientScratch, weight float64) {
	var (
		n3  = 3 * sc.NSites()
		rho = weight * weight
	)
	for is, st := range sc.Sites {
		d, s := st.separation(q)
		a2 := st.Width * st.Width
		sa := s + a2
		g := -st.Charge * math.Pow(sa, -1.5)
		if st.RepulsionA != 0 {
			g += 2 * st.RepulsionA * st.RepulsionB * math.Exp(-st.RepulsionB*s)
		}
		if st.Polarizability != 0 {
			g += st.Polarizability * (a2 - 2*s) / (sa * sa * sa * sa)
		}
		for k := 0; k < 3; k++ {
			grad[3*is+k] += g * d[k]
		}
		if scratch == nil {
			continue
		}
		f := st.Polarizability * math.Pow(sa, -1.5)
		for k := 0; k < 3; k++ {
			scratch.Mu[3*is+k] = f * d[k]
			scratch.Dipole[3*is+k] += rho * f * d[k]
		}
	}
	if scratch == nil {
		return
	}
	// <mu mu> needs the dipoles of all sites at this point
	mu := scratch.Mu
	for i := 0; i < n3; i++ {
		if mu[i] == 0 {
			continue
		}
		row := scratch.DipoleDipole[i*n3 : (i+1)*n3]
		for j := 0; j < n3; j++ {
			row[j] += rho * mu[i] * mu[j]
		}
	}
}

func (sc *SoftCoulombSites) FinalGradient(grad []float64, scratch *GradientScratch, ext *ExternalBuffers) {
	if ext == nil || scratch == nil {
		return
	}
	for i, v := range scratch.Dipole {
		ext.Dipole[i] += v
	}
	for i, v := range scratch.DipoleDipole {
		ext.DipoleDipole[i] += v
	}
}

// PairGradient is the gradient of sum_{s<t} Q_s Q_t / |R_s - R_t|
func (sc *SoftCoulombSites) PairGradient() (grad []float64) {
	grad = make([]float64, 3*sc.NSites())
	for is := range sc.Sites {
		for it := is + 1; it < len(sc.Sites); it++ {
			var (
				r  [3]float64
				r2 float64
			)
			for k := 0; k < 3; k++ {
				r[k] = sc.Sites[is].Position[k] - sc.Sites[it].Position[k]
				r2 += r[k] * r[k]
			}
			if r2 == 0 {
				continue
			}
			f := -sc.Sites[is].Charge * sc.Sites[it].Charge * math.Pow(r2, -1.5)
			for k := 0; k < 3; k++ {
				grad[3*is+k] += f * r[k]
				grad[3*it+k] -= f * r[k]
			}
		}
	}
	return
}

func (sc *SoftCoulombSites) SubtractPairGradient(polGrad, grad []float64) {
	for i, g := range sc.PairGradient() {
		grad[i] -= g
	}
	for i := range polGrad {
		grad[i] += polGrad[i]
	}
}
