package DVR1D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/godvr/types"
	"github.com/notargets/godvr/utils"
)

/*
SineDVR is the particle-in-a-box DVR on the open interval (a,b), hbar = 1.
With N = n+1 the points are x_i = a + i(b-a)/N, i = 1..n, and

	T_ii = c [ (2N^2+1)/3 - 1/sin^2(pi i/N) ]
	T_ij = c (-1)^(i-j) [ 1/sin^2(pi(i-j)/2N) - 1/sin^2(pi(i+j)/2N) ]

with c = pi^2 / (4 m (b-a)^2).
*/
func SineDVR(n int, mass, a, b float64) (ax *Axis) {
	var (
		L    = b - a
		NN   = float64(n + 1)
		c    = math.Pi * math.Pi / (4 * mass * L * L)
		isin = func(arg float64) float64 {
			s := math.Sin(arg)
			return 1 / (s * s)
		}
	)
	ax = &Axis{
		Kind:        types.BasisSine,
		N:           n,
		Mass:        mass,
		X:           make([]float64, n),
		KE:          NewPackedSym(n),
		Step:        L / NN,
		Equidistant: true,
	}
	for i := 1; i <= n; i++ {
		ax.X[i-1] = a + float64(i)*L/NN
		ax.KE.Set(i-1, i-1, c*((2*NN*NN+1)/3-isin(math.Pi*float64(i)/NN)))
		for j := 1; j < i; j++ {
			ax.KE.Set(i-1, j-1, c*utils.Sign(i-j)*
				(isin(math.Pi*float64(i-j)/(2*NN))-isin(math.Pi*float64(i+j)/(2*NN))))
		}
	}
	return
}

/*
ColbertMillerDVR uses the infinite interval formula of Colbert and Miller on
n points spanning [a,b] with spacing dx = (b-a)/(n-1):

	T_ii = pi^2 / (6 m dx^2)
	T_ij = (-1)^(i-j) / (m dx^2 (i-j)^2)
*/
func ColbertMillerDVR(n int, mass, a, b float64) (ax *Axis) {
	var (
		dx  = (b - a) / float64(n-1)
		mdx = mass * dx * dx
	)
	ax = &Axis{
		Kind:        types.BasisColbertMiller,
		N:           n,
		Mass:        mass,
		X:           make([]float64, n),
		KE:          NewPackedSym(n),
		Step:        dx,
		Equidistant: true,
	}
	for i := 0; i < n; i++ {
		ax.X[i] = a + float64(i)*dx
		ax.KE.Set(i, i, math.Pi*math.Pi/(6*mdx))
		for j := 0; j < i; j++ {
			d := float64(i - j)
			ax.KE.Set(i, j, utils.Sign(i-j)/(mdx*d*d))
		}
	}
	return
}

/*
HarmonicOscillatorDVR diagonalizes the coordinate in the first n harmonic
oscillator functions of frequency omega. The eigenvalues are the grid points
and the eigenvectors the transformation U, the kinetic energy is U^T T U with

	T_kk   = omega/2 (k + 1/2)
	T_kk+2 = -omega/4 sqrt((k+1)(k+2))
*/
func HarmonicOscillatorDVR(n int, omega, mass float64) (ax *Axis, err error) {
	var (
		xFBR = mat.NewSymDense(n, nil)
		tFBR = mat.NewDense(n, n, nil)
		eig  mat.EigenSym
		U    = mat.NewDense(n, n, nil)
		tmp  = mat.NewDense(n, n, nil)
		tDVR = mat.NewDense(n, n, nil)
	)
	for k := 0; k < n; k++ {
		if k+1 < n {
			xFBR.SetSym(k, k+1, math.Sqrt(float64(k+1)/(2*mass*omega)))
		}
		tFBR.Set(k, k, 0.5*omega*(float64(k)+0.5))
		if k+2 < n {
			v := -0.25 * omega * math.Sqrt(float64((k+1)*(k+2)))
			tFBR.Set(k, k+2, v)
			tFBR.Set(k+2, k, v)
		}
	}
	if ok := eig.Factorize(xFBR, true); !ok {
		err = fmt.Errorf("eigenvalue decomposition of the coordinate matrix failed, n = %d", n)
		return
	}
	ax = &Axis{
		Kind: types.BasisHarmonicOscillator,
		N:    n,
		Para: omega,
		Mass: mass,
		X:    eig.Values(nil),
	}
	eig.VectorsTo(U)
	tmp.Mul(U.T(), tFBR)
	tDVR.Mul(tmp, U)
	if ax.KE, err = NewPackedSymFromDense(tDVR); err != nil {
		return
	}
	ax.Transform = U
	return
}

/*
FourierGrid is the periodic plane wave grid on [a,b) with x_j = a + j(b-a)/n.
The kinetic energy is diagonal in k-space, KEDiag[j] = k_j^2/2m, in the
order produced by a forward FFT (k_j = 2 pi m_j / L, m_j = j for j <= n/2,
j - n otherwise).
*/
func FourierGrid(n int, mass, a, b float64) (ax *Axis) {
	var (
		L = b - a
	)
	ax = &Axis{
		Kind:        types.BasisFourier,
		N:           n,
		Mass:        mass,
		X:           make([]float64, n),
		KEDiag:      make([]float64, n),
		Step:        L / float64(n),
		Equidistant: true,
	}
	for j := 0; j < n; j++ {
		ax.X[j] = a + float64(j)*ax.Step
		k := 2 * math.Pi * float64(FFTFrequency(j, n)) / L
		ax.KEDiag[j] = k * k / (2 * mass)
	}
	return
}

// FFTFrequency returns the signed frequency index of FFT output slot j
func FFTFrequency(j, n int) int {
	if j <= n/2 {
		return j
	}
	return j - n
}

// FourierPositionKE transforms a k-space diagonal back to position space,
// T_ab = 1/n sum_m T_m cos(2 pi m (a-b)/n)
func FourierPositionKE(keDiag []float64) (P *PackedSym) {
	var (
		n = len(keDiag)
	)
	P = NewPackedSym(n)
	// the matrix is circulant, so compute one row
	row := make([]float64, n)
	for d := 0; d < n; d++ {
		var sum float64
		for m, t := range keDiag {
			sum += t * math.Cos(2*math.Pi*float64(m*d)/float64(n))
		}
		row[d] = sum / float64(n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			P.Set(i, j, row[i-j])
		}
	}
	return
}
