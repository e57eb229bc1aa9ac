package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/notargets/godvr/utils"
)

var ErrCubeShape = errors.New("cube data does not match its axes")

// Cube is a 3D field on a tensor grid, stored x-major: the z index runs
// fastest
type Cube struct {
	X, Y, Z []float64
	Data    []float64
}

func NewCube(x, y, z []float64) (c Cube) {
	return Cube{X: x, Y: y, Z: z, Data: make([]float64, len(x)*len(y)*len(z))}
}

func (c Cube) Index(ix, iy, iz int) int {
	return (ix*len(c.Y)+iy)*len(c.Z) + iz
}

func (c Cube) At(ix, iy, iz int) float64 {
	return c.Data[c.Index(ix, iy, iz)]
}

func (c Cube) Check() error {
	if len(c.X)*len(c.Y)*len(c.Z) != len(c.Data) || len(c.X) < 2 || len(c.Y) < 2 || len(c.Z) < 2 {
		return fmt.Errorf("%w: %d x %d x %d axes, %d values",
			ErrCubeShape, len(c.X), len(c.Y), len(c.Z), len(c.Data))
	}
	return nil
}

// Atom is a nucleus listed in a Gaussian cube header, positions in bohr
type Atom struct {
	Z        int
	Position [3]float64
}

// VanDerWaalsRadius in Angstrom for the elements cube integrators care about
func VanDerWaalsRadius(Z int) float64 {
	switch Z {
	case 1:
		return 1.20
	case 6:
		return 1.70
	case 7:
		return 1.55
	case 8:
		return 1.52
	}
	return 0
}

const valuesPerLine = 6

/*
WriteCube writes a Gaussian style cube file for orbital iwf. The atom count
is written negative, which marks an orbital cube, and the column after the
nuclear charge carries the van der Waals radius in bohr.
*/
func WriteCube(w io.Writer, c Cube, atoms []Atom, iwf int) (err error) {
	if err = c.Check(); err != nil {
		return
	}
	var (
		bw         = bufio.NewWriter(w)
		nx, ny, nz = len(c.X), len(c.Y), len(c.Z)
	)
	fmt.Fprintf(bw, " 5 0\n")
	fmt.Fprintf(bw, " 0.01 0.001 0.0001 0.00001 0.000001\n")
	fmt.Fprintf(bw, "%5d  %11.6f  %11.6f  %11.6f\n", -len(atoms), c.X[0], c.Y[0], c.Z[0])
	fmt.Fprintf(bw, "%5d  %11.6f  %11.6f  %11.6f\n", nx, c.X[1]-c.X[0], 0., 0.)
	fmt.Fprintf(bw, "%5d  %11.6f  %11.6f  %11.6f\n", ny, 0., c.Y[1]-c.Y[0], 0.)
	fmt.Fprintf(bw, "%5d  %11.6f  %11.6f  %11.6f\n", nz, 0., 0., c.Z[1]-c.Z[0])
	for _, a := range atoms {
		fmt.Fprintf(bw, "   %d %11.6f  %11.6f  %11.6f  %11.6f\n",
			a.Z, VanDerWaalsRadius(a.Z)*utils.Angs2Bohr, a.Position[0], a.Position[1], a.Position[2])
	}
	fmt.Fprintf(bw, "   1  %5d \n", iwf)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			for iz := 0; iz < nz; iz++ {
				fmt.Fprintf(bw, "%13.6e ", c.At(ix, iy, iz))
				if (iz+1)%valuesPerLine == 0 {
					fmt.Fprintf(bw, "\n")
				}
			}
			if nz%valuesPerLine != 0 {
				fmt.Fprintf(bw, "\n")
			}
		}
	}
	return bw.Flush()
}

// WriteGOpenMol writes the plain gOpenMol format, the header extents are in
// Angstrom and x runs fastest in the data
func WriteGOpenMol(w io.Writer, c Cube) (err error) {
	if err = c.Check(); err != nil {
		return
	}
	var (
		bw         = bufio.NewWriter(w)
		nx, ny, nz = len(c.X), len(c.Y), len(c.Z)
		b2a        = utils.Bohr2Angs
	)
	fmt.Fprintf(bw, "3 3\n%d %d %d\n", nz, ny, nx)
	fmt.Fprintf(bw, "%13.6e %13.6e    %13.6e %13.6e    %13.6e %13.6e\n",
		c.Z[0]*b2a, c.Z[nz-1]*b2a, c.Y[0]*b2a, c.Y[ny-1]*b2a, c.X[0]*b2a, c.X[nx-1]*b2a)
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				fmt.Fprintf(bw, "%13.6e\n", c.At(ix, iy, iz))
			}
		}
	}
	return bw.Flush()
}

// Integrate returns dV * sum rho^2, one for a normalized orbital cube
func Integrate(c Cube, dV float64) (sum float64) {
	for _, v := range c.Data {
		sum += v * v
	}
	return sum * dV
}
