package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func writeFile(dir, name string, f func(w io.Writer)) (err error) {
	var (
		fp *os.File
	)
	if fp, err = os.Create(filepath.Join(dir, name)); err != nil {
		return
	}
	bw := bufio.NewWriter(fp)
	f(bw)
	if err = bw.Flush(); err != nil {
		fp.Close()
		return
	}
	return fp.Close()
}

// WaveFnName is the file name of a cut through state iwf (counted from 1)
func WaveFnName(iwf int, ext string) string {
	return fmt.Sprintf("WaveFn%02d.%s", iwf, ext)
}

/*
WriteOneDCuts writes cuts along x through the middle of the y and z axes:
POTENTIAL.X with "x V" lines and WaveFnNN.X with "x y z psi" lines for
every wavefunction cube.
*/
func WriteOneDCuts(dir string, pot Cube, wavefns []Cube) (err error) {
	if err = pot.Check(); err != nil {
		return
	}
	var (
		iy, iz = len(pot.Y) / 2, len(pot.Z) / 2
	)
	err = writeFile(dir, "POTENTIAL.X", func(w io.Writer) {
		for ix, x := range pot.X {
			fmt.Fprintf(w, "%10.7f %15.7e\n", x, pot.At(ix, iy, iz))
		}
		fmt.Fprintf(w, "\n")
	})
	if err != nil {
		return
	}
	for i, wf := range wavefns {
		if err = wf.Check(); err != nil {
			return
		}
		err = writeFile(dir, WaveFnName(i+1, "X"), func(w io.Writer) {
			for ix, x := range wf.X {
				fmt.Fprintf(w, "%10.7f %10.7f %10.7f  %15.7e\n", x, wf.Y[iy], wf.Z[iz], wf.At(ix, iy, iz))
			}
			fmt.Fprintf(w, "\n")
		})
		if err != nil {
			return
		}
	}
	return
}

type plane struct {
	ext string
	// a runs in the inner loop, b in the outer one
	a, b func(c Cube) []float64
	at   func(c Cube, ia, ib int) float64
	// print the outer coordinate first
	outerFirst bool
}

var planes = []plane{
	{"XY", func(c Cube) []float64 { return c.X }, func(c Cube) []float64 { return c.Y },
		func(c Cube, ix, iy int) float64 { return c.At(ix, iy, len(c.Z)/2) }, false},
	{"XZ", func(c Cube) []float64 { return c.X }, func(c Cube) []float64 { return c.Z },
		func(c Cube, ix, iz int) float64 { return c.At(ix, len(c.Y)/2, iz) }, false},
	{"YZ", func(c Cube) []float64 { return c.Z }, func(c Cube) []float64 { return c.Y },
		func(c Cube, iz, iy int) float64 { return c.At(len(c.X)/2, iy, iz) }, true},
}

func (p plane) write(w io.Writer, c Cube) {
	var (
		A, B = p.a(c), p.b(c)
	)
	for ib, b := range B {
		for ia, a := range A {
			if p.outerFirst {
				fmt.Fprintf(w, "%10.7f %10.7f %15.7e\n", b, a, p.at(c, ia, ib))
			} else {
				fmt.Fprintf(w, "%10.7f %10.7f %15.7e\n", a, b, p.at(c, ia, ib))
			}
		}
		fmt.Fprintf(w, "\n")
	}
}

// WriteCuts writes the XY, XZ and YZ planes through the middle of the
// third axis for the potential and every wavefunction, in gnuplot's
// blank line separated grid format
func WriteCuts(dir string, pot Cube, wavefns []Cube) (err error) {
	if err = pot.Check(); err != nil {
		return
	}
	for _, p := range planes {
		if err = writeFile(dir, "POTENTIAL."+p.ext, func(w io.Writer) { p.write(w, pot) }); err != nil {
			return
		}
	}
	for i, wf := range wavefns {
		if err = wf.Check(); err != nil {
			return
		}
		for _, p := range planes {
			if err = writeFile(dir, WaveFnName(i+1, p.ext), func(w io.Writer) { p.write(w, wf) }); err != nil {
				return
			}
		}
	}
	return
}
