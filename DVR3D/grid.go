package DVR3D

import (
	"errors"
	"fmt"
)

var ErrInvalidGrid = errors.New("invalid grid definition")

/*
Grid is a tensor product grid with the linear index

	igp = sum_d i_d * Stride[d],  Stride[0] = 1, Stride[d] = Stride[d-1]*N[d-1]

so axis 0 runs fastest.
*/
type Grid struct {
	NDim    int
	N       []int
	Stride  []int
	NGP     int
	MaxAxis int
}

func NewGrid(n []int) (g *Grid, err error) {
	if len(n) == 0 {
		err = fmt.Errorf("%w: no axes", ErrInvalidGrid)
		return
	}
	g = &Grid{
		NDim:   len(n),
		N:      make([]int, len(n)),
		Stride: make([]int, len(n)),
		NGP:    1,
	}
	for d, nd := range n {
		if nd < 1 {
			err = fmt.Errorf("%w: axis %d has %d points", ErrInvalidGrid, d, nd)
			g = nil
			return
		}
		g.N[d] = nd
		g.Stride[d] = g.NGP
		g.NGP *= nd
		g.MaxAxis = max(g.MaxAxis, nd)
	}
	return
}

func (g *Grid) Index(multi []int) (igp int) {
	for d, i := range multi {
		igp += i * g.Stride[d]
	}
	return
}

// MultiIndex inverts Index into multi, which must have NDim entries
func (g *Grid) MultiIndex(igp int, multi []int) {
	for d := 0; d < g.NDim; d++ {
		multi[d] = igp % g.N[d]
		igp /= g.N[d]
	}
}

func (g *Grid) Sub2Ind(i, j, k int) int {
	return i*g.Stride[0] + j*g.Stride[1] + k*g.Stride[2]
}

func (g *Grid) Ind2Sub(igp int) (i, j, k int) {
	i = igp % g.N[0]
	igp /= g.N[0]
	j = igp % g.N[1]
	k = igp / g.N[1]
	return
}

// NLines is the number of grid lines running along axis
func (g *Grid) NLines(axis int) int {
	return g.NGP / g.N[axis]
}

// LineOffset returns the linear index of the first point of line l along
// axis. Lines are numbered by an odometer over the remaining axes in their
// natural order, so the grid itself is never permuted.
func (g *Grid) LineOffset(axis, l int) (offset int) {
	for d := 0; d < g.NDim; d++ {
		if d == axis {
			continue
		}
		offset += (l % g.N[d]) * g.Stride[d]
		l /= g.N[d]
	}
	return
}

func (g *Grid) String() string {
	return fmt.Sprintf("%dD grid %v, %d points, strides %v", g.NDim, g.N, g.NGP, g.Stride)
}
