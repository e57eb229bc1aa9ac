package DVR3D

import (
	"github.com/notargets/godvr/utils"
)

// WavefunctionSet keeps one state per row. The leading NConverged rows are
// eigenvectors from the last diagonalization.
type WavefunctionSet struct {
	NGP        int
	NConverged int
	Psi        utils.Matrix
}

func NewWavefunctionSet(ngp int) *WavefunctionSet {
	return &WavefunctionSet{NGP: ngp}
}

func (ws *WavefunctionSet) NWavefn() int {
	if ws.Psi.IsEmpty() {
		return 0
	}
	nr, _ := ws.Psi.Dims()
	return nr
}

// Ensure makes room for nStates rows. Growing keeps the old rows, which may
// still serve as start vectors, but they no longer count as converged.
func (ws *WavefunctionSet) Ensure(nStates int) (reallocated bool) {
	nw := ws.NWavefn()
	if nw >= nStates {
		return
	}
	if nw == 0 {
		ws.Psi = utils.NewMatrix(nStates, ws.NGP)
	} else {
		ws.Psi = ws.Psi.Grow(nStates)
	}
	ws.NConverged = 0
	return true
}

// State returns row i, writes go to the set
func (ws *WavefunctionSet) State(i int) []float64 {
	return ws.Psi.RowView(i)
}
