package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/godvr/DVR3D"
	"github.com/notargets/godvr/InputParameters"
	"github.com/notargets/godvr/potential"
	"github.com/notargets/godvr/types"
)

func writeDeck(t *testing.T, dir, deck string) string {
	name := filepath.Join(dir, "deck.yaml")
	require.NoError(t, os.WriteFile(name, []byte(deck), 0644))
	return name
}

func TestRun3D(t *testing.T) {
	var (
		dir  = t.TempDir()
		deck = fmt.Sprintf(`
Title: Soft sites
Points: [10, 9, 8]
BasisPara: [9., 8., 7.]
NStates: 2
Method: jd
ToleranceExponent: 7
Potential:
  Name: sites
  Sites:
    - z: 8
      position: [0., 0., 0.]
      charge: 1.0
      width: 1.2
      polarizability: 1.0
Output:
  Directory: %s
  CubeStates: 1
  GOpenMol: true
  Cuts: true
`, filepath.Join(dir, "out"))
		m3d = &Model3D{InputFile: writeDeck(t, dir, deck), Procs: 2}
	)
	ip, err := processInput(m3d)
	require.NoError(t, err)
	require.NoError(t, Run3D(m3d, ip))
	for _, name := range []string{"WaveFn01.cube", "WaveFn01.plt", "POTENTIAL.X", "WaveFn02.X",
		"POTENTIAL.XY", "WaveFn01.YZ"} {
		_, err = os.Stat(filepath.Join(dir, "out", name))
		assert.NoError(t, err, name)
	}
	// one cube only
	_, err = os.Stat(filepath.Join(dir, "out", "WaveFn02.cube"))
	assert.True(t, os.IsNotExist(err))
	b, err := os.ReadFile(filepath.Join(dir, "out", "WaveFn01.cube"))
	require.NoError(t, err)
	lines := strings.Split(string(b), "\n")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "-1 "))
}

func TestExampleDeck(t *testing.T) {
	var (
		dir = t.TempDir()
		out bytes.Buffer
		m3d = &Model3D{InputFile: writeDeck(t, dir, exampleFile), Procs: 4, Out: &out}
	)
	ip, err := processInput(m3d)
	require.NoError(t, err)
	assert.Equal(t, 4, ip.NStates)
	assert.Equal(t, 34, ip.MaxSubspace)
	ip.Output.Directory = dir
	require.NoError(t, Run3D(m3d, ip))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, 2+ip.NStates, len(lines))
	assert.Equal(t, "4 states converged", lines[0])
	assert.NotContains(t, out.String(), "not converged")
	_, err = os.Stat(filepath.Join(dir, "WaveFn01.cube"))
	assert.NoError(t, err)
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitConfig, ExitCode(types.ErrUnknownMethod))
	assert.Equal(t, ExitCapacity, ExitCode(fmt.Errorf("run: %w", DVR3D.ErrFullDiagCapacity)))
	{ // Dense solver on a grid above its limit
		var (
			dir = t.TempDir()
			m3d = &Model3D{InputFile: writeDeck(t, dir,
				"Points: [11, 10, 10]\nBasisPara: [6., 6., 6.]\nMethod: full\n"), Procs: 1}
		)
		ip, err := processInput(m3d)
		require.NoError(t, err)
		err = Run3D(m3d, ip)
		assert.True(t, errors.Is(err, DVR3D.ErrFullDiagCapacity))
		assert.Equal(t, ExitCapacity, ExitCode(err))
	}
	{ // Configuration errors
		m3d := &Model3D{}
		_, err := processInput(m3d)
		assert.Error(t, err)
		ip := &InputParameters.InputParametersDVR{}
		require.NoError(t, ip.Parse([]byte("Points: [4, 4, 4]\nBasisPara: [4., 4., 4.]\nStartVector: zeros\n")))
		err = Run3D(m3d, ip)
		assert.True(t, errors.Is(err, types.ErrUnknownStartVector))
		assert.Equal(t, ExitConfig, ExitCode(err))
		// the pipeline reports bad decks on its own
		ip = &InputParameters.InputParametersDVR{}
		require.NoError(t, ip.Parse([]byte("Points: [4, 4, 4]\nBasisPara: [4., 4., 4.]\nPotential:\n  Name: morse\n")))
		err = run3D(m3d, ip)
		assert.True(t, errors.Is(err, potential.ErrUnknownModel))
		ip.Potential.Name, ip.Basis = "harmonic", "wavelet"
		assert.True(t, errors.Is(run3D(m3d, ip), types.ErrUnknownBasis))
	}
}

func TestOverrides(t *testing.T) {
	ip := &InputParameters.InputParametersDVR{}
	require.NoError(t, ip.Parse([]byte("Points: [4, 4, 4]\nBasisPara: [4., 4., 4.]\n")))
	require.NoError(t, ThreeDCmd.ParseFlags([]string{"--points", "5,6,7", "--states", "12",
		"--method", "lanczos", "--start", "random", "--outDir", "cuts"}))
	require.NoError(t, applyOverrides(ThreeDCmd, ip))
	assert.Equal(t, []int{5, 6, 7}, ip.Points)
	assert.Equal(t, 12, ip.NStates)
	assert.Equal(t, 48, ip.MaxSubspace)
	assert.Equal(t, "lanczos", ip.Method)
	assert.Equal(t, "random", ip.StartVector)
	assert.Equal(t, "cuts", ip.Output.Directory)
	// untouched
	assert.Equal(t, 1, ip.Sampling)
	assert.Equal(t, 0, ip.Output.CubeStates)
}

func TestPrintEnergies(t *testing.T) {
	var buf bytes.Buffer
	printEnergies(&buf, []float64{-0.01, 0.02}, 1)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, 4, len(lines))
	assert.Equal(t, "1 states converged", lines[0])
	assert.Contains(t, lines[2], "-272.113860")
	assert.Contains(t, lines[3], "(not converged)")
	assert.NoError(t, startProfile(""))
	assert.Error(t, startProfile("gpu"))
}
