/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/godvr/DVR3D"
	"github.com/notargets/godvr/InputParameters"
	"github.com/notargets/godvr/output"
	"github.com/notargets/godvr/potential"
	"github.com/notargets/godvr/types"
	"github.com/notargets/godvr/utils"
)

// Exit codes of the 3D command
const (
	ExitOK       = 0
	ExitConfig   = 1
	ExitCapacity = 42
)

type Model3D struct {
	InputFile string
	Graph     bool
	Delay     time.Duration
	Procs     int
	Verbose   int
	Perf      bool
	Out       io.Writer // energy table, stdout when nil
}

func (m3d *Model3D) out() io.Writer {
	if m3d.Out == nil {
		return os.Stdout
	}
	return m3d.Out
}

const exampleFile = `
########################################
Title: "Electron in a harmonic well"
Points: [20, 20, 20]
Basis: sine             # sine, ho, fourier, colbert-miller
BasisPara: [12., 12., 12.]
Sampling: 1             # 1 point, 2 8-point, 3 27-point, 4 6-point, >=5 smoothing
NStates: 4
Method: jd              # full, lanczos, davidson, jd, davidson-none
ToleranceExponent: 6
StartVector: box        # reuse, box, random
Potential:
  Name: harmonic
  Omega: [0.5, 0.6, 0.7]
Output:
  Directory: .
  CubeStates: 1
  Cuts: true
########################################
`

// ThreeDCmd represents the 3D command
var ThreeDCmd = &cobra.Command{
	Use:   "3D",
	Short: "Eigenstates of an electron on a 3D DVR grid",
	Long: `
Reads an input deck, samples the potential onto the grid, diagonalizes the
Hamiltonian and reports energies, expectation values and optional cube files.

godvr 3D -I deck.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		m3d := &Model3D{
			Procs:   viper.GetInt("procs"),
			Verbose: viper.GetInt("verbose"),
			Perf:    viper.GetBool("perf"),
		}
		m3d.InputFile, _ = cmd.Flags().GetString("inputConditionsFile")
		m3d.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		m3d.Delay = time.Duration(dr) * time.Millisecond
		ip, err := processInput(m3d)
		if err == nil {
			err = applyOverrides(cmd, ip)
		}
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			stopProfile()
			os.Exit(ExitConfig)
		}
		if err = Run3D(m3d, ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			stopProfile()
			os.Exit(ExitCode(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(ThreeDCmd)
	f := ThreeDCmd.Flags()
	f.StringP("inputConditionsFile", "I", "", "YAML input deck with the grid, the solver and the potential")
	f.BoolP("graph", "g", false, "display cuts through the potential and the states")
	f.IntP("delay", "d", 0, "milliseconds of delay between plotted series")
	f.IntSlice("points", nil, "grid points per axis, overrides the deck")
	f.Int("states", 0, "number of states, overrides the deck")
	f.String("method", "", "diagonalization method, overrides the deck")
	f.Int("sampling", 0, "potential sampling code, overrides the deck")
	f.String("start", "", "start vectors (reuse, box, random), overrides the deck")
	f.Int("cubes", -1, "number of states written as cube files, overrides the deck")
	f.String("outDir", "", "output directory, overrides the deck")
}

// ExitCode maps a run error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, DVR3D.ErrFullDiagCapacity):
		return ExitCapacity
	}
	return ExitConfig
}

func processInput(m3d *Model3D) (ip *InputParameters.InputParametersDVR, err error) {
	if len(m3d.InputFile) == 0 {
		fmt.Printf("Example File:%s\n", exampleFile)
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		return
	}
	var data []byte
	if data, err = os.ReadFile(m3d.InputFile); err != nil {
		return
	}
	ip = &InputParameters.InputParametersDVR{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("%s: %w", m3d.InputFile, err)
	}
	return
}

func applyOverrides(cmd *cobra.Command, ip *InputParameters.InputParametersDVR) (err error) {
	f := cmd.Flags()
	if f.Changed("points") {
		if ip.Points, err = f.GetIntSlice("points"); err != nil {
			return
		}
	}
	if f.Changed("states") {
		if ip.NStates, err = f.GetInt("states"); err != nil {
			return
		}
		ip.MaxSubspace = max(ip.MaxSubspace, InputParameters.DefaultMaxSubspace(ip.NStates))
	}
	for name, dst := range map[string]*string{
		"method": &ip.Method,
		"start":  &ip.StartVector,
		"outDir": &ip.Output.Directory,
	} {
		if f.Changed(name) {
			if *dst, err = f.GetString(name); err != nil {
				return
			}
		}
	}
	for name, dst := range map[string]*int{
		"sampling": &ip.Sampling,
		"cubes":    &ip.Output.CubeStates,
	} {
		if f.Changed(name) {
			if *dst, err = f.GetInt(name); err != nil {
				return
			}
		}
	}
	return
}

/*
Run3D executes one calculation:

	grid setup -> potential -> diagonalization -> report -> output

A convergence shortfall is reported but is not an error.
*/
func Run3D(m3d *Model3D, ip *InputParameters.InputParametersDVR) (err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	if m3d.Verbose > 0 {
		ip.Print()
	}
	run := func() error { return run3D(m3d, ip) }
	if !m3d.Perf {
		return run()
	}
	var (
		runErr error
		n      uint64
		perr   error
	)
	n, perr = utils.CountInstructions(func() error {
		runErr = run()
		return runErr
	})
	switch {
	case runErr != nil:
		return runErr
	case perr != nil:
		fmt.Printf("instruction count unavailable: %s\n", perr.Error())
	default:
		fmt.Printf("%d CPU instructions\n", n)
	}
	return
}

func run3D(m3d *Model3D, ip *InputParameters.InputParametersDVR) (err error) {
	var (
		log   = utils.NewComponentLogger(m3d.Verbose, "godvr")
		start = time.Now()
	)
	var (
		kind     types.BasisType
		sampling types.Sampling
		method   types.SolverMethod
		sv       types.StartVector
		V        potential.Evaluator
		dvr      *DVR3D.DVR
	)
	if kind, err = ip.BasisType(); err != nil {
		return
	}
	if sampling, err = ip.SamplingPolicy(); err != nil {
		return
	}
	if method, err = ip.SolverMethod(); err != nil {
		return
	}
	if sv, err = ip.Start(); err != nil {
		return
	}
	if V, err = ip.Potential.NewEvaluator(); err != nil {
		return
	}
	dvr, err = DVR3D.NewDVR(kind, ip.Points, ip.BasisPara, ip.Mass, sampling, DVR3D.Options{
		Procs:   m3d.Procs,
		Verbose: m3d.Verbose,
		Seed:    ip.Seed,
		Log:     log.WithField("component", "dvr"),
	})
	if err != nil {
		return
	}
	if err = dvr.ComputePotential(V); err != nil {
		return
	}
	err = dvr.DiagonalizeSetup(DVR3D.SolverRequest{
		NStates:           ip.NStates,
		Method:            method,
		MaxSubspace:       ip.MaxSubspace,
		MaxIterations:     ip.MaxIterations,
		ToleranceExponent: ip.ToleranceExponent,
	})
	if err != nil {
		return
	}
	var (
		nconv int
		ev    []float64
	)
	if nconv, ev, err = dvr.Diagonalize(sv); err != nil {
		return
	}
	printEnergies(m3d.out(), ev, nconv)
	log.Infof("diagonalization finished after %v", time.Since(start))
	log.Debug(utils.GetMemUsage())
	if nconv == 0 || dvr.Grid.NDim != 3 {
		return
	}
	if _, _, err = dvr.ExpectationValues(); err != nil {
		return
	}
	if _, err = dvr.EnergyPartitioning(V); err != nil {
		return
	}
	if gv, ok := V.(potential.GradientEvaluator); ok {
		if err = reportGradient(log, dvr, gv); err != nil {
			return
		}
	}
	var (
		pot     output.Cube
		wavefns = make([]output.Cube, nconv)
	)
	if pot, err = dvr.PotentialCube(); err != nil {
		return
	}
	for i := range wavefns {
		if wavefns[i], err = dvr.WaveFnCube(i); err != nil {
			return
		}
	}
	if err = writeOutput(ip, pot, wavefns); err != nil {
		return
	}
	if m3d.Graph {
		err = plotCuts(pot, wavefns, m3d.Delay)
	}
	return
}

func printEnergies(w io.Writer, ev []float64, nconv int) {
	fmt.Fprintf(w, "%d states converged\n", nconv)
	fmt.Fprintf(w, "State        E [hartree]         E [meV]\n")
	for i, e := range ev {
		mark := ""
		if i >= nconv {
			mark = "  (not converged)"
		}
		fmt.Fprintf(w, " %3d   %16.10f  %14.6f%s\n", i, e, e*utils.AU2MEV, mark)
	}
}

func reportGradient(log *logrus.Entry, dvr *DVR3D.DVR, V potential.GradientEvaluator) (err error) {
	var grad []float64
	if grad, err = dvr.ComputeGradient(V, 0, nil); err != nil {
		return
	}
	log.Info("Ground state gradient on the sites (hartree/bohr)")
	for is := 0; is < V.NSites(); is++ {
		log.Infof(" %3d   %12.8f  %12.8f  %12.8f", is, grad[3*is], grad[3*is+1], grad[3*is+2])
	}
	return
}

func createAndWrite(name string, f func(w io.Writer) error) (err error) {
	var fp *os.File
	if fp, err = os.Create(name); err != nil {
		return
	}
	if err = f(fp); err != nil {
		fp.Close()
		return
	}
	return fp.Close()
}

func writeOutput(ip *InputParameters.InputParametersDVR, pot output.Cube, wavefns []output.Cube) (err error) {
	var (
		out    = ip.Output
		dir    = out.Directory
		nCubes = min(out.CubeStates, len(wavefns))
		atoms  []output.Atom
	)
	if nCubes <= 0 && !out.Cuts {
		return
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	for _, st := range ip.Potential.Sites {
		if st.Z > 0 {
			atoms = append(atoms, output.Atom{Z: st.Z, Position: st.Position})
		}
	}
	for i := 0; i < nCubes; i++ {
		wf := wavefns[i]
		err = createAndWrite(filepath.Join(dir, output.WaveFnName(i+1, "cube")), func(w io.Writer) error {
			return output.WriteCube(w, wf, atoms, i+1)
		})
		if err != nil {
			return
		}
		if !out.GOpenMol {
			continue
		}
		err = createAndWrite(filepath.Join(dir, output.WaveFnName(i+1, "plt")), func(w io.Writer) error {
			return output.WriteGOpenMol(w, wf)
		})
		if err != nil {
			return
		}
	}
	if out.Cuts {
		if err = output.WriteOneDCuts(dir, pot, wavefns); err != nil {
			return
		}
		err = output.WriteCuts(dir, pot, wavefns)
	}
	return
}

// xCut is the line along x through the middle of y and z
func xCut(c output.Cube) (f []float64) {
	var (
		iy, iz = len(c.Y) / 2, len(c.Z) / 2
	)
	f = make([]float64, len(c.X))
	for ix := range f {
		f[ix] = c.At(ix, iy, iz)
	}
	return
}

func plotCuts(pot output.Cube, wavefns []output.Cube, delay time.Duration) (err error) {
	var (
		x      = pot.X
		series = [][]float64{xCut(pot)}
	)
	for _, wf := range wavefns {
		series = append(series, xCut(wf))
	}
	fmin, fmax := utils.SeriesRange(1.1, series...)
	lc := utils.NewLineChart(1280, 1024, x[0], x[len(x)-1], fmin, fmax)
	if err = lc.Plot(delay, x, series[0], -1, "POTENTIAL"); err != nil {
		return
	}
	for i, f := range series[1:] {
		color := -1 + 2*float64(i+1)/float64(len(wavefns))
		if err = lc.Plot(delay, x, f, color, output.WaveFnName(i+1, "X")); err != nil {
			return
		}
	}
	return
}
