package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/godvr/potential"
	"github.com/notargets/godvr/types"
)

// Parameters obtained from the YAML input deck
type InputParametersDVR struct {
	Title             string          `json:"Title"`
	Points            []int           `json:"Points"`    // grid points per axis
	Basis             string          `json:"Basis"`     // sine, ho, fourier, colbert-miller
	BasisPara         []float64       `json:"BasisPara"` // box length or oscillator frequency per axis
	Mass              float64         `json:"Mass"`
	Sampling          int             `json:"Sampling"` // 1 point, 2 8-point, 3 27-point, 4 6-point, >=5 smoothing order
	NStates           int             `json:"NStates"`
	Method            string          `json:"Method"`
	MaxSubspace       int             `json:"MaxSubspace"`
	MaxIterations     int             `json:"MaxIterations"`
	ToleranceExponent int             `json:"ToleranceExponent"`
	StartVector       string          `json:"StartVector"` // reuse, box, random
	Seed              uint64          `json:"Seed"`
	Potential         potential.Model `json:"Potential"`
	Output            OutputOptions   `json:"Output"`
}

type OutputOptions struct {
	Directory  string `json:"Directory"`
	CubeStates int    `json:"CubeStates"` // number of states written as cube files
	GOpenMol   bool   `json:"GOpenMol"`
	Cuts       bool   `json:"Cuts"`
}

func (ip *InputParametersDVR) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.SetDefaults()
	return
}

// SetDefaults fills in everything a deck may leave out
func (ip *InputParametersDVR) SetDefaults() {
	if ip.Basis == "" {
		ip.Basis = "sine"
	}
	if ip.Mass == 0 {
		ip.Mass = 1
	}
	if ip.Sampling == 0 {
		ip.Sampling = 1
	}
	if ip.NStates == 0 {
		ip.NStates = 1
	}
	if ip.Method == "" {
		ip.Method = "davidson"
	}
	if ip.MaxSubspace == 0 {
		ip.MaxSubspace = DefaultMaxSubspace(ip.NStates)
	}
	if ip.MaxIterations == 0 {
		ip.MaxIterations = 100
	}
	if ip.ToleranceExponent == 0 {
		ip.ToleranceExponent = 6
	}
	if ip.StartVector == "" {
		ip.StartVector = "box"
	}
	if ip.Output.Directory == "" {
		ip.Output.Directory = "."
	}
}

// DefaultMaxSubspace is the subspace size used when the deck has none
func DefaultMaxSubspace(nStates int) int {
	return max(4*nStates, nStates+30)
}

func (ip *InputParametersDVR) BasisType() (types.BasisType, error) {
	return types.NewBasisTypeFromName(ip.Basis)
}

func (ip *InputParametersDVR) SamplingPolicy() (types.Sampling, error) {
	return types.NewSampling(ip.Sampling)
}

func (ip *InputParametersDVR) SolverMethod() (types.SolverMethod, error) {
	return types.NewSolverMethodFromName(ip.Method)
}

var startNames = map[string]types.StartVector{
	"reuse":  types.StartReuseConverged,
	"box":    types.StartParticleInBox,
	"random": types.StartRandom,
}

func (ip *InputParametersDVR) Start() (sv types.StartVector, err error) {
	var ok bool
	if sv, ok = startNames[strings.ToLower(strings.TrimSpace(ip.StartVector))]; !ok {
		err = fmt.Errorf("%w: %q", types.ErrUnknownStartVector, ip.StartVector)
	}
	return
}

// Validate checks the shape of the deck and every named choice in it
func (ip *InputParametersDVR) Validate() (err error) {
	if len(ip.Points) == 0 {
		return fmt.Errorf("the deck needs Points, one entry per axis")
	}
	if len(ip.BasisPara) != len(ip.Points) {
		return fmt.Errorf("%d axes in Points but %d BasisPara values", len(ip.Points), len(ip.BasisPara))
	}
	if _, err = ip.BasisType(); err != nil {
		return
	}
	if _, err = ip.SamplingPolicy(); err != nil {
		return
	}
	var sm types.SolverMethod
	if sm, err = ip.SolverMethod(); err != nil {
		return
	}
	if err = sm.Validate(); err != nil {
		return
	}
	if _, err = ip.Start(); err != nil {
		return
	}
	_, err = ip.Potential.NewEvaluator()
	return
}

func (ip *InputParametersDVR) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%v\t\t= Grid Points\n", ip.Points)
	fmt.Printf("[%s]\t\t\t= Basis\n", ip.Basis)
	fmt.Printf("%v\t= Basis Parameters\n", ip.BasisPara)
	fmt.Printf("%8.5f\t\t= Mass\n", ip.Mass)
	fmt.Printf("[%d]\t\t\t\t= Sampling\n", ip.Sampling)
	fmt.Printf("[%d]\t\t\t\t= Number of States\n", ip.NStates)
	fmt.Printf("[%s]\t\t\t= Method\n", ip.Method)
	fmt.Printf("[%d]\t\t\t\t= Max Subspace\n", ip.MaxSubspace)
	fmt.Printf("[%d]\t\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Printf("1.e-%d\t\t\t\t= Tolerance\n", ip.ToleranceExponent)
	fmt.Printf("[%s]\t\t\t= Start Vector\n", ip.StartVector)
	fmt.Printf("[%s]\t\t\t= Potential\n", strings.ToLower(ip.Potential.Name))
	for i, st := range ip.Potential.Sites {
		fmt.Printf("Sites[%d] = %+v\n", i, st)
	}
}
