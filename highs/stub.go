//go:build !(highs && cgo && (linux || darwin))

package highs

// Solver is the placeholder used when HiGHS is not linked in.
// NewSolver always fails with ErrUnavailable.
type Solver struct{}

// NewSolver reports ErrUnavailable.
func NewSolver() (*Solver, error) {
	return nil, ErrUnavailable
}

func (s *Solver) Close() {}

func (s *Solver) SetBoolOption(string, bool) error { return ErrUnavailable }

func (s *Solver) SetIntOption(string, int) error { return ErrUnavailable }

func (s *Solver) SetFloatOption(string, float64) error { return ErrUnavailable }

func (s *Solver) SetStringOption(string, string) error { return ErrUnavailable }

func (s *Solver) PassModel(
	int, int,
	[]float64, []float64, []float64,
	[]float64, []float64,
	[]int, []int,
	[]float64,
	[]VariableType,
	bool,
	float64,
) error {
	return ErrUnavailable
}

func (s *Solver) Run() (*Solution, error) {
	return nil, ErrUnavailable
}
