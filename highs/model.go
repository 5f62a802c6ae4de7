package highs

import "math"

// Model is a row-wise linear or mixed-integer program:
//
//	Minimize (or Maximize): ColCosts · x + Offset
//	Subject to:             RowLower ≤ A·x ≤ RowUpper
//	And:                    ColLower ≤ x ≤ ColUpper
//
// Where A is given by ConstMatrix.
type Model struct {
	// Maximize indicates whether to maximize (true) or minimize (false).
	Maximize bool

	// Offset is a constant added to the objective function.
	Offset float64

	// ColCosts are the objective function coefficients for each variable.
	ColCosts []float64

	// ColLower are the lower bounds for each variable. Empty means -∞.
	ColLower []float64

	// ColUpper are the upper bounds for each variable. Empty means +∞.
	ColUpper []float64

	// RowLower are the lower bounds for each constraint.
	// Use NegInf() for no lower bound.
	RowLower []float64

	// RowUpper are the upper bounds for each constraint.
	// Use Inf() for no upper bound.
	RowUpper []float64

	// ConstMatrix lists the non-zero entries of the constraint matrix.
	ConstMatrix []Nonzero

	// VarTypes specifies the type of each variable.
	// If empty, all variables are continuous.
	VarTypes []VariableType
}

// AddBinary appends a 0/1 variable with the given objective coefficient and
// returns its column index.
func (m *Model) AddBinary(cost float64) int {
	col := len(m.ColCosts)
	m.ColCosts = append(m.ColCosts, cost)
	m.ColLower = append(m.ColLower, 0)
	m.ColUpper = append(m.ColUpper, 1)
	m.VarTypes = append(m.VarTypes, Integer)
	return col
}

// AddSparseRow adds a constraint using sparse coefficient representation.
// Zero coefficients are skipped.
//
//	model.AddSparseRow(1.0, []int{0, 1, 3}, []float64{1.0, 2.0, 3.0}, 10.0)
//	// Adds constraint: 1.0 <= x0 + 2*x1 + 3*x3 <= 10.0
func (m *Model) AddSparseRow(lower float64, cols []int, vals []float64, upper float64) {
	row := len(m.RowLower)
	m.RowLower = append(m.RowLower, lower)
	m.RowUpper = append(m.RowUpper, upper)

	for i, col := range cols {
		if vals[i] != 0.0 {
			m.ConstMatrix = append(m.ConstMatrix, Nonzero{
				Row: row,
				Col: col,
				Val: vals[i],
			})
		}
	}
}

// AddDenseRow adds a constraint from a dense coefficient vector.
func (m *Model) AddDenseRow(lower float64, coeffs []float64, upper float64) {
	cols := make([]int, len(coeffs))
	for i := range coeffs {
		cols[i] = i
	}
	m.AddSparseRow(lower, cols, coeffs, upper)
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int {
	_, maxCol := maxRowCol(m.ConstMatrix)
	n := maxCol + 1
	for _, l := range []int{len(m.ColCosts), len(m.ColLower), len(m.ColUpper), len(m.VarTypes)} {
		if l > n {
			n = l
		}
	}
	return n
}

// NumConstraints returns the number of constraints in the model.
func (m *Model) NumConstraints() int {
	maxRow, _ := maxRowCol(m.ConstMatrix)
	n := maxRow + 1
	if len(m.RowLower) > n {
		n = len(m.RowLower)
	}
	if len(m.RowUpper) > n {
		n = len(m.RowUpper)
	}
	return n
}

// Solve builds and solves the model, returning the solution.
//
//	solution, err := model.Solve(
//		highs.WithTimeLimit(60),
//		highs.WithMIPRelGap(0),
//		highs.WithOutput(false),
//	)
func (m *Model) Solve(opts ...SolveOption) (*Solution, error) {
	solver, err := NewSolver()
	if err != nil {
		return nil, err
	}
	defer solver.Close()

	cfg := defaultSolveConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.apply(solver); err != nil {
		return nil, err
	}

	numCol := m.NumVars()
	numRow := m.NumConstraints()

	if numCol == 0 {
		return &Solution{Status: ModelStatusOptimal}, nil
	}

	colCosts, err := expandSlice(numCol, m.ColCosts, 0.0)
	if err != nil {
		return nil, newErrorMsg("Solve", "inconsistent ColCosts length")
	}
	colLower, err := expandSlice(numCol, m.ColLower, math.Inf(-1))
	if err != nil {
		return nil, newErrorMsg("Solve", "inconsistent ColLower length")
	}
	colUpper, err := expandSlice(numCol, m.ColUpper, math.Inf(1))
	if err != nil {
		return nil, newErrorMsg("Solve", "inconsistent ColUpper length")
	}
	rowLower, err := expandSlice(numRow, m.RowLower, math.Inf(-1))
	if err != nil {
		return nil, newErrorMsg("Solve", "inconsistent RowLower length")
	}
	rowUpper, err := expandSlice(numRow, m.RowUpper, math.Inf(1))
	if err != nil {
		return nil, newErrorMsg("Solve", "inconsistent RowUpper length")
	}

	aStart, aIndex, aValue, err := nonzerosToCSR(m.ConstMatrix, numRow)
	if err != nil {
		return nil, err
	}

	varTypes := m.VarTypes
	if len(varTypes) > 0 && len(varTypes) != numCol {
		expanded := make([]VariableType, numCol)
		copy(expanded, varTypes)
		varTypes = expanded
	}

	err = solver.PassModel(
		numCol, numRow,
		colCosts, colLower, colUpper,
		rowLower, rowUpper,
		aStart, aIndex, aValue,
		varTypes,
		m.Maximize,
		m.Offset,
	)
	if err != nil {
		return nil, err
	}

	return solver.Run()
}

// SolveOption configures the solver behavior.
type SolveOption func(*solveConfig)

type solveConfig struct {
	output    *bool
	timeLimit *float64
	mipRelGap *float64
	threads   *int
	presolve  *string
}

func defaultSolveConfig() *solveConfig {
	return &solveConfig{}
}

func (c *solveConfig) apply(s *Solver) error {
	if c.output != nil {
		if err := s.SetBoolOption("output_flag", *c.output); err != nil {
			return err
		}
	}
	if c.timeLimit != nil {
		if err := s.SetFloatOption("time_limit", *c.timeLimit); err != nil {
			return err
		}
	}
	if c.mipRelGap != nil {
		if err := s.SetFloatOption("mip_rel_gap", *c.mipRelGap); err != nil {
			return err
		}
	}
	if c.threads != nil {
		if err := s.SetIntOption("threads", *c.threads); err != nil {
			return err
		}
	}
	if c.presolve != nil {
		if err := s.SetStringOption("presolve", *c.presolve); err != nil {
			return err
		}
	}
	return nil
}

// WithOutput enables or disables solver output.
func WithOutput(enabled bool) SolveOption {
	return func(c *solveConfig) {
		c.output = &enabled
	}
}

// WithTimeLimit sets the time limit in seconds.
func WithTimeLimit(seconds float64) SolveOption {
	return func(c *solveConfig) {
		c.timeLimit = &seconds
	}
}

// WithMIPRelGap sets the relative MIP gap tolerance.
func WithMIPRelGap(gap float64) SolveOption {
	return func(c *solveConfig) {
		c.mipRelGap = &gap
	}
}

// WithThreads sets the number of threads to use.
func WithThreads(n int) SolveOption {
	return func(c *solveConfig) {
		c.threads = &n
	}
}

// WithPresolve sets the presolve mode ("off", "choose", "on").
func WithPresolve(mode string) SolveOption {
	return func(c *solveConfig) {
		c.presolve = &mode
	}
}
