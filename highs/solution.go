package highs

// Solution contains the results from solving a model.
type Solution struct {
	// Status indicates the outcome of the solve.
	Status ModelStatus

	// ColValues contains the primal value of each column (variable).
	ColValues []float64

	// RowValues contains the activity of each row (constraint).
	RowValues []float64

	// Objective is the value of the objective function at the solution.
	Objective float64

	// MIPGap is the relative gap reported for MIPs. Zero for LPs.
	MIPGap float64
}

// IsOptimal returns true if the solution is optimal.
func (s *Solution) IsOptimal() bool {
	return s.Status == ModelStatusOptimal
}

// IsInfeasible returns true if the model is infeasible.
func (s *Solution) IsInfeasible() bool {
	return s.Status == ModelStatusInfeasible ||
		s.Status == ModelStatusUnboundedOrInfeasible
}

// HasSolution returns true if the solution contains valid values.
func (s *Solution) HasSolution() bool {
	return s.Status.HasSolution()
}

// Value returns the solution value for a variable by index.
// Returns 0 if the index is out of range.
func (s *Solution) Value(index int) float64 {
	if index < 0 || index >= len(s.ColValues) {
		return 0
	}
	return s.ColValues[index]
}
