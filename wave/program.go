package wave

import (
	"context"
	"errors"
	"math"
)

// ErrSolverUnavailable is wrapped by Solver implementations whose engine
// cannot be constructed. Search.Run treats it, like any other Solver error,
// as fatal.
var ErrSolverUnavailable = errors.New("integer-programming solver unavailable")

// Row is a bounded linear constraint Lower <= Σ Vals[i]·x[Cols[i]] <= Upper.
type Row struct {
	Name  string
	Lower float64
	Upper float64
	Cols  []int
	Vals  []float64
}

// Program is a 0/1 linear maximization program.
type Program struct {
	names     []string
	objective []float64
	rows      []Row
}

// AddBinary adds a 0/1 variable and returns its column index.
func (p *Program) AddBinary(name string) int {
	p.names = append(p.names, name)
	p.objective = append(p.objective, 0)
	return len(p.names) - 1
}

// AddRow adds a constraint. Zero coefficients are dropped.
// Use math.Inf for a one-sided row.
func (p *Program) AddRow(name string, lower float64, cols []int, vals []float64, upper float64) {
	row := Row{Name: name, Lower: lower, Upper: upper}
	for i, c := range cols {
		if vals[i] != 0 {
			row.Cols = append(row.Cols, c)
			row.Vals = append(row.Vals, vals[i])
		}
	}
	p.rows = append(p.rows, row)
}

// SetObjective sets the maximization coefficient of col.
func (p *Program) SetObjective(col int, coef float64) {
	p.objective[col] = coef
}

// NumVars returns the number of columns.
func (p *Program) NumVars() int { return len(p.names) }

// Name returns the name given to col.
func (p *Program) Name(col int) string { return p.names[col] }

// Objective returns the objective coefficients. The slice must not be modified.
func (p *Program) Objective() []float64 { return p.objective }

// Rows returns the constraints in insertion order. The slice must not be modified.
func (p *Program) Rows() []Row { return p.rows }

// Evaluate returns the objective value of x and whether x satisfies every row.
func (p *Program) Evaluate(x []bool) (float64, bool) {
	obj := 0.0
	for c, coef := range p.objective {
		if x[c] {
			obj += coef
		}
	}
	for _, r := range p.rows {
		act := 0.0
		for i, c := range r.Cols {
			if x[c] {
				act += r.Vals[i]
			}
		}
		if act < r.Lower-feasTol || act > r.Upper+feasTol {
			return obj, false
		}
	}
	return obj, true
}

const feasTol = 1e-9

// Status is the outcome class of a solve.
type Status int

const (
	// StatusOther covers time or resource exhaustion and any non-proven result.
	StatusOther Status = iota
	StatusOptimal
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "other"
	}
}

// Outcome is what a Solver reports for one Program.
type Outcome struct {
	Status    Status
	Objective float64
	// Values holds one entry per column; only meaningful when Status is StatusOptimal.
	Values []float64
}

// Value reads back a 0/1 assignment.
func (o *Outcome) Value(col int) bool {
	if col < 0 || col >= len(o.Values) {
		return false
	}
	return math.Round(o.Values[col]) == 1
}

// Solver is an integer-programming backend.
//
// Solve must honor the context deadline as its time budget. A non-nil error
// means the backend itself failed; infeasibility or running out of time are
// reported through Outcome.Status.
type Solver interface {
	Solve(ctx context.Context, p *Program) (*Outcome, error)
}
