package highs

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned by NewSolver when the binary was built without
// the HiGHS library (the highs build tag, cgo and a supported platform).
var ErrUnavailable = errors.New("highs: solver not available in this build")

// VariableType specifies whether a variable is continuous or integer.
type VariableType int

const (
	// Continuous indicates a continuous variable (default).
	Continuous VariableType = iota
	// Integer indicates an integer variable.
	Integer
)

// String returns a human-readable representation of the variable type.
func (v VariableType) String() string {
	switch v {
	case Continuous:
		return "Continuous"
	case Integer:
		return "Integer"
	default:
		return "Unknown"
	}
}

// Status represents the result status of a HiGHS call.
type Status int

const (
	// StatusError indicates the operation failed with an error.
	StatusError Status = -1
	// StatusOK indicates the operation succeeded.
	StatusOK Status = 0
	// StatusWarning indicates the operation succeeded with warnings.
	StatusWarning Status = 1
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusError:
		return "Error"
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "Warning"
	default:
		return "Unknown"
	}
}

// ModelStatus represents the status of a solved model.
type ModelStatus int

const (
	ModelStatusNotSet ModelStatus = iota
	ModelStatusLoadError
	ModelStatusModelError
	ModelStatusPresolveError
	ModelStatusSolveError
	ModelStatusPostsolveError
	ModelStatusModelEmpty
	// ModelStatusOptimal indicates a proven optimal solution was found.
	ModelStatusOptimal
	// ModelStatusInfeasible indicates the model has no feasible point.
	ModelStatusInfeasible
	ModelStatusUnboundedOrInfeasible
	ModelStatusUnbounded
	ModelStatusObjectiveBound
	ModelStatusObjectiveTarget
	// ModelStatusTimeLimit indicates the time_limit option stopped the run.
	ModelStatusTimeLimit
	ModelStatusIterationLimit
	ModelStatusUnknown
)

var modelStatusNames = []string{
	"NotSet", "LoadError", "ModelError", "PresolveError",
	"SolveError", "PostsolveError", "ModelEmpty", "Optimal",
	"Infeasible", "UnboundedOrInfeasible", "Unbounded",
	"ObjectiveBound", "ObjectiveTarget", "TimeLimit",
	"IterationLimit", "Unknown",
}

// String returns a human-readable representation of the model status.
func (s ModelStatus) String() string {
	if int(s) >= 0 && int(s) < len(modelStatusNames) {
		return modelStatusNames[s]
	}
	return "Unknown"
}

// IsOptimal returns true if the model was solved to optimality.
func (s ModelStatus) IsOptimal() bool {
	return s == ModelStatusOptimal
}

// HasSolution returns true if the run produced primal values.
func (s ModelStatus) HasSolution() bool {
	return s == ModelStatusOptimal ||
		s == ModelStatusObjectiveBound ||
		s == ModelStatusObjectiveTarget ||
		s == ModelStatusTimeLimit ||
		s == ModelStatusIterationLimit
}

// Nonzero represents a non-zero entry in a sparse matrix.
// Row and Col are zero-indexed.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

// Error represents a HiGHS error with context about which operation failed.
type Error struct {
	Op     string // Operation that failed (e.g., "Run", "SetOption")
	Status Status // HiGHS status code
	Msg    string // Additional context
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("highs: %s failed: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("highs: %s failed with status %s", e.Op, e.Status)
}

// newError creates a new Error if status is not OK.
// Returns nil if status is OK or Warning.
func newError(op string, status Status) error {
	if status == StatusOK || status == StatusWarning {
		return nil
	}
	return &Error{Op: op, Status: status}
}

func newErrorMsg(op, msg string) error {
	return &Error{Op: op, Status: StatusError, Msg: msg}
}
