package backend

import (
	"context"

	"github.com/bartolsthoorn/wavepick/wave"
)

// DefaultEnumerateMaxVars keeps a full enumeration around a million assignments.
const DefaultEnumerateMaxVars = 20

// Enumerate solves a program exactly by trying every 0/1 assignment.
// It is meant for small instances and for cross-checking other backends.
// Ties keep the first maximum in enumeration order, so results are
// deterministic.
type Enumerate struct {
	// MaxVars caps the number of columns; larger programs yield StatusOther.
	MaxVars int
}

// NewEnumerate returns an Enumerate backend with DefaultEnumerateMaxVars.
func NewEnumerate() *Enumerate {
	return &Enumerate{MaxVars: DefaultEnumerateMaxVars}
}

// Solve implements wave.Solver.
func (e *Enumerate) Solve(ctx context.Context, p *wave.Program) (*wave.Outcome, error) {
	n := p.NumVars()
	limit := e.MaxVars
	if limit <= 0 {
		limit = DefaultEnumerateMaxVars
	}
	if n > limit || n > 62 {
		return &wave.Outcome{Status: wave.StatusOther}, nil
	}

	x := make([]bool, n)
	best := make([]bool, n)
	bestObj := 0.0
	found := false
	for mask := uint64(0); mask < uint64(1)<<n; mask++ {
		if mask&0x3ff == 0 && ctx.Err() != nil {
			return &wave.Outcome{Status: wave.StatusOther}, nil
		}
		for i := range x {
			x[i] = mask>>uint(i)&1 == 1
		}
		obj, ok := p.Evaluate(x)
		if !ok {
			continue
		}
		if !found || obj > bestObj {
			copy(best, x)
			bestObj = obj
			found = true
		}
	}

	if !found {
		return &wave.Outcome{Status: wave.StatusInfeasible}, nil
	}
	values := make([]float64, n)
	for i, v := range best {
		if v {
			values[i] = 1
		}
	}
	return &wave.Outcome{Status: wave.StatusOptimal, Objective: bestObj, Values: values}, nil
}
