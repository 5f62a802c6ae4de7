package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bartolsthoorn/wavepick/highs"
	"github.com/bartolsthoorn/wavepick/wave"
)

// HiGHS solves programs with the HiGHS MIP solver.
type HiGHS struct {
	// Threads passed to HiGHS. Zero leaves the solver default.
	Threads int
	// Output enables the solver log on stdout.
	Output bool
	// Presolve is "choose", "on" or "off". Empty leaves the solver default.
	Presolve string
}

// NewHiGHS returns a single-threaded, silent HiGHS backend.
func NewHiGHS() *HiGHS {
	return &HiGHS{Threads: 1}
}

// Solve implements wave.Solver. The context deadline becomes the HiGHS
// time_limit.
func (h *HiGHS) Solve(ctx context.Context, p *wave.Program) (*wave.Outcome, error) {
	opts := []highs.SolveOption{
		highs.WithOutput(h.Output),
		highs.WithMIPRelGap(0),
	}
	if h.Threads > 0 {
		opts = append(opts, highs.WithThreads(h.Threads))
	}
	if h.Presolve != "" {
		opts = append(opts, highs.WithPresolve(h.Presolve))
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &wave.Outcome{Status: wave.StatusOther}, nil
		}
		opts = append(opts, highs.WithTimeLimit(remaining.Seconds()))
	} else if err := ctx.Err(); err != nil {
		return &wave.Outcome{Status: wave.StatusOther}, nil
	}

	model := toModel(p)
	sol, err := model.Solve(opts...)
	if err != nil {
		if errors.Is(err, highs.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %w", wave.ErrSolverUnavailable, err)
		}
		return nil, err
	}

	out := &wave.Outcome{Status: statusOf(sol.Status), Objective: sol.Objective}
	if out.Status == wave.StatusOptimal {
		out.Values = sol.ColValues
	}
	return out, nil
}

func toModel(p *wave.Program) *highs.Model {
	m := &highs.Model{Maximize: true}
	for _, c := range p.Objective() {
		m.AddBinary(c)
	}
	for _, r := range p.Rows() {
		m.AddSparseRow(r.Lower, r.Cols, r.Vals, r.Upper)
	}
	return m
}

func statusOf(s highs.ModelStatus) wave.Status {
	switch s {
	case highs.ModelStatusOptimal:
		return wave.StatusOptimal
	case highs.ModelStatusInfeasible, highs.ModelStatusUnboundedOrInfeasible:
		return wave.StatusInfeasible
	default:
		return wave.StatusOther
	}
}
