package wave

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// StopReason tells why a search ended.
type StopReason string

const (
	// StopExhausted: every aisle count in range was tried.
	StopExhausted StopReason = "exhausted"
	// StopBound: some k reached its ratio bound Upper/k.
	StopBound StopReason = "bound"
	// StopPruned: Upper/k fell to the best ratio found before k was solved.
	StopPruned StopReason = "pruned"
	// StopDeadline: the time budget ran out.
	StopDeadline StopReason = "deadline"
)

// Attempt records the solve of one k-subproblem.
type Attempt struct {
	K        int
	Status   Status
	Units    int
	Ratio    float64
	Bound    float64
	Duration time.Duration
}

// Result is the outcome of a search.
type Result struct {
	// Solution is the best wave, or the empty Solution when no k produced one.
	Solution Solution
	Ratio    float64
	K        int
	// Optimal is set when the search proved no wave in range beats Solution.
	Optimal  bool
	Stopped  StopReason
	Attempts []Attempt
	Elapsed  time.Duration
}

// Found reports whether a usable wave was found.
func (r *Result) Found() bool {
	return !r.Solution.IsEmpty()
}

// Search maximizes units picked per aisle visited by solving one
// k-subproblem per aisle count k.
type Search struct {
	inst   *Instance
	solver Solver
	cfg    *searchConfig
}

// NewSearch prepares a search over inst using solver.
func NewSearch(inst *Instance, solver Solver, opts ...Option) *Search {
	cfg := defaultSearchConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Search{inst: inst, solver: solver, cfg: cfg}
}

// KRange returns the inclusive range of aisle counts the search visits.
// It is empty (first > last) when there are too few aisles.
func (s *Search) KRange() (first, last int) {
	last = s.inst.NumAisles() - 1
	if s.cfg.includeAllAisles {
		last = s.inst.NumAisles()
	}
	return 1, last
}

// Run executes the search. It returns an error only when the solver fails
// as a whole; running out of time returns the best wave found so far.
func (s *Search) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	if s.solver == nil {
		return nil, fmt.Errorf("search: %w", ErrSolverUnavailable)
	}
	if s.cfg.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.timeLimit)
		defer cancel()
	}

	log := s.cfg.logger
	upper := float64(s.inst.Bounds().Upper)
	first, last := s.KRange()

	var best PartialResult
	res := &Result{Stopped: StopExhausted}
	incomplete := false

	for k := first; k <= last; k++ {
		if err := ctx.Err(); err != nil {
			log.Warn("time budget exhausted", zap.Int("next_k", k), zap.Error(err))
			res.Stopped = StopDeadline
			break
		}

		bound := upper / float64(k)
		if s.cfg.boundPruning && bound <= best.Ratio {
			log.Debug("remaining aisle counts cannot improve",
				zap.Int("k", k), zap.Float64("bound", bound), zap.Float64("best_ratio", best.Ratio))
			res.Stopped = StopPruned
			break
		}

		attempt, cand, err := s.solveK(ctx, k, bound)
		if err != nil {
			return nil, fmt.Errorf("solve subproblem k=%d: %w", k, err)
		}
		res.Attempts = append(res.Attempts, attempt)
		if s.cfg.observer != nil {
			s.cfg.observer.ObserveAttempt(attempt)
		}
		if cand == nil {
			if attempt.Status == StatusOther {
				incomplete = true
			}
			continue
		}

		hit := math.Abs(cand.Ratio-bound) <= s.cfg.epsilon
		if cand.Ratio > best.Ratio {
			best = *cand
			log.Info("better wave found",
				zap.Int("k", k), zap.Float64("ratio", best.Ratio), zap.Int("orders", len(best.Solution.Orders)))
		}
		if hit {
			log.Info("ratio bound reached, stopping early", zap.Int("k", k), zap.Float64("bound", bound))
			res.Stopped = StopBound
			break
		}
	}

	res.Solution = best.Solution
	res.Ratio = best.Ratio
	res.K = best.K
	res.Optimal = res.Stopped != StopDeadline && !incomplete
	res.Elapsed = time.Since(start)

	log.Info("search finished",
		zap.String("stopped", string(res.Stopped)),
		zap.Bool("found", res.Found()),
		zap.Float64("ratio", res.Ratio),
		zap.Int("k", res.K),
		zap.Bool("optimal", res.Optimal),
		zap.Int("subproblems", len(res.Attempts)),
		zap.Duration("elapsed", res.Elapsed))
	if s.cfg.observer != nil {
		s.cfg.observer.ObserveResult(res)
	}
	return res, nil
}

// solveK builds and solves the k-subproblem. A nil candidate means the
// solver produced no usable assignment for k.
func (s *Search) solveK(ctx context.Context, k int, bound float64) (Attempt, *PartialResult, error) {
	log := s.cfg.logger.With(zap.Int("k", k))
	attempt := Attempt{K: k, Bound: bound}

	prog, err := BuildSubproblem(s.inst, k)
	if err != nil {
		return attempt, nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		log.Debug("solving subproblem", zap.Duration("budget", time.Until(deadline)))
	}
	started := time.Now()
	out, err := s.solver.Solve(ctx, prog)
	attempt.Duration = time.Since(started)
	if err != nil {
		return attempt, nil, err
	}
	if out == nil {
		return attempt, nil, errors.New("solver returned no outcome")
	}
	attempt.Status = out.Status

	if out.Status != StatusOptimal {
		log.Debug("no solution for aisle count", zap.Stringer("status", out.Status), zap.Duration("took", attempt.Duration))
		return attempt, nil, nil
	}

	sol := extractSolution(s.inst, out)
	if len(sol.Aisles) != k || (len(sol.Orders) > 0 && !s.inst.IsFeasible(sol)) {
		log.Warn("solver assignment rejected by checker",
			zap.Int("aisles", len(sol.Aisles)), zap.Strings("violations", s.inst.Violations(sol)))
		attempt.Status = StatusOther
		return attempt, nil, nil
	}

	attempt.Units = s.inst.unitsPicked(sol.Orders)
	attempt.Ratio = s.inst.Objective(sol)
	if math.Abs(out.Objective-float64(attempt.Units)) > 0.5 {
		log.Warn("solver objective disagrees with recomputed units",
			zap.Float64("solver_objective", out.Objective), zap.Int("units", attempt.Units))
	}
	log.Debug("subproblem solved",
		zap.Int("units", attempt.Units),
		zap.Float64("ratio", attempt.Ratio),
		zap.Float64("bound", bound),
		zap.Duration("took", attempt.Duration))

	return attempt, &PartialResult{Solution: sol, Ratio: attempt.Ratio, K: k}, nil
}
