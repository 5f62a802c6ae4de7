package wave_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bartolsthoorn/wavepick/backend"
	"github.com/bartolsthoorn/wavepick/wave"
)

func mustInstance(t *testing.T, orders, aisles []wave.Quantities, numItems int, b wave.Bounds) *wave.Instance {
	t.Helper()
	inst, err := wave.NewInstance(orders, aisles, numItems, b)
	require.NoError(t, err)
	return inst
}

// checkingSolver wraps another solver and asserts that every optimal
// assignment visits exactly k aisles.
type checkingSolver struct {
	t     *testing.T
	inst  *wave.Instance
	inner wave.Solver
	calls int
}

func (c *checkingSolver) Solve(ctx context.Context, p *wave.Program) (*wave.Outcome, error) {
	c.calls++
	out, err := c.inner.Solve(ctx, p)
	if err != nil || out.Status != wave.StatusOptimal {
		return out, err
	}
	k := int(p.Rows()[0].Lower)
	visited := 0
	for col := c.inst.NumOrders(); col < p.NumVars(); col++ {
		if out.Value(col) {
			visited++
		}
	}
	assert.Equal(c.t, k, visited, "aisles visited for k=%d", k)
	return out, nil
}

// scriptedSolver returns fixed statuses for some aisle counts and delegates
// the rest.
type scriptedSolver struct {
	statuses map[int]wave.Status
	err      error
	inner    wave.Solver
	deadline []bool
}

func (s *scriptedSolver) Solve(ctx context.Context, p *wave.Program) (*wave.Outcome, error) {
	_, ok := ctx.Deadline()
	s.deadline = append(s.deadline, ok)
	if s.err != nil {
		return nil, s.err
	}
	k := int(p.Rows()[0].Lower)
	if st, ok := s.statuses[k]; ok {
		return &wave.Outcome{Status: st}, nil
	}
	return s.inner.Solve(ctx, p)
}

type recordingObserver struct {
	attempts []wave.Attempt
	result   *wave.Result
}

func (r *recordingObserver) ObserveAttempt(a wave.Attempt) { r.attempts = append(r.attempts, a) }

func (r *recordingObserver) ObserveResult(res *wave.Result) { r.result = res }

func TestSearchScenarios(t *testing.T) {
	tests := []struct {
		name       string
		orders     []wave.Quantities
		aisles     []wave.Quantities
		bounds     wave.Bounds
		opts       []wave.Option
		want       wave.Solution
		wantRatio  float64
		wantK      int
		wantStop   wave.StopReason
		wantTrials int
	}{
		{
			name:       "larger aisle wins",
			orders:     []wave.Quantities{{0: 5}},
			aisles:     []wave.Quantities{{0: 3}, {0: 5}},
			bounds:     wave.Bounds{Lower: 1, Upper: 10},
			want:       wave.Solution{Orders: []int{0}, Aisles: []int{1}},
			wantRatio:  5,
			wantK:      1,
			wantStop:   wave.StopExhausted,
			wantTrials: 1,
		},
		{
			name:       "single aisle needs the full range",
			orders:     []wave.Quantities{{0: 4}, {0: 4}},
			aisles:     []wave.Quantities{{0: 8}},
			bounds:     wave.Bounds{Lower: 1, Upper: 6},
			opts:       []wave.Option{wave.WithIncludeAllAisles(true)},
			want:       wave.Solution{Orders: []int{0}, Aisles: []int{0}},
			wantRatio:  4,
			wantK:      1,
			wantStop:   wave.StopExhausted,
			wantTrials: 1,
		},
		{
			name:       "single aisle excluded by default range",
			orders:     []wave.Quantities{{0: 4}, {0: 4}},
			aisles:     []wave.Quantities{{0: 8}},
			bounds:     wave.Bounds{Lower: 1, Upper: 6},
			wantStop:   wave.StopExhausted,
			wantTrials: 0,
		},
		{
			name:       "lower bound unreachable",
			orders:     []wave.Quantities{{0: 2}},
			aisles:     []wave.Quantities{{0: 5}, {0: 5}},
			bounds:     wave.Bounds{Lower: 10, Upper: 20},
			opts:       []wave.Option{wave.WithIncludeAllAisles(true)},
			wantStop:   wave.StopExhausted,
			wantTrials: 2,
		},
		{
			name:       "bound reached at k=1",
			orders:     []wave.Quantities{{0: 5}},
			aisles:     []wave.Quantities{{0: 5}, {0: 5}, {0: 5}},
			bounds:     wave.Bounds{Lower: 1, Upper: 5},
			want:       wave.Solution{Orders: []int{0}, Aisles: []int{0}},
			wantRatio:  5,
			wantK:      1,
			wantStop:   wave.StopBound,
			wantTrials: 1,
		},
		{
			name:       "k=2 pruned by bound",
			orders:     []wave.Quantities{{0: 4}},
			aisles:     []wave.Quantities{{0: 4}, {0: 4}, {0: 4}},
			bounds:     wave.Bounds{Lower: 1, Upper: 6},
			want:       wave.Solution{Orders: []int{0}, Aisles: []int{0}},
			wantRatio:  4,
			wantK:      1,
			wantStop:   wave.StopPruned,
			wantTrials: 1,
		},
		{
			name:       "k=2 solved without pruning",
			orders:     []wave.Quantities{{0: 4}},
			aisles:     []wave.Quantities{{0: 4}, {0: 4}, {0: 4}},
			bounds:     wave.Bounds{Lower: 1, Upper: 6},
			opts:       []wave.Option{wave.WithBoundPruning(false)},
			want:       wave.Solution{Orders: []int{0}, Aisles: []int{0}},
			wantRatio:  4,
			wantK:      1,
			wantStop:   wave.StopExhausted,
			wantTrials: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := mustInstance(t, tt.orders, tt.aisles, 1, tt.bounds)
			solver := &checkingSolver{t: t, inst: inst, inner: backend.NewEnumerate()}
			obs := &recordingObserver{}
			opts := append([]wave.Option{wave.WithObserver(obs), wave.WithLogger(zaptest.NewLogger(t))}, tt.opts...)

			res, err := wave.NewSearch(inst, solver, opts...).Run(context.Background())
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, res.Solution, cmp.Comparer(wave.Solution.Equal)); diff != "" {
				t.Errorf("solution mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantRatio, res.Ratio)
			assert.Equal(t, tt.wantK, res.K)
			assert.Equal(t, tt.wantStop, res.Stopped)
			assert.Len(t, res.Attempts, tt.wantTrials)
			assert.Equal(t, tt.wantTrials, solver.calls)
			assert.True(t, res.Optimal)
			assert.Equal(t, res.Attempts, obs.attempts)
			assert.Same(t, res, obs.result)

			assert.Equal(t, res.Ratio, inst.Objective(res.Solution))
			if res.Found() {
				assert.True(t, inst.IsFeasible(res.Solution))
			}
		})
	}
}

func TestSearchAttemptRatiosMatchChecker(t *testing.T) {
	inst := mustInstance(t,
		[]wave.Quantities{{0: 2, 1: 1}, {1: 3}, {0: 1}},
		[]wave.Quantities{{0: 2}, {1: 2}, {1: 2, 0: 1}, {0: 1, 1: 1}},
		2, wave.Bounds{Lower: 2, Upper: 7},
	)
	res, err := wave.NewSearch(inst, backend.NewEnumerate(), wave.WithBoundPruning(false)).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Attempts, 3)

	for _, a := range res.Attempts {
		assert.Equal(t, float64(inst.Bounds().Upper)/float64(a.K), a.Bound)
		if a.Status == wave.StatusOptimal {
			assert.Equal(t, float64(a.Units)/float64(a.K), a.Ratio, "k=%d", a.K)
			assert.LessOrEqual(t, a.Ratio, a.Bound+1e-12)
		}
	}
	assert.Equal(t, res.Ratio, inst.Objective(res.Solution))
}

func TestSearchNonOptimalContinues(t *testing.T) {
	inst := mustInstance(t,
		[]wave.Quantities{{0: 3}},
		[]wave.Quantities{{0: 3}, {0: 3}, {0: 3}},
		1, wave.Bounds{Lower: 1, Upper: 10},
	)
	solver := &scriptedSolver{statuses: map[int]wave.Status{1: wave.StatusOther}, inner: backend.NewEnumerate()}

	res, err := wave.NewSearch(inst, solver).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Attempts, 2)
	assert.Equal(t, wave.StatusOther, res.Attempts[0].Status)
	assert.Equal(t, wave.StatusOptimal, res.Attempts[1].Status)
	assert.Equal(t, 2, res.K)
	assert.Equal(t, 1.5, res.Ratio)
	assert.False(t, res.Optimal, "a k without a proven answer leaves the result unproven")
}

func TestSearchSolverUnavailableIsFatal(t *testing.T) {
	inst := mustInstance(t,
		[]wave.Quantities{{0: 3}},
		[]wave.Quantities{{0: 3}, {0: 3}},
		1, wave.Bounds{Lower: 1, Upper: 10},
	)

	solver := &scriptedSolver{err: fmt.Errorf("%w: engine not linked", wave.ErrSolverUnavailable)}
	res, err := wave.NewSearch(inst, solver).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, wave.ErrSolverUnavailable))
	assert.Nil(t, res)

	_, err = wave.NewSearch(inst, nil).Run(context.Background())
	assert.ErrorIs(t, err, wave.ErrSolverUnavailable)
}

func TestSearchHighsWithoutEngine(t *testing.T) {
	inst := mustInstance(t,
		[]wave.Quantities{{0: 3}},
		[]wave.Quantities{{0: 3}, {0: 3}},
		1, wave.Bounds{Lower: 1, Upper: 10},
	)
	res, err := wave.NewSearch(inst, backend.NewHiGHS()).Run(context.Background())
	if err == nil {
		// Built with -tags highs: the real solver answers.
		assert.Equal(t, 3.0, res.Ratio)
		return
	}
	assert.ErrorIs(t, err, wave.ErrSolverUnavailable)
}

func TestSearchDeadline(t *testing.T) {
	inst := mustInstance(t,
		[]wave.Quantities{{0: 3}},
		[]wave.Quantities{{0: 3}, {0: 3}},
		1, wave.Bounds{Lower: 1, Upper: 10},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	solver := &scriptedSolver{inner: backend.NewEnumerate()}
	res, err := wave.NewSearch(inst, solver).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, wave.StopDeadline, res.Stopped)
	assert.False(t, res.Found())
	assert.False(t, res.Optimal)
	assert.Empty(t, res.Attempts)
	assert.Empty(t, solver.deadline)
}

func TestSearchPassesBudgetToSolver(t *testing.T) {
	inst := mustInstance(t,
		[]wave.Quantities{{0: 3}},
		[]wave.Quantities{{0: 3}, {0: 3}, {0: 3}},
		1, wave.Bounds{Lower: 1, Upper: 10},
	)
	solver := &scriptedSolver{inner: backend.NewEnumerate()}

	_, err := wave.NewSearch(inst, solver, wave.WithTimeLimit(time.Minute), wave.WithBoundPruning(false)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, solver.deadline)
}

func TestSearchIdempotent(t *testing.T) {
	inst := mustInstance(t,
		[]wave.Quantities{{0: 2, 1: 1}, {1: 3}, {0: 1}, {0: 2, 1: 2}},
		[]wave.Quantities{{0: 2}, {1: 2}, {1: 2, 0: 1}, {0: 1, 1: 1}},
		2, wave.Bounds{Lower: 2, Upper: 7},
	)
	search := wave.NewSearch(inst, backend.NewEnumerate())

	first, err := search.Run(context.Background())
	require.NoError(t, err)
	second, err := search.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Ratio, second.Ratio)
	assert.True(t, first.Solution.Equal(second.Solution))
}

// bruteForce returns the best ratio over every feasible wave that visits at
// most maxAisles aisles.
func bruteForce(inst *wave.Instance, maxAisles int) float64 {
	best := 0.0
	for am := 1; am < 1<<inst.NumAisles(); am++ {
		aisles := bitsOf(am)
		if len(aisles) > maxAisles {
			continue
		}
		for om := 1; om < 1<<inst.NumOrders(); om++ {
			sol := wave.NewSolution(bitsOf(om), aisles)
			if inst.IsFeasible(sol) && inst.Objective(sol) > best {
				best = inst.Objective(sol)
			}
		}
	}
	return best
}

func bitsOf(mask int) []int {
	var out []int
	for i := 0; mask>>i > 0; i++ {
		if mask>>i&1 == 1 {
			out = append(out, i)
		}
	}
	return out
}

func randomInstance(t *testing.T, rng *rand.Rand) *wave.Instance {
	numItems := 1 + rng.Intn(3)
	randomQuantities := func(n int) []wave.Quantities {
		out := make([]wave.Quantities, n)
		for i := range out {
			out[i] = wave.Quantities{}
			for item := 0; item < numItems; item++ {
				out[i][item] = rng.Intn(4)
			}
		}
		return out
	}
	lower := rng.Intn(4)
	return mustInstance(t,
		randomQuantities(1+rng.Intn(4)),
		randomQuantities(2+rng.Intn(3)),
		numItems,
		wave.Bounds{Lower: lower, Upper: lower + rng.Intn(8)},
	)
}

func TestSearchMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		inst := randomInstance(t, rng)

		for _, all := range []bool{false, true} {
			for _, prune := range []bool{false, true} {
				maxAisles := inst.NumAisles() - 1
				if all {
					maxAisles = inst.NumAisles()
				}
				want := bruteForce(inst, maxAisles)

				solver := &checkingSolver{t: t, inst: inst, inner: backend.NewEnumerate()}
				res, err := wave.NewSearch(inst, solver,
					wave.WithIncludeAllAisles(all),
					wave.WithBoundPruning(prune),
				).Run(context.Background())
				require.NoError(t, err)

				assert.InDelta(t, want, res.Ratio, 1e-9, "instance %d all=%v prune=%v", i, all, prune)
				assert.Equal(t, res.Ratio, inst.Objective(res.Solution))
				if res.Found() {
					assert.True(t, inst.IsFeasible(res.Solution))
					assert.LessOrEqual(t, len(res.Solution.Aisles), maxAisles)
				}
				assert.True(t, res.Optimal)
			}
		}
	}
}

func TestKRange(t *testing.T) {
	inst := mustInstance(t, nil, []wave.Quantities{{}, {}, {}}, 1, wave.Bounds{})

	first, last := wave.NewSearch(inst, nil).KRange()
	assert.Equal(t, [2]int{1, 2}, [2]int{first, last})

	first, last = wave.NewSearch(inst, nil, wave.WithIncludeAllAisles(true)).KRange()
	assert.Equal(t, [2]int{1, 3}, [2]int{first, last})
}
