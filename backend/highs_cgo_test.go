//go:build highs && cgo && (linux || darwin)

package backend

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/wavepick/wave"
)

func TestHiGHSKnapsack(t *testing.T) {
	out, err := NewHiGHS().Solve(context.Background(), knapsack())
	require.NoError(t, err)

	assert.Equal(t, wave.StatusOptimal, out.Status)
	assert.InDelta(t, 7.0, out.Objective, 1e-9)
	assert.True(t, out.Value(0))
	assert.True(t, out.Value(1))
	assert.False(t, out.Value(2))
}

func TestHiGHSInfeasible(t *testing.T) {
	p := &wave.Program{}
	x := p.AddBinary("x")
	p.AddRow("impossible", 2, []int{x}, []float64{1}, 3)

	out, err := NewHiGHS().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, wave.StatusInfeasible, out.Status)
}

func TestHiGHSExpiredDeadline(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	out, err := NewHiGHS().Solve(ctx, knapsack())
	require.NoError(t, err)
	assert.Equal(t, wave.StatusOther, out.Status)
}

// Random k-subproblems must get the same optimal objective from HiGHS and
// from exhaustive enumeration.
func TestHiGHSAgreesWithEnumerate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		orders := make([]wave.Quantities, 1+rng.Intn(5))
		aisles := make([]wave.Quantities, 1+rng.Intn(4))
		for _, qs := range [][]wave.Quantities{orders, aisles} {
			for j := range qs {
				qs[j] = wave.Quantities{0: rng.Intn(4), 1: rng.Intn(4)}
			}
		}
		lower := rng.Intn(4)
		inst, err := wave.NewInstance(orders, aisles, 2, wave.Bounds{Lower: lower, Upper: lower + rng.Intn(8)})
		require.NoError(t, err)

		k := 1 + rng.Intn(len(aisles))
		p, err := wave.BuildSubproblem(inst, k)
		require.NoError(t, err)

		want, err := NewEnumerate().Solve(context.Background(), p)
		require.NoError(t, err)
		got, err := NewHiGHS().Solve(context.Background(), p)
		require.NoError(t, err)

		require.Equal(t, want.Status, got.Status, "instance %d k=%d", i, k)
		if want.Status == wave.StatusOptimal {
			assert.InDelta(t, want.Objective, got.Objective, 1e-6)
			x := make([]bool, p.NumVars())
			for c := range x {
				x[c] = got.Value(c)
			}
			obj, ok := p.Evaluate(x)
			assert.True(t, ok)
			assert.Equal(t, math.Round(got.Objective), obj)
		}
	}
}
