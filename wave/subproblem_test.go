package wave

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSubproblem(t *testing.T) {
	inst, err := NewInstance(
		[]Quantities{{0: 3}, {1: 2, 2: 1}},
		[]Quantities{{0: 5}, {1: 2}, {2: 4}},
		3, Bounds{Lower: 1, Upper: 6},
	)
	require.NoError(t, err)

	p, err := BuildSubproblem(inst, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, p.NumVars())
	assert.Equal(t, "order_1", p.Name(1))
	assert.Equal(t, "aisle_0", p.Name(2))
	assert.Equal(t, []float64{3, 3, 0, 0, 0}, p.Objective())

	want := []Row{
		{Name: "aisles_k", Lower: 2, Upper: 2, Cols: []int{2, 3, 4}, Vals: []float64{1, 1, 1}},
		{Name: "wave_bounds", Lower: 1, Upper: 6, Cols: []int{0, 1}, Vals: []float64{3, 3}},
		{Name: "capacity_0", Lower: math.Inf(-1), Upper: 0, Cols: []int{0, 2}, Vals: []float64{3, -5}},
		{Name: "capacity_1", Lower: math.Inf(-1), Upper: 0, Cols: []int{1, 3}, Vals: []float64{2, -2}},
		{Name: "capacity_2", Lower: math.Inf(-1), Upper: 0, Cols: []int{1, 4}, Vals: []float64{1, -4}},
	}
	if diff := cmp.Diff(want, p.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSubproblemRejectsBadK(t *testing.T) {
	inst, err := NewInstance([]Quantities{{0: 1}}, []Quantities{{0: 1}}, 1, Bounds{Lower: 0, Upper: 1})
	require.NoError(t, err)

	for _, k := range []int{0, 2, -1} {
		_, err := BuildSubproblem(inst, k)
		assert.Error(t, err, "k=%d", k)
	}
}

func TestSubproblemMatchesChecker(t *testing.T) {
	inst, err := NewInstance(
		[]Quantities{{0: 3}, {1: 2, 2: 1}},
		[]Quantities{{0: 5}, {1: 2}, {2: 4}},
		3, Bounds{Lower: 1, Upper: 6},
	)
	require.NoError(t, err)
	p, err := BuildSubproblem(inst, 2)
	require.NoError(t, err)

	tests := []struct {
		name string
		x    []bool
		ok   bool
		obj  float64
	}{
		{"order0 with aisles 0,1", []bool{true, false, true, true, false}, true, 3},
		{"both orders aisles 1,2 lacks item0", []bool{true, true, false, true, true}, false, 6},
		{"order1 with aisles 1,2", []bool{false, true, false, true, true}, true, 3},
		{"three aisles", []bool{true, false, true, true, true}, false, 3},
		{"nothing picked below lower bound", []bool{false, false, true, true, false}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := p.Evaluate(tt.x)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.obj, obj)

			out := &Outcome{Status: StatusOptimal, Values: make([]float64, len(tt.x))}
			for i, v := range tt.x {
				if v {
					out.Values[i] = 1
				}
			}
			sol := extractSolution(inst, out)
			if tt.ok {
				assert.True(t, inst.IsFeasible(sol))
				assert.Equal(t, obj, float64(inst.unitsPicked(sol.Orders)))
			}
		})
	}
}

func TestOutcomeValue(t *testing.T) {
	out := &Outcome{Values: []float64{0.9999999, 1e-7, 1}}
	assert.True(t, out.Value(0))
	assert.False(t, out.Value(1))
	assert.True(t, out.Value(2))
	assert.False(t, out.Value(3))
	assert.False(t, out.Value(-1))
}
