package wave

import (
	"slices"
	"sort"
)

// Solution is a wave: the selected orders and the visited aisles.
// Indices are kept sorted and unique when built with NewSolution.
type Solution struct {
	Orders []int `json:"orders" yaml:"orders"`
	Aisles []int `json:"aisles" yaml:"aisles"`
}

// NewSolution copies, sorts and de-duplicates both index sets.
func NewSolution(orders, aisles []int) Solution {
	return Solution{Orders: sortedSet(orders), Aisles: sortedSet(aisles)}
}

func sortedSet(v []int) []int {
	out := make([]int, len(v))
	copy(out, v)
	sort.Ints(out)
	return slices.Compact(out)
}

// IsEmpty reports whether the solution is degenerate: either set empty.
func (s Solution) IsEmpty() bool {
	return len(s.Orders) == 0 || len(s.Aisles) == 0
}

// Equal compares two solutions by value.
func (s Solution) Equal(other Solution) bool {
	return slices.Equal(s.Orders, other.Orders) && slices.Equal(s.Aisles, other.Aisles)
}

// PartialResult is the best wave found for one aisle count K together with
// its ratio objective.
type PartialResult struct {
	Solution Solution
	Ratio    float64
	K        int
}
