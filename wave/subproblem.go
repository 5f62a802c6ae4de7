package wave

import (
	"fmt"
	"math"
	"strconv"
)

// BuildSubproblem returns the 0/1 program that fixes the number of visited
// aisles to k and maximizes the units picked.
//
// Columns 0..NumOrders-1 select orders, the following NumAisles columns visit
// aisles. Rows, in order: the k-aisles equality, the wave bounds, then one
// capacity row per item of Items().
func BuildSubproblem(inst *Instance, k int) (*Program, error) {
	nOrders, nAisles := inst.NumOrders(), inst.NumAisles()
	if k < 1 || k > nAisles {
		return nil, fmt.Errorf("aisle count %d out of range [1,%d]", k, nAisles)
	}

	p := &Program{}
	orderCols := make([]int, nOrders)
	for o := range orderCols {
		orderCols[o] = p.AddBinary("order_" + strconv.Itoa(o))
	}
	aisleCols := make([]int, nAisles)
	for a := range aisleCols {
		aisleCols[a] = p.AddBinary("aisle_" + strconv.Itoa(a))
	}

	ones := make([]float64, nAisles)
	for a := range ones {
		ones[a] = 1
	}
	p.AddRow("aisles_k", float64(k), aisleCols, ones, float64(k))

	units := make([]float64, nOrders)
	for o := range units {
		units[o] = float64(inst.OrderUnits(o))
		p.SetObjective(orderCols[o], units[o])
	}
	b := inst.Bounds()
	p.AddRow("wave_bounds", float64(b.Lower), orderCols, units, float64(b.Upper))

	// Index item -> (column, coefficient) once instead of scanning every
	// order and aisle per item.
	type term struct {
		col  int
		coef float64
	}
	byItem := make(map[int][]term, len(inst.Items()))
	for o := 0; o < nOrders; o++ {
		inst.OrderItems(o, func(item, qty int) {
			byItem[item] = append(byItem[item], term{orderCols[o], float64(qty)})
		})
	}
	for a := 0; a < nAisles; a++ {
		inst.AisleItems(a, func(item, qty int) {
			byItem[item] = append(byItem[item], term{aisleCols[a], -float64(qty)})
		})
	}
	for _, item := range inst.Items() {
		terms := byItem[item]
		cols := make([]int, len(terms))
		vals := make([]float64, len(terms))
		for i, t := range terms {
			cols[i], vals[i] = t.col, t.coef
		}
		p.AddRow("capacity_"+strconv.Itoa(item), math.Inf(-1), cols, vals, 0)
	}

	return p, nil
}

// extractSolution reads the selected orders and aisles out of an outcome of
// a program built by BuildSubproblem.
func extractSolution(inst *Instance, out *Outcome) Solution {
	nOrders := inst.NumOrders()
	var orders, aisles []int
	for o := 0; o < nOrders; o++ {
		if out.Value(o) {
			orders = append(orders, o)
		}
	}
	for a := 0; a < inst.NumAisles(); a++ {
		if out.Value(nOrders + a) {
			aisles = append(aisles, a)
		}
	}
	return Solution{Orders: orders, Aisles: aisles}
}
