package wave

import "fmt"

// IsFeasible reports whether sol is a valid wave for the instance: both sets
// non-empty with unique in-range indices, total units inside the wave bounds,
// and no item picked beyond what the visited aisles hold.
func (inst *Instance) IsFeasible(sol Solution) bool {
	return len(inst.violations(sol, true)) == 0
}

// Violations lists every reason sol is infeasible. It is empty exactly when
// IsFeasible returns true.
func (inst *Instance) Violations(sol Solution) []string {
	return inst.violations(sol, false)
}

// Objective returns units picked divided by aisles visited, or 0 for a
// degenerate or malformed solution. Feasibility is not checked.
func (inst *Instance) Objective(sol Solution) float64 {
	if sol.IsEmpty() || !validIndexSet(sol.Orders, len(inst.orders)) || !validIndexSet(sol.Aisles, len(inst.aisles)) {
		return 0
	}
	return float64(inst.unitsPicked(sol.Orders)) / float64(len(sol.Aisles))
}

func (inst *Instance) unitsPicked(orders []int) int {
	total := 0
	for _, o := range orders {
		total += inst.orderUnits[o]
	}
	return total
}

func (inst *Instance) violations(sol Solution, firstOnly bool) []string {
	var out []string
	add := func(format string, args ...any) bool {
		out = append(out, fmt.Sprintf(format, args...))
		return firstOnly
	}

	if len(sol.Orders) == 0 && add("no orders selected") {
		return out
	}
	if len(sol.Aisles) == 0 && add("no aisles visited") {
		return out
	}
	if sol.IsEmpty() {
		return out
	}
	if !validIndexSet(sol.Orders, len(inst.orders)) {
		add("order indices must be unique and in [0,%d)", len(inst.orders))
		return out
	}
	if !validIndexSet(sol.Aisles, len(inst.aisles)) {
		add("aisle indices must be unique and in [0,%d)", len(inst.aisles))
		return out
	}

	picked := make(map[int]int)
	for _, o := range sol.Orders {
		for item, n := range inst.orders[o] {
			picked[item] += n
		}
	}
	available := make(map[int]int)
	for _, a := range sol.Aisles {
		for item, n := range inst.aisles[a] {
			available[item] += n
		}
	}

	units := inst.unitsPicked(sol.Orders)
	if !inst.bounds.Contains(units) && add("total units %d outside wave bounds [%d, %d]", units, inst.bounds.Lower, inst.bounds.Upper) {
		return out
	}
	for _, item := range inst.items {
		if picked[item] > available[item] && add("item %d: picked %d exceeds available %d", item, picked[item], available[item]) {
			return out
		}
	}
	return out
}

func validIndexSet(idx []int, n int) bool {
	seen := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
		if _, dup := seen[i]; dup {
			return false
		}
		seen[i] = struct{}{}
	}
	return true
}
