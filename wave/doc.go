// Package wave selects a wave of orders and the aisles to visit for it so
// that units picked per aisle visited is maximal.
//
// The ratio objective is linear-fractional. Search fixes the number of
// visited aisles k, solves the resulting 0/1 program (BuildSubproblem) with
// a pluggable Solver, and compares units/k across k. Upper/k bounds the ratio
// reachable with k aisles, which lets the search stop early with a proof of
// optimality.
//
//	inst, err := wave.NewInstance(orders, aisles, nItems, wave.Bounds{Lower: 1, Upper: 10})
//	if err != nil {
//		return err
//	}
//	res, err := wave.NewSearch(inst, backend.NewHiGHS()).Run(ctx)
//	if err != nil {
//		return err // the solver could not run at all
//	}
//	if res.Found() && inst.IsFeasible(res.Solution) {
//		fmt.Println(inst.Objective(res.Solution))
//	}
package wave
