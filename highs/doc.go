// Package highs is a small Go binding for the HiGHS mixed-integer solver.
//
// Only the parts needed to load a row-wise MIP in one call, set options, run
// and read back primal values are bound. The native library is located with
// pkg-config, so build with
//
//	go build -tags highs ./...
//
// on a machine where HiGHS is installed (highs.pc on PKG_CONFIG_PATH).
// Without the tag NewSolver returns ErrUnavailable.
//
//	model := highs.Model{
//		Maximize: true,
//		ColCosts: []float64{3, 2},
//		ColLower: []float64{0, 0},
//		ColUpper: []float64{1, 1},
//		VarTypes: []highs.VariableType{highs.Integer, highs.Integer},
//	}
//	model.AddSparseRow(highs.NegInf(), []int{0, 1}, []float64{2, 2}, 3)
//	solution, err := model.Solve(highs.WithOutput(false))
package highs
