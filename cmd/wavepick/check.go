package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartolsthoorn/wavepick/internal/instance"
)

var errInfeasible = errors.New("solution is infeasible")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <instance> <solution>",
		Short: "Verify a solution file and print its objective",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := instance.ReadFile(args[0])
			if err != nil {
				return err
			}
			sol, err := instance.ReadSolutionFile(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			violations := inst.Violations(sol)
			for _, v := range violations {
				fmt.Fprintf(out, "violation: %s\n", v)
			}
			fmt.Fprintf(out, "feasible: %t\n", len(violations) == 0)
			fmt.Fprintf(out, "orders: %d\naisles: %d\n", len(sol.Orders), len(sol.Aisles))
			fmt.Fprintf(out, "objective: %.6f\n", inst.Objective(sol))

			a.log.Debug("solution checked",
				zap.String("instance", args[0]),
				zap.Int("violations", len(violations)),
				zap.Float64("objective", inst.Objective(sol)))
			if len(violations) > 0 {
				return errInfeasible
			}
			return nil
		},
	}
}
