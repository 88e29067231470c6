package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
)

var (
	solveAll    bool
	solveRecord bool
	solveNet    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <facelets>",
	Short: "Find optimal solutions",
	Long: `Decode the facelets and print an optimal solution in the configured metric.
With --all every optimal solution is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

var planCmd = &cobra.Command{
	Use:   "plan <facelets>",
	Short: "Plan the fastest robot program",
	Long: `Solve the cube, translate every optimal solution and its opposite-face
alternates into robot programs, and print the fastest one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(planCmd)
	solveCmd.Flags().BoolVarP(&solveAll, "all", "a", false, "Print every optimal solution")
	solveCmd.Flags().BoolVar(&solveNet, "net", false, "Draw the decoded cube")
	planCmd.Flags().BoolVar(&solveNet, "net", false, "Draw the decoded cube")
	solveCmd.Flags().BoolVarP(&solveRecord, "record", "r", false, "Plan the cube and store it in the solve log")
	planCmd.Flags().BoolVarP(&solveRecord, "record", "r", false, "Store the plan in the solve log")
}

func runSolve(cmd *cobra.Command, args []string) error {
	s, err := newSolver()
	if err != nil {
		return err
	}
	res, err := s.Solve(facelets(args))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if solveNet {
		fmt.Fprintln(out, renderNet(res.Facelets))
	}

	sols := res.Solutions
	if !solveAll {
		sols = sols[:1]
	}
	for _, sol := range sols {
		fmt.Fprintln(out, moveStyle.Render(sol.Compact().Format(s.Metric())))
	}
	if solveAll {
		fmt.Fprintln(out, statusStyle.Render(fmt.Sprintf("%d optimal solutions", len(res.Solutions))))
	}

	if solveRecord {
		p, err := planResult(newPlanner(), res)
		if err != nil {
			return err
		}
		return record(cmd, res, p, s.Metric())
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	s, err := newSolver()
	if err != nil {
		return err
	}
	res, err := s.Solve(facelets(args))
	if err != nil {
		return err
	}
	p, err := planResult(newPlanner(), res)
	if err != nil {
		return err
	}
	best := p.Chosen()

	out := cmd.OutOrStdout()
	if solveNet {
		fmt.Fprintln(out, renderNet(res.Facelets))
	}
	fmt.Fprintf(out, "Solution:    %s\n", moveStyle.Render(solver.Solution(best.Moves).Format(s.Metric())))
	fmt.Fprintf(out, "Program:     %s\n", programStyle.Render(best.Program.String()))
	fmt.Fprintf(out, "Robot moves: %d\n", best.RobotMoves)
	fmt.Fprintf(out, "Estimate:    %s\n", best.Estimate)
	fmt.Fprintf(out, "Candidates:  %d (layout %s)\n", len(p.Candidates), p.Layout)

	if verbose {
		for i, c := range p.Candidates {
			marker := " "
			if i == p.Best {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %-30s %-40s %s\n", marker, solver.Solution(c.Moves).Moves(), c.Program, c.Estimate)
		}
	}

	if solveRecord {
		return record(cmd, res, p, s.Metric())
	}
	return nil
}
