package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/analysis"
	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
)

var (
	simulateRuns int
	simulateSeed uint64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Solve random cubes on a virtual robot",
	Long: `Generate random cubes, plan each one and run the program on a virtual robot.
Prints one line per cube and the averages. A seed of 0 picks a random seed.`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntVarP(&simulateRuns, "runs", "n", 10, "Number of random cubes")
	simulateCmd.Flags().Uint64Var(&simulateSeed, "seed", 0, "Random seed")
}

// simulation is the outcome of one simulated solve.
type simulation struct {
	Facelets   cube.Facelets
	Solution   string
	Program    robot.Program
	RobotMoves int
	Estimate   time.Duration
	Solved     bool
	Plan       *robot.Plan
}

func simulateOne(s *solver.Solver, planner *robot.Planner, f cube.Facelets) (simulation, error) {
	res, err := s.SolveFacelets(f)
	if err != nil {
		return simulation{}, err
	}
	p, err := planResult(planner, res)
	if err != nil {
		return simulation{}, err
	}
	best := p.Chosen()

	v := robot.NewVirtualRobot(f, planner.Layout)
	for _, prim := range best.Program {
		v.Step(prim)
	}
	return simulation{
		Facelets:   f,
		Solution:   solver.Solution(best.Moves).Format(s.Metric()),
		Program:    best.Program,
		RobotMoves: v.RobotMoves(),
		Estimate:   best.Estimate,
		Solved:     v.Solved(),
		Plan:       p,
	}, nil
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	s, err := newSolver()
	if err != nil {
		return err
	}
	seed := simulateSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := rand.New(rand.NewPCG(seed, seed>>1|1))
	planner := newPlanner()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Simulating %d cubes (seed %d, %s, %s)",
		simulateRuns, seed, s.Metric(), planner.Layout)))

	stats := analysis.NewCollector(true)
	failed := 0
	for i := 0; i < simulateRuns; i++ {
		sim, err := simulateOne(s, planner, cube.Random(r))
		if err != nil {
			return err
		}
		status := moveStyle.Render("ok")
		if !sim.Solved {
			status = errorStyle.Render("NOT SOLVED")
			failed++
		}
		fmt.Fprintf(out, "%3d %s %-28s %-36s %2d %8s %s\n", i+1, sim.Facelets, sim.Solution,
			sim.Program, sim.RobotMoves, sim.Estimate.Round(10*time.Millisecond), status)
		stats.Add(sim.Plan)
	}

	if simulateRuns > 0 {
		printSummary(out, stats.Summary())
		report := stats.NGrams(3, 5, 3)
		for n := 3; n <= 5; n++ {
			for _, g := range report.TopNGrams[n] {
				fmt.Fprintf(out, "  %-15s x%d\n", g.Sequence, g.Count)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d cubes not solved", failed, simulateRuns)
	}
	return nil
}
