package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AndreaFavero71/cubotino-pocket/internal/analysis"
	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
)

var (
	verifyLimit   int
	verifyWorkers int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every reachable cube end to end",
	Long: `Solve every reachable state (or --limit evenly spaced states), translate
every candidate program and replay it on a virtual robot. Any program that
leaves a face mixed is reported as a failure.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().IntVar(&verifyLimit, "limit", 0, "Number of states to check (0 = all)")
	verifyCmd.Flags().IntVar(&verifyWorkers, "workers", runtime.NumCPU(), "Parallel workers")
}

// verifyReport summarizes a verification pass.
type verifyReport struct {
	States   int64
	Programs int64
	Failures []string
	Summary  analysis.Summary // chosen programs
	Worst    string           // facelets of the cube with the most robot moves
	Elapsed  time.Duration
}

const verifyChunk = 2048

// verifyStates checks count evenly spaced states. Failures do not stop the
// pass; solver errors do.
func verifyStates(ctx context.Context, s *solver.Solver, planner *robot.Planner, count, workers int) (*verifyReport, error) {
	if count <= 0 || count > cube.NumStates {
		count = cube.NumStates
	}
	if workers < 1 {
		workers = 1
	}

	var (
		report   = &verifyReport{}
		mu       sync.Mutex
		states   atomic.Int64
		programs atomic.Int64
		stats    = analysis.NewCollector(false)
		maxMoves int
		start    = time.Now()
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < count; lo += verifyChunk {
		hi := min(lo+verifyChunk, count)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gCtx.Err(); err != nil {
					return err
				}
				idx := int(int64(i) * cube.NumStates / int64(count))
				perm, twist := idx/cube.NumTwist, idx%cube.NumTwist
				f := cube.FromCoords(perm, twist).Facelets()

				sols, err := s.SolveCoords(perm, twist)
				if err != nil {
					return err
				}
				moveSets := make([][]cube.Move, len(sols))
				for j, sol := range sols {
					moveSets[j] = sol.Compact()
				}
				plan, err := planner.Plan(moveSets)
				if err != nil {
					return err
				}

				phys := planner.Layout.Physical(f)
				for _, c := range plan.Candidates {
					programs.Add(2)
					for _, prog := range []robot.Program{c.Raw, c.Program} {
						if !robot.Replay(phys, prog).IsUniform() {
							mu.Lock()
							report.Failures = append(report.Failures,
								fmt.Sprintf("%s %s -> %s", f, solver.Solution(c.Moves).Moves(), prog))
							mu.Unlock()
						}
					}
				}

				stats.Add(plan)
				best := plan.Chosen()
				mu.Lock()
				if best.RobotMoves > maxMoves || report.Worst == "" {
					maxMoves = best.RobotMoves
					report.Worst = f.String()
				}
				mu.Unlock()
				states.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.States = states.Load()
	report.Programs = programs.Load()
	report.Summary = stats.Summary()
	report.Elapsed = time.Since(start)
	return report, nil
}

func printSummary(out io.Writer, s analysis.Summary) {
	fmt.Fprintf(out, "Avg moves:   %.2f (median %d, max %d)\n", s.MeanMoves, s.MedianMoves, s.MaxMoves)
	fmt.Fprintf(out, "Avg time:    %s\n", s.MeanEstimate.Round(10*time.Millisecond))
	fmt.Fprintf(out, "Primitives:  %d flips, %d spins, %d rotations\n", s.Flips, s.Spins, s.Rotations)
	fmt.Fprintf(out, "Optimizer:   %d robot moves saved\n", s.SavedMoves)
	fmt.Fprintf(out, "Candidates:  %.2f per cube\n", s.MeanCandidates)
	keys := slices.Sorted(maps.Keys(s.MovesHistogram))
	for _, k := range keys {
		fmt.Fprintf(out, "  %2d moves: %d\n", k, s.MovesHistogram[k])
	}
}

func runVerify(cmd *cobra.Command, _ []string) error {
	s, err := newSolver()
	if err != nil {
		return err
	}
	logger.Info("verifying",
		slog.String("metric", s.Metric().String()),
		slog.String("layout", settings.Layout.String()),
		slog.Int("workers", verifyWorkers))

	r, err := verifyStates(cmd.Context(), s, newPlanner(), verifyLimit, verifyWorkers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "States:      %d\n", r.States)
	fmt.Fprintf(out, "Programs:    %d\n", r.Programs)
	printSummary(out, r.Summary)
	fmt.Fprintf(out, "Worst cube:  %s\n", r.Worst)
	fmt.Fprintf(out, "Elapsed:     %s\n", r.Elapsed.Round(time.Millisecond))
	if len(r.Failures) > 0 {
		for _, f := range r.Failures[:min(len(r.Failures), 20)] {
			fmt.Fprintln(out, errorStyle.Render(f))
		}
		return fmt.Errorf("%d programs failed", len(r.Failures))
	}
	fmt.Fprintln(out, moveStyle.Render("All programs solve their cube."))
	return nil
}
