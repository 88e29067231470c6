package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
	"github.com/AndreaFavero71/cubotino-pocket/internal/storage"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

// newSolver loads the tables for the configured metric.
func newSolver() (*solver.Solver, error) {
	t, err := tables.BuildOrLoad(settings.CacheDir, settings.Metric, logger)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return solver.New(t), nil
}

func newPlanner() *robot.Planner {
	return &robot.Planner{
		Layout:     settings.Layout,
		Estimator:  settings.Timing,
		Alternates: settings.Alternates,
	}
}

func openDB() (*storage.DB, error) {
	db, err := storage.Open(settings.DBPath)
	if err != nil {
		return nil, err
	}
	version, err := db.CurrentVersion()
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("opened solve log", slog.String("path", db.Path()), slog.Int("schema", version))
	return db, nil
}

// planResult plans the compacted solutions of res.
func planResult(planner *robot.Planner, res *solver.Result) (*robot.Plan, error) {
	sols := make([][]cube.Move, len(res.Solutions))
	for i, sol := range res.Solutions {
		sols[i] = sol.Compact()
	}
	return planner.Plan(sols)
}

// recordPlan stores a planned solve and returns its ID.
func recordPlan(db *storage.DB, res *solver.Result, p *robot.Plan, metric tables.Metric) (string, error) {
	best := p.Chosen()
	return storage.NewSolveRepository(db).Create(&storage.Solve{
		Facelets:       res.Facelets.String(),
		Metric:         metric.String(),
		Layout:         p.Layout.String(),
		Solution:       solver.Solution(best.Moves).Format(metric),
		SolutionLength: metric.Length(best.Moves),
		Program:        best.Program.String(),
		RobotMoves:     best.RobotMoves,
		Estimate:       best.Estimate,
		Candidates:     len(p.Candidates),
	})
}

func record(cmd *cobra.Command, res *solver.Result, p *robot.Plan, metric tables.Metric) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	id, err := recordPlan(db, res, p, metric)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded:    %s\n", id)
	return nil
}

// facelets joins arguments so "UUUU RRRR ..." may be typed in groups.
func facelets(args []string) string {
	return strings.Join(args, "")
}
