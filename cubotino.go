package cubotino

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

type (
	// Metric is the move metric of the search.
	Metric = tables.Metric
	// Layout is the cube's orientation on the robot when a program starts.
	Layout = robot.Layout
	// Move is one face turn.
	Move = cube.Move
	// Solution is an optimal move sequence.
	Solution = solver.Solution
	// Program is a robot program.
	Program = robot.Program
	// Estimator predicts program run time.
	Estimator = robot.Estimator
	// ServoTiming estimates from per-motion durations.
	ServoTiming = robot.ServoTiming
	// Executor runs programs on a robot.
	Executor = robot.Executor
	// VirtualRobot replays programs on an in-memory cube.
	VirtualRobot = robot.VirtualRobot
)

// Metrics.
const (
	FTM = tables.FTM
	QTM = tables.QTM
)

// Layouts.
const (
	Scanned    = robot.Scanned
	Simulation = robot.Simulation
)

// SolvedFacelets is the facelet string of a solved cube.
const SolvedFacelets = cube.SolvedString

// DefaultTiming returns the default servo timing.
func DefaultTiming() ServoTiming { return robot.DefaultTiming() }

// NewVirtualRobot loads the scanned facelets onto an in-memory robot held in
// the given layout.
func NewVirtualRobot(facelets string, layout Layout) (*VirtualRobot, error) {
	f, err := cube.ParseFacelets(facelets)
	if err != nil {
		return nil, err
	}
	return robot.NewVirtualRobot(f, layout), nil
}

// Solver solves cubes and plans robot programs. It is safe for concurrent
// use; the tables it holds are read-only.
type Solver struct {
	search  *solver.Solver
	planner *robot.Planner
	logger  *slog.Logger
}

// New loads (or on first use builds) the tables and returns a Solver.
func New(opts ...Option) (*Solver, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	t := cfg.tables
	if t == nil {
		var err error
		t, err = tables.BuildOrLoad(cfg.cacheDir, cfg.metric, cfg.logger)
		if err != nil {
			return nil, err
		}
	}

	return &Solver{
		search: solver.New(t),
		planner: &robot.Planner{
			Layout:     cfg.layout,
			Estimator:  cfg.estimator,
			Alternates: cfg.alternates,
		},
		logger: cfg.logger,
	}, nil
}

// Metric returns the solver's metric.
func (s *Solver) Metric() Metric { return s.search.Metric() }

// Layout returns the start layout programs are planned for.
func (s *Solver) Layout() Layout { return s.planner.Layout }

// Solve returns every optimal solution for the facelets, formatted like
// "F3 U3 R3 (3f)". A solved cube yields a single "(0f)".
func (s *Solver) Solve(facelets string) ([]string, error) {
	res, err := s.search.Solve(facelets)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]string, len(res.Solutions))
	for i, sol := range res.Solutions {
		out[i] = sol.Compact().Format(s.Metric())
	}
	return out, nil
}

// Solutions returns every optimal solution as moves.
func (s *Solver) Solutions(facelets string) ([]Solution, error) {
	res, err := s.search.Solve(facelets)
	if err != nil {
		return nil, classify(err)
	}
	return res.Solutions, nil
}

// Plan is the chosen robot program for one cube.
type Plan struct {
	Facelets   string
	Solution   string // formatted optimal solution behind the program
	Moves      []Move
	Program    Program
	RobotMoves int
	Estimate   time.Duration
	Candidates int // programs compared
	Layout     Layout
	Metric     Metric
}

// Plan solves the facelets and returns the fastest robot program among all
// optimal solutions and their alternates.
func (s *Solver) Plan(facelets string) (*Plan, error) {
	res, err := s.search.Solve(facelets)
	if err != nil {
		return nil, classify(err)
	}
	return s.plan(res)
}

func (s *Solver) plan(res *solver.Result) (*Plan, error) {
	sols := make([][]cube.Move, len(res.Solutions))
	for i, sol := range res.Solutions {
		sols[i] = sol.Compact()
	}
	p, err := s.planner.Plan(sols)
	if err != nil {
		return nil, classify(err)
	}
	best := p.Chosen()
	s.logger.Debug("planned",
		slog.String("facelets", res.Facelets.String()),
		slog.Int("depth", res.Depth),
		slog.Int("candidates", len(p.Candidates)),
		slog.String("program", best.Program.String()))
	return &Plan{
		Facelets:   res.Facelets.String(),
		Solution:   solver.Solution(best.Moves).Format(s.Metric()),
		Moves:      best.Moves,
		Program:    best.Program,
		RobotMoves: best.RobotMoves,
		Estimate:   best.Estimate,
		Candidates: len(p.Candidates),
		Layout:     p.Layout,
		Metric:     s.Metric(),
	}, nil
}

// Run plans the facelets and executes the program on exec.
func (s *Solver) Run(ctx context.Context, facelets string, exec Executor) (*Plan, error) {
	p, err := s.Plan(facelets)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := exec.Execute(ctx, p.Program); err != nil {
		return p, fmt.Errorf("execute %s: %w", p.Program, err)
	}
	s.logger.Info("program finished",
		slog.String("program", p.Program.String()),
		slog.Int("robot_moves", p.RobotMoves),
		slog.Duration("elapsed", time.Since(start)))
	return p, nil
}

// Translate turns a move sequence into a raw and an optimized robot program
// for the given start layout.
func Translate(moves []Move, layout Layout) (raw, optimized Program, err error) {
	t := layout.Tracker()
	raw, err = robot.Translate(moves, &t)
	if err != nil {
		return nil, nil, classify(err)
	}
	return raw, robot.Optimize(raw), nil
}
