package robot

import (
	"fmt"
	"time"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// Candidate is one solution translated into a robot program.
type Candidate struct {
	Moves      []cube.Move
	Raw        Program // before optimization
	Program    Program
	RobotMoves int
	Estimate   time.Duration
}

// Plan is the outcome of planning: every candidate and the fastest one.
type Plan struct {
	Layout     Layout
	Candidates []Candidate
	Best       int // index into Candidates
}

// Chosen returns the fastest candidate.
func (p *Plan) Chosen() Candidate {
	return p.Candidates[p.Best]
}

// Planner translates solutions into robot programs and picks the fastest.
type Planner struct {
	Layout     Layout
	Estimator  Estimator
	Alternates bool
}

// NewPlanner returns a planner for the layout that also tries opposite-face
// alternates and estimates with DefaultTiming.
func NewPlanner(layout Layout) *Planner {
	return &Planner{Layout: layout, Estimator: DefaultTiming(), Alternates: true}
}

// Plan translates every solution (and its alternates when enabled) from a
// fresh copy of the layout's tracker, optimizes each program and picks the
// one with the lowest estimate. Ties keep the earlier candidate.
func (p *Planner) Plan(solutions [][]cube.Move) (*Plan, error) {
	if len(solutions) == 0 {
		return nil, fmt.Errorf("%w: no solutions to plan", ErrInvariant)
	}
	est := p.Estimator
	if est == nil {
		est = DefaultTiming()
	}

	var all [][]cube.Move
	for _, sol := range solutions {
		variants := [][]cube.Move{sol}
		if p.Alternates {
			variants = Alternates(sol)
		}
		for _, v := range variants {
			if !containsMoves(all, v) {
				all = append(all, v)
			}
		}
	}

	plan := &Plan{Layout: p.Layout}
	start := p.Layout.Tracker()
	for _, moves := range all {
		t := start
		raw, err := Translate(moves, &t)
		if err != nil {
			return nil, err
		}
		prog := Optimize(raw)
		c := Candidate{
			Moves:      moves,
			Raw:        raw,
			Program:    prog,
			RobotMoves: prog.RobotMoves(),
			Estimate:   est.Estimate(prog),
		}
		plan.Candidates = append(plan.Candidates, c)
		if c.Estimate < plan.Candidates[plan.Best].Estimate {
			plan.Best = len(plan.Candidates) - 1
		}
	}
	return plan, nil
}
