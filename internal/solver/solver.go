// Package solver finds every optimal solution of a 2x2x2 cube with a
// depth-first search bounded by the exact distance table.
package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

// ErrInvariant reports a search that could not reach solved at the depth
// the distance table promised. It points at broken tables, never at input.
var ErrInvariant = errors.New("solver: invariant violation")

// Solution is an ordered list of face turns in the DBL frame.
type Solution []cube.Move

// Compact merges two identical adjacent quarter turns into a half turn.
func (s Solution) Compact() Solution {
	out := make(Solution, 0, len(s))
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) && s[i] == s[i+1] && s[i].Amount() != cube.Half {
			out = append(out, cube.NewMove(s[i].Face(), cube.Half))
			i++
			continue
		}
		out = append(out, s[i])
	}
	return out
}

// Inverse returns the sequence that undoes s.
func (s Solution) Inverse() Solution {
	out := make(Solution, len(s))
	for i, m := range s {
		out[len(s)-1-i] = m.Inverse()
	}
	return out
}

// Moves returns the space separated solver notation, "U1 R2 F3".
func (s Solution) Moves() string {
	parts := make([]string, len(s))
	for i, m := range s {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// Format returns the moves followed by their count, "U1 R2 F3 (3f)".
func (s Solution) Format(metric tables.Metric) string {
	count := fmt.Sprintf("(%d%s)", metric.Length(s), metric.Suffix())
	if len(s) == 0 {
		return count
	}
	return s.Moves() + " " + count
}

// Solver searches using a shared, read-only set of tables.
type Solver struct {
	tables *tables.Tables
}

// New returns a solver backed by t.
func New(t *tables.Tables) *Solver {
	return &Solver{tables: t}
}

// Metric returns the metric of the underlying distance table.
func (s *Solver) Metric() tables.Metric {
	return s.tables.Metric
}

// Result describes the solutions found for one cube.
type Result struct {
	Facelets  cube.Facelets
	Perm      int
	Twist     int
	Depth     int
	Solutions []Solution
}

// Solve decodes a facelet string and returns all optimal solutions.
// Decoding errors wrap cube.ErrMalformed or cube.ErrUnreachable.
func (s *Solver) Solve(facelets string) (*Result, error) {
	f, err := cube.ParseFacelets(facelets)
	if err != nil {
		return nil, err
	}
	return s.SolveFacelets(f)
}

// SolveFacelets is Solve for already parsed stickers.
func (s *Solver) SolveFacelets(f cube.Facelets) (*Result, error) {
	c, err := cube.Decode(f)
	if err != nil {
		return nil, err
	}
	perm, twist := c.Perm(), c.Twist()
	sols, err := s.SolveCoords(perm, twist)
	if err != nil {
		return nil, err
	}
	return &Result{
		Facelets:  f,
		Perm:      perm,
		Twist:     twist,
		Depth:     s.tables.Depth(perm, twist),
		Solutions: sols,
	}, nil
}

// SolveCoords returns every solution of the exact optimal length for the
// coordinate pair, in generator order.
func (s *Solver) SolveCoords(perm, twist int) ([]Solution, error) {
	togo := s.tables.Depth(perm, twist)
	if togo < 0 {
		return nil, fmt.Errorf("%w: state (%d, %d) has no distance", ErrInvariant, perm, twist)
	}
	sr := searcher{
		tables: s.tables,
		qtm:    s.tables.Metric == tables.QTM,
		path:   make([]cube.Move, togo),
	}
	sr.search(perm, twist, 0, togo)
	if len(sr.found) == 0 {
		return nil, fmt.Errorf("%w: no solution of length %d for (%d, %d)", ErrInvariant, togo, perm, twist)
	}
	return sr.found, nil
}

// searcher is the per-call search state. path[:ply] holds the moves taken
// so far; deeper entries are overwritten as the search backtracks.
type searcher struct {
	tables *tables.Tables
	qtm    bool
	path   []cube.Move
	found  []Solution
}

func (sr *searcher) search(perm, twist, ply, togo int) {
	if togo == 0 {
		sol := make(Solution, ply)
		copy(sol, sr.path[:ply])
		sr.found = append(sr.found, sol)
		return
	}
	for m := cube.Move(0); m < cube.NumGenerators; m++ {
		if ply > 0 && !sr.follows(sr.path[ply-1], m) {
			continue
		}
		if sr.qtm && m.Amount() == cube.Half {
			continue
		}
		perm1, twist1 := sr.tables.Next(perm, twist, m)
		if sr.tables.Depth(perm1, twist1) >= togo {
			continue
		}
		sr.path[ply] = m
		sr.search(perm1, twist1, ply+1, togo-1)
	}
}

// follows reports whether m may come right after prev. In FTM a face is
// never turned twice in a row. In QTM the only same-face pair is X1 X1, the
// canonical way of writing a half turn.
func (sr *searcher) follows(prev, m cube.Move) bool {
	if prev.Face() != m.Face() {
		return true
	}
	if !sr.qtm {
		return false
	}
	return prev.Amount() != cube.CCW && m.Amount() != cube.CCW
}
