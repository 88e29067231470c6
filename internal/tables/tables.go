// Package tables builds, caches and loads the move and pruning tables used
// by the solver.
package tables

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// ErrCorrupt reports tables that cannot describe the cube's state space.
var ErrCorrupt = errors.New("tables: corrupt table")

// Metric selects how solution length is counted.
type Metric uint8

const (
	// FTM counts every face turn, quarter or half, as one move.
	FTM Metric = iota
	// QTM counts quarter turns only; a half turn costs two.
	QTM
)

func (m Metric) String() string {
	switch m {
	case FTM:
		return "ftm"
	case QTM:
		return "qtm"
	default:
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
}

// Suffix returns the letter used after a move count, "f" or "q".
func (m Metric) Suffix() string {
	if m == QTM {
		return "q"
	}
	return "f"
}

// ParseMetric accepts "ftm", "htm" or "qtm" in any case.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ftm", "htm", "":
		return FTM, nil
	case "qtm":
		return QTM, nil
	}
	return FTM, fmt.Errorf("tables: unknown metric %q", s)
}

// Allows reports whether generator m is a single move in this metric.
func (m Metric) Allows(mv cube.Move) bool {
	return m == FTM || mv.Amount() != cube.Half
}

// Length returns the number of moves in the metric.
func (m Metric) Length(moves []cube.Move) int {
	if m == FTM {
		return len(moves)
	}
	n := 0
	for _, mv := range moves {
		n += mv.Quarters()
	}
	return n
}

// Tables holds the coordinate transition tables and the exact distance of
// every state to solved. A Tables value is read-only once built and safe for
// concurrent use.
type Tables struct {
	Metric    Metric
	PermMove  []uint16 // NumPerm x NumGenerators
	TwistMove []uint16 // NumTwist x NumGenerators
	Prune     []int8   // NumStates, indexed by cube.Index
}

// Next returns the coordinates reached by applying generator m.
func (t *Tables) Next(perm, twist int, m cube.Move) (int, int) {
	return int(t.PermMove[cube.NumGenerators*perm+int(m)]),
		int(t.TwistMove[cube.NumGenerators*twist+int(m)])
}

// Depth returns the optimal solution length of the state.
func (t *Tables) Depth(perm, twist int) int {
	return int(t.Prune[cube.Index(perm, twist)])
}

// Histogram counts states per distance.
func (t *Tables) Histogram() []int {
	var hist []int
	for _, d := range t.Prune {
		for int(d) >= len(hist) {
			hist = append(hist, 0)
		}
		hist[d]++
	}
	return hist
}
