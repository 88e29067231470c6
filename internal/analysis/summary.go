package analysis

import (
	"slices"
	"sync"
	"time"

	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
)

// Summary describes a batch of chosen programs.
type Summary struct {
	Programs       int           `json:"programs"`
	MeanMoves      float64       `json:"mean_robot_moves"`
	MedianMoves    int           `json:"median_robot_moves"`
	MaxMoves       int           `json:"max_robot_moves"`
	MovesHistogram map[int]int   `json:"robot_moves_histogram"`
	MeanEstimate   time.Duration `json:"mean_estimate"`
	Flips          int           `json:"flips"` // counting repeats
	Spins          int           `json:"spins"`
	Rotations      int           `json:"rotations"`
	SavedMoves     int           `json:"saved_robot_moves"` // raw minus optimized
	MeanCandidates float64       `json:"mean_candidates"`
}

// Collector accumulates plans. It is safe for concurrent use.
type Collector struct {
	mu         sync.Mutex
	moves      []int
	estimate   time.Duration
	candidates int
	sum        Summary
	keep       bool
	programs   []robot.Program
}

// NewCollector returns a collector. With keepPrograms the chosen programs
// are retained for n-gram mining.
func NewCollector(keepPrograms bool) *Collector {
	return &Collector{keep: keepPrograms, sum: Summary{MovesHistogram: map[int]int{}}}
}

// Add records the chosen candidate of p.
func (c *Collector) Add(p *robot.Plan) {
	best := p.Chosen()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.moves = append(c.moves, best.RobotMoves)
	c.estimate += best.Estimate
	c.candidates += len(p.Candidates)
	c.sum.MovesHistogram[best.RobotMoves]++
	c.sum.SavedMoves += best.Raw.RobotMoves() - best.RobotMoves
	for _, prim := range best.Program {
		switch prim.Kind {
		case robot.Flip:
			c.sum.Flips += int(prim.N)
		case robot.Spin:
			c.sum.Spins++
		case robot.Rotate:
			c.sum.Rotations++
		}
	}
	if c.keep {
		c.programs = append(c.programs, best.Program)
	}
}

// Summary returns the statistics so far.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.sum
	s.MovesHistogram = make(map[int]int, len(c.sum.MovesHistogram))
	for k, v := range c.sum.MovesHistogram {
		s.MovesHistogram[k] = v
	}
	s.Programs = len(c.moves)
	if s.Programs == 0 {
		return s
	}

	sorted := slices.Clone(c.moves)
	slices.Sort(sorted)
	total := 0
	for _, m := range sorted {
		total += m
	}
	s.MeanMoves = float64(total) / float64(s.Programs)
	s.MedianMoves = sorted[len(sorted)/2]
	s.MaxMoves = sorted[len(sorted)-1]
	s.MeanEstimate = c.estimate / time.Duration(s.Programs)
	s.MeanCandidates = float64(c.candidates) / float64(s.Programs)
	return s
}

// NGrams mines the retained programs. It returns an empty report when the
// collector does not keep programs.
func (c *Collector) NGrams(minN, maxN, topK int) *NGramReport {
	c.mu.Lock()
	progs := slices.Clone(c.programs)
	c.mu.Unlock()
	return MineNGrams(progs, minN, maxN, topK)
}
