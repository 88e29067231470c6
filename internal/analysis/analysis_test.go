package analysis

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
)

func TestTokenRoundTrip(t *testing.T) {
	for _, p := range []robot.Primitive{robot.F1, robot.F2, robot.F3, robot.S1, robot.S3, robot.R1, robot.R3} {
		tok := Token(p)
		assert.Less(t, tok, uint8(numTokens))
		assert.Equal(t, p, PrimitiveFromToken(tok))
	}
}

func TestRollingHashMatchesFreshWindow(t *testing.T) {
	rh := NewRollingHash(3)
	for _, tok := range []uint8{1, 2, 3, 4} {
		rh.Roll(tok)
	}
	require.True(t, rh.Ready())
	assert.Equal(t, []uint8{2, 3, 4}, rh.Window())

	fresh := NewRollingHash(3)
	for _, tok := range []uint8{2, 3, 4} {
		fresh.Roll(tok)
	}
	assert.Equal(t, fresh.Hash(), rh.Hash())
}

func TestMineNGrams(t *testing.T) {
	progs := []robot.Program{
		{robot.F1, robot.R1, robot.S3},
		{robot.F1, robot.R1, robot.F2},
		{robot.S1, robot.R3},
	}
	report := MineNGrams(progs, 2, 3, 5)

	require.Len(t, report.TopNGrams[2], 1)
	top := report.TopNGrams[2][0]
	assert.Equal(t, "F1R1", top.Sequence)
	assert.Equal(t, 2, top.Count)

	// every trigram occurs once
	assert.NotContains(t, report.TopNGrams, 3)
}

func plan(raw, opt robot.Program, est time.Duration, alternates int) *robot.Plan {
	p := &robot.Plan{}
	for i := 0; i < alternates; i++ {
		p.Candidates = append(p.Candidates, robot.Candidate{
			Raw:        raw,
			Program:    opt,
			RobotMoves: opt.RobotMoves(),
			Estimate:   est + time.Duration(i)*time.Second,
		})
	}
	return p
}

func TestCollectorSummary(t *testing.T) {
	c := NewCollector(true)
	c.Add(plan(robot.Program{robot.F3, robot.R1, robot.S3}, robot.Program{robot.F1, robot.R1, robot.S3}, 2*time.Second, 2))
	c.Add(plan(robot.Program{robot.R1}, robot.Program{robot.R1}, 4*time.Second, 1))
	c.Add(plan(robot.Program{robot.F2, robot.R3}, robot.Program{robot.F2, robot.R3}, 3*time.Second, 3))

	s := c.Summary()
	assert.Equal(t, 3, s.Programs)
	assert.InDelta(t, 7.0/3, s.MeanMoves, 1e-9)
	assert.Equal(t, 3, s.MaxMoves)
	assert.Equal(t, 3, s.MedianMoves)
	assert.Equal(t, map[int]int{1: 1, 3: 2}, s.MovesHistogram)
	assert.Equal(t, 3*time.Second, s.MeanEstimate)
	assert.Equal(t, 3, s.Flips)
	assert.Equal(t, 1, s.Spins)
	assert.Equal(t, 3, s.Rotations)
	assert.Equal(t, 2, s.SavedMoves)
	assert.InDelta(t, 2.0, s.MeanCandidates, 1e-9)

	assert.NotEmpty(t, c.NGrams(1, 1, 3).TopNGrams[1])
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector(false)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(plan(robot.Program{robot.R1}, robot.Program{robot.R1}, time.Second, 1))
		}()
	}
	wg.Wait()

	s := c.Summary()
	assert.Equal(t, 50, s.Programs)
	assert.Equal(t, map[int]int{1: 50}, s.MovesHistogram)
	assert.Empty(t, c.NGrams(2, 3, 5).TopNGrams)
}

func TestEmptySummary(t *testing.T) {
	s := NewCollector(false).Summary()
	assert.Zero(t, s.Programs)
	assert.Zero(t, s.MeanMoves)
}
