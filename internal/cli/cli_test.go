package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTranslateCommand(t *testing.T) {
	out, err := run(t, "--config-dir", t.TempDir(), "--layout", "simulation", "translate", "B1")
	require.NoError(t, err)
	assert.Contains(t, out, "F3R1S3")
	assert.Contains(t, out, "F1R1S3")

	_, err = run(t, "--config-dir", t.TempDir(), "translate", "X2")
	assert.ErrorIs(t, err, cube.ErrMalformed)
}

func TestPlanRecordAndHistory(t *testing.T) {
	dir := t.TempDir()
	f := cube.SolvedFacelets().ApplyMoves([]cube.Move{cube.R1, cube.U1, cube.F1}).String()

	out, err := run(t, "--config-dir", dir, "--layout", "scanned", "plan", "--record", f)
	require.NoError(t, err)
	assert.Contains(t, out, "Program:")
	assert.Contains(t, out, "Recorded:")

	out, err = run(t, "--config-dir", dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, f)

	out, err = run(t, "--config-dir", dir, "history", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "(3f)")
}

func TestVerifyStates(t *testing.T) {
	tb, err := tables.Build(tables.FTM)
	require.NoError(t, err)
	s := solver.New(tb)

	for _, layout := range []robot.Layout{robot.Scanned, robot.Simulation} {
		planner := robot.NewPlanner(layout)
		r, err := verifyStates(context.Background(), s, planner, 500, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(500), r.States)
		assert.Empty(t, r.Failures)
		assert.Greater(t, r.Programs, int64(500))
		assert.NotEmpty(t, r.Worst)
		assert.Equal(t, 500, r.Summary.Programs)
		assert.Positive(t, r.Summary.MaxMoves)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = verifyStates(ctx, s, robot.NewPlanner(robot.Scanned), 500, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulateOne(t *testing.T) {
	tb, err := tables.Build(tables.QTM)
	require.NoError(t, err)
	s := solver.New(tb)

	f, err := cube.ParseFacelets("BUUFURDDFRLRFFDBULLDBLRB")
	require.NoError(t, err)
	sim, err := simulateOne(s, robot.NewPlanner(robot.Scanned), f)
	require.NoError(t, err)
	assert.True(t, sim.Solved)
	assert.Equal(t, sim.Program.RobotMoves(), sim.RobotMoves)
	assert.True(t, strings.HasSuffix(sim.Solution, "q)"))
}

func TestReplayModel(t *testing.T) {
	tb, err := tables.Build(tables.FTM)
	require.NoError(t, err)
	res, err := solver.New(tb).Solve("BUUFURDDFRLRFFDBULLDBLRB")
	require.NoError(t, err)
	p, err := planResult(robot.NewPlanner(robot.Scanned), res)
	require.NoError(t, err)

	m := newReplayModel(res.Facelets, p, "x", robot.DefaultTiming(), 1, true)
	n := len(p.Chosen().Program)
	require.Len(t, m.frames, n+1)
	assert.False(t, m.frames[0].IsUniform())

	next := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
	for i := 0; i < n+3; i++ {
		m.Update(next)
	}
	assert.Equal(t, n, m.index)
	assert.Contains(t, m.View(), "SOLVED!")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	assert.Equal(t, n-1, m.index)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, 0, m.index)

	// Ticks are ignored while paused.
	m.Update(replayTickMsg{})
	assert.Equal(t, 0, m.index)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Replay ended.\n", m.View())
}

func TestRenderNet(t *testing.T) {
	net := renderNet(cube.SolvedFacelets())
	lines := strings.Split(strings.TrimRight(net, "\n"), "\n")
	assert.Len(t, lines, 6)
	for _, face := range "URFDLB" {
		assert.Equal(t, 4, strings.Count(net, string(face)), string(face))
	}
}
