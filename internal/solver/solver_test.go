package solver

import (
	"math/rand/v2"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

var ftmTables, qtmTables *tables.Tables

func TestMain(m *testing.M) {
	var err error
	if ftmTables, err = tables.Build(tables.FTM); err != nil {
		panic(err)
	}
	if qtmTables, err = tables.Build(tables.QTM); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestSolvedCubeNeedsNoMoves(t *testing.T) {
	res, err := New(ftmTables).Solve(cube.SolvedString)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Depth)
	require.Len(t, res.Solutions, 1)
	assert.Empty(t, res.Solutions[0])
	assert.Equal(t, "(0f)", res.Solutions[0].Format(tables.FTM))
}

func TestSingleQuarterTurn(t *testing.T) {
	s := New(ftmTables)
	for m := cube.Move(0); m < cube.NumGenerators; m++ {
		f := cube.SolvedFacelets().ApplyMove(m)
		res, err := s.SolveFacelets(f)
		require.NoError(t, err, m.String())
		require.Len(t, res.Solutions, 1, m.String())
		assert.Equal(t, Solution{m.Inverse()}, res.Solutions[0], m.String())
	}
}

func TestKnownScramble(t *testing.T) {
	f := cube.SolvedFacelets().ApplyMoves([]cube.Move{cube.R1, cube.U1, cube.F1})
	res, err := New(ftmTables).SolveFacelets(f)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Depth)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, "F3 U3 R3 (3f)", res.Solutions[0].Format(tables.FTM))
}

func TestOptimalAndSound(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 13))
	for _, tb := range []*tables.Tables{ftmTables, qtmTables} {
		s := New(tb)
		for i := 0; i < 150; i++ {
			f := cube.Random(r)
			res, err := s.SolveFacelets(f)
			require.NoError(t, err, f.String())
			require.NotEmpty(t, res.Solutions)
			for _, sol := range res.Solutions {
				assert.Len(t, sol, res.Depth, "%s %s", tb.Metric, f)

				perm, twist := res.Perm, res.Twist
				for _, m := range sol {
					perm, twist = tb.Next(perm, twist, m)
				}
				assert.Equal(t, 0, perm)
				assert.Equal(t, 0, twist)

				assert.True(t, f.ApplyMoves(sol).IsSolved(), "%s does not solve %s", sol.Moves(), f)
				assert.True(t, f.ApplyMoves(sol.Compact()).IsSolved())
				assert.Equal(t, res.Depth, tb.Metric.Length(sol.Compact()))
			}
		}
	}
}

func TestSolutionsRespectMoveRules(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 8))
	for i := 0; i < 50; i++ {
		f := cube.Random(r)

		res, err := New(ftmTables).SolveFacelets(f)
		require.NoError(t, err)
		for _, sol := range res.Solutions {
			for j := 1; j < len(sol); j++ {
				assert.NotEqual(t, sol[j-1].Face(), sol[j].Face(), sol.Moves())
			}
		}

		res, err = New(qtmTables).SolveFacelets(f)
		require.NoError(t, err)
		for _, sol := range res.Solutions {
			for j, m := range sol {
				assert.NotEqual(t, cube.Half, m.Amount(), sol.Moves())
				if j > 0 && sol[j-1].Face() == m.Face() {
					assert.Equal(t, cube.CW, m.Amount(), sol.Moves())
					assert.Equal(t, cube.CW, sol[j-1].Amount(), sol.Moves())
				}
			}
		}
	}
}

func TestDeepestState(t *testing.T) {
	res, err := New(ftmTables).Solve("BUUFURDDFRLRFFDBULLDBLRB")
	require.NoError(t, err)
	assert.Equal(t, 11, res.Depth)
	for _, sol := range res.Solutions {
		assert.True(t, res.Facelets.ApplyMoves(sol).IsSolved())
	}
}

func TestDecodeErrorsPropagate(t *testing.T) {
	s := New(ftmTables)
	_, err := s.Solve("UUUURRRRFFFF")
	assert.ErrorIs(t, err, cube.ErrMalformed)
	_, err = s.Solve("UUUFURRRFRFFDDDDLLLLBBBB")
	assert.ErrorIs(t, err, cube.ErrUnreachable)
}

func TestBrokenPruneTableIsInvariantViolation(t *testing.T) {
	broken := *ftmTables
	broken.Prune = append([]int8(nil), ftmTables.Prune...)
	c, err := cube.DecodeString("BUUFURDDFRLRFFDBULLDBLRB")
	require.NoError(t, err)
	broken.Prune[cube.Index(c.Perm(), c.Twist())] = 1

	_, err = New(&broken).SolveCoords(c.Perm(), c.Twist())
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestConcurrentSolves(t *testing.T) {
	s := New(ftmTables)
	r := rand.New(rand.NewPCG(21, 34))
	inputs := make([]cube.Facelets, 32)
	for i := range inputs {
		inputs[i] = cube.Random(r)
	}
	var wg sync.WaitGroup
	errs := make([]error, len(inputs))
	for i, f := range inputs {
		wg.Add(1)
		go func(i int, f cube.Facelets) {
			defer wg.Done()
			res, err := s.SolveFacelets(f)
			if err == nil && !f.ApplyMoves(res.Solutions[0]).IsSolved() {
				err = assert.AnError
			}
			errs[i] = err
		}(i, f)
	}
	wg.Wait()
	for i, err := range errs {
		assert.NoError(t, err, inputs[i].String())
	}
}

func TestCompactAndFormat(t *testing.T) {
	sol := Solution{cube.U1, cube.U1, cube.R3, cube.F1, cube.F1}
	assert.Equal(t, Solution{cube.U2, cube.R3, cube.F2}, sol.Compact())
	assert.Equal(t, "U1 U1 R3 F1 F1 (5q)", sol.Format(tables.QTM))
	// A compacted half turn still counts two quarter turns.
	assert.Equal(t, "U2 R3 F2 (5q)", sol.Compact().Format(tables.QTM))
	assert.Equal(t, "U2 R3 F2 (3f)", sol.Compact().Format(tables.FTM))
	assert.Equal(t, Solution{cube.F3, cube.F3, cube.R1, cube.U3, cube.U3}, sol.Inverse())
}
