package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "solves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSolve(facelets string) *Solve {
	return &Solve{
		Facelets:       facelets,
		Metric:         "FTM",
		Layout:         "scanned",
		Solution:       "F3 U3 R3 (3f)",
		SolutionLength: 3,
		Program:        "F1R1S3F2R3",
		RobotMoves:     8,
		Estimate:       4200 * time.Millisecond,
		Candidates:     2,
	}
}

func TestOpenMigrates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solves.db")

	db, err := Open(path)
	require.NoError(t, err)
	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.Close())

	// Reopening must not re-run migrations.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	v, err = db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
}

func TestSolveCreateGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)

	in := sampleSolve("UUUURRRRFFFFDDDDLLLLBBBB")
	note := "first"
	in.Notes = &note
	id, err := repo.Create(in)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, in.SolveID, got.SolveID)
	assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, in.Facelets, got.Facelets)
	assert.Equal(t, in.Solution, got.Solution)
	assert.Equal(t, in.Program, got.Program)
	assert.Equal(t, in.RobotMoves, got.RobotMoves)
	assert.Equal(t, in.Estimate, got.Estimate)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "first", *got.Notes)

	_, err = repo.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSolveListOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)

	_, err := repo.GetLast()
	assert.ErrorIs(t, err, ErrNotFound)

	var ids []string
	for _, f := range []string{"A", "B", "C"} {
		id, err := repo.Create(sampleSolve(f))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].SolveID)
	assert.Equal(t, ids[0], list[2].SolveID)

	last, err := repo.GetLast()
	require.NoError(t, err)
	assert.Equal(t, ids[2], last.SolveID)

	found, err := repo.FindByFacelets("B")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ids[1], found[0].SolveID)
}

func TestRunsCascade(t *testing.T) {
	db := openTestDB(t)
	solves := NewSolveRepository(db)
	runs := NewRunRepository(db)

	id, err := solves.Create(sampleSolve("UUUURRRRFFFFDDDDLLLLBBBB"))
	require.NoError(t, err)

	reason := "servo stall"
	_, err = runs.Create(&Run{SolveID: id, Executor: "virtual", StartedAt: time.Now(), Duration: time.Second, RobotMoves: 8, Status: RunDone})
	require.NoError(t, err)
	_, err = runs.Create(&Run{SolveID: id, Executor: "cubotino-1", StartedAt: time.Now(), Status: RunError, Error: &reason})
	require.NoError(t, err)

	got, err := runs.GetBySolve(id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, RunDone, got[0].Status)
	assert.Equal(t, time.Second, got[0].Duration)
	require.NotNil(t, got[1].Error)
	assert.Equal(t, reason, *got[1].Error)

	_, err = runs.Create(&Run{SolveID: id, Executor: "virtual", StartedAt: time.Now(), Status: "exploded"})
	assert.Error(t, err)

	require.NoError(t, solves.Delete(id))
	n, err := runs.Count(id)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, solves.Delete(id), ErrNotFound)
}

func TestRunRequiresSolve(t *testing.T) {
	db := openTestDB(t)
	_, err := NewRunRepository(db).Create(&Run{SolveID: "nope", Executor: "virtual", StartedAt: time.Now(), Status: RunDone})
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	db := openTestDB(t)
	repo := NewSolveRepository(db)
	var ids []string
	for _, f := range []string{"A", "B", "C", "D"} {
		id, err := repo.Create(sampleSolve(f))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	removed, err := repo.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[3], list[0].SolveID)
	assert.Equal(t, ids[2], list[1].SolveID)
}
