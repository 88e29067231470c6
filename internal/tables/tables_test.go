package tables

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

var (
	ftmHistogram = []int{1, 9, 54, 321, 1847, 9992, 50136, 227536, 870072, 1887748, 623800, 2644}
	qtmHistogram = []int{1, 6, 27, 120, 534, 2256, 8969, 33058, 114149, 360508, 930588, 1350852, 782536, 90280, 276}
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func TestMoveTablesMatchCubieMoves(t *testing.T) {
	perm := BuildPermMove()
	twist := BuildTwistMove()
	for p := 0; p < cube.NumPerm; p += 37 {
		for tw := 0; tw < cube.NumTwist; tw += 11 {
			c := cube.FromCoords(p, tw)
			for m := cube.Move(0); m < cube.NumGenerators; m++ {
				next := c.Move(m)
				require.Equal(t, next.Perm(), int(perm[cube.NumGenerators*p+int(m)]), "perm %d move %s", p, m)
				require.Equal(t, next.Twist(), int(twist[cube.NumGenerators*tw+int(m)]), "twist %d move %s", tw, m)
			}
		}
	}
}

func TestPruneDistribution(t *testing.T) {
	tests := []struct {
		metric Metric
		want   []int
	}{
		{FTM, ftmHistogram},
		{QTM, qtmHistogram},
	}
	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			tb, err := Build(tt.metric)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tb.Histogram())
			assert.Equal(t, 0, tb.Depth(0, 0))
		})
	}
}

func TestBuildPruneRejectsBrokenMoveTable(t *testing.T) {
	perm := BuildPermMove()
	twist := make([]uint16, cube.NumTwist*cube.NumGenerators)
	_, err := BuildPrune(perm, twist, FTM)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = BuildPrune(perm[:10], BuildTwistMove(), FTM)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStoreWritesThenLoads(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	store := NewStore(dir, quietLogger(&logs))

	first, err := store.Load(FTM)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "creating table")
	for _, name := range []string{PermMoveFile, TwistMoveFile, PruneFile(FTM)} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	logs.Reset()
	second, err := store.Load(FTM)
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "creating table")
	assert.Equal(t, first.Prune, second.Prune)
	assert.Equal(t, first.PermMove, second.PermMove)
	assert.Equal(t, first.TwistMove, second.TwistMove)
}

func TestStoreSharesMoveTablesAcrossMetrics(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	store := NewStore(dir, quietLogger(&logs))

	_, err := store.Load(FTM)
	require.NoError(t, err)
	logs.Reset()

	q, err := store.Load(QTM)
	require.NoError(t, err)
	assert.Equal(t, QTM, q.Metric)
	assert.NotContains(t, logs.String(), PermMoveFile)
	assert.Contains(t, logs.String(), PruneFile(QTM))
	assert.Equal(t, qtmHistogram, q.Histogram())
}

func TestStoreRebuildsStaleHeader(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	store := NewStore(dir, quietLogger(&logs))
	_, err := store.Load(FTM)
	require.NoError(t, err)

	// Rewrite the pruning table with a different version number.
	path := filepath.Join(dir, PruneFile(FTM))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	binary.LittleEndian.PutUint16(raw[4:6], Version+1)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	logs.Reset()
	tb, err := store.Load(FTM)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "discarding cached table")
	assert.Equal(t, ftmHistogram, tb.Histogram())

	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(Version), binary.LittleEndian.Uint16(raw[4:6]))
}

func TestStoreRebuildsWrongMetricAndTruncatedFiles(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	store := NewStore(dir, quietLogger(&logs))
	_, err := store.Load(QTM)
	require.NoError(t, err)

	// A QTM table saved under the FTM name must not be trusted.
	require.NoError(t, os.Rename(filepath.Join(dir, PruneFile(QTM)), filepath.Join(dir, PruneFile(FTM))))
	// A truncated move table must not be trusted either.
	path := filepath.Join(dir, TwistMoveFile)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)/2], 0o644))

	logs.Reset()
	tb, err := store.Load(FTM)
	require.NoError(t, err)
	assert.Equal(t, FTM, tb.Metric)
	assert.Equal(t, ftmHistogram, tb.Histogram())
	assert.Contains(t, logs.String(), TwistMoveFile)
	assert.Contains(t, logs.String(), PruneFile(FTM))
}

func TestStoreRebuildsUnvisitedEntries(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	store := NewStore(dir, quietLogger(&logs))
	_, err := store.Load(FTM)
	require.NoError(t, err)

	path := filepath.Join(dir, PruneFile(FTM))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[headerSize+100] = 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	logs.Reset()
	tb, err := store.Load(FTM)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "discarding cached table")
	assert.Equal(t, ftmHistogram, tb.Histogram())
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"ftm", FTM, false},
		{"HTM", FTM, false},
		{" qtm ", QTM, false},
		{"stm", FTM, true},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMetricLength(t *testing.T) {
	moves := []cube.Move{cube.U1, cube.R2, cube.F3}
	assert.Equal(t, 3, FTM.Length(moves))
	assert.Equal(t, 4, QTM.Length(moves))
	assert.False(t, QTM.Allows(cube.R2))
	assert.True(t, FTM.Allows(cube.R2))
}
