package tables

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// Cache file layout: a 16-byte little-endian header followed by the table.
//
//	magic   [4]byte "CB22"
//	version uint16
//	kind    uint8
//	metric  uint8
//	count   uint32  number of entries
//	_       uint32
const (
	headerSize = 16

	// Version changes whenever the coordinate or move encoding changes.
	Version = 1
)

var magic = [4]byte{'C', 'B', '2', '2'}

// errStale marks a cache file whose header does not match the table asked for.
var errStale = errors.New("tables: stale cache file")

type kind uint8

const (
	kindPermMove kind = iota + 1
	kindTwistMove
	kindPrune
)

type header struct {
	Magic   [4]byte
	Version uint16
	Kind    kind
	Metric  Metric
	Count   uint32
	_       uint32
}

// File names inside the cache directory. Move tables do not depend on the
// metric and are shared.
const (
	PermMoveFile  = "move_cornperm.bin"
	TwistMoveFile = "move_corntwist.bin"
)

// PruneFile returns the pruning table file name for the metric.
func PruneFile(m Metric) string {
	return "cornerprun_" + m.String() + ".bin"
}

// DefaultDir returns the default cache directory (~/.cubotino/tables).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cubotino", "tables")
	}
	return filepath.Join(home, ".cubotino", "tables")
}

func writeTable(path string, h header, data any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		tmp.Close()
		return fmt.Errorf("write table: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close table: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func readTable(path string, want header, data any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w: %s: short header", errStale, filepath.Base(path))
	}
	if h.Magic != want.Magic || h.Version != want.Version || h.Kind != want.Kind ||
		h.Metric != want.Metric || h.Count != want.Count {
		return fmt.Errorf("%w: %s: version %d kind %d metric %s count %d",
			errStale, filepath.Base(path), h.Version, h.Kind, h.Metric, h.Count)
	}
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("%w: %s: %v", errStale, filepath.Base(path), err)
	}
	if _, err := r.ReadByte(); err != io.EOF {
		return fmt.Errorf("%w: %s: trailing data", errStale, filepath.Base(path))
	}
	return nil
}

func newHeader(k kind, m Metric, count int) header {
	return header{Magic: magic, Version: Version, Kind: k, Metric: m, Count: uint32(count)}
}

// Store persists tables in a directory.
type Store struct {
	Dir    string
	Logger *slog.Logger
}

// NewStore returns a store rooted at dir. An empty dir selects DefaultDir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Dir: dir, Logger: logger}
}

// Load reads the tables for metric from the cache, building and writing any
// file that is missing or stale.
func (s *Store) Load(metric Metric) (*Tables, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	t := &Tables{Metric: metric}

	perm, err := loadOrBuild(s, PermMoveFile, newHeader(kindPermMove, FTM, cube.NumPerm*cube.NumGenerators),
		func() ([]uint16, error) { return BuildPermMove(), nil })
	if err != nil {
		return nil, err
	}
	twist, err := loadOrBuild(s, TwistMoveFile, newHeader(kindTwistMove, FTM, cube.NumTwist*cube.NumGenerators),
		func() ([]uint16, error) { return BuildTwistMove(), nil })
	if err != nil {
		return nil, err
	}
	prune, err := loadOrBuild(s, PruneFile(metric), newHeader(kindPrune, metric, cube.NumStates),
		func() ([]int8, error) { return BuildPrune(perm, twist, metric) })
	if err != nil {
		return nil, err
	}
	t.PermMove, t.TwistMove, t.Prune = perm, twist, prune
	return t, nil
}

func loadOrBuild[T uint16 | int8](s *Store, name string, h header, build func() ([]T, error)) ([]T, error) {
	path := filepath.Join(s.Dir, name)
	data := make([]T, h.Count)
	err := readTable(path, h, data)
	if err == nil {
		err = checkRange(data, h)
	}
	switch {
	case err == nil:
		s.Logger.Debug("loaded table", slog.String("file", name))
		return data, nil
	case errors.Is(err, errStale):
		s.Logger.Warn("discarding cached table", slog.String("file", name), slog.String("reason", err.Error()))
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	s.Logger.Info("creating table", slog.String("file", name))
	start := time.Now()
	data, err = build()
	if err != nil {
		return nil, err
	}
	if err := writeTable(path, h, data); err != nil {
		return nil, err
	}
	s.Logger.Info("table written",
		slog.String("file", name),
		slog.Int("entries", len(data)),
		slog.Duration("elapsed", time.Since(start)))
	return data, nil
}

// checkRange rejects entries a finished table can never hold.
func checkRange[T uint16 | int8](data []T, h header) error {
	limit := cube.NumPerm
	if h.Kind == kindTwistMove {
		limit = cube.NumTwist
	}
	for i, v := range data {
		if v < 0 || (h.Kind != kindPrune && int(v) >= limit) {
			return fmt.Errorf("%w: entry %d out of range", errStale, i)
		}
	}
	return nil
}

// BuildOrLoad loads the tables for metric from dir, creating them on first
// use. Use one call per process before serving solves.
func BuildOrLoad(dir string, metric Metric, logger *slog.Logger) (*Tables, error) {
	return NewStore(dir, logger).Load(metric)
}
