package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("storage: not found")

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Solve is one planned solve: the scanned cube, the chosen solution and the
// robot program it was translated into.
type Solve struct {
	SolveID        string
	CreatedAt      time.Time
	Facelets       string
	Metric         string
	Layout         string
	Solution       string // formatted, e.g. "F3 U3 R3 (3f)"
	SolutionLength int
	Program        string
	RobotMoves     int
	Estimate       time.Duration
	Candidates     int
	Notes          *string
}

// SolveRepository provides CRUD operations for solves.
type SolveRepository struct {
	db *DB
}

// NewSolveRepository creates a new solve repository.
func NewSolveRepository(db *DB) *SolveRepository {
	return &SolveRepository{db: db}
}

// Create stores s with a fresh ID and creation time and returns the ID.
func (r *SolveRepository) Create(s *Solve) (string, error) {
	s.SolveID = uuid.New().String()
	s.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.db.Exec(`
		INSERT INTO solves (solve_id, created_at, facelets, metric, layout, solution,
			solution_length, program, robot_moves, estimate_ms, candidates, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.SolveID, s.CreatedAt.Format(timeLayout), s.Facelets, s.Metric, s.Layout, s.Solution,
		s.SolutionLength, s.Program, s.RobotMoves, s.Estimate.Milliseconds(), s.Candidates, s.Notes)
	if err != nil {
		return "", fmt.Errorf("failed to create solve: %w", err)
	}

	return s.SolveID, nil
}

const solveColumns = `solve_id, created_at, facelets, metric, layout, solution,
	solution_length, program, robot_moves, estimate_ms, candidates, notes`

type scanner interface {
	Scan(dest ...any) error
}

func scanSolve(row scanner) (*Solve, error) {
	var s Solve
	var createdAt string
	var estimateMs int64
	err := row.Scan(&s.SolveID, &createdAt, &s.Facelets, &s.Metric, &s.Layout, &s.Solution,
		&s.SolutionLength, &s.Program, &s.RobotMoves, &estimateMs, &s.Candidates, &s.Notes)
	if err != nil {
		return nil, err
	}
	s.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	s.Estimate = time.Duration(estimateMs) * time.Millisecond
	return &s, nil
}

// Get retrieves a solve by ID.
func (r *SolveRepository) Get(solveID string) (*Solve, error) {
	s, err := scanSolve(r.db.QueryRow(`SELECT `+solveColumns+` FROM solves WHERE solve_id = ?`, solveID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: solve %s", ErrNotFound, solveID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solve: %w", err)
	}
	return s, nil
}

// GetLast retrieves the most recent solve.
func (r *SolveRepository) GetLast() (*Solve, error) {
	list, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no solves recorded", ErrNotFound)
	}
	return &list[0], nil
}

// FindByFacelets returns every solve of the given cube, newest first.
func (r *SolveRepository) FindByFacelets(facelets string) ([]Solve, error) {
	return r.query(`SELECT `+solveColumns+` FROM solves WHERE facelets = ? ORDER BY created_at DESC, rowid DESC`, facelets)
}

// List retrieves the most recent solves, newest first.
func (r *SolveRepository) List(limit int) ([]Solve, error) {
	return r.query(`SELECT `+solveColumns+` FROM solves ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

func (r *SolveRepository) query(q string, args ...any) ([]Solve, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solves: %w", err)
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		s, err := scanSolve(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solve: %w", err)
		}
		solves = append(solves, *s)
	}
	return solves, rows.Err()
}

// Delete deletes a solve and its runs.
func (r *SolveRepository) Delete(solveID string) error {
	res, err := r.db.Exec("DELETE FROM solves WHERE solve_id = ?", solveID)
	if err != nil {
		return fmt.Errorf("failed to delete solve: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: solve %s", ErrNotFound, solveID)
	}
	return nil
}

// Prune deletes all but the newest keep solves and returns how many were
// removed. Their runs go with them.
func (r *SolveRepository) Prune(keep int) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			DELETE FROM solves WHERE solve_id NOT IN (
				SELECT solve_id FROM solves ORDER BY created_at DESC, rowid DESC LIMIT ?
			)
		`, keep)
		if err != nil {
			return fmt.Errorf("failed to prune solves: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}
