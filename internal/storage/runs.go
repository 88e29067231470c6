package storage

import (
	"fmt"
	"time"
)

// Run statuses.
const (
	RunDone    = "done"
	RunError   = "error"
	RunAborted = "aborted"
)

// Run records one execution of a solve's program.
type Run struct {
	RunID      int64
	SolveID    string
	Executor   string // "virtual" or the robot's BLE name
	StartedAt  time.Time
	Duration   time.Duration
	RobotMoves int
	Status     string
	Error      *string
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create stores a run and returns its ID.
func (r *RunRepository) Create(run *Run) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO runs (solve_id, executor, started_at, duration_ms, robot_moves, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.SolveID, run.Executor, run.StartedAt.UTC().Format(timeLayout),
		run.Duration.Milliseconds(), run.RobotMoves, run.Status, run.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	run.RunID = id
	return id, nil
}

// GetBySolve retrieves all runs of a solve in start order.
func (r *RunRepository) GetBySolve(solveID string) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT run_id, solve_id, executor, started_at, duration_ms, robot_moves, status, error
		FROM runs
		WHERE solve_id = ?
		ORDER BY started_at, run_id
	`, solveID)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		var durationMs int64
		err := rows.Scan(&run.RunID, &run.SolveID, &run.Executor, &startedAt,
			&durationMs, &run.RobotMoves, &run.Status, &run.Error)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(timeLayout, startedAt)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Count returns the number of runs of a solve.
func (r *RunRepository) Count(solveID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM runs WHERE solve_id = ?", solveID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
