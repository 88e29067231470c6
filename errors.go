package cubotino

import (
	"errors"
	"fmt"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/solver"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

// Sentinel errors for the cubotino package.
var (
	// Input errors: the scan is wrong, the caller may re-scan.
	ErrMalformedInput   = cube.ErrMalformed
	ErrUnreachableState = cube.ErrUnreachable

	// ErrInvariantViolation matches every defect of the solver or the
	// translator. Re-scanning the cube does not help.
	ErrInvariantViolation = errors.New("cubotino: invariant violation")

	// ErrSolverInvariant and ErrRobotInvariant tell the two defect sources
	// apart. Both also match ErrInvariantViolation.
	ErrSolverInvariant = solver.ErrInvariant
	ErrRobotInvariant  = robot.ErrInvariant

	ErrCorruptTables = tables.ErrCorrupt
)

// IsInputError reports whether err was caused by the facelet string rather
// than by the solver.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedInput) || errors.Is(err, ErrUnreachableState)
}

// classify makes solver and translator defects match ErrInvariantViolation.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrInvariantViolation) {
		return err
	}
	if errors.Is(err, ErrSolverInvariant) || errors.Is(err, ErrRobotInvariant) {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}
	return err
}
