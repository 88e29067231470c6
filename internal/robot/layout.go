package robot

import (
	"fmt"
	"strings"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// Layout names how the cube sits on the robot when a program starts.
type Layout uint8

const (
	// Scanned is the orientation left by the scanning routine: the cube's
	// U face at Front, F at Left and L at Up, with the reference corner in
	// slot 2.
	Scanned Layout = iota
	// Simulation holds the cube in the facelet string's orientation, with
	// the reference corner in slot 5.
	Simulation
)

func (l Layout) String() string {
	switch l {
	case Scanned:
		return "scanned"
	case Simulation:
		return "simulation"
	default:
		return fmt.Sprintf("Layout(%d)", uint8(l))
	}
}

// ParseLayout accepts "scanned" or "simulation".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scanned", "robot", "":
		return Scanned, nil
	case "simulation", "sim", "urf":
		return Simulation, nil
	}
	return Scanned, fmt.Errorf("robot: unknown layout %q", s)
}

// Tracker returns a fresh tracker for the layout.
func (l Layout) Tracker() Tracker {
	if l == Simulation {
		return Tracker{
			Vertical:   [3]cube.Face{cube.U, cube.F, cube.D},
			Horizontal: [3]cube.Face{cube.L, cube.F, cube.R},
			Slot:       5,
		}
	}
	return Tracker{
		Vertical:   [3]cube.Face{cube.L, cube.U, cube.R},
		Horizontal: [3]cube.Face{cube.F, cube.U, cube.B},
		Slot:       2,
	}
}

// Physical returns the stickers as seen from the robot's sides, given the
// facelet string read in the scanning frame.
func (l Layout) Physical(f cube.Facelets) cube.Facelets {
	if l == Simulation {
		return f
	}
	return f.Apply(spinCCWPerm).Apply(flipPerm)
}
