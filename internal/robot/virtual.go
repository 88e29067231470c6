package robot

import "github.com/AndreaFavero71/cubotino-pocket/internal/cube"

// Sticker permutations of the robot motions, in robot coordinates.
var (
	flipPerm      = cube.Perm{23, 22, 21, 20, 5, 7, 4, 6, 0, 1, 2, 3, 8, 9, 10, 11, 18, 16, 19, 17, 15, 14, 13, 12}
	spinCWPerm    = cube.Perm{1, 3, 0, 2, 8, 9, 10, 11, 16, 17, 18, 19, 14, 12, 15, 13, 20, 21, 22, 23, 4, 5, 6, 7}
	spinCCWPerm   = cube.Perm{2, 0, 3, 1, 20, 21, 22, 23, 4, 5, 6, 7, 13, 15, 12, 14, 8, 9, 10, 11, 16, 17, 18, 19}
	rotateCWPerm  = cube.Perm{0, 1, 2, 3, 4, 5, 10, 11, 8, 9, 18, 19, 14, 12, 15, 13, 16, 17, 22, 23, 20, 21, 6, 7}
	rotateCCWPerm = cube.Perm{0, 1, 2, 3, 4, 5, 22, 23, 8, 9, 6, 7, 13, 15, 12, 14, 16, 17, 10, 11, 20, 21, 18, 19}
)

// PrimitivePerm returns the sticker permutation of p.
func PrimitivePerm(p Primitive) cube.Perm {
	switch p.Kind {
	case Flip:
		return flipPerm.Power(int(p.N))
	case Spin:
		if p.N == 3 {
			return spinCCWPerm
		}
		return spinCWPerm.Power(int(p.N))
	default:
		if p.N == 3 {
			return rotateCCWPerm
		}
		return rotateCWPerm.Power(int(p.N))
	}
}

// Replay runs prog on a virtual cube held as f and returns the stickers
// afterwards, in robot coordinates.
func Replay(f cube.Facelets, prog Program) cube.Facelets {
	for _, p := range prog {
		f = f.Apply(PrimitivePerm(p))
	}
	return f
}

// VirtualRobot is an Executor that replays programs on a simulated cube.
type VirtualRobot struct {
	cube  cube.Facelets
	moves int
}

// NewVirtualRobot places the scanned stickers f on a virtual robot in the
// given layout.
func NewVirtualRobot(f cube.Facelets, layout Layout) *VirtualRobot {
	return &VirtualRobot{cube: layout.Physical(f)}
}

// Cube returns the virtual cube's stickers in robot coordinates.
func (v *VirtualRobot) Cube() cube.Facelets {
	return v.cube
}

// RobotMoves returns the servo actions executed so far.
func (v *VirtualRobot) RobotMoves() int {
	return v.moves
}

// Solved reports whether every face of the virtual cube is one color.
func (v *VirtualRobot) Solved() bool {
	return v.cube.IsUniform()
}
