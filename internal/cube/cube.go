// Package cube provides a 2x2x2 Rubik's cube model: faces and moves, the
// 24-sticker facelet cube, the corner-level cubie cube and the two integer
// coordinates the solver works on.
package cube

import "fmt"

// Face represents a cube face. The order matches the facelet string layout.
type Face uint8

const (
	U Face = iota // Up
	R             // Right
	F             // Front
	D             // Down
	L             // Left
	B             // Back
)

// NumFaces is the number of cube faces.
const NumFaces = 6

const faceNames = "URFDLB"

func (f Face) String() string {
	if f >= NumFaces {
		return "?"
	}
	return faceNames[f : f+1]
}

// Opposite returns the face on the other side of the cube.
func (f Face) Opposite() Face {
	return (f + 3) % NumFaces
}

// ParseFace converts a face letter into a Face.
func ParseFace(c byte) (Face, bool) {
	for i := 0; i < NumFaces; i++ {
		if faceNames[i] == c {
			return Face(i), true
		}
	}
	return 0, false
}

// Amount is the size of a face turn in quarter turns, clockwise as seen
// looking at the face.
type Amount uint8

const (
	CW   Amount = 1 // 90 degrees clockwise
	Half Amount = 2 // 180 degrees
	CCW  Amount = 3 // 90 degrees counter-clockwise
)

// Inverse returns the amount that undoes a.
func (a Amount) Inverse() Amount {
	return 4 - a
}

// Move is a face turn, encoded as 3*face + amount - 1. The first nine moves
// (U, R and F turns) are the generators used by the solver.
type Move uint8

const (
	U1 Move = iota
	U2
	U3
	R1
	R2
	R3
	F1
	F2
	F3
	D1
	D2
	D3
	L1
	L2
	L3
	B1
	B2
	B3
)

const (
	// NumMoves counts every face turn of the six faces.
	NumMoves = 18
	// NumGenerators counts the U, R and F turns.
	NumGenerators = 9
)

// NewMove builds the move turning face f by amount a.
func NewMove(f Face, a Amount) Move {
	return Move(uint8(f)*3 + uint8(a) - 1)
}

// Face returns the turned face.
func (m Move) Face() Face { return Face(m / 3) }

// Amount returns the turn amount.
func (m Move) Amount() Amount { return Amount(m%3 + 1) }

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	return NewMove(m.Face(), m.Amount().Inverse())
}

// Quarters returns the move length in the quarter-turn metric.
func (m Move) Quarters() int {
	if m.Amount() == Half {
		return 2
	}
	return 1
}

// String returns the solver notation, for example "R3".
func (m Move) String() string {
	if m >= NumMoves {
		return fmt.Sprintf("Move(%d)", uint8(m))
	}
	return fmt.Sprintf("%s%d", m.Face(), m.Amount())
}

// Notation returns the standard cube notation, for example "R'".
func (m Move) Notation() string {
	switch m.Amount() {
	case Half:
		return m.Face().String() + "2"
	case CCW:
		return m.Face().String() + "'"
	default:
		return m.Face().String()
	}
}
