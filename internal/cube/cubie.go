package cube

import "fmt"

// Corner names a corner position (and the cubie that belongs there).
type Corner uint8

const (
	URF Corner = iota
	UFL
	ULB
	UBR
	DFR
	DLF
	DBL
	DRB
)

// NumCorners is the number of corners of the cube.
const NumCorners = 8

// Reference is the corner held fixed by the solver. Its position and
// orientation define the frame in which U, R and F are turned.
const Reference = DBL

var cornerNames = [NumCorners]string{"URF", "UFL", "ULB", "UBR", "DFR", "DLF", "DBL", "DRB"}

func (c Corner) String() string {
	if c >= NumCorners {
		return "?"
	}
	return cornerNames[c]
}

// cornerFacelet lists the stickers of each corner position, starting with
// the U or D sticker and going clockwise.
var cornerFacelet = [NumCorners][3]uint8{
	URF: {3, 4, 9},
	UFL: {2, 8, 17},
	ULB: {0, 16, 21},
	UBR: {1, 20, 5},
	DFR: {13, 11, 6},
	DLF: {12, 19, 10},
	DBL: {14, 23, 18},
	DRB: {15, 7, 22},
}

// cornerColor lists the colors of each corner cubie in cornerFacelet order.
var cornerColor = [NumCorners][3]Face{
	URF: {U, R, F},
	UFL: {U, F, L},
	ULB: {U, L, B},
	UBR: {U, B, R},
	DFR: {D, F, R},
	DLF: {D, L, F},
	DBL: {D, B, L},
	DRB: {D, R, B},
}

// CornerFacelets returns the sticker positions of corner c.
func CornerFacelets(c Corner) [3]uint8 {
	return cornerFacelet[c]
}

// Cubie is the corner-level state: CP[i] is the cubie at position i and
// CO[i] its clockwise twist (0, 1 or 2).
type Cubie struct {
	CP [NumCorners]Corner
	CO [NumCorners]uint8
}

// SolvedCubie returns the solved corner state.
func SolvedCubie() Cubie {
	var c Cubie
	for i := range c.CP {
		c.CP[i] = Corner(i)
	}
	return c
}

// Multiply returns c followed by the move or state b.
func (c Cubie) Multiply(b Cubie) Cubie {
	var out Cubie
	for i := 0; i < NumCorners; i++ {
		out.CP[i] = c.CP[b.CP[i]]
		out.CO[i] = (c.CO[b.CP[i]] + b.CO[i]) % 3
	}
	return out
}

// generators holds the clockwise quarter turns of U, R and F.
var generators = [3]Cubie{
	{CP: [8]Corner{UBR, URF, UFL, ULB, DFR, DLF, DBL, DRB}},
	{CP: [8]Corner{DFR, UFL, ULB, URF, DRB, DLF, DBL, UBR}, CO: [8]uint8{2, 0, 0, 1, 1, 0, 0, 2}},
	{CP: [8]Corner{UFL, DLF, ULB, UBR, URF, DFR, DBL, DRB}, CO: [8]uint8{1, 2, 0, 0, 2, 1, 0, 0}},
}

// Move applies generator move m (U, R or F turns only).
func (c Cubie) Move(m Move) Cubie {
	if m >= NumGenerators {
		panic(fmt.Sprintf("cube: %s is not a generator move", m))
	}
	g := generators[m.Face()]
	for i := Amount(0); i < m.Amount(); i++ {
		c = c.Multiply(g)
	}
	return c
}

// Facelets paints the stickers of c.
func (c Cubie) Facelets() Facelets {
	var f Facelets
	for i := 0; i < NumCorners; i++ {
		j := c.CP[i]
		ori := c.CO[i]
		for k := uint8(0); k < 3; k++ {
			f[cornerFacelet[i][(k+ori)%3]] = cornerColor[j][k]
		}
	}
	return f
}

// Verify checks that c is a permutation with a twist sum divisible by three.
func (c Cubie) Verify() error {
	var seen [NumCorners]bool
	sum := 0
	for i := 0; i < NumCorners; i++ {
		if c.CP[i] >= NumCorners || seen[c.CP[i]] {
			return fmt.Errorf("%w: corner %s appears twice", ErrUnreachable, c.CP[i])
		}
		seen[c.CP[i]] = true
		if c.CO[i] > 2 {
			return fmt.Errorf("%w: twist %d at %s", ErrUnreachable, c.CO[i], Corner(i))
		}
		sum += int(c.CO[i])
	}
	if sum%3 != 0 {
		return fmt.Errorf("%w: twisted corner", ErrUnreachable)
	}
	return nil
}
