package robot

import (
	"fmt"

	"github.com/AndreaFavero71/cubotino-pocket/internal/cube"
)

// Side is a fixed position on the robot. Down is the layer the holder turns.
type Side uint8

const (
	Up Side = iota
	Right
	Front
	Down
	Left
	Back
)

// NumSides is the number of robot sides.
const NumSides = 6

func (s Side) String() string {
	if s >= NumSides {
		return "?"
	}
	return "URFDLB"[s : s+1]
}

// Corner slots on the robot, numbered top layer first, back row before front
// row, left before right.
//
//	top:    1 2    bottom: 5 6
//	        3 4            7 8
var (
	flipSlot    = [9]uint8{0, 3, 4, 7, 8, 1, 2, 5, 6}
	spinCWSlot  = [9]uint8{0, 3, 1, 4, 2, 7, 5, 8, 6}
	spinCCWSlot = [9]uint8{0, 2, 4, 1, 3, 6, 8, 5, 7}
)

// Tracker records which logical face is on which robot side, and where the
// DBL reference corner is. Vertical holds the faces at Up, Front and Down;
// Horizontal holds the faces at Left, Front and Right. Back is implied.
//
// A Tracker is a plain value: copy it to branch, and give every translation
// session its own.
type Tracker struct {
	Vertical   [3]cube.Face
	Horizontal [3]cube.Face
	Slot       uint8
}

const (
	vUp, vFront, vDown    = 0, 1, 2
	hLeft, hFront, hRight = 0, 1, 2
	bottomSlots           = 5
)

// FaceAt returns the logical face currently on side s.
func (t *Tracker) FaceAt(s Side) cube.Face {
	switch s {
	case Up:
		return t.Vertical[vUp]
	case Down:
		return t.Vertical[vDown]
	case Left:
		return t.Horizontal[hLeft]
	case Right:
		return t.Horizontal[hRight]
	case Back:
		return t.Vertical[vFront].Opposite()
	default:
		return t.Vertical[vFront]
	}
}

// SideOf returns the robot side holding logical face f. The five tracked
// sides are searched first; a face not among them must be at Back.
func (t *Tracker) SideOf(f cube.Face) (Side, error) {
	for i, s := range [3]Side{Left, Front, Right} {
		if t.Horizontal[i] == f {
			return s, nil
		}
	}
	for i, s := range [3]Side{Up, Front, Down} {
		if t.Vertical[i] == f {
			return s, nil
		}
	}
	if f == t.Vertical[vFront].Opposite() {
		return Back, nil
	}
	return 0, fmt.Errorf("%w: face %s is on no side of %s", ErrInvariant, f, t)
}

// Validate checks that the six sides hold six distinct faces in opposite
// pairs and that the reference slot exists.
func (t *Tracker) Validate() error {
	if t.Vertical[vFront] != t.Horizontal[hFront] {
		return fmt.Errorf("%w: front is %s and %s", ErrInvariant, t.Vertical[vFront], t.Horizontal[hFront])
	}
	if t.Slot < 1 || t.Slot > 8 {
		return fmt.Errorf("%w: reference slot %d", ErrInvariant, t.Slot)
	}
	var seen [cube.NumFaces]bool
	for s := Side(0); s < NumSides; s++ {
		f := t.FaceAt(s)
		if f >= cube.NumFaces || seen[f] {
			return fmt.Errorf("%w: %s", ErrInvariant, t)
		}
		seen[f] = true
	}
	for _, pair := range [3][2]Side{{Up, Down}, {Left, Right}, {Front, Back}} {
		if t.FaceAt(pair[0]).Opposite() != t.FaceAt(pair[1]) {
			return fmt.Errorf("%w: %s and %s are not opposite in %s", ErrInvariant, pair[0], pair[1], t)
		}
	}
	return nil
}

// Flip rolls the cube so the front face ends up at Down, n times.
func (t *Tracker) Flip(n int) {
	for i := 0; i < n; i++ {
		t.Vertical[vDown] = t.Vertical[vFront]
		t.Vertical[vFront] = t.Vertical[vUp]
		t.Vertical[vUp] = t.Vertical[vDown].Opposite()
		t.Horizontal[hFront] = t.Vertical[vFront]
		t.Slot = flipSlot[t.Slot]
	}
}

// Spin turns the whole cube on the holder. Clockwise (seen from below)
// moves the front face to Right.
func (t *Tracker) Spin(clockwise bool) {
	if clockwise {
		t.Horizontal[hRight] = t.Horizontal[hFront]
		t.Horizontal[hFront] = t.Horizontal[hLeft]
		t.Horizontal[hLeft] = t.Horizontal[hRight].Opposite()
		t.Slot = spinCWSlot[t.Slot]
	} else {
		t.Horizontal[hLeft] = t.Horizontal[hFront]
		t.Horizontal[hFront] = t.Horizontal[hRight]
		t.Horizontal[hRight] = t.Horizontal[hLeft].Opposite()
		t.Slot = spinCCWSlot[t.Slot]
	}
	t.Vertical[vFront] = t.Horizontal[hFront]
}

// Rotate accounts for a bottom layer turn. The faces only move relative to
// the frame when the reference corner is in the turned layer; the frame then
// follows the corner, which reads as a spin.
func (t *Tracker) Rotate(clockwise bool) {
	if t.Slot >= bottomSlots {
		t.Spin(clockwise)
	}
}

// Apply replays one primitive.
func (t *Tracker) Apply(p Primitive) {
	switch p.Kind {
	case Flip:
		t.Flip(int(p.N))
	case Spin:
		if p.N == 3 {
			t.Spin(false)
			return
		}
		for i := uint8(0); i < p.N; i++ {
			t.Spin(true)
		}
	case Rotate:
		if p.N == 3 {
			t.Rotate(false)
			return
		}
		for i := uint8(0); i < p.N; i++ {
			t.Rotate(true)
		}
	}
}

// ApplyProgram replays every primitive of prog.
func (t *Tracker) ApplyProgram(prog Program) {
	for _, p := range prog {
		t.Apply(p)
	}
}

func (t Tracker) String() string {
	return fmt.Sprintf("U:%s F:%s D:%s L:%s R:%s slot:%d",
		t.Vertical[vUp], t.Vertical[vFront], t.Vertical[vDown],
		t.Horizontal[hLeft], t.Horizontal[hRight], t.Slot)
}
